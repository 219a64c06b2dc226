package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newThemesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List syntax highlighting themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			themes, err := orch.Themes()
			if err != nil {
				return err
			}
			for _, theme := range themes {
				if _, err := fmt.Fprintln(a.stdout, theme); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
