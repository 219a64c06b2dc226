package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jjfiv/quizdown/internal/engine"
	"github.com/jjfiv/quizdown/pkg/qti"
)

func newTemplatesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "templates DIR",
		Short: "Copy the built-in templates into a directory",
		Long: `Copy the built-in HTML and QTI templates into DIR. Edit any of them and
pass the directory back with --templates; templates removed from DIR fall
back to the built-in ones. Existing files are never overwritten.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}
			if err := os.CopyFS(dir, engine.TemplatesFS()); err != nil {
				return fmt.Errorf("copy html templates: %w", err)
			}
			if err := os.CopyFS(dir, qti.TemplatesFS()); err != nil {
				return fmt.Errorf("copy qti templates: %w", err)
			}
			_, err := fmt.Fprintf(a.stdout, "wrote templates to %s\n", dir)
			return err
		},
	}
}
