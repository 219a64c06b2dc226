package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jjfiv/quizdown/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the default render configuration",
		Long: `Print the default render configuration. Save it, edit it and pass it back
with --render-config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			defaults, err := orch.DefaultConfig()
			if err != nil {
				return err
			}

			var out []byte
			switch strings.ToLower(format) {
			case "yaml", "yml":
				out, err = config.MarshalRenderConfig(defaults)
			case "json":
				out, err = json.MarshalIndent(defaults, "", "  ")
				out = append(out, '\n')
			default:
				return fmt.Errorf("unknown config format %q; use yaml or json", format)
			}
			if err != nil {
				return err
			}
			_, err = a.stdout.Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "yaml or json")
	return cmd
}
