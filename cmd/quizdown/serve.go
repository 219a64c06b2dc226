package main

import (
	"github.com/spf13/cobra"

	"github.com/jjfiv/quizdown/internal/preview"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the preview server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			renderCfg, err := a.cfg.RenderConfiguration()
			if err != nil {
				return err
			}
			srv, err := preview.New(orch,
				preview.WithLogger(a.logger),
				preview.WithConfiguration(renderCfg),
				preview.WithAllowedOrigins(a.cfg.Serve.AllowedOrigins...),
			)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(cmd.Context(), a.cfg.Serve.Addr)
		},
	}
	cmd.Flags().String("addr", "127.0.0.1:8080", "listen address")
	return cmd
}
