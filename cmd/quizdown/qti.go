package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jjfiv/quizdown/pkg/orchestrator"
	"github.com/jjfiv/quizdown/pkg/qti"
)

func newQTICmd(a *app) *cobra.Command {
	var (
		title  string
		verify bool
	)
	cmd := &cobra.Command{
		Use:   "qti INPUT...",
		Short: "Package quizzes as a QTI archive",
		Long: `Package one or more quiz files into a QTI 1.2 archive for import into a
learning management system. Each quiz is named after its file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources := make([]orchestrator.Source, 0, len(args))
			for _, path := range args {
				src, err := a.readInput(path)
				if err != nil {
					return err
				}
				sources = append(sources, src)
			}

			orch, err := a.orchestrator(qti.WithTitle(title))
			if err != nil {
				return err
			}
			output := a.cfg.Output
			if err := orch.PackageFile(cmd.Context(), output, sources); err != nil {
				return err
			}

			if !verify {
				_, err = fmt.Fprintf(a.stdout, "wrote %s\n", output)
				return err
			}
			pkg, err := qti.ReadPackageFile(output)
			if err != nil {
				return err
			}
			summaries, err := pkg.Verify()
			if err != nil {
				return err
			}
			for _, s := range summaries {
				if _, err := fmt.Fprintf(a.stdout, "%s\t%d questions\t%d options\n", s.UID, s.Questions, s.Options); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintf(a.stdout, "wrote %s (verified)\n", output)
			return err
		},
	}
	cmd.Flags().StringP("output", "o", "output.qti.zip", "output archive")
	cmd.Flags().String("collision", "overwrite", "duplicate quiz names: overwrite, reject or suffix")
	cmd.Flags().StringVar(&title, "title", qti.DefaultTitle, "package title")
	cmd.Flags().BoolVar(&verify, "verify", false, "read the archive back and check it")
	return cmd
}
