package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jjfiv/quizdown/pkg/orchestrator"
	"github.com/jjfiv/quizdown/pkg/render"
)

var formatAliases = map[string]render.Format{
	"html":    render.FormatHTMLFull,
	"snippet": render.FormatHTMLSnippet,
	"moodle":  render.FormatMoodleXML,
	"json":    render.FormatJSON,
}

// resolveFormat picks the output format from --format, falling back to the
// output file extension.
func resolveFormat(flag, output string) (render.Format, error) {
	if raw := strings.TrimSpace(flag); raw != "" {
		if format, ok := formatAliases[strings.ToLower(raw)]; ok {
			return format, nil
		}
		return render.ParseFormat(raw)
	}
	if output != "" && output != "-" {
		if format, ok := render.FormatForExtension(filepath.Ext(output)); ok {
			return format, nil
		}
	}
	return "", fmt.Errorf("cannot infer the output format; pass --format (html, snippet, moodle, json) or an output file ending in .html, .moodle or .json")
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		format string
		output string
		name   string
	)
	cmd := &cobra.Command{
		Use:   "render INPUT",
		Short: "Render a quiz as HTML, Moodle XML or JSON",
		Long: `Render a quiz file ("-" reads stdin). The format is taken from --format or
guessed from the output file extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveFormat(format, output)
			if err != nil {
				return err
			}
			src, err := a.readInput(args[0])
			if err != nil {
				return err
			}
			if name != "" {
				src.Name = name
			}

			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			out, err := orch.Render(cmd.Context(), orchestrator.Request{
				Input:  src.Text,
				Name:   src.Name,
				Format: resolved,
			})
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = fmt.Fprintln(a.stdout, out)
				return err
			}
			if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			a.logger.Info("wrote output", "path", output, "format", resolved)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: html, snippet, moodle, json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file; stdout when empty")
	cmd.Flags().StringVar(&name, "name", "", "quiz name; defaults to the input file name")
	return cmd
}
