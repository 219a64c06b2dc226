package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jjfiv/quizdown/internal/config"
	"github.com/jjfiv/quizdown/internal/engine"
	"github.com/jjfiv/quizdown/pkg/orchestrator"
	"github.com/jjfiv/quizdown/pkg/qti"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfgFile string
	cfg     *config.Config
	logger  *log.Logger
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "quizdown",
		Short:         "Convert a markdown subset to formatted quiz questions",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `quizdown reads quizzes written as markdown task lists: every heading
starts a question and the task list that ends it holds the options, with
checked items marking the correct answers.

Examples:
  quizdown render week_1.md -o week_1.html
  quizdown render week_1.md -f moodle -o week_1.moodle
  quizdown qti week_1.md week_2.md -o course.qti.zip
  quizdown serve --addr :8080`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "settings file (default is ./quizdown.yaml)")
	flags.BoolP("verbose", "v", false, "enable debug logging on stderr")
	flags.String("theme", "", "syntax highlighting theme (see `quizdown themes`)")
	flags.String("lang", "", "default language for code blocks without one")
	flags.String("render-config", "", "YAML or JSON render configuration file")
	flags.String("templates", "", "directory of template overrides (see `quizdown templates`)")

	root.AddCommand(
		newRenderCmd(a),
		newQTICmd(a),
		newThemesCmd(a),
		newConfigCmd(a),
		newServeCmd(a),
		newPracticeCmd(a),
		newTemplatesCmd(a),
	)

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w\n\n%s", err, cmd.UsageString())
	})
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, path, err := config.Load(cmd.Context(), config.LoadOptions{
		ConfigFilePath: a.cfgFile,
		Flags:          cmd.Flags(),
	})
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := log.WarnLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}
	a.logger = log.NewWithOptions(a.stderr, log.Options{
		Level:  level,
		Prefix: config.AppName,
	})
	if path != "" {
		a.logger.Debug("loaded settings", "path", path)
	}
	return nil
}

// orchestrator builds the pipeline from the loaded settings. A configured
// theme must be one of the available themes.
func (a *app) orchestrator(opts ...qti.Option) (*orchestrator.Orchestrator, error) {
	renderCfg, err := a.cfg.RenderConfiguration()
	if err != nil {
		return nil, err
	}

	assemblerOpts := append([]qti.Option{
		qti.WithLogger(a.logger),
		qti.WithCollisionPolicy(a.cfg.CollisionPolicy()),
		qti.WithTemplateDir(a.cfg.Templates),
	}, opts...)
	assembler, err := qti.New(assemblerOpts...)
	if err != nil {
		return nil, err
	}

	native, err := engine.New(
		engine.WithLogger(a.logger),
		engine.WithTemplateDir(a.cfg.Templates),
	)
	if err != nil {
		return nil, err
	}

	orch := orchestrator.New(
		orchestrator.WithLogger(a.logger),
		orchestrator.WithNative(native),
		orchestrator.WithConfiguration(renderCfg),
		orchestrator.WithAssembler(assembler),
	)

	if theme := strings.TrimSpace(a.cfg.Theme); theme != "" {
		themes, err := orch.Themes()
		if err != nil {
			return nil, err
		}
		if !slices.Contains(themes, theme) {
			return nil, fmt.Errorf("unknown theme %q; run `quizdown themes` for the list", theme)
		}
	}
	return orch, nil
}

// readInput reads a file, or stdin for "-".
func (a *app) readInput(path string) (orchestrator.Source, error) {
	if path == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return orchestrator.Source{}, fmt.Errorf("read stdin: %w", err)
		}
		return orchestrator.Source{Name: "stdin", Text: string(data)}, nil
	}
	return orchestrator.SourceFromFile(path)
}
