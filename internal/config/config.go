package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jjfiv/quizdown/pkg/qti"
)

const (
	// AppName is the application name.
	AppName = "quizdown"
	// EnvPrefix prefixes every environment variable, e.g. QUIZDOWN_THEME.
	EnvPrefix = "QUIZDOWN"
	// ConfigFileName is the settings file name without extension.
	ConfigFileName = "quizdown"
	// DefaultOutput is where `quizdown qti` writes when no output is given.
	DefaultOutput = "output.qti.zip"
	// DefaultAddr is the preview server listen address.
	DefaultAddr = "127.0.0.1:8080"
)

// Config holds command line settings.
type Config struct {
	Theme        string      `mapstructure:"theme"`
	Lang         string      `mapstructure:"lang"`
	RenderConfig string      `mapstructure:"render_config"`
	Templates    string      `mapstructure:"templates"`
	Collision    string      `mapstructure:"collision"`
	Output       string      `mapstructure:"output"`
	Verbose      bool        `mapstructure:"verbose"`
	Serve        ServeConfig `mapstructure:"serve"`
}

// ServeConfig configures the preview server.
type ServeConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Collision: qti.Overwrite.String(),
		Output:    DefaultOutput,
		Serve: ServeConfig{
			Addr:           DefaultAddr,
			AllowedOrigins: []string{"*"},
		},
	}
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// ConfigFilePath names a settings file to use exclusively. It must exist.
	ConfigFilePath string
	// SearchDirs are searched for quizdown.{yaml,yml,json} when no explicit
	// file is given. Defaults to the working directory.
	SearchDirs []string
	// Flags, when set, override file and environment values for the flags
	// that were changed on the command line.
	Flags *pflag.FlagSet
}

// flagKeys maps settings keys to command line flag names.
var flagKeys = map[string]string{
	"theme":         "theme",
	"lang":          "lang",
	"render_config": "render-config",
	"templates":     "templates",
	"collision":     "collision",
	"output":        "output",
	"verbose":       "verbose",
	"serve.addr":    "addr",
}

// Load resolves settings with precedence flags > environment > file >
// defaults. It returns the settings file used, if any.
func Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("config: load canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault("theme", defaults.Theme)
	v.SetDefault("lang", defaults.Lang)
	v.SetDefault("render_config", defaults.RenderConfig)
	v.SetDefault("templates", defaults.Templates)
	v.SetDefault("collision", defaults.Collision)
	v.SetDefault("output", defaults.Output)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("serve.addr", defaults.Serve.Addr)
	v.SetDefault("serve.allowed_origins", defaults.Serve.AllowedOrigins)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath := ""
	if opts.ConfigFilePath != "" {
		if _, err := os.Stat(opts.ConfigFilePath); err != nil {
			return nil, "", fmt.Errorf("config: settings file: %w", err)
		}
		v.SetConfigFile(opts.ConfigFilePath)
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("config: read %s: %w", opts.ConfigFilePath, err)
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		v.SetConfigName(ConfigFileName)
		dirs := opts.SearchDirs
		if len(dirs) == 0 {
			dirs = []string{"."}
		}
		for _, dir := range dirs {
			v.AddConfigPath(dir)
		}
		err := v.ReadInConfig()
		var notFound viper.ConfigFileNotFoundError
		switch {
		case err == nil:
			resolvedPath = v.ConfigFileUsed()
		case errors.As(err, &notFound):
		default:
			return nil, "", fmt.Errorf("config: read settings: %w", err)
		}
	}

	if opts.Flags != nil {
		for key, name := range flagKeys {
			flag := opts.Flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, "", fmt.Errorf("config: bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("config: parse settings: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, resolvedPath, nil
}

// Validate checks values that have a closed set of choices.
func (c Config) Validate() error {
	if _, err := qti.ParseCollisionPolicy(c.Collision); err != nil {
		return fmt.Errorf("config: collision: %w", err)
	}
	if strings.TrimSpace(c.Output) == "" {
		return errors.New("config: output must not be empty")
	}
	return nil
}

// CollisionPolicy returns the parsed collision setting.
func (c Config) CollisionPolicy() qti.CollisionPolicy {
	policy, _ := qti.ParseCollisionPolicy(c.Collision)
	return policy
}
