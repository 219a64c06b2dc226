package engine

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultTheme and DefaultLang seed the default configuration.
const (
	DefaultTheme = "github"
	DefaultLang  = "text"
)

// SyntaxOptions controls code highlighting.
type SyntaxOptions struct {
	Theme       string `json:"theme"`
	DefaultLang string `json:"default_lang"`
}

// Config is the render configuration. Unknown keys are ignored.
type Config struct {
	Syntax SyntaxOptions `json:"syntax"`
}

// DefaultConfig returns the configuration used when the caller sends none.
func DefaultConfig() Config {
	return Config{
		Syntax: SyntaxOptions{Theme: DefaultTheme, DefaultLang: DefaultLang},
	}
}

// ParseConfig decodes a configuration object over the defaults, so missing
// keys keep their default values, and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, newError(StageConfig, KindMalformed, err.Error())
	}
	if strings.TrimSpace(cfg.Syntax.DefaultLang) == "" {
		cfg.Syntax.DefaultLang = DefaultLang
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the theme is a known highlighting style.
func (c Config) Validate() error {
	if _, ok := styles.Registry[c.Syntax.Theme]; !ok {
		return newError(StageParsing, KindMissingSyntaxTheme, c.Syntax.Theme)
	}
	return nil
}

// Themes lists the highlighting styles in lexical order.
func Themes() []string {
	names := styles.Names()
	sort.Strings(names)
	return names
}
