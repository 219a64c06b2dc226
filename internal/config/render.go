package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jjfiv/quizdown/pkg/invoker"
)

// LoadRenderConfig reads a render configuration file. YAML and JSON are both
// accepted; the top level must be a mapping.
func LoadRenderConfig(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read render config: %w", err)
	}
	return ParseRenderConfig(data)
}

// ParseRenderConfig decodes YAML or JSON render configuration.
func ParseRenderConfig(data []byte) (map[string]any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: parse render config: %w", err)
	}
	if doc == nil {
		return map[string]any{}, nil
	}
	out, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("config: render config must be a mapping, got %T", doc)
	}
	return out, nil
}

// RenderConfiguration builds the configuration passed to the renderer: the
// render config file, if any, with the theme and language settings applied
// on top. It returns nil when nothing is configured, which selects the
// native defaults.
func (c Config) RenderConfiguration() (invoker.Configuration, error) {
	var cfg invoker.Configuration
	if path := strings.TrimSpace(c.RenderConfig); path != "" {
		doc, err := LoadRenderConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = invoker.StructuredConfig(doc)
	}

	var err error
	if theme := strings.TrimSpace(c.Theme); theme != "" {
		if cfg, err = invoker.Override(cfg, "syntax.theme", theme); err != nil {
			return nil, err
		}
	}
	if lang := strings.TrimSpace(c.Lang); lang != "" {
		if cfg, err = invoker.Override(cfg, "syntax.default_lang", lang); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// MarshalRenderConfig encodes a render configuration as YAML.
func MarshalRenderConfig(cfg map[string]any) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: encode render config: %w", err)
	}
	return out, nil
}
