package invoker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/jjfiv/quizdown/pkg/boundary"
	"github.com/jjfiv/quizdown/pkg/render"
)

// Invoker performs render calls against one native component.
type Invoker struct {
	native boundary.Native
	logger *log.Logger

	mu             sync.Mutex
	defaults       map[string]any
	defaultsLoaded bool
}

// New wraps a native component.
func New(native boundary.Native, options ...Option) (*Invoker, error) {
	if native == nil {
		return nil, errors.New("invoker: native component is required")
	}
	inv := &Invoker{
		native: native,
		logger: discardLogger(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(inv)
	}
	return inv, nil
}

// Render renders input in the requested format. The format and the shape of
// cfg are checked before the native side is called. Failures reported by the
// native renderer are returned as *boundary.ApplicationError, unwrapped.
func (inv *Invoker) Render(ctx context.Context, input, name string, format render.Format, cfg Configuration) (string, error) {
	if !format.Valid() {
		return "", boundary.Invalid("format", string(format), "expected one of HtmlSnippet, HtmlFull, MoodleXml, JSON")
	}
	if ctx == nil {
		return "", boundary.Invalid("ctx", nil, "a context is required")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	selector, err := render.EncodeSelector(format)
	if err != nil {
		return "", fmt.Errorf("invoker: encode format: %w", err)
	}
	configJSON, err := inv.resolveConfig(cfg)
	if err != nil {
		return "", err
	}

	inv.logger.Debug("render", "name", name, "format", format, "input_bytes", len(input))
	raw := inv.native.RenderQuiz([]byte(input), []byte(name), selector, configJSON)
	out, err := boundary.TakeResult(inv.native, raw)
	if err != nil {
		inv.logger.Debug("render failed", "name", name, "format", format, "err", err)
		return "", err
	}
	return out, nil
}

// AvailableThemes lists the syntax themes the native side accepts.
func (inv *Invoker) AvailableThemes() ([]string, error) {
	text, err := boundary.TakeString(inv.native, inv.native.AvailableThemes())
	if err != nil {
		return nil, err
	}
	var themes []string
	for _, theme := range strings.Split(text, "\t") {
		if theme = strings.TrimSpace(theme); theme != "" {
			themes = append(themes, theme)
		}
	}
	return themes, nil
}

// DefaultConfig returns a copy of the default configuration, fetching it
// from the native side on first use.
func (inv *Invoker) DefaultConfig() (map[string]any, error) {
	defaults, err := inv.loadDefaults()
	if err != nil {
		return nil, err
	}
	return cloneMap(defaults), nil
}

func (inv *Invoker) loadDefaults() (map[string]any, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if inv.defaultsLoaded {
		return inv.defaults, nil
	}

	text, err := boundary.TakeString(inv.native, inv.native.DefaultConfig())
	if err != nil {
		return nil, err
	}
	defaults := map[string]any{}
	if err := json.Unmarshal([]byte(text), &defaults); err != nil {
		return nil, &boundary.IntegrityError{Op: "default config", Err: err}
	}

	inv.defaults = defaults
	inv.defaultsLoaded = true
	inv.logger.Debug("fetched default configuration", "keys", len(defaults))
	return defaults, nil
}

func (inv *Invoker) resolveConfig(cfg Configuration) ([]byte, error) {
	switch c := cfg.(type) {
	case nil:
		defaults, err := inv.loadDefaults()
		if err != nil {
			return nil, err
		}
		return marshalConfig(defaults)
	case StructuredConfig:
		defaults, err := inv.loadDefaults()
		if err != nil {
			return nil, err
		}
		merged, err := mergeConfig(defaults, c, "")
		if err != nil {
			return nil, err
		}
		return marshalConfig(merged)
	case RawConfig:
		if !isJSONObject(string(c)) {
			return nil, boundary.Invalid("configuration", string(c), "not a JSON object")
		}
		return []byte(c), nil
	default:
		return nil, boundary.Invalid("configuration", fmt.Sprintf("%T", cfg), "unsupported configuration type")
	}
}

func marshalConfig(cfg map[string]any) ([]byte, error) {
	out, err := json.Marshal(cfg)
	if err != nil {
		return nil, boundary.Invalid("configuration", "mapping", err.Error())
	}
	return out, nil
}
