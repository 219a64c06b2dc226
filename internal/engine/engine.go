package engine

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/jjfiv/quizdown/pkg/boundary"
	"github.com/jjfiv/quizdown/pkg/quiz"
	"github.com/jjfiv/quizdown/pkg/render"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes engine diagnostics to logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTemplateDir loads HTML templates from dir first, falling back to the
// built-in templates.
func WithTemplateDir(dir string) Option {
	return func(e *Engine) {
		e.templateDir = strings.TrimSpace(dir)
	}
}

// Engine implements boundary.Native in process.
type Engine struct {
	heap     *heap
	logger   *log.Logger
	registry *render.Registry

	templateDir string

	mu      sync.Mutex
	parsers map[SyntaxOptions]*Parser
}

var _ boundary.Native = (*Engine)(nil)

// New constructs an Engine with the built-in renderers registered.
func New(options ...Option) (*Engine, error) {
	e := &Engine{
		heap:     newHeap(),
		logger:   log.New(io.Discard),
		registry: render.NewRegistry(),
		parsers:  make(map[SyntaxOptions]*Parser),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}

	snippet, full, err := newHTMLRenderers(TemplatesFS(), e.templateDir)
	if err != nil {
		return nil, err
	}
	for _, r := range []render.Renderer{snippet, full, moodleRenderer{}, jsonRenderer{}} {
		if err := e.registry.Register(r); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// AvailableThemes returns the highlighting styles, tab separated.
func (e *Engine) AvailableThemes() boundary.Pointer {
	return e.heap.allocString(strings.Join(Themes(), "\t"))
}

// DefaultConfig returns the default configuration as JSON.
func (e *Engine) DefaultConfig() boundary.Pointer {
	body, err := json.Marshal(DefaultConfig())
	if err != nil {
		// Config only holds strings.
		panic(err)
	}
	return e.heap.allocString(string(body))
}

// RenderQuiz parses input and renders it in the selected format. Failures
// become structured error payloads.
func (e *Engine) RenderQuiz(input, name, format, config []byte) *boundary.RawResult {
	out, err := e.render(input, name, format, config)
	if err == nil && strings.IndexByte(out, 0) >= 0 {
		err = newError(StageRendering, KindInteriorNul, "")
	}
	if err != nil {
		e.logger.Debug("render failed", "name", string(name), "err", err)
		return e.fail(err)
	}
	return e.heap.allocResult(&boundary.RawResult{Success: e.heap.allocString(out)})
}

func (e *Engine) render(input, name, format, config []byte) (string, error) {
	if !utf8.Valid(input) {
		return "", newError(StageInput, KindInvalidUTF8, "text")
	}
	if !utf8.Valid(name) {
		return "", newError(StageInput, KindInvalidUTF8, "name")
	}
	selected, err := render.DecodeSelector(format)
	if err != nil {
		return "", newError(StageFormat, KindMalformed, err.Error())
	}
	cfg, err := ParseConfig(config)
	if err != nil {
		return "", err
	}

	questions, err := e.Parse(input, cfg)
	if err != nil {
		return "", err
	}

	renderer, err := e.registry.Get(selected)
	if err != nil {
		return "", newError(StageRendering, KindInternal, err.Error())
	}
	out, err := renderer.Render(context.Background(), quiz.Quiz{Name: string(name), Questions: questions})
	if err != nil {
		var engineErr *Error
		if errors.As(err, &engineErr) {
			return "", engineErr
		}
		return "", newError(StageRendering, KindInternal, err.Error())
	}
	e.logger.Debug("rendered quiz", "name", string(name), "format", selected, "questions", len(questions), "bytes", len(out))
	return string(out), nil
}

// Parse parses markup with the parser for cfg's syntax options.
func (e *Engine) Parse(input []byte, cfg Config) ([]quiz.Question, error) {
	parser, err := e.parser(cfg.Syntax)
	if err != nil {
		return nil, err
	}
	return parser.Parse(input)
}

func (e *Engine) parser(opts SyntaxOptions) (*Parser, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if p, ok := e.parsers[opts]; ok {
		return p, nil
	}
	p, err := NewParser(opts)
	if err != nil {
		return nil, err
	}
	e.parsers[opts] = p
	return p, nil
}

func (e *Engine) fail(err error) *boundary.RawResult {
	var engineErr *Error
	if !errors.As(err, &engineErr) {
		return e.heap.allocResult(&boundary.RawResult{
			ErrorMessage: e.heap.allocString(err.Error()),
			ErrorKind:    boundary.ErrorKindPlain,
		})
	}
	return e.heap.allocResult(&boundary.RawResult{
		ErrorMessage: e.heap.allocString(engineErr.Payload()),
		ErrorKind:    boundary.ErrorKindStructured,
	})
}

// ReadString copies a string up to its terminator.
func (e *Engine) ReadString(p boundary.Pointer) ([]byte, error) {
	return e.heap.read(p)
}

// FreeString releases a string, reporting false for unknown addresses.
func (e *Engine) FreeString(p boundary.Pointer) bool {
	return e.heap.freeString(p)
}

// FreeResult releases a result wrapper. Releasing a wrapper twice is a
// caller bug and panics, as it would corrupt a real allocator.
func (e *Engine) FreeResult(r *boundary.RawResult) {
	if err := e.heap.freeResult(r); err != nil {
		e.logger.Error("invalid free", "err", err)
		panic(err)
	}
}

// Stats reports live allocations.
func (e *Engine) Stats() HeapStats {
	return e.heap.stats()
}

// Formats lists the formats the engine can render.
func (e *Engine) Formats() []render.Format {
	return e.registry.List()
}
