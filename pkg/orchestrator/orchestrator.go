package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/jjfiv/quizdown/internal/engine"
	"github.com/jjfiv/quizdown/pkg/boundary"
	"github.com/jjfiv/quizdown/pkg/invoker"
	"github.com/jjfiv/quizdown/pkg/qti"
	"github.com/jjfiv/quizdown/pkg/quiz"
	"github.com/jjfiv/quizdown/pkg/render"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithNative replaces the in-process engine with another native component.
func WithNative(native boundary.Native) Option {
	return func(o *Orchestrator) {
		o.native = native
	}
}

// WithAssembler injects a preconfigured QTI assembler.
func WithAssembler(assembler *qti.Assembler) Option {
	return func(o *Orchestrator) {
		o.assembler = assembler
	}
}

// WithConfiguration sets the render configuration used when a request does
// not carry its own.
func WithConfiguration(cfg invoker.Configuration) Option {
	return func(o *Orchestrator) {
		o.config = cfg
	}
}

// WithTransformers registers transformers that run, in order, on every
// parsed quiz.
func WithTransformers(transformers ...Transformer) Option {
	return func(o *Orchestrator) {
		o.transformers = append(o.transformers, transformers...)
	}
}

// WithIDGenerator overrides the generator used for question and option
// identifiers.
func WithIDGenerator(gen quiz.IDGenerator) Option {
	return func(o *Orchestrator) {
		o.newID = gen
	}
}

// WithLogger routes pipeline diagnostics, including those of the default
// engine, invoker and assembler, to logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates render and packaging requests. Missing stages are
// initialised with the built-in implementations so callers can start with a
// single constructor call.
type Orchestrator struct {
	native        boundary.Native
	invoker       *invoker.Invoker
	assembler     *qti.Assembler
	config        invoker.Configuration
	transformers  []Transformer
	newID         quiz.IDGenerator
	logger        *log.Logger
	initialiseErr error
}

// New constructs an Orchestrator. Initialisation failures surface on the
// first call.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		newID:  quiz.NewID,
		logger: log.New(io.Discard),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one render call.
type Request struct {
	Input  string
	Name   string
	Format render.Format
	// Config overrides the orchestrator configuration when non-nil.
	Config invoker.Configuration
}

// Render renders a single document. Errors keep their boundary types.
func (o *Orchestrator) Render(ctx context.Context, req Request) (string, error) {
	if ctx == nil {
		return "", errors.New("orchestrator: context is required")
	}
	if err := o.initialiseErr; err != nil {
		return "", err
	}
	cfg := req.Config
	if cfg == nil {
		cfg = o.config
	}
	return o.invoker.Render(ctx, req.Input, req.Name, req.Format, cfg)
}

// Parse builds the quiz model of src and runs the transformers over it.
// Identifiers are not assigned.
func (o *Orchestrator) Parse(ctx context.Context, src Source) (quiz.Quiz, error) {
	if ctx == nil {
		return quiz.Quiz{}, errors.New("orchestrator: context is required")
	}
	if err := o.initialiseErr; err != nil {
		return quiz.Quiz{}, err
	}
	cfg := src.Config
	if cfg == nil {
		cfg = o.config
	}
	q, err := o.invoker.ParseQuiz(ctx, src.Text, src.Name, cfg)
	if err != nil {
		return quiz.Quiz{}, fmt.Errorf("orchestrator: parse %q: %w", src.Name, err)
	}
	for _, t := range o.transformers {
		if t == nil {
			continue
		}
		if err := t.Transform(ctx, &q); err != nil {
			return quiz.Quiz{}, fmt.Errorf("orchestrator: transform %q: %w", src.Name, err)
		}
	}
	return q, nil
}

// Quizzes parses every source and assigns identifiers, ready for packaging.
func (o *Orchestrator) Quizzes(ctx context.Context, sources []Source) ([]quiz.Quiz, error) {
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	quizzes := make([]quiz.Quiz, 0, len(sources))
	for _, src := range sources {
		q, err := o.Parse(ctx, src)
		if err != nil {
			return nil, err
		}
		quiz.AssignWith(&q, o.newID)
		o.logger.Debug("parsed quiz", "name", q.Name, "questions", len(q.Questions))
		quizzes = append(quizzes, q)
	}
	return quizzes, nil
}

// Package writes a QTI package of sources to w.
func (o *Orchestrator) Package(ctx context.Context, sources []Source, w io.Writer) error {
	quizzes, err := o.Quizzes(ctx, sources)
	if err != nil {
		return err
	}
	return o.assembler.Assemble(ctx, quizzes, w)
}

// PackageBytes returns a QTI package of sources.
func (o *Orchestrator) PackageBytes(ctx context.Context, sources []Source) ([]byte, error) {
	var buf bytes.Buffer
	if err := o.Package(ctx, sources, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PackageFile writes a QTI package of sources to path. Parsing happens
// before the file is touched, so a bad source leaves no output.
func (o *Orchestrator) PackageFile(ctx context.Context, path string, sources []Source) error {
	quizzes, err := o.Quizzes(ctx, sources)
	if err != nil {
		return err
	}
	return o.assembler.WriteFile(ctx, path, quizzes)
}

// Themes lists the syntax themes the native component accepts.
func (o *Orchestrator) Themes() ([]string, error) {
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	return o.invoker.AvailableThemes()
}

// DefaultConfig returns the native default configuration.
func (o *Orchestrator) DefaultConfig() (map[string]any, error) {
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	return o.invoker.DefaultConfig()
}

// Formats lists the output formats Render accepts.
func (o *Orchestrator) Formats() []render.Format {
	return render.Formats()
}

func (o *Orchestrator) applyDefaults() {
	if o.newID == nil {
		o.newID = quiz.NewID
	}
	if o.native == nil {
		eng, err := engine.New(engine.WithLogger(o.logger))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default engine: %w", err)
			return
		}
		o.native = eng
	}

	inv, err := invoker.New(o.native, invoker.WithLogger(o.logger))
	if err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: invoker: %w", err)
		return
	}
	o.invoker = inv

	if o.assembler == nil {
		assembler, err := qti.New(qti.WithLogger(o.logger))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default assembler: %w", err)
			return
		}
		o.assembler = assembler
	}
}
