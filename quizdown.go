// Package quizdown turns markdown quizzes into HTML previews, Moodle XML,
// JSON and QTI packages.
//
// The root package is a thin layer over pkg/orchestrator for callers that
// want one import:
//
//	html, err := quizdown.Render(ctx, text, "week_1", quizdown.FormatHTMLFull)
//	zip, err := quizdown.BuildQTI(ctx, quizdown.Source{Name: "week_1", Text: text})
package quizdown

import (
	"context"
	"io/fs"

	"github.com/jjfiv/quizdown/internal/engine"
	"github.com/jjfiv/quizdown/pkg/invoker"
	"github.com/jjfiv/quizdown/pkg/orchestrator"
	"github.com/jjfiv/quizdown/pkg/qti"
	"github.com/jjfiv/quizdown/pkg/quiz"
	"github.com/jjfiv/quizdown/pkg/render"
)

// Format selects an output representation.
type Format = render.Format

const (
	FormatHTMLSnippet = render.FormatHTMLSnippet
	FormatHTMLFull    = render.FormatHTMLFull
	FormatMoodleXML   = render.FormatMoodleXML
	FormatJSON        = render.FormatJSON
)

// Quiz aliases the quiz model.
type Quiz = quiz.Quiz

// Source aliases orchestrator.Source.
type Source = orchestrator.Source

// Configuration aliases the render configuration variant.
type Configuration = invoker.Configuration

// StructuredConfig and RawConfig are the two Configuration shapes.
type (
	StructuredConfig = invoker.StructuredConfig
	RawConfig        = invoker.RawConfig
)

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Render renders input with the default configuration.
func Render(ctx context.Context, input, name string, format Format, options ...orchestrator.Option) (string, error) {
	return orchestrator.New(options...).Render(ctx, orchestrator.Request{
		Input:  input,
		Name:   name,
		Format: format,
	})
}

// ParseQuiz returns the quiz model of input without identifiers.
func ParseQuiz(ctx context.Context, input, name string, options ...orchestrator.Option) (Quiz, error) {
	return orchestrator.New(options...).Parse(ctx, Source{Name: name, Text: input})
}

// SourceFromFile reads a quiz file; its name is the file name without
// extension.
func SourceFromFile(path string) (Source, error) {
	return orchestrator.SourceFromFile(path)
}

// BuildQTI packages sources into an in-memory QTI archive.
func BuildQTI(ctx context.Context, sources ...Source) ([]byte, error) {
	return orchestrator.New().PackageBytes(ctx, sources)
}

// WriteQTI packages sources into a QTI archive at path.
func WriteQTI(ctx context.Context, path string, sources ...Source) error {
	return orchestrator.New().PackageFile(ctx, path, sources)
}

// Themes lists the syntax highlighting themes.
func Themes() []string {
	return engine.Themes()
}

// HTMLTemplates exposes the built-in HTML preview templates.
func HTMLTemplates() fs.FS {
	return engine.TemplatesFS()
}

// QTITemplates exposes the built-in QTI package templates so callers can
// copy and adjust them for qti.WithTemplates.
func QTITemplates() fs.FS {
	return qti.TemplatesFS()
}
