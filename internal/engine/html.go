package engine

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"strings"

	"github.com/jjfiv/quizdown/pkg/quiz"
	"github.com/jjfiv/quizdown/pkg/render"
	"github.com/jjfiv/quizdown/pkg/render/template"
	"github.com/jjfiv/quizdown/pkg/render/template/gotemplate"
	"github.com/jjfiv/quizdown/pkg/sanitize"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

const (
	snippetTemplate = "snippet.html"
	fullTemplate    = "full.html"
)

// TemplatesFS exposes the built-in HTML templates.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(fmt.Sprintf("engine: templates fs: %v", err))
	}
	return sub
}

type htmlOption struct {
	ID      string `json:"id"`
	Correct bool   `json:"correct"`
	Content string `json:"content"`
}

type htmlQuestion struct {
	ID      string       `json:"id"`
	Prompt  string       `json:"prompt"`
	ListTag string       `json:"list_tag"`
	Options []htmlOption `json:"options"`
}

type htmlView struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Questions []htmlQuestion `json:"questions"`
}

// htmlRenderer previews a quiz as checkbox lists. Correct options render
// checked, so the preview doubles as an answer key.
type htmlRenderer struct {
	templates template.TemplateRenderer
	full      bool
}

func newHTMLRenderers(files fs.FS, dir string) (snippet, full *htmlRenderer, err error) {
	engine, err := gotemplate.New(
		gotemplate.WithFS(files),
		gotemplate.WithBaseDir(dir),
		gotemplate.WithName("quizdown-html"),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("engine: load templates: %w", err)
	}
	for _, name := range []string{snippetTemplate, fullTemplate} {
		if !engine.Has(name) {
			return nil, nil, fmt.Errorf("engine: missing template %s%s", name, gotemplate.DefaultExtension)
		}
	}
	return &htmlRenderer{templates: engine}, &htmlRenderer{templates: engine, full: true}, nil
}

func (r *htmlRenderer) Format() render.Format {
	if r.full {
		return render.FormatHTMLFull
	}
	return render.FormatHTMLSnippet
}

func (r *htmlRenderer) ContentType() string { return "text/html; charset=utf-8" }

func (r *htmlRenderer) Render(_ context.Context, doc quiz.Quiz) ([]byte, error) {
	snippet, err := r.templates.RenderTemplate(snippetTemplate, buildHTMLView(doc))
	if err != nil {
		return nil, err
	}
	if !r.full {
		return []byte(snippet), nil
	}
	page, err := r.templates.RenderTemplate(fullTemplate, map[string]any{
		"name": doc.Name,
		"body": snippet,
	})
	if err != nil {
		return nil, err
	}
	return []byte(page), nil
}

func buildHTMLView(doc quiz.Quiz) htmlView {
	prefix := htmlID(doc.Name)
	view := htmlView{
		ID:        prefix,
		Name:      doc.Name,
		Questions: make([]htmlQuestion, 0, len(doc.Questions)),
	}
	for i, question := range doc.Questions {
		qid := fmt.Sprintf("%s-q%d", prefix, i)
		entry := htmlQuestion{
			ID:      qid,
			Prompt:  sanitize.Content(question.Prompt),
			ListTag: "ul",
			Options: make([]htmlOption, 0, len(question.Options)),
		}
		if question.Ordered {
			entry.ListTag = "ol"
		}
		for j, opt := range question.Options {
			entry.Options = append(entry.Options, htmlOption{
				ID:      fmt.Sprintf("%s-o%d", qid, j),
				Correct: opt.Correct,
				Content: sanitize.Content(opt.Content),
			})
		}
		view.Questions = append(view.Questions, entry)
	}
	return view
}

var nonIDChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// htmlID derives an element id prefix from a quiz name.
func htmlID(name string) string {
	id := strings.Trim(nonIDChars.ReplaceAllString(name, "-"), "-")
	if id == "" {
		return "quiz"
	}
	return "quiz-" + id
}
