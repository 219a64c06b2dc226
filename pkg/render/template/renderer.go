package template

import (
	"io"
)

// TemplateRenderer renders named templates. Output is returned and also
// copied to every writer in out.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	// Has reports whether a template with this name can be loaded.
	Has(name string) bool
}
