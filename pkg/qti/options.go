package qti

import (
	"io"
	"io/fs"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/jjfiv/quizdown/pkg/quiz"
)

// Option configures an Assembler.
type Option func(*Assembler)

// WithTemplates replaces the embedded templates. The fs must provide
// imsmanifest.xml.tmpl, assessment.xml.tmpl and assessment_meta.xml.tmpl.
func WithTemplates(files fs.FS) Option {
	return func(a *Assembler) {
		if files != nil {
			a.files = files
		}
	}
}

// WithTemplateDir loads templates from dir first, falling back to the
// embedded (or WithTemplates) set for any template dir does not provide.
func WithTemplateDir(dir string) Option {
	return func(a *Assembler) {
		a.dir = strings.TrimSpace(dir)
	}
}

// WithCollisionPolicy sets how duplicate quiz identifiers are handled.
func WithCollisionPolicy(policy CollisionPolicy) Option {
	return func(a *Assembler) {
		a.policy = policy
	}
}

// WithLogger routes assembly diagnostics to logger.
func WithLogger(logger *log.Logger) Option {
	return func(a *Assembler) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithIDGenerator sets the generator used for the manifest and assignment
// identifiers.
func WithIDGenerator(gen quiz.IDGenerator) Option {
	return func(a *Assembler) {
		if gen != nil {
			a.newID = gen
		}
	}
}

// WithTitle sets the package title written to the manifest metadata.
func WithTitle(title string) Option {
	return func(a *Assembler) {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			a.title = trimmed
		}
	}
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
