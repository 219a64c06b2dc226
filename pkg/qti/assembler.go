package qti

import (
	"archive/zip"
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/jjfiv/quizdown/pkg/quiz"
	"github.com/jjfiv/quizdown/pkg/render/template"
	"github.com/jjfiv/quizdown/pkg/render/template/gotemplate"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// DefaultTitle names the package in the manifest metadata.
const DefaultTitle = "Quizdown Import"

var (
	// ErrDuplicateQuiz is returned under the Reject policy when two quizzes
	// share an identifier, or when a quiz identifier matches the metadata
	// resource identifier of another quiz.
	ErrDuplicateQuiz = errors.New("qti: duplicate quiz identifier")
	// ErrMissingTemplate is returned by New when a package template cannot
	// be found.
	ErrMissingTemplate = errors.New("qti: missing template")
	// ErrUnidentified is returned for quizzes that have not been through
	// quiz.Assign.
	ErrUnidentified = errors.New("qti: quiz is missing identifiers")
	// ErrInvalidIdentifier is returned for quiz identifiers that cannot be
	// used as an archive directory.
	ErrInvalidIdentifier = errors.New("qti: invalid quiz identifier")
)

// TemplatesFS exposes the built-in package templates.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(fmt.Sprintf("qti: templates fs: %v", err))
	}
	return sub
}

// Assembler writes QTI packages.
type Assembler struct {
	files     fs.FS
	dir       string
	templates template.TemplateRenderer
	policy    CollisionPolicy
	logger    *log.Logger
	newID     quiz.IDGenerator
	title     string
}

// New builds an Assembler over the embedded templates unless WithTemplates
// or WithTemplateDir supply others.
func New(opts ...Option) (*Assembler, error) {
	a := &Assembler{
		files:  TemplatesFS(),
		policy: Overwrite,
		logger: discardLogger(),
		newID:  quiz.NewID,
		title:  DefaultTitle,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	switch a.policy {
	case Overwrite, Reject, Suffix:
	default:
		return nil, fmt.Errorf("qti: unknown collision policy %s", a.policy)
	}

	engine, err := gotemplate.New(
		gotemplate.WithFS(a.files),
		gotemplate.WithBaseDir(a.dir),
		gotemplate.WithName("quizdown-qti"),
	)
	if err != nil {
		return nil, fmt.Errorf("qti: load templates: %w", err)
	}
	for _, name := range []string{manifestTemplate, assessmentTemplate, metaTemplate} {
		if !engine.Has(name) {
			return nil, fmt.Errorf("%w: %s%s", ErrMissingTemplate, name, gotemplate.DefaultExtension)
		}
	}
	a.templates = engine
	return a, nil
}

// Policy reports the configured collision policy.
func (a *Assembler) Policy() CollisionPolicy { return a.policy }

// Assemble writes a package holding quizzes to w. The manifest comes first,
// followed by three entries per quiz in input order: its directory, its
// assessment document and its metadata document. Any rendering failure
// aborts the assembly. The archive is closed on every path, so w may hold
// a truncated package after an error.
func (a *Assembler) Assemble(ctx context.Context, quizzes []quiz.Quiz, w io.Writer) (err error) {
	if w == nil {
		return errors.New("qti: nil writer")
	}
	staged, err := a.stage(quizzes)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	defer func() {
		if closeErr := zw.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("qti: close archive: %w", closeErr)
		}
	}()

	manifest, err := a.templates.RenderTemplate(manifestTemplate, a.manifestView(staged))
	if err != nil {
		return fmt.Errorf("qti: render manifest: %w", err)
	}
	if err := writeEntry(zw, ManifestPath, manifest); err != nil {
		return err
	}

	for _, q := range staged {
		if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := zw.Create(DirPath(q.UID)); err != nil {
			return fmt.Errorf("qti: create %s: %w", DirPath(q.UID), err)
		}

		assessment, err := a.templates.RenderTemplate(assessmentTemplate, assessmentViewOf(q))
		if err != nil {
			return fmt.Errorf("qti: render assessment %q: %w", q.UID, err)
		}
		if err := writeEntry(zw, AssessmentPath(q.UID), assessment); err != nil {
			return err
		}

		meta, err := a.templates.RenderTemplate(metaTemplate, a.metaViewOf(q))
		if err != nil {
			return fmt.Errorf("qti: render metadata %q: %w", q.UID, err)
		}
		if err := writeEntry(zw, MetaPath(q.UID), meta); err != nil {
			return err
		}
		a.logger.Debug("packaged quiz", "uid", q.UID, "questions", len(q.Questions))
	}
	return nil
}

// AssembleBytes returns the package as an in-memory archive.
func (a *Assembler) AssembleBytes(ctx context.Context, quizzes []quiz.Quiz) ([]byte, error) {
	var buf bytes.Buffer
	if err := a.Assemble(ctx, quizzes, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile assembles into a temporary file next to path and renames it
// into place. Nothing is left at path, or beside it, when assembly fails.
func (a *Assembler) WriteFile(ctx context.Context, path string, quizzes []quiz.Quiz) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".quizdown-*.qti.tmp")
	if err != nil {
		return fmt.Errorf("qti: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if err = a.Assemble(ctx, quizzes, tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("qti: close temp file: %w", err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("qti: chmod temp file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("qti: move package into place: %w", err)
	}
	a.logger.Info("wrote package", "path", path, "quizzes", len(quizzes))
	return nil
}

// stage applies the collision policy, returning one quiz per archive
// directory in first-seen order. Quiz identifiers and metadata resource
// identifiers share the manifest namespace, so a quiz whose identifier
// matches another quiz's metadata resource counts as a collision too.
func (a *Assembler) stage(quizzes []quiz.Quiz) ([]quiz.Quiz, error) {
	staged := make([]quiz.Quiz, 0, len(quizzes))
	index := make(map[string]int, len(quizzes))
	taken := make(map[string]struct{}, 2*len(quizzes))

	add := func(q quiz.Quiz) {
		index[q.UID] = len(staged)
		taken[q.UID] = struct{}{}
		taken[q.MetaID()] = struct{}{}
		staged = append(staged, q)
	}

	for _, q := range quizzes {
		if !q.Identified() {
			return nil, fmt.Errorf("%w: %q", ErrUnidentified, q.Name)
		}
		if err := ValidateIdentifier(q.UID); err != nil {
			return nil, err
		}

		pos, dup := index[q.UID]
		if !dup && !clashes(q, taken) {
			add(q)
			continue
		}

		switch {
		case a.policy == Reject:
			return nil, fmt.Errorf("%w: %q", ErrDuplicateQuiz, q.UID)
		case a.policy == Suffix, !dup:
			renamed := nextFreeUID(q.UID, taken)
			a.logger.Warn("quiz identifier already in use, renamed", "uid", q.UID, "renamed", renamed)
			q.UID = renamed
			add(q)
		default:
			a.logger.Warn("duplicate quiz identifier, later quiz replaces earlier", "uid", q.UID)
			staged[pos] = q
		}
	}
	return staged, nil
}

func clashes(q quiz.Quiz, taken map[string]struct{}) bool {
	_, uid := taken[q.UID]
	_, meta := taken[q.MetaID()]
	return uid || meta
}

// nextFreeUID returns base_N for the smallest N >= 2 whose quiz and metadata
// identifiers are both unused.
func nextFreeUID(base string, taken map[string]struct{}) string {
	for n := 2; ; n++ {
		candidate := quiz.Quiz{UID: fmt.Sprintf("%s_%d", base, n)}
		if !clashes(candidate, taken) {
			return candidate.UID
		}
	}
}

// ValidateIdentifier reports whether uid can name a quiz directory in the
// archive. Failures wrap ErrInvalidIdentifier.
func ValidateIdentifier(uid string) error {
	if strings.TrimSpace(uid) == "" || uid == "." || uid == ".." || strings.ContainsAny(uid, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, uid)
	}
	return nil
}

func writeEntry(zw *zip.Writer, name, body string) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("qti: create %s: %w", name, err)
	}
	if _, err := io.WriteString(f, body); err != nil {
		return fmt.Errorf("qti: write %s: %w", name, err)
	}
	return nil
}
