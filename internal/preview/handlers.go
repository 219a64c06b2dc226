package preview

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jjfiv/quizdown/pkg/boundary"
	"github.com/jjfiv/quizdown/pkg/orchestrator"
	"github.com/jjfiv/quizdown/pkg/qti"
	"github.com/jjfiv/quizdown/pkg/render"
)

const defaultName = "quiz"

// GET /
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	page, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// POST /render?format=HtmlFull&name=quiz&theme=&lang=
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := render.FormatHTMLFull
	if raw := strings.TrimSpace(r.URL.Query().Get("format")); raw != "" {
		parsed, err := render.ParseFormat(raw)
		if err != nil {
			s.writeError(w, boundary.Invalid("format", raw, err.Error()))
			return
		}
		format = parsed
	}

	cfg, err := s.requestConfiguration(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	input, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	out, err := s.orch.Render(r.Context(), orchestrator.Request{
		Input:  input,
		Name:   quizName(r),
		Format: format,
		Config: cfg,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	_, _ = io.WriteString(w, out)
}

// POST /qti?name=quiz&theme=&lang=
func (s *Server) handleQTI(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.requestConfiguration(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	name := quizName(r)
	if err := qti.ValidateIdentifier(name); err != nil {
		s.writeError(w, boundary.Invalid("name", name, "must be usable as an archive directory"))
		return
	}
	input, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	pkg, err := s.orch.PackageBytes(r.Context(), []orchestrator.Source{{Name: name, Text: input, Config: cfg}})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".qti.zip"))
	_, _ = w.Write(pkg)
}

// GET /themes
func (s *Server) handleThemes(w http.ResponseWriter, _ *http.Request) {
	themes, err := s.orch.Themes()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"themes": themes})
}

// GET /config
func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	defaults, err := s.orch.DefaultConfig()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, defaults)
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) (string, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", boundary.Invalid("body", tooLarge.Limit, "request body too large")
		}
		return "", fmt.Errorf("preview: read body: %w", err)
	}
	return string(body), nil
}

// writeError maps validation errors to 400, renderer failures to 422 and
// everything else to 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, boundary.ErrValidation), errors.Is(err, qti.ErrInvalidIdentifier):
		status = http.StatusBadRequest
	case errors.Is(err, boundary.ErrApplication):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func quizName(r *http.Request) string {
	if name := strings.TrimSpace(r.URL.Query().Get("name")); name != "" {
		return name
	}
	return defaultName
}

func contentType(format render.Format) string {
	switch format {
	case render.FormatMoodleXML:
		return "application/xml"
	case render.FormatJSON:
		return "application/json"
	default:
		return "text/html; charset=utf-8"
	}
}
