package preview

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jjfiv/quizdown/pkg/boundary"
	"github.com/jjfiv/quizdown/pkg/boundary/boundarytest"
	"github.com/jjfiv/quizdown/pkg/orchestrator"
	"github.com/jjfiv/quizdown/pkg/qti"
	"github.com/jjfiv/quizdown/pkg/testsupport"
)

const sample = "## What is 2 + 2?\n - [ ] 3\n - [x] 4\n"

func newServer(t *testing.T, orch *orchestrator.Orchestrator, opts ...Option) http.Handler {
	t.Helper()
	if orch == nil {
		orch = orchestrator.New()
	}
	srv, err := New(orch, opts...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv.Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body["error"]
}

func TestIndex(t *testing.T) {
	rec := do(t, newServer(t, nil), http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<title>quizdown preview</title>") {
		t.Fatalf("unexpected index page:\n%s", rec.Body.String())
	}
}

func TestRender(t *testing.T) {
	h := newServer(t, nil)

	rec := do(t, h, http.MethodPost, "/render?format=HtmlSnippet&name=math", sample)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %s", got)
	}
	if !strings.Contains(rec.Body.String(), "checked") {
		t.Fatalf("expected a checked option:\n%s", rec.Body.String())
	}

	rec = do(t, h, http.MethodPost, "/render?format=json&name=math", sample)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected json response %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	var doc struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil || doc.Name != "math" {
		t.Fatalf("unexpected json body %s (%v)", rec.Body.String(), err)
	}
}

func TestRender_ErrorStatus(t *testing.T) {
	h := newServer(t, nil)

	rec := do(t, h, http.MethodPost, "/render?format=Pdf", sample)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown format, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/render", "## no options\n")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for a parse error, got %d", rec.Code)
	}
	if msg := decodeError(t, rec); !strings.HasPrefix(msg, "Parsing Error: NoOptionsFound") {
		t.Fatalf("unexpected error message %q", msg)
	}

	rec = do(t, h, http.MethodPost, "/render?theme=no-such-theme", sample)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown theme, got %d", rec.Code)
	}

	small := newServer(t, nil, WithMaxBodyBytes(4))
	rec = do(t, small, http.MethodPost, "/render", sample)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized body, got %d", rec.Code)
	}
}

func TestRender_NativeIntegrityFailureIs500(t *testing.T) {
	fake := boundarytest.New()
	fake.Respond = func(f *boundarytest.Fake, _ boundarytest.Call) *boundary.RawResult {
		return &boundary.RawResult{}
	}
	rec := do(t, newServer(t, orchestrator.New(orchestrator.WithNative(fake))), http.MethodPost, "/render", sample)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestQTI(t *testing.T) {
	rec := do(t, newServer(t, nil), http.MethodPost, "/qti?name=week_1", sample)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="week_1.qti.zip"` {
		t.Fatalf("unexpected disposition %s", got)
	}

	entries := testsupport.MustReadZip(t, rec.Body.Bytes())
	want := []string{"imsmanifest.xml", "week_1/", "week_1/assessment_meta.xml", "week_1/week_1.xml"}
	if diff := cmp.Diff(want, testsupport.SortedKeys(entries)); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
	pkg, err := qti.ReadPackage(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("read package: %v", err)
	}
	if _, err := pkg.Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestQTI_UnusableNameIs400(t *testing.T) {
	fake := boundarytest.New()
	h := newServer(t, orchestrator.New(orchestrator.WithNative(fake)))

	for _, name := range []string{"a/b", "..", `a\b`} {
		rec := do(t, h, http.MethodPost, "/qti?name="+url.QueryEscape(name), sample)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("name %q: expected 400, got %d: %s", name, rec.Code, rec.Body.String())
		}
		if msg := decodeError(t, rec); !strings.Contains(msg, "invalid name") {
			t.Fatalf("name %q: unexpected error message %q", name, msg)
		}
	}
	if n := len(fake.Calls()); n != 0 {
		t.Fatalf("expected no native calls, got %d", n)
	}
}

func TestWriteError_InvalidIdentifierIs400(t *testing.T) {
	srv, err := New(orchestrator.New())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	rec := httptest.NewRecorder()
	srv.writeError(rec, fmt.Errorf("orchestrator: package: %w", qti.ErrInvalidIdentifier))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestThemesAndConfig(t *testing.T) {
	h := newServer(t, orchestrator.New(orchestrator.WithNative(boundarytest.New())))

	rec := do(t, h, http.MethodGet, "/themes", "")
	var themes struct {
		Themes []string `json:"themes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &themes); err != nil {
		t.Fatalf("decode themes: %v", err)
	}
	if diff := cmp.Diff([]string{"github", "monokai", "dracula"}, themes.Themes); diff != "" {
		t.Fatalf("themes mismatch (-want +got):\n%s", diff)
	}

	rec = do(t, h, http.MethodGet, "/config", "")
	var defaults map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &defaults); err != nil {
		t.Fatalf("decode config: %v", err)
	}
	want := map[string]any{"syntax": map[string]any{"theme": "github", "default_lang": "text"}}
	if diff := cmp.Diff(want, defaults); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestCORS(t *testing.T) {
	h := newServer(t, nil, WithAllowedOrigins("http://localhost:3000"))
	req := httptest.NewRequest(http.MethodGet, "/themes", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
}

func TestNew_RequiresOrchestrator(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error")
	}
}
