package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"

	"github.com/jjfiv/quizdown/pkg/invoker"
	"github.com/jjfiv/quizdown/pkg/qti"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Output != "output.qti.zip" {
		t.Errorf("expected default output output.qti.zip, got %s", cfg.Output)
	}
	if cfg.CollisionPolicy() != qti.Overwrite {
		t.Errorf("expected overwrite policy, got %s", cfg.CollisionPolicy())
	}
	if cfg.Serve.Addr != DefaultAddr {
		t.Errorf("expected default addr %s, got %s", DefaultAddr, cfg.Serve.Addr)
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, path, err := Load(context.Background(), LoadOptions{SearchDirs: []string{t.TempDir()}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if path != "" {
		t.Fatalf("expected no settings file, got %s", path)
	}
	if diff := cmp.Diff(DefaultConfig(), *cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "quizdown.yaml", "theme: dracula\nlang: python\ncollision: suffix\nserve:\n  addr: \":9000\"\n")
	t.Setenv("QUIZDOWN_LANG", "go")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("theme", "", "")
	flags.String("collision", "", "")
	if err := flags.Parse([]string{"--theme", "monokai"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, path, err := Load(context.Background(), LoadOptions{SearchDirs: []string{dir}, Flags: flags})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if path != filepath.Join(dir, "quizdown.yaml") {
		t.Fatalf("unexpected settings file %s", path)
	}
	if cfg.Theme != "monokai" {
		t.Errorf("flag should win: theme = %s", cfg.Theme)
	}
	if cfg.Lang != "go" {
		t.Errorf("environment should beat file: lang = %s", cfg.Lang)
	}
	if cfg.CollisionPolicy() != qti.Suffix {
		t.Errorf("unchanged flag should not mask file: collision = %s", cfg.Collision)
	}
	if cfg.Serve.Addr != ":9000" {
		t.Errorf("expected file addr, got %s", cfg.Serve.Addr)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, _, err := Load(context.Background(), LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Fatal("expected error for missing explicit file")
	}

	dir := t.TempDir()
	path := writeFile(t, dir, "settings.yaml", "collision: merge\n")
	if _, _, err := Load(context.Background(), LoadOptions{ConfigFilePath: path}); err == nil {
		t.Fatal("expected error for unknown collision policy")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := Load(ctx, LoadOptions{}); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestParseRenderConfig(t *testing.T) {
	yamlDoc, err := ParseRenderConfig([]byte("syntax:\n  theme: monokai\n"))
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	jsonDoc, err := ParseRenderConfig([]byte(`{"syntax":{"theme":"monokai"}}`))
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if diff := cmp.Diff(yamlDoc, jsonDoc); diff != "" {
		t.Fatalf("yaml and json disagree (-yaml +json):\n%s", diff)
	}

	empty, err := ParseRenderConfig(nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty mapping, got %v, %v", empty, err)
	}
	if _, err := ParseRenderConfig([]byte("- a\n- b\n")); err == nil {
		t.Fatal("expected error for a top-level list")
	}
}

func TestRenderConfiguration(t *testing.T) {
	var none Config
	cfg, err := none.RenderConfiguration()
	if err != nil {
		t.Fatalf("render configuration: %v", err)
	}
	if cfg != nil {
		t.Fatalf("expected nil configuration, got %#v", cfg)
	}

	dir := t.TempDir()
	path := writeFile(t, dir, "render.yaml", "syntax:\n  theme: dracula\n  default_lang: rust\n")
	settings := Config{RenderConfig: path, Theme: "monokai"}
	cfg, err = settings.RenderConfiguration()
	if err != nil {
		t.Fatalf("render configuration: %v", err)
	}
	want := invoker.StructuredConfig{
		"syntax": map[string]any{"theme": "monokai", "default_lang": "rust"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("configuration mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalRenderConfig(t *testing.T) {
	out, err := MarshalRenderConfig(map[string]any{"syntax": map[string]any{"theme": "github"}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "syntax:\n    theme: github\n" {
		t.Fatalf("unexpected yaml %q", out)
	}
}
