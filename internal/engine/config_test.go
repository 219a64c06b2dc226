package engine_test

import (
	"errors"
	"testing"

	"github.com/jjfiv/quizdown/internal/engine"
)

func TestParseConfig(t *testing.T) {
	cfg, err := engine.ParseConfig([]byte(`{"syntax":{"theme":"monokai","default_lang":""},"extra":1}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := engine.SyntaxOptions{Theme: "monokai", DefaultLang: engine.DefaultLang}
	if cfg.Syntax != want {
		t.Fatalf("syntax = %+v, want %+v", cfg.Syntax, want)
	}

	cfg, err = engine.ParseConfig(nil)
	if err != nil || cfg != engine.DefaultConfig() {
		t.Fatalf("empty config = %+v, %v", cfg, err)
	}
}

func TestParseConfig_RejectsUnknownTheme(t *testing.T) {
	_, err := engine.ParseConfig([]byte(`{"syntax":{"theme":"no-such-theme"}}`))
	var engErr *engine.Error
	if !errors.As(err, &engErr) {
		t.Fatalf("expected *engine.Error, got %T %v", err, err)
	}
	if engErr.Kind != engine.KindMissingSyntaxTheme || engErr.Detail != "no-such-theme" {
		t.Fatalf("unexpected error %+v", engErr)
	}
}
