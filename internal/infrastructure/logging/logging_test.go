package logging

import (
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitJSONWithService(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(previous)
		log.SetOutput(os.Stderr)
	})

	path := filepath.Join(t.TempDir(), "logs", "hdrcommit.log")
	rotating, err := Init(Config{Level: "debug", Format: "json", File: path, Service: "hdrcommit", Stderr: true})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if rotating == nil {
		t.Fatalf("expected a file writer")
	}
	slog.Debug("header committed", "block", 18000000)
	if err := rotating.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got := readFile(t, path)
	for _, want := range []string{`"msg":"header committed"`, `"service":"hdrcommit"`, `"block":18000000`} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %s in %q", want, got)
		}
	}
}

func TestInitWithoutFile(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(previous)
		log.SetOutput(os.Stderr)
	})

	rotating, err := Init(Config{Stderr: true})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if rotating != nil {
		t.Fatalf("expected no file writer")
	}
}
