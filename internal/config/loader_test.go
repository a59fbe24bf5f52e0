package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hdrcommit.env")
	content := "RPC_URL=https://from-file\nRPC_URL_2=https://second-from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("RPC_URL", "https://from-process")
	t.Setenv("RPC_URL_2", "")
	os.Unsetenv("RPC_URL_2")

	cfg, err := LoadFromEnv(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RPCURL != "https://from-process" {
		t.Fatalf("process environment should win, got %s", cfg.RPCURL)
	}
	if cfg.RPCURL2 != "https://second-from-file" {
		t.Fatalf("expected value from file, got %s", cfg.RPCURL2)
	}
}

func TestLoadFromEnvMissingFile(t *testing.T) {
	if _, err := LoadFromEnv(filepath.Join(t.TempDir(), "absent.env")); err == nil {
		t.Fatalf("expected error for missing env file")
	}
}
