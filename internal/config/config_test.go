package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(EnvMap{"RPC_URL": "https://mainnet.example"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Block != "latest" || cfg.Output != "text" || cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.RPCTimeout != 30*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.RPCTimeout)
	}
	if cfg.KafkaBrokers != nil || cfg.RedisAddr != "" {
		t.Fatalf("alert sinks should be disabled by default")
	}
	if cfg.KafkaTopicPrefix != "hdrcommit-mismatch" || cfg.RedisChannel != "hdrcommit:mismatch" {
		t.Fatalf("unexpected sink defaults %+v", cfg)
	}
	if cfg.KafkaGroupID != "hdrcommit-alerts" || cfg.AlertChainIDs != nil {
		t.Fatalf("unexpected consumer defaults %+v", cfg)
	}
	if cfg.WatchInterval != 0 || cfg.WatchConfirms != 2 {
		t.Fatalf("unexpected watch defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(EnvMap{
		"RPC_URL":         "https://a",
		"RPC_URL_2":       "https://b",
		"BLOCK":           "finalized",
		"RPC_TIMEOUT":     "5s",
		"OUTPUT":          "json",
		"KAFKA_BROKERS":   "k1:9092, k2:9092,,",
		"LOG_MAX_BACKUPS": "7",
		"WATCH_INTERVAL":  "15s",
		"ALERT_CHAIN_IDS": "1, 137",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RPCURL2 != "https://b" || cfg.Block != "finalized" || cfg.Output != "json" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.RPCTimeout != 5*time.Second || cfg.LogMaxBackups != 7 {
		t.Fatalf("unexpected numeric config %+v", cfg)
	}
	if len(cfg.AlertChainIDs) != 2 || cfg.AlertChainIDs[0] != 1 || cfg.AlertChainIDs[1] != 137 {
		t.Fatalf("unexpected alert chains %v", cfg.AlertChainIDs)
	}
	if cfg.WatchInterval != 15*time.Second {
		t.Fatalf("unexpected watch interval %s", cfg.WatchInterval)
	}
	if strings.Join(cfg.KafkaBrokers, "|") != "k1:9092|k2:9092" {
		t.Fatalf("unexpected brokers %v", cfg.KafkaBrokers)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []EnvMap{
		{"RPC_TIMEOUT": "soon"},
		{"OUTPUT": "yaml"},
		{"LOG_MAX_SIZE_MB": "-1"},
		{"WATCH_INTERVAL": "-1s"},
		{"ALERT_CHAIN_IDS": "1,mainnet"},
	}
	for _, env := range cases {
		if _, err := Load(env); err == nil {
			t.Fatalf("expected error for %v", env)
		}
	}
	if _, err := Load(nil); err == nil {
		t.Fatalf("expected error for nil source")
	}
}

func TestValidateRequiresPrimary(t *testing.T) {
	cfg, err := Load(EnvMap{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected missing RPC_URL error")
	}
}
