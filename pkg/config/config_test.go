package config

import (
	"os"
	"path/filepath"
	"testing"
)

const minimalYAML = `
environment: test
backend:
  type: clickhouse
exchange:
  websocket_url: wss://stream.example.com/ws
  symbols: ["BTC"]
markets:
  base_url: https://api.markets.example.com
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesProjectionDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Projection.DefaultH != 0.5 {
		t.Errorf("default_h = %v, want 0.5", cfg.Projection.DefaultH)
	}
	if cfg.Projection.Points != 200 {
		t.Errorf("points = %v, want 200", cfg.Projection.Points)
	}
	if cfg.Projection.FallbackVol != 0.5 {
		t.Errorf("fallback_vol = %v, want 0.5", cfg.Projection.FallbackVol)
	}
	if cfg.Projection.RangeFrac != 0.2 {
		t.Errorf("range_fraction = %v, want 0.2", cfg.Projection.RangeFrac)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	bad := `
environment: test
backend:
  type: postgres
exchange:
  websocket_url: wss://stream.example.com/ws
  symbols: ["BTC"]
markets:
  base_url: https://api.markets.example.com
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatalf("expected validation error for unknown backend")
	}
}

func TestLoadRejectsMissingSymbols(t *testing.T) {
	bad := `
environment: test
backend:
  type: kafka
exchange:
  websocket_url: wss://stream.example.com/ws
markets:
  base_url: https://api.markets.example.com
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatalf("expected validation error for missing symbols")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("BACKEND", "kafka")
	t.Setenv("KAFKA_BROKERS", "b1:9092,b2:9092")
	t.Setenv("SYMBOLS", "ETH,SOL")

	cfg, err := LoadWithEnv(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend.Type != "kafka" {
		t.Errorf("backend = %q, want kafka", cfg.Backend.Type)
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("brokers = %v, want 2 entries", cfg.Kafka.Brokers)
	}
	if len(cfg.Exchange.Symbols) != 2 || cfg.Exchange.Symbols[0] != "ETH" {
		t.Errorf("symbols = %v, want [ETH SOL]", cfg.Exchange.Symbols)
	}
}
