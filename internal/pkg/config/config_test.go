package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	data := `
http:
  addr: ":9090"
agent:
  base_url: "http://localhost:10000"
  run_timeout: 2m
pool:
  max_instances: 5
  max_usage: 25
matching:
  odds_tolerance: 0.1
  game_weight: 0.5
  market_weight: 0.3
  odds_weight: 0.2
bookmakers:
  bet9ja:
    mirror_url: "https://bet9ja-mirror.example.com"
redis:
  enabled: true
  addr: "localhost:6379"
logging:
  level: debug
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("HTTP.Addr = %q", cfg.HTTP.Addr)
	}
	if cfg.Agent.RunTimeout != 2*time.Minute {
		t.Errorf("Agent.RunTimeout = %v", cfg.Agent.RunTimeout)
	}
	if cfg.Pool.MaxInstances != 5 || cfg.Pool.MaxUsage != 25 {
		t.Errorf("Pool = %+v", cfg.Pool)
	}
	if cfg.Matching.OddsTolerance != 0.1 {
		t.Errorf("Matching.OddsTolerance = %f", cfg.Matching.OddsTolerance)
	}
	if cfg.Matching.GameWeight != 0.5 || cfg.Matching.MarketWeight != 0.3 || cfg.Matching.OddsWeight != 0.2 {
		t.Errorf("Matching weights = %+v", cfg.Matching)
	}
	if cfg.Bookmakers["bet9ja"].MirrorURL != "https://bet9ja-mirror.example.com" {
		t.Errorf("Bookmakers = %+v", cfg.Bookmakers)
	}
	if !cfg.Redis.Enabled || cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis = %+v", cfg.Redis)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("does-not-exist.yaml"); err == nil {
		t.Error("Load of missing file did not fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("{not yaml:::"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load of invalid YAML did not fail")
	}
}
