package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Agent    AgentConfig    `yaml:"agent"`
	Pool     PoolConfig     `yaml:"pool"`
	Queue    QueueConfig    `yaml:"queue"`
	Matching MatchingConfig `yaml:"matching"`
	// Bookmakers carries per-bookmaker overrides keyed by identifier.
	Bookmakers map[string]BookmakerConfig `yaml:"bookmakers"`
	Redis      RedisConfig                `yaml:"redis"`
	Postgres   PostgresConfig             `yaml:"postgres"`
	Telegram   TelegramConfig             `yaml:"telegram"`
	Logging    LoggingConfig              `yaml:"logging"`
}

type HTTPConfig struct {
	Addr              string        `yaml:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
}

type AgentConfig struct {
	BaseURL        string        `yaml:"base_url"`
	RunTimeout     time.Duration `yaml:"run_timeout"`     // per-task timeout (default: 3m)
	SessionTimeout time.Duration `yaml:"session_timeout"` // session create/close timeout (default: 30s)
}

type PoolConfig struct {
	MaxInstances    int           `yaml:"max_instances"`    // concurrent agent sessions (default: 3)
	MaxUsage        int           `yaml:"max_usage"`        // tasks before a session is recycled (default: 50)
	MaxMemoryMB     int           `yaml:"max_memory_mb"`    // heap threshold for memory pressure (default: 2048)
	CleanupInterval time.Duration `yaml:"cleanup_interval"` // min time between idle sweeps (default: 5m)
	IdleTTL         time.Duration `yaml:"idle_ttl"`         // idle session lifetime (default: 30m)
}

type QueueConfig struct {
	MaxSize int `yaml:"max_size"` // pending task capacity (default: 100)
	Workers int `yaml:"workers"`  // worker goroutines (default: pool max_instances)
}

type MatchingConfig struct {
	OddsTolerance   float64 `yaml:"odds_tolerance"`   // relative odds difference accepted without warning (default: 0.05)
	TeamThreshold   float64 `yaml:"team_threshold"`   // min team similarity to match a game (default: 0.7)
	MarketThreshold float64 `yaml:"market_threshold"` // min market similarity (default: 0.8)
	GameWeight      float64 `yaml:"game_weight"`      // game component of the confidence blend (default: 0.4)
	MarketWeight    float64 `yaml:"market_weight"`    // market component (default: 0.4)
	OddsWeight      float64 `yaml:"odds_weight"`      // odds component (default: 0.2)
}

type BookmakerConfig struct {
	MirrorURL string `yaml:"mirror_url"` // stable mirror link for domain-rotating bookmakers
}

type RedisConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	ResultTTL time.Duration `yaml:"result_ttl"` // how long results stay pollable (default: 1h)
}

type PostgresConfig struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"`
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: info)
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}
