package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token    string `yaml:"token"`
	Mode     string `yaml:"mode"` // polling | noop (outbound calls discarded)
	Username string `yaml:"username"`
	Workers  int    `yaml:"workers"` // polling workers
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL       string        `yaml:"url"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	RateLimit int           `yaml:"rate_limit"`        // commands per window per user
	RateWin   time.Duration `yaml:"rate_limit_window"` // window size
}

type ActivationConfig struct {
	GroupPassword string `yaml:"group_password"`
}

type ReportConfig struct {
	CleanupDelay   time.Duration `yaml:"cleanup_delay"`
	CleanupWorkers int           `yaml:"cleanup_workers"`
}

type BroadcastConfig struct {
	Throttle time.Duration `yaml:"throttle"` // pause between sends
}

type Config struct {
	Bot        BotConfig        `yaml:"bot"`
	Log        LogConfig        `yaml:"log"`
	Admin      AdminConfig      `yaml:"admin"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Activation ActivationConfig `yaml:"activation"`
	Report     ReportConfig     `yaml:"report"`
	Broadcast  BroadcastConfig  `yaml:"broadcast"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Admin.Port == 0 {
		cfg.Admin.Port = 3000
	}
	if cfg.Redis.RateLimit <= 0 {
		cfg.Redis.RateLimit = 20
	}
	if cfg.Redis.RateWin <= 0 {
		cfg.Redis.RateWin = time.Minute
	}
	if cfg.Report.CleanupDelay <= 0 {
		cfg.Report.CleanupDelay = 60 * time.Second
	}
	if cfg.Report.CleanupWorkers <= 0 {
		cfg.Report.CleanupWorkers = 4
	}
	if cfg.Broadcast.Throttle <= 0 {
		// ~25 msg/s keeps clear of platform limits
		cfg.Broadcast.Throttle = time.Second / 25
	}

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Activation.GroupPassword == "" {
		return nil, errors.New("activation.group_password is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
