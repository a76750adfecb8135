package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	API   APIConfig   `yaml:"api"`
	Feed  FeedConfig  `yaml:"feed"`
	Chat  ChatConfig  `yaml:"chat"`
	Store StoreConfig `yaml:"store"`
	Log   LogConfig   `yaml:"log"`
}

// APIConfig holds remote API configuration
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	WSURL   string        `yaml:"ws_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// FeedConfig holds feed pagination configuration
type FeedConfig struct {
	PageSize int `yaml:"page_size"`
}

// ChatConfig holds messaging configuration
type ChatConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
}

// StoreConfig holds local persistence configuration
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from a YAML file, applying environment
// overrides (a .env file is honored when present).
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if v := os.Getenv("CLONE_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("CLONE_WS_URL"); v != "" {
		cfg.API.WSURL = v
	}
	if v := os.Getenv("CLONE_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("CLONE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.API.Timeout == 0 {
		c.API.Timeout = 15 * time.Second
	}
	if c.Feed.PageSize == 0 {
		c.Feed.PageSize = 10
	}
	if c.Chat.PollInterval == 0 {
		c.Chat.PollInterval = 5 * time.Second
	}
	if c.Store.Path == "" {
		c.Store.Path = "clone.db"
	}
}
