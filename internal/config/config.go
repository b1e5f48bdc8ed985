// Load envs from .env
// Load YAML config
// Override secrets from env
// Provide default values and validate

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	//Inputs
	LoadsheetPath string `yaml:"loadsheet_path"`
	DealersPath   string `yaml:"dealers_path"`
	BlocklistPath string `yaml:"blocklist_path"`
	CookiesPath   string `yaml:"cookies_path"`
	//Outputs and state
	OutputDir     string `yaml:"output_dir"`
	StatePath     string `yaml:"state_path"`
	DatabaseURL   string `yaml:"database_url" env:"DATABASE_URL"`
	ScreenshotDir string `yaml:"screenshot_dir"`
	//Notifications
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
	//Browser
	Headless           *bool `yaml:"headless"`
	NavTimeoutSeconds  int   `yaml:"nav_timeout_seconds"`
	WaitTimeoutSeconds int   `yaml:"wait_timeout_seconds"`
	SettleMs           int   `yaml:"settle_ms"`
	//Heuristic adapter stages
	ScopeBySignal *bool `yaml:"scope_by_signal"`
	MineJSON      *bool `yaml:"mine_json"`
	//Lifecycle
	AgedThresholdDays int    `yaml:"aged_threshold_days"`
	Schedule          string `yaml:"schedule"`
	//Misc
	LogLevel    string `yaml:"log_level"`
	Development bool   `yaml:"development"`
	ServerPort  string `yaml:"server_port" env:"PORT"`
}

// Load reads .env and the YAML file at path. A missing YAML file is not an
// error; every setting has a default.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse %s", path)
		}
	case !os.IsNotExist(err):
		return nil, errors.Wrapf(err, "read %s", path)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.TelegramToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return errors.Wrap(err, "invalid TELEGRAM_CHAT_ID")
		}
		c.TelegramChatID = id
	}
	if v := os.Getenv("PORT"); v != "" {
		c.ServerPort = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.LoadsheetPath == "" {
		c.LoadsheetPath = "loadsheet.csv"
	}
	if c.DealersPath == "" {
		c.DealersPath = "dealers_input.csv"
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	if c.StatePath == "" {
		c.StatePath = c.OutputDir + "/job_lifecycle.csv"
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = "logs/screenshots"
	}
	if c.Headless == nil {
		c.Headless = boolPtr(true)
	}
	if c.NavTimeoutSeconds == 0 {
		c.NavTimeoutSeconds = 30
	}
	if c.WaitTimeoutSeconds == 0 {
		c.WaitTimeoutSeconds = 10
	}
	if c.SettleMs == 0 {
		c.SettleMs = 3000
	}
	if c.ScopeBySignal == nil {
		c.ScopeBySignal = boolPtr(true)
	}
	if c.MineJSON == nil {
		c.MineJSON = boolPtr(true)
	}
	if c.AgedThresholdDays == 0 {
		c.AgedThresholdDays = 28
	}
	if c.Schedule == "" {
		c.Schedule = "@every 24h"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.ServerPort == "" {
		c.ServerPort = "8080"
	}
}

func (c *Config) Validate() error {
	if c.NavTimeoutSeconds < 0 || c.WaitTimeoutSeconds < 0 || c.SettleMs < 0 {
		return errors.New("timeouts must not be negative")
	}
	if c.AgedThresholdDays < 0 {
		return errors.New("aged_threshold_days must not be negative")
	}
	if (c.TelegramToken == "") != (c.TelegramChatID == 0) {
		return errors.WithHint(errors.New("telegram is half configured"), "set both TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID, or neither")
	}
	return nil
}

func (c *Config) NavTimeout() time.Duration {
	return time.Duration(c.NavTimeoutSeconds) * time.Second
}

func (c *Config) WaitTimeout() time.Duration {
	return time.Duration(c.WaitTimeoutSeconds) * time.Second
}

func (c *Config) Settle() time.Duration {
	return time.Duration(c.SettleMs) * time.Millisecond
}

func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func boolPtr(b bool) *bool {
	return &b
}
