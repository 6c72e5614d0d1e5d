package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Render modes.
const (
	ModeText  = "text"
	ModeChart = "chart"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		BaseURL string        `yaml:"base_url"`
		APIKey  string        `yaml:"api_key"`
		CoinID  string        `yaml:"coin_id"`
		Symbol  string        `yaml:"symbol"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	Schedule struct {
		Spec string `yaml:"spec"`
	} `yaml:"schedule"`
	Render struct {
		Mode     string  `yaml:"mode"`
		Capacity int     `yaml:"capacity"`
		Padding  float64 `yaml:"padding"`
		Average  int     `yaml:"average_period"`
		Width    int     `yaml:"width"`
		Height   int     `yaml:"height"`
	} `yaml:"render"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy    string `yaml:"proxy"`
	LogLevel string `yaml:"log_level"`

	// Set when the value came from the file or env, so an explicit zero survives defaults.
	timeoutSet bool
	paddingSet bool
	averageSet bool
}

// Load reads config from a YAML file, then applies environment variable overrides and defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		var raw struct {
			DataSource map[string]any `yaml:"data_source"`
			Render     map[string]any `yaml:"render"`
		}
		if err := yaml.Unmarshal(data, &raw); err == nil {
			_, cfg.timeoutSet = raw.DataSource["timeout"]
			_, cfg.paddingSet = raw.Render["padding"]
			_, cfg.averageSet = raw.Render["average_period"]
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("COINGECKO_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("COINGECKO_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("COIN_ID"); v != "" {
		c.DataSource.CoinID = v
	}
	if v := os.Getenv("COIN_SYMBOL"); v != "" {
		c.DataSource.Symbol = v
	}
	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse FETCH_TIMEOUT: %w", err)
		}
		c.DataSource.Timeout = d
		c.timeoutSet = true
	}
	if v := os.Getenv("TICK_SCHEDULE"); v != "" {
		c.Schedule.Spec = v
	}
	if v := os.Getenv("RENDER_MODE"); v != "" {
		c.Render.Mode = v
	}
	if v := os.Getenv("BUFFER_CAPACITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse BUFFER_CAPACITY: %w", err)
		}
		c.Render.Capacity = n
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.DataSource.BaseURL == "" {
		c.DataSource.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if c.DataSource.CoinID == "" {
		c.DataSource.CoinID = "ripple"
	}
	if c.DataSource.Symbol == "" {
		c.DataSource.Symbol = "XRP"
	}
	// An explicit zero timeout means no timeout.
	if !c.timeoutSet {
		c.DataSource.Timeout = 30 * time.Second
	}
	if c.Schedule.Spec == "" {
		c.Schedule.Spec = "@every 60s"
	}
	if c.Render.Mode == "" {
		c.Render.Mode = ModeText
	}
	if c.Render.Capacity == 0 {
		c.Render.Capacity = 100
	}
	if !c.paddingSet {
		c.Render.Padding = 0.1
	}
	if !c.averageSet {
		c.Render.Average = 10
	}
	if c.Render.Width == 0 {
		c.Render.Width = 800
	}
	if c.Render.Height == 0 {
		c.Render.Height = 480
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "cointicker:"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.DataSource.CoinID == "" {
		return fmt.Errorf("data_source.coin_id is required")
	}
	if c.DataSource.Timeout < 0 {
		return fmt.Errorf("data_source.timeout must not be negative")
	}
	if c.Render.Mode != ModeText && c.Render.Mode != ModeChart {
		return fmt.Errorf("render.mode must be %q or %q, got %q", ModeText, ModeChart, c.Render.Mode)
	}
	if c.Render.Capacity < 0 {
		return fmt.Errorf("render.capacity must be positive")
	}
	if c.Render.Average < 1 {
		return fmt.Errorf("render.average_period must be positive")
	}
	if c.Render.Padding < 0 {
		return fmt.Errorf("render.padding must not be negative")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// Level parses LogLevel. On error it returns logrus.InfoLevel.
func (c *Config) Level() (logrus.Level, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("parse log_level: %w", err)
	}
	return level, nil
}

// TelegramEnabled reports whether tick output should also be sent to Telegram.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
