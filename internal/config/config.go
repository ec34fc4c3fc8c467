package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DataDir string `mapstructure:"data_dir"`

	// Monitor tuning. The poll interval trades CPU for capture latency and
	// for catching the source application before the user switches away.
	PollIntervalMs int `mapstructure:"poll_interval_ms"`
	SettleDelayMs  int `mapstructure:"settle_delay_ms"`

	MaxItemSize  int `mapstructure:"max_item_size_bytes"`
	ThumbnailMax int `mapstructure:"thumbnail_max_px"`

	ListenAddr string `mapstructure:"listen_addr"`

	LogLevel  string `mapstructure:"log_level"`
	LogPretty bool   `mapstructure:"log_pretty"`
}

func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	defaultDataDir := filepath.Join(homeDir, ".clipster")

	viper.SetDefault("data_dir", defaultDataDir)
	viper.SetDefault("poll_interval_ms", 250)
	viper.SetDefault("settle_delay_ms", 50)
	viper.SetDefault("max_item_size_bytes", 10*1024*1024)
	viper.SetDefault("thumbnail_max_px", 400)
	viper.SetDefault("listen_addr", "127.0.0.1:8742")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_pretty", false)

	// Environment variable overrides
	viper.SetEnvPrefix("CLIPSTER")
	viper.AutomaticEnv()
	viper.BindEnv("data_dir", "CLIPSTER_DATA_DIR")
	viper.BindEnv("listen_addr", "CLIPSTER_LISTEN_ADDR")
	viper.BindEnv("log_level", "CLIPSTER_LOG_LEVEL")

	// Config file
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultDataDir)

	// Read config file if exists (ignore error if not found)
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.validate()

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() {
	if c.PollIntervalMs <= 0 {
		c.PollIntervalMs = 250
	}
	if c.SettleDelayMs < 0 {
		c.SettleDelayMs = 50
	}
	if c.MaxItemSize <= 0 {
		c.MaxItemSize = 10 * 1024 * 1024
	}
	if c.ThumbnailMax <= 0 {
		c.ThumbnailMax = 400
	}
}

func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "clipster.db")
}

func (c *Config) ImagesDir() string {
	return filepath.Join(c.DataDir, "images")
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMs) * time.Millisecond
}
