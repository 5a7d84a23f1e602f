package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Polygon struct {
		APIKey  string `yaml:"api_key"`
		DelayMs int    `yaml:"delay_ms"`
	} `yaml:"polygon"`
	Finnhub struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"finnhub"`
	Scanner struct {
		Universe     []string `yaml:"universe"`
		LookbackDays int      `yaml:"lookback_days"`
		MinPrice     float64  `yaml:"min_price"`
		MinVolume    float64  `yaml:"min_volume"`
		MinScore     int      `yaml:"min_score"`
		MinEMAScore  int      `yaml:"min_ema_score"`
		Workers      int      `yaml:"workers"`
	} `yaml:"scanner"`
	Backtest struct {
		Universe        []string `yaml:"universe"`
		HoldingDays     int      `yaml:"holding_days"`
		TargetPct       float64  `yaml:"target_pct"`
		StopPct         float64  `yaml:"stop_pct"`
		MinOverallScore int      `yaml:"min_overall_score"`
		LookbackDays    int      `yaml:"lookback_days"`
		Workers         int      `yaml:"workers"`
	} `yaml:"backtest"`
	Schedule struct {
		ScanCron     string `yaml:"scan_cron"`
		BacktestCron string `yaml:"backtest_cron"`
	} `yaml:"schedule"`
	Cache struct {
		Mode string `yaml:"mode"` // memory, disk, or none
		Dir  string `yaml:"dir"`
	} `yaml:"cache"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
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
	}

	// Environment variable overrides
	if v := os.Getenv("POLYGON_API_KEY"); v != "" {
		cfg.Polygon.APIKey = v
	}
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		cfg.Finnhub.APIKey = v
	}
	if v := os.Getenv("CRON_SCAN"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("CRON_BACKTEST"); v != "" {
		cfg.Schedule.BacktestCron = v
	}
	if v := os.Getenv("CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if cfg.Polygon.DelayMs == 0 {
		cfg.Polygon.DelayMs = 150
	}
	if cfg.Scanner.LookbackDays == 0 {
		cfg.Scanner.LookbackDays = 200
	}
	if cfg.Scanner.MinPrice == 0 {
		cfg.Scanner.MinPrice = 5.0
	}
	if cfg.Scanner.MinVolume == 0 {
		cfg.Scanner.MinVolume = 500000
	}
	if cfg.Scanner.MinScore == 0 {
		cfg.Scanner.MinScore = 55
	}
	if cfg.Scanner.MinEMAScore == 0 {
		cfg.Scanner.MinEMAScore = 70
	}
	if cfg.Scanner.Workers == 0 {
		cfg.Scanner.Workers = 4
	}
	if cfg.Backtest.HoldingDays == 0 {
		cfg.Backtest.HoldingDays = 60
	}
	if cfg.Backtest.TargetPct == 0 {
		cfg.Backtest.TargetPct = 10
	}
	if cfg.Backtest.StopPct == 0 {
		cfg.Backtest.StopPct = 15
	}
	if cfg.Backtest.MinOverallScore == 0 {
		cfg.Backtest.MinOverallScore = 15
	}
	if cfg.Backtest.LookbackDays == 0 {
		cfg.Backtest.LookbackDays = 500
	}
	if cfg.Backtest.Workers == 0 {
		cfg.Backtest.Workers = 4
	}
	if cfg.Schedule.ScanCron == "" {
		cfg.Schedule.ScanCron = "0 0 22 * * 1-5"
	}
	if cfg.Schedule.BacktestCron == "" {
		cfg.Schedule.BacktestCron = "0 0 8 * * 6"
	}
	if cfg.Cache.Mode == "" {
		cfg.Cache.Mode = "memory"
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = "data/cache"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stockscope.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Polygon.APIKey == "" {
		return fmt.Errorf("polygon.api_key is required")
	}
	if c.Scanner.MinPrice < 0 {
		return fmt.Errorf("scanner.min_price must not be negative")
	}
	if c.Backtest.TargetPct <= 0 {
		return fmt.Errorf("backtest.target_pct must be positive")
	}
	if c.Backtest.StopPct <= 0 {
		return fmt.Errorf("backtest.stop_pct must be positive")
	}
	switch c.Cache.Mode {
	case "memory", "disk", "none":
	default:
		return fmt.Errorf("cache.mode must be memory, disk, or none")
	}
	return nil
}
