// Package config はアプリケーション設定をYAMLファイルと環境変数から読み込みます。
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	dashboard "stock_dashboard/internal/feature/dashboard/domain/entity"
	symbol "stock_dashboard/internal/feature/symbollist/domain/entity"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "configs/config.yaml"

const (
	ProviderYahoo      = "yahoo"
	ProviderTwelveData = "twelvedata"
)

// WatchlistSymbol is one entry of the default watchlist.
type WatchlistSymbol struct {
	Code   string `yaml:"code"`
	Name   string `yaml:"name"`
	Market string `yaml:"market"`
}

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr            string        `yaml:"addr"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Timezone   string            `yaml:"timezone"`
	Provider   string            `yaml:"provider"`
	Indicators []string          `yaml:"indicators"`
	Watchlist  []WatchlistSymbol `yaml:"watchlist"`
	FX         struct {
		Currency     string        `yaml:"currency"`
		FallbackRate float64       `yaml:"fallback_rate"`
		TTL          time.Duration `yaml:"ttl"`
	} `yaml:"fx"`
	Cache struct {
		OpenTTL   time.Duration `yaml:"open_ttl"`
		ClosedTTL time.Duration `yaml:"closed_ttl"`
	} `yaml:"cache"`
	Schedule struct {
		FXCron     string        `yaml:"fx_cron"`
		WarmupCron string        `yaml:"warmup_cron"`
		JobTimeout time.Duration `yaml:"job_timeout"`
	} `yaml:"schedule"`
	RateLimit struct {
		Limit    int           `yaml:"limit"`
		Interval time.Duration `yaml:"interval"`
	} `yaml:"rate_limit"`
	Calendar struct {
		MIC string `yaml:"mic"`
	} `yaml:"calendar"`
}

// Path returns CONFIG_PATH or DefaultPath.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error: defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	} else if v := os.Getenv("PORT"); v != "" {
		// Cloud Run などはPORTのみを渡す
		c.Server.Addr = ":" + v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("APP_TIMEZONE"); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv("MARKET_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("DEFAULT_INDICATORS"); v != "" {
		c.Indicators = strings.Split(v, ",")
	}
	if v := os.Getenv("FX_CURRENCY"); v != "" {
		c.FX.Currency = v
	}
	if v := os.Getenv("FX_FALLBACK_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("FX_FALLBACK_RATE: %w", err)
		}
		c.FX.FallbackRate = rate
	}
	if v := os.Getenv("CRON_FX"); v != "" {
		c.Schedule.FXCron = v
	}
	if v := os.Getenv("CRON_WARMUP"); v != "" {
		c.Schedule.WarmupCron = v
	}
	if v := os.Getenv("MARKET_CALENDAR"); v != "" {
		c.Calendar.MIC = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Timezone == "" {
		c.Timezone = "America/New_York"
	}
	if c.Provider == "" {
		c.Provider = ProviderYahoo
	}
	if len(c.Indicators) == 0 {
		c.Indicators = []string{"SMA_20", "SMA_50", "EMA_20", "EMA_50", "RSI_14"}
	}
	if len(c.Watchlist) == 0 {
		c.Watchlist = []WatchlistSymbol{
			{Code: "AAPL", Name: "Apple Inc.", Market: "NASDAQ"},
			{Code: "GOOGL", Name: "Alphabet Inc.", Market: "NASDAQ"},
			{Code: "MSFT", Name: "Microsoft Corporation", Market: "NASDAQ"},
			{Code: "AMZN", Name: "Amazon.com, Inc.", Market: "NASDAQ"},
			{Code: "TSLA", Name: "Tesla, Inc.", Market: "NASDAQ"},
		}
	}
	if c.FX.Currency == "" {
		c.FX.Currency = "IDR"
	}
	if c.FX.TTL == 0 {
		c.FX.TTL = 5 * time.Minute
	}
	if c.Cache.OpenTTL == 0 {
		c.Cache.OpenTTL = time.Minute
	}
	if c.Cache.ClosedTTL == 0 {
		c.Cache.ClosedTTL = time.Hour
	}
	if c.RateLimit.Limit == 0 {
		c.RateLimit.Limit = 8
	}
	if c.RateLimit.Interval == 0 {
		c.RateLimit.Interval = time.Minute
	}
	if c.Schedule.JobTimeout == 0 {
		c.Schedule.JobTimeout = 5 * time.Minute
	}
	if c.Calendar.MIC == "" {
		c.Calendar.MIC = "xnys"
	}
}

// cronParser は秒フィールド付きの式を受け付けます（scheduler と同じ形式）。
var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if c.Provider != ProviderYahoo && c.Provider != ProviderTwelveData {
		return fmt.Errorf("provider must be %q or %q, got %q", ProviderYahoo, ProviderTwelveData, c.Provider)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.IndicatorSpecs(); err != nil {
		return fmt.Errorf("indicators: %w", err)
	}
	for i, s := range c.Watchlist {
		if strings.TrimSpace(s.Code) == "" {
			return fmt.Errorf("watchlist[%d].code is required", i)
		}
	}
	if c.FX.FallbackRate < 0 {
		return fmt.Errorf("fx.fallback_rate must not be negative")
	}
	if c.RateLimit.Limit <= 0 || c.RateLimit.Interval <= 0 {
		return fmt.Errorf("rate_limit.limit and rate_limit.interval must be positive")
	}
	for name, expr := range map[string]string{
		"schedule.fx_cron":     c.Schedule.FXCron,
		"schedule.warmup_cron": c.Schedule.WarmupCron,
	} {
		if expr == "" {
			continue
		}
		if _, err := cronParser.Parse(expr); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// Location resolves the canonical timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// IndicatorSpecs parses the default indicator list.
func (c *Config) IndicatorSpecs() ([]dashboard.IndicatorSpec, error) {
	return dashboard.ParseSpecs(strings.Join(c.Indicators, ","))
}

// DefaultSymbols converts the default watchlist to symbol entities.
func (c *Config) DefaultSymbols() []symbol.Symbol {
	out := make([]symbol.Symbol, 0, len(c.Watchlist))
	for i, s := range c.Watchlist {
		market := s.Market
		if market == "" {
			market = "US"
		}
		out = append(out, symbol.Symbol{
			Code:     strings.ToUpper(strings.TrimSpace(s.Code)),
			Name:     s.Name,
			Market:   market,
			IsActive: true,
			SortKey:  i + 1,
		})
	}
	return out
}
