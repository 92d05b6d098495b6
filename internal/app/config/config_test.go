package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dashboard "stock_dashboard/internal/feature/dashboard/domain/entity"
)

var envKeys = []string{
	"SERVER_ADDR", "PORT", "LOG_LEVEL", "APP_TIMEZONE", "MARKET_PROVIDER", "DEFAULT_INDICATORS",
	"FX_CURRENCY", "FX_FALLBACK_RATE", "CRON_FX", "CRON_WARMUP", "MARKET_CALENDAR",
}

// clearEnv は実行環境の変数がテストに影響しないよう空にします。
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "America/New_York", cfg.Timezone)
	assert.Equal(t, ProviderYahoo, cfg.Provider)
	assert.Equal(t, []string{"SMA_20", "SMA_50", "EMA_20", "EMA_50", "RSI_14"}, cfg.Indicators)
	assert.Len(t, cfg.Watchlist, 5)
	assert.Equal(t, "IDR", cfg.FX.Currency)
	assert.Zero(t, cfg.FX.FallbackRate)
	assert.Equal(t, 5*time.Minute, cfg.FX.TTL)
	assert.Equal(t, 8, cfg.RateLimit.Limit)
	assert.Equal(t, "xnys", cfg.Calendar.MIC)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, `
server:
  addr: ":9090"
timezone: Asia/Jakarta
provider: twelvedata
indicators: [sma10, RSI]
watchlist:
  - { code: nvda, name: NVIDIA }
fx:
  currency: JPY
  fallback_rate: 150.5
  ttl: 2m
cache:
  open_ttl: 30s
schedule:
  fx_cron: "0 0 * * * *"
rate_limit:
  limit: 4
  interval: 30s
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, ProviderTwelveData, cfg.Provider)
	assert.Equal(t, "JPY", cfg.FX.Currency)
	assert.InDelta(t, 150.5, cfg.FX.FallbackRate, 1e-9)
	assert.Equal(t, 2*time.Minute, cfg.FX.TTL)
	assert.Equal(t, 30*time.Second, cfg.Cache.OpenTTL)
	assert.Equal(t, time.Hour, cfg.Cache.ClosedTTL)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Interval)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", loc.String())

	specs, err := cfg.IndicatorSpecs()
	require.NoError(t, err)
	assert.Equal(t, []dashboard.IndicatorSpec{{Kind: dashboard.SMA, Window: 10}, {Kind: dashboard.RSI, Window: 14}}, specs)

	symbols := cfg.DefaultSymbols()
	require.Len(t, symbols, 1)
	assert.Equal(t, "NVDA", symbols[0].Code)
	assert.Equal(t, "US", symbols[0].Market)
	assert.True(t, symbols[0].IsActive)
	assert.Equal(t, 1, symbols[0].SortKey)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "3000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MARKET_PROVIDER", "twelvedata")
	t.Setenv("DEFAULT_INDICATORS", "EMA_9,RSI_7")
	t.Setenv("FX_FALLBACK_RATE", "16000")
	t.Setenv("CRON_WARMUP", "@every 1m")

	cfg, err := Load(writeFile(t, "provider: yahoo\nlog:\n  level: warn\n"))
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ProviderTwelveData, cfg.Provider)
	assert.Equal(t, []string{"EMA_9", "RSI_7"}, cfg.Indicators)
	assert.InDelta(t, 16000.0, cfg.FX.FallbackRate, 1e-9)
	assert.Equal(t, "@every 1m", cfg.Schedule.WarmupCron)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "error: invalid yaml", body: "server: [unclosed"},
		{name: "error: bad fallback rate", env: map[string]string{"FX_FALLBACK_RATE": "lots"}},
		{name: "error: bad duration", body: "fx:\n  ttl: soon\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeFile(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "success: defaults", mutate: func(*Config) {}},
		{name: "error: unknown provider", mutate: func(c *Config) { c.Provider = "alpaca" }, wantErr: "provider"},
		{name: "error: unknown timezone", mutate: func(c *Config) { c.Timezone = "Mars/Olympus" }, wantErr: "timezone"},
		{name: "error: bad indicator", mutate: func(c *Config) { c.Indicators = []string{"MACD"} }, wantErr: "indicators"},
		{name: "error: empty watchlist code", mutate: func(c *Config) { c.Watchlist = []WatchlistSymbol{{Name: "x"}} }, wantErr: "watchlist[0]"},
		{name: "error: negative fallback", mutate: func(c *Config) { c.FX.FallbackRate = -1 }, wantErr: "fallback_rate"},
		{name: "error: zero rate limit", mutate: func(c *Config) { c.RateLimit.Limit = -1 }, wantErr: "rate_limit"},
		{name: "error: five-field cron", mutate: func(c *Config) { c.Schedule.FXCron = "*/5 * * *" }, wantErr: "schedule.fx_cron"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, DefaultPath, Path())

	t.Setenv("CONFIG_PATH", "/etc/stock/config.yaml")
	assert.Equal(t, "/etc/stock/config.yaml", Path())
}
