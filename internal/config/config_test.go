package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
app:
  env: prod
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.App.Env)
	assert.Equal(t, defaultAppLogLevel, cfg.App.LogLevel)
	assert.Equal(t, defaultAppHTTPAddr, cfg.App.HTTPAddr)
	assert.Equal(t, defaultMarketInterval, cfg.Market.Interval)
	assert.Equal(t, defaultMarketHistory, cfg.Market.HistoryBars)
	assert.Equal(t, defaultCalibrationPath, cfg.Index.CalibrationPath)
	assert.Equal(t, float64(defaultMaxPositionSize), cfg.Decision.MaxPositionSize)
	assert.Equal(t, defaultEvaluateInterval, cfg.Evaluate.IntervalSeconds)
	assert.Equal(t, []string{"BTCUSDT"}, cfg.Evaluate.Symbols)

	require.Len(t, cfg.Market.Sources, 1)
	assert.Equal(t, defaultMarketName, cfg.Market.Sources[0].Name)
	assert.Equal(t, defaultMarketREST, cfg.Market.Sources[0].RESTBaseURL)
	assert.Equal(t, defaultMarketName, cfg.Market.ActiveSource)
}

func TestLoadExplicitValuesWin(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
app:
  http_addr: ":8800"
market:
  interval: 4h
  history_bars: 500
decision:
  max_position_size: 40
evaluate:
  symbols: [ethusdt, btcusdt]
  interval_seconds: 600
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8800", cfg.App.HTTPAddr)
	assert.Equal(t, "4h", cfg.Market.Interval)
	assert.Equal(t, 500, cfg.Market.HistoryBars)
	assert.Equal(t, 40.0, cfg.Decision.MaxPositionSize)
	assert.Equal(t, 600, cfg.Evaluate.IntervalSeconds)
	assert.Equal(t, []string{"ethusdt", "btcusdt"}, cfg.Evaluate.Symbols)
}

func TestLoadIncludeMerge(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
app:
  log_level: debug
  http_addr: ":7000"
`)
	main := writeFile(t, dir, "config.yaml", `
include:
  - base.yaml
app:
  http_addr: ":7001"
`)
	cfg, err := Load(main)
	require.NoError(t, err)
	// 主文件覆盖 include 的值，其余沿用
	assert.Equal(t, ":7001", cfg.App.HTTPAddr)
	assert.Equal(t, "debug", cfg.App.LogLevel)
}

func TestLoadIncludeCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "include: [b.yaml]\n")
	pathA := filepath.Join(dir, "a.yaml")
	writeFile(t, dir, "b.yaml", "include: [a.yaml]\n")
	_, err := Load(pathA)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "include cycle")
}

func TestLoadValidationFailures(t *testing.T) {
	cases := []struct {
		name    string
		content string
		errPart string
	}{
		{
			"bad interval",
			"market:\n  interval: abc\n",
			"not a valid interval",
		},
		{
			"history out of range",
			"market:\n  history_bars: 10\n",
			"history_bars",
		},
		{
			"negative position size",
			"decision:\n  max_position_size: -5\n",
			"max_position_size",
		},
		{
			"unknown active source",
			"market:\n  active_source: kraken\n  sources:\n    - name: binance\n      enabled: true\n      rest_base_url: https://fapi.binance.com\n",
			"active_source",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, "config.yaml", tc.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errPart)
		})
	}
}

func TestIsValidInterval(t *testing.T) {
	assert.True(t, IsValidInterval("1m"))
	assert.True(t, IsValidInterval("30m"))
	assert.True(t, IsValidInterval("1d"))
	assert.False(t, IsValidInterval(""))
	assert.False(t, IsValidInterval("m"))
	assert.False(t, IsValidInterval("1y"))
	assert.False(t, IsValidInterval("h1"))
}
