package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, DefaultSymbols, cfg.Symbols)
	assert.Equal(t, ".NS", cfg.MarketSuffix)
	assert.Equal(t, 2, cfg.MinSignals)
	assert.Equal(t, 365, cfg.HistoryDays)
	assert.Equal(t, 4, cfg.ScanWorkers)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "yahoo", cfg.Provider)
	assert.Len(t, DefaultSymbols, 20)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("SCAN_SYMBOLS", "tcs.ns, infy.ns")
	t.Setenv("MIN_SIGNALS", "4")
	t.Setenv("HISTORY_DAYS", "180")
	t.Setenv("SCAN_WORKERS", "8")
	t.Setenv("FETCH_TIMEOUT", "10s")
	t.Setenv("DATA_PROVIDER", "Finnhub")
	t.Setenv("FINNHUB_API_KEY", "test-key")

	cfg := DefaultConfig()

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, []string{"TCS.NS", "INFY.NS"}, cfg.Symbols)
	assert.Equal(t, 4, cfg.MinSignals)
	assert.Equal(t, 180, cfg.HistoryDays)
	assert.Equal(t, 8, cfg.ScanWorkers)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "finnhub", cfg.Provider)
	require.NoError(t, cfg.Validate())
}

func TestEnvOverridesIgnoreInvalid(t *testing.T) {
	t.Setenv("MIN_SIGNALS", "not-a-number")
	t.Setenv("HISTORY_DAYS", "-5")
	t.Setenv("SCAN_WORKERS", "0")
	t.Setenv("FETCH_TIMEOUT", "soon")

	cfg := DefaultConfig()

	assert.Equal(t, 2, cfg.MinSignals)
	assert.Equal(t, 365, cfg.HistoryDays)
	assert.Equal(t, 4, cfg.ScanWorkers)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
}

func TestValidateProviderCredentials(t *testing.T) {
	cfg := &Config{Provider: "yahoo", HistoryDays: 365}
	assert.NoError(t, cfg.Validate())

	cfg.Provider = "finnhub"
	assert.Error(t, cfg.Validate())
	cfg.FinnhubAPIKey = "k"
	assert.NoError(t, cfg.Validate())

	cfg.Provider = "longport"
	assert.Error(t, cfg.Validate())
	cfg.LongportAppKey = "k"
	cfg.LongportAppSecret = "s"
	cfg.LongportAccessToken = "t"
	assert.NoError(t, cfg.Validate())

	cfg.Provider = "bloomberg"
	assert.Error(t, cfg.Validate())

	cfg.Provider = "yahoo"
	cfg.HistoryDays = 0
	assert.Error(t, cfg.Validate())
}
