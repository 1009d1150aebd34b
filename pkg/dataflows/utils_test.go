package dataflows

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "RELIANCE.NS", NormalizeSymbol(" reliance ", ".NS"))
	assert.Equal(t, "TCS.NS", NormalizeSymbol("tcs.ns", ".NS"))
	assert.Equal(t, "AAPL", NormalizeSymbol("aapl", ""))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "RELIANCE", DisplayName("RELIANCE.NS", ".NS"))
	assert.Equal(t, "AAPL", DisplayName("AAPL", ".NS"))
	assert.Equal(t, "AAPL", DisplayName("AAPL", ""))
}

func TestValidateSymbol(t *testing.T) {
	assert.NoError(t, ValidateSymbol("RELIANCE.NS"))
	assert.Error(t, ValidateSymbol(""))
	assert.Error(t, ValidateSymbol("   "))
	assert.Error(t, ValidateSymbol("THISSYMBOLISWAYTOOLONGTOBEVALID"))
}

func TestCacheManagerRoundTrip(t *testing.T) {
	cm := NewCacheManager(t.TempDir(), time.Minute, true)
	params := map[string]string{"symbol": "TCS.NS"}
	stored := []float64{1.5, 2.5}

	var missed []float64
	assert.False(t, cm.Get("yahoo", "history", params, &missed))

	require.NoError(t, cm.Set("yahoo", "history", params, stored))

	var loaded []float64
	require.True(t, cm.Get("yahoo", "history", params, &loaded))
	assert.Equal(t, stored, loaded)
}

func TestCacheManagerDisabled(t *testing.T) {
	cm := NewCacheManager(t.TempDir(), time.Minute, false)

	require.NoError(t, cm.Set("yahoo", "history", "k", "v"))
	var out string
	assert.False(t, cm.Get("yahoo", "history", "k", &out))
}

func TestWithRetrySucceedsAfterFailures(t *testing.T) {
	cfg := &RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 2.0}

	calls := 0
	err := WithRetry(cfg, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetryExhausted(t *testing.T) {
	cfg := &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 2.0}

	sentinel := errors.New("down")
	err := WithRetry(cfg, func() error { return sentinel })
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
}

func TestFormatDateRange(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-01 to 2024-12-31", FormatDateRange(start, end))
}
