package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantpulse/breakoutscan/models"
)

func TestHistoryCacheRoundTrip(t *testing.T) {
	c := NewHistoryCache(time.Minute)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)
	bars := []models.Bar{{Symbol: "TCS.NS", Close: 100, Volume: 1000}}

	_, ok := c.Get("TCS.NS", start, end)
	assert.False(t, ok)

	c.Set("TCS.NS", start, end, bars)
	got, ok := c.Get("TCS.NS", start, end)
	require.True(t, ok)
	assert.Equal(t, bars, got)
	assert.Equal(t, 1, c.Len())
}

func TestHistoryCacheKeyedByRange(t *testing.T) {
	c := NewHistoryCache(time.Minute)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)

	c.Set("TCS.NS", start, end, []models.Bar{{Close: 1}})

	_, ok := c.Get("TCS.NS", start, end.AddDate(0, 0, 1))
	assert.False(t, ok, "different range must miss")
	_, ok = c.Get("INFY.NS", start, end)
	assert.False(t, ok, "different symbol must miss")
}

func TestHistoryCacheExpiry(t *testing.T) {
	c := NewHistoryCache(10 * time.Millisecond)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)

	c.Set("TCS.NS", start, end, []models.Bar{{Close: 1}})
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("TCS.NS", start, end)
	assert.False(t, ok)

	// A write after expiry drops the stale entry.
	c.Set("INFY.NS", start, end, []models.Bar{{Close: 2}})
	assert.Equal(t, 1, c.Len())
}
