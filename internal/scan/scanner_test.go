package scan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantpulse/breakoutscan/config"
	"github.com/quantpulse/breakoutscan/models"
)

// fakeProvider serves canned bar series per symbol.
type fakeProvider struct {
	series map[string][]models.Bar
	errs   map[string]error
	calls  map[string]int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) GetHistoricalData(ctx context.Context, symbol string, start, end time.Time) ([]models.Bar, error) {
	if f.calls != nil {
		f.calls[symbol]++
	}
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	return f.series[symbol], nil
}

func testConfig() *config.Config {
	return &config.Config{
		MarketSuffix: ".NS",
		MinSignals:   2,
		HistoryDays:  365,
		ScanWorkers:  4,
		FetchTimeout: 5 * time.Second,
	}
}

func series(n int, start, step float64, volume, lastVolume int64) []models.Bar {
	bars := make([]models.Bar, n)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		c := start + float64(i)*step
		bars[i] = models.Bar{
			Symbol: "X",
			Date:   base.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: volume,
		}
	}
	bars[n-1].Volume = lastVolume
	return bars
}

// A steadily rising series triggers price/alignment/MACD; the volume
// spike adds a fourth signal. RSI stays undefined (no losses).
func bullishSeries(spike bool) []models.Bar {
	last := int64(1000)
	if spike {
		last = 5000
	}
	return series(120, 100, 1, 1000, last)
}

func bearishSeries() []models.Bar {
	return series(120, 300, -1, 1000, 1000)
}

func TestScanRanksByDescendingSignalCount(t *testing.T) {
	provider := &fakeProvider{series: map[string][]models.Bar{
		"WEAK.NS":   bullishSeries(false), // 3 signals
		"STRONG.NS": bullishSeries(true),  // 4 signals
	}}
	scanner := NewScanner(testConfig(), provider)

	report := scanner.Scan(context.Background(), []string{"WEAK.NS", "STRONG.NS"}, 2)

	require.Len(t, report.Results, 2)
	assert.Equal(t, "STRONG.NS", report.Results[0].Symbol)
	assert.Equal(t, 4, report.Results[0].SignalCount)
	assert.Equal(t, "WEAK.NS", report.Results[1].Symbol)
	assert.Equal(t, 3, report.Results[1].SignalCount)
	assert.Equal(t, 2, report.StocksScanned)
	assert.Equal(t, 2, report.BreakoutsFound)
	assert.Equal(t, 2, report.MinSignals)
	assert.Equal(t, "success", report.Status)
}

func TestScanTiesKeepSubmissionOrder(t *testing.T) {
	provider := &fakeProvider{series: map[string][]models.Bar{
		"A.NS": bullishSeries(false),
		"B.NS": bullishSeries(false),
		"C.NS": bullishSeries(false),
	}}
	scanner := NewScanner(testConfig(), provider)

	// Repeat to shake out ordering flakes from worker scheduling.
	for i := 0; i < 20; i++ {
		report := scanner.Scan(context.Background(), []string{"A.NS", "B.NS", "C.NS"}, 2)
		require.Len(t, report.Results, 3)
		assert.Equal(t, "A.NS", report.Results[0].Symbol)
		assert.Equal(t, "B.NS", report.Results[1].Symbol)
		assert.Equal(t, "C.NS", report.Results[2].Symbol)
	}
}

func TestScanSilentlySkipsFailedSymbols(t *testing.T) {
	provider := &fakeProvider{
		series: map[string][]models.Bar{"OK.NS": bullishSeries(false)},
		errs:   map[string]error{"DOWN.NS": errors.New("network unreachable")},
	}
	scanner := NewScanner(testConfig(), provider)

	report := scanner.Scan(context.Background(), []string{"DOWN.NS", "OK.NS"}, 2)

	require.Len(t, report.Results, 1)
	assert.Equal(t, "OK.NS", report.Results[0].Symbol)
	// The failed symbol still counts as attempted.
	assert.Equal(t, 2, report.StocksScanned)
	assert.Equal(t, 1, report.BreakoutsFound)
}

func TestScanSkipReasons(t *testing.T) {
	provider := &fakeProvider{
		series: map[string][]models.Bar{
			"EMPTY.NS": {},
			"SHORT.NS": bullishSeries(false)[:30],
			"OK.NS":    bullishSeries(false),
		},
		errs: map[string]error{"DOWN.NS": errors.New("boom")},
	}
	scanner := NewScanner(testConfig(), provider)

	outcomes := scanner.Analyze(context.Background(), []string{"DOWN.NS", "EMPTY.NS", "SHORT.NS", "OK.NS"})

	require.Len(t, outcomes, 4)
	assert.Equal(t, SkipFetchError, outcomes[0].Skip)
	assert.Equal(t, SkipEmptyHistory, outcomes[1].Skip)
	assert.Equal(t, SkipInsufficientHistory, outcomes[2].Skip)
	assert.True(t, outcomes[1].Err == nil)
	assert.True(t, outcomes[3].Ok())
}

func TestScanThresholdAboveMaximumYieldsEmptyResults(t *testing.T) {
	provider := &fakeProvider{series: map[string][]models.Bar{
		"A.NS": bullishSeries(true),
		"B.NS": bullishSeries(true),
	}}
	scanner := NewScanner(testConfig(), provider)

	report := scanner.Scan(context.Background(), []string{"A.NS", "B.NS"}, MaxSignals+1)

	assert.Empty(t, report.Results)
	assert.Equal(t, 2, report.StocksScanned)
	assert.Equal(t, 0, report.BreakoutsFound)
}

func TestScanNegativeThresholdKeepsEverything(t *testing.T) {
	provider := &fakeProvider{series: map[string][]models.Bar{
		"DOWN.NS": bearishSeries(), // zero signals
	}}
	scanner := NewScanner(testConfig(), provider)

	report := scanner.Scan(context.Background(), []string{"DOWN.NS"}, -1)
	require.Len(t, report.Results, 1)
	assert.Equal(t, 0, report.Results[0].SignalCount)
}

func TestScanProcessesDuplicatesPerOccurrence(t *testing.T) {
	provider := &fakeProvider{series: map[string][]models.Bar{
		"A.NS": bullishSeries(false),
	}}
	scanner := NewScanner(testConfig(), provider)

	report := scanner.Scan(context.Background(), []string{"A.NS", "A.NS"}, 2)

	assert.Equal(t, 2, report.StocksScanned)
	require.Len(t, report.Results, 2)
	assert.Equal(t, "A.NS", report.Results[0].Symbol)
	assert.Equal(t, "A.NS", report.Results[1].Symbol)
}

func TestScanResultFields(t *testing.T) {
	provider := &fakeProvider{series: map[string][]models.Bar{
		"RELIANCE.NS": bullishSeries(true),
	}}
	scanner := NewScanner(testConfig(), provider)

	report := scanner.Scan(context.Background(), []string{"RELIANCE.NS"}, 1)
	require.Len(t, report.Results, 1)
	res := report.Results[0]

	assert.Equal(t, "RELIANCE.NS", res.Symbol)
	assert.Equal(t, "RELIANCE", res.Name)
	assert.Equal(t, 219.0, res.Price) // 100 + 119 steps of 1, rounded
	assert.Equal(t, int64(5000), res.Volume)
	assert.Nil(t, res.RSI) // monotonic rise leaves the loss mean at zero
	assert.Equal(t, len(res.Signals), res.SignalCount)
	assert.False(t, res.Timestamp.IsZero())
}

func TestScanUsesHistoryCache(t *testing.T) {
	provider := &fakeProvider{
		series: map[string][]models.Bar{"A.NS": bullishSeries(false)},
		calls:  map[string]int{},
	}
	cfg := testConfig()
	cfg.ScanWorkers = 1
	scanner := NewScanner(cfg, provider)

	scanner.Scan(context.Background(), []string{"A.NS"}, 2)
	scanner.Scan(context.Background(), []string{"A.NS"}, 2)

	assert.Equal(t, 1, provider.calls["A.NS"])
}
