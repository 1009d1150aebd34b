package dataflows

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"github.com/quantpulse/breakoutscan/config"
	"github.com/quantpulse/breakoutscan/models"
)

// YahooFinanceClient fetches daily history from Yahoo Finance. It is the
// default provider and needs no credentials.
type YahooFinanceClient struct {
	cache *CacheManager
}

// NewYahooFinanceClient creates a new Yahoo Finance client.
func NewYahooFinanceClient(cfg *config.Config) *YahooFinanceClient {
	cacheDir := filepath.Join(cfg.DataCacheDir, "yahoo_finance")
	cache := NewCacheManager(cacheDir, 24*time.Hour, cfg.CacheEnabled)

	return &YahooFinanceClient{
		cache: cache,
	}
}

func (yf *YahooFinanceClient) Name() string { return "yahoo" }

// GetHistoricalData gets daily bars for a symbol, oldest first.
func (yf *YahooFinanceClient) GetHistoricalData(ctx context.Context, symbol string, start, end time.Time) ([]models.Bar, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cacheKey := map[string]interface{}{
		"symbol": symbol,
		"start":  start.Format("2006-01-02"),
		"end":    end.Format("2006-01-02"),
	}

	var cached []models.Bar
	if yf.cache.Get("yahoo", "historical", cacheKey, &cached) {
		return cached, nil
	}

	var result []models.Bar
	err := WithRetry(DefaultRetryConfig(), func() error {
		params := &chart.Params{
			Symbol:   symbol,
			Start:    datetime.New(&start),
			End:      datetime.New(&end),
			Interval: datetime.OneDay,
		}

		iter := chart.Get(params)

		result = result[:0]
		for iter.Next() {
			bar := iter.Bar()

			result = append(result, models.Bar{
				Symbol: symbol,
				Date:   time.Unix(int64(bar.Timestamp), 0),
				Open:   bar.Open.InexactFloat64(),
				High:   bar.High.InexactFloat64(),
				Low:    bar.Low.InexactFloat64(),
				Close:  bar.Close.InexactFloat64(),
				Volume: int64(bar.Volume),
			})
		}

		if err := iter.Err(); err != nil {
			return fmt.Errorf("failed to get historical data for %s: %w", symbol, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	yf.cache.Set("yahoo", "historical", cacheKey, result)

	return result, nil
}
