package dataflows

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/quantpulse/breakoutscan/config"
	"github.com/quantpulse/breakoutscan/models"
)

// FinnhubClient fetches daily candles from the Finnhub REST API.
type FinnhubClient struct {
	client *resty.Client
	cache  *CacheManager
	apiKey string
}

// NewFinnhubClient creates a new Finnhub client.
func NewFinnhubClient(cfg *config.Config) *FinnhubClient {
	cacheDir := filepath.Join(cfg.DataCacheDir, "finnhub")
	cache := NewCacheManager(cacheDir, 6*time.Hour, cfg.CacheEnabled)

	client := resty.New()
	client.SetBaseURL("https://finnhub.io/api/v1")
	client.SetTimeout(30 * time.Second)

	return &FinnhubClient{
		client: client,
		cache:  cache,
		apiKey: cfg.FinnhubAPIKey,
	}
}

func (fc *FinnhubClient) Name() string { return "finnhub" }

// finnhubCandles mirrors the column-oriented /stock/candle response.
type finnhubCandles struct {
	Close  []float64 `json:"c"`
	High   []float64 `json:"h"`
	Low    []float64 `json:"l"`
	Open   []float64 `json:"o"`
	Status string    `json:"s"`
	Time   []int64   `json:"t"`
	Volume []float64 `json:"v"`
}

// GetHistoricalData gets daily bars for a symbol, oldest first.
func (fc *FinnhubClient) GetHistoricalData(ctx context.Context, symbol string, start, end time.Time) ([]models.Bar, error) {
	if fc.apiKey == "" {
		return nil, fmt.Errorf("finnhub API key not configured")
	}
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	cacheKey := map[string]interface{}{
		"symbol": symbol,
		"from":   start.Format("2006-01-02"),
		"to":     end.Format("2006-01-02"),
	}

	var cached []models.Bar
	if fc.cache.Get("finnhub", "candles", cacheKey, &cached) {
		return cached, nil
	}

	var result []models.Bar
	err := WithRetry(DefaultRetryConfig(), func() error {
		resp, err := fc.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"symbol":     symbol,
				"resolution": "D",
				"from":       strconv.FormatInt(start.Unix(), 10),
				"to":         strconv.FormatInt(end.Unix(), 10),
				"token":      fc.apiKey,
			}).
			Get("/stock/candle")

		if err != nil {
			return fmt.Errorf("failed to fetch candles for %s: %w", symbol, err)
		}

		if resp.StatusCode() != 200 {
			return fmt.Errorf("API error %d: %s", resp.StatusCode(), resp.String())
		}

		var candles finnhubCandles
		if err := json.Unmarshal(resp.Body(), &candles); err != nil {
			return fmt.Errorf("failed to parse candle response: %w", err)
		}

		if candles.Status != "ok" {
			return fmt.Errorf("no candle data for %s (status %q)", symbol, candles.Status)
		}

		result = result[:0]
		for i := range candles.Time {
			result = append(result, models.Bar{
				Symbol: symbol,
				Date:   time.Unix(candles.Time[i], 0),
				Open:   candles.Open[i],
				High:   candles.High[i],
				Low:    candles.Low[i],
				Close:  candles.Close[i],
				Volume: int64(candles.Volume[i]),
			})
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	fc.cache.Set("finnhub", "candles", cacheKey, result)

	return result, nil
}
