package dataflows

import (
	"context"
	"errors"
	"time"

	lpconfig "github.com/longportapp/openapi-go/config"
	"github.com/longportapp/openapi-go/quote"

	"github.com/quantpulse/breakoutscan/config"
	"github.com/quantpulse/breakoutscan/models"
)

// LongportClient fetches daily candlesticks from the Longport OpenAPI.
// Useful for HK/CN listings that Yahoo covers poorly.
type LongportClient struct {
	quoteCtx *quote.QuoteContext
}

func NewLongportClient(cfg *config.Config) (*LongportClient, error) {
	if cfg.LongportAppKey == "" || cfg.LongportAppSecret == "" || cfg.LongportAccessToken == "" {
		return nil, errors.New("longport API credentials not configured")
	}

	conf, err := lpconfig.New(lpconfig.WithConfigKey(cfg.LongportAppKey, cfg.LongportAppSecret, cfg.LongportAccessToken))
	if err != nil {
		return nil, err
	}

	quoteContext, err := quote.NewFromCfg(conf)
	if err != nil {
		return nil, err
	}

	return &LongportClient{
		quoteCtx: quoteContext,
	}, nil
}

func (lpc *LongportClient) Name() string { return "longport" }

// GetHistoricalData gets daily bars for a symbol, oldest first. Longport
// is count-based rather than range-based, so the range is translated to
// a candlestick count and filtered afterwards.
func (lpc *LongportClient) GetHistoricalData(ctx context.Context, symbol string, start, end time.Time) ([]models.Bar, error) {
	if lpc.quoteCtx == nil {
		return nil, errors.New("quote context is nil")
	}
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	count := int32(end.Sub(start).Hours() / 24)
	if count <= 0 {
		count = 1
	}

	sticks, err := lpc.quoteCtx.Candlesticks(ctx, symbol, quote.PeriodDay, count, quote.AdjustTypeNo)
	if err != nil {
		return nil, err
	}

	bars := make([]models.Bar, 0, len(sticks))
	for _, stick := range sticks {
		date := time.Unix(stick.Timestamp, 0)
		if date.Before(start) || date.After(end) {
			continue
		}
		open, _ := stick.Open.Float64()
		high, _ := stick.High.Float64()
		low, _ := stick.Low.Float64()
		close, _ := stick.Close.Float64()
		bars = append(bars, models.Bar{
			Symbol: symbol,
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: stick.Volume,
		})
	}

	return bars, nil
}

func (lpc *LongportClient) Close() error {
	if lpc.quoteCtx != nil {
		lpc.quoteCtx.Close()
	}
	return nil
}
