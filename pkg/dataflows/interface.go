package dataflows

import (
	"context"
	"fmt"
	"time"

	"github.com/quantpulse/breakoutscan/config"
	"github.com/quantpulse/breakoutscan/models"
)

// HistoryProvider is the external market-data collaborator: given a
// symbol and a date range it returns daily bars ordered oldest to
// newest, or an error when the symbol is unavailable. No retry or
// pagination contract beyond what an implementation does internally.
type HistoryProvider interface {
	Name() string
	GetHistoricalData(ctx context.Context, symbol string, start, end time.Time) ([]models.Bar, error)
}

// NewProvider builds the provider selected by the configuration.
func NewProvider(cfg *config.Config) (HistoryProvider, error) {
	switch cfg.Provider {
	case "yahoo":
		return NewYahooFinanceClient(cfg), nil
	case "finnhub":
		return NewFinnhubClient(cfg), nil
	case "longport":
		return NewLongportClient(cfg)
	default:
		return nil, fmt.Errorf("unknown data provider: %s", cfg.Provider)
	}
}
