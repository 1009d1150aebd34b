package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bar represents one trading day's OHLCV record for an instrument.
// A series is ordered oldest to newest; gaps from non-trading days are
// carried over from the data provider as-is.
type Bar struct {
	Symbol string    `json:"symbol"`
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// ScanResult is the per-instrument output of a breakout scan.
// Price-like fields are rounded to two decimals at this boundary only;
// indicator math upstream runs at full precision.
type ScanResult struct {
	Symbol      string    `json:"symbol"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	EMA20       float64   `json:"ema_20"`
	EMA50       float64   `json:"ema_50"`
	EMA200      float64   `json:"ema_200"`
	RSI         *float64  `json:"rsi"`
	MACD        float64   `json:"macd"`
	MACDSignal  float64   `json:"macd_signal"`
	Volume      int64     `json:"volume"`
	AvgVolume   int64     `json:"avg_volume"`
	Signals     []string  `json:"signals"`
	SignalCount int       `json:"signal_count"`
	Timestamp   time.Time `json:"timestamp"`
}

// ScanReport is the aggregate response for one scan request.
type ScanReport struct {
	Status         string        `json:"status"`
	ScanTime       time.Time     `json:"scan_time"`
	StocksScanned  int           `json:"stocks_scanned"`
	BreakoutsFound int           `json:"breakouts_found"`
	MinSignals     int           `json:"min_signals"`
	Results        []*ScanResult `json:"results"`
}

// Round2 rounds a value to two decimal places for output.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
