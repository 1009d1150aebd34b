package scan

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quantpulse/breakoutscan/config"
	"github.com/quantpulse/breakoutscan/internal/cache"
	"github.com/quantpulse/breakoutscan/internal/indicator"
	"github.com/quantpulse/breakoutscan/models"
	"github.com/quantpulse/breakoutscan/pkg/dataflows"
	"github.com/quantpulse/breakoutscan/pkg/logger"
)

// SkipReason says why a symbol contributed no result. Skips are fully
// absorbed: they never fail the scan and never appear in the results.
type SkipReason string

const (
	SkipNone                SkipReason = ""
	SkipFetchError          SkipReason = "fetch_error"
	SkipEmptyHistory        SkipReason = "empty_history"
	SkipInsufficientHistory SkipReason = "insufficient_history"
)

// Outcome is the per-symbol record of one scan pass: either a scored
// result or a skip with its reason.
type Outcome struct {
	Symbol string
	Result *models.ScanResult
	Skip   SkipReason
	Err    error
}

// Ok reports whether the symbol produced a result.
func (o Outcome) Ok() bool { return o.Result != nil }

// Scanner turns a batch of symbols into a ranked breakout report.
type Scanner struct {
	provider dataflows.HistoryProvider
	history  *cache.HistoryCache
	cfg      *config.Config
	log      *logrus.Logger
}

func NewScanner(cfg *config.Config, provider dataflows.HistoryProvider) *Scanner {
	return &Scanner{
		provider: provider,
		history:  cache.NewHistoryCache(15 * time.Minute),
		cfg:      cfg,
		log:      logger.Log,
	}
}

// Scan fetches and scores every symbol, keeps those with at least
// minSignals triggered rules and ranks them by descending signal count.
// Ties keep the original submission order, regardless of which worker
// finished first. Per-symbol failures are silently skipped.
func (s *Scanner) Scan(ctx context.Context, symbols []string, minSignals int) *models.ScanReport {
	outcomes := s.Analyze(ctx, symbols)

	results := make([]*models.ScanResult, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Ok() && o.Result.SignalCount >= minSignals {
			results = append(results, o.Result)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].SignalCount > results[j].SignalCount
	})

	s.log.WithFields(logrus.Fields{
		"scanned":     len(symbols),
		"breakouts":   len(results),
		"min_signals": minSignals,
	}).Info("breakout scan finished")

	return &models.ScanReport{
		Status:         "success",
		ScanTime:       time.Now(),
		StocksScanned:  len(symbols),
		BreakoutsFound: len(results),
		MinSignals:     minSignals,
		Results:        results,
	}
}

// Analyze runs the per-symbol fetch+compute step across a bounded worker
// pool and returns one outcome per input symbol, in input order.
// Duplicates are processed once per occurrence.
func (s *Scanner) Analyze(ctx context.Context, symbols []string) []Outcome {
	outcomes := make([]Outcome, len(symbols))

	workers := s.cfg.ScanWorkers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(symbols) {
		workers = len(symbols)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = s.analyzeSymbol(ctx, symbols[i])
			}
		}()
	}
	for i := range symbols {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return outcomes
}

// analyzeSymbol fetches history for one symbol and scores it.
func (s *Scanner) analyzeSymbol(ctx context.Context, symbol string) Outcome {
	end := time.Now()
	start := end.AddDate(0, 0, -s.cfg.HistoryDays)

	bars, err := s.fetchHistory(ctx, symbol, start, end)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"symbol": symbol,
			"reason": SkipFetchError,
		}).WithError(err).Debug("symbol skipped")
		return Outcome{Symbol: symbol, Skip: SkipFetchError, Err: err}
	}
	if len(bars) == 0 {
		s.log.WithFields(logrus.Fields{
			"symbol": symbol,
			"reason": SkipEmptyHistory,
		}).Debug("symbol skipped")
		return Outcome{Symbol: symbol, Skip: SkipEmptyHistory}
	}

	ind, err := indicator.Compute(bars)
	if err != nil {
		if !errors.Is(err, indicator.ErrInsufficientHistory) {
			s.log.WithField("symbol", symbol).WithError(err).Warn("indicator computation failed")
		}
		s.log.WithFields(logrus.Fields{
			"symbol": symbol,
			"reason": SkipInsufficientHistory,
			"bars":   len(bars),
		}).Debug("symbol skipped")
		return Outcome{Symbol: symbol, Skip: SkipInsufficientHistory, Err: err}
	}

	latest := bars[len(bars)-1]
	signals := Evaluate(RuleInput{Bar: latest, Ind: ind.Latest})

	return Outcome{
		Symbol: symbol,
		Result: buildResult(symbol, s.cfg.MarketSuffix, latest, ind.Latest, signals),
	}
}

// fetchHistory consults the in-memory cache before the provider and
// applies the configured per-fetch timeout.
func (s *Scanner) fetchHistory(ctx context.Context, symbol string, start, end time.Time) ([]models.Bar, error) {
	if bars, ok := s.history.Get(symbol, start, end); ok {
		return bars, nil
	}

	fetchCtx := ctx
	if s.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.cfg.FetchTimeout)
		defer cancel()
	}

	bars, err := s.provider.GetHistoricalData(fetchCtx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	if len(bars) > 0 {
		s.history.Set(symbol, start, end, bars)
	}
	return bars, nil
}

// buildResult rounds price-like values for output; the rounding happens
// only here, never inside the indicator pipeline.
func buildResult(symbol, suffix string, latest models.Bar, ind indicator.Snapshot, signals []string) *models.ScanResult {
	var rsi *float64
	if !math.IsNaN(ind.RSI14) {
		v := models.Round2(ind.RSI14)
		rsi = &v
	}

	return &models.ScanResult{
		Symbol:      symbol,
		Name:        dataflows.DisplayName(symbol, suffix),
		Price:       models.Round2(latest.Close),
		EMA20:       models.Round2(ind.EMA20),
		EMA50:       models.Round2(ind.EMA50),
		EMA200:      models.Round2(ind.EMA200),
		RSI:         rsi,
		MACD:        models.Round2(ind.MACD),
		MACDSignal:  models.Round2(ind.MACDSignal),
		Volume:      latest.Volume,
		AvgVolume:   int64(ind.AvgVolume20),
		Signals:     signals,
		SignalCount: len(signals),
		Timestamp:   time.Now(),
	}
}
