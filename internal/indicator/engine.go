package indicator

import (
	"errors"
	"math"

	"github.com/quantpulse/breakoutscan/models"
)

// MinBars is the minimum history required before any indicator is
// considered well defined. EMA-200 and RSI-14 are unstable on shorter
// series, and the scoring rules assume every EMA is numerically defined.
const MinBars = 50

// ErrInsufficientHistory is returned when a bar series is too short to
// compute the indicator set.
var ErrInsufficientHistory = errors.New("insufficient history for indicator computation")

// Snapshot holds the indicator values at a single bar.
// RSI14 is NaN when the trailing 14-bar loss mean is zero (or the bar is
// inside the initial warm-up window); callers must treat NaN as
// "indicator not defined" rather than an error.
type Snapshot struct {
	EMA20       float64
	EMA50       float64
	EMA200      float64
	RSI14       float64
	MACD        float64
	MACDSignal  float64
	AvgVolume20 float64
}

// Result exposes the two most recent computed points of a series.
type Result struct {
	Latest Snapshot
	Prev   Snapshot
}

// Compute derives the full indicator set from a bar series ordered
// oldest to newest. All recurrences are warmed up over the entire series
// so that the recursive and rolling state behind the last two points is
// correct; only those two points are returned. The input is not mutated.
func Compute(bars []models.Bar) (*Result, error) {
	if len(bars) < MinBars {
		return nil, ErrInsufficientHistory
	}

	closes := make([]float64, len(bars))
	volumes := make([]int64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		volumes[i] = b.Volume
	}

	ema20 := EMA(closes, 20)
	ema50 := EMA(closes, 50)
	ema200 := EMA(closes, 200)
	rsi := RSI(closes, 14)
	macdLine, macdSignal := MACD(closes)

	last := len(bars) - 1
	prev := last - 1

	return &Result{
		Latest: Snapshot{
			EMA20:       ema20[last],
			EMA50:       ema50[last],
			EMA200:      ema200[last],
			RSI14:       rsi[last],
			MACD:        macdLine[last],
			MACDSignal:  macdSignal[last],
			AvgVolume20: AvgVolume(volumes, 20),
		},
		Prev: Snapshot{
			EMA20:       ema20[prev],
			EMA50:       ema50[prev],
			EMA200:      ema200[prev],
			RSI14:       rsi[prev],
			MACD:        macdLine[prev],
			MACDSignal:  macdSignal[prev],
			AvgVolume20: AvgVolume(volumes[:last], 20),
		},
	}, nil
}

// EMA computes the recursive exponential moving average of values with
// smoothing factor 2/(period+1), seeded with the first value.
func EMA(values []float64, period int) []float64 {
	alpha := 2.0 / (float64(period) + 1.0)
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RSI computes the relative strength index over a plain rolling mean of
// gains and losses (not Wilder smoothing). Positions without a full
// rolling window, and positions where the rolling loss mean is zero,
// hold NaN.
func RSI(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if len(values) < period+1 {
		return out
	}

	gains := make([]float64, len(values))
	losses := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	// First defined position needs `period` deltas, i.e. index period.
	for i := period; i < len(values); i++ {
		var gainSum, lossSum float64
		for j := i - period + 1; j <= i; j++ {
			gainSum += gains[j]
			lossSum += losses[j]
		}
		meanGain := gainSum / float64(period)
		meanLoss := lossSum / float64(period)
		if meanLoss == 0 {
			continue // division by zero: RSI undefined at this bar
		}
		rs := meanGain / meanLoss
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// MACD computes the MACD line EMA(12)-EMA(26) and its signal line, the
// EMA(9) of the MACD line seeded with the line's first value.
func MACD(values []float64) (line, signal []float64) {
	ema12 := EMA(values, 12)
	ema26 := EMA(values, 26)

	line = make([]float64, len(values))
	for i := range values {
		line[i] = ema12[i] - ema26[i]
	}
	signal = EMA(line, 9)
	return line, signal
}

// AvgVolume returns the arithmetic mean of the trailing `window` volumes
// (the whole series when shorter).
func AvgVolume(volumes []int64, window int) float64 {
	if len(volumes) == 0 {
		return 0
	}
	start := len(volumes) - window
	if start < 0 {
		start = 0
	}
	var sum float64
	for _, v := range volumes[start:] {
		sum += float64(v)
	}
	return sum / float64(len(volumes)-start)
}
