package scan

import (
	"github.com/quantpulse/breakoutscan/internal/indicator"
	"github.com/quantpulse/breakoutscan/models"
)

// RuleInput is everything a scoring rule may consult: the latest bar and
// the indicator snapshot at that bar.
type RuleInput struct {
	Bar models.Bar
	Ind indicator.Snapshot
}

// Rule is one named boolean breakout condition.
type Rule struct {
	Name      string
	Triggered func(in RuleInput) bool
}

// rules in fixed evaluation order; the order shows up in the signals
// list of every result, so it must not change.
//
// "MACD bullish crossover" keeps its historical name but is a level
// comparison at the latest bar, not a verified crossing event.
var rules = []Rule{
	{
		Name: "Price above EMA 20",
		Triggered: func(in RuleInput) bool {
			return in.Bar.Close > in.Ind.EMA20
		},
	},
	{
		Name: "Bullish EMA alignment",
		Triggered: func(in RuleInput) bool {
			return in.Ind.EMA20 > in.Ind.EMA50 && in.Ind.EMA50 > in.Ind.EMA200
		},
	},
	{
		Name: "RSI in healthy range",
		Triggered: func(in RuleInput) bool {
			// NaN compares false on both sides, so an undefined RSI
			// simply never triggers.
			return in.Ind.RSI14 > 30 && in.Ind.RSI14 < 70
		},
	},
	{
		Name: "MACD bullish crossover",
		Triggered: func(in RuleInput) bool {
			return in.Ind.MACD > in.Ind.MACDSignal
		},
	},
	{
		Name: "High volume breakout",
		Triggered: func(in RuleInput) bool {
			return float64(in.Bar.Volume) > in.Ind.AvgVolume20*1.5
		},
	},
}

// MaxSignals is the highest score an instrument can reach.
var MaxSignals = len(rules)

// Evaluate runs every rule against the input and returns the triggered
// rule names in rule-definition order. Rules are independent; an
// indeterminate value fails its own rule and nothing else.
func Evaluate(in RuleInput) []string {
	signals := make([]string, 0, len(rules))
	for _, r := range rules {
		if r.Triggered(in) {
			signals = append(signals, r.Name)
		}
	}
	return signals
}
