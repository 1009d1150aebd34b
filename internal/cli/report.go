package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/quantpulse/breakoutscan/models"
	"github.com/quantpulse/breakoutscan/pkg/utils"
)

// WriteReportMarkdown renders a scan report as a markdown document.
func WriteReportMarkdown(path string, report *models.ScanReport) error {
	var b strings.Builder

	b.WriteString("# Breakout Scan Report\n\n")
	b.WriteString(fmt.Sprintf("- Scan time: %s\n", report.ScanTime.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("- Stocks scanned: %d\n", report.StocksScanned))
	b.WriteString(fmt.Sprintf("- Breakouts found: %d\n", report.BreakoutsFound))
	b.WriteString(fmt.Sprintf("- Minimum signals: %d\n\n", report.MinSignals))

	if len(report.Results) == 0 {
		b.WriteString("No instruments met the signal threshold.\n")
	} else {
		b.WriteString("| # | Symbol | Price | EMA20 | EMA50 | EMA200 | RSI | MACD | Signal | Volume | Avg Volume | Score | Signals |\n")
		b.WriteString("|---|--------|-------|-------|-------|--------|-----|------|--------|--------|------------|-------|---------|\n")
		for i, res := range report.Results {
			rsi := "n/a"
			if res.RSI != nil {
				rsi = fmt.Sprintf("%.2f", *res.RSI)
			}
			b.WriteString(fmt.Sprintf("| %d | %s | %.2f | %.2f | %.2f | %.2f | %s | %.2f | %.2f | %d | %d | %d | %s |\n",
				i+1, res.Name, res.Price, res.EMA20, res.EMA50, res.EMA200, rsi,
				res.MACD, res.MACDSignal, res.Volume, res.AvgVolume, res.SignalCount,
				strings.Join(res.Signals, ", ")))
		}
	}

	dir := filepath.Dir(path)
	if dir == "" {
		dir = "."
	}
	return utils.WriteMarkdown(dir, filepath.Base(path), b.String())
}
