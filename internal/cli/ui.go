package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/quantpulse/breakoutscan/internal/scan"
	"github.com/quantpulse/breakoutscan/models"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6"))

	symbolStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#10B981"))

	signalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Italic(true)
)

// RenderReport renders a scan report for the terminal.
func RenderReport(report *models.ScanReport) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Breakout Scan"))
	b.WriteString("\n")
	b.WriteString(summaryStyle.Render(fmt.Sprintf(
		"scanned %d | breakouts %d | min signals %d | %s",
		report.StocksScanned, report.BreakoutsFound, report.MinSignals,
		report.ScanTime.Format("2006-01-02 15:04:05"))))
	b.WriteString("\n\n")

	if len(report.Results) == 0 {
		b.WriteString(emptyStyle.Render("No instruments met the signal threshold."))
		b.WriteString("\n")
		return b.String()
	}

	for i, res := range report.Results {
		rsi := "n/a"
		if res.RSI != nil {
			rsi = fmt.Sprintf("%.2f", *res.RSI)
		}
		b.WriteString(fmt.Sprintf("%2d. %s  %.2f  (%d/%d)\n",
			i+1, symbolStyle.Render(res.Name), res.Price, res.SignalCount, scan.MaxSignals))
		b.WriteString(fmt.Sprintf("    EMA20 %.2f | EMA50 %.2f | EMA200 %.2f | RSI %s | MACD %.2f/%.2f | vol %d (avg %d)\n",
			res.EMA20, res.EMA50, res.EMA200, rsi, res.MACD, res.MACDSignal, res.Volume, res.AvgVolume))
		b.WriteString("    " + signalStyle.Render(strings.Join(res.Signals, " · ")))
		b.WriteString("\n")
	}

	return b.String()
}
