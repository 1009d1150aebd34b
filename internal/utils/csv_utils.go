package utils

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/quantpulse/breakoutscan/models"
)

// WriteScanResultsToCSV writes qualifying scan results to a CSV file,
// one row per instrument in ranked order.
func WriteScanResultsToCSV(filePath string, results []*models.ScanResult) error {
	if dir := filepath.Dir(filePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %v", err)
		}
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{
		"Symbol", "Name", "Price", "EMA20", "EMA50", "EMA200", "RSI",
		"MACD", "MACDSignal", "Volume", "AvgVolume", "SignalCount", "Signals", "Timestamp",
	}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %v", err)
	}

	for _, res := range results {
		rsi := ""
		if res.RSI != nil {
			rsi = strconv.FormatFloat(*res.RSI, 'f', 2, 64)
		}
		row := []string{
			res.Symbol,
			res.Name,
			strconv.FormatFloat(res.Price, 'f', 2, 64),
			strconv.FormatFloat(res.EMA20, 'f', 2, 64),
			strconv.FormatFloat(res.EMA50, 'f', 2, 64),
			strconv.FormatFloat(res.EMA200, 'f', 2, 64),
			rsi,
			strconv.FormatFloat(res.MACD, 'f', 2, 64),
			strconv.FormatFloat(res.MACDSignal, 'f', 2, 64),
			strconv.FormatInt(res.Volume, 10),
			strconv.FormatInt(res.AvgVolume, 10),
			strconv.Itoa(res.SignalCount),
			strings.Join(res.Signals, "; "),
			res.Timestamp.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %v", err)
		}
	}

	return nil
}
