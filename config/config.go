package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultSymbols is the built-in NSE scan universe, used when a request
// does not name its own symbols.
var DefaultSymbols = []string{
	"RELIANCE.NS", "TCS.NS", "HDFCBANK.NS", "INFY.NS", "ICICIBANK.NS",
	"HINDUNILVR.NS", "ITC.NS", "SBIN.NS", "BHARTIARTL.NS", "KOTAKBANK.NS",
	"LT.NS", "AXISBANK.NS", "ASIANPAINT.NS", "MARUTI.NS", "HCLTECH.NS",
	"WIPRO.NS", "ULTRACEMCO.NS", "TITAN.NS", "NESTLEIND.NS", "BAJFINANCE.NS",
}

type Config struct {
	ProjectDir   string `json:"project_dir"`
	DataDir      string `json:"data_dir"`
	DataCacheDir string `json:"data_cache_dir"`

	ListenAddr string `json:"listen_addr"`
	Debug      bool   `json:"debug"`

	// Scan parameters
	Symbols      []string      `json:"symbols"`
	MarketSuffix string        `json:"market_suffix"`
	MinSignals   int           `json:"min_signals"`
	HistoryDays  int           `json:"history_days"`
	ScanWorkers  int           `json:"scan_workers"`
	FetchTimeout time.Duration `json:"fetch_timeout"`

	// Data provider selection: yahoo, finnhub or longport
	Provider     string `json:"provider"`
	CacheEnabled bool   `json:"cache_enabled"`

	// Finnhub API configuration
	FinnhubAPIKey string `json:"finnhub_api_key"`

	// Longport API configuration
	LongportAppKey      string `json:"longport_app_key"`
	LongportAppSecret   string `json:"longport_app_secret"`
	LongportAccessToken string `json:"longport_access_token"`

	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	cfg := &Config{
		ProjectDir:   currentDir,
		DataDir:      filepath.Join(currentDir, "data"),
		DataCacheDir: filepath.Join(currentDir, "data", "cache"),

		ListenAddr: ":8080",
		Debug:      false,

		Symbols:      DefaultSymbols,
		MarketSuffix: ".NS",
		MinSignals:   2,
		HistoryDays:  365,
		ScanWorkers:  4,
		FetchTimeout: 30 * time.Second,

		Provider:     "yahoo",
		CacheEnabled: true,

		LogLevel: "info",
		LogFile:  "",
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	// Override with environment variables if they exist
	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
		c.DataCacheDir = filepath.Join(val, "cache")
	}
	if val := os.Getenv("LISTEN_ADDR"); val != "" {
		c.ListenAddr = val
	}
	if val := os.Getenv("DEBUG"); val != "" {
		c.Debug = val == "true" || val == "1"
	}
	if val := os.Getenv("SCAN_SYMBOLS"); val != "" {
		c.Symbols = splitSymbols(val)
	}
	if val := os.Getenv("MARKET_SUFFIX"); val != "" {
		c.MarketSuffix = val
	}
	if val := os.Getenv("MIN_SIGNALS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.MinSignals = n
		}
	}
	if val := os.Getenv("HISTORY_DAYS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			c.HistoryDays = n
		}
	}
	if val := os.Getenv("SCAN_WORKERS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			c.ScanWorkers = n
		}
	}
	if val := os.Getenv("FETCH_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			c.FetchTimeout = d
		}
	}
	if val := os.Getenv("DATA_PROVIDER"); val != "" {
		c.Provider = strings.ToLower(val)
	}
	if val := os.Getenv("CACHE_ENABLED"); val != "" {
		c.CacheEnabled = val == "true" || val == "1"
	}
	if val := os.Getenv("FINNHUB_API_KEY"); val != "" {
		c.FinnhubAPIKey = val
	}
	if val := os.Getenv("LONGPORT_APP_KEY"); val != "" {
		c.LongportAppKey = val
	}
	if val := os.Getenv("LONGPORT_APP_SECRET"); val != "" {
		c.LongportAppSecret = val
	}
	if val := os.Getenv("LONGPORT_ACCESS_TOKEN"); val != "" {
		c.LongportAccessToken = val
	}
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
	if val := os.Getenv("LOG_FILE"); val != "" {
		c.LogFile = val
	}
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.DataDir, c.DataCacheDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks that the configured provider is usable.
func (c *Config) Validate() error {
	switch c.Provider {
	case "yahoo":
		// no credentials required
	case "finnhub":
		if c.FinnhubAPIKey == "" {
			return fmt.Errorf("finnhub provider selected but FINNHUB_API_KEY is not set")
		}
	case "longport":
		if c.LongportAppKey == "" || c.LongportAppSecret == "" || c.LongportAccessToken == "" {
			return fmt.Errorf("longport provider selected but API credentials are not set")
		}
	default:
		return fmt.Errorf("unknown data provider: %s", c.Provider)
	}
	if c.HistoryDays <= 0 {
		return fmt.Errorf("history window must be positive, got %d", c.HistoryDays)
	}
	return nil
}

func splitSymbols(s string) []string {
	parts := strings.Split(s, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			symbols = append(symbols, strings.ToUpper(p))
		}
	}
	return symbols
}
