package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quantpulse/breakoutscan/config"
	"github.com/quantpulse/breakoutscan/internal/scan"
	"github.com/quantpulse/breakoutscan/pkg/dataflows"
)

const (
	ServiceName = "Stock Breakout Scanner API"
	Version     = "1.0"
)

// Server exposes the breakout scanner over HTTP.
type Server struct {
	cfg     *config.Config
	scanner *scan.Scanner
}

func New(cfg *config.Config, scanner *scan.Scanner) *Server {
	return &Server{cfg: cfg, scanner: scanner}
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	if !s.cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/", s.handleHome)
	r.GET("/breakout_scan", s.handleBreakoutScan)

	return r
}

// handleHome serves static service metadata.
func (s *Server) handleHome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"name":    ServiceName,
		"version": Version,
		"endpoints": gin.H{
			"/breakout_scan":                         "Scan default stocks for breakout signals",
			"/breakout_scan?symbols=SYMBOL1,SYMBOL2": "Scan specific stocks",
			"/breakout_scan?min_signals=3":           "Filter by minimum signal count",
		},
	})
}

// handleBreakoutScan runs one scan per request. Everything is refetched
// and recomputed; there is no scan state between requests.
func (s *Server) handleBreakoutScan(c *gin.Context) {
	minSignals := s.cfg.MinSignals
	if raw := c.Query("min_signals"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status": "error",
				"error":  "min_signals must be an integer",
			})
			return
		}
		minSignals = n
	}

	symbols := s.cfg.Symbols
	if raw := strings.TrimSpace(c.Query("symbols")); raw != "" {
		symbols = ParseSymbols(raw, s.cfg.MarketSuffix)
	}

	report := s.scanner.Scan(c.Request.Context(), symbols, minSignals)
	c.JSON(http.StatusOK, report)
}

// ParseSymbols splits a comma-separated symbols parameter, trims and
// upper-cases each entry and appends the market suffix to entries that
// lack one. Empty entries are dropped; duplicates are kept.
func ParseSymbols(raw, suffix string) []string {
	parts := strings.Split(raw, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		symbols = append(symbols, dataflows.NormalizeSymbol(p, suffix))
	}
	return symbols
}
