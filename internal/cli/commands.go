package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/quantpulse/breakoutscan/config"
	"github.com/quantpulse/breakoutscan/internal/scan"
	"github.com/quantpulse/breakoutscan/internal/server"
	"github.com/quantpulse/breakoutscan/internal/utils"
	"github.com/quantpulse/breakoutscan/pkg/dataflows"
	"github.com/quantpulse/breakoutscan/pkg/logger"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "breakoutscan",
		Short: "breakoutscan - rule-based breakout scanner for listed equities",
		Long: `breakoutscan fetches daily price history for a set of exchange-listed
equities, computes EMA/RSI/MACD indicators, scores each instrument
against a fixed breakout rule set and returns a ranked signal list,
either over HTTP or directly on the terminal.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				cfg.Debug = true
				cfg.LogLevel = "debug"
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return logger.Init(logger.Config{
				Level:      cfg.LogLevel,
				OutputFile: cfg.LogFile,
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfg)
		},
	}

	rootCmd.AddCommand(newServeCmd(cfg))
	rootCmd.AddCommand(newScanCmd(cfg))
	rootCmd.AddCommand(newConfigCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")

	return rootCmd
}

// newServeCmd creates the serve command
func newServeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the breakout scanner HTTP service",
		Long: `Start the HTTP API. Each request independently refetches history and
recomputes every indicator; the service keeps no scan state.
Example: breakoutscan serve --listen :8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
				cfg.ListenAddr = listen
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().String("listen", "", "HTTP listen address (default from config)")

	return cmd
}

// runServe starts the HTTP server and blocks until SIGINT/SIGTERM.
func runServe(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	provider, err := dataflows.NewProvider(cfg)
	if err != nil {
		return err
	}

	scanner := scan.NewScanner(cfg, provider)
	srv := server.New(cfg, scanner)

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.WithField("addr", cfg.ListenAddr).Info("breakout scanner listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-errCh:
		return err
	case <-stopCh:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)

	logger.Log.Info("server stopped")
	return nil
}

// newScanCmd creates the one-shot scan command
func newScanCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run a single breakout scan and print the results",
		Long: `Run one scan against the configured data provider and render the
ranked results on the terminal.
Example: breakoutscan scan --symbols RELIANCE,TCS --min-signals 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}

			symbolsFlag, _ := cmd.Flags().GetString("symbols")
			minSignals, _ := cmd.Flags().GetInt("min-signals")
			csvPath, _ := cmd.Flags().GetString("csv")
			mdPath, _ := cmd.Flags().GetString("markdown")

			symbols := cfg.Symbols
			if symbolsFlag != "" {
				symbols = server.ParseSymbols(symbolsFlag, cfg.MarketSuffix)
			} else if isatty.IsTerminal(os.Stdin.Fd()) {
				entered, err := PromptForSymbols(cfg.Symbols)
				if err != nil {
					return err
				}
				if entered != "" {
					symbols = server.ParseSymbols(entered, cfg.MarketSuffix)
				}
			}

			provider, err := dataflows.NewProvider(cfg)
			if err != nil {
				return err
			}

			scanner := scan.NewScanner(cfg, provider)
			report := scanner.Scan(cmd.Context(), symbols, minSignals)

			fmt.Println(RenderReport(report))

			if csvPath != "" {
				if err := utils.WriteScanResultsToCSV(csvPath, report.Results); err != nil {
					return fmt.Errorf("failed to write CSV: %w", err)
				}
				fmt.Printf("Results written to %s\n", csvPath)
			}
			if mdPath != "" {
				if err := WriteReportMarkdown(mdPath, report); err != nil {
					return fmt.Errorf("failed to write markdown: %w", err)
				}
				fmt.Printf("Report written to %s\n", mdPath)
			}

			return nil
		},
	}

	cmd.Flags().StringP("symbols", "s", "", "Comma-separated symbols to scan (default: built-in list)")
	cmd.Flags().IntP("min-signals", "m", cfg.MinSignals, "Minimum triggered signals to qualify")
	cmd.Flags().String("csv", "", "Write qualifying results to a CSV file")
	cmd.Flags().String("markdown", "", "Write the scan report to a markdown file")

	return cmd
}

// newConfigCmd creates the config command
func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and provider credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			fmt.Printf("Configuration OK (provider: %s, %d default symbols)\n",
				cfg.Provider, len(cfg.Symbols))
			return nil
		},
	})

	return configCmd
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s v%s\n", server.ServiceName, server.Version)
		},
	}
}
