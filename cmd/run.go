package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gamma-omg/coin-backtest/internal/config"
	"github.com/gamma-omg/coin-backtest/internal/log"
	"github.com/gamma-omg/coin-backtest/internal/market"
	"github.com/gamma-omg/coin-backtest/internal/report"
	"github.com/gamma-omg/coin-backtest/internal/strategy"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	workers    int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the configured strategies",
	Long: `Run every strategy from the config against the price series and report the results
    ex) coin-backtest run --config ./config.yaml --workers 4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		return runBacktest(ctx)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG"), "Config file path")
	runCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Parallel runs, overrides the config when positive")
}

func runBacktest(ctx context.Context) error {
	cfg, err := config.ReadFromFile(configPath)
	if err != nil {
		return err
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := log.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := backtest(ctx, cfg, logger); err != nil {
		logger.Error("backtest failed", zap.Error(err))
		return err
	}

	return nil
}

func backtest(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	series, err := market.Load(cfg.Data.Path, market.ReadOptions{
		MinYear:    cfg.Data.MinYear,
		SkipHeader: cfg.Data.SkipHeader,
	})
	if err != nil {
		return err
	}
	logger.Info("price series loaded",
		zap.String("path", cfg.Data.Path),
		zap.Int("points", len(series)))

	strategies, err := strategy.CreateAll(*cfg, logger)
	if err != nil {
		return err
	}

	results, err := strategy.NewRunner(logger, cfg.Workers).Run(ctx, series, strategies)
	if err != nil {
		return err
	}

	console := report.NewConsole(os.Stdout)
	rep := report.NewJsonReportBuilder(logger)
	for _, r := range results {
		rep.Submit(r)
		if err := console.PrintRun(r); err != nil {
			return err
		}
	}
	if err := console.PrintSummary(results); err != nil {
		return err
	}

	if cfg.Report != "" {
		if err := rep.WriteToFile(cfg.Report); err != nil {
			return err
		}
		logger.Info("report written", zap.String("path", cfg.Report))
	}

	if cfg.PlotDir != "" {
		paths, err := report.PlotRuns(cfg.PlotDir, series, results)
		if err != nil {
			return err
		}
		logger.Info("plots written", zap.String("dir", cfg.PlotDir), zap.Int("count", len(paths)))
	}

	return nil
}
