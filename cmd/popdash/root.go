package main

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/population-dashboard/internal/adapter/csvsource"
	"github.com/couchcryptid/population-dashboard/internal/config"
	"github.com/couchcryptid/population-dashboard/internal/dashboard"
	"github.com/couchcryptid/population-dashboard/internal/domain"
	"github.com/couchcryptid/population-dashboard/internal/memo"
	"github.com/couchcryptid/population-dashboard/internal/observability"
)

const (
	title     = "Population of Canada"
	sourceURL = "https://www150.statcan.gc.ca/n1/pub/71-607-x/71-607-x2018005-eng.htm"
)

// cfg holds the environment configuration, with --data applied on top.
var cfg *config.Config

// dataPath is the --data override for DATA_PATH.
var dataPath string

var rootCmd = &cobra.Command{
	Use:           "popdash",
	Short:         "Explore quarterly population estimates for Canada.",
	Long:          `popdash serves an interactive dashboard over Statistics Canada's quarterly population estimates by province and territory.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if dataPath != "" {
			loaded.DataPath = dataPath
		}
		cfg = loaded
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "path to the population CSV (overrides DATA_PATH)")
	rootCmd.AddCommand(serveCmd, summaryCmd, exportCmd, validateCmd)
}

// app is the loaded table and its supporting services.
type app struct {
	table    *domain.Table
	ordinals domain.Ordinals
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// loadApp reads the population table at cfg.DataPath behind memoization
// caches sized by MEMO_CACHE_SIZE.
func loadApp(metrics *observability.Metrics, logger *slog.Logger) (*app, error) {
	tables := memo.New[string, *domain.Table](cfg.MemoCacheSize, metrics.MemoObserver("table"))
	loader := csvsource.NewLoader(tables, logger)
	tbl, err := loader.Load(cfg.DataPath)
	if err != nil {
		return nil, err
	}

	ordinals := memo.New[string, float64](cfg.MemoCacheSize, metrics.MemoObserver("ordinal"))
	return &app{
		table:    tbl,
		ordinals: domain.Ordinals(memo.Func(ordinals, domain.QuarterOrdinal)),
		metrics:  metrics,
		logger:   logger,
	}, nil
}

func (a *app) service() *dashboard.Service {
	opts := dashboard.Options{
		Title:     title,
		SourceURL: sourceURL,
		YearMin:   cfg.YearMin,
		YearMax:   cfg.YearMax,
	}
	return dashboard.NewService(a.table, a.ordinals, opts, a.metrics, a.logger)
}

// loadCLIApp loads the table for a one-shot command, logging to stderr and
// keeping metrics off the global registry.
func loadCLIApp(cmd *cobra.Command) (*app, error) {
	logger := observability.NewCLILogger(cmd.ErrOrStderr(), cfg.LogLevel)
	return loadApp(observability.NewMetricsWith(prometheus.NewRegistry()), logger)
}
