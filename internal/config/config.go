package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataPath        string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Selectable year range of the form pickers.
	YearMin int
	YearMax int

	// Entries per memoization cache; 0 disables caching.
	MemoCacheSize int

	ChartWidth  int
	ChartHeight int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	yearMin, err := parseInt("YEAR_MIN", 1991)
	if err != nil {
		return nil, err
	}
	yearMax, err := parseInt("YEAR_MAX", 2023)
	if err != nil {
		return nil, err
	}
	memoSize, err := parseInt("MEMO_CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}
	width, err := parseInt("CHART_WIDTH", 640)
	if err != nil {
		return nil, err
	}
	height, err := parseInt("CHART_HEIGHT", 400)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataPath:        sharedcfg.EnvOrDefault("DATA_PATH", "data/quarterly_canada_population.csv"),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		YearMin:         yearMin,
		YearMax:         yearMax,
		MemoCacheSize:   memoSize,
		ChartWidth:      width,
		ChartHeight:     height,
	}

	if cfg.DataPath == "" {
		return nil, errors.New("DATA_PATH is required")
	}
	if cfg.YearMin > cfg.YearMax {
		return nil, fmt.Errorf("YEAR_MIN (%d) is after YEAR_MAX (%d)", cfg.YearMin, cfg.YearMax)
	}
	if cfg.MemoCacheSize < 0 {
		return nil, errors.New("invalid MEMO_CACHE_SIZE: must be >= 0")
	}
	if cfg.ChartWidth <= 0 {
		return nil, errors.New("invalid CHART_WIDTH: must be > 0")
	}
	if cfg.ChartHeight <= 0 {
		return nil, errors.New("invalid CHART_HEIGHT: must be > 0")
	}

	return cfg, nil
}

func parseInt(key string, def int) (int, error) {
	s := sharedcfg.EnvOrDefault(key, strconv.Itoa(def))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return n, nil
}
