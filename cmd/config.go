package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rm-hull/raster-filters/internal/filter"
	"github.com/rm-hull/raster-filters/internal/raster"
	"github.com/sirupsen/logrus"
)

// Config holds the settings read from the environment (and .env). Command
// line flags override these.
type Config struct {
	PoolSize    int
	BlurWorkers int
	BlurDivisor filter.Divisor
	LogLevel    logrus.Level
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		PoolSize:    1,
		BlurWorkers: 1,
		BlurDivisor: filter.NominalDivisor,
		LogLevel:    logrus.InfoLevel,
	}

	var err error
	if cfg.PoolSize, err = envInt("RASTER_POOL_SIZE", cfg.PoolSize); err != nil {
		return nil, err
	}
	if cfg.BlurWorkers, err = envInt("RASTER_BLUR_WORKERS", cfg.BlurWorkers); err != nil {
		return nil, err
	}
	if cfg.BlurDivisor, err = filter.ParseDivisor(os.Getenv("RASTER_BLUR_DIVISOR")); err != nil {
		return nil, fmt.Errorf("RASTER_BLUR_DIVISOR: %w", err)
	}
	if v := os.Getenv("RASTER_LOG_LEVEL"); v != "" {
		if cfg.LogLevel, err = logrus.ParseLevel(v); err != nil {
			return nil, fmt.Errorf("RASTER_LOG_LEVEL: %w", err)
		}
	}
	return cfg, nil
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s: %w: must be a positive integer, got %q", key, raster.ErrInvalidArgument, v)
	}
	return n, nil
}
