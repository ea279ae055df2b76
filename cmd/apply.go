package cmd

import (
	"errors"
	"fmt"

	"github.com/rm-hull/raster-filters/internal/batch"
	"github.com/rm-hull/raster-filters/internal/imageio/stage"
	"github.com/sirupsen/logrus"
)

type ApplyOptions struct {
	Inputs    []string
	OutDir    string
	Suffix    string
	Stages    []string
	Overwrite bool
}

// Apply runs the stage pipeline over every input file and writes the
// results into OutDir.
func Apply(cfg *Config, opts ApplyOptions, log logrus.FieldLogger) error {
	if len(opts.Stages) == 0 {
		return errors.New("at least one --stage is required")
	}

	stages, err := stage.ParseAll(opts.Stages, stage.BlurDefaults{
		Divisor: cfg.BlurDivisor,
		Workers: cfg.BlurWorkers,
	})
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"stages":  opts.Stages,
		"divisor": cfg.BlurDivisor,
		"files":   len(opts.Inputs),
	}).Info("Applying filters")

	p, err := batch.NewProcessor(opts.Inputs, opts.OutDir, opts.Suffix, cfg.PoolSize, opts.Overwrite, stages, log)
	if err != nil {
		return err
	}

	if errs := p.Run(); len(errs) > 0 {
		return fmt.Errorf("%d of %d files failed: %w", len(errs), len(opts.Inputs), errors.Join(errs...))
	}
	return nil
}
