package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rm-hull/raster-filters/internal/imageio"
	"github.com/sirupsen/logrus"
)

// Job filters a single input file into Output.
type Job struct {
	Input  string
	Output string
}

type Processor struct {
	startTime time.Time
	endTime   time.Time
	poolSize  int
	overwrite bool
	jobs      chan Job
	results   chan error
	files     []Job
	stages    []imageio.PipelineStage
	log       logrus.FieldLogger
}

// NewProcessor prepares a worker pool that runs stages over every input and
// writes the result into outDir, keeping the input file name. The output
// format follows the extension of suffix, e.g. "_blur.png".
func NewProcessor(inputs []string, outDir, suffix string, poolSize int, overwrite bool, stages []imageio.PipelineStage, log logrus.FieldLogger) (*Processor, error) {
	if poolSize < 1 {
		return nil, errors.New("pool size must be at least 1")
	}
	if len(inputs) == 0 {
		return nil, errors.New("no files to process")
	}
	if _, err := imageio.EncoderFor(suffix); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	files := make([]Job, len(inputs))
	seen := make(map[string]string, len(inputs))
	for i, in := range inputs {
		base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		out := filepath.Join(outDir, base+suffix)
		if prev, ok := seen[out]; ok {
			return nil, fmt.Errorf("inputs %s and %s would both be written to %s", prev, in, out)
		}
		seen[out] = in
		files[i] = Job{Input: in, Output: out}
	}

	return &Processor{
		startTime: time.Now(),
		poolSize:  poolSize,
		overwrite: overwrite,
		jobs:      make(chan Job),
		results:   make(chan error),
		files:     files,
		stages:    stages,
		log:       log,
	}, nil
}

// DispatchJobs sends files to the jobs channel for processing by workers.
func (p *Processor) DispatchJobs() {
	go func() {
		for _, file := range p.files {
			p.jobs <- file
		}
		close(p.jobs)
	}()
}

func (p *Processor) StartWorkers() {
	p.log.WithField("poolSize", p.poolSize).Info("Starting workers")

	for i := range p.poolSize {
		go p.worker(i)
	}
}

func (p *Processor) worker(i int) {
	log := p.log.WithField("worker", i)
	log.Debug("Worker started")
	for job := range p.jobs {
		err := p.processFile(job)
		if err != nil {
			log.WithError(err).WithField("input", job.Input).Warn("Failed to process file")
		}
		p.results <- err
	}
	log.Debug("Worker finished")
}

func (p *Processor) processFile(job Job) error {
	// if the output already exists, skip processing
	if !p.overwrite {
		if _, err := os.Stat(job.Output); err == nil {
			p.log.WithField("output", job.Output).Info("Output exists, skipping")
			return nil
		} else if !os.IsNotExist(err) {
			return err
		}
	}

	img, err := imageio.Load(job.Input)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", job.Input, err)
	}

	if err := img.Pipeline(p.stages...); err != nil {
		return fmt.Errorf("failed to process image pipeline for %s: %w", job.Input, err)
	}

	// Write next to the destination then rename, so a half-written file is
	// never left under the final name.
	dir := filepath.Dir(job.Output)
	tmpFile, err := os.CreateTemp(dir, "filter-*"+filepath.Ext(job.Output))
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmpFile.Name()
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := img.Save(tmpName); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write processed image to temporary file: %w", err)
	}

	if err := os.Rename(tmpName, job.Output); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	p.log.WithFields(logrus.Fields{
		"input":  job.Input,
		"output": job.Output,
	}).Info("Processed")
	return nil
}

// Wait blocks until every dispatched job has reported and returns the
// errors collected along the way.
func (p *Processor) Wait() []error {
	waitFor := len(p.files)
	p.log.WithField("files", waitFor).Info("Waiting for files to be processed")

	errs := make([]error, 0, waitFor)
	for range waitFor {
		if err := <-p.results; err != nil {
			errs = append(errs, err)
		}
	}
	p.endTime = time.Now()
	p.log.WithFields(logrus.Fields{
		"elapsed": p.endTime.Sub(p.startTime),
		"errors":  len(errs),
	}).Info("All files processed")
	return errs
}

// Run starts the workers, dispatches every file and waits for the results.
func (p *Processor) Run() []error {
	p.StartWorkers()
	p.DispatchJobs()
	return p.Wait()
}

func (p *Processor) Jobs() []Job {
	return p.files
}
