// Package batch runs many certificate searches from a YAML job file.
//
// A job file looks like
//
//	limit: 64
//	jobs:
//	  - name: e-upper
//	    family: e
//	    a: "193"
//	    b: "-71"
//	  - family: pi_power_3
//	    a: "-31"
//	    b: "1"
//	    limit: 16
//
// Jobs run concurrently on a bounded worker group and share one cache.
// Results come back in file order.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/njchilds90/intbound"
)

// MaxFileSize bounds a job file read from disk.
const MaxFileSize = 4 << 20

// File is the decoded job file.
type File struct {
	// Limit applies to jobs that do not set their own.
	Limit int   `yaml:"limit" validate:"gte=0"`
	Jobs  []Job `yaml:"jobs" validate:"required,min=1,dive"`
}

// Job is one search. A and B are kept as strings so that targets are not
// squeezed through float64 by the YAML decoder.
type Job struct {
	Name   string `yaml:"name"`
	Family string `yaml:"family" validate:"required"`
	A      string `yaml:"a" validate:"required"`
	B      string `yaml:"b" validate:"required"`
	Limit  int    `yaml:"limit" validate:"gte=0"`
}

// Label is the job's name, or its family and target when unnamed.
func (j Job) Label() string {
	if j.Name != "" {
		return j.Name
	}
	return fmt.Sprintf("%s(%s, %s)", j.Family, j.A, j.B)
}

// Result is the outcome of one job. Exactly one of Rendered and Err is set.
type Result struct {
	Job      Job
	Rendered *intbound.Rendered
	Err      error
	Elapsed  time.Duration
}

var validate = validator.New()

// Parse decodes and validates a job file.
func Parse(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parse jobs: %w", err)
	}
	if err := validate.Struct(f); err != nil {
		return File{}, fmt.Errorf("invalid jobs: %w", err)
	}
	return f, nil
}

// Load reads and parses the job file at path.
func Load(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("read jobs: %w", err)
	}
	if info.Size() > MaxFileSize {
		return File{}, fmt.Errorf("read jobs: %s is %d bytes, limit is %d", path, info.Size(), MaxFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read jobs: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Runner executes job files.
type Runner struct {
	Workers  int
	Cache    *intbound.Cache
	Observer intbound.Observer
	Logger   *slog.Logger
}

// Run executes every job. A failing job is reported in its Result and does
// not stop the others; Run itself only fails when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, f File) ([]Result, error) {
	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}
	cache := r.Cache
	if cache == nil {
		cache = intbound.NewCache()
	}
	log := r.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	log = log.With("run", uuid.NewString())
	log.Info("batch started", "jobs", len(f.Jobs), "workers", workers)

	results := make([]Result, len(f.Jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, job := range f.Jobs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			limit := job.Limit
			if limit == 0 {
				limit = f.Limit
			}
			results[i] = r.runJob(job, limit, cache, log)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	log.Info("batch finished", "jobs", len(f.Jobs))
	return results, nil
}

func (r *Runner) runJob(job Job, limit int, cache *intbound.Cache, log *slog.Logger) Result {
	start := time.Now()
	res := Result{Job: job}

	fam, err := intbound.ParseFamily(job.Family, cache)
	if err != nil {
		res.Err = err
		return finish(res, start, log)
	}
	t, err := intbound.ParseTarget(job.A, job.B)
	if err != nil {
		res.Err = err
		return finish(res, start, log)
	}
	s := intbound.Searcher{Limit: limit, Logger: log, Observer: r.Observer}
	c, err := s.Search(fam, t)
	if err != nil {
		res.Err = err
		return finish(res, start, log)
	}
	rendered := intbound.Render(fam, c)
	res.Rendered = &rendered
	return finish(res, start, log)
}

func finish(res Result, start time.Time, log *slog.Logger) Result {
	res.Elapsed = time.Since(start)
	if res.Err != nil {
		log.Warn("job failed", "job", res.Job.Label(), "class", intbound.Classify(res.Err), "err", res.Err)
	} else {
		log.Info("job certified", "job", res.Job.Label(), "shift", res.Rendered.Shift)
	}
	return res
}
