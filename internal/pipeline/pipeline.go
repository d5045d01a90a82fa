package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/station-wind-etl/internal/domain"
	"github.com/couchcryptid/station-wind-etl/internal/observability"
	"github.com/jonboulle/clockwork"
)

// FileProcessor turns one station file into its raw snapshot and hourly output.
type FileProcessor interface {
	Process(ctx context.Context, paths FilePaths) (FileResult, error)
}

// SummaryLoader publishes the hourly summary of one station to a downstream sink.
type SummaryLoader interface {
	LoadSummary(ctx context.Context, station string, summary domain.HourlySummary) error
}

// FileResult describes the outcome of one station file.
type FileResult struct {
	Station  string
	Path     string
	Records  int
	Missing  int
	Buckets  int
	Summary  domain.HourlySummary
	Duration time.Duration
	Err      error
}

// Report aggregates the results of one batch run.
type Report struct {
	Files    []FileResult
	Started  time.Time
	Finished time.Time
}

// Failed returns the results that ended in an error.
func (r Report) Failed() []FileResult {
	var failed []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			failed = append(failed, f)
		}
	}
	return failed
}

// Succeeded returns the number of files processed without error.
func (r Report) Succeeded() int {
	return len(r.Files) - len(r.Failed())
}

// Err joins the per-file errors, or returns nil when every file succeeded.
func (r Report) Err() error {
	var errs []error
	for _, f := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s: %w", f.Path, f.Err))
	}
	return errors.Join(errs...)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLoader publishes each successful file's summary through l.
func WithLoader(l SummaryLoader) Option {
	return func(p *Pipeline) { p.loader = l }
}

// WithClock sets the time source used for durations.
func WithClock(c clockwork.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// WithFailFast stops the batch at the first failing file.
func WithFailFast(v bool) Option {
	return func(p *Pipeline) { p.failFast = v }
}

// WithKeepIntermediate leaves the tmp folder in place after a run.
func WithKeepIntermediate(v bool) Option {
	return func(p *Pipeline) { p.keepTmp = v }
}

// Pipeline runs the parse-analyse-publish sequence over every file of an input folder.
type Pipeline struct {
	processor FileProcessor
	loader    SummaryLoader
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	last      atomic.Pointer[Report]
	failFast  bool
	keepTmp   bool
}

// New creates a Pipeline with the given processor and observability.
func New(proc FileProcessor, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		processor: proc,
		logger:    logger,
		metrics:   metrics,
		clock:     clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil once at least one batch has completed,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.last.Load() == nil {
		return errors.New("pipeline has not completed a batch yet")
	}
	return nil
}

// LastReport returns the report of the most recent completed batch.
func (p *Pipeline) LastReport() (Report, bool) {
	r := p.last.Load()
	if r == nil {
		return Report{}, false
	}
	return *r, true
}

// Run processes every file under layout.InputDir in sorted order.
// The returned error is non-nil when the batch could not run to completion:
// the folders could not be prepared, the context was cancelled, or fail-fast
// stopped at a failing file. Per-file failures otherwise only appear in the Report.
func (p *Pipeline) Run(ctx context.Context, layout Layout) (Report, error) {
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	report := Report{Started: p.clock.Now()}

	files, err := listInputs(layout.InputDir)
	if err != nil {
		p.metrics.BatchRuns.WithLabelValues("failure").Inc()
		return report, fmt.Errorf("list input folder: %w", err)
	}
	if err := layout.Prepare(); err != nil {
		p.metrics.BatchRuns.WithLabelValues("failure").Inc()
		return report, fmt.Errorf("prepare output folders: %w", err)
	}
	if !p.keepTmp {
		defer p.removeTmp(layout.TmpDir)
	}

	p.logger.Info("batch started", "input", layout.InputDir, "files", len(files))

	runErr := p.processAll(ctx, layout, files, &report)

	report.Finished = p.clock.Now()
	p.metrics.BatchDuration.Observe(report.Finished.Sub(report.Started).Seconds())
	p.metrics.BatchRuns.WithLabelValues(batchOutcome(report, runErr)).Inc()

	if runErr != nil {
		return report, runErr
	}

	p.last.Store(&report)
	p.logger.Info("done",
		"files", len(report.Files),
		"succeeded", report.Succeeded(),
		"failed", len(report.Failed()),
	)
	return report, nil
}

func (p *Pipeline) processAll(ctx context.Context, layout Layout, files []string, report *Report) error {
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			p.logger.Info("batch stopping", "reason", err)
			return err
		}

		res := p.processFile(ctx, layout.PathsFor(file))
		report.Files = append(report.Files, res)

		if res.Err != nil && p.failFast {
			return fmt.Errorf("%s: %w", res.Path, res.Err)
		}
	}
	return nil
}

func (p *Pipeline) processFile(ctx context.Context, paths FilePaths) FileResult {
	start := p.clock.Now()
	p.logger.Info("processing", "file", paths.Input)

	res, err := p.processor.Process(ctx, paths)
	res.Station = paths.Station
	res.Path = paths.Input
	if err == nil && p.loader != nil {
		if err = p.loader.LoadSummary(ctx, paths.Station, res.Summary); err != nil {
			p.metrics.PublishErrors.Inc()
			err = fmt.Errorf("publish summary: %w", err)
		} else {
			p.metrics.SummariesPublished.Inc()
		}
	}
	res.Duration = p.clock.Since(start)
	p.metrics.FileProcessingDuration.Observe(res.Duration.Seconds())

	if err != nil {
		res.Err = err
		p.metrics.FilesProcessed.WithLabelValues("failure").Inc()
		p.logger.Error("file failed", "file", paths.Input, "error", err)
		return res
	}

	p.metrics.FilesProcessed.WithLabelValues("success").Inc()
	p.metrics.RecordsParsed.Add(float64(res.Records))
	p.metrics.MissingValues.Add(float64(res.Missing))
	p.metrics.BucketsWritten.Add(float64(res.Buckets))
	p.logger.Debug("file done",
		"file", paths.Input,
		"records", res.Records,
		"missing", res.Missing,
		"buckets", res.Buckets,
		"duration", res.Duration,
	)
	return res
}

func (p *Pipeline) removeTmp(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		p.logger.Warn("remove tmp folder failed", "dir", dir, "error", err)
	}
}

func batchOutcome(report Report, runErr error) string {
	failed := len(report.Failed())
	switch {
	case runErr != nil && failed == 0:
		return "failure"
	case failed == 0:
		return "success"
	case failed == len(report.Files):
		return "failure"
	default:
		return "partial"
	}
}

// listInputs walks dir recursively and returns its regular files in lexical order.
func listInputs(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
