// Package schedule re-runs the station batch on a cron schedule.
package schedule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled unit of work.
type Job func(ctx context.Context) error

// Runner invokes a Job on a standard five-field cron schedule.
// Overlapping runs are skipped.
type Runner struct {
	cron   *cron.Cron
	spec   string
	job    Job
	logger *slog.Logger
}

// New validates spec and creates a Runner for job.
func New(spec string, job Job, logger *slog.Logger) (*Runner, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	cl := cronLogger{logger: logger}
	return &Runner{
		cron:   cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		spec:   spec,
		job:    job,
		logger: logger,
	}, nil
}

// Start runs the schedule until ctx is cancelled, then waits for a running
// job to finish.
func (r *Runner) Start(ctx context.Context) error {
	_, err := r.cron.AddFunc(r.spec, func() {
		if err := r.job(ctx); err != nil {
			r.logger.Error("scheduled run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}

	r.logger.Info("scheduler started", "schedule", r.spec)
	r.cron.Start()

	<-ctx.Done()
	r.logger.Info("scheduler stopping", "reason", ctx.Err())
	<-r.cron.Stop().Done()
	return nil
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
