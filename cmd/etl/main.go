package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	httpadapter "github.com/couchcryptid/station-wind-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/station-wind-etl/internal/adapter/kafka"
	natsadapter "github.com/couchcryptid/station-wind-etl/internal/adapter/nats"
	"github.com/couchcryptid/station-wind-etl/internal/config"
	"github.com/couchcryptid/station-wind-etl/internal/observability"
	"github.com/couchcryptid/station-wind-etl/internal/pipeline"
	"github.com/couchcryptid/station-wind-etl/internal/schedule"
)

func main() {
	input := flag.String("input", "", "folder of station files (overrides INPUT_DIR)")
	fields := flag.String("fields", "", "field-width configuration file (overrides FIELDS_CONFIG)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	slog.SetDefault(logger)
	metrics := observability.NewMetrics()

	if *fields != "" {
		cfg.Fields = config.UseSupplied(*fields)
	}
	widths, err := cfg.Fields.Resolve()
	if err != nil {
		logger.Error("failed to load field configuration", "error", err)
		os.Exit(1)
	}

	inputDir, err := resolveInputDir(*input, cfg.InputDir, os.Stdin, os.Stdout)
	if err != nil {
		logger.Error("no input folder", "error", err)
		os.Exit(1)
	}

	loader, closer, err := newLoader(cfg, logger)
	if err != nil {
		logger.Error("failed to create summary sink", "sink", cfg.Sink, "error", err)
		os.Exit(1)
	}

	opts := []pipeline.Option{
		pipeline.WithFailFast(cfg.FailFast),
		pipeline.WithKeepIntermediate(cfg.KeepIntermediate),
	}
	if loader != nil {
		opts = append(opts, pipeline.WithLoader(loader))
	}
	p := pipeline.New(pipeline.NewProcessor(widths, logger), logger, metrics, opts...)
	layout := pipeline.NewLayout(inputDir, cfg.TmpDirName, cfg.RawDirName, cfg.OutputDirName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	var code int
	if cfg.Schedule == "" {
		code = runOnce(ctx, p, layout, logger)
	} else {
		code = runScheduled(ctx, cfg, p, layout, logger)
	}

	stop()
	if closer != nil {
		if err := closer.Close(); err != nil {
			logger.Error("summary sink close error", "sink", cfg.Sink, "error", err)
		}
	}
	os.Exit(code)
}

// resolveInputDir prefers the flag, then the environment, then asks on stdin.
func resolveInputDir(flagValue, envValue string, in io.Reader, out io.Writer) (string, error) {
	if dir := strings.TrimSpace(flagValue); dir != "" {
		return dir, nil
	}
	if dir := strings.TrimSpace(envValue); dir != "" {
		return dir, nil
	}
	fmt.Fprint(out, "Enter path to folder: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input folder: %w", err)
	}
	dir := strings.TrimSpace(line)
	if dir == "" {
		return "", errors.New("input folder is empty")
	}
	return dir, nil
}

// newLoader builds the configured summary sink, or returns nils for SINK=none.
func newLoader(cfg *config.Config, logger *slog.Logger) (pipeline.SummaryLoader, io.Closer, error) {
	switch cfg.Sink {
	case config.SinkKafka:
		w := kafkaadapter.NewWriter(cfg, logger)
		logger.Info("publishing summaries to kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
		return w, w, nil
	case config.SinkNATS:
		pub, err := natsadapter.NewPublisher(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("publishing summaries to nats", "url", cfg.NATSURL, "subject", cfg.NATSSubject)
		return pub, pub, nil
	default:
		return nil, nil, nil
	}
}

func runOnce(ctx context.Context, p *pipeline.Pipeline, layout pipeline.Layout, logger *slog.Logger) int {
	report, err := p.Run(ctx, layout)
	if err != nil {
		logger.Error("batch failed", "error", err)
		return 1
	}
	if failed := report.Failed(); len(failed) > 0 {
		logger.Error("batch finished with failures", "failed", len(failed), "files", len(report.Files))
		return 1
	}
	return 0
}

func runScheduled(ctx context.Context, cfg *config.Config, p *pipeline.Pipeline, layout pipeline.Layout, logger *slog.Logger) int {
	job := func(ctx context.Context) error {
		report, err := p.Run(ctx, layout)
		if err != nil {
			return err
		}
		return report.Err()
	}

	runner, err := schedule.New(cfg.Schedule, job, logger)
	if err != nil {
		logger.Error("failed to create scheduler", "error", err)
		return 1
	}

	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, p, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	// First batch runs immediately; the schedule covers the rest.
	if err := job(ctx); err != nil {
		logger.Error("initial run failed", "error", err)
	}
	if err := runner.Start(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
	}
	logger.Info("shutting down")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return 0
}
