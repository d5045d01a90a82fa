package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/couchcryptid/station-wind-etl/internal/analyser"
	"github.com/couchcryptid/station-wind-etl/internal/domain"
	"github.com/couchcryptid/station-wind-etl/internal/parser"
)

// StationProcessor implements FileProcessor by running the fixed-width
// parser and then the wind analyser on one station file.
type StationProcessor struct {
	widths []domain.FieldWidth
	logger *slog.Logger
}

// NewProcessor creates a StationProcessor for a resolved field table.
func NewProcessor(widths []domain.FieldWidth, logger *slog.Logger) *StationProcessor {
	return &StationProcessor{
		widths: widths,
		logger: logger,
	}
}

func (s *StationProcessor) Process(_ context.Context, paths FilePaths) (FileResult, error) {
	result := FileResult{Station: paths.Station, Path: paths.Input}

	p, err := parser.New(paths.Input, paths.Intermediate, s.widths, s.logger)
	if err != nil {
		return result, err
	}
	records, err := p.Parse()
	if err != nil {
		return result, err
	}
	result.Records = records

	a := analyser.New(paths.Intermediate, paths.Output, paths.Raw,
		analyser.WithExtension(filepath.Ext(paths.Input)),
		analyser.WithLogger(s.logger),
	)
	analysis, err := a.Analyse()
	if err != nil {
		return result, err
	}
	result.Missing = analysis.Missing
	result.Buckets = len(analysis.Summary.Rows)
	result.Summary = analysis.Summary
	return result, nil
}
