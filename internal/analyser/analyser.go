// Package analyser turns the parser's intermediate records into a raw CSV
// snapshot and an hourly vector-averaged wind summary.
package analyser

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/station-wind-etl/internal/domain"
)

// TimeLayout formats bucket start times in the hourly output.
const TimeLayout = "2006-01-02 15:04:05"

// Analysis summarizes one analysed file.
type Analysis struct {
	Rows    int
	Missing int
	Summary domain.HourlySummary
}

// Option configures an Analyser.
type Option func(*Analyser)

// WithExtension tags the analyser with the station file extension. The tag
// is advisory and only appears in logs.
func WithExtension(ext string) Option {
	return func(a *Analyser) { a.extension = ext }
}

// WithLogger sets the analyser logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyser) { a.logger = logger }
}

// Analyser reads an intermediate record file and writes the raw snapshot and
// the hourly summary.
type Analyser struct {
	inPath    string
	outPath   string
	rawPath   string
	extension string
	logger    *slog.Logger
}

// New creates an Analyser. Paths are normalized to forward slashes; nothing
// is read until Analyse is called.
func New(inPath, outPath, rawPath string, opts ...Option) *Analyser {
	a := &Analyser{
		inPath:  normalizePath(inPath),
		outPath: normalizePath(outPath),
		rawPath: normalizePath(rawPath),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func normalizePath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// Analyse loads the records, writes the raw snapshot before any derivation,
// then derives observations, resamples them to hourly buckets and writes the
// bearing/speed summary.
func (a *Analyser) Analyse() (Analysis, error) {
	records, err := a.load()
	if err != nil {
		return Analysis{}, err
	}

	if err := writeRawSnapshot(a.rawPath, records); err != nil {
		return Analysis{}, err
	}

	table, err := domain.BuildObservationTable(records)
	if err != nil {
		return Analysis{}, fmt.Errorf("analyse %s: %w", a.inPath, err)
	}
	summary := domain.Resample(table.Rows)

	if err := writeHourly(a.outPath, summary); err != nil {
		return Analysis{}, err
	}

	a.logger.Debug("analysed station records",
		"file", a.inPath,
		"extension", a.extension,
		"rows", len(table.Rows),
		"missing", table.Missing,
		"buckets", len(summary.Rows),
	)
	return Analysis{Rows: len(table.Rows), Missing: table.Missing, Summary: summary}, nil
}

func (a *Analyser) load() ([]domain.RawRecord, error) {
	data, err := os.ReadFile(a.inPath)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	var records []domain.RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode records %s: %w", a.inPath, err)
	}
	return records, nil
}

// snapshotColumns returns every field name in first-seen order.
func snapshotColumns(records []domain.RawRecord) []string {
	var cols []string
	seen := make(map[string]bool)
	for _, rec := range records {
		for _, name := range rec.Fields() {
			if !seen[name] {
				seen[name] = true
				cols = append(cols, name)
			}
		}
	}
	return cols
}

// writeRawSnapshot writes the records verbatim with a leading row index.
func writeRawSnapshot(path string, records []domain.RawRecord) error {
	cols := snapshotColumns(records)
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, append([]string{""}, cols...))
	for i, rec := range records {
		row := make([]string, 0, len(cols)+1)
		row = append(row, strconv.Itoa(i))
		for _, name := range cols {
			if v, ok := rec.Get(name); ok {
				row = append(row, strconv.Itoa(v))
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}
	if err := writeCSV(path, rows); err != nil {
		return fmt.Errorf("write raw snapshot: %w", err)
	}
	return nil
}

// writeHourly writes the PRS and ssbr columns indexed by bucket start.
// Missing values are empty cells.
func writeHourly(path string, summary domain.HourlySummary) error {
	rows := make([][]string, 0, len(summary.Rows)+1)
	rows = append(rows, []string{"time", domain.FieldBearing, domain.FieldSpeed})
	for _, r := range summary.Rows {
		rows = append(rows, []string{
			r.Start.Format(TimeLayout),
			FormatBearing(r.Bearing),
			FormatSpeed(r.Speed),
		})
	}
	if err := writeCSV(path, rows); err != nil {
		return fmt.Errorf("write hourly summary: %w", err)
	}
	return nil
}

// FormatBearing renders a whole-degree bearing, empty when missing.
func FormatBearing(r domain.Reading) string {
	if !r.Valid {
		return ""
	}
	return strconv.Itoa(int(r.Value))
}

// FormatSpeed renders a speed with one decimal, empty when missing.
func FormatSpeed(r domain.Reading) string {
	if !r.Valid {
		return ""
	}
	return strconv.FormatFloat(r.Value, 'f', 1, 64)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
