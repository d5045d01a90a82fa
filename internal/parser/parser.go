// Package parser converts fixed-width station exports into the intermediate
// JSON record sequence consumed by the analyser.
package parser

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/station-wind-etl/internal/domain"
)

// headerLines is the number of free-form lines before the column-name line.
const headerLines = 2

// maxLineSize bounds a single station line; exports are far narrower.
const maxLineSize = 1 << 20

// Parser reads one station file and writes its records to outPath.
type Parser struct {
	inPath      string
	outPath     string
	header      []string
	columnNames string
	schema      domain.Schema
	skipped     int
	logger      *slog.Logger
}

// New reads the header and column-name line of inPath and positions the
// configured fields against it. Fields whose names are absent from the
// column-name line are dropped. It fails with a *domain.ConfigurationError
// when the file has no column-name line or no configured field matches.
func New(inPath, outPath string, widths []domain.FieldWidth, logger *slog.Logger) (*Parser, error) {
	header, columnNames, err := readHeader(inPath)
	if err != nil {
		return nil, err
	}

	schema, err := domain.BuildSchema(widths, columnNames)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", inPath, err)
	}
	if dropped := len(widths) - len(schema); dropped > 0 {
		logger.Debug("configured fields absent from header",
			"file", inPath,
			"dropped", dropped,
			"active", schema.Names(),
		)
	}

	return &Parser{
		inPath:      inPath,
		outPath:     outPath,
		header:      header,
		columnNames: columnNames,
		schema:      schema,
		logger:      logger,
	}, nil
}

// Header returns the two free-form header lines, trimmed.
func (p *Parser) Header() []string { return append([]string(nil), p.header...) }

// ColumnNames returns the column-name line used for field discovery.
func (p *Parser) ColumnNames() string { return p.columnNames }

// Skipped reports how many whitespace-only data lines the last Parse passed
// over without producing a record.
func (p *Parser) Skipped() int { return p.skipped }

// Schema returns the positioned fields active for this file.
func (p *Parser) Schema() domain.Schema { return append(domain.Schema(nil), p.schema...) }

// Parse extracts a record from every data line and writes the ordered
// sequence to the output path as indented JSON. Nothing is written if any
// line fails to parse. It returns the number of records written.
func (p *Parser) Parse() (int, error) {
	records, err := p.readRecords()
	if err != nil {
		return 0, err
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return 0, fmt.Errorf("encode records: %w", err)
	}
	if err := os.WriteFile(p.outPath, data, 0o644); err != nil {
		return 0, fmt.Errorf("write records: %w", err)
	}

	p.logger.Debug("parsed station file", "file", p.inPath, "records", len(records), "out", p.outPath)
	return len(records), nil
}

func (p *Parser) readRecords() ([]domain.RawRecord, error) {
	f, err := os.Open(p.inPath)
	if err != nil {
		return nil, fmt.Errorf("open station file: %w", err)
	}
	defer f.Close()

	records := make([]domain.RawRecord, 0)
	scanner := newScanner(f)
	lineNo, blank := 0, 0
	for scanner.Scan() {
		lineNo++
		if lineNo <= headerLines+1 {
			continue
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			blank++
			continue
		}
		rec, err := p.schema.ParseLine(line, lineNo)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.inPath, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read station file: %w", err)
	}
	p.skipped = blank
	if blank > 0 {
		p.logger.Warn("skipped blank data lines", "file", p.inPath, "skipped", blank)
	}
	return records, nil
}

// readHeader returns the trimmed header lines and the column-name line. Only
// trailing whitespace is removed from the column-name line so that field
// offsets line up with the data columns.
func readHeader(path string) ([]string, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open station file: %w", err)
	}
	defer f.Close()

	scanner := newScanner(f)
	lines := make([]string, 0, headerLines+1)
	for len(lines) < headerLines+1 && scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, "", fmt.Errorf("read station header: %w", err)
	}
	if len(lines) < headerLines+1 {
		return nil, "", &domain.ConfigurationError{
			Reason: fmt.Sprintf("%s: expected %d header lines and a column-name line, got %d lines", path, headerLines, len(lines)),
		}
	}

	header := make([]string, headerLines)
	for i := range header {
		header[i] = strings.TrimSpace(lines[i])
	}
	// Leading spaces stay: a name's offset must match its data column, so
	// stripping both ends would shift every field on an indented column line.
	return header, strings.TrimRight(lines[headerLines], " \t\r\n"), nil
}

func newScanner(f *os.File) *bufio.Scanner {
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return scanner
}
