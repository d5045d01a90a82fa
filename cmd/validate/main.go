// Command validate cross-checks an hourly wind file against the raw snapshot
// it was derived from. It rebuilds the observation table from the snapshot,
// recomputes the hourly vector averages with the domain package and reports
// every bucket whose bearing or speed differs from the file.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -raw data/raw/zagreb_raw.csv \
//	  -hourly data/izlaz/zagreb.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/couchcryptid/station-wind-etl/internal/analyser"
	"github.com/couchcryptid/station-wind-etl/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// hourlyRow is one parsed line of an hourly file, cells kept as written.
type hourlyRow struct {
	lineNum int
	start   time.Time
	bearing string
	speed   string
}

func main() {
	rawPath := flag.String("raw", "", "path to the raw snapshot CSV")
	hourlyPath := flag.String("hourly", "", "path to the hourly output CSV")
	flag.Parse()

	if *rawPath == "" || *hourlyPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*rawPath, *hourlyPath, os.Stdout); code != 0 {
		os.Exit(code)
	}
}

func run(rawPath, hourlyPath string, out io.Writer) int {
	fmt.Fprintln(out, "=== Hourly Wind Validation ===")
	fmt.Fprintln(out)

	rawFile, err := os.Open(rawPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: open raw snapshot: %v\n", err)
		return 1
	}
	defer rawFile.Close()

	hourlyFile, err := os.Open(hourlyPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: open hourly file: %v\n", err)
		return 1
	}
	defer hourlyFile.Close()

	records, rawPhase := loadRawSnapshot(rawFile)
	rows, hourlyPhase := loadHourly(hourlyFile)
	phases := []*phase{rawPhase, hourlyPhase}
	if rawPhase.passed() && hourlyPhase.passed() {
		phases = append(phases, compareHourly(records, rows))
	}

	return report(out, phases, len(records), len(rows))
}

func report(out io.Writer, phases []*phase, records, buckets int) int {
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Rows: %d raw, %d hourly\n", records, buckets)

	// Print detailed errors.
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// ── Data loading ──

// loadRawSnapshot rebuilds RawRecords from a snapshot whose first column is
// the row index and whose header names the fields.
func loadRawSnapshot(r io.Reader) ([]domain.RawRecord, *phase) {
	p := &phase{name: "Raw snapshot structure"}

	all, err := csv.NewReader(r).ReadAll()
	if err != nil {
		p.errorf("read csv: %v", err)
		return nil, p
	}
	if len(all) == 0 {
		p.errorf("empty file, want a header row")
		return nil, p
	}

	header := all[0]
	if len(header) < 2 || header[0] != "" {
		p.errorf("header %q: want an empty index cell followed by field names", header)
		return nil, p
	}
	names := header[1:]

	records := make([]domain.RawRecord, 0, len(all)-1)
	for i, row := range all[1:] {
		line := i + 2
		if row[0] != strconv.Itoa(i) {
			p.errorf("line %d: index %q, want %d", line, row[0], i)
		}
		rec := domain.NewRawRecord(len(names))
		for j, name := range names {
			cell := row[j+1]
			if cell == "" {
				continue
			}
			v, err := strconv.Atoi(cell)
			if err != nil {
				p.errorf("line %d: %s=%q is not an integer", line, name, cell)
				continue
			}
			rec.Set(name, v)
		}
		records = append(records, rec)
	}
	return records, p
}

func loadHourly(r io.Reader) ([]hourlyRow, *phase) {
	p := &phase{name: "Hourly file structure"}

	all, err := csv.NewReader(r).ReadAll()
	if err != nil {
		p.errorf("read csv: %v", err)
		return nil, p
	}
	want := []string{"time", domain.FieldBearing, domain.FieldSpeed}
	if len(all) == 0 || len(all[0]) != len(want) || all[0][0] != want[0] || all[0][1] != want[1] || all[0][2] != want[2] {
		p.errorf("header must be %q", want)
		return nil, p
	}

	rows := make([]hourlyRow, 0, len(all)-1)
	for i, row := range all[1:] {
		line := i + 2
		start, err := time.Parse(analyser.TimeLayout, row[0])
		if err != nil {
			p.errorf("line %d: time %q: %v", line, row[0], err)
			continue
		}
		if n := len(rows); n > 0 && !start.Equal(rows[n-1].start.Add(domain.BucketWidth)) {
			p.errorf("line %d: %s does not follow %s by one bucket", line, row[0], rows[n-1].start.Format(analyser.TimeLayout))
		}
		rows = append(rows, hourlyRow{lineNum: line, start: start, bearing: row[1], speed: row[2]})
	}
	return rows, p
}

// ── Recomputation ──

func compareHourly(records []domain.RawRecord, rows []hourlyRow) *phase {
	p := &phase{name: "Hourly vector averages"}

	table, err := domain.BuildObservationTable(records)
	if err != nil {
		p.errorf("rebuild observations: %v", err)
		return p
	}
	summary := domain.Resample(table.Rows)

	if len(summary.Rows) != len(rows) {
		p.errorf("bucket count: recomputed %d, file has %d", len(summary.Rows), len(rows))
	}

	for i := range min(len(summary.Rows), len(rows)) {
		want := summary.Rows[i]
		got := rows[i]
		if !want.Start.Equal(got.start) {
			p.errorf("line %d: bucket %s, recomputed %s", got.lineNum,
				got.start.Format(analyser.TimeLayout), want.Start.Format(analyser.TimeLayout))
			continue
		}
		if b := analyser.FormatBearing(want.Bearing); b != got.bearing {
			p.errorf("line %d: %s %s=%q, recomputed %q", got.lineNum,
				got.start.Format(analyser.TimeLayout), domain.FieldBearing, got.bearing, b)
		}
		if s := analyser.FormatSpeed(want.Speed); s != got.speed {
			p.errorf("line %d: %s %s=%q, recomputed %q", got.lineNum,
				got.start.Format(analyser.TimeLayout), domain.FieldSpeed, got.speed, s)
		}
	}
	return p
}
