package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Observation is one row of an ObservationTable: the parsed fields with
// sentinels replaced, plus the derived wind columns.
type Observation struct {
	Time   time.Time
	Fields map[string]Reading

	Speed      Reading // ssbr rescaled from tenths
	Bearing    Reading // PRS, compass degrees
	BearingRad Reading // PRS in math-convention radians
	X          Reading
	Y          Reading
}

// ObservationTable holds one row per input data line, in file order. Rows
// are neither sorted nor de-duplicated by time.
type ObservationTable struct {
	Columns []string
	Rows    []Observation
	// Missing counts the sentinel values replaced across all columns.
	Missing int
}

// requiredColumns are the fields wind derivation reads.
var requiredColumns = []string{FieldYear, FieldMonth, FieldDay, FieldHour, FieldMinute, FieldSpeed, FieldBearing}

// BuildObservationTable derives timestamps and wind components for every
// record. The timestamp is derived from the raw values; sentinel replacement
// happens afterwards and before any unit conversion.
func BuildObservationTable(records []RawRecord) (ObservationTable, error) {
	table := ObservationTable{Rows: make([]Observation, 0, len(records))}
	if len(records) > 0 {
		table.Columns = records[0].Fields()
	}

	for i, rec := range records {
		for _, name := range requiredColumns {
			if _, ok := rec.Get(name); !ok {
				return ObservationTable{}, fmt.Errorf("row %d: %w: %s", i, ErrMissingColumn, name)
			}
		}

		t, err := ObservationTime(rec)
		if err != nil {
			var calErr *CalendarError
			if errors.As(err, &calErr) {
				calErr.Row = i
			}
			return ObservationTable{}, err
		}

		obs := Observation{Time: t, Fields: make(map[string]Reading, rec.Len())}
		for _, name := range rec.Fields() {
			v, _ := rec.Get(name)
			r := ReadingFromRaw(v)
			if !r.Valid {
				table.Missing++
			}
			obs.Fields[name] = r
		}

		obs.Speed = obs.Fields[FieldSpeed].Map(func(v float64) float64 { return v / 10 })
		obs.Bearing = obs.Fields[FieldBearing]
		obs.BearingRad = obs.Bearing.Map(func(v float64) float64 { return CompassToMath(v) * math.Pi / 180 })
		obs.X, obs.Y = Components(obs.Bearing, obs.Speed)

		table.Rows = append(table.Rows, obs)
	}
	return table, nil
}
