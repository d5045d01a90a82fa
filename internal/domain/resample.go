package domain

import "time"

// BucketWidth is the resampling window of the hourly summary.
const BucketWidth = 60 * time.Minute

// BucketStart floors t onto the fixed hourly grid, independent of where a
// file's observations begin.
func BucketStart(t time.Time) time.Time {
	return t.UTC().Truncate(BucketWidth)
}

// HourlyWind is one row of the hourly summary. X and Y are the rounded mean
// components; Bearing and Speed are recomposed from them.
type HourlyWind struct {
	Start   time.Time
	X       Reading
	Y       Reading
	Bearing Reading
	Speed   Reading
}

// HourlySummary is one row per bucket spanning the observed time range.
// Buckets without observations are present with missing values.
type HourlySummary struct {
	Rows []HourlyWind
}

// Resample averages the wind components of the given rows per bucket and
// recomposes bearing and speed from the mean vector. Rows may arrive in any
// time order.
func Resample(rows []Observation) HourlySummary {
	if len(rows) == 0 {
		return HourlySummary{}
	}

	type acc struct{ xs, ys []Reading }
	buckets := make(map[time.Time]*acc)
	first, last := BucketStart(rows[0].Time), BucketStart(rows[0].Time)
	for _, obs := range rows {
		start := BucketStart(obs.Time)
		if start.Before(first) {
			first = start
		}
		if start.After(last) {
			last = start
		}
		a, ok := buckets[start]
		if !ok {
			a = &acc{}
			buckets[start] = a
		}
		a.xs = append(a.xs, obs.X)
		a.ys = append(a.ys, obs.Y)
	}

	n := int(last.Sub(first)/BucketWidth) + 1
	out := HourlySummary{Rows: make([]HourlyWind, 0, n)}
	for start := first; !start.After(last); start = start.Add(BucketWidth) {
		row := HourlyWind{Start: start, X: Missing, Y: Missing}
		if a, ok := buckets[start]; ok {
			row.X = MeanIgnoringMissing(a.xs).Map(Round1)
			row.Y = MeanIgnoringMissing(a.ys).Map(Round1)
		}
		row.Bearing, row.Speed = Recompose(row.X, row.Y)
		out.Rows = append(out.Rows, row)
	}
	return out
}
