package domain

import "math"

// Reading is a numeric value that may be missing. Missing readings propagate
// through arithmetic as missing, never as zero.
type Reading struct {
	Value float64
	Valid bool
}

// Missing is the absent reading.
var Missing = Reading{}

// Present wraps a known value.
func Present(v float64) Reading {
	return Reading{Value: v, Valid: true}
}

// Sentinel codes meaning "sensor data unavailable".
const (
	SentinelShort = 999
	SentinelLong  = 9999
)

// IsSentinel reports whether v is one of the reserved missing-data codes.
func IsSentinel(v int) bool {
	return v == SentinelShort || v == SentinelLong
}

// ReadingFromRaw converts a raw integer into a reading, mapping sentinels to
// Missing.
func ReadingFromRaw(v int) Reading {
	if IsSentinel(v) {
		return Missing
	}
	return Present(float64(v))
}

// MeanIgnoringMissing returns the arithmetic mean of the valid readings, or
// Missing when there are none.
func MeanIgnoringMissing(readings []Reading) Reading {
	var sum float64
	var n int
	for _, r := range readings {
		if !r.Valid {
			continue
		}
		sum += r.Value
		n++
	}
	if n == 0 {
		return Missing
	}
	return Present(sum / float64(n))
}

// Round1 rounds half-to-even at one decimal place.
func Round1(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}

// Map applies f to a valid reading.
func (r Reading) Map(f func(float64) float64) Reading {
	if !r.Valid {
		return Missing
	}
	return Present(f(r.Value))
}
