package domain

import (
	"errors"
	"fmt"
)

// ErrMissingColumn is returned when a column required for wind derivation is
// absent from the parsed records.
var ErrMissingColumn = errors.New("missing column")

// ConfigurationError reports a field configuration that cannot be used to
// parse a file: a non-integer or non-positive width, or a schema that is
// empty after header matching.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "configuration error: " + e.Reason
	}
	return fmt.Sprintf("configuration error: field %q: %s", e.Field, e.Reason)
}

// ParseError reports a data line whose field substring is not an integer.
// Line is the 1-based line number in the station file.
type ParseError struct {
	Line  int
	Field string
	Text  string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: line %d field %s: invalid integer %q", e.Line, e.Field, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }

// CalendarError reports date/time sub-fields that do not form a valid
// timestamp. Row is the 0-based record index.
type CalendarError struct {
	Row    int
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
}

func (e *CalendarError) Error() string {
	return fmt.Sprintf("calendar error: row %d: invalid date/time %04d-%02d-%02d %02d:%02d",
		e.Row, e.Year, e.Month, e.Day, e.Hour, e.Minute)
}
