package domain

import (
	"strconv"
	"strings"
)

// Field names of the default station export.
const (
	FieldHour           = "SS"
	FieldMinute         = "mm"
	FieldDay            = "DD"
	FieldMonth          = "mj"
	FieldYear           = "GG"
	FieldSpeed          = "ssbr"
	FieldBearing        = "PRS"
	FieldMaxGust        = "mxbr"
	FieldMaxGustBearing = "MXS"
)

// FieldWidth is one configured field: a name and the number of characters it
// occupies in a data line.
type FieldWidth struct {
	Name  string
	Width int
}

// FieldSpec is a configured field positioned against a file's column-name line.
type FieldSpec struct {
	Name     string
	Width    int
	Position int
}

// Schema is the ordered set of fields active for one station file.
type Schema []FieldSpec

// DefaultFieldWidths returns the built-in field table used when no field
// configuration file is supplied.
func DefaultFieldWidths() []FieldWidth {
	return []FieldWidth{
		{Name: FieldHour, Width: 2},
		{Name: FieldMinute, Width: 2},
		{Name: FieldDay, Width: 2},
		{Name: FieldMonth, Width: 2},
		{Name: FieldYear, Width: 2},
		{Name: FieldSpeed, Width: 4},
		{Name: FieldBearing, Width: 3},
		{Name: FieldMaxGust, Width: 4},
		{Name: FieldMaxGustBearing, Width: 3},
	}
}

// BuildSchema positions every configured field against columnNames and
// returns only the fields that were found. The input slice is not modified.
// It fails with a *ConfigurationError when a width is not positive, a name is
// repeated, or no field matched at all.
func BuildSchema(widths []FieldWidth, columnNames string) (Schema, error) {
	seen := make(map[string]bool, len(widths))
	schema := make(Schema, 0, len(widths))
	for _, fw := range widths {
		if fw.Name == "" {
			return nil, &ConfigurationError{Reason: "empty field name"}
		}
		if fw.Width <= 0 {
			return nil, &ConfigurationError{Field: fw.Name, Reason: "width must be a positive integer, got " + strconv.Itoa(fw.Width)}
		}
		if seen[fw.Name] {
			return nil, &ConfigurationError{Field: fw.Name, Reason: "duplicate field"}
		}
		seen[fw.Name] = true

		pos := strings.Index(columnNames, fw.Name)
		if pos < 0 {
			continue
		}
		schema = append(schema, FieldSpec{Name: fw.Name, Width: fw.Width, Position: pos})
	}
	if len(schema) == 0 {
		return nil, &ConfigurationError{Reason: "no configured field found in column-name line"}
	}
	return schema, nil
}

// Names returns the field names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Has reports whether the schema contains a field with the given name.
func (s Schema) Has(name string) bool {
	for _, f := range s {
		if f.Name == name {
			return true
		}
	}
	return false
}

// ParseLine extracts and integer-parses every schema field from one data
// line. lineNo is only used for error reporting.
func (s Schema) ParseLine(line string, lineNo int) (RawRecord, error) {
	rec := NewRawRecord(len(s))
	for _, f := range s {
		text := f.slice(line)
		v, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return RawRecord{}, &ParseError{Line: lineNo, Field: f.Name, Text: text, Err: err}
		}
		rec.Set(f.Name, v)
	}
	return rec, nil
}

// slice returns line[Position:Position+Width], clipped to the line length.
func (f FieldSpec) slice(line string) string {
	start := min(f.Position, len(line))
	stop := min(f.Position+f.Width, len(line))
	return line[start:stop]
}
