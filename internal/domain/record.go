package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RawRecord is one parsed data line: field name to integer value, in schema
// order. It serializes as a JSON object whose keys keep that order, so the
// intermediate artifact reads in the same column order as the station file.
type RawRecord struct {
	names  []string
	values []int
}

// NewRawRecord returns an empty record with room for n fields.
func NewRawRecord(n int) RawRecord {
	return RawRecord{
		names:  make([]string, 0, n),
		values: make([]int, 0, n),
	}
}

// Set assigns a field value, appending the field if it is new.
func (r *RawRecord) Set(name string, value int) {
	for i, n := range r.names {
		if n == name {
			r.values[i] = value
			return
		}
	}
	r.names = append(r.names, name)
	r.values = append(r.values, value)
}

// Get returns the value of a field and whether it is present.
func (r RawRecord) Get(name string) (int, bool) {
	for i, n := range r.names {
		if n == name {
			return r.values[i], true
		}
	}
	return 0, false
}

// Fields returns the field names in insertion order.
func (r RawRecord) Fields() []string {
	return append([]string(nil), r.names...)
}

// Len returns the number of fields.
func (r RawRecord) Len() int { return len(r.names) }

func (r RawRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", r.values[i])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *RawRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode raw record: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decode raw record: expected object, got %v", tok)
	}

	rec := NewRawRecord(8)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode raw record: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("decode raw record: expected field name, got %v", tok)
		}
		var v int
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("decode raw record field %s: %w", name, err)
		}
		rec.Set(name, v)
	}
	*r = rec
	return nil
}
