package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/couchcryptid/station-wind-etl/internal/domain"
	"gopkg.in/yaml.v3"
)

// FieldSource selects the field-width table: the built-in default or a
// supplied configuration file. It is resolved once per batch.
type FieldSource struct {
	path string
}

// UseDefault selects the built-in field table.
func UseDefault() FieldSource { return FieldSource{} }

// UseSupplied selects a field configuration file.
func UseSupplied(path string) FieldSource { return FieldSource{path: path} }

// FieldSourceFromPath returns UseSupplied(path), or UseDefault for an empty path.
func FieldSourceFromPath(path string) FieldSource {
	if path == "" {
		return UseDefault()
	}
	return UseSupplied(path)
}

// IsDefault reports whether the built-in table is selected.
func (s FieldSource) IsDefault() bool { return s.path == "" }

// Path returns the configuration file path, empty for the default.
func (s FieldSource) Path() string { return s.path }

// Resolve returns the field widths in configured order.
func (s FieldSource) Resolve() ([]domain.FieldWidth, error) {
	if s.IsDefault() {
		return domain.DefaultFieldWidths(), nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read field config %s: %w", s.path, err)
	}
	widths, err := ParseFieldWidths(data)
	if err != nil {
		return nil, fmt.Errorf("field config %s: %w", s.path, err)
	}
	return widths, nil
}

// ParseFieldWidths decodes a mapping of field name to width, keeping the
// document's key order. JSON objects are accepted as well as YAML.
func ParseFieldWidths(data []byte) ([]domain.FieldWidth, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &domain.ConfigurationError{Reason: "decode field table: " + err.Error()}
	}
	if len(doc.Content) == 0 {
		return nil, &domain.ConfigurationError{Reason: "field table is empty"}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &domain.ConfigurationError{Reason: "field table must be a mapping of name to width"}
	}

	widths := make([]domain.FieldWidth, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return nil, &domain.ConfigurationError{Field: key.Value, Reason: "width must be an integer"}
		}
		w, err := strconv.Atoi(val.Value)
		if err != nil {
			return nil, &domain.ConfigurationError{Field: key.Value, Reason: fmt.Sprintf("width must be an integer, got %q", val.Value)}
		}
		if w <= 0 {
			return nil, &domain.ConfigurationError{Field: key.Value, Reason: fmt.Sprintf("width must be positive, got %d", w)}
		}
		widths = append(widths, domain.FieldWidth{Name: key.Value, Width: w})
	}
	if len(widths) == 0 {
		return nil, &domain.ConfigurationError{Reason: "field table is empty"}
	}
	return widths, nil
}
