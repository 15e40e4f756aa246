package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MarshalJSON writes false, true or the group name
func (u Uniqueness) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.plain())
}

// UnmarshalJSON accepts a boolean or a group name
func (u *Uniqueness) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return u.set(v)
}

// MarshalYAML writes false, true or the group name
func (u Uniqueness) MarshalYAML() (any, error) {
	return u.plain(), nil
}

// UnmarshalYAML accepts a boolean or a group name
func (u *Uniqueness) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	return u.set(v)
}

func (u Uniqueness) plain() any {
	switch u.Kind {
	case UniqueSingle:
		return true
	case UniqueGroup:
		return u.Group
	default:
		return false
	}
}

func (u *Uniqueness) set(v any) error {
	switch v := v.(type) {
	case nil:
		*u = Uniqueness{}
	case bool:
		if v {
			*u = Unique()
		} else {
			*u = Uniqueness{}
		}
	case string:
		*u = UniqueIn(v)
	default:
		return fmt.Errorf("unique must be a boolean or a group name, got %T", v)
	}
	return nil
}

// LoadFile reads a schema document from a .json, .yaml or .yml file
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	s, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return s, nil
}

// Decode parses a schema document. format is "json", "yaml" or "yml".
func Decode(data []byte, format string) (*Schema, error) {
	var s Schema
	switch format {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&s); err != nil {
			return nil, err
		}
		normalizeNumbers(&s)
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported schema format: %q (must be json or yaml)", format)
	}
	return &s, nil
}

// normalizeNumbers turns json.Number values into int64 when integral and
// float64 otherwise, so that seed data compares like YAML-decoded data.
func normalizeNumbers(s *Schema) {
	for ti := range s.Tables {
		t := &s.Tables[ti]
		for ci := range t.Columns {
			t.Columns[ci].DefaultValue = NormalizeNumber(t.Columns[ci].DefaultValue)
		}
		for _, row := range t.Data {
			for i := range row {
				row[i] = NormalizeNumber(row[i])
			}
		}
	}
}

// NormalizeNumber converts a json.Number to int64 or float64 and returns any
// other value unchanged.
func NormalizeNumber(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

// Encode writes a schema document. format is "json", "yaml" or "yml".
func Encode(s *Schema, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml", "yml":
		return yaml.Marshal(s)
	default:
		return nil, fmt.Errorf("unsupported schema format: %q (must be json or yaml)", format)
	}
}
