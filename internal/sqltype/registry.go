// Package sqltype classifies SQL data type names into the categories that
// decide how a value is written as an SQL literal.
package sqltype

import "strings"

// Category is the value-formatting category of a data type
type Category int

const (
	// Unknown is returned for data types the registry does not list.
	Unknown Category = iota
	// Plain values are written as-is, e.g. numbers.
	Plain
	// QuotedString values are escaped and wrapped in single quotes.
	QuotedString
	// Boolean values are written as 1 or 0.
	Boolean
	// Binary values are written as hex literals or BINARY(...) expressions.
	Binary
)

func (c Category) String() string {
	switch c {
	case Plain:
		return "plain"
	case QuotedString:
		return "string"
	case Boolean:
		return "boolean"
	case Binary:
		return "binary"
	default:
		return "unknown"
	}
}

// Registry maps upper-case data type names to categories. A Registry is
// immutable once built and safe for concurrent use.
type Registry struct {
	categories map[string]Category
}

// NewRegistry builds a registry from a type-name to category mapping.
// Names are matched case-insensitively.
func NewRegistry(categories map[string]Category) *Registry {
	m := make(map[string]Category, len(categories))
	for name, c := range categories {
		m[strings.ToUpper(name)] = c
	}
	return &Registry{categories: m}
}

// With returns a copy of the registry with extra or overridden entries
func (r *Registry) With(categories map[string]Category) *Registry {
	m := make(map[string]Category, len(r.categories)+len(categories))
	for name, c := range r.categories {
		m[name] = c
	}
	for name, c := range categories {
		m[strings.ToUpper(name)] = c
	}
	return &Registry{categories: m}
}

// Classify returns the category of a data type. Anything from the first "("
// on is ignored, so "VARCHAR(50)" classifies as VARCHAR.
func (r *Registry) Classify(dataType string) Category {
	return r.categories[BaseName(dataType)]
}

// BaseName strips the size suffix and upper-cases a data type name
func BaseName(dataType string) string {
	if i := strings.IndexByte(dataType, '('); i >= 0 {
		dataType = dataType[:i]
	}
	return strings.ToUpper(strings.TrimSpace(dataType))
}

// Default is the MySQL type registry
var Default = NewRegistry(map[string]Category{
	"BOOLEAN":          Boolean,
	"BOOL":             Boolean,
	"TINYINT":          Plain,
	"INT":              Plain,
	"INTEGER":          Plain,
	"SMALLINT":         Plain,
	"MEDIUMINT":        Plain,
	"BIGINT":           Plain,
	"DECIMAL":          Plain,
	"NUMERIC":          Plain,
	"BIT":              Plain,
	"FLOAT":            Plain,
	"REAL":             Plain,
	"DOUBLE":           Plain,
	"DOUBLE_PRECISION": Plain,
	"DEC":              Plain,
	"FIXED":            Plain,
	"CHAR":             QuotedString,
	"VARCHAR":          QuotedString,
	"TINYTEXT":         QuotedString,
	"TEXT":             QuotedString,
	"MEDIUMTEXT":       QuotedString,
	"LONGTEXT":         QuotedString,
	"TINYBLOB":         Binary, // 255 bytes
	"BLOB":             Binary, // 64 KB
	"MEDIUMBLOB":       Binary, // 16 MB
	"LONGBLOB":         Binary, // 4 GB
	"BINARY":           Binary,
	"VARBINARY":        Binary,
})

// Classify classifies a data type with the Default registry
func Classify(dataType string) Category {
	return Default.Classify(dataType)
}
