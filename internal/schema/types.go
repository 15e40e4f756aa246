package schema

// Schema represents a complete database definition
type Schema struct {
	Name   string  `json:"name" yaml:"name"`
	Tables []Table `json:"tables" yaml:"tables"`
}

// Table represents a database table.
//
// Data holds optional seed rows. Each row is positional and aligned 1:1 with
// Columns; it is the only place row data is not keyed by column name.
type Table struct {
	Name    string   `json:"name" yaml:"name"`
	Columns []Column `json:"columns" yaml:"columns"`
	Data    [][]any  `json:"data,omitempty" yaml:"data,omitempty"`
	Notes   string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Column represents a table column
type Column struct {
	Name          string     `json:"name" yaml:"name"`
	DataType      string     `json:"dataType,omitempty" yaml:"dataType,omitempty"`
	Size          int        `json:"size,omitempty" yaml:"size,omitempty"`
	Nullable      bool       `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	PrimaryKey    bool       `json:"primaryKey,omitempty" yaml:"primaryKey,omitempty"`
	AutoIncrement bool       `json:"autoIncrement,omitempty" yaml:"autoIncrement,omitempty"`
	Unique        Uniqueness `json:"unique,omitzero" yaml:"unique,omitempty"`
	ForeignKey    string     `json:"foreignKey,omitempty" yaml:"foreignKey,omitempty"` // "table(column)"
	DefaultValue  any        `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	SQL           string     `json:"sql,omitempty" yaml:"sql,omitempty"` // appended verbatim to the column definition
	Notes         string     `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// UniqueKind tells which uniqueness constraint a column takes part in
type UniqueKind int

const (
	UniqueNone UniqueKind = iota
	UniqueSingle
	UniqueGroup
)

// Uniqueness is either nothing, a single-column UNIQUE, or membership of a
// named multi-column unique group. Columns sharing a group name form one
// composite constraint.
type Uniqueness struct {
	Kind  UniqueKind
	Group string
}

// Unique returns a single-column uniqueness
func Unique() Uniqueness {
	return Uniqueness{Kind: UniqueSingle}
}

// UniqueIn returns membership of the named unique group. An empty group name
// means no uniqueness.
func UniqueIn(group string) Uniqueness {
	if group == "" {
		return Uniqueness{}
	}
	return Uniqueness{Kind: UniqueGroup, Group: group}
}

// IsZero reports whether no uniqueness is declared
func (u Uniqueness) IsZero() bool {
	return u.Kind == UniqueNone
}

// IsSingle reports whether the column is unique on its own
func (u Uniqueness) IsSingle() bool {
	return u.Kind == UniqueSingle
}

// GroupName returns the unique group the column belongs to, if any
func (u Uniqueness) GroupName() (string, bool) {
	if u.Kind != UniqueGroup {
		return "", false
	}
	return u.Group, true
}

// Record is a single row keyed by column name. Keys that are absent, or set
// to Unset, do not participate in generated statements.
type Record map[string]any

type unsetValue struct{}

func (unsetValue) String() string { return "<unset>" }

// Unset marks a record field as having no value. It differs from nil, which
// stands for SQL NULL.
var Unset any = unsetValue{}

// IsUnset reports whether v is the Unset marker
func IsUnset(v any) bool {
	_, ok := v.(unsetValue)
	return ok
}

// Lookup returns the value of a field when it is present and not Unset
func (r Record) Lookup(name string) (any, bool) {
	v, ok := r[name]
	if !ok || IsUnset(v) {
		return nil, false
	}
	return v, true
}
