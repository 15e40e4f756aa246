// Package validate checks candidate records against the constraints of a
// schema before they are written.
//
// Data problems are returned as a list of ValidationError values so that all
// problems of a record can be reported at once. A returned error means the
// call itself does not fit the schema (unknown table or column, malformed
// foreign key).
//
// Foreign keys are checked against the seed data of the referenced table
// only. Primary key and unique conflicts are not checked, since the schema
// does not hold the full table contents.
package validate

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"unicode/utf8"

	"github.com/tordrt/jsonsql/internal/schema"
	"github.com/tordrt/jsonsql/internal/sqlgen"
	"github.com/tordrt/jsonsql/internal/sqltype"
)

// Rule names the check a value failed
type Rule string

const (
	RuleForeignKey Rule = "foreign_key"
	RuleNotNull    Rule = "not_null"
	RuleSize       Rule = "size"
)

// ValidationError describes one value that breaks a column constraint
type ValidationError struct {
	Table   string
	Column  string
	Value   any
	Rule    Rule
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// Validator checks records against a fixed set of tables
type Validator struct {
	tables   []schema.Table
	registry *sqltype.Registry
}

// New creates a Validator. A nil registry means sqltype.Default.
func New(tables []schema.Table, registry *sqltype.Registry) *Validator {
	if registry == nil {
		registry = sqltype.Default
	}
	return &Validator{tables: tables, registry: registry}
}

// ForeignKey checks that value is one of the values of the referenced column
// in the referenced table's seed data.
func (v *Validator) ForeignKey(value any, foreignKey string) ([]ValidationError, error) {
	valid, err := schema.ForeignKeyValues(v.tables, foreignKey)
	if err != nil {
		return nil, err
	}

	if slices.ContainsFunc(valid, func(candidate any) bool { return sameValue(value, candidate) }) {
		return nil, nil
	}
	return []ValidationError{{
		Value:   value,
		Rule:    RuleForeignKey,
		Message: fmt.Sprintf("Value %v not found as foreign key of %s", display(value), foreignKey),
	}}, nil
}

// Column checks one value destined for a column: foreign key membership,
// nullability, and length for sized string columns. All failing checks are
// reported.
func (v *Validator) Column(column string, value any, table *schema.Table) ([]ValidationError, error) {
	col, err := table.Column(column)
	if err != nil {
		return nil, fmt.Errorf("could not validate: %w", err)
	}

	var failures []ValidationError

	if col.ForeignKey != "" {
		fkFailures, err := v.ForeignKey(value, col.ForeignKey)
		if err != nil {
			return nil, fmt.Errorf("could not validate %s.%s: %w", table.Name, column, err)
		}
		for _, f := range fkFailures {
			f.Table, f.Column = table.Name, column
			failures = append(failures, f)
		}
	}

	if value == nil && !col.Nullable {
		failures = append(failures, ValidationError{
			Table:   table.Name,
			Column:  column,
			Rule:    RuleNotNull,
			Message: fmt.Sprintf("Null values are not allowed for column %s on %s", column, table.Name),
		})
	}

	if value != nil && col.Size > 0 && v.registry.Classify(col.DataType) == sqltype.QuotedString {
		text := sqlgen.Text(value)
		if n := utf8.RuneCountInString(text); n > col.Size {
			failures = append(failures, ValidationError{
				Table:   table.Name,
				Column:  column,
				Value:   value,
				Rule:    RuleSize,
				Message: fmt.Sprintf("Value (%s) size %d longer than %d for %s on %s", text, n, col.Size, column, table.Name),
			})
		}
	}

	return failures, nil
}

// Record checks every field of a record that has a value, in column order
func (v *Validator) Record(record schema.Record, table *schema.Table) ([]ValidationError, error) {
	if err := unknownField(record, table); err != nil {
		return nil, fmt.Errorf("could not validate: %w", err)
	}

	var failures []ValidationError
	for _, col := range table.Columns {
		value, ok := record.Lookup(col.Name)
		if !ok {
			continue
		}
		colFailures, err := v.Column(col.Name, value, table)
		if err != nil {
			return nil, err
		}
		failures = append(failures, colFailures...)
	}
	return failures, nil
}

// All checks one record per table name, in schema table order
func (v *Validator) All(records map[string]schema.Record) ([]ValidationError, error) {
	names := make([]string, 0, len(records))
	for name := range records {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if _, err := schema.FindTable(v.tables, name); err != nil {
			return nil, fmt.Errorf("could not validate: %w", err)
		}
	}

	var failures []ValidationError
	for i := range v.tables {
		record, ok := records[v.tables[i].Name]
		if !ok {
			continue
		}
		tableFailures, err := v.Record(record, &v.tables[i])
		if err != nil {
			return nil, err
		}
		failures = append(failures, tableFailures...)
	}
	return failures, nil
}

func unknownField(record schema.Record, table *schema.Table) error {
	var unknown []string
	for name := range record {
		if _, ok := record.Lookup(name); ok && table.ColumnIndex(name) < 0 {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	slices.Sort(unknown)
	return &schema.UnknownColumnError{Table: table.Name, Column: unknown[0]}
}

// sameValue compares a candidate value with a seed value. Numbers compare by
// value across Go numeric types; a number never equals a string.
func sameValue(a, b any) bool {
	if x, ok := number(a); ok {
		y, ok := number(b)
		return ok && x == y
	}
	if _, ok := number(b); ok {
		return false
	}
	return reflect.DeepEqual(a, b)
}

func number(v any) (float64, bool) {
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func display(v any) string {
	if v == nil {
		return "null"
	}
	return sqlgen.Text(v)
}
