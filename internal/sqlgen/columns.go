package sqlgen

import (
	"slices"
	"strconv"
	"strings"

	"github.com/tordrt/jsonsql/internal/schema"
)

// ColumnTypeText returns the data type as written in CREATE TABLE.
// VARCHAR and CHAR always get a size, BINARY only when one is declared.
func ColumnTypeText(col schema.Column) string {
	switch {
	case col.DataType == "":
		return DefaultDataType
	case strings.EqualFold(col.DataType, "VARCHAR"), strings.EqualFold(col.DataType, "CHAR"),
		strings.EqualFold(col.DataType, "BINARY") && col.Size > 0:
		size := col.Size
		if size <= 0 {
			size = DefaultSize
		}
		return col.DataType + "(" + strconv.Itoa(size) + ")"
	}
	return col.DataType
}

// valueType is the data type used to classify values of a column
func valueType(col schema.Column) string {
	if col.DataType == "" {
		return DefaultDataType
	}
	return col.DataType
}

// OrderedFields returns the names and raw values of the record fields that
// have a value, in the table's column order. A record key that is not a
// column of the table fails with ErrUnknownColumn.
func OrderedFields(table *schema.Table, record schema.Record) ([]string, []any, error) {
	if err := checkFields(table, record); err != nil {
		return nil, nil, err
	}

	var names []string
	var values []any
	for _, col := range table.Columns {
		value, ok := record.Lookup(col.Name)
		if !ok {
			continue
		}
		names = append(names, col.Name)
		values = append(values, value)
	}
	return names, values, nil
}

// OrderedValues returns only the values of OrderedFields
func OrderedValues(table *schema.Table, record schema.Record) ([]any, error) {
	_, values, err := OrderedFields(table, record)
	return values, err
}

// checkFields fails on the first (by name) record key that has a value but
// no column.
func checkFields(table *schema.Table, record schema.Record) error {
	var unknown []string
	for name := range record {
		if _, ok := record.Lookup(name); !ok {
			continue
		}
		if table.ColumnIndex(name) < 0 {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	slices.Sort(unknown)
	return &schema.UnknownColumnError{Table: table.Name, Column: unknown[0]}
}

// UniqueGroup is a named multi-column unique constraint
type UniqueGroup struct {
	Name    string
	Columns []string
}

// UniqueGroups collects the columns of each named unique group. Groups come
// in the order their name is first seen, and columns keep declared order.
// Single-column uniqueness is not a group.
func UniqueGroups(columns []schema.Column) []UniqueGroup {
	var groups []UniqueGroup
	index := make(map[string]int)
	for _, col := range columns {
		name, ok := col.Unique.GroupName()
		if !ok {
			continue
		}
		i, seen := index[name]
		if !seen {
			i = len(groups)
			index[name] = i
			groups = append(groups, UniqueGroup{Name: name})
		}
		groups[i].Columns = append(groups[i].Columns, col.Name)
	}
	return groups
}
