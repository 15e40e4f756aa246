package schema

import (
	"fmt"
	"strings"
)

// ForeignKeyRef is a parsed "table(column)" reference
type ForeignKeyRef struct {
	Table  string
	Column string
}

func (r ForeignKeyRef) String() string {
	return r.Table + "(" + r.Column + ")"
}

// ParseForeignKey parses a reference of the form table(column).
// The referenced table is not resolved here; tables may be declared in any
// order.
func ParseForeignKey(fk string) (ForeignKeyRef, error) {
	open := strings.IndexByte(fk, '(')
	if open <= 0 || !strings.HasSuffix(fk, ")") {
		return ForeignKeyRef{}, fmt.Errorf("%w: %q must look like table(column)", ErrInvalidForeignKey, fk)
	}

	ref := ForeignKeyRef{
		Table:  strings.TrimSpace(fk[:open]),
		Column: strings.TrimSpace(fk[open+1 : len(fk)-1]),
	}
	if ref.Table == "" || ref.Column == "" || strings.ContainsAny(ref.Column, "()") {
		return ForeignKeyRef{}, fmt.Errorf("%w: %q must look like table(column)", ErrInvalidForeignKey, fk)
	}
	return ref, nil
}

// FindTable returns the table with the given name
func FindTable(tables []Table, name string) (*Table, error) {
	for i := range tables {
		if tables[i].Name == name {
			return &tables[i], nil
		}
	}
	return nil, &TableNotFoundError{Table: name}
}

// Column returns the column with the given name
func (t *Table) Column(name string) (*Column, error) {
	if i := t.ColumnIndex(name); i >= 0 {
		return &t.Columns[i], nil
	}
	return nil, &UnknownColumnError{Table: t.Name, Column: name}
}

// ColumnIndex returns the position of the named column, or -1
func (t *Table) ColumnIndex(name string) int {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return i
		}
	}
	return -1
}

// ColumnNames returns the column names in declared order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// DataValues projects the seed data onto one column, by column position.
// Rows too short to hold the column are skipped.
func (t *Table) DataValues(column string) ([]any, error) {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return nil, &UnknownColumnError{Table: t.Name, Column: column}
	}

	values := make([]any, 0, len(t.Data))
	for _, row := range t.Data {
		if idx < len(row) {
			values = append(values, row[idx])
		}
	}
	return values, nil
}

// ForeignKeyValues returns the values a foreign key may take: the referenced
// column of the referenced table's seed data. It is only as complete as that
// seed data.
func ForeignKeyValues(tables []Table, fk string) ([]any, error) {
	ref, err := ParseForeignKey(fk)
	if err != nil {
		return nil, err
	}

	table, err := FindTable(tables, ref.Table)
	if err != nil {
		return nil, err
	}
	return table.DataValues(ref.Column)
}

// Table returns the named table of the schema
func (s *Schema) Table(name string) (*Table, error) {
	return FindTable(s.Tables, name)
}
