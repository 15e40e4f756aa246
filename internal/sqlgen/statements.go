package sqlgen

import (
	"fmt"
	"strings"

	"github.com/tordrt/jsonsql/internal/schema"
)

const (
	matchNone = "0=1"
	matchAll  = "1=1"
)

// CreateTable builds CREATE TABLE for a table: one definition per column,
// then a FOREIGN KEY clause per foreign key, then one CONSTRAINT ... UNIQUE
// clause per unique group.
func (g *Generator) CreateTable(table *schema.Table) (string, error) {
	var lines, keyLines []string

	for _, col := range table.Columns {
		parts := []string{col.Name, ColumnTypeText(col)}
		if col.SQL != "" {
			parts = append(parts, col.SQL)
		}
		if !col.Nullable {
			parts = append(parts, "NOT NULL")
		}
		if col.AutoIncrement {
			parts = append(parts, "AUTO_INCREMENT")
		}
		if col.Unique.IsSingle() {
			parts = append(parts, "UNIQUE")
		}
		if col.PrimaryKey {
			parts = append(parts, "PRIMARY KEY")
		}
		if col.DefaultValue != nil {
			def, err := g.RenderValue(col.DefaultValue, valueType(col))
			if err != nil {
				return "", fmt.Errorf("default of %s.%s: %w", table.Name, col.Name, err)
			}
			parts = append(parts, "DEFAULT "+def)
		}
		lines = append(lines, strings.Join(parts, " "))

		if col.ForeignKey != "" {
			ref, err := schema.ParseForeignKey(col.ForeignKey)
			if err != nil {
				return "", fmt.Errorf("foreign key of %s.%s: %w", table.Name, col.Name, err)
			}
			keyLines = append(keyLines, fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s", col.Name, ref))
		}
	}

	lines = append(lines, keyLines...)
	for _, group := range UniqueGroups(table.Columns) {
		lines = append(lines, fmt.Sprintf("CONSTRAINT %s UNIQUE (%s)", group.Name, strings.Join(group.Columns, sep)))
	}

	return fmt.Sprintf("CREATE TABLE %s (%s)", table.Name, strings.Join(lines, sep)), nil
}

// Where builds the condition of a WHERE clause.
//
// A string is trusted raw SQL and returned unchanged. A record becomes
// "col = value" terms joined with AND, in column order, with "col IS NULL"
// for null values. A nil or empty record matches nothing (0=1).
func (g *Generator) Where(where any, table *schema.Table) (string, error) {
	switch w := where.(type) {
	case nil:
		return matchNone, nil
	case string:
		return w, nil
	case schema.Record:
		return g.whereRecord(w, table)
	case map[string]any:
		return g.whereRecord(schema.Record(w), table)
	default:
		return "", fmt.Errorf("%w: where must be a string or a record, got %T", ErrInvalidValue, where)
	}
}

func (g *Generator) whereRecord(where schema.Record, table *schema.Table) (string, error) {
	if len(where) == 0 {
		return matchNone, nil
	}
	for name := range where {
		if table.ColumnIndex(name) < 0 {
			return "", &schema.UnknownColumnError{Table: table.Name, Column: name}
		}
	}

	terms := make([]string, 0, len(where))
	for _, col := range table.Columns {
		value, ok := where[col.Name]
		if !ok {
			continue
		}
		rendered, err := g.RenderValue(value, valueType(col))
		if err != nil {
			return "", fmt.Errorf("where %s: %w", col.Name, err)
		}
		if strings.EqualFold(rendered, "null") {
			terms = append(terms, col.Name+" IS NULL")
			continue
		}
		terms = append(terms, col.Name+" = "+rendered)
	}
	return strings.Join(terms, " AND "), nil
}

// Select builds SELECT. fields is a raw string or a list of column names;
// nil or an empty list selects *. A nil where matches every row.
func (g *Generator) Select(table *schema.Table, fields any, where any) (string, error) {
	var fieldsSQL string
	switch f := fields.(type) {
	case nil:
		fieldsSQL = "*"
	case string:
		fieldsSQL = f
	case []string:
		fieldsSQL = strings.Join(f, sep)
		if fieldsSQL == "" {
			fieldsSQL = "*"
		}
	default:
		return "", fmt.Errorf("%w: fields must be a string or a list of names, got %T", ErrInvalidValue, fields)
	}

	whereSQL := matchAll
	if where != nil {
		var err error
		if whereSQL, err = g.Where(where, table); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s", fieldsSQL, table.Name, whereSQL), nil
}

// orderedSQL renders the record's values, or placeholders, in column order
func (g *Generator) orderedSQL(table *schema.Table, record schema.Record, ph *placeholders) ([]string, []string, error) {
	names, values, err := OrderedFields(table, record)
	if err != nil {
		return nil, nil, err
	}

	sqlValues := make([]string, len(names))
	for i, name := range names {
		if ph.enabled() {
			sqlValues[i] = ph.next()
			continue
		}
		col, _ := table.Column(name)
		if sqlValues[i], err = g.RenderValue(values[i], valueType(*col)); err != nil {
			return nil, nil, fmt.Errorf("column %s: %w", name, err)
		}
	}
	return names, sqlValues, nil
}

func setsSQL(names, sqlValues []string) string {
	sets := make([]string, len(names))
	for i, name := range names {
		sets[i] = name + " = " + sqlValues[i]
	}
	return strings.Join(sets, sep)
}

// Insert builds INSERT for one record. With OnDuplicateKeyUpdate every
// inserted column is also set in ON DUPLICATE KEY UPDATE; in placeholder
// mode that clause takes a second copy of the values.
func (g *Generator) Insert(table *schema.Table, record schema.Record, opts Options) (string, error) {
	ph := &placeholders{opts: opts}
	names, sqlValues, err := g.orderedSQL(table, record, ph)
	if err != nil {
		return "", err
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table.Name, strings.Join(names, sep), strings.Join(sqlValues, sep))
	if !opts.OnDuplicateKeyUpdate {
		return sql, nil
	}

	updateValues := sqlValues
	if ph.enabled() && opts.Numbered {
		updateValues = make([]string, len(names))
		for i := range updateValues {
			updateValues[i] = ph.next()
		}
	}
	return sql + " ON DUPLICATE KEY UPDATE " + setsSQL(names, updateValues), nil
}

// InsertRows builds a bulk INSERT of positional rows aligned with the
// table's columns. nil rows means the table's seed data.
func (g *Generator) InsertRows(table *schema.Table, rows [][]any, opts Options) (string, error) {
	if rows == nil {
		rows = table.Data
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("%w: no rows to insert into %s", ErrInvalidValue, table.Name)
	}

	ph := &placeholders{opts: opts}
	tuples := make([]string, len(rows))
	for r, row := range rows {
		if len(row) != len(table.Columns) {
			return "", fmt.Errorf("%w: row %d of %s has %d values for %d columns",
				ErrInvalidValue, r, table.Name, len(row), len(table.Columns))
		}
		values := make([]string, len(row))
		for i, value := range row {
			if ph.enabled() {
				values[i] = ph.next()
				continue
			}
			col := table.Columns[i]
			rendered, err := g.RenderValue(value, valueType(col))
			if err != nil {
				return "", fmt.Errorf("row %d column %s: %w", r, col.Name, err)
			}
			values[i] = rendered
		}
		tuples[r] = "(" + strings.Join(values, sep) + ")"
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		table.Name, strings.Join(table.ColumnNames(), sep), strings.Join(tuples, sep)), nil
}

// Update builds UPDATE ... SET ... WHERE. A nil where matches nothing.
func (g *Generator) Update(table *schema.Table, set schema.Record, where any, opts Options) (string, error) {
	ph := &placeholders{opts: opts}
	names, sqlValues, err := g.orderedSQL(table, set, ph)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w: nothing to set on %s", ErrInvalidValue, table.Name)
	}

	whereSQL, err := g.Where(where, table)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s", table.Name, setsSQL(names, sqlValues), whereSQL), nil
}

// SetupStatements returns the statements that recreate a database from
// scratch: drop and create it, create every table, then seed every table
// that has data. Dropping the database is intentional so seeding can be
// repeated.
func (g *Generator) SetupStatements(name string, tables []schema.Table) ([]string, error) {
	statements := []string{
		"DROP DATABASE IF EXISTS " + name,
		"CREATE DATABASE " + name,
		"USE " + name,
	}

	for i := range tables {
		sql, err := g.CreateTable(&tables[i])
		if err != nil {
			return nil, err
		}
		statements = append(statements, sql)
	}

	for i := range tables {
		if len(tables[i].Data) == 0 {
			continue
		}
		sql, err := g.InsertRows(&tables[i], nil, Options{})
		if err != nil {
			return nil, err
		}
		statements = append(statements, sql)
	}

	return statements, nil
}
