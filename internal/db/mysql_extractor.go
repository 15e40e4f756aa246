package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tordrt/jsonsql/internal/schema"
)

// MySQLExtractor reads an existing MySQL database into schema tables
type MySQLExtractor struct {
	client     *SQLClient
	schemaName string
}

// NewMySQLExtractor creates a new MySQL schema extractor
func NewMySQLExtractor(client *SQLClient, schemaName string) *MySQLExtractor {
	return &MySQLExtractor{
		client:     client,
		schemaName: schemaName,
	}
}

// ExtractSchema extracts the named tables, or every base table when tables
// is empty. Seed data is not extracted.
func (e *MySQLExtractor) ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error) {
	tableNames, err := e.getTableNames(ctx, tables)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}

	s := &schema.Schema{Name: e.schemaName}
	for _, tableName := range tableNames {
		table, err := e.extractTable(ctx, tableName)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", tableName, err)
		}
		s.Tables = append(s.Tables, *table)
	}

	return s, nil
}

// getTableNames returns the list of tables to extract
func (e *MySQLExtractor) getTableNames(ctx context.Context, requestedTables []string) ([]string, error) {
	if len(requestedTables) > 0 {
		return requestedTables, nil
	}

	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, e.schemaName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}

	return tables, rows.Err()
}

// extractTable extracts all information for a single table
func (e *MySQLExtractor) extractTable(ctx context.Context, tableName string) (*schema.Table, error) {
	table := &schema.Table{Name: tableName}

	columns, err := e.extractColumns(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	table.Columns = columns

	if err := e.extractUniques(ctx, table); err != nil {
		return nil, fmt.Errorf("failed to extract unique constraints: %w", err)
	}

	if err := e.extractForeignKeys(ctx, table); err != nil {
		return nil, fmt.Errorf("failed to extract foreign keys: %w", err)
	}

	return table, nil
}

// extractColumns extracts column information for a table. A column is only
// marked as primary key when the key has a single column.
func (e *MySQLExtractor) extractColumns(ctx context.Context, tableName string) ([]schema.Column, error) {
	query := `
		SELECT
			c.column_name,
			c.data_type,
			c.character_maximum_length,
			c.is_nullable,
			c.column_default,
			c.column_key,
			c.extra
		FROM information_schema.columns c
		WHERE c.table_schema = ? AND c.table_name = ?
		ORDER BY c.ordinal_position
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, e.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	var pkColumns []int

	for rows.Next() {
		var col schema.Column
		var maxLength sql.NullInt64
		var nullable, columnKey, extra string
		var defaultVal sql.NullString

		if err := rows.Scan(&col.Name, &col.DataType, &maxLength, &nullable, &defaultVal, &columnKey, &extra); err != nil {
			return nil, err
		}

		col.DataType = strings.ToUpper(col.DataType)
		col.Nullable = (nullable == "YES")
		col.AutoIncrement = strings.Contains(strings.ToLower(extra), "auto_increment")
		if defaultVal.Valid {
			col.DefaultValue = defaultVal.String
		}
		if maxLength.Valid && sizedType(col.DataType) {
			col.Size = int(maxLength.Int64)
		}
		if columnKey == "PRI" {
			pkColumns = append(pkColumns, len(columns))
		}

		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(pkColumns) == 1 {
		columns[pkColumns[0]].PrimaryKey = true
	}

	return columns, nil
}

func sizedType(dataType string) bool {
	switch dataType {
	case "CHAR", "VARCHAR", "BINARY", "VARBINARY":
		return true
	}
	return false
}

// extractUniques marks unique columns. Single-column constraints become
// column uniqueness, wider ones a unique group named after the constraint.
func (e *MySQLExtractor) extractUniques(ctx context.Context, table *schema.Table) error {
	query := `
		SELECT tc.constraint_name, kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
			AND tc.table_name = kcu.table_name
		WHERE tc.table_schema = ?
			AND tc.table_name = ?
			AND tc.constraint_type = 'UNIQUE'
		ORDER BY tc.constraint_name, kcu.ordinal_position
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, e.schemaName, table.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	var order []string
	members := make(map[string][]string)
	for rows.Next() {
		var constraint, column string
		if err := rows.Scan(&constraint, &column); err != nil {
			return err
		}
		if _, seen := members[constraint]; !seen {
			order = append(order, constraint)
		}
		members[constraint] = append(members[constraint], column)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, constraint := range order {
		cols := members[constraint]
		for _, name := range cols {
			i := table.ColumnIndex(name)
			if i < 0 || !table.Columns[i].Unique.IsZero() {
				continue
			}
			if len(cols) == 1 {
				table.Columns[i].Unique = schema.Unique()
			} else {
				table.Columns[i].Unique = schema.UniqueIn(constraint)
			}
		}
	}

	return nil
}

// extractForeignKeys sets the foreign key reference of referencing columns
func (e *MySQLExtractor) extractForeignKeys(ctx context.Context, table *schema.Table) error {
	query := `
		SELECT
			kcu.column_name,
			kcu.referenced_table_name,
			kcu.referenced_column_name
		FROM information_schema.key_column_usage kcu
		WHERE kcu.table_schema = ?
			AND kcu.table_name = ?
			AND kcu.referenced_table_name IS NOT NULL
		ORDER BY kcu.ordinal_position
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, e.schemaName, table.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var column string
		var ref schema.ForeignKeyRef
		if err := rows.Scan(&column, &ref.Table, &ref.Column); err != nil {
			return err
		}
		if i := table.ColumnIndex(column); i >= 0 {
			table.Columns[i].ForeignKey = ref.String()
		}
	}

	return rows.Err()
}
