package schema

import (
	"errors"
	"fmt"
)

// Check reports structural problems in the schema definition: duplicate
// table or column names, malformed foreign keys, and seed rows that do not
// line up with the columns. Foreign keys are not resolved against other
// tables here.
func (s *Schema) Check() error {
	var errs []error

	seenTables := make(map[string]bool, len(s.Tables))
	for _, table := range s.Tables {
		if table.Name == "" {
			errs = append(errs, errors.New("table with empty name"))
		}
		if seenTables[table.Name] {
			errs = append(errs, fmt.Errorf("duplicate table %s", table.Name))
		}
		seenTables[table.Name] = true

		errs = append(errs, checkTable(table)...)
	}

	return errors.Join(errs...)
}

func checkTable(table Table) []error {
	var errs []error

	seenColumns := make(map[string]bool, len(table.Columns))
	for _, col := range table.Columns {
		if col.Name == "" {
			errs = append(errs, fmt.Errorf("table %s: column with empty name", table.Name))
		}
		if seenColumns[col.Name] {
			errs = append(errs, fmt.Errorf("table %s: duplicate column %s", table.Name, col.Name))
		}
		seenColumns[col.Name] = true

		if col.ForeignKey != "" {
			if _, err := ParseForeignKey(col.ForeignKey); err != nil {
				errs = append(errs, fmt.Errorf("table %s column %s: %w", table.Name, col.Name, err))
			}
		}
	}

	for i, row := range table.Data {
		if len(row) != len(table.Columns) {
			errs = append(errs, fmt.Errorf("table %s: data row %d has %d values for %d columns",
				table.Name, i, len(row), len(table.Columns)))
		}
	}

	return errs
}
