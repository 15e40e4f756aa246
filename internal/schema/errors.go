package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrTableNotFound is returned when a table name is not part of the schema.
	ErrTableNotFound = errors.New("table not found")

	// ErrUnknownColumn is returned when a field name is not a column of the table.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrInvalidForeignKey is returned when a foreign key is not of the form table(column).
	ErrInvalidForeignKey = errors.New("invalid foreign key")
)

// TableNotFoundError reports a table name missing from the schema
type TableNotFoundError struct {
	Table string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("table %s not found in schema", e.Table)
}

// Is makes errors.Is(err, ErrTableNotFound) hold.
func (e *TableNotFoundError) Is(err error) bool {
	return err == ErrTableNotFound
}

// UnknownColumnError reports a field name missing from a table's columns
type UnknownColumnError struct {
	Table  string
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("no column %s for table %s", e.Column, e.Table)
}

// Is makes errors.Is(err, ErrUnknownColumn) hold.
func (e *UnknownColumnError) Is(err error) bool {
	return err == ErrUnknownColumn
}
