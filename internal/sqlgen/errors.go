package sqlgen

import (
	"errors"

	"github.com/tordrt/jsonsql/internal/schema"
)

var (
	// ErrInvalidValue is returned when a value cannot be written as an SQL
	// literal, e.g. an unset value or a malformed boolean.
	ErrInvalidValue = errors.New("invalid value")

	// ErrUnsupportedType is returned in strict mode for data types the
	// registry does not know.
	ErrUnsupportedType = errors.New("unsupported data type")

	// Re-exported so callers only need this package for statement errors.
	ErrUnknownColumn     = schema.ErrUnknownColumn
	ErrTableNotFound     = schema.ErrTableNotFound
	ErrInvalidForeignKey = schema.ErrInvalidForeignKey
)
