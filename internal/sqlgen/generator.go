// Package sqlgen builds SQL statement text from schema tables and record
// data.
//
// Every builder walks table columns in declared order, so the column list,
// the value list and any placeholders of one statement always line up with
// the argument slice returned by OrderedFields.
package sqlgen

import (
	"io"
	"log/slog"
	"strconv"

	"github.com/tordrt/jsonsql/internal/sqltype"
)

const (
	// DefaultSize is used for VARCHAR and CHAR columns declared without a size.
	DefaultSize = 255

	// DefaultDataType is used for columns declared without a data type.
	DefaultDataType = "VARCHAR(255)"

	sep = ", "
)

// Generator renders statements using a type registry. The zero value is not
// usable; call New.
type Generator struct {
	registry *sqltype.Registry
	logger   *slog.Logger
	strict   bool
}

// Option configures a Generator
type Option func(*Generator)

// WithRegistry sets the type registry used to classify data types.
func WithRegistry(r *sqltype.Registry) Option {
	return func(g *Generator) {
		g.registry = r
	}
}

// WithLogger sets the logger used to report values of unknown data types.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = l
	}
}

// WithStrictTypes makes values of unknown data types fail with
// ErrUnsupportedType instead of being written unquoted.
func WithStrictTypes(strict bool) Option {
	return func(g *Generator) {
		g.strict = strict
	}
}

// New creates a Generator backed by sqltype.Default unless configured otherwise
func New(opts ...Option) *Generator {
	g := &Generator{registry: sqltype.Default}
	for _, opt := range opts {
		opt(g)
	}
	if g.registry == nil {
		g.registry = sqltype.Default
	}
	if g.logger == nil {
		g.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return g
}

// Registry returns the registry used by the generator
func (g *Generator) Registry() *sqltype.Registry {
	return g.registry
}

// Options controls value output of INSERT and UPDATE statements
type Options struct {
	// Placeholder replaces every value with this token (e.g. "?") for
	// parameterized execution. Empty means values are written as literals.
	Placeholder string

	// Numbered appends the 1-based position of each value to the
	// placeholder, producing $1, $2, ... for PostgreSQL.
	Numbered bool

	// OnDuplicateKeyUpdate appends ON DUPLICATE KEY UPDATE for every
	// inserted column.
	OnDuplicateKeyUpdate bool
}

// placeholders hands out placeholder tokens across one statement
type placeholders struct {
	opts Options
	n    int
}

func (p *placeholders) enabled() bool {
	return p.opts.Placeholder != ""
}

func (p *placeholders) next() string {
	p.n++
	if p.opts.Numbered {
		return p.opts.Placeholder + strconv.Itoa(p.n)
	}
	return p.opts.Placeholder
}
