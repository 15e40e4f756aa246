package db

import (
	"context"
	"database/sql"
	"strings"
)

// Client executes SQL text with positional arguments against one database
// connection.
type Client interface {
	Exec(ctx context.Context, query string, args ...any) (*Result, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result is the outcome of one statement. Columns and Rows are set for
// statements that return rows, RowsAffected and LastInsertID otherwise.
type Result struct {
	Columns      []string
	Rows         [][]any
	RowsAffected int64
	LastInsertID int64
}

// returnsRows reports whether a statement produces a result set
func returnsRows(query string) bool {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToUpper(strings.TrimLeft(fields[0], "(")) {
	case "SELECT", "SHOW", "DESCRIBE", "DESC", "EXPLAIN", "WITH", "PRAGMA", "VALUES":
		return true
	}
	return false
}

// SQLClient is a Client over database/sql, used for MySQL and SQLite
type SQLClient struct {
	db *sql.DB
}

// OpenDB wraps an already opened database handle
func OpenDB(db *sql.DB) *SQLClient {
	return &SQLClient{db: db}
}

// Exec runs a statement. Row values of type []byte are returned as strings.
func (c *SQLClient) Exec(ctx context.Context, query string, args ...any) (*Result, error) {
	if !returnsRows(query) {
		res, err := c.db.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		out := &Result{}
		// Not every driver reports both; a missing count is left at zero.
		if n, err := res.RowsAffected(); err == nil {
			out.RowsAffected = n
		}
		if id, err := res.LastInsertId(); err == nil {
			out.LastInsertID = id
		}
		return out, nil
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := &Result{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out.Rows = append(out.Rows, values)
	}

	return out, rows.Err()
}

// Ping checks the connection
func (c *SQLClient) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close closes the database connection
func (c *SQLClient) Close(_ context.Context) error {
	return c.db.Close()
}

// GetDB returns the underlying database connection
func (c *SQLClient) GetDB() *sql.DB {
	return c.db
}
