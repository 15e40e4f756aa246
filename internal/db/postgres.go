package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// PostgresClient manages the connection to PostgreSQL. Statements for it
// need numbered placeholders ($1, $2, ...).
type PostgresClient struct {
	conn *pgx.Conn
}

// NewPostgresClient creates a new PostgreSQL client
func NewPostgresClient(ctx context.Context, connString string) (*PostgresClient, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresClient{conn: conn}, nil
}

// Exec runs a statement
func (c *PostgresClient) Exec(ctx context.Context, query string, args ...any) (*Result, error) {
	if !returnsRows(query) {
		tag, err := c.conn.Exec(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		return &Result{RowsAffected: tag.RowsAffected()}, nil
	}

	rows, err := c.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := &Result{}
	for _, fd := range rows.FieldDescriptions() {
		out.Columns = append(out.Columns, fd.Name)
	}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		out.Rows = append(out.Rows, values)
	}

	return out, rows.Err()
}

// Ping checks the connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

// Close closes the database connection
func (c *PostgresClient) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}
