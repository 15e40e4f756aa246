package db

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// RetryOptions controls Connect
type RetryOptions struct {
	// Retries is the number of attempts after the first one.
	Retries int
	// Wait is the pause between attempts.
	Wait time.Duration
	// Logger receives attempt progress. nil discards it.
	Logger *slog.Logger
}

// OpenFunc opens a client, e.g. a closure over Open and a URL
type OpenFunc func(ctx context.Context) (Client, error)

// Connect opens the database behind rawURL, retrying while the server is
// not reachable yet.
func Connect(ctx context.Context, rawURL string, opts RetryOptions) (Client, error) {
	if _, _, err := ParseURL(rawURL); err != nil {
		return nil, err
	}
	return ConnectWith(ctx, func(ctx context.Context) (Client, error) {
		return Open(ctx, rawURL)
	}, opts)
}

// ConnectWith calls open until it succeeds, at most Retries+1 times
func ConnectWith(ctx context.Context, open OpenFunc, opts RetryOptions) (Client, error) {
	logger := loggerOrDiscard(opts.Logger)

	var lastErr error
	for remaining := opts.Retries; remaining >= 0; remaining-- {
		logger.Info("connect attempt", "remaining", remaining)
		client, err := open(ctx)
		if err == nil {
			return client, nil
		}
		lastErr = err
		logger.Warn("connect attempt failed", "error", err)

		if remaining == 0 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(opts.Wait):
		}
	}

	return nil, fmt.Errorf("connection failed after %d attempts: %w", opts.Retries+1, lastErr)
}

// QueryResult pairs a statement with its outcome
type QueryResult struct {
	SQL    string
	Result *Result
	Err    error
}

// RunQueries runs statements one at a time, in order. A failing statement
// is recorded and does not stop the ones after it.
func RunQueries(ctx context.Context, client Client, queries []string, logger *slog.Logger) []QueryResult {
	logger = loggerOrDiscard(logger)

	results := make([]QueryResult, 0, len(queries))
	for _, query := range queries {
		res, err := client.Exec(ctx, query)
		if err != nil {
			logger.Warn("SQL error", "sql", query, "error", err)
		} else {
			logger.Debug("SQL ok", "sql", query)
		}
		results = append(results, QueryResult{SQL: query, Result: res, Err: err})
	}
	return results
}

// CountErrors returns how many results failed
func CountErrors(results []QueryResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// Check verifies the connection and that a trivial query succeeds
func Check(ctx context.Context, client Client) error {
	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	if _, err := client.Exec(ctx, "SELECT 1"); err != nil {
		return fmt.Errorf("test query failed: %w", err)
	}
	return nil
}

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
