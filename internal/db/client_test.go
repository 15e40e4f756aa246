package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*SQLClient, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return OpenDB(db), mock
}

func TestReturnsRows(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"SELECT * FROM candy WHERE 1=1", true},
		{"  select 1", true},
		{"SHOW DATABASES", true},
		{"(SELECT 1) UNION (SELECT 2)", true},
		{"WITH x AS (SELECT 1) SELECT * FROM x", true},
		{"INSERT INTO candy (a) VALUES (?)", false},
		{"UPDATE candy SET a = ? WHERE 0=1", false},
		{"CREATE TABLE candy (a INT NOT NULL)", false},
		{"DROP DATABASE IF EXISTS shop", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, returnsRows(tt.query))
		})
	}
}

func TestSQLClientExec(t *testing.T) {
	client, mock := newMock(t)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO candy (candy_key, sweetness) VALUES (?, ?)").
		WithArgs("A", 1).
		WillReturnResult(sqlmock.NewResult(7, 1))

	res, err := client.Exec(ctx, "INSERT INTO candy (candy_key, sweetness) VALUES (?, ?)", "A", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RowsAffected)
	assert.Equal(t, int64(7), res.LastInsertID)
	assert.Nil(t, res.Rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLClientQuery(t *testing.T) {
	client, mock := newMock(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT candy_key, sweetness FROM candy WHERE 1=1").
		WillReturnRows(sqlmock.NewRows([]string{"candy_key", "sweetness"}).
			AddRow([]byte("A"), int64(1)).
			AddRow([]byte("B"), nil))

	res, err := client.Exec(ctx, "SELECT candy_key, sweetness FROM candy WHERE 1=1")
	require.NoError(t, err)
	assert.Equal(t, []string{"candy_key", "sweetness"}, res.Columns)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, []any{"A", int64(1)}, res.Rows[0])
	assert.Equal(t, []any{"B", nil}, res.Rows[1])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLClientExecError(t *testing.T) {
	client, mock := newMock(t)
	boom := errors.New("duplicate entry")

	mock.ExpectExec("INSERT INTO candy (candy_key) VALUES (?)").WithArgs("A").WillReturnError(boom)

	_, err := client.Exec(context.Background(), "INSERT INTO candy (candy_key) VALUES (?)", "A")
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}
