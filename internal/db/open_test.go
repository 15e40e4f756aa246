package db

import (
	"testing"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantKind Kind
		wantConn string
		wantErr  bool
	}{
		{"mysql", "mysql://root:pw@tcp(localhost:3306)/shop", MySQL, "root:pw@tcp(localhost:3306)/shop", false},
		{"postgres", "postgres://u:p@localhost/shop", Postgres, "postgres://u:p@localhost/shop", false},
		{"postgresql", "postgresql://u@localhost/shop", Postgres, "postgresql://u@localhost/shop", false},
		{"sqlite", "sqlite://data/shop.db", SQLite, "data/shop.db", false},
		{"empty", "", "", "", true},
		{"unknown scheme", "oracle://x", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, conn, err := ParseURL(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if kind != tt.wantKind || conn != tt.wantConn {
				t.Errorf("ParseURL() = %s, %s; want %s, %s", kind, conn, tt.wantKind, tt.wantConn)
			}
		})
	}
}

func TestWithDatabase(t *testing.T) {
	tests := []struct {
		name string
		url  string
		db   string
		want string
	}{
		{"mysql rename", "mysql://root:pw@tcp(localhost:3306)/shop", "other", "mysql://root:pw@tcp(localhost:3306)/other"},
		{"mysql drop name", "mysql://root:pw@tcp(localhost:3306)/shop", "", "mysql://root:pw@tcp(localhost:3306)/"},
		{"postgres", "postgres://u:p@localhost:5432/shop?sslmode=disable", "other", "postgres://u:p@localhost:5432/other?sslmode=disable"},
		{"sqlite unchanged", "sqlite://shop.db", "other", "sqlite://shop.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WithDatabase(tt.url, tt.db)
			if err != nil {
				t.Fatalf("WithDatabase() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("WithDatabase() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestServerURL(t *testing.T) {
	got, err := ServerURL("postgres://u@localhost/shop")
	if err != nil {
		t.Fatalf("ServerURL() error = %v", err)
	}
	if got != "postgres://u@localhost/postgres" {
		t.Errorf("ServerURL() = %s", got)
	}

	got, err = ServerURL("mysql://root@tcp(db:3306)/shop")
	if err != nil {
		t.Fatalf("ServerURL() error = %v", err)
	}
	if got != "mysql://root@tcp(db:3306)/" {
		t.Errorf("ServerURL() = %s", got)
	}
}

func TestParseDatabaseName(t *testing.T) {
	name, err := ParseDatabaseName("root:pw@tcp(localhost:3306)/shop?parseTime=true")
	if err != nil {
		t.Fatalf("ParseDatabaseName() error = %v", err)
	}
	if name != "shop" {
		t.Errorf("ParseDatabaseName() = %s, want shop", name)
	}

	if _, err := ParseDatabaseName("root@tcp(localhost:3306)/"); err == nil {
		t.Error("Expected error for DSN without database")
	}
}
