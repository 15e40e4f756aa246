package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tordrt/jsonsql"
	"github.com/tordrt/jsonsql/internal/config"
	"github.com/tordrt/jsonsql/internal/schema"
)

const testSchema = `{
	"name": "candy_shop",
	"tables": [
		{
			"name": "flavor",
			"columns": [
				{"name": "flavor_id", "dataType": "INTEGER", "primaryKey": true},
				{"name": "name", "dataType": "VARCHAR", "size": 20}
			],
			"data": [[1, "Cherry"], [2, "Lime"]]
		},
		{
			"name": "candy",
			"columns": [
				{"name": "candy_key", "dataType": "CHAR", "size": 1, "unique": true},
				{"name": "flavor_id", "dataType": "INTEGER", "foreignKey": "flavor(flavor_id)"}
			]
		}
	]
}`

func writeTestSchema(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "candy.json")
	if err := os.WriteFile(path, []byte(testSchema), 0o644); err != nil {
		t.Fatalf("Failed to write schema: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParseTableList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"blank", "  ", nil},
		{"single", "candy", []string{"candy"}},
		{"spaces and empties", " candy , flavor,,", []string{"candy", "flavor"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTableList(tt.input)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") || (got == nil) != (tt.want == nil) {
				t.Errorf("parseTableList(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRecord(t *testing.T) {
	record, err := parseRecord(`{"candy_key": "A", "flavor_id": 3, "ratio": 0.5, "brand": null}`)
	if err != nil {
		t.Fatalf("parseRecord() error = %v", err)
	}
	if record["flavor_id"] != int64(3) {
		t.Errorf("flavor_id = %#v, want int64(3)", record["flavor_id"])
	}
	if record["ratio"] != 0.5 {
		t.Errorf("ratio = %#v, want 0.5", record["ratio"])
	}
	if v, ok := record["brand"]; !ok || v != nil {
		t.Errorf("brand = %#v, %v; want nil, true", v, ok)
	}

	if _, err := parseRecord(`[1, 2]`); err == nil {
		t.Error("Expected error for non-object record")
	}
}

func TestWhereFilter(t *testing.T) {
	where, err := whereFilter("", "")
	if err != nil || where != nil {
		t.Errorf("whereFilter() = %v, %v; want nil", where, err)
	}

	where, err = whereFilter(`{"a": 1}`, "b > 2")
	if err != nil || where != "b > 2" {
		t.Errorf("whereFilter() = %v, %v; want raw clause", where, err)
	}

	where, err = whereFilter(`{}`, "")
	if err != nil {
		t.Fatalf("whereFilter() error = %v", err)
	}
	if r, ok := where.(jsonsql.Record); !ok || len(r) != 0 {
		t.Errorf("whereFilter({}) = %#v, want empty record", where)
	}
}

func TestReportProblems(t *testing.T) {
	var buf bytes.Buffer
	if err := reportProblems(&buf, nil); err != nil {
		t.Errorf("reportProblems(nil) error = %v", err)
	}
	if buf.String() != "OK\n" {
		t.Errorf("reportProblems(nil) wrote %q", buf.String())
	}

	buf.Reset()
	err := reportProblems(&buf, []jsonsql.ValidationError{
		{Table: "candy", Column: "flavor_id", Message: "Value 9 not found as foreign key of flavor(flavor_id)"},
	})
	if !errors.Is(err, errValidationFailed) {
		t.Errorf("reportProblems() error = %v, want errValidationFailed", err)
	}
	if !strings.Contains(buf.String(), "candy.flavor_id: Value 9 not found") {
		t.Errorf("reportProblems() wrote %q", buf.String())
	}
}

func TestSQLCreateCommand(t *testing.T) {
	path := writeTestSchema(t)

	out, err := execute(t, "sql", "create", "--schema", path, "candy")
	if err != nil {
		t.Fatalf("sql create error = %v", err)
	}
	want := "CREATE TABLE candy (candy_key CHAR(1) NOT NULL UNIQUE, flavor_id INTEGER NOT NULL, FOREIGN KEY (flavor_id) REFERENCES flavor(flavor_id));\n"
	if out != want {
		t.Errorf("sql create =\n%s\nwant\n%s", out, want)
	}
}

func TestSQLInsertCommand(t *testing.T) {
	path := writeTestSchema(t)

	out, err := execute(t, "sql", "insert", "candy", "--schema", path, "--record", `{"flavor_id": 2, "candy_key": "A"}`)
	if err != nil {
		t.Fatalf("sql insert error = %v", err)
	}
	want := "INSERT INTO candy (candy_key, flavor_id) VALUES (?, ?);\n-- args: [\"A\",2]\n"
	if out != want {
		t.Errorf("sql insert =\n%s\nwant\n%s", out, want)
	}
}

func TestSQLSetupCommand(t *testing.T) {
	path := writeTestSchema(t)

	out, err := execute(t, "sql", "setup", "--schema", path)
	if err != nil {
		t.Fatalf("sql setup error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 6 {
		t.Fatalf("Expected 6 statements, got %d:\n%s", len(lines), out)
	}
	if lines[5] != "INSERT INTO flavor (flavor_id, name) VALUES (1, 'Cherry'), (2, 'Lime');" {
		t.Errorf("Unexpected seed statement: %s", lines[5])
	}
}

func TestValidateCommand(t *testing.T) {
	path := writeTestSchema(t)
	dataPath := filepath.Join(t.TempDir(), "records.json")
	if err := os.WriteFile(dataPath, []byte(`{"candy": {"candy_key": "AB", "flavor_id": 9}}`), 0o644); err != nil {
		t.Fatalf("Failed to write records: %v", err)
	}

	out, err := execute(t, "validate", "--schema", path, "--data", dataPath)
	if !errors.Is(err, errValidationFailed) {
		t.Fatalf("validate error = %v, want errValidationFailed", err)
	}
	if !strings.Contains(out, "2 problems found") {
		t.Errorf("validate output:\n%s", out)
	}
}

func TestWriteSchema(t *testing.T) {
	s := &schema.Schema{Name: "shop", Tables: []schema.Table{{
		Name:    "flavor",
		Columns: []schema.Column{{Name: "flavor_id", DataType: "INT", PrimaryKey: true}},
	}}}

	var buf bytes.Buffer
	if err := writeSchema(&buf, s, ""); err != nil {
		t.Fatalf("writeSchema() error = %v", err)
	}
	if !strings.Contains(buf.String(), "primaryKey: true") {
		t.Errorf("Expected YAML output, got:\n%s", buf.String())
	}

	path := filepath.Join(t.TempDir(), "shop.json")
	if err := writeSchema(&buf, s, path); err != nil {
		t.Fatalf("writeSchema() error = %v", err)
	}
	back, err := schema.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if back.Name != "shop" || len(back.Tables) != 1 {
		t.Errorf("Round trip lost data: %+v", back)
	}
}

func TestDocsCommand(t *testing.T) {
	path := writeTestSchema(t)

	out, err := execute(t, "docs", "--schema", path, "--format", "text")
	if err != nil {
		t.Fatalf("docs error = %v", err)
	}
	if !strings.Contains(out, "TABLE candy") || !strings.Contains(out, "TABLE flavor") {
		t.Errorf("docs output:\n%s", out)
	}
}

func TestIntrospectDSN(t *testing.T) {
	tests := []struct {
		name      string
		flagURL   string
		database  string
		configURL string
		want      string
		wantErr   bool
	}{
		{"flag without scheme", "root:pw@tcp(localhost:3306)/shop", "", "", "root:pw@tcp(localhost:3306)/shop", false},
		{"flag with scheme", "mysql://root:pw@tcp(localhost:3306)/shop", "", "", "root:pw@tcp(localhost:3306)/shop", false},
		{"configured URL", "", "", "mysql://root:pw@tcp(db:3306)/shop", "root:pw@tcp(db:3306)/shop", false},
		{"other database", "", "archive", "mysql://root:pw@tcp(db:3306)/shop", "root:pw@tcp(db:3306)/archive", false},
		{"no URL", "", "", "", "", true},
		{"not mysql", "", "", "postgres://u@localhost:5432/shop", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mysqlURL, introspectDB = tt.flagURL, tt.database
			t.Cleanup(func() { mysqlURL, introspectDB = "", "" })

			got, err := introspectDSN(&config.Config{DatabaseURL: tt.configURL})
			if (err != nil) != tt.wantErr {
				t.Fatalf("introspectDSN() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("introspectDSN() = %q, want %q", got, tt.want)
			}
		})
	}
}
