package validate

import (
	"errors"
	"testing"

	"github.com/tordrt/jsonsql/internal/schema"
)

func testTables() []schema.Table {
	return []schema.Table{
		{
			Name:    "ref",
			Columns: []schema.Column{{Name: "ref_key", DataType: "VARCHAR", Size: 1}},
			Data:    [][]any{{"A"}, {"B"}},
		},
		{
			Name: "main",
			Columns: []schema.Column{
				{Name: "main_id", DataType: "INT", AutoIncrement: true},
				{Name: "ref_key", DataType: "VARCHAR", Size: 1, ForeignKey: "ref(ref_key)"},
				{Name: "letter", DataType: "VARCHAR", Size: 1},
				{Name: "note", DataType: "TEXT", Nullable: true},
			},
		},
		{
			Name: "level",
			Columns: []schema.Column{
				{Name: "level_id", DataType: "INT"},
			},
			Data: [][]any{{int64(1)}, {int64(2)}},
		},
		{
			Name: "player",
			Columns: []schema.Column{
				{Name: "level_id", DataType: "INT", ForeignKey: "level(level_id)", Nullable: true},
			},
		},
	}
}

func TestForeignKey(t *testing.T) {
	v := New(testTables(), nil)

	tests := []struct {
		name       string
		value      any
		foreignKey string
		wantCount  int
	}{
		{"present", "B", "ref(ref_key)", 0},
		{"missing", "Z", "ref(ref_key)", 1},
		{"number for string key", 0, "ref(ref_key)", 1},
		{"null", nil, "ref(ref_key)", 1},
		{"int matches int64 seed", 2, "level(level_id)", 0},
		{"float matches int64 seed", 1.0, "level(level_id)", 0},
		{"string does not match number", "1", "level(level_id)", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failures, err := v.ForeignKey(tt.value, tt.foreignKey)
			if err != nil {
				t.Fatalf("ForeignKey() error = %v", err)
			}
			if len(failures) != tt.wantCount {
				t.Errorf("ForeignKey() = %v, want %d failures", failures, tt.wantCount)
			}
		})
	}
}

func TestForeignKeyStructuralErrors(t *testing.T) {
	v := New(testTables(), nil)

	if _, err := v.ForeignKey("A", "nowhere(x)"); !errors.Is(err, schema.ErrTableNotFound) {
		t.Errorf("missing table error = %v", err)
	}
	if _, err := v.ForeignKey("A", "ref(nope)"); !errors.Is(err, schema.ErrUnknownColumn) {
		t.Errorf("missing column error = %v", err)
	}
	if _, err := v.ForeignKey("A", "ref.ref_key"); !errors.Is(err, schema.ErrInvalidForeignKey) {
		t.Errorf("malformed foreign key error = %v", err)
	}
}

func TestColumn(t *testing.T) {
	tables := testTables()
	v := New(tables, nil)
	main := &tables[1]

	tests := []struct {
		name      string
		column    string
		value     any
		wantRules []Rule
	}{
		{"good foreign key", "ref_key", "B", nil},
		{"bad foreign key", "ref_key", "Z", []Rule{RuleForeignKey}},
		{"too long", "letter", "AA", []Rule{RuleSize}},
		{"bad foreign key and too long", "ref_key", "ZZ", []Rule{RuleForeignKey, RuleSize}},
		{"null not allowed", "letter", nil, []Rule{RuleNotNull}},
		{"null foreign key not allowed", "ref_key", nil, []Rule{RuleForeignKey, RuleNotNull}},
		{"null allowed", "note", nil, nil},
		{"size counts characters", "letter", "é", nil},
		{"unsized text", "note", "a long note", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failures, err := v.Column(tt.column, tt.value, main)
			if err != nil {
				t.Fatalf("Column() error = %v", err)
			}
			if len(failures) != len(tt.wantRules) {
				t.Fatalf("Column() = %v, want rules %v", failures, tt.wantRules)
			}
			for i, f := range failures {
				if f.Rule != tt.wantRules[i] {
					t.Errorf("failure %d rule = %s, want %s", i, f.Rule, tt.wantRules[i])
				}
				if f.Table != "main" || f.Column != tt.column {
					t.Errorf("failure %d located at %s.%s", i, f.Table, f.Column)
				}
			}
		})
	}
}

func TestColumnMessages(t *testing.T) {
	tables := testTables()
	v := New(tables, nil)

	failures, err := v.Column("letter", "AA", &tables[1])
	if err != nil {
		t.Fatalf("Column() error = %v", err)
	}
	if len(failures) != 1 {
		t.Fatalf("got %d failures", len(failures))
	}
	if want := "Value (AA) size 2 longer than 1 for letter on main"; failures[0].Error() != want {
		t.Errorf("message = %q, want %q", failures[0].Error(), want)
	}
}

func TestColumnUnknown(t *testing.T) {
	tables := testTables()
	v := New(tables, nil)

	if _, err := v.Column("nope", 1, &tables[1]); !errors.Is(err, schema.ErrUnknownColumn) {
		t.Errorf("Column() error = %v, want ErrUnknownColumn", err)
	}
}

func TestRecord(t *testing.T) {
	tables := testTables()
	v := New(tables, nil)
	main := &tables[1]

	tests := []struct {
		name      string
		record    schema.Record
		wantCount int
	}{
		{"good data", schema.Record{"ref_key": "A", "letter": "a"}, 0},
		{"bad ref key", schema.Record{"ref_key": "ZZ", "letter": "z"}, 2},
		{"all bad", schema.Record{"ref_key": "ZZ", "letter": "ZZ"}, 3},
		{"bad ref key and oversize letter", schema.Record{"ref_key": "Z", "letter": "AA"}, 2},
		{"unset fields skipped", schema.Record{"ref_key": schema.Unset, "letter": "a"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failures, err := v.Record(tt.record, main)
			if err != nil {
				t.Fatalf("Record() error = %v", err)
			}
			if len(failures) != tt.wantCount {
				t.Errorf("Record() = %v, want %d failures", failures, tt.wantCount)
			}
		})
	}
}

func TestRecordOrder(t *testing.T) {
	tables := testTables()
	v := New(tables, nil)

	failures, err := v.Record(schema.Record{"letter": "ZZ", "ref_key": "Z"}, &tables[1])
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if len(failures) != 2 || failures[0].Column != "ref_key" || failures[1].Column != "letter" {
		t.Errorf("failures not in column order: %v", failures)
	}
}

func TestRecordUnknownField(t *testing.T) {
	tables := testTables()
	v := New(tables, nil)

	if _, err := v.Record(schema.Record{"letter": "a", "colour": "red"}, &tables[1]); !errors.Is(err, schema.ErrUnknownColumn) {
		t.Errorf("Record() error = %v, want ErrUnknownColumn", err)
	}
}

func TestAll(t *testing.T) {
	v := New(testTables(), nil)

	failures, err := v.All(map[string]schema.Record{
		"player": {"level_id": 3},
		"main":   {"ref_key": "Z", "letter": "a"},
		"ref":    {"ref_key": "C"},
	})
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(failures) != 2 {
		t.Fatalf("All() = %v, want 2 failures", failures)
	}
	if failures[0].Table != "main" || failures[1].Table != "player" {
		t.Errorf("failures not in schema order: %v", failures)
	}

	if _, err := v.All(map[string]schema.Record{"ghost": {}}); !errors.Is(err, schema.ErrTableNotFound) {
		t.Errorf("All() error = %v, want ErrTableNotFound", err)
	}
}
