package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/jsonsql/internal/schema"
	"github.com/tordrt/jsonsql/internal/sqlgen"
)

// TextFormatter formats tables as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes the schema in compact text format
func (f *TextFormatter) Format(s *schema.Schema) error {
	for i, table := range s.Tables {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer) // Blank line between tables
		}

		if err := f.FormatTable(table); err != nil {
			return err
		}
	}
	return nil
}

// FormatTable writes a single table
func (f *TextFormatter) FormatTable(table schema.Table) error {
	var pk []string
	for _, col := range table.Columns {
		if col.PrimaryKey {
			pk = append(pk, col.Name)
		}
	}
	pkStr := ""
	if len(pk) > 0 {
		pkStr = fmt.Sprintf(" (PK: %s)", strings.Join(pk, ", "))
	}
	_, _ = fmt.Fprintf(f.writer, "TABLE %s%s\n", table.Name, pkStr)

	for _, col := range table.Columns {
		_, _ = fmt.Fprintf(f.writer, "  %s\n", f.formatColumn(col))
	}

	if groups := sqlgen.UniqueGroups(table.Columns); len(groups) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  UNIQUE GROUPS:")
		for _, g := range groups {
			_, _ = fmt.Fprintf(f.writer, "    %s (%s)\n", g.Name, strings.Join(g.Columns, ", "))
		}
	}

	var refs []string
	for _, col := range table.Columns {
		if col.ForeignKey != "" {
			refs = append(refs, fmt.Sprintf("    %s → %s", col.Name, col.ForeignKey))
		}
	}
	if len(refs) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  REFERENCES:")
		_, _ = fmt.Fprintln(f.writer, strings.Join(refs, "\n"))
	}

	if len(table.Data) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintf(f.writer, "  ROWS: %d\n", len(table.Data))
	}

	return nil
}

func (f *TextFormatter) formatColumn(col schema.Column) string {
	parts := []string{col.Name + ":", sqlgen.ColumnTypeText(col)}

	if col.AutoIncrement {
		parts = append(parts, "AUTO_INCREMENT")
	}

	if col.Unique.IsSingle() {
		parts = append(parts, "UNIQUE")
	}

	if !col.Nullable {
		parts = append(parts, "NOT NULL")
	}

	if col.DefaultValue != nil {
		parts = append(parts, "DEFAULT "+sqlgen.Text(col.DefaultValue))
	}

	if col.Notes != "" {
		parts = append(parts, "-- "+col.Notes)
	}

	return strings.Join(parts, " ")
}
