package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/jsonsql/internal/schema"
	"github.com/tordrt/jsonsql/internal/sqlgen"
	"github.com/tordrt/jsonsql/internal/sqltype"
)

const (
	defaultTitle = "Tables"
	sampleHead   = 7
	sampleTail   = 5
)

// MarkdownFormatter formats tables as human-readable markdown documentation
type MarkdownFormatter struct {
	writer io.Writer

	// Title is the top-level heading. Empty means "Tables".
	Title string
	// Head and Tail select how many leading and trailing seed rows are
	// shown when a table has more than Head+Tail rows.
	Head, Tail int
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w, Head: sampleHead, Tail: sampleTail}
}

// Format writes the schema in markdown format
func (f *MarkdownFormatter) Format(s *schema.Schema) error {
	title := f.Title
	if title == "" {
		title = defaultTitle
	}
	_, _ = fmt.Fprintf(f.writer, "# %s\n", title)

	for _, table := range s.Tables {
		if err := f.FormatTable(table); err != nil {
			return err
		}
	}
	return nil
}

// FormatTable writes a single table section (exported for use by multifile formatter)
func (f *MarkdownFormatter) FormatTable(table schema.Table) error {
	_, _ = fmt.Fprintf(f.writer, "\n## %s\n", table.Name)
	if table.Notes != "" {
		_, _ = fmt.Fprintln(f.writer, table.Notes)
	}

	for _, col := range table.Columns {
		_, _ = fmt.Fprintf(f.writer, "- `%s` - %s\n", col.Name, strings.Join(columnFacts(col), " | "))
	}

	if table.Data == nil {
		return nil
	}

	rows, sampled := f.sample(table.Data)
	if sampled {
		_, _ = fmt.Fprintf(f.writer, "\n### Sample of Initial Data (%d rows out of %d)\n", len(rows), len(table.Data))
	} else {
		_, _ = fmt.Fprintln(f.writer, "\n### Initial Data")
	}

	names := table.ColumnNames()
	separators := make([]string, len(names))
	for i := range separators {
		separators[i] = "---"
	}
	_, _ = fmt.Fprintf(f.writer, "\n| %s |\n", strings.Join(names, " | "))
	_, _ = fmt.Fprintf(f.writer, "| %s |\n", strings.Join(separators, " | "))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = cell(v)
		}
		_, _ = fmt.Fprintf(f.writer, "| %s |\n", strings.Join(cells, " | "))
	}

	return nil
}

// sample returns the first Head and last Tail rows of data, or all of it
// when it is not longer than that.
func (f *MarkdownFormatter) sample(data [][]any) ([][]any, bool) {
	if len(data) <= f.Head+f.Tail {
		return data, false
	}
	rows := make([][]any, 0, f.Head+f.Tail)
	rows = append(rows, data[:f.Head]...)
	rows = append(rows, data[len(data)-f.Tail:]...)
	return rows, true
}

// columnFacts lists the descriptive parts of a column bullet
func columnFacts(col schema.Column) []string {
	var facts []string
	if col.Notes != "" {
		facts = append(facts, col.Notes)
	}
	facts = append(facts, FriendlyDataType(col))
	if col.PrimaryKey {
		facts = append(facts, "PK (Must be unique)")
	}
	if col.ForeignKey != "" {
		facts = append(facts, FriendlyForeignKey(col.ForeignKey))
	}
	if col.Nullable {
		facts = append(facts, "null allowed")
	} else {
		facts = append(facts, "required")
	}
	if col.Unique.IsSingle() {
		facts = append(facts, "must be unique")
	}
	if group, ok := col.Unique.GroupName(); ok {
		facts = append(facts, fmt.Sprintf("unique together (%s)", group))
	}
	if col.AutoIncrement {
		facts = append(facts, "auto-increment")
	}
	if col.DefaultValue != nil {
		facts = append(facts, "default: "+sqlgen.Text(col.DefaultValue))
	}
	return facts
}

// FriendlyDataType describes a column type in plain words
func FriendlyDataType(col schema.Column) string {
	if col.DataType == "" {
		return "Unspecified data type"
	}
	switch base := sqltype.BaseName(col.DataType); base {
	case "CHAR":
		if col.Size == 1 {
			return "one letter"
		}
		return "text"
	case "VARCHAR", "TEXT":
		return "text"
	case "INT", "INTEGER":
		return "integer"
	case "BOOLEAN", "BOOL":
		return "boolean"
	}
	return col.DataType
}

// FriendlyForeignKey describes a "table(column)" reference
func FriendlyForeignKey(fk string) string {
	ref, err := schema.ParseForeignKey(fk)
	if err != nil {
		return "FK unknown"
	}
	return fmt.Sprintf("FK linked to %s table (%s)", ref.Table, ref.Column)
}

// cell renders a seed value for a markdown table row
func cell(v any) string {
	if v == nil {
		return ""
	}
	return strings.ReplaceAll(sqlgen.Text(v), "|", `\|`)
}
