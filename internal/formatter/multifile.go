package formatter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tordrt/jsonsql/internal/schema"
)

const (
	formatMarkdown = "markdown"
	formatText     = "text"
)

// MultiFileFormatter writes schema documentation to multiple files in a directory
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "text" or "markdown"
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes an overview file and one file per table
func (f *MultiFileFormatter) Format(s *schema.Schema) error {
	if f.OutputFormat != formatMarkdown && f.OutputFormat != formatText {
		return fmt.Errorf("unsupported format %q (must be %s or %s)", f.OutputFormat, formatMarkdown, formatText)
	}

	// Create output directory if it doesn't exist
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := f.writeFile("_overview", func(w io.Writer) error {
		return f.writeOverview(w, s)
	}); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	for _, table := range s.Tables {
		if err := f.writeFile(table.Name, func(w io.Writer) error {
			return f.writeTable(w, table, s)
		}); err != nil {
			return fmt.Errorf("failed to write table file for %s: %w", table.Name, err)
		}
	}

	return nil
}

func (f *MultiFileFormatter) writeFile(name string, write func(io.Writer) error) error {
	file, err := os.Create(filepath.Join(f.OutputDir, name+f.getFileExtension()))
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func (f *MultiFileFormatter) writeOverview(w io.Writer, s *schema.Schema) error {
	// Sort tables alphabetically
	sortedTables := make([]schema.Table, len(s.Tables))
	copy(sortedTables, s.Tables)
	sort.Slice(sortedTables, func(i, j int) bool {
		return sortedTables[i].Name < sortedTables[j].Name
	})

	if f.OutputFormat == formatMarkdown {
		_, _ = fmt.Fprintf(w, "# Schema Overview\n\n")
		_, _ = fmt.Fprintf(w, "Each table has a corresponding file: `<table_name>%s`\n\n", f.getFileExtension())
		_, _ = fmt.Fprintf(w, "## Tables\n\n")
		for _, table := range sortedTables {
			_, _ = fmt.Fprintf(w, "- **%s**", table.Name)
			if targets := referencedTables(table); len(targets) > 0 {
				_, _ = fmt.Fprintf(w, " (references: %s)", strings.Join(targets, ", "))
			}
			_, _ = fmt.Fprintln(w)
		}
		return nil
	}

	_, _ = fmt.Fprintf(w, "SCHEMA OVERVIEW\n")
	_, _ = fmt.Fprintf(w, "Each table has a file: <table_name>%s\n\n", f.getFileExtension())
	for _, table := range sortedTables {
		_, _ = fmt.Fprintf(w, "%s", table.Name)
		if targets := referencedTables(table); len(targets) > 0 {
			_, _ = fmt.Fprintf(w, " (references: %s)", strings.Join(targets, ","))
		}
		_, _ = fmt.Fprintln(w)
	}
	return nil
}

func (f *MultiFileFormatter) writeTable(w io.Writer, table schema.Table, s *schema.Schema) error {
	incoming := findIncomingReferences(table.Name, s)

	if f.OutputFormat == formatMarkdown {
		if err := NewMarkdownFormatter(w).FormatTable(table); err != nil {
			return err
		}
		if len(incoming) > 0 {
			_, _ = fmt.Fprintf(w, "\n### Referenced by\n\n")
			for _, ref := range incoming {
				_, _ = fmt.Fprintf(w, "- %s.%s → %s\n", ref.SourceTable, ref.SourceColumn, ref.TargetColumn)
			}
		}
		return nil
	}

	if err := NewTextFormatter(w).FormatTable(table); err != nil {
		return err
	}
	if len(incoming) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "  REFERENCED BY:")
		for _, ref := range incoming {
			_, _ = fmt.Fprintf(w, "    %s.%s → %s\n", ref.SourceTable, ref.SourceColumn, ref.TargetColumn)
		}
	}
	return nil
}

// IncomingReference is a foreign key of another table pointing to this one
type IncomingReference struct {
	SourceTable  string
	SourceColumn string
	TargetColumn string
}

// findIncomingReferences finds all foreign keys pointing to tableName.
// Malformed references are skipped; Schema.Check reports them.
func findIncomingReferences(tableName string, s *schema.Schema) []IncomingReference {
	var incoming []IncomingReference

	for _, table := range s.Tables {
		for _, col := range table.Columns {
			if col.ForeignKey == "" {
				continue
			}
			ref, err := schema.ParseForeignKey(col.ForeignKey)
			if err != nil || ref.Table != tableName {
				continue
			}
			incoming = append(incoming, IncomingReference{
				SourceTable:  table.Name,
				SourceColumn: col.Name,
				TargetColumn: ref.Column,
			})
		}
	}

	return incoming
}

// referencedTables lists the distinct tables a table's foreign keys point to
func referencedTables(table schema.Table) []string {
	var targets []string
	seen := make(map[string]bool)
	for _, col := range table.Columns {
		ref, err := schema.ParseForeignKey(col.ForeignKey)
		if col.ForeignKey == "" || err != nil || seen[ref.Table] {
			continue
		}
		seen[ref.Table] = true
		targets = append(targets, ref.Table)
	}
	return targets
}

func (f *MultiFileFormatter) getFileExtension() string {
	if f.OutputFormat == formatMarkdown {
		return ".md"
	}
	return ".txt"
}
