package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tordrt/jsonsql"
	"github.com/tordrt/jsonsql/internal/config"
	"github.com/tordrt/jsonsql/internal/db"
	"github.com/tordrt/jsonsql/internal/formatter"
	"github.com/tordrt/jsonsql/internal/schema"
)

var (
	dataFile     string
	format       string
	outputFile   string
	outputDir    string
	title        string
	mysqlURL     string
	introspectDB string
	tables       string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate records against the schema constraints",
	Long: `Validate reads a JSON object of records keyed by table name, e.g.
{"candy": {"candy_key": "A", "flavor_id": 3}}, and reports every value that
breaks a foreign key, nullability or size constraint. Exits 1 when any does.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadFromFlags()
		if err != nil {
			return err
		}
		records, err := readRecords(dataFile)
		if err != nil {
			return err
		}
		problems, err := d.Validator().All(records)
		if err != nil {
			return err
		}
		return reportProblems(cmd.OutOrStdout(), problems)
	},
}

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Document the schema as markdown or text",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadFromFlags()
		if err != nil {
			return err
		}
		return writeDocs(cmd.OutOrStdout(), d.Schema())
	},
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Drop, recreate and seed the database",
	Long: `Setup connects to the configured database server, waiting for it to come
up, then drops and recreates the schema's database, creates every table and
inserts the seed data. Failing statements are reported and do not stop the run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		d, err := loadDatabase(cfg)
		if err != nil {
			return err
		}
		serverURL, err := cfg.ServerURL()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		logger := newLogger()

		client, err := db.Connect(ctx, serverURL, cfg.Retry(logger))
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Close(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to close database connection: %v\n", err)
			}
		}()

		report, err := d.Setup(ctx, client)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Ran %d queries, %d errors\n", report.QueryCount, report.ErrorCount)
		if report.ErrorCount > 0 {
			return fmt.Errorf("setup of %s finished with %d failed queries", d.Name(), report.ErrorCount)
		}
		return nil
	},
}

var introspectCmd = &cobra.Command{
	Use:   "introspect",
	Short: "Write a schema file describing an existing MySQL database",
	Long: `Introspect reads tables, columns and keys from a MySQL database. The server
is --mysql-url when given, otherwise the configured database URL; --database
reads another database on the same server.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dsn, err := introspectDSN(cfg)
		if err != nil {
			return err
		}
		dbName, err := db.ParseDatabaseName(dsn)
		if err != nil {
			return err
		}

		client, err := db.NewMySQLClient(ctx, dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to MySQL: %w", err)
		}
		defer func() {
			if err := client.Close(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to close MySQL connection: %v\n", err)
			}
		}()

		extracted, err := db.NewMySQLExtractor(client, dbName).ExtractSchema(ctx, parseTableList(tables))
		if err != nil {
			return fmt.Errorf("failed to extract schema: %w", err)
		}

		return writeSchema(cmd.OutOrStdout(), extracted, outputFile)
	},
}

func init() {
	validateCmd.Flags().StringVarP(&dataFile, "data", "d", "", "JSON file of records keyed by table name")
	_ = validateCmd.MarkFlagRequired("data")

	docsCmd.Flags().StringVarP(&format, "format", "f", "markdown", "Output format: markdown or text")
	docsCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	docsCmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Output directory for multi-file output")
	docsCmd.Flags().StringVar(&title, "title", "", "Markdown title (default: Tables)")
	docsCmd.MarkFlagsMutuallyExclusive("output", "output-dir")

	introspectCmd.Flags().StringVar(&mysqlURL, "mysql-url", "", "MySQL connection string, e.g. user:pass@tcp(localhost:3306)/shop (default: the database URL)")
	introspectCmd.Flags().StringVar(&introspectDB, "database", "", "Database to read instead of the one in the URL")
	introspectCmd.Flags().StringVarP(&tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	introspectCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Schema file to write, .json or .yaml (default: YAML to stdout)")
}

// introspectDSN resolves the MySQL driver DSN to introspect
func introspectDSN(cfg *config.Config) (string, error) {
	if mysqlURL != "" {
		cfg.DatabaseURL = mysqlURL
		if !strings.HasPrefix(mysqlURL, "mysql://") {
			cfg.DatabaseURL = "mysql://" + mysqlURL
		}
	}

	rawURL := cfg.DatabaseURL
	if introspectDB != "" {
		var err error
		if rawURL, err = cfg.DatabaseURLFor(introspectDB); err != nil {
			return "", err
		}
	}

	kind, dsn, err := db.ParseURL(rawURL)
	if err != nil {
		return "", err
	}
	if kind != db.MySQL {
		return "", fmt.Errorf("introspect supports MySQL only, got a %s URL", kind)
	}
	return dsn, nil
}

// readRecords reads records keyed by table name from a JSON file
func readRecords(path string) (map[string]jsonsql.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid data file %s: %w", path, err)
	}

	records := make(map[string]jsonsql.Record, len(raw))
	for table, msg := range raw {
		record, err := parseRecord(string(msg))
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", table, err)
		}
		records[table] = record
	}
	return records, nil
}

// reportProblems prints one line per problem and fails when there are any
func reportProblems(w io.Writer, problems []jsonsql.ValidationError) error {
	if len(problems) == 0 {
		_, _ = fmt.Fprintln(w, "OK")
		return nil
	}
	for _, p := range problems {
		_, _ = fmt.Fprintf(w, "%s.%s: %s\n", p.Table, p.Column, p.Message)
	}
	_, _ = fmt.Fprintf(w, "%d problems found\n", len(problems))
	return errValidationFailed
}

func writeDocs(stdout io.Writer, s *schema.Schema) error {
	if format != "markdown" && format != "text" {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'markdown')", format)
	}

	// Multi-file output
	if outputDir != "" {
		if err := formatter.NewMultiFileFormatter(outputDir, format).Format(s); err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		return nil
	}

	// Single-file output
	writer := stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to close output file: %v\n", err)
			}
		}()
		writer = f
	}

	var err error
	switch format {
	case "text":
		err = formatter.NewTextFormatter(writer).Format(s)
	default:
		md := formatter.NewMarkdownFormatter(writer)
		md.Title = title
		err = md.Format(s)
	}
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return nil
}

// writeSchema encodes a schema as YAML to stdout, or to path in the format
// given by its extension.
func writeSchema(stdout io.Writer, s *schema.Schema, path string) error {
	if path == "" {
		data, err := schema.Encode(s, "yaml")
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	}

	data, err := schema.Encode(s, strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write schema file: %w", err)
	}
	return nil
}
