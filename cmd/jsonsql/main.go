package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tordrt/jsonsql"
	"github.com/tordrt/jsonsql/internal/config"
	"github.com/tordrt/jsonsql/internal/schema"
)

var (
	configFile  string
	schemaFile  string
	databaseURL string
	verbose     bool
)

// errValidationFailed makes the process exit 1 without a usage message
var errValidationFailed = errors.New("validation failed")

var rootCmd = &cobra.Command{
	Use:   "jsonsql",
	Short: "Generate SQL from a JSON or YAML schema and validate records against it",
	Long: `jsonsql reads a database schema described as JSON or YAML (tables, columns,
constraints and seed data), prints the SQL to create and query it, validates
records before they are written, and documents the schema as markdown or text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ./jsonsql.yaml if present)")
	rootCmd.PersistentFlags().StringVarP(&schemaFile, "schema", "s", "", "Schema file (.json, .yaml or .yml)")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Database URL (mysql://, postgres:// or sqlite://)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(sqlCmd, validateCmd, docsCmd, setupCmd, introspectCmd)
}

// loadConfig reads the config and applies the global flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if schemaFile != "" {
		cfg.SchemaFile = schemaFile
	}
	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}
	return cfg, nil
}

// loadDatabase loads the configured schema file
func loadDatabase(cfg *config.Config) (*jsonsql.Database, error) {
	if cfg.SchemaFile == "" {
		return nil, fmt.Errorf("a schema file is required (--schema or schema_file in the config)")
	}
	return jsonsql.Load(cfg.SchemaFile, &jsonsql.Options{
		Placeholder: cfg.Placeholder,
		// PostgreSQL placeholders are numbered
		Numbered:    cfg.Placeholder == "$",
		StrictTypes: cfg.StrictTypes,
		Logger:      newLogger(),
	})
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// parseTableList splits a comma-separated flag value
func parseTableList(tables string) []string {
	if strings.TrimSpace(tables) == "" {
		return nil
	}
	var list []string
	for _, t := range strings.Split(tables, ",") {
		if t = strings.TrimSpace(t); t != "" {
			list = append(list, t)
		}
	}
	return list
}

// parseRecord decodes a JSON object flag value into a record
func parseRecord(data string) (jsonsql.Record, error) {
	if strings.TrimSpace(data) == "" {
		return nil, nil
	}
	var record jsonsql.Record
	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&record); err != nil {
		return nil, fmt.Errorf("invalid record %q: %w", data, err)
	}
	for k, v := range record {
		record[k] = schema.NormalizeNumber(v)
	}
	return record, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errValidationFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
