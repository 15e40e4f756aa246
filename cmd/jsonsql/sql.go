package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tordrt/jsonsql"
)

var (
	recordJSON string
	setJSON    string
	whereJSON  string
	whereRaw   string
	fields     string
)

var sqlCmd = &cobra.Command{
	Use:   "sql",
	Short: "Print SQL statements generated from the schema",
}

var sqlSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Print the statements that recreate the database with its seed data",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadFromFlags()
		if err != nil {
			return err
		}
		statements, err := d.SetupStatements()
		if err != nil {
			return err
		}
		for _, sql := range statements {
			printSQL(cmd.OutOrStdout(), sql)
		}
		return nil
	},
}

var sqlCreateCmd = &cobra.Command{
	Use:   "create [table...]",
	Short: "Print CREATE TABLE statements (default: every table)",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadFromFlags()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			for _, t := range d.Tables() {
				args = append(args, t.Name)
			}
		}
		for _, name := range args {
			sql, err := d.CreateTable(name)
			if err != nil {
				return err
			}
			printSQL(cmd.OutOrStdout(), sql)
		}
		return nil
	},
}

var sqlInsertCmd = &cobra.Command{
	Use:   "insert <table>",
	Short: "Print a parameterized INSERT for a JSON record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printRecordStatement(cmd, args[0], (*jsonsql.Database).Insert)
	},
}

var sqlUpsertCmd = &cobra.Command{
	Use:   "upsert <table>",
	Short: "Print a parameterized INSERT ... ON DUPLICATE KEY UPDATE for a JSON record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printRecordStatement(cmd, args[0], (*jsonsql.Database).Upsert)
	},
}

var sqlSelectCmd = &cobra.Command{
	Use:   "select <table>",
	Short: "Print a SELECT",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadFromFlags()
		if err != nil {
			return err
		}
		where, err := whereFilter(whereJSON, whereRaw)
		if err != nil {
			return err
		}
		var fieldList any
		if list := parseTableList(fields); list != nil {
			fieldList = list
		}
		st, err := d.Select(args[0], fieldList, where)
		if err != nil {
			return err
		}
		return printStatement(cmd.OutOrStdout(), st)
	},
}

var sqlUpdateCmd = &cobra.Command{
	Use:   "update <table>",
	Short: "Print a parameterized UPDATE",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadFromFlags()
		if err != nil {
			return err
		}
		set, err := parseRecord(setJSON)
		if err != nil {
			return err
		}
		where, err := whereFilter(whereJSON, whereRaw)
		if err != nil {
			return err
		}
		st, err := d.Update(args[0], set, where)
		if err != nil {
			return err
		}
		return printStatement(cmd.OutOrStdout(), st)
	},
}

func init() {
	for _, c := range []*cobra.Command{sqlInsertCmd, sqlUpsertCmd} {
		c.Flags().StringVarP(&recordJSON, "record", "r", "", `Record as a JSON object, e.g. '{"candy_key":"A"}'`)
		_ = c.MarkFlagRequired("record")
	}
	for _, c := range []*cobra.Command{sqlSelectCmd, sqlUpdateCmd} {
		c.Flags().StringVarP(&whereJSON, "where", "w", "", "Equality filters as a JSON object")
		c.Flags().StringVar(&whereRaw, "where-sql", "", "Raw WHERE clause, used verbatim")
		c.MarkFlagsMutuallyExclusive("where", "where-sql")
	}
	sqlSelectCmd.Flags().StringVarP(&fields, "fields", "f", "", "Columns to select (comma-separated, default: *)")
	sqlUpdateCmd.Flags().StringVar(&setJSON, "set", "", "Values to set as a JSON object")
	_ = sqlUpdateCmd.MarkFlagRequired("set")

	sqlCmd.AddCommand(sqlSetupCmd, sqlCreateCmd, sqlInsertCmd, sqlUpsertCmd, sqlSelectCmd, sqlUpdateCmd)
}

func loadFromFlags() (*jsonsql.Database, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return loadDatabase(cfg)
}

func printRecordStatement(cmd *cobra.Command, table string,
	build func(*jsonsql.Database, string, jsonsql.Record) (jsonsql.Statement, error)) error {
	d, err := loadFromFlags()
	if err != nil {
		return err
	}
	record, err := parseRecord(recordJSON)
	if err != nil {
		return err
	}
	st, err := build(d, table, record)
	if err != nil {
		return err
	}
	return printStatement(cmd.OutOrStdout(), st)
}

// whereFilter picks the WHERE argument: a raw clause, a record, or nil
func whereFilter(jsonFilter, raw string) (any, error) {
	if raw != "" {
		return raw, nil
	}
	if jsonFilter == "" {
		return nil, nil
	}
	record, err := parseRecord(jsonFilter)
	if err != nil {
		return nil, err
	}
	if record == nil {
		record = jsonsql.Record{}
	}
	return record, nil
}

func printSQL(w io.Writer, sql string) {
	_, _ = fmt.Fprintf(w, "%s;\n", sql)
}

// printStatement writes the SQL followed by its arguments as a JSON comment
func printStatement(w io.Writer, st jsonsql.Statement) error {
	printSQL(w, st.SQL)
	if len(st.Args) == 0 {
		return nil
	}
	args, err := json.Marshal(st.Args)
	if err != nil {
		return fmt.Errorf("failed to encode arguments: %w", err)
	}
	_, _ = fmt.Fprintf(w, "-- args: %s\n", args)
	return nil
}
