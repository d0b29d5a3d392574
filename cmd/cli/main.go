// Command duckcli is a command-line client for DuckDB databases.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nickyhof/DuckCLI/db"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	dbPath  string
	verbose bool
)

func main() {
	// A missing .env is fine; explicit env vars still apply.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "duckcli",
		Short: "Simple CLI tool for DuckDB",
		Long: `duckcli runs queries against DuckDB databases and moves data
in and out of them as CSV or Parquet.

Examples:
  duckcli --db mydb.duckdb tables
  duckcli --db mydb.duckdb query "SELECT * FROM users LIMIT 10"
  duckcli --db mydb.duckdb describe users
  duckcli --db mydb.duckdb export-csv "SELECT * FROM sales" output.csv
  duckcli --db mydb.duckdb import-csv data.csv users`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetFlags(log.LstdFlags | log.Lmicroseconds)
				log.Println("Verbose mode enabled")
			}
		},
	}

	root.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath(), "Database file path (default: in-memory)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		newTablesCommand(),
		newQueryCommand(),
		newFileCommand(),
		newDescribeCommand(),
		newSampleCommand(),
		newExportCSVCommand(),
		newExportParquetCommand(),
		newImportCSVCommand(),
		newImportParquetCommand(),
		newShellCommand(),
		newSnapshotCommand(),
		newVersionCommand(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func defaultDBPath() string {
	if path := os.Getenv("DUCKCLI_DB"); path != "" {
		return path
	}
	return db.MemoryPath
}

// withClient opens the database for the duration of one command.
func withClient(fn func(client *db.Client) error) error {
	client, err := db.Open(dbPath)
	if err != nil {
		return err
	}
	defer client.Close()

	client.SetVerbose(verbose)
	return fn(client)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("duckcli version %s\n", Version)
		},
	}
}
