package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nickyhof/DuckCLI/db"
	"github.com/nickyhof/DuckCLI/snapshot"
)

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().String("format", string(db.FormatPSQL), "Output format (psql, grid, simple, plain, markdown)")
}

func formatFromFlags(cmd *cobra.Command) (db.Format, error) {
	name, _ := cmd.Flags().GetString("format")
	return db.ParseFormat(name)
}

// displayResult renders a result, using format for tabular output.
func displayResult(result db.Result, format db.Format) {
	if qr, ok := result.(db.QueryResult); ok {
		qr.Fprint(os.Stdout, format)
		return
	}
	result.Display()
}

func newTablesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List all tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatFromFlags(cmd)
			if err != nil {
				return err
			}
			return withClient(func(client *db.Client) error {
				result, err := client.ShowTables(cmd.Context())
				if err != nil {
					return err
				}
				result.Fprint(os.Stdout, format)
				return nil
			})
		},
	}
	addFormatFlag(cmd)
	return cmd
}

func newQueryCommand() *cobra.Command {
	var outputCSV, outputParquet string

	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Execute SQL query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatFromFlags(cmd)
			if err != nil {
				return err
			}
			return withClient(func(client *db.Client) error {
				query := args[0]

				switch {
				case outputCSV != "":
					result, err := client.ExportCSV(cmd.Context(), query, outputCSV)
					if err != nil {
						return err
					}
					fmt.Printf("Successfully exported %d rows to: %s\n", result.RowsAffected, outputCSV)

				case outputParquet != "":
					if _, err := client.ExportParquet(cmd.Context(), query, outputParquet); err != nil {
						return err
					}
					fmt.Printf("Successfully exported to: %s\n", outputParquet)

				default:
					result, err := client.Execute(cmd.Context(), query)
					if err != nil {
						return err
					}
					displayResult(result, format)
				}
				return nil
			})
		},
	}
	addFormatFlag(cmd)
	cmd.Flags().StringVar(&outputCSV, "output-csv", "", "Export result to CSV file instead of displaying")
	cmd.Flags().StringVar(&outputParquet, "output-parquet", "", "Export result to Parquet file instead of displaying")
	return cmd
}

func newFileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file <path>",
		Short: "Execute SQL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatFromFlags(cmd)
			if err != nil {
				return err
			}
			return withClient(func(client *db.Client) error {
				results, err := client.ExecuteFile(cmd.Context(), args[0])
				for _, result := range results {
					displayResult(result, format)
				}
				return err
			})
		},
	}
	addFormatFlag(cmd)
	return cmd
}

func newDescribeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe <table>",
		Short: "Describe table structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatFromFlags(cmd)
			if err != nil {
				return err
			}
			return withClient(func(client *db.Client) error {
				result, err := client.DescribeTable(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				result.Fprint(os.Stdout, format)
				return nil
			})
		},
	}
	addFormatFlag(cmd)
	return cmd
}

func newSampleCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "sample <table>",
		Short: "Show sample data from table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatFromFlags(cmd)
			if err != nil {
				return err
			}
			return withClient(func(client *db.Client) error {
				result, err := client.TableSample(cmd.Context(), args[0], limit)
				if err != nil {
					return err
				}
				result.Fprint(os.Stdout, format)
				return nil
			})
		},
	}
	addFormatFlag(cmd)
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of rows to display")
	return cmd
}

func newExportCSVCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export-csv <sql> <output>",
		Short: "Export query result to CSV",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(client *db.Client) error {
				if _, err := client.ExportCSV(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Printf("Successfully exported to: %s\n", args[1])
				return nil
			})
		},
	}
}

func newExportParquetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export-parquet <sql> <output>",
		Short: "Export query result to Parquet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(client *db.Client) error {
				if _, err := client.ExportParquet(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Printf("Successfully exported to: %s\n", args[1])
				return nil
			})
		},
	}
}

func newImportCSVCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import-csv <file> <table>",
		Short: "Import CSV file to table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(client *db.Client) error {
				if _, err := client.ImportCSV(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Printf("Successfully imported %s to table '%s'\n", args[0], args[1])
				return nil
			})
		},
	}
}

func newImportParquetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import-parquet <file> <table>",
		Short: "Import Parquet file to table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(client *db.Client) error {
				if _, err := client.ImportParquet(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Printf("Successfully imported %s to table '%s'\n", args[0], args[1])
				return nil
			})
		},
	}
}

func newSnapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Git-versioned exports of all tables",
	}

	var dir, message, name, email string

	save := &cobra.Command{
		Use:   "save",
		Short: "Export all tables and commit them to the snapshot store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(client *db.Client) error {
				store, err := snapshot.NewFileStore(dir)
				if err != nil {
					return err
				}

				identity := snapshot.Identity{Name: name, Email: email}
				snap, err := store.Save(cmd.Context(), client, identity, message)
				if err != nil {
					return err
				}

				fmt.Printf("Snapshot %s: %d table(s) saved\n", snap.Id[:8], len(snap.Tables))
				return nil
			})
		},
	}
	save.Flags().StringVarP(&message, "message", "m", "snapshot", "Commit message")
	save.Flags().StringVar(&name, "name", "DuckCLI", "Author name for snapshot commits")
	save.Flags().StringVar(&email, "email", "cli@duckcli.local", "Author email for snapshot commits")

	var limit int
	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Show snapshot history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := snapshot.NewFileStore(dir)
			if err != nil {
				return err
			}

			snapshots, err := store.History(limit)
			if err != nil {
				return err
			}
			if len(snapshots) == 0 {
				fmt.Println("No snapshots.")
				return nil
			}

			for _, snap := range snapshots {
				fmt.Printf("%s  %s  %s\n", snap.Id[:8], snap.When.Format("2006-01-02 15:04:05"), snap.Message)
			}
			return nil
		},
	}
	logCmd.Flags().IntVar(&limit, "limit", 20, "Number of snapshots to show")

	cmd.PersistentFlags().StringVar(&dir, "dir", "./snapshots", "Snapshot store directory")
	cmd.AddCommand(save, logCmd)
	return cmd
}
