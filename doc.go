// Package DuckCLI provides a thin command-line and library wrapper
// around the DuckDB analytical engine.
//
// DuckCLI does not implement any query processing of its own. Parsing,
// planning, columnar storage, and execution all belong to DuckDB; this
// module adds connection lifecycle management, pass-through operations,
// tabular output formatting, remote file staging, and git-versioned
// snapshot exports.
//
// # Quick Start
//
// Open an in-memory database:
//
//	instance, _ := DuckCLI.Open("")
//	defer instance.Close()
//
//	client := instance.Client()
//	client.Exec(ctx, "CREATE TABLE users (id INTEGER, name VARCHAR)")
//	client.Exec(ctx, "INSERT INTO users VALUES (1, 'Alice')")
//
//	result, _ := client.Query(ctx, "SELECT * FROM users")
//	result.Display()
//
// # Operations
//
// The client exposes:
//   - Query / Exec / Execute for arbitrary SQL
//   - ShowTables, DescribeTable, TableSample
//   - ImportCSV, ImportParquet (read_csv_auto / read_parquet)
//   - ExportCSV, ExportParquet (COPY ... TO)
//   - ExecuteFile for semicolon-separated SQL scripts
//
// Import and export paths may be local files, http(s):// URLs, or
// s3:// URLs.
package DuckCLI
