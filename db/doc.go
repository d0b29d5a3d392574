// Package db wraps a DuckDB database handle behind a small client API.
//
// The client owns a single connection to a file-backed or in-memory
// database and exposes pass-through operations: query execution, table
// listing and inspection, and CSV/Parquet import/export. All SQL
// parsing, planning, and execution happens inside DuckDB; this package
// only shapes inputs and renders results.
//
// # Quick Start
//
//	client, _ := db.Open("mydb.duckdb")
//	defer client.Close()
//
//	result, _ := client.Query(ctx, "SELECT * FROM users LIMIT 10")
//	result.Display()
//
// Import and export delegate to DuckDB's read_csv_auto, read_parquet,
// and COPY ... TO functions. Paths may be local, http(s):// URLs, or
// s3:// URLs; remote sources are staged to a local temp file first.
package db
