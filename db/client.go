package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
)

// MemoryPath is the path used for in-memory databases.
const MemoryPath = ":memory:"

// Client manages a connection to a DuckDB database.
type Client struct {
	Path    string
	conn    *sql.DB
	verbose bool
}

// Open opens a database at the given path. An empty path or ":memory:"
// opens an in-memory database.
func Open(path string) (*Client, error) {
	dsn := path
	if path == "" || path == MemoryPath {
		path = MemoryPath
		dsn = ""
	}

	conn, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", path, err)
	}

	return &Client{Path: path, conn: conn}, nil
}

// Close releases the database handle. Safe to call more than once.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// SetVerbose enables debug logging of executed statements.
func (c *Client) SetVerbose(verbose bool) {
	c.verbose = verbose
}

func (c *Client) debugf(format string, args ...interface{}) {
	if c.verbose {
		log.Printf(format, args...)
	}
}

// Execute runs a single SQL statement, returning a QueryResult for
// row-returning statements and an ExecResult for everything else.
func (c *Client) Execute(ctx context.Context, query string) (Result, error) {
	if returnsRows(query) {
		return c.Query(ctx, query)
	}
	return c.Exec(ctx, query)
}

// returnsRows reports whether a statement produces a result set. DuckDB
// accepts any statement through the query path, but RowsAffected is only
// meaningful through Exec.
func returnsRows(query string) bool {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return false
	}

	switch strings.ToUpper(strings.TrimLeft(fields[0], "(")) {
	case "SELECT", "WITH", "SHOW", "DESCRIBE", "PRAGMA", "FROM", "SUMMARIZE", "EXPLAIN", "CALL", "VALUES":
		return true
	}
	return false
}

// Query executes a row-returning statement and fetches the full result.
func (c *Client) Query(ctx context.Context, query string, args ...interface{}) (QueryResult, error) {
	startTime := time.Now()
	c.debugf("Executing query: %s", query)

	rows, err := c.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return QueryResult{}, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return QueryResult{}, fmt.Errorf("failed to read columns: %w", err)
	}

	var data [][]string
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return QueryResult{}, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make([]string, len(columns))
		for i, value := range values {
			row[i] = formatValue(value)
		}
		data = append(data, row)
	}

	if err := rows.Err(); err != nil {
		return QueryResult{}, fmt.Errorf("query failed: %w", err)
	}

	c.debugf("Query executed successfully: %d rows returned", len(data))

	return QueryResult{
		Columns:          columns,
		Data:             data,
		RecordsRead:      len(data),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
	}, nil
}

// Exec executes a statement that does not return rows.
func (c *Client) Exec(ctx context.Context, query string, args ...interface{}) (ExecResult, error) {
	startTime := time.Now()
	c.debugf("Executing statement: %s", query)

	result, err := c.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return ExecResult{}, fmt.Errorf("statement failed: %w", err)
	}

	// Not every statement reports a row count.
	affected, err := result.RowsAffected()
	if err != nil {
		affected = 0
	}

	return ExecResult{
		RowsAffected:     affected,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
	}, nil
}

// ExecuteFile reads a SQL file and executes each statement in order.
// Execution stops at the first failing statement.
func (c *Client) ExecuteFile(ctx context.Context, path string) ([]Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read SQL file: %w", err)
	}

	c.debugf("Executing SQL file: %s", path)

	var results []Result
	for i, stmt := range SplitStatements(string(data)) {
		result, err := c.Execute(ctx, stmt)
		if err != nil {
			return results, fmt.Errorf("statement %d failed: %w", i+1, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// ShowTables lists tables in the database.
func (c *Client) ShowTables(ctx context.Context) (QueryResult, error) {
	return c.Query(ctx, "SHOW TABLES")
}

// DescribeTable returns the schema of a table.
func (c *Client) DescribeTable(ctx context.Context, table string) (QueryResult, error) {
	return c.Query(ctx, fmt.Sprintf("DESCRIBE %s", quoteIdent(table)))
}

// TableSample returns up to limit rows from a table. A non-positive
// limit defaults to 10.
func (c *Client) TableSample(ctx context.Context, table string, limit int) (QueryResult, error) {
	if limit <= 0 {
		limit = 10
	}
	return c.Query(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT %d", quoteIdent(table), limit))
}

// ImportCSV creates a table from a CSV file using read_csv_auto. The
// source may be a local path, an http(s):// URL, or an s3:// URL.
func (c *Client) ImportCSV(ctx context.Context, file, table string) (ExecResult, error) {
	return c.importFile(ctx, file, table, "read_csv_auto")
}

// ImportParquet creates a table from a Parquet file using read_parquet.
func (c *Client) ImportParquet(ctx context.Context, file, table string) (ExecResult, error) {
	return c.importFile(ctx, file, table, "read_parquet")
}

func (c *Client) importFile(ctx context.Context, file, table, readFunc string) (ExecResult, error) {
	local, cleanup, err := stageReader(file, s3ConfigFromEnv())
	if err != nil {
		return ExecResult{}, err
	}
	defer cleanup()

	c.debugf("Importing %s into table %q", file, table)

	query := fmt.Sprintf("CREATE TABLE %s AS SELECT * FROM %s(%s)",
		quoteIdent(table), readFunc, quoteLiteral(local))
	return c.Exec(ctx, query)
}

// ExportCSV writes the result of a query to a CSV file with a header
// row. An s3:// destination is written locally and then uploaded.
func (c *Client) ExportCSV(ctx context.Context, query, output string) (ExecResult, error) {
	return c.exportFile(ctx, query, output, "FORMAT CSV, HEADER")
}

// ExportTableCSV writes the full contents of a table to a CSV file.
func (c *Client) ExportTableCSV(ctx context.Context, table, output string) (ExecResult, error) {
	return c.ExportCSV(ctx, fmt.Sprintf("SELECT * FROM %s", quoteIdent(table)), output)
}

// ExportParquet writes the result of a query to a Parquet file.
func (c *Client) ExportParquet(ctx context.Context, query, output string) (ExecResult, error) {
	return c.exportFile(ctx, query, output, "FORMAT PARQUET")
}

func (c *Client) exportFile(ctx context.Context, query, output, options string) (ExecResult, error) {
	target, upload, err := stageWriter(output, s3ConfigFromEnv())
	if err != nil {
		return ExecResult{}, err
	}

	c.debugf("Exporting query result to %s", output)

	copySQL := fmt.Sprintf("COPY (%s) TO %s (%s)", query, quoteLiteral(target), options)
	result, err := c.Exec(ctx, copySQL)
	if err != nil {
		return ExecResult{}, err
	}

	if err := upload(); err != nil {
		return ExecResult{}, err
	}
	return result, nil
}

// quoteIdent quotes an identifier, handling schema-qualified names.
func quoteIdent(name string) string {
	parts := strings.Split(name, ".")
	for i, part := range parts {
		parts[i] = `"` + strings.ReplaceAll(part, `"`, `""`) + `"`
	}
	return strings.Join(parts, ".")
}

// quoteLiteral quotes a string literal for interpolation into SQL.
func quoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

// formatValue converts a scanned value to its display string.
func formatValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "NULL"
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// SplitStatements splits SQL content into individual statements,
// respecting string literals and -- comments.
func SplitStatements(content string) []string {
	var statements []string
	var current strings.Builder
	inString := false
	stringChar := byte(0)

	for i := 0; i < len(content); i++ {
		ch := content[i]

		// Handle string literals
		if (ch == '\'' || ch == '"') && (i == 0 || content[i-1] != '\\') {
			if !inString {
				inString = true
				stringChar = ch
			} else if ch == stringChar {
				inString = false
			}
		}

		// Handle comments
		if !inString && ch == '-' && i+1 < len(content) && content[i+1] == '-' {
			// Skip to end of line
			for i < len(content) && content[i] != '\n' {
				i++
			}
			continue
		}

		// Statement separator
		if !inString && ch == ';' {
			stmt := strings.TrimSpace(current.String())
			if stmt != "" {
				statements = append(statements, stmt)
			}
			current.Reset()
			continue
		}

		current.WriteByte(ch)
	}

	// Handle last statement without semicolon
	stmt := strings.TrimSpace(current.String())
	if stmt != "" {
		statements = append(statements, stmt)
	}

	return statements
}
