package db

import (
	"fmt"
	"os"
)

type ResultType int

const (
	QueryResultType ResultType = iota
	ExecResultType
)

type Result interface {
	Type() ResultType
	Display()
}

// QueryResult holds a fetched result set: ordered rows with named
// columns, rendered or exported and then discarded.
type QueryResult struct {
	Columns          []string
	Data             [][]string
	RecordsRead      int
	ExecutionTimeSec float64
}

// ExecResult holds the outcome of a statement with no result set.
type ExecResult struct {
	RowsAffected     int64
	ExecutionTimeSec float64
}

func (result QueryResult) Type() ResultType {
	return QueryResultType
}

func (result ExecResult) Type() ResultType {
	return ExecResultType
}

// formatDuration formats a duration in human-readable form
func formatDuration(secs float64) string {
	if secs < 0.001 {
		return "<1ms"
	} else if secs < 0.01 {
		return fmt.Sprintf("%dms", int(secs*1000))
	} else if secs < 1 {
		ms := secs * 1000
		if ms < 10 {
			return fmt.Sprintf("%.1fms", ms)
		}
		return fmt.Sprintf("%dms", int(ms))
	} else if secs < 60 {
		if secs < 10 {
			return fmt.Sprintf("%.1fs", secs)
		}
		return fmt.Sprintf("%ds", int(secs))
	} else {
		mins := int(secs / 60)
		remainSecs := int(secs) % 60
		if remainSecs == 0 {
			return fmt.Sprintf("%dm", mins)
		}
		return fmt.Sprintf("%dm%ds", mins, remainSecs)
	}
}

func (result QueryResult) ExecutionTime() string {
	return formatDuration(result.ExecutionTimeSec)
}

func (result ExecResult) ExecutionTime() string {
	return formatDuration(result.ExecutionTimeSec)
}

// Display renders the result to stdout in the default format.
func (result QueryResult) Display() {
	result.Fprint(os.Stdout, FormatPSQL)
}

func (result ExecResult) Display() {
	if result.RowsAffected > 0 {
		fmt.Printf("%d row(s) affected (%s)\n", result.RowsAffected, result.ExecutionTime())
	} else {
		fmt.Printf("OK (%s)\n", result.ExecutionTime())
	}
}
