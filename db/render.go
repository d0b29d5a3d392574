package db

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Format selects a table rendering style.
type Format string

const (
	FormatPSQL     Format = "psql"
	FormatGrid     Format = "grid"
	FormatSimple   Format = "simple"
	FormatPlain    Format = "plain"
	FormatMarkdown Format = "markdown"
)

// Formats lists the supported display formats.
func Formats() []Format {
	return []Format{FormatPSQL, FormatGrid, FormatSimple, FormatPlain, FormatMarkdown}
}

// ParseFormat validates a format name from user input.
func ParseFormat(name string) (Format, error) {
	format := Format(name)
	for _, known := range Formats() {
		if format == known {
			return format, nil
		}
	}
	return "", fmt.Errorf("unknown format: %s (choose from psql, grid, simple, plain, markdown)", name)
}

// Fprint renders the result set to w in the given format, followed by
// a row-count stats line.
func (result QueryResult) Fprint(w io.Writer, format Format) {
	if len(result.Data) == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}

	writer := table.NewWriter()
	writer.SetOutputMirror(w)

	header := make(table.Row, len(result.Columns))
	for i, column := range result.Columns {
		header[i] = column
	}
	writer.AppendHeader(header)

	for _, row := range result.Data {
		cells := make(table.Row, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		writer.AppendRow(cells)
	}

	switch format {
	case FormatMarkdown:
		writer.RenderMarkdown()
	case FormatGrid:
		writer.SetStyle(table.StyleLight)
		writer.Render()
	case FormatSimple:
		writer.SetStyle(simpleStyle())
		writer.Render()
	case FormatPlain:
		writer.SetStyle(plainStyle())
		writer.Render()
	default:
		writer.SetStyle(table.StyleDefault)
		writer.Render()
	}

	fmt.Fprintf(w, "\n%d rows (%s)\n", result.RecordsRead, result.ExecutionTime())
}

// simpleStyle draws only a rule under the header.
func simpleStyle() table.Style {
	style := table.StyleDefault
	style.Options.DrawBorder = false
	style.Options.SeparateColumns = false
	style.Options.SeparateHeader = true
	style.Options.SeparateRows = false
	return style
}

// plainStyle draws no rules at all.
func plainStyle() table.Style {
	style := table.StyleDefault
	style.Options.DrawBorder = false
	style.Options.SeparateColumns = false
	style.Options.SeparateHeader = false
	style.Options.SeparateRows = false
	return style
}
