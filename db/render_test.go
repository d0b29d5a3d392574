package db

import (
	"bytes"
	"strings"
	"testing"
)

func sampleResult() QueryResult {
	return QueryResult{
		Columns:          []string{"id", "name"},
		Data:             [][]string{{"1", "Alice"}, {"2", "Bob"}},
		RecordsRead:      2,
		ExecutionTimeSec: 0.002,
	}
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"psql", "grid", "simple", "plain", "markdown"} {
		if _, err := ParseFormat(name); err != nil {
			t.Errorf("ParseFormat(%q) failed: %v", name, err)
		}
	}

	if _, err := ParseFormat("fancy"); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestFprintPSQL(t *testing.T) {
	var buf bytes.Buffer
	sampleResult().Fprint(&buf, FormatPSQL)

	out := buf.String()
	for _, want := range []string{"ID", "NAME", "Alice", "Bob", "2 rows"} {
		if !strings.Contains(out, want) {
			t.Errorf("psql output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "+") {
		t.Errorf("psql output missing border characters:\n%s", out)
	}
}

func TestFprintMarkdown(t *testing.T) {
	var buf bytes.Buffer
	sampleResult().Fprint(&buf, FormatMarkdown)

	out := buf.String()
	if !strings.Contains(out, "| Alice") && !strings.Contains(out, "| Alice |") {
		t.Errorf("markdown output missing pipe-delimited row:\n%s", out)
	}
	if !strings.Contains(out, "---") {
		t.Errorf("markdown output missing header rule:\n%s", out)
	}
}

func TestFprintPlainHasNoBorders(t *testing.T) {
	var buf bytes.Buffer
	sampleResult().Fprint(&buf, FormatPlain)

	out := buf.String()
	if strings.Contains(out, "+--") || strings.Contains(out, "|") {
		t.Errorf("plain output should have no borders:\n%s", out)
	}
}

func TestFprintEmpty(t *testing.T) {
	var buf bytes.Buffer
	empty := QueryResult{Columns: []string{"id"}}
	empty.Fprint(&buf, FormatPSQL)

	if strings.TrimSpace(buf.String()) != "No results." {
		t.Errorf("Expected 'No results.', got %q", buf.String())
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs float64
		want string
	}{
		{0.0001, "<1ms"},
		{0.005, "5ms"},
		{0.5, "500ms"},
		{2.5, "2.5s"},
		{65, "1m5s"},
		{120, "2m"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.secs); got != tt.want {
			t.Errorf("formatDuration(%v) = %s, want %s", tt.secs, got, tt.want)
		}
	}
}
