package main

import (
	"context"
	"testing"

	"github.com/nickyhof/DuckCLI/db"
)

func setupTestShell(t *testing.T) *Shell {
	client, err := db.Open(db.MemoryPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return &Shell{
		client:  client,
		format:  db.FormatPSQL,
		history: make([]string, 0),
	}
}

func TestShellExecuteRoundTrip(t *testing.T) {
	shell := setupTestShell(t)
	ctx := context.Background()

	if _, err := shell.client.Execute(ctx, "CREATE TABLE users (id INTEGER, name VARCHAR)"); err != nil {
		t.Fatalf("CREATE TABLE failed: %v", err)
	}
	if _, err := shell.client.Execute(ctx, "INSERT INTO users VALUES (1, 'Alice')"); err != nil {
		t.Fatalf("INSERT failed: %v", err)
	}

	result, err := shell.client.Execute(ctx, "SELECT * FROM users")
	if err != nil {
		t.Fatalf("SELECT failed: %v", err)
	}

	qr, ok := result.(db.QueryResult)
	if !ok {
		t.Fatal("Expected query result")
	}
	if qr.RecordsRead != 1 {
		t.Errorf("Expected 1 record, got %d", qr.RecordsRead)
	}
}

func TestShellHistoryDeduplicates(t *testing.T) {
	shell := setupTestShell(t)

	shell.addToHistory("SELECT 1;")
	shell.addToHistory("SELECT 1;")
	shell.addToHistory("SELECT 2;")

	if len(shell.history) != 2 {
		t.Errorf("Expected 2 history entries, got %d", len(shell.history))
	}
}

func TestShellHistoryLimit(t *testing.T) {
	shell := setupTestShell(t)

	for i := 0; i < 1500; i++ {
		shell.addToHistory("SELECT " + string(rune('a'+i%26)) + string(rune('0'+i%10)) + ";")
	}

	if len(shell.history) > 1000 {
		t.Errorf("History exceeded 1000 entries: %d", len(shell.history))
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 50, "short"},
		{"line\nwith\ttabs", 50, "line with tabs"},
		{"aaaaaaaaaaaaaaaaaaaa", 10, "aaaaaaa..."},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
