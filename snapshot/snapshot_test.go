package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nickyhof/DuckCLI/db"
)

func setupTestClient(t *testing.T) *db.Client {
	client, err := db.Open(db.MemoryPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	if _, err := client.Exec(ctx, "CREATE TABLE users (id INTEGER, name VARCHAR)"); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	if _, err := client.Exec(ctx, "INSERT INTO users VALUES (1, 'Alice'), (2, 'Bob')"); err != nil {
		t.Fatalf("Failed to insert: %v", err)
	}
	return client
}

func TestMemoryStoreSave(t *testing.T) {
	client := setupTestClient(t)

	store, err := NewMemoryStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	snap, err := store.Save(context.Background(), client, Identity{Name: "test", Email: "test@test.com"}, "first snapshot")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if snap.Id == "" {
		t.Error("Expected commit id")
	}
	if len(snap.Tables) != 1 || snap.Tables[0] != "users" {
		t.Errorf("Expected [users], got %v", snap.Tables)
	}

	// Exported CSV lands in the worktree
	file, err := store.fs.Open("users.csv")
	if err != nil {
		t.Fatalf("Worktree missing users.csv: %v", err)
	}
	file.Close()
}

func TestSaveNoChanges(t *testing.T) {
	client := setupTestClient(t)

	store, err := NewMemoryStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	ctx := context.Background()
	identity := Identity{Name: "test", Email: "test@test.com"}

	if _, err := store.Save(ctx, client, identity, "first"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	_, err = store.Save(ctx, client, identity, "second")
	if !errors.Is(err, ErrNoChanges) {
		t.Errorf("Expected ErrNoChanges, got %v", err)
	}
}

func TestHistory(t *testing.T) {
	client := setupTestClient(t)

	store, err := NewMemoryStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	ctx := context.Background()
	identity := Identity{Name: "test", Email: "test@test.com"}

	// No commits yet
	snapshots, err := store.History(0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(snapshots) != 0 {
		t.Errorf("Expected empty history, got %d entries", len(snapshots))
	}

	store.Save(ctx, client, identity, "first")
	client.Exec(ctx, "INSERT INTO users VALUES (3, 'Charlie')")
	store.Save(ctx, client, identity, "second")

	snapshots, err = store.History(0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(snapshots) != 2 {
		t.Fatalf("Expected 2 snapshots, got %d", len(snapshots))
	}
	if snapshots[0].Message != "second" {
		t.Errorf("Expected newest first, got %q", snapshots[0].Message)
	}

	limited, err := store.History(1)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("Expected 1 snapshot with limit, got %d", len(limited))
	}
}

func TestFileStoreSave(t *testing.T) {
	client := setupTestClient(t)
	dir := filepath.Join(t.TempDir(), "snapshots")

	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("Failed to create file store: %v", err)
	}

	ctx := context.Background()
	identity := Identity{Name: "test", Email: "test@test.com"}

	if _, err := store.Save(ctx, client, identity, "first"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "users.csv")); err != nil {
		t.Fatalf("Expected users.csv in store dir: %v", err)
	}

	// Reopen and read history
	reopened, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}

	snapshots, err := reopened.History(0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(snapshots) != 1 {
		t.Errorf("Expected 1 snapshot after reopen, got %d", len(snapshots))
	}
}
