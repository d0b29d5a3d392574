package DuckCLI

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nickyhof/DuckCLI/db"
)

// TestFunc is the signature for test functions that work with any database
type TestFunc func(t *testing.T, client *db.Client)

// runWithBothDatabases runs a test function against both an in-memory
// and a file-backed database.
func runWithBothDatabases(t *testing.T, testFunc TestFunc) {
	t.Run("Memory", func(t *testing.T) {
		instance, err := Open("")
		if err != nil {
			t.Fatalf("Failed to open in-memory database: %v", err)
		}
		defer instance.Close()
		testFunc(t, instance.Client())
	})

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.duckdb")
		instance, err := Open(path)
		if err != nil {
			t.Fatalf("Failed to open file database: %v", err)
		}
		defer instance.Close()
		testFunc(t, instance.Client())
	})
}

func TestInstanceRoundTrip(t *testing.T) {
	runWithBothDatabases(t, func(t *testing.T, client *db.Client) {
		ctx := context.Background()

		if _, err := client.Exec(ctx, "CREATE TABLE items (id INTEGER, label VARCHAR)"); err != nil {
			t.Fatalf("CREATE TABLE failed: %v", err)
		}
		if _, err := client.Exec(ctx, "INSERT INTO items VALUES (1, 'one'), (2, 'two')"); err != nil {
			t.Fatalf("INSERT failed: %v", err)
		}

		result, err := client.Query(ctx, "SELECT label FROM items ORDER BY id")
		if err != nil {
			t.Fatalf("SELECT failed: %v", err)
		}
		if result.RecordsRead != 2 || result.Data[0][0] != "one" {
			t.Errorf("Unexpected result: %+v", result)
		}
	})
}

func TestFileDatabasePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.duckdb")
	ctx := context.Background()

	instance, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if _, err := instance.Client().Exec(ctx, "CREATE TABLE t (id INTEGER)"); err != nil {
		t.Fatalf("CREATE TABLE failed: %v", err)
	}
	if _, err := instance.Client().Exec(ctx, "INSERT INTO t VALUES (42)"); err != nil {
		t.Fatalf("INSERT failed: %v", err)
	}
	if err := instance.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Database file was not created: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer reopened.Close()

	result, err := reopened.Client().Query(ctx, "SELECT id FROM t")
	if err != nil {
		t.Fatalf("SELECT after reopen failed: %v", err)
	}
	if result.RecordsRead != 1 || result.Data[0][0] != "42" {
		t.Errorf("Data did not persist: %+v", result)
	}
}

func TestExportImportAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "items.csv")

	source, err := Open("")
	if err != nil {
		t.Fatalf("Failed to open source: %v", err)
	}
	defer source.Close()

	source.Client().Exec(ctx, "CREATE TABLE items (id INTEGER, label VARCHAR)")
	source.Client().Exec(ctx, "INSERT INTO items VALUES (1, 'one'), (2, 'two')")
	if _, err := source.Client().ExportCSV(ctx, "SELECT * FROM items", csvPath); err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}

	dest, err := Open("")
	if err != nil {
		t.Fatalf("Failed to open destination: %v", err)
	}
	defer dest.Close()

	if _, err := dest.Client().ImportCSV(ctx, csvPath, "items"); err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}

	result, err := dest.Client().Query(ctx, "SELECT COUNT(*) FROM items")
	if err != nil {
		t.Fatalf("COUNT failed: %v", err)
	}
	if result.Data[0][0] != "2" {
		t.Errorf("Expected 2 rows after import, got %s", result.Data[0][0])
	}
}
