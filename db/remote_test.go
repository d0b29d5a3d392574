package db

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestDetectScheme(t *testing.T) {
	tests := []struct {
		path string
		want urlScheme
	}{
		{"data.csv", schemeLocal},
		{"/tmp/data.csv", schemeLocal},
		{"file:///tmp/data.csv", schemeFile},
		{"s3://bucket/key.csv", schemeS3},
		{"S3://bucket/key.csv", schemeS3},
		{"http://example.com/data.csv", schemeHTTP},
		{"https://example.com/data.csv", schemeHTTPS},
	}

	for _, tt := range tests {
		if got := detectScheme(tt.path); got != tt.want {
			t.Errorf("detectScheme(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestParseS3URL(t *testing.T) {
	bucket, key, err := parseS3URL("s3://my-bucket/path/to/file.csv")
	if err != nil {
		t.Fatalf("parseS3URL failed: %v", err)
	}
	if bucket != "my-bucket" || key != "path/to/file.csv" {
		t.Errorf("Got bucket=%s key=%s", bucket, key)
	}

	if _, _, err := parseS3URL("s3://bucket-only"); err == nil {
		t.Error("Expected error for S3 URL without key")
	}
}

func TestStageReaderLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	local, cleanup, err := stageReader(path, nil)
	if err != nil {
		t.Fatalf("stageReader failed: %v", err)
	}
	defer cleanup()

	if local != path {
		t.Errorf("Expected local path unchanged, got %s", local)
	}
}

func TestStageReaderMissingLocal(t *testing.T) {
	_, _, err := stageReader("no-such-file.csv", nil)
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestStageReaderHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("a,b\n1,2\n"))
	}))
	defer server.Close()

	local, cleanup, err := stageReader(server.URL+"/data.csv", nil)
	if err != nil {
		t.Fatalf("stageReader failed: %v", err)
	}
	defer cleanup()

	data, err := os.ReadFile(local)
	if err != nil {
		t.Fatalf("Failed to read staged file: %v", err)
	}
	if string(data) != "a,b\n1,2\n" {
		t.Errorf("Unexpected staged content: %q", data)
	}
	if filepath.Ext(local) != ".csv" {
		t.Errorf("Staged file should keep extension, got %s", local)
	}

	cleanup()
	if _, err := os.Stat(local); !os.IsNotExist(err) {
		t.Error("Cleanup did not remove staged file")
	}
}

func TestStageReaderHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	if _, _, err := stageReader(server.URL+"/missing.csv", nil); err == nil {
		t.Fatal("Expected error for HTTP 404")
	}
}

func TestStageWriterLocal(t *testing.T) {
	target, upload, err := stageWriter("/tmp/out.csv", nil)
	if err != nil {
		t.Fatalf("stageWriter failed: %v", err)
	}
	if target != "/tmp/out.csv" {
		t.Errorf("Expected target unchanged, got %s", target)
	}
	if err := upload(); err != nil {
		t.Errorf("No-op upload failed: %v", err)
	}
}

func TestStageWriterHTTPUnsupported(t *testing.T) {
	if _, _, err := stageWriter("https://example.com/out.csv", nil); err == nil {
		t.Fatal("Expected error for HTTP write")
	}
}
