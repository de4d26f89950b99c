package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
)

func TestNewLoader(t *testing.T) {
	path := "./test.parquet"
	loader := NewLoader(path)

	if loader.datasetPath != path {
		t.Errorf("Expected path %s, got %s", path, loader.datasetPath)
	}
}

func TestNormalizedLabel(t *testing.T) {
	tests := []struct {
		label    string
		expected string
	}{
		{label: "REAL", expected: "REAL"},
		{label: " fake ", expected: "FAKE"},
		{label: "True", expected: "REAL"},
		{label: "false", expected: "FAKE"},
		{label: "satire", expected: ""},
		{label: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			r := Record{Label: tt.label}
			if got := r.NormalizedLabel(); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestLoadJSONL(t *testing.T) {
	tmpDir := t.TempDir()
	jsonlPath := filepath.Join(tmpDir, "news.jsonl")

	testData := `{"id":"a","text":"Scientists confirm the moon is made of cheese","label":"FAKE"}

{"text":"Parliament passes annual budget","label":"REAL"}
{"id":"c","text":"Stocks close higher","label":"REAL"}
`
	if err := os.WriteFile(jsonlPath, []byte(testData), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	loader := NewLoader(jsonlPath)
	records, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	if records[0].ID != "a" || records[0].NormalizedLabel() != "FAKE" {
		t.Errorf("unexpected first record: %+v", records[0])
	}
	if records[1].ID != "line-3" {
		t.Errorf("Expected generated ID line-3, got %s", records[1].ID)
	}

	sample, err := loader.LoadSample(2)
	if err != nil {
		t.Fatalf("LoadSample failed: %v", err)
	}
	if len(sample) != 2 {
		t.Errorf("Expected 2 records, got %d", len(sample))
	}
}

func TestLoadJSONLMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl")
	if err := os.WriteFile(path, []byte("{not json}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLoader(path).Load(); err == nil {
		t.Error("Expected parse error, got nil")
	}
}

func TestLoadParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "news.parquet")
	rows := []Record{
		{ID: "1", Text: "Aliens land in Paris", Label: "FAKE"},
		{ID: "2", Text: "Rain expected tomorrow", Label: "REAL"},
		{Text: "Central bank holds rates", Label: "REAL"},
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		t.Fatalf("Failed to write parquet: %v", err)
	}

	loader := NewLoader(path)
	records, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	if records[0] != rows[0] || records[1] != rows[1] {
		t.Errorf("unexpected records: %+v", records)
	}
	if records[2].ID != "row-3" {
		t.Errorf("Expected generated ID row-3, got %s", records[2].ID)
	}

	sample, err := loader.LoadSample(1)
	if err != nil {
		t.Fatalf("LoadSample failed: %v", err)
	}
	if len(sample) != 1 || sample[0].ID != "1" {
		t.Errorf("unexpected sample: %+v", sample)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	loader := NewLoader("test.txt")

	if _, err := loader.Load(); err == nil {
		t.Error("Expected error for unsupported format, got nil")
	}
	if _, err := loader.LoadSample(10); err == nil {
		t.Error("Expected error for unsupported format in LoadSample, got nil")
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	for _, path := range []string{"/nonexistent/path/file.jsonl", "/nonexistent/path/file.parquet"} {
		if _, err := NewLoader(path).Load(); err == nil {
			t.Errorf("Expected error for non-existent file %s, got nil", path)
		}
	}
}

func TestDownloader(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.Header.Get("Authorization") != "Bearer hf-token" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/org/news/test.jsonl" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"id":"x","text":"hello","label":"REAL"}` + "\n"))
	}))
	defer srv.Close()

	d := NewDownloader(DownloadConfig{
		Repo:     "org/news",
		CacheDir: t.TempDir(),
		Token:    "hf-token",
		BaseURL:  srv.URL + "/%s/%s",
	})

	ctx := context.Background()
	path, err := d.Download(ctx, "test.jsonl")
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if path != d.CachePath("test.jsonl") {
		t.Errorf("unexpected path %s", path)
	}
	records, err := NewLoader(path).Load()
	if err != nil || len(records) != 1 {
		t.Fatalf("cached file unreadable: %v %+v", err, records)
	}

	if _, err := d.Download(ctx, "test.jsonl"); err != nil {
		t.Fatalf("cached Download failed: %v", err)
	}
	if hits != 1 {
		t.Errorf("expected cached file to be reused, server hit %d times", hits)
	}

	if _, err := d.Download(ctx, "missing.jsonl"); err == nil {
		t.Error("Expected error for missing file")
	}
	if _, err := os.Stat(d.CachePath("missing.jsonl") + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
}

func TestDownloaderRequiresRepo(t *testing.T) {
	d := NewDownloader(DownloadConfig{CacheDir: t.TempDir()})
	if _, err := d.Download(context.Background(), "x.jsonl"); err == nil {
		t.Error("Expected error without repo")
	}
}
