package results

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/veritas-news/veritas/internal/eval/metrics"
)

func TestSaveAndLoadYAML(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "evals")
	spec := NewSpec(EvalConfig{
		Provider:    "openai",
		Model:       "google/gemma-3n-e2b-it:free",
		Translator:  "web",
		Temperature: 0.2,
		DatasetPath: "news.jsonl",
		SampleSize:  2,
		Timestamp:   "2026-10-19_12-00-00",
	}, []metrics.Result{
		{ID: "a", Label: "FAKE", Verdict: "FAKE", Text: "Aliens land", Duration: 1500 * time.Millisecond},
		{ID: "b", Label: "REAL", Error: "timeout"},
	})

	path, err := SaveToYAML(dir, spec)
	if err != nil {
		t.Fatalf("SaveToYAML: %v", err)
	}
	if filepath.Base(path) != "google_gemma-3n-e2b-it_free-2026-10-19_12-00-00.yaml" {
		t.Errorf("unexpected file name %s", filepath.Base(path))
	}

	loaded, err := LoadYAML(path)
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if loaded.Config.Model != spec.Config.Model || loaded.Summary.Errors != 1 || loaded.Summary.Accuracy != 1 {
		t.Errorf("unexpected report: %+v", loaded)
	}
	if len(loaded.Results) != 2 || loaded.Results[0].LatencyMS != 1500 || loaded.Results[1].Error != "timeout" {
		t.Errorf("unexpected results: %+v", loaded.Results)
	}
}

func TestNewSpecDefaultsTimestamp(t *testing.T) {
	spec := NewSpec(EvalConfig{Model: "m"}, nil)
	if spec.Config.Timestamp == "" {
		t.Error("expected timestamp to be filled in")
	}
	if spec.Results == nil || len(spec.Results) != 0 {
		t.Errorf("expected empty results, got %v", spec.Results)
	}
}

func TestLoadYAMLErrors(t *testing.T) {
	if _, err := LoadYAML(filepath.Join(t.TempDir(), "missing.yaml")); err == nil || !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("expected read error, got %v", err)
	}
}
