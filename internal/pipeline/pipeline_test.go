package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/veritas-news/veritas/internal/config"
	"github.com/veritas-news/veritas/internal/detection"
	"github.com/veritas-news/veritas/internal/gemini"
	"github.com/veritas-news/veritas/internal/ollama"
	"github.com/veritas-news/veritas/internal/openai"
	"github.com/veritas-news/veritas/internal/storage"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		UploadsDir:         filepath.Join(dir, "uploads"),
		HistoryDSN:         filepath.Join(dir, "history.db"),
		ClassifierProvider: "openai",
		ClassifierModel:    "google/gemma-3n-e2b-it:free",
		OpenAIAPIKey:       "sk-test",
		OpenAIBaseURL:      "https://openrouter.ai/api/v1",
		OllamaURL:          "http://localhost:11434",
		OCREngine:          "vision",
		VisionProvider:     "ollama",
		Translator:         "none",
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		provider string
		check    func(any) bool
	}{
		{provider: "openai", check: func(p any) bool { _, ok := p.(*openai.OpenAI); return ok }},
		{provider: "ollama", check: func(p any) bool { _, ok := p.(*ollama.Ollama); return ok }},
		{provider: "gemini", check: func(p any) bool { _, ok := p.(*gemini.Gemini); return ok }},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.ClassifierProvider = tt.provider
			p, err := NewProvider(cfg)
			if err != nil {
				t.Fatalf("NewProvider: %v", err)
			}
			if !tt.check(p) {
				t.Errorf("unexpected provider type %T", p)
			}
		})
	}

	cfg := testConfig(t)
	cfg.ClassifierProvider = "claude"
	if _, err := NewProvider(cfg); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestBuild(t *testing.T) {
	cfg := testConfig(t)
	p, err := Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer p.Close()

	if _, ok := p.History.(*storage.SQLiteStore); !ok {
		t.Errorf("expected SQLite history, got %T", p.History)
	}
	if p.OCR.Name() != "vision/ollama" {
		t.Errorf("unexpected OCR engine %s", p.OCR.Name())
	}
	if p.Translator.Backend() != "none" {
		t.Errorf("unexpected translator %s", p.Translator.Backend())
	}
	if p.Classifier.Provider() != "openai" || p.Classifier.Model() != cfg.ClassifierModel {
		t.Errorf("unexpected classifier %s/%s", p.Classifier.Provider(), p.Classifier.Model())
	}
	if info, err := os.Stat(cfg.UploadsDir); err != nil || !info.IsDir() {
		t.Errorf("uploads directory not created: %v", err)
	}

	// Empty input never reaches the provider.
	pred, err := p.Service.HandleRequest(context.Background(), detection.Request{})
	if err != nil || pred.Verdict != "ERROR" {
		t.Fatalf("unexpected prediction %+v, %v", pred, err)
	}
	if _, err := p.History.Get(context.Background(), pred.ID); err != nil {
		t.Errorf("prediction not recorded: %v", err)
	}
}

func TestBuildInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Translator = "deepl"
	if _, err := Build(context.Background(), cfg); !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
