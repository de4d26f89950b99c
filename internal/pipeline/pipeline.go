package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/veritas-news/veritas/internal/classifier"
	"github.com/veritas-news/veritas/internal/config"
	"github.com/veritas-news/veritas/internal/detection"
	"github.com/veritas-news/veritas/internal/gemini"
	"github.com/veritas-news/veritas/internal/ocr"
	"github.com/veritas-news/veritas/internal/ollama"
	"github.com/veritas-news/veritas/internal/openai"
	"github.com/veritas-news/veritas/internal/providers"
	"github.com/veritas-news/veritas/internal/storage"
	"github.com/veritas-news/veritas/internal/translate"
)

// Pipeline bundles the long-lived components every front end shares.
type Pipeline struct {
	Service    *detection.Service
	History    storage.Store
	Classifier *classifier.Classifier
	Translator *translate.Translator
	OCR        ocr.Engine

	closers []io.Closer
}

// NewProvider returns the language-model provider registered under name.
func NewProvider(cfg *config.Config) (providers.Provider, error) {
	switch cfg.ClassifierProvider {
	case "openai":
		return openai.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL), nil
	case "ollama":
		return ollama.New(cfg.OllamaURL), nil
	case "gemini":
		return gemini.New(cfg.GeminiAPIKey), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.ClassifierProvider)
	}
}

// Build wires OCR, translation, classification and history from cfg.
func Build(ctx context.Context, cfg *config.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	p := &Pipeline{}
	if c, ok := provider.(io.Closer); ok {
		p.closers = append(p.closers, c)
	}
	p.Classifier = classifier.New(provider, cfg.ClassifierProvider, cfg.ClassifierModel)

	p.OCR, err = ocr.New(ocr.Options{
		Engine:         cfg.OCREngine,
		Languages:      cfg.OCRLanguages,
		VisionProvider: cfg.VisionProvider,
		VisionModel:    cfg.VisionModel,
		OpenAIAPIKey:   cfg.OpenAIAPIKey,
		OpenAIBaseURL:  cfg.OpenAIBaseURL,
		OllamaURL:      cfg.OllamaURL,
	})
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to create OCR engine: %w", err)
	}

	backend, err := translate.NewBackend(ctx, cfg.Translator, cfg.GoogleTranslateAPIKey)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to create translator: %w", err)
	}
	p.Translator = translate.New(backend)

	p.History, err = storage.Open(ctx, cfg.HistoryDSN)
	if err != nil {
		p.Close()
		return nil, err
	}
	p.closers = append(p.closers, p.History)

	p.Service = detection.New(p.OCR, p.Translator, p.Classifier,
		detection.WithHistory(p.History),
		detection.WithUploadsDir(cfg.UploadsDir))
	if err := p.Service.EnsureUploadsDir(); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	slog.Info("Pipeline ready",
		"provider", cfg.ClassifierProvider,
		"model", cfg.ClassifierModel,
		"ocr", p.OCR.Name(),
		"translator", backend.Name(),
		"uploads", cfg.UploadsDir)
	return p, nil
}

// Close releases the history store and provider clients.
func (p *Pipeline) Close() error {
	var errs []error
	for _, c := range p.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	p.closers = nil
	return errors.Join(errs...)
}
