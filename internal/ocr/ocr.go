package ocr

import (
	"context"
	"fmt"
	"strings"
)

// Engine extracts text from an image on disk.
//
// Engines are built once at startup and shared by every request, so
// implementations must be safe for concurrent use.
type Engine interface {
	Name() string
	ExtractText(ctx context.Context, imagePath string) (string, error)
}

// DefaultLanguages mirrors the scripts the detector expects most often:
// English, Hindi and Marathi.
var DefaultLanguages = []string{"eng", "hin", "mar"}

// Options selects and configures an Engine.
type Options struct {
	Engine    string   // "tesseract" (default) or "vision"
	Languages []string // tesseract language packs

	// Vision engine settings
	VisionProvider string // "openai" or "ollama"
	VisionModel    string
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	OllamaURL      string
}

// New builds the configured engine.
func New(opts Options) (Engine, error) {
	switch strings.ToLower(opts.Engine) {
	case "", "tesseract":
		langs := opts.Languages
		if len(langs) == 0 {
			langs = DefaultLanguages
		}
		return NewTesseractEngine(langs...), nil
	case "vision":
		return NewVisionEngine(opts)
	default:
		return nil, fmt.Errorf("unsupported OCR engine: %s", opts.Engine)
	}
}
