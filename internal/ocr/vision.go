package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/veritas-news/veritas/internal/ollama"
	"github.com/veritas-news/veritas/internal/openai"
	"github.com/veritas-news/veritas/internal/providers"
)

// imageCompleter is satisfied by the OpenAI provider.
type imageCompleter interface {
	CompleteWithImage(ctx context.Context, config providers.Config, dataURL string) (string, error)
}

// imagesCompleter is satisfied by the Ollama provider.
type imagesCompleter interface {
	CompleteWithImages(ctx context.Context, config providers.Config, images []string) (string, error)
}

// VisionEngine extracts text by asking a vision-capable LLM to transcribe the image.
type VisionEngine struct {
	provider string
	model    string
	openai   imageCompleter
	ollama   imagesCompleter
}

// NewVisionEngine builds a VisionEngine backed by OpenAI-compatible or Ollama models.
func NewVisionEngine(opts Options) (*VisionEngine, error) {
	provider := strings.ToLower(opts.VisionProvider)
	if provider == "" {
		provider = "openai"
	}

	e := &VisionEngine{provider: provider, model: opts.VisionModel}
	switch provider {
	case "openai":
		e.openai = openai.New(opts.OpenAIAPIKey, opts.OpenAIBaseURL)
	case "ollama":
		e.ollama = ollama.New(opts.OllamaURL)
	default:
		return nil, fmt.Errorf("unsupported OCR provider: %s", opts.VisionProvider)
	}

	if e.model == "" {
		e.model = defaultVisionModel(provider)
	}
	return e, nil
}

func (e *VisionEngine) Name() string { return "vision/" + e.provider }

func defaultVisionModel(provider string) string {
	switch provider {
	case "openai":
		return "gpt-4o"
	case "ollama":
		return "mistral-small3.2:24b"
	default:
		return ""
	}
}

// ExtractText transcribes the image at imagePath with zero temperature.
func (e *VisionEngine) ExtractText(ctx context.Context, imagePath string) (string, error) {
	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to read image for OCR: %w", err)
	}
	base64Image := base64.StdEncoding.EncodeToString(imageData)

	config := providers.Config{
		Model:       e.model,
		Temperature: 0.0,
		Prompt:      buildOCRPrompt(),
	}

	var text string
	switch {
	case e.openai != nil:
		dataURL := "data:" + http.DetectContentType(imageData) + ";base64," + base64Image
		text, err = e.openai.CompleteWithImage(ctx, config, dataURL)
	case e.ollama != nil:
		text, err = e.ollama.CompleteWithImages(ctx, config, []string{base64Image})
	default:
		return "", fmt.Errorf("vision engine has no provider")
	}
	if err != nil {
		return "", fmt.Errorf("failed to extract text with %s: %w", e.Name(), err)
	}

	text = strings.TrimSpace(text)
	if strings.EqualFold(text, noTextMarker) {
		text = ""
	}
	slog.Info("Extracted OCR text", "engine", e.Name(), "model", e.model, "length", len(text))
	return text, nil
}

const noTextMarker = "NO_TEXT"

func buildOCRPrompt() string {
	return `You are performing OCR (Optical Character Recognition) on a screenshot or photo of a news article or social media post.

Your task is to extract ALL visible text from the image exactly as it appears, in any language or script.

INSTRUCTIONS:
1. Read the image carefully from top to bottom
2. Transcribe headlines, body text, captions and post text
3. Keep the original language; do not translate
4. Do not add any interpretation, commentary, or explanations
5. Skip interface chrome such as buttons, like counts and timestamps

OUTPUT FORMAT:
Provide ONLY the extracted text. Do not include phrases like "Here is the text:" or "The image contains:".
If the image contains no readable text, answer with exactly ` + noTextMarker + `.`
}
