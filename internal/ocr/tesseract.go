package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine runs Tesseract through gosseract. A gosseract client is not
// goroutine-safe, so each extraction uses a fresh one.
type TesseractEngine struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

// NewTesseractEngine constructs a Tesseract-backed engine for the given language packs.
func NewTesseractEngine(languages ...string) *TesseractEngine {
	return &TesseractEngine{
		languages:     append([]string(nil), languages...),
		clientFactory: gosseract.NewClient,
	}
}

func (e *TesseractEngine) Name() string { return "tesseract" }

// Languages returns the language packs handed to Tesseract.
func (e *TesseractEngine) Languages() []string {
	return append([]string(nil), e.languages...)
}

// ExtractText recognizes paragraphs in the image and joins them with single spaces.
func (e *TesseractEngine) ExtractText(ctx context.Context, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("failed to set OCR image: %w", err)
	}
	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return "", fmt.Errorf("failed to set OCR languages: %w", err)
		}
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_PARA)
	if err == nil && len(boxes) > 0 {
		paragraphs := make([]string, 0, len(boxes))
		for _, b := range boxes {
			paragraphs = append(paragraphs, b.Word)
		}
		text := joinParagraphs(paragraphs)
		slog.Info("Extracted OCR text", "engine", e.Name(), "paragraphs", len(boxes), "length", len(text))
		return text, nil
	}
	if err != nil {
		slog.Debug("Paragraph boxes unavailable, reading full page", "err", err)
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("failed to recognize text: %w", err)
	}
	text = joinParagraphs(strings.Split(text, "\n\n"))
	slog.Info("Extracted OCR text", "engine", e.Name(), "length", len(text))
	return text, nil
}

// joinParagraphs flattens each paragraph onto one line and joins the
// non-empty ones with a single space.
func joinParagraphs(paragraphs []string) string {
	parts := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		p = strings.Join(strings.Fields(p), " ")
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
