package translate

import (
	"context"
	"fmt"
	"html"

	"google.golang.org/api/option"
	translatev2 "google.golang.org/api/translate/v2"
)

// GoogleBackend uses the Google Cloud Translation v2 API.
type GoogleBackend struct {
	service *translatev2.Service
}

// NewGoogleBackend creates the Cloud Translation client once; it is safe for concurrent use.
func NewGoogleBackend(ctx context.Context, apiKey string, opts ...option.ClientOption) (*GoogleBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_TRANSLATE_API_KEY environment variable not set")
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := translatev2.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create translation client: %w", err)
	}
	return &GoogleBackend{service: svc}, nil
}

func (g *GoogleBackend) Name() string { return "google" }

// Translate leaves the source unset so the API detects it.
func (g *GoogleBackend) Translate(ctx context.Context, text, target string) (string, error) {
	resp, err := g.service.Translations.List([]string{text}, target).
		Format("text").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to translate text: %w", err)
	}
	if len(resp.Translations) == 0 {
		return "", fmt.Errorf("no translations returned from Google")
	}
	return html.UnescapeString(resp.Translations[0].TranslatedText), nil
}
