package translate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// DefaultTarget is the language every input is translated into.
const DefaultTarget = "en"

// Backend translates text from an auto-detected source language.
type Backend interface {
	Name() string
	Translate(ctx context.Context, text, target string) (string, error)
}

// Result is the outcome of a translation. On failure Text holds the original
// input, Fallback is set and Err records why.
type Result struct {
	Text     string
	Fallback bool
	Err      error
}

// Translator wraps a Backend so that a failed translation never aborts the caller.
type Translator struct {
	backend Backend
	target  string
}

// New returns a Translator targeting English.
func New(backend Backend) *Translator {
	return &Translator{backend: backend, target: DefaultTarget}
}

// Backend returns the name of the configured backend.
func (t *Translator) Backend() string {
	return t.backend.Name()
}

// Translate returns text translated to the target language, or the original
// text when the backend fails.
func (t *Translator) Translate(ctx context.Context, text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Text: text}
	}

	translated, err := t.backend.Translate(ctx, text, t.target)
	if err != nil {
		slog.Warn("Translation failed, using original text", "backend", t.backend.Name(), "err", err)
		return Result{Text: text, Fallback: true, Err: err}
	}
	if strings.TrimSpace(translated) == "" {
		err := fmt.Errorf("%s returned an empty translation", t.backend.Name())
		slog.Warn("Translation failed, using original text", "backend", t.backend.Name(), "err", err)
		return Result{Text: text, Fallback: true, Err: err}
	}

	return Result{Text: translated}
}

// NewBackend builds the backend registered under name.
func NewBackend(ctx context.Context, name, googleAPIKey string) (Backend, error) {
	switch strings.ToLower(name) {
	case "", "web":
		return NewWebBackend(), nil
	case "google":
		return NewGoogleBackend(ctx, googleAPIKey)
	case "none":
		return Identity{}, nil
	default:
		return nil, fmt.Errorf("unsupported translator: %s", name)
	}
}

// Identity leaves text untouched.
type Identity struct{}

func (Identity) Name() string { return "none" }

func (Identity) Translate(_ context.Context, text, _ string) (string, error) {
	return text, nil
}
