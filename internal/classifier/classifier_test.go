package classifier

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/veritas-news/veritas/internal/providers"
)

type stubProvider struct {
	out  string
	err  error
	last providers.Config
}

func (s *stubProvider) Complete(_ context.Context, config providers.Config) (string, error) {
	s.last = config
	return s.out, s.err
}

func TestClassifyTransformsRawOutput(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Verdict
		known    bool
	}{
		{name: "exact real", raw: "REAL", expected: Real, known: true},
		{name: "lower case fake with whitespace", raw: "  fake\n", expected: Fake, known: true},
		{name: "mixed case", raw: "Real", expected: Real, known: true},
		{name: "trailing punctuation passes through", raw: "Fake.", expected: Verdict("FAKE."), known: false},
		{name: "explanation passes through", raw: "I think it is real", expected: Verdict("I THINK IT IS REAL"), known: false},
		{name: "empty answer", raw: "   ", expected: Verdict(""), known: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &stubProvider{out: tt.raw}
			c := New(p, "stub", "test-model")

			got, err := c.Classify(context.Background(), "Some news")
			if err != nil {
				t.Fatalf("Classify: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
			if want := Verdict(strings.ToUpper(strings.TrimSpace(tt.raw))); got != want {
				t.Errorf("expected only trim+upper transform, got %q want %q", got, want)
			}
			if got.Known() != tt.known {
				t.Errorf("Known() = %v, expected %v", got.Known(), tt.known)
			}
		})
	}
}

func TestClassifySendsPromptAndSettings(t *testing.T) {
	p := &stubProvider{out: "REAL"}
	c := New(p, "stub", "google/gemma-3n-e2b-it:free")

	if _, err := c.Classify(context.Background(), "Scientists confirm the moon is made of cheese"); err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if p.last.Model != "google/gemma-3n-e2b-it:free" {
		t.Errorf("unexpected model: %s", p.last.Model)
	}
	if p.last.Temperature != Temperature {
		t.Errorf("unexpected temperature: %v", p.last.Temperature)
	}
	if !strings.Contains(p.last.Prompt, `"""Scientists confirm the moon is made of cheese"""`) {
		t.Errorf("expected text inside delimiters, got prompt:\n%s", p.last.Prompt)
	}
	if c.Provider() != "stub" || c.Model() != "google/gemma-3n-e2b-it:free" {
		t.Errorf("unexpected accessors: %s %s", c.Provider(), c.Model())
	}
}

func TestClassifyPropagatesProviderError(t *testing.T) {
	sentinel := errors.New("401 unauthorized")
	c := New(&stubProvider{err: sentinel}, "stub", "m")

	if _, err := c.Classify(context.Background(), "text"); !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("hello")
	for _, want := range []string{
		"ONLY answer with one word: REAL or FAKE",
		"ignore those surface errors",
		`"""hello"""`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
