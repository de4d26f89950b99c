package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/veritas-news/veritas/internal/providers"
)

// Verdict is the classification outcome. The model's answer is passed through
// as-is, so a Verdict may hold text other than the constants below.
type Verdict string

const (
	Real  Verdict = "REAL"
	Fake  Verdict = "FAKE"
	Error Verdict = "ERROR"
)

// NoInputReason accompanies an Error verdict when there was nothing to classify.
const NoInputReason = "No input provided"

// Temperature keeps the model near-deterministic.
const Temperature = 0.2

// Known reports whether v is one of the two answers the model was asked for.
func (v Verdict) Known() bool {
	return v == Real || v == Fake
}

// Classifier asks an LLM provider whether a piece of news is real or fake.
type Classifier struct {
	provider     providers.Provider
	providerName string
	model        string
}

// New returns a Classifier that sends prompts to provider using model.
func New(provider providers.Provider, providerName, model string) *Classifier {
	return &Classifier{
		provider:     provider,
		providerName: providerName,
		model:        model,
	}
}

func (c *Classifier) Provider() string { return c.providerName }

func (c *Classifier) Model() string { return c.model }

// Classify returns the model's trimmed, upper-cased answer for text.
// Provider failures are returned to the caller.
func (c *Classifier) Classify(ctx context.Context, text string) (Verdict, error) {
	raw, err := c.provider.Complete(ctx, providers.Config{
		Model:       c.model,
		Temperature: Temperature,
		Prompt:      BuildPrompt(text),
	})
	if err != nil {
		return "", fmt.Errorf("failed to classify text with %s: %w", c.providerName, err)
	}

	verdict := Verdict(strings.ToUpper(strings.TrimSpace(raw)))
	if !verdict.Known() {
		slog.Warn("Model answered outside REAL/FAKE", "provider", c.providerName, "model", c.model, "answer", verdict)
	}
	return verdict, nil
}

// BuildPrompt embeds text verbatim in the fixed fact-checking instructions.
func BuildPrompt(text string) string {
	return fmt.Sprintf(`
You are a reliable fake news detection AI.

The following input is a piece of news or social media post extracted using OCR from an image. It may contain typos or broken formatting, but your job is to **ignore those surface errors** and evaluate only the content's factual nature and logical plausibility.

IMPORTANT:
- Internally rephrase the text as needed to understand it.
- Determine whether the news appears realistic, logical, and plausible.
- ONLY answer with one word: REAL or FAKE
- Do NOT explain, justify, or include any other text.
- Focus on **fact-checking**, NOT grammar or formatting.

OCR Extracted Text:
"""%s"""

Answer with one word only: REAL or FAKE
`, text)
}
