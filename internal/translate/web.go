package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultWebURL = "https://translate.googleapis.com/translate_a/single"

	// maxWebChars is the longest input the public endpoint accepts in one request.
	maxWebChars = 5000
)

// WebBackend uses the public Google Translate web endpoint. It needs no key.
type WebBackend struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewWebBackend returns a WebBackend pointed at the public endpoint.
func NewWebBackend() *WebBackend {
	return &WebBackend{
		BaseURL:    defaultWebURL,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (w *WebBackend) Name() string { return "web" }

// Translate sends text with source language "auto" and joins the translated segments.
func (w *WebBackend) Translate(ctx context.Context, text, target string) (string, error) {
	if n := len([]rune(text)); n > maxWebChars {
		return "", fmt.Errorf("text too long for web translation: %d characters (max %d)", n, maxWebChars)
	}

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", target)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create translation request: %w", err)
	}

	resp, err := w.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send translation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode translation response: %w", err)
	}
	return joinSegments(payload)
}

func (w *WebBackend) httpClient() *http.Client {
	if w.HTTPClient != nil {
		return w.HTTPClient
	}
	return &http.Client{Timeout: 60 * time.Second}
}

// joinSegments reads the first element of the response, a list of
// [translated, original, ...] tuples, and concatenates the translated parts.
func joinSegments(payload []json.RawMessage) (string, error) {
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translation response")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("unexpected translation response format: %w", err)
	}

	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(seg[0], &part); err != nil {
			continue
		}
		b.WriteString(part)
	}
	return b.String(), nil
}
