package models

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Input sources of a prediction
const (
	SourceText  = "text"
	SourceImage = "image"
)

// Prediction records one pass through the detection pipeline
type Prediction struct {
	ID                  string    `json:"id"`
	CreatedAt           time.Time `json:"created_at"`
	Source              string    `json:"source"`
	Filename            string    `json:"filename,omitempty"`
	ImageMD5            string    `json:"image_md5,omitempty"`
	ExtractedText       string    `json:"extracted_text,omitempty"`
	Text                string    `json:"text"`
	Verdict             string    `json:"verdict"`
	Reason              string    `json:"reason,omitempty"`
	OCREngine           string    `json:"ocr_engine,omitempty"`
	Translator          string    `json:"translator,omitempty"`
	TranslationFallback bool      `json:"translation_fallback,omitempty"`
	Provider            string    `json:"provider,omitempty"`
	Model               string    `json:"model,omitempty"`
	DurationMS          int64     `json:"duration_ms"`
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewPredictionID returns a lexically sortable, unique identifier
func NewPredictionID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Now(), entropy).String()
}
