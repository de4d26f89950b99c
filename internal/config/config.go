package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds settings read from the environment (and .env).
type Config struct {
	Port       string
	UploadsDir string
	HistoryDSN string
	LogLevel   string

	ClassifierProvider string
	ClassifierModel    string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OllamaURL     string
	GeminiAPIKey  string

	OCREngine      string
	OCRLanguages   []string
	VisionProvider string
	VisionModel    string

	Translator            string
	GoogleTranslateAPIKey string

	TelegramBotToken string
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// Load reads the configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		Port:       getEnv("PORT", "5000"),
		UploadsDir: getEnv("UPLOADS_DIR", "uploads"),
		HistoryDSN: getEnv("HISTORY_DSN", ""),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		ClassifierProvider: strings.ToLower(getEnv("CLASSIFIER_PROVIDER", "openai")),

		OpenAIAPIKey:  getEnv("OPENROUTER_API_KEY", getEnv("OPENAI_API_KEY", "")),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://openrouter.ai/api/v1"),
		OllamaURL:     getEnv("OLLAMA_URL", getEnv("OLLAMA_HOST", "http://localhost:11434")),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),

		OCREngine:      strings.ToLower(getEnv("OCR_ENGINE", "tesseract")),
		OCRLanguages:   splitList(getEnv("OCR_LANGUAGES", "eng,hin,mar")),
		VisionProvider: strings.ToLower(getEnv("OCR_VISION_PROVIDER", "openai")),
		VisionModel:    getEnv("OCR_VISION_MODEL", ""),

		Translator:            strings.ToLower(getEnv("TRANSLATOR", "web")),
		GoogleTranslateAPIKey: getEnv("GOOGLE_TRANSLATE_API_KEY", ""),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
	}
	cfg.ClassifierModel = DefaultModel(cfg.ClassifierProvider)
	return cfg
}

// DefaultModel returns the model used for provider unless one is configured explicitly.
func DefaultModel(provider string) string {
	switch provider {
	case "openai":
		return getEnv("OPENAI_MODEL", "google/gemma-3n-e2b-it:free")
	case "ollama":
		return getEnv("OLLAMA_MODEL", "mistral-small3.2:24b")
	case "gemini":
		return getEnv("GEMINI_MODEL", "gemini-2.5-flash")
	default:
		return ""
	}
}

// Validate reports settings that would make the pipeline unusable.
func (c *Config) Validate() error {
	switch c.ClassifierProvider {
	case "openai", "ollama", "gemini":
	default:
		return fmt.Errorf("%w: unsupported classifier provider %q", ErrInvalidConfig, c.ClassifierProvider)
	}
	if c.ClassifierModel == "" {
		return fmt.Errorf("%w: classifier model is empty", ErrInvalidConfig)
	}
	switch c.OCREngine {
	case "tesseract", "vision":
	default:
		return fmt.Errorf("%w: unsupported OCR engine %q", ErrInvalidConfig, c.OCREngine)
	}
	switch c.Translator {
	case "web", "google", "none":
	default:
		return fmt.Errorf("%w: unsupported translator %q", ErrInvalidConfig, c.Translator)
	}
	if c.UploadsDir == "" {
		return fmt.Errorf("%w: uploads directory is empty", ErrInvalidConfig)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
