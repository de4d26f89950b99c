package detection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/veritas-news/veritas/internal/classifier"
	"github.com/veritas-news/veritas/internal/models"
	"github.com/veritas-news/veritas/internal/ocr"
	"github.com/veritas-news/veritas/internal/storage"
	"github.com/veritas-news/veritas/internal/textclean"
	"github.com/veritas-news/veritas/internal/translate"
	"github.com/veritas-news/veritas/internal/utils"
)

// ErrUnsupportedImage is returned for uploads that are not JPEG or PNG files.
var ErrUnsupportedImage = errors.New("unsupported image type: expected .jpg, .jpeg or .png")

// AllowedExtensions lists the image file extensions accepted for OCR.
var AllowedExtensions = []string{".jpg", ".jpeg", ".png"}

// Classifier decides whether normalized text is real or fake news.
type Classifier interface {
	Classify(ctx context.Context, text string) (classifier.Verdict, error)
	Provider() string
	Model() string
}

// Request carries either typed text or an uploaded image.
type Request struct {
	Text     string
	Image    []byte
	Filename string
}

// HasImage reports whether the request carries a usable image.
func (r Request) HasImage() bool {
	return r.Filename != "" && len(r.Image) > 0
}

// Service runs the OCR, normalization and classification pipeline.
type Service struct {
	ocr        ocr.Engine
	translator *translate.Translator
	classifier Classifier
	history    storage.Store
	uploadsDir string
}

// Option customizes a Service.
type Option func(*Service)

// WithHistory records every prediction in store.
func WithHistory(store storage.Store) Option {
	return func(s *Service) { s.history = store }
}

// WithUploadsDir sets where uploaded images are written.
func WithUploadsDir(dir string) Option {
	return func(s *Service) { s.uploadsDir = dir }
}

// New returns a Service. The OCR engine is shared by all requests.
func New(engine ocr.Engine, translator *translate.Translator, cl Classifier, opts ...Option) *Service {
	s := &Service{
		ocr:        engine,
		translator: translator,
		classifier: cl,
		uploadsDir: "uploads",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UploadsDir returns the directory uploaded images are saved to.
func (s *Service) UploadsDir() string {
	return s.uploadsDir
}

// EnsureUploadsDir creates the uploads directory if needed.
func (s *Service) EnsureUploadsDir() error {
	return os.MkdirAll(s.uploadsDir, 0755)
}

// HandleRequest turns a request into a prediction. When there is nothing to
// classify the prediction carries an ERROR verdict and no error is returned.
// OCR and classifier failures are returned as errors.
func (s *Service) HandleRequest(ctx context.Context, req Request) (*models.Prediction, error) {
	start := time.Now()
	p := &models.Prediction{
		ID:        models.NewPredictionID(),
		CreatedAt: start.UTC(),
		Source:    models.SourceText,
	}

	working := req.Text
	if req.HasImage() {
		text, err := s.extractFromImage(ctx, req, p)
		if err != nil {
			return nil, err
		}
		working = text
	}

	if strings.TrimSpace(working) == "" {
		return s.finish(ctx, p, start, noInput(p)), nil
	}

	normalized := s.Normalize(ctx, working)
	p.Translator = s.translator.Backend()
	p.TranslationFallback = normalized.Translation.Fallback
	if normalized.Text == "" {
		return s.finish(ctx, p, start, noInput(p)), nil
	}

	verdict, err := s.classifier.Classify(ctx, normalized.Text)
	if err != nil {
		return nil, err
	}

	p.Text = normalized.Text
	p.Verdict = string(verdict)
	p.Provider = s.classifier.Provider()
	p.Model = s.classifier.Model()
	return s.finish(ctx, p, start, p), nil
}

// Normalized holds every stage of text normalization.
type Normalized struct {
	Cleaned     string
	Translation translate.Result
	Text        string
}

// Normalize sanitizes, translates and then corrects text. Correction runs on
// the translated text so it targets what the model reads.
func (s *Service) Normalize(ctx context.Context, text string) Normalized {
	cleaned := textclean.Sanitize(text)
	translation := s.translator.Translate(ctx, cleaned)
	return Normalized{
		Cleaned:     cleaned,
		Translation: translation,
		Text:        strings.TrimSpace(textclean.Correct(translation.Text)),
	}
}

// Classify normalizes and classifies text without touching the history.
func (s *Service) Classify(ctx context.Context, text string) (classifier.Verdict, Normalized, error) {
	normalized := s.Normalize(ctx, text)
	if normalized.Text == "" {
		return classifier.Error, normalized, nil
	}
	verdict, err := s.classifier.Classify(ctx, normalized.Text)
	return verdict, normalized, err
}

func (s *Service) extractFromImage(ctx context.Context, req Request, p *models.Prediction) (string, error) {
	filename := filepath.Base(req.Filename)
	if !allowedImage(filename) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, filename)
	}

	path, err := s.saveUpload(filename, req.Image)
	if err != nil {
		return "", err
	}

	p.Source = models.SourceImage
	p.Filename = filename
	p.ImageMD5 = utils.CalculateDataMD5(req.Image)
	p.OCREngine = s.ocr.Name()

	text, err := s.ocr.ExtractText(ctx, path)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from %s: %w", filename, err)
	}
	p.ExtractedText = text
	return text, nil
}

// saveUpload writes data under its original name; a later upload with the
// same name replaces it.
func (s *Service) saveUpload(filename string, data []byte) (string, error) {
	if err := s.EnsureUploadsDir(); err != nil {
		return "", fmt.Errorf("failed to create uploads directory: %w", err)
	}
	path := filepath.Join(s.uploadsDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	slog.Info("Image saved", "filename", filename, "size", len(data))
	return path, nil
}

func (s *Service) finish(ctx context.Context, p *models.Prediction, start time.Time, result *models.Prediction) *models.Prediction {
	p.DurationMS = time.Since(start).Milliseconds()
	if s.history != nil {
		if err := s.history.Save(ctx, p); err != nil {
			slog.Error("Failed to record prediction", "id", p.ID, "err", err)
		}
	}
	slog.Info("Prediction complete", "id", p.ID, "source", p.Source, "verdict", p.Verdict, "duration_ms", p.DurationMS)
	return result
}

func noInput(p *models.Prediction) *models.Prediction {
	p.Verdict = string(classifier.Error)
	p.Reason = classifier.NoInputReason
	p.Text = ""
	return p
}

func allowedImage(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
