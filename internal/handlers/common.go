package handlers

import (
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/veritas-news/veritas/internal/detection"
	"github.com/veritas-news/veritas/internal/images"
	"github.com/veritas-news/veritas/internal/storage"
)

// maxUploadSize caps uploaded images at 10MB.
const maxUploadSize = 10 * 1024 * 1024

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type Handler struct {
	service *detection.Service
	history storage.Store
	fetcher *images.Fetcher
}

func New(service *detection.Service, history storage.Store) *Handler {
	return &Handler{
		service: service,
		history: history,
		fetcher: images.NewFetcher(),
	}
}

// Routes registers every endpoint on a new mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.HandleIndex)
	mux.HandleFunc("/predict", h.HandlePredictForm)
	mux.HandleFunc("/api/predict", h.HandleAPIPredict)
	mux.HandleFunc("/api/predictions", h.HandlePredictions)
	mux.HandleFunc("/api/predictions/", h.HandlePredictionDetail)
	mux.HandleFunc("/static/", h.HandleStatic)
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	return mux
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

func (h *Handler) render(w http.ResponseWriter, name string, code int, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("Unable to render template", "template", name, "err", err)
	}
}
