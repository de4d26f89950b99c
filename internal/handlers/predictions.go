package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/veritas-news/veritas/internal/models"
	"github.com/veritas-news/veritas/internal/storage"
)

const defaultListLimit = 50

// HandlePredictions lists recorded predictions, newest first.
func (h *Handler) HandlePredictions(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.writeError(w, "Invalid limit: "+v, http.StatusBadRequest)
			return
		}
		limit = n
	}

	predictions, err := h.history.List(r.Context(), limit)
	if err != nil {
		h.writeError(w, "Failed to list predictions: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if predictions == nil {
		predictions = []*models.Prediction{}
	}
	h.writeJSON(w, predictions)
}

func (h *Handler) HandlePredictionDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/predictions/")
	p, err := h.history.Get(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		h.writeError(w, "Prediction not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.writeError(w, "Failed to load prediction: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, p)
}
