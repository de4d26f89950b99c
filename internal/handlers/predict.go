package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/veritas-news/veritas/internal/classifier"
	"github.com/veritas-news/veritas/internal/detection"
	"github.com/veritas-news/veritas/internal/models"
)

var errFileTooLarge = errors.New("file too large (max 10MB)")

type resultPage struct {
	Prediction *models.Prediction
	ImageURL   string
	Error      string
}

// HandleIndex serves the input form.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.render(w, "index.html", http.StatusOK, nil)
}

// HandlePredictForm runs the pipeline for the HTML form and renders the result page.
func (h *Handler) HandlePredictForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, err := readPredictRequest(r)
	if err != nil {
		h.render(w, "result.html", http.StatusBadRequest, resultPage{Error: err.Error()})
		return
	}

	p, err := h.service.HandleRequest(r.Context(), req)
	if err != nil {
		code := statusFor(err)
		h.render(w, "result.html", code, resultPage{Error: err.Error()})
		return
	}

	page := resultPage{Prediction: p}
	if p.Verdict == string(classifier.Error) {
		page.Error = p.Reason
	}
	if p.Filename != "" {
		page.ImageURL = "/static/uploads/" + p.Filename
	}
	h.render(w, "result.html", http.StatusOK, page)
}

// HandleAPIPredict accepts multipart form data or a JSON body
// {"news": "...", "image_url": "..."} and returns the prediction as JSON.
func (h *Handler) HandleAPIPredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var (
		req detection.Request
		err error
	)
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			News     string `json:"news"`
			ImageURL string `json:"image_url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		req.Text = body.News
		if body.ImageURL != "" {
			req.Image, req.Filename, err = h.fetcher.Fetch(r.Context(), body.ImageURL)
			if err != nil {
				h.writeError(w, "Failed to process image URL: "+err.Error(), http.StatusBadRequest)
				return
			}
		}
	} else {
		req, err = readPredictRequest(r)
		if err != nil {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	p, err := h.service.HandleRequest(r.Context(), req)
	if err != nil {
		h.writeError(w, "Prediction failed: "+err.Error(), statusFor(err))
		return
	}
	h.writeJSON(w, p)
}

// readPredictRequest reads the "news" text field and the optional "image" file.
func readPredictRequest(r *http.Request) (detection.Request, error) {
	req := detection.Request{Text: r.FormValue("news")}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return req, nil
	}
	if err != nil {
		return req, fmt.Errorf("failed to read file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		return req, fmt.Errorf("failed to read file contents: %w", err)
	}
	if len(data) >= maxUploadSize {
		return req, errFileTooLarge
	}

	req.Image = data
	req.Filename = header.Filename
	return req, nil
}

func statusFor(err error) int {
	if errors.Is(err, detection.ErrUnsupportedImage) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
