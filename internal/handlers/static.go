package handlers

import (
	"net/http"
	"path/filepath"
	"strings"
)

// HandleStatic serves saved uploads under /static/uploads/.
func (h *Handler) HandleStatic(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutPrefix(r.URL.Path, "/static/uploads/")
	if !ok || name == "" {
		http.NotFound(w, r)
		return
	}

	// Prevent directory traversal attacks
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		w.Header().Set("Content-Type", "image/png")
	case ".jpg", ".jpeg":
		w.Header().Set("Content-Type", "image/jpeg")
	}

	http.ServeFile(w, r, filepath.Join(h.service.UploadsDir(), name))
}
