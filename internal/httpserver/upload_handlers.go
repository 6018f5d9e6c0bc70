package httpserver

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"chitchat/internal/blob"
	"chitchat/internal/domain"
	"chitchat/internal/media"
)

const maxUploadBytes = 50 << 20 // 50MB

// handleUpload accepts multipart/form-data with a "file" field and a "kind"
// field (image, video or audio), runs the upload pipeline, and returns the
// durable URL for the caller to submit as a media message.
func handleUpload(pipeline *media.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to parse multipart form"})
			return
		}

		kind := domain.MediaType(r.FormValue("kind"))
		if kind == domain.MediaNone || !kind.Known() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "kind must be image, video or audio"})
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing file"})
			return
		}
		defer file.Close()

		url, err := pipeline.Upload(r.Context(), &media.Resource{
			Name:   header.Filename,
			Reader: file,
		}, kind)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"media_url":  url,
			"media_type": string(kind),
		})
	}
}

// handleServeBlob serves stored blobs at /uploads/{category}/{filename}.
func handleServeBlob(blobs *blob.DiskStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := chi.URLParam(r, "category")
		filename := chi.URLParam(r, "filename")
		if category == "" || filename == "" {
			http.Error(w, "missing path", http.StatusBadRequest)
			return
		}
		// Prevent traversal: both components must be bare names.
		if filepath.Base(category) != category || filepath.Base(filename) != filename {
			http.Error(w, "invalid path", http.StatusBadRequest)
			return
		}
		http.ServeFile(w, r, filepath.Join(blobs.Root(), category, filename))
	}
}
