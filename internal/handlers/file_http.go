package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SankThomas/helpdesk/internal/storage"
	"github.com/SankThomas/helpdesk/internal/utils"
)

// FileHTTP backs the local-storage provider: it plays the role of the bucket
// endpoint in development, accepting the direct PUT and serving the GET.
type FileHTTP struct {
	store *storage.LocalStore
}

func NewFileHTTP(store *storage.LocalStore) *FileHTTP { return &FileHTTP{store: store} }

// PUT /files/*
func (h *FileHTTP) Upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "*")
		if key == "" {
			utils.Error(w, http.StatusBadRequest, "missing key")
			return
		}
		if err := h.store.Save(key, r.Body); err != nil {
			utils.Error(w, http.StatusBadRequest, "upload failed")
			return
		}
		w.WriteHeader(http.StatusCreated)
	}
}

// GET /files/*
func (h *FileHTTP) Download() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "*")
		f, err := h.store.Open(key)
		if err != nil {
			utils.Error(w, http.StatusNotFound, "not found")
			return
		}
		defer f.Close()
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = io.Copy(w, f)
	}
}
