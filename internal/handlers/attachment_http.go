package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/SankThomas/helpdesk/internal/middleware"
	"github.com/SankThomas/helpdesk/internal/service"
	"github.com/SankThomas/helpdesk/internal/utils"
)

type AttachmentHTTP struct {
	svc *service.AttachmentService
}

func NewAttachmentHTTP(svc *service.AttachmentService) *AttachmentHTTP {
	return &AttachmentHTTP{svc: svc}
}

// POST /api/tickets/{id}/attachments/upload-url
func (h *AttachmentHTTP) UploadURL() http.HandlerFunc {
	type inDTO struct {
		FileName string `json:"fileName"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.Actor(r.Context())

		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		target, err := h.svc.NewUploadTarget(r.Context(), actor, chi.URLParam(r, "id"), in.FileName)
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, target)
	}
}

// POST /api/tickets/{id}/attachments
func (h *AttachmentHTTP) Attach() http.HandlerFunc {
	type inDTO struct {
		StorageKey string `json:"storageKey"`
		FileName   string `json:"fileName"`
		Size       int64  `json:"fileSize"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.Actor(r.Context())

		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		a, err := h.svc.Attach(r.Context(), actor, chi.URLParam(r, "id"), in.StorageKey, in.FileName, in.Size, time.Now())
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.JSON(w, http.StatusCreated, a)
	}
}

// GET /api/tickets/{id}/attachments
func (h *AttachmentHTTP) ListForTicket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.Actor(r.Context())
		items, err := h.svc.ListForTicket(r.Context(), actor, chi.URLParam(r, "id"))
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"items": items})
	}
}

// DELETE /api/attachments/{id}
func (h *AttachmentHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.Actor(r.Context())
		if err := h.svc.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
			respondErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
