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

type CommentHTTP struct {
	svc *service.CommentService
}

func NewCommentHTTP(svc *service.CommentService) *CommentHTTP { return &CommentHTTP{svc: svc} }

// GET /api/tickets/{id}/comments
func (h *CommentHTTP) ListForTicket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.Actor(r.Context())
		comments, err := h.svc.ListForTicket(r.Context(), actor, chi.URLParam(r, "id"))
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"items": comments})
	}
}

// POST /api/tickets/{id}/comments
func (h *CommentHTTP) Add() http.HandlerFunc {
	type inDTO struct {
		Content  string `json:"content"`
		Internal bool   `json:"internal"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.Actor(r.Context())

		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		c, err := h.svc.Add(r.Context(), actor, chi.URLParam(r, "id"), in.Content, in.Internal, time.Now())
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.JSON(w, http.StatusCreated, c)
	}
}

// DELETE /api/comments/{id}
func (h *CommentHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.Actor(r.Context())
		if err := h.svc.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
			respondErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
