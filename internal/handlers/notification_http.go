package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SankThomas/helpdesk/internal/middleware"
	"github.com/SankThomas/helpdesk/internal/service"
	"github.com/SankThomas/helpdesk/internal/utils"
)

type NotificationHTTP struct {
	svc *service.NotificationService
}

func NewNotificationHTTP(svc *service.NotificationService) *NotificationHTTP {
	return &NotificationHTTP{svc: svc}
}

// GET /api/notifications?limit=
func (h *NotificationHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.Actor(r.Context())
		limit := utils.QueryInt(r.URL.Query(), "limit", 50)
		items, err := h.svc.List(r.Context(), actor, limit)
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"items": items})
	}
}

// GET /api/notifications/unread-count
func (h *NotificationHTTP) UnreadCount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.Actor(r.Context())
		n, err := h.svc.UnreadCount(r.Context(), actor)
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]int{"count": n})
	}
}

// PATCH /api/notifications/{id}/read
func (h *NotificationHTTP) MarkRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.Actor(r.Context())
		if err := h.svc.MarkRead(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
			respondErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /api/notifications/read-all
func (h *NotificationHTTP) MarkAllRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.Actor(r.Context())
		if err := h.svc.MarkAllRead(r.Context(), actor); err != nil {
			respondErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// DELETE /api/notifications/{id}
func (h *NotificationHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.Actor(r.Context())
		if err := h.svc.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
			respondErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
