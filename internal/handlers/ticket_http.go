package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/SankThomas/helpdesk/internal/middleware"
	"github.com/SankThomas/helpdesk/internal/repository"
	"github.com/SankThomas/helpdesk/internal/service"
	"github.com/SankThomas/helpdesk/internal/utils"
)

type TicketHTTP struct {
	svc *service.TicketService
}

func NewTicketHTTP(svc *service.TicketService) *TicketHTTP { return &TicketHTTP{svc: svc} }

// GET /api/tickets?q=&status=&priority=&assignee=&sort=&order=&limit=&offset=
func (h *TicketHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.Actor(r.Context())
		qv := r.URL.Query()

		f := repository.TicketFilter{
			Q:        strings.TrimSpace(qv.Get("q")),
			Status:   strings.TrimSpace(qv.Get("status")),
			Priority: strings.TrimSpace(qv.Get("priority")),
			Assignee: strings.TrimSpace(qv.Get("assignee")),
			Sort:     qv.Get("sort"),
			Order:    qv.Get("order"),
			Limit:    utils.QueryInt(qv, "limit", 50),
			Offset:   utils.QueryInt(qv, "offset", 0),
		}

		items, total, err := h.svc.List(r.Context(), actor, f)
		if err != nil {
			respondErr(w, err)
			return
		}
		w.Header().Set("X-Total-Count", strconv.Itoa(total))
		utils.JSON(w, http.StatusOK, map[string]any{"items": items, "total": total})
	}
}

// GET /api/tickets/{id}
func (h *TicketHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.Actor(r.Context())
		t, err := h.svc.Get(r.Context(), actor, chi.URLParam(r, "id"))
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, t)
	}
}

// POST /api/tickets
func (h *TicketHTTP) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.Actor(r.Context())

		var in service.CreateTicketInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if err := validate.Struct(in); err != nil {
			utils.Error(w, http.StatusBadRequest, "title and description are required")
			return
		}

		t, err := h.svc.Create(r.Context(), actor, in, time.Now())
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.JSON(w, http.StatusCreated, t)
	}
}

// PATCH /api/tickets/{id}
func (h *TicketHTTP) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.Actor(r.Context())

		var in service.TicketUpdate
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		t, err := h.svc.Update(r.Context(), actor, chi.URLParam(r, "id"), in, time.Now())
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, t)
	}
}

// DELETE /api/tickets/{id}
func (h *TicketHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.Actor(r.Context())
		if err := h.svc.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
			respondErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
