package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SankThomas/helpdesk/internal/models"
	"github.com/SankThomas/helpdesk/internal/repository"
	"github.com/SankThomas/helpdesk/internal/utils"
)

type UserHTTP struct {
	repo repository.UserRepository
}

func NewUserHTTP(r repository.UserRepository) *UserHTTP {
	return &UserHTTP{repo: r}
}

// GET /api/users?q=&role=&limit=&offset=
func (h *UserHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qv := r.URL.Query()
		users, total, err := h.repo.List(r.Context(), qv.Get("q"), qv.Get("role"),
			utils.QueryInt(qv, "limit", 20), utils.QueryInt(qv, "offset", 0))
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"items": users, "total": total})
	}
}

// GET /api/users/agents, the assignment picker for staff.
func (h *UserHTTP) Agents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staff, err := h.repo.ListStaff(r.Context())
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"items": staff})
	}
}

// PATCH /api/users/{id}/role. This is the only way a role ever changes.
func (h *UserHTTP) UpdateRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Role string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || !models.ValidRole(in.Role) {
			utils.Error(w, http.StatusBadRequest, "role must be one of user, agent, admin")
			return
		}
		u, err := h.repo.UpdateRole(r.Context(), chi.URLParam(r, "id"), in.Role)
		if err != nil {
			respondErr(w, err)
			return
		}
		if u == nil {
			utils.Error(w, http.StatusNotFound, "not found")
			return
		}
		utils.JSON(w, http.StatusOK, u)
	}
}
