package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SankThomas/helpdesk/internal/models"
)

type userRecord struct {
	user models.User
	hash string
}

type UserRepo struct {
	mu    sync.RWMutex
	ids   ids
	byID  map[string]userRecord
	order []string
}

func NewUserRepo() *UserRepo {
	return &UserRepo{byID: map[string]userRecord{}}
}

func (r *UserRepo) Create(ctx context.Context, email, name, role, passwordHash string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	u := models.User{
		ID:        r.ids.new("us"),
		Email:     email,
		Name:      name,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.byID[u.ID] = userRecord{user: u, hash: passwordHash}
	r.order = append(r.order, u.ID)
	return &u, nil
}

func (r *UserRepo) UpsertExternal(ctx context.Context, externalID, email, name string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		rec := r.byID[id]
		if rec.user.ExternalID == externalID {
			rec.user.Email = email
			rec.user.Name = name
			rec.user.UpdatedAt = time.Now()
			r.byID[id] = rec
			u := rec.user
			return &u, nil
		}
	}
	now := time.Now()
	u := models.User{
		ID:         r.ids.new("us"),
		ExternalID: externalID,
		Email:      email,
		Name:       name,
		Role:       models.RoleUser,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.byID[u.ID] = userRecord{user: u}
	r.order = append(r.order, u.ID)
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.byID {
		if rec.user.Email == email {
			u := rec.user
			return &u, rec.hash, nil
		}
	}
	return nil, "", nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	u := rec.user
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context, q, role string, limit, offset int) ([]models.User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.User
	for _, id := range r.order {
		u := r.byID[id].user
		if q != "" {
			lq := strings.ToLower(q)
			if !strings.Contains(strings.ToLower(u.Email), lq) && !strings.Contains(strings.ToLower(u.Name), lq) {
				continue
			}
		}
		if role != "" && u.Role != role {
			continue
		}
		out = append(out, u)
	}
	total := len(out)
	if offset > 0 {
		if offset >= len(out) {
			out = nil
		} else {
			out = out[offset:]
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *UserRepo) ListStaff(ctx context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.User
	for _, id := range r.order {
		u := r.byID[id].user
		if u.IsStaff() {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *UserRepo) UpdateRole(ctx context.Context, id, role string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	rec.user.Role = role
	rec.user.UpdatedAt = time.Now()
	r.byID[id] = rec
	u := rec.user
	return &u, nil
}
