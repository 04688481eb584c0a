package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SankThomas/helpdesk/internal/models"
	"github.com/SankThomas/helpdesk/internal/repository"
)

type TicketRepo struct {
	mu    sync.RWMutex
	ids   ids
	byID  map[string]models.Ticket
	order []string
	users *UserRepo // optional, for owner/assignee name enrichment
}

func NewTicketRepo(users *UserRepo) *TicketRepo {
	return &TicketRepo{byID: map[string]models.Ticket{}, users: users}
}

func (r *TicketRepo) enrich(t models.Ticket) models.Ticket {
	if r.users == nil {
		return t
	}
	if u, _ := r.users.GetByID(context.Background(), t.OwnerID); u != nil {
		t.OwnerName = u.Name
	}
	if t.AssigneeID != "" {
		if u, _ := r.users.GetByID(context.Background(), t.AssigneeID); u != nil {
			t.AssigneeName = u.Name
		}
	}
	return t
}

func matches(t models.Ticket, f repository.TicketFilter) bool {
	if f.OwnerID != "" && t.OwnerID != f.OwnerID {
		return false
	}
	if q := strings.TrimSpace(f.Q); q != "" {
		lq := strings.ToLower(q)
		if !strings.Contains(strings.ToLower(t.Title), lq) &&
			!strings.Contains(strings.ToLower(t.Description), lq) {
			return false
		}
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Assignee != "" && t.AssigneeID != f.Assignee {
		return false
	}
	return true
}

func (r *TicketRepo) List(ctx context.Context, f repository.TicketFilter) ([]models.Ticket, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []models.Ticket
	for _, id := range r.order {
		t := r.byID[id]
		if matches(t, f) {
			all = append(all, r.enrich(t))
		}
	}
	total := len(all)

	if f.Sort == "updated_at" {
		sort.SliceStable(all, func(i, j int) bool { return all[i].UpdatedAt.Before(all[j].UpdatedAt) })
	}
	if f.Order == "desc" {
		for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
			all[i], all[j] = all[j], all[i]
		}
	}

	if f.Offset > 0 {
		if f.Offset >= len(all) {
			all = nil
		} else {
			all = all[f.Offset:]
		}
	}
	if f.Limit > 0 && len(all) > f.Limit {
		all = all[:f.Limit]
	}
	return all, total, nil
}

func (r *TicketRepo) Get(ctx context.Context, id string) (*models.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	t = r.enrich(t)
	return &t, nil
}

func (r *TicketRepo) Create(ctx context.Context, t *models.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = r.ids.new("tk")
	r.byID[t.ID] = *t
	r.order = append(r.order, t.ID)
	return nil
}

func (r *TicketRepo) Update(ctx context.Context, t *models.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[t.ID]; !ok {
		return errNotFound
	}
	r.byID[t.ID] = *t
	return nil
}

func (r *TicketRepo) Touch(ctx context.Context, id string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return errNotFound
	}
	t.UpdatedAt = now
	r.byID[id] = t
	return nil
}

func (r *TicketRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return errNotFound
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *TicketRepo) CountOpen(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, t := range r.byID {
		if t.Status != models.StatusResolved && t.Status != models.StatusClosed {
			n++
		}
	}
	return n, nil
}

func (r *TicketRepo) CountResolvedSince(ctx context.Context, since time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, t := range r.byID {
		closed := t.Status == models.StatusResolved || t.Status == models.StatusClosed
		if closed && !t.UpdatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *TicketRepo) CountOpenByPriorities(ctx context.Context, prios []string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := map[string]struct{}{}
	for _, p := range prios {
		set[p] = struct{}{}
	}
	n := 0
	for _, t := range r.byID {
		closed := t.Status == models.StatusResolved || t.Status == models.StatusClosed
		if _, ok := set[t.Priority]; ok && !closed {
			n++
		}
	}
	return n, nil
}

func (r *TicketRepo) ListCreatedSince(ctx context.Context, since time.Time) ([]models.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Ticket
	for _, id := range r.order {
		t := r.byID[id]
		if !t.CreatedAt.Before(since) {
			out = append(out, r.enrich(t))
		}
	}
	return out, nil
}
