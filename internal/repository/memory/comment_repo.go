package memory

import (
	"context"
	"sync"

	"github.com/SankThomas/helpdesk/internal/models"
)

type CommentRepo struct {
	mu    sync.RWMutex
	ids   ids
	byID  map[string]models.Comment
	order []string
	users *UserRepo
}

func NewCommentRepo(users *UserRepo) *CommentRepo {
	return &CommentRepo{byID: map[string]models.Comment{}, users: users}
}

func (r *CommentRepo) ListByTicket(ctx context.Context, ticketID string) ([]models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Comment
	for _, id := range r.order {
		c := r.byID[id]
		if c.TicketID != ticketID {
			continue
		}
		if r.users != nil {
			if u, _ := r.users.GetByID(ctx, c.AuthorID); u != nil {
				c.AuthorName = u.Name
			}
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *CommentRepo) Get(ctx context.Context, id string) (*models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CommentRepo) Create(ctx context.Context, c *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.ids.new("cm")
	r.byID[c.ID] = *c
	r.order = append(r.order, c.ID)
	return nil
}

func (r *CommentRepo) Delete(ctx context.Context, id string) error {
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
