package memory

import (
	"context"
	"sync"

	"github.com/SankThomas/helpdesk/internal/models"
)

type AttachmentRepo struct {
	mu    sync.RWMutex
	ids   ids
	byID  map[string]models.Attachment
	order []string
}

func NewAttachmentRepo() *AttachmentRepo {
	return &AttachmentRepo{byID: map[string]models.Attachment{}}
}

func (r *AttachmentRepo) ListByTicket(ctx context.Context, ticketID string) ([]models.Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Attachment
	for _, id := range r.order {
		a := r.byID[id]
		if a.TicketID == ticketID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *AttachmentRepo) Get(ctx context.Context, id string) (*models.Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *AttachmentRepo) Create(ctx context.Context, a *models.Attachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = r.ids.new("at")
	r.byID[a.ID] = *a
	r.order = append(r.order, a.ID)
	return nil
}

func (r *AttachmentRepo) Delete(ctx context.Context, id string) error {
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
