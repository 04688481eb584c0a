package memory

import (
	"context"
	"sync"

	"github.com/SankThomas/helpdesk/internal/models"
)

type NotificationRepo struct {
	mu    sync.RWMutex
	ids   ids
	byID  map[string]models.Notification
	order []string
}

func NewNotificationRepo() *NotificationRepo {
	return &NotificationRepo{byID: map[string]models.Notification{}}
}

// All returns every stored notification in insertion order. Test helper.
func (r *NotificationRepo) All() []models.Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Notification, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

func (r *NotificationRepo) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Notification
	for i := len(r.order) - 1; i >= 0; i-- {
		n := r.byID[r.order[i]]
		if n.RecipientID != recipientID {
			continue
		}
		out = append(out, n)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *NotificationRepo) CountUnread(ctx context.Context, recipientID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, notif := range r.byID {
		if notif.RecipientID == recipientID && !notif.Read {
			n++
		}
	}
	return n, nil
}

func (r *NotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = r.ids.new("nt")
	r.byID[n.ID] = *n
	r.order = append(r.order, n.ID)
	return nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id, recipientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.byID[id]
	if !ok || n.RecipientID != recipientID {
		return nil
	}
	n.Read = true
	r.byID[id] = n
	return nil
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, recipientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, n := range r.byID {
		if n.RecipientID == recipientID && !n.Read {
			n.Read = true
			r.byID[id] = n
		}
	}
	return nil
}

func (r *NotificationRepo) Delete(ctx context.Context, id, recipientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.byID[id]
	if !ok || n.RecipientID != recipientID {
		return nil
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
