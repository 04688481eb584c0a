package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SankThomas/helpdesk/internal/models"
	"github.com/SankThomas/helpdesk/internal/repository"
)

// TicketService owns the ticket lifecycle and the authorization matrix for
// mutating it. Every entry point takes the acting user resolved from the
// session plus an explicit timestamp, never ambient state.
type TicketService struct {
	tickets repository.TicketRepository
	users   repository.UserRepository
	notifs  *NotificationService
}

func NewTicketService(tickets repository.TicketRepository, users repository.UserRepository, notifs *NotificationService) *TicketService {
	return &TicketService{tickets: tickets, users: users, notifs: notifs}
}

// List applies role scoping before any caller-supplied filter: a "user" role
// is pinned to their own tickets inside the query predicate, so neither items
// nor totals can leak other users' tickets.
func (s *TicketService) List(ctx context.Context, actor *models.User, f repository.TicketFilter) ([]models.Ticket, int, error) {
	if !actor.IsStaff() {
		f.OwnerID = actor.ID
	}
	return s.tickets.List(ctx, f)
}

func (s *TicketService) Get(ctx context.Context, actor *models.User, id string) (*models.Ticket, error) {
	t, err := s.tickets.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNotFound
	}
	if !actor.IsStaff() && t.OwnerID != actor.ID {
		return nil, ErrForbidden
	}
	return t, nil
}

type CreateTicketInput struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"required,min=1"`
	Priority    string `json:"priority"`
}

// Create opens a ticket owned by the actor. New tickets always start "open".
func (s *TicketService) Create(ctx context.Context, actor *models.User, in CreateTicketInput, now time.Time) (*models.Ticket, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || in.Description == "" {
		return nil, fmt.Errorf("%w: title and description are required", ErrInvalid)
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !models.ValidPriority(in.Priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalid, in.Priority)
	}

	t := &models.Ticket{
		Title:       in.Title,
		Description: in.Description,
		Status:      models.StatusOpen,
		Priority:    in.Priority,
		OwnerID:     actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tickets.Create(ctx, t); err != nil {
		return nil, err
	}

	s.notifs.TicketCreated(ctx, t, actor, now)
	return t, nil
}

// TicketUpdate is a partial update. Nil means "field not supplied". For the
// assignee, a supplied empty string is the explicit "unassign" sentinel.
type TicketUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	Assignee    *string `json:"assignee"`
}

func (u TicketUpdate) touchesTriageFields() bool {
	return u.Status != nil || u.Priority != nil || u.Assignee != nil
}

// Update enforces the mutation matrix:
//
//	owner (role user)  title/description of own tickets only
//	agent              all fields, any ticket
//	admin              all fields, any ticket
//
// Status transitions are deliberately free-form between the four states; the
// value itself must still be a known status.
func (s *TicketService) Update(ctx context.Context, actor *models.User, id string, upd TicketUpdate, now time.Time) (*models.Ticket, error) {
	t, err := s.tickets.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNotFound
	}

	if !actor.IsStaff() {
		if t.OwnerID != actor.ID {
			return nil, ErrForbidden
		}
		if upd.touchesTriageFields() {
			return nil, fmt.Errorf("%w: only agents can change status, priority or assignment", ErrForbidden)
		}
	}

	if upd.Title != nil {
		v := strings.TrimSpace(*upd.Title)
		if v == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalid)
		}
		t.Title = v
	}
	if upd.Description != nil {
		v := strings.TrimSpace(*upd.Description)
		if v == "" {
			return nil, fmt.Errorf("%w: description cannot be empty", ErrInvalid)
		}
		t.Description = v
	}

	statusChanged := false
	if upd.Status != nil {
		v := strings.TrimSpace(*upd.Status)
		if !models.ValidStatus(v) {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalid, v)
		}
		statusChanged = v != t.Status
		t.Status = v
	}
	if upd.Priority != nil {
		v := strings.TrimSpace(*upd.Priority)
		if !models.ValidPriority(v) {
			return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalid, v)
		}
		t.Priority = v
	}

	assigneeChanged := false
	if upd.Assignee != nil {
		v := strings.TrimSpace(*upd.Assignee)
		if v != "" {
			assignee, err := s.users.GetByID(ctx, v)
			if err != nil {
				return nil, err
			}
			if assignee == nil {
				return nil, fmt.Errorf("%w: assignee %q does not exist", ErrInvalid, v)
			}
		}
		assigneeChanged = v != t.AssigneeID
		t.AssigneeID = v
		t.AssigneeName = ""
	}

	t.UpdatedAt = now
	if err := s.tickets.Update(ctx, t); err != nil {
		return nil, err
	}

	if assigneeChanged {
		s.notifs.TicketAssigned(ctx, t, t.AssigneeID, actor, now)
	}
	if statusChanged {
		s.notifs.StatusChanged(ctx, t, actor, now)
	}

	// Re-read so owner/assignee names reflect the new assignment.
	return s.tickets.Get(ctx, id)
}

// Delete removes a ticket; admin only. Comments and attachments cascade in
// the store. Notifications referencing the ticket stay behind on purpose.
func (s *TicketService) Delete(ctx context.Context, actor *models.User, id string) error {
	if actor.Role != models.RoleAdmin {
		return ErrForbidden
	}
	t, err := s.tickets.Get(ctx, id)
	if err != nil {
		return err
	}
	if t == nil {
		return ErrNotFound
	}
	return s.tickets.Delete(ctx, id)
}

// CanViewTicket is the shared view-access predicate used by the comment and
// attachment flows.
func CanViewTicket(actor *models.User, t *models.Ticket) bool {
	return actor.IsStaff() || t.OwnerID == actor.ID
}
