package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/SankThomas/helpdesk/internal/models"
	"github.com/SankThomas/helpdesk/internal/repository"
)

// VisibleComments returns the comments a viewer with the given role may see:
// the "user" role never sees internal notes, staff roles see everything. The
// input is not mutated and relative order is preserved.
func VisibleComments(comments []models.Comment, viewerRole string) []models.Comment {
	if viewerRole != models.RoleUser {
		return comments
	}
	out := make([]models.Comment, 0, len(comments))
	for _, c := range comments {
		if !c.Internal {
			out = append(out, c)
		}
	}
	return out
}

type CommentService struct {
	comments repository.CommentRepository
	tickets  repository.TicketRepository
	notifs   *NotificationService
	policy   *bluemonday.Policy
}

func NewCommentService(comments repository.CommentRepository, tickets repository.TicketRepository, notifs *NotificationService) *CommentService {
	return &CommentService{
		comments: comments,
		tickets:  tickets,
		notifs:   notifs,
		policy:   bluemonday.UGCPolicy(),
	}
}

func (s *CommentService) ticketForViewer(ctx context.Context, actor *models.User, ticketID string) (*models.Ticket, error) {
	t, err := s.tickets.Get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNotFound
	}
	if !CanViewTicket(actor, t) {
		return nil, ErrForbidden
	}
	return t, nil
}

func (s *CommentService) ListForTicket(ctx context.Context, actor *models.User, ticketID string) ([]models.Comment, error) {
	if _, err := s.ticketForViewer(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return VisibleComments(comments, actor.Role), nil
}

// Add stores a comment on a ticket the actor can view, bumps the ticket's
// updated_at and fans out notifications. Rich-text content is sanitized
// server-side; internal notes are restricted to staff.
func (s *CommentService) Add(ctx context.Context, actor *models.User, ticketID, content string, internal bool, now time.Time) (*models.Comment, error) {
	t, err := s.ticketForViewer(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if internal && !actor.IsStaff() {
		return nil, fmt.Errorf("%w: internal notes are staff-only", ErrForbidden)
	}

	content = strings.TrimSpace(s.policy.Sanitize(content))
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalid)
	}

	c := &models.Comment{
		TicketID:  ticketID,
		AuthorID:  actor.ID,
		Content:   content,
		Internal:  internal,
		CreatedAt: now,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	c.AuthorName = actor.Name

	// Best-effort side effects; the comment itself is already durable.
	_ = s.tickets.Touch(ctx, ticketID, now)
	s.notifs.CommentAdded(ctx, t, c, actor, now)

	return c, nil
}

func (s *CommentService) Delete(ctx context.Context, actor *models.User, id string) error {
	if actor.Role != models.RoleAdmin {
		return ErrForbidden
	}
	c, err := s.comments.Get(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrNotFound
	}
	return s.comments.Delete(ctx, id)
}
