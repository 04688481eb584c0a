package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/SankThomas/helpdesk/internal/models"
	"github.com/SankThomas/helpdesk/internal/repository"
)

// NotificationService owns the fan-out on ticket and comment events. Each
// emitted notification is an independent insert; there is no transaction
// spanning the triggering mutation and the fan-out, so a failed insert is
// logged and skipped rather than rolling anything back.
type NotificationService struct {
	notifs repository.NotificationRepository
	users  repository.UserRepository
	mailer *Mailer
	log    zerolog.Logger
}

func NewNotificationService(notifs repository.NotificationRepository, users repository.UserRepository, mailer *Mailer, log zerolog.Logger) *NotificationService {
	return &NotificationService{notifs: notifs, users: users, mailer: mailer, log: log}
}

// CommentAdded applies the two comment fan-out rules independently:
//  1. public comment by someone other than the owner -> notify the owner
//  2. internal note -> notify every agent/admin except the author
//
// Users with the "user" role never receive internal-note notifications.
func (s *NotificationService) CommentAdded(ctx context.Context, ticket *models.Ticket, comment *models.Comment, actor *models.User, now time.Time) {
	if !comment.Internal && ticket.OwnerID != actor.ID {
		s.deliver(ctx, models.Notification{
			RecipientID: ticket.OwnerID,
			Type:        models.NotifCommentAdded,
			Title:       "New Reply on Your Ticket",
			Message:     fmt.Sprintf("%s replied to your ticket: %s", actor.Name, ticket.Title),
			TicketID:    ticket.ID,
			ActorID:     actor.ID,
			CreatedAt:   now,
		})
	}

	if comment.Internal {
		staff, err := s.users.ListStaff(ctx)
		if err != nil {
			s.log.Error().Err(err).Str("ticket", ticket.ID).Msg("staff lookup for internal-note fan-out failed")
			return
		}
		for _, u := range staff {
			if u.ID == actor.ID {
				continue
			}
			s.deliver(ctx, models.Notification{
				RecipientID: u.ID,
				Type:        models.NotifInternalNoteAdded,
				Title:       "Internal Note Added",
				Message:     fmt.Sprintf("%s added an internal note to: %s", actor.Name, ticket.Title),
				TicketID:    ticket.ID,
				ActorID:     actor.ID,
				CreatedAt:   now,
			})
		}
	}
}

// TicketCreated tells the staff a new ticket arrived.
func (s *NotificationService) TicketCreated(ctx context.Context, ticket *models.Ticket, actor *models.User, now time.Time) {
	staff, err := s.users.ListStaff(ctx)
	if err != nil {
		s.log.Error().Err(err).Str("ticket", ticket.ID).Msg("staff lookup for ticket-created fan-out failed")
		return
	}
	for _, u := range staff {
		if u.ID == actor.ID {
			continue
		}
		s.deliver(ctx, models.Notification{
			RecipientID: u.ID,
			Type:        models.NotifTicketCreated,
			Title:       "New Ticket Created",
			Message:     fmt.Sprintf("%s created a new ticket: %s", actor.Name, ticket.Title),
			TicketID:    ticket.ID,
			ActorID:     actor.ID,
			CreatedAt:   now,
		})
	}
}

// TicketAssigned notifies the new assignee, unless they assigned themselves.
func (s *NotificationService) TicketAssigned(ctx context.Context, ticket *models.Ticket, assigneeID string, actor *models.User, now time.Time) {
	if assigneeID == "" || assigneeID == actor.ID {
		return
	}
	s.deliver(ctx, models.Notification{
		RecipientID: assigneeID,
		Type:        models.NotifTicketAssigned,
		Title:       "Ticket Assigned to You",
		Message:     fmt.Sprintf("%s assigned you a ticket: %s", actor.Name, ticket.Title),
		TicketID:    ticket.ID,
		ActorID:     actor.ID,
		CreatedAt:   now,
	})
}

// StatusChanged notifies the ticket owner, unless the owner made the change.
func (s *NotificationService) StatusChanged(ctx context.Context, ticket *models.Ticket, actor *models.User, now time.Time) {
	if ticket.OwnerID == actor.ID {
		return
	}
	s.deliver(ctx, models.Notification{
		RecipientID: ticket.OwnerID,
		Type:        models.NotifTicketStatusChanged,
		Title:       "Ticket Status Updated",
		Message:     fmt.Sprintf("%s changed the status of %q to %s", actor.Name, ticket.Title, ticket.Status),
		TicketID:    ticket.ID,
		ActorID:     actor.ID,
		CreatedAt:   now,
	})
}

// deliver persists one notification and best-effort emails the recipient.
func (s *NotificationService) deliver(ctx context.Context, n models.Notification) {
	n.Read = false
	if err := s.notifs.Create(ctx, &n); err != nil {
		s.log.Error().Err(err).Str("recipient", n.RecipientID).Str("type", n.Type).Msg("notification insert failed")
		return
	}
	if s.mailer == nil {
		return
	}
	if u, err := s.users.GetByID(ctx, n.RecipientID); err == nil && u != nil && u.Email != "" {
		s.mailer.SendAsync(u.Email, n.Title, n.Message)
	}
}

// ---------------------------------------------------------------------------
// Recipient-facing operations
// ---------------------------------------------------------------------------

func (s *NotificationService) List(ctx context.Context, actor *models.User, limit int) ([]models.Notification, error) {
	return s.notifs.ListByRecipient(ctx, actor.ID, limit)
}

func (s *NotificationService) UnreadCount(ctx context.Context, actor *models.User) (int, error) {
	return s.notifs.CountUnread(ctx, actor.ID)
}

// MarkRead is idempotent; marking an already-read notification again is a
// no-op and never creates records.
func (s *NotificationService) MarkRead(ctx context.Context, actor *models.User, id string) error {
	return s.notifs.MarkRead(ctx, id, actor.ID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, actor *models.User) error {
	return s.notifs.MarkAllRead(ctx, actor.ID)
}

func (s *NotificationService) Delete(ctx context.Context, actor *models.User, id string) error {
	return s.notifs.Delete(ctx, id, actor.ID)
}
