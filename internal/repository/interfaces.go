package repository

import (
	"context"
	"time"

	"github.com/SankThomas/helpdesk/internal/models"
)

type TicketRepository interface {
	// List returns a page of tickets matching the filter plus the total
	// count under the same predicate.
	List(ctx context.Context, f TicketFilter) ([]models.Ticket, int, error)
	Get(ctx context.Context, id string) (*models.Ticket, error)
	Create(ctx context.Context, t *models.Ticket) error
	Update(ctx context.Context, t *models.Ticket) error
	// Touch bumps updated_at without changing any other field.
	Touch(ctx context.Context, id string, now time.Time) error
	Delete(ctx context.Context, id string) error

	CountOpen(ctx context.Context) (int, error)
	CountResolvedSince(ctx context.Context, since time.Time) (int, error)
	CountOpenByPriorities(ctx context.Context, prios []string) (int, error)
	ListCreatedSince(ctx context.Context, since time.Time) ([]models.Ticket, error)
}

type CommentRepository interface {
	ListByTicket(ctx context.Context, ticketID string) ([]models.Comment, error)
	Get(ctx context.Context, id string) (*models.Comment, error)
	Create(ctx context.Context, c *models.Comment) error
	Delete(ctx context.Context, id string) error
}

type AttachmentRepository interface {
	ListByTicket(ctx context.Context, ticketID string) ([]models.Attachment, error)
	Get(ctx context.Context, id string) (*models.Attachment, error)
	Create(ctx context.Context, a *models.Attachment) error
	Delete(ctx context.Context, id string) error
}

type NotificationRepository interface {
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]models.Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int, error)
	Create(ctx context.Context, n *models.Notification) error
	// MarkRead flips the read flag; it is a no-op when already read or when
	// the notification does not belong to the recipient.
	MarkRead(ctx context.Context, id, recipientID string) error
	MarkAllRead(ctx context.Context, recipientID string) error
	Delete(ctx context.Context, id, recipientID string) error
}

type UserRepository interface {
	Create(ctx context.Context, email, name, role, passwordHash string) (*models.User, error)
	// UpsertExternal creates the user on first sight of an identity-provider
	// subject and returns the existing record afterwards. The stored role is
	// never overwritten by the provider.
	UpsertExternal(ctx context.Context, externalID, email, name string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, string /*passwordHash*/, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, q, role string, limit, offset int) ([]models.User, int, error)
	ListStaff(ctx context.Context) ([]models.User, error)
	UpdateRole(ctx context.Context, id, role string) (*models.User, error)
}
