package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SankThomas/helpdesk/internal/models"
)

type NotificationRepo struct{ db *pgxpool.Pool }

func NewNotificationRepo(db *pgxpool.Pool) *NotificationRepo { return &NotificationRepo{db: db} }

func (r *NotificationRepo) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, recipient_id, type, title, message, COALESCE(ticket_id::text, ''), COALESCE(actor_id::text, ''), read, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, recipientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Type, &n.Title, &n.Message, &n.TicketID, &n.ActorID, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationRepo) CountUnread(ctx context.Context, recipientID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id=$1 AND NOT read`, recipientID).Scan(&n)
	return n, err
}

func (r *NotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO notifications (recipient_id, type, title, message, ticket_id, actor_id, read, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`, n.RecipientID, n.Type, n.Title, n.Message, nullIfEmpty(n.TicketID), nullIfEmpty(n.ActorID), n.Read, n.CreatedAt).Scan(&n.ID)
}

// MarkRead is idempotent: re-marking an already read notification matches
// zero unread rows and changes nothing.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, recipientID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE notifications SET read=true WHERE id=$1 AND recipient_id=$2`, id, recipientID)
	return err
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, recipientID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE notifications SET read=true WHERE recipient_id=$1 AND NOT read`, recipientID)
	return err
}

func (r *NotificationRepo) Delete(ctx context.Context, id, recipientID string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM notifications WHERE id=$1 AND recipient_id=$2`, id, recipientID)
	return err
}
