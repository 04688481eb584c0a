package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SankThomas/helpdesk/internal/models"
)

type CommentRepo struct{ db *pgxpool.Pool }

func NewCommentRepo(db *pgxpool.Pool) *CommentRepo { return &CommentRepo{db: db} }

func (r *CommentRepo) ListByTicket(ctx context.Context, ticketID string) ([]models.Comment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.ticket_id, c.author_id, COALESCE(u.name, ''), c.content, c.internal, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.ticket_id = $1
		ORDER BY c.created_at ASC
	`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.TicketID, &c.AuthorID, &c.AuthorName, &c.Content, &c.Internal, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CommentRepo) Get(ctx context.Context, id string) (*models.Comment, error) {
	var c models.Comment
	err := r.db.QueryRow(ctx, `
		SELECT id, ticket_id, author_id, content, internal, created_at
		FROM comments WHERE id=$1
	`, id).Scan(&c.ID, &c.TicketID, &c.AuthorID, &c.Content, &c.Internal, &c.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CommentRepo) Create(ctx context.Context, c *models.Comment) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO comments (ticket_id, author_id, content, internal, created_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`, c.TicketID, c.AuthorID, c.Content, c.Internal, c.CreatedAt).Scan(&c.ID)
}

func (r *CommentRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
