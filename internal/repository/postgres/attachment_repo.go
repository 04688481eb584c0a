package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SankThomas/helpdesk/internal/models"
)

type AttachmentRepo struct{ db *pgxpool.Pool }

func NewAttachmentRepo(db *pgxpool.Pool) *AttachmentRepo { return &AttachmentRepo{db: db} }

func (r *AttachmentRepo) ListByTicket(ctx context.Context, ticketID string) ([]models.Attachment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT a.id, a.ticket_id, a.uploader_id, COALESCE(u.name, ''), a.file_name, a.size, a.storage_key, a.created_at
		FROM attachments a
		JOIN users u ON u.id = a.uploader_id
		WHERE a.ticket_id = $1
		ORDER BY a.created_at ASC
	`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Attachment
	for rows.Next() {
		var a models.Attachment
		if err := rows.Scan(&a.ID, &a.TicketID, &a.UploaderID, &a.UploaderName, &a.FileName, &a.Size, &a.StorageKey, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AttachmentRepo) Get(ctx context.Context, id string) (*models.Attachment, error) {
	var a models.Attachment
	err := r.db.QueryRow(ctx, `
		SELECT id, ticket_id, uploader_id, file_name, size, storage_key, created_at
		FROM attachments WHERE id=$1
	`, id).Scan(&a.ID, &a.TicketID, &a.UploaderID, &a.FileName, &a.Size, &a.StorageKey, &a.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AttachmentRepo) Create(ctx context.Context, a *models.Attachment) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO attachments (ticket_id, uploader_id, file_name, size, storage_key, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`, a.TicketID, a.UploaderID, a.FileName, a.Size, a.StorageKey, a.CreatedAt).Scan(&a.ID)
}

func (r *AttachmentRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM attachments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
