package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SankThomas/helpdesk/internal/models"
	"github.com/SankThomas/helpdesk/internal/repository"
)

type TicketRepo struct{ db *pgxpool.Pool }

func NewTicketRepo(db *pgxpool.Pool) *TicketRepo { return &TicketRepo{db: db} }

const ticketColumns = `
	t.id, t.title, t.description, t.status, t.priority,
	t.owner_id, COALESCE(o.name, ''),
	COALESCE(t.assignee_id::text, ''), COALESCE(a.name, ''),
	t.created_at, t.updated_at`

const ticketJoins = `
	FROM tickets t
	JOIN users o ON o.id = t.owner_id
	LEFT JOIN users a ON a.id = t.assignee_id`

func scanTicket(row pgx.Row, t *models.Ticket) error {
	return row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.OwnerID, &t.OwnerName, &t.AssigneeID, &t.AssigneeName,
		&t.CreatedAt, &t.UpdatedAt,
	)
}

// buildTicketWhere composes the WHERE clause and args for a filter. The
// owner scope is a plain conjunct like everything else, so both the page
// query and the count query see the identical predicate.
func buildTicketWhere(f repository.TicketFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if f.OwnerID != "" {
		args = append(args, f.OwnerID)
		clauses = append(clauses, "t.owner_id = $"+itoa(len(args)))
	}
	if s := strings.TrimSpace(f.Q); s != "" {
		p := "%" + s + "%"
		args = append(args, p, p)
		clauses = append(clauses, "(t.title ILIKE $"+itoa(len(args)-1)+" OR t.description ILIKE $"+itoa(len(args))+")")
	}
	if s := strings.TrimSpace(f.Status); s != "" {
		args = append(args, s)
		clauses = append(clauses, "t.status = $"+itoa(len(args)))
	}
	if p := strings.TrimSpace(f.Priority); p != "" {
		args = append(args, p)
		clauses = append(clauses, "t.priority = $"+itoa(len(args)))
	}
	if a := strings.TrimSpace(f.Assignee); a != "" {
		args = append(args, a)
		clauses = append(clauses, "t.assignee_id = $"+itoa(len(args))+"::uuid")
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

func (r *TicketRepo) List(ctx context.Context, f repository.TicketFilter) ([]models.Ticket, int, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	whereSQL, args := buildTicketWhere(f)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) `+ticketJoins+` `+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortCol := sanitizeSort(f.Sort, "created_at")
	sortOrd := sanitizeOrder(f.Order, "asc")

	sql := fmt.Sprintf(`SELECT %s %s %s ORDER BY t.%s %s LIMIT $%d OFFSET $%d`,
		ticketColumns, ticketJoins, whereSQL, sortCol, sortOrd, len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []models.Ticket
	for rows.Next() {
		var t models.Ticket
		if err := scanTicket(rows, &t); err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

func (r *TicketRepo) Get(ctx context.Context, id string) (*models.Ticket, error) {
	var t models.Ticket
	err := scanTicket(r.db.QueryRow(ctx, `SELECT `+ticketColumns+ticketJoins+` WHERE t.id = $1`, id), &t)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepo) Create(ctx context.Context, t *models.Ticket) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO tickets (title, description, status, priority, owner_id, assignee_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`,
		t.Title, t.Description, t.Status, t.Priority, t.OwnerID, nullIfEmpty(t.AssigneeID), t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
}

func (r *TicketRepo) Update(ctx context.Context, t *models.Ticket) error {
	ct, err := r.db.Exec(ctx, `
		UPDATE tickets SET
			title=$1, description=$2, status=$3, priority=$4, assignee_id=$5, updated_at=$6
		WHERE id=$7
	`,
		t.Title, t.Description, t.Status, t.Priority, nullIfEmpty(t.AssigneeID), t.UpdatedAt, t.ID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *TicketRepo) Touch(ctx context.Context, id string, now time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE tickets SET updated_at=$1 WHERE id=$2`, now, id)
	return err
}

func (r *TicketRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// -----------------------------------------------------------------------------
// Reporting helpers (used by /api/reports)
// -----------------------------------------------------------------------------

func (r *TicketRepo) CountOpen(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM tickets WHERE status NOT IN ('resolved','closed')`).Scan(&n)
	return n, err
}

func (r *TicketRepo) CountResolvedSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM tickets WHERE status IN ('resolved','closed') AND updated_at >= $1`, since).Scan(&n)
	return n, err
}

func (r *TicketRepo) CountOpenByPriorities(ctx context.Context, prios []string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM tickets WHERE status NOT IN ('resolved','closed') AND priority = ANY($1)`, prios).Scan(&n)
	return n, err
}

func (r *TicketRepo) ListCreatedSince(ctx context.Context, since time.Time) ([]models.Ticket, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+ticketColumns+ticketJoins+` WHERE t.created_at >= $1 ORDER BY t.created_at ASC`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Ticket
	for rows.Next() {
		var t models.Ticket
		if err := scanTicket(rows, &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func sanitizeSort(s, def string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "created_at", "updated_at", "priority":
		return strings.ToLower(strings.TrimSpace(s))
	default:
		return def
	}
}

func sanitizeOrder(o, def string) string {
	switch strings.ToLower(strings.TrimSpace(o)) {
	case "asc", "desc":
		return strings.ToLower(strings.TrimSpace(o))
	default:
		return def
	}
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// small helper to avoid fmt on hot query-building paths.
func itoa(i int) string { return strconv.Itoa(i) }
