package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/servicedesk/internal/domain"
)

// TicketFilter captures admin triage parameters.
type TicketFilter struct {
	Statuses   []domain.TicketStatus
	SearchTerm *string
}

// StatusCounts aggregates tickets per lifecycle state for the dashboard.
type StatusCounts struct {
	Total      int64
	Open       int64
	InProgress int64
	Resolved   int64
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) error
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	DeleteWithComments(ctx context.Context, id int64) error
	CountByStatus(ctx context.Context) (StatusCounts, error)
	CountByField(ctx context.Context, field string) (map[string]int64, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (requester_name, department, category, related_asset, priority, subject, description, status, image_path)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		ticket.RequesterName,
		ticket.Department,
		ticket.Category,
		ticket.RelatedAsset,
		ticket.Priority,
		ticket.Subject,
		ticket.Description,
		ticket.Status,
		ticket.ImagePath,
	).Scan(&ticket.ID, &ticket.CreatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	const query = `
        SELECT id, requester_name, department, category, related_asset,
               priority, subject, description, status, created_at, image_path
        FROM tickets WHERE id=$1`

	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.RequesterName,
		&ticket.Department,
		&ticket.Category,
		&ticket.RelatedAsset,
		&ticket.Priority,
		&ticket.Subject,
		&ticket.Description,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.ImagePath,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE tickets SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT id, requester_name, department, category, related_asset,
                    priority, subject, description, status, created_at, image_path
             FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(subject) LIKE %s OR LOWER(requester_name) LIKE %s)", placeholder, placeholder))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC`, base, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// DeleteWithComments removes a ticket and its thread in one transaction:
// comments first, then the ticket row. Composition delete is explicit here
// rather than a schema-level cascade.
func (r *ticketRepository) DeleteWithComments(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE ticket_id=$1`, id); err != nil {
		return err
	}
	cmd, err := tx.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return tx.Commit(ctx)
}

func (r *ticketRepository) CountByStatus(ctx context.Context) (StatusCounts, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status='Open'),
               COUNT(*) FILTER (WHERE status='In Progress'),
               COUNT(*) FILTER (WHERE status='Resolved')
        FROM tickets`

	var counts StatusCounts
	if err := r.pool.QueryRow(ctx, query).Scan(
		&counts.Total,
		&counts.Open,
		&counts.InProgress,
		&counts.Resolved,
	); err != nil {
		return StatusCounts{}, err
	}
	return counts, nil
}

var countableFields = map[string]string{
	"category":   "category",
	"department": "department",
}

// CountByField groups ticket counts by one of the allow-listed columns.
func (r *ticketRepository) CountByField(ctx context.Context, field string) (map[string]int64, error) {
	column, ok := countableFields[field]
	if !ok {
		return nil, fmt.Errorf("unsupported aggregation field %q", field)
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`SELECT %s, COUNT(*) FROM tickets GROUP BY %s`, column, column))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int64)
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		result[key] = count
	}
	return result, rows.Err()
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.RequesterName,
			&ticket.Department,
			&ticket.Category,
			&ticket.RelatedAsset,
			&ticket.Priority,
			&ticket.Subject,
			&ticket.Description,
			&ticket.Status,
			&ticket.CreatedAt,
			&ticket.ImagePath,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
