package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/servicedesk/internal/domain"
)

// CommentRepository manages the append-only ticket thread.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByTicket(ctx context.Context, ticketID, sinceID int64) ([]domain.Comment, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository builds repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (ticket_id, sender, content)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		comment.TicketID,
		comment.Sender,
		comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt)
}

// ListByTicket returns comments in creation order. sinceID supports the
// incremental poll loop: pass the last seen comment ID, or 0 for the full
// thread.
func (r *commentRepository) ListByTicket(ctx context.Context, ticketID, sinceID int64) ([]domain.Comment, error) {
	const query = `
        SELECT id, ticket_id, sender, content, created_at
        FROM comments WHERE ticket_id=$1 AND id > $2 ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, query, ticketID, sinceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.TicketID,
			&comment.Sender,
			&comment.Content,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}
