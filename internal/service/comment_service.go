package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/events"
	"github.com/spec-kit/servicedesk/internal/repository"
	apperrors "github.com/spec-kit/servicedesk/pkg/util/errorutil"
)

const previewLength = 120

// Canned admin replies, mirrored from the triage quick-action buttons.
var quickReplies = map[string]string{
	"received": "Report received. We are looking into it now.",
	"restart":  "Please restart your device first and tell us if the issue persists.",
	"resolved": "Issue resolved. The ticket is being closed.",
}

// CommentService manages the append-only thread attached to each ticket.
type CommentService struct {
	comments   repository.CommentRepository
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// NewCommentService constructs the service.
func NewCommentService(comments repository.CommentRepository, tickets repository.TicketRepository, dispatcher events.Dispatcher) *CommentService {
	return &CommentService{
		comments:   comments,
		tickets:    tickets,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// Append adds a message to the thread. The sender label comes from the
// caller's role, never from input: admins post as the admin identity, every
// other principal posts as the ticket's original requester. Requester
// replies emit comment_added for the outbound alert path.
func (s *CommentService) Append(ctx context.Context, ticketID int64, isAdmin bool, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content required", nil)
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, err
	}

	sender := ticket.RequesterName
	if isAdmin {
		sender = domain.AdminSenderLabel
	}

	comment := &domain.Comment{
		TicketID: ticket.ID,
		Sender:   sender,
		Content:  content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventCommentAdded,
		TicketID: ticket.ID,
		Payload: events.CommentAddedPayload{
			Comment:   *comment,
			FromAdmin: isAdmin,
			Preview:   preview(comment.Content, previewLength),
		},
	})
	return comment, nil
}

// QuickReply posts one of the canned admin responses by key.
func (s *CommentService) QuickReply(ctx context.Context, ticketID int64, key string) (*domain.Comment, error) {
	text, ok := quickReplies[key]
	if !ok {
		return nil, apperrors.NewValidationError("unknown quick reply", map[string]any{"key": key})
	}
	return s.Append(ctx, ticketID, true, text)
}

// List returns the thread in creation order. sinceID supports incremental
// polling; pass 0 for the full thread. Volume per ticket is expected to stay
// small, so there is no pagination.
func (s *CommentService) List(ctx context.Context, ticketID, sinceID int64) ([]domain.Comment, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, err
	}
	return s.comments.ListByTicket(ctx, ticketID, sinceID)
}

func (s *CommentService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// preview truncates on rune boundaries; alert text must stay valid UTF-8.
func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
