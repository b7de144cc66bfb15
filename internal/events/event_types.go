package events

import (
	"time"

	"github.com/spec-kit/servicedesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventCommentAdded        EventType = "comment_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	RequesterName string                `json:"requester_name"`
	Department    string                `json:"department"`
	Priority      domain.TicketPriority `json:"priority"`
	Subject       string                `json:"subject"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// CommentAddedPayload payload. FromAdmin distinguishes staff replies, which
// do not trigger outbound alerts, from requester replies, which do.
type CommentAddedPayload struct {
	Comment   domain.Comment `json:"comment"`
	FromAdmin bool           `json:"from_admin"`
	Preview   string         `json:"preview"`
}
