package dto

import (
	"time"

	"github.com/spec-kit/servicedesk/internal/domain"
)

// CreateTicketRequest payload. Submissions with an attachment arrive as
// multipart form data instead; the handler maps both onto the same input.
type CreateTicketRequest struct {
	RequesterName string                `json:"requester_name"`
	Department    string                `json:"department"`
	Category      string                `json:"category"`
	RelatedAsset  *string               `json:"related_asset"`
	Priority      domain.TicketPriority `json:"priority"`
	Subject       string                `json:"subject"`
	Description   string                `json:"description"`
}

// UpdateTicketStatusRequest payload.
type UpdateTicketStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// SLAResponse is the display-only aging indicator.
type SLAResponse struct {
	Tier  domain.SLATier `json:"tier"`
	Label string         `json:"label"`
}

// TicketResponse response.
type TicketResponse struct {
	ID            int64                 `json:"id"`
	RequesterName string                `json:"requester_name"`
	Department    string                `json:"department"`
	Category      string                `json:"category"`
	RelatedAsset  *string               `json:"related_asset"`
	Priority      domain.TicketPriority `json:"priority"`
	Subject       string                `json:"subject"`
	Description   string                `json:"description"`
	Status        domain.TicketStatus   `json:"status"`
	SLA           SLAResponse           `json:"sla"`
	ImageURL      *string               `json:"image_url"`
	CreatedAt     time.Time             `json:"created_at"`
}

// CreateTicketResponse wraps a fresh ticket with the escalation affordance
// surfaced for critical-priority submissions.
type CreateTicketResponse struct {
	Ticket              TicketResponse `json:"ticket"`
	EmergencyContactURL string         `json:"emergency_contact_url,omitempty"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// QuickReplyRequest payload.
type QuickReplyRequest struct {
	Key string `json:"key"`
}

// CommentResponse represents one thread message.
type CommentResponse struct {
	ID        int64     `json:"id"`
	TicketID  int64     `json:"ticket_id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// DashboardResponse aggregates admin counters.
type DashboardResponse struct {
	Total        int64            `json:"total"`
	Open         int64            `json:"open"`
	InProgress   int64            `json:"in_progress"`
	Resolved     int64            `json:"resolved"`
	ByCategory   map[string]int64 `json:"by_category"`
	ByDepartment map[string]int64 `json:"by_department"`
}

// AdviceResponse carries a generated remediation suggestion.
type AdviceResponse struct {
	Suggestion string `json:"suggestion"`
}

// KBArticleResponse is one self-service knowledge base entry.
type KBArticleResponse struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
	Body  string `json:"body"`
}
