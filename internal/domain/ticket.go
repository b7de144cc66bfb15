package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
)

// IsValid reports whether the status is one of the enumerated values.
// Transitions between valid statuses are deliberately unconstrained.
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved:
		return true
	}
	return false
}

// TicketPriority enumerates reported urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "Low"
	TicketPriorityMedium   TicketPriority = "Medium"
	TicketPriorityHigh     TicketPriority = "High"
	TicketPriorityCritical TicketPriority = "Critical"
)

// IsValid reports whether the priority is one of the enumerated values.
func (p TicketPriority) IsValid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// IsUrgent reports whether the priority warrants the emphasized alert marker.
func (p TicketPriority) IsUrgent() bool {
	return p == TicketPriorityHigh || p == TicketPriorityCritical
}

// Ticket is the central entity: one reported issue plus its discussion
// thread. Tickets are never physically deleted by requesters; only an admin
// removes them, together with their comments.
type Ticket struct {
	ID            int64
	RequesterName string
	Department    string
	Category      string
	RelatedAsset  *string
	Priority      TicketPriority
	Subject       string
	Description   string
	Status        TicketStatus
	CreatedAt     time.Time
	ImagePath     *string
}
