package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/servicedesk/internal/config"
	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/events"
	"github.com/spec-kit/servicedesk/internal/repository"
	apperrors "github.com/spec-kit/servicedesk/pkg/util/errorutil"
)

// TicketService coordinates the ticket lifecycle.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	support    config.SupportConfig
	now        func() time.Time
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	RequesterName string
	Department    string
	Category      string
	RelatedAsset  *string
	Priority      domain.TicketPriority
	Subject       string
	Description   string
	ImagePath     *string
}

// TicketListFilter describes admin triage filters.
type TicketListFilter struct {
	Statuses   []domain.TicketStatus
	SearchTerm *string
}

// TicketWithSLA pairs a ticket with its recomputed aging indicator.
type TicketWithSLA struct {
	Ticket domain.Ticket
	SLA    domain.SLAStatus
}

// DashboardStats aggregates operational counters for the admin dashboard.
type DashboardStats struct {
	Counts       repository.StatusCounts
	ByCategory   map[string]int64
	ByDepartment map[string]int64
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, dispatcher events.Dispatcher, support config.SupportConfig) *TicketService {
	return &TicketService{
		tickets:    tickets,
		dispatcher: dispatcher,
		support:    support,
		now:        time.Now,
	}
}

// Create validates and persists a new ticket with status Open, then emits
// ticket_created. Alerting hangs off the event bus, so a failed notification
// can never roll the ticket back.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	input.RequesterName = strings.TrimSpace(input.RequesterName)
	input.Subject = strings.TrimSpace(input.Subject)
	input.Description = strings.TrimSpace(input.Description)

	missing := map[string]any{}
	if input.RequesterName == "" {
		missing["requester_name"] = "required"
	}
	if input.Subject == "" {
		missing["subject"] = "required"
	}
	if input.Description == "" {
		missing["description"] = "required"
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("requester_name, subject and description are required", missing)
	}
	if !input.Priority.IsValid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": input.Priority})
	}

	ticket := &domain.Ticket{
		RequesterName: input.RequesterName,
		Department:    input.Department,
		Category:      input.Category,
		RelatedAsset:  input.RelatedAsset,
		Priority:      input.Priority,
		Subject:       input.Subject,
		Description:   input.Description,
		Status:        domain.TicketStatusOpen,
		ImagePath:     input.ImagePath,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			RequesterName: ticket.RequesterName,
			Department:    ticket.Department,
			Priority:      ticket.Priority,
			Subject:       ticket.Subject,
		},
	})
	return ticket, nil
}

// EmergencyContactURL returns the escalation affordance surfaced for
// critical-priority submissions, empty when unconfigured or not warranted.
func (s *TicketService) EmergencyContactURL(priority domain.TicketPriority) string {
	if priority != domain.TicketPriorityCritical {
		return ""
	}
	return s.support.EmergencyContactURL
}

// Lookup fetches a ticket by numeric ID and attaches its SLA indicator.
func (s *TicketService) Lookup(ctx context.Context, id int64) (*TicketWithSLA, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, err
	}
	return &TicketWithSLA{
		Ticket: *ticket,
		SLA:    domain.ComputeSLA(ticket.Status, ticket.CreatedAt, s.now()),
	}, nil
}

// SetStatus persists a status change. Any enumerated status is accepted from
// any current status; only enum membership is validated, and no history of
// previous values is kept.
func (s *TicketService) SetStatus(ctx context.Context, id int64, newStatus domain.TicketStatus) (*TicketWithSLA, error) {
	if !newStatus.IsValid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": newStatus})
	}

	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, err
	}

	oldStatus := ticket.Status
	if oldStatus != newStatus {
		if err := s.tickets.UpdateStatus(ctx, id, newStatus); err != nil {
			return nil, err
		}
		ticket.Status = newStatus
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			Payload: events.TicketStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: newStatus,
			},
		})
	}

	return &TicketWithSLA{
		Ticket: *ticket,
		SLA:    domain.ComputeSLA(ticket.Status, ticket.CreatedAt, s.now()),
	}, nil
}

// List returns tickets for the admin triage view, newest first, each with
// its SLA indicator recomputed at read time.
func (s *TicketService) List(ctx context.Context, filter TicketListFilter) ([]TicketWithSLA, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		Statuses:   filter.Statuses,
		SearchTerm: filter.SearchTerm,
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := make([]TicketWithSLA, 0, len(tickets))
	for _, ticket := range tickets {
		result = append(result, TicketWithSLA{
			Ticket: ticket,
			SLA:    domain.ComputeSLA(ticket.Status, ticket.CreatedAt, now),
		})
	}
	return result, nil
}

// Delete removes a ticket and its comments in one transaction.
func (s *TicketService) Delete(ctx context.Context, id int64) error {
	if err := s.tickets.DeleteWithComments(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

// Dashboard aggregates status totals plus category and department breakdowns.
func (s *TicketService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	counts, err := s.tickets.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.tickets.CountByField(ctx, "category")
	if err != nil {
		return nil, err
	}
	byDepartment, err := s.tickets.CountByField(ctx, "department")
	if err != nil {
		return nil, err
	}
	return &DashboardStats{
		Counts:       counts,
		ByCategory:   byCategory,
		ByDepartment: byDepartment,
	}, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
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
