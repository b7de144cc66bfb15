package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/servicedesk/internal/config"
	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/events"
	"github.com/spec-kit/servicedesk/internal/repository"
	apperrors "github.com/spec-kit/servicedesk/pkg/util/errorutil"
)

func newTicketService(repo *MockTicketRepo, dispatcher events.Dispatcher) *TicketService {
	return NewTicketService(repo, dispatcher, config.SupportConfig{EmergencyContactURL: "https://chat.example.com/emergency"})
}

func validCreateInput() TicketCreateInput {
	return TicketCreateInput{
		RequesterName: "Budi",
		Department:    "IT",
		Category:      "Hardware",
		Priority:      domain.TicketPriorityCritical,
		Subject:       "Laptop rusak",
		Description:   "Tidak menyala",
	}
}

func TestCreateTicketOpensWithTimestamp(t *testing.T) {
	repo := new(MockTicketRepo)
	dispatcher := &recordingDispatcher{}
	svc := newTicketService(repo, dispatcher)

	start := time.Now()
	repo.On("Create", mock.AnythingOfType("*domain.Ticket")).Run(func(args mock.Arguments) {
		ticket := args.Get(0).(*domain.Ticket)
		ticket.ID = 1
		ticket.CreatedAt = time.Now()
	}).Return(nil)

	ticket, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.False(t, ticket.CreatedAt.Before(start))
	assert.False(t, ticket.CreatedAt.After(time.Now()))
	repo.AssertExpectations(t)
}

func TestCreateTicketPublishesCreatedEvent(t *testing.T) {
	repo := new(MockTicketRepo)
	dispatcher := &recordingDispatcher{}
	svc := newTicketService(repo, dispatcher)

	repo.On("Create", mock.Anything).Run(func(args mock.Arguments) {
		args.Get(0).(*domain.Ticket).ID = 42
	}).Return(nil)

	_, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	require.Len(t, dispatcher.published, 1)
	event := dispatcher.published[0]
	assert.Equal(t, events.EventTicketCreated, event.Type)
	assert.Equal(t, int64(42), event.TicketID)
	assert.NotEmpty(t, event.ID)

	payload := event.Payload.(events.TicketCreatedPayload)
	assert.Equal(t, "Budi", payload.RequesterName)
	assert.Equal(t, "IT", payload.Department)
	assert.Equal(t, domain.TicketPriorityCritical, payload.Priority)
	assert.Equal(t, "Laptop rusak", payload.Subject)
}

func TestCreateTicketValidationWritesNothing(t *testing.T) {
	repo := new(MockTicketRepo)
	svc := newTicketService(repo, &recordingDispatcher{})

	tests := []struct {
		name   string
		mutate func(*TicketCreateInput)
	}{
		{"empty requester", func(in *TicketCreateInput) { in.RequesterName = "  " }},
		{"empty subject", func(in *TicketCreateInput) { in.Subject = "" }},
		{"empty description", func(in *TicketCreateInput) { in.Description = "" }},
		{"invalid priority", func(in *TicketCreateInput) { in.Priority = "Severe" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validCreateInput()
			tt.mutate(&input)

			_, err := svc.Create(context.Background(), input)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
		})
	}

	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestEmergencyContactOnlyForCritical(t *testing.T) {
	svc := newTicketService(new(MockTicketRepo), &recordingDispatcher{})

	assert.Equal(t, "https://chat.example.com/emergency", svc.EmergencyContactURL(domain.TicketPriorityCritical))
	assert.Empty(t, svc.EmergencyContactURL(domain.TicketPriorityHigh))
	assert.Empty(t, svc.EmergencyContactURL(domain.TicketPriorityLow))
}

func TestLookupAttachesSLA(t *testing.T) {
	repo := new(MockTicketRepo)
	svc := newTicketService(repo, &recordingDispatcher{})
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	repo.On("GetByID", int64(3)).Return(&domain.Ticket{
		ID:        3,
		Status:    domain.TicketStatusOpen,
		CreatedAt: now.Add(-30 * time.Hour),
	}, nil)

	item, err := svc.Lookup(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, domain.SLATierWarning, item.SLA.Tier)
	assert.Equal(t, "1d", item.SLA.Label)
}

func TestLookupMissIsNotFound(t *testing.T) {
	repo := new(MockTicketRepo)
	svc := newTicketService(repo, &recordingDispatcher{})

	repo.On("GetByID", int64(99)).Return(nil, pgx.ErrNoRows)

	_, err := svc.Lookup(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestSetStatusAcceptsAnyTransition(t *testing.T) {
	// Transitions are deliberately unguarded, including Resolved back to Open.
	repo := new(MockTicketRepo)
	dispatcher := &recordingDispatcher{}
	svc := newTicketService(repo, dispatcher)

	repo.On("GetByID", int64(5)).Return(&domain.Ticket{
		ID:        5,
		Status:    domain.TicketStatusResolved,
		CreatedAt: time.Now().Add(-time.Hour),
	}, nil)
	repo.On("UpdateStatus", int64(5), domain.TicketStatusOpen).Return(nil)

	item, err := svc.SetStatus(context.Background(), 5, domain.TicketStatusOpen)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, item.Ticket.Status)

	require.Len(t, dispatcher.published, 1)
	payload := dispatcher.published[0].Payload.(events.TicketStatusChangedPayload)
	assert.Equal(t, domain.TicketStatusResolved, payload.OldStatus)
	assert.Equal(t, domain.TicketStatusOpen, payload.NewStatus)
}

func TestSetStatusResolvedYieldsTerminalSLA(t *testing.T) {
	repo := new(MockTicketRepo)
	svc := newTicketService(repo, &recordingDispatcher{})

	repo.On("GetByID", int64(5)).Return(&domain.Ticket{
		ID:        5,
		Status:    domain.TicketStatusInProgress,
		CreatedAt: time.Now().Add(-100 * 24 * time.Hour),
	}, nil)
	repo.On("UpdateStatus", int64(5), domain.TicketStatusResolved).Return(nil)

	item, err := svc.SetStatus(context.Background(), 5, domain.TicketStatusResolved)
	require.NoError(t, err)
	assert.Equal(t, domain.SLATierDone, item.SLA.Tier)
	assert.Equal(t, "Done", item.SLA.Label)
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	repo := new(MockTicketRepo)
	svc := newTicketService(repo, &recordingDispatcher{})

	_, err := svc.SetStatus(context.Background(), 5, "Escalated")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestSetStatusNoopSkipsWriteAndEvent(t *testing.T) {
	repo := new(MockTicketRepo)
	dispatcher := &recordingDispatcher{}
	svc := newTicketService(repo, dispatcher)

	repo.On("GetByID", int64(5)).Return(&domain.Ticket{
		ID:        5,
		Status:    domain.TicketStatusOpen,
		CreatedAt: time.Now(),
	}, nil)

	_, err := svc.SetStatus(context.Background(), 5, domain.TicketStatusOpen)
	require.NoError(t, err)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
	assert.Empty(t, dispatcher.published)
}

func TestListAttachesSLAPerTicket(t *testing.T) {
	repo := new(MockTicketRepo)
	svc := newTicketService(repo, &recordingDispatcher{})
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	repo.On("ListWithFilter", mock.AnythingOfType("repository.TicketFilter")).Return([]domain.Ticket{
		{ID: 1, Status: domain.TicketStatusOpen, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: 2, Status: domain.TicketStatusResolved, CreatedAt: now.Add(-90 * time.Hour)},
	}, nil)

	items, err := svc.List(context.Background(), TicketListFilter{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, domain.SLATierOnTrack, items[0].SLA.Tier)
	assert.Equal(t, domain.SLATierDone, items[1].SLA.Tier)
}

func TestListForwardsFilter(t *testing.T) {
	repo := new(MockTicketRepo)
	svc := newTicketService(repo, &recordingDispatcher{})

	search := "laptop"
	expected := repository.TicketFilter{
		Statuses:   []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusInProgress},
		SearchTerm: &search,
	}
	repo.On("ListWithFilter", expected).Return([]domain.Ticket{}, nil)

	_, err := svc.List(context.Background(), TicketListFilter{
		Statuses:   []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusInProgress},
		SearchTerm: &search,
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDeleteMapsMissingTicket(t *testing.T) {
	repo := new(MockTicketRepo)
	svc := newTicketService(repo, &recordingDispatcher{})

	repo.On("DeleteWithComments", int64(7)).Return(pgx.ErrNoRows)

	err := svc.Delete(context.Background(), 7)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestDashboardAggregates(t *testing.T) {
	repo := new(MockTicketRepo)
	svc := newTicketService(repo, &recordingDispatcher{})

	repo.On("CountByStatus").Return(repository.StatusCounts{Total: 10, Open: 4, InProgress: 3, Resolved: 3}, nil)
	repo.On("CountByField", "category").Return(map[string]int64{"Hardware": 6, "Network": 4}, nil)
	repo.On("CountByField", "department").Return(map[string]int64{"IT": 7, "Finance": 3}, nil)

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.Counts.Total)
	assert.Equal(t, int64(6), stats.ByCategory["Hardware"])
	assert.Equal(t, int64(3), stats.ByDepartment["Finance"])
}
