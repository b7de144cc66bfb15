package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/servicedesk/internal/api/http"
	"github.com/spec-kit/servicedesk/internal/api/http/handlers"
	"github.com/spec-kit/servicedesk/internal/config"
	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/events"
	"github.com/spec-kit/servicedesk/internal/observability"
	"github.com/spec-kit/servicedesk/internal/repository"
	"github.com/spec-kit/servicedesk/internal/service"
	"github.com/spec-kit/servicedesk/internal/storage"
)

type stubTicketRepo struct {
	createErr error
	created   []*domain.Ticket
}

func (s *stubTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	if s.createErr != nil {
		return s.createErr
	}
	ticket.ID = int64(len(s.created) + 1)
	ticket.CreatedAt = time.Now()
	s.created = append(s.created, ticket)
	return nil
}

func (s *stubTicketRepo) GetByID(context.Context, int64) (*domain.Ticket, error) {
	return nil, pgx.ErrNoRows
}

func (s *stubTicketRepo) UpdateStatus(context.Context, int64, domain.TicketStatus) error {
	return nil
}

func (s *stubTicketRepo) ListWithFilter(context.Context, repository.TicketFilter) ([]domain.Ticket, error) {
	return nil, nil
}

func (s *stubTicketRepo) DeleteWithComments(context.Context, int64) error { return nil }

func (s *stubTicketRepo) CountByStatus(context.Context) (repository.StatusCounts, error) {
	return repository.StatusCounts{}, nil
}

func (s *stubTicketRepo) CountByField(context.Context, string) (map[string]int64, error) {
	return nil, nil
}

func newTicketApp(t *testing.T, repo repository.TicketRepository, uploadsDir string) *fiber.App {
	t.Helper()
	uploads, err := storage.NewUploadStore(uploadsDir, 1<<20)
	require.NoError(t, err)

	ticketService := service.NewTicketService(repo, events.NewInMemoryDispatcher(), config.SupportConfig{})
	handler := handlers.NewTicketsHandler(ticketService, uploads)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	app.Post("/tickets", handler.CreateTicket)
	return app
}

func multipartTicket(t *testing.T, fields map[string]string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if withImage {
		part, err := writer.CreateFormFile("image", "shot.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("png-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func validTicketFields() map[string]string {
	return map[string]string{
		"requester_name": "Budi",
		"department":     "IT",
		"category":       "Hardware",
		"priority":       "High",
		"subject":        "Laptop rusak",
		"description":    "Tidak menyala",
	}
}

func TestCreateTicketRejectionRemovesUpload(t *testing.T) {
	dir := t.TempDir()
	app := newTicketApp(t, &stubTicketRepo{}, dir)

	fields := validTicketFields()
	delete(fields, "requester_name")
	body, contentType := multipartTicket(t, fields, true)

	req := httptest.NewRequest(http.MethodPost, "/tickets", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateTicketRemovesUploadOnStoreFailure(t *testing.T) {
	dir := t.TempDir()
	app := newTicketApp(t, &stubTicketRepo{createErr: errors.New("connection refused")}, dir)

	body, contentType := multipartTicket(t, validTicketFields(), true)

	req := httptest.NewRequest(http.MethodPost, "/tickets", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateTicketMultipartKeepsUpload(t *testing.T) {
	dir := t.TempDir()
	repo := &stubTicketRepo{}
	app := newTicketApp(t, repo, dir)

	body, contentType := multipartTicket(t, validTicketFields(), true)

	req := httptest.NewRequest(http.MethodPost, "/tickets", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.Len(t, repo.created, 1)
	require.NotNil(t, repo.created[0].ImagePath)
}
