package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/servicedesk/internal/api/dto"
	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/service"
	apperrors "github.com/spec-kit/servicedesk/pkg/util/errorutil"
)

// AdminTicketsHandler manages the triage endpoints. Every route behind it
// requires the admin role.
type AdminTicketsHandler struct {
	tickets  *service.TicketService
	comments *service.CommentService
	advisor  *service.AdvisorService
}

// NewAdminTicketsHandler constructs handler.
func NewAdminTicketsHandler(ticketService *service.TicketService, commentService *service.CommentService, advisorService *service.AdvisorService) *AdminTicketsHandler {
	return &AdminTicketsHandler{tickets: ticketService, comments: commentService, advisor: advisorService}
}

// ListTickets GET /admin/tickets?status=&q=.
func (h *AdminTicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter := service.TicketListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			status := domain.TicketStatus(strings.TrimSpace(part))
			if !status.IsValid() {
				return apperrors.NewValidationError("invalid status filter", map[string]any{"status": part})
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		filter.SearchTerm = &q
	}

	items, err := h.tickets.List(c.Context(), filter)
	if err != nil {
		return err
	}
	responses := make([]dto.TicketResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ticketResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// UpdateStatus PATCH /admin/tickets/:id/status.
func (h *AdminTicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	item, err := h.tickets.SetStatus(c.Context(), ticketID, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(item)})
}

// DeleteTicket DELETE /admin/tickets/:id. Removes the ticket and its whole
// thread in one transaction.
func (h *AdminTicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}
	if err := h.tickets.Delete(c.Context(), ticketID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Advice POST /admin/tickets/:id/advice.
func (h *AdminTicketsHandler) Advice(c *fiber.Ctx) error {
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}
	suggestion, err := h.advisor.Suggest(c.Context(), ticketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AdviceResponse{Suggestion: suggestion}})
}

// QuickReply POST /admin/tickets/:id/comments/quick.
func (h *AdminTicketsHandler) QuickReply(c *fiber.Ctx) error {
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}
	var req dto.QuickReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	comment, err := h.comments.QuickReply(c.Context(), ticketID, req.Key)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(*comment)})
}

// Dashboard GET /admin/dashboard.
func (h *AdminTicketsHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.tickets.Dashboard(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DashboardResponse{
		Total:        stats.Counts.Total,
		Open:         stats.Counts.Open,
		InProgress:   stats.Counts.InProgress,
		Resolved:     stats.Counts.Resolved,
		ByCategory:   stats.ByCategory,
		ByDepartment: stats.ByDepartment,
	}})
}
