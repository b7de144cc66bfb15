package handlers

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/servicedesk/internal/api/dto"
	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/service"
	"github.com/spec-kit/servicedesk/internal/storage"
	apperrors "github.com/spec-kit/servicedesk/pkg/util/errorutil"
)

// TicketsHandler manages requester-facing ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
	uploads *storage.UploadStore
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, uploads *storage.UploadStore) *TicketsHandler {
	return &TicketsHandler{service: ticketService, uploads: uploads}
}

// CreateTicket POST /tickets. Accepts JSON or, when a screenshot rides
// along, multipart form data with an optional "image" part.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	input, err := h.parseCreateInput(c)
	if err != nil {
		return err
	}

	ticket, err := h.service.Create(c.Context(), input)
	if err != nil {
		// A rejected submission must leave nothing behind, including
		// the screenshot stored while parsing the form.
		if input.ImagePath != nil {
			_ = h.uploads.Remove(*input.ImagePath)
		}
		return err
	}

	response := dto.CreateTicketResponse{
		Ticket:              ticketResponse(&service.TicketWithSLA{Ticket: *ticket, SLA: domain.ComputeSLA(ticket.Status, ticket.CreatedAt, ticket.CreatedAt)}),
		EmergencyContactURL: h.service.EmergencyContactURL(ticket.Priority),
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": response})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}
	item, err := h.service.Lookup(c.Context(), ticketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(item)})
}

func (h *TicketsHandler) parseCreateInput(c *fiber.Ctx) (service.TicketCreateInput, error) {
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return h.parseMultipartInput(c)
	}

	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return service.TicketCreateInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	return service.TicketCreateInput{
		RequesterName: req.RequesterName,
		Department:    req.Department,
		Category:      req.Category,
		RelatedAsset:  req.RelatedAsset,
		Priority:      req.Priority,
		Subject:       req.Subject,
		Description:   req.Description,
	}, nil
}

func (h *TicketsHandler) parseMultipartInput(c *fiber.Ctx) (service.TicketCreateInput, error) {
	input := service.TicketCreateInput{
		RequesterName: c.FormValue("requester_name"),
		Department:    c.FormValue("department"),
		Category:      c.FormValue("category"),
		Priority:      domain.TicketPriority(c.FormValue("priority")),
		Subject:       c.FormValue("subject"),
		Description:   c.FormValue("description"),
	}
	if asset := c.FormValue("related_asset"); asset != "" {
		input.RelatedAsset = &asset
	}

	file, err := c.FormFile("image")
	if err != nil {
		// No attachment part is fine.
		return input, nil
	}

	src, err := file.Open()
	if err != nil {
		return input, apperrors.NewValidationError("unreadable attachment", nil)
	}
	defer src.Close()

	path, err := h.uploads.Save(file.Filename, file.Size, src)
	if err != nil {
		return input, apperrors.NewValidationError(err.Error(), nil)
	}
	input.ImagePath = &path
	return input, nil
}

func parseTicketID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid ticket id", map[string]any{"id": c.Params("id")})
	}
	return id, nil
}

func ticketResponse(item *service.TicketWithSLA) dto.TicketResponse {
	ticket := item.Ticket
	return dto.TicketResponse{
		ID:            ticket.ID,
		RequesterName: ticket.RequesterName,
		Department:    ticket.Department,
		Category:      ticket.Category,
		RelatedAsset:  ticket.RelatedAsset,
		Priority:      ticket.Priority,
		Subject:       ticket.Subject,
		Description:   ticket.Description,
		Status:        ticket.Status,
		SLA:           dto.SLAResponse{Tier: item.SLA.Tier, Label: item.SLA.Label},
		ImageURL:      imageURL(ticket.ImagePath),
		CreatedAt:     ticket.CreatedAt,
	}
}

func imageURL(path *string) *string {
	if path == nil || *path == "" {
		return nil
	}
	url := "/uploads/" + filepath.Base(*path)
	return &url
}

func commentResponse(comment domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:        comment.ID,
		TicketID:  comment.TicketID,
		Sender:    comment.Sender,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}
