package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/spec-kit/servicedesk/internal/api/dto"
	"github.com/spec-kit/servicedesk/internal/auth"
	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/service"
	"github.com/spec-kit/servicedesk/internal/stream"
	apperrors "github.com/spec-kit/servicedesk/pkg/util/errorutil"
)

const streamKeepAlive = 15 * time.Second

// CommentsHandler manages the discussion thread endpoints.
type CommentsHandler struct {
	service *service.CommentService
	broker  *stream.CommentBroker
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(commentService *service.CommentService, broker *stream.CommentBroker) *CommentsHandler {
	return &CommentsHandler{service: commentService, broker: broker}
}

// AddComment POST /tickets/:id/comments.
func (h *CommentsHandler) AddComment(c *fiber.Ctx) error {
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	comment, err := h.service.Append(c.Context(), ticketID, principal.IsAdmin(), req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(*comment)})
}

// ListComments GET /tickets/:id/comments?since=ID.
func (h *CommentsHandler) ListComments(c *fiber.Ctx) error {
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}
	sinceID, err := parseSinceID(c)
	if err != nil {
		return err
	}

	comments, err := h.service.List(c.Context(), ticketID, sinceID)
	if err != nil {
		return err
	}
	items := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		items = append(items, commentResponse(comment))
	}
	return c.JSON(fiber.Map{"data": items})
}

// StreamComments GET /tickets/:id/comments/stream. Sends the thread since
// the requested cursor, then pushes new messages as SSE events until the
// viewer disconnects. Polling clients use ListComments instead.
func (h *CommentsHandler) StreamComments(c *fiber.Ctx) error {
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}
	sinceID, err := parseSinceID(c)
	if err != nil {
		return err
	}

	// Subscribe before reading the backlog so a comment committed in
	// between lands on the channel; the relay drops the IDs it has
	// already written.
	subCtx, cancel := context.WithCancel(context.Background())
	sub := h.broker.Subscribe(subCtx, ticketID)

	backlog, err := h.service.List(c.Context(), ticketID, sinceID)
	if err != nil {
		cancel()
		return err
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		relayComments(w, backlog, sub, streamKeepAlive)
	}))
	return nil
}

// relayComments writes the backlog, then live messages, as SSE events until
// the subscription closes or the viewer goes away. Live messages at or below
// the last written ID are duplicates of backlog rows and are skipped.
func relayComments(w *bufio.Writer, backlog []domain.Comment, sub <-chan domain.Comment, keepAlive time.Duration) {
	var lastID int64
	for _, comment := range backlog {
		if writeCommentEvent(w, comment) != nil {
			return
		}
		lastID = comment.ID
	}

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case comment, open := <-sub:
			if !open {
				return
			}
			if comment.ID <= lastID {
				continue
			}
			if writeCommentEvent(w, comment) != nil {
				return
			}
			lastID = comment.ID
		case <-ticker.C:
			if _, err := w.WriteString(": ping\n\n"); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}
}

func writeCommentEvent(w *bufio.Writer, comment domain.Comment) error {
	payload, err := json.Marshal(commentResponse(comment))
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "id: %d\nevent: comment\ndata: %s\n\n", comment.ID, payload); err != nil {
		return err
	}
	return w.Flush()
}

func parseSinceID(c *fiber.Ctx) (int64, error) {
	raw := c.Query("since")
	if raw == "" {
		return 0, nil
	}
	sinceID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || sinceID < 0 {
		return 0, apperrors.NewValidationError("invalid since cursor", map[string]any{"since": raw})
	}
	return sinceID, nil
}
