package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/servicedesk/internal/events"
	"github.com/spec-kit/servicedesk/internal/gateway"
)

const notifyTimeout = 5 * time.Second

// NotificationService forwards domain events to the messaging-bot gateway.
// Delivery is fire-and-forget: each send runs detached from the request with
// its own deadline, and every failure is swallowed after logging.
type NotificationService struct {
	dispatcher events.Dispatcher
	notifier   gateway.Notifier
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, notifier gateway.Notifier, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		notifier:   notifier,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to the alerting events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventCommentAdded, n.handleCommentAdded)
}

func (n *NotificationService) handleTicketCreated(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}

	marker := "🔵"
	if payload.Priority.IsUrgent() {
		marker = "🔴"
	}
	text := fmt.Sprintf(
		"🚨 *NEW TICKET* 🚨\n🆔 *ID:* #%d\n👤 *From:* %s (%s)\n🔥 *Priority:* %s %s\n📝 *Subject:* %s",
		event.TicketID, payload.RequesterName, payload.Department, marker, payload.Priority, payload.Subject,
	)
	n.send(text)
	return nil
}

func (n *NotificationService) handleCommentAdded(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.CommentAddedPayload)
	if !ok || payload.FromAdmin {
		return nil
	}

	text := fmt.Sprintf(
		"💬 *NEW REPLY*\nTicket #%d\nFrom: %s\n\nMessage: %s",
		event.TicketID, payload.Comment.Sender, payload.Preview,
	)
	n.send(text)
	return nil
}

func (n *NotificationService) send(text string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := n.notifier.Send(ctx, text); err != nil {
			n.logger.Warn("notification delivery failed", zap.Error(err))
		}
	}()
}
