// Package stream fans appended comments out to live ticket viewers. It backs
// the SSE endpoint; clients that prefer polling use the since-ID list query
// instead and never touch this package.
package stream

import (
	"context"
	"sync"

	"github.com/spec-kit/servicedesk/internal/domain"
)

const clientBuffer = 10

// CommentBroker manages per-ticket subscriber channels.
type CommentBroker struct {
	mu      sync.RWMutex
	clients map[int64][]chan domain.Comment
}

// NewCommentBroker creates a broker instance.
func NewCommentBroker() *CommentBroker {
	return &CommentBroker{clients: make(map[int64][]chan domain.Comment)}
}

// Subscribe registers a viewer for one ticket's thread. The subscription is
// removed when ctx is done.
func (b *CommentBroker) Subscribe(ctx context.Context, ticketID int64) <-chan domain.Comment {
	ch := make(chan domain.Comment, clientBuffer)

	b.mu.Lock()
	b.clients[ticketID] = append(b.clients[ticketID], ch)
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.remove(ticketID, ch)
	}()

	return ch
}

// Publish broadcasts a persisted comment to all viewers of its ticket.
// Sends are non-blocking: a viewer that cannot keep up misses the push and
// recovers on its next poll.
func (b *CommentBroker) Publish(comment domain.Comment) {
	b.mu.RLock()
	subscribers := b.clients[comment.TicketID]
	b.mu.RUnlock()

	for _, ch := range subscribers {
		select {
		case ch <- comment:
		default:
		}
	}
}

// SubscriberCount reports active viewers for a ticket.
func (b *CommentBroker) SubscriberCount(ticketID int64) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients[ticketID])
}

func (b *CommentBroker) remove(ticketID int64, target chan domain.Comment) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subscribers := b.clients[ticketID]
	for i, ch := range subscribers {
		if ch == target {
			b.clients[ticketID] = append(subscribers[:i], subscribers[i+1:]...)
			close(ch)
			break
		}
	}
	if len(b.clients[ticketID]) == 0 {
		delete(b.clients, ticketID)
	}
}
