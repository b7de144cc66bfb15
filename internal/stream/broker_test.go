package stream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/servicedesk/internal/domain"
)

func TestBrokerDeliversToTicketSubscribers(t *testing.T) {
	b := NewCommentBroker()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch3 := b.Subscribe(ctx, 3)
	ch5 := b.Subscribe(ctx, 5)

	b.Publish(domain.Comment{ID: 1, TicketID: 3, Sender: "Budi", Content: "halo"})

	select {
	case got := <-ch3:
		assert.Equal(t, "halo", got.Content)
	case <-time.After(time.Second):
		t.Fatal("subscriber for ticket 3 did not receive comment")
	}

	select {
	case got := <-ch5:
		t.Fatalf("ticket 5 subscriber received foreign comment %+v", got)
	default:
	}
}

func TestBrokerMultipleViewersSameTicket(t *testing.T) {
	b := NewCommentBroker()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := b.Subscribe(ctx, 9)
	second := b.Subscribe(ctx, 9)
	require.Equal(t, 2, b.SubscriberCount(9))

	b.Publish(domain.Comment{ID: 2, TicketID: 9, Content: "update"})

	for _, ch := range []<-chan domain.Comment{first, second} {
		select {
		case got := <-ch:
			assert.Equal(t, int64(2), got.ID)
		case <-time.After(time.Second):
			t.Fatal("viewer missed broadcast")
		}
	}
}

func TestBrokerUnsubscribesOnContextDone(t *testing.T) {
	b := NewCommentBroker()
	ctx, cancel := context.WithCancel(context.Background())

	ch := b.Subscribe(ctx, 4)
	require.Equal(t, 1, b.SubscriberCount(4))

	cancel()
	assert.Eventually(t, func() bool {
		return b.SubscriberCount(4) == 0
	}, time.Second, 10*time.Millisecond)

	_, open := <-ch
	assert.False(t, open)
}

func TestBrokerSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	b := NewCommentBroker()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b.Subscribe(ctx, 1)

	done := make(chan struct{})
	go func() {
		for i := 0; i < clientBuffer*3; i++ {
			b.Publish(domain.Comment{ID: int64(i), TicketID: 1})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on full subscriber buffer")
	}
}
