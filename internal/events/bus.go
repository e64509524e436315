package events

import (
	"context"
)

type Subscriber interface {
	HandleEvent(ctx context.Context, e Event) error
}

// Bus dispatches events to subscribers synchronously, in subscription order.
// Side effects therefore complete before the HTTP response is written, same
// as the sequential awaits they replace. The first subscriber error aborts
// the dispatch and propagates to the publisher.
type Bus struct {
	subscribers []Subscriber
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(s Subscriber) {
	b.subscribers = append(b.subscribers, s)
}

func (b *Bus) Publish(ctx context.Context, e Event) error {
	for _, s := range b.subscribers {
		if err := s.HandleEvent(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
