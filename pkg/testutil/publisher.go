package testutil

import (
	"context"
	"sync"

	"github.com/questx-lab/giveaway/pkg/pubsub"
)

// MockPublisher records every published pack unless PublishFunc is set.
type MockPublisher struct {
	PublishFunc func(context.Context, string, *pubsub.Pack) error

	mu    sync.Mutex
	Packs map[string][]*pubsub.Pack
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Packs == nil {
		m.Packs = map[string][]*pubsub.Pack{}
	}
	m.Packs[topic] = append(m.Packs[topic], pack)

	return nil
}
