package events

import (
	"context"
	"sync"

	"fleet-campus-admin/internal/domain/event"
	"fleet-campus-admin/internal/logger"

	"go.uber.org/zap"
)

// Bus fans an event out to every registered sink. A failing sink is logged
// and does not stop delivery to the others.
type Bus struct {
	mu    sync.RWMutex
	sinks map[string]event.Publisher
}

func NewBus() *Bus {
	return &Bus{sinks: make(map[string]event.Publisher)}
}

// Register adds a named sink. Registering the same name twice replaces it.
func (b *Bus) Register(name string, sink event.Publisher) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks[name] = sink
}

func (b *Bus) Sinks() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.sinks))
	for name := range b.sinks {
		names = append(names, name)
	}
	return names
}

// Publish always returns nil; per-sink failures are logged.
func (b *Bus) Publish(ctx context.Context, e event.Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for name, sink := range b.sinks {
		if err := sink.Publish(ctx, e); err != nil {
			logger.Warn("Failed to publish event",
				zap.String("sink", name),
				zap.String("type", string(e.Type)),
				zap.String("aggregate_id", e.AggregateID.String()),
				zap.Error(err),
			)
		}
	}
	return nil
}
