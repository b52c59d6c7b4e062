package events

import (
	"context"
	"encoding/json"
	"fmt"

	"fleet-campus-admin/internal/domain/event"

	"github.com/redis/go-redis/v9"
)

const (
	ChannelTripUpdates        = "fleet:trip:updates"
	ChannelMaintenanceUpdates = "fleet:maintenance:updates"
	ChannelStudentUpdates     = "campus:student:updates"
)

// RedisPublisher pushes events onto redis pub/sub channels
type RedisPublisher struct {
	client redis.Cmdable
}

func NewRedisPublisher(client redis.Cmdable) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, e event.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	return p.client.Publish(ctx, Channel(e.Type), data).Err()
}

// Channel returns the pub/sub channel carrying events of type t.
func Channel(t event.Type) string {
	switch t {
	case event.TripStatusChanged:
		return ChannelTripUpdates
	case event.MaintenanceStatusChanged, event.MaintenanceReminderDue:
		return ChannelMaintenanceUpdates
	default:
		return ChannelStudentUpdates
	}
}
