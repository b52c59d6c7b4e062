package events

import (
	"context"
	"fmt"

	"fleet-campus-admin/internal/domain/event"
)

type mqttPublisher interface {
	PublishJSON(ctx context.Context, topic string, v interface{}) error
}

// MQTTPublisher maps events onto per-aggregate topics, e.g.
// fleet/trips/<id>/status.
type MQTTPublisher struct {
	client mqttPublisher
	prefix string
}

func NewMQTTPublisher(client mqttPublisher, prefix string) *MQTTPublisher {
	return &MQTTPublisher{client: client, prefix: prefix}
}

func (p *MQTTPublisher) Publish(ctx context.Context, e event.Event) error {
	return p.client.PublishJSON(ctx, p.Topic(e), e)
}

func (p *MQTTPublisher) Topic(e event.Event) string {
	switch e.Type {
	case event.TripStatusChanged:
		return fmt.Sprintf("%s/trips/%s/status", p.prefix, e.AggregateID)
	case event.MaintenanceStatusChanged:
		return fmt.Sprintf("%s/maintenance/%s/status", p.prefix, e.AggregateID)
	case event.MaintenanceReminderDue:
		return fmt.Sprintf("%s/maintenance/reminders/%s", p.prefix, e.AggregateID)
	case event.AlertRaised:
		return fmt.Sprintf("%s/alerts/%s", p.prefix, e.AggregateID)
	default:
		return fmt.Sprintf("%s/events/%s", p.prefix, e.Type)
	}
}
