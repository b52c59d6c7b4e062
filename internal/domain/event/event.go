package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TripStatusChanged        Type = "trip.status_changed"
	MaintenanceStatusChanged Type = "maintenance.status_changed"
	MaintenanceReminderDue   Type = "maintenance.reminder_due"
	StudentTerminated        Type = "student.terminated"
	StudentRestored          Type = "student.restored"
	AlertRaised              Type = "alert.raised"
)

// Event is a domain notification fanned out to subscribers
type Event struct {
	Type        Type                   `json:"type"`
	AggregateID uuid.UUID              `json:"aggregate_id"`
	Data        map[string]interface{} `json:"data"`
	OccurredAt  time.Time              `json:"occurred_at"`
}

func New(t Type, aggregateID uuid.UUID, data map[string]interface{}) Event {
	return Event{
		Type:        t,
		AggregateID: aggregateID,
		Data:        data,
		OccurredAt:  time.Now().UTC(),
	}
}

//go:generate mockgen -destination=../../mocks/publisher.go -package=mocks fleet-campus-admin/internal/domain/event Publisher

// Publisher delivers events. Callers treat a failed publish as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}
