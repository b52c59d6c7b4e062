package alert

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for alert repository operations
type Repository interface {
	Create(ctx context.Context, alert *Alert) error
	GetByID(ctx context.Context, alertID uuid.UUID) (*Alert, error)
	Update(ctx context.Context, alert *Alert) error
	List(ctx context.Context, filter *Filter) ([]*Alert, int64, error)
	// FindOpen returns the active or acknowledged alert for the pair, or
	// ErrAlertNotFound.
	FindOpen(ctx context.Context, alertType Type, subjectKey string) (*Alert, error)
	Summary(ctx context.Context) (*Summary, error)
}

type Filter struct {
	Types     []Type
	Severity  *Severity
	Status    *Status
	OpenOnly  bool
	VehicleID *uuid.UUID
	DriverID  *uuid.UUID

	Page     int
	PageSize int
}
