package maintenance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for maintenance repository operations
type Repository interface {
	Create(ctx context.Context, schedule *Schedule) error
	GetByID(ctx context.Context, scheduleID uuid.UUID) (*Schedule, error)
	Update(ctx context.Context, schedule *Schedule) error
	List(ctx context.Context, filter *Filter) ([]*Schedule, int64, error)
	GetDashboard(ctx context.Context, now time.Time, upcomingUntil time.Time) (*Dashboard, error)

	AddPart(ctx context.Context, part *Part) error
	ListParts(ctx context.Context, scheduleID uuid.UUID) ([]*Part, error)

	CreateReminder(ctx context.Context, reminder *Reminder) error
	ListReminders(ctx context.Context, activeOnly bool) ([]*Reminder, error)
	MarkReminderSent(ctx context.Context, reminderID uuid.UUID, at time.Time) error
}

// Filter represents filtering options for listing maintenance schedules
type Filter struct {
	VehicleID *uuid.UUID
	Status    *Status
	Priority  *Priority
	From      *time.Time
	To        *time.Time
	Search    string

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
