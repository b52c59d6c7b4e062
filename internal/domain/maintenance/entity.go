package maintenance

import (
	"time"

	"fleet-campus-admin/pkg/timeutil"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusPostponed  Status = "postponed"
)

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Schedule is a planned or performed maintenance job on a vehicle
type Schedule struct {
	ID              uuid.UUID
	VehicleID       uuid.UUID
	MaintenanceType string
	Title           string
	Description     string
	Status          Status
	Priority        Priority

	ScheduledDate     time.Time
	EstimatedDuration *float64 // hours
	EstimatedCost     *float64
	ActualDuration    *float64
	ActualCost        *float64
	OdometerReading   *float64

	CompletionNotes string
	CompletedAt     *time.Time
	CompletedBy     *uuid.UUID
	CreatedBy       *uuid.UUID

	// Read-only projection filled by the repository.
	VehicleName string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOverdue reports whether a scheduled job has passed its date.
func (s *Schedule) IsOverdue(now time.Time) bool {
	return s.Status == StatusScheduled && s.ScheduledDate.Before(now)
}

// CostVariance is actual minus estimated cost, nil until both exist.
func (s *Schedule) CostVariance() *float64 {
	if s.ActualCost == nil || s.EstimatedCost == nil {
		return nil
	}
	v := *s.ActualCost - *s.EstimatedCost
	return &v
}

// Part is a spare part consumed by a maintenance job
type Part struct {
	ID         uuid.UUID
	ScheduleID uuid.UUID
	Name       string
	PartNumber string
	Quantity   int
	UnitCost   float64
	CreatedAt  time.Time
}

func (p *Part) Total() float64 {
	return float64(p.Quantity) * p.UnitCost
}

// Reminder fires once a vehicle reaches an odometer reading or a date
type Reminder struct {
	ID              uuid.UUID
	VehicleID       uuid.UUID
	Title           string
	Description     string
	TriggerOdometer *float64
	TriggerDate     *time.Time
	IsActive        bool
	IsSent          bool
	SentAt          *time.Time
	CreatedAt       time.Time
}

// IsDue reports whether an active, unsent reminder has hit its trigger.
func (r *Reminder) IsDue(odometer float64, today time.Time) bool {
	if !r.IsActive || r.IsSent {
		return false
	}
	if r.TriggerOdometer != nil && odometer >= *r.TriggerOdometer {
		return true
	}
	return r.TriggerDate != nil && timeutil.OnOrBefore(*r.TriggerDate, today)
}

// Dashboard summarises maintenance activity
type Dashboard struct {
	Total      int64
	Scheduled  int64
	InProgress int64
	Completed  int64
	Overdue    []*Schedule
	Upcoming   []*Schedule
}
