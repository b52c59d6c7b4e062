package maintenance

import (
	"time"

	domainMaintenance "fleet-campus-admin/internal/domain/maintenance"

	"github.com/google/uuid"
)

type CreateScheduleRequest struct {
	VehicleID         uuid.UUID `json:"vehicle_id" validate:"required"`
	MaintenanceType   string    `json:"maintenance_type" validate:"required,max=50"`
	Title             string    `json:"title" validate:"required,min=3,max=200"`
	Description       string    `json:"description" validate:"omitempty,max=2000"`
	Priority          string    `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	ScheduledDate     time.Time `json:"scheduled_date" validate:"required"`
	EstimatedDuration *float64  `json:"estimated_duration" validate:"omitempty,gt=0"`
	EstimatedCost     *float64  `json:"estimated_cost" validate:"omitempty,min=0"`
	OdometerReading   *float64  `json:"odometer_reading" validate:"omitempty,min=0"`
}

type UpdateScheduleRequest struct {
	MaintenanceType   *string    `json:"maintenance_type" validate:"omitempty,max=50"`
	Title             *string    `json:"title" validate:"omitempty,min=3,max=200"`
	Description       *string    `json:"description" validate:"omitempty,max=2000"`
	Priority          *string    `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	ScheduledDate     *time.Time `json:"scheduled_date"`
	EstimatedDuration *float64   `json:"estimated_duration" validate:"omitempty,gt=0"`
	EstimatedCost     *float64   `json:"estimated_cost" validate:"omitempty,min=0"`
	OdometerReading   *float64   `json:"odometer_reading" validate:"omitempty,min=0"`
}

type CompleteRequest struct {
	ActualDuration  *float64 `json:"actual_duration" validate:"omitempty,gt=0"`
	ActualCost      *float64 `json:"actual_cost" validate:"omitempty,min=0"`
	CompletionNotes string   `json:"completion_notes" validate:"omitempty,max=2000"`
}

// PostponeRequest moves a job off the calendar, optionally to a new date.
type PostponeRequest struct {
	NewDate *time.Time `json:"new_date"`
	Reason  string     `json:"reason" validate:"omitempty,max=500"`
}

type RescheduleRequest struct {
	ScheduledDate time.Time `json:"scheduled_date" validate:"required"`
}

type ScheduleFilterRequest struct {
	VehicleID *uuid.UUID `form:"vehicle_id"`
	Status    *string    `form:"status" validate:"omitempty,oneof=scheduled in_progress completed cancelled postponed"`
	Priority  *string    `form:"priority" validate:"omitempty,oneof=low medium high critical"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	Search    string     `form:"search"`
	Page      int        `form:"page" validate:"omitempty,min=1"`
	PageSize  int        `form:"page_size" validate:"omitempty,min=1,max=100"`
	SortBy    string     `form:"sort_by" validate:"omitempty,oneof=scheduled_date created_at priority status"`
	SortOrder string     `form:"sort_order" validate:"omitempty,oneof=asc desc"`
}

type AddPartRequest struct {
	Name       string  `json:"name" validate:"required,max=200"`
	PartNumber string  `json:"part_number" validate:"omitempty,max=100"`
	Quantity   int     `json:"quantity" validate:"min=1"`
	UnitCost   float64 `json:"unit_cost" validate:"min=0"`
}

type CreateReminderRequest struct {
	VehicleID       uuid.UUID  `json:"vehicle_id" validate:"required"`
	Title           string     `json:"title" validate:"required,max=200"`
	Description     string     `json:"description" validate:"omitempty,max=1000"`
	TriggerOdometer *float64   `json:"trigger_odometer" validate:"omitempty,gt=0"`
	TriggerDate     *time.Time `json:"trigger_date"`
}

type ScheduleResponse struct {
	ID                 uuid.UUID                  `json:"id"`
	VehicleID          uuid.UUID                  `json:"vehicle_id"`
	VehicleName        string                     `json:"vehicle_name,omitempty"`
	MaintenanceType    string                     `json:"maintenance_type"`
	Title              string                     `json:"title"`
	Description        string                     `json:"description"`
	Status             string                     `json:"status"`
	Priority           string                     `json:"priority"`
	ScheduledDate      time.Time                  `json:"scheduled_date"`
	EstimatedDuration  *float64                   `json:"estimated_duration"`
	EstimatedCost      *float64                   `json:"estimated_cost"`
	ActualDuration     *float64                   `json:"actual_duration"`
	ActualCost         *float64                   `json:"actual_cost"`
	CostVariance       *float64                   `json:"cost_variance"`
	OdometerReading    *float64                   `json:"odometer_reading"`
	CompletionNotes    string                     `json:"completion_notes"`
	CompletedAt        *time.Time                 `json:"completed_at"`
	CompletedBy        *uuid.UUID                 `json:"completed_by"`
	IsOverdue          bool                       `json:"is_overdue"`
	AllowedTransitions []domainMaintenance.Status `json:"allowed_transitions"`
	CreatedAt          time.Time                  `json:"created_at"`
	UpdatedAt          time.Time                  `json:"updated_at"`
}

type ScheduleListResponse struct {
	Schedules  []ScheduleResponse `json:"schedules"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

type PartResponse struct {
	ID         uuid.UUID `json:"id"`
	ScheduleID uuid.UUID `json:"schedule_id"`
	Name       string    `json:"name"`
	PartNumber string    `json:"part_number"`
	Quantity   int       `json:"quantity"`
	UnitCost   float64   `json:"unit_cost"`
	TotalCost  float64   `json:"total_cost"`
	CreatedAt  time.Time `json:"created_at"`
}

type PartListResponse struct {
	Parts     []PartResponse `json:"parts"`
	TotalCost float64        `json:"total_cost"`
}

type ReminderResponse struct {
	ID              uuid.UUID  `json:"id"`
	VehicleID       uuid.UUID  `json:"vehicle_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	TriggerOdometer *float64   `json:"trigger_odometer"`
	TriggerDate     *time.Time `json:"trigger_date"`
	IsActive        bool       `json:"is_active"`
	IsSent          bool       `json:"is_sent"`
	SentAt          *time.Time `json:"sent_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

type DashboardResponse struct {
	Total      int64              `json:"total"`
	Scheduled  int64              `json:"scheduled"`
	InProgress int64              `json:"in_progress"`
	Completed  int64              `json:"completed"`
	Overdue    []ScheduleResponse `json:"overdue"`
	Upcoming   []ScheduleResponse `json:"upcoming"`
}

func ToScheduleResponse(s *domainMaintenance.Schedule, now time.Time) ScheduleResponse {
	return ScheduleResponse{
		ID:                 s.ID,
		VehicleID:          s.VehicleID,
		VehicleName:        s.VehicleName,
		MaintenanceType:    s.MaintenanceType,
		Title:              s.Title,
		Description:        s.Description,
		Status:             string(s.Status),
		Priority:           string(s.Priority),
		ScheduledDate:      s.ScheduledDate,
		EstimatedDuration:  s.EstimatedDuration,
		EstimatedCost:      s.EstimatedCost,
		ActualDuration:     s.ActualDuration,
		ActualCost:         s.ActualCost,
		CostVariance:       s.CostVariance(),
		OdometerReading:    s.OdometerReading,
		CompletionNotes:    s.CompletionNotes,
		CompletedAt:        s.CompletedAt,
		CompletedBy:        s.CompletedBy,
		IsOverdue:          s.IsOverdue(now),
		AllowedTransitions: GetAllowedTransitions(s.Status),
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func ToPartResponse(p *domainMaintenance.Part) PartResponse {
	return PartResponse{
		ID:         p.ID,
		ScheduleID: p.ScheduleID,
		Name:       p.Name,
		PartNumber: p.PartNumber,
		Quantity:   p.Quantity,
		UnitCost:   p.UnitCost,
		TotalCost:  p.Total(),
		CreatedAt:  p.CreatedAt,
	}
}

func ToReminderResponse(r *domainMaintenance.Reminder) ReminderResponse {
	return ReminderResponse{
		ID:              r.ID,
		VehicleID:       r.VehicleID,
		Title:           r.Title,
		Description:     r.Description,
		TriggerOdometer: r.TriggerOdometer,
		TriggerDate:     r.TriggerDate,
		IsActive:        r.IsActive,
		IsSent:          r.IsSent,
		SentAt:          r.SentAt,
		CreatedAt:       r.CreatedAt,
	}
}
