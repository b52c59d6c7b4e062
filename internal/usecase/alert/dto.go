package alert

import (
	"time"

	domainAlert "fleet-campus-admin/internal/domain/alert"

	"github.com/google/uuid"
)

type FilterRequest struct {
	Type      *string    `form:"type" validate:"omitempty,oneof=license_expiry insurance_expiry registration_expiry maintenance_due fuel_budget_exceeded low_fuel_efficiency"`
	Severity  *string    `form:"severity" validate:"omitempty,oneof=low medium high critical"`
	Status    *string    `form:"status" validate:"omitempty,oneof=active acknowledged resolved dismissed"`
	OpenOnly  bool       `form:"open_only"`
	VehicleID *uuid.UUID `form:"vehicle_id"`
	DriverID  *uuid.UUID `form:"driver_id"`
	Page      int        `form:"page" validate:"omitempty,min=1"`
	PageSize  int        `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type ResolveRequest struct {
	ActionTaken string `json:"action_taken" validate:"required,min=3,max=2000"`
}

type Response struct {
	ID             uuid.UUID  `json:"id"`
	Type           string     `json:"type"`
	Severity       string     `json:"severity"`
	Status         string     `json:"status"`
	Title          string     `json:"title"`
	Message        string     `json:"message"`
	VehicleID      *uuid.UUID `json:"vehicle_id"`
	DriverID       *uuid.UUID `json:"driver_id"`
	BudgetID       *uuid.UUID `json:"budget_id"`
	TriggerValue   *float64   `json:"trigger_value"`
	ThresholdValue *float64   `json:"threshold_value"`
	DueDate        *time.Time `json:"due_date"`
	IsOverdue      bool       `json:"is_overdue"`
	ActionRequired string     `json:"action_required"`
	ActionTaken    string     `json:"action_taken"`
	AcknowledgedBy *uuid.UUID `json:"acknowledged_by"`
	AcknowledgedAt *time.Time `json:"acknowledged_at"`
	ResolvedBy     *uuid.UUID `json:"resolved_by"`
	ResolvedAt     *time.Time `json:"resolved_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type ListResponse struct {
	Alerts     []Response `json:"alerts"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

type SummaryResponse struct {
	Open         int64            `json:"open"`
	Acknowledged int64            `json:"acknowledged"`
	BySeverity   map[string]int64 `json:"by_severity"`
	ByType       map[string]int64 `json:"by_type"`
}

func ToResponse(a *domainAlert.Alert, today time.Time) Response {
	return Response{
		ID:             a.ID,
		Type:           string(a.Type),
		Severity:       string(a.Severity),
		Status:         string(a.Status),
		Title:          a.Title,
		Message:        a.Message,
		VehicleID:      a.VehicleID,
		DriverID:       a.DriverID,
		BudgetID:       a.BudgetID,
		TriggerValue:   a.TriggerValue,
		ThresholdValue: a.ThresholdValue,
		DueDate:        a.DueDate,
		IsOverdue:      a.IsOverdue(today),
		ActionRequired: a.ActionRequired,
		ActionTaken:    a.ActionTaken,
		AcknowledgedBy: a.AcknowledgedBy,
		AcknowledgedAt: a.AcknowledgedAt,
		ResolvedBy:     a.ResolvedBy,
		ResolvedAt:     a.ResolvedAt,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func ToSummaryResponse(s *domainAlert.Summary) *SummaryResponse {
	resp := &SummaryResponse{
		Open:         s.Open,
		Acknowledged: s.Acknowledged,
		BySeverity:   make(map[string]int64, len(s.BySeverity)),
		ByType:       make(map[string]int64, len(s.ByType)),
	}
	for k, v := range s.BySeverity {
		resp.BySeverity[string(k)] = v
	}
	for k, v := range s.ByType {
		resp.ByType[string(k)] = v
	}
	return resp
}
