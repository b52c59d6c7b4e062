package trip

import (
	"encoding/json"
	"time"

	domainTrip "fleet-campus-admin/internal/domain/trip"

	"github.com/google/uuid"
)

type CreateTripRequest struct {
	Origin            string     `json:"origin" validate:"required,min=2,max=255"`
	Destination       string     `json:"destination" validate:"required,min=2,max=255"`
	DriverID          uuid.UUID  `json:"driver_id" validate:"required"`
	VehicleID         uuid.UUID  `json:"vehicle_id" validate:"required"`
	CargoWeight       float64    `json:"cargo_weight" validate:"min=0"`
	CargoDescription  string     `json:"cargo_description" validate:"omitempty,max=1000"`
	EstimatedDistance *float64   `json:"estimated_distance" validate:"omitempty,min=0"`
	EstimatedDuration *float64   `json:"estimated_duration" validate:"omitempty,min=0"`
	Priority          string     `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	StartDate         *time.Time `json:"start_date"`
	EndDate           *time.Time `json:"end_date"`
	Notes             string     `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateTripRequest struct {
	Origin            *string    `json:"origin" validate:"omitempty,min=2,max=255"`
	Destination       *string    `json:"destination" validate:"omitempty,min=2,max=255"`
	DriverID          *uuid.UUID `json:"driver_id"`
	VehicleID         *uuid.UUID `json:"vehicle_id"`
	CargoWeight       *float64   `json:"cargo_weight" validate:"omitempty,min=0"`
	CargoDescription  *string    `json:"cargo_description" validate:"omitempty,max=1000"`
	EstimatedDistance *float64   `json:"estimated_distance" validate:"omitempty,min=0"`
	EstimatedDuration *float64   `json:"estimated_duration" validate:"omitempty,min=0"`
	Priority          *string    `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	StartDate         *time.Time `json:"start_date"`
	EndDate           *time.Time `json:"end_date"`
	Notes             *string    `json:"notes" validate:"omitempty,max=2000"`
}

type CompleteTripRequest struct {
	ActualDistance *float64 `json:"actual_distance" validate:"omitempty,min=0"`
	ActualDuration *float64 `json:"actual_duration" validate:"omitempty,min=0"`
}

type CancelTripRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

// SetStatusRequest is the administrative status override.
type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=delayed in_progress cancelled"`
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type TripFilterRequest struct {
	Status      *string    `form:"status" validate:"omitempty,oneof=draft dispatched in_progress completed cancelled delayed"`
	Priority    *string    `form:"priority" validate:"omitempty,oneof=low medium high urgent"`
	DriverID    *uuid.UUID `form:"driver_id"`
	VehicleID   *uuid.UUID `form:"vehicle_id"`
	StartAfter  *time.Time `form:"start_after" time_format:"2006-01-02"`
	StartBefore *time.Time `form:"start_before" time_format:"2006-01-02"`
	Search      string     `form:"search"`
	Page        int        `form:"page" validate:"omitempty,min=1"`
	PageSize    int        `form:"page_size" validate:"omitempty,min=1,max=100"`
	SortBy      string     `form:"sort_by" validate:"omitempty,oneof=created_at start_date trip_number priority status"`
	SortOrder   string     `form:"sort_order" validate:"omitempty,oneof=asc desc"`
}

type AddExpenseRequest struct {
	Type        string     `json:"type" validate:"required,oneof=fuel toll parking maintenance food accommodation other"`
	Amount      float64    `json:"amount" validate:"gt=0"`
	Description string     `json:"description" validate:"omitempty,max=500"`
	IncurredAt  *time.Time `json:"incurred_at"`
}

type AddCheckpointRequest struct {
	Location      string     `json:"location" validate:"required,max=255"`
	Sequence      int        `json:"sequence" validate:"omitempty,min=1"`
	Latitude      *float64   `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude     *float64   `json:"longitude" validate:"omitempty,min=-180,max=180"`
	ArrivalTime   *time.Time `json:"arrival_time"`
	DepartureTime *time.Time `json:"departure_time"`
	Notes         string     `json:"notes" validate:"omitempty,max=500"`
}

type CompleteCheckpointRequest struct {
	ArrivalTime   *time.Time `json:"arrival_time"`
	DepartureTime *time.Time `json:"departure_time"`
	Notes         *string    `json:"notes" validate:"omitempty,max=500"`
}

type UploadDocumentRequest struct {
	Type  string `form:"type" validate:"required,oneof=bill_of_lading delivery_receipt proof_of_delivery insurance permit other"`
	Title string `form:"title" validate:"required,max=200"`
}

type TripResponse struct {
	ID                 uuid.UUID  `json:"id"`
	TripNumber         string     `json:"trip_number"`
	Origin             string     `json:"origin"`
	Destination        string     `json:"destination"`
	Driver             *PartyInfo `json:"driver"`
	Vehicle            *PartyInfo `json:"vehicle"`
	CargoWeight        float64    `json:"cargo_weight"`
	CargoDescription   string     `json:"cargo_description"`
	EstimatedDistance  *float64   `json:"estimated_distance"`
	EstimatedDuration  *float64   `json:"estimated_duration"`
	ActualDistance     *float64   `json:"actual_distance"`
	ActualDuration     *float64   `json:"actual_duration"`
	DistanceVariance   *float64   `json:"distance_variance"`
	DurationVariance   *float64   `json:"duration_variance"`
	Priority           string     `json:"priority"`
	Status             string     `json:"status"`
	AllowedNext        []string   `json:"allowed_transitions"`
	IsOverdue          bool       `json:"is_overdue"`
	StartDate          *time.Time `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
	ActualStartTime    *time.Time `json:"actual_start_time"`
	ActualEndTime      *time.Time `json:"actual_end_time"`
	Notes              string     `json:"notes"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CreatedBy          *uuid.UUID `json:"created_by"`
	DispatchedBy       *uuid.UUID `json:"dispatched_by"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// PartyInfo names a trip's driver or vehicle.
type PartyInfo struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Plate string    `json:"license_plate,omitempty"`
}

type TripListResponse struct {
	Trips      []TripResponse `json:"trips"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

type DashboardResponse struct {
	Total     int64          `json:"total"`
	Active    int64          `json:"active"`
	Completed int64          `json:"completed"`
	Cancelled int64          `json:"cancelled"`
	Overdue   int64          `json:"overdue"`
	Recent    []TripResponse `json:"recent"`
}

type ExpenseResponse struct {
	ID          uuid.UUID `json:"id"`
	TripID      uuid.UUID `json:"trip_id"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	IncurredAt  time.Time `json:"incurred_at"`
	CreatedAt   time.Time `json:"created_at"`
}

type ExpenseListResponse struct {
	Expenses []ExpenseResponse `json:"expenses"`
	Total    float64           `json:"total"`
	Average  float64           `json:"average"`
	Count    int               `json:"count"`
}

type CheckpointResponse struct {
	ID            uuid.UUID  `json:"id"`
	TripID        uuid.UUID  `json:"trip_id"`
	Sequence      int        `json:"sequence"`
	Location      string     `json:"location"`
	Latitude      *float64   `json:"latitude"`
	Longitude     *float64   `json:"longitude"`
	ArrivalTime   *time.Time `json:"arrival_time"`
	DepartureTime *time.Time `json:"departure_time"`
	IsCompleted   bool       `json:"is_completed"`
	Notes         string     `json:"notes"`
}

// RouteResponse carries the checkpoint path as a GeoJSON LineString.
// Geometry is null until two checkpoints have coordinates.
type RouteResponse struct {
	TripID     uuid.UUID       `json:"trip_id"`
	Points     int             `json:"points"`
	DistanceKm float64         `json:"distance_km"`
	Geometry   json.RawMessage `json:"geometry"`
}

type DocumentResponse struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	FileURL   string    `json:"file_url"`
	CreatedAt time.Time `json:"created_at"`
}

func ToTripResponse(t *domainTrip.Trip, now time.Time) TripResponse {
	allowed := GetAllowedTransitions(t.Status)
	next := make([]string, 0, len(allowed))
	for _, s := range allowed {
		next = append(next, string(s))
	}

	return TripResponse{
		ID:                 t.ID,
		TripNumber:         t.TripNumber,
		Origin:             t.Origin,
		Destination:        t.Destination,
		Driver:             &PartyInfo{ID: t.DriverID, Name: t.DriverName},
		Vehicle:            &PartyInfo{ID: t.VehicleID, Name: t.VehicleName, Plate: t.VehiclePlate},
		CargoWeight:        t.CargoWeight,
		CargoDescription:   t.CargoDescription,
		EstimatedDistance:  t.EstimatedDistance,
		EstimatedDuration:  t.EstimatedDuration,
		ActualDistance:     t.ActualDistance,
		ActualDuration:     t.ActualDuration,
		DistanceVariance:   t.DistanceVariance(),
		DurationVariance:   t.DurationVariance(),
		Priority:           string(t.Priority),
		Status:             string(t.Status),
		AllowedNext:        next,
		IsOverdue:          t.IsOverdue(now),
		StartDate:          t.StartDate,
		EndDate:            t.EndDate,
		ActualStartTime:    t.ActualStartTime,
		ActualEndTime:      t.ActualEndTime,
		Notes:              t.Notes,
		CancellationReason: t.CancellationReason,
		CreatedBy:          t.CreatedBy,
		DispatchedBy:       t.DispatchedBy,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

func ToExpenseResponse(e *domainTrip.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		TripID:      e.TripID,
		Type:        string(e.Type),
		Amount:      e.Amount,
		Description: e.Description,
		IncurredAt:  e.IncurredAt,
		CreatedAt:   e.CreatedAt,
	}
}

func ToCheckpointResponse(c *domainTrip.Checkpoint) CheckpointResponse {
	return CheckpointResponse{
		ID:            c.ID,
		TripID:        c.TripID,
		Sequence:      c.Sequence,
		Location:      c.Location,
		Latitude:      c.Latitude,
		Longitude:     c.Longitude,
		ArrivalTime:   c.ArrivalTime,
		DepartureTime: c.DepartureTime,
		IsCompleted:   c.IsCompleted,
		Notes:         c.Notes,
	}
}

func ToDocumentResponse(d *domainTrip.Document) DocumentResponse {
	return DocumentResponse{
		ID:        d.ID,
		TripID:    d.TripID,
		Type:      string(d.Type),
		Title:     d.Title,
		FileURL:   d.FileURL,
		CreatedAt: d.CreatedAt,
	}
}
