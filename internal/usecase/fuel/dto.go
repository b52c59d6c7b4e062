package fuel

import (
	"time"

	domainFuel "fleet-campus-admin/internal/domain/fuel"

	"github.com/google/uuid"
)

type CreateLogRequest struct {
	VehicleID       uuid.UUID  `json:"vehicle_id" validate:"required"`
	TripID          *uuid.UUID `json:"trip_id"`
	DriverID        *uuid.UUID `json:"driver_id"`
	Station         string     `json:"station" validate:"omitempty,max=200"`
	FuelDate        time.Time  `json:"fuel_date" validate:"required"`
	FuelLiters      float64    `json:"fuel_liters" validate:"gt=0"`
	CostPerLiter    float64    `json:"cost_per_liter" validate:"gt=0"`
	TotalCost       float64    `json:"total_cost" validate:"min=0"`
	OdometerReading float64    `json:"odometer_reading" validate:"min=0"`
	Notes           string     `json:"notes" validate:"omitempty,max=1000"`
}

type UpdateLogRequest struct {
	Station         *string    `json:"station" validate:"omitempty,max=200"`
	FuelDate        *time.Time `json:"fuel_date"`
	FuelLiters      *float64   `json:"fuel_liters" validate:"omitempty,gt=0"`
	CostPerLiter    *float64   `json:"cost_per_liter" validate:"omitempty,gt=0"`
	TotalCost       *float64   `json:"total_cost" validate:"omitempty,min=0"`
	OdometerReading *float64   `json:"odometer_reading" validate:"omitempty,min=0"`
	Notes           *string    `json:"notes" validate:"omitempty,max=1000"`
}

type LogFilterRequest struct {
	VehicleID *uuid.UUID `form:"vehicle_id"`
	DriverID  *uuid.UUID `form:"driver_id"`
	TripID    *uuid.UUID `form:"trip_id"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	Page      int        `form:"page" validate:"omitempty,min=1"`
	PageSize  int        `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type CreateExpenseRequest struct {
	VehicleID      *uuid.UUID `json:"vehicle_id"`
	DriverID       *uuid.UUID `json:"driver_id"`
	TripID         *uuid.UUID `json:"trip_id"`
	Type           string     `json:"expense_type" validate:"required,oneof=fuel maintenance repair insurance registration toll parking fine salary other"`
	Amount         float64    `json:"amount" validate:"gt=0"`
	PaymentMethod  string     `json:"payment_method" validate:"required,oneof=cash card bank_transfer fuel_card other"`
	ExpenseDate    time.Time  `json:"expense_date" validate:"required"`
	Description    string     `json:"description" validate:"required,max=1000"`
	IsReimbursable bool       `json:"is_reimbursable"`
}

type UpdateExpenseRequest struct {
	Type           *string    `json:"expense_type" validate:"omitempty,oneof=fuel maintenance repair insurance registration toll parking fine salary other"`
	Amount         *float64   `json:"amount" validate:"omitempty,gt=0"`
	PaymentMethod  *string    `json:"payment_method" validate:"omitempty,oneof=cash card bank_transfer fuel_card other"`
	ExpenseDate    *time.Time `json:"expense_date"`
	Description    *string    `json:"description" validate:"omitempty,max=1000"`
	IsReimbursable *bool      `json:"is_reimbursable"`
}

type ExpenseFilterRequest struct {
	VehicleID  *uuid.UUID `form:"vehicle_id"`
	DriverID   *uuid.UUID `form:"driver_id"`
	Type       *string    `form:"expense_type" validate:"omitempty,oneof=fuel maintenance repair insurance registration toll parking fine salary other"`
	IsApproved *bool      `form:"is_approved"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Page       int        `form:"page" validate:"omitempty,min=1"`
	PageSize   int        `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// CreateBudgetRequest leaves EndDate optional; it then closes the period.
type CreateBudgetRequest struct {
	VehicleID    *uuid.UUID `json:"vehicle_id"`
	DriverID     *uuid.UUID `json:"driver_id"`
	Period       string     `json:"period" validate:"required,oneof=weekly monthly quarterly yearly"`
	StartDate    time.Time  `json:"start_date" validate:"required"`
	EndDate      *time.Time `json:"end_date"`
	BudgetAmount float64    `json:"budget_amount" validate:"gt=0"`
}

type UpdateBudgetRequest struct {
	BudgetAmount *float64   `json:"budget_amount" validate:"omitempty,gt=0"`
	EndDate      *time.Time `json:"end_date"`
	IsActive     *bool      `json:"is_active"`
}

type LogResponse struct {
	ID               uuid.UUID  `json:"id"`
	VehicleID        uuid.UUID  `json:"vehicle_id"`
	TripID           *uuid.UUID `json:"trip_id"`
	DriverID         *uuid.UUID `json:"driver_id"`
	Station          string     `json:"station"`
	FuelDate         time.Time  `json:"fuel_date"`
	FuelLiters       float64    `json:"fuel_liters"`
	CostPerLiter     float64    `json:"cost_per_liter"`
	TotalCost        float64    `json:"total_cost"`
	OdometerReading  float64    `json:"odometer_reading"`
	PreviousOdometer *float64   `json:"previous_odometer"`
	DistanceTraveled *float64   `json:"distance_traveled"`
	FuelEfficiency   *float64   `json:"fuel_efficiency"`
	Notes            string     `json:"notes"`
	CreatedBy        *uuid.UUID `json:"created_by"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type LogListResponse struct {
	Logs       []LogResponse `json:"logs"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

type ExpenseResponse struct {
	ID             uuid.UUID  `json:"id"`
	VehicleID      *uuid.UUID `json:"vehicle_id"`
	DriverID       *uuid.UUID `json:"driver_id"`
	TripID         *uuid.UUID `json:"trip_id"`
	Type           string     `json:"expense_type"`
	Amount         float64    `json:"amount"`
	PaymentMethod  string     `json:"payment_method"`
	ExpenseDate    time.Time  `json:"expense_date"`
	Description    string     `json:"description"`
	IsReimbursable bool       `json:"is_reimbursable"`
	IsApproved     bool       `json:"is_approved"`
	ApprovedBy     *uuid.UUID `json:"approved_by"`
	CreatedAt      time.Time  `json:"created_at"`
}

type ExpenseListResponse struct {
	Expenses   []ExpenseResponse `json:"expenses"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

type BudgetResponse struct {
	ID              uuid.UUID  `json:"id"`
	VehicleID       *uuid.UUID `json:"vehicle_id"`
	DriverID        *uuid.UUID `json:"driver_id"`
	Scope           string     `json:"scope"`
	Period          string     `json:"period"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         time.Time  `json:"end_date"`
	BudgetAmount    float64    `json:"budget_amount"`
	ActualSpent     float64    `json:"actual_spent"`
	RemainingBudget float64    `json:"remaining_budget"`
	Utilization     float64    `json:"budget_utilization"`
	IsActive        bool       `json:"is_active"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type EfficiencyRow struct {
	VehicleID     uuid.UUID `json:"vehicle_id"`
	VehicleName   string    `json:"vehicle_name"`
	LicensePlate  string    `json:"license_plate"`
	AvgEfficiency float64   `json:"avg_efficiency"`
	TotalDistance float64   `json:"total_distance"`
	TotalFuel     float64   `json:"total_fuel"`
	LogsCount     int64     `json:"logs_count"`
}

type DashboardResponse struct {
	TotalFuelLogs      int64   `json:"total_fuel_logs"`
	TotalFuelConsumed  float64 `json:"total_fuel_consumed"`
	TotalFuelCost      float64 `json:"total_fuel_cost"`
	AvgFuelEfficiency  float64 `json:"avg_fuel_efficiency"`
	TotalExpenses      int64   `json:"total_expenses"`
	TotalExpenseAmount float64 `json:"total_expense_amount"`
}

// StatsResponse echoes the window next to the aggregate.
type StatsResponse struct {
	Days int `json:"days"`
	domainFuel.Stats
}

func ToLogResponse(l *domainFuel.Log) LogResponse {
	return LogResponse{
		ID:               l.ID,
		VehicleID:        l.VehicleID,
		TripID:           l.TripID,
		DriverID:         l.DriverID,
		Station:          l.Station,
		FuelDate:         l.FuelDate,
		FuelLiters:       l.FuelLiters,
		CostPerLiter:     l.CostPerLiter,
		TotalCost:        l.TotalCost,
		OdometerReading:  l.OdometerReading,
		PreviousOdometer: l.PreviousOdometer,
		DistanceTraveled: l.DistanceTraveled,
		FuelEfficiency:   l.FuelEfficiency,
		Notes:            l.Notes,
		CreatedBy:        l.CreatedBy,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

func ToExpenseResponse(e *domainFuel.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:             e.ID,
		VehicleID:      e.VehicleID,
		DriverID:       e.DriverID,
		TripID:         e.TripID,
		Type:           string(e.Type),
		Amount:         e.Amount,
		PaymentMethod:  string(e.PaymentMethod),
		ExpenseDate:    e.ExpenseDate,
		Description:    e.Description,
		IsReimbursable: e.IsReimbursable,
		IsApproved:     e.IsApproved,
		ApprovedBy:     e.ApprovedBy,
		CreatedAt:      e.CreatedAt,
	}
}

func ToBudgetResponse(b *domainFuel.Budget) BudgetResponse {
	scope := "fleet"
	switch {
	case b.VehicleID != nil:
		scope = "vehicle"
	case b.DriverID != nil:
		scope = "driver"
	}

	return BudgetResponse{
		ID:              b.ID,
		VehicleID:       b.VehicleID,
		DriverID:        b.DriverID,
		Scope:           scope,
		Period:          string(b.Period),
		StartDate:       b.StartDate,
		EndDate:         b.EndDate,
		BudgetAmount:    b.BudgetAmount,
		ActualSpent:     b.ActualSpent,
		RemainingBudget: b.RemainingBudget(),
		Utilization:     b.Utilization(),
		IsActive:        b.IsActive,
		UpdatedAt:       b.UpdatedAt,
	}
}
