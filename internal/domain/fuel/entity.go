package fuel

import (
	"time"

	"github.com/google/uuid"
)

// Log is a single refuelling event
type Log struct {
	ID        uuid.UUID
	VehicleID uuid.UUID
	TripID    *uuid.UUID
	DriverID  *uuid.UUID
	Station   string

	FuelDate     time.Time
	FuelLiters   float64
	CostPerLiter float64
	TotalCost    float64

	OdometerReading  float64
	PreviousOdometer *float64
	DistanceTraveled *float64
	FuelEfficiency   *float64 // km per liter

	Notes     string
	CreatedBy *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FillTotalCost computes the total from the unit price when it was not given.
func (l *Log) FillTotalCost() {
	if l.TotalCost <= 0 {
		l.TotalCost = l.FuelLiters * l.CostPerLiter
	}
}

// ApplyPrevious derives the distance and efficiency from the vehicle's
// preceding log. A nil previous clears them.
func (l *Log) ApplyPrevious(previous *Log) {
	l.PreviousOdometer = nil
	l.DistanceTraveled = nil
	l.FuelEfficiency = nil
	if previous == nil {
		return
	}

	prevOdometer := previous.OdometerReading
	distance := l.OdometerReading - prevOdometer
	l.PreviousOdometer = &prevOdometer
	l.DistanceTraveled = &distance

	if distance > 0 && l.FuelLiters > 0 {
		efficiency := distance / l.FuelLiters
		l.FuelEfficiency = &efficiency
	}
}

type ExpenseType string

const (
	ExpenseFuel         ExpenseType = "fuel"
	ExpenseMaintenance  ExpenseType = "maintenance"
	ExpenseRepair       ExpenseType = "repair"
	ExpenseInsurance    ExpenseType = "insurance"
	ExpenseRegistration ExpenseType = "registration"
	ExpenseToll         ExpenseType = "toll"
	ExpenseParking      ExpenseType = "parking"
	ExpenseFine         ExpenseType = "fine"
	ExpenseSalary       ExpenseType = "salary"
	ExpenseOther        ExpenseType = "other"
)

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCard         PaymentMethod = "card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentFuelCard     PaymentMethod = "fuel_card"
	PaymentOther        PaymentMethod = "other"
)

// Expense is an operating cost outside the trip ledger
type Expense struct {
	ID             uuid.UUID
	VehicleID      *uuid.UUID
	DriverID       *uuid.UUID
	TripID         *uuid.UUID
	Type           ExpenseType
	Amount         float64
	PaymentMethod  PaymentMethod
	ExpenseDate    time.Time
	Description    string
	IsReimbursable bool
	IsApproved     bool
	ApprovedBy     *uuid.UUID
	CreatedBy      *uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Period string

const (
	PeriodWeekly    Period = "weekly"
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodYearly    Period = "yearly"
)

// Budget is a spending target for a vehicle, a driver or the whole fleet
type Budget struct {
	ID           uuid.UUID
	VehicleID    *uuid.UUID
	DriverID     *uuid.UUID
	Period       Period
	StartDate    time.Time
	EndDate      time.Time
	BudgetAmount float64
	ActualSpent  float64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (b *Budget) RemainingBudget() float64 {
	return b.BudgetAmount - b.ActualSpent
}

// Utilization is actual spend as a percentage of the budget.
func (b *Budget) Utilization() float64 {
	if b.BudgetAmount <= 0 {
		return 0
	}
	return b.ActualSpent / b.BudgetAmount * 100
}

// Scope selects which fuel logs count against the budget: the vehicle's if
// set, else the driver's, else all of them.
func (b *Budget) Scope() Scope {
	switch {
	case b.VehicleID != nil:
		return Scope{VehicleID: b.VehicleID}
	case b.DriverID != nil:
		return Scope{DriverID: b.DriverID}
	default:
		return Scope{}
	}
}

type Scope struct {
	VehicleID *uuid.UUID
	DriverID  *uuid.UUID
}

// Stats summarises fuel logs over a window
type Stats struct {
	TotalLogs     int64   `json:"total_logs"`
	TotalLiters   float64 `json:"total_liters"`
	TotalCost     float64 `json:"total_cost"`
	AvgEfficiency float64 `json:"avg_efficiency"`
}

// VehicleEfficiency is one row of the efficiency report
type VehicleEfficiency struct {
	VehicleID     uuid.UUID
	VehicleName   string
	LicensePlate  string
	AvgEfficiency float64
	TotalDistance float64
	TotalFuel     float64
	LogsCount     int64
}

// Dashboard summarises fuel and expense activity
type Dashboard struct {
	TotalFuelLogs      int64
	TotalFuelConsumed  float64
	TotalFuelCost      float64
	AvgFuelEfficiency  float64
	TotalExpenses      int64
	TotalExpenseAmount float64
}

// PeriodEnd returns the last day of a budget period starting on start.
func PeriodEnd(start time.Time, period Period) time.Time {
	var next time.Time
	switch period {
	case PeriodWeekly:
		next = start.AddDate(0, 0, 7)
	case PeriodQuarterly:
		next = start.AddDate(0, 3, 0)
	case PeriodYearly:
		next = start.AddDate(1, 0, 0)
	default:
		next = start.AddDate(0, 1, 0)
	}
	return next.AddDate(0, 0, -1)
}
