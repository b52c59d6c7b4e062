package fuel

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for fuel, expense and budget storage
type Repository interface {
	CreateLog(ctx context.Context, log *Log) error
	GetLog(ctx context.Context, logID uuid.UUID) (*Log, error)
	UpdateLog(ctx context.Context, log *Log) error
	DeleteLog(ctx context.Context, logID uuid.UUID) error
	ListLogs(ctx context.Context, filter *LogFilter) ([]*Log, int64, error)
	// PreviousLog returns the newest log of the vehicle dated strictly before
	// the given time, excluding excludeID. It returns nil when there is none.
	PreviousLog(ctx context.Context, vehicleID uuid.UUID, before time.Time, excludeID uuid.UUID) (*Log, error)
	SumCost(ctx context.Context, scope Scope, from, to time.Time) (float64, error)
	GetStats(ctx context.Context, since time.Time) (*Stats, error)
	GetEfficiencyReport(ctx context.Context) ([]*VehicleEfficiency, error)
	GetDashboard(ctx context.Context) (*Dashboard, error)

	CreateExpense(ctx context.Context, expense *Expense) error
	GetExpense(ctx context.Context, expenseID uuid.UUID) (*Expense, error)
	UpdateExpense(ctx context.Context, expense *Expense) error
	ListExpenses(ctx context.Context, filter *ExpenseFilter) ([]*Expense, int64, error)

	CreateBudget(ctx context.Context, budget *Budget) error
	GetBudget(ctx context.Context, budgetID uuid.UUID) (*Budget, error)
	UpdateBudget(ctx context.Context, budget *Budget) error
	ListBudgets(ctx context.Context, activeOnly bool) ([]*Budget, error)
}

type LogFilter struct {
	VehicleID *uuid.UUID
	DriverID  *uuid.UUID
	TripID    *uuid.UUID
	From      *time.Time
	To        *time.Time

	Page     int
	PageSize int
}

type ExpenseFilter struct {
	VehicleID  *uuid.UUID
	DriverID   *uuid.UUID
	Type       *ExpenseType
	IsApproved *bool
	From       *time.Time
	To         *time.Time

	Page     int
	PageSize int
}
