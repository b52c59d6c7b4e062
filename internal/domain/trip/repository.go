package trip

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for trip repository operations
type Repository interface {
	Create(ctx context.Context, trip *Trip) error
	GetByID(ctx context.Context, tripID uuid.UUID) (*Trip, error)
	GetForUpdate(ctx context.Context, tripID uuid.UUID) (*Trip, error)
	Update(ctx context.Context, trip *Trip) error
	List(ctx context.Context, filter *Filter) ([]*Trip, int64, error)
	// LastNumberWithPrefix returns the highest trip number starting with
	// prefix, or "" when there is none.
	LastNumberWithPrefix(ctx context.Context, prefix string) (string, error)
	GetStatistics(ctx context.Context) (*Statistics, error)
	GetDashboard(ctx context.Context, overdueBefore time.Time) (*Dashboard, error)

	AddExpense(ctx context.Context, expense *Expense) error
	ListExpenses(ctx context.Context, tripID uuid.UUID) ([]*Expense, error)

	AddCheckpoint(ctx context.Context, checkpoint *Checkpoint) error
	GetCheckpoint(ctx context.Context, checkpointID uuid.UUID) (*Checkpoint, error)
	UpdateCheckpoint(ctx context.Context, checkpoint *Checkpoint) error
	ListCheckpoints(ctx context.Context, tripID uuid.UUID) ([]*Checkpoint, error)

	AddDocument(ctx context.Context, doc *Document) error
	ListDocuments(ctx context.Context, tripID uuid.UUID) ([]*Document, error)
}

// Filter represents filtering options for listing trips
type Filter struct {
	Status    *Status
	Priority  *Priority
	DriverID  *uuid.UUID
	VehicleID *uuid.UUID

	StartAfter  *time.Time
	StartBefore *time.Time

	// Search matches trip number, origin, destination, driver name and
	// vehicle name or plate.
	Search string

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
