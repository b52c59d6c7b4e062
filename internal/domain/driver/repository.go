package driver

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for driver repository operations
type Repository interface {
	// Create stores the driver together with its initial performance ledger.
	Create(ctx context.Context, driver *Driver) error
	GetByID(ctx context.Context, driverID uuid.UUID) (*Driver, error)
	GetForUpdate(ctx context.Context, driverID uuid.UUID) (*Driver, error)
	Update(ctx context.Context, driver *Driver) error
	List(ctx context.Context, filter *Filter) ([]*Driver, int64, error)
	ListAvailable(ctx context.Context, today time.Time) ([]*Driver, error)
	GetDashboard(ctx context.Context, today time.Time) (*Dashboard, error)

	GetPerformance(ctx context.Context, driverID uuid.UUID) (*Performance, error)
	UpdatePerformance(ctx context.Context, perf *Performance) error

	CreateDocument(ctx context.Context, doc *Document) error
	ListDocuments(ctx context.Context, driverID uuid.UUID) ([]*Document, error)

	// UpsertAttendance replaces the record for the same driver and date.
	UpsertAttendance(ctx context.Context, attendance *Attendance) error
	ListAttendance(ctx context.Context, driverID uuid.UUID, from, to *time.Time) ([]*Attendance, error)
}

type LicenseFilter string

const (
	LicenseExpired      LicenseFilter = "expired"
	LicenseExpiringSoon LicenseFilter = "expiring_soon"
)

// Filter represents filtering options for listing drivers
type Filter struct {
	Status   *Status
	License  LicenseFilter
	IsActive *bool
	Search   string
	Today    time.Time

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
