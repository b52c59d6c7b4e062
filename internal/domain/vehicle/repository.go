package vehicle

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for vehicle repository operations
type Repository interface {
	Create(ctx context.Context, vehicle *Vehicle) error
	GetByID(ctx context.Context, vehicleID uuid.UUID) (*Vehicle, error)
	// GetForUpdate reads the vehicle and locks its row for the surrounding transaction.
	GetForUpdate(ctx context.Context, vehicleID uuid.UUID) (*Vehicle, error)
	Update(ctx context.Context, vehicle *Vehicle) error
	List(ctx context.Context, filter *Filter) ([]*Vehicle, int64, error)
	ListAvailable(ctx context.Context) ([]*Vehicle, error)

	CreateDocument(ctx context.Context, doc *Document) error
	ListDocuments(ctx context.Context, vehicleID uuid.UUID) ([]*Document, error)
}

// Filter represents filtering options for listing vehicles
type Filter struct {
	Status   *Status
	FuelType *FuelType
	IsActive *bool
	Search   string

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
