package trip

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a trip
type Status string

const (
	StatusDraft      Status = "draft"
	StatusDispatched Status = "dispatched"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusDelayed    Status = "delayed"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Trip is a single dispatch of one driver and one vehicle between two places
type Trip struct {
	ID         uuid.UUID
	TripNumber string

	Origin      string
	Destination string
	DriverID    uuid.UUID
	VehicleID   uuid.UUID

	CargoWeight      float64
	CargoDescription string

	EstimatedDistance *float64
	EstimatedDuration *float64 // hours
	ActualDistance    *float64
	ActualDuration    *float64

	Priority Priority
	Status   Status

	StartDate       *time.Time
	EndDate         *time.Time
	ActualStartTime *time.Time
	ActualEndTime   *time.Time

	Notes              string
	CancellationReason string
	CreatedBy          *uuid.UUID
	DispatchedBy       *uuid.UUID

	// Read-only projections filled by the repository.
	DriverName   string
	VehicleName  string
	VehiclePlate string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t *Trip) IsActive() bool {
	return t.Status == StatusDispatched || t.Status == StatusInProgress
}

// DurationVariance is actual minus estimated duration, nil until both exist.
func (t *Trip) DurationVariance() *float64 {
	return variance(t.ActualDuration, t.EstimatedDuration)
}

// DistanceVariance is actual minus estimated distance, nil until both exist.
func (t *Trip) DistanceVariance() *float64 {
	return variance(t.ActualDistance, t.EstimatedDistance)
}

// IsOverdue reports whether a dispatched trip has outrun its estimated duration.
func (t *Trip) IsOverdue(now time.Time) bool {
	if t.Status != StatusDispatched || t.StartDate == nil || t.EstimatedDuration == nil {
		return false
	}
	deadline := t.StartDate.Add(time.Duration(*t.EstimatedDuration * float64(time.Hour)))
	return now.After(deadline)
}

func variance(actual, estimated *float64) *float64 {
	if actual == nil || estimated == nil {
		return nil
	}
	v := *actual - *estimated
	return &v
}

type ExpenseType string

const (
	ExpenseFuel          ExpenseType = "fuel"
	ExpenseToll          ExpenseType = "toll"
	ExpenseParking       ExpenseType = "parking"
	ExpenseMaintenance   ExpenseType = "maintenance"
	ExpenseFood          ExpenseType = "food"
	ExpenseAccommodation ExpenseType = "accommodation"
	ExpenseOther         ExpenseType = "other"
)

// Expense is a cost incurred during a trip
type Expense struct {
	ID          uuid.UUID
	TripID      uuid.UUID
	Type        ExpenseType
	Amount      float64
	Description string
	ReceiptKey  string
	IncurredAt  time.Time
	CreatedBy   *uuid.UUID
	CreatedAt   time.Time
}

// Checkpoint is a waypoint on a trip route
type Checkpoint struct {
	ID            uuid.UUID
	TripID        uuid.UUID
	Sequence      int
	Location      string
	Latitude      *float64
	Longitude     *float64
	ArrivalTime   *time.Time
	DepartureTime *time.Time
	IsCompleted   bool
	Notes         string
	CreatedAt     time.Time
}

type DocumentType string

const (
	DocumentBillOfLading    DocumentType = "bill_of_lading"
	DocumentDeliveryReceipt DocumentType = "delivery_receipt"
	DocumentProofOfDelivery DocumentType = "proof_of_delivery"
	DocumentInsurance       DocumentType = "insurance"
	DocumentPermit          DocumentType = "permit"
	DocumentOther           DocumentType = "other"
)

// Document is a file attached to a trip
type Document struct {
	ID         uuid.UUID
	TripID     uuid.UUID
	Type       DocumentType
	Title      string
	FileKey    string
	FileURL    string
	UploadedBy *uuid.UUID
	CreatedAt  time.Time
}

// Statistics is the per-status trip count summary
type Statistics struct {
	Total      int64 `json:"total"`
	Draft      int64 `json:"draft"`
	Dispatched int64 `json:"dispatched"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	Cancelled  int64 `json:"cancelled"`
}

// Dashboard summarises trip activity
type Dashboard struct {
	Total     int64
	Active    int64
	Completed int64
	Cancelled int64
	Overdue   int64
	Recent    []*Trip
}
