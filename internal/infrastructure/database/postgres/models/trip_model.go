package models

import (
	"time"

	"github.com/google/uuid"
)

// TripModel represents the database model for Trip
type TripModel struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TripNumber         string     `gorm:"type:varchar(20);not null;uniqueIndex:idx_trips_trip_number"`
	Origin             string     `gorm:"type:varchar(255);not null"`
	Destination        string     `gorm:"type:varchar(255);not null"`
	DriverID           uuid.UUID  `gorm:"type:uuid;not null;index"`
	VehicleID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	CargoWeight        float64    `gorm:"type:decimal(10,2);not null"`
	CargoDescription   string     `gorm:"type:text"`
	EstimatedDistance  *float64   `gorm:"type:decimal(10,2)"`
	EstimatedDuration  *float64   `gorm:"type:decimal(6,2)"`
	ActualDistance     *float64   `gorm:"type:decimal(10,2)"`
	ActualDuration     *float64   `gorm:"type:decimal(6,2)"`
	Priority           string     `gorm:"type:varchar(10);not null;default:'medium'"`
	Status             string     `gorm:"type:varchar(20);not null;default:'draft';index"`
	StartDate          *time.Time `gorm:"type:timestamptz;index"`
	EndDate            *time.Time `gorm:"type:timestamptz"`
	ActualStartTime    *time.Time `gorm:"type:timestamptz"`
	ActualEndTime      *time.Time `gorm:"type:timestamptz"`
	Notes              string     `gorm:"type:text"`
	CancellationReason string     `gorm:"type:text"`
	CreatedBy          *uuid.UUID `gorm:"type:uuid"`
	DispatchedBy       *uuid.UUID `gorm:"type:uuid"`
	CreatedAt          time.Time  `gorm:"not null;index"`
	UpdatedAt          time.Time  `gorm:"not null"`

	// Relations
	Driver  *DriverModel  `gorm:"foreignKey:DriverID"`
	Vehicle *VehicleModel `gorm:"foreignKey:VehicleID"`
}

func (TripModel) TableName() string {
	return "trips"
}

type TripExpenseModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TripID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type        string     `gorm:"type:varchar(20);not null"`
	Amount      float64    `gorm:"type:decimal(10,2);not null"`
	Description string     `gorm:"type:text"`
	ReceiptKey  string     `gorm:"type:varchar(500)"`
	IncurredAt  time.Time  `gorm:"type:timestamptz;not null"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time  `gorm:"not null"`

	Trip *TripModel `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE"`
}

func (TripExpenseModel) TableName() string {
	return "trip_expenses"
}

type TripCheckpointModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TripID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_trip_checkpoints_ordinal,priority:1"`
	Sequence      int        `gorm:"not null;uniqueIndex:idx_trip_checkpoints_ordinal,priority:2"`
	Location      string     `gorm:"type:varchar(255);not null"`
	Latitude      *float64   `gorm:"type:decimal(9,6)"`
	Longitude     *float64   `gorm:"type:decimal(9,6)"`
	ArrivalTime   *time.Time `gorm:"type:timestamptz"`
	DepartureTime *time.Time `gorm:"type:timestamptz"`
	IsCompleted   bool       `gorm:"default:false;not null"`
	Notes         string     `gorm:"type:text"`
	CreatedAt     time.Time  `gorm:"not null"`

	Trip *TripModel `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE"`
}

func (TripCheckpointModel) TableName() string {
	return "trip_checkpoints"
}

type TripDocumentModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TripID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type       string     `gorm:"type:varchar(30);not null"`
	Title      string     `gorm:"type:varchar(200);not null"`
	FileKey    string     `gorm:"type:varchar(500);not null"`
	FileURL    string     `gorm:"type:varchar(1000)"`
	UploadedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt  time.Time  `gorm:"not null"`
}

func (TripDocumentModel) TableName() string {
	return "trip_documents"
}
