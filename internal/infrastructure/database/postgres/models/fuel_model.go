package models

import (
	"time"

	"github.com/google/uuid"
)

// FuelLogModel represents the database model for a refuelling
type FuelLogModel struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	VehicleID        uuid.UUID  `gorm:"type:uuid;not null;index:idx_fuel_logs_vehicle_date,priority:1"`
	TripID           *uuid.UUID `gorm:"type:uuid;index"`
	DriverID         *uuid.UUID `gorm:"type:uuid;index"`
	Station          string     `gorm:"type:varchar(200)"`
	FuelDate         time.Time  `gorm:"type:timestamptz;not null;index:idx_fuel_logs_vehicle_date,priority:2"`
	FuelLiters       float64    `gorm:"type:decimal(8,2);not null"`
	CostPerLiter     float64    `gorm:"type:decimal(6,2);not null"`
	TotalCost        float64    `gorm:"type:decimal(10,2);not null"`
	OdometerReading  float64    `gorm:"type:decimal(12,2);not null"`
	PreviousOdometer *float64   `gorm:"type:decimal(12,2)"`
	DistanceTraveled *float64   `gorm:"type:decimal(10,2)"`
	FuelEfficiency   *float64   `gorm:"type:decimal(6,2)"`
	Notes            string     `gorm:"type:text"`
	CreatedBy        *uuid.UUID `gorm:"type:uuid"`
	CreatedAt        time.Time  `gorm:"not null"`
	UpdatedAt        time.Time  `gorm:"not null"`

	Vehicle *VehicleModel `gorm:"foreignKey:VehicleID"`
}

func (FuelLogModel) TableName() string {
	return "fuel_logs"
}

type ExpenseModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	VehicleID      *uuid.UUID `gorm:"type:uuid;index"`
	DriverID       *uuid.UUID `gorm:"type:uuid;index"`
	TripID         *uuid.UUID `gorm:"type:uuid;index"`
	Type           string     `gorm:"type:varchar(20);not null;index"`
	Amount         float64    `gorm:"type:decimal(10,2);not null"`
	PaymentMethod  string     `gorm:"type:varchar(20);not null;default:'cash'"`
	ExpenseDate    time.Time  `gorm:"type:date;not null;index"`
	Description    string     `gorm:"type:text"`
	IsReimbursable bool       `gorm:"default:false;not null"`
	IsApproved     bool       `gorm:"default:false;not null"`
	ApprovedBy     *uuid.UUID `gorm:"type:uuid"`
	CreatedBy      *uuid.UUID `gorm:"type:uuid"`
	CreatedAt      time.Time  `gorm:"not null"`
	UpdatedAt      time.Time  `gorm:"not null"`
}

func (ExpenseModel) TableName() string {
	return "expenses"
}

type FuelBudgetModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	VehicleID    *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_fuel_budgets_scope,priority:1"`
	DriverID     *uuid.UUID `gorm:"type:uuid;index"`
	Period       string     `gorm:"type:varchar(20);not null;uniqueIndex:idx_fuel_budgets_scope,priority:2"`
	StartDate    time.Time  `gorm:"type:date;not null;uniqueIndex:idx_fuel_budgets_scope,priority:3"`
	EndDate      time.Time  `gorm:"type:date;not null"`
	BudgetAmount float64    `gorm:"type:decimal(12,2);not null"`
	ActualSpent  float64    `gorm:"type:decimal(12,2);not null;default:0"`
	IsActive     bool       `gorm:"default:true;not null;index"`
	CreatedAt    time.Time  `gorm:"not null"`
	UpdatedAt    time.Time  `gorm:"not null"`
}

func (FuelBudgetModel) TableName() string {
	return "fuel_budgets"
}
