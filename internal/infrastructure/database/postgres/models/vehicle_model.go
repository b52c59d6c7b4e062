package models

import (
	"time"

	"github.com/google/uuid"
)

// VehicleModel represents the database model for Vehicle
type VehicleModel struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name               string     `gorm:"type:varchar(100);not null"`
	Make               string     `gorm:"type:varchar(50);not null"`
	Model              string     `gorm:"type:varchar(50);not null"`
	Year               int        `gorm:"type:integer;not null"`
	LicensePlate       string     `gorm:"type:varchar(20);not null;uniqueIndex:idx_vehicles_license_plate"`
	VIN                *string    `gorm:"column:vin;type:varchar(17);uniqueIndex:idx_vehicles_vin"`
	VehicleType        string     `gorm:"type:varchar(50)"`
	FuelType           string     `gorm:"type:varchar(20);not null;default:'diesel'"`
	Capacity           float64    `gorm:"type:decimal(10,2);not null"`
	Odometer           float64    `gorm:"type:decimal(12,2);not null;default:0"`
	FuelCapacity       *float64   `gorm:"type:decimal(8,2)"`
	InsuranceExpiry    *time.Time `gorm:"type:date"`
	RegistrationExpiry *time.Time `gorm:"type:date"`
	LastServiceDate    *time.Time `gorm:"type:date"`
	NextServiceDue     *time.Time `gorm:"type:date"`
	Status             string     `gorm:"type:varchar(20);not null;default:'available';index"`
	IsActive           bool       `gorm:"default:true;not null;index"`
	CreatedAt          time.Time  `gorm:"not null"`
	UpdatedAt          time.Time  `gorm:"not null"`
}

func (VehicleModel) TableName() string {
	return "vehicles"
}

type VehicleDocumentModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	VehicleID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type       string     `gorm:"type:varchar(30);not null"`
	Title      string     `gorm:"type:varchar(200);not null"`
	FileKey    string     `gorm:"type:varchar(500);not null"`
	FileURL    string     `gorm:"type:varchar(1000)"`
	ExpiryDate *time.Time `gorm:"type:date"`
	UploadedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt  time.Time  `gorm:"not null"`

	Vehicle *VehicleModel `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE"`
}

func (VehicleDocumentModel) TableName() string {
	return "vehicle_documents"
}
