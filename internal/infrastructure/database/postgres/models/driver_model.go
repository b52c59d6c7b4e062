package models

import (
	"time"

	"github.com/google/uuid"
)

// DriverModel represents the database model for Driver
type DriverModel struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FirstName             string     `gorm:"type:varchar(50);not null"`
	LastName              string     `gorm:"type:varchar(50);not null"`
	Email                 string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_drivers_email"`
	Phone                 string     `gorm:"type:varchar(17);not null"`
	Address               string     `gorm:"type:text"`
	DateOfBirth           *time.Time `gorm:"type:date"`
	HireDate              time.Time  `gorm:"type:date;not null"`
	LicenseNumber         string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_drivers_license_number"`
	LicenseType           string     `gorm:"type:varchar(20)"`
	LicenseExpiry         time.Time  `gorm:"type:date;not null;index"`
	Status                string     `gorm:"type:varchar(20);not null;default:'off_duty';index"`
	EmergencyContactName  string     `gorm:"type:varchar(100)"`
	EmergencyContactPhone string     `gorm:"type:varchar(17)"`
	Salary                *float64   `gorm:"type:decimal(10,2)"`
	IsActive              bool       `gorm:"default:true;not null;index"`
	CreatedAt             time.Time  `gorm:"not null"`
	UpdatedAt             time.Time  `gorm:"not null"`
}

func (DriverModel) TableName() string {
	return "drivers"
}

type DriverPerformanceModel struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	DriverID          uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	TotalTrips        int        `gorm:"not null;default:0"`
	CompletedTrips    int        `gorm:"not null;default:0"`
	CancelledTrips    int        `gorm:"not null;default:0"`
	TotalDistance     float64    `gorm:"type:decimal(12,2);not null;default:0"`
	TotalFuelConsumed float64    `gorm:"type:decimal(10,2);not null;default:0"`
	SafetyScore       float64    `gorm:"type:decimal(5,2);not null;default:100"`
	OnTimePerformance float64    `gorm:"type:decimal(5,2);not null;default:100"`
	CustomerRating    float64    `gorm:"type:decimal(3,2);not null;default:0"`
	Accidents         int        `gorm:"not null;default:0"`
	Violations        int        `gorm:"not null;default:0"`
	LastTripDate      *time.Time `gorm:"type:date"`
	UpdatedAt         time.Time  `gorm:"not null"`

	Driver *DriverModel `gorm:"foreignKey:DriverID;constraint:OnDelete:CASCADE"`
}

func (DriverPerformanceModel) TableName() string {
	return "driver_performance"
}

type DriverDocumentModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	DriverID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type       string     `gorm:"type:varchar(30);not null"`
	Title      string     `gorm:"type:varchar(200);not null"`
	FileKey    string     `gorm:"type:varchar(500);not null"`
	FileURL    string     `gorm:"type:varchar(1000)"`
	ExpiryDate *time.Time `gorm:"type:date"`
	UploadedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt  time.Time  `gorm:"not null"`
}

func (DriverDocumentModel) TableName() string {
	return "driver_documents"
}

// DriverAttendanceModel stores check in/out as seconds after midnight.
type DriverAttendanceModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	DriverID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_driver_attendance_day,priority:1"`
	Date            time.Time `gorm:"type:date;not null;uniqueIndex:idx_driver_attendance_day,priority:2"`
	CheckInSeconds  *int64
	CheckOutSeconds *int64
	Status          string    `gorm:"type:varchar(20);not null;default:'present'"`
	Notes           string    `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"not null"`
}

func (DriverAttendanceModel) TableName() string {
	return "driver_attendance"
}
