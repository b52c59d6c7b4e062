package models

import (
	"time"

	"github.com/google/uuid"
)

type MaintenanceScheduleModel struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	VehicleID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	MaintenanceType   string     `gorm:"type:varchar(50);not null"`
	Title             string     `gorm:"type:varchar(200);not null"`
	Description       string     `gorm:"type:text"`
	Status            string     `gorm:"type:varchar(20);not null;default:'scheduled';index"`
	Priority          string     `gorm:"type:varchar(10);not null;default:'medium'"`
	ScheduledDate     time.Time  `gorm:"type:timestamptz;not null;index"`
	EstimatedDuration *float64   `gorm:"type:decimal(6,2)"`
	EstimatedCost     *float64   `gorm:"type:decimal(10,2)"`
	ActualDuration    *float64   `gorm:"type:decimal(6,2)"`
	ActualCost        *float64   `gorm:"type:decimal(10,2)"`
	OdometerReading   *float64   `gorm:"type:decimal(12,2)"`
	CompletionNotes   string     `gorm:"type:text"`
	CompletedAt       *time.Time `gorm:"type:timestamptz"`
	CompletedBy       *uuid.UUID `gorm:"type:uuid"`
	CreatedBy         *uuid.UUID `gorm:"type:uuid"`
	CreatedAt         time.Time  `gorm:"not null"`
	UpdatedAt         time.Time  `gorm:"not null"`

	Vehicle *VehicleModel `gorm:"foreignKey:VehicleID"`
}

func (MaintenanceScheduleModel) TableName() string {
	return "maintenance_schedules"
}

type MaintenancePartModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ScheduleID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"type:varchar(200);not null"`
	PartNumber string    `gorm:"type:varchar(100)"`
	Quantity   int       `gorm:"not null;default:1"`
	UnitCost   float64   `gorm:"type:decimal(10,2);not null"`
	CreatedAt  time.Time `gorm:"not null"`

	Schedule *MaintenanceScheduleModel `gorm:"foreignKey:ScheduleID;constraint:OnDelete:CASCADE"`
}

func (MaintenancePartModel) TableName() string {
	return "maintenance_parts"
}

type MaintenanceReminderModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	VehicleID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	Title           string     `gorm:"type:varchar(200);not null"`
	Description     string     `gorm:"type:text"`
	TriggerOdometer *float64   `gorm:"type:decimal(12,2)"`
	TriggerDate     *time.Time `gorm:"type:date"`
	IsActive        bool       `gorm:"default:true;not null;index"`
	IsSent          bool       `gorm:"default:false;not null"`
	SentAt          *time.Time `gorm:"type:timestamptz"`
	CreatedAt       time.Time  `gorm:"not null"`
}

func (MaintenanceReminderModel) TableName() string {
	return "maintenance_reminders"
}
