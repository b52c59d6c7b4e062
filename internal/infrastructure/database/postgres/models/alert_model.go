package models

import (
	"time"

	"github.com/google/uuid"
)

type AlertModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Type           string     `gorm:"type:varchar(40);not null;index:idx_alerts_open_subject"`
	Severity       string     `gorm:"type:varchar(10);not null;index"`
	Status         string     `gorm:"type:varchar(20);not null;default:'active';index"`
	Title          string     `gorm:"type:varchar(200);not null"`
	Message        string     `gorm:"type:text"`
	SubjectKey     string     `gorm:"type:varchar(80);not null;index:idx_alerts_open_subject"`
	VehicleID      *uuid.UUID `gorm:"type:uuid;index"`
	DriverID       *uuid.UUID `gorm:"type:uuid;index"`
	BudgetID       *uuid.UUID `gorm:"type:uuid"`
	TriggerValue   *float64   `gorm:"type:decimal(12,2)"`
	ThresholdValue *float64   `gorm:"type:decimal(12,2)"`
	DueDate        *time.Time `gorm:"type:date"`
	ActionRequired string     `gorm:"type:text"`
	ActionTaken    string     `gorm:"type:text"`
	AcknowledgedBy *uuid.UUID `gorm:"type:uuid"`
	AcknowledgedAt *time.Time `gorm:"type:timestamptz"`
	ResolvedBy     *uuid.UUID `gorm:"type:uuid"`
	ResolvedAt     *time.Time `gorm:"type:timestamptz"`
	CreatedAt      time.Time  `gorm:"not null;index"`
	UpdatedAt      time.Time  `gorm:"not null"`
}

func (AlertModel) TableName() string {
	return "alerts"
}
