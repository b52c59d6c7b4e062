package vehicle

import (
	"time"

	"fleet-campus-admin/pkg/timeutil"

	"github.com/google/uuid"
)

// Status represents the operational state of a vehicle
type Status string

const (
	StatusAvailable Status = "available"
	StatusOnTrip    Status = "on_trip"
	StatusInShop    Status = "in_shop"
	StatusRetired   Status = "retired"
)

type FuelType string

const (
	FuelPetrol   FuelType = "petrol"
	FuelDiesel   FuelType = "diesel"
	FuelElectric FuelType = "electric"
	FuelHybrid   FuelType = "hybrid"
	FuelCNG      FuelType = "cng"
)

// ServiceIntervalDays is the default gap between services.
const ServiceIntervalDays = 90

// Vehicle represents a fleet vehicle
type Vehicle struct {
	ID           uuid.UUID
	Name         string
	Make         string
	Model        string
	Year         int
	LicensePlate string
	VIN          *string
	VehicleType  string
	FuelType     FuelType

	Capacity     float64 // kg
	Odometer     float64 // km
	FuelCapacity *float64

	InsuranceExpiry    *time.Time
	RegistrationExpiry *time.Time
	LastServiceDate    *time.Time
	NextServiceDue     *time.Time

	Status   Status
	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAvailable reports whether the vehicle can be assigned to a trip.
func (v *Vehicle) IsAvailable() bool {
	return v.Status == StatusAvailable && v.IsActive
}

// CanCarry reports whether cargo of the given weight fits the capacity.
func (v *Vehicle) CanCarry(weight float64) bool {
	return weight <= v.Capacity
}

func (v *Vehicle) NeedsService(today time.Time) bool {
	return v.NextServiceDue != nil && timeutil.OnOrBefore(*v.NextServiceDue, today)
}

func (v *Vehicle) InsuranceExpired(today time.Time) bool {
	return v.InsuranceExpiry != nil && timeutil.OnOrBefore(*v.InsuranceExpiry, today)
}

func (v *Vehicle) RegistrationExpired(today time.Time) bool {
	return v.RegistrationExpiry != nil && timeutil.OnOrBefore(*v.RegistrationExpiry, today)
}

// DefaultNextService fills NextServiceDue from LastServiceDate when unset.
func (v *Vehicle) DefaultNextService() {
	if v.NextServiceDue == nil && v.LastServiceDate != nil {
		next := timeutil.AddDays(*v.LastServiceDate, ServiceIntervalDays)
		v.NextServiceDue = &next
	}
}

// RecordService marks the vehicle serviced on the given day.
func (v *Vehicle) RecordService(day time.Time) {
	serviced := timeutil.DateOnly(day)
	next := timeutil.AddDays(serviced, ServiceIntervalDays)
	v.LastServiceDate = &serviced
	v.NextServiceDue = &next
}

type DocumentType string

const (
	DocumentRegistration DocumentType = "registration"
	DocumentInsurance    DocumentType = "insurance"
	DocumentPermit       DocumentType = "permit"
	DocumentOther        DocumentType = "other"
)

// Document is a file attached to a vehicle
type Document struct {
	ID         uuid.UUID
	VehicleID  uuid.UUID
	Type       DocumentType
	Title      string
	FileKey    string
	FileURL    string
	ExpiryDate *time.Time
	UploadedBy *uuid.UUID
	CreatedAt  time.Time
}

func (d *Document) IsExpired(today time.Time) bool {
	return d.ExpiryDate != nil && timeutil.OnOrBefore(*d.ExpiryDate, today)
}
