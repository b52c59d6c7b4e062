package driver

import (
	"time"

	"fleet-campus-admin/pkg/timeutil"

	"github.com/google/uuid"
)

// Status represents the duty status of a driver
type Status string

const (
	StatusOnDuty    Status = "on_duty"
	StatusOffDuty   Status = "off_duty"
	StatusSuspended Status = "suspended"
	StatusOnLeave   Status = "on_leave"
)

// LicenseWarningDays is how far ahead a license counts as expiring soon.
const LicenseWarningDays = 30

// Driver represents a fleet driver
type Driver struct {
	ID          uuid.UUID
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Address     string
	DateOfBirth *time.Time
	HireDate    time.Time

	LicenseNumber string
	LicenseType   string
	LicenseExpiry time.Time

	Status                Status
	EmergencyContactName  string
	EmergencyContactPhone string
	Salary                *float64
	IsActive              bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (d *Driver) FullName() string {
	return d.FirstName + " " + d.LastName
}

// LicenseExpired reports whether the license expiry is on or before today.
func (d *Driver) LicenseExpired(today time.Time) bool {
	return timeutil.OnOrBefore(d.LicenseExpiry, today)
}

// LicenseExpiresSoon reports whether the license is still valid but expires
// within LicenseWarningDays.
func (d *Driver) LicenseExpiresSoon(today time.Time) bool {
	return !d.LicenseExpired(today) &&
		timeutil.OnOrBefore(d.LicenseExpiry, timeutil.AddDays(today, LicenseWarningDays))
}

// IsAvailable reports whether the driver can be dispatched on a trip.
func (d *Driver) IsAvailable(today time.Time) bool {
	return d.Status == StatusOnDuty && d.IsActive && !d.LicenseExpired(today)
}

// Performance is the running trip ledger kept for every driver.
type Performance struct {
	ID                uuid.UUID
	DriverID          uuid.UUID
	TotalTrips        int
	CompletedTrips    int
	CancelledTrips    int
	TotalDistance     float64
	TotalFuelConsumed float64
	SafetyScore       float64
	OnTimePerformance float64
	CustomerRating    float64
	Accidents         int
	Violations        int
	LastTripDate      *time.Time
	UpdatedAt         time.Time
}

// NewPerformance returns the initial ledger for a driver.
func NewPerformance(driverID uuid.UUID) *Performance {
	return &Performance{
		DriverID:          driverID,
		SafetyScore:       100,
		OnTimePerformance: 100,
	}
}

// Record adds one finished trip to the ledger. Cancelled trips only bump
// the trip and cancellation counters.
func (p *Performance) Record(completed bool, distance, fuel float64, at time.Time) {
	p.TotalTrips++
	if !completed {
		p.CancelledTrips++
		return
	}

	p.CompletedTrips++
	p.TotalDistance += distance
	p.TotalFuelConsumed += fuel
	day := timeutil.DateOnly(at)
	p.LastTripDate = &day
}

func (p *Performance) CompletionRate() float64 {
	if p.TotalTrips == 0 {
		return 0
	}
	return float64(p.CompletedTrips) / float64(p.TotalTrips) * 100
}

func (p *Performance) CancellationRate() float64 {
	if p.TotalTrips == 0 {
		return 0
	}
	return float64(p.CancelledTrips) / float64(p.TotalTrips) * 100
}

// FuelEfficiency is distance per unit of fuel, in km/l.
func (p *Performance) FuelEfficiency() float64 {
	if p.TotalFuelConsumed == 0 {
		return 0
	}
	return p.TotalDistance / p.TotalFuelConsumed
}

type DocumentType string

const (
	DocumentLicense         DocumentType = "license"
	DocumentMedical         DocumentType = "medical"
	DocumentBackgroundCheck DocumentType = "background_check"
	DocumentTraining        DocumentType = "training"
	DocumentOther           DocumentType = "other"
)

// Document is a file attached to a driver
type Document struct {
	ID         uuid.UUID
	DriverID   uuid.UUID
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

func (d *Document) ExpiresSoon(today time.Time) bool {
	return d.ExpiryDate != nil && !d.IsExpired(today) &&
		timeutil.OnOrBefore(*d.ExpiryDate, timeutil.AddDays(today, LicenseWarningDays))
}

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceHalfDay AttendanceStatus = "half_day"
	AttendanceLeave   AttendanceStatus = "leave"
)

// Attendance is one day of a driver's time sheet. CheckIn and CheckOut are
// offsets from midnight.
type Attendance struct {
	ID        uuid.UUID
	DriverID  uuid.UUID
	Date      time.Time
	CheckIn   *time.Duration
	CheckOut  *time.Duration
	Status    AttendanceStatus
	Notes     string
	CreatedAt time.Time
}

// HoursWorked returns the shift length, wrapping past midnight when the
// check-out is earlier than the check-in.
func (a *Attendance) HoursWorked() float64 {
	if a.CheckIn == nil || a.CheckOut == nil {
		return 0
	}
	worked := *a.CheckOut - *a.CheckIn
	if worked < 0 {
		worked += timeutil.Day
	}
	return worked.Hours()
}

// Dashboard aggregates driver counts
type Dashboard struct {
	TotalDrivers     int64
	AvailableDrivers int64
	ExpiredLicenses  int64
	ExpiringSoon     int64
	AvgSafetyScore   float64
}
