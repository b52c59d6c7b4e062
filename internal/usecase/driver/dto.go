package driver

import (
	"time"

	domainDriver "fleet-campus-admin/internal/domain/driver"

	"github.com/google/uuid"
)

type CreateDriverRequest struct {
	FirstName             string     `json:"first_name" validate:"required,min=1,max=50"`
	LastName              string     `json:"last_name" validate:"required,min=1,max=50"`
	Email                 string     `json:"email" validate:"required,email"`
	Phone                 string     `json:"phone" validate:"required,phone"`
	Address               string     `json:"address" validate:"omitempty,max=500"`
	DateOfBirth           *time.Time `json:"date_of_birth"`
	HireDate              time.Time  `json:"hire_date" validate:"required"`
	LicenseNumber         string     `json:"license_number" validate:"required,min=4,max=30"`
	LicenseType           string     `json:"license_type" validate:"required,max=20"`
	LicenseExpiry         time.Time  `json:"license_expiry" validate:"required"`
	Status                string     `json:"status" validate:"omitempty,oneof=on_duty off_duty suspended on_leave"`
	EmergencyContactName  string     `json:"emergency_contact_name" validate:"omitempty,max=100"`
	EmergencyContactPhone string     `json:"emergency_contact_phone" validate:"omitempty,phone"`
	Salary                *float64   `json:"salary" validate:"omitempty,min=0"`
}

type UpdateDriverRequest struct {
	FirstName             *string    `json:"first_name" validate:"omitempty,min=1,max=50"`
	LastName              *string    `json:"last_name" validate:"omitempty,min=1,max=50"`
	Email                 *string    `json:"email" validate:"omitempty,email"`
	Phone                 *string    `json:"phone" validate:"omitempty,phone"`
	Address               *string    `json:"address" validate:"omitempty,max=500"`
	DateOfBirth           *time.Time `json:"date_of_birth"`
	LicenseNumber         *string    `json:"license_number" validate:"omitempty,min=4,max=30"`
	LicenseType           *string    `json:"license_type" validate:"omitempty,max=20"`
	LicenseExpiry         *time.Time `json:"license_expiry"`
	EmergencyContactName  *string    `json:"emergency_contact_name" validate:"omitempty,max=100"`
	EmergencyContactPhone *string    `json:"emergency_contact_phone" validate:"omitempty,phone"`
	Salary                *float64   `json:"salary" validate:"omitempty,min=0"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=on_duty off_duty suspended on_leave"`
}

// UpdatePerformanceRequest edits the safety side of the ledger. Trip
// counters are maintained by the trip lifecycle only.
type UpdatePerformanceRequest struct {
	SafetyScore       *float64 `json:"safety_score" validate:"omitempty,min=0,max=100"`
	OnTimePerformance *float64 `json:"on_time_performance" validate:"omitempty,min=0,max=100"`
	CustomerRating    *float64 `json:"customer_rating" validate:"omitempty,min=0,max=5"`
	Accidents         *int     `json:"accidents" validate:"omitempty,min=0"`
	Violations        *int     `json:"violations" validate:"omitempty,min=0"`
}

type DriverFilterRequest struct {
	Status    *string `form:"status" validate:"omitempty,oneof=on_duty off_duty suspended on_leave"`
	License   string  `form:"license" validate:"omitempty,oneof=expired expiring_soon"`
	IsActive  *bool   `form:"is_active"`
	Search    string  `form:"search"`
	Page      int     `form:"page" validate:"omitempty,min=1"`
	PageSize  int     `form:"page_size" validate:"omitempty,min=1,max=100"`
	SortBy    string  `form:"sort_by" validate:"omitempty,oneof=created_at first_name last_name hire_date license_expiry"`
	SortOrder string  `form:"sort_order" validate:"omitempty,oneof=asc desc"`
}

type UploadDocumentRequest struct {
	Type       string     `form:"type" validate:"required,oneof=license medical background_check training other"`
	Title      string     `form:"title" validate:"required,max=200"`
	ExpiryDate *time.Time `form:"expiry_date" time_format:"2006-01-02"`
}

// AttendanceRequest records one day. CheckIn and CheckOut use HH:MM.
type AttendanceRequest struct {
	Date     time.Time `json:"date" validate:"required"`
	CheckIn  string    `json:"check_in" validate:"omitempty,datetime=15:04"`
	CheckOut string    `json:"check_out" validate:"omitempty,datetime=15:04"`
	Status   string    `json:"status" validate:"required,oneof=present absent late half_day leave"`
	Notes    string    `json:"notes" validate:"omitempty,max=500"`
}

type DriverResponse struct {
	ID                    uuid.UUID  `json:"id"`
	FirstName             string     `json:"first_name"`
	LastName              string     `json:"last_name"`
	FullName              string     `json:"full_name"`
	Email                 string     `json:"email"`
	Phone                 string     `json:"phone"`
	Address               string     `json:"address"`
	DateOfBirth           *time.Time `json:"date_of_birth"`
	HireDate              time.Time  `json:"hire_date"`
	LicenseNumber         string     `json:"license_number"`
	LicenseType           string     `json:"license_type"`
	LicenseExpiry         time.Time  `json:"license_expiry"`
	LicenseExpired        bool       `json:"license_expired"`
	LicenseExpiresSoon    bool       `json:"license_expires_soon"`
	Status                string     `json:"status"`
	IsAvailable           bool       `json:"is_available"`
	EmergencyContactName  string     `json:"emergency_contact_name"`
	EmergencyContactPhone string     `json:"emergency_contact_phone"`
	Salary                *float64   `json:"salary"`
	IsActive              bool       `json:"is_active"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

type AvailableDriver struct {
	ID            uuid.UUID `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	LicenseNumber string    `json:"license_number"`
}

type DriverListResponse struct {
	Drivers    []DriverResponse `json:"drivers"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

type PerformanceResponse struct {
	DriverID          uuid.UUID  `json:"driver_id"`
	TotalTrips        int        `json:"total_trips"`
	CompletedTrips    int        `json:"completed_trips"`
	CancelledTrips    int        `json:"cancelled_trips"`
	TotalDistance     float64    `json:"total_distance"`
	TotalFuelConsumed float64    `json:"total_fuel_consumed"`
	CompletionRate    float64    `json:"completion_rate"`
	CancellationRate  float64    `json:"cancellation_rate"`
	FuelEfficiency    float64    `json:"fuel_efficiency"`
	SafetyScore       float64    `json:"safety_score"`
	OnTimePerformance float64    `json:"on_time_performance"`
	CustomerRating    float64    `json:"customer_rating"`
	Accidents         int        `json:"accidents"`
	Violations        int        `json:"violations"`
	LastTripDate      *time.Time `json:"last_trip_date"`
}

type DocumentResponse struct {
	ID          uuid.UUID  `json:"id"`
	DriverID    uuid.UUID  `json:"driver_id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	FileURL     string     `json:"file_url"`
	ExpiryDate  *time.Time `json:"expiry_date"`
	IsExpired   bool       `json:"is_expired"`
	ExpiresSoon bool       `json:"expires_soon"`
	CreatedAt   time.Time  `json:"created_at"`
}

type AttendanceResponse struct {
	ID          uuid.UUID `json:"id"`
	DriverID    uuid.UUID `json:"driver_id"`
	Date        string    `json:"date"`
	CheckIn     string    `json:"check_in,omitempty"`
	CheckOut    string    `json:"check_out,omitempty"`
	Status      string    `json:"status"`
	HoursWorked float64   `json:"hours_worked"`
	Notes       string    `json:"notes"`
}

type DashboardResponse struct {
	TotalDrivers     int64   `json:"total_drivers"`
	AvailableDrivers int64   `json:"available_drivers"`
	ExpiredLicenses  int64   `json:"expired_licenses"`
	ExpiringSoon     int64   `json:"expiring_soon"`
	AvgSafetyScore   float64 `json:"avg_safety_score"`
}

func ToDriverResponse(d *domainDriver.Driver, today time.Time) DriverResponse {
	return DriverResponse{
		ID:                    d.ID,
		FirstName:             d.FirstName,
		LastName:              d.LastName,
		FullName:              d.FullName(),
		Email:                 d.Email,
		Phone:                 d.Phone,
		Address:               d.Address,
		DateOfBirth:           d.DateOfBirth,
		HireDate:              d.HireDate,
		LicenseNumber:         d.LicenseNumber,
		LicenseType:           d.LicenseType,
		LicenseExpiry:         d.LicenseExpiry,
		LicenseExpired:        d.LicenseExpired(today),
		LicenseExpiresSoon:    d.LicenseExpiresSoon(today),
		Status:                string(d.Status),
		IsAvailable:           d.IsAvailable(today),
		EmergencyContactName:  d.EmergencyContactName,
		EmergencyContactPhone: d.EmergencyContactPhone,
		Salary:                d.Salary,
		IsActive:              d.IsActive,
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
	}
}

func ToPerformanceResponse(p *domainDriver.Performance) *PerformanceResponse {
	return &PerformanceResponse{
		DriverID:          p.DriverID,
		TotalTrips:        p.TotalTrips,
		CompletedTrips:    p.CompletedTrips,
		CancelledTrips:    p.CancelledTrips,
		TotalDistance:     p.TotalDistance,
		TotalFuelConsumed: p.TotalFuelConsumed,
		CompletionRate:    p.CompletionRate(),
		CancellationRate:  p.CancellationRate(),
		FuelEfficiency:    p.FuelEfficiency(),
		SafetyScore:       p.SafetyScore,
		OnTimePerformance: p.OnTimePerformance,
		CustomerRating:    p.CustomerRating,
		Accidents:         p.Accidents,
		Violations:        p.Violations,
		LastTripDate:      p.LastTripDate,
	}
}

func ToDocumentResponse(d *domainDriver.Document, today time.Time) DocumentResponse {
	return DocumentResponse{
		ID:          d.ID,
		DriverID:    d.DriverID,
		Type:        string(d.Type),
		Title:       d.Title,
		FileURL:     d.FileURL,
		ExpiryDate:  d.ExpiryDate,
		IsExpired:   d.IsExpired(today),
		ExpiresSoon: d.ExpiresSoon(today),
		CreatedAt:   d.CreatedAt,
	}
}

func ToAttendanceResponse(a *domainDriver.Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:          a.ID,
		DriverID:    a.DriverID,
		Date:        a.Date.Format("2006-01-02"),
		CheckIn:     formatClock(a.CheckIn),
		CheckOut:    formatClock(a.CheckOut),
		Status:      string(a.Status),
		HoursWorked: a.HoursWorked(),
		Notes:       a.Notes,
	}
}
