package vehicle

import (
	"time"

	domainVehicle "fleet-campus-admin/internal/domain/vehicle"

	"github.com/google/uuid"
)

type CreateVehicleRequest struct {
	Name               string     `json:"name" validate:"required,min=2,max=100"`
	Make               string     `json:"make" validate:"required,max=50"`
	Model              string     `json:"model" validate:"required,max=50"`
	Year               int        `json:"year" validate:"required,min=1950,max=2100"`
	LicensePlate       string     `json:"license_plate" validate:"required,min=2,max=20"`
	VIN                *string    `json:"vin" validate:"omitempty,len=17"`
	VehicleType        string     `json:"vehicle_type" validate:"required,max=30"`
	FuelType           string     `json:"fuel_type" validate:"required,oneof=petrol diesel electric hybrid cng"`
	Capacity           float64    `json:"capacity" validate:"gt=0"`
	Odometer           float64    `json:"odometer" validate:"min=0"`
	FuelCapacity       *float64   `json:"fuel_capacity" validate:"omitempty,gt=0"`
	InsuranceExpiry    *time.Time `json:"insurance_expiry"`
	RegistrationExpiry *time.Time `json:"registration_expiry"`
	LastServiceDate    *time.Time `json:"last_service_date"`
	NextServiceDue     *time.Time `json:"next_service_due"`
}

type UpdateVehicleRequest struct {
	Name               *string    `json:"name" validate:"omitempty,min=2,max=100"`
	Make               *string    `json:"make" validate:"omitempty,max=50"`
	Model              *string    `json:"model" validate:"omitempty,max=50"`
	Year               *int       `json:"year" validate:"omitempty,min=1950,max=2100"`
	LicensePlate       *string    `json:"license_plate" validate:"omitempty,min=2,max=20"`
	VIN                *string    `json:"vin" validate:"omitempty,len=17"`
	VehicleType        *string    `json:"vehicle_type" validate:"omitempty,max=30"`
	FuelType           *string    `json:"fuel_type" validate:"omitempty,oneof=petrol diesel electric hybrid cng"`
	Capacity           *float64   `json:"capacity" validate:"omitempty,gt=0"`
	Odometer           *float64   `json:"odometer" validate:"omitempty,min=0"`
	FuelCapacity       *float64   `json:"fuel_capacity" validate:"omitempty,gt=0"`
	InsuranceExpiry    *time.Time `json:"insurance_expiry"`
	RegistrationExpiry *time.Time `json:"registration_expiry"`
	LastServiceDate    *time.Time `json:"last_service_date"`
	NextServiceDue     *time.Time `json:"next_service_due"`
	Status             *string    `json:"status" validate:"omitempty,oneof=available in_shop retired"`
}

type VehicleFilterRequest struct {
	Status    *string `form:"status" validate:"omitempty,oneof=available on_trip in_shop retired"`
	FuelType  *string `form:"fuel_type" validate:"omitempty,oneof=petrol diesel electric hybrid cng"`
	IsActive  *bool   `form:"is_active"`
	Search    string  `form:"search"`
	Page      int     `form:"page" validate:"omitempty,min=1"`
	PageSize  int     `form:"page_size" validate:"omitempty,min=1,max=100"`
	SortBy    string  `form:"sort_by" validate:"omitempty,oneof=created_at name license_plate year capacity odometer next_service_due"`
	SortOrder string  `form:"sort_order" validate:"omitempty,oneof=asc desc"`
}

type UploadDocumentRequest struct {
	Type       string     `form:"type" validate:"required,oneof=registration insurance permit other"`
	Title      string     `form:"title" validate:"required,max=200"`
	ExpiryDate *time.Time `form:"expiry_date" time_format:"2006-01-02"`
}

type VehicleResponse struct {
	ID                  uuid.UUID  `json:"id"`
	Name                string     `json:"name"`
	Make                string     `json:"make"`
	Model               string     `json:"model"`
	Year                int        `json:"year"`
	LicensePlate        string     `json:"license_plate"`
	VIN                 *string    `json:"vin"`
	VehicleType         string     `json:"vehicle_type"`
	FuelType            string     `json:"fuel_type"`
	Capacity            float64    `json:"capacity"`
	Odometer            float64    `json:"odometer"`
	FuelCapacity        *float64   `json:"fuel_capacity"`
	InsuranceExpiry     *time.Time `json:"insurance_expiry"`
	RegistrationExpiry  *time.Time `json:"registration_expiry"`
	LastServiceDate     *time.Time `json:"last_service_date"`
	NextServiceDue      *time.Time `json:"next_service_due"`
	Status              string     `json:"status"`
	IsActive            bool       `json:"is_active"`
	IsAvailable         bool       `json:"is_available"`
	NeedsService        bool       `json:"needs_service"`
	InsuranceExpired    bool       `json:"insurance_expired"`
	RegistrationExpired bool       `json:"registration_expired"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// AvailableVehicle is the compact shape used by dispatch pickers.
type AvailableVehicle struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	LicensePlate string    `json:"license_plate"`
	Capacity     float64   `json:"capacity"`
	Model        string    `json:"model"`
}

type CapacityCheckResponse struct {
	CanCarry        bool    `json:"can_carry"`
	VehicleCapacity float64 `json:"vehicle_capacity"`
	CargoWeight     float64 `json:"cargo_weight"`
}

type DocumentResponse struct {
	ID         uuid.UUID  `json:"id"`
	VehicleID  uuid.UUID  `json:"vehicle_id"`
	Type       string     `json:"type"`
	Title      string     `json:"title"`
	FileURL    string     `json:"file_url"`
	ExpiryDate *time.Time `json:"expiry_date"`
	IsExpired  bool       `json:"is_expired"`
	CreatedAt  time.Time  `json:"created_at"`
}

type VehicleListResponse struct {
	Vehicles   []VehicleResponse `json:"vehicles"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

func ToVehicleResponse(v *domainVehicle.Vehicle, today time.Time) VehicleResponse {
	return VehicleResponse{
		ID:                  v.ID,
		Name:                v.Name,
		Make:                v.Make,
		Model:               v.Model,
		Year:                v.Year,
		LicensePlate:        v.LicensePlate,
		VIN:                 v.VIN,
		VehicleType:         v.VehicleType,
		FuelType:            string(v.FuelType),
		Capacity:            v.Capacity,
		Odometer:            v.Odometer,
		FuelCapacity:        v.FuelCapacity,
		InsuranceExpiry:     v.InsuranceExpiry,
		RegistrationExpiry:  v.RegistrationExpiry,
		LastServiceDate:     v.LastServiceDate,
		NextServiceDue:      v.NextServiceDue,
		Status:              string(v.Status),
		IsActive:            v.IsActive,
		IsAvailable:         v.IsAvailable(),
		NeedsService:        v.NeedsService(today),
		InsuranceExpired:    v.InsuranceExpired(today),
		RegistrationExpired: v.RegistrationExpired(today),
		CreatedAt:           v.CreatedAt,
		UpdatedAt:           v.UpdatedAt,
	}
}

func ToDocumentResponse(d *domainVehicle.Document, today time.Time) DocumentResponse {
	return DocumentResponse{
		ID:         d.ID,
		VehicleID:  d.VehicleID,
		Type:       string(d.Type),
		Title:      d.Title,
		FileURL:    d.FileURL,
		ExpiryDate: d.ExpiryDate,
		IsExpired:  d.IsExpired(today),
		CreatedAt:  d.CreatedAt,
	}
}
