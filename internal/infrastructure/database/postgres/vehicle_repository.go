package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleet-campus-admin/internal/domain/vehicle"
	"fleet-campus-admin/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VehicleRepository struct {
	db *DB
}

func NewVehicleRepository(db *DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

var vehicleSortColumns = map[string]bool{
	"created_at": true, "name": true, "license_plate": true, "year": true,
	"capacity": true, "odometer": true, "next_service_due": true,
}

func (r *VehicleRepository) Create(ctx context.Context, v *vehicle.Vehicle) error {
	v.ID = uuid.New()
	v.CreatedAt = time.Now()
	v.UpdatedAt = v.CreatedAt
	if v.Status == "" {
		v.Status = vehicle.StatusAvailable
	}

	dbModel := toVehicleModel(v)
	if err := r.db.conn(ctx).Create(dbModel).Error; err != nil {
		return translateError("create vehicle", err)
	}
	return nil
}

func (r *VehicleRepository) GetByID(ctx context.Context, vehicleID uuid.UUID) (*vehicle.Vehicle, error) {
	return r.get(r.db.conn(ctx), vehicleID)
}

func (r *VehicleRepository) GetForUpdate(ctx context.Context, vehicleID uuid.UUID) (*vehicle.Vehicle, error) {
	return r.get(r.db.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), vehicleID)
}

func (r *VehicleRepository) get(db *gorm.DB, vehicleID uuid.UUID) (*vehicle.Vehicle, error) {
	var dbModel models.VehicleModel
	err := db.Where("id = ?", vehicleID).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, vehicle.ErrVehicleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	return toVehicleEntity(&dbModel), nil
}

func (r *VehicleRepository) Update(ctx context.Context, v *vehicle.Vehicle) error {
	v.UpdatedAt = time.Now()

	result := r.db.conn(ctx).
		Model(&models.VehicleModel{}).
		Where("id = ?", v.ID).
		Updates(map[string]interface{}{
			"name":                v.Name,
			"make":                v.Make,
			"model":               v.Model,
			"year":                v.Year,
			"license_plate":       v.LicensePlate,
			"vin":                 v.VIN,
			"vehicle_type":        v.VehicleType,
			"fuel_type":           string(v.FuelType),
			"capacity":            v.Capacity,
			"odometer":            v.Odometer,
			"fuel_capacity":       v.FuelCapacity,
			"insurance_expiry":    v.InsuranceExpiry,
			"registration_expiry": v.RegistrationExpiry,
			"last_service_date":   v.LastServiceDate,
			"next_service_due":    v.NextServiceDue,
			"status":              string(v.Status),
			"is_active":           v.IsActive,
			"updated_at":          v.UpdatedAt,
		})

	if result.Error != nil {
		return translateError("update vehicle", result.Error)
	}
	if result.RowsAffected == 0 {
		return vehicle.ErrVehicleNotFound
	}
	return nil
}

func (r *VehicleRepository) List(ctx context.Context, filter *vehicle.Filter) ([]*vehicle.Vehicle, int64, error) {
	var dbModels []models.VehicleModel
	var total int64

	db := r.db.conn(ctx).Model(&models.VehicleModel{})

	if filter.Status != nil {
		db = db.Where("status = ?", string(*filter.Status))
	}
	if filter.FuelType != nil {
		db = db.Where("fuel_type = ?", string(*filter.FuelType))
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		db = db.Where("name ILIKE ? OR license_plate ILIKE ? OR make ILIKE ? OR model ILIKE ?",
			search, search, search, search)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count vehicles: %w", err)
	}

	limit, offset := pageBounds(filter.Page, filter.PageSize)
	err := db.Order(sortClause(filter.SortBy, filter.SortOrder, vehicleSortColumns, "created_at")).
		Limit(limit).
		Offset(offset).
		Find(&dbModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list vehicles: %w", err)
	}

	vehicles := make([]*vehicle.Vehicle, len(dbModels))
	for i := range dbModels {
		vehicles[i] = toVehicleEntity(&dbModels[i])
	}
	return vehicles, total, nil
}

func (r *VehicleRepository) ListAvailable(ctx context.Context) ([]*vehicle.Vehicle, error) {
	var dbModels []models.VehicleModel
	err := r.db.conn(ctx).
		Where("status = ? AND is_active = ?", string(vehicle.StatusAvailable), true).
		Order("name ASC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list available vehicles: %w", err)
	}

	vehicles := make([]*vehicle.Vehicle, len(dbModels))
	for i := range dbModels {
		vehicles[i] = toVehicleEntity(&dbModels[i])
	}
	return vehicles, nil
}

func (r *VehicleRepository) CreateDocument(ctx context.Context, doc *vehicle.Document) error {
	doc.ID = uuid.New()
	doc.CreatedAt = time.Now()

	dbModel := &models.VehicleDocumentModel{
		ID:         doc.ID,
		VehicleID:  doc.VehicleID,
		Type:       string(doc.Type),
		Title:      doc.Title,
		FileKey:    doc.FileKey,
		FileURL:    doc.FileURL,
		ExpiryDate: doc.ExpiryDate,
		UploadedBy: doc.UploadedBy,
		CreatedAt:  doc.CreatedAt,
	}
	if err := r.db.conn(ctx).Create(dbModel).Error; err != nil {
		return translateError("create vehicle document", err)
	}
	return nil
}

func (r *VehicleRepository) ListDocuments(ctx context.Context, vehicleID uuid.UUID) ([]*vehicle.Document, error) {
	var dbModels []models.VehicleDocumentModel
	err := r.db.conn(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("created_at DESC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicle documents: %w", err)
	}

	docs := make([]*vehicle.Document, len(dbModels))
	for i, m := range dbModels {
		docs[i] = &vehicle.Document{
			ID:         m.ID,
			VehicleID:  m.VehicleID,
			Type:       vehicle.DocumentType(m.Type),
			Title:      m.Title,
			FileKey:    m.FileKey,
			FileURL:    m.FileURL,
			ExpiryDate: m.ExpiryDate,
			UploadedBy: m.UploadedBy,
			CreatedAt:  m.CreatedAt,
		}
	}
	return docs, nil
}

func toVehicleModel(v *vehicle.Vehicle) *models.VehicleModel {
	return &models.VehicleModel{
		ID:                 v.ID,
		Name:               v.Name,
		Make:               v.Make,
		Model:              v.Model,
		Year:               v.Year,
		LicensePlate:       v.LicensePlate,
		VIN:                v.VIN,
		VehicleType:        v.VehicleType,
		FuelType:           string(v.FuelType),
		Capacity:           v.Capacity,
		Odometer:           v.Odometer,
		FuelCapacity:       v.FuelCapacity,
		InsuranceExpiry:    v.InsuranceExpiry,
		RegistrationExpiry: v.RegistrationExpiry,
		LastServiceDate:    v.LastServiceDate,
		NextServiceDue:     v.NextServiceDue,
		Status:             string(v.Status),
		IsActive:           v.IsActive,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
}

func toVehicleEntity(m *models.VehicleModel) *vehicle.Vehicle {
	return &vehicle.Vehicle{
		ID:                 m.ID,
		Name:               m.Name,
		Make:               m.Make,
		Model:              m.Model,
		Year:               m.Year,
		LicensePlate:       m.LicensePlate,
		VIN:                m.VIN,
		VehicleType:        m.VehicleType,
		FuelType:           vehicle.FuelType(m.FuelType),
		Capacity:           m.Capacity,
		Odometer:           m.Odometer,
		FuelCapacity:       m.FuelCapacity,
		InsuranceExpiry:    m.InsuranceExpiry,
		RegistrationExpiry: m.RegistrationExpiry,
		LastServiceDate:    m.LastServiceDate,
		NextServiceDue:     m.NextServiceDue,
		Status:             vehicle.Status(m.Status),
		IsActive:           m.IsActive,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
