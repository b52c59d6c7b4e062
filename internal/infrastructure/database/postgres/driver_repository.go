package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleet-campus-admin/internal/domain/driver"
	"fleet-campus-admin/internal/infrastructure/database/postgres/models"
	"fleet-campus-admin/pkg/timeutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DriverRepository struct {
	db *DB
}

func NewDriverRepository(db *DB) *DriverRepository {
	return &DriverRepository{db: db}
}

var driverSortColumns = map[string]bool{
	"created_at": true, "first_name": true, "last_name": true,
	"hire_date": true, "license_expiry": true,
}

func (r *DriverRepository) Create(ctx context.Context, d *driver.Driver) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	if d.Status == "" {
		d.Status = driver.StatusOffDuty
	}

	return r.db.WithinTx(ctx, func(ctx context.Context) error {
		if err := r.db.conn(ctx).Create(toDriverModel(d)).Error; err != nil {
			return translateError("create driver", err)
		}

		perf := driver.NewPerformance(d.ID)
		perf.ID = uuid.New()
		perf.UpdatedAt = d.CreatedAt
		if err := r.db.conn(ctx).Create(toPerformanceModel(perf)).Error; err != nil {
			return translateError("create driver performance", err)
		}
		return nil
	})
}

func (r *DriverRepository) GetByID(ctx context.Context, driverID uuid.UUID) (*driver.Driver, error) {
	return r.get(r.db.conn(ctx), driverID)
}

func (r *DriverRepository) GetForUpdate(ctx context.Context, driverID uuid.UUID) (*driver.Driver, error) {
	return r.get(r.db.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), driverID)
}

func (r *DriverRepository) get(db *gorm.DB, driverID uuid.UUID) (*driver.Driver, error) {
	var dbModel models.DriverModel
	err := db.Where("id = ?", driverID).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, driver.ErrDriverNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get driver: %w", err)
	}
	return toDriverEntity(&dbModel), nil
}

func (r *DriverRepository) Update(ctx context.Context, d *driver.Driver) error {
	d.UpdatedAt = time.Now()

	result := r.db.conn(ctx).
		Model(&models.DriverModel{}).
		Where("id = ?", d.ID).
		Updates(map[string]interface{}{
			"first_name":              d.FirstName,
			"last_name":               d.LastName,
			"email":                   d.Email,
			"phone":                   d.Phone,
			"address":                 d.Address,
			"date_of_birth":           d.DateOfBirth,
			"hire_date":               d.HireDate,
			"license_number":          d.LicenseNumber,
			"license_type":            d.LicenseType,
			"license_expiry":          d.LicenseExpiry,
			"status":                  string(d.Status),
			"emergency_contact_name":  d.EmergencyContactName,
			"emergency_contact_phone": d.EmergencyContactPhone,
			"salary":                  d.Salary,
			"is_active":               d.IsActive,
			"updated_at":              d.UpdatedAt,
		})

	if result.Error != nil {
		return translateError("update driver", result.Error)
	}
	if result.RowsAffected == 0 {
		return driver.ErrDriverNotFound
	}
	return nil
}

func (r *DriverRepository) List(ctx context.Context, filter *driver.Filter) ([]*driver.Driver, int64, error) {
	var dbModels []models.DriverModel
	var total int64

	db := r.db.conn(ctx).Model(&models.DriverModel{})

	if filter.Status != nil {
		db = db.Where("status = ?", string(*filter.Status))
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}

	today := filter.Today
	if today.IsZero() {
		today = timeutil.Today()
	}
	switch filter.License {
	case driver.LicenseExpired:
		db = db.Where("license_expiry <= ?", today)
	case driver.LicenseExpiringSoon:
		db = db.Where("license_expiry > ? AND license_expiry <= ?",
			today, timeutil.AddDays(today, driver.LicenseWarningDays))
	}

	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		db = db.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR license_number ILIKE ?",
			search, search, search, search)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count drivers: %w", err)
	}

	limit, offset := pageBounds(filter.Page, filter.PageSize)
	err := db.Order(sortClause(filter.SortBy, filter.SortOrder, driverSortColumns, "created_at")).
		Limit(limit).
		Offset(offset).
		Find(&dbModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list drivers: %w", err)
	}

	drivers := make([]*driver.Driver, len(dbModels))
	for i := range dbModels {
		drivers[i] = toDriverEntity(&dbModels[i])
	}
	return drivers, total, nil
}

func (r *DriverRepository) ListAvailable(ctx context.Context, today time.Time) ([]*driver.Driver, error) {
	var dbModels []models.DriverModel
	err := r.db.conn(ctx).
		Where("status = ? AND is_active = ? AND license_expiry > ?",
			string(driver.StatusOnDuty), true, timeutil.DateOnly(today)).
		Order("first_name ASC, last_name ASC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list available drivers: %w", err)
	}

	drivers := make([]*driver.Driver, len(dbModels))
	for i := range dbModels {
		drivers[i] = toDriverEntity(&dbModels[i])
	}
	return drivers, nil
}

func (r *DriverRepository) GetDashboard(ctx context.Context, today time.Time) (*driver.Dashboard, error) {
	today = timeutil.DateOnly(today)
	dashboard := &driver.Dashboard{}

	err := r.db.conn(ctx).Raw(`
		SELECT
			COUNT(*) AS total_drivers,
			COUNT(*) FILTER (WHERE status = ? AND license_expiry > ?) AS available_drivers,
			COUNT(*) FILTER (WHERE license_expiry <= ?) AS expired_licenses,
			COUNT(*) FILTER (WHERE license_expiry > ? AND license_expiry <= ?) AS expiring_soon
		FROM drivers
		WHERE is_active = TRUE
	`, string(driver.StatusOnDuty), today, today, today, timeutil.AddDays(today, driver.LicenseWarningDays)).
		Scan(dashboard).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get driver counts: %w", err)
	}

	err = r.db.conn(ctx).Raw(`
		SELECT COALESCE(AVG(p.safety_score), 0)
		FROM driver_performance p
		JOIN drivers d ON d.id = p.driver_id
		WHERE d.is_active = TRUE
	`).Scan(&dashboard.AvgSafetyScore).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get average safety score: %w", err)
	}

	return dashboard, nil
}

func (r *DriverRepository) GetPerformance(ctx context.Context, driverID uuid.UUID) (*driver.Performance, error) {
	var dbModel models.DriverPerformanceModel
	err := r.db.conn(ctx).Where("driver_id = ?", driverID).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, driver.ErrPerformanceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get driver performance: %w", err)
	}
	return toPerformanceEntity(&dbModel), nil
}

func (r *DriverRepository) UpdatePerformance(ctx context.Context, p *driver.Performance) error {
	p.UpdatedAt = time.Now()

	result := r.db.conn(ctx).
		Model(&models.DriverPerformanceModel{}).
		Where("driver_id = ?", p.DriverID).
		Updates(map[string]interface{}{
			"total_trips":         p.TotalTrips,
			"completed_trips":     p.CompletedTrips,
			"cancelled_trips":     p.CancelledTrips,
			"total_distance":      p.TotalDistance,
			"total_fuel_consumed": p.TotalFuelConsumed,
			"safety_score":        p.SafetyScore,
			"on_time_performance": p.OnTimePerformance,
			"customer_rating":     p.CustomerRating,
			"accidents":           p.Accidents,
			"violations":          p.Violations,
			"last_trip_date":      p.LastTripDate,
			"updated_at":          p.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update driver performance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return driver.ErrPerformanceNotFound
	}
	return nil
}

func (r *DriverRepository) CreateDocument(ctx context.Context, doc *driver.Document) error {
	doc.ID = uuid.New()
	doc.CreatedAt = time.Now()

	dbModel := &models.DriverDocumentModel{
		ID:         doc.ID,
		DriverID:   doc.DriverID,
		Type:       string(doc.Type),
		Title:      doc.Title,
		FileKey:    doc.FileKey,
		FileURL:    doc.FileURL,
		ExpiryDate: doc.ExpiryDate,
		UploadedBy: doc.UploadedBy,
		CreatedAt:  doc.CreatedAt,
	}
	if err := r.db.conn(ctx).Create(dbModel).Error; err != nil {
		return translateError("create driver document", err)
	}
	return nil
}

func (r *DriverRepository) ListDocuments(ctx context.Context, driverID uuid.UUID) ([]*driver.Document, error) {
	var dbModels []models.DriverDocumentModel
	err := r.db.conn(ctx).
		Where("driver_id = ?", driverID).
		Order("created_at DESC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list driver documents: %w", err)
	}

	docs := make([]*driver.Document, len(dbModels))
	for i, m := range dbModels {
		docs[i] = &driver.Document{
			ID:         m.ID,
			DriverID:   m.DriverID,
			Type:       driver.DocumentType(m.Type),
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

func (r *DriverRepository) UpsertAttendance(ctx context.Context, a *driver.Attendance) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.Date = timeutil.DateOnly(a.Date)
	a.CreatedAt = time.Now()

	dbModel := &models.DriverAttendanceModel{
		ID:              a.ID,
		DriverID:        a.DriverID,
		Date:            a.Date,
		CheckInSeconds:  durationSeconds(a.CheckIn),
		CheckOutSeconds: durationSeconds(a.CheckOut),
		Status:          string(a.Status),
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
	}

	err := r.db.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "driver_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"check_in_seconds", "check_out_seconds", "status", "notes"}),
	}).Create(dbModel).Error
	if err != nil {
		return translateError("record driver attendance", err)
	}
	return nil
}

func (r *DriverRepository) ListAttendance(ctx context.Context, driverID uuid.UUID, from, to *time.Time) ([]*driver.Attendance, error) {
	db := r.db.conn(ctx).Where("driver_id = ?", driverID)
	if from != nil {
		db = db.Where("date >= ?", timeutil.DateOnly(*from))
	}
	if to != nil {
		db = db.Where("date <= ?", timeutil.DateOnly(*to))
	}

	var dbModels []models.DriverAttendanceModel
	if err := db.Order("date DESC").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list driver attendance: %w", err)
	}

	records := make([]*driver.Attendance, len(dbModels))
	for i, m := range dbModels {
		records[i] = &driver.Attendance{
			ID:        m.ID,
			DriverID:  m.DriverID,
			Date:      m.Date,
			CheckIn:   secondsDuration(m.CheckInSeconds),
			CheckOut:  secondsDuration(m.CheckOutSeconds),
			Status:    driver.AttendanceStatus(m.Status),
			Notes:     m.Notes,
			CreatedAt: m.CreatedAt,
		}
	}
	return records, nil
}

func durationSeconds(d *time.Duration) *int64 {
	if d == nil {
		return nil
	}
	s := int64(*d / time.Second)
	return &s
}

func secondsDuration(s *int64) *time.Duration {
	if s == nil {
		return nil
	}
	d := time.Duration(*s) * time.Second
	return &d
}

func toDriverModel(d *driver.Driver) *models.DriverModel {
	return &models.DriverModel{
		ID:                    d.ID,
		FirstName:             d.FirstName,
		LastName:              d.LastName,
		Email:                 d.Email,
		Phone:                 d.Phone,
		Address:               d.Address,
		DateOfBirth:           d.DateOfBirth,
		HireDate:              d.HireDate,
		LicenseNumber:         d.LicenseNumber,
		LicenseType:           d.LicenseType,
		LicenseExpiry:         d.LicenseExpiry,
		Status:                string(d.Status),
		EmergencyContactName:  d.EmergencyContactName,
		EmergencyContactPhone: d.EmergencyContactPhone,
		Salary:                d.Salary,
		IsActive:              d.IsActive,
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
	}
}

func toDriverEntity(m *models.DriverModel) *driver.Driver {
	return &driver.Driver{
		ID:                    m.ID,
		FirstName:             m.FirstName,
		LastName:              m.LastName,
		Email:                 m.Email,
		Phone:                 m.Phone,
		Address:               m.Address,
		DateOfBirth:           m.DateOfBirth,
		HireDate:              m.HireDate,
		LicenseNumber:         m.LicenseNumber,
		LicenseType:           m.LicenseType,
		LicenseExpiry:         m.LicenseExpiry,
		Status:                driver.Status(m.Status),
		EmergencyContactName:  m.EmergencyContactName,
		EmergencyContactPhone: m.EmergencyContactPhone,
		Salary:                m.Salary,
		IsActive:              m.IsActive,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

func toPerformanceModel(p *driver.Performance) *models.DriverPerformanceModel {
	return &models.DriverPerformanceModel{
		ID:                p.ID,
		DriverID:          p.DriverID,
		TotalTrips:        p.TotalTrips,
		CompletedTrips:    p.CompletedTrips,
		CancelledTrips:    p.CancelledTrips,
		TotalDistance:     p.TotalDistance,
		TotalFuelConsumed: p.TotalFuelConsumed,
		SafetyScore:       p.SafetyScore,
		OnTimePerformance: p.OnTimePerformance,
		CustomerRating:    p.CustomerRating,
		Accidents:         p.Accidents,
		Violations:        p.Violations,
		LastTripDate:      p.LastTripDate,
		UpdatedAt:         p.UpdatedAt,
	}
}

func toPerformanceEntity(m *models.DriverPerformanceModel) *driver.Performance {
	return &driver.Performance{
		ID:                m.ID,
		DriverID:          m.DriverID,
		TotalTrips:        m.TotalTrips,
		CompletedTrips:    m.CompletedTrips,
		CancelledTrips:    m.CancelledTrips,
		TotalDistance:     m.TotalDistance,
		TotalFuelConsumed: m.TotalFuelConsumed,
		SafetyScore:       m.SafetyScore,
		OnTimePerformance: m.OnTimePerformance,
		CustomerRating:    m.CustomerRating,
		Accidents:         m.Accidents,
		Violations:        m.Violations,
		LastTripDate:      m.LastTripDate,
		UpdatedAt:         m.UpdatedAt,
	}
}
