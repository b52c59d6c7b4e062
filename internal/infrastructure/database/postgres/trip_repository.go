package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleet-campus-admin/internal/domain/trip"
	"fleet-campus-admin/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TripRepository struct {
	db *DB
}

func NewTripRepository(db *DB) *TripRepository {
	return &TripRepository{db: db}
}

var tripSortColumns = map[string]bool{
	"trips.created_at": true, "trips.start_date": true, "trips.trip_number": true,
	"trips.priority": true, "trips.status": true,
}

func (r *TripRepository) Create(ctx context.Context, t *trip.Trip) error {
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	if t.Status == "" {
		t.Status = trip.StatusDraft
	}
	if t.Priority == "" {
		t.Priority = trip.PriorityMedium
	}

	if err := r.db.conn(ctx).Omit(clause.Associations).Create(toTripModel(t)).Error; err != nil {
		return translateError("create trip", err)
	}
	return nil
}

func (r *TripRepository) GetByID(ctx context.Context, tripID uuid.UUID) (*trip.Trip, error) {
	return r.get(r.db.conn(ctx).Preload("Driver").Preload("Vehicle"), tripID)
}

func (r *TripRepository) GetForUpdate(ctx context.Context, tripID uuid.UUID) (*trip.Trip, error) {
	return r.get(r.db.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), tripID)
}

func (r *TripRepository) get(db *gorm.DB, tripID uuid.UUID) (*trip.Trip, error) {
	var dbModel models.TripModel
	err := db.Where("trips.id = ?", tripID).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, trip.ErrTripNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return toTripEntity(&dbModel), nil
}

func (r *TripRepository) Update(ctx context.Context, t *trip.Trip) error {
	t.UpdatedAt = time.Now()

	result := r.db.conn(ctx).
		Model(&models.TripModel{}).
		Where("id = ?", t.ID).
		Updates(map[string]interface{}{
			"origin":              t.Origin,
			"destination":         t.Destination,
			"driver_id":           t.DriverID,
			"vehicle_id":          t.VehicleID,
			"cargo_weight":        t.CargoWeight,
			"cargo_description":   t.CargoDescription,
			"estimated_distance":  t.EstimatedDistance,
			"estimated_duration":  t.EstimatedDuration,
			"actual_distance":     t.ActualDistance,
			"actual_duration":     t.ActualDuration,
			"priority":            string(t.Priority),
			"status":              string(t.Status),
			"start_date":          t.StartDate,
			"end_date":            t.EndDate,
			"actual_start_time":   t.ActualStartTime,
			"actual_end_time":     t.ActualEndTime,
			"notes":               t.Notes,
			"cancellation_reason": t.CancellationReason,
			"dispatched_by":       t.DispatchedBy,
			"updated_at":          t.UpdatedAt,
		})

	if result.Error != nil {
		return translateError("update trip", result.Error)
	}
	if result.RowsAffected == 0 {
		return trip.ErrTripNotFound
	}
	return nil
}

func (r *TripRepository) List(ctx context.Context, filter *trip.Filter) ([]*trip.Trip, int64, error) {
	var dbModels []models.TripModel
	var total int64

	db := r.db.conn(ctx).Model(&models.TripModel{}).
		Joins("LEFT JOIN drivers ON drivers.id = trips.driver_id").
		Joins("LEFT JOIN vehicles ON vehicles.id = trips.vehicle_id")

	if filter.Status != nil {
		db = db.Where("trips.status = ?", string(*filter.Status))
	}
	if filter.Priority != nil {
		db = db.Where("trips.priority = ?", string(*filter.Priority))
	}
	if filter.DriverID != nil {
		db = db.Where("trips.driver_id = ?", *filter.DriverID)
	}
	if filter.VehicleID != nil {
		db = db.Where("trips.vehicle_id = ?", *filter.VehicleID)
	}
	if filter.StartAfter != nil {
		db = db.Where("trips.start_date >= ?", filter.StartAfter)
	}
	if filter.StartBefore != nil {
		db = db.Where("trips.start_date <= ?", filter.StartBefore)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		db = db.Where(`trips.trip_number ILIKE ? OR trips.origin ILIKE ? OR trips.destination ILIKE ?
			OR drivers.first_name ILIKE ? OR drivers.last_name ILIKE ?
			OR vehicles.name ILIKE ? OR vehicles.license_plate ILIKE ?`,
			search, search, search, search, search, search, search)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count trips: %w", err)
	}

	sortBy := filter.SortBy
	if sortBy != "" {
		sortBy = "trips." + sortBy
	}
	limit, offset := pageBounds(filter.Page, filter.PageSize)
	err := db.Select("trips.*").
		Preload("Driver").Preload("Vehicle").
		Order(sortClause(sortBy, filter.SortOrder, tripSortColumns, "trips.created_at")).
		Limit(limit).
		Offset(offset).
		Find(&dbModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list trips: %w", err)
	}

	trips := make([]*trip.Trip, len(dbModels))
	for i := range dbModels {
		trips[i] = toTripEntity(&dbModels[i])
	}
	return trips, total, nil
}

func (r *TripRepository) LastNumberWithPrefix(ctx context.Context, prefix string) (string, error) {
	var last string
	err := r.db.conn(ctx).Raw(`
		SELECT COALESCE(MAX(trip_number), '')
		FROM trips
		WHERE trip_number LIKE ?
	`, prefix+"%").Scan(&last).Error
	if err != nil {
		return "", fmt.Errorf("failed to read last trip number: %w", err)
	}
	return last, nil
}

func (r *TripRepository) GetStatistics(ctx context.Context) (*trip.Statistics, error) {
	var statusCounts []struct {
		Status string
		Count  int64
	}
	err := r.db.conn(ctx).Raw(`
		SELECT status, COUNT(*) AS count
		FROM trips
		GROUP BY status
	`).Scan(&statusCounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get status counts: %w", err)
	}

	stats := &trip.Statistics{}
	for _, sc := range statusCounts {
		stats.Total += sc.Count
		switch trip.Status(sc.Status) {
		case trip.StatusDraft:
			stats.Draft = sc.Count
		case trip.StatusDispatched:
			stats.Dispatched = sc.Count
		case trip.StatusInProgress:
			stats.InProgress = sc.Count
		case trip.StatusCompleted:
			stats.Completed = sc.Count
		case trip.StatusCancelled:
			stats.Cancelled = sc.Count
		}
	}
	return stats, nil
}

func (r *TripRepository) GetDashboard(ctx context.Context, overdueBefore time.Time) (*trip.Dashboard, error) {
	dashboard := &trip.Dashboard{}
	err := r.db.conn(ctx).Raw(`
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status IN ('dispatched', 'in_progress')) AS active,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed,
			COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled,
			COUNT(*) FILTER (WHERE status = 'dispatched' AND start_date < ?) AS overdue
		FROM trips
	`, overdueBefore).Scan(dashboard).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get trip dashboard: %w", err)
	}

	var recent []models.TripModel
	err = r.db.conn(ctx).Preload("Driver").Preload("Vehicle").
		Order("created_at DESC").
		Limit(10).
		Find(&recent).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get recent trips: %w", err)
	}
	dashboard.Recent = make([]*trip.Trip, len(recent))
	for i := range recent {
		dashboard.Recent[i] = toTripEntity(&recent[i])
	}

	return dashboard, nil
}

func (r *TripRepository) AddExpense(ctx context.Context, e *trip.Expense) error {
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	if e.IncurredAt.IsZero() {
		e.IncurredAt = e.CreatedAt
	}

	dbModel := &models.TripExpenseModel{
		ID:          e.ID,
		TripID:      e.TripID,
		Type:        string(e.Type),
		Amount:      e.Amount,
		Description: e.Description,
		ReceiptKey:  e.ReceiptKey,
		IncurredAt:  e.IncurredAt,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
	if err := r.db.conn(ctx).Omit(clause.Associations).Create(dbModel).Error; err != nil {
		return translateError("add trip expense", err)
	}
	return nil
}

func (r *TripRepository) ListExpenses(ctx context.Context, tripID uuid.UUID) ([]*trip.Expense, error) {
	var dbModels []models.TripExpenseModel
	err := r.db.conn(ctx).
		Where("trip_id = ?", tripID).
		Order("incurred_at DESC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list trip expenses: %w", err)
	}

	expenses := make([]*trip.Expense, len(dbModels))
	for i, m := range dbModels {
		expenses[i] = &trip.Expense{
			ID:          m.ID,
			TripID:      m.TripID,
			Type:        trip.ExpenseType(m.Type),
			Amount:      m.Amount,
			Description: m.Description,
			ReceiptKey:  m.ReceiptKey,
			IncurredAt:  m.IncurredAt,
			CreatedBy:   m.CreatedBy,
			CreatedAt:   m.CreatedAt,
		}
	}
	return expenses, nil
}

func (r *TripRepository) AddCheckpoint(ctx context.Context, c *trip.Checkpoint) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()

	if err := r.db.conn(ctx).Omit(clause.Associations).Create(toCheckpointModel(c)).Error; err != nil {
		return translateError("add trip checkpoint", err)
	}
	return nil
}

func (r *TripRepository) GetCheckpoint(ctx context.Context, checkpointID uuid.UUID) (*trip.Checkpoint, error) {
	var dbModel models.TripCheckpointModel
	err := r.db.conn(ctx).Where("id = ?", checkpointID).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, trip.ErrCheckpointNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get checkpoint: %w", err)
	}
	return toCheckpointEntity(&dbModel), nil
}

func (r *TripRepository) UpdateCheckpoint(ctx context.Context, c *trip.Checkpoint) error {
	result := r.db.conn(ctx).
		Model(&models.TripCheckpointModel{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"location":       c.Location,
			"latitude":       c.Latitude,
			"longitude":      c.Longitude,
			"arrival_time":   c.ArrivalTime,
			"departure_time": c.DepartureTime,
			"is_completed":   c.IsCompleted,
			"notes":          c.Notes,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update checkpoint: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return trip.ErrCheckpointNotFound
	}
	return nil
}

func (r *TripRepository) ListCheckpoints(ctx context.Context, tripID uuid.UUID) ([]*trip.Checkpoint, error) {
	var dbModels []models.TripCheckpointModel
	err := r.db.conn(ctx).
		Where("trip_id = ?", tripID).
		Order("sequence ASC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}

	checkpoints := make([]*trip.Checkpoint, len(dbModels))
	for i := range dbModels {
		checkpoints[i] = toCheckpointEntity(&dbModels[i])
	}
	return checkpoints, nil
}

func (r *TripRepository) AddDocument(ctx context.Context, doc *trip.Document) error {
	doc.ID = uuid.New()
	doc.CreatedAt = time.Now()

	dbModel := &models.TripDocumentModel{
		ID:         doc.ID,
		TripID:     doc.TripID,
		Type:       string(doc.Type),
		Title:      doc.Title,
		FileKey:    doc.FileKey,
		FileURL:    doc.FileURL,
		UploadedBy: doc.UploadedBy,
		CreatedAt:  doc.CreatedAt,
	}
	if err := r.db.conn(ctx).Create(dbModel).Error; err != nil {
		return translateError("add trip document", err)
	}
	return nil
}

func (r *TripRepository) ListDocuments(ctx context.Context, tripID uuid.UUID) ([]*trip.Document, error) {
	var dbModels []models.TripDocumentModel
	err := r.db.conn(ctx).
		Where("trip_id = ?", tripID).
		Order("created_at DESC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list trip documents: %w", err)
	}

	docs := make([]*trip.Document, len(dbModels))
	for i, m := range dbModels {
		docs[i] = &trip.Document{
			ID:         m.ID,
			TripID:     m.TripID,
			Type:       trip.DocumentType(m.Type),
			Title:      m.Title,
			FileKey:    m.FileKey,
			FileURL:    m.FileURL,
			UploadedBy: m.UploadedBy,
			CreatedAt:  m.CreatedAt,
		}
	}
	return docs, nil
}

func toTripModel(t *trip.Trip) *models.TripModel {
	return &models.TripModel{
		ID:                 t.ID,
		TripNumber:         t.TripNumber,
		Origin:             t.Origin,
		Destination:        t.Destination,
		DriverID:           t.DriverID,
		VehicleID:          t.VehicleID,
		CargoWeight:        t.CargoWeight,
		CargoDescription:   t.CargoDescription,
		EstimatedDistance:  t.EstimatedDistance,
		EstimatedDuration:  t.EstimatedDuration,
		ActualDistance:     t.ActualDistance,
		ActualDuration:     t.ActualDuration,
		Priority:           string(t.Priority),
		Status:             string(t.Status),
		StartDate:          t.StartDate,
		EndDate:            t.EndDate,
		ActualStartTime:    t.ActualStartTime,
		ActualEndTime:      t.ActualEndTime,
		Notes:              t.Notes,
		CancellationReason: t.CancellationReason,
		CreatedBy:          t.CreatedBy,
		DispatchedBy:       t.DispatchedBy,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

func toTripEntity(m *models.TripModel) *trip.Trip {
	t := &trip.Trip{
		ID:                 m.ID,
		TripNumber:         m.TripNumber,
		Origin:             m.Origin,
		Destination:        m.Destination,
		DriverID:           m.DriverID,
		VehicleID:          m.VehicleID,
		CargoWeight:        m.CargoWeight,
		CargoDescription:   m.CargoDescription,
		EstimatedDistance:  m.EstimatedDistance,
		EstimatedDuration:  m.EstimatedDuration,
		ActualDistance:     m.ActualDistance,
		ActualDuration:     m.ActualDuration,
		Priority:           trip.Priority(m.Priority),
		Status:             trip.Status(m.Status),
		StartDate:          m.StartDate,
		EndDate:            m.EndDate,
		ActualStartTime:    m.ActualStartTime,
		ActualEndTime:      m.ActualEndTime,
		Notes:              m.Notes,
		CancellationReason: m.CancellationReason,
		CreatedBy:          m.CreatedBy,
		DispatchedBy:       m.DispatchedBy,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
	if m.Driver != nil {
		t.DriverName = m.Driver.FirstName + " " + m.Driver.LastName
	}
	if m.Vehicle != nil {
		t.VehicleName = m.Vehicle.Name
		t.VehiclePlate = m.Vehicle.LicensePlate
	}
	return t
}

func toCheckpointModel(c *trip.Checkpoint) *models.TripCheckpointModel {
	return &models.TripCheckpointModel{
		ID:            c.ID,
		TripID:        c.TripID,
		Sequence:      c.Sequence,
		Location:      c.Location,
		Latitude:      c.Latitude,
		Longitude:     c.Longitude,
		ArrivalTime:   c.ArrivalTime,
		DepartureTime: c.DepartureTime,
		IsCompleted:   c.IsCompleted,
		Notes:         c.Notes,
		CreatedAt:     c.CreatedAt,
	}
}

func toCheckpointEntity(m *models.TripCheckpointModel) *trip.Checkpoint {
	return &trip.Checkpoint{
		ID:            m.ID,
		TripID:        m.TripID,
		Sequence:      m.Sequence,
		Location:      m.Location,
		Latitude:      m.Latitude,
		Longitude:     m.Longitude,
		ArrivalTime:   m.ArrivalTime,
		DepartureTime: m.DepartureTime,
		IsCompleted:   m.IsCompleted,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
}
