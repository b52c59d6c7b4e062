package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleet-campus-admin/internal/domain/maintenance"
	"fleet-campus-admin/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MaintenanceRepository struct {
	db *DB
}

func NewMaintenanceRepository(db *DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

var maintenanceSortColumns = map[string]bool{
	"scheduled_date": true, "created_at": true, "priority": true, "status": true,
}

func (r *MaintenanceRepository) Create(ctx context.Context, s *maintenance.Schedule) error {
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	if s.Status == "" {
		s.Status = maintenance.StatusScheduled
	}
	if s.Priority == "" {
		s.Priority = maintenance.PriorityMedium
	}

	if err := r.db.conn(ctx).Omit(clause.Associations).Create(toScheduleModel(s)).Error; err != nil {
		return translateError("create maintenance schedule", err)
	}
	return nil
}

func (r *MaintenanceRepository) GetByID(ctx context.Context, scheduleID uuid.UUID) (*maintenance.Schedule, error) {
	var dbModel models.MaintenanceScheduleModel
	err := r.db.conn(ctx).Preload("Vehicle").Where("id = ?", scheduleID).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, maintenance.ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get maintenance schedule: %w", err)
	}
	return toScheduleEntity(&dbModel), nil
}

func (r *MaintenanceRepository) Update(ctx context.Context, s *maintenance.Schedule) error {
	s.UpdatedAt = time.Now()

	result := r.db.conn(ctx).
		Model(&models.MaintenanceScheduleModel{}).
		Where("id = ?", s.ID).
		Updates(map[string]interface{}{
			"maintenance_type":   s.MaintenanceType,
			"title":              s.Title,
			"description":        s.Description,
			"status":             string(s.Status),
			"priority":           string(s.Priority),
			"scheduled_date":     s.ScheduledDate,
			"estimated_duration": s.EstimatedDuration,
			"estimated_cost":     s.EstimatedCost,
			"actual_duration":    s.ActualDuration,
			"actual_cost":        s.ActualCost,
			"odometer_reading":   s.OdometerReading,
			"completion_notes":   s.CompletionNotes,
			"completed_at":       s.CompletedAt,
			"completed_by":       s.CompletedBy,
			"updated_at":         s.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update maintenance schedule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return maintenance.ErrScheduleNotFound
	}
	return nil
}

func (r *MaintenanceRepository) List(ctx context.Context, filter *maintenance.Filter) ([]*maintenance.Schedule, int64, error) {
	var dbModels []models.MaintenanceScheduleModel
	var total int64

	db := r.db.conn(ctx).Model(&models.MaintenanceScheduleModel{})
	if filter.VehicleID != nil {
		db = db.Where("vehicle_id = ?", *filter.VehicleID)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", string(*filter.Status))
	}
	if filter.Priority != nil {
		db = db.Where("priority = ?", string(*filter.Priority))
	}
	if filter.From != nil {
		db = db.Where("scheduled_date >= ?", filter.From)
	}
	if filter.To != nil {
		db = db.Where("scheduled_date <= ?", filter.To)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		db = db.Where("title ILIKE ? OR maintenance_type ILIKE ? OR description ILIKE ?", search, search, search)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count maintenance schedules: %w", err)
	}

	limit, offset := pageBounds(filter.Page, filter.PageSize)
	err := db.Preload("Vehicle").
		Order(sortClause(filter.SortBy, filter.SortOrder, maintenanceSortColumns, "scheduled_date")).
		Limit(limit).
		Offset(offset).
		Find(&dbModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list maintenance schedules: %w", err)
	}

	return toScheduleEntities(dbModels), total, nil
}

func (r *MaintenanceRepository) GetDashboard(ctx context.Context, now time.Time, upcomingUntil time.Time) (*maintenance.Dashboard, error) {
	dashboard := &maintenance.Dashboard{}
	err := r.db.conn(ctx).Raw(`
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'scheduled') AS scheduled,
			COUNT(*) FILTER (WHERE status = 'in_progress') AS in_progress,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed
		FROM maintenance_schedules
	`).Scan(dashboard).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get maintenance counts: %w", err)
	}

	var overdue []models.MaintenanceScheduleModel
	err = r.db.conn(ctx).Preload("Vehicle").
		Where("status = ? AND scheduled_date < ?", string(maintenance.StatusScheduled), now).
		Order("scheduled_date ASC").
		Find(&overdue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get overdue maintenance: %w", err)
	}

	var upcoming []models.MaintenanceScheduleModel
	err = r.db.conn(ctx).Preload("Vehicle").
		Where("status = ? AND scheduled_date >= ? AND scheduled_date <= ?",
			string(maintenance.StatusScheduled), now, upcomingUntil).
		Order("scheduled_date ASC").
		Find(&upcoming).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get upcoming maintenance: %w", err)
	}

	dashboard.Overdue = toScheduleEntities(overdue)
	dashboard.Upcoming = toScheduleEntities(upcoming)
	return dashboard, nil
}

func (r *MaintenanceRepository) AddPart(ctx context.Context, p *maintenance.Part) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()

	dbModel := &models.MaintenancePartModel{
		ID:         p.ID,
		ScheduleID: p.ScheduleID,
		Name:       p.Name,
		PartNumber: p.PartNumber,
		Quantity:   p.Quantity,
		UnitCost:   p.UnitCost,
		CreatedAt:  p.CreatedAt,
	}
	if err := r.db.conn(ctx).Omit(clause.Associations).Create(dbModel).Error; err != nil {
		return translateError("add maintenance part", err)
	}
	return nil
}

func (r *MaintenanceRepository) ListParts(ctx context.Context, scheduleID uuid.UUID) ([]*maintenance.Part, error) {
	var dbModels []models.MaintenancePartModel
	if err := r.db.conn(ctx).Where("schedule_id = ?", scheduleID).Order("created_at ASC").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list maintenance parts: %w", err)
	}

	parts := make([]*maintenance.Part, len(dbModels))
	for i, m := range dbModels {
		parts[i] = &maintenance.Part{
			ID:         m.ID,
			ScheduleID: m.ScheduleID,
			Name:       m.Name,
			PartNumber: m.PartNumber,
			Quantity:   m.Quantity,
			UnitCost:   m.UnitCost,
			CreatedAt:  m.CreatedAt,
		}
	}
	return parts, nil
}

func (r *MaintenanceRepository) CreateReminder(ctx context.Context, rem *maintenance.Reminder) error {
	rem.ID = uuid.New()
	rem.CreatedAt = time.Now()

	dbModel := &models.MaintenanceReminderModel{
		ID:              rem.ID,
		VehicleID:       rem.VehicleID,
		Title:           rem.Title,
		Description:     rem.Description,
		TriggerOdometer: rem.TriggerOdometer,
		TriggerDate:     rem.TriggerDate,
		IsActive:        rem.IsActive,
		IsSent:          rem.IsSent,
		SentAt:          rem.SentAt,
		CreatedAt:       rem.CreatedAt,
	}
	if err := r.db.conn(ctx).Create(dbModel).Error; err != nil {
		return translateError("create maintenance reminder", err)
	}
	return nil
}

func (r *MaintenanceRepository) ListReminders(ctx context.Context, activeOnly bool) ([]*maintenance.Reminder, error) {
	db := r.db.conn(ctx)
	if activeOnly {
		db = db.Where("is_active = ? AND is_sent = ?", true, false)
	}

	var dbModels []models.MaintenanceReminderModel
	if err := db.Order("created_at DESC").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list maintenance reminders: %w", err)
	}

	reminders := make([]*maintenance.Reminder, len(dbModels))
	for i, m := range dbModels {
		reminders[i] = &maintenance.Reminder{
			ID:              m.ID,
			VehicleID:       m.VehicleID,
			Title:           m.Title,
			Description:     m.Description,
			TriggerOdometer: m.TriggerOdometer,
			TriggerDate:     m.TriggerDate,
			IsActive:        m.IsActive,
			IsSent:          m.IsSent,
			SentAt:          m.SentAt,
			CreatedAt:       m.CreatedAt,
		}
	}
	return reminders, nil
}

func (r *MaintenanceRepository) MarkReminderSent(ctx context.Context, reminderID uuid.UUID, at time.Time) error {
	result := r.db.conn(ctx).
		Model(&models.MaintenanceReminderModel{}).
		Where("id = ?", reminderID).
		Updates(map[string]interface{}{
			"is_sent": true,
			"sent_at": at,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return maintenance.ErrReminderNotFound
	}
	return nil
}

func toScheduleModel(s *maintenance.Schedule) *models.MaintenanceScheduleModel {
	return &models.MaintenanceScheduleModel{
		ID:                s.ID,
		VehicleID:         s.VehicleID,
		MaintenanceType:   s.MaintenanceType,
		Title:             s.Title,
		Description:       s.Description,
		Status:            string(s.Status),
		Priority:          string(s.Priority),
		ScheduledDate:     s.ScheduledDate,
		EstimatedDuration: s.EstimatedDuration,
		EstimatedCost:     s.EstimatedCost,
		ActualDuration:    s.ActualDuration,
		ActualCost:        s.ActualCost,
		OdometerReading:   s.OdometerReading,
		CompletionNotes:   s.CompletionNotes,
		CompletedAt:       s.CompletedAt,
		CompletedBy:       s.CompletedBy,
		CreatedBy:         s.CreatedBy,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func toScheduleEntity(m *models.MaintenanceScheduleModel) *maintenance.Schedule {
	s := &maintenance.Schedule{
		ID:                m.ID,
		VehicleID:         m.VehicleID,
		MaintenanceType:   m.MaintenanceType,
		Title:             m.Title,
		Description:       m.Description,
		Status:            maintenance.Status(m.Status),
		Priority:          maintenance.Priority(m.Priority),
		ScheduledDate:     m.ScheduledDate,
		EstimatedDuration: m.EstimatedDuration,
		EstimatedCost:     m.EstimatedCost,
		ActualDuration:    m.ActualDuration,
		ActualCost:        m.ActualCost,
		OdometerReading:   m.OdometerReading,
		CompletionNotes:   m.CompletionNotes,
		CompletedAt:       m.CompletedAt,
		CompletedBy:       m.CompletedBy,
		CreatedBy:         m.CreatedBy,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	if m.Vehicle != nil {
		s.VehicleName = m.Vehicle.Name
	}
	return s
}

func toScheduleEntities(dbModels []models.MaintenanceScheduleModel) []*maintenance.Schedule {
	schedules := make([]*maintenance.Schedule, len(dbModels))
	for i := range dbModels {
		schedules[i] = toScheduleEntity(&dbModels[i])
	}
	return schedules
}
