package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleet-campus-admin/internal/domain/alert"
	"fleet-campus-admin/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AlertRepository struct {
	db *DB
}

func NewAlertRepository(db *DB) *AlertRepository {
	return &AlertRepository{db: db}
}

var openAlertStatuses = []string{string(alert.StatusActive), string(alert.StatusAcknowledged)}

func (r *AlertRepository) Create(ctx context.Context, a *alert.Alert) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	if a.Status == "" {
		a.Status = alert.StatusActive
	}

	if err := r.db.conn(ctx).Create(toAlertModel(a)).Error; err != nil {
		return translateError("create alert", err)
	}
	return nil
}

func (r *AlertRepository) GetByID(ctx context.Context, alertID uuid.UUID) (*alert.Alert, error) {
	var dbModel models.AlertModel
	err := r.db.conn(ctx).Where("id = ?", alertID).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, alert.ErrAlertNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}
	return toAlertEntity(&dbModel), nil
}

func (r *AlertRepository) Update(ctx context.Context, a *alert.Alert) error {
	a.UpdatedAt = time.Now()

	result := r.db.conn(ctx).
		Model(&models.AlertModel{}).
		Where("id = ?", a.ID).
		Updates(map[string]interface{}{
			"severity":        string(a.Severity),
			"status":          string(a.Status),
			"message":         a.Message,
			"trigger_value":   a.TriggerValue,
			"action_taken":    a.ActionTaken,
			"acknowledged_by": a.AcknowledgedBy,
			"acknowledged_at": a.AcknowledgedAt,
			"resolved_by":     a.ResolvedBy,
			"resolved_at":     a.ResolvedAt,
			"updated_at":      a.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update alert: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return alert.ErrAlertNotFound
	}
	return nil
}

func (r *AlertRepository) List(ctx context.Context, filter *alert.Filter) ([]*alert.Alert, int64, error) {
	var dbModels []models.AlertModel
	var total int64

	db := r.db.conn(ctx).Model(&models.AlertModel{})
	if len(filter.Types) > 0 {
		types := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = string(t)
		}
		db = db.Where("type IN ?", types)
	}
	if filter.Severity != nil {
		db = db.Where("severity = ?", string(*filter.Severity))
	}
	if filter.Status != nil {
		db = db.Where("status = ?", string(*filter.Status))
	} else if filter.OpenOnly {
		db = db.Where("status IN ?", openAlertStatuses)
	}
	if filter.VehicleID != nil {
		db = db.Where("vehicle_id = ?", *filter.VehicleID)
	}
	if filter.DriverID != nil {
		db = db.Where("driver_id = ?", *filter.DriverID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count alerts: %w", err)
	}

	limit, offset := pageBounds(filter.Page, filter.PageSize)
	err := db.Order(`CASE severity
			WHEN 'critical' THEN 4 WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1
		END DESC, created_at DESC`).
		Limit(limit).
		Offset(offset).
		Find(&dbModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list alerts: %w", err)
	}

	alerts := make([]*alert.Alert, len(dbModels))
	for i := range dbModels {
		alerts[i] = toAlertEntity(&dbModels[i])
	}
	return alerts, total, nil
}

func (r *AlertRepository) FindOpen(ctx context.Context, alertType alert.Type, subjectKey string) (*alert.Alert, error) {
	var dbModel models.AlertModel
	err := r.db.conn(ctx).
		Where("type = ? AND subject_key = ? AND status IN ?", string(alertType), subjectKey, openAlertStatuses).
		Order("created_at DESC").
		First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, alert.ErrAlertNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find open alert: %w", err)
	}
	return toAlertEntity(&dbModel), nil
}

func (r *AlertRepository) Summary(ctx context.Context) (*alert.Summary, error) {
	var rows []struct {
		Type     string
		Severity string
		Status   string
		Count    int64
	}
	err := r.db.conn(ctx).Raw(`
		SELECT type, severity, status, COUNT(*) AS count
		FROM alerts
		WHERE status IN ?
		GROUP BY type, severity, status
	`, openAlertStatuses).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarize alerts: %w", err)
	}

	summary := &alert.Summary{
		BySeverity: make(map[alert.Severity]int64),
		ByType:     make(map[alert.Type]int64),
	}
	for _, row := range rows {
		summary.Open += row.Count
		if row.Status == string(alert.StatusAcknowledged) {
			summary.Acknowledged += row.Count
		}
		summary.BySeverity[alert.Severity(row.Severity)] += row.Count
		summary.ByType[alert.Type(row.Type)] += row.Count
	}
	return summary, nil
}

func toAlertModel(a *alert.Alert) *models.AlertModel {
	return &models.AlertModel{
		ID:             a.ID,
		Type:           string(a.Type),
		Severity:       string(a.Severity),
		Status:         string(a.Status),
		Title:          a.Title,
		Message:        a.Message,
		SubjectKey:     a.SubjectKey,
		VehicleID:      a.VehicleID,
		DriverID:       a.DriverID,
		BudgetID:       a.BudgetID,
		TriggerValue:   a.TriggerValue,
		ThresholdValue: a.ThresholdValue,
		DueDate:        a.DueDate,
		ActionRequired: a.ActionRequired,
		ActionTaken:    a.ActionTaken,
		AcknowledgedBy: a.AcknowledgedBy,
		AcknowledgedAt: a.AcknowledgedAt,
		ResolvedBy:     a.ResolvedBy,
		ResolvedAt:     a.ResolvedAt,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func toAlertEntity(m *models.AlertModel) *alert.Alert {
	return &alert.Alert{
		ID:             m.ID,
		Type:           alert.Type(m.Type),
		Severity:       alert.Severity(m.Severity),
		Status:         alert.Status(m.Status),
		Title:          m.Title,
		Message:        m.Message,
		SubjectKey:     m.SubjectKey,
		VehicleID:      m.VehicleID,
		DriverID:       m.DriverID,
		BudgetID:       m.BudgetID,
		TriggerValue:   m.TriggerValue,
		ThresholdValue: m.ThresholdValue,
		DueDate:        m.DueDate,
		ActionRequired: m.ActionRequired,
		ActionTaken:    m.ActionTaken,
		AcknowledgedBy: m.AcknowledgedBy,
		AcknowledgedAt: m.AcknowledgedAt,
		ResolvedBy:     m.ResolvedBy,
		ResolvedAt:     m.ResolvedAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
