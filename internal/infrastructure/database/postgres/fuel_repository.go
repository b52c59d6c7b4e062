package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleet-campus-admin/internal/domain/fuel"
	"fleet-campus-admin/internal/infrastructure/database/postgres/models"
	"fleet-campus-admin/pkg/timeutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FuelRepository struct {
	db *DB
}

func NewFuelRepository(db *DB) *FuelRepository {
	return &FuelRepository{db: db}
}

func (r *FuelRepository) CreateLog(ctx context.Context, l *fuel.Log) error {
	l.ID = uuid.New()
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt

	if err := r.db.conn(ctx).Omit(clause.Associations).Create(toFuelLogModel(l)).Error; err != nil {
		return translateError("create fuel log", err)
	}
	return nil
}

func (r *FuelRepository) GetLog(ctx context.Context, logID uuid.UUID) (*fuel.Log, error) {
	var dbModel models.FuelLogModel
	err := r.db.conn(ctx).Where("id = ?", logID).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fuel.ErrLogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fuel log: %w", err)
	}
	return toFuelLogEntity(&dbModel), nil
}

func (r *FuelRepository) UpdateLog(ctx context.Context, l *fuel.Log) error {
	l.UpdatedAt = time.Now()

	result := r.db.conn(ctx).
		Model(&models.FuelLogModel{}).
		Where("id = ?", l.ID).
		Updates(map[string]interface{}{
			"vehicle_id":        l.VehicleID,
			"trip_id":           l.TripID,
			"driver_id":         l.DriverID,
			"station":           l.Station,
			"fuel_date":         l.FuelDate,
			"fuel_liters":       l.FuelLiters,
			"cost_per_liter":    l.CostPerLiter,
			"total_cost":        l.TotalCost,
			"odometer_reading":  l.OdometerReading,
			"previous_odometer": l.PreviousOdometer,
			"distance_traveled": l.DistanceTraveled,
			"fuel_efficiency":   l.FuelEfficiency,
			"notes":             l.Notes,
			"updated_at":        l.UpdatedAt,
		})
	if result.Error != nil {
		return translateError("update fuel log", result.Error)
	}
	if result.RowsAffected == 0 {
		return fuel.ErrLogNotFound
	}
	return nil
}

func (r *FuelRepository) DeleteLog(ctx context.Context, logID uuid.UUID) error {
	result := r.db.conn(ctx).Where("id = ?", logID).Delete(&models.FuelLogModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete fuel log: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fuel.ErrLogNotFound
	}
	return nil
}

func (r *FuelRepository) ListLogs(ctx context.Context, filter *fuel.LogFilter) ([]*fuel.Log, int64, error) {
	var dbModels []models.FuelLogModel
	var total int64

	db := r.db.conn(ctx).Model(&models.FuelLogModel{})
	if filter.VehicleID != nil {
		db = db.Where("vehicle_id = ?", *filter.VehicleID)
	}
	if filter.DriverID != nil {
		db = db.Where("driver_id = ?", *filter.DriverID)
	}
	if filter.TripID != nil {
		db = db.Where("trip_id = ?", *filter.TripID)
	}
	if filter.From != nil {
		db = db.Where("fuel_date >= ?", filter.From)
	}
	if filter.To != nil {
		db = db.Where("fuel_date <= ?", filter.To)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count fuel logs: %w", err)
	}

	limit, offset := pageBounds(filter.Page, filter.PageSize)
	if err := db.Order("fuel_date DESC").Limit(limit).Offset(offset).Find(&dbModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list fuel logs: %w", err)
	}

	logs := make([]*fuel.Log, len(dbModels))
	for i := range dbModels {
		logs[i] = toFuelLogEntity(&dbModels[i])
	}
	return logs, total, nil
}

func (r *FuelRepository) PreviousLog(ctx context.Context, vehicleID uuid.UUID, before time.Time, excludeID uuid.UUID) (*fuel.Log, error) {
	var dbModel models.FuelLogModel
	err := r.db.conn(ctx).
		Where("vehicle_id = ? AND fuel_date < ? AND id <> ?", vehicleID, before, excludeID).
		Order("fuel_date DESC").
		First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get previous fuel log: %w", err)
	}
	return toFuelLogEntity(&dbModel), nil
}

func (r *FuelRepository) SumCost(ctx context.Context, scope fuel.Scope, from, to time.Time) (float64, error) {
	db := r.db.conn(ctx).Model(&models.FuelLogModel{}).
		Where("fuel_date >= ? AND fuel_date < ?", timeutil.DateOnly(from), timeutil.AddDays(to, 1))
	switch {
	case scope.VehicleID != nil:
		db = db.Where("vehicle_id = ?", *scope.VehicleID)
	case scope.DriverID != nil:
		db = db.Where("driver_id = ?", *scope.DriverID)
	}

	var total float64
	if err := db.Select("COALESCE(SUM(total_cost), 0)").Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to sum fuel cost: %w", err)
	}
	return total, nil
}

func (r *FuelRepository) GetStats(ctx context.Context, since time.Time) (*fuel.Stats, error) {
	stats := &fuel.Stats{}
	err := r.db.conn(ctx).Raw(`
		SELECT
			COUNT(*) AS total_logs,
			COALESCE(SUM(fuel_liters), 0) AS total_liters,
			COALESCE(SUM(total_cost), 0) AS total_cost,
			COALESCE(AVG(fuel_efficiency) FILTER (WHERE fuel_efficiency IS NOT NULL), 0) AS avg_efficiency
		FROM fuel_logs
		WHERE fuel_date >= ?
	`, since).Scan(stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get fuel stats: %w", err)
	}
	return stats, nil
}

func (r *FuelRepository) GetEfficiencyReport(ctx context.Context) ([]*fuel.VehicleEfficiency, error) {
	var rows []*fuel.VehicleEfficiency
	err := r.db.conn(ctx).Raw(`
		SELECT
			v.id AS vehicle_id,
			v.name AS vehicle_name,
			v.license_plate,
			COALESCE(AVG(f.fuel_efficiency), 0) AS avg_efficiency,
			COALESCE(SUM(f.distance_traveled), 0) AS total_distance,
			COALESCE(SUM(f.fuel_liters), 0) AS total_fuel,
			COUNT(f.id) AS logs_count
		FROM vehicles v
		LEFT JOIN fuel_logs f ON f.vehicle_id = v.id
		WHERE v.is_active = TRUE
		GROUP BY v.id, v.name, v.license_plate
		ORDER BY avg_efficiency DESC
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get efficiency report: %w", err)
	}
	return rows, nil
}

func (r *FuelRepository) GetDashboard(ctx context.Context) (*fuel.Dashboard, error) {
	dashboard := &fuel.Dashboard{}
	err := r.db.conn(ctx).Raw(`
		SELECT
			COUNT(*) AS total_fuel_logs,
			COALESCE(SUM(fuel_liters), 0) AS total_fuel_consumed,
			COALESCE(SUM(total_cost), 0) AS total_fuel_cost,
			COALESCE(AVG(fuel_efficiency), 0) AS avg_fuel_efficiency
		FROM fuel_logs
	`).Scan(dashboard).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get fuel totals: %w", err)
	}

	var expenses struct {
		TotalExpenses      int64
		TotalExpenseAmount float64
	}
	err = r.db.conn(ctx).Raw(`
		SELECT COUNT(*) AS total_expenses, COALESCE(SUM(amount), 0) AS total_expense_amount
		FROM expenses
	`).Scan(&expenses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get expense totals: %w", err)
	}
	dashboard.TotalExpenses = expenses.TotalExpenses
	dashboard.TotalExpenseAmount = expenses.TotalExpenseAmount

	return dashboard, nil
}

func (r *FuelRepository) CreateExpense(ctx context.Context, e *fuel.Expense) error {
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt

	if err := r.db.conn(ctx).Create(toExpenseModel(e)).Error; err != nil {
		return translateError("create expense", err)
	}
	return nil
}

func (r *FuelRepository) GetExpense(ctx context.Context, expenseID uuid.UUID) (*fuel.Expense, error) {
	var dbModel models.ExpenseModel
	err := r.db.conn(ctx).Where("id = ?", expenseID).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fuel.ErrExpenseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return toExpenseEntity(&dbModel), nil
}

func (r *FuelRepository) UpdateExpense(ctx context.Context, e *fuel.Expense) error {
	e.UpdatedAt = time.Now()

	result := r.db.conn(ctx).
		Model(&models.ExpenseModel{}).
		Where("id = ?", e.ID).
		Updates(map[string]interface{}{
			"type":            string(e.Type),
			"amount":          e.Amount,
			"payment_method":  string(e.PaymentMethod),
			"expense_date":    e.ExpenseDate,
			"description":     e.Description,
			"is_reimbursable": e.IsReimbursable,
			"is_approved":     e.IsApproved,
			"approved_by":     e.ApprovedBy,
			"updated_at":      e.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update expense: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fuel.ErrExpenseNotFound
	}
	return nil
}

func (r *FuelRepository) ListExpenses(ctx context.Context, filter *fuel.ExpenseFilter) ([]*fuel.Expense, int64, error) {
	var dbModels []models.ExpenseModel
	var total int64

	db := r.db.conn(ctx).Model(&models.ExpenseModel{})
	if filter.VehicleID != nil {
		db = db.Where("vehicle_id = ?", *filter.VehicleID)
	}
	if filter.DriverID != nil {
		db = db.Where("driver_id = ?", *filter.DriverID)
	}
	if filter.Type != nil {
		db = db.Where("type = ?", string(*filter.Type))
	}
	if filter.IsApproved != nil {
		db = db.Where("is_approved = ?", *filter.IsApproved)
	}
	if filter.From != nil {
		db = db.Where("expense_date >= ?", timeutil.DateOnly(*filter.From))
	}
	if filter.To != nil {
		db = db.Where("expense_date <= ?", timeutil.DateOnly(*filter.To))
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	limit, offset := pageBounds(filter.Page, filter.PageSize)
	if err := db.Order("expense_date DESC").Limit(limit).Offset(offset).Find(&dbModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}

	expenses := make([]*fuel.Expense, len(dbModels))
	for i := range dbModels {
		expenses[i] = toExpenseEntity(&dbModels[i])
	}
	return expenses, total, nil
}

func (r *FuelRepository) CreateBudget(ctx context.Context, b *fuel.Budget) error {
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt

	if err := r.db.conn(ctx).Create(toBudgetModel(b)).Error; err != nil {
		return translateError("create fuel budget", err)
	}
	return nil
}

func (r *FuelRepository) GetBudget(ctx context.Context, budgetID uuid.UUID) (*fuel.Budget, error) {
	var dbModel models.FuelBudgetModel
	err := r.db.conn(ctx).Where("id = ?", budgetID).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fuel.ErrBudgetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fuel budget: %w", err)
	}
	return toBudgetEntity(&dbModel), nil
}

func (r *FuelRepository) UpdateBudget(ctx context.Context, b *fuel.Budget) error {
	b.UpdatedAt = time.Now()

	result := r.db.conn(ctx).
		Model(&models.FuelBudgetModel{}).
		Where("id = ?", b.ID).
		Updates(map[string]interface{}{
			"budget_amount": b.BudgetAmount,
			"actual_spent":  b.ActualSpent,
			"end_date":      b.EndDate,
			"is_active":     b.IsActive,
			"updated_at":    b.UpdatedAt,
		})
	if result.Error != nil {
		return translateError("update fuel budget", result.Error)
	}
	if result.RowsAffected == 0 {
		return fuel.ErrBudgetNotFound
	}
	return nil
}

func (r *FuelRepository) ListBudgets(ctx context.Context, activeOnly bool) ([]*fuel.Budget, error) {
	db := r.db.conn(ctx)
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}

	var dbModels []models.FuelBudgetModel
	if err := db.Order("start_date DESC").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list fuel budgets: %w", err)
	}

	budgets := make([]*fuel.Budget, len(dbModels))
	for i := range dbModels {
		budgets[i] = toBudgetEntity(&dbModels[i])
	}
	return budgets, nil
}

func toFuelLogModel(l *fuel.Log) *models.FuelLogModel {
	return &models.FuelLogModel{
		ID:               l.ID,
		VehicleID:        l.VehicleID,
		TripID:           l.TripID,
		DriverID:         l.DriverID,
		Station:          l.Station,
		FuelDate:         l.FuelDate,
		FuelLiters:       l.FuelLiters,
		CostPerLiter:     l.CostPerLiter,
		TotalCost:        l.TotalCost,
		OdometerReading:  l.OdometerReading,
		PreviousOdometer: l.PreviousOdometer,
		DistanceTraveled: l.DistanceTraveled,
		FuelEfficiency:   l.FuelEfficiency,
		Notes:            l.Notes,
		CreatedBy:        l.CreatedBy,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

func toFuelLogEntity(m *models.FuelLogModel) *fuel.Log {
	return &fuel.Log{
		ID:               m.ID,
		VehicleID:        m.VehicleID,
		TripID:           m.TripID,
		DriverID:         m.DriverID,
		Station:          m.Station,
		FuelDate:         m.FuelDate,
		FuelLiters:       m.FuelLiters,
		CostPerLiter:     m.CostPerLiter,
		TotalCost:        m.TotalCost,
		OdometerReading:  m.OdometerReading,
		PreviousOdometer: m.PreviousOdometer,
		DistanceTraveled: m.DistanceTraveled,
		FuelEfficiency:   m.FuelEfficiency,
		Notes:            m.Notes,
		CreatedBy:        m.CreatedBy,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func toExpenseModel(e *fuel.Expense) *models.ExpenseModel {
	return &models.ExpenseModel{
		ID:             e.ID,
		VehicleID:      e.VehicleID,
		DriverID:       e.DriverID,
		TripID:         e.TripID,
		Type:           string(e.Type),
		Amount:         e.Amount,
		PaymentMethod:  string(e.PaymentMethod),
		ExpenseDate:    e.ExpenseDate,
		Description:    e.Description,
		IsReimbursable: e.IsReimbursable,
		IsApproved:     e.IsApproved,
		ApprovedBy:     e.ApprovedBy,
		CreatedBy:      e.CreatedBy,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func toExpenseEntity(m *models.ExpenseModel) *fuel.Expense {
	return &fuel.Expense{
		ID:             m.ID,
		VehicleID:      m.VehicleID,
		DriverID:       m.DriverID,
		TripID:         m.TripID,
		Type:           fuel.ExpenseType(m.Type),
		Amount:         m.Amount,
		PaymentMethod:  fuel.PaymentMethod(m.PaymentMethod),
		ExpenseDate:    m.ExpenseDate,
		Description:    m.Description,
		IsReimbursable: m.IsReimbursable,
		IsApproved:     m.IsApproved,
		ApprovedBy:     m.ApprovedBy,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toBudgetModel(b *fuel.Budget) *models.FuelBudgetModel {
	return &models.FuelBudgetModel{
		ID:           b.ID,
		VehicleID:    b.VehicleID,
		DriverID:     b.DriverID,
		Period:       string(b.Period),
		StartDate:    b.StartDate,
		EndDate:      b.EndDate,
		BudgetAmount: b.BudgetAmount,
		ActualSpent:  b.ActualSpent,
		IsActive:     b.IsActive,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

func toBudgetEntity(m *models.FuelBudgetModel) *fuel.Budget {
	return &fuel.Budget{
		ID:           m.ID,
		VehicleID:    m.VehicleID,
		DriverID:     m.DriverID,
		Period:       fuel.Period(m.Period),
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		BudgetAmount: m.BudgetAmount,
		ActualSpent:  m.ActualSpent,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
