package fuel

import (
	"context"

	domainFuel "fleet-campus-admin/internal/domain/fuel"
	"fleet-campus-admin/internal/logger"
	appErrors "fleet-campus-admin/pkg/errors"
	"fleet-campus-admin/pkg/timeutil"
	"fleet-campus-admin/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *Service) CreateExpense(ctx context.Context, createdBy uuid.UUID, req *CreateExpenseRequest) (*ExpenseResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}
	if req.VehicleID != nil {
		if _, err := s.vehicleRepo.GetByID(ctx, *req.VehicleID); err != nil {
			return nil, err
		}
	}

	e := &domainFuel.Expense{
		VehicleID:      req.VehicleID,
		DriverID:       req.DriverID,
		TripID:         req.TripID,
		Type:           domainFuel.ExpenseType(req.Type),
		Amount:         req.Amount,
		PaymentMethod:  domainFuel.PaymentMethod(req.PaymentMethod),
		ExpenseDate:    timeutil.DateOnly(req.ExpenseDate),
		Description:    utils.SanitizeText(req.Description),
		IsReimbursable: req.IsReimbursable,
		CreatedBy:      &createdBy,
	}
	if err := s.fuelRepo.CreateExpense(ctx, e); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)

	logger.Info("Expense recorded",
		zap.String("expense_id", e.ID.String()),
		zap.String("type", string(e.Type)),
		zap.Float64("amount", e.Amount),
		zap.String("event", "expense_created"),
	)

	resp := ToExpenseResponse(e)
	return &resp, nil
}

func (s *Service) GetExpense(ctx context.Context, expenseID uuid.UUID) (*ExpenseResponse, error) {
	e, err := s.fuelRepo.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	resp := ToExpenseResponse(e)
	return &resp, nil
}

// UpdateExpense edits an expense that has not been approved yet.
func (s *Service) UpdateExpense(ctx context.Context, expenseID uuid.UUID, req *UpdateExpenseRequest) (*ExpenseResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	e, err := s.fuelRepo.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if e.IsApproved {
		return nil, appErrors.NewAppError("EXPENSE_ALREADY_APPROVED", "Approved expenses cannot be edited", nil)
	}

	if req.Type != nil {
		e.Type = domainFuel.ExpenseType(*req.Type)
	}
	if req.Amount != nil {
		e.Amount = *req.Amount
	}
	if req.PaymentMethod != nil {
		e.PaymentMethod = domainFuel.PaymentMethod(*req.PaymentMethod)
	}
	if req.ExpenseDate != nil {
		e.ExpenseDate = timeutil.DateOnly(*req.ExpenseDate)
	}
	if req.Description != nil {
		e.Description = utils.SanitizeText(*req.Description)
	}
	if req.IsReimbursable != nil {
		e.IsReimbursable = *req.IsReimbursable
	}

	if err := s.fuelRepo.UpdateExpense(ctx, e); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)

	resp := ToExpenseResponse(e)
	return &resp, nil
}

func (s *Service) ApproveExpense(ctx context.Context, expenseID, approvedBy uuid.UUID) (*ExpenseResponse, error) {
	e, err := s.fuelRepo.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if e.IsApproved {
		return nil, appErrors.NewAppError("EXPENSE_ALREADY_APPROVED", "Expense is already approved", nil)
	}

	e.IsApproved = true
	e.ApprovedBy = &approvedBy
	if err := s.fuelRepo.UpdateExpense(ctx, e); err != nil {
		return nil, err
	}

	logger.Info("Expense approved",
		zap.String("expense_id", e.ID.String()),
		zap.String("approved_by", approvedBy.String()),
		zap.String("event", "expense_approved"),
	)

	resp := ToExpenseResponse(e)
	return &resp, nil
}

func (s *Service) ListExpenses(ctx context.Context, req *ExpenseFilterRequest) (*ExpenseListResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid filter", err)
	}
	if err := ValidateDateRange(req.From, req.To); err != nil {
		return nil, err
	}

	page, pageSize := utils.NormalizePage(req.Page, req.PageSize)
	filter := &domainFuel.ExpenseFilter{
		VehicleID:  req.VehicleID,
		DriverID:   req.DriverID,
		IsApproved: req.IsApproved,
		From:       req.From,
		To:         req.To,
		Page:       page,
		PageSize:   pageSize,
	}
	if req.Type != nil {
		t := domainFuel.ExpenseType(*req.Type)
		filter.Type = &t
	}

	expenses, total, err := s.fuelRepo.ListExpenses(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		items = append(items, ToExpenseResponse(e))
	}

	return &ExpenseListResponse{
		Expenses:   items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: utils.TotalPages(total, pageSize),
	}, nil
}

// CreateBudget opens a budget and fills its actual spend right away.
func (s *Service) CreateBudget(ctx context.Context, req *CreateBudgetRequest) (*BudgetResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}
	if req.VehicleID != nil && req.DriverID != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "A budget is scoped to a vehicle or a driver, not both", nil)
	}

	period := domainFuel.Period(req.Period)
	start := timeutil.DateOnly(req.StartDate)
	end := domainFuel.PeriodEnd(start, period)
	if req.EndDate != nil {
		end = timeutil.DateOnly(*req.EndDate)
	}
	if end.Before(start) {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "End date must not precede start date", nil)
	}

	b := &domainFuel.Budget{
		VehicleID:    req.VehicleID,
		DriverID:     req.DriverID,
		Period:       period,
		StartDate:    start,
		EndDate:      end,
		BudgetAmount: req.BudgetAmount,
		IsActive:     true,
	}

	spent, err := s.fuelRepo.SumCost(ctx, b.Scope(), b.StartDate, b.EndDate)
	if err != nil {
		return nil, err
	}
	b.ActualSpent = spent

	if err := s.fuelRepo.CreateBudget(ctx, b); err != nil {
		return nil, translateUnique(err)
	}

	logger.Info("Fuel budget created",
		zap.String("budget_id", b.ID.String()),
		zap.String("period", string(b.Period)),
		zap.Float64("amount", b.BudgetAmount),
		zap.String("event", "budget_created"),
	)

	resp := ToBudgetResponse(b)
	return &resp, nil
}

func (s *Service) GetBudget(ctx context.Context, budgetID uuid.UUID) (*BudgetResponse, error) {
	b, err := s.fuelRepo.GetBudget(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	resp := ToBudgetResponse(b)
	return &resp, nil
}

func (s *Service) UpdateBudget(ctx context.Context, budgetID uuid.UUID, req *UpdateBudgetRequest) (*BudgetResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	b, err := s.fuelRepo.GetBudget(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if req.BudgetAmount != nil {
		b.BudgetAmount = *req.BudgetAmount
	}
	if req.EndDate != nil {
		end := timeutil.DateOnly(*req.EndDate)
		if end.Before(b.StartDate) {
			return nil, appErrors.NewAppError(appErrors.CodeValidation, "End date must not precede start date", nil)
		}
		b.EndDate = end
	}
	if req.IsActive != nil {
		b.IsActive = *req.IsActive
	}

	if err := s.fuelRepo.UpdateBudget(ctx, b); err != nil {
		return nil, err
	}
	resp := ToBudgetResponse(b)
	return &resp, nil
}

func (s *Service) ListBudgets(ctx context.Context, activeOnly bool) ([]BudgetResponse, error) {
	budgets, err := s.fuelRepo.ListBudgets(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	items := make([]BudgetResponse, 0, len(budgets))
	for _, b := range budgets {
		items = append(items, ToBudgetResponse(b))
	}
	return items, nil
}

// RefreshBudget recomputes actual_spent from the fuel logs in the budget's
// window.
func (s *Service) RefreshBudget(ctx context.Context, budgetID uuid.UUID) (*BudgetResponse, error) {
	b, err := s.fuelRepo.GetBudget(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if err := s.refresh(ctx, b); err != nil {
		return nil, err
	}
	resp := ToBudgetResponse(b)
	return &resp, nil
}

// RefreshActiveBudgets refreshes every active budget and returns how many
// were updated. A failing budget is logged and skipped.
func (s *Service) RefreshActiveBudgets(ctx context.Context) (int, error) {
	budgets, err := s.fuelRepo.ListBudgets(ctx, true)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, b := range budgets {
		if err := ctx.Err(); err != nil {
			return refreshed, err
		}
		if err := s.refresh(ctx, b); err != nil {
			logger.Warn("Failed to refresh budget",
				zap.String("budget_id", b.ID.String()),
				zap.Error(err),
			)
			continue
		}
		refreshed++
	}
	return refreshed, nil
}

func (s *Service) refresh(ctx context.Context, b *domainFuel.Budget) error {
	spent, err := s.fuelRepo.SumCost(ctx, b.Scope(), b.StartDate, b.EndDate)
	if err != nil {
		return err
	}
	b.ActualSpent = spent
	if err := s.fuelRepo.UpdateBudget(ctx, b); err != nil {
		return err
	}

	logger.Debug("Budget refreshed",
		zap.String("budget_id", b.ID.String()),
		zap.Float64("actual_spent", spent),
		zap.Float64("utilization", b.Utilization()),
		zap.String("event", "budget_refreshed"),
	)
	return nil
}
