package handler

import (
	"net/http"
	"strconv"

	"fleet-campus-admin/internal/domain/user"
	"fleet-campus-admin/internal/middleware"
	"fleet-campus-admin/internal/usecase/fuel"
	"fleet-campus-admin/pkg/utils"

	"github.com/gin-gonic/gin"
)

type FuelHandler struct {
	service *fuel.Service
}

func NewFuelHandler(service *fuel.Service) *FuelHandler {
	return &FuelHandler{service: service}
}

func (h *FuelHandler) RegisterRoutes(router *gin.RouterGroup) {
	view := middleware.RequirePermission(user.PermViewFleet)
	logs := middleware.RequirePermission(user.PermManageFuel)
	finance := middleware.RequirePermission(user.PermManageFinance)

	f := router.Group("/fuel")
	{
		f.GET("/logs", view, h.ListLogs)
		f.GET("/logs/:log_id", view, h.GetLog)
		f.POST("/logs", logs, h.CreateLog)
		f.PUT("/logs/:log_id", logs, h.UpdateLog)
		f.DELETE("/logs/:log_id", logs, h.DeleteLog)

		f.GET("/stats", view, h.Stats)
		f.GET("/efficiency", view, h.EfficiencyReport)
		f.GET("/dashboard", view, h.Dashboard)

		f.GET("/expenses", finance, h.ListExpenses)
		f.GET("/expenses/:expense_id", finance, h.GetExpense)
		f.POST("/expenses", finance, h.CreateExpense)
		f.PUT("/expenses/:expense_id", finance, h.UpdateExpense)
		f.POST("/expenses/:expense_id/approve", finance, h.ApproveExpense)

		f.GET("/budgets", finance, h.ListBudgets)
		f.GET("/budgets/:budget_id", finance, h.GetBudget)
		f.POST("/budgets", finance, h.CreateBudget)
		f.PUT("/budgets/:budget_id", finance, h.UpdateBudget)
		f.POST("/budgets/:budget_id/refresh", finance, h.RefreshBudget)
	}
}

func (h *FuelHandler) CreateLog(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req fuel.CreateLogRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.CreateLog(c.Request.Context(), userID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Fuel log created successfully", resp)
}

func (h *FuelHandler) GetLog(c *gin.Context) {
	id, ok := parseID(c, "log_id")
	if !ok {
		return
	}

	resp, err := h.service.GetLog(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Fuel log retrieved successfully", resp)
}

func (h *FuelHandler) UpdateLog(c *gin.Context) {
	id, ok := parseID(c, "log_id")
	if !ok {
		return
	}

	var req fuel.UpdateLogRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.UpdateLog(c.Request.Context(), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Fuel log updated successfully", resp)
}

func (h *FuelHandler) DeleteLog(c *gin.Context) {
	id, ok := parseID(c, "log_id")
	if !ok {
		return
	}

	if err := h.service.DeleteLog(c.Request.Context(), id); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Fuel log deleted successfully", nil)
}

func (h *FuelHandler) ListLogs(c *gin.Context) {
	var req fuel.LogFilterRequest
	if !bindQuery(c, &req) {
		return
	}

	resp, err := h.service.ListLogs(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Fuel logs retrieved successfully", resp)
}

func (h *FuelHandler) Stats(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "days must be an integer")
			return
		}
		days = n
	}

	resp, err := h.service.Stats(c.Request.Context(), days)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Fuel statistics", resp)
}

func (h *FuelHandler) EfficiencyReport(c *gin.Context) {
	resp, err := h.service.EfficiencyReport(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Fuel efficiency report", resp)
}

func (h *FuelHandler) Dashboard(c *gin.Context) {
	resp, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Fuel dashboard", resp)
}

func (h *FuelHandler) CreateExpense(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req fuel.CreateExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.CreateExpense(c.Request.Context(), userID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Expense created successfully", resp)
}

func (h *FuelHandler) GetExpense(c *gin.Context) {
	id, ok := parseID(c, "expense_id")
	if !ok {
		return
	}

	resp, err := h.service.GetExpense(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Expense retrieved successfully", resp)
}

func (h *FuelHandler) UpdateExpense(c *gin.Context) {
	id, ok := parseID(c, "expense_id")
	if !ok {
		return
	}

	var req fuel.UpdateExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.UpdateExpense(c.Request.Context(), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Expense updated successfully", resp)
}

func (h *FuelHandler) ApproveExpense(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "expense_id")
	if !ok {
		return
	}

	resp, err := h.service.ApproveExpense(c.Request.Context(), id, userID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Expense approved", resp)
}

func (h *FuelHandler) ListExpenses(c *gin.Context) {
	var req fuel.ExpenseFilterRequest
	if !bindQuery(c, &req) {
		return
	}

	resp, err := h.service.ListExpenses(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Expenses retrieved successfully", resp)
}

func (h *FuelHandler) CreateBudget(c *gin.Context) {
	var req fuel.CreateBudgetRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.CreateBudget(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Budget created successfully", resp)
}

func (h *FuelHandler) GetBudget(c *gin.Context) {
	id, ok := parseID(c, "budget_id")
	if !ok {
		return
	}

	resp, err := h.service.GetBudget(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Budget retrieved successfully", resp)
}

func (h *FuelHandler) UpdateBudget(c *gin.Context) {
	id, ok := parseID(c, "budget_id")
	if !ok {
		return
	}

	var req fuel.UpdateBudgetRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.UpdateBudget(c.Request.Context(), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Budget updated successfully", resp)
}

func (h *FuelHandler) ListBudgets(c *gin.Context) {
	resp, err := h.service.ListBudgets(c.Request.Context(), queryBool(c, "active"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Budgets retrieved successfully", resp)
}

func (h *FuelHandler) RefreshBudget(c *gin.Context) {
	id, ok := parseID(c, "budget_id")
	if !ok {
		return
	}

	resp, err := h.service.RefreshBudget(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Budget refreshed", resp)
}
