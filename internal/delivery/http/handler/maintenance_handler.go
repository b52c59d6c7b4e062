package handler

import (
	"net/http"

	"fleet-campus-admin/internal/domain/user"
	"fleet-campus-admin/internal/middleware"
	"fleet-campus-admin/internal/usecase/maintenance"
	"fleet-campus-admin/pkg/utils"

	"github.com/gin-gonic/gin"
)

type MaintenanceHandler struct {
	service *maintenance.Service
}

func NewMaintenanceHandler(service *maintenance.Service) *MaintenanceHandler {
	return &MaintenanceHandler{service: service}
}

func (h *MaintenanceHandler) RegisterRoutes(router *gin.RouterGroup) {
	view := middleware.RequirePermission(user.PermViewFleet)
	manage := middleware.RequirePermission(user.PermManageMaintenance)

	m := router.Group("/maintenance")
	{
		m.GET("/schedules", view, h.List)
		m.GET("/schedules/:schedule_id", view, h.Get)
		m.GET("/schedules/:schedule_id/parts", view, h.ListParts)
		m.GET("/dashboard", view, h.Dashboard)
		m.GET("/reminders", view, h.ListReminders)

		m.POST("/schedules", manage, h.Create)
		m.PUT("/schedules/:schedule_id", manage, h.Update)
		m.POST("/schedules/:schedule_id/start", manage, h.Start)
		m.POST("/schedules/:schedule_id/complete", manage, h.Complete)
		m.POST("/schedules/:schedule_id/cancel", manage, h.Cancel)
		m.POST("/schedules/:schedule_id/postpone", manage, h.Postpone)
		m.POST("/schedules/:schedule_id/reschedule", manage, h.Reschedule)
		m.POST("/schedules/:schedule_id/parts", manage, h.AddPart)
		m.POST("/reminders", manage, h.CreateReminder)
	}
}

func (h *MaintenanceHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req maintenance.CreateScheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Create(c.Request.Context(), userID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Maintenance scheduled", resp)
}

func (h *MaintenanceHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "schedule_id")
	if !ok {
		return
	}

	resp, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Maintenance retrieved successfully", resp)
}

func (h *MaintenanceHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "schedule_id")
	if !ok {
		return
	}

	var req maintenance.UpdateScheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Maintenance updated successfully", resp)
}

func (h *MaintenanceHandler) List(c *gin.Context) {
	var req maintenance.ScheduleFilterRequest
	if !bindQuery(c, &req) {
		return
	}

	resp, err := h.service.List(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Maintenance retrieved successfully", resp)
}

func (h *MaintenanceHandler) Start(c *gin.Context) {
	id, ok := parseID(c, "schedule_id")
	if !ok {
		return
	}

	resp, err := h.service.Start(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Maintenance started", resp)
}

func (h *MaintenanceHandler) Complete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "schedule_id")
	if !ok {
		return
	}

	var req maintenance.CompleteRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Complete(c.Request.Context(), id, userID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Maintenance completed", resp)
}

func (h *MaintenanceHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "schedule_id")
	if !ok {
		return
	}

	resp, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Maintenance cancelled", resp)
}

func (h *MaintenanceHandler) Postpone(c *gin.Context) {
	id, ok := parseID(c, "schedule_id")
	if !ok {
		return
	}

	var req maintenance.PostponeRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Postpone(c.Request.Context(), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Maintenance postponed", resp)
}

func (h *MaintenanceHandler) Reschedule(c *gin.Context) {
	id, ok := parseID(c, "schedule_id")
	if !ok {
		return
	}

	var req maintenance.RescheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Reschedule(c.Request.Context(), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Maintenance rescheduled", resp)
}

func (h *MaintenanceHandler) Dashboard(c *gin.Context) {
	resp, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Maintenance dashboard", resp)
}

func (h *MaintenanceHandler) AddPart(c *gin.Context) {
	id, ok := parseID(c, "schedule_id")
	if !ok {
		return
	}

	var req maintenance.AddPartRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.AddPart(c.Request.Context(), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Part added", resp)
}

func (h *MaintenanceHandler) ListParts(c *gin.Context) {
	id, ok := parseID(c, "schedule_id")
	if !ok {
		return
	}

	resp, err := h.service.ListParts(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Parts retrieved successfully", resp)
}

func (h *MaintenanceHandler) CreateReminder(c *gin.Context) {
	var req maintenance.CreateReminderRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.CreateReminder(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Reminder created", resp)
}

func (h *MaintenanceHandler) ListReminders(c *gin.Context) {
	resp, err := h.service.ListReminders(c.Request.Context(), queryBool(c, "active"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Reminders retrieved successfully", resp)
}
