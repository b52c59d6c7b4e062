package handler

import (
	"net/http"
	"time"

	"fleet-campus-admin/internal/domain/user"
	"fleet-campus-admin/internal/middleware"
	"fleet-campus-admin/internal/usecase/driver"
	"fleet-campus-admin/pkg/utils"

	"github.com/gin-gonic/gin"
)

type DriverHandler struct {
	service *driver.Service
}

func NewDriverHandler(service *driver.Service) *DriverHandler {
	return &DriverHandler{service: service}
}

func (h *DriverHandler) RegisterRoutes(router *gin.RouterGroup) {
	view := middleware.RequirePermission(user.PermViewFleet)
	manage := middleware.RequirePermission(user.PermManageFleet)
	records := middleware.RequirePermission(user.PermManageDriverRecords)

	drivers := router.Group("/drivers")
	{
		drivers.GET("", view, h.List)
		drivers.GET("/available", view, h.ListAvailable)
		drivers.GET("/dashboard", view, h.Dashboard)
		drivers.GET("/:driver_id", view, h.Get)
		drivers.GET("/:driver_id/performance", view, h.GetPerformance)
		drivers.GET("/:driver_id/documents", view, h.ListDocuments)
		drivers.GET("/:driver_id/attendance", view, h.ListAttendance)

		drivers.POST("", manage, h.Create)
		drivers.PUT("/:driver_id", manage, h.Update)
		drivers.DELETE("/:driver_id", manage, h.Delete)

		drivers.PATCH("/:driver_id/status", records, h.UpdateStatus)
		drivers.PUT("/:driver_id/performance", records, h.UpdatePerformance)
		drivers.POST("/:driver_id/documents", records, h.UploadDocument)
		drivers.POST("/:driver_id/attendance", records, h.RecordAttendance)
	}
}

func (h *DriverHandler) Create(c *gin.Context) {
	var req driver.CreateDriverRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Driver created successfully", resp)
}

func (h *DriverHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "driver_id")
	if !ok {
		return
	}

	resp, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Driver retrieved successfully", resp)
}

func (h *DriverHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "driver_id")
	if !ok {
		return
	}

	var req driver.UpdateDriverRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Driver updated successfully", resp)
}

func (h *DriverHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "driver_id")
	if !ok {
		return
	}

	var req driver.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.UpdateStatus(c.Request.Context(), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Driver status updated", resp)
}

func (h *DriverHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "driver_id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Driver deleted successfully", nil)
}

func (h *DriverHandler) List(c *gin.Context) {
	var req driver.DriverFilterRequest
	if !bindQuery(c, &req) {
		return
	}

	resp, err := h.service.List(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Drivers retrieved successfully", resp)
}

func (h *DriverHandler) ListAvailable(c *gin.Context) {
	resp, err := h.service.ListAvailable(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Available drivers retrieved successfully", resp)
}

func (h *DriverHandler) Dashboard(c *gin.Context) {
	resp, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Driver dashboard", resp)
}

func (h *DriverHandler) GetPerformance(c *gin.Context) {
	id, ok := parseID(c, "driver_id")
	if !ok {
		return
	}

	resp, err := h.service.GetPerformance(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Driver performance", resp)
}

func (h *DriverHandler) UpdatePerformance(c *gin.Context) {
	id, ok := parseID(c, "driver_id")
	if !ok {
		return
	}

	var req driver.UpdatePerformanceRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.UpdatePerformance(c.Request.Context(), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Driver performance updated", resp)
}

func (h *DriverHandler) UploadDocument(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "driver_id")
	if !ok {
		return
	}

	var req driver.UploadDocumentRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid form data")
		return
	}

	file, closeFile, ok := formFile(c)
	if !ok {
		return
	}
	defer closeFile()

	resp, err := h.service.UploadDocument(c.Request.Context(), id, userID, &req, file)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Document uploaded successfully", resp)
}

func (h *DriverHandler) ListDocuments(c *gin.Context) {
	id, ok := parseID(c, "driver_id")
	if !ok {
		return
	}

	resp, err := h.service.ListDocuments(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Documents retrieved successfully", resp)
}

func (h *DriverHandler) RecordAttendance(c *gin.Context) {
	id, ok := parseID(c, "driver_id")
	if !ok {
		return
	}

	var req driver.AttendanceRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.RecordAttendance(c.Request.Context(), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Attendance recorded", resp)
}

type attendanceRange struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

func (h *DriverHandler) ListAttendance(c *gin.Context) {
	id, ok := parseID(c, "driver_id")
	if !ok {
		return
	}

	var q attendanceRange
	if !bindQuery(c, &q) {
		return
	}

	resp, err := h.service.ListAttendance(c.Request.Context(), id, q.From, q.To)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Attendance retrieved successfully", resp)
}
