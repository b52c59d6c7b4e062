package handler

import (
	"fmt"
	"net/http"

	"fleet-campus-admin/internal/domain/user"
	"fleet-campus-admin/internal/middleware"
	"fleet-campus-admin/internal/usecase/report"
	"fleet-campus-admin/pkg/utils"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	service *report.Service
}

func NewReportHandler(service *report.Service) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports", middleware.RequirePermission(user.PermExportReports))
	{
		reports.GET("/students", h.AllStudents)
		reports.GET("/students/:student_id", h.StudentReport)
		reports.GET("/attendance", h.Attendance)
		reports.GET("/trips", h.Trips)
		reports.GET("/fuel-logs", h.FuelLogs)
		reports.GET("/expenses", h.Expenses)
	}
}

func sendCSV(c *gin.Context, file *report.File) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Name))
	c.Data(http.StatusOK, report.ContentType, file.Body)
}

func (h *ReportHandler) StudentReport(c *gin.Context) {
	id, ok := parseID(c, "student_id")
	if !ok {
		return
	}

	file, err := h.service.StudentReport(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	sendCSV(c, file)
}

func (h *ReportHandler) AllStudents(c *gin.Context) {
	file, err := h.service.AllStudents(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	sendCSV(c, file)
}

func (h *ReportHandler) Attendance(c *gin.Context) {
	var req report.AttendanceExportRequest
	if !bindQuery(c, &req) {
		return
	}

	file, err := h.service.Attendance(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	sendCSV(c, file)
}

func (h *ReportHandler) fleetExport(c *gin.Context, render func(*gin.Context, *report.FleetExportRequest) (*report.File, error)) {
	var req report.FleetExportRequest
	if !bindQuery(c, &req) {
		return
	}

	file, err := render(c, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	sendCSV(c, file)
}

func (h *ReportHandler) Trips(c *gin.Context) {
	h.fleetExport(c, func(c *gin.Context, req *report.FleetExportRequest) (*report.File, error) {
		return h.service.Trips(c.Request.Context(), req)
	})
}

func (h *ReportHandler) FuelLogs(c *gin.Context) {
	h.fleetExport(c, func(c *gin.Context, req *report.FleetExportRequest) (*report.File, error) {
		return h.service.FuelLogs(c.Request.Context(), req)
	})
}

func (h *ReportHandler) Expenses(c *gin.Context) {
	h.fleetExport(c, func(c *gin.Context, req *report.FleetExportRequest) (*report.File, error) {
		return h.service.Expenses(c.Request.Context(), req)
	})
}
