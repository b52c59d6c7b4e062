package handler

import (
	"net/http"

	"fleet-campus-admin/internal/domain/user"
	"fleet-campus-admin/internal/middleware"
	"fleet-campus-admin/internal/usecase/student"
	"fleet-campus-admin/pkg/utils"

	"github.com/gin-gonic/gin"
)

type StudentHandler struct {
	service *student.Service
}

func NewStudentHandler(service *student.Service) *StudentHandler {
	return &StudentHandler{service: service}
}

// RegisterRoutes puts every student route behind manage_students.
func (h *StudentHandler) RegisterRoutes(router *gin.RouterGroup) {
	students := router.Group("/students", middleware.RequirePermission(user.PermManageStudents))
	{
		students.GET("", h.List)
		students.POST("", h.Create)
		students.GET("/batches", h.Batches)
		students.POST("/fix-emails", h.FixEmails)
		students.POST("/attendance/bulk", h.BulkMarkAttendance)
		students.GET("/by-student-id/:student_code", h.GetByStudentID)

		students.GET("/terminated", h.ListTerminated)
		students.GET("/terminated/:terminated_id", h.GetTerminated)
		students.POST("/terminated/:terminated_id/restore", h.Restore)

		students.GET("/:student_id", h.Get)
		students.PUT("/:student_id", h.Update)
		students.POST("/:student_id/terminate", h.Terminate)
		students.POST("/:student_id/attendance", h.MarkAttendance)
		students.GET("/:student_id/attendance/summary", h.AttendanceSummary)
		students.POST("/:student_id/performance", h.AddPerformance)
		students.GET("/:student_id/performance", h.ListPerformance)
	}
}

func (h *StudentHandler) Create(c *gin.Context) {
	var req student.CreateStudentRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Student created successfully", resp)
}

func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "student_id")
	if !ok {
		return
	}

	resp, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Student retrieved successfully", resp)
}

func (h *StudentHandler) GetByStudentID(c *gin.Context) {
	resp, err := h.service.GetByStudentID(c.Request.Context(), c.Param("student_code"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Student retrieved successfully", resp)
}

func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "student_id")
	if !ok {
		return
	}

	var req student.UpdateStudentRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Student updated successfully", resp)
}

func (h *StudentHandler) List(c *gin.Context) {
	var req student.StudentFilterRequest
	if !bindQuery(c, &req) {
		return
	}

	resp, err := h.service.List(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Students retrieved successfully", resp)
}

func (h *StudentHandler) Batches(c *gin.Context) {
	resp, err := h.service.Batches(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Batches retrieved successfully", resp)
}

func (h *StudentHandler) FixEmails(c *gin.Context) {
	fixed, err := h.service.FixEmailMismatches(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Email ids repaired", student.FixEmailsResponse{Fixed: fixed})
}

func (h *StudentHandler) MarkAttendance(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "student_id")
	if !ok {
		return
	}

	var req student.MarkAttendanceRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.MarkAttendance(c.Request.Context(), id, userID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Attendance marked", resp)
}

func (h *StudentHandler) BulkMarkAttendance(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req student.BulkAttendanceRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.BulkMarkAttendance(c.Request.Context(), userID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Attendance marked", resp)
}

func (h *StudentHandler) AttendanceSummary(c *gin.Context) {
	id, ok := parseID(c, "student_id")
	if !ok {
		return
	}

	resp, err := h.service.AttendanceSummary(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Attendance summary", resp)
}

func (h *StudentHandler) AddPerformance(c *gin.Context) {
	id, ok := parseID(c, "student_id")
	if !ok {
		return
	}

	var req student.AddPerformanceRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.AddPerformance(c.Request.Context(), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Performance recorded", resp)
}

func (h *StudentHandler) ListPerformance(c *gin.Context) {
	id, ok := parseID(c, "student_id")
	if !ok {
		return
	}

	resp, err := h.service.ListPerformance(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Performance records", resp)
}

func (h *StudentHandler) Terminate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "student_id")
	if !ok {
		return
	}

	var req student.TerminateRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Terminate(c.Request.Context(), id, userID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Student terminated", resp)
}

func (h *StudentHandler) ListTerminated(c *gin.Context) {
	resp, err := h.service.ListTerminated(c.Request.Context(), queryBool(c, "include_restored"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Terminated students", resp)
}

func (h *StudentHandler) GetTerminated(c *gin.Context) {
	id, ok := parseID(c, "terminated_id")
	if !ok {
		return
	}

	resp, err := h.service.GetTerminated(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Terminated student", resp)
}

func (h *StudentHandler) Restore(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "terminated_id")
	if !ok {
		return
	}

	resp, err := h.service.Restore(c.Request.Context(), id, userID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Student restored", resp)
}
