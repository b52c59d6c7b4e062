package handler

import (
	"net/http"

	"fleet-campus-admin/internal/domain/user"
	"fleet-campus-admin/internal/middleware"
	"fleet-campus-admin/internal/usecase/alert"
	"fleet-campus-admin/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AlertHandler struct {
	service *alert.Service
}

func NewAlertHandler(service *alert.Service) *AlertHandler {
	return &AlertHandler{service: service}
}

// RegisterRoutes exposes alerts to every fleet viewer. Acting on an alert is
// further limited by its type inside the service.
func (h *AlertHandler) RegisterRoutes(router *gin.RouterGroup) {
	a := router.Group("/alerts", middleware.RequirePermission(user.PermViewFleet))
	{
		a.GET("", h.List)
		a.GET("/summary", h.Summary)
		a.GET("/:alert_id", h.Get)
		a.POST("/:alert_id/acknowledge", h.Acknowledge)
		a.POST("/:alert_id/resolve", h.Resolve)
		a.POST("/:alert_id/dismiss", h.Dismiss)
	}
}

func (h *AlertHandler) List(c *gin.Context) {
	var req alert.FilterRequest
	if !bindQuery(c, &req) {
		return
	}

	resp, err := h.service.List(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Alerts retrieved successfully", resp)
}

func (h *AlertHandler) Summary(c *gin.Context) {
	resp, err := h.service.Summary(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Alert summary retrieved successfully", resp)
}

func (h *AlertHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "alert_id")
	if !ok {
		return
	}

	resp, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Alert retrieved successfully", resp)
}

func (h *AlertHandler) Acknowledge(c *gin.Context) {
	id, userID, ok := h.target(c)
	if !ok {
		return
	}

	resp, err := h.service.Acknowledge(c.Request.Context(), id, userID, currentRole(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Alert acknowledged", resp)
}

func (h *AlertHandler) Resolve(c *gin.Context) {
	id, userID, ok := h.target(c)
	if !ok {
		return
	}

	var req alert.ResolveRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Resolve(c.Request.Context(), id, userID, currentRole(c), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Alert resolved", resp)
}

func (h *AlertHandler) Dismiss(c *gin.Context) {
	id, userID, ok := h.target(c)
	if !ok {
		return
	}

	resp, err := h.service.Dismiss(c.Request.Context(), id, userID, currentRole(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Alert dismissed", resp)
}

func (h *AlertHandler) target(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	id, ok := parseID(c, "alert_id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	userID, ok := currentUser(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return id, userID, true
}
