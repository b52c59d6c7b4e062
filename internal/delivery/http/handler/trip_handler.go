package handler

import (
	"net/http"

	"fleet-campus-admin/internal/delivery/http/ws"
	"fleet-campus-admin/internal/domain/user"
	"fleet-campus-admin/internal/logger"
	"fleet-campus-admin/internal/middleware"
	"fleet-campus-admin/internal/usecase/trip"
	"fleet-campus-admin/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TripHandler struct {
	service *trip.Service
	hub     *ws.Hub
}

func NewTripHandler(service *trip.Service, hub *ws.Hub) *TripHandler {
	return &TripHandler{service: service, hub: hub}
}

func (h *TripHandler) RegisterRoutes(router *gin.RouterGroup) {
	view := middleware.RequirePermission(user.PermViewFleet)
	manage := middleware.RequirePermission(user.PermManageTrips)

	trips := router.Group("/trips")
	{
		trips.GET("", view, h.List)
		trips.GET("/stats", view, h.Stats)
		trips.GET("/dashboard", view, h.Dashboard)
		trips.GET("/:trip_id", view, h.Get)
		trips.GET("/:trip_id/transitions", view, h.AllowedTransitions)
		trips.GET("/:trip_id/expenses", view, h.ListExpenses)
		trips.GET("/:trip_id/checkpoints", view, h.ListCheckpoints)
		trips.GET("/:trip_id/route", view, h.Route)
		trips.GET("/:trip_id/documents", view, h.ListDocuments)

		trips.POST("", manage, h.Create)
		trips.PUT("/:trip_id", manage, h.Update)
		trips.POST("/:trip_id/dispatch", manage, h.Dispatch)
		trips.POST("/:trip_id/start", manage, h.Start)
		trips.POST("/:trip_id/complete", manage, h.Complete)
		trips.POST("/:trip_id/cancel", manage, h.Cancel)
		trips.POST("/:trip_id/expenses", manage, h.AddExpense)
		trips.POST("/:trip_id/checkpoints", manage, h.AddCheckpoint)
		trips.POST("/:trip_id/checkpoints/:checkpoint_id/complete", manage, h.CompleteCheckpoint)
		trips.POST("/:trip_id/documents", manage, h.UploadDocument)

		trips.PATCH("/:trip_id/status", middleware.AdminOnly(), h.SetStatus)
	}

	router.GET("/ws/trips", view, h.Live)
}

func (h *TripHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req trip.CreateTripRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Create(c.Request.Context(), userID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Trip created successfully", resp)
}

func (h *TripHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "trip_id")
	if !ok {
		return
	}

	resp, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Trip retrieved successfully", resp)
}

func (h *TripHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "trip_id")
	if !ok {
		return
	}

	var req trip.UpdateTripRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Trip updated successfully", resp)
}

func (h *TripHandler) List(c *gin.Context) {
	var req trip.TripFilterRequest
	if !bindQuery(c, &req) {
		return
	}

	resp, err := h.service.List(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Trips retrieved successfully", resp)
}

func (h *TripHandler) Dispatch(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "trip_id")
	if !ok {
		return
	}

	resp, err := h.service.Dispatch(c.Request.Context(), id, userID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Trip dispatched", resp)
}

func (h *TripHandler) Start(c *gin.Context) {
	id, ok := parseID(c, "trip_id")
	if !ok {
		return
	}

	resp, err := h.service.Start(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Trip started", resp)
}

func (h *TripHandler) Complete(c *gin.Context) {
	id, ok := parseID(c, "trip_id")
	if !ok {
		return
	}

	var req trip.CompleteTripRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Complete(c.Request.Context(), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Trip completed", resp)
}

func (h *TripHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "trip_id")
	if !ok {
		return
	}

	var req trip.CancelTripRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Cancel(c.Request.Context(), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Trip cancelled", resp)
}

func (h *TripHandler) SetStatus(c *gin.Context) {
	id, ok := parseID(c, "trip_id")
	if !ok {
		return
	}

	var req trip.SetStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.SetStatus(c.Request.Context(), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Trip status updated", resp)
}

func (h *TripHandler) AllowedTransitions(c *gin.Context) {
	id, ok := parseID(c, "trip_id")
	if !ok {
		return
	}

	resp, err := h.service.AllowedTransitions(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Allowed transitions", resp)
}

func (h *TripHandler) Stats(c *gin.Context) {
	resp, err := h.service.Stats(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Trip statistics", resp)
}

func (h *TripHandler) Dashboard(c *gin.Context) {
	resp, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Trip dashboard", resp)
}

func (h *TripHandler) AddExpense(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "trip_id")
	if !ok {
		return
	}

	var req trip.AddExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.AddExpense(c.Request.Context(), id, userID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Expense added", resp)
}

func (h *TripHandler) ListExpenses(c *gin.Context) {
	id, ok := parseID(c, "trip_id")
	if !ok {
		return
	}

	resp, err := h.service.ListExpenses(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Expenses retrieved successfully", resp)
}

func (h *TripHandler) AddCheckpoint(c *gin.Context) {
	id, ok := parseID(c, "trip_id")
	if !ok {
		return
	}

	var req trip.AddCheckpointRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.AddCheckpoint(c.Request.Context(), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Checkpoint added", resp)
}

func (h *TripHandler) ListCheckpoints(c *gin.Context) {
	id, ok := parseID(c, "trip_id")
	if !ok {
		return
	}

	resp, err := h.service.ListCheckpoints(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Checkpoints retrieved successfully", resp)
}

func (h *TripHandler) CompleteCheckpoint(c *gin.Context) {
	id, ok := parseID(c, "trip_id")
	if !ok {
		return
	}
	checkpointID, ok := parseID(c, "checkpoint_id")
	if !ok {
		return
	}

	var req trip.CompleteCheckpointRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.CompleteCheckpoint(c.Request.Context(), id, checkpointID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Checkpoint completed", resp)
}

func (h *TripHandler) Route(c *gin.Context) {
	id, ok := parseID(c, "trip_id")
	if !ok {
		return
	}

	resp, err := h.service.Route(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Trip route", resp)
}

func (h *TripHandler) UploadDocument(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "trip_id")
	if !ok {
		return
	}

	var req trip.UploadDocumentRequest
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

func (h *TripHandler) ListDocuments(c *gin.Context) {
	id, ok := parseID(c, "trip_id")
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

// Live upgrades to a websocket that streams trip and maintenance events.
func (h *TripHandler) Live(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.hub.Serve(c.Writer, c.Request, userID, currentRole(c)); err != nil {
		logger.Warn("Websocket upgrade failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
	}
}
