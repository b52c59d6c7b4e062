package handler

import (
	"net/http"
	"strconv"

	"fleet-campus-admin/internal/domain/user"
	"fleet-campus-admin/internal/middleware"
	"fleet-campus-admin/internal/usecase/vehicle"
	"fleet-campus-admin/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VehicleHandler struct {
	service *vehicle.Service
}

func NewVehicleHandler(service *vehicle.Service) *VehicleHandler {
	return &VehicleHandler{service: service}
}

func (h *VehicleHandler) RegisterRoutes(router *gin.RouterGroup) {
	view := middleware.RequirePermission(user.PermViewFleet)
	manage := middleware.RequirePermission(user.PermManageFleet)

	vehicles := router.Group("/vehicles")
	{
		vehicles.GET("", view, h.List)
		vehicles.GET("/available", view, h.ListAvailable)
		vehicles.GET("/capacity-check", view, h.CheckCapacity)
		vehicles.GET("/:vehicle_id", view, h.Get)
		vehicles.GET("/:vehicle_id/documents", view, h.ListDocuments)

		vehicles.POST("", manage, h.Create)
		vehicles.PUT("/:vehicle_id", manage, h.Update)
		vehicles.DELETE("/:vehicle_id", manage, h.Delete)
		vehicles.POST("/:vehicle_id/documents", manage, h.UploadDocument)
	}
}

func (h *VehicleHandler) Create(c *gin.Context) {
	var req vehicle.CreateVehicleRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Vehicle created successfully", resp)
}

func (h *VehicleHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "vehicle_id")
	if !ok {
		return
	}

	resp, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicle retrieved successfully", resp)
}

func (h *VehicleHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "vehicle_id")
	if !ok {
		return
	}

	var req vehicle.UpdateVehicleRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicle updated successfully", resp)
}

func (h *VehicleHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "vehicle_id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicle deleted successfully", nil)
}

func (h *VehicleHandler) List(c *gin.Context) {
	var req vehicle.VehicleFilterRequest
	if !bindQuery(c, &req) {
		return
	}

	resp, err := h.service.List(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicles retrieved successfully", resp)
}

func (h *VehicleHandler) ListAvailable(c *gin.Context) {
	resp, err := h.service.ListAvailable(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Available vehicles retrieved successfully", resp)
}

func (h *VehicleHandler) CheckCapacity(c *gin.Context) {
	id, err := uuid.Parse(c.Query("vehicle_id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "vehicle_id is required")
		return
	}
	weight, err := strconv.ParseFloat(c.Query("cargo_weight"), 64)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "cargo_weight must be a number")
		return
	}

	resp, err := h.service.CheckCapacity(c.Request.Context(), id, weight)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Capacity checked", resp)
}

func (h *VehicleHandler) UploadDocument(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "vehicle_id")
	if !ok {
		return
	}

	var req vehicle.UploadDocumentRequest
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

func (h *VehicleHandler) ListDocuments(c *gin.Context) {
	id, ok := parseID(c, "vehicle_id")
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
