package handler

import (
	"net/http"

	"fleet-campus-admin/internal/usecase/user"
	"fleet-campus-admin/pkg/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service *user.Service
}

func NewUserHandler(service *user.Service) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.RefreshToken)
	}
}

func (h *UserHandler) RegisterProfileRoutes(router *gin.RouterGroup) {
	router.POST("/revoke", h.RevokeToken)

	profile := router.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.POST("/change-password", h.ChangePassword)
	}
}

// RegisterAdminRoutes expects a group already gated on user management.
func (h *UserHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.PUT("/:user_id/role", h.SetRole)
		users.POST("/:user_id/deactivate", h.Deactivate)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	req.Email = utils.SanitizeEmail(req.Email)
	req.Username = utils.SanitizeString(req.Username)
	req.FullName = utils.SanitizeString(req.FullName)
	if req.PhoneNumber != nil {
		sanitized := utils.SanitizePhone(*req.PhoneNumber)
		req.PhoneNumber = &sanitized
	}

	authResponse, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "User registered successfully", authResponse)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	req.Email = utils.SanitizeEmail(req.Email)

	authResponse, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Login successful", authResponse)
}

func (h *UserHandler) RefreshToken(c *gin.Context) {
	var req user.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	authResponse, err := h.service.RefreshToken(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Token refreshed successfully", authResponse)
}

func (h *UserHandler) RevokeToken(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req user.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.RevokeToken(c.Request.Context(), userID, req.RefreshToken); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Token revoked successfully", nil)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile retrieved successfully", profile)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req user.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	req.FullName = utils.SanitizeOptional(req.FullName)
	if req.PhoneNumber != nil {
		sanitized := utils.SanitizePhone(*req.PhoneNumber)
		req.PhoneNumber = &sanitized
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile updated successfully", profile)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req user.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Password changed successfully", nil)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var req user.UserFilterRequest
	if !bindQuery(c, &req) {
		return
	}

	users, err := h.service.ListUsers(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Users retrieved successfully", users)
}

func (h *UserHandler) SetRole(c *gin.Context) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}
	userID, ok := parseID(c, "user_id")
	if !ok {
		return
	}

	var req user.SetRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.SetRole(c.Request.Context(), actorID, userID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Role updated successfully", resp)
}

func (h *UserHandler) Deactivate(c *gin.Context) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}
	userID, ok := parseID(c, "user_id")
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), actorID, userID); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User deactivated successfully", nil)
}
