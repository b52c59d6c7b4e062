package utils

import (
	"errors"
	"net/http"
	"strings"

	appErrors "fleet-campus-admin/pkg/errors"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

type PaginatedData struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

func SuccessResponse(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Success: false,
		Error:   message,
	})
}

// HandleError writes err with the status matching its kind. Unknown errors
// are reported as 500 without leaking their text.
func HandleError(c *gin.Context, err error) {
	status, code, message := classify(err)
	_ = c.Error(err)
	c.JSON(status, Response{
		Success: false,
		Error:   message,
		Code:    code,
	})
}

func classify(err error) (int, string, string) {
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		return statusForCode(appErr.Code), appErr.Code, appErr.Error()
	}

	var uv *appErrors.UniqueViolationError
	switch {
	case errors.As(err, &uv):
		return http.StatusConflict, appErrors.CodeUniqueViolation, uv.Error()
	case errors.Is(err, appErrors.ErrNotFound):
		return http.StatusNotFound, appErrors.CodeNotFound, err.Error()
	case errors.Is(err, appErrors.ErrInvalidCredentials),
		errors.Is(err, appErrors.ErrInvalidToken),
		errors.Is(err, appErrors.ErrUserInactive):
		return http.StatusUnauthorized, appErrors.CodeUnauthorized, err.Error()
	case errors.Is(err, appErrors.ErrInsufficientPermissions):
		return http.StatusForbidden, appErrors.CodeForbidden, err.Error()
	case errors.Is(err, appErrors.ErrUserAlreadyExists):
		return http.StatusConflict, appErrors.CodeUniqueViolation, err.Error()
	}

	return http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
}

func statusForCode(code string) int {
	switch {
	case code == appErrors.CodeValidation, code == "WEAK_PASSWORD":
		return http.StatusBadRequest
	case code == appErrors.CodeUnauthorized, code == "INVALID_TOKEN":
		return http.StatusUnauthorized
	case code == appErrors.CodeForbidden:
		return http.StatusForbidden
	case code == appErrors.CodeNotFound, strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	case code == appErrors.CodeUniqueViolation, code == appErrors.CodeInvalidTransition,
		strings.HasSuffix(code, "_EXISTS"), strings.HasPrefix(code, "ALREADY_"):
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}
