package handler

import (
	"net/http"
	"strconv"

	"fleet-campus-admin/internal/domain/blob"
	"fleet-campus-admin/internal/domain/user"
	"fleet-campus-admin/internal/middleware"
	"fleet-campus-admin/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadSize = 10 << 20

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid "+param)
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return false
	}
	return true
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return uuid.Nil, false
	}
	return id, true
}

func currentRole(c *gin.Context) user.Role {
	role, _ := middleware.CurrentRole(c)
	return role
}

func queryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}

// formFile opens the multipart "file" field. The caller closes the returned func.
func formFile(c *gin.Context) (*blob.Upload, func(), bool) {
	header, err := c.FormFile("file")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "file is required")
		return nil, nil, false
	}
	if header.Size > maxUploadSize {
		utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "file too large")
		return nil, nil, false
	}

	f, err := header.Open()
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "unable to read file")
		return nil, nil, false
	}

	upload := &blob.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        f,
	}
	return upload, func() { _ = f.Close() }, true
}
