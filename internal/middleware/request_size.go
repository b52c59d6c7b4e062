package middleware

import (
	"mime"
	"net/http"

	"fleet-campus-admin/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	DefaultMaxJSONSize = 1 << 20
	// DefaultMaxUploadSize leaves room for multipart framing around a 10 MiB document.
	DefaultMaxUploadSize = 11 << 20
)

// BodyLimits caps request bodies by kind. Multipart document uploads get
// their own, larger limit.
type BodyLimits struct {
	JSON   int64
	Upload int64
}

func (l BodyLimits) limitFor(r *http.Request) int64 {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if l.Upload > 0 {
			return l.Upload
		}
		return DefaultMaxUploadSize
	}
	if l.JSON > 0 {
		return l.JSON
	}
	return DefaultMaxJSONSize
}

func RequestSizeLimitMiddleware(limits BodyLimits) gin.HandlerFunc {
	return func(c *gin.Context) {
		maxSize := limits.limitFor(c.Request)
		if c.Request.ContentLength > maxSize {
			utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "Request body too large")
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}
