package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fleet-campus-admin/internal/domain/user"
	"fleet-campus-admin/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func tokensFor(t *testing.T, id uuid.UUID, role user.Role) *utils.TokenPair {
	t.Helper()
	pair, err := utils.GenerateTokenPair(id, "someone@example.com", string(role), secret, 1, 24)
	require.NoError(t, err)
	return pair
}

func protectedRouter(p user.Permission) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/protected", AuthMiddleware(secret), RequirePermission(p), func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		role, _ := CurrentRole(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id.String(), "role": string(role)})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	id := uuid.New()
	pair := tokensFor(t, id, user.RoleFleetManager)
	guest := tokensFor(t, id, user.Role("guest"))

	tests := []struct {
		name    string
		header  string
		upgrade bool
		query   string
		want    int
	}{
		{name: "missing header", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Token " + pair.AccessToken, want: http.StatusUnauthorized},
		{name: "refresh token", header: "Bearer " + pair.RefreshToken, want: http.StatusUnauthorized},
		{name: "unknown role", header: "Bearer " + guest.AccessToken, want: http.StatusUnauthorized},
		{name: "valid bearer", header: "Bearer " + pair.AccessToken, want: http.StatusOK},
		{name: "query token without upgrade", query: pair.AccessToken, want: http.StatusUnauthorized},
		{name: "query token on websocket", upgrade: true, query: pair.AccessToken, want: http.StatusOK},
	}

	r := protectedRouter(user.PermViewFleet)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/protected"
			if tt.query != "" {
				target += "?access_token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.upgrade {
				req.Header.Set("Upgrade", "websocket")
			}
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestAuthMiddleware_SetsIdentity(t *testing.T) {
	id := uuid.New()
	pair := tokensFor(t, id, user.RoleDispatcher)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()

	protectedRouter(user.PermManageTrips).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, id.String(), body["user_id"])
	assert.Equal(t, "dispatcher", body["role"])
}

func TestRequirePermission_Forbidden(t *testing.T) {
	pair := tokensFor(t, uuid.New(), user.RoleDispatcher)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()

	protectedRouter(user.PermManageStudents).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequirePermission_WithoutAuth(t *testing.T) {
	r := gin.New()
	r.GET("/admin", AdminOnly(), func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()

	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2)
	r := gin.New()
	r.Use(RateLimitMiddleware(limiter))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.7:5123"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Another client has its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.8:5123"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_Sweep(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	require.True(t, limiter.Allow("10.0.0.1"))
	require.True(t, limiter.Allow("10.0.0.2"))

	assert.Zero(t, limiter.Sweep(time.Now()))
	assert.Equal(t, 2, limiter.Sweep(time.Now().Add(time.Minute)))
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/id", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(RequestIDHeader, "trace-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "trace-42", w.Body.String())
	assert.Equal(t, "trace-42", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/id", nil))
	_, err := uuid.Parse(w.Body.String())
	assert.NoError(t, err)
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestSizeLimitMiddleware(BodyLimits{JSON: 16, Upload: 64}))
	r.POST("/body", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	tests := []struct {
		name        string
		contentType string
		size        int
		want        int
	}{
		{"small json", "application/json", 16, http.StatusNoContent},
		{"large json", "application/json", 17, http.StatusRequestEntityTooLarge},
		{"upload within its own limit", "multipart/form-data; boundary=x", 64, http.StatusNoContent},
		{"upload over limit", "multipart/form-data; boundary=x", 65, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/body", strings.NewReader(strings.Repeat("a", tt.size)))
			req.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}
