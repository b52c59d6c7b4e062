package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	appErrors "fleet-campus-admin/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	notFound := fmt.Errorf("vehicle %w", appErrors.ErrNotFound)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", nil), http.StatusBadRequest, appErrors.CodeValidation},
		{"weak password", appErrors.NewAppError("WEAK_PASSWORD", "weak", nil), http.StatusBadRequest, "WEAK_PASSWORD"},
		{"wrapped not found", notFound, http.StatusNotFound, appErrors.CodeNotFound},
		{"domain not found code", appErrors.NewAppError("JOB_NOT_FOUND", "no job", nil), http.StatusNotFound, "JOB_NOT_FOUND"},
		{"exists", appErrors.NewAppError("STUDENT_ID_EXISTS", "taken", nil), http.StatusConflict, "STUDENT_ID_EXISTS"},
		{"already", appErrors.NewAppError("ALREADY_RESTORED", "restored", nil), http.StatusConflict, "ALREADY_RESTORED"},
		{"transition", appErrors.NewAppError(appErrors.CodeInvalidTransition, "bad", nil), http.StatusConflict, appErrors.CodeInvalidTransition},
		{"unique", &appErrors.UniqueViolationError{Field: "email"}, http.StatusConflict, appErrors.CodeUniqueViolation},
		{"credentials", appErrors.ErrInvalidCredentials, http.StatusUnauthorized, appErrors.CodeUnauthorized},
		{"forbidden", appErrors.NewAppError(appErrors.CodeForbidden, "no", nil), http.StatusForbidden, appErrors.CodeForbidden},
		{"precondition", appErrors.NewAppError("DRIVER_SUSPENDED", "suspended", nil), http.StatusUnprocessableEntity, "DRIVER_SUSPENDED"},
		{"unknown", errors.New("pq: connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			HandleError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var resp Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Code)
		})
	}
}

func TestHandleError_HidesInternalText(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleError(c, errors.New("dial tcp 10.0.0.5:5432: refused"))

	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}

type enrolment struct {
	FirstName string `validate:"required,max=10"`
	Phone     string `validate:"phone"`
	Program   string `validate:"program"`
	Gender    string `validate:"gender"`
	Blood     string `validate:"omitempty,blood_group"`
	Role      string `validate:"omitempty,user_role"`
}

func TestValidateStruct(t *testing.T) {
	valid := enrolment{FirstName: "Asha", Phone: "+919876543210", Program: "MCA", Gender: "F", Blood: "O+", Role: "dispatcher"}
	assert.NoError(t, ValidateStruct(valid))

	err := ValidateStruct(enrolment{Phone: "12", Program: "MBA", Gender: "X", Blood: "C+", Role: "janitor"})
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "first_name is required")
	assert.Contains(t, msg, "phone must be a phone number of 9 to 15 digits")
	assert.Contains(t, msg, "program failed program validation")
	assert.Contains(t, msg, "blood failed blood_group validation")
	assert.Contains(t, msg, "role failed user_role validation")
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Dispatch#2025"))
	for _, weak := range []string{"Sh#1a", "lowercase#1", "UPPERCASE#1", "NoDigits#here", "NoSymbol123"} {
		assert.Error(t, ValidatePassword(weak), weak)
	}
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "Hello", SanitizeString("  <b>Hello</b>\x00 "))
	assert.Equal(t, "+919876543210", SanitizePhone(" +91 98765-43210 "))
	assert.Equal(t, "9876543210", SanitizePhone("98+76543210"))
	assert.Equal(t, "asha@example.com", SanitizeEmail("  Asha@Example.COM "))

	email, err := ValidateAndSanitizeEmail("Ops@Fleet.io")
	require.NoError(t, err)
	assert.Equal(t, "ops@fleet.io", email)
	_, err = ValidateAndSanitizeEmail("not-an-email")
	assert.Error(t, err)

	assert.Nil(t, StringPtr(""))
	assert.Nil(t, SanitizeOptional(nil))
}

func TestNormalizePage(t *testing.T) {
	page, size := NormalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPageSize, size)

	_, size = NormalizePage(3, 500)
	assert.Equal(t, MaxPageSize, size)

	assert.Equal(t, 2, TotalPages(150, 100))
	assert.Equal(t, 0, TotalPages(0, 20))
	assert.Equal(t, 0, TotalPages(10, 0))
}

func TestTokenPair(t *testing.T) {
	id := uuid.New()
	pair, err := GenerateTokenPair(id, "ops@example.com", "admin", "s3cret", 1, 2)
	require.NoError(t, err)

	claims, err := ValidateToken(pair.AccessToken, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "admin", claims.Role)

	_, err = ValidateToken(pair.RefreshToken, "s3cret")
	assert.Error(t, err)
	_, err = ValidateRefreshToken(pair.RefreshToken, "s3cret")
	assert.NoError(t, err)
	_, err = ValidateToken(pair.AccessToken, "other")
	assert.Error(t, err)
}

func TestHashToken(t *testing.T) {
	h := HashToken("refresh-abc")

	assert.Len(t, h, 64)
	assert.Equal(t, h, HashToken("refresh-abc"))
	assert.NotEqual(t, h, HashToken("refresh-abd"))
}
