package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	domainUser "fleet-campus-admin/internal/domain/user"
	domainVehicle "fleet-campus-admin/internal/domain/vehicle"
	"fleet-campus-admin/internal/middleware"
	"fleet-campus-admin/internal/usecase/vehicle"
	appErrors "fleet-campus-admin/pkg/errors"
	"fleet-campus-admin/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerSecret = "handler-test-secret"

type stubVehicleRepo struct {
	domainVehicle.Repository
	vehicles map[uuid.UUID]domainVehicle.Vehicle
}

func (r *stubVehicleRepo) Create(_ context.Context, v *domainVehicle.Vehicle) error {
	for _, other := range r.vehicles {
		if other.LicensePlate == v.LicensePlate {
			return &appErrors.UniqueViolationError{Field: "license_plate"}
		}
	}
	v.ID = uuid.New()
	r.vehicles[v.ID] = *v
	return nil
}

func (r *stubVehicleRepo) GetByID(_ context.Context, id uuid.UUID) (*domainVehicle.Vehicle, error) {
	v, ok := r.vehicles[id]
	if !ok {
		return nil, domainVehicle.ErrVehicleNotFound
	}
	return &v, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func newVehicleRouter(t *testing.T) (*gin.Engine, *stubVehicleRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &stubVehicleRepo{vehicles: map[uuid.UUID]domainVehicle.Vehicle{}}
	h := NewVehicleHandler(vehicle.NewService(repo, nil))

	r := gin.New()
	api := r.Group("/api/v1", middleware.AuthMiddleware(handlerSecret))
	h.RegisterRoutes(api)
	return r, repo
}

func do(t *testing.T, r http.Handler, role domainUser.Role, method, target string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	pair, err := utils.GenerateTokenPair(uuid.New(), "ops@example.com", string(role), handlerSecret, 1, 24)
	require.NoError(t, err)

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func truckRequest() map[string]interface{} {
	return map[string]interface{}{
		"name":          "Tata Ultra",
		"make":          "Tata",
		"model":         "Ultra 1918",
		"year":          2022,
		"license_plate": "gj01 ab 1234",
		"vehicle_type":  "truck",
		"fuel_type":     "diesel",
		"capacity":      9000,
		"odometer":      1200,
	}
}

func TestVehicleHandler_Create(t *testing.T) {
	r, repo := newVehicleRouter(t)

	w, env := do(t, r, domainUser.RoleFleetManager, http.MethodPost, "/api/v1/vehicles", truckRequest())
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)

	var created vehicle.VehicleResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "GJ01 AB 1234", created.LicensePlate)
	assert.Len(t, repo.vehicles, 1)

	w, env = do(t, r, domainUser.RoleFleetManager, http.MethodPost, "/api/v1/vehicles", truckRequest())
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "LICENSE_PLATE_EXISTS", env.Code)
}

func TestVehicleHandler_CreateRejections(t *testing.T) {
	r, _ := newVehicleRouter(t)

	w, _ := do(t, r, domainUser.RoleDispatcher, http.MethodPost, "/api/v1/vehicles", truckRequest())
	assert.Equal(t, http.StatusForbidden, w.Code)

	bad := truckRequest()
	bad["fuel_type"] = "coal"
	w, env := do(t, r, domainUser.RoleFleetManager, http.MethodPost, "/api/v1/vehicles", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, appErrors.CodeValidation, env.Code)
}

func TestVehicleHandler_Get(t *testing.T) {
	r, repo := newVehicleRouter(t)
	id := uuid.New()
	repo.vehicles[id] = domainVehicle.Vehicle{ID: id, Name: "Ashok Leyland", Capacity: 5000, Status: domainVehicle.StatusAvailable, IsActive: true}

	w, _ := do(t, r, domainUser.RoleSafetyOfficer, http.MethodGet, "/api/v1/vehicles/"+id.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := do(t, r, domainUser.RoleSafetyOfficer, http.MethodGet, "/api/v1/vehicles/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)

	w, _ = do(t, r, domainUser.RoleSafetyOfficer, http.MethodGet, "/api/v1/vehicles/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVehicleHandler_CheckCapacity(t *testing.T) {
	r, repo := newVehicleRouter(t)
	id := uuid.New()
	repo.vehicles[id] = domainVehicle.Vehicle{ID: id, Capacity: 1000, Status: domainVehicle.StatusAvailable, IsActive: true}

	tests := []struct {
		name     string
		query    string
		status   int
		canCarry bool
	}{
		{name: "fits", query: "?vehicle_id=" + id.String() + "&cargo_weight=1000", status: http.StatusOK, canCarry: true},
		{name: "too heavy", query: "?vehicle_id=" + id.String() + "&cargo_weight=1000.5", status: http.StatusOK},
		{name: "negative", query: "?vehicle_id=" + id.String() + "&cargo_weight=-1", status: http.StatusBadRequest},
		{name: "missing weight", query: "?vehicle_id=" + id.String(), status: http.StatusBadRequest},
		{name: "missing vehicle", query: "?cargo_weight=10", status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := do(t, r, domainUser.RoleDispatcher, http.MethodGet, "/api/v1/vehicles/capacity-check"+tt.query, nil)
			require.Equal(t, tt.status, w.Code)
			if tt.status != http.StatusOK {
				return
			}
			var resp vehicle.CapacityCheckResponse
			require.NoError(t, json.Unmarshal(env.Data, &resp))
			assert.Equal(t, tt.canCarry, resp.CanCarry)
			assert.Equal(t, 1000.0, resp.VehicleCapacity)
		})
	}
}
