package driver

import (
	"context"
	"testing"
	"time"

	domainDriver "fleet-campus-admin/internal/domain/driver"
	appErrors "fleet-campus-admin/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDriverRepository struct {
	mock.Mock
	domainDriver.Repository
}

func (m *MockDriverRepository) Create(ctx context.Context, d *domainDriver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id uuid.UUID) (*domainDriver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainDriver.Driver), args.Error(1)
}

func (m *MockDriverRepository) Update(ctx context.Context, d *domainDriver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) UpsertAttendance(ctx context.Context, a *domainDriver.Attendance) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

var rosterNow = time.Date(2025, 3, 14, 7, 30, 0, 0, time.UTC)

func newDriverService() (*Service, *MockDriverRepository) {
	repo := new(MockDriverRepository)
	svc := NewService(repo, nil)
	svc.now = func() time.Time { return rosterNow }
	return svc, repo
}

func hireRequest() *CreateDriverRequest {
	return &CreateDriverRequest{
		FirstName:     " Ravi ",
		LastName:      "Kumar",
		Email:         "Ravi.Kumar@Fleet.example",
		Phone:         "+91 98250 12345",
		HireDate:      time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		LicenseNumber: "GJ0120240001",
		LicenseType:   "HMV",
		LicenseExpiry: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreate(t *testing.T) {
	t.Run("defaults to off duty and normalizes input", func(t *testing.T) {
		svc, repo := newDriverService()
		repo.On("Create", mock.Anything, mock.MatchedBy(func(d *domainDriver.Driver) bool {
			return d.Status == domainDriver.StatusOffDuty && d.Email == "ravi.kumar@fleet.example" && d.Phone == "+919825012345"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domainDriver.Driver).ID = uuid.New()
		}).Return(nil)

		resp, err := svc.Create(context.Background(), hireRequest())
		require.NoError(t, err)

		assert.Equal(t, "Ravi", resp.FirstName)
		assert.Equal(t, "Ravi Kumar", resp.FullName)
		assert.True(t, resp.LicenseExpiresSoon)
		assert.False(t, resp.LicenseExpired)
		repo.AssertExpectations(t)
	})

	t.Run("license expiring before hire", func(t *testing.T) {
		svc, repo := newDriverService()
		req := hireRequest()
		req.LicenseExpiry = req.HireDate.AddDate(0, 0, -1)

		_, err := svc.Create(context.Background(), req)

		assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate license number", func(t *testing.T) {
		svc, repo := newDriverService()
		repo.On("Create", mock.Anything, mock.Anything).
			Return(&appErrors.UniqueViolationError{Field: "license_number"})

		_, err := svc.Create(context.Background(), hireRequest())

		assert.Equal(t, "LICENSE_NUMBER_EXISTS", appErrors.CodeOf(err))
	})
}

func TestUpdateStatus(t *testing.T) {
	svc, repo := newDriverService()
	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&domainDriver.Driver{
		ID: id, Status: domainDriver.StatusOffDuty, IsActive: true, LicenseExpiry: rosterNow.AddDate(1, 0, 0),
	}, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.UpdateStatus(context.Background(), id, &UpdateStatusRequest{Status: "on_duty"})
	require.NoError(t, err)

	assert.Equal(t, "on_duty", resp.Status)
	repo.AssertCalled(t, "Update", mock.Anything, mock.MatchedBy(func(d *domainDriver.Driver) bool {
		return d.Status == domainDriver.StatusOnDuty
	}))
}

func TestUpdateStatus_InactiveDriver(t *testing.T) {
	svc, repo := newDriverService()
	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&domainDriver.Driver{ID: id, IsActive: false}, nil)

	_, err := svc.UpdateStatus(context.Background(), id, &UpdateStatusRequest{Status: "on_duty"})

	assert.Equal(t, "DRIVER_INACTIVE", appErrors.CodeOf(err))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDelete_TakesDriverOffDuty(t *testing.T) {
	svc, repo := newDriverService()
	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&domainDriver.Driver{ID: id, Status: domainDriver.StatusOnDuty, IsActive: true}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(d *domainDriver.Driver) bool {
		return !d.IsActive && d.Status == domainDriver.StatusOffDuty
	})).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), id))
	repo.AssertExpectations(t)
}

func TestRecordAttendance(t *testing.T) {
	svc, repo := newDriverService()
	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&domainDriver.Driver{ID: id, IsActive: true}, nil)
	repo.On("UpsertAttendance", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.RecordAttendance(context.Background(), id, &AttendanceRequest{
		Date:     time.Date(2025, 3, 13, 18, 0, 0, 0, time.UTC),
		CheckIn:  "22:00",
		CheckOut: "06:30",
		Status:   "present",
	})
	require.NoError(t, err)

	assert.Equal(t, "2025-03-13", resp.Date)
	assert.Equal(t, "22:00", resp.CheckIn)
	assert.InDelta(t, 8.5, resp.HoursWorked, 1e-9)
}

func TestRecordAttendance_UnknownDriver(t *testing.T) {
	svc, repo := newDriverService()
	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, domainDriver.ErrDriverNotFound)

	_, err := svc.RecordAttendance(context.Background(), id, &AttendanceRequest{Date: rosterNow, Status: "absent"})

	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	repo.AssertNotCalled(t, "UpsertAttendance", mock.Anything, mock.Anything)
}
