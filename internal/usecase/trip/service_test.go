package trip

import (
	"context"
	"errors"
	"testing"
	"time"

	domainDriver "fleet-campus-admin/internal/domain/driver"
	"fleet-campus-admin/internal/domain/event"
	domainTrip "fleet-campus-admin/internal/domain/trip"
	domainVehicle "fleet-campus-admin/internal/domain/vehicle"
	infraCache "fleet-campus-admin/internal/infrastructure/cache"
	"fleet-campus-admin/internal/mocks"
	appErrors "fleet-campus-admin/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

type tripFixture struct {
	svc      *Service
	trips    *fakeTripRepo
	drivers  *fakeDriverRepo
	vehicles *fakeVehicleRepo
	events   []event.Event
	driver   *domainDriver.Driver
	vehicle  *domainVehicle.Vehicle
}

func newTripFixture(t *testing.T) *tripFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &tripFixture{
		trips:    newFakeTripRepo(),
		drivers:  newFakeDriverRepo(),
		vehicles: newFakeVehicleRepo(),
	}

	publisher := mocks.NewMockPublisher(ctrl)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e event.Event) error {
			f.events = append(f.events, e)
			return nil
		}).AnyTimes()

	f.svc = NewService(passthroughTx{}, f.trips, f.drivers, f.vehicles, publisher, infraCache.NoopStore{}, nil, time.Minute)
	f.svc.now = func() time.Time { return fixedNow }

	f.driver = &domainDriver.Driver{
		FirstName:     "Ravi",
		LastName:      "Patel",
		LicenseNumber: "GJ01-2020-000123",
		LicenseExpiry: time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:        domainDriver.StatusOnDuty,
		IsActive:      true,
	}
	require.NoError(t, f.drivers.Create(context.Background(), f.driver))

	f.vehicle = &domainVehicle.Vehicle{
		Name:         "Tata Ace",
		LicensePlate: "GJ01AB1234",
		Capacity:     1000,
		Odometer:     5000,
		Status:       domainVehicle.StatusAvailable,
		IsActive:     true,
	}
	require.NoError(t, f.vehicles.Create(context.Background(), f.vehicle))

	return f
}

func (f *tripFixture) createTrip(t *testing.T, cargo float64) *TripResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), uuid.New(), &CreateTripRequest{
		Origin:      "Ahmedabad",
		Destination: "Gandhinagar",
		DriverID:    f.driver.ID,
		VehicleID:   f.vehicle.ID,
		CargoWeight: cargo,
	})
	require.NoError(t, err)
	return resp
}

func TestCreate_NumbersTripsPerDay(t *testing.T) {
	f := newTripFixture(t)

	first := f.createTrip(t, 200)
	second := f.createTrip(t, 300)

	assert.Equal(t, "TR202603100001", first.TripNumber)
	assert.Equal(t, "TR202603100002", second.TripNumber)
	assert.Equal(t, string(domainTrip.StatusDraft), first.Status)
	assert.Equal(t, string(domainTrip.PriorityMedium), first.Priority)
}

func TestCreate_RetriesTakenNumber(t *testing.T) {
	f := newTripFixture(t)
	f.trips.createErrs = []error{&appErrors.UniqueViolationError{Field: "trip_number"}}

	resp := f.createTrip(t, 100)

	assert.Equal(t, 2, f.trips.createCalls)
	assert.Equal(t, "TR202603100001", resp.TripNumber)
}

func TestCreate_GivesUpAfterRepeatedConflicts(t *testing.T) {
	f := newTripFixture(t)
	conflict := &appErrors.UniqueViolationError{Field: "trip_number"}
	f.trips.createErrs = []error{conflict, conflict, conflict}

	_, err := f.svc.Create(context.Background(), uuid.New(), &CreateTripRequest{
		Origin:      "Ahmedabad",
		Destination: "Vadodara",
		DriverID:    f.driver.ID,
		VehicleID:   f.vehicle.ID,
	})

	require.Error(t, err)
	assert.Equal(t, "TRIP_NUMBER_CONFLICT", appErrors.CodeOf(err))
	assert.Equal(t, tripNumberAttempts, f.trips.createCalls)
}

func TestCreate_RejectsCargoOverCapacity(t *testing.T) {
	f := newTripFixture(t)

	_, err := f.svc.Create(context.Background(), uuid.New(), &CreateTripRequest{
		Origin:      "Ahmedabad",
		Destination: "Surat",
		DriverID:    f.driver.ID,
		VehicleID:   f.vehicle.ID,
		CargoWeight: 1000.5,
	})

	assert.Equal(t, CodeCargoExceedsCapacity, appErrors.CodeOf(err))
	assert.Empty(t, f.trips.trips)
}

func TestCreate_UnknownDriver(t *testing.T) {
	f := newTripFixture(t)

	_, err := f.svc.Create(context.Background(), uuid.New(), &CreateTripRequest{
		Origin:      "Ahmedabad",
		Destination: "Surat",
		DriverID:    uuid.New(),
		VehicleID:   f.vehicle.ID,
	})

	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestDispatch_Preconditions(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(f *tripFixture)
		code    string
	}{
		{
			name: "driver suspended",
			prepare: func(f *tripFixture) {
				f.driver.Status = domainDriver.StatusSuspended
				_ = f.drivers.Update(context.Background(), f.driver)
			},
			code: CodeDriverUnavailable,
		},
		{
			name: "license expires today",
			prepare: func(f *tripFixture) {
				f.driver.LicenseExpiry = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
				_ = f.drivers.Update(context.Background(), f.driver)
			},
			code: CodeDriverUnavailable,
		},
		{
			name: "vehicle in shop",
			prepare: func(f *tripFixture) {
				f.vehicle.Status = domainVehicle.StatusInShop
				_ = f.vehicles.Update(context.Background(), f.vehicle)
			},
			code: CodeVehicleUnavailable,
		},
		{
			name: "capacity lowered after creation",
			prepare: func(f *tripFixture) {
				f.vehicle.Capacity = 100
				_ = f.vehicles.Update(context.Background(), f.vehicle)
			},
			code: CodeCargoExceedsCapacity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTripFixture(t)
			created := f.createTrip(t, 500)
			tt.prepare(f)

			_, err := f.svc.Dispatch(context.Background(), created.ID, uuid.New())

			assert.Equal(t, tt.code, appErrors.CodeOf(err))
			assert.Equal(t, domainTrip.StatusDraft, f.trips.trips[created.ID].Status)
			assert.Empty(t, f.events)
		})
	}
}

func TestDispatch_ClaimsVehicle(t *testing.T) {
	f := newTripFixture(t)
	created := f.createTrip(t, 500)
	dispatcher := uuid.New()

	resp, err := f.svc.Dispatch(context.Background(), created.ID, dispatcher)

	require.NoError(t, err)
	assert.Equal(t, string(domainTrip.StatusDispatched), resp.Status)
	require.NotNil(t, resp.StartDate)
	assert.True(t, resp.StartDate.Equal(fixedNow))
	assert.Equal(t, domainVehicle.StatusOnTrip, f.vehicles.vehicles[f.vehicle.ID].Status)
	assert.Equal(t, &dispatcher, f.trips.trips[created.ID].DispatchedBy)

	require.Len(t, f.events, 1)
	assert.Equal(t, event.TripStatusChanged, f.events[0].Type)
	assert.Equal(t, "draft", f.events[0].Data["from"])
	assert.Equal(t, "dispatched", f.events[0].Data["to"])
}

func TestDispatch_OnlyDraft(t *testing.T) {
	f := newTripFixture(t)
	created := f.createTrip(t, 500)
	_, err := f.svc.Dispatch(context.Background(), created.ID, uuid.New())
	require.NoError(t, err)

	_, err = f.svc.Dispatch(context.Background(), created.ID, uuid.New())

	assert.Equal(t, CodeTripNotDraft, appErrors.CodeOf(err))
}

func TestComplete_AdvancesOdometerAndLedger(t *testing.T) {
	f := newTripFixture(t)
	created := f.createTrip(t, 500)
	ctx := context.Background()

	_, err := f.svc.Dispatch(ctx, created.ID, uuid.New())
	require.NoError(t, err)
	_, err = f.svc.Start(ctx, created.ID)
	require.NoError(t, err)

	distance := 42.5
	resp, err := f.svc.Complete(ctx, created.ID, &CompleteTripRequest{ActualDistance: &distance})
	require.NoError(t, err)

	assert.Equal(t, string(domainTrip.StatusCompleted), resp.Status)
	v := f.vehicles.vehicles[f.vehicle.ID]
	assert.Equal(t, domainVehicle.StatusAvailable, v.Status)
	assert.InDelta(t, 5042.5, v.Odometer, 1e-9)

	perf := f.drivers.perf[f.driver.ID]
	assert.Equal(t, 1, perf.TotalTrips)
	assert.Equal(t, 1, perf.CompletedTrips)
	assert.InDelta(t, 42.5, perf.TotalDistance, 1e-9)
	assert.Zero(t, perf.TotalFuelConsumed)
	assert.Len(t, f.events, 3)
}

func TestComplete_RequiresInProgress(t *testing.T) {
	f := newTripFixture(t)
	created := f.createTrip(t, 500)
	_, err := f.svc.Dispatch(context.Background(), created.ID, uuid.New())
	require.NoError(t, err)

	_, err = f.svc.Complete(context.Background(), created.ID, &CompleteTripRequest{})

	assert.Equal(t, appErrors.CodeInvalidTransition, appErrors.CodeOf(err))
	assert.Equal(t, domainVehicle.StatusOnTrip, f.vehicles.vehicles[f.vehicle.ID].Status)
}

func TestCancel_ReleasesDispatchedVehicle(t *testing.T) {
	f := newTripFixture(t)
	created := f.createTrip(t, 500)
	_, err := f.svc.Dispatch(context.Background(), created.ID, uuid.New())
	require.NoError(t, err)

	resp, err := f.svc.Cancel(context.Background(), created.ID, &CancelTripRequest{Reason: "customer withdrew"})
	require.NoError(t, err)

	assert.Equal(t, string(domainTrip.StatusCancelled), resp.Status)
	assert.Equal(t, "customer withdrew", resp.CancellationReason)
	assert.Equal(t, domainVehicle.StatusAvailable, f.vehicles.vehicles[f.vehicle.ID].Status)

	perf := f.drivers.perf[f.driver.ID]
	assert.Equal(t, 1, perf.TotalTrips)
	assert.Equal(t, 1, perf.CancelledTrips)
	assert.Zero(t, perf.CompletedTrips)
}

func TestCancel_DraftLeavesVehicleAlone(t *testing.T) {
	f := newTripFixture(t)
	created := f.createTrip(t, 500)

	// Another trip holds the vehicle.
	f.vehicle.Status = domainVehicle.StatusOnTrip
	require.NoError(t, f.vehicles.Update(context.Background(), f.vehicle))

	_, err := f.svc.Cancel(context.Background(), created.ID, &CancelTripRequest{Reason: "duplicate"})
	require.NoError(t, err)

	assert.Equal(t, domainVehicle.StatusOnTrip, f.vehicles.vehicles[f.vehicle.ID].Status)
}

func TestSetStatus_DelayedDraftCannotStart(t *testing.T) {
	f := newTripFixture(t)
	ctx := context.Background()
	created := f.createTrip(t, 500)

	// The vehicle belongs to another trip and the driver is suspended.
	f.vehicle.Status = domainVehicle.StatusOnTrip
	require.NoError(t, f.vehicles.Update(ctx, f.vehicle))
	f.driver.Status = domainDriver.StatusSuspended
	require.NoError(t, f.drivers.Update(ctx, f.driver))

	_, err := f.svc.SetStatus(ctx, created.ID, &SetStatusRequest{Status: "delayed"})
	require.NoError(t, err)

	_, err = f.svc.SetStatus(ctx, created.ID, &SetStatusRequest{Status: "in_progress"})
	assert.Equal(t, CodeTripNotDispatched, appErrors.CodeOf(err))
	assert.Equal(t, domainTrip.StatusDelayed, f.trips.trips[created.ID].Status)

	distance := 10.0
	_, err = f.svc.Complete(ctx, created.ID, &CompleteTripRequest{ActualDistance: &distance})
	assert.Equal(t, appErrors.CodeInvalidTransition, appErrors.CodeOf(err))

	v := f.vehicles.vehicles[f.vehicle.ID]
	assert.Equal(t, domainVehicle.StatusOnTrip, v.Status)
	assert.InDelta(t, 5000, v.Odometer, 1e-9)
}

func TestSetStatus_DelayedDispatchedTripResumes(t *testing.T) {
	f := newTripFixture(t)
	ctx := context.Background()
	created := f.createTrip(t, 500)
	_, err := f.svc.Dispatch(ctx, created.ID, uuid.New())
	require.NoError(t, err)

	_, err = f.svc.SetStatus(ctx, created.ID, &SetStatusRequest{Status: "delayed"})
	require.NoError(t, err)
	assert.Equal(t, domainVehicle.StatusOnTrip, f.vehicles.vehicles[f.vehicle.ID].Status)

	resp, err := f.svc.SetStatus(ctx, created.ID, &SetStatusRequest{Status: "in_progress"})
	require.NoError(t, err)
	assert.Equal(t, string(domainTrip.StatusInProgress), resp.Status)
	require.NotNil(t, f.trips.trips[created.ID].ActualStartTime)

	distance := 12.0
	_, err = f.svc.Complete(ctx, created.ID, &CompleteTripRequest{ActualDistance: &distance})
	require.NoError(t, err)
	v := f.vehicles.vehicles[f.vehicle.ID]
	assert.Equal(t, domainVehicle.StatusAvailable, v.Status)
	assert.InDelta(t, 5012, v.Odometer, 1e-9)
}

func TestSetStatus_CancelDelayedTrip(t *testing.T) {
	t.Run("dispatched trip releases its vehicle", func(t *testing.T) {
		f := newTripFixture(t)
		ctx := context.Background()
		created := f.createTrip(t, 500)
		_, err := f.svc.Dispatch(ctx, created.ID, uuid.New())
		require.NoError(t, err)
		_, err = f.svc.SetStatus(ctx, created.ID, &SetStatusRequest{Status: "delayed"})
		require.NoError(t, err)

		resp, err := f.svc.SetStatus(ctx, created.ID, &SetStatusRequest{Status: "cancelled"})
		require.NoError(t, err)

		assert.Equal(t, string(domainTrip.StatusCancelled), resp.Status)
		assert.Equal(t, "Cancelled while delayed", resp.CancellationReason)
		assert.Equal(t, domainVehicle.StatusAvailable, f.vehicles.vehicles[f.vehicle.ID].Status)
		assert.Equal(t, 1, f.drivers.perf[f.driver.ID].CancelledTrips)
	})

	t.Run("undispatched trip leaves the vehicle alone", func(t *testing.T) {
		f := newTripFixture(t)
		ctx := context.Background()
		created := f.createTrip(t, 500)
		f.vehicle.Status = domainVehicle.StatusOnTrip
		require.NoError(t, f.vehicles.Update(ctx, f.vehicle))
		_, err := f.svc.SetStatus(ctx, created.ID, &SetStatusRequest{Status: "delayed"})
		require.NoError(t, err)

		_, err = f.svc.SetStatus(ctx, created.ID, &SetStatusRequest{Status: "cancelled", Reason: "no slot"})
		require.NoError(t, err)

		assert.Equal(t, domainVehicle.StatusOnTrip, f.vehicles.vehicles[f.vehicle.ID].Status)
	})
}

func TestValidateStatusTransition(t *testing.T) {
	assert.NoError(t, ValidateStatusTransition(domainTrip.StatusDraft, domainTrip.StatusDispatched))
	assert.NoError(t, ValidateStatusTransition(domainTrip.StatusDispatched, domainTrip.StatusCancelled))
	assert.Error(t, ValidateStatusTransition(domainTrip.StatusInProgress, domainTrip.StatusCancelled))
	assert.Error(t, ValidateStatusTransition(domainTrip.StatusCompleted, domainTrip.StatusDraft))
	assert.Error(t, ValidateStatusTransition(domainTrip.StatusDraft, domainTrip.StatusDelayed))

	assert.NoError(t, ValidateAdminTransition(domainTrip.StatusInProgress, domainTrip.StatusDelayed))
	assert.NoError(t, ValidateAdminTransition(domainTrip.StatusDelayed, domainTrip.StatusInProgress))
	assert.Error(t, ValidateAdminTransition(domainTrip.StatusCompleted, domainTrip.StatusDelayed))
}
