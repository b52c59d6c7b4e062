package maintenance

import (
	"context"
	"testing"
	"time"

	"fleet-campus-admin/internal/domain/event"
	domainMaintenance "fleet-campus-admin/internal/domain/maintenance"
	domainVehicle "fleet-campus-admin/internal/domain/vehicle"
	"fleet-campus-admin/internal/mocks"
	appErrors "fleet-campus-admin/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memoryMaintenanceRepo struct {
	domainMaintenance.Repository

	schedules map[uuid.UUID]domainMaintenance.Schedule
	reminders []*domainMaintenance.Reminder
}

func (r *memoryMaintenanceRepo) Create(_ context.Context, m *domainMaintenance.Schedule) error {
	m.ID = uuid.New()
	r.schedules[m.ID] = *m
	return nil
}

func (r *memoryMaintenanceRepo) GetByID(_ context.Context, id uuid.UUID) (*domainMaintenance.Schedule, error) {
	m, ok := r.schedules[id]
	if !ok {
		return nil, domainMaintenance.ErrScheduleNotFound
	}
	return &m, nil
}

func (r *memoryMaintenanceRepo) Update(_ context.Context, m *domainMaintenance.Schedule) error {
	r.schedules[m.ID] = *m
	return nil
}

func (r *memoryMaintenanceRepo) ListReminders(_ context.Context, activeOnly bool) ([]*domainMaintenance.Reminder, error) {
	var out []*domainMaintenance.Reminder
	for _, rem := range r.reminders {
		if activeOnly && !rem.IsActive {
			continue
		}
		copied := *rem
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memoryMaintenanceRepo) MarkReminderSent(_ context.Context, id uuid.UUID, at time.Time) error {
	for _, rem := range r.reminders {
		if rem.ID == id {
			rem.IsSent = true
			rem.SentAt = &at
			return nil
		}
	}
	return domainMaintenance.ErrReminderNotFound
}

type memoryVehicleRepo struct {
	domainVehicle.Repository
	vehicles map[uuid.UUID]domainVehicle.Vehicle
}

func (r *memoryVehicleRepo) GetByID(_ context.Context, id uuid.UUID) (*domainVehicle.Vehicle, error) {
	v, ok := r.vehicles[id]
	if !ok {
		return nil, domainVehicle.ErrVehicleNotFound
	}
	return &v, nil
}

func (r *memoryVehicleRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domainVehicle.Vehicle, error) {
	return r.GetByID(ctx, id)
}

func (r *memoryVehicleRepo) Update(_ context.Context, v *domainVehicle.Vehicle) error {
	r.vehicles[v.ID] = *v
	return nil
}

var workshopNow = time.Date(2025, 1, 1, 15, 0, 0, 0, time.UTC)

type maintenanceFixture struct {
	svc       *Service
	repo      *memoryMaintenanceRepo
	vehicles  *memoryVehicleRepo
	publisher *mocks.MockPublisher
	vehicleID uuid.UUID
}

func newMaintenanceFixture(t *testing.T) *maintenanceFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	vehicleID := uuid.New()
	f := &maintenanceFixture{
		repo: &memoryMaintenanceRepo{schedules: map[uuid.UUID]domainMaintenance.Schedule{}},
		vehicles: &memoryVehicleRepo{vehicles: map[uuid.UUID]domainVehicle.Vehicle{
			vehicleID: {ID: vehicleID, Name: "Eicher Pro", Odometer: 14800, Status: domainVehicle.StatusAvailable, IsActive: true},
		}},
		publisher: mocks.NewMockPublisher(ctrl),
		vehicleID: vehicleID,
	}
	f.svc = NewService(passthroughTx{}, f.repo, f.vehicles, f.publisher)
	f.svc.now = func() time.Time { return workshopNow }
	return f
}

func (f *maintenanceFixture) schedule(t *testing.T) *ScheduleResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), uuid.New(), &CreateScheduleRequest{
		VehicleID:       f.vehicleID,
		MaintenanceType: "oil_change",
		Title:           "Engine oil and filter",
		ScheduledDate:   workshopNow.AddDate(0, 0, 2),
	})
	require.NoError(t, err)
	return resp
}

func TestStartAndComplete_MoveVehicleThroughShop(t *testing.T) {
	f := newMaintenanceFixture(t)
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	ctx := context.Background()
	job := f.schedule(t)
	assert.Equal(t, string(domainMaintenance.PriorityMedium), job.Priority)

	started, err := f.svc.Start(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domainMaintenance.StatusInProgress), started.Status)
	assert.Equal(t, domainVehicle.StatusInShop, f.vehicles.vehicles[f.vehicleID].Status)

	cost := 2450.0
	done, err := f.svc.Complete(ctx, job.ID, uuid.New(), &CompleteRequest{ActualCost: &cost, CompletionNotes: "done"})
	require.NoError(t, err)
	assert.Equal(t, string(domainMaintenance.StatusCompleted), done.Status)

	v := f.vehicles.vehicles[f.vehicleID]
	assert.Equal(t, domainVehicle.StatusAvailable, v.Status)
	require.NotNil(t, v.NextServiceDue)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), *v.NextServiceDue)
}

func TestStart_RefusesVehicleOnTrip(t *testing.T) {
	f := newMaintenanceFixture(t)
	job := f.schedule(t)
	v := f.vehicles.vehicles[f.vehicleID]
	v.Status = domainVehicle.StatusOnTrip
	f.vehicles.vehicles[f.vehicleID] = v

	_, err := f.svc.Start(context.Background(), job.ID)

	assert.Equal(t, "VEHICLE_ON_TRIP", appErrors.CodeOf(err))
	assert.Equal(t, domainMaintenance.StatusScheduled, f.repo.schedules[job.ID].Status)
}

func TestStart_RefusesRetiredVehicle(t *testing.T) {
	tests := []struct {
		name   string
		retire func(v *domainVehicle.Vehicle)
	}{
		{"retired", func(v *domainVehicle.Vehicle) { v.Status = domainVehicle.StatusRetired; v.IsActive = false }},
		{"deactivated", func(v *domainVehicle.Vehicle) { v.IsActive = false }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newMaintenanceFixture(t)
			job := f.schedule(t)
			v := f.vehicles.vehicles[f.vehicleID]
			tt.retire(&v)
			f.vehicles.vehicles[f.vehicleID] = v

			_, err := f.svc.Start(context.Background(), job.ID)

			assert.Equal(t, "VEHICLE_INACTIVE", appErrors.CodeOf(err))
			assert.Equal(t, v.Status, f.vehicles.vehicles[f.vehicleID].Status)
			assert.Equal(t, domainMaintenance.StatusScheduled, f.repo.schedules[job.ID].Status)
		})
	}
}

func TestComplete_KeepsRetiredVehicleRetired(t *testing.T) {
	f := newMaintenanceFixture(t)
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	ctx := context.Background()
	job := f.schedule(t)
	_, err := f.svc.Start(ctx, job.ID)
	require.NoError(t, err)

	// Retired while in the shop.
	v := f.vehicles.vehicles[f.vehicleID]
	v.Status = domainVehicle.StatusRetired
	v.IsActive = false
	f.vehicles.vehicles[f.vehicleID] = v

	_, err = f.svc.Complete(ctx, job.ID, uuid.New(), &CompleteRequest{})
	require.NoError(t, err)

	assert.Equal(t, domainVehicle.StatusRetired, f.vehicles.vehicles[f.vehicleID].Status)
}

func TestCancel_ReleasesVehicleOnlyWhenInProgress(t *testing.T) {
	f := newMaintenanceFixture(t)
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	ctx := context.Background()

	scheduled := f.schedule(t)
	v := f.vehicles.vehicles[f.vehicleID]
	v.Status = domainVehicle.StatusInShop
	f.vehicles.vehicles[f.vehicleID] = v

	_, err := f.svc.Cancel(ctx, scheduled.ID)
	require.NoError(t, err)
	assert.Equal(t, domainVehicle.StatusInShop, f.vehicles.vehicles[f.vehicleID].Status)

	v.Status = domainVehicle.StatusAvailable
	f.vehicles.vehicles[f.vehicleID] = v
	running := f.schedule(t)
	_, err = f.svc.Start(ctx, running.ID)
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, running.ID)
	require.NoError(t, err)
	assert.Equal(t, domainVehicle.StatusAvailable, f.vehicles.vehicles[f.vehicleID].Status)
}

func TestComplete_RequiresInProgress(t *testing.T) {
	f := newMaintenanceFixture(t)
	job := f.schedule(t)

	_, err := f.svc.Complete(context.Background(), job.ID, uuid.New(), &CompleteRequest{})

	assert.Equal(t, appErrors.CodeInvalidTransition, appErrors.CodeOf(err))
}

func TestScanReminders_FiresDueRemindersOnce(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()

	odometerDue := 14500.0
	odometerLater := 20000.0
	yesterday := workshopNow.AddDate(0, 0, -1)
	nextMonth := workshopNow.AddDate(0, 1, 0)

	due := []*domainMaintenance.Reminder{
		{ID: uuid.New(), VehicleID: f.vehicleID, Title: "Tyre rotation", TriggerOdometer: &odometerDue, IsActive: true},
		{ID: uuid.New(), VehicleID: f.vehicleID, Title: "Insurance renewal", TriggerDate: &yesterday, IsActive: true},
	}
	f.repo.reminders = append(due,
		&domainMaintenance.Reminder{ID: uuid.New(), VehicleID: f.vehicleID, Title: "Brake check", TriggerOdometer: &odometerLater, TriggerDate: &nextMonth, IsActive: true},
		&domainMaintenance.Reminder{ID: uuid.New(), VehicleID: f.vehicleID, Title: "Paused", TriggerDate: &yesterday},
		&domainMaintenance.Reminder{ID: uuid.New(), VehicleID: uuid.New(), Title: "Unknown vehicle", TriggerDate: &yesterday, IsActive: true},
	)

	var published []event.Event
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e event.Event) error {
			published = append(published, e)
			return nil
		}).Times(2)

	fired, err := f.svc.ScanReminders(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, fired)
	for _, e := range published {
		assert.Equal(t, event.MaintenanceReminderDue, e.Type)
	}
	for _, r := range due {
		assert.True(t, r.IsSent)
	}

	fired, err = f.svc.ScanReminders(ctx)
	require.NoError(t, err)
	assert.Zero(t, fired)
}

func TestCreateReminder_NeedsTrigger(t *testing.T) {
	f := newMaintenanceFixture(t)

	_, err := f.svc.CreateReminder(context.Background(), &CreateReminderRequest{
		VehicleID: f.vehicleID,
		Title:     "Check coolant",
	})

	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))
}
