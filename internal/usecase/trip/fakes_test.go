package trip

import (
	"context"
	"strings"
	"time"

	domainDriver "fleet-campus-admin/internal/domain/driver"
	domainTrip "fleet-campus-admin/internal/domain/trip"
	domainVehicle "fleet-campus-admin/internal/domain/vehicle"

	"github.com/google/uuid"
)

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeTripRepo struct {
	trips       map[uuid.UUID]domainTrip.Trip
	createErrs  []error
	createCalls int
}

func newFakeTripRepo() *fakeTripRepo {
	return &fakeTripRepo{trips: map[uuid.UUID]domainTrip.Trip{}}
}

func (r *fakeTripRepo) Create(_ context.Context, t *domainTrip.Trip) error {
	r.createCalls++
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return err
		}
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.trips[t.ID] = *t
	return nil
}

func (r *fakeTripRepo) GetByID(_ context.Context, id uuid.UUID) (*domainTrip.Trip, error) {
	t, ok := r.trips[id]
	if !ok {
		return nil, domainTrip.ErrTripNotFound
	}
	return &t, nil
}

func (r *fakeTripRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domainTrip.Trip, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeTripRepo) Update(_ context.Context, t *domainTrip.Trip) error {
	if _, ok := r.trips[t.ID]; !ok {
		return domainTrip.ErrTripNotFound
	}
	r.trips[t.ID] = *t
	return nil
}

func (r *fakeTripRepo) List(context.Context, *domainTrip.Filter) ([]*domainTrip.Trip, int64, error) {
	out := make([]*domainTrip.Trip, 0, len(r.trips))
	for id := range r.trips {
		t := r.trips[id]
		out = append(out, &t)
	}
	return out, int64(len(out)), nil
}

func (r *fakeTripRepo) LastNumberWithPrefix(_ context.Context, prefix string) (string, error) {
	last := ""
	for _, t := range r.trips {
		if strings.HasPrefix(t.TripNumber, prefix) && t.TripNumber > last {
			last = t.TripNumber
		}
	}
	return last, nil
}

func (r *fakeTripRepo) GetStatistics(context.Context) (*domainTrip.Statistics, error) {
	return &domainTrip.Statistics{}, nil
}

func (r *fakeTripRepo) GetDashboard(context.Context, time.Time) (*domainTrip.Dashboard, error) {
	return &domainTrip.Dashboard{}, nil
}

func (r *fakeTripRepo) AddExpense(context.Context, *domainTrip.Expense) error { return nil }

func (r *fakeTripRepo) ListExpenses(context.Context, uuid.UUID) ([]*domainTrip.Expense, error) {
	return nil, nil
}

func (r *fakeTripRepo) AddCheckpoint(context.Context, *domainTrip.Checkpoint) error { return nil }

func (r *fakeTripRepo) GetCheckpoint(context.Context, uuid.UUID) (*domainTrip.Checkpoint, error) {
	return nil, domainTrip.ErrCheckpointNotFound
}

func (r *fakeTripRepo) UpdateCheckpoint(context.Context, *domainTrip.Checkpoint) error { return nil }

func (r *fakeTripRepo) ListCheckpoints(context.Context, uuid.UUID) ([]*domainTrip.Checkpoint, error) {
	return nil, nil
}

func (r *fakeTripRepo) AddDocument(context.Context, *domainTrip.Document) error { return nil }

func (r *fakeTripRepo) ListDocuments(context.Context, uuid.UUID) ([]*domainTrip.Document, error) {
	return nil, nil
}

type fakeDriverRepo struct {
	drivers map[uuid.UUID]domainDriver.Driver
	perf    map[uuid.UUID]domainDriver.Performance
}

func newFakeDriverRepo() *fakeDriverRepo {
	return &fakeDriverRepo{
		drivers: map[uuid.UUID]domainDriver.Driver{},
		perf:    map[uuid.UUID]domainDriver.Performance{},
	}
}

func (r *fakeDriverRepo) Create(_ context.Context, d *domainDriver.Driver) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.drivers[d.ID] = *d
	r.perf[d.ID] = *domainDriver.NewPerformance(d.ID)
	return nil
}

func (r *fakeDriverRepo) GetByID(_ context.Context, id uuid.UUID) (*domainDriver.Driver, error) {
	d, ok := r.drivers[id]
	if !ok {
		return nil, domainDriver.ErrDriverNotFound
	}
	return &d, nil
}

func (r *fakeDriverRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domainDriver.Driver, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeDriverRepo) Update(_ context.Context, d *domainDriver.Driver) error {
	r.drivers[d.ID] = *d
	return nil
}

func (r *fakeDriverRepo) List(context.Context, *domainDriver.Filter) ([]*domainDriver.Driver, int64, error) {
	return nil, 0, nil
}

func (r *fakeDriverRepo) ListAvailable(context.Context, time.Time) ([]*domainDriver.Driver, error) {
	return nil, nil
}

func (r *fakeDriverRepo) GetDashboard(context.Context, time.Time) (*domainDriver.Dashboard, error) {
	return &domainDriver.Dashboard{}, nil
}

func (r *fakeDriverRepo) GetPerformance(_ context.Context, id uuid.UUID) (*domainDriver.Performance, error) {
	p, ok := r.perf[id]
	if !ok {
		return nil, domainDriver.ErrPerformanceNotFound
	}
	return &p, nil
}

func (r *fakeDriverRepo) UpdatePerformance(_ context.Context, p *domainDriver.Performance) error {
	r.perf[p.DriverID] = *p
	return nil
}

func (r *fakeDriverRepo) CreateDocument(context.Context, *domainDriver.Document) error { return nil }

func (r *fakeDriverRepo) ListDocuments(context.Context, uuid.UUID) ([]*domainDriver.Document, error) {
	return nil, nil
}

func (r *fakeDriverRepo) UpsertAttendance(context.Context, *domainDriver.Attendance) error {
	return nil
}

func (r *fakeDriverRepo) ListAttendance(context.Context, uuid.UUID, *time.Time, *time.Time) ([]*domainDriver.Attendance, error) {
	return nil, nil
}

type fakeVehicleRepo struct {
	vehicles map[uuid.UUID]domainVehicle.Vehicle
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{vehicles: map[uuid.UUID]domainVehicle.Vehicle{}}
}

func (r *fakeVehicleRepo) Create(_ context.Context, v *domainVehicle.Vehicle) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.vehicles[v.ID] = *v
	return nil
}

func (r *fakeVehicleRepo) GetByID(_ context.Context, id uuid.UUID) (*domainVehicle.Vehicle, error) {
	v, ok := r.vehicles[id]
	if !ok {
		return nil, domainVehicle.ErrVehicleNotFound
	}
	return &v, nil
}

func (r *fakeVehicleRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domainVehicle.Vehicle, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeVehicleRepo) Update(_ context.Context, v *domainVehicle.Vehicle) error {
	r.vehicles[v.ID] = *v
	return nil
}

func (r *fakeVehicleRepo) List(context.Context, *domainVehicle.Filter) ([]*domainVehicle.Vehicle, int64, error) {
	return nil, 0, nil
}

func (r *fakeVehicleRepo) ListAvailable(context.Context) ([]*domainVehicle.Vehicle, error) {
	return nil, nil
}

func (r *fakeVehicleRepo) CreateDocument(context.Context, *domainVehicle.Document) error { return nil }

func (r *fakeVehicleRepo) ListDocuments(context.Context, uuid.UUID) ([]*domainVehicle.Document, error) {
	return nil, nil
}
