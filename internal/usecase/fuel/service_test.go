package fuel

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	domainCache "fleet-campus-admin/internal/domain/cache"
	domainFuel "fleet-campus-admin/internal/domain/fuel"
	domainVehicle "fleet-campus-admin/internal/domain/vehicle"
	appErrors "fleet-campus-admin/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memoryFuelRepo struct {
	domainFuel.Repository

	logs       map[uuid.UUID]domainFuel.Log
	budgets    map[uuid.UUID]domainFuel.Budget
	statsCalls int
}

func newMemoryFuelRepo() *memoryFuelRepo {
	return &memoryFuelRepo{
		logs:    map[uuid.UUID]domainFuel.Log{},
		budgets: map[uuid.UUID]domainFuel.Budget{},
	}
}

func (r *memoryFuelRepo) CreateLog(_ context.Context, l *domainFuel.Log) error {
	l.ID = uuid.New()
	r.logs[l.ID] = *l
	return nil
}

func (r *memoryFuelRepo) PreviousLog(_ context.Context, vehicleID uuid.UUID, before time.Time, excludeID uuid.UUID) (*domainFuel.Log, error) {
	var prev *domainFuel.Log
	for id := range r.logs {
		l := r.logs[id]
		if l.VehicleID != vehicleID || l.ID == excludeID || !l.FuelDate.Before(before) {
			continue
		}
		if prev == nil || l.FuelDate.After(prev.FuelDate) {
			prev = &l
		}
	}
	return prev, nil
}

func (r *memoryFuelRepo) SumCost(_ context.Context, scope domainFuel.Scope, from, to time.Time) (float64, error) {
	total := 0.0
	for _, l := range r.logs {
		if scope.VehicleID != nil && l.VehicleID != *scope.VehicleID {
			continue
		}
		if l.FuelDate.Before(from) || l.FuelDate.After(to.Add(24*time.Hour-time.Nanosecond)) {
			continue
		}
		total += l.TotalCost
	}
	return total, nil
}

func (r *memoryFuelRepo) GetStats(context.Context, time.Time) (*domainFuel.Stats, error) {
	r.statsCalls++
	return &domainFuel.Stats{TotalLogs: int64(len(r.logs))}, nil
}

func (r *memoryFuelRepo) CreateBudget(_ context.Context, b *domainFuel.Budget) error {
	b.ID = uuid.New()
	r.budgets[b.ID] = *b
	return nil
}

func (r *memoryFuelRepo) GetBudget(_ context.Context, id uuid.UUID) (*domainFuel.Budget, error) {
	b, ok := r.budgets[id]
	if !ok {
		return nil, domainFuel.ErrBudgetNotFound
	}
	return &b, nil
}

func (r *memoryFuelRepo) UpdateBudget(_ context.Context, b *domainFuel.Budget) error {
	r.budgets[b.ID] = *b
	return nil
}

func (r *memoryFuelRepo) ListBudgets(_ context.Context, activeOnly bool) ([]*domainFuel.Budget, error) {
	var out []*domainFuel.Budget
	for id := range r.budgets {
		b := r.budgets[id]
		if activeOnly && !b.IsActive {
			continue
		}
		out = append(out, &b)
	}
	return out, nil
}

type vehicleLookup struct {
	domainVehicle.Repository
	known map[uuid.UUID]bool
}

func (v vehicleLookup) GetByID(_ context.Context, id uuid.UUID) (*domainVehicle.Vehicle, error) {
	if !v.known[id] {
		return nil, domainVehicle.ErrVehicleNotFound
	}
	return &domainVehicle.Vehicle{ID: id, IsActive: true}, nil
}

// memoryCache round-trips values through JSON like the redis store.
type memoryCache struct {
	values map[string][]byte
}

func (c *memoryCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	raw, ok := c.values[key]
	if !ok {
		return domainCache.ErrMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

func newFuelService(t *testing.T) (*Service, *memoryFuelRepo, uuid.UUID) {
	t.Helper()
	vehicleID := uuid.New()
	repo := newMemoryFuelRepo()
	svc := NewService(passthroughTx{}, repo, vehicleLookup{known: map[uuid.UUID]bool{vehicleID: true}},
		&memoryCache{values: map[string][]byte{}}, time.Minute)
	svc.now = func() time.Time { return time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC) }
	return svc, repo, vehicleID
}

func day(d int) time.Time {
	return time.Date(2025, 6, d, 8, 0, 0, 0, time.UTC)
}

func TestCreateLog_DerivesEfficiencyFromPreviousLog(t *testing.T) {
	svc, _, vehicleID := newFuelService(t)
	ctx := context.Background()
	user := uuid.New()

	first, err := svc.CreateLog(ctx, user, &CreateLogRequest{
		VehicleID: vehicleID, FuelDate: day(1), FuelLiters: 10, CostPerLiter: 100, OdometerReading: 100,
	})
	require.NoError(t, err)
	assert.Nil(t, first.FuelEfficiency)
	assert.Nil(t, first.DistanceTraveled)
	assert.InDelta(t, 1000, first.TotalCost, 1e-9)

	second, err := svc.CreateLog(ctx, user, &CreateLogRequest{
		VehicleID: vehicleID, FuelDate: day(5), FuelLiters: 15, CostPerLiter: 100, OdometerReading: 250,
	})
	require.NoError(t, err)
	require.NotNil(t, second.FuelEfficiency)
	assert.InDelta(t, 150, *second.DistanceTraveled, 1e-9)
	assert.InDelta(t, 10, *second.FuelEfficiency, 1e-9)
	assert.InDelta(t, 100, *second.PreviousOdometer, 1e-9)

	third, err := svc.CreateLog(ctx, user, &CreateLogRequest{
		VehicleID: vehicleID, FuelDate: day(9), FuelLiters: 10, CostPerLiter: 100, TotalCost: 950, OdometerReading: 400,
	})
	require.NoError(t, err)
	assert.InDelta(t, 15, *third.FuelEfficiency, 1e-9)
	assert.InDelta(t, 950, third.TotalCost, 1e-9)
}

func TestCreateLog_UnknownVehicle(t *testing.T) {
	svc, repo, _ := newFuelService(t)

	_, err := svc.CreateLog(context.Background(), uuid.New(), &CreateLogRequest{
		VehicleID: uuid.New(), FuelDate: day(1), FuelLiters: 10, CostPerLiter: 100,
	})

	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Empty(t, repo.logs)
}

func TestCreateBudget_FillsActualSpent(t *testing.T) {
	svc, _, vehicleID := newFuelService(t)
	ctx := context.Background()
	for i, d := range []int{2, 12, 28} {
		_, err := svc.CreateLog(ctx, uuid.New(), &CreateLogRequest{
			VehicleID: vehicleID, FuelDate: day(d), FuelLiters: 10, CostPerLiter: 100, OdometerReading: float64(100 * (i + 1)),
		})
		require.NoError(t, err)
	}

	budget, err := svc.CreateBudget(ctx, &CreateBudgetRequest{
		VehicleID:    &vehicleID,
		Period:       "monthly",
		StartDate:    day(1),
		BudgetAmount: 4000,
	})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), budget.EndDate)
	assert.InDelta(t, 3000, budget.ActualSpent, 1e-9)
	assert.InDelta(t, 1000, budget.RemainingBudget, 1e-9)
	assert.InDelta(t, 75, budget.Utilization, 1e-9)
}

func TestCreateBudget_RejectsDoubleScope(t *testing.T) {
	svc, _, vehicleID := newFuelService(t)
	driverID := uuid.New()

	_, err := svc.CreateBudget(context.Background(), &CreateBudgetRequest{
		VehicleID:    &vehicleID,
		DriverID:     &driverID,
		Period:       "weekly",
		StartDate:    day(1),
		BudgetAmount: 100,
	})

	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))
}

func TestRefreshActiveBudgets(t *testing.T) {
	svc, repo, vehicleID := newFuelService(t)
	ctx := context.Background()

	active, err := svc.CreateBudget(ctx, &CreateBudgetRequest{
		VehicleID: &vehicleID, Period: "monthly", StartDate: day(1), BudgetAmount: 500,
	})
	require.NoError(t, err)
	_, err = svc.CreateBudget(ctx, &CreateBudgetRequest{Period: "monthly", StartDate: day(1), BudgetAmount: 500})
	require.NoError(t, err)
	for id, b := range repo.budgets {
		if id != active.ID {
			b.IsActive = false
			repo.budgets[id] = b
		}
	}

	_, err = svc.CreateLog(ctx, uuid.New(), &CreateLogRequest{
		VehicleID: vehicleID, FuelDate: day(3), FuelLiters: 4, CostPerLiter: 100, OdometerReading: 10,
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshActiveBudgets(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, refreshed)
	assert.InDelta(t, 400, repo.budgets[active.ID].ActualSpent, 1e-9)
}

func TestStats_CachesDefaultWindowOnly(t *testing.T) {
	svc, repo, vehicleID := newFuelService(t)
	ctx := context.Background()

	_, err := svc.Stats(ctx, 0)
	require.NoError(t, err)
	_, err = svc.Stats(ctx, DefaultStatsDays)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.statsCalls)

	_, err = svc.Stats(ctx, 7)
	require.NoError(t, err)
	_, err = svc.Stats(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 3, repo.statsCalls)

	// A new log invalidates the cached window.
	_, err = svc.CreateLog(ctx, uuid.New(), &CreateLogRequest{
		VehicleID: vehicleID, FuelDate: day(3), FuelLiters: 4, CostPerLiter: 100,
	})
	require.NoError(t, err)
	stats, err := svc.Stats(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, repo.statsCalls)
	assert.Equal(t, int64(1), stats.TotalLogs)
}

func TestStats_RejectsOutOfRangeWindow(t *testing.T) {
	svc, _, _ := newFuelService(t)

	_, err := svc.Stats(context.Background(), 400)

	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))
}
