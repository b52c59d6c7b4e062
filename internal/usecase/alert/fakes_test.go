package alert

import (
	"context"
	"sort"

	domainAlert "fleet-campus-admin/internal/domain/alert"
	domainDriver "fleet-campus-admin/internal/domain/driver"
	domainFuel "fleet-campus-admin/internal/domain/fuel"
	domainVehicle "fleet-campus-admin/internal/domain/vehicle"

	"github.com/google/uuid"
)

type memoryAlertRepo struct {
	domainAlert.Repository

	alerts map[uuid.UUID]domainAlert.Alert
}

func newMemoryAlertRepo() *memoryAlertRepo {
	return &memoryAlertRepo{alerts: make(map[uuid.UUID]domainAlert.Alert)}
}

func (r *memoryAlertRepo) Create(_ context.Context, a *domainAlert.Alert) error {
	a.ID = uuid.New()
	if a.Status == "" {
		a.Status = domainAlert.StatusActive
	}
	r.alerts[a.ID] = *a
	return nil
}

func (r *memoryAlertRepo) GetByID(_ context.Context, id uuid.UUID) (*domainAlert.Alert, error) {
	a, ok := r.alerts[id]
	if !ok {
		return nil, domainAlert.ErrAlertNotFound
	}
	return &a, nil
}

func (r *memoryAlertRepo) Update(_ context.Context, a *domainAlert.Alert) error {
	if _, ok := r.alerts[a.ID]; !ok {
		return domainAlert.ErrAlertNotFound
	}
	r.alerts[a.ID] = *a
	return nil
}

func (r *memoryAlertRepo) FindOpen(_ context.Context, t domainAlert.Type, subject string) (*domainAlert.Alert, error) {
	for _, a := range r.alerts {
		if a.Type == t && a.SubjectKey == subject && a.IsOpen() {
			found := a
			return &found, nil
		}
	}
	return nil, domainAlert.ErrAlertNotFound
}

func (r *memoryAlertRepo) byType(t domainAlert.Type) []domainAlert.Alert {
	var out []domainAlert.Alert
	for _, a := range r.alerts {
		if a.Type == t {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubjectKey < out[j].SubjectKey })
	return out
}

type pagedDrivers []*domainDriver.Driver

func (p pagedDrivers) List(_ context.Context, f *domainDriver.Filter) ([]*domainDriver.Driver, int64, error) {
	var active []*domainDriver.Driver
	for _, d := range p {
		if f.IsActive == nil || d.IsActive == *f.IsActive {
			active = append(active, d)
		}
	}
	return pageOf(active, f.Page, f.PageSize), int64(len(active)), nil
}

type pagedVehicles []*domainVehicle.Vehicle

func (p pagedVehicles) List(_ context.Context, f *domainVehicle.Filter) ([]*domainVehicle.Vehicle, int64, error) {
	var active []*domainVehicle.Vehicle
	for _, v := range p {
		if f.IsActive == nil || v.IsActive == *f.IsActive {
			active = append(active, v)
		}
	}
	return pageOf(active, f.Page, f.PageSize), int64(len(active)), nil
}

func pageOf[T any](items []T, page, size int) []T {
	start := (page - 1) * size
	if start >= len(items) {
		return nil
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

type fixedFuel struct {
	budgets    []*domainFuel.Budget
	efficiency []*domainFuel.VehicleEfficiency
}

func (f *fixedFuel) GetEfficiencyReport(context.Context) ([]*domainFuel.VehicleEfficiency, error) {
	return f.efficiency, nil
}

func (f *fixedFuel) ListBudgets(_ context.Context, activeOnly bool) ([]*domainFuel.Budget, error) {
	var out []*domainFuel.Budget
	for _, budget := range f.budgets {
		if activeOnly && !budget.IsActive {
			continue
		}
		copied := *budget
		out = append(out, &copied)
	}
	return out, nil
}
