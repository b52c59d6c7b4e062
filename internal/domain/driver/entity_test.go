package driver

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func shift(h, m int) *time.Duration {
	d := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute
	return &d
}

func TestHoursWorked(t *testing.T) {
	cases := []struct {
		name     string
		in, out  *time.Duration
		expected float64
	}{
		{"day shift", shift(9, 0), shift(17, 30), 8.5},
		{"overnight wraps midnight", shift(22, 0), shift(6, 0), 8},
		{"missing check-out", shift(9, 0), nil, 0},
		{"missing check-in", nil, shift(17, 0), 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := &Attendance{CheckIn: tc.in, CheckOut: tc.out}
			assert.Equal(t, tc.expected, a.HoursWorked())
		})
	}
}

func TestLicenseWindow(t *testing.T) {
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	d := &Driver{LicenseExpiry: today, Status: StatusOnDuty, IsActive: true}
	assert.True(t, d.LicenseExpired(today))
	assert.False(t, d.LicenseExpiresSoon(today))
	assert.False(t, d.IsAvailable(today))

	d.LicenseExpiry = today.AddDate(0, 0, 20)
	assert.False(t, d.LicenseExpired(today))
	assert.True(t, d.LicenseExpiresSoon(today))
	assert.True(t, d.IsAvailable(today))

	d.LicenseExpiry = today.AddDate(1, 0, 0)
	assert.False(t, d.LicenseExpiresSoon(today))

	d.Status = StatusSuspended
	assert.False(t, d.IsAvailable(today))
}

func TestPerformanceRecord(t *testing.T) {
	p := NewPerformance(uuid.New())
	at := time.Date(2025, 6, 1, 15, 4, 0, 0, time.UTC)

	p.Record(true, 120, 12, at)
	p.Record(true, 80, 8, at)
	p.Record(false, 500, 50, at)

	assert.Equal(t, 3, p.TotalTrips)
	assert.Equal(t, 2, p.CompletedTrips)
	assert.Equal(t, 1, p.CancelledTrips)
	assert.Equal(t, 200.0, p.TotalDistance)
	assert.Equal(t, 20.0, p.TotalFuelConsumed)
	assert.Equal(t, 10.0, p.FuelEfficiency())
	assert.InDelta(t, 66.67, p.CompletionRate(), 0.01)
	assert.InDelta(t, 33.33, p.CancellationRate(), 0.01)
	if assert.NotNil(t, p.LastTripDate) {
		assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *p.LastTripDate)
	}
}

func TestNewPerformanceDefaults(t *testing.T) {
	p := NewPerformance(uuid.New())
	assert.Equal(t, 100.0, p.SafetyScore)
	assert.Equal(t, 100.0, p.OnTimePerformance)
	assert.Equal(t, 0.0, p.CompletionRate())
	assert.Equal(t, 0.0, p.FuelEfficiency())
}
