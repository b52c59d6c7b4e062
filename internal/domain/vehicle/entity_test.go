package vehicle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanCarry(t *testing.T) {
	v := &Vehicle{Capacity: 1000}
	assert.True(t, v.CanCarry(0))
	assert.True(t, v.CanCarry(1000))
	assert.False(t, v.CanCarry(1000.5))
}

func TestIsAvailable(t *testing.T) {
	v := &Vehicle{Status: StatusAvailable, IsActive: true}
	assert.True(t, v.IsAvailable())

	v.IsActive = false
	assert.False(t, v.IsAvailable())

	v.IsActive = true
	v.Status = StatusOnTrip
	assert.False(t, v.IsAvailable())
}

func TestServiceDates(t *testing.T) {
	last := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	v := &Vehicle{LastServiceDate: &last}

	v.DefaultNextService()
	require.NotNil(t, v.NextServiceDue)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), *v.NextServiceDue)
	assert.False(t, v.NeedsService(last))
	assert.True(t, v.NeedsService(*v.NextServiceDue))

	serviced := time.Date(2025, 5, 10, 14, 30, 0, 0, time.UTC)
	v.RecordService(serviced)
	assert.Equal(t, time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC), *v.LastServiceDate)
	assert.Equal(t, time.Date(2025, 8, 8, 0, 0, 0, 0, time.UTC), *v.NextServiceDue)
}
