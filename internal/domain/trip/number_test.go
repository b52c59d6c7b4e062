package trip

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextNumber(t *testing.T) {
	day := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, "TR20250115", NumberPrefix(day))
	assert.Equal(t, "TR202501150001", NextNumber(day, ""))
	assert.Equal(t, "TR202501150043", NextNumber(day, "TR202501150042"))
	// yesterday's sequence does not carry over
	assert.Equal(t, "TR202501150001", NextNumber(day, "TR202501140042"))
}

func TestTripOverdue(t *testing.T) {
	start := time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)
	hours := 1.5
	tr := &Trip{Status: StatusDispatched, StartDate: &start, EstimatedDuration: &hours}

	assert.False(t, tr.IsOverdue(start.Add(time.Hour)))
	assert.True(t, tr.IsOverdue(start.Add(2*time.Hour)))

	tr.Status = StatusCompleted
	assert.False(t, tr.IsOverdue(start.Add(2*time.Hour)))

	tr.Status = StatusDispatched
	tr.EstimatedDuration = nil
	assert.False(t, tr.IsOverdue(start.Add(48*time.Hour)))
}

func TestVariance(t *testing.T) {
	est, actual := 100.0, 120.5
	tr := &Trip{EstimatedDistance: &est}
	assert.Nil(t, tr.DistanceVariance())

	tr.ActualDistance = &actual
	if assert.NotNil(t, tr.DistanceVariance()) {
		assert.Equal(t, 20.5, *tr.DistanceVariance())
	}
}
