package maintenance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReminderIsDue(t *testing.T) {
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	odometer := 15000.0
	later := today.AddDate(0, 0, 10)

	t.Run("odometer reached", func(t *testing.T) {
		r := &Reminder{IsActive: true, TriggerOdometer: &odometer}
		assert.True(t, r.IsDue(15000, today))
		assert.False(t, r.IsDue(14999, today))
	})

	t.Run("date reached", func(t *testing.T) {
		r := &Reminder{IsActive: true, TriggerDate: &later}
		assert.False(t, r.IsDue(0, today))
		assert.True(t, r.IsDue(0, later))
	})

	t.Run("sent or inactive never fires", func(t *testing.T) {
		r := &Reminder{IsActive: true, IsSent: true, TriggerOdometer: &odometer}
		assert.False(t, r.IsDue(20000, today))

		r = &Reminder{IsActive: false, TriggerOdometer: &odometer}
		assert.False(t, r.IsDue(20000, today))
	})
}

func TestScheduleOverdueAndVariance(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := &Schedule{Status: StatusScheduled, ScheduledDate: now.Add(-time.Hour)}
	assert.True(t, s.IsOverdue(now))

	s.Status = StatusInProgress
	assert.False(t, s.IsOverdue(now))

	est, actual := 200.0, 260.0
	s.EstimatedCost = &est
	assert.Nil(t, s.CostVariance())
	s.ActualCost = &actual
	assert.Equal(t, 60.0, *s.CostVariance())
}

func TestPartTotal(t *testing.T) {
	p := &Part{Quantity: 4, UnitCost: 12.5}
	assert.Equal(t, 50.0, p.Total())
}
