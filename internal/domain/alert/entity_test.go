package alert

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertLifecycle(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	by := uuid.New()

	t.Run("acknowledge then resolve", func(t *testing.T) {
		a := &Alert{Status: StatusActive}
		require.NoError(t, a.Acknowledge(by, now))
		assert.Equal(t, StatusAcknowledged, a.Status)
		assert.True(t, a.IsOpen())

		require.NoError(t, a.Resolve(by, now, "Renewed policy"))
		assert.Equal(t, StatusResolved, a.Status)
		assert.Equal(t, "Renewed policy", a.ActionTaken)
		assert.False(t, a.IsOpen())
	})

	t.Run("acknowledge twice", func(t *testing.T) {
		a := &Alert{Status: StatusAcknowledged}
		assert.ErrorIs(t, a.Acknowledge(by, now), ErrAlertNotActive)
	})

	t.Run("closed alerts stay closed", func(t *testing.T) {
		for _, status := range []Status{StatusResolved, StatusDismissed} {
			a := &Alert{Status: status}
			assert.ErrorIs(t, a.Resolve(by, now, ""), ErrAlertClosed)
			assert.ErrorIs(t, a.Dismiss(by, now), ErrAlertClosed)
			assert.Equal(t, status, a.Status)
		}
	})
}

func TestAlertIsOverdue(t *testing.T) {
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	past := today.AddDate(0, 0, -1)
	future := today.AddDate(0, 0, 3)

	assert.True(t, (&Alert{Status: StatusActive, DueDate: &past}).IsOverdue(today))
	assert.True(t, (&Alert{Status: StatusActive, DueDate: &today}).IsOverdue(today))
	assert.False(t, (&Alert{Status: StatusActive, DueDate: &future}).IsOverdue(today))
	assert.False(t, (&Alert{Status: StatusAcknowledged, DueDate: &past}).IsOverdue(today))
	assert.False(t, (&Alert{Status: StatusActive}).IsOverdue(today))
}

func TestAlertEscalate(t *testing.T) {
	high := 105.0
	higher := 130.0
	a := &Alert{Severity: SeverityHigh, Message: "105% used", TriggerValue: &high}

	assert.False(t, a.Escalate(&Alert{Severity: SeverityMedium, Message: "105% used", TriggerValue: &high}))
	assert.Equal(t, SeverityHigh, a.Severity)

	assert.True(t, a.Escalate(&Alert{Severity: SeverityCritical, Message: "130% used", TriggerValue: &higher}))
	assert.Equal(t, SeverityCritical, a.Severity)
	assert.Equal(t, "130% used", a.Message)
	assert.Equal(t, 130.0, *a.TriggerValue)

	assert.True(t, SeverityCritical.Above(SeverityLow))
	assert.False(t, SeverityLow.Above(SeverityLow))
}
