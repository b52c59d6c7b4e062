package fuel

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPreviousSequence(t *testing.T) {
	odometers := []float64{100, 250, 400}
	liters := []float64{10, 15, 10}

	var previous *Log
	logs := make([]*Log, 0, len(odometers))
	for i := range odometers {
		l := &Log{OdometerReading: odometers[i], FuelLiters: liters[i]}
		l.ApplyPrevious(previous)
		logs = append(logs, l)
		previous = l
	}

	assert.Nil(t, logs[0].PreviousOdometer)
	assert.Nil(t, logs[0].DistanceTraveled)
	assert.Nil(t, logs[0].FuelEfficiency)

	require.NotNil(t, logs[1].DistanceTraveled)
	assert.Equal(t, 150.0, *logs[1].DistanceTraveled)
	require.NotNil(t, logs[1].FuelEfficiency)
	assert.Equal(t, 10.0, *logs[1].FuelEfficiency)

	require.NotNil(t, logs[2].FuelEfficiency)
	assert.Equal(t, 15.0, *logs[2].FuelEfficiency)
	assert.Equal(t, 250.0, *logs[2].PreviousOdometer)
}

func TestApplyPreviousNoEfficiencyWithoutDistance(t *testing.T) {
	prev := &Log{OdometerReading: 500}
	l := &Log{OdometerReading: 500, FuelLiters: 20}
	l.ApplyPrevious(prev)

	require.NotNil(t, l.DistanceTraveled)
	assert.Equal(t, 0.0, *l.DistanceTraveled)
	assert.Nil(t, l.FuelEfficiency)
}

func TestFillTotalCost(t *testing.T) {
	l := &Log{FuelLiters: 40, CostPerLiter: 1.5}
	l.FillTotalCost()
	assert.Equal(t, 60.0, l.TotalCost)

	l = &Log{FuelLiters: 40, CostPerLiter: 1.5, TotalCost: 55}
	l.FillTotalCost()
	assert.Equal(t, 55.0, l.TotalCost)
}

func TestBudget(t *testing.T) {
	b := &Budget{BudgetAmount: 1000, ActualSpent: 250}
	assert.Equal(t, 750.0, b.RemainingBudget())
	assert.Equal(t, 25.0, b.Utilization())

	b.ActualSpent = 1200
	assert.Equal(t, -200.0, b.RemainingBudget())
	assert.Equal(t, 120.0, b.Utilization())

	assert.Equal(t, 0.0, (&Budget{}).Utilization())
}

func TestBudgetScope(t *testing.T) {
	vehicleID, driverID := uuid.New(), uuid.New()

	assert.Equal(t, Scope{VehicleID: &vehicleID}, (&Budget{VehicleID: &vehicleID}).Scope())
	assert.Equal(t, Scope{DriverID: &driverID}, (&Budget{DriverID: &driverID}).Scope())
	assert.Equal(t, Scope{}, (&Budget{}).Scope())
}

func TestPeriodEnd(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC), PeriodEnd(start, PeriodWeekly))
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), PeriodEnd(start, PeriodMonthly))
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), PeriodEnd(start, PeriodQuarterly))
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), PeriodEnd(start, PeriodYearly))
}
