package trip

import (
	"fmt"
	"time"

	domainDriver "fleet-campus-admin/internal/domain/driver"
	domainTrip "fleet-campus-admin/internal/domain/trip"
	domainVehicle "fleet-campus-admin/internal/domain/vehicle"
	appErrors "fleet-campus-admin/pkg/errors"
)

// Dispatch precondition codes.
const (
	CodeTripNotDraft         = "TRIP_NOT_DRAFT"
	CodeDriverUnavailable    = "DRIVER_UNAVAILABLE"
	CodeVehicleUnavailable   = "VEHICLE_UNAVAILABLE"
	CodeCargoExceedsCapacity = "CARGO_EXCEEDS_CAPACITY"
	CodeTripNotDispatched    = "TRIP_NOT_DISPATCHED"
)

var lifecycleTransitions = map[domainTrip.Status][]domainTrip.Status{
	domainTrip.StatusDraft:      {domainTrip.StatusDispatched, domainTrip.StatusCancelled},
	domainTrip.StatusDispatched: {domainTrip.StatusInProgress, domainTrip.StatusCancelled},
	domainTrip.StatusInProgress: {domainTrip.StatusCompleted},
	domainTrip.StatusCompleted:  {},
	domainTrip.StatusCancelled:  {},
	domainTrip.StatusDelayed:    {},
}

// adminTransitions are only reachable through the administrative status
// update; delayed lives entirely outside the normal lifecycle.
var adminTransitions = map[domainTrip.Status][]domainTrip.Status{
	domainTrip.StatusDraft:      {domainTrip.StatusDelayed},
	domainTrip.StatusDispatched: {domainTrip.StatusDelayed},
	domainTrip.StatusInProgress: {domainTrip.StatusDelayed},
	domainTrip.StatusDelayed:    {domainTrip.StatusInProgress, domainTrip.StatusCancelled},
}

// ValidateStatusTransition checks a lifecycle transition
func ValidateStatusTransition(current, next domainTrip.Status) error {
	return checkTransition(lifecycleTransitions, current, next)
}

// ValidateAdminTransition checks a transition requested through the
// administrative status update.
func ValidateAdminTransition(current, next domainTrip.Status) error {
	return checkTransition(adminTransitions, current, next)
}

func checkTransition(table map[domainTrip.Status][]domainTrip.Status, current, next domainTrip.Status) error {
	allowed, exists := table[current]
	if !exists {
		return appErrors.NewAppError(
			appErrors.CodeInvalidTransition,
			fmt.Sprintf("Cannot transition from %s to %s", current, next),
			nil,
		)
	}

	for _, s := range allowed {
		if s == next {
			return nil
		}
	}

	return appErrors.NewAppError(
		appErrors.CodeInvalidTransition,
		fmt.Sprintf("Cannot transition from %s to %s", current, next),
		nil,
	)
}

// GetAllowedTransitions returns the lifecycle statuses reachable from current.
func GetAllowedTransitions(current domainTrip.Status) []domainTrip.Status {
	return lifecycleTransitions[current]
}

// CheckDispatch returns the first failed dispatch precondition, or nil.
func CheckDispatch(t *domainTrip.Trip, d *domainDriver.Driver, v *domainVehicle.Vehicle, today time.Time) error {
	if t.Status != domainTrip.StatusDraft {
		return appErrors.NewAppError(CodeTripNotDraft,
			fmt.Sprintf("Trip is %s; only draft trips can be dispatched", t.Status), nil)
	}
	if !d.IsAvailable(today) {
		return appErrors.NewAppError(CodeDriverUnavailable,
			fmt.Sprintf("Driver %s is not available", d.FullName()), nil)
	}
	if !v.IsAvailable() {
		return appErrors.NewAppError(CodeVehicleUnavailable,
			fmt.Sprintf("Vehicle %s is not available", v.LicensePlate), nil)
	}
	if !v.CanCarry(t.CargoWeight) {
		return appErrors.NewAppError(CodeCargoExceedsCapacity,
			fmt.Sprintf("Cargo weight %.2f kg exceeds vehicle capacity %.2f kg", t.CargoWeight, v.Capacity), nil)
	}
	return nil
}

// CanDispatch is the boolean form of CheckDispatch.
func CanDispatch(t *domainTrip.Trip, d *domainDriver.Driver, v *domainVehicle.Vehicle, today time.Time) bool {
	return CheckDispatch(t, d, v, today) == nil
}

// ValidateSchedule requires the end date to follow the start date.
func ValidateSchedule(start, end *time.Time) error {
	if start == nil || end == nil {
		return nil
	}
	if end.Before(*start) {
		return appErrors.NewAppError(appErrors.CodeValidation, "End date must be after start date", nil)
	}
	return nil
}

// ValidateCheckpointTimes requires departure to follow arrival.
func ValidateCheckpointTimes(arrival, departure *time.Time) error {
	if arrival == nil || departure == nil {
		return nil
	}
	if departure.Before(*arrival) {
		return appErrors.NewAppError(appErrors.CodeValidation, "Departure time must be after arrival time", nil)
	}
	return nil
}

// ValidateCoordinates requires latitude and longitude together.
func ValidateCoordinates(lat, lng *float64) error {
	if (lat == nil) != (lng == nil) {
		return appErrors.NewAppError(appErrors.CodeValidation, "Latitude and longitude must be given together", nil)
	}
	return nil
}
