package vehicle

import (
	"fmt"
	"strings"
	"time"

	domainVehicle "fleet-campus-admin/internal/domain/vehicle"
	appErrors "fleet-campus-admin/pkg/errors"
	"fleet-campus-admin/pkg/utils"
)

// ValidateStatusChange guards manual status edits. on_trip belongs to the
// trip lifecycle and is never set or cleared by hand.
func ValidateStatusChange(current, next domainVehicle.Status) error {
	if current == next {
		return nil
	}
	if current == domainVehicle.StatusOnTrip {
		return appErrors.NewAppError("VEHICLE_ON_TRIP", "Vehicle is on a trip and cannot change status manually", nil)
	}
	if next == domainVehicle.StatusOnTrip {
		return appErrors.NewAppError(
			appErrors.CodeInvalidTransition,
			fmt.Sprintf("Cannot transition from %s to %s", current, next),
			nil,
		)
	}
	return nil
}

// ValidateServiceDates requires the next service to follow the last one.
func ValidateServiceDates(last, next *time.Time) error {
	if last == nil || next == nil {
		return nil
	}
	if next.Before(*last) {
		return appErrors.NewAppError(appErrors.CodeValidation, "Next service due must be after last service date", nil)
	}
	return nil
}

func translateUnique(err error) error {
	switch {
	case appErrors.IsUniqueViolation(err, "license_plate"):
		return appErrors.NewAppError("LICENSE_PLATE_EXISTS", "License plate already registered", err)
	case appErrors.IsUniqueViolation(err, "vin"):
		return appErrors.NewAppError("VIN_EXISTS", "VIN already registered", err)
	}
	return err
}

func normalizePlate(plate string) string {
	return strings.ToUpper(utils.SanitizeString(plate))
}
