package driver

import (
	"fmt"
	"time"

	appErrors "fleet-campus-admin/pkg/errors"
)

// ValidateLicenseDates rejects a license that expires before it could be used.
func ValidateLicenseDates(hireDate, licenseExpiry time.Time) error {
	if licenseExpiry.Before(hireDate) {
		return appErrors.NewAppError(appErrors.CodeValidation, "License expiry must be after hire date", nil)
	}
	return nil
}

// parseClock turns HH:MM into an offset from midnight.
func parseClock(s string) (*time.Duration, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, fmt.Sprintf("Invalid time %q", s), err)
	}
	d := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
	return &d, nil
}

func formatClock(d *time.Duration) string {
	if d == nil {
		return ""
	}
	minutes := int(d.Minutes())
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func translateUnique(err error) error {
	switch {
	case appErrors.IsUniqueViolation(err, "email"):
		return appErrors.NewAppError("EMAIL_EXISTS", "Driver email already registered", err)
	case appErrors.IsUniqueViolation(err, "license_number"):
		return appErrors.NewAppError("LICENSE_NUMBER_EXISTS", "License number already registered", err)
	}
	return err
}
