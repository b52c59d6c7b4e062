package fuel

import (
	"time"

	appErrors "fleet-campus-admin/pkg/errors"
)

// DefaultStatsDays is the fuel stats window when none is given.
const DefaultStatsDays = 30

// ValidateDateRange requires to to be on or after from.
func ValidateDateRange(from, to *time.Time) error {
	if from == nil || to == nil {
		return nil
	}
	if to.Before(*from) {
		return appErrors.NewAppError(appErrors.CodeValidation, "End date must not precede start date", nil)
	}
	return nil
}

// ValidateStatsDays bounds the stats window to a year.
func ValidateStatsDays(days int) error {
	if days < 1 || days > 366 {
		return appErrors.NewAppError(appErrors.CodeValidation, "days must be between 1 and 366", nil)
	}
	return nil
}

func translateUnique(err error) error {
	if appErrors.IsUniqueViolation(err, "start_date") {
		return appErrors.NewAppError("BUDGET_EXISTS", "A budget for this vehicle and period already starts on that date", err)
	}
	return err
}
