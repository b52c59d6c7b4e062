package maintenance

import (
	"fmt"

	domainMaintenance "fleet-campus-admin/internal/domain/maintenance"
	appErrors "fleet-campus-admin/pkg/errors"
)

var validTransitions = map[domainMaintenance.Status][]domainMaintenance.Status{
	domainMaintenance.StatusScheduled: {
		domainMaintenance.StatusInProgress,
		domainMaintenance.StatusCancelled,
		domainMaintenance.StatusPostponed,
	},
	domainMaintenance.StatusPostponed: {
		domainMaintenance.StatusScheduled,
		domainMaintenance.StatusCancelled,
	},
	domainMaintenance.StatusInProgress: {
		domainMaintenance.StatusCompleted,
		domainMaintenance.StatusCancelled,
	},
	domainMaintenance.StatusCompleted: {},
	domainMaintenance.StatusCancelled: {},
}

// ValidateStatusTransition validates if a status transition is allowed
func ValidateStatusTransition(current, next domainMaintenance.Status) error {
	for _, s := range validTransitions[current] {
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

func GetAllowedTransitions(current domainMaintenance.Status) []domainMaintenance.Status {
	return validTransitions[current]
}

// ValidateReminderTrigger requires at least one of the two triggers.
func ValidateReminderTrigger(req *CreateReminderRequest) error {
	if req.TriggerOdometer == nil && req.TriggerDate == nil {
		return appErrors.NewAppError(appErrors.CodeValidation, "A reminder needs a trigger odometer or a trigger date", nil)
	}
	return nil
}
