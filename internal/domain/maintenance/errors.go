package maintenance

import (
	"fmt"

	appErrors "fleet-campus-admin/pkg/errors"
)

var (
	ErrScheduleNotFound = fmt.Errorf("maintenance schedule %w", appErrors.ErrNotFound)
	ErrReminderNotFound = fmt.Errorf("maintenance reminder %w", appErrors.ErrNotFound)
)
