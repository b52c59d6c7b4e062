package jobs

import (
	"context"
	"errors"

	appErrors "fleet-campus-admin/pkg/errors"
)

var errPanicked = errors.New("job panicked")

// ErrJobNotFound is returned by Trigger for an unregistered name.
var ErrJobNotFound = appErrors.NewAppError("JOB_NOT_FOUND", "Job not found", nil)

// Job names.
const (
	TokenCleanup  = "token_cleanup"
	EmailRepair   = "student_email_repair"
	BudgetRefresh = "fuel_budget_refresh"
	ReminderScan  = "maintenance_reminder_scan"
	AlertScan     = "alert_scan"
)

// Counter adapts the int-returning service passes to a RunFunc.
func Counter(fn func(ctx context.Context) (int, error)) RunFunc {
	return func(ctx context.Context) (int64, error) {
		n, err := fn(ctx)
		return int64(n), err
	}
}
