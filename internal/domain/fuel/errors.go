package fuel

import (
	"fmt"

	appErrors "fleet-campus-admin/pkg/errors"
)

var (
	ErrLogNotFound     = fmt.Errorf("fuel log %w", appErrors.ErrNotFound)
	ErrExpenseNotFound = fmt.Errorf("expense %w", appErrors.ErrNotFound)
	ErrBudgetNotFound  = fmt.Errorf("fuel budget %w", appErrors.ErrNotFound)
)
