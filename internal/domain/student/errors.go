package student

import (
	"fmt"

	appErrors "fleet-campus-admin/pkg/errors"
)

var (
	ErrStudentNotFound    = fmt.Errorf("student %w", appErrors.ErrNotFound)
	ErrTerminatedNotFound = fmt.Errorf("terminated student %w", appErrors.ErrNotFound)
)
