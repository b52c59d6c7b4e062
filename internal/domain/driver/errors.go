package driver

import (
	"errors"
	"fmt"

	appErrors "fleet-campus-admin/pkg/errors"
)

var (
	ErrDriverNotFound      = fmt.Errorf("driver %w", appErrors.ErrNotFound)
	ErrPerformanceNotFound = fmt.Errorf("driver performance %w", appErrors.ErrNotFound)
	ErrDriverInactive      = errors.New("driver is inactive")
)
