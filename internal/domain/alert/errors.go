package alert

import (
	"errors"
	"fmt"

	appErrors "fleet-campus-admin/pkg/errors"
)

var (
	ErrAlertNotFound  = fmt.Errorf("alert %w", appErrors.ErrNotFound)
	ErrAlertNotActive = errors.New("only active alerts can be acknowledged")
	ErrAlertClosed    = errors.New("alert is already closed")
)
