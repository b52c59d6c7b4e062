package trip

import (
	"errors"
	"fmt"

	appErrors "fleet-campus-admin/pkg/errors"
)

var (
	ErrTripNotFound       = fmt.Errorf("trip %w", appErrors.ErrNotFound)
	ErrCheckpointNotFound = fmt.Errorf("checkpoint %w", appErrors.ErrNotFound)
	ErrTripNotEditable    = errors.New("only draft trips can be edited")
)
