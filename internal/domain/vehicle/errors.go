package vehicle

import (
	"errors"
	"fmt"

	appErrors "fleet-campus-admin/pkg/errors"
)

var (
	ErrVehicleNotFound  = fmt.Errorf("vehicle %w", appErrors.ErrNotFound)
	ErrDocumentNotFound = fmt.Errorf("vehicle document %w", appErrors.ErrNotFound)
	ErrVehicleInactive  = errors.New("vehicle is inactive")
	ErrVehicleOnTrip    = errors.New("vehicle is on a trip")
)
