package user

import (
	"errors"
	"fmt"

	appErrors "fleet-campus-admin/pkg/errors"
)

var (
	ErrUserNotFound         = fmt.Errorf("user %w", appErrors.ErrNotFound)
	ErrRefreshTokenNotFound = fmt.Errorf("refresh token %w", appErrors.ErrNotFound)
	ErrInvalidUserRole      = errors.New("invalid user role")
)
