package postgres

import (
	"errors"
	"testing"

	appErrors "fleet-campus-admin/pkg/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldForConstraint(t *testing.T) {
	tests := []struct {
		constraint string
		want       string
	}{
		{"idx_refresh_tokens_hash", "token_hash"},
		{"idx_vehicles_license_plate", "license_plate"},
		{"idx_students_email_id", "email_id"},
		{"some_other_constraint", "some_other_constraint"},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			assert.Equal(t, tt.want, fieldForConstraint(tt.constraint))
		})
	}
}

func TestTranslateError(t *testing.T) {
	err := translateError("store refresh token", &pgconn.PgError{
		Code:           uniqueViolationCode,
		ConstraintName: "idx_refresh_tokens_hash",
	})

	var unique *appErrors.UniqueViolationError
	require.True(t, errors.As(err, &unique))
	assert.Equal(t, "token_hash", unique.Field)

	plain := translateError("store refresh token", errors.New("conn reset"))
	assert.EqualError(t, plain, "failed to store refresh token: conn reset")
	assert.NoError(t, translateError("noop", nil))
}
