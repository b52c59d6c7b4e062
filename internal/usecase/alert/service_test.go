package alert

import (
	"context"
	"testing"

	domainAlert "fleet-campus-admin/internal/domain/alert"
	"fleet-campus-admin/internal/domain/user"
	appErrors "fleet-campus-admin/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAlert(t *testing.T, f *engineFixture, typ domainAlert.Type) uuid.UUID {
	t.Helper()
	a := &domainAlert.Alert{
		Type:       typ,
		Severity:   domainAlert.SeverityHigh,
		Title:      "Seeded",
		SubjectKey: domainAlert.SubjectKey("driver", uuid.New()),
	}
	require.NoError(t, f.repo.Create(context.Background(), a))
	return a.ID
}

func TestAcknowledgeAndResolve(t *testing.T) {
	f := newEngineFixture(t, nil, nil)
	id := seedAlert(t, f, domainAlert.TypeLicenseExpiry)
	officer := uuid.New()

	resp, err := f.service.Acknowledge(context.Background(), id, officer, user.RoleSafetyOfficer)
	require.NoError(t, err)
	assert.Equal(t, "acknowledged", resp.Status)
	assert.Equal(t, officer, *resp.AcknowledgedBy)

	_, err = f.service.Acknowledge(context.Background(), id, officer, user.RoleSafetyOfficer)
	assert.Equal(t, appErrors.CodeInvalidTransition, appErrors.CodeOf(err))

	_, err = f.service.Resolve(context.Background(), id, officer, user.RoleSafetyOfficer, &ResolveRequest{})
	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))

	resp, err = f.service.Resolve(context.Background(), id, officer, user.RoleSafetyOfficer,
		&ResolveRequest{ActionTaken: "License renewed until 2030"})
	require.NoError(t, err)
	assert.Equal(t, "resolved", resp.Status)
	assert.Equal(t, "License renewed until 2030", resp.ActionTaken)
	assert.NotNil(t, resp.ResolvedAt)

	_, err = f.service.Dismiss(context.Background(), id, officer, user.RoleSafetyOfficer)
	assert.Equal(t, appErrors.CodeInvalidTransition, appErrors.CodeOf(err))
}

func TestTransition_RequiresHandlingPermission(t *testing.T) {
	tests := []struct {
		name    string
		typ     domainAlert.Type
		role    user.Role
		allowed bool
	}{
		{"dispatcher on license", domainAlert.TypeLicenseExpiry, user.RoleDispatcher, false},
		{"safety officer on license", domainAlert.TypeLicenseExpiry, user.RoleSafetyOfficer, true},
		{"analyst on insurance", domainAlert.TypeInsuranceExpiry, user.RoleFinancialAnalyst, false},
		{"manager on registration", domainAlert.TypeRegistrationExpiry, user.RoleFleetManager, true},
		{"analyst on budget", domainAlert.TypeBudgetExceeded, user.RoleFinancialAnalyst, true},
		{"safety officer on service", domainAlert.TypeMaintenanceDue, user.RoleSafetyOfficer, true},
		{"admin on anything", domainAlert.TypeBudgetExceeded, user.RoleAdmin, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEngineFixture(t, nil, nil)
			id := seedAlert(t, f, tt.typ)

			_, err := f.service.Acknowledge(context.Background(), id, uuid.New(), tt.role)
			if tt.allowed {
				require.NoError(t, err)
				return
			}
			assert.Equal(t, appErrors.CodeForbidden, appErrors.CodeOf(err))
			assert.Equal(t, domainAlert.StatusActive, f.repo.alerts[id].Status)
		})
	}
}

func TestDismiss(t *testing.T) {
	f := newEngineFixture(t, nil, nil)
	id := seedAlert(t, f, domainAlert.TypeBudgetExceeded)

	resp, err := f.service.Dismiss(context.Background(), id, uuid.New(), user.RoleFinancialAnalyst)
	require.NoError(t, err)
	assert.Equal(t, "dismissed", resp.Status)
	assert.Empty(t, resp.ActionTaken)
}

func TestTransition_UnknownAlert(t *testing.T) {
	f := newEngineFixture(t, nil, nil)

	_, err := f.service.Acknowledge(context.Background(), uuid.New(), uuid.New(), user.RoleAdmin)
	assert.ErrorIs(t, err, domainAlert.ErrAlertNotFound)
}
