package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleCan(t *testing.T) {
	cases := []struct {
		role Role
		perm Permission
		want bool
	}{
		{RoleAdmin, PermManageUsers, true},
		{RoleAdmin, PermManageStudents, true},
		{RoleFleetManager, PermManageFleet, true},
		{RoleFleetManager, PermManageUsers, false},
		{RoleFleetManager, PermManageStudents, false},
		{RoleDispatcher, PermManageTrips, true},
		{RoleDispatcher, PermManageFleet, false},
		{RoleDispatcher, PermExportReports, false},
		{RoleSafetyOfficer, PermManageMaintenance, true},
		{RoleSafetyOfficer, PermManageTrips, false},
		{RoleFinancialAnalyst, PermManageFinance, true},
		{RoleFinancialAnalyst, PermExportReports, true},
		{RoleFinancialAnalyst, PermManageTrips, false},
		{Role("guest"), PermViewFleet, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.role.Can(tc.perm), "%s -> %s", tc.role, tc.perm)
	}
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleDispatcher.Valid())
	assert.False(t, Role("root").Valid())
}
