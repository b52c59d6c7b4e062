package user

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleFleetManager     Role = "fleet_manager"
	RoleDispatcher       Role = "dispatcher"
	RoleSafetyOfficer    Role = "safety_officer"
	RoleFinancialAnalyst Role = "financial_analyst"
	RoleAdmin            Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleFleetManager, RoleDispatcher, RoleSafetyOfficer, RoleFinancialAnalyst, RoleAdmin:
		return true
	}
	return false
}

// Permission is a capability checked per route.
type Permission string

const (
	PermViewFleet           Permission = "view_fleet"
	PermManageFleet         Permission = "manage_fleet"
	PermManageTrips         Permission = "manage_trips"
	PermManageDriverRecords Permission = "manage_driver_records"
	PermManageFuel          Permission = "manage_fuel"
	PermManageFinance       Permission = "manage_finance"
	PermManageMaintenance   Permission = "manage_maintenance"
	PermExportReports       Permission = "export_reports"
	PermManageStudents      Permission = "manage_students"
	PermManageUsers         Permission = "manage_users"
)

var rolePermissions = map[Role][]Permission{
	RoleFleetManager: {
		PermViewFleet, PermManageFleet, PermManageTrips, PermManageDriverRecords,
		PermManageFuel, PermManageFinance, PermManageMaintenance, PermExportReports,
	},
	RoleDispatcher: {
		PermViewFleet, PermManageTrips, PermManageFuel,
	},
	RoleSafetyOfficer: {
		PermViewFleet, PermManageDriverRecords, PermManageMaintenance,
	},
	RoleFinancialAnalyst: {
		PermViewFleet, PermManageFuel, PermManageFinance, PermExportReports,
	},
}

// Can reports whether the role grants p. Admin is granted everything.
func (r Role) Can(p Permission) bool {
	if r == RoleAdmin {
		return true
	}
	for _, granted := range rolePermissions[r] {
		if granted == p {
			return true
		}
	}
	return false
}

// User represents an operator account
type User struct {
	ID             uuid.UUID
	Username       string
	Email          string
	PasswordHashed string
	FullName       string
	PhoneNumber    *string
	Role           Role
	IsActive       bool
	LastLoginAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RefreshToken represents a refresh token entity
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
	Revoked   bool
	RevokedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (rt *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(rt.ExpiresAt)
}

// IsActive checks if the refresh token is neither revoked nor expired
func (rt *RefreshToken) IsActive(now time.Time) bool {
	return !rt.Revoked && !rt.IsExpired(now)
}
