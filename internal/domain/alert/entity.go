package alert

import (
	"time"

	"fleet-campus-admin/pkg/timeutil"

	"github.com/google/uuid"
)

type Type string

const (
	TypeLicenseExpiry      Type = "license_expiry"
	TypeInsuranceExpiry    Type = "insurance_expiry"
	TypeRegistrationExpiry Type = "registration_expiry"
	TypeMaintenanceDue     Type = "maintenance_due"
	TypeBudgetExceeded     Type = "fuel_budget_exceeded"
	TypeLowFuelEfficiency  Type = "low_fuel_efficiency"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Above reports whether s is strictly more severe than other.
func (s Severity) Above(other Severity) bool {
	return severityRank[s] > severityRank[other]
}

type Status string

const (
	StatusActive       Status = "active"
	StatusAcknowledged Status = "acknowledged"
	StatusResolved     Status = "resolved"
	StatusDismissed    Status = "dismissed"
)

// Alert is a compliance or spending condition raised by the scan job
type Alert struct {
	ID       uuid.UUID
	Type     Type
	Severity Severity
	Status   Status
	Title    string
	Message  string

	// SubjectKey identifies the record the alert is about, e.g.
	// "driver:<id>". At most one open alert exists per type and subject.
	SubjectKey string
	VehicleID  *uuid.UUID
	DriverID   *uuid.UUID
	BudgetID   *uuid.UUID

	TriggerValue   *float64
	ThresholdValue *float64
	DueDate        *time.Time
	ActionRequired string
	ActionTaken    string

	AcknowledgedBy *uuid.UUID
	AcknowledgedAt *time.Time
	ResolvedBy     *uuid.UUID
	ResolvedAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOpen reports whether the alert still needs attention.
func (a *Alert) IsOpen() bool {
	return a.Status == StatusActive || a.Status == StatusAcknowledged
}

// IsOverdue reports whether an unacknowledged alert has passed its due date.
func (a *Alert) IsOverdue(today time.Time) bool {
	return a.Status == StatusActive && a.DueDate != nil && timeutil.OnOrBefore(*a.DueDate, today)
}

func (a *Alert) Acknowledge(by uuid.UUID, at time.Time) error {
	if a.Status != StatusActive {
		return ErrAlertNotActive
	}
	a.Status = StatusAcknowledged
	a.AcknowledgedBy = &by
	a.AcknowledgedAt = &at
	return nil
}

func (a *Alert) Resolve(by uuid.UUID, at time.Time, actionTaken string) error {
	if !a.IsOpen() {
		return ErrAlertClosed
	}
	a.Status = StatusResolved
	a.ActionTaken = actionTaken
	a.ResolvedBy = &by
	a.ResolvedAt = &at
	return nil
}

// Dismiss closes the alert without recording an action.
func (a *Alert) Dismiss(by uuid.UUID, at time.Time) error {
	if !a.IsOpen() {
		return ErrAlertClosed
	}
	a.Status = StatusDismissed
	a.ResolvedBy = &by
	a.ResolvedAt = &at
	return nil
}

// Escalate copies a fresh reading onto an open alert. Severity only ever
// rises. It reports whether anything changed.
func (a *Alert) Escalate(fresh *Alert) bool {
	changed := false
	if fresh.Severity.Above(a.Severity) {
		a.Severity = fresh.Severity
		changed = true
	}
	if fresh.Message != a.Message {
		a.Message = fresh.Message
		changed = true
	}
	if fresh.TriggerValue != nil && (a.TriggerValue == nil || *a.TriggerValue != *fresh.TriggerValue) {
		a.TriggerValue = fresh.TriggerValue
		changed = true
	}
	return changed
}

func SubjectKey(kind string, id uuid.UUID) string {
	return kind + ":" + id.String()
}

// Summary counts open alerts
type Summary struct {
	Open         int64
	Acknowledged int64
	BySeverity   map[Severity]int64
	ByType       map[Type]int64
}
