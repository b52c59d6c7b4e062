package alert

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainAlert "fleet-campus-admin/internal/domain/alert"
	domainDriver "fleet-campus-admin/internal/domain/driver"
	"fleet-campus-admin/internal/domain/event"
	domainFuel "fleet-campus-admin/internal/domain/fuel"
	domainVehicle "fleet-campus-admin/internal/domain/vehicle"
	"fleet-campus-admin/internal/logger"
	"fleet-campus-admin/pkg/timeutil"

	"go.uber.org/zap"
)

const (
	// expiryWarningDays opens an alert this far ahead of an expiry date.
	expiryWarningDays = 30
	// urgentDays raises an upcoming expiry to high severity.
	urgentDays = 7
	// serviceGraceDays is how long a missed service stays medium.
	serviceGraceDays = 14

	budgetCriticalUtilization = 120.0
	budgetLimitUtilization    = 100.0

	// minEfficiencyLogs is how many fuel logs a vehicle needs before its
	// average efficiency is judged.
	minEfficiencyLogs = 2
	// efficiencyMediumRatio marks efficiency below this share of the floor
	// as medium rather than low.
	efficiencyMediumRatio = 0.8

	scanPageSize = 100
)

// CheckViolations evaluates every active driver, vehicle and budget against
// the compliance and spending rules and returns the alerts they trigger.
func (s *Service) CheckViolations(ctx context.Context, today time.Time) ([]*domainAlert.Alert, error) {
	today = timeutil.DateOnly(today)
	alerts := []*domainAlert.Alert{}

	drivers, err := s.activeDrivers(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range drivers {
		if a := licenseAlert(d, today); a != nil {
			alerts = append(alerts, a)
		}
	}

	vehicles, err := s.activeVehicles(ctx)
	if err != nil {
		return nil, err
	}
	for _, v := range vehicles {
		alerts = append(alerts, vehicleAlerts(v, today)...)
	}

	budgets, err := s.fuel.ListBudgets(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, b := range budgets {
		if a := budgetAlert(b); a != nil {
			alerts = append(alerts, a)
		}
	}

	if s.minEfficiency > 0 {
		report, err := s.fuel.GetEfficiencyReport(ctx)
		if err != nil {
			return nil, err
		}
		for _, e := range report {
			if a := efficiencyAlert(e, s.minEfficiency); a != nil {
				alerts = append(alerts, a)
			}
		}
	}

	return alerts, nil
}

// SaveAlerts stores new alerts and refreshes the open alert already held for
// the same type and subject. It returns the number of alerts raised.
func (s *Service) SaveAlerts(ctx context.Context, alerts []*domainAlert.Alert) (int, error) {
	raised := 0
	for _, a := range alerts {
		if err := ctx.Err(); err != nil {
			return raised, err
		}

		open, err := s.repo.FindOpen(ctx, a.Type, a.SubjectKey)
		switch {
		case err == nil:
			if open.Escalate(a) {
				if err := s.repo.Update(ctx, open); err != nil {
					return raised, err
				}
				logger.Info("Alert refreshed",
					zap.String("alert_id", open.ID.String()),
					zap.String("severity", string(open.Severity)),
				)
			}
			continue
		case !errors.Is(err, domainAlert.ErrAlertNotFound):
			return raised, err
		}

		if err := s.repo.Create(ctx, a); err != nil {
			logger.Error("Failed to save alert", zap.String("subject", a.SubjectKey), zap.Error(err))
			continue
		}
		raised++

		e := event.New(event.AlertRaised, a.ID, map[string]interface{}{
			"alert_id": a.ID.String(),
			"type":     string(a.Type),
			"severity": string(a.Severity),
			"title":    a.Title,
			"message":  a.Message,
		})
		if err := s.publisher.Publish(ctx, e); err != nil {
			logger.Warn("Failed to publish alert", zap.String("alert_id", a.ID.String()), zap.Error(err))
		}

		logger.Warn("Alert raised",
			zap.String("alert_id", a.ID.String()),
			zap.String("type", string(a.Type)),
			zap.String("severity", string(a.Severity)),
			zap.String("message", a.Message),
		)
	}
	return raised, nil
}

// Scan runs one pass of the alert rules. It is registered as a scheduler job.
func (s *Service) Scan(ctx context.Context) (int, error) {
	alerts, err := s.CheckViolations(ctx, s.now())
	if err != nil {
		return 0, err
	}
	return s.SaveAlerts(ctx, alerts)
}

func (s *Service) activeDrivers(ctx context.Context) ([]*domainDriver.Driver, error) {
	active := true
	var all []*domainDriver.Driver
	for page := 1; ; page++ {
		batch, total, err := s.drivers.List(ctx, &domainDriver.Filter{IsActive: &active, Page: page, PageSize: scanPageSize})
		if err != nil {
			return nil, fmt.Errorf("list drivers for alert scan: %w", err)
		}
		all = append(all, batch...)
		if len(batch) == 0 || int64(len(all)) >= total {
			return all, nil
		}
	}
}

func (s *Service) activeVehicles(ctx context.Context) ([]*domainVehicle.Vehicle, error) {
	active := true
	var all []*domainVehicle.Vehicle
	for page := 1; ; page++ {
		batch, total, err := s.vehicles.List(ctx, &domainVehicle.Filter{IsActive: &active, Page: page, PageSize: scanPageSize})
		if err != nil {
			return nil, fmt.Errorf("list vehicles for alert scan: %w", err)
		}
		all = append(all, batch...)
		if len(batch) == 0 || int64(len(all)) >= total {
			return all, nil
		}
	}
}

// expirySeverity grades a document expiry date. An empty severity means the
// date is outside the warning window.
func expirySeverity(expiry, today time.Time) domainAlert.Severity {
	switch {
	case timeutil.OnOrBefore(expiry, today):
		return domainAlert.SeverityCritical
	case timeutil.OnOrBefore(expiry, timeutil.AddDays(today, urgentDays)):
		return domainAlert.SeverityHigh
	case timeutil.OnOrBefore(expiry, timeutil.AddDays(today, expiryWarningDays)):
		return domainAlert.SeverityMedium
	default:
		return ""
	}
}

func expiryMessage(what string, expiry, today time.Time) string {
	date := expiry.Format("2006-01-02")
	if timeutil.OnOrBefore(expiry, today) {
		return fmt.Sprintf("%s expired on %s", what, date)
	}
	days := int(timeutil.DateOnly(expiry).Sub(today).Hours() / 24)
	return fmt.Sprintf("%s expires on %s (%d days)", what, date, days)
}

func licenseAlert(d *domainDriver.Driver, today time.Time) *domainAlert.Alert {
	severity := expirySeverity(d.LicenseExpiry, today)
	if severity == "" {
		return nil
	}
	due := timeutil.DateOnly(d.LicenseExpiry)
	id := d.ID
	return &domainAlert.Alert{
		Type:           domainAlert.TypeLicenseExpiry,
		Severity:       severity,
		Title:          "Driver license expiry: " + d.FullName(),
		Message:        expiryMessage("License "+d.LicenseNumber, d.LicenseExpiry, today),
		SubjectKey:     domainAlert.SubjectKey("driver", d.ID),
		DriverID:       &id,
		DueDate:        &due,
		ActionRequired: "Renew the driver license and update the driver record",
	}
}

func vehicleAlerts(v *domainVehicle.Vehicle, today time.Time) []*domainAlert.Alert {
	if v.Status == domainVehicle.StatusRetired {
		return nil
	}

	var alerts []*domainAlert.Alert
	id := v.ID
	subject := domainAlert.SubjectKey("vehicle", v.ID)
	label := fmt.Sprintf("%s (%s)", v.Name, v.LicensePlate)

	documents := []struct {
		typ    domainAlert.Type
		what   string
		action string
		expiry *time.Time
	}{
		{domainAlert.TypeInsuranceExpiry, "Insurance", "Renew the insurance policy", v.InsuranceExpiry},
		{domainAlert.TypeRegistrationExpiry, "Registration", "Renew the vehicle registration", v.RegistrationExpiry},
	}
	for _, doc := range documents {
		if doc.expiry == nil {
			continue
		}
		severity := expirySeverity(*doc.expiry, today)
		if severity == "" {
			continue
		}
		due := timeutil.DateOnly(*doc.expiry)
		alerts = append(alerts, &domainAlert.Alert{
			Type:           doc.typ,
			Severity:       severity,
			Title:          fmt.Sprintf("%s expiry: %s", doc.what, label),
			Message:        expiryMessage(doc.what, *doc.expiry, today),
			SubjectKey:     subject,
			VehicleID:      &id,
			DueDate:        &due,
			ActionRequired: doc.action,
		})
	}

	if v.NeedsService(today) {
		due := timeutil.DateOnly(*v.NextServiceDue)
		severity := domainAlert.SeverityMedium
		if timeutil.OnOrBefore(timeutil.AddDays(due, serviceGraceDays), today) {
			severity = domainAlert.SeverityHigh
		}
		alerts = append(alerts, &domainAlert.Alert{
			Type:           domainAlert.TypeMaintenanceDue,
			Severity:       severity,
			Title:          "Service due: " + label,
			Message:        fmt.Sprintf("Service was due on %s", due.Format("2006-01-02")),
			SubjectKey:     subject,
			VehicleID:      &id,
			DueDate:        &due,
			ActionRequired: "Schedule maintenance for the vehicle",
		})
	}
	return alerts
}

func budgetAlert(b *domainFuel.Budget) *domainAlert.Alert {
	utilization := b.Utilization()
	if utilization <= budgetLimitUtilization {
		return nil
	}

	severity := domainAlert.SeverityHigh
	if utilization > budgetCriticalUtilization {
		severity = domainAlert.SeverityCritical
	}
	id := b.ID
	limit := budgetLimitUtilization
	end := timeutil.DateOnly(b.EndDate)
	return &domainAlert.Alert{
		Type:     domainAlert.TypeBudgetExceeded,
		Severity: severity,
		Title:    fmt.Sprintf("Budget exceeded (%s)", b.Period),
		Message: fmt.Sprintf("Spent %.2f of %.2f (%.1f%%) for %s to %s",
			b.ActualSpent, b.BudgetAmount, utilization,
			b.StartDate.Format("2006-01-02"), end.Format("2006-01-02")),
		SubjectKey:     domainAlert.SubjectKey("budget", b.ID),
		VehicleID:      b.VehicleID,
		DriverID:       b.DriverID,
		BudgetID:       &id,
		TriggerValue:   &utilization,
		ThresholdValue: &limit,
		DueDate:        &end,
		ActionRequired: "Review spending against the budget",
	}
}

func efficiencyAlert(e *domainFuel.VehicleEfficiency, floor float64) *domainAlert.Alert {
	if e.LogsCount < minEfficiencyLogs || e.AvgEfficiency <= 0 || e.AvgEfficiency >= floor {
		return nil
	}

	severity := domainAlert.SeverityLow
	if e.AvgEfficiency < floor*efficiencyMediumRatio {
		severity = domainAlert.SeverityMedium
	}
	id := e.VehicleID
	avg := e.AvgEfficiency
	limit := floor
	return &domainAlert.Alert{
		Type:     domainAlert.TypeLowFuelEfficiency,
		Severity: severity,
		Title:    fmt.Sprintf("Low fuel efficiency: %s (%s)", e.VehicleName, e.LicensePlate),
		Message: fmt.Sprintf("Average %.2f km/l over %d logs is below %.2f km/l",
			e.AvgEfficiency, e.LogsCount, floor),
		SubjectKey:     domainAlert.SubjectKey("vehicle", e.VehicleID),
		VehicleID:      &id,
		TriggerValue:   &avg,
		ThresholdValue: &limit,
		ActionRequired: "Inspect the vehicle and review driving patterns",
	}
}
