package report

import (
	"context"
	"strconv"
	"time"

	domainFuel "fleet-campus-admin/internal/domain/fuel"
	domainTrip "fleet-campus-admin/internal/domain/trip"
	appErrors "fleet-campus-admin/pkg/errors"
	"fleet-campus-admin/pkg/utils"

	"github.com/google/uuid"
)

// FleetExportRequest narrows the fleet exports to a date window and,
// where it applies, one vehicle.
type FleetExportRequest struct {
	VehicleID *uuid.UUID `form:"vehicle_id"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	Status    *string    `form:"status" validate:"omitempty,oneof=draft dispatched in_progress completed cancelled delayed"`
}

func (r *FleetExportRequest) validate() error {
	if err := utils.ValidateStruct(r); err != nil {
		return appErrors.NewAppError(appErrors.CodeValidation, "Invalid filter", err)
	}
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return appErrors.NewAppError(appErrors.CodeValidation, "End date must not precede start date", nil)
	}
	return nil
}

func (s *Service) Trips(ctx context.Context, req *FleetExportRequest) (*File, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	filter := &domainTrip.Filter{
		VehicleID:   req.VehicleID,
		StartAfter:  req.From,
		StartBefore: req.To,
		PageSize:    utils.MaxPageSize,
		SortBy:      "created_at",
		SortOrder:   "desc",
	}
	if req.Status != nil {
		status := domainTrip.Status(*req.Status)
		filter.Status = &status
	}

	sh := newSheet()
	if err := sh.row(tripHeader...); err != nil {
		return nil, err
	}
	for page := 1; ; page++ {
		filter.Page = page
		trips, total, err := s.tripRepo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		for _, t := range trips {
			if err := sh.row(
				t.TripNumber,
				string(t.Status),
				string(t.Priority),
				t.Origin,
				t.Destination,
				t.DriverName,
				t.VehicleName,
				t.VehiclePlate,
				decimal(t.CargoWeight),
				optional(t.EstimatedDistance),
				optional(t.ActualDistance),
				stamp(t.StartDate),
				stamp(t.EndDate),
				t.CreatedAt.Format(timestampLayout),
			); err != nil {
				return nil, err
			}
		}
		if int64(page*utils.MaxPageSize) >= total || len(trips) == 0 {
			break
		}
	}

	s.logExport("trips", "")
	return sh.file(FileName("trips", "", s.now()))
}

func (s *Service) FuelLogs(ctx context.Context, req *FleetExportRequest) (*File, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	filter := &domainFuel.LogFilter{
		VehicleID: req.VehicleID,
		From:      req.From,
		To:        req.To,
		PageSize:  utils.MaxPageSize,
	}

	sh := newSheet()
	if err := sh.row(fuelLogHeader...); err != nil {
		return nil, err
	}
	for page := 1; ; page++ {
		filter.Page = page
		logs, total, err := s.fuelRepo.ListLogs(ctx, filter)
		if err != nil {
			return nil, err
		}
		for _, l := range logs {
			if err := sh.row(
				l.FuelDate.Format(dateLayout),
				l.VehicleID.String(),
				l.Station,
				decimal(l.FuelLiters),
				decimal(l.CostPerLiter),
				decimal(l.TotalCost),
				decimal(l.OdometerReading),
				optional(l.DistanceTraveled),
				optional(l.FuelEfficiency),
			); err != nil {
				return nil, err
			}
		}
		if int64(page*utils.MaxPageSize) >= total || len(logs) == 0 {
			break
		}
	}

	s.logExport("fuel_logs", "")
	return sh.file(FileName("fuel_logs", "", s.now()))
}

func (s *Service) Expenses(ctx context.Context, req *FleetExportRequest) (*File, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	filter := &domainFuel.ExpenseFilter{
		VehicleID: req.VehicleID,
		From:      req.From,
		To:        req.To,
		PageSize:  utils.MaxPageSize,
	}

	sh := newSheet()
	if err := sh.row(expenseHeader...); err != nil {
		return nil, err
	}
	for page := 1; ; page++ {
		filter.Page = page
		expenses, total, err := s.fuelRepo.ListExpenses(ctx, filter)
		if err != nil {
			return nil, err
		}
		for _, e := range expenses {
			if err := sh.row(
				e.ExpenseDate.Format(dateLayout),
				string(e.Type),
				decimal(e.Amount),
				string(e.PaymentMethod),
				e.Description,
				uuidOrBlank(e.VehicleID),
				uuidOrBlank(e.DriverID),
				strconv.FormatBool(e.IsReimbursable),
				strconv.FormatBool(e.IsApproved),
			); err != nil {
				return nil, err
			}
		}
		if int64(page*utils.MaxPageSize) >= total || len(expenses) == 0 {
			break
		}
	}

	s.logExport("expenses", "")
	return sh.file(FileName("expenses", "", s.now()))
}

func uuidOrBlank(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
