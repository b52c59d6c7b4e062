package maintenance

import (
	"context"

	"fleet-campus-admin/internal/domain/event"
	domainMaintenance "fleet-campus-admin/internal/domain/maintenance"
	"fleet-campus-admin/internal/logger"
	appErrors "fleet-campus-admin/pkg/errors"
	"fleet-campus-admin/pkg/timeutil"
	"fleet-campus-admin/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddPart records a part used by a job. Closed jobs take no more parts.
func (s *Service) AddPart(ctx context.Context, scheduleID uuid.UUID, req *AddPartRequest) (*PartResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	m, err := s.maintenanceRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if m.Status == domainMaintenance.StatusCompleted || m.Status == domainMaintenance.StatusCancelled {
		return nil, appErrors.NewAppError(appErrors.CodeInvalidStatus, "Parts cannot be added to a closed maintenance job", nil)
	}

	p := &domainMaintenance.Part{
		ScheduleID: scheduleID,
		Name:       utils.SanitizeString(req.Name),
		PartNumber: utils.SanitizeString(req.PartNumber),
		Quantity:   req.Quantity,
		UnitCost:   req.UnitCost,
	}
	if err := s.maintenanceRepo.AddPart(ctx, p); err != nil {
		return nil, err
	}

	resp := ToPartResponse(p)
	return &resp, nil
}

func (s *Service) ListParts(ctx context.Context, scheduleID uuid.UUID) (*PartListResponse, error) {
	if _, err := s.maintenanceRepo.GetByID(ctx, scheduleID); err != nil {
		return nil, err
	}
	parts, err := s.maintenanceRepo.ListParts(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	resp := &PartListResponse{Parts: make([]PartResponse, 0, len(parts))}
	for _, p := range parts {
		resp.Parts = append(resp.Parts, ToPartResponse(p))
		resp.TotalCost += p.Total()
	}
	return resp, nil
}

func (s *Service) CreateReminder(ctx context.Context, req *CreateReminderRequest) (*ReminderResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}
	if err := ValidateReminderTrigger(req); err != nil {
		return nil, err
	}
	if _, err := s.vehicleRepo.GetByID(ctx, req.VehicleID); err != nil {
		return nil, err
	}

	r := &domainMaintenance.Reminder{
		VehicleID:       req.VehicleID,
		Title:           utils.SanitizeString(req.Title),
		Description:     utils.SanitizeText(req.Description),
		TriggerOdometer: req.TriggerOdometer,
		IsActive:        true,
	}
	if req.TriggerDate != nil {
		day := timeutil.DateOnly(*req.TriggerDate)
		r.TriggerDate = &day
	}
	if err := s.maintenanceRepo.CreateReminder(ctx, r); err != nil {
		return nil, err
	}

	resp := ToReminderResponse(r)
	return &resp, nil
}

func (s *Service) ListReminders(ctx context.Context, activeOnly bool) ([]ReminderResponse, error) {
	reminders, err := s.maintenanceRepo.ListReminders(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	items := make([]ReminderResponse, 0, len(reminders))
	for _, r := range reminders {
		items = append(items, ToReminderResponse(r))
	}
	return items, nil
}

// ScanReminders publishes every reminder whose trigger has been reached and
// marks it sent. It returns the number of reminders fired.
func (s *Service) ScanReminders(ctx context.Context) (int, error) {
	reminders, err := s.maintenanceRepo.ListReminders(ctx, true)
	if err != nil {
		return 0, err
	}

	now := s.now()
	today := timeutil.DateOnly(now)
	odometers := make(map[uuid.UUID]float64)
	fired := 0

	for _, r := range reminders {
		if err := ctx.Err(); err != nil {
			return fired, err
		}

		odometer, seen := odometers[r.VehicleID]
		if !seen {
			v, err := s.vehicleRepo.GetByID(ctx, r.VehicleID)
			if err != nil {
				logger.Warn("Skipping reminder for unknown vehicle",
					zap.String("reminder_id", r.ID.String()),
					zap.Error(err),
				)
				continue
			}
			odometer = v.Odometer
			odometers[r.VehicleID] = odometer
		}

		if !r.IsDue(odometer, today) {
			continue
		}

		e := event.New(event.MaintenanceReminderDue, r.ID, map[string]interface{}{
			"reminder_id": r.ID.String(),
			"vehicle_id":  r.VehicleID.String(),
			"title":       r.Title,
			"odometer":    odometer,
		})
		if err := s.publisher.Publish(ctx, e); err != nil {
			logger.Warn("Failed to publish reminder", zap.String("reminder_id", r.ID.String()), zap.Error(err))
		}
		if err := s.maintenanceRepo.MarkReminderSent(ctx, r.ID, now); err != nil {
			return fired, err
		}
		fired++

		logger.Info("Maintenance reminder due",
			zap.String("reminder_id", r.ID.String()),
			zap.String("vehicle_id", r.VehicleID.String()),
			zap.String("event", "maintenance_reminder_due"),
		)
	}
	return fired, nil
}
