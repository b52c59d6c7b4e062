package maintenance

import (
	"context"
	"time"

	"fleet-campus-admin/internal/domain/event"
	domainMaintenance "fleet-campus-admin/internal/domain/maintenance"
	"fleet-campus-admin/internal/domain/txn"
	domainVehicle "fleet-campus-admin/internal/domain/vehicle"
	"fleet-campus-admin/internal/logger"
	appErrors "fleet-campus-admin/pkg/errors"
	"fleet-campus-admin/pkg/timeutil"
	"fleet-campus-admin/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const upcomingWindow = 7 * timeutil.Day

// Service schedules maintenance jobs and keeps the vehicle's status in step
// with them.
type Service struct {
	txm             txn.Manager
	maintenanceRepo domainMaintenance.Repository
	vehicleRepo     domainVehicle.Repository
	publisher       event.Publisher
	now             func() time.Time
}

func NewService(
	txm txn.Manager,
	maintenanceRepo domainMaintenance.Repository,
	vehicleRepo domainVehicle.Repository,
	publisher event.Publisher,
) *Service {
	return &Service{
		txm:             txm,
		maintenanceRepo: maintenanceRepo,
		vehicleRepo:     vehicleRepo,
		publisher:       publisher,
		now:             time.Now,
	}
}

func (s *Service) Create(ctx context.Context, createdBy uuid.UUID, req *CreateScheduleRequest) (*ScheduleResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	v, err := s.vehicleRepo.GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	if !v.IsActive {
		return nil, appErrors.NewAppError("VEHICLE_INACTIVE", "Vehicle is inactive", domainVehicle.ErrVehicleInactive)
	}

	priority := domainMaintenance.PriorityMedium
	if req.Priority != "" {
		priority = domainMaintenance.Priority(req.Priority)
	}

	m := &domainMaintenance.Schedule{
		VehicleID:         req.VehicleID,
		MaintenanceType:   utils.SanitizeString(req.MaintenanceType),
		Title:             utils.SanitizeString(req.Title),
		Description:       utils.SanitizeText(req.Description),
		Status:            domainMaintenance.StatusScheduled,
		Priority:          priority,
		ScheduledDate:     req.ScheduledDate,
		EstimatedDuration: req.EstimatedDuration,
		EstimatedCost:     req.EstimatedCost,
		OdometerReading:   req.OdometerReading,
		CreatedBy:         &createdBy,
	}
	if err := s.maintenanceRepo.Create(ctx, m); err != nil {
		return nil, err
	}

	logger.Info("Maintenance scheduled",
		zap.String("schedule_id", m.ID.String()),
		zap.String("vehicle_id", m.VehicleID.String()),
		zap.Time("scheduled_date", m.ScheduledDate),
		zap.String("event", "maintenance_scheduled"),
	)

	return s.Get(ctx, m.ID)
}

func (s *Service) Get(ctx context.Context, scheduleID uuid.UUID) (*ScheduleResponse, error) {
	m, err := s.maintenanceRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	resp := ToScheduleResponse(m, s.now())
	return &resp, nil
}

// Update edits a job that has not started yet.
func (s *Service) Update(ctx context.Context, scheduleID uuid.UUID, req *UpdateScheduleRequest) (*ScheduleResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	m, err := s.maintenanceRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if m.Status != domainMaintenance.StatusScheduled && m.Status != domainMaintenance.StatusPostponed {
		return nil, appErrors.NewAppError(appErrors.CodeInvalidStatus, "Only scheduled or postponed maintenance can be edited", nil)
	}

	if req.MaintenanceType != nil {
		m.MaintenanceType = utils.SanitizeString(*req.MaintenanceType)
	}
	if req.Title != nil {
		m.Title = utils.SanitizeString(*req.Title)
	}
	if req.Description != nil {
		m.Description = utils.SanitizeText(*req.Description)
	}
	if req.Priority != nil {
		m.Priority = domainMaintenance.Priority(*req.Priority)
	}
	if req.ScheduledDate != nil {
		m.ScheduledDate = *req.ScheduledDate
	}
	if req.EstimatedDuration != nil {
		m.EstimatedDuration = req.EstimatedDuration
	}
	if req.EstimatedCost != nil {
		m.EstimatedCost = req.EstimatedCost
	}
	if req.OdometerReading != nil {
		m.OdometerReading = req.OdometerReading
	}

	if err := s.maintenanceRepo.Update(ctx, m); err != nil {
		return nil, err
	}
	return s.Get(ctx, m.ID)
}

func (s *Service) List(ctx context.Context, req *ScheduleFilterRequest) (*ScheduleListResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid filter", err)
	}

	page, pageSize := utils.NormalizePage(req.Page, req.PageSize)
	filter := &domainMaintenance.Filter{
		VehicleID: req.VehicleID,
		From:      req.From,
		To:        req.To,
		Search:    utils.SanitizeString(req.Search),
		Page:      page,
		PageSize:  pageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	if req.Status != nil {
		status := domainMaintenance.Status(*req.Status)
		filter.Status = &status
	}
	if req.Priority != nil {
		priority := domainMaintenance.Priority(*req.Priority)
		filter.Priority = &priority
	}

	schedules, total, err := s.maintenanceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	items := make([]ScheduleResponse, 0, len(schedules))
	for _, m := range schedules {
		items = append(items, ToScheduleResponse(m, now))
	}

	return &ScheduleListResponse{
		Schedules:  items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: utils.TotalPages(total, pageSize),
	}, nil
}

// Start puts the job in progress and sends the vehicle to the shop.
func (s *Service) Start(ctx context.Context, scheduleID uuid.UUID) (*ScheduleResponse, error) {
	var m *domainMaintenance.Schedule
	var from domainMaintenance.Status

	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if m, err = s.maintenanceRepo.GetByID(ctx, scheduleID); err != nil {
			return err
		}
		from = m.Status
		if err := ValidateStatusTransition(m.Status, domainMaintenance.StatusInProgress); err != nil {
			return err
		}

		v, err := s.vehicleRepo.GetForUpdate(ctx, m.VehicleID)
		if err != nil {
			return err
		}
		if !v.IsActive || v.Status == domainVehicle.StatusRetired {
			return appErrors.NewAppError("VEHICLE_INACTIVE", "Vehicle is retired", domainVehicle.ErrVehicleInactive)
		}
		if v.Status == domainVehicle.StatusOnTrip {
			return appErrors.NewAppError("VEHICLE_ON_TRIP", "Vehicle is on a trip", domainVehicle.ErrVehicleOnTrip)
		}

		m.Status = domainMaintenance.StatusInProgress
		v.Status = domainVehicle.StatusInShop

		if err := s.maintenanceRepo.Update(ctx, m); err != nil {
			return err
		}
		return s.vehicleRepo.Update(ctx, v)
	})
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, m, from, "maintenance_started")
	return s.Get(ctx, scheduleID)
}

// Complete closes the job, records the actuals and returns the vehicle to
// service with a fresh service date.
func (s *Service) Complete(ctx context.Context, scheduleID, completedBy uuid.UUID, req *CompleteRequest) (*ScheduleResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	var m *domainMaintenance.Schedule
	var from domainMaintenance.Status

	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if m, err = s.maintenanceRepo.GetByID(ctx, scheduleID); err != nil {
			return err
		}
		from = m.Status
		if err := ValidateStatusTransition(m.Status, domainMaintenance.StatusCompleted); err != nil {
			return err
		}

		v, err := s.vehicleRepo.GetForUpdate(ctx, m.VehicleID)
		if err != nil {
			return err
		}

		now := s.now()
		m.Status = domainMaintenance.StatusCompleted
		m.CompletedAt = &now
		m.CompletedBy = &completedBy
		m.CompletionNotes = utils.SanitizeText(req.CompletionNotes)
		if req.ActualDuration != nil {
			m.ActualDuration = req.ActualDuration
		}
		if req.ActualCost != nil {
			m.ActualCost = req.ActualCost
		}

		if v.Status == domainVehicle.StatusInShop {
			v.Status = domainVehicle.StatusAvailable
		}
		v.RecordService(now)

		if err := s.maintenanceRepo.Update(ctx, m); err != nil {
			return err
		}
		return s.vehicleRepo.Update(ctx, v)
	})
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, m, from, "maintenance_completed")
	return s.Get(ctx, scheduleID)
}

// Cancel abandons the job. A vehicle still in the shop for it goes back to
// available.
func (s *Service) Cancel(ctx context.Context, scheduleID uuid.UUID) (*ScheduleResponse, error) {
	var m *domainMaintenance.Schedule
	var from domainMaintenance.Status

	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if m, err = s.maintenanceRepo.GetByID(ctx, scheduleID); err != nil {
			return err
		}
		from = m.Status
		if err := ValidateStatusTransition(m.Status, domainMaintenance.StatusCancelled); err != nil {
			return err
		}

		m.Status = domainMaintenance.StatusCancelled
		if err := s.maintenanceRepo.Update(ctx, m); err != nil {
			return err
		}
		if from != domainMaintenance.StatusInProgress {
			return nil
		}

		v, err := s.vehicleRepo.GetForUpdate(ctx, m.VehicleID)
		if err != nil {
			return err
		}
		if v.Status != domainVehicle.StatusInShop {
			return nil
		}
		v.Status = domainVehicle.StatusAvailable
		return s.vehicleRepo.Update(ctx, v)
	})
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, m, from, "maintenance_cancelled")
	return s.Get(ctx, scheduleID)
}

func (s *Service) Postpone(ctx context.Context, scheduleID uuid.UUID, req *PostponeRequest) (*ScheduleResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	m, err := s.maintenanceRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	from := m.Status
	if err := ValidateStatusTransition(m.Status, domainMaintenance.StatusPostponed); err != nil {
		return nil, err
	}

	m.Status = domainMaintenance.StatusPostponed
	if req.NewDate != nil {
		m.ScheduledDate = *req.NewDate
	}
	if reason := utils.SanitizeText(req.Reason); reason != "" {
		m.CompletionNotes = reason
	}
	if err := s.maintenanceRepo.Update(ctx, m); err != nil {
		return nil, err
	}

	s.afterTransition(ctx, m, from, "maintenance_postponed")
	return s.Get(ctx, scheduleID)
}

// Reschedule puts a postponed job back on the calendar.
func (s *Service) Reschedule(ctx context.Context, scheduleID uuid.UUID, req *RescheduleRequest) (*ScheduleResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	m, err := s.maintenanceRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	from := m.Status
	if err := ValidateStatusTransition(m.Status, domainMaintenance.StatusScheduled); err != nil {
		return nil, err
	}

	m.Status = domainMaintenance.StatusScheduled
	m.ScheduledDate = req.ScheduledDate
	if err := s.maintenanceRepo.Update(ctx, m); err != nil {
		return nil, err
	}

	s.afterTransition(ctx, m, from, "maintenance_rescheduled")
	return s.Get(ctx, scheduleID)
}

func (s *Service) afterTransition(ctx context.Context, m *domainMaintenance.Schedule, from domainMaintenance.Status, name string) {
	e := event.New(event.MaintenanceStatusChanged, m.ID, map[string]interface{}{
		"schedule_id": m.ID.String(),
		"vehicle_id":  m.VehicleID.String(),
		"title":       m.Title,
		"from":        string(from),
		"to":          string(m.Status),
		"at":          s.now().UTC(),
	})
	if err := s.publisher.Publish(ctx, e); err != nil {
		logger.Warn("Failed to publish maintenance event",
			zap.String("schedule_id", m.ID.String()),
			zap.Error(err),
		)
	}

	logger.Info("Maintenance status changed",
		zap.String("schedule_id", m.ID.String()),
		zap.String("vehicle_id", m.VehicleID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(m.Status)),
		zap.String("event", name),
	)
}

func (s *Service) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	now := s.now()
	dash, err := s.maintenanceRepo.GetDashboard(ctx, now, now.Add(upcomingWindow))
	if err != nil {
		return nil, err
	}

	resp := &DashboardResponse{
		Total:      dash.Total,
		Scheduled:  dash.Scheduled,
		InProgress: dash.InProgress,
		Completed:  dash.Completed,
		Overdue:    make([]ScheduleResponse, 0, len(dash.Overdue)),
		Upcoming:   make([]ScheduleResponse, 0, len(dash.Upcoming)),
	}
	for _, m := range dash.Overdue {
		resp.Overdue = append(resp.Overdue, ToScheduleResponse(m, now))
	}
	for _, m := range dash.Upcoming {
		resp.Upcoming = append(resp.Upcoming, ToScheduleResponse(m, now))
	}
	return resp, nil
}
