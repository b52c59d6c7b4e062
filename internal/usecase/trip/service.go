package trip

import (
	"context"
	"errors"
	"time"

	"fleet-campus-admin/internal/domain/blob"
	"fleet-campus-admin/internal/domain/cache"
	domainDriver "fleet-campus-admin/internal/domain/driver"
	"fleet-campus-admin/internal/domain/event"
	domainTrip "fleet-campus-admin/internal/domain/trip"
	"fleet-campus-admin/internal/domain/txn"
	domainVehicle "fleet-campus-admin/internal/domain/vehicle"
	"fleet-campus-admin/internal/logger"
	appErrors "fleet-campus-admin/pkg/errors"
	"fleet-campus-admin/pkg/timeutil"
	"fleet-campus-admin/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	tripNumberAttempts = 3
	overdueGrace       = time.Hour
)

// Service implements the trip lifecycle and its child records
type Service struct {
	txm         txn.Manager
	tripRepo    domainTrip.Repository
	driverRepo  domainDriver.Repository
	vehicleRepo domainVehicle.Repository
	publisher   event.Publisher
	cache       cache.Store
	store       blob.Store
	statsTTL    time.Duration
	now         func() time.Time
}

func NewService(
	txm txn.Manager,
	tripRepo domainTrip.Repository,
	driverRepo domainDriver.Repository,
	vehicleRepo domainVehicle.Repository,
	publisher event.Publisher,
	cacheStore cache.Store,
	store blob.Store,
	statsTTL time.Duration,
) *Service {
	return &Service{
		txm:         txm,
		tripRepo:    tripRepo,
		driverRepo:  driverRepo,
		vehicleRepo: vehicleRepo,
		publisher:   publisher,
		cache:       cacheStore,
		store:       store,
		statsTTL:    statsTTL,
		now:         time.Now,
	}
}

func (s *Service) Create(ctx context.Context, createdBy uuid.UUID, req *CreateTripRequest) (*TripResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}
	if err := ValidateSchedule(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	if err := s.checkAssignment(ctx, req.DriverID, req.VehicleID, req.CargoWeight); err != nil {
		return nil, err
	}

	priority := domainTrip.PriorityMedium
	if req.Priority != "" {
		priority = domainTrip.Priority(req.Priority)
	}

	t := &domainTrip.Trip{
		Origin:            utils.SanitizeString(req.Origin),
		Destination:       utils.SanitizeString(req.Destination),
		DriverID:          req.DriverID,
		VehicleID:         req.VehicleID,
		CargoWeight:       req.CargoWeight,
		CargoDescription:  utils.SanitizeText(req.CargoDescription),
		EstimatedDistance: req.EstimatedDistance,
		EstimatedDuration: req.EstimatedDuration,
		Priority:          priority,
		Status:            domainTrip.StatusDraft,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		Notes:             utils.SanitizeText(req.Notes),
		CreatedBy:         &createdBy,
	}

	if err := s.createWithNumber(ctx, t); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)

	logger.Info("Trip created",
		zap.String("trip_id", t.ID.String()),
		zap.String("trip_number", t.TripNumber),
		zap.String("created_by", createdBy.String()),
		zap.String("event", "trip_created"),
	)

	return s.Get(ctx, t.ID)
}

// createWithNumber allocates the next trip number and inserts the trip in
// one transaction, retrying when a concurrent insert took the same number.
func (s *Service) createWithNumber(ctx context.Context, t *domainTrip.Trip) error {
	var err error
	for attempt := 1; attempt <= tripNumberAttempts; attempt++ {
		err = s.txm.WithinTx(ctx, func(ctx context.Context) error {
			day := s.now()
			last, err := s.tripRepo.LastNumberWithPrefix(ctx, domainTrip.NumberPrefix(day))
			if err != nil {
				return err
			}
			t.TripNumber = domainTrip.NextNumber(day, last)
			return s.tripRepo.Create(ctx, t)
		})
		if !appErrors.IsUniqueViolation(err, "trip_number") {
			return err
		}
		logger.Warn("Trip number taken, retrying",
			zap.String("trip_number", t.TripNumber),
			zap.Int("attempt", attempt),
		)
	}
	return appErrors.NewAppError("TRIP_NUMBER_CONFLICT", "Could not allocate a trip number", err)
}

// checkAssignment verifies the driver and vehicle exist, are active and
// that the cargo fits.
func (s *Service) checkAssignment(ctx context.Context, driverID, vehicleID uuid.UUID, cargoWeight float64) error {
	d, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return err
	}
	if !d.IsActive {
		return appErrors.NewAppError("DRIVER_INACTIVE", "Driver is inactive", domainDriver.ErrDriverInactive)
	}

	v, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return err
	}
	if !v.IsActive {
		return appErrors.NewAppError("VEHICLE_INACTIVE", "Vehicle is inactive", domainVehicle.ErrVehicleInactive)
	}
	if !v.CanCarry(cargoWeight) {
		return appErrors.NewAppError(CodeCargoExceedsCapacity, "Cargo weight exceeds vehicle capacity", nil)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, tripID uuid.UUID) (*TripResponse, error) {
	t, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	resp := ToTripResponse(t, s.now())
	return &resp, nil
}

// Update edits a trip while it is still a draft.
func (s *Service) Update(ctx context.Context, tripID uuid.UUID, req *UpdateTripRequest) (*TripResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	t, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if t.Status != domainTrip.StatusDraft {
		return nil, appErrors.NewAppError(CodeTripNotDraft, "Only draft trips can be edited", domainTrip.ErrTripNotEditable)
	}

	if req.Origin != nil {
		t.Origin = utils.SanitizeString(*req.Origin)
	}
	if req.Destination != nil {
		t.Destination = utils.SanitizeString(*req.Destination)
	}
	if req.DriverID != nil {
		t.DriverID = *req.DriverID
	}
	if req.VehicleID != nil {
		t.VehicleID = *req.VehicleID
	}
	if req.CargoWeight != nil {
		t.CargoWeight = *req.CargoWeight
	}
	if req.CargoDescription != nil {
		t.CargoDescription = utils.SanitizeText(*req.CargoDescription)
	}
	if req.EstimatedDistance != nil {
		t.EstimatedDistance = req.EstimatedDistance
	}
	if req.EstimatedDuration != nil {
		t.EstimatedDuration = req.EstimatedDuration
	}
	if req.Priority != nil {
		t.Priority = domainTrip.Priority(*req.Priority)
	}
	if req.StartDate != nil {
		t.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		t.EndDate = req.EndDate
	}
	if req.Notes != nil {
		t.Notes = utils.SanitizeText(*req.Notes)
	}

	if err := ValidateSchedule(t.StartDate, t.EndDate); err != nil {
		return nil, err
	}
	if req.DriverID != nil || req.VehicleID != nil || req.CargoWeight != nil {
		if err := s.checkAssignment(ctx, t.DriverID, t.VehicleID, t.CargoWeight); err != nil {
			return nil, err
		}
	}

	if err := s.tripRepo.Update(ctx, t); err != nil {
		return nil, err
	}

	logger.Info("Trip updated",
		zap.String("trip_id", t.ID.String()),
		zap.String("event", "trip_updated"),
	)

	return s.Get(ctx, t.ID)
}

// Dispatch assigns the trip to the road. Driver and vehicle rows are locked
// so two dispatches cannot claim the same vehicle.
func (s *Service) Dispatch(ctx context.Context, tripID, dispatchedBy uuid.UUID) (*TripResponse, error) {
	var t *domainTrip.Trip
	var from domainTrip.Status

	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if t, err = s.tripRepo.GetForUpdate(ctx, tripID); err != nil {
			return err
		}
		from = t.Status
		if t.Status != domainTrip.StatusDraft {
			return appErrors.NewAppError(CodeTripNotDraft, "Only draft trips can be dispatched", nil)
		}

		d, err := s.driverRepo.GetForUpdate(ctx, t.DriverID)
		if err != nil {
			return err
		}
		v, err := s.vehicleRepo.GetForUpdate(ctx, t.VehicleID)
		if err != nil {
			return err
		}

		now := s.now()
		if err := CheckDispatch(t, d, v, timeutil.DateOnly(now)); err != nil {
			return err
		}

		t.Status = domainTrip.StatusDispatched
		t.DispatchedBy = &dispatchedBy
		t.StartDate = &now
		v.Status = domainVehicle.StatusOnTrip

		if err := s.tripRepo.Update(ctx, t); err != nil {
			return err
		}
		return s.vehicleRepo.Update(ctx, v)
	})
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, t, from, "trip_dispatched")
	return s.Get(ctx, tripID)
}

func (s *Service) Start(ctx context.Context, tripID uuid.UUID) (*TripResponse, error) {
	var t *domainTrip.Trip
	var from domainTrip.Status

	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if t, err = s.tripRepo.GetForUpdate(ctx, tripID); err != nil {
			return err
		}
		from = t.Status
		if err := ValidateStatusTransition(t.Status, domainTrip.StatusInProgress); err != nil {
			return err
		}

		now := s.now()
		t.Status = domainTrip.StatusInProgress
		t.ActualStartTime = &now
		return s.tripRepo.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, t, from, "trip_started")
	return s.Get(ctx, tripID)
}

// Complete closes an in-progress trip, releases the vehicle, advances its
// odometer and records the trip on the driver's ledger. Fuel is not
// reconciled here and is recorded as zero.
func (s *Service) Complete(ctx context.Context, tripID uuid.UUID, req *CompleteTripRequest) (*TripResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	var t *domainTrip.Trip
	var from domainTrip.Status

	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if t, err = s.tripRepo.GetForUpdate(ctx, tripID); err != nil {
			return err
		}
		from = t.Status
		if err := ValidateStatusTransition(t.Status, domainTrip.StatusCompleted); err != nil {
			return err
		}

		if _, err := s.driverRepo.GetForUpdate(ctx, t.DriverID); err != nil {
			return err
		}
		v, err := s.vehicleRepo.GetForUpdate(ctx, t.VehicleID)
		if err != nil {
			return err
		}
		perf, err := s.driverRepo.GetPerformance(ctx, t.DriverID)
		if err != nil {
			return err
		}

		now := s.now()
		t.Status = domainTrip.StatusCompleted
		t.ActualEndTime = &now
		t.EndDate = &now
		if req.ActualDistance != nil {
			t.ActualDistance = req.ActualDistance
		}
		if req.ActualDuration != nil {
			t.ActualDuration = req.ActualDuration
		}

		distance := 0.0
		if req.ActualDistance != nil {
			distance = *req.ActualDistance
		}
		if v.Status == domainVehicle.StatusOnTrip && t.DispatchedBy != nil {
			v.Status = domainVehicle.StatusAvailable
		}
		v.Odometer += distance
		perf.Record(true, distance, 0, now)

		if err := s.tripRepo.Update(ctx, t); err != nil {
			return err
		}
		if err := s.vehicleRepo.Update(ctx, v); err != nil {
			return err
		}
		return s.driverRepo.UpdatePerformance(ctx, perf)
	})
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, t, from, "trip_completed")
	return s.Get(ctx, tripID)
}

func (s *Service) Cancel(ctx context.Context, tripID uuid.UUID, req *CancelTripRequest) (*TripResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	var t *domainTrip.Trip
	var from domainTrip.Status

	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if t, err = s.tripRepo.GetForUpdate(ctx, tripID); err != nil {
			return err
		}
		from = t.Status
		if err := ValidateStatusTransition(t.Status, domainTrip.StatusCancelled); err != nil {
			return err
		}
		return s.cancelLocked(ctx, t, utils.SanitizeText(req.Reason))
	})
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, t, from, "trip_cancelled")
	return s.Get(ctx, tripID)
}

// cancelLocked applies the cancellation side effects to a trip already
// locked by the caller's transaction. The vehicle is only released when
// this trip is the one holding it.
func (s *Service) cancelLocked(ctx context.Context, t *domainTrip.Trip, reason string) error {
	if _, err := s.driverRepo.GetForUpdate(ctx, t.DriverID); err != nil {
		return err
	}
	v, err := s.vehicleRepo.GetForUpdate(ctx, t.VehicleID)
	if err != nil {
		return err
	}
	perf, err := s.driverRepo.GetPerformance(ctx, t.DriverID)
	if err != nil {
		return err
	}

	now := s.now()
	t.Status = domainTrip.StatusCancelled
	t.CancellationReason = reason
	t.EndDate = &now
	perf.Record(false, 0, 0, now)

	if err := s.tripRepo.Update(ctx, t); err != nil {
		return err
	}
	if v.Status == domainVehicle.StatusOnTrip && t.DispatchedBy != nil {
		v.Status = domainVehicle.StatusAvailable
		if err := s.vehicleRepo.Update(ctx, v); err != nil {
			return err
		}
	}
	return s.driverRepo.UpdatePerformance(ctx, perf)
}

// SetStatus is the administrative override for moving trips in and out of
// delayed.
func (s *Service) SetStatus(ctx context.Context, tripID uuid.UUID, req *SetStatusRequest) (*TripResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	next := domainTrip.Status(req.Status)
	var t *domainTrip.Trip
	var from domainTrip.Status

	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if t, err = s.tripRepo.GetForUpdate(ctx, tripID); err != nil {
			return err
		}
		from = t.Status
		if err := ValidateAdminTransition(t.Status, next); err != nil {
			return err
		}

		switch next {
		case domainTrip.StatusCancelled:
			reason := utils.SanitizeText(req.Reason)
			if reason == "" {
				reason = "Cancelled while delayed"
			}
			return s.cancelLocked(ctx, t, reason)
		case domainTrip.StatusInProgress:
			// A trip delayed straight from draft never passed dispatch and
			// holds no vehicle.
			if t.DispatchedBy == nil {
				return appErrors.NewAppError(CodeTripNotDispatched,
					"Trip was never dispatched; cancel it or dispatch a new trip", nil)
			}
			if t.ActualStartTime == nil {
				now := s.now()
				t.ActualStartTime = &now
			}
		}

		t.Status = next
		return s.tripRepo.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, t, from, "trip_status_overridden")
	return s.Get(ctx, tripID)
}

// afterTransition runs the non-transactional follow-ups of a committed
// transition. Failures here are logged only.
func (s *Service) afterTransition(ctx context.Context, t *domainTrip.Trip, from domainTrip.Status, name string) {
	now := s.now()
	e := event.New(event.TripStatusChanged, t.ID, map[string]interface{}{
		"trip_id":     t.ID.String(),
		"trip_number": t.TripNumber,
		"from":        string(from),
		"to":          string(t.Status),
		"vehicle_id":  t.VehicleID.String(),
		"driver_id":   t.DriverID.String(),
		"at":          now.UTC(),
	})
	if err := s.publisher.Publish(ctx, e); err != nil {
		logger.Warn("Failed to publish trip event",
			zap.String("trip_id", t.ID.String()),
			zap.Error(err),
		)
	}
	s.invalidateStats(ctx)

	logger.Info("Trip status changed",
		zap.String("trip_id", t.ID.String()),
		zap.String("trip_number", t.TripNumber),
		zap.String("from", string(from)),
		zap.String("to", string(t.Status)),
		zap.String("event", name),
	)
}

func (s *Service) invalidateStats(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.KeyTripStats, cache.KeyTripDashboard); err != nil {
		logger.Warn("Failed to invalidate trip stats cache", zap.Error(err))
	}
}

func (s *Service) List(ctx context.Context, req *TripFilterRequest) (*TripListResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid filter", err)
	}

	page, pageSize := utils.NormalizePage(req.Page, req.PageSize)
	filter := &domainTrip.Filter{
		DriverID:    req.DriverID,
		VehicleID:   req.VehicleID,
		StartAfter:  req.StartAfter,
		StartBefore: req.StartBefore,
		Search:      utils.SanitizeString(req.Search),
		Page:        page,
		PageSize:    pageSize,
		SortBy:      req.SortBy,
		SortOrder:   req.SortOrder,
	}
	if req.Status != nil {
		status := domainTrip.Status(*req.Status)
		filter.Status = &status
	}
	if req.Priority != nil {
		priority := domainTrip.Priority(*req.Priority)
		filter.Priority = &priority
	}

	trips, total, err := s.tripRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	items := make([]TripResponse, 0, len(trips))
	for _, t := range trips {
		items = append(items, ToTripResponse(t, now))
	}

	return &TripListResponse{
		Trips:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: utils.TotalPages(total, pageSize),
	}, nil
}

// Stats returns per-status counts, served from cache when possible.
func (s *Service) Stats(ctx context.Context) (*domainTrip.Statistics, error) {
	var stats domainTrip.Statistics
	err := s.cache.GetJSON(ctx, cache.KeyTripStats, &stats)
	if err == nil {
		return &stats, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		logger.Warn("Failed to read trip stats cache", zap.Error(err))
	}

	fresh, err := s.tripRepo.GetStatistics(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetJSON(ctx, cache.KeyTripStats, fresh, s.statsTTL); err != nil {
		logger.Warn("Failed to write trip stats cache", zap.Error(err))
	}
	return fresh, nil
}

func (s *Service) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	var cached DashboardResponse
	err := s.cache.GetJSON(ctx, cache.KeyTripDashboard, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		logger.Warn("Failed to read trip dashboard cache", zap.Error(err))
	}

	now := s.now()
	dash, err := s.tripRepo.GetDashboard(ctx, now.Add(-overdueGrace))
	if err != nil {
		return nil, err
	}

	resp := &DashboardResponse{
		Total:     dash.Total,
		Active:    dash.Active,
		Completed: dash.Completed,
		Cancelled: dash.Cancelled,
		Overdue:   dash.Overdue,
		Recent:    make([]TripResponse, 0, len(dash.Recent)),
	}
	for _, t := range dash.Recent {
		resp.Recent = append(resp.Recent, ToTripResponse(t, now))
	}

	if err := s.cache.SetJSON(ctx, cache.KeyTripDashboard, resp, s.statsTTL); err != nil {
		logger.Warn("Failed to write trip dashboard cache", zap.Error(err))
	}
	return resp, nil
}

func (s *Service) AllowedTransitions(ctx context.Context, tripID uuid.UUID) ([]domainTrip.Status, error) {
	t, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return GetAllowedTransitions(t.Status), nil
}
