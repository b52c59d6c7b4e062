package fuel

import (
	"context"
	"errors"
	"time"

	"fleet-campus-admin/internal/domain/cache"
	domainFuel "fleet-campus-admin/internal/domain/fuel"
	"fleet-campus-admin/internal/domain/txn"
	domainVehicle "fleet-campus-admin/internal/domain/vehicle"
	"fleet-campus-admin/internal/logger"
	appErrors "fleet-campus-admin/pkg/errors"
	"fleet-campus-admin/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service records fuel logs, operating expenses and budgets
type Service struct {
	txm         txn.Manager
	fuelRepo    domainFuel.Repository
	vehicleRepo domainVehicle.Repository
	cache       cache.Store
	statsTTL    time.Duration
	now         func() time.Time
}

func NewService(
	txm txn.Manager,
	fuelRepo domainFuel.Repository,
	vehicleRepo domainVehicle.Repository,
	cacheStore cache.Store,
	statsTTL time.Duration,
) *Service {
	return &Service{
		txm:         txm,
		fuelRepo:    fuelRepo,
		vehicleRepo: vehicleRepo,
		cache:       cacheStore,
		statsTTL:    statsTTL,
		now:         time.Now,
	}
}

// CreateLog stores a refuelling and derives distance and efficiency from
// the vehicle's preceding log.
func (s *Service) CreateLog(ctx context.Context, createdBy uuid.UUID, req *CreateLogRequest) (*LogResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}
	if _, err := s.vehicleRepo.GetByID(ctx, req.VehicleID); err != nil {
		return nil, err
	}

	l := &domainFuel.Log{
		VehicleID:       req.VehicleID,
		TripID:          req.TripID,
		DriverID:        req.DriverID,
		Station:         utils.SanitizeString(req.Station),
		FuelDate:        req.FuelDate,
		FuelLiters:      req.FuelLiters,
		CostPerLiter:    req.CostPerLiter,
		TotalCost:       req.TotalCost,
		OdometerReading: req.OdometerReading,
		Notes:           utils.SanitizeText(req.Notes),
		CreatedBy:       &createdBy,
	}
	l.FillTotalCost()

	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		previous, err := s.fuelRepo.PreviousLog(ctx, l.VehicleID, l.FuelDate, uuid.Nil)
		if err != nil {
			return err
		}
		l.ApplyPrevious(previous)
		return s.fuelRepo.CreateLog(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)

	logger.Info("Fuel log recorded",
		zap.String("fuel_log_id", l.ID.String()),
		zap.String("vehicle_id", l.VehicleID.String()),
		zap.Float64("liters", l.FuelLiters),
		zap.String("event", "fuel_log_created"),
	)

	resp := ToLogResponse(l)
	return &resp, nil
}

func (s *Service) GetLog(ctx context.Context, logID uuid.UUID) (*LogResponse, error) {
	l, err := s.fuelRepo.GetLog(ctx, logID)
	if err != nil {
		return nil, err
	}
	resp := ToLogResponse(l)
	return &resp, nil
}

// UpdateLog edits a log and recomputes its derived fields against the
// preceding log, ignoring itself.
func (s *Service) UpdateLog(ctx context.Context, logID uuid.UUID, req *UpdateLogRequest) (*LogResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	var l *domainFuel.Log
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if l, err = s.fuelRepo.GetLog(ctx, logID); err != nil {
			return err
		}

		costChanged := false
		if req.Station != nil {
			l.Station = utils.SanitizeString(*req.Station)
		}
		if req.FuelDate != nil {
			l.FuelDate = *req.FuelDate
		}
		if req.FuelLiters != nil {
			l.FuelLiters = *req.FuelLiters
			costChanged = true
		}
		if req.CostPerLiter != nil {
			l.CostPerLiter = *req.CostPerLiter
			costChanged = true
		}
		if req.TotalCost != nil {
			l.TotalCost = *req.TotalCost
		} else if costChanged {
			l.TotalCost = 0
		}
		if req.OdometerReading != nil {
			l.OdometerReading = *req.OdometerReading
		}
		if req.Notes != nil {
			l.Notes = utils.SanitizeText(*req.Notes)
		}
		l.FillTotalCost()

		previous, err := s.fuelRepo.PreviousLog(ctx, l.VehicleID, l.FuelDate, l.ID)
		if err != nil {
			return err
		}
		l.ApplyPrevious(previous)
		return s.fuelRepo.UpdateLog(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)

	logger.Info("Fuel log updated",
		zap.String("fuel_log_id", l.ID.String()),
		zap.String("event", "fuel_log_updated"),
	)

	resp := ToLogResponse(l)
	return &resp, nil
}

func (s *Service) DeleteLog(ctx context.Context, logID uuid.UUID) error {
	if err := s.fuelRepo.DeleteLog(ctx, logID); err != nil {
		return err
	}
	s.invalidateStats(ctx)

	logger.Info("Fuel log deleted",
		zap.String("fuel_log_id", logID.String()),
		zap.String("event", "fuel_log_deleted"),
	)
	return nil
}

func (s *Service) ListLogs(ctx context.Context, req *LogFilterRequest) (*LogListResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid filter", err)
	}
	if err := ValidateDateRange(req.From, req.To); err != nil {
		return nil, err
	}

	page, pageSize := utils.NormalizePage(req.Page, req.PageSize)
	logs, total, err := s.fuelRepo.ListLogs(ctx, &domainFuel.LogFilter{
		VehicleID: req.VehicleID,
		DriverID:  req.DriverID,
		TripID:    req.TripID,
		From:      req.From,
		To:        req.To,
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		return nil, err
	}

	items := make([]LogResponse, 0, len(logs))
	for _, l := range logs {
		items = append(items, ToLogResponse(l))
	}

	return &LogListResponse{
		Logs:       items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: utils.TotalPages(total, pageSize),
	}, nil
}

// Stats aggregates logs of the last days. Only the default window is cached.
func (s *Service) Stats(ctx context.Context, days int) (*StatsResponse, error) {
	if days == 0 {
		days = DefaultStatsDays
	}
	if err := ValidateStatsDays(days); err != nil {
		return nil, err
	}

	cacheable := days == DefaultStatsDays
	if cacheable {
		var cached StatsResponse
		err := s.cache.GetJSON(ctx, cache.KeyFuelStats, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			logger.Warn("Failed to read fuel stats cache", zap.Error(err))
		}
	}

	since := s.now().AddDate(0, 0, -days)
	stats, err := s.fuelRepo.GetStats(ctx, since)
	if err != nil {
		return nil, err
	}

	resp := &StatsResponse{Days: days, Stats: *stats}
	if cacheable {
		if err := s.cache.SetJSON(ctx, cache.KeyFuelStats, resp, s.statsTTL); err != nil {
			logger.Warn("Failed to write fuel stats cache", zap.Error(err))
		}
	}
	return resp, nil
}

func (s *Service) EfficiencyReport(ctx context.Context) ([]EfficiencyRow, error) {
	rows, err := s.fuelRepo.GetEfficiencyReport(ctx)
	if err != nil {
		return nil, err
	}

	report := make([]EfficiencyRow, 0, len(rows))
	for _, r := range rows {
		report = append(report, EfficiencyRow{
			VehicleID:     r.VehicleID,
			VehicleName:   r.VehicleName,
			LicensePlate:  r.LicensePlate,
			AvgEfficiency: r.AvgEfficiency,
			TotalDistance: r.TotalDistance,
			TotalFuel:     r.TotalFuel,
			LogsCount:     r.LogsCount,
		})
	}
	return report, nil
}

func (s *Service) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	var cached DashboardResponse
	err := s.cache.GetJSON(ctx, cache.KeyFuelDashboard, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		logger.Warn("Failed to read fuel dashboard cache", zap.Error(err))
	}

	dash, err := s.fuelRepo.GetDashboard(ctx)
	if err != nil {
		return nil, err
	}

	resp := &DashboardResponse{
		TotalFuelLogs:      dash.TotalFuelLogs,
		TotalFuelConsumed:  dash.TotalFuelConsumed,
		TotalFuelCost:      dash.TotalFuelCost,
		AvgFuelEfficiency:  dash.AvgFuelEfficiency,
		TotalExpenses:      dash.TotalExpenses,
		TotalExpenseAmount: dash.TotalExpenseAmount,
	}
	if err := s.cache.SetJSON(ctx, cache.KeyFuelDashboard, resp, s.statsTTL); err != nil {
		logger.Warn("Failed to write fuel dashboard cache", zap.Error(err))
	}
	return resp, nil
}

func (s *Service) invalidateStats(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.KeyFuelStats, cache.KeyFuelDashboard); err != nil {
		logger.Warn("Failed to invalidate fuel stats cache", zap.Error(err))
	}
}
