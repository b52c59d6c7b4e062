package alert

import (
	"context"
	"errors"
	"time"

	domainAlert "fleet-campus-admin/internal/domain/alert"
	domainDriver "fleet-campus-admin/internal/domain/driver"
	"fleet-campus-admin/internal/domain/event"
	domainFuel "fleet-campus-admin/internal/domain/fuel"
	"fleet-campus-admin/internal/domain/user"
	domainVehicle "fleet-campus-admin/internal/domain/vehicle"
	"fleet-campus-admin/internal/logger"
	appErrors "fleet-campus-admin/pkg/errors"
	"fleet-campus-admin/pkg/timeutil"
	"fleet-campus-admin/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DriverLister interface {
	List(ctx context.Context, filter *domainDriver.Filter) ([]*domainDriver.Driver, int64, error)
}

type VehicleLister interface {
	List(ctx context.Context, filter *domainVehicle.Filter) ([]*domainVehicle.Vehicle, int64, error)
}

type FuelReader interface {
	ListBudgets(ctx context.Context, activeOnly bool) ([]*domainFuel.Budget, error)
	GetEfficiencyReport(ctx context.Context) ([]*domainFuel.VehicleEfficiency, error)
}

// Service raises compliance and spending alerts and lets staff work them.
type Service struct {
	repo      domainAlert.Repository
	drivers   DriverLister
	vehicles  VehicleLister
	fuel      FuelReader
	publisher event.Publisher
	// minEfficiency is the km/l floor for low efficiency alerts. Zero
	// disables them.
	minEfficiency float64
	now           func() time.Time
}

func NewService(
	repo domainAlert.Repository,
	drivers DriverLister,
	vehicles VehicleLister,
	fuel FuelReader,
	publisher event.Publisher,
	minEfficiency float64,
) *Service {
	return &Service{
		repo:          repo,
		drivers:       drivers,
		vehicles:      vehicles,
		fuel:          fuel,
		publisher:     publisher,
		minEfficiency: minEfficiency,
		now:           time.Now,
	}
}

// handlingPermission is the permission needed to act on an alert type.
var handlingPermission = map[domainAlert.Type]user.Permission{
	domainAlert.TypeLicenseExpiry:      user.PermManageDriverRecords,
	domainAlert.TypeInsuranceExpiry:    user.PermManageFleet,
	domainAlert.TypeRegistrationExpiry: user.PermManageFleet,
	domainAlert.TypeMaintenanceDue:     user.PermManageMaintenance,
	domainAlert.TypeBudgetExceeded:     user.PermManageFuel,
	domainAlert.TypeLowFuelEfficiency:  user.PermManageFuel,
}

func canHandle(role user.Role, t domainAlert.Type) bool {
	perm, ok := handlingPermission[t]
	if !ok {
		return role == user.RoleAdmin
	}
	return role.Can(perm)
}

func (s *Service) List(ctx context.Context, req *FilterRequest) (*ListResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid filter", err)
	}

	page, pageSize := utils.NormalizePage(req.Page, req.PageSize)
	filter := &domainAlert.Filter{
		OpenOnly:  req.OpenOnly,
		VehicleID: req.VehicleID,
		DriverID:  req.DriverID,
		Page:      page,
		PageSize:  pageSize,
	}
	if req.Type != nil {
		filter.Types = []domainAlert.Type{domainAlert.Type(*req.Type)}
	}
	if req.Severity != nil {
		severity := domainAlert.Severity(*req.Severity)
		filter.Severity = &severity
	}
	if req.Status != nil {
		status := domainAlert.Status(*req.Status)
		filter.Status = &status
	}

	alerts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	today := timeutil.DateOnly(s.now())
	items := make([]Response, 0, len(alerts))
	for _, a := range alerts {
		items = append(items, ToResponse(a, today))
	}

	return &ListResponse{
		Alerts:     items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: utils.TotalPages(total, pageSize),
	}, nil
}

func (s *Service) Get(ctx context.Context, alertID uuid.UUID) (*Response, error) {
	a, err := s.repo.GetByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	resp := ToResponse(a, timeutil.DateOnly(s.now()))
	return &resp, nil
}

func (s *Service) Summary(ctx context.Context) (*SummaryResponse, error) {
	summary, err := s.repo.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return ToSummaryResponse(summary), nil
}

func (s *Service) Acknowledge(ctx context.Context, alertID, userID uuid.UUID, role user.Role) (*Response, error) {
	return s.transition(ctx, alertID, role, func(a *domainAlert.Alert, now time.Time) error {
		return a.Acknowledge(userID, now)
	})
}

func (s *Service) Resolve(ctx context.Context, alertID, userID uuid.UUID, role user.Role, req *ResolveRequest) (*Response, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}
	action := utils.SanitizeText(req.ActionTaken)
	return s.transition(ctx, alertID, role, func(a *domainAlert.Alert, now time.Time) error {
		return a.Resolve(userID, now, action)
	})
}

func (s *Service) Dismiss(ctx context.Context, alertID, userID uuid.UUID, role user.Role) (*Response, error) {
	return s.transition(ctx, alertID, role, func(a *domainAlert.Alert, now time.Time) error {
		return a.Dismiss(userID, now)
	})
}

func (s *Service) transition(
	ctx context.Context,
	alertID uuid.UUID,
	role user.Role,
	apply func(a *domainAlert.Alert, now time.Time) error,
) (*Response, error) {
	a, err := s.repo.GetByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if !canHandle(role, a.Type) {
		return nil, appErrors.NewAppError(appErrors.CodeForbidden, "Your role cannot act on this alert", nil)
	}

	from := a.Status
	now := s.now()
	if err := apply(a, now); err != nil {
		if errors.Is(err, domainAlert.ErrAlertNotActive) || errors.Is(err, domainAlert.ErrAlertClosed) {
			return nil, appErrors.NewAppError(appErrors.CodeInvalidTransition, err.Error(), err)
		}
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	logger.Info("Alert status changed",
		zap.String("alert_id", a.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(a.Status)),
	)

	resp := ToResponse(a, timeutil.DateOnly(now))
	return &resp, nil
}
