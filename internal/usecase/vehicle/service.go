package vehicle

import (
	"context"
	"errors"
	"time"

	"fleet-campus-admin/internal/domain/blob"
	domainVehicle "fleet-campus-admin/internal/domain/vehicle"
	"fleet-campus-admin/internal/logger"
	appErrors "fleet-campus-admin/pkg/errors"
	"fleet-campus-admin/pkg/timeutil"
	"fleet-campus-admin/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements vehicle use cases
type Service struct {
	vehicleRepo domainVehicle.Repository
	store       blob.Store
	now         func() time.Time
}

func NewService(vehicleRepo domainVehicle.Repository, store blob.Store) *Service {
	return &Service{
		vehicleRepo: vehicleRepo,
		store:       store,
		now:         time.Now,
	}
}

func (s *Service) today() time.Time {
	return timeutil.DateOnly(s.now())
}

func (s *Service) Create(ctx context.Context, req *CreateVehicleRequest) (*VehicleResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}
	if err := ValidateServiceDates(req.LastServiceDate, req.NextServiceDue); err != nil {
		return nil, err
	}

	v := &domainVehicle.Vehicle{
		Name:               utils.SanitizeString(req.Name),
		Make:               utils.SanitizeString(req.Make),
		Model:              utils.SanitizeString(req.Model),
		Year:               req.Year,
		LicensePlate:       normalizePlate(req.LicensePlate),
		VIN:                utils.SanitizeOptional(req.VIN),
		VehicleType:        utils.SanitizeString(req.VehicleType),
		FuelType:           domainVehicle.FuelType(req.FuelType),
		Capacity:           req.Capacity,
		Odometer:           req.Odometer,
		FuelCapacity:       req.FuelCapacity,
		InsuranceExpiry:    req.InsuranceExpiry,
		RegistrationExpiry: req.RegistrationExpiry,
		LastServiceDate:    req.LastServiceDate,
		NextServiceDue:     req.NextServiceDue,
		Status:             domainVehicle.StatusAvailable,
		IsActive:           true,
	}
	v.DefaultNextService()

	if err := s.vehicleRepo.Create(ctx, v); err != nil {
		return nil, translateUnique(err)
	}

	logger.Info("Vehicle created",
		zap.String("vehicle_id", v.ID.String()),
		zap.String("license_plate", v.LicensePlate),
		zap.String("event", "vehicle_created"),
	)

	resp := ToVehicleResponse(v, s.today())
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, vehicleID uuid.UUID) (*VehicleResponse, error) {
	v, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	resp := ToVehicleResponse(v, s.today())
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, vehicleID uuid.UUID, req *UpdateVehicleRequest) (*VehicleResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	v, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		v.Name = utils.SanitizeString(*req.Name)
	}
	if req.Make != nil {
		v.Make = utils.SanitizeString(*req.Make)
	}
	if req.Model != nil {
		v.Model = utils.SanitizeString(*req.Model)
	}
	if req.Year != nil {
		v.Year = *req.Year
	}
	if req.LicensePlate != nil {
		v.LicensePlate = normalizePlate(*req.LicensePlate)
	}
	if req.VIN != nil {
		v.VIN = utils.SanitizeOptional(req.VIN)
	}
	if req.VehicleType != nil {
		v.VehicleType = utils.SanitizeString(*req.VehicleType)
	}
	if req.FuelType != nil {
		v.FuelType = domainVehicle.FuelType(*req.FuelType)
	}
	if req.Capacity != nil {
		v.Capacity = *req.Capacity
	}
	if req.Odometer != nil {
		if *req.Odometer < v.Odometer {
			return nil, appErrors.NewAppError(appErrors.CodeValidation, "Odometer cannot decrease", nil)
		}
		v.Odometer = *req.Odometer
	}
	if req.FuelCapacity != nil {
		v.FuelCapacity = req.FuelCapacity
	}
	if req.InsuranceExpiry != nil {
		v.InsuranceExpiry = req.InsuranceExpiry
	}
	if req.RegistrationExpiry != nil {
		v.RegistrationExpiry = req.RegistrationExpiry
	}
	if req.LastServiceDate != nil {
		v.LastServiceDate = req.LastServiceDate
	}
	if req.NextServiceDue != nil {
		v.NextServiceDue = req.NextServiceDue
	}
	if err := ValidateServiceDates(v.LastServiceDate, v.NextServiceDue); err != nil {
		return nil, err
	}
	v.DefaultNextService()

	if req.Status != nil {
		next := domainVehicle.Status(*req.Status)
		if err := ValidateStatusChange(v.Status, next); err != nil {
			return nil, err
		}
		v.Status = next
	}

	if err := s.vehicleRepo.Update(ctx, v); err != nil {
		return nil, translateUnique(err)
	}

	logger.Info("Vehicle updated",
		zap.String("vehicle_id", v.ID.String()),
		zap.String("event", "vehicle_updated"),
	)

	resp := ToVehicleResponse(v, s.today())
	return &resp, nil
}

// Delete retires the vehicle. Rows are kept for trip history.
func (s *Service) Delete(ctx context.Context, vehicleID uuid.UUID) error {
	v, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return err
	}
	if v.Status == domainVehicle.StatusOnTrip {
		return appErrors.NewAppError("VEHICLE_ON_TRIP", "Vehicle is on a trip and cannot be retired", domainVehicle.ErrVehicleOnTrip)
	}

	v.IsActive = false
	v.Status = domainVehicle.StatusRetired
	if err := s.vehicleRepo.Update(ctx, v); err != nil {
		return err
	}

	logger.Info("Vehicle retired",
		zap.String("vehicle_id", v.ID.String()),
		zap.String("event", "vehicle_retired"),
	)
	return nil
}

func (s *Service) List(ctx context.Context, req *VehicleFilterRequest) (*VehicleListResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid filter", err)
	}

	page, pageSize := utils.NormalizePage(req.Page, req.PageSize)
	filter := &domainVehicle.Filter{
		IsActive:  req.IsActive,
		Search:    utils.SanitizeString(req.Search),
		Page:      page,
		PageSize:  pageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	if req.Status != nil {
		status := domainVehicle.Status(*req.Status)
		filter.Status = &status
	}
	if req.FuelType != nil {
		fuelType := domainVehicle.FuelType(*req.FuelType)
		filter.FuelType = &fuelType
	}

	vehicles, total, err := s.vehicleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	today := s.today()
	items := make([]VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		items = append(items, ToVehicleResponse(v, today))
	}

	return &VehicleListResponse{
		Vehicles:   items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: utils.TotalPages(total, pageSize),
	}, nil
}

func (s *Service) ListAvailable(ctx context.Context) ([]AvailableVehicle, error) {
	vehicles, err := s.vehicleRepo.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]AvailableVehicle, 0, len(vehicles))
	for _, v := range vehicles {
		items = append(items, AvailableVehicle{
			ID:           v.ID,
			Name:         v.Name,
			LicensePlate: v.LicensePlate,
			Capacity:     v.Capacity,
			Model:        v.Model,
		})
	}
	return items, nil
}

// CheckCapacity reports whether cargoWeight fits the vehicle. Unknown and
// inactive vehicles are both reported as not found.
func (s *Service) CheckCapacity(ctx context.Context, vehicleID uuid.UUID, cargoWeight float64) (*CapacityCheckResponse, error) {
	if cargoWeight < 0 {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Cargo weight cannot be negative", nil)
	}

	v, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if !v.IsActive {
		return nil, domainVehicle.ErrVehicleNotFound
	}

	return &CapacityCheckResponse{
		CanCarry:        v.CanCarry(cargoWeight),
		VehicleCapacity: v.Capacity,
		CargoWeight:     cargoWeight,
	}, nil
}

func (s *Service) UploadDocument(ctx context.Context, vehicleID, uploadedBy uuid.UUID, req *UploadDocumentRequest, file *blob.Upload) (*DocumentResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}
	if file == nil || file.Body == nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", errors.New("file is required"))
	}

	if _, err := s.vehicleRepo.GetByID(ctx, vehicleID); err != nil {
		return nil, err
	}

	obj, err := s.store.Put(ctx, blob.Key("vehicles", vehicleID, file.Filename, s.now()), file.Body, file.ContentType)
	if err != nil {
		return nil, err
	}

	doc := &domainVehicle.Document{
		VehicleID:  vehicleID,
		Type:       domainVehicle.DocumentType(req.Type),
		Title:      utils.SanitizeString(req.Title),
		FileKey:    obj.Key,
		FileURL:    obj.URL,
		ExpiryDate: req.ExpiryDate,
		UploadedBy: &uploadedBy,
	}
	if err := s.vehicleRepo.CreateDocument(ctx, doc); err != nil {
		if delErr := s.store.Delete(ctx, obj.Key); delErr != nil {
			logger.Warn("Failed to remove orphaned upload", zap.String("key", obj.Key), zap.Error(delErr))
		}
		return nil, err
	}

	logger.Info("Vehicle document uploaded",
		zap.String("vehicle_id", vehicleID.String()),
		zap.String("document_id", doc.ID.String()),
		zap.String("event", "vehicle_document_uploaded"),
	)

	resp := ToDocumentResponse(doc, s.today())
	return &resp, nil
}

func (s *Service) ListDocuments(ctx context.Context, vehicleID uuid.UUID) ([]DocumentResponse, error) {
	if _, err := s.vehicleRepo.GetByID(ctx, vehicleID); err != nil {
		return nil, err
	}

	docs, err := s.vehicleRepo.ListDocuments(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	today := s.today()
	items := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		items = append(items, ToDocumentResponse(d, today))
	}
	return items, nil
}
