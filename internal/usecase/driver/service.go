package driver

import (
	"context"
	"errors"
	"time"

	"fleet-campus-admin/internal/domain/blob"
	domainDriver "fleet-campus-admin/internal/domain/driver"
	"fleet-campus-admin/internal/logger"
	appErrors "fleet-campus-admin/pkg/errors"
	"fleet-campus-admin/pkg/timeutil"
	"fleet-campus-admin/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements driver use cases
type Service struct {
	driverRepo domainDriver.Repository
	store      blob.Store
	now        func() time.Time
}

func NewService(driverRepo domainDriver.Repository, store blob.Store) *Service {
	return &Service{
		driverRepo: driverRepo,
		store:      store,
		now:        time.Now,
	}
}

func (s *Service) today() time.Time {
	return timeutil.DateOnly(s.now())
}

func (s *Service) Create(ctx context.Context, req *CreateDriverRequest) (*DriverResponse, error) {
	req.Phone = utils.SanitizePhone(req.Phone)
	if req.EmergencyContactPhone != "" {
		req.EmergencyContactPhone = utils.SanitizePhone(req.EmergencyContactPhone)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}
	if err := ValidateLicenseDates(req.HireDate, req.LicenseExpiry); err != nil {
		return nil, err
	}

	status := domainDriver.StatusOffDuty
	if req.Status != "" {
		status = domainDriver.Status(req.Status)
	}

	d := &domainDriver.Driver{
		FirstName:             utils.SanitizeString(req.FirstName),
		LastName:              utils.SanitizeString(req.LastName),
		Email:                 utils.SanitizeEmail(req.Email),
		Phone:                 req.Phone,
		Address:               utils.SanitizeText(req.Address),
		DateOfBirth:           req.DateOfBirth,
		HireDate:              timeutil.DateOnly(req.HireDate),
		LicenseNumber:         utils.SanitizeString(req.LicenseNumber),
		LicenseType:           utils.SanitizeString(req.LicenseType),
		LicenseExpiry:         timeutil.DateOnly(req.LicenseExpiry),
		Status:                status,
		EmergencyContactName:  utils.SanitizeString(req.EmergencyContactName),
		EmergencyContactPhone: req.EmergencyContactPhone,
		Salary:                req.Salary,
		IsActive:              true,
	}

	if err := s.driverRepo.Create(ctx, d); err != nil {
		return nil, translateUnique(err)
	}

	logger.Info("Driver created",
		zap.String("driver_id", d.ID.String()),
		zap.String("license_number", d.LicenseNumber),
		zap.String("event", "driver_created"),
	)

	resp := ToDriverResponse(d, s.today())
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, driverID uuid.UUID) (*DriverResponse, error) {
	d, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	resp := ToDriverResponse(d, s.today())
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, driverID uuid.UUID, req *UpdateDriverRequest) (*DriverResponse, error) {
	if req.Phone != nil {
		phone := utils.SanitizePhone(*req.Phone)
		req.Phone = &phone
	}
	if req.EmergencyContactPhone != nil {
		phone := utils.SanitizePhone(*req.EmergencyContactPhone)
		req.EmergencyContactPhone = &phone
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	d, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		d.FirstName = utils.SanitizeString(*req.FirstName)
	}
	if req.LastName != nil {
		d.LastName = utils.SanitizeString(*req.LastName)
	}
	if req.Email != nil {
		d.Email = utils.SanitizeEmail(*req.Email)
	}
	if req.Phone != nil {
		d.Phone = *req.Phone
	}
	if req.Address != nil {
		d.Address = utils.SanitizeText(*req.Address)
	}
	if req.DateOfBirth != nil {
		d.DateOfBirth = req.DateOfBirth
	}
	if req.LicenseNumber != nil {
		d.LicenseNumber = utils.SanitizeString(*req.LicenseNumber)
	}
	if req.LicenseType != nil {
		d.LicenseType = utils.SanitizeString(*req.LicenseType)
	}
	if req.LicenseExpiry != nil {
		d.LicenseExpiry = timeutil.DateOnly(*req.LicenseExpiry)
		if err := ValidateLicenseDates(d.HireDate, d.LicenseExpiry); err != nil {
			return nil, err
		}
	}
	if req.EmergencyContactName != nil {
		d.EmergencyContactName = utils.SanitizeString(*req.EmergencyContactName)
	}
	if req.EmergencyContactPhone != nil {
		d.EmergencyContactPhone = *req.EmergencyContactPhone
	}
	if req.Salary != nil {
		d.Salary = req.Salary
	}

	if err := s.driverRepo.Update(ctx, d); err != nil {
		return nil, translateUnique(err)
	}

	logger.Info("Driver updated",
		zap.String("driver_id", d.ID.String()),
		zap.String("event", "driver_updated"),
	)

	resp := ToDriverResponse(d, s.today())
	return &resp, nil
}

func (s *Service) UpdateStatus(ctx context.Context, driverID uuid.UUID, req *UpdateStatusRequest) (*DriverResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	d, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if !d.IsActive {
		return nil, appErrors.NewAppError("DRIVER_INACTIVE", "Driver is inactive", domainDriver.ErrDriverInactive)
	}

	previous := d.Status
	d.Status = domainDriver.Status(req.Status)
	if err := s.driverRepo.Update(ctx, d); err != nil {
		return nil, err
	}

	logger.Info("Driver status changed",
		zap.String("driver_id", d.ID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(d.Status)),
		zap.String("event", "driver_status_changed"),
	)

	resp := ToDriverResponse(d, s.today())
	return &resp, nil
}

// Delete deactivates the driver and takes them off duty.
func (s *Service) Delete(ctx context.Context, driverID uuid.UUID) error {
	d, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return err
	}

	d.IsActive = false
	d.Status = domainDriver.StatusOffDuty
	if err := s.driverRepo.Update(ctx, d); err != nil {
		return err
	}

	logger.Info("Driver deactivated",
		zap.String("driver_id", d.ID.String()),
		zap.String("event", "driver_deactivated"),
	)
	return nil
}

func (s *Service) List(ctx context.Context, req *DriverFilterRequest) (*DriverListResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid filter", err)
	}

	today := s.today()
	page, pageSize := utils.NormalizePage(req.Page, req.PageSize)
	filter := &domainDriver.Filter{
		License:   domainDriver.LicenseFilter(req.License),
		IsActive:  req.IsActive,
		Search:    utils.SanitizeString(req.Search),
		Today:     today,
		Page:      page,
		PageSize:  pageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	if req.Status != nil {
		status := domainDriver.Status(*req.Status)
		filter.Status = &status
	}

	drivers, total, err := s.driverRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]DriverResponse, 0, len(drivers))
	for _, d := range drivers {
		items = append(items, ToDriverResponse(d, today))
	}

	return &DriverListResponse{
		Drivers:    items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: utils.TotalPages(total, pageSize),
	}, nil
}

func (s *Service) ListAvailable(ctx context.Context) ([]AvailableDriver, error) {
	drivers, err := s.driverRepo.ListAvailable(ctx, s.today())
	if err != nil {
		return nil, err
	}

	items := make([]AvailableDriver, 0, len(drivers))
	for _, d := range drivers {
		items = append(items, AvailableDriver{
			ID:            d.ID,
			FirstName:     d.FirstName,
			LastName:      d.LastName,
			LicenseNumber: d.LicenseNumber,
		})
	}
	return items, nil
}

func (s *Service) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	dash, err := s.driverRepo.GetDashboard(ctx, s.today())
	if err != nil {
		return nil, err
	}
	return &DashboardResponse{
		TotalDrivers:     dash.TotalDrivers,
		AvailableDrivers: dash.AvailableDrivers,
		ExpiredLicenses:  dash.ExpiredLicenses,
		ExpiringSoon:     dash.ExpiringSoon,
		AvgSafetyScore:   dash.AvgSafetyScore,
	}, nil
}

func (s *Service) GetPerformance(ctx context.Context, driverID uuid.UUID) (*PerformanceResponse, error) {
	perf, err := s.driverRepo.GetPerformance(ctx, driverID)
	if err != nil {
		return nil, err
	}
	return ToPerformanceResponse(perf), nil
}

func (s *Service) UpdatePerformance(ctx context.Context, driverID uuid.UUID, req *UpdatePerformanceRequest) (*PerformanceResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	perf, err := s.driverRepo.GetPerformance(ctx, driverID)
	if err != nil {
		return nil, err
	}

	if req.SafetyScore != nil {
		perf.SafetyScore = *req.SafetyScore
	}
	if req.OnTimePerformance != nil {
		perf.OnTimePerformance = *req.OnTimePerformance
	}
	if req.CustomerRating != nil {
		perf.CustomerRating = *req.CustomerRating
	}
	if req.Accidents != nil {
		perf.Accidents = *req.Accidents
	}
	if req.Violations != nil {
		perf.Violations = *req.Violations
	}

	if err := s.driverRepo.UpdatePerformance(ctx, perf); err != nil {
		return nil, err
	}

	logger.Info("Driver performance updated",
		zap.String("driver_id", driverID.String()),
		zap.Float64("safety_score", perf.SafetyScore),
		zap.String("event", "driver_performance_updated"),
	)
	return ToPerformanceResponse(perf), nil
}

func (s *Service) UploadDocument(ctx context.Context, driverID, uploadedBy uuid.UUID, req *UploadDocumentRequest, file *blob.Upload) (*DocumentResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}
	if file == nil || file.Body == nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", errors.New("file is required"))
	}

	if _, err := s.driverRepo.GetByID(ctx, driverID); err != nil {
		return nil, err
	}

	obj, err := s.store.Put(ctx, blob.Key("drivers", driverID, file.Filename, s.now()), file.Body, file.ContentType)
	if err != nil {
		return nil, err
	}

	doc := &domainDriver.Document{
		DriverID:   driverID,
		Type:       domainDriver.DocumentType(req.Type),
		Title:      utils.SanitizeString(req.Title),
		FileKey:    obj.Key,
		FileURL:    obj.URL,
		ExpiryDate: req.ExpiryDate,
		UploadedBy: &uploadedBy,
	}
	if err := s.driverRepo.CreateDocument(ctx, doc); err != nil {
		if delErr := s.store.Delete(ctx, obj.Key); delErr != nil {
			logger.Warn("Failed to remove orphaned upload", zap.String("key", obj.Key), zap.Error(delErr))
		}
		return nil, err
	}

	logger.Info("Driver document uploaded",
		zap.String("driver_id", driverID.String()),
		zap.String("document_id", doc.ID.String()),
		zap.String("event", "driver_document_uploaded"),
	)

	resp := ToDocumentResponse(doc, s.today())
	return &resp, nil
}

func (s *Service) ListDocuments(ctx context.Context, driverID uuid.UUID) ([]DocumentResponse, error) {
	if _, err := s.driverRepo.GetByID(ctx, driverID); err != nil {
		return nil, err
	}

	docs, err := s.driverRepo.ListDocuments(ctx, driverID)
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

// RecordAttendance stores the day's time sheet, replacing an existing entry
// for the same date.
func (s *Service) RecordAttendance(ctx context.Context, driverID uuid.UUID, req *AttendanceRequest) (*AttendanceResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	checkIn, err := parseClock(req.CheckIn)
	if err != nil {
		return nil, err
	}
	checkOut, err := parseClock(req.CheckOut)
	if err != nil {
		return nil, err
	}

	if _, err := s.driverRepo.GetByID(ctx, driverID); err != nil {
		return nil, err
	}

	attendance := &domainDriver.Attendance{
		DriverID: driverID,
		Date:     timeutil.DateOnly(req.Date),
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Status:   domainDriver.AttendanceStatus(req.Status),
		Notes:    utils.SanitizeText(req.Notes),
	}
	if err := s.driverRepo.UpsertAttendance(ctx, attendance); err != nil {
		return nil, err
	}

	logger.Info("Driver attendance recorded",
		zap.String("driver_id", driverID.String()),
		zap.String("date", attendance.Date.Format("2006-01-02")),
		zap.String("event", "driver_attendance_recorded"),
	)

	resp := ToAttendanceResponse(attendance)
	return &resp, nil
}

func (s *Service) ListAttendance(ctx context.Context, driverID uuid.UUID, from, to *time.Time) ([]AttendanceResponse, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "End date must not precede start date", nil)
	}
	if _, err := s.driverRepo.GetByID(ctx, driverID); err != nil {
		return nil, err
	}

	records, err := s.driverRepo.ListAttendance(ctx, driverID, from, to)
	if err != nil {
		return nil, err
	}

	items := make([]AttendanceResponse, 0, len(records))
	for _, a := range records {
		items = append(items, ToAttendanceResponse(a))
	}
	return items, nil
}
