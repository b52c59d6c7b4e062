package student

import (
	"context"
	"time"

	"fleet-campus-admin/internal/domain/event"
	domainStudent "fleet-campus-admin/internal/domain/student"
	"fleet-campus-admin/internal/domain/txn"
	"fleet-campus-admin/internal/logger"
	appErrors "fleet-campus-admin/pkg/errors"
	"fleet-campus-admin/pkg/timeutil"
	"fleet-campus-admin/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const studentIDAttempts = 3

// Service manages student records, attendance, results and the
// terminate/restore archive.
type Service struct {
	txm         txn.Manager
	studentRepo domainStudent.Repository
	publisher   event.Publisher
	now         func() time.Time
}

func NewService(txm txn.Manager, studentRepo domainStudent.Repository, publisher event.Publisher) *Service {
	return &Service{
		txm:         txm,
		studentRepo: studentRepo,
		publisher:   publisher,
		now:         time.Now,
	}
}

// Create enrols a student. The student id, institutional email and
// admission year are generated here.
func (s *Service) Create(ctx context.Context, req *CreateStudentRequest) (*StudentResponse, error) {
	req.Phone = utils.SanitizePhone(req.Phone)
	req.EmergencyContactPhone = utils.SanitizePhone(req.EmergencyContactPhone)
	req.PersonalEmail = utils.SanitizeEmail(req.PersonalEmail)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}
	now := s.now()
	if err := ValidateDateOfBirth(timeutil.DateOnly(req.DateOfBirth), timeutil.DateOnly(now)); err != nil {
		return nil, err
	}

	country := utils.SanitizeString(req.Country)
	if country == "" {
		country = domainStudent.DefaultCountry
	}

	st := &domainStudent.Student{
		AdmissionYear:            now.Year(),
		FirstName:                utils.SanitizeString(req.FirstName),
		LastName:                 utils.SanitizeString(req.LastName),
		DateOfBirth:              timeutil.DateOnly(req.DateOfBirth),
		Gender:                   domainStudent.Gender(req.Gender),
		Phone:                    req.Phone,
		PersonalEmail:            req.PersonalEmail,
		Address:                  utils.SanitizeText(req.Address),
		City:                     utils.SanitizeString(req.City),
		State:                    utils.SanitizeString(req.State),
		PostalCode:               utils.SanitizeString(req.PostalCode),
		Country:                  country,
		Program:                  domainStudent.Program(req.Program),
		Semester:                 req.Semester,
		BloodGroup:               req.BloodGroup,
		EmergencyContactName:     utils.SanitizeString(req.EmergencyContactName),
		EmergencyContactPhone:    req.EmergencyContactPhone,
		EmergencyContactRelation: utils.SanitizeString(req.EmergencyContactRelation),
	}

	if err := s.createWithStudentID(ctx, st); err != nil {
		return nil, err
	}

	logger.Info("Student created",
		zap.String("id", st.ID.String()),
		zap.String("student_id", st.StudentID),
		zap.String("program", string(st.Program)),
		zap.String("event", "student_created"),
	)

	resp := ToStudentResponse(st)
	return &resp, nil
}

// createWithStudentID allocates the next id in the programme's range for
// the admission year and inserts the student, retrying when a concurrent
// enrolment took the same id.
func (s *Service) createWithStudentID(ctx context.Context, st *domainStudent.Student) error {
	var err error
	for attempt := 1; attempt <= studentIDAttempts; attempt++ {
		err = s.txm.WithinTx(ctx, func(ctx context.Context) error {
			prefix := domainStudent.IDPrefix(st.Program, st.AdmissionYear)
			last, err := s.studentRepo.LastStudentID(ctx, prefix)
			if err != nil {
				return err
			}
			next, err := domainStudent.NextStudentID(st.Program, st.AdmissionYear, last)
			if err != nil {
				return appErrors.NewAppError("STUDENT_ID_EXHAUSTED", "No student ids left for this programme and year", err)
			}
			st.StudentID = next
			st.SyncEmailID()
			return s.studentRepo.Create(ctx, st)
		})
		if !isIdentityConflict(err) {
			return err
		}
		st.ID = uuid.Nil
		logger.Warn("Student id taken, retrying",
			zap.String("student_id", st.StudentID),
			zap.Int("attempt", attempt),
		)
	}
	return appErrors.NewAppError("STUDENT_ID_CONFLICT", "Could not allocate a student id", err)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*StudentResponse, error) {
	st, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToStudentResponse(st)
	return &resp, nil
}

func (s *Service) GetByStudentID(ctx context.Context, studentID string) (*StudentResponse, error) {
	st, err := s.studentRepo.GetByStudentID(ctx, utils.SanitizeString(studentID))
	if err != nil {
		return nil, err
	}
	resp := ToStudentResponse(st)
	return &resp, nil
}

// Update edits profile fields and re-derives the institutional email.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateStudentRequest) (*StudentResponse, error) {
	if req.Phone != nil {
		req.Phone = utils.StringPtr(utils.SanitizePhone(*req.Phone))
	}
	if req.EmergencyContactPhone != nil {
		req.EmergencyContactPhone = utils.StringPtr(utils.SanitizePhone(*req.EmergencyContactPhone))
	}
	if req.PersonalEmail != nil {
		req.PersonalEmail = utils.StringPtr(utils.SanitizeEmail(*req.PersonalEmail))
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	st, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		st.FirstName = utils.SanitizeString(*req.FirstName)
	}
	if req.LastName != nil {
		st.LastName = utils.SanitizeString(*req.LastName)
	}
	if req.DateOfBirth != nil {
		dob := timeutil.DateOnly(*req.DateOfBirth)
		if err := ValidateDateOfBirth(dob, timeutil.DateOnly(s.now())); err != nil {
			return nil, err
		}
		st.DateOfBirth = dob
	}
	if req.Gender != nil {
		st.Gender = domainStudent.Gender(*req.Gender)
	}
	if req.Phone != nil {
		st.Phone = *req.Phone
	}
	if req.PersonalEmail != nil {
		st.PersonalEmail = *req.PersonalEmail
	}
	if req.Address != nil {
		st.Address = utils.SanitizeText(*req.Address)
	}
	if req.City != nil {
		st.City = utils.SanitizeString(*req.City)
	}
	if req.State != nil {
		st.State = utils.SanitizeString(*req.State)
	}
	if req.PostalCode != nil {
		st.PostalCode = utils.SanitizeString(*req.PostalCode)
	}
	if req.Country != nil {
		st.Country = utils.SanitizeString(*req.Country)
	}
	if req.Semester != nil {
		st.Semester = *req.Semester
	}
	if req.BloodGroup != nil {
		st.BloodGroup = *req.BloodGroup
	}
	if req.EmergencyContactName != nil {
		st.EmergencyContactName = utils.SanitizeString(*req.EmergencyContactName)
	}
	if req.EmergencyContactPhone != nil {
		st.EmergencyContactPhone = *req.EmergencyContactPhone
	}
	if req.EmergencyContactRelation != nil {
		st.EmergencyContactRelation = utils.SanitizeString(*req.EmergencyContactRelation)
	}
	st.SyncEmailID()

	if err := s.studentRepo.Update(ctx, st); err != nil {
		if appErrors.IsUniqueViolation(err, "email_id") {
			return nil, appErrors.NewAppError(CodeEmailIDExists, "Email ID "+st.EmailID+" already exists", err)
		}
		return nil, err
	}

	logger.Info("Student updated",
		zap.String("student_id", st.StudentID),
		zap.String("event", "student_updated"),
	)

	resp := ToStudentResponse(st)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req *StudentFilterRequest) (*StudentListResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid filter", err)
	}

	page, pageSize := utils.NormalizePage(req.Page, req.PageSize)
	filter := &domainStudent.Filter{
		Semester:      req.Semester,
		AdmissionYear: req.AdmissionYear,
		Search:        utils.SanitizeString(req.Search),
		Page:          page,
		PageSize:      pageSize,
		SortBy:        req.SortBy,
		SortOrder:     req.SortOrder,
	}
	if req.Program != nil {
		program := domainStudent.Program(*req.Program)
		filter.Program = &program
	}

	students, total, err := s.studentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]StudentResponse, 0, len(students))
	for _, st := range students {
		items = append(items, ToStudentResponse(st))
	}

	return &StudentListResponse{
		Students:   items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: utils.TotalPages(total, pageSize),
	}, nil
}

// Batches groups students into admission cohorts.
func (s *Service) Batches(ctx context.Context) ([]BatchResponse, error) {
	batches, err := s.studentRepo.GetBatches(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]BatchResponse, 0, len(batches))
	for _, b := range batches {
		items = append(items, ToBatchResponse(b))
	}
	return items, nil
}

// FixEmailMismatches rewrites every stored email id that no longer matches
// its student id and returns how many were repaired.
func (s *Service) FixEmailMismatches(ctx context.Context) (int, error) {
	students, err := s.studentRepo.ListEmailMismatches(ctx)
	if err != nil {
		return 0, err
	}

	fixed := 0
	for _, st := range students {
		if !st.SyncEmailID() {
			continue
		}
		if err := s.studentRepo.Update(ctx, st); err != nil {
			logger.Warn("Failed to repair student email",
				zap.String("student_id", st.StudentID),
				zap.Error(err),
			)
			continue
		}
		fixed++
	}

	if fixed > 0 {
		logger.Info("Student email ids repaired",
			zap.Int("fixed", fixed),
			zap.String("event", "student_emails_fixed"),
		)
	}
	return fixed, nil
}
