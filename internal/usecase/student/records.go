package student

import (
	"context"

	domainStudent "fleet-campus-admin/internal/domain/student"
	"fleet-campus-admin/internal/logger"
	appErrors "fleet-campus-admin/pkg/errors"
	"fleet-campus-admin/pkg/timeutil"
	"fleet-campus-admin/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MarkAttendance records presence for one day, replacing an earlier mark
// for the same day.
func (s *Service) MarkAttendance(ctx context.Context, studentID, markedBy uuid.UUID, req *MarkAttendanceRequest) (*AttendanceResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}
	now := s.now()
	day := timeutil.DateOnly(req.Date)
	if err := ValidateAttendanceDate(day, timeutil.DateOnly(now)); err != nil {
		return nil, err
	}

	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	a := &domainStudent.Attendance{
		StudentID: studentID,
		Date:      day,
		IsPresent: req.IsPresent,
		MarkedBy:  &markedBy,
		MarkedAt:  now,
	}
	if err := s.studentRepo.UpsertAttendance(ctx, a); err != nil {
		return nil, err
	}

	resp := ToAttendanceResponse(a)
	return &resp, nil
}

// BulkMarkAttendance marks one day for every listed student in a single
// transaction.
func (s *Service) BulkMarkAttendance(ctx context.Context, markedBy uuid.UUID, req *BulkAttendanceRequest) (*BulkAttendanceResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}
	now := s.now()
	day := timeutil.DateOnly(req.Date)
	if err := ValidateAttendanceDate(day, timeutil.DateOnly(now)); err != nil {
		return nil, err
	}

	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		for _, entry := range req.Entries {
			if _, err := s.studentRepo.GetByID(ctx, entry.StudentID); err != nil {
				return err
			}
			a := &domainStudent.Attendance{
				StudentID: entry.StudentID,
				Date:      day,
				IsPresent: entry.IsPresent,
				MarkedBy:  &markedBy,
				MarkedAt:  now,
			}
			if err := s.studentRepo.UpsertAttendance(ctx, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Attendance marked",
		zap.String("date", day.Format(dateLayout)),
		zap.Int("students", len(req.Entries)),
		zap.String("event", "attendance_bulk_marked"),
	)

	return &BulkAttendanceResponse{Date: day.Format(dateLayout), Marked: len(req.Entries)}, nil
}

func (s *Service) AttendanceSummary(ctx context.Context, studentID uuid.UUID) (*AttendanceSummaryResponse, error) {
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	summary, err := s.studentRepo.GetAttendanceSummary(ctx, studentID)
	if err != nil {
		return nil, err
	}
	records, err := s.studentRepo.ListAttendance(ctx, studentID)
	if err != nil {
		return nil, err
	}

	resp := &AttendanceSummaryResponse{
		StudentID:  studentID,
		Total:      summary.Total,
		Present:    summary.Present,
		Absent:     summary.Absent(),
		Percentage: summary.Percentage(),
		Status:     summary.Status(),
		Records:    make([]AttendanceResponse, 0, len(records)),
	}
	for _, a := range records {
		resp.Records = append(resp.Records, ToAttendanceResponse(a))
	}
	return resp, nil
}

func (s *Service) AddPerformance(ctx context.Context, studentID uuid.UUID, req *AddPerformanceRequest) (*PerformanceResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	p := &domainStudent.Performance{
		StudentID:     studentID,
		Subject:       utils.SanitizeString(req.Subject),
		ExamType:      utils.SanitizeString(req.ExamType),
		ExamDate:      timeutil.DateOnly(req.ExamDate),
		MarksObtained: req.MarksObtained,
		TotalMarks:    req.TotalMarks,
	}
	if err := s.studentRepo.AddPerformance(ctx, p); err != nil {
		return nil, err
	}

	logger.Info("Performance recorded",
		zap.String("student", studentID.String()),
		zap.String("subject", p.Subject),
		zap.Float64("percentage", p.Percentage()),
		zap.String("event", "performance_added"),
	)

	resp := ToPerformanceResponse(p)
	return &resp, nil
}

func (s *Service) ListPerformance(ctx context.Context, studentID uuid.UUID) ([]PerformanceResponse, error) {
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	perfs, err := s.studentRepo.ListPerformance(ctx, studentID)
	if err != nil {
		return nil, err
	}

	items := make([]PerformanceResponse, 0, len(perfs))
	for _, p := range perfs {
		items = append(items, ToPerformanceResponse(p))
	}
	return items, nil
}
