package student

import (
	"context"

	"fleet-campus-admin/internal/domain/event"
	domainStudent "fleet-campus-admin/internal/domain/student"
	"fleet-campus-admin/internal/logger"
	appErrors "fleet-campus-admin/pkg/errors"
	"fleet-campus-admin/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Terminate archives the student and removes the live record in one
// transaction.
func (s *Service) Terminate(ctx context.Context, id, terminatedBy uuid.UUID, req *TerminateRequest) (*TerminatedResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	var backup *domainStudent.Terminated
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		st, err := s.studentRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		backup = domainStudent.NewTerminated(st, utils.SanitizeText(req.Reason), &terminatedBy, s.now())
		if err := s.studentRepo.CreateTerminated(ctx, backup); err != nil {
			return err
		}
		return s.studentRepo.Delete(ctx, st.ID)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event.StudentTerminated, backup)

	logger.Info("Student terminated",
		zap.String("student_id", backup.OriginalStudentID),
		zap.String("reason", backup.TerminationReason),
		zap.String("terminated_by", terminatedBy.String()),
		zap.String("event", "student_terminated"),
	)

	resp := ToTerminatedResponse(backup)
	return &resp, nil
}

func (s *Service) ListTerminated(ctx context.Context, includeRestored bool) ([]TerminatedResponse, error) {
	archived, err := s.studentRepo.ListTerminated(ctx, includeRestored)
	if err != nil {
		return nil, err
	}

	items := make([]TerminatedResponse, 0, len(archived))
	for _, t := range archived {
		items = append(items, ToTerminatedResponse(t))
	}
	return items, nil
}

func (s *Service) GetTerminated(ctx context.Context, terminatedID uuid.UUID) (*TerminatedResponse, error) {
	t, err := s.studentRepo.GetTerminated(ctx, terminatedID)
	if err != nil {
		return nil, err
	}
	resp := ToTerminatedResponse(t)
	return &resp, nil
}

// Restore recreates a terminated student under the original id and marks
// the archive row restored. It fails when the student id or email id has
// since been reused.
func (s *Service) Restore(ctx context.Context, terminatedID, restoredBy uuid.UUID) (*StudentResponse, error) {
	var restored *domainStudent.Student
	var backup *domainStudent.Terminated

	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if backup, err = s.studentRepo.GetTerminated(ctx, terminatedID); err != nil {
			return err
		}
		if backup.IsRestored {
			return appErrors.NewAppError(CodeAlreadyRestored, "This student has already been restored", nil)
		}

		st := backup.Snapshot
		st.StudentID = backup.OriginalStudentID
		st.SyncEmailID()

		exists, err := s.studentRepo.ExistsStudentID(ctx, st.StudentID)
		if err != nil {
			return err
		}
		if exists {
			return appErrors.NewAppError(CodeStudentIDExists, "Student ID "+st.StudentID+" already exists", nil)
		}
		exists, err = s.studentRepo.ExistsEmailID(ctx, st.EmailID)
		if err != nil {
			return err
		}
		if exists {
			return appErrors.NewAppError(CodeEmailIDExists, "Email ID "+st.EmailID+" already exists", nil)
		}

		if err := s.studentRepo.Create(ctx, &st); err != nil {
			if appErrors.IsUniqueViolation(err, "student_id") {
				return appErrors.NewAppError(CodeStudentIDExists, "Student ID "+st.StudentID+" already exists", err)
			}
			if appErrors.IsUniqueViolation(err, "email_id") {
				return appErrors.NewAppError(CodeEmailIDExists, "Email ID "+st.EmailID+" already exists", err)
			}
			return err
		}

		now := s.now()
		backup.IsRestored = true
		backup.RestoredDate = &now
		backup.RestoredBy = &restoredBy
		if err := s.studentRepo.UpdateTerminated(ctx, backup); err != nil {
			return err
		}

		restored = &st
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event.StudentRestored, backup)

	logger.Info("Student restored",
		zap.String("student_id", restored.StudentID),
		zap.String("restored_by", restoredBy.String()),
		zap.String("event", "student_restored"),
	)

	resp := ToStudentResponse(restored)
	return &resp, nil
}

func (s *Service) publish(ctx context.Context, t event.Type, backup *domainStudent.Terminated) {
	e := event.New(t, backup.Snapshot.ID, map[string]interface{}{
		"terminated_id": backup.ID.String(),
		"student_id":    backup.OriginalStudentID,
		"full_name":     backup.Snapshot.FullName(),
		"program":       string(backup.Snapshot.Program),
	})
	if err := s.publisher.Publish(ctx, e); err != nil {
		logger.Warn("Failed to publish student event",
			zap.String("type", string(t)),
			zap.Error(err),
		)
	}
}
