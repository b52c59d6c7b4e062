package student

import (
	"time"

	appErrors "fleet-campus-admin/pkg/errors"
)

// Restore conflict codes.
const (
	CodeStudentIDExists = "STUDENT_ID_EXISTS"
	CodeEmailIDExists   = "EMAIL_ID_EXISTS"
	CodeAlreadyRestored = "ALREADY_RESTORED"
)

const minStudentAge = 15

// ValidateDateOfBirth rejects future birth dates and applicants younger than
// the minimum age on the given day.
func ValidateDateOfBirth(dob, today time.Time) error {
	if dob.After(today) {
		return appErrors.NewAppError(appErrors.CodeValidation, "Date of birth cannot be in the future", nil)
	}
	if dob.AddDate(minStudentAge, 0, 0).After(today) {
		return appErrors.NewAppError(appErrors.CodeValidation, "Student must be at least 15 years old", nil)
	}
	return nil
}

// ValidateAttendanceDate rejects attendance marked for a future day.
func ValidateAttendanceDate(day, today time.Time) error {
	if day.After(today) {
		return appErrors.NewAppError(appErrors.CodeValidation, "Attendance cannot be marked for a future date", nil)
	}
	return nil
}

func isIdentityConflict(err error) bool {
	return appErrors.IsUniqueViolation(err, "student_id") || appErrors.IsUniqueViolation(err, "email_id")
}
