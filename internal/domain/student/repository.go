package student

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for student records
type Repository interface {
	Create(ctx context.Context, student *Student) error
	GetByID(ctx context.Context, id uuid.UUID) (*Student, error)
	GetByStudentID(ctx context.Context, studentID string) (*Student, error)
	Update(ctx context.Context, student *Student) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *Filter) ([]*Student, int64, error)
	// LastStudentID returns the highest student id starting with prefix, or "".
	LastStudentID(ctx context.Context, prefix string) (string, error)
	ExistsStudentID(ctx context.Context, studentID string) (bool, error)
	ExistsEmailID(ctx context.Context, emailID string) (bool, error)
	ListEmailMismatches(ctx context.Context) ([]*Student, error)
	GetBatches(ctx context.Context) ([]*Batch, error)

	// UpsertAttendance replaces the record for the same student and date.
	UpsertAttendance(ctx context.Context, attendance *Attendance) error
	ListAttendance(ctx context.Context, studentID uuid.UUID) ([]*Attendance, error)
	GetAttendanceSummary(ctx context.Context, studentID uuid.UUID) (AttendanceSummary, error)
	ListAttendanceRecords(ctx context.Context, filter *AttendanceFilter) ([]*AttendanceRecord, error)

	AddPerformance(ctx context.Context, perf *Performance) error
	ListPerformance(ctx context.Context, studentID uuid.UUID) ([]*Performance, error)
	GetReportRows(ctx context.Context, filter *Filter) ([]*ReportRow, error)

	CreateTerminated(ctx context.Context, terminated *Terminated) error
	GetTerminated(ctx context.Context, id uuid.UUID) (*Terminated, error)
	UpdateTerminated(ctx context.Context, terminated *Terminated) error
	ListTerminated(ctx context.Context, includeRestored bool) ([]*Terminated, error)
}

// Filter represents filtering options for listing students
type Filter struct {
	Program       *Program
	Semester      *int
	AdmissionYear *int
	Search        string

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// AttendanceFilter selects rows for the attendance export
type AttendanceFilter struct {
	From    *time.Time
	To      *time.Time
	Program *Program
}

// AttendanceRecord is an attendance row joined with its student
type AttendanceRecord struct {
	Attendance
	StudentCode string
	StudentName string
	Program     Program
	Semester    int
}
