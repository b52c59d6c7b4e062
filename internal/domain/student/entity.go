package student

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type Program string

const (
	ProgramMCA   Program = "MCA"
	ProgramMScIT Program = "MScIT"
	ProgramBCA   Program = "BCA"
	ProgramPGDCA Program = "PGDCA"
)

var programNames = map[Program]string{
	ProgramMCA:   "Master of Computer Applications",
	ProgramMScIT: "Master of Science in Information Technology",
	ProgramBCA:   "Bachelor of Computer Applications",
	ProgramPGDCA: "Post Graduate Diploma in Computer Applications",
}

// DisplayName returns the full programme title.
func (p Program) DisplayName() string {
	if name, ok := programNames[p]; ok {
		return name
	}
	return string(p)
}

func (p Program) Valid() bool {
	_, ok := programNames[p]
	return ok
}

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

func (g Gender) DisplayName() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	case GenderOther:
		return "Other"
	}
	return string(g)
}

const DefaultCountry = "India"

// Student is an enrolled student. StudentID, EmailID and AdmissionYear are
// assigned by the system.
type Student struct {
	ID            uuid.UUID
	StudentID     string
	EmailID       string
	AdmissionYear int

	FirstName     string
	LastName      string
	DateOfBirth   time.Time
	Gender        Gender
	Phone         string
	PersonalEmail string

	Address    string
	City       string
	State      string
	PostalCode string
	Country    string

	Program    Program
	Semester   int
	BloodGroup string

	EmergencyContactName     string
	EmergencyContactPhone    string
	EmergencyContactRelation string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// SyncEmailID recomputes the institutional email from the student id and
// reports whether it changed.
func (s *Student) SyncEmailID() bool {
	expected := EmailIDFor(s.StudentID)
	if s.EmailID == expected {
		return false
	}
	s.EmailID = expected
	return true
}

// Attendance records one class day for a student
type Attendance struct {
	ID        uuid.UUID
	StudentID uuid.UUID
	Date      time.Time
	IsPresent bool
	MarkedBy  *uuid.UUID
	MarkedAt  time.Time
}

// AttendanceSummary counts attendance records for a student
type AttendanceSummary struct {
	Total   int
	Present int
}

func (a AttendanceSummary) Absent() int {
	return a.Total - a.Present
}

// Percentage is present over total as a percentage, 0 with no records.
func (a AttendanceSummary) Percentage() float64 {
	if a.Total == 0 {
		return 0
	}
	return float64(a.Present) / float64(a.Total) * 100
}

// GoodAttendanceThreshold is the minimum percentage counted as good.
const GoodAttendanceThreshold = 75.0

func (a AttendanceSummary) Status() string {
	if a.Percentage() >= GoodAttendanceThreshold {
		return "Good"
	}
	return "Needs Attention"
}

type Remark string

const (
	RemarkGood             Remark = "Good"
	RemarkAverage          Remark = "Average"
	RemarkNeedsImprovement Remark = "Needs Improvement"
)

// Performance is one exam result
type Performance struct {
	ID            uuid.UUID
	StudentID     uuid.UUID
	Subject       string
	ExamType      string
	ExamDate      time.Time
	MarksObtained float64
	TotalMarks    float64
	CreatedAt     time.Time
}

// Percentage is the score rounded to two decimals, 0 when TotalMarks <= 0.
func (p *Performance) Percentage() float64 {
	if p.TotalMarks <= 0 {
		return 0
	}
	return math.Round(p.MarksObtained/p.TotalMarks*100*100) / 100
}

func (p *Performance) Remark() Remark {
	return RemarkFor(p.Percentage())
}

// RemarkFor grades a percentage: 75 and above is Good, 50 and above is
// Average, anything lower Needs Improvement.
func RemarkFor(percentage float64) Remark {
	switch {
	case percentage >= 75:
		return RemarkGood
	case percentage >= 50:
		return RemarkAverage
	default:
		return RemarkNeedsImprovement
	}
}

// Terminated is the backup written when a student is removed.
type Terminated struct {
	ID                uuid.UUID
	OriginalStudentID string
	Snapshot          Student

	TerminationReason string
	TerminationDate   time.Time
	TerminatedBy      *uuid.UUID

	IsRestored   bool
	RestoredDate *time.Time
	RestoredBy   *uuid.UUID
}

// DefaultTerminationReason is stored when no reason is supplied.
const DefaultTerminationReason = "No reason provided"

// NewTerminated snapshots s for the terminated-students archive.
func NewTerminated(s *Student, reason string, by *uuid.UUID, at time.Time) *Terminated {
	if reason == "" {
		reason = DefaultTerminationReason
	}
	return &Terminated{
		OriginalStudentID: s.StudentID,
		Snapshot:          *s,
		TerminationReason: reason,
		TerminationDate:   at,
		TerminatedBy:      by,
	}
}

// Batch is the head count of one admission cohort
type Batch struct {
	Program       Program
	AdmissionYear int
	Count         int64
}

// ReportRow is the per-student aggregate used by exports
type ReportRow struct {
	Student      *Student
	Attendance   AttendanceSummary
	AverageMarks float64
	ExamCount    int
}
