package student

import (
	"strconv"
	"time"

	domainStudent "fleet-campus-admin/internal/domain/student"

	"github.com/google/uuid"
)

type CreateStudentRequest struct {
	FirstName     string    `json:"first_name" validate:"required,min=1,max=100"`
	LastName      string    `json:"last_name" validate:"required,min=1,max=100"`
	DateOfBirth   time.Time `json:"date_of_birth" validate:"required"`
	Gender        string    `json:"gender" validate:"required,gender"`
	Phone         string    `json:"phone_number" validate:"required,phone"`
	PersonalEmail string    `json:"personal_email" validate:"required,email"`

	Address    string `json:"address" validate:"required,max=500"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=10"`
	Country    string `json:"country" validate:"omitempty,max=100"`

	Program    string `json:"program" validate:"required,program"`
	Semester   int    `json:"semester" validate:"required,min=1,max=6"`
	BloodGroup string `json:"blood_group" validate:"omitempty,blood_group"`

	EmergencyContactName     string `json:"emergency_contact_name" validate:"required,max=100"`
	EmergencyContactPhone    string `json:"emergency_contact_phone" validate:"required,phone"`
	EmergencyContactRelation string `json:"emergency_contact_relation" validate:"required,max=50"`
}

// UpdateStudentRequest edits profile fields. The student id, email id and
// admission year are system owned and cannot be changed.
type UpdateStudentRequest struct {
	FirstName     *string    `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName      *string    `json:"last_name" validate:"omitempty,min=1,max=100"`
	DateOfBirth   *time.Time `json:"date_of_birth"`
	Gender        *string    `json:"gender" validate:"omitempty,gender"`
	Phone         *string    `json:"phone_number" validate:"omitempty,phone"`
	PersonalEmail *string    `json:"personal_email" validate:"omitempty,email"`

	Address    *string `json:"address" validate:"omitempty,max=500"`
	City       *string `json:"city" validate:"omitempty,max=100"`
	State      *string `json:"state" validate:"omitempty,max=100"`
	PostalCode *string `json:"postal_code" validate:"omitempty,max=10"`
	Country    *string `json:"country" validate:"omitempty,max=100"`

	Semester   *int    `json:"semester" validate:"omitempty,min=1,max=6"`
	BloodGroup *string `json:"blood_group" validate:"omitempty,blood_group"`

	EmergencyContactName     *string `json:"emergency_contact_name" validate:"omitempty,max=100"`
	EmergencyContactPhone    *string `json:"emergency_contact_phone" validate:"omitempty,phone"`
	EmergencyContactRelation *string `json:"emergency_contact_relation" validate:"omitempty,max=50"`
}

type StudentFilterRequest struct {
	Program       *string `form:"program" validate:"omitempty,program"`
	Semester      *int    `form:"semester" validate:"omitempty,min=1,max=6"`
	AdmissionYear *int    `form:"admission_year" validate:"omitempty,min=2000,max=2100"`
	Search        string  `form:"search"`
	Page          int     `form:"page" validate:"omitempty,min=1"`
	PageSize      int     `form:"page_size" validate:"omitempty,min=1,max=100"`
	SortBy        string  `form:"sort_by" validate:"omitempty,oneof=student_id first_name last_name created_at"`
	SortOrder     string  `form:"sort_order" validate:"omitempty,oneof=asc desc"`
}

type MarkAttendanceRequest struct {
	Date      time.Time `json:"date" validate:"required"`
	IsPresent bool      `json:"is_present"`
}

type AttendanceEntry struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	IsPresent bool      `json:"is_present"`
}

// BulkAttendanceRequest marks one day for many students.
type BulkAttendanceRequest struct {
	Date    time.Time         `json:"date" validate:"required"`
	Entries []AttendanceEntry `json:"entries" validate:"required,min=1,dive"`
}

type AddPerformanceRequest struct {
	Subject       string    `json:"subject" validate:"required,max=100"`
	ExamType      string    `json:"exam_type" validate:"required,max=50"`
	ExamDate      time.Time `json:"exam_date" validate:"required"`
	MarksObtained float64   `json:"marks_obtained" validate:"min=0"`
	TotalMarks    float64   `json:"total_marks" validate:"gt=0,gtefield=MarksObtained"`
}

type TerminateRequest struct {
	Reason string `json:"termination_reason" validate:"omitempty,max=1000"`
}

type StudentResponse struct {
	ID                       uuid.UUID `json:"id"`
	StudentID                string    `json:"student_id"`
	EmailID                  string    `json:"email_id"`
	AdmissionYear            int       `json:"admission_year"`
	FirstName                string    `json:"first_name"`
	LastName                 string    `json:"last_name"`
	FullName                 string    `json:"full_name"`
	DateOfBirth              time.Time `json:"date_of_birth"`
	Gender                   string    `json:"gender"`
	Phone                    string    `json:"phone_number"`
	PersonalEmail            string    `json:"personal_email"`
	Address                  string    `json:"address"`
	City                     string    `json:"city"`
	State                    string    `json:"state"`
	PostalCode               string    `json:"postal_code"`
	Country                  string    `json:"country"`
	Program                  string    `json:"program"`
	ProgramName              string    `json:"program_name"`
	Semester                 int       `json:"semester"`
	BloodGroup               string    `json:"blood_group"`
	EmergencyContactName     string    `json:"emergency_contact_name"`
	EmergencyContactPhone    string    `json:"emergency_contact_phone"`
	EmergencyContactRelation string    `json:"emergency_contact_relation"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

type StudentListResponse struct {
	Students   []StudentResponse `json:"students"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

type BatchResponse struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	Program       string `json:"program"`
	AdmissionYear int    `json:"admission_year"`
	Count         int64  `json:"count"`
}

type AttendanceResponse struct {
	ID        uuid.UUID `json:"id"`
	StudentID uuid.UUID `json:"student_id"`
	Date      string    `json:"date"`
	IsPresent bool      `json:"is_present"`
	MarkedAt  time.Time `json:"marked_at"`
}

type AttendanceSummaryResponse struct {
	StudentID  uuid.UUID            `json:"student_id"`
	Total      int                  `json:"total_classes"`
	Present    int                  `json:"present_classes"`
	Absent     int                  `json:"absent_classes"`
	Percentage float64              `json:"attendance_percentage"`
	Status     string               `json:"attendance_status"`
	Records    []AttendanceResponse `json:"records"`
}

type BulkAttendanceResponse struct {
	Date   string `json:"date"`
	Marked int    `json:"marked"`
}

type PerformanceResponse struct {
	ID            uuid.UUID `json:"id"`
	StudentID     uuid.UUID `json:"student_id"`
	Subject       string    `json:"subject"`
	ExamType      string    `json:"exam_type"`
	ExamDate      time.Time `json:"exam_date"`
	MarksObtained float64   `json:"marks_obtained"`
	TotalMarks    float64   `json:"total_marks"`
	Percentage    float64   `json:"percentage"`
	Remark        string    `json:"remark"`
	CreatedAt     time.Time `json:"created_at"`
}

type TerminatedResponse struct {
	ID                uuid.UUID       `json:"id"`
	OriginalStudentID string          `json:"original_student_id"`
	Student           StudentResponse `json:"student"`
	TerminationReason string          `json:"termination_reason"`
	TerminationDate   time.Time       `json:"termination_date"`
	TerminatedBy      *uuid.UUID      `json:"terminated_by"`
	IsRestored        bool            `json:"is_restored"`
	RestoredDate      *time.Time      `json:"restored_date"`
	RestoredBy        *uuid.UUID      `json:"restored_by"`
}

type FixEmailsResponse struct {
	Fixed int `json:"fixed"`
}

const dateLayout = "2006-01-02"

func ToStudentResponse(s *domainStudent.Student) StudentResponse {
	return StudentResponse{
		ID:                       s.ID,
		StudentID:                s.StudentID,
		EmailID:                  s.EmailID,
		AdmissionYear:            s.AdmissionYear,
		FirstName:                s.FirstName,
		LastName:                 s.LastName,
		FullName:                 s.FullName(),
		DateOfBirth:              s.DateOfBirth,
		Gender:                   string(s.Gender),
		Phone:                    s.Phone,
		PersonalEmail:            s.PersonalEmail,
		Address:                  s.Address,
		City:                     s.City,
		State:                    s.State,
		PostalCode:               s.PostalCode,
		Country:                  s.Country,
		Program:                  string(s.Program),
		ProgramName:              s.Program.DisplayName(),
		Semester:                 s.Semester,
		BloodGroup:               s.BloodGroup,
		EmergencyContactName:     s.EmergencyContactName,
		EmergencyContactPhone:    s.EmergencyContactPhone,
		EmergencyContactRelation: s.EmergencyContactRelation,
		CreatedAt:                s.CreatedAt,
		UpdatedAt:                s.UpdatedAt,
	}
}

func ToAttendanceResponse(a *domainStudent.Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:        a.ID,
		StudentID: a.StudentID,
		Date:      a.Date.Format(dateLayout),
		IsPresent: a.IsPresent,
		MarkedAt:  a.MarkedAt,
	}
}

func ToPerformanceResponse(p *domainStudent.Performance) PerformanceResponse {
	return PerformanceResponse{
		ID:            p.ID,
		StudentID:     p.StudentID,
		Subject:       p.Subject,
		ExamType:      p.ExamType,
		ExamDate:      p.ExamDate,
		MarksObtained: p.MarksObtained,
		TotalMarks:    p.TotalMarks,
		Percentage:    p.Percentage(),
		Remark:        string(p.Remark()),
		CreatedAt:     p.CreatedAt,
	}
}

func ToTerminatedResponse(t *domainStudent.Terminated) TerminatedResponse {
	return TerminatedResponse{
		ID:                t.ID,
		OriginalStudentID: t.OriginalStudentID,
		Student:           ToStudentResponse(&t.Snapshot),
		TerminationReason: t.TerminationReason,
		TerminationDate:   t.TerminationDate,
		TerminatedBy:      t.TerminatedBy,
		IsRestored:        t.IsRestored,
		RestoredDate:      t.RestoredDate,
		RestoredBy:        t.RestoredBy,
	}
}

func ToBatchResponse(b *domainStudent.Batch) BatchResponse {
	return BatchResponse{
		Code:          string(b.Program) + strconv.Itoa(b.AdmissionYear),
		Name:          b.Program.DisplayName() + " " + strconv.Itoa(b.AdmissionYear),
		Program:       string(b.Program),
		AdmissionYear: b.AdmissionYear,
		Count:         b.Count,
	}
}
