package models

import (
	"time"

	"github.com/google/uuid"
)

// StudentFields are the columns shared by students and their terminated
// backups.
type StudentFields struct {
	FirstName                string    `gorm:"type:varchar(100);not null"`
	LastName                 string    `gorm:"type:varchar(100);not null"`
	DateOfBirth              time.Time `gorm:"type:date;not null"`
	Gender                   string    `gorm:"type:varchar(1);not null"`
	Phone                    string    `gorm:"type:varchar(17);not null"`
	PersonalEmail            string    `gorm:"type:varchar(255)"`
	Address                  string    `gorm:"type:text"`
	City                     string    `gorm:"type:varchar(100)"`
	State                    string    `gorm:"type:varchar(100)"`
	PostalCode               string    `gorm:"type:varchar(10)"`
	Country                  string    `gorm:"type:varchar(100);not null;default:'India'"`
	Program                  string    `gorm:"type:varchar(10);not null;index"`
	Semester                 int       `gorm:"not null;default:1"`
	BloodGroup               string    `gorm:"type:varchar(3)"`
	EmergencyContactName     string    `gorm:"type:varchar(100)"`
	EmergencyContactPhone    string    `gorm:"type:varchar(17)"`
	EmergencyContactRelation string    `gorm:"type:varchar(50)"`
	AdmissionYear            int       `gorm:"not null;index"`
}

type StudentModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	StudentID string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_students_student_id"`
	EmailID   string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_students_email_id"`
	StudentFields
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (StudentModel) TableName() string {
	return "students"
}

type StudentAttendanceModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	StudentID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_student_attendance_day,priority:1"`
	Date      time.Time  `gorm:"type:date;not null;uniqueIndex:idx_student_attendance_day,priority:2"`
	IsPresent bool       `gorm:"not null;default:false"`
	MarkedBy  *uuid.UUID `gorm:"type:uuid"`
	MarkedAt  time.Time  `gorm:"not null"`

	Student *StudentModel `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
}

func (StudentAttendanceModel) TableName() string {
	return "student_attendance"
}

type StudentPerformanceModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	StudentID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Subject       string    `gorm:"type:varchar(100);not null"`
	ExamType      string    `gorm:"type:varchar(50);not null"`
	ExamDate      time.Time `gorm:"type:date;not null"`
	MarksObtained float64   `gorm:"type:decimal(5,2);not null"`
	TotalMarks    float64   `gorm:"type:decimal(5,2);not null"`
	CreatedAt     time.Time `gorm:"not null"`

	Student *StudentModel `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
}

func (StudentPerformanceModel) TableName() string {
	return "student_performance"
}

// TerminatedStudentModel keeps a full copy of a removed student.
type TerminatedStudentModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OriginalStudentID string    `gorm:"type:varchar(10);not null;index"`
	OriginalUUID      uuid.UUID `gorm:"type:uuid;not null"`
	EmailID           string    `gorm:"type:varchar(255);not null"`
	StudentFields
	OriginalCreatedAt time.Time  `gorm:"not null"`
	TerminationReason string     `gorm:"type:text;not null"`
	TerminationDate   time.Time  `gorm:"type:timestamptz;not null;index"`
	TerminatedBy      *uuid.UUID `gorm:"type:uuid"`
	IsRestored        bool       `gorm:"default:false;not null;index"`
	RestoredDate      *time.Time `gorm:"type:timestamptz"`
	RestoredBy        *uuid.UUID `gorm:"type:uuid"`
}

func (TerminatedStudentModel) TableName() string {
	return "terminated_students"
}
