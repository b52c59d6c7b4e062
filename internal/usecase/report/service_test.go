package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"testing"
	"time"

	domainStudent "fleet-campus-admin/internal/domain/student"
	domainTrip "fleet-campus-admin/internal/domain/trip"
	appErrors "fleet-campus-admin/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type studentSource struct {
	domainStudent.Repository

	student    *domainStudent.Student
	attendance []*domainStudent.Attendance
	results    []*domainStudent.Performance
	rows       []*domainStudent.ReportRow
	records    []*domainStudent.AttendanceRecord
	lastFilter *domainStudent.AttendanceFilter
}

func (s *studentSource) GetByID(_ context.Context, id uuid.UUID) (*domainStudent.Student, error) {
	if s.student == nil || s.student.ID != id {
		return nil, domainStudent.ErrStudentNotFound
	}
	return s.student, nil
}

func (s *studentSource) ListAttendance(context.Context, uuid.UUID) ([]*domainStudent.Attendance, error) {
	return s.attendance, nil
}

func (s *studentSource) ListPerformance(context.Context, uuid.UUID) ([]*domainStudent.Performance, error) {
	return s.results, nil
}

func (s *studentSource) GetReportRows(context.Context, *domainStudent.Filter) ([]*domainStudent.ReportRow, error) {
	return s.rows, nil
}

func (s *studentSource) ListAttendanceRecords(_ context.Context, f *domainStudent.AttendanceFilter) ([]*domainStudent.AttendanceRecord, error) {
	s.lastFilter = f
	return s.records, nil
}

type tripSource struct {
	domainTrip.Repository
	trips []*domainTrip.Trip
	pages int
}

func (t *tripSource) List(_ context.Context, f *domainTrip.Filter) ([]*domainTrip.Trip, int64, error) {
	t.pages++
	start := (f.Page - 1) * f.PageSize
	if start > len(t.trips) {
		start = len(t.trips)
	}
	end := start + f.PageSize
	if end > len(t.trips) {
		end = len(t.trips)
	}
	return t.trips[start:end], int64(len(t.trips)), nil
}

var exportTime = time.Date(2025, 11, 3, 14, 5, 9, 0, time.UTC)

func readCSV(t *testing.T, f *File) [][]string {
	t.Helper()
	r := csv.NewReader(bytes.NewReader(f.Body))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func sampleStudent() *domainStudent.Student {
	return &domainStudent.Student{
		ID:            uuid.New(),
		StudentID:     "251001",
		EmailID:       "251001.gvp@gujaratvidyapith.org",
		AdmissionYear: 2025,
		FirstName:     "Asha",
		LastName:      "Shah",
		DateOfBirth:   time.Date(2002, 4, 12, 0, 0, 0, 0, time.UTC),
		Gender:        domainStudent.GenderFemale,
		Phone:         "9876543210",
		Program:       domainStudent.ProgramMCA,
		Semester:      3,
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "all_students_20251103_140509.csv", FileName("all_students", "", exportTime))
	assert.Equal(t, "student_report_251001_20251103_140509.csv", FileName("student_report", "251001", exportTime))
}

func TestPerformanceStatus(t *testing.T) {
	tests := []struct {
		average float64
		want    string
	}{
		{95, "Excellent"},
		{80, "Excellent"},
		{79.99, "Good"},
		{60, "Good"},
		{59.99, "Average"},
		{40, "Average"},
		{39.99, "Needs Improvement"},
		{0, "Needs Improvement"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.2f", tt.average), func(t *testing.T) {
			assert.Equal(t, tt.want, PerformanceStatus(tt.average))
		})
	}
}

func TestStudentReport(t *testing.T) {
	st := sampleStudent()
	marked := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	src := &studentSource{
		student: st,
		attendance: []*domainStudent.Attendance{
			{Date: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), IsPresent: true, MarkedAt: marked},
			{Date: time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC), IsPresent: false, MarkedAt: marked},
			{Date: time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC), IsPresent: true, MarkedAt: marked},
		},
		results: []*domainStudent.Performance{
			{Subject: "Networks", ExamDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), MarksObtained: 80, TotalMarks: 100},
			{Subject: "Databases", ExamDate: time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC), MarksObtained: 60, TotalMarks: 100},
			{Subject: "Compilers", ExamDate: time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC), MarksObtained: 30, TotalMarks: 100},
		},
	}
	svc := NewService(src, nil, nil)
	svc.now = func() time.Time { return exportTime }

	f, err := svc.StudentReport(context.Background(), st.ID)
	require.NoError(t, err)
	assert.Equal(t, "student_report_251001_20251103_140509.csv", f.Name)

	rows := readCSV(t, f)
	assert.Equal(t, studentReportHeader, rows[0])
	assert.Equal(t, []string{
		"251001", "Asha Shah", "Master of Computer Applications", "Semester 3", "Female", "2002-04-12",
		"9876543210", "251001.gvp@gujaratvidyapith.org", "2025", "3", "2", "1", "66.67%",
		"Needs Attention", "3", "56.67", "1", "1", "1",
	}, rows[1])

	assert.Equal(t, []string{"Attendance Records"}, rows[2])
	assert.Equal(t, []string{"Date", "Status", "Marked On"}, rows[3])
	assert.Equal(t, []string{"2025-08-03", "Absent", "2025-08-01 10:00:00"}, rows[4])
	assert.Equal(t, "2025-08-01", rows[6][0])

	require.Len(t, rows, 10)
	assert.Equal(t, []string{
		"2025-09-05", "Databases", "60", "100", "60.00%", "Average",
		"2025-09-03", "Compilers", "30", "100", "30.00%", "Needs Improvement",
	}, rows[8])
	assert.Equal(t, []string{"2025-09-01", "Networks", "80", "100", "80.00%", "Good"}, rows[9])
}

func TestStudentReport_NoRecords(t *testing.T) {
	st := sampleStudent()
	svc := NewService(&studentSource{student: st}, nil, nil)

	f, err := svc.StudentReport(context.Background(), st.ID)
	require.NoError(t, err)

	rows := readCSV(t, f)
	require.Len(t, rows, 2)
	assert.Equal(t, "0.00%", rows[1][12])
	assert.Equal(t, "0.00", rows[1][15])
}

func TestStudentReport_UnknownStudent(t *testing.T) {
	svc := NewService(&studentSource{}, nil, nil)

	_, err := svc.StudentReport(context.Background(), uuid.New())

	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestAllStudents(t *testing.T) {
	st := sampleStudent()
	src := &studentSource{rows: []*domainStudent.ReportRow{
		{Student: st, Attendance: domainStudent.AttendanceSummary{Total: 4, Present: 3}, AverageMarks: 61.5, ExamCount: 2},
	}}
	svc := NewService(src, nil, nil)
	svc.now = func() time.Time { return exportTime }

	f, err := svc.AllStudents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "all_students_20251103_140509.csv", f.Name)

	rows := readCSV(t, f)
	require.Len(t, rows, 2)
	assert.Equal(t, allStudentsHeader, rows[0])
	assert.Equal(t, []string{"4", "3", "1", "75.00%", "61.50", "Good"}, rows[1][9:])
}

func TestAttendance_SingleDay(t *testing.T) {
	src := &studentSource{records: []*domainStudent.AttendanceRecord{{
		Attendance:  domainStudent.Attendance{Date: time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC), IsPresent: true, MarkedAt: time.Date(2025, 8, 4, 9, 30, 0, 0, time.UTC)},
		StudentCode: "251001",
		StudentName: "Asha Shah",
		Program:     domainStudent.ProgramBCA,
		Semester:    1,
	}}}
	svc := NewService(src, nil, nil)
	svc.now = func() time.Time { return exportTime }
	day := time.Date(2025, 8, 4, 17, 0, 0, 0, time.UTC)

	f, err := svc.Attendance(context.Background(), &AttendanceExportRequest{Date: &day})
	require.NoError(t, err)

	assert.Equal(t, "attendance_2025-08-04_20251103_140509.csv", f.Name)
	require.NotNil(t, src.lastFilter.From)
	assert.True(t, src.lastFilter.From.Equal(*src.lastFilter.To))

	rows := readCSV(t, f)
	assert.Equal(t, []string{
		"2025-08-04", "251001", "Asha Shah", "Bachelor of Computer Applications", "Semester 1", "Present", "2025-08-04 09:30:00",
	}, rows[1])
}

func TestAttendance_RejectsInvertedRange(t *testing.T) {
	svc := NewService(&studentSource{}, nil, nil)
	from := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Attendance(context.Background(), &AttendanceExportRequest{From: &from, To: &to})

	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))
}

func TestTrips_WalksEveryPage(t *testing.T) {
	src := &tripSource{}
	for i := 0; i < 150; i++ {
		src.trips = append(src.trips, &domainTrip.Trip{
			TripNumber: fmt.Sprintf("TR20251103%04d", i+1),
			Status:     domainTrip.StatusDraft,
			Priority:   domainTrip.PriorityMedium,
			CreatedAt:  exportTime,
		})
	}
	svc := NewService(nil, src, nil)

	f, err := svc.Trips(context.Background(), &FleetExportRequest{})
	require.NoError(t, err)

	rows := readCSV(t, f)
	assert.Len(t, rows, 151)
	assert.Equal(t, 2, src.pages)
	assert.Equal(t, tripHeader, rows[0])
	assert.Equal(t, "TR202511030150", rows[150][0])
	assert.Equal(t, "", rows[1][9])
}
