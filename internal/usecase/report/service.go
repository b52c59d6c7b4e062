package report

import (
	"context"
	"sort"
	"strconv"
	"time"

	domainFuel "fleet-campus-admin/internal/domain/fuel"
	domainStudent "fleet-campus-admin/internal/domain/student"
	domainTrip "fleet-campus-admin/internal/domain/trip"
	"fleet-campus-admin/internal/logger"
	appErrors "fleet-campus-admin/pkg/errors"
	"fleet-campus-admin/pkg/timeutil"
	"fleet-campus-admin/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// performancePerRow is how many exam results share one line of the
// student report.
const performancePerRow = 2

var (
	studentReportHeader = []string{
		"Student ID", "Full Name", "Program", "Semester", "Gender", "Date of Birth",
		"Phone Number", "Email ID", "Admission Year", "Total Classes", "Present Classes",
		"Absent Classes", "Attendance %", "Attendance Status", "Total Exams",
		"Average Marks", "Good Performance", "Average Performance", "Needs Improvement",
	}
	allStudentsHeader = []string{
		"Student ID", "Full Name", "Program", "Semester", "Gender", "Date of Birth",
		"Phone Number", "Email ID", "Admission Year", "Total Classes", "Present Classes",
		"Absent Classes", "Attendance %", "Average Marks", "Performance Status",
	}
	attendanceHeader = []string{
		"Date", "Student ID", "Student Name", "Program", "Semester", "Status", "Marked On",
	}
	tripHeader = []string{
		"Trip Number", "Status", "Priority", "Origin", "Destination", "Driver", "Vehicle",
		"License Plate", "Cargo Weight", "Estimated Distance", "Actual Distance",
		"Start Date", "End Date", "Created At",
	}
	fuelLogHeader = []string{
		"Fuel Date", "Vehicle ID", "Station", "Liters", "Cost Per Liter", "Total Cost",
		"Odometer", "Distance Traveled", "Fuel Efficiency",
	}
	expenseHeader = []string{
		"Expense Date", "Type", "Amount", "Payment Method", "Description",
		"Vehicle ID", "Driver ID", "Reimbursable", "Approved",
	}
)

// Service renders CSV exports of student and fleet records
type Service struct {
	studentRepo domainStudent.Repository
	tripRepo    domainTrip.Repository
	fuelRepo    domainFuel.Repository
	now         func() time.Time
}

func NewService(studentRepo domainStudent.Repository, tripRepo domainTrip.Repository, fuelRepo domainFuel.Repository) *Service {
	return &Service{
		studentRepo: studentRepo,
		tripRepo:    tripRepo,
		fuelRepo:    fuelRepo,
		now:         time.Now,
	}
}

// StudentReport renders one student's summary row followed by their
// attendance and exam records.
func (s *Service) StudentReport(ctx context.Context, id uuid.UUID) (*File, error) {
	st, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	attendance, err := s.studentRepo.ListAttendance(ctx, id)
	if err != nil {
		return nil, err
	}
	perfs, err := s.studentRepo.ListPerformance(ctx, id)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(attendance, func(i, j int) bool { return attendance[i].Date.After(attendance[j].Date) })
	sort.SliceStable(perfs, func(i, j int) bool { return perfs[i].ExamDate.After(perfs[j].ExamDate) })

	summary := domainStudent.AttendanceSummary{Total: len(attendance)}
	for _, a := range attendance {
		if a.IsPresent {
			summary.Present++
		}
	}

	remarks := make(map[domainStudent.Remark]int)
	marks := 0.0
	for _, p := range perfs {
		remarks[p.Remark()]++
		marks += p.MarksObtained
	}
	average := 0.0
	if len(perfs) > 0 {
		average = marks / float64(len(perfs))
	}

	sh := newSheet()
	rows := [][]string{
		studentReportHeader,
		append(studentColumns(st, summary),
			summary.Status(),
			strconv.Itoa(len(perfs)),
			decimal(average),
			strconv.Itoa(remarks[domainStudent.RemarkGood]),
			strconv.Itoa(remarks[domainStudent.RemarkAverage]),
			strconv.Itoa(remarks[domainStudent.RemarkNeedsImprovement]),
		),
	}
	for _, r := range rows {
		if err := sh.row(r...); err != nil {
			return nil, err
		}
	}
	if err := sh.blank(); err != nil {
		return nil, err
	}

	if len(attendance) > 0 {
		if err := writeAll(sh, [][]string{{}, {"Attendance Records"}, {"Date", "Status", "Marked On"}}); err != nil {
			return nil, err
		}
		for _, a := range attendance {
			if err := sh.row(a.Date.Format(dateLayout), presence(a.IsPresent), a.MarkedAt.Format(timestampLayout)); err != nil {
				return nil, err
			}
		}
	}

	if len(perfs) > 0 {
		if err := writeAll(sh, [][]string{{}, {"Performance Records (Exam Date, Subject, Marks, Total, %, Remark)"}}); err != nil {
			return nil, err
		}
		var line []string
		for i, p := range perfs {
			line = append(line,
				p.ExamDate.Format(dateLayout),
				p.Subject,
				number(p.MarksObtained),
				number(p.TotalMarks),
				percent(p.Percentage()),
				string(p.Remark()),
			)
			if (i+1)%performancePerRow == 0 || i == len(perfs)-1 {
				if err := sh.row(line...); err != nil {
					return nil, err
				}
				line = nil
			}
		}
	}

	s.logExport("student_report", st.StudentID)
	return sh.file(FileName("student_report", st.StudentID, s.now()))
}

// AllStudents renders one summary row per student.
func (s *Service) AllStudents(ctx context.Context) (*File, error) {
	rows, err := s.studentRepo.GetReportRows(ctx, &domainStudent.Filter{SortBy: "student_id", SortOrder: "asc"})
	if err != nil {
		return nil, err
	}

	sh := newSheet()
	if err := sh.row(allStudentsHeader...); err != nil {
		return nil, err
	}
	for _, r := range rows {
		line := append(studentColumns(r.Student, r.Attendance),
			decimal(r.AverageMarks),
			PerformanceStatus(r.AverageMarks),
		)
		if err := sh.row(line...); err != nil {
			return nil, err
		}
	}

	s.logExport("all_students", "")
	return sh.file(FileName("all_students", "", s.now()))
}

type AttendanceExportRequest struct {
	Date    *time.Time `form:"date" time_format:"2006-01-02"`
	From    *time.Time `form:"from" time_format:"2006-01-02"`
	To      *time.Time `form:"to" time_format:"2006-01-02"`
	Program *string    `form:"program" validate:"omitempty,program"`
}

// Attendance renders attendance rows, optionally for one day, a date range
// or a programme.
func (s *Service) Attendance(ctx context.Context, req *AttendanceExportRequest) (*File, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid filter", err)
	}

	filter := &domainStudent.AttendanceFilter{From: req.From, To: req.To}
	kind, id := "attendance_report", ""
	if req.Date != nil {
		day := timeutil.DateOnly(*req.Date)
		filter.From, filter.To = &day, &day
		kind, id = "attendance", day.Format(dateLayout)
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "End date must not precede start date", nil)
	}
	if req.Program != nil {
		program := domainStudent.Program(*req.Program)
		filter.Program = &program
	}

	records, err := s.studentRepo.ListAttendanceRecords(ctx, filter)
	if err != nil {
		return nil, err
	}

	sh := newSheet()
	if err := sh.row(attendanceHeader...); err != nil {
		return nil, err
	}
	for _, r := range records {
		if err := sh.row(
			r.Date.Format(dateLayout),
			r.StudentCode,
			r.StudentName,
			r.Program.DisplayName(),
			semester(r.Semester),
			presence(r.IsPresent),
			r.MarkedAt.Format(timestampLayout),
		); err != nil {
			return nil, err
		}
	}

	s.logExport(kind, id)
	return sh.file(FileName(kind, id, s.now()))
}

// studentColumns renders the identity and attendance columns shared by the
// student exports, ending at "Attendance %".
func studentColumns(st *domainStudent.Student, summary domainStudent.AttendanceSummary) []string {
	return []string{
		st.StudentID,
		st.FullName(),
		st.Program.DisplayName(),
		semester(st.Semester),
		st.Gender.DisplayName(),
		st.DateOfBirth.Format(dateLayout),
		st.Phone,
		st.EmailID,
		strconv.Itoa(st.AdmissionYear),
		strconv.Itoa(summary.Total),
		strconv.Itoa(summary.Present),
		strconv.Itoa(summary.Absent()),
		percent(summary.Percentage()),
	}
}

func writeAll(sh *sheet, rows [][]string) error {
	for _, r := range rows {
		if err := sh.row(r...); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) logExport(kind, id string) {
	logger.Info("Report exported",
		zap.String("kind", kind),
		zap.String("subject", id),
		zap.String("event", "report_exported"),
	)
}
