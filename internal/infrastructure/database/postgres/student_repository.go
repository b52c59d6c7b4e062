package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleet-campus-admin/internal/domain/student"
	"fleet-campus-admin/internal/infrastructure/database/postgres/models"
	"fleet-campus-admin/pkg/timeutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StudentRepository struct {
	db *DB
}

func NewStudentRepository(db *DB) *StudentRepository {
	return &StudentRepository{db: db}
}

var studentSortColumns = map[string]bool{
	"student_id": true, "first_name": true, "last_name": true,
	"created_at": true, "semester": true, "admission_year": true,
}

// Create inserts s. A zero ID gets a fresh one; restores keep the original.
func (r *StudentRepository) Create(ctx context.Context, s *student.Student) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	if err := r.db.conn(ctx).Create(toStudentModel(s)).Error; err != nil {
		return translateError("create student", err)
	}
	return nil
}

func (r *StudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*student.Student, error) {
	return r.getWhere(ctx, "id = ?", id)
}

func (r *StudentRepository) GetByStudentID(ctx context.Context, studentID string) (*student.Student, error) {
	return r.getWhere(ctx, "student_id = ?", studentID)
}

func (r *StudentRepository) getWhere(ctx context.Context, query string, arg interface{}) (*student.Student, error) {
	var dbModel models.StudentModel
	err := r.db.conn(ctx).Where(query, arg).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, student.ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return toStudentEntity(&dbModel), nil
}

func (r *StudentRepository) Update(ctx context.Context, s *student.Student) error {
	s.UpdatedAt = time.Now()

	result := r.db.conn(ctx).
		Model(&models.StudentModel{}).
		Where("id = ?", s.ID).
		Updates(map[string]interface{}{
			"email_id":                   s.EmailID,
			"first_name":                 s.FirstName,
			"last_name":                  s.LastName,
			"date_of_birth":              s.DateOfBirth,
			"gender":                     string(s.Gender),
			"phone":                      s.Phone,
			"personal_email":             s.PersonalEmail,
			"address":                    s.Address,
			"city":                       s.City,
			"state":                      s.State,
			"postal_code":                s.PostalCode,
			"country":                    s.Country,
			"program":                    string(s.Program),
			"semester":                   s.Semester,
			"blood_group":                s.BloodGroup,
			"emergency_contact_name":     s.EmergencyContactName,
			"emergency_contact_phone":    s.EmergencyContactPhone,
			"emergency_contact_relation": s.EmergencyContactRelation,
			"updated_at":                 s.UpdatedAt,
		})
	if result.Error != nil {
		return translateError("update student", result.Error)
	}
	if result.RowsAffected == 0 {
		return student.ErrStudentNotFound
	}
	return nil
}

func (r *StudentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.conn(ctx).Where("id = ?", id).Delete(&models.StudentModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete student: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return student.ErrStudentNotFound
	}
	return nil
}

func (r *StudentRepository) List(ctx context.Context, filter *student.Filter) ([]*student.Student, int64, error) {
	var dbModels []models.StudentModel
	var total int64

	db := r.filtered(ctx, filter)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count students: %w", err)
	}

	limit, offset := pageBounds(filter.Page, filter.PageSize)
	sortOrder := filter.SortOrder
	if filter.SortBy == "" && sortOrder == "" {
		sortOrder = "asc"
	}
	err := db.Order(sortClause(filter.SortBy, sortOrder, studentSortColumns, "student_id")).
		Limit(limit).
		Offset(offset).
		Find(&dbModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list students: %w", err)
	}

	students := make([]*student.Student, len(dbModels))
	for i := range dbModels {
		students[i] = toStudentEntity(&dbModels[i])
	}
	return students, total, nil
}

func (r *StudentRepository) filtered(ctx context.Context, filter *student.Filter) *gorm.DB {
	db := r.db.conn(ctx).Model(&models.StudentModel{})
	if filter == nil {
		return db
	}
	if filter.Program != nil {
		db = db.Where("program = ?", string(*filter.Program))
	}
	if filter.Semester != nil {
		db = db.Where("semester = ?", *filter.Semester)
	}
	if filter.AdmissionYear != nil {
		db = db.Where("admission_year = ?", *filter.AdmissionYear)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		db = db.Where("student_id ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ? OR email_id ILIKE ?",
			search, search, search, search)
	}
	return db
}

func (r *StudentRepository) LastStudentID(ctx context.Context, prefix string) (string, error) {
	var last string
	err := r.db.conn(ctx).Raw(`
		SELECT COALESCE(MAX(student_id), '')
		FROM students
		WHERE student_id LIKE ? AND LENGTH(student_id) = 6
	`, prefix+"%").Scan(&last).Error
	if err != nil {
		return "", fmt.Errorf("failed to read last student id: %w", err)
	}
	return last, nil
}

func (r *StudentRepository) ExistsStudentID(ctx context.Context, studentID string) (bool, error) {
	return r.exists(ctx, "student_id = ?", studentID)
}

func (r *StudentRepository) ExistsEmailID(ctx context.Context, emailID string) (bool, error) {
	return r.exists(ctx, "email_id = ?", emailID)
}

func (r *StudentRepository) exists(ctx context.Context, query string, arg interface{}) (bool, error) {
	var count int64
	if err := r.db.conn(ctx).Model(&models.StudentModel{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check student: %w", err)
	}
	return count > 0, nil
}

func (r *StudentRepository) ListEmailMismatches(ctx context.Context) ([]*student.Student, error) {
	var dbModels []models.StudentModel
	err := r.db.conn(ctx).
		Where("email_id <> student_id || ?", "."+student.EmailDomain).
		Order("student_id ASC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list email mismatches: %w", err)
	}

	students := make([]*student.Student, len(dbModels))
	for i := range dbModels {
		students[i] = toStudentEntity(&dbModels[i])
	}
	return students, nil
}

func (r *StudentRepository) GetBatches(ctx context.Context) ([]*student.Batch, error) {
	var batches []*student.Batch
	err := r.db.conn(ctx).Raw(`
		SELECT program, admission_year, COUNT(*) AS count
		FROM students
		GROUP BY program, admission_year
		ORDER BY admission_year DESC, program ASC
	`).Scan(&batches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get batches: %w", err)
	}
	return batches, nil
}

func (r *StudentRepository) UpsertAttendance(ctx context.Context, a *student.Attendance) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.Date = timeutil.DateOnly(a.Date)
	a.MarkedAt = time.Now()

	dbModel := &models.StudentAttendanceModel{
		ID:        a.ID,
		StudentID: a.StudentID,
		Date:      a.Date,
		IsPresent: a.IsPresent,
		MarkedBy:  a.MarkedBy,
		MarkedAt:  a.MarkedAt,
	}
	err := r.db.conn(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_present", "marked_by", "marked_at"}),
	}).Create(dbModel).Error
	if err != nil {
		return translateError("mark attendance", err)
	}
	return nil
}

func (r *StudentRepository) ListAttendance(ctx context.Context, studentID uuid.UUID) ([]*student.Attendance, error) {
	var dbModels []models.StudentAttendanceModel
	if err := r.db.conn(ctx).Where("student_id = ?", studentID).Order("date DESC").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	records := make([]*student.Attendance, len(dbModels))
	for i := range dbModels {
		records[i] = toStudentAttendanceEntity(&dbModels[i])
	}
	return records, nil
}

func (r *StudentRepository) GetAttendanceSummary(ctx context.Context, studentID uuid.UUID) (student.AttendanceSummary, error) {
	var summary student.AttendanceSummary
	err := r.db.conn(ctx).Raw(`
		SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE is_present) AS present
		FROM student_attendance
		WHERE student_id = ?
	`, studentID).Scan(&summary).Error
	if err != nil {
		return summary, fmt.Errorf("failed to get attendance summary: %w", err)
	}
	return summary, nil
}

func (r *StudentRepository) ListAttendanceRecords(ctx context.Context, filter *student.AttendanceFilter) ([]*student.AttendanceRecord, error) {
	db := r.db.conn(ctx).Table("student_attendance a").
		Select(`a.id, a.student_id, a.date, a.is_present, a.marked_by, a.marked_at,
			s.student_id AS student_code, s.first_name, s.last_name, s.program, s.semester`).
		Joins("JOIN students s ON s.id = a.student_id")
	if filter != nil {
		if filter.From != nil {
			db = db.Where("a.date >= ?", timeutil.DateOnly(*filter.From))
		}
		if filter.To != nil {
			db = db.Where("a.date <= ?", timeutil.DateOnly(*filter.To))
		}
		if filter.Program != nil {
			db = db.Where("s.program = ?", string(*filter.Program))
		}
	}

	var rows []struct {
		models.StudentAttendanceModel
		StudentCode string
		FirstName   string
		LastName    string
		Program     string
		Semester    int
	}
	if err := db.Order("a.date DESC, s.student_id ASC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}

	records := make([]*student.AttendanceRecord, len(rows))
	for i := range rows {
		records[i] = &student.AttendanceRecord{
			Attendance:  *toStudentAttendanceEntity(&rows[i].StudentAttendanceModel),
			StudentCode: rows[i].StudentCode,
			StudentName: rows[i].FirstName + " " + rows[i].LastName,
			Program:     student.Program(rows[i].Program),
			Semester:    rows[i].Semester,
		}
	}
	return records, nil
}

func (r *StudentRepository) AddPerformance(ctx context.Context, p *student.Performance) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()

	dbModel := &models.StudentPerformanceModel{
		ID:            p.ID,
		StudentID:     p.StudentID,
		Subject:       p.Subject,
		ExamType:      p.ExamType,
		ExamDate:      p.ExamDate,
		MarksObtained: p.MarksObtained,
		TotalMarks:    p.TotalMarks,
		CreatedAt:     p.CreatedAt,
	}
	if err := r.db.conn(ctx).Omit(clause.Associations).Create(dbModel).Error; err != nil {
		return translateError("add performance", err)
	}
	return nil
}

func (r *StudentRepository) ListPerformance(ctx context.Context, studentID uuid.UUID) ([]*student.Performance, error) {
	var dbModels []models.StudentPerformanceModel
	if err := r.db.conn(ctx).Where("student_id = ?", studentID).Order("exam_date DESC").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list performance: %w", err)
	}

	records := make([]*student.Performance, len(dbModels))
	for i, m := range dbModels {
		records[i] = &student.Performance{
			ID:            m.ID,
			StudentID:     m.StudentID,
			Subject:       m.Subject,
			ExamType:      m.ExamType,
			ExamDate:      m.ExamDate,
			MarksObtained: m.MarksObtained,
			TotalMarks:    m.TotalMarks,
			CreatedAt:     m.CreatedAt,
		}
	}
	return records, nil
}

func (r *StudentRepository) GetReportRows(ctx context.Context, filter *student.Filter) ([]*student.ReportRow, error) {
	var dbModels []models.StudentModel
	if err := r.filtered(ctx, filter).Order("student_id ASC").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list students for report: %w", err)
	}
	if len(dbModels) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(dbModels))
	for i := range dbModels {
		ids[i] = dbModels[i].ID
	}

	var attendance []struct {
		StudentID uuid.UUID
		Total     int
		Present   int
	}
	err := r.db.conn(ctx).Raw(`
		SELECT student_id, COUNT(*) AS total, COUNT(*) FILTER (WHERE is_present) AS present
		FROM student_attendance
		WHERE student_id IN ?
		GROUP BY student_id
	`, ids).Scan(&attendance).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate attendance: %w", err)
	}

	var marks []struct {
		StudentID    uuid.UUID
		AverageMarks float64
		ExamCount    int
	}
	err = r.db.conn(ctx).Raw(`
		SELECT student_id, AVG(marks_obtained) AS average_marks, COUNT(*) AS exam_count
		FROM student_performance
		WHERE student_id IN ?
		GROUP BY student_id
	`, ids).Scan(&marks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate marks: %w", err)
	}

	rows := make([]*student.ReportRow, len(dbModels))
	byID := make(map[uuid.UUID]*student.ReportRow, len(dbModels))
	for i := range dbModels {
		rows[i] = &student.ReportRow{Student: toStudentEntity(&dbModels[i])}
		byID[dbModels[i].ID] = rows[i]
	}
	for _, a := range attendance {
		if row, ok := byID[a.StudentID]; ok {
			row.Attendance = student.AttendanceSummary{Total: a.Total, Present: a.Present}
		}
	}
	for _, m := range marks {
		if row, ok := byID[m.StudentID]; ok {
			row.AverageMarks = m.AverageMarks
			row.ExamCount = m.ExamCount
		}
	}
	return rows, nil
}

func (r *StudentRepository) CreateTerminated(ctx context.Context, t *student.Terminated) error {
	t.ID = uuid.New()
	if err := r.db.conn(ctx).Create(toTerminatedModel(t)).Error; err != nil {
		return translateError("create terminated student", err)
	}
	return nil
}

func (r *StudentRepository) GetTerminated(ctx context.Context, id uuid.UUID) (*student.Terminated, error) {
	var dbModel models.TerminatedStudentModel
	err := r.db.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, student.ErrTerminatedNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get terminated student: %w", err)
	}
	return toTerminatedEntity(&dbModel), nil
}

func (r *StudentRepository) UpdateTerminated(ctx context.Context, t *student.Terminated) error {
	result := r.db.conn(ctx).
		Model(&models.TerminatedStudentModel{}).
		Where("id = ?", t.ID).
		Updates(map[string]interface{}{
			"is_restored":   t.IsRestored,
			"restored_date": t.RestoredDate,
			"restored_by":   t.RestoredBy,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update terminated student: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return student.ErrTerminatedNotFound
	}
	return nil
}

func (r *StudentRepository) ListTerminated(ctx context.Context, includeRestored bool) ([]*student.Terminated, error) {
	db := r.db.conn(ctx)
	if !includeRestored {
		db = db.Where("is_restored = ?", false)
	}

	var dbModels []models.TerminatedStudentModel
	if err := db.Order("termination_date DESC").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list terminated students: %w", err)
	}

	out := make([]*student.Terminated, len(dbModels))
	for i := range dbModels {
		out[i] = toTerminatedEntity(&dbModels[i])
	}
	return out, nil
}

func toStudentFields(s *student.Student) models.StudentFields {
	return models.StudentFields{
		FirstName:                s.FirstName,
		LastName:                 s.LastName,
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
		Semester:                 s.Semester,
		BloodGroup:               s.BloodGroup,
		EmergencyContactName:     s.EmergencyContactName,
		EmergencyContactPhone:    s.EmergencyContactPhone,
		EmergencyContactRelation: s.EmergencyContactRelation,
		AdmissionYear:            s.AdmissionYear,
	}
}

func applyStudentFields(s *student.Student, f *models.StudentFields) {
	s.FirstName = f.FirstName
	s.LastName = f.LastName
	s.DateOfBirth = f.DateOfBirth
	s.Gender = student.Gender(f.Gender)
	s.Phone = f.Phone
	s.PersonalEmail = f.PersonalEmail
	s.Address = f.Address
	s.City = f.City
	s.State = f.State
	s.PostalCode = f.PostalCode
	s.Country = f.Country
	s.Program = student.Program(f.Program)
	s.Semester = f.Semester
	s.BloodGroup = f.BloodGroup
	s.EmergencyContactName = f.EmergencyContactName
	s.EmergencyContactPhone = f.EmergencyContactPhone
	s.EmergencyContactRelation = f.EmergencyContactRelation
	s.AdmissionYear = f.AdmissionYear
}

func toStudentModel(s *student.Student) *models.StudentModel {
	return &models.StudentModel{
		ID:            s.ID,
		StudentID:     s.StudentID,
		EmailID:       s.EmailID,
		StudentFields: toStudentFields(s),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func toStudentEntity(m *models.StudentModel) *student.Student {
	s := &student.Student{
		ID:        m.ID,
		StudentID: m.StudentID,
		EmailID:   m.EmailID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	applyStudentFields(s, &m.StudentFields)
	return s
}

func toStudentAttendanceEntity(m *models.StudentAttendanceModel) *student.Attendance {
	return &student.Attendance{
		ID:        m.ID,
		StudentID: m.StudentID,
		Date:      m.Date,
		IsPresent: m.IsPresent,
		MarkedBy:  m.MarkedBy,
		MarkedAt:  m.MarkedAt,
	}
}

func toTerminatedModel(t *student.Terminated) *models.TerminatedStudentModel {
	return &models.TerminatedStudentModel{
		ID:                t.ID,
		OriginalStudentID: t.OriginalStudentID,
		OriginalUUID:      t.Snapshot.ID,
		EmailID:           t.Snapshot.EmailID,
		StudentFields:     toStudentFields(&t.Snapshot),
		OriginalCreatedAt: t.Snapshot.CreatedAt,
		TerminationReason: t.TerminationReason,
		TerminationDate:   t.TerminationDate,
		TerminatedBy:      t.TerminatedBy,
		IsRestored:        t.IsRestored,
		RestoredDate:      t.RestoredDate,
		RestoredBy:        t.RestoredBy,
	}
}

func toTerminatedEntity(m *models.TerminatedStudentModel) *student.Terminated {
	snapshot := student.Student{
		ID:        m.OriginalUUID,
		StudentID: m.OriginalStudentID,
		EmailID:   m.EmailID,
		CreatedAt: m.OriginalCreatedAt,
	}
	applyStudentFields(&snapshot, &m.StudentFields)

	return &student.Terminated{
		ID:                m.ID,
		OriginalStudentID: m.OriginalStudentID,
		Snapshot:          snapshot,
		TerminationReason: m.TerminationReason,
		TerminationDate:   m.TerminationDate,
		TerminatedBy:      m.TerminatedBy,
		IsRestored:        m.IsRestored,
		RestoredDate:      m.RestoredDate,
		RestoredBy:        m.RestoredBy,
	}
}
