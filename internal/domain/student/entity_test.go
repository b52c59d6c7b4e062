package student

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAttendanceSummary(t *testing.T) {
	t.Run("no records is zero percent", func(t *testing.T) {
		var s AttendanceSummary
		assert.Equal(t, 0.0, s.Percentage())
		assert.Equal(t, 0, s.Absent())
		assert.Equal(t, "Needs Attention", s.Status())
	})

	t.Run("three of four present", func(t *testing.T) {
		s := AttendanceSummary{Total: 4, Present: 3}
		assert.Equal(t, 75.0, s.Percentage())
		assert.Equal(t, 1, s.Absent())
		assert.Equal(t, "Good", s.Status())
	})
}

func TestRemarkFor(t *testing.T) {
	cases := []struct {
		percentage float64
		want       Remark
	}{
		{100, RemarkGood},
		{75, RemarkGood},
		{74.99, RemarkAverage},
		{50, RemarkAverage},
		{49.99, RemarkNeedsImprovement},
		{0, RemarkNeedsImprovement},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, RemarkFor(tc.percentage), "percentage %v", tc.percentage)
	}
}

func TestPerformancePercentage(t *testing.T) {
	p := &Performance{MarksObtained: 2, TotalMarks: 3}
	assert.Equal(t, 66.67, p.Percentage())
	assert.Equal(t, RemarkAverage, p.Remark())

	p = &Performance{MarksObtained: 10, TotalMarks: 0}
	assert.Equal(t, 0.0, p.Percentage())
}

func TestNewTerminated(t *testing.T) {
	by := uuid.New()
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := &Student{ID: uuid.New(), StudentID: "251004", FirstName: "Asha"}

	backup := NewTerminated(s, "", &by, at)

	assert.Equal(t, "251004", backup.OriginalStudentID)
	assert.Equal(t, DefaultTerminationReason, backup.TerminationReason)
	assert.Equal(t, "Asha", backup.Snapshot.FirstName)
	assert.False(t, backup.IsRestored)

	s.FirstName = "changed"
	assert.Equal(t, "Asha", backup.Snapshot.FirstName)
}
