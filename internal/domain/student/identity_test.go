package student

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStudentID(t *testing.T) {
	t.Run("first id of a cohort is the programme base", func(t *testing.T) {
		id, err := NextStudentID(ProgramMCA, 2025, "")
		require.NoError(t, err)
		assert.Equal(t, "251001", id)
	})

	t.Run("follows the highest issued id", func(t *testing.T) {
		id, err := NextStudentID(ProgramMCA, 2025, "251001")
		require.NoError(t, err)
		assert.Equal(t, "251002", id)
	})

	t.Run("each programme has its own range", func(t *testing.T) {
		cases := map[Program]string{
			ProgramMScIT: "252001",
			ProgramBCA:   "253001",
			ProgramPGDCA: "254001",
		}
		for program, want := range cases {
			id, err := NextStudentID(program, 2025, "")
			require.NoError(t, err)
			assert.Equal(t, want, id, program)
		}
	})

	t.Run("ignores ids outside the programme range", func(t *testing.T) {
		id, err := NextStudentID(ProgramMCA, 2025, "252005")
		require.NoError(t, err)
		assert.Equal(t, "251001", id)
	})

	t.Run("range exhausted", func(t *testing.T) {
		_, err := NextStudentID(ProgramMCA, 2025, "251999")
		assert.Error(t, err)
	})

	t.Run("unknown programme", func(t *testing.T) {
		_, err := NextStudentID(Program("PhD"), 2025, "")
		assert.Error(t, err)
	})
}

func TestIDPrefix(t *testing.T) {
	assert.Equal(t, "251", IDPrefix(ProgramMCA, 2025))
	assert.Equal(t, "263", IDPrefix(ProgramBCA, 2026))
}

func TestSyncEmailID(t *testing.T) {
	s := &Student{StudentID: "251001", EmailID: "stale@example.com"}

	assert.True(t, s.SyncEmailID())
	assert.Equal(t, "251001.gvp@gujaratvidyapith.org", s.EmailID)
	assert.False(t, s.SyncEmailID())
}
