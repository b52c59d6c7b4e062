package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
	fileStampLayout = "20060102_150405"
)

// File is a rendered CSV export.
type File struct {
	Name string
	Body []byte
}

// ContentType is the MIME type of every export.
const ContentType = "text/csv"

// FileName builds <kind>[_<id>]_<YYYYMMDD_HHMMSS>.csv.
func FileName(kind, id string, at time.Time) string {
	if id == "" {
		return fmt.Sprintf("%s_%s.csv", kind, at.Format(fileStampLayout))
	}
	return fmt.Sprintf("%s_%s_%s.csv", kind, id, at.Format(fileStampLayout))
}

type sheet struct {
	buf bytes.Buffer
	w   *csv.Writer
}

func newSheet() *sheet {
	s := &sheet{}
	s.w = csv.NewWriter(&s.buf)
	return s
}

func (s *sheet) row(fields ...string) error {
	return s.w.Write(fields)
}

func (s *sheet) blank() error {
	return s.w.Write([]string{})
}

func (s *sheet) file(name string) (*File, error) {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return &File{Name: name, Body: s.buf.Bytes()}, nil
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

func decimal(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optional(v *float64) string {
	if v == nil {
		return ""
	}
	return decimal(*v)
}

func stamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timestampLayout)
}

func semester(n int) string {
	return fmt.Sprintf("Semester %d", n)
}

func presence(present bool) string {
	if present {
		return "Present"
	}
	return "Absent"
}

// PerformanceStatus grades an average mark for the all-students export.
func PerformanceStatus(average float64) string {
	switch {
	case average >= 80:
		return "Excellent"
	case average >= 60:
		return "Good"
	case average >= 40:
		return "Average"
	default:
		return "Needs Improvement"
	}
}
