package student

import (
	"fmt"
	"strconv"
)

// EmailDomain is the institutional mail suffix for generated addresses.
const EmailDomain = "gvp@gujaratvidyapith.org"

var programBase = map[Program]int{
	ProgramMCA:   1001,
	ProgramMScIT: 2001,
	ProgramBCA:   3001,
	ProgramPGDCA: 4001,
}

// EmailIDFor returns the institutional email for a student id.
func EmailIDFor(studentID string) string {
	return fmt.Sprintf("%s.%s", studentID, EmailDomain)
}

// IDPrefix is the shared leading part of every id issued to a programme in
// an admission year: two year digits plus the programme's thousands digit.
func IDPrefix(program Program, year int) string {
	return fmt.Sprintf("%02d%d", year%100, programBase[program]/1000)
}

// NextStudentID returns the id after last for the programme and year. The
// first id is the programme base, e.g. 251001 for MCA in 2025; after that
// each id is one above the highest issued.
func NextStudentID(program Program, year int, last string) (string, error) {
	base, ok := programBase[program]
	if !ok {
		return "", fmt.Errorf("unknown program %q", program)
	}

	limit := base + 998
	code := base
	if len(last) == 6 {
		if n, err := strconv.Atoi(last[2:]); err == nil && n >= base && n <= limit {
			code = n + 1
		}
	}
	if code > limit {
		return "", fmt.Errorf("student id range exhausted for %s %d", program, year)
	}

	return fmt.Sprintf("%02d%d", year%100, code), nil
}
