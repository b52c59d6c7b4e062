package trip

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const numberPrefix = "TR"

// NumberPrefix returns the trip number prefix for the given day, TRYYYYMMDD.
func NumberPrefix(day time.Time) string {
	return numberPrefix + day.Format("20060102")
}

// NextNumber returns the trip number following last for the given day.
// last is the highest existing number with the same prefix, or "".
func NextNumber(day time.Time, last string) string {
	prefix := NumberPrefix(day)
	seq := 1
	if strings.HasPrefix(last, prefix) {
		if n, err := strconv.Atoi(last[len(prefix):]); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq)
}
