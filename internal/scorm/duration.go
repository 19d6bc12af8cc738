package scorm

import (
	"fmt"
	"lms_backend/internal/util"
	"regexp"
	"strconv"
	"strings"
)

// SCORM 1.2 CMITimespan is HHHH:MM:SS[.SS] with at least two hour digits.
var timespan12 = regexp.MustCompile(`^(\d{2,4}):([0-5]\d):([0-5]\d)(\.\d{1,2})?$`)

// SCORM 2004 session_time is an ISO-8601 duration. Calendar parts use the
// fixed lengths the 2004 RTE conformance suite assumes.
var duration2004 = regexp.MustCompile(`^P(?:(\d+)Y)?(?:(\d+)M)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d{1,2})?)S)?)?$`)

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	secondsPerDay    = 86400
	secondsPerMonth  = 30 * secondsPerDay
	secondsPerYear   = 365 * secondsPerDay
)

// FormatTimespan renders seconds as the 1.2 HH:MM:SS form.
func FormatTimespan(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / secondsPerHour
	m := (seconds % secondsPerHour) / secondsPerMinute
	s := seconds % secondsPerMinute
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// ParseTimespan reads the 1.2 HH:MM:SS[.SS] form, truncating fractions.
func ParseTimespan(v string) (int, error) {
	m := timespan12.FindStringSubmatch(strings.TrimSpace(v))
	if m == nil {
		return 0, fmt.Errorf("%w: bad session_time %q", util.ErrValidation, v)
	}
	h, _ := strconv.Atoi(m[1])
	mi, _ := strconv.Atoi(m[2])
	s, _ := strconv.Atoi(m[3])
	return h*secondsPerHour + mi*secondsPerMinute + s, nil
}

// FormatDuration renders seconds as the 2004 ISO-8601 duration form.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "PT0S"
	}
	h := seconds / secondsPerHour
	m := (seconds % secondsPerHour) / secondsPerMinute
	s := seconds % secondsPerMinute
	var b strings.Builder
	b.WriteString("PT")
	if h > 0 {
		fmt.Fprintf(&b, "%dH", h)
	}
	if m > 0 {
		fmt.Fprintf(&b, "%dM", m)
	}
	if s > 0 || (h == 0 && m == 0) {
		fmt.Fprintf(&b, "%dS", s)
	}
	return b.String()
}

// ParseDuration reads a 2004 PnYnMnDTnHnMnS duration, truncating fractional
// seconds.
func ParseDuration(v string) (int, error) {
	v = strings.TrimSpace(v)
	m := duration2004.FindStringSubmatch(v)
	if m == nil || v == "P" || v == "PT" {
		return 0, fmt.Errorf("%w: bad session_time %q", util.ErrValidation, v)
	}
	total := 0
	for i, mult := range []int{secondsPerYear, secondsPerMonth, secondsPerDay, secondsPerHour, secondsPerMinute} {
		if m[i+1] == "" {
			continue
		}
		n, _ := strconv.Atoi(m[i+1])
		total += n * mult
	}
	if m[6] != "" {
		f, _ := strconv.ParseFloat(m[6], 64)
		total += int(f)
	}
	return total, nil
}
