package krtext

import (
	"regexp"
	"strings"
	"time"
)

// Announcement schedules write dates as "2025.03.01", "2025-03-01",
// "2025.03.01(토)", or "2025.03.01 10:00" with any mix of those decorations.
// The literal 미정 marks a date the issuer has not fixed yet.

var (
	dayOfWeekPattern = regexp.MustCompile(`\([^)]*\)`)
	timeOfDayPattern = regexp.MustCompile(`\d{1,2}:\d{2}(:\d{2})?`)
	yearPrefix       = regexp.MustCompile(`^\d{4}[.\-]`)
)

// ParseDate resolves a single schedule date. The second return is false for
// undetermined (미정), empty, or unparsable input.
func ParseDate(raw string) (time.Time, bool) {
	if raw == "" || strings.Contains(raw, "미정") {
		return time.Time{}, false
	}

	s := dayOfWeekPattern.ReplaceAllString(raw, "")
	s = timeOfDayPattern.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "-", ".")
	s = strings.TrimSpace(s)
	s = strings.Trim(s, ".")

	t, err := time.Parse("2006.1.2", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParsePeriod splits an application-period string on its range delimiter and
// resolves both sides. End dates routinely omit the repeated year
// ("2025.03.01 ~ 3.15"); the start year fills the gap. Returns ok=false when
// either side cannot be resolved.
func ParsePeriod(raw string) (start, end time.Time, ok bool) {
	left, right, found := strings.Cut(raw, "~")
	if !found {
		return time.Time{}, time.Time{}, false
	}

	start, ok = ParseDate(left)
	if !ok {
		return time.Time{}, time.Time{}, false
	}

	right = strings.TrimSpace(right)
	if !yearPrefix.MatchString(right) {
		right = start.Format("2006") + "." + strings.Trim(right, ".")
	}
	end, ok = ParseDate(right)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
