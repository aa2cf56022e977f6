package krtext

import (
	"time"
)

// Age computes age at the announcement reference date from a 6-digit YYMMDD
// birth code. Nothing in the source data records the century, so it is
// inferred from a rolling threshold: two-digit years greater than the current
// year's last two digits plus one belong to the 1900s. The heuristic misfiles
// anyone over roughly one hundred years old; the applicant population makes
// that acceptable.
//
// The second return is false whenever the birth code or the reference date
// cannot be resolved. Callers must treat that as indeterminate, never as zero.
func Age(birthCode, refDateText string) (int, bool) {
	return ageAt(birthCode, refDateText, time.Now())
}

func ageAt(birthCode, refDateText string, now time.Time) (int, bool) {
	birth, ok := parseBirthCode(birthCode, now)
	if !ok {
		return 0, false
	}
	ref, ok := ParseDate(refDateText)
	if !ok {
		return 0, false
	}

	age := ref.Year() - birth.Year()
	if ref.Month() < birth.Month() || (ref.Month() == birth.Month() && ref.Day() < birth.Day()) {
		age--
	}
	return age, true
}

func parseBirthCode(code string, now time.Time) (time.Time, bool) {
	if len(code) != 6 {
		return time.Time{}, false
	}

	t, err := time.Parse("060102", code)
	if err != nil {
		return time.Time{}, false
	}

	// time.Parse pivots two-digit years at 69; re-derive the century with the
	// rolling threshold instead.
	yy := t.Year() % 100
	century := 2000
	if yy > now.Year()%100+1 {
		century = 1900
	}
	return time.Date(century+yy, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}
