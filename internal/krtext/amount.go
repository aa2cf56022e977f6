// Package krtext extracts numeric and calendar facts from the free-text
// eligibility criteria of Korean housing announcements. The texts follow a
// constrained administrative style, so extraction is keyword-anchored pattern
// matching, not general language understanding. Every function degrades to an
// explicit "could not determine" result instead of failing.
package krtext

import (
	"regexp"
	"strconv"
	"strings"
)

// amountWindow bounds how far past the keyword the amount scan looks.
// Criteria sentences put the ceiling within a few tens of characters of its
// keyword ("총 자산 2억 9,900만원 이하"); scanning to end of string would match
// unrelated amounts from later clauses.
const amountWindow = 80

// Matches "2억 9,900만 원", "3,708만원", and bare "36,000,000원" forms.
var amountPattern = regexp.MustCompile(`[\d,]+\s*억\s*[\d,]*\s*만?\s*원|[\d,]+\s*만\s*원|[\d,]+\s*원`)

// ParseAmount locates the first monetary amount following keyword in text and
// returns it in won. The second return is false when the keyword is absent, no
// amount follows it within the scan window, or the matched text carries no
// digits.
func ParseAmount(text, keyword string) (int64, bool) {
	if keyword == "" {
		return 0, false
	}
	idx := strings.Index(text, keyword)
	if idx < 0 {
		return 0, false
	}

	window := []rune(text[idx:])
	if len(window) > amountWindow {
		window = window[:amountWindow]
	}

	match := amountPattern.FindString(string(window))
	if match == "" {
		return 0, false
	}

	cleaned := strings.NewReplacer(",", "", " ", "", "원", "").Replace(match)

	var total int64
	if eok, rest, found := strings.Cut(cleaned, "억"); found {
		if n, err := strconv.ParseInt(eok, 10, 64); err == nil {
			total += n * 100_000_000
		}
		if man, tail, has := strings.Cut(rest, "만"); has {
			if n, err := strconv.ParseInt(man, 10, 64); err == nil {
				total += n * 10_000
			}
			rest = tail
		}
		if n, err := strconv.ParseInt(rest, 10, 64); err == nil {
			total += n
		}
	} else if man, _, found := strings.Cut(cleaned, "만"); found {
		if n, err := strconv.ParseInt(man, 10, 64); err == nil {
			total = n * 10_000
		}
	} else if n, err := strconv.ParseInt(cleaned, 10, 64); err == nil {
		total = n
	}

	// A zero total means the pattern matched structure without digits; treat
	// it the same as no match.
	if total <= 0 {
		return 0, false
	}
	return total, true
}
