package analysis

import (
	"strings"

	"houscan/internal/krtext"
)

// Fixed inclusive age bound for youth housing programs. The announcements in
// scope all target the same band, and the band is stated in prose the parser
// cannot reliably extract, so it stays a constant rather than a parsed fact.
const (
	AgeMin = 19
	AgeMax = 39
)

// Ceiling keywords. Vehicle wording has flipped between 차량 and 자동차 across
// announcement batches; both are scanned and the first occurrence in the text
// wins.
const (
	assetKeyword = "자산"
)

var vehicleKeywords = []string{"차량", "자동차"}

// Evaluate applies the deterministic rules to one subject and announcement.
// It never fails: every absent or unparsable input resolves the affected
// dimension to indeterminate.
func Evaluate(subject Subject, ann Announcement) DeterministicStatus {
	status := DeterministicStatus{
		Age:     StateIndeterminate,
		Asset:   StateIndeterminate,
		Vehicle: StateIndeterminate,
	}

	if age, ok := krtext.Age(subject.BirthCode, ann.ReferenceDate); ok {
		status.ComputedAge = age
		status.AgeKnown = true
		switch {
		case age < AgeMin, age > AgeMax:
			status.Age = StateViolated
		default:
			status.Age = StateSatisfied
		}
	}

	combined := ann.CombinedCriteria()

	if ceiling, ok := krtext.ParseAmount(combined, assetKeyword); ok {
		status.AssetCeiling = ceiling
		status.AssetCeilingKnown = true
		if subject.TotalAssets > ceiling {
			status.Asset = StateViolated
		} else {
			status.Asset = StateSatisfied
		}
	}

	if keyword, ok := firstKeyword(combined, vehicleKeywords); ok {
		if ceiling, ok := krtext.ParseAmount(combined, keyword); ok {
			status.VehicleCeiling = ceiling
			status.VehicleCeilingKnown = true
			if subject.VehicleValue > ceiling {
				status.Vehicle = StateViolated
			} else {
				status.Vehicle = StateSatisfied
			}
		}
	}

	return status
}

// firstKeyword returns whichever candidate occurs earliest in text.
func firstKeyword(text string, candidates []string) (string, bool) {
	best := ""
	bestIdx := -1
	for _, kw := range candidates {
		idx := strings.Index(text, kw)
		if idx < 0 {
			continue
		}
		if bestIdx < 0 || idx < bestIdx {
			best, bestIdx = kw, idx
		}
	}
	return best, bestIdx >= 0
}
