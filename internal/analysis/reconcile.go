package analysis

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Phrases the judgment service is instructed never to return but sometimes
// does anyway. Final reasons must carry only concrete violations, so any
// reason containing one of these is dropped wholesale.
var (
	positiveMarkers = []string{
		"충족합니다", "충족함", "충족했습니다", "충족하였습니다",
		"모두 충족", "기준 충족", "문제 없", "문제없", "이상 없", "이상없",
	}
	indeterminateMarkers = []string{
		"판단 불가", "판단불가", "판단할 수 없", "확인 불가", "확인할 수 없",
	}
)

// Reconcile merges the deterministic status with the judgment into the final
// verdict. The dominant invariant: a violated deterministic dimension forces
// ineligibility no matter what the judgment claimed. The judgment can only
// add ineligibility reasons or, for eligible subjects, assign a tier.
func Reconcile(subject Subject, ann Announcement, status DeterministicStatus, judgment Judgment) Verdict {
	eligible := judgment.Eligible && !status.AnyViolated()

	reasons := make([]string, 0, len(judgment.Reasons)+3)
	for _, r := range judgment.Reasons {
		r = strings.TrimSpace(r)
		if r == "" || containsAny(r, positiveMarkers) || containsAny(r, indeterminateMarkers) {
			continue
		}
		reasons = append(reasons, r)
	}
	reasons = append(reasons, violationReasons(subject, status)...)
	reasons = dedupe(reasons)

	priority := ""
	if eligible {
		priority = judgment.Priority
	}

	return Verdict{
		SubjectID:      subject.ID,
		AnnouncementID: ann.ID,
		Eligible:       eligible,
		Priority:       priority,
		Reasons:        reasons,
		UpdatedAt:      time.Now(),
	}
}

// violationReasons synthesizes one sentence per violated dimension, each
// citing the compared values rather than only the dimension name.
func violationReasons(subject Subject, status DeterministicStatus) []string {
	var reasons []string

	if status.Age == StateViolated && status.AgeKnown {
		if status.ComputedAge < AgeMin {
			reasons = append(reasons, fmt.Sprintf("나이 기준 미달: 만 %d세 < 만 %d세", status.ComputedAge, AgeMin))
		} else {
			reasons = append(reasons, fmt.Sprintf("나이 기준 초과: 만 %d세 > 만 %d세", status.ComputedAge, AgeMax))
		}
	}
	if status.Asset == StateViolated && status.AssetCeilingKnown {
		reasons = append(reasons, fmt.Sprintf("총 자산 기준 초과: %s원 > %s원",
			groupDigits(subject.TotalAssets), groupDigits(status.AssetCeiling)))
	}
	if status.Vehicle == StateViolated && status.VehicleCeilingKnown {
		reasons = append(reasons, fmt.Sprintf("차량 가액 기준 초과: %s원 > %s원",
			groupDigits(subject.VehicleValue), groupDigits(status.VehicleCeiling)))
	}
	return reasons
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// dedupe removes case- and whitespace-insensitive duplicates, keeping first
// occurrences in order.
func dedupe(reasons []string) []string {
	seen := make(map[string]struct{}, len(reasons))
	out := reasons[:0]
	for _, r := range reasons {
		key := strings.ToLower(strings.Join(strings.Fields(r), " "))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

// groupDigits renders n with thousands separators ("299000000" -> "299,000,000").
func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, d := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
