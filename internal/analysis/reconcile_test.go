package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_ViolationDominatesJudgment(t *testing.T) {
	subject := testSubject()
	subject.TotalAssets = 350_000_000
	ann := testAnnouncement()
	status := Evaluate(subject, ann)
	require.Equal(t, StateViolated, status.Asset)

	// The judgment claims eligibility; the deterministic violation must win.
	judgment := Judgment{Eligible: true, Priority: "1순위"}

	verdict := Reconcile(subject, ann, status, judgment)

	assert.False(t, verdict.Eligible)
	assert.Empty(t, verdict.Priority, "priority must be cleared on ineligible verdicts")
	require.NotEmpty(t, verdict.Reasons)
	assert.Contains(t, verdict.Reasons[0], "350,000,000원")
	assert.Contains(t, verdict.Reasons[0], "299,000,000원")
}

func TestReconcile_EligiblePath(t *testing.T) {
	subject := testSubject()
	ann := testAnnouncement()
	status := Evaluate(subject, ann)
	require.False(t, status.AnyViolated())

	verdict := Reconcile(subject, ann, status, Judgment{Eligible: true, Priority: "2순위"})

	assert.True(t, verdict.Eligible)
	assert.Equal(t, "2순위", verdict.Priority)
	assert.Empty(t, verdict.Reasons)
}

func TestReconcile_JudgmentIneligibleStands(t *testing.T) {
	subject := testSubject()
	ann := testAnnouncement()
	status := Evaluate(subject, ann)
	require.False(t, status.AnyViolated())

	judgment := Judgment{
		Eligible: false,
		Reasons:  []string{"무주택 세대구성원 요건을 충족하지 못했습니다."},
	}

	verdict := Reconcile(subject, ann, status, judgment)

	assert.False(t, verdict.Eligible)
	assert.Empty(t, verdict.Priority)
	assert.Equal(t, []string{"무주택 세대구성원 요건을 충족하지 못했습니다."}, verdict.Reasons)
}

func TestReconcile_StripsPositiveAndIndeterminatePhrasing(t *testing.T) {
	subject := testSubject()
	subject.BirthCode = "800417"
	ann := testAnnouncement()
	status := Evaluate(subject, ann)
	require.Equal(t, StateViolated, status.Age)

	judgment := Judgment{
		Eligible: false,
		Reasons: []string{
			"자산 기준을 충족합니다.",
			"소득 구간은 판단 불가입니다.",
			"차량 가액은 문제 없음.",
			"거주지 요건을 충족하지 못했습니다.",
		},
	}

	verdict := Reconcile(subject, ann, status, judgment)

	for _, r := range verdict.Reasons {
		for _, marker := range append(append([]string{}, positiveMarkers...), indeterminateMarkers...) {
			assert.False(t, strings.Contains(r, marker), "reason %q contains marker %q", r, marker)
		}
	}
	assert.Contains(t, verdict.Reasons, "거주지 요건을 충족하지 못했습니다.")
	assert.Contains(t, verdict.Reasons, "나이 기준 초과: 만 44세 > 만 39세")
}

func TestReconcile_DeduplicatesReasons(t *testing.T) {
	subject := testSubject()
	ann := testAnnouncement()
	status := Evaluate(subject, ann)

	judgment := Judgment{
		Eligible: false,
		Reasons: []string{
			"거주지 요건을 만족하지 않습니다.",
			"거주지  요건을 만족하지   않습니다.",
			"거주지 요건을 만족하지 않습니다.",
		},
	}

	verdict := Reconcile(subject, ann, status, judgment)
	assert.Len(t, verdict.Reasons, 1)
}

func TestReconcile_IndeterminateDoesNotBlockEligibility(t *testing.T) {
	subject := testSubject()
	ann := testAnnouncement()
	ann.Criteria = "만 19세 이상 39세 이하 무주택 청년"
	ann.Tiers = nil
	status := Evaluate(subject, ann)
	require.Equal(t, StateIndeterminate, status.Asset)
	require.Equal(t, StateIndeterminate, status.Vehicle)

	verdict := Reconcile(subject, ann, status, Judgment{Eligible: true})

	assert.True(t, verdict.Eligible)
}

func TestGroupDigits(t *testing.T) {
	assert.Equal(t, "0", groupDigits(0))
	assert.Equal(t, "999", groupDigits(999))
	assert.Equal(t, "1,000", groupDigits(1000))
	assert.Equal(t, "299,000,000", groupDigits(299_000_000))
	assert.Equal(t, "-37,080,000", groupDigits(-37_080_000))
}
