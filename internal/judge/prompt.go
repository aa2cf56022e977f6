package judge

import (
	"fmt"
	"strings"

	"houscan/internal/analysis"
)

const systemPrompt = "너는 위에 제공된 정보만을 기반으로, 요청된 JSON 구조와 규칙을 완벽하게 준수하여 판단 결과 JSON만 출력하는 청약 자격 검증 AI이다."

// buildPrompt assembles the user message. The deterministic statuses go in as
// already-decided facts; the service's own job is limited to non-numeric
// conditions and priority-tier matching, and it may return only failure
// reasons, so the reconciliation step has nothing positive to filter in the
// common case.
func buildPrompt(req analysis.JudgeRequest) string {
	var b strings.Builder

	b.WriteString("너는 청약 자격 검증 AI이다. 모든 수치 판단은 아래 '사전 검증 상태'에 이미 결론지어져 있으며, 너는 숫자 계산을 다시 해서는 안 된다.\n\n")

	b.WriteString("출력 JSON 구조:\n")
	b.WriteString("{\n  \"is_eligible\": true/false,\n  \"priority\": \"\",\n  \"reasons\": [\"미충족 사유 문장\", ...]\n}\n\n")

	b.WriteString("### 공고문 신청자격\n")
	b.WriteString(req.Announce.Criteria)
	b.WriteString("\n\n### 사전 검증 상태 (절대적 사실)\n")
	writeStatusLines(&b, req.Subject, req.Status)

	b.WriteString("\n### 사용자 정보 (비수치)\n")
	writeSubjectFacts(&b, req.Subject)

	b.WriteString("\n### 우선순위 기준\n")
	if len(req.Announce.Tiers) == 0 {
		b.WriteString("(명시된 우선순위 없음)\n")
	}
	for _, tier := range req.Announce.Tiers {
		fmt.Fprintf(&b, "- %s: %s\n", tier.Label, strings.Join(tier.Criteria, ", "))
	}

	b.WriteString(`
### 판단 규칙
1. '사전 검증 상태'에 '위반'이 하나라도 있으면 is_eligible은 false이며, 그 위반 내용을 reasons에 그대로 포함한다.
2. 너의 역할은 비수치 조건(가구 구성, 혼인 여부에 따른 유형, 거주지, 소득 구간 주장)의 검증과 우선순위 매칭으로 한정된다.
3. reasons에는 오직 미충족 사유만 담는다. 충족한 조건, 우대 사항, 판단 불가 항목은 절대 포함하지 않는다.
4. priority는 is_eligible이 true일 때만, 우선순위 기준과 매칭되는 가장 높은 순위 라벨을 넣는다. 매칭이 없으면 빈 문자열.
5. 출력은 반드시 JSON만. 여분 설명 절대 금지.
`)

	return b.String()
}

func writeStatusLines(b *strings.Builder, subject analysis.Subject, status analysis.DeterministicStatus) {
	fmt.Fprintf(b, "- 나이: %s\n", ageLine(status))
	fmt.Fprintf(b, "- 총 자산: %s\n", ceilingLine(status.Asset, subject.TotalAssets, status.AssetCeiling))
	fmt.Fprintf(b, "- 차량 가액: %s\n", ceilingLine(status.Vehicle, subject.VehicleValue, status.VehicleCeiling))
}

func ageLine(status analysis.DeterministicStatus) string {
	switch status.Age {
	case analysis.StateViolated:
		if status.ComputedAge < analysis.AgeMin {
			return fmt.Sprintf("위반 - 만 %d세로 하한(만 %d세) 미달", status.ComputedAge, analysis.AgeMin)
		}
		return fmt.Sprintf("위반 - 만 %d세로 상한(만 %d세) 초과", status.ComputedAge, analysis.AgeMax)
	case analysis.StateSatisfied:
		return fmt.Sprintf("기준 내 - 만 %d세", status.ComputedAge)
	default:
		return "판단 보류 - 생년월일 또는 공고일 해석 불가"
	}
}

func ceilingLine(state analysis.TriState, value, ceiling int64) string {
	switch state {
	case analysis.StateViolated:
		return fmt.Sprintf("위반 - %d원 > 기준 %d원", value, ceiling)
	case analysis.StateSatisfied:
		return fmt.Sprintf("기준 내 - %d원 / 기준 %d원", value, ceiling)
	default:
		return "판단 보류 - 공고문에서 기준액 추출 실패"
	}
}

func writeSubjectFacts(b *strings.Builder, s analysis.Subject) {
	fmt.Fprintf(b, "- 혼인 여부: %s\n", yesNo(s.Married, "기혼", "미혼"))
	fmt.Fprintf(b, "- 거주지: %s\n", orUnknown(s.Residence))
	fmt.Fprintf(b, "- 소득 구간 주장: %s\n", orUnknown(s.IncomeTier))
	fmt.Fprintf(b, "- 무주택 여부: %s\n", yesNo(!s.ParentsOwnHome, "무주택", "주택 소유"))
	fmt.Fprintf(b, "- 대학 재학: %s, 졸업 2년 이내: %s, 재직: %s, 취업준비: %s\n",
		yesNo(s.Student, "예", "아니오"), yesNo(s.RecentGraduate, "예", "아니오"),
		yesNo(s.Employed, "예", "아니오"), yesNo(s.JobSeeker, "예", "아니오"))
	fmt.Fprintf(b, "- 수급자 가구 해당: %s, 가구 내 장애인 등록: %s\n",
		yesNo(s.WelfareRecipient, "예", "아니오"), yesNo(s.DisabilityInFamily, "예", "아니오"))
	fmt.Fprintf(b, "- 청약 납입 횟수: %d회\n", s.SubscriptionPayments)
}

func yesNo(v bool, yes, no string) string {
	if v {
		return yes
	}
	return no
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "정보 없음"
	}
	return s
}
