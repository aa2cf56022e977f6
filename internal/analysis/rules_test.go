package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	id "houscan/pkg/domain"

	"github.com/google/uuid"
)

func testSubject() Subject {
	return Subject{
		ID:           id.SubjectID(uuid.New()),
		BirthCode:    "000417",
		TotalAssets:  150_000_000,
		VehicleValue: 4_000_000,
	}
}

func testAnnouncement() Announcement {
	return Announcement{
		ID:            id.AnnouncementID(uuid.New()),
		Criteria:      "공고일 기준 만 19세 이상 39세 이하인 무주택 청년으로서 총 자산 2억 9,900만원 이하",
		ReferenceDate: "2025.01.01",
		Tiers: []PriorityTier{
			{Label: "1순위", Criteria: []string{"생계·의료·주거급여 수급자 가구", "차량가액 3,708만원 이하"}},
			{Label: "2순위", Criteria: []string{"본인과 부모의 월평균 소득 100% 이하"}},
		},
	}
}

func TestEvaluate_AllSatisfied(t *testing.T) {
	status := Evaluate(testSubject(), testAnnouncement())

	assert.Equal(t, StateSatisfied, status.Age)
	assert.Equal(t, StateSatisfied, status.Asset)
	assert.Equal(t, StateSatisfied, status.Vehicle)

	assert.True(t, status.AgeKnown)
	assert.Equal(t, 24, status.ComputedAge)
	assert.True(t, status.AssetCeilingKnown)
	assert.Equal(t, int64(299_000_000), status.AssetCeiling)
	assert.True(t, status.VehicleCeilingKnown)
	assert.Equal(t, int64(37_080_000), status.VehicleCeiling)
	assert.False(t, status.AnyViolated())
}

func TestEvaluate_AgeDimension(t *testing.T) {
	ann := testAnnouncement()

	t.Run("below minimum", func(t *testing.T) {
		s := testSubject()
		s.BirthCode = "100417" // 14 at the reference date
		status := Evaluate(s, ann)
		assert.Equal(t, StateViolated, status.Age)
		assert.Equal(t, 14, status.ComputedAge)
	})

	t.Run("above maximum", func(t *testing.T) {
		s := testSubject()
		s.BirthCode = "800417"
		status := Evaluate(s, ann)
		assert.Equal(t, StateViolated, status.Age)
		assert.Equal(t, 44, status.ComputedAge)
	})

	t.Run("unparsable birth code is indeterminate", func(t *testing.T) {
		s := testSubject()
		s.BirthCode = "badcode"
		status := Evaluate(s, ann)
		assert.Equal(t, StateIndeterminate, status.Age)
		assert.False(t, status.AgeKnown)
		assert.False(t, status.AnyViolated())
	})

	t.Run("missing reference date is indeterminate", func(t *testing.T) {
		a := ann
		a.ReferenceDate = "미정"
		status := Evaluate(testSubject(), a)
		assert.Equal(t, StateIndeterminate, status.Age)
	})
}

func TestEvaluate_CeilingDimensions(t *testing.T) {
	t.Run("asset over ceiling", func(t *testing.T) {
		s := testSubject()
		s.TotalAssets = 300_000_000
		status := Evaluate(s, testAnnouncement())
		assert.Equal(t, StateViolated, status.Asset)
	})

	t.Run("vehicle over ceiling", func(t *testing.T) {
		s := testSubject()
		s.VehicleValue = 40_000_000
		status := Evaluate(s, testAnnouncement())
		assert.Equal(t, StateViolated, status.Vehicle)
	})

	t.Run("ceiling found only in tier text", func(t *testing.T) {
		// The vehicle ceiling lives in tier criteria, not the base text.
		status := Evaluate(testSubject(), testAnnouncement())
		assert.True(t, status.VehicleCeilingKnown)
	})

	t.Run("no ceilings mentioned is indeterminate", func(t *testing.T) {
		ann := testAnnouncement()
		ann.Criteria = "공고일 기준 만 19세 이상 39세 이하인 무주택 청년"
		ann.Tiers = nil
		status := Evaluate(testSubject(), ann)
		assert.Equal(t, StateIndeterminate, status.Asset)
		assert.Equal(t, StateIndeterminate, status.Vehicle)
		assert.False(t, status.AnyViolated())
	})

	t.Run("vehicle keyword variant 자동차", func(t *testing.T) {
		ann := testAnnouncement()
		ann.Criteria = "자동차 가액 3,557만원 이하"
		ann.Tiers = nil
		status := Evaluate(testSubject(), ann)
		assert.True(t, status.VehicleCeilingKnown)
		assert.Equal(t, int64(35_570_000), status.VehicleCeiling)
	})

	t.Run("earlier vehicle keyword wins", func(t *testing.T) {
		ann := testAnnouncement()
		ann.Criteria = "자동차 가액 3,557만원 이하이며 업무용 차량 9,000만원 기준은 별도"
		ann.Tiers = nil
		status := Evaluate(testSubject(), ann)
		assert.Equal(t, int64(35_570_000), status.VehicleCeiling)
	})
}
