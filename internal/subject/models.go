// Package subject owns applicant profiles: storage, the write path with
// eligibility change detection, and the snapshot source the analysis engine
// reads from.
package subject

import (
	"time"

	"houscan/internal/analysis"
	id "houscan/pkg/domain"
)

// Profile is the stored applicant record. The analysis engine never sees it
// directly; it receives an immutable Snapshot instead.
type Profile struct {
	ID        id.SubjectID `json:"id"`
	BirthCode string       `json:"birth_code"` // YYMMDD
	Married   bool         `json:"married"`
	Residence string       `json:"residence"`

	IncomeTier   string `json:"income_tier"`
	TotalAssets  int64  `json:"total_assets"`
	VehicleValue int64  `json:"vehicle_value"`

	Student            bool `json:"student"`
	RecentGraduate     bool `json:"recent_graduate"`
	Employed           bool `json:"employed"`
	JobSeeker          bool `json:"job_seeker"`
	WelfareRecipient   bool `json:"welfare_recipient"`
	ParentsOwnHome     bool `json:"parents_own_home"`
	DisabilityInFamily bool `json:"disability_in_family"`

	SubscriptionPayments int `json:"subscription_payments"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot converts the profile into the engine's read-only view.
func (p Profile) Snapshot() analysis.Subject {
	return analysis.Subject{
		ID:                   p.ID,
		BirthCode:            p.BirthCode,
		Married:              p.Married,
		Residence:            p.Residence,
		IncomeTier:           p.IncomeTier,
		TotalAssets:          p.TotalAssets,
		VehicleValue:         p.VehicleValue,
		Student:              p.Student,
		RecentGraduate:       p.RecentGraduate,
		Employed:             p.Employed,
		JobSeeker:            p.JobSeeker,
		WelfareRecipient:     p.WelfareRecipient,
		ParentsOwnHome:       p.ParentsOwnHome,
		DisabilityInFamily:   p.DisabilityInFamily,
		SubscriptionPayments: p.SubscriptionPayments,
	}
}

// eligibilityChanged reports whether any field that can change an eligibility
// outcome differs between the two profiles. UpdatedAt is deliberately
// excluded so summary-time touches never retrigger analysis.
func eligibilityChanged(old, updated Profile) bool {
	return old.BirthCode != updated.BirthCode ||
		old.Married != updated.Married ||
		old.Residence != updated.Residence ||
		old.IncomeTier != updated.IncomeTier ||
		old.TotalAssets != updated.TotalAssets ||
		old.VehicleValue != updated.VehicleValue ||
		old.Student != updated.Student ||
		old.RecentGraduate != updated.RecentGraduate ||
		old.Employed != updated.Employed ||
		old.JobSeeker != updated.JobSeeker ||
		old.WelfareRecipient != updated.WelfareRecipient ||
		old.ParentsOwnHome != updated.ParentsOwnHome ||
		old.DisabilityInFamily != updated.DisabilityInFamily ||
		old.SubscriptionPayments != updated.SubscriptionPayments
}
