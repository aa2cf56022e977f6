// Package analysis implements the eligibility determination engine: the
// deterministic rule evaluator, the reconciliation policy that merges
// deterministic facts with the natural-language judgment, and the controller
// that runs the pipeline for one subject across every relevant announcement.
package analysis

import (
	"strings"
	"time"

	id "houscan/pkg/domain"
)

// TriState is the outcome of one deterministic dimension. Indeterminate means
// the fact could not be extracted from the announcement text; it is distinct
// from both satisfied and violated and never hardens into either.
type TriState string

const (
	StateSatisfied     TriState = "satisfied"
	StateViolated      TriState = "violated"
	StateIndeterminate TriState = "indeterminate"
)

// Subject is the applicant snapshot the engine evaluates. It is assembled
// from the stored profile at the start of a run and never mutated mid-run.
type Subject struct {
	ID        id.SubjectID
	BirthCode string // YYMMDD
	Married   bool
	Residence string

	// IncomeTier is the subject's household-income-tier claim, e.g. "50% 이하".
	IncomeTier string

	TotalAssets  int64 // won
	VehicleValue int64 // won

	Student            bool
	RecentGraduate     bool
	Employed           bool
	JobSeeker          bool
	WelfareRecipient   bool
	ParentsOwnHome     bool
	DisabilityInFamily bool

	SubscriptionPayments int
}

// PriorityTier is one ranked sub-category of eligible applicants.
type PriorityTier struct {
	Label    string   `json:"priority"`
	Criteria []string `json:"criteria"`
}

// Announcement is the read-only engine view of one housing program notice.
type Announcement struct {
	ID            id.AnnouncementID
	Title         string
	Criteria      string // free-text eligibility criteria
	ReferenceDate string // raw announcement-date text, resolved on use
	Tiers         []PriorityTier
}

// CombinedCriteria concatenates the base eligibility text with every tier's
// criterion strings. Asset and vehicle ceilings sometimes appear only inside
// tier text, so ceiling extraction scans this union.
func (a Announcement) CombinedCriteria() string {
	var b strings.Builder
	b.WriteString(a.Criteria)
	for _, tier := range a.Tiers {
		for _, c := range tier.Criteria {
			b.WriteString(" ")
			b.WriteString(c)
		}
	}
	return b.String()
}

// DeterministicStatus records the tri-state outcome of every numerically
// decidable dimension, together with the facts the outcomes were derived
// from. It is rebuilt on every run and persisted only through the Verdict.
type DeterministicStatus struct {
	Age     TriState
	Asset   TriState
	Vehicle TriState

	// ComputedAge is valid only when AgeKnown is true.
	ComputedAge int
	AgeKnown    bool

	// Parsed ceilings, valid only when the corresponding *Known flag is set.
	AssetCeiling        int64
	AssetCeilingKnown   bool
	VehicleCeiling      int64
	VehicleCeilingKnown bool
}

// AnyViolated reports whether any dimension is violated. A true result forces
// the final verdict to ineligible regardless of the judgment output.
func (s DeterministicStatus) AnyViolated() bool {
	return s.Age == StateViolated || s.Asset == StateViolated || s.Vehicle == StateViolated
}

// Judgment is the parsed output of the natural-language judgment service.
// Numeric conclusions are never trusted from it; reconciliation re-anchors
// everything on the DeterministicStatus.
type Judgment struct {
	Eligible bool     `json:"is_eligible"`
	Priority string   `json:"priority"`
	Reasons  []string `json:"reasons"`
}

// Verdict is the final reconciled decision for one (subject, announcement)
// pair. At most one live record exists per pair; re-analysis overwrites it.
type Verdict struct {
	SubjectID      id.SubjectID      `json:"subject_id"`
	AnnouncementID id.AnnouncementID `json:"announcement_id"`
	Eligible       bool              `json:"eligible"`
	Priority       string            `json:"priority"`
	Reasons        []string          `json:"reasons"`

	// AnalysisFailed tags verdicts recorded for announcements whose analysis
	// errored, so the subject sees an explicit failure instead of silence.
	AnalysisFailed bool `json:"analysis_failed"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Summary is the subject-level aggregate over all per-announcement verdicts.
type Summary struct {
	SubjectID   id.SubjectID `json:"subject_id"`
	AnyEligible bool         `json:"any_eligible"`
	Report      RunReport    `json:"report"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// RunReport counts what happened during one analysis run.
type RunReport struct {
	Total       int `json:"total"`
	Analyzed    int `json:"analyzed"`
	Eligible    int `json:"eligible"`
	RateLimited int `json:"rate_limited"`
	Errors      int `json:"errors"`
}
