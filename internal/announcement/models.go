// Package announcement owns housing program notices: storage, application
// status derivation, and the source the analysis engine reads from.
package announcement

import (
	"time"

	"houscan/internal/analysis"
	"houscan/internal/krtext"
	id "houscan/pkg/domain"
)

// Status is the application-window state derived from the announcement's
// period text. It is computed on read, never stored.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusOpen     Status = "open"
	StatusClosed   Status = "closed"

	// StatusUnknown marks announcements whose period text could not be
	// resolved (미정 or malformed). They stay visible and analyzable.
	StatusUnknown Status = "unknown"
)

// Announcement is a stored housing program notice. Criteria and the schedule
// fields carry the issuer's free text verbatim; everything derived from them
// is re-derived on each read.
type Announcement struct {
	ID       id.AnnouncementID `json:"id"`
	Title    string            `json:"title"`
	Criteria string            `json:"criteria"`

	// ApplicationPeriod is the raw period text, e.g. "2025.03.01 ~ 3.15".
	ApplicationPeriod string `json:"application_period"`

	// ReferenceDate is the raw announcement-date text age computation anchors
	// on, e.g. "2025.01.01(수)".
	ReferenceDate string `json:"reference_date"`

	Tiers []analysis.PriorityTier `json:"tiers"`

	UpdatedAt time.Time `json:"updated_at"`
}

// StatusAt derives the application status as of the given instant. The window
// is inclusive on both ends: applications close at the end of the last day.
func (a Announcement) StatusAt(now time.Time) Status {
	start, end, ok := krtext.ParsePeriod(a.ApplicationPeriod)
	if !ok {
		return StatusUnknown
	}
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch {
	case day.Before(start):
		return StatusUpcoming
	case day.After(end):
		return StatusClosed
	default:
		return StatusOpen
	}
}

// RelevantAt reports whether the announcement still belongs in an analysis
// run. Upcoming, open, and unknown-period announcements always do; closed
// ones stay relevant for a grace window past the last application day, so a
// profile change shortly after a deadline still refreshes that program's
// verdict.
func (a Announcement) RelevantAt(now time.Time, grace time.Duration) bool {
	_, end, ok := krtext.ParsePeriod(a.ApplicationPeriod)
	if !ok {
		return true
	}
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !day.After(end.Add(grace))
}

// View converts the stored record into the engine's read-only form.
func (a Announcement) View() analysis.Announcement {
	return analysis.Announcement{
		ID:            a.ID,
		Title:         a.Title,
		Criteria:      a.Criteria,
		ReferenceDate: a.ReferenceDate,
		Tiers:         a.Tiers,
	}
}
