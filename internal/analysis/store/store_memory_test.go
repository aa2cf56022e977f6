package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"houscan/internal/analysis"
	id "houscan/pkg/domain"
)

func newVerdict(subject id.SubjectID, announcement id.AnnouncementID) analysis.Verdict {
	return analysis.Verdict{
		SubjectID:      subject,
		AnnouncementID: announcement,
		Eligible:       true,
		Priority:       "1순위",
		Reasons:        nil,
		UpdatedAt:      time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestMemoryStore_VerdictRoundtrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	subject := id.SubjectID(uuid.New())
	announcement := id.AnnouncementID(uuid.New())

	_, err := store.FindVerdict(ctx, subject, announcement)
	assert.ErrorIs(t, err, ErrVerdictNotFound)

	verdict := newVerdict(subject, announcement)
	require.NoError(t, store.UpsertVerdict(ctx, verdict))

	found, err := store.FindVerdict(ctx, subject, announcement)
	require.NoError(t, err)
	assert.Equal(t, verdict, found)
}

func TestMemoryStore_UpsertReplaces(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	subject := id.SubjectID(uuid.New())
	announcement := id.AnnouncementID(uuid.New())

	first := newVerdict(subject, announcement)
	require.NoError(t, store.UpsertVerdict(ctx, first))

	second := first
	second.Eligible = false
	second.Priority = ""
	second.Reasons = []string{"총 자산 기준 초과: 300,000,000원 > 299,000,000원"}
	require.NoError(t, store.UpsertVerdict(ctx, second))

	found, err := store.FindVerdict(ctx, subject, announcement)
	require.NoError(t, err)
	assert.Equal(t, second, found)

	verdicts, err := store.ListVerdicts(ctx, subject)
	require.NoError(t, err)
	assert.Len(t, verdicts, 1)
}

func TestMemoryStore_ListVerdictsFiltersBySubject(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	subject := id.SubjectID(uuid.New())
	other := id.SubjectID(uuid.New())

	require.NoError(t, store.UpsertVerdict(ctx, newVerdict(subject, id.AnnouncementID(uuid.New()))))
	require.NoError(t, store.UpsertVerdict(ctx, newVerdict(subject, id.AnnouncementID(uuid.New()))))
	require.NoError(t, store.UpsertVerdict(ctx, newVerdict(other, id.AnnouncementID(uuid.New()))))

	verdicts, err := store.ListVerdicts(ctx, subject)
	require.NoError(t, err)
	assert.Len(t, verdicts, 2)

	none, err := store.ListVerdicts(ctx, id.SubjectID(uuid.New()))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryStore_SummaryRoundtrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	subject := id.SubjectID(uuid.New())

	_, err := store.FindSummary(ctx, subject)
	assert.ErrorIs(t, err, ErrSummaryNotFound)

	summary := analysis.Summary{
		SubjectID:   subject,
		AnyEligible: true,
		Report:      analysis.RunReport{Total: 3, Analyzed: 2, Eligible: 1, RateLimited: 1},
		UpdatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, store.SaveSummary(ctx, summary))

	found, err := store.FindSummary(ctx, subject)
	require.NoError(t, err)
	assert.Equal(t, summary, found)

	summary.AnyEligible = false
	require.NoError(t, store.SaveSummary(ctx, summary))

	found, err = store.FindSummary(ctx, subject)
	require.NoError(t, err)
	assert.False(t, found.AnyEligible)
}
