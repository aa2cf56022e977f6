//go:build integration

package announcement

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"houscan/internal/analysis"
	id "houscan/pkg/domain"
	"houscan/pkg/testutil/containers"
)

const announcementSchema = `
CREATE TABLE IF NOT EXISTS announcements (
	id UUID PRIMARY KEY,
	title TEXT NOT NULL,
	criteria TEXT NOT NULL DEFAULT '',
	application_period TEXT NOT NULL DEFAULT '',
	reference_date TEXT NOT NULL DEFAULT '',
	tiers JSONB,
	updated_at TIMESTAMPTZ NOT NULL
)`

func setupPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	pc := containers.NewPostgresContainer(t)
	pc.Exec(t, announcementSchema)
	return NewPostgres(pc.DB)
}

func TestPostgresStore_SaveAndFind(t *testing.T) {
	store := setupPostgresStore(t)
	ctx := context.Background()

	a := Announcement{
		ID:                id.AnnouncementID(uuid.New()),
		Title:             "청년 매입임대주택 1차",
		Criteria:          "만 19세 이상 39세 이하 무주택 청년",
		ApplicationPeriod: "2025.03.01 ~ 2025.03.15",
		ReferenceDate:     "2025.01.01",
		Tiers: []analysis.PriorityTier{
			{Label: "1순위", Criteria: []string{"수급자 가구", "한부모 가족"}},
			{Label: "2순위", Criteria: []string{"본인과 부모 월평균소득 100% 이하"}},
		},
		UpdatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, store.Save(ctx, a))

	got, err := store.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Title, got.Title)
	assert.Equal(t, a.ApplicationPeriod, got.ApplicationPeriod)
	require.Len(t, got.Tiers, 2)
	assert.Equal(t, "1순위", got.Tiers[0].Label)
	assert.Equal(t, []string{"수급자 가구", "한부모 가족"}, got.Tiers[0].Criteria)
}

func TestPostgresStore_SaveReplacesExisting(t *testing.T) {
	store := setupPostgresStore(t)
	ctx := context.Background()

	a := Announcement{
		ID:        id.AnnouncementID(uuid.New()),
		Title:     "청년 매입임대주택 1차",
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Save(ctx, a))

	a.Title = "청년 매입임대주택 1차 (정정)"
	a.Tiers = []analysis.PriorityTier{{Label: "1순위", Criteria: []string{"수급자 가구"}}}
	require.NoError(t, store.Save(ctx, a))

	got, err := store.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "청년 매입임대주택 1차 (정정)", got.Title)
	require.Len(t, got.Tiers, 1)
}

func TestPostgresStore_ListOrdersByRecency(t *testing.T) {
	store := setupPostgresStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	older := Announcement{ID: id.AnnouncementID(uuid.New()), Title: "지난달 공고", UpdatedAt: base.Add(-time.Hour)}
	newer := Announcement{ID: id.AnnouncementID(uuid.New()), Title: "이번주 공고", UpdatedAt: base}
	require.NoError(t, store.Save(ctx, older))
	require.NoError(t, store.Save(ctx, newer))

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "이번주 공고", all[0].Title)
	assert.Equal(t, "지난달 공고", all[1].Title)
}

func TestPostgresStore_FindMissing(t *testing.T) {
	store := setupPostgresStore(t)

	_, err := store.FindByID(context.Background(), id.AnnouncementID(uuid.New()))
	assert.ErrorIs(t, err, ErrAnnouncementNotFound)
}
