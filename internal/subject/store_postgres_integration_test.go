//go:build integration

package subject

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "houscan/pkg/domain"
	"houscan/pkg/testutil/containers"
)

const profileSchema = `
CREATE TABLE IF NOT EXISTS profiles (
	id UUID PRIMARY KEY,
	birth_code TEXT NOT NULL,
	married BOOLEAN NOT NULL DEFAULT FALSE,
	residence TEXT NOT NULL DEFAULT '',
	income_tier TEXT NOT NULL DEFAULT '',
	total_assets BIGINT NOT NULL DEFAULT 0,
	vehicle_value BIGINT NOT NULL DEFAULT 0,
	student BOOLEAN NOT NULL DEFAULT FALSE,
	recent_graduate BOOLEAN NOT NULL DEFAULT FALSE,
	employed BOOLEAN NOT NULL DEFAULT FALSE,
	job_seeker BOOLEAN NOT NULL DEFAULT FALSE,
	welfare_recipient BOOLEAN NOT NULL DEFAULT FALSE,
	parents_own_home BOOLEAN NOT NULL DEFAULT FALSE,
	disability_in_family BOOLEAN NOT NULL DEFAULT FALSE,
	subscription_payments INTEGER NOT NULL DEFAULT 0,
	updated_at TIMESTAMPTZ NOT NULL
)`

func setupPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	pc := containers.NewPostgresContainer(t)
	pc.Exec(t, profileSchema)
	return NewPostgres(pc.DB)
}

func TestPostgresStore_SaveAndFind(t *testing.T) {
	store := setupPostgresStore(t)
	ctx := context.Background()

	profile := Profile{
		ID:                   id.SubjectID(uuid.New()),
		BirthCode:            "000417",
		Residence:            "도봉구",
		IncomeTier:           "50% 이하",
		TotalAssets:          120_000_000,
		VehicleValue:         15_000_000,
		Student:              true,
		SubscriptionPayments: 12,
		UpdatedAt:            time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, store.Save(ctx, profile))

	got, err := store.FindByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, got.ID)
	assert.Equal(t, profile.BirthCode, got.BirthCode)
	assert.Equal(t, profile.TotalAssets, got.TotalAssets)
	assert.True(t, got.Student)
	assert.Equal(t, 12, got.SubscriptionPayments)
}

func TestPostgresStore_SaveReplacesExisting(t *testing.T) {
	store := setupPostgresStore(t)
	ctx := context.Background()

	profile := Profile{
		ID:        id.SubjectID(uuid.New()),
		BirthCode: "000417",
		Residence: "도봉구",
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Save(ctx, profile))

	profile.Residence = "노원구"
	profile.WelfareRecipient = true
	require.NoError(t, store.Save(ctx, profile))

	got, err := store.FindByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "노원구", got.Residence)
	assert.True(t, got.WelfareRecipient)
}

func TestPostgresStore_FindMissing(t *testing.T) {
	store := setupPostgresStore(t)

	_, err := store.FindByID(context.Background(), id.SubjectID(uuid.New()))
	assert.ErrorIs(t, err, ErrProfileNotFound)
}
