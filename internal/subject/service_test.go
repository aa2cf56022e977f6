package subject

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "houscan/pkg/domain"
	dErrors "houscan/pkg/domain-errors"
)

type recordingTrigger struct {
	calls []id.SubjectID
	err   error
}

func (t *recordingTrigger) Trigger(_ context.Context, subjectID id.SubjectID) error {
	t.calls = append(t.calls, subjectID)
	return t.err
}

func testProfile(subjectID id.SubjectID) Profile {
	return Profile{
		ID:                   subjectID,
		BirthCode:            "000417",
		Married:              false,
		Residence:            "서울특별시",
		IncomeTier:           "50% 이하",
		TotalAssets:          150_000_000,
		VehicleValue:         4_000_000,
		Student:              true,
		SubscriptionPayments: 12,
	}
}

func newTestService(trigger *recordingTrigger) (*Service, *MemoryStore) {
	store := NewMemoryStore()
	svc := NewService(store, trigger, slog.New(slog.DiscardHandler))
	return svc, store
}

func TestUpsert_NewProfileTriggersAnalysis(t *testing.T) {
	trigger := &recordingTrigger{}
	svc, _ := newTestService(trigger)
	subjectID := id.SubjectID(uuid.New())

	saved, err := svc.Upsert(context.Background(), testProfile(subjectID))
	require.NoError(t, err)
	assert.False(t, saved.UpdatedAt.IsZero())
	assert.Equal(t, []id.SubjectID{subjectID}, trigger.calls)
}

func TestUpsert_EligibilityChangeTriggersAnalysis(t *testing.T) {
	trigger := &recordingTrigger{}
	svc, _ := newTestService(trigger)
	subjectID := id.SubjectID(uuid.New())

	_, err := svc.Upsert(context.Background(), testProfile(subjectID))
	require.NoError(t, err)

	changed := testProfile(subjectID)
	changed.TotalAssets = 300_000_000
	_, err = svc.Upsert(context.Background(), changed)
	require.NoError(t, err)

	assert.Len(t, trigger.calls, 2)
}

func TestUpsert_NoChangeDoesNotRetrigger(t *testing.T) {
	trigger := &recordingTrigger{}
	svc, _ := newTestService(trigger)
	subjectID := id.SubjectID(uuid.New())

	_, err := svc.Upsert(context.Background(), testProfile(subjectID))
	require.NoError(t, err)

	// Identical eligibility fields: the save happens, the trigger does not.
	_, err = svc.Upsert(context.Background(), testProfile(subjectID))
	require.NoError(t, err)

	assert.Len(t, trigger.calls, 1)
}

func TestUpsert_AlreadyRunningIsNotAnError(t *testing.T) {
	trigger := &recordingTrigger{err: dErrors.New(dErrors.CodeConflict, "analysis already running")}
	svc, store := newTestService(trigger)
	subjectID := id.SubjectID(uuid.New())

	saved, err := svc.Upsert(context.Background(), testProfile(subjectID))
	require.NoError(t, err)

	stored, err := store.FindByID(context.Background(), subjectID)
	require.NoError(t, err)
	assert.Equal(t, saved, stored)
}

func TestUpsert_TriggerFailureSurfacesAsInternal(t *testing.T) {
	trigger := &recordingTrigger{err: dErrors.New(dErrors.CodeUnavailable, "queue down")}
	svc, _ := newTestService(trigger)

	_, err := svc.Upsert(context.Background(), testProfile(id.SubjectID(uuid.New())))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}

func TestUpsert_RejectsNilID(t *testing.T) {
	trigger := &recordingTrigger{}
	svc, _ := newTestService(trigger)

	_, err := svc.Upsert(context.Background(), Profile{})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	assert.Empty(t, trigger.calls)
}

func TestSnapshotMapsEveryEligibilityField(t *testing.T) {
	subjectID := id.SubjectID(uuid.New())
	profile := testProfile(subjectID)
	profile.WelfareRecipient = true
	profile.DisabilityInFamily = true

	snapshot := profile.Snapshot()
	assert.Equal(t, subjectID, snapshot.ID)
	assert.Equal(t, profile.BirthCode, snapshot.BirthCode)
	assert.Equal(t, profile.IncomeTier, snapshot.IncomeTier)
	assert.Equal(t, profile.TotalAssets, snapshot.TotalAssets)
	assert.Equal(t, profile.VehicleValue, snapshot.VehicleValue)
	assert.True(t, snapshot.WelfareRecipient)
	assert.True(t, snapshot.DisabilityInFamily)
	assert.Equal(t, profile.SubscriptionPayments, snapshot.SubscriptionPayments)
}
