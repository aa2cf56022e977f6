package subject

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	id "houscan/pkg/domain"

	"github.com/google/uuid"
)

// PostgresStore persists profiles in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed profile store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, p Profile) error {
	query := `
		INSERT INTO profiles (
			id, birth_code, married, residence, income_tier,
			total_assets, vehicle_value, student, recent_graduate, employed,
			job_seeker, welfare_recipient, parents_own_home, disability_in_family,
			subscription_payments, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			birth_code = EXCLUDED.birth_code,
			married = EXCLUDED.married,
			residence = EXCLUDED.residence,
			income_tier = EXCLUDED.income_tier,
			total_assets = EXCLUDED.total_assets,
			vehicle_value = EXCLUDED.vehicle_value,
			student = EXCLUDED.student,
			recent_graduate = EXCLUDED.recent_graduate,
			employed = EXCLUDED.employed,
			job_seeker = EXCLUDED.job_seeker,
			welfare_recipient = EXCLUDED.welfare_recipient,
			parents_own_home = EXCLUDED.parents_own_home,
			disability_in_family = EXCLUDED.disability_in_family,
			subscription_payments = EXCLUDED.subscription_payments,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(p.ID),
		p.BirthCode,
		p.Married,
		p.Residence,
		p.IncomeTier,
		p.TotalAssets,
		p.VehicleValue,
		p.Student,
		p.RecentGraduate,
		p.Employed,
		p.JobSeeker,
		p.WelfareRecipient,
		p.ParentsOwnHome,
		p.DisabilityInFamily,
		p.SubscriptionPayments,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, subjectID id.SubjectID) (Profile, error) {
	query := `
		SELECT id, birth_code, married, residence, income_tier,
			total_assets, vehicle_value, student, recent_graduate, employed,
			job_seeker, welfare_recipient, parents_own_home, disability_in_family,
			subscription_payments, updated_at
		FROM profiles
		WHERE id = $1
	`
	var (
		profile Profile
		rowID   uuid.UUID
	)
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(subjectID)).Scan(
		&rowID,
		&profile.BirthCode,
		&profile.Married,
		&profile.Residence,
		&profile.IncomeTier,
		&profile.TotalAssets,
		&profile.VehicleValue,
		&profile.Student,
		&profile.RecentGraduate,
		&profile.Employed,
		&profile.JobSeeker,
		&profile.WelfareRecipient,
		&profile.ParentsOwnHome,
		&profile.DisabilityInFamily,
		&profile.SubscriptionPayments,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrProfileNotFound
		}
		return Profile{}, fmt.Errorf("find profile: %w", err)
	}
	profile.ID = id.SubjectID(rowID)
	return profile, nil
}
