package announcement

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"houscan/internal/analysis"
	id "houscan/pkg/domain"

	"github.com/google/uuid"
)

// PostgresStore persists announcements in PostgreSQL. Priority tiers are a
// JSONB column; their shape is owned by the engine, not the schema.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed announcement store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, a Announcement) error {
	tiers, err := json.Marshal(a.Tiers)
	if err != nil {
		return fmt.Errorf("marshal priority tiers: %w", err)
	}
	query := `
		INSERT INTO announcements (id, title, criteria, application_period, reference_date, tiers, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			criteria = EXCLUDED.criteria,
			application_period = EXCLUDED.application_period,
			reference_date = EXCLUDED.reference_date,
			tiers = EXCLUDED.tiers,
			updated_at = EXCLUDED.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.UUID(a.ID),
		a.Title,
		a.Criteria,
		a.ApplicationPeriod,
		a.ReferenceDate,
		tiers,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save announcement: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, announcementID id.AnnouncementID) (Announcement, error) {
	query := `
		SELECT id, title, criteria, application_period, reference_date, tiers, updated_at
		FROM announcements
		WHERE id = $1
	`
	row := s.db.QueryRowContext(ctx, query, uuid.UUID(announcementID))
	a, err := scanAnnouncement(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Announcement{}, ErrAnnouncementNotFound
		}
		return Announcement{}, fmt.Errorf("find announcement: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Announcement, error) {
	query := `
		SELECT id, title, criteria, application_period, reference_date, tiers, updated_at
		FROM announcements
		ORDER BY updated_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	defer rows.Close()

	var announcements []Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, fmt.Errorf("list announcements: %w", err)
		}
		announcements = append(announcements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return announcements, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnnouncement(row rowScanner) (Announcement, error) {
	var (
		a     Announcement
		rowID uuid.UUID
		tiers []byte
	)
	err := row.Scan(
		&rowID,
		&a.Title,
		&a.Criteria,
		&a.ApplicationPeriod,
		&a.ReferenceDate,
		&tiers,
		&a.UpdatedAt,
	)
	if err != nil {
		return Announcement{}, err
	}
	a.ID = id.AnnouncementID(rowID)
	if len(tiers) > 0 {
		var parsed []analysis.PriorityTier
		if err := json.Unmarshal(tiers, &parsed); err != nil {
			return Announcement{}, fmt.Errorf("unmarshal priority tiers: %w", err)
		}
		a.Tiers = parsed
	}
	return a, nil
}
