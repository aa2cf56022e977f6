package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"houscan/internal/analysis"
	id "houscan/pkg/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresStore persists verdicts and summaries in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed verdict store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) UpsertVerdict(ctx context.Context, v analysis.Verdict) error {
	query := `
		INSERT INTO verdicts (subject_id, announcement_id, eligible, priority, reasons, analysis_failed, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (subject_id, announcement_id) DO UPDATE SET
			eligible = EXCLUDED.eligible,
			priority = EXCLUDED.priority,
			reasons = EXCLUDED.reasons,
			analysis_failed = EXCLUDED.analysis_failed,
			updated_at = EXCLUDED.updated_at
	`
	reasons := v.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(v.SubjectID),
		uuid.UUID(v.AnnouncementID),
		v.Eligible,
		v.Priority,
		pq.Array(reasons),
		v.AnalysisFailed,
		v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert verdict: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindVerdict(ctx context.Context, subjectID id.SubjectID, announcementID id.AnnouncementID) (analysis.Verdict, error) {
	query := `
		SELECT subject_id, announcement_id, eligible, priority, reasons, analysis_failed, updated_at
		FROM verdicts
		WHERE subject_id = $1 AND announcement_id = $2
	`
	row := s.db.QueryRowContext(ctx, query, uuid.UUID(subjectID), uuid.UUID(announcementID))
	verdict, err := scanVerdict(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return analysis.Verdict{}, ErrVerdictNotFound
		}
		return analysis.Verdict{}, fmt.Errorf("find verdict: %w", err)
	}
	return verdict, nil
}

func (s *PostgresStore) ListVerdicts(ctx context.Context, subjectID id.SubjectID) ([]analysis.Verdict, error) {
	query := `
		SELECT subject_id, announcement_id, eligible, priority, reasons, analysis_failed, updated_at
		FROM verdicts
		WHERE subject_id = $1
		ORDER BY updated_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(subjectID))
	if err != nil {
		return nil, fmt.Errorf("list verdicts: %w", err)
	}
	defer rows.Close()

	var verdicts []analysis.Verdict
	for rows.Next() {
		verdict, err := scanVerdict(rows)
		if err != nil {
			return nil, fmt.Errorf("list verdicts: %w", err)
		}
		verdicts = append(verdicts, verdict)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list verdicts: %w", err)
	}
	return verdicts, nil
}

func (s *PostgresStore) SaveSummary(ctx context.Context, summary analysis.Summary) error {
	report, err := json.Marshal(summary.Report)
	if err != nil {
		return fmt.Errorf("marshal run report: %w", err)
	}
	query := `
		INSERT INTO subject_summaries (subject_id, any_eligible, report, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (subject_id) DO UPDATE SET
			any_eligible = EXCLUDED.any_eligible,
			report = EXCLUDED.report,
			updated_at = EXCLUDED.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.UUID(summary.SubjectID),
		summary.AnyEligible,
		report,
		summary.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save summary: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindSummary(ctx context.Context, subjectID id.SubjectID) (analysis.Summary, error) {
	query := `
		SELECT subject_id, any_eligible, report, updated_at
		FROM subject_summaries
		WHERE subject_id = $1
	`
	var (
		summary analysis.Summary
		subject uuid.UUID
		report  []byte
	)
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(subjectID)).Scan(
		&subject,
		&summary.AnyEligible,
		&report,
		&summary.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return analysis.Summary{}, ErrSummaryNotFound
		}
		return analysis.Summary{}, fmt.Errorf("find summary: %w", err)
	}
	if len(report) > 0 {
		if err := json.Unmarshal(report, &summary.Report); err != nil {
			return analysis.Summary{}, fmt.Errorf("unmarshal run report: %w", err)
		}
	}
	summary.SubjectID = id.SubjectID(subject)
	return summary, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVerdict(row rowScanner) (analysis.Verdict, error) {
	var (
		verdict      analysis.Verdict
		subject      uuid.UUID
		announcement uuid.UUID
		reasons      pq.StringArray
	)
	err := row.Scan(
		&subject,
		&announcement,
		&verdict.Eligible,
		&verdict.Priority,
		&reasons,
		&verdict.AnalysisFailed,
		&verdict.UpdatedAt,
	)
	if err != nil {
		return analysis.Verdict{}, err
	}
	verdict.SubjectID = id.SubjectID(subject)
	verdict.AnnouncementID = id.AnnouncementID(announcement)
	if len(reasons) > 0 {
		verdict.Reasons = []string(reasons)
	}
	return verdict, nil
}
