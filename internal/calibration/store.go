package calibration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/models"
	"github.com/lib/pq"
)

// RecordStore persists calibration records keyed uniquely by game_id.
// Upsert replaces the whole row (re-predicting a game wins); SetOutcome
// fills the outcome columns of an existing row only.
type RecordStore interface {
	Upsert(ctx context.Context, record models.CalibrationRecord) error
	Get(ctx context.Context, gameID string) (*models.CalibrationRecord, error)
	SetOutcome(ctx context.Context, gameID string, result models.BetResult, actualMargin, closingLine float64, gradedAt time.Time) (bool, error)
	List(ctx context.Context, league string, since time.Time) ([]models.CalibrationRecord, error)
}

// PostgresStore is the durable RecordStore
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a Postgres-backed record store
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db: db,
	}
}

// Upsert inserts or fully replaces the record for a game. The unique key
// constraint on game_id is what makes concurrent re-predictions safe.
func (s *PostgresStore) Upsert(ctx context.Context, record models.CalibrationRecord) error {
	query := `
		INSERT INTO calibration_records (
			game_id, league, predicted_edge_pct, adjustment_total,
			sources, sharp_alignment, confidence, predicted_at,
			result, actual_margin, closing_line, graded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULL, NULL, NULL, NULL)
		ON CONFLICT (game_id) DO UPDATE SET
			league = EXCLUDED.league,
			predicted_edge_pct = EXCLUDED.predicted_edge_pct,
			adjustment_total = EXCLUDED.adjustment_total,
			sources = EXCLUDED.sources,
			sharp_alignment = EXCLUDED.sharp_alignment,
			confidence = EXCLUDED.confidence,
			predicted_at = EXCLUDED.predicted_at,
			result = NULL,
			actual_margin = NULL,
			closing_line = NULL,
			graded_at = NULL
	`

	_, err := s.db.ExecContext(ctx, query,
		record.GameID,
		record.League,
		record.PredictedEdgePct,
		record.AdjustmentTotal,
		pq.Array(record.Sources),
		string(record.SharpAlignment),
		string(record.Confidence),
		record.PredictedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert calibration record: %w", err)
	}

	return nil
}

// Get returns the record for a game, or nil when none exists
func (s *PostgresStore) Get(ctx context.Context, gameID string) (*models.CalibrationRecord, error) {
	query := `
		SELECT game_id, league, predicted_edge_pct, adjustment_total,
		       sources, sharp_alignment, confidence, predicted_at,
		       result, actual_margin, closing_line, graded_at
		FROM calibration_records
		WHERE game_id = $1
	`

	record, err := scanRecord(s.db.QueryRowContext(ctx, query, gameID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query calibration record: %w", err)
	}

	return record, nil
}

// SetOutcome fills the outcome columns of an existing prediction row.
// Returns false when no prediction exists for the game.
func (s *PostgresStore) SetOutcome(ctx context.Context, gameID string, result models.BetResult, actualMargin, closingLine float64, gradedAt time.Time) (bool, error) {
	query := `
		UPDATE calibration_records SET
			result = $2,
			actual_margin = $3,
			closing_line = $4,
			graded_at = $5
		WHERE game_id = $1
	`

	res, err := s.db.ExecContext(ctx, query, gameID, string(result), actualMargin, closingLine, gradedAt)
	if err != nil {
		return false, fmt.Errorf("failed to set calibration outcome: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// List returns records for a league, optionally restricted to a window
func (s *PostgresStore) List(ctx context.Context, league string, since time.Time) ([]models.CalibrationRecord, error) {
	query := `
		SELECT game_id, league, predicted_edge_pct, adjustment_total,
		       sources, sharp_alignment, confidence, predicted_at,
		       result, actual_margin, closing_line, graded_at
		FROM calibration_records
		WHERE league = $1 AND predicted_at >= $2
		ORDER BY predicted_at
	`

	rows, err := s.db.QueryContext(ctx, query, league, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list calibration records: %w", err)
	}
	defer rows.Close()

	var records []models.CalibrationRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan calibration record: %w", err)
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating calibration records: %w", err)
	}

	return records, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*models.CalibrationRecord, error) {
	var record models.CalibrationRecord
	var sources pq.StringArray
	var alignment, confidence string
	var result sql.NullString
	var actualMargin, closingLine sql.NullFloat64
	var gradedAt sql.NullTime

	err := row.Scan(
		&record.GameID,
		&record.League,
		&record.PredictedEdgePct,
		&record.AdjustmentTotal,
		&sources,
		&alignment,
		&confidence,
		&record.PredictedAt,
		&result,
		&actualMargin,
		&closingLine,
		&gradedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Sources = []string(sources)
	record.SharpAlignment = models.SharpAlignment(alignment)
	record.Confidence = models.Confidence(confidence)

	if result.Valid {
		r := models.BetResult(result.String)
		record.Result = &r
	}
	if actualMargin.Valid {
		record.ActualMargin = &actualMargin.Float64
	}
	if closingLine.Valid {
		record.ClosingLine = &closingLine.Float64
	}
	if gradedAt.Valid {
		record.GradedAt = &gradedAt.Time
	}

	return &record, nil
}
