package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/yusufkecer/body-score-backend/internal/domain"
)

const DefaultSnapshotLimit = 20

// SnapshotRepository is append-only: snapshots are inserted, never updated.
type SnapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) Append(ctx context.Context, accountID int64, s domain.ScoreSnapshot) error {
	categories, err := json.Marshal(s.CategoryScores)
	if err != nil {
		return fmt.Errorf("failed to encode category scores: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO score_snapshots
		   (id, account_id, body_score, confidence_score, category_scores, preferences_version, taken_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID.String(), accountID, s.BodyScore, s.ConfidenceScore, categories, s.PreferencesVersion, s.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to append snapshot: %w", err)
	}
	return nil
}

// List returns the newest snapshots first.
func (r *SnapshotRepository) List(ctx context.Context, accountID int64, limit int) ([]domain.ScoreSnapshot, error) {
	if limit <= 0 {
		limit = DefaultSnapshotLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, body_score, confidence_score, category_scores, preferences_version, taken_at
		 FROM score_snapshots
		 WHERE account_id = ?
		 ORDER BY taken_at DESC
		 LIMIT ?`, accountID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []domain.ScoreSnapshot{}
	for rows.Next() {
		var (
			s          domain.ScoreSnapshot
			id         string
			categories []byte
		)
		if err := rows.Scan(&id, &s.BodyScore, &s.ConfidenceScore, &categories, &s.PreferencesVersion, &s.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		if s.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("failed to parse snapshot id: %w", err)
		}
		s.CategoryScores = map[domain.Category]float64{}
		if err := json.Unmarshal(categories, &s.CategoryScores); err != nil {
			return nil, fmt.Errorf("failed to decode category scores: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}
