package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yusufkecer/body-score-backend/internal/domain"
)

// ErrVersionConflict is returned by Save when the stored preferences moved
// past the version the caller started from.
var ErrVersionConflict = errors.New("preferences version conflict")

type PreferenceRepository struct {
	db *sql.DB
}

func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Get returns the stored preferences, or the defaults at version 0 when the
// account never changed them.
func (r *PreferenceRepository) Get(ctx context.Context, accountID int64) (domain.Preferences, error) {
	var (
		raw   []byte
		prefs domain.Preferences
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT weights, preset, version FROM preferences WHERE account_id = ?`, accountID,
	).Scan(&raw, &prefs.Preset, &prefs.Version)
	if err == sql.ErrNoRows {
		return domain.DefaultPreferences(), nil
	}
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("failed to get preferences: %w", err)
	}

	if err := json.Unmarshal(raw, &prefs.Weights); err != nil {
		return domain.Preferences{}, fmt.Errorf("failed to decode preference weights: %w", err)
	}
	return prefs.Normalized(), nil
}

// Save stores next only if the row is still at version prev.
func (r *PreferenceRepository) Save(ctx context.Context, accountID, prev int64, next domain.Preferences) error {
	raw, err := json.Marshal(next.Weights)
	if err != nil {
		return fmt.Errorf("failed to encode preference weights: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin preferences update: %w", err)
	}

	defaults, _ := json.Marshal(domain.DefaultPreferences().Weights)
	if _, err := tx.ExecContext(ctx,
		`INSERT IGNORE INTO preferences (account_id, weights, preset, version) VALUES (?, ?, ?, 0)`,
		accountID, defaults, domain.PresetDefault,
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to seed preferences: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE preferences SET weights = ?, preset = ?, version = ?
		 WHERE account_id = ? AND version = ?`,
		raw, next.Preset, next.Version, accountID, prev,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to save preferences: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	if n == 0 {
		tx.Rollback()
		return ErrVersionConflict
	}

	return tx.Commit()
}
