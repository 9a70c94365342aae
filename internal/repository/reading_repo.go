package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/yusufkecer/body-score-backend/internal/domain"
)

type ReadingRepository struct {
	db *sql.DB
}

func NewReadingRepository(db *sql.DB) *ReadingRepository {
	return &ReadingRepository{db: db}
}

// Create stores a batch in one transaction. Readings without a timestamp are
// recorded at now.
func (r *ReadingRepository) Create(ctx context.Context, accountID int64, readings []domain.Reading, now time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin reading batch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO readings (account_id, metric_id, category, value, secondary, unit, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare reading insert: %w", err)
	}
	defer stmt.Close()

	for _, reading := range readings {
		recordedAt := now
		if reading.RecordedAt != nil {
			recordedAt = *reading.RecordedAt
		}
		if _, err := stmt.ExecContext(ctx,
			accountID, reading.ID, string(reading.Category), reading.Value, reading.Secondary, reading.Unit, recordedAt,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to create reading %s: %w", reading.ID, err)
		}
	}

	return tx.Commit()
}

// Latest returns the most recent reading for metricID, or nil.
func (r *ReadingRepository) Latest(ctx context.Context, accountID int64, metricID string) (*domain.Reading, error) {
	reading, err := scanReading(r.db.QueryRowContext(ctx,
		`SELECT metric_id, category, value, secondary, unit, recorded_at
		 FROM readings
		 WHERE account_id = ? AND metric_id = ?
		 ORDER BY recorded_at DESC, id DESC
		 LIMIT 1`, accountID, metricID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest reading: %w", err)
	}
	return reading, nil
}

// LatestAll returns the most recent reading of every metric id the account
// has reported, ordered by metric id.
func (r *ReadingRepository) LatestAll(ctx context.Context, accountID int64) ([]domain.Reading, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.metric_id, r.category, r.value, r.secondary, r.unit, r.recorded_at
		 FROM readings r
		 WHERE r.account_id = ?
		   AND r.id = (
		     SELECT r2.id FROM readings r2
		     WHERE r2.account_id = r.account_id AND r2.metric_id = r.metric_id
		     ORDER BY r2.recorded_at DESC, r2.id DESC
		     LIMIT 1
		   )
		 ORDER BY r.metric_id ASC`, accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list readings: %w", err)
	}
	defer rows.Close()

	var readings []domain.Reading
	for rows.Next() {
		reading, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		readings = append(readings, *reading)
	}
	return readings, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReading(s scanner) (*domain.Reading, error) {
	var (
		reading    domain.Reading
		category   string
		recordedAt time.Time
	)
	if err := s.Scan(&reading.ID, &category, &reading.Value, &reading.Secondary, &reading.Unit, &recordedAt); err != nil {
		return nil, err
	}
	reading.Category = domain.Category(category)
	reading.RecordedAt = &recordedAt
	return &reading, nil
}
