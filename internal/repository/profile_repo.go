package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yusufkecer/body-score-backend/internal/domain"
)

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Get(ctx context.Context, accountID int64) (*domain.UserProfile, error) {
	var (
		p      domain.UserProfile
		sex    string
		birth  sql.NullTime
		height sql.NullFloat64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT account_id, biological_sex, birth_date, height_meters, updated_at
		 FROM profiles WHERE account_id = ?`, accountID,
	).Scan(&p.AccountID, &sex, &birth, &height, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	p.Sex = domain.ParseBiologicalSex(sex)
	if birth.Valid {
		p.BirthDate = &birth.Time
	}
	if height.Valid {
		p.HeightMeters = &height.Float64
	}
	return &p, nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, p *domain.UserProfile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (account_id, biological_sex, birth_date, height_meters)
		 VALUES (?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE
		   biological_sex = VALUES(biological_sex),
		   birth_date = VALUES(birth_date),
		   height_meters = VALUES(height_meters)`,
		p.AccountID, string(p.Sex), p.BirthDate, p.HeightMeters,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}
