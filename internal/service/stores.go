package service

import (
	"context"
	"time"

	"github.com/yusufkecer/body-score-backend/internal/domain"
)

type ProfileStore interface {
	Get(ctx context.Context, accountID int64) (*domain.UserProfile, error)
	Upsert(ctx context.Context, p *domain.UserProfile) error
}

type ReadingStore interface {
	Create(ctx context.Context, accountID int64, readings []domain.Reading, now time.Time) error
	Latest(ctx context.Context, accountID int64, metricID string) (*domain.Reading, error)
	LatestAll(ctx context.Context, accountID int64) ([]domain.Reading, error)
}

type PreferenceStore interface {
	Get(ctx context.Context, accountID int64) (domain.Preferences, error)
	Save(ctx context.Context, accountID, prev int64, next domain.Preferences) error
}

type SnapshotStore interface {
	Append(ctx context.Context, accountID int64, s domain.ScoreSnapshot) error
	List(ctx context.Context, accountID int64, limit int) ([]domain.ScoreSnapshot, error)
}
