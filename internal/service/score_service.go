// Package service ties the stores, the acquisition collector and the scoring
// engine together for one account at a time.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager/v3"
	"github.com/patrickmn/go-cache"

	"github.com/yusufkecer/body-score-backend/internal/acquisition"
	"github.com/yusufkecer/body-score-backend/internal/domain"
	"github.com/yusufkecer/body-score-backend/internal/repository"
	"github.com/yusufkecer/body-score-backend/internal/scoring"
	"github.com/yusufkecer/body-score-backend/internal/telemetry"
)

const maxRefreshAttempts = 3

var (
	// ErrSuperseded means the preferences kept changing while a refresh ran
	// and no snapshot could be published.
	ErrSuperseded = errors.New("refresh superseded by a preferences change")

	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownPreset   = errors.New("unknown preset")
	ErrUnknownMetric   = errors.New("unknown metric")
	ErrEmptyBatch      = errors.New("no readings")
)

// PreferencesUpdate is a saved preferences vector and the snapshot aggregated
// against it. Snapshot is nil when a later change superseded the refresh.
type PreferencesUpdate struct {
	Preferences domain.Preferences    `json:"preferences"`
	Snapshot    *domain.ScoreSnapshot `json:"snapshot"`
}

type ScoreService struct {
	logger      lager.Logger
	clock       clock.Clock
	profiles    ProfileStore
	readings    ReadingStore
	preferences PreferenceStore
	snapshots   SnapshotStore
	collector   *acquisition.Collector
	engine      *scoring.Engine
	cache       *cache.Cache
}

type Stores struct {
	Profiles    ProfileStore
	Readings    ReadingStore
	Preferences PreferenceStore
	Snapshots   SnapshotStore
}

func NewScoreService(
	logger lager.Logger,
	clk clock.Clock,
	stores Stores,
	collector *acquisition.Collector,
	engine *scoring.Engine,
	profileTTL time.Duration,
) *ScoreService {
	return &ScoreService{
		logger:      logger.Session("score-service"),
		clock:       clk,
		profiles:    stores.Profiles,
		readings:    stores.Readings,
		preferences: stores.Preferences,
		snapshots:   stores.Snapshots,
		collector:   collector,
		engine:      engine,
		cache:       cache.New(profileTTL, 2*profileTTL),
	}
}

/* ─── Profile ─── */

func (s *ScoreService) GetProfile(ctx context.Context, accountID int64) (*domain.UserProfile, error) {
	key := strconv.FormatInt(accountID, 10)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*domain.UserProfile), nil
	}

	p, err := s.profiles.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = &domain.UserProfile{AccountID: accountID, Sex: domain.SexUnknown}
	}

	s.cache.Set(key, p, cache.DefaultExpiration)
	return p, nil
}

func (s *ScoreService) UpdateProfile(ctx context.Context, p *domain.UserProfile) error {
	if err := s.profiles.Upsert(ctx, p); err != nil {
		return err
	}
	s.InvalidateProfile(p.AccountID)
	return nil
}

func (s *ScoreService) InvalidateProfile(accountID int64) {
	s.cache.Delete(strconv.FormatInt(accountID, 10))
}

func (s *ScoreService) profile(ctx context.Context, accountID int64) (domain.Profile, error) {
	p, err := s.GetProfile(ctx, accountID)
	if err != nil {
		return domain.Profile{}, err
	}
	return p.Profile(s.clock.Now()), nil
}

/* ─── Readings ─── */

// AddReadings validates and stores a batch. Category and unit are filled
// from the metric id when omitted.
func (s *ScoreService) AddReadings(ctx context.Context, accountID int64, readings []domain.Reading) ([]domain.Reading, error) {
	if len(readings) == 0 {
		return nil, ErrEmptyBatch
	}

	out := make([]domain.Reading, 0, len(readings))
	for _, r := range readings {
		c, ok := domain.CategoryOf(r.ID)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, r.ID)
		}
		r.Category = c
		out = append(out, r.WithDefaults())
	}

	if err := s.readings.Create(ctx, accountID, out, s.clock.Now()); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ScoreService) LatestReadings(ctx context.Context, accountID int64) ([]domain.Reading, error) {
	readings, err := s.readings.LatestAll(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if readings == nil {
		readings = []domain.Reading{}
	}
	return readings, nil
}

/* ─── Preferences ─── */

func (s *ScoreService) Preferences(ctx context.Context, accountID int64) (domain.Preferences, error) {
	return s.preferences.Get(ctx, accountID)
}

func (s *ScoreService) UpdateWeight(ctx context.Context, accountID int64, c domain.Category, weight float64) (PreferencesUpdate, error) {
	if !c.Valid() {
		return PreferencesUpdate{}, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}
	return s.mutatePreferences(ctx, accountID, func(p domain.Preferences) (domain.Preferences, error) {
		return p.UpdateWeight(c, weight), nil
	})
}

func (s *ScoreService) ApplyPreset(ctx context.Context, accountID int64, name string) (PreferencesUpdate, error) {
	return s.mutatePreferences(ctx, accountID, func(p domain.Preferences) (domain.Preferences, error) {
		next, err := p.ApplyPreset(name)
		if err != nil {
			return p, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
		}
		return next, nil
	})
}

// mutatePreferences saves the mutated vector and re-aggregates the stored
// readings against it.
func (s *ScoreService) mutatePreferences(
	ctx context.Context,
	accountID int64,
	mutate func(domain.Preferences) (domain.Preferences, error),
) (PreferencesUpdate, error) {
	logger := s.logger.Session("update-preferences", lager.Data{"account": accountID})

	current, err := s.preferences.Get(ctx, accountID)
	if err != nil {
		return PreferencesUpdate{}, err
	}

	next, err := mutate(current)
	if err != nil {
		return PreferencesUpdate{}, err
	}

	if err := s.preferences.Save(ctx, accountID, current.Version, next); err != nil {
		if !errors.Is(err, repository.ErrVersionConflict) {
			logger.Error("failed-to-save", err)
		}
		return PreferencesUpdate{}, err
	}

	logger.Info("saved", lager.Data{"version": next.Version, "preset": next.Preset})

	update := PreferencesUpdate{Preferences: next}

	snapshot, err := s.Refresh(ctx, accountID)
	switch {
	case errors.Is(err, ErrSuperseded):
		logger.Info("refresh-superseded", lager.Data{"version": next.Version})
	case err != nil:
		return update, err
	default:
		update.Snapshot = &snapshot
	}

	return update, nil
}

/* ─── Scores ─── */

// Refresh collects the latest stored reading of every metric id, scores the
// batch and appends the snapshot to the account history. A result computed
// against preferences that changed before publication is discarded and the
// computation retried.
func (s *ScoreService) Refresh(ctx context.Context, accountID int64) (domain.ScoreSnapshot, error) {
	logger := s.logger.Session("refresh", lager.Data{"account": accountID})
	start := s.clock.Now()

	profile, err := s.profile(ctx, accountID)
	if err != nil {
		return domain.ScoreSnapshot{}, err
	}

	src := &storeSource{store: s.readings, accountID: accountID}

	for attempt := 1; attempt <= maxRefreshAttempts; attempt++ {
		prefs, err := s.preferences.Get(ctx, accountID)
		if err != nil {
			return domain.ScoreSnapshot{}, err
		}

		readings, err := s.collector.Collect(ctx, src, domain.AcquiredMetricIDs)
		if err != nil {
			if ctx.Err() != nil {
				return domain.ScoreSnapshot{}, ctx.Err()
			}
			logger.Info("partial-batch", lager.Data{"error": err.Error()})
		}

		snapshot, skipped := s.engine.Score(profile, acquisition.Derive(readings, profile), prefs)
		telemetry.RecordSkippedReadings(ctx, len(skipped))

		latest, err := s.preferences.Get(ctx, accountID)
		if err != nil {
			return domain.ScoreSnapshot{}, err
		}
		if latest.Version != prefs.Version {
			logger.Info("superseded", lager.Data{
				"attempt":  attempt,
				"computed": prefs.Version,
				"current":  latest.Version,
			})
			telemetry.RecordSnapshot(ctx, snapshot, false)
			telemetry.RecordSuperseded(ctx)
			continue
		}

		if err := s.snapshots.Append(ctx, accountID, snapshot); err != nil {
			logger.Error("failed-to-persist-snapshot", err)
			return domain.ScoreSnapshot{}, err
		}

		telemetry.RecordSnapshot(ctx, snapshot, true)
		telemetry.RecordRefreshDuration(ctx, s.clock.Since(start))

		logger.Info("computed", lager.Data{
			"snapshot":   snapshot.ID.String(),
			"body-score": snapshot.BodyScore,
			"confidence": snapshot.ConfidenceScore,
			"readings":   len(readings),
			"skipped":    len(skipped),
		})
		return snapshot, nil
	}

	return domain.ScoreSnapshot{}, ErrSuperseded
}

// Preview scores an ad-hoc batch against the stored profile and preferences
// without touching the history.
func (s *ScoreService) Preview(ctx context.Context, accountID int64, readings []domain.Reading) (domain.ScoreSnapshot, []domain.Reading, error) {
	profile, err := s.profile(ctx, accountID)
	if err != nil {
		return domain.ScoreSnapshot{}, nil, err
	}

	prefs, err := s.preferences.Get(ctx, accountID)
	if err != nil {
		return domain.ScoreSnapshot{}, nil, err
	}

	batch := make([]domain.Reading, 0, len(readings))
	for _, r := range readings {
		batch = append(batch, r.WithDefaults())
	}

	snapshot, skipped := s.engine.Score(profile, acquisition.Derive(batch, profile), prefs)
	telemetry.RecordSkippedReadings(ctx, len(skipped))
	telemetry.RecordSnapshot(ctx, snapshot, false)
	return snapshot, skipped, nil
}

func (s *ScoreService) History(ctx context.Context, accountID int64, limit int) ([]domain.ScoreSnapshot, error) {
	return s.snapshots.List(ctx, accountID, limit)
}

// storeSource resolves the most recent stored reading for each metric id.
type storeSource struct {
	store     ReadingStore
	accountID int64
}

func (src *storeSource) Fetch(ctx context.Context, metricID string) (domain.Reading, bool, error) {
	r, err := src.store.Latest(ctx, src.accountID, metricID)
	if err != nil {
		return domain.Reading{}, false, err
	}
	if r == nil {
		return domain.Reading{}, false, nil
	}
	return *r, true, nil
}
