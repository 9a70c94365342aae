// Package servicefakes holds in-memory stores for exercising the service and
// handlers without MySQL.
package servicefakes

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yusufkecer/body-score-backend/internal/domain"
	"github.com/yusufkecer/body-score-backend/internal/repository"
)

type ProfileStore struct {
	mu       sync.Mutex
	profiles map[int64]domain.UserProfile
	GetCalls int
	Err      error
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: map[int64]domain.UserProfile{}}
}

func (s *ProfileStore) Get(_ context.Context, accountID int64) (*domain.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GetCalls++
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.profiles[accountID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *ProfileStore) Upsert(_ context.Context, p *domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.profiles[p.AccountID] = *p
	return nil
}

type ReadingStore struct {
	mu       sync.Mutex
	readings map[int64][]domain.Reading
	// FailFor makes Latest fail for the listed metric ids.
	FailFor map[string]error
}

func NewReadingStore() *ReadingStore {
	return &ReadingStore{readings: map[int64][]domain.Reading{}, FailFor: map[string]error{}}
}

func (s *ReadingStore) Create(_ context.Context, accountID int64, readings []domain.Reading, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range readings {
		if r.RecordedAt == nil {
			at := now
			r.RecordedAt = &at
		}
		s.readings[accountID] = append(s.readings[accountID], r)
	}
	return nil
}

func (s *ReadingStore) Latest(_ context.Context, accountID int64, metricID string) (*domain.Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.FailFor[metricID]; err != nil {
		return nil, err
	}
	return s.latest(accountID, metricID), nil
}

func (s *ReadingStore) LatestAll(_ context.Context, accountID int64) ([]domain.Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := map[string]struct{}{}
	for _, r := range s.readings[accountID] {
		ids[r.ID] = struct{}{}
	}

	var out []domain.Reading
	for id := range ids {
		out = append(out, *s.latest(accountID, id))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// later insertions win ties, matching the id tiebreak of the SQL store
func (s *ReadingStore) latest(accountID int64, metricID string) *domain.Reading {
	var best *domain.Reading
	for i, r := range s.readings[accountID] {
		if r.ID != metricID {
			continue
		}
		if best == nil || !r.RecordedAt.Before(*best.RecordedAt) {
			best = &s.readings[accountID][i]
		}
	}
	if best == nil {
		return nil
	}
	r := *best
	return &r
}

type PreferenceStore struct {
	mu    sync.Mutex
	prefs map[int64]domain.Preferences
	// AfterGet runs after every Get with the number of Get calls so far.
	AfterGet func(calls int)
	calls    int
}

func NewPreferenceStore() *PreferenceStore {
	return &PreferenceStore{prefs: map[int64]domain.Preferences{}}
}

func (s *PreferenceStore) Get(_ context.Context, accountID int64) (domain.Preferences, error) {
	s.mu.Lock()
	p, ok := s.prefs[accountID]
	if !ok {
		p = domain.DefaultPreferences()
	}
	s.calls++
	calls, hook := s.calls, s.AfterGet
	s.mu.Unlock()

	if hook != nil {
		hook(calls)
	}
	return p, nil
}

func (s *PreferenceStore) Save(_ context.Context, accountID, prev int64, next domain.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.prefs[accountID]
	if !ok {
		current = domain.DefaultPreferences()
	}
	if current.Version != prev {
		return repository.ErrVersionConflict
	}
	s.prefs[accountID] = next
	return nil
}

// Bump forces a new version as if another request changed the weights.
func (s *PreferenceStore) Bump(accountID int64, c domain.Category, w float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.prefs[accountID]
	if !ok {
		current = domain.DefaultPreferences()
	}
	s.prefs[accountID] = current.UpdateWeight(c, w)
}

type SnapshotStore struct {
	mu        sync.Mutex
	snapshots map[int64][]domain.ScoreSnapshot
	Err       error
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{snapshots: map[int64][]domain.ScoreSnapshot{}}
}

func (s *SnapshotStore) Append(_ context.Context, accountID int64, snapshot domain.ScoreSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.snapshots[accountID] = append(s.snapshots[accountID], snapshot)
	return nil
}

func (s *SnapshotStore) List(_ context.Context, accountID int64, limit int) ([]domain.ScoreSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		limit = repository.DefaultSnapshotLimit
	}
	all := s.snapshots[accountID]
	out := []domain.ScoreSnapshot{}
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

type AccountStore struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
	nextID   int64
}

func NewAccountStore() *AccountStore {
	return &AccountStore{accounts: map[string]domain.Account{}}
}

func (s *AccountStore) Create(_ context.Context, email, passwordHash string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[email]; ok {
		return 0, repository.ErrDuplicateEmail
	}
	s.nextID++
	s.accounts[email] = domain.Account{ID: s.nextID, Email: email, PasswordHash: passwordHash}
	return s.nextID, nil
}

func (s *AccountStore) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[email]
	if !ok {
		return nil, nil
	}
	return &a, nil
}
