package domain

import (
	"time"

	"github.com/google/uuid"
)

// ScoreSnapshot is the result of one aggregation pass. A refresh always
// produces a new snapshot; existing ones are never patched.
type ScoreSnapshot struct {
	ID                 uuid.UUID            `json:"id"`
	BodyScore          float64              `json:"body_score"`
	ConfidenceScore    float64              `json:"confidence_score"`
	CategoryScores     map[Category]float64 `json:"category_scores"`
	PreferencesVersion int64                `json:"preferences_version"`
	Timestamp          time.Time            `json:"timestamp"`
}

// CategoryScore reports the weight-scaled score of c and whether c had data.
func (s ScoreSnapshot) CategoryScore(c Category) (float64, bool) {
	v, ok := s.CategoryScores[c]
	return v, ok
}
