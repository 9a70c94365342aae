package scoring

import (
	"time"

	"code.cloudfoundry.org/clock"
	"github.com/google/uuid"

	"github.com/yusufkecer/body-score-backend/internal/domain"
)

// Engine runs the normalize → category → body score pipeline. It holds no
// mutable state; the clock only stamps snapshots.
type Engine struct {
	registry *Registry
	clock    clock.Clock
}

func NewEngine(registry *Registry, clk clock.Clock) *Engine {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if clk == nil {
		clk = clock.NewClock()
	}
	return &Engine{registry: registry, clock: clk}
}

// Score normalizes readings against p and aggregates them. Readings the
// registry cannot score are returned so the caller can report them.
func (e *Engine) Score(p domain.Profile, readings []domain.Reading, prefs domain.Preferences) (domain.ScoreSnapshot, []domain.Reading) {
	metrics, skipped := e.registry.Normalize(p, readings)
	return e.Aggregate(metrics, prefs), skipped
}

// Aggregate builds a fresh snapshot from already-normalized metrics.
func (e *Engine) Aggregate(metrics []domain.Metric, prefs domain.Preferences) domain.ScoreSnapshot {
	return Aggregate(metrics, prefs, e.clock.Now())
}

// Aggregate computes the body score and confidence score.
//
// Each category score already carries its weight, so dividing their sum by
// the available weight yields the weighted mean of the raw 0–100 averages.
// Weights must not be applied a second time.
func Aggregate(metrics []domain.Metric, prefs domain.Preferences, at time.Time) domain.ScoreSnapshot {
	weights := prefs.Weights
	categoryScores := CategoryScores(metrics, weights)
	counts := MetricCounts(metrics)

	snapshot := domain.ScoreSnapshot{
		ID:                 uuid.New(),
		CategoryScores:     map[domain.Category]float64{},
		PreferencesVersion: prefs.Version,
		Timestamp:          at,
	}

	availableWeight := 0.0
	sum := 0.0
	for _, c := range domain.AllCategories {
		score, ok := categoryScores[c]
		if !ok {
			continue
		}
		availableWeight += weights.Weight(c)
		sum += score
		snapshot.CategoryScores[c] = score
	}

	if availableWeight <= 0 {
		snapshot.CategoryScores = map[domain.Category]float64{}
		return snapshot
	}

	snapshot.BodyScore = sum / availableWeight
	snapshot.ConfidenceScore = Confidence(counts, weights)
	return snapshot
}
