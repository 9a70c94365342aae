// Package scoring turns raw biometric readings into normalized metric
// scores and aggregates them into a body score with a confidence estimate.
//
// Everything in this package is pure: no I/O, no shared mutable state, no
// errors. Missing demographic context degrades to profile-independent
// curves, and missing data excludes a category instead of scoring it 0.
package scoring

import (
	"math"

	"github.com/yusufkecer/body-score-backend/internal/domain"
)

// Normalizer maps readings of one category to scores in [0,1].
type Normalizer interface {
	Category() domain.Category
	// Normalize returns false when the reading's id is not handled by this
	// normalizer.
	Normalize(r domain.Reading, p domain.Profile) (float64, bool)
}

type curve func(r domain.Reading, p domain.Profile) float64

// family is a Normalizer backed by one curve per metric id.
type family struct {
	category domain.Category
	curves   map[string]curve
}

func (f family) Category() domain.Category {
	return f.category
}

func (f family) Normalize(r domain.Reading, p domain.Profile) (float64, bool) {
	c, ok := f.curves[r.ID]
	if !ok {
		return 0, false
	}
	return clamp01(c(r, p)), true
}

// Registry selects the normalizer for a reading by its category.
type Registry struct {
	normalizers map[domain.Category]Normalizer
}

func NewRegistry(normalizers ...Normalizer) *Registry {
	r := &Registry{normalizers: make(map[domain.Category]Normalizer, len(normalizers))}
	for _, n := range normalizers {
		r.normalizers[n.Category()] = n
	}
	return r
}

// DefaultRegistry wires the five built-in category normalizers.
func DefaultRegistry() *Registry {
	return NewRegistry(
		BodyCompositionNormalizer(),
		FitnessNormalizer(),
		HeartAndVitalsNormalizer(),
		MetabolicNormalizer(),
		LifestyleNormalizer(),
	)
}

func (r *Registry) For(c domain.Category) (Normalizer, bool) {
	n, ok := r.normalizers[c]
	return n, ok
}

// Normalize scores every reading the registry understands. Readings with an
// unknown category or id are returned in skipped; they count as absent data.
func (r *Registry) Normalize(p domain.Profile, readings []domain.Reading) (metrics []domain.Metric, skipped []domain.Reading) {
	metrics = make([]domain.Metric, 0, len(readings))
	for _, reading := range readings {
		reading = reading.WithDefaults()

		n, ok := r.For(reading.Category)
		if !ok {
			skipped = append(skipped, reading)
			continue
		}

		score, ok := n.Normalize(reading, p)
		if !ok {
			skipped = append(skipped, reading)
			continue
		}

		metrics = append(metrics, domain.NewMetric(reading.ID, reading.Category, reading.Value, score))
	}
	return metrics, skipped
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(1, math.Max(0, v))
}

// ramp interpolates linearly from `from` to `to` as v moves across [lo, hi).
func ramp(v, lo, hi, from, to float64) float64 {
	if hi <= lo {
		return to
	}
	return from + (v-lo)/(hi-lo)*(to-from)
}

// decay falls from start by rate per unit of excess, never below floor.
func decay(start, excess, rate, floor float64) float64 {
	return math.Max(floor, start-excess*rate)
}

// tier returns scores[i] for the first threshold v is below, or the last
// score when v clears every threshold. len(scores) == len(thresholds)+1.
func tier(v float64, thresholds, scores []float64) float64 {
	for i, t := range thresholds {
		if v < t {
			return scores[i]
		}
	}
	return scores[len(scores)-1]
}
