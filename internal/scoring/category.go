package scoring

import (
	"github.com/yusufkecer/body-score-backend/internal/domain"
)

type categoryTally struct {
	sum   float64
	count int
}

// tally groups normalized scores by category. Duplicate ids are counted
// separately; nothing is deduplicated here.
func tally(metrics []domain.Metric) map[domain.Category]categoryTally {
	out := make(map[domain.Category]categoryTally, len(domain.AllCategories))
	for _, m := range metrics {
		if !m.Category.Valid() {
			continue
		}
		t := out[m.Category]
		t.sum += m.NormalizedScore
		t.count++
		out[m.Category] = t
	}
	return out
}

// MetricCounts returns how many metrics each category received. Categories
// without data are absent.
func MetricCounts(metrics []domain.Metric) map[domain.Category]int {
	counts := make(map[domain.Category]int)
	for c, t := range tally(metrics) {
		counts[c] = t.count
	}
	return counts
}

// CategoryScores computes rawAverage*100*weight for every category with at
// least one metric. The result is weight-scaled and may exceed 100 when a
// weight is above 1; it is an input to the body score, not a display value.
func CategoryScores(metrics []domain.Metric, weights domain.CategoryWeights) map[domain.Category]float64 {
	scores := make(map[domain.Category]float64)
	for c, t := range tally(metrics) {
		if t.count == 0 {
			continue
		}
		rawAverage := t.sum / float64(t.count)
		scores[c] = rawAverage * 100 * weights.Weight(c)
	}
	return scores
}
