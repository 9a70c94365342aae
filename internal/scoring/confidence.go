package scoring

import (
	"math"

	"github.com/yusufkecer/body-score-backend/internal/domain"
)

const (
	coverageShare     = 0.7
	completenessShare = 0.3
)

// idealMetricCounts is how many distinct readings make a category complete.
var idealMetricCounts = map[domain.Category]int{
	domain.CategoryBodyComposition: 3,
	domain.CategoryFitness:         3,
	domain.CategoryHeartAndVitals:  4,
	domain.CategoryMetabolic:       2,
	domain.CategoryLifestyle:       2,
}

func IdealMetricCount(c domain.Category) int {
	return idealMetricCounts[c]
}

// Coverage is the share (0–100) of total category weight that has data.
func Coverage(counts map[domain.Category]int, weights domain.CategoryWeights) float64 {
	total := weights.Total()
	if total <= 0 {
		return 0
	}

	available := 0.0
	for _, c := range domain.AllCategories {
		if counts[c] > 0 {
			available += weights.Weight(c)
		}
	}
	return available / total * 100
}

// Completeness weighs each category's metric density, capped at 1, against
// the total weight of all five categories (0–100).
func Completeness(counts map[domain.Category]int, weights domain.CategoryWeights) float64 {
	total := weights.Total()
	if total <= 0 {
		return 0
	}

	weighted := 0.0
	for _, c := range domain.AllCategories {
		n := counts[c]
		if n <= 0 {
			continue
		}
		density := math.Min(float64(n)/float64(IdealMetricCount(c)), 1.0)
		weighted += density * weights.Weight(c)
	}
	return weighted / total * 100
}

// Confidence blends coverage and completeness 70/30.
func Confidence(counts map[domain.Category]int, weights domain.CategoryWeights) float64 {
	return Coverage(counts, weights)*coverageShare + Completeness(counts, weights)*completenessShare
}
