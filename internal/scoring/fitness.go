package scoring

import (
	"math"

	"github.com/yusufkecer/body-score-backend/internal/domain"
)

func FitnessNormalizer() Normalizer {
	return family{
		category: domain.CategoryFitness,
		curves: map[string]curve{
			domain.MetricVO2Max: func(r domain.Reading, p domain.Profile) float64 {
				return NormalizeVO2Max(r.Value, p)
			},
			domain.MetricSteps: func(r domain.Reading, _ domain.Profile) float64 {
				return NormalizeSteps(r.Value)
			},
			domain.MetricActiveCalories: func(r domain.Reading, p domain.Profile) float64 {
				return NormalizeActiveCalories(r.Value, p)
			},
		},
	}
}

/* ─── VO2max ──────────────────────────────────────────────────────────── */

type vo2Thresholds struct {
	fair, good, excellent float64
}

var (
	vo2Unisex = vo2Thresholds{fair: 30, good: 40, excellent: 50}
	vo2Male   = vo2Thresholds{fair: 35, good: 42, excellent: 50}
	vo2Female = vo2Thresholds{fair: 30, good: 37, excellent: 45}
)

func vo2AgeAdjustment(age int) float64 {
	switch {
	case age < 30:
		return 0
	case age < 40:
		return 2.5
	case age < 50:
		return 5
	case age < 60:
		return 7.5
	}
	return 10
}

// NormalizeVO2Max scores VO2max (ml/kg/min). With a known sex the age
// adjustment is subtracted from the value and sex-specific thresholds are
// used; otherwise the unisex 30/40/50 bands apply to the raw value.
func NormalizeVO2Max(v float64, p domain.Profile) float64 {
	t := vo2Unisex
	if p.Sex.Known() {
		v -= vo2AgeAdjustment(p.Age)
		switch p.Sex {
		case domain.SexMale:
			t = vo2Male
		case domain.SexFemale:
			t = vo2Female
		}
	}

	switch {
	case v < t.fair:
		return math.Max(0.1, v/t.fair*0.6)
	case v < t.good:
		return ramp(v, t.fair, t.good, 0.6, 0.8)
	case v < t.excellent:
		return ramp(v, t.good, t.excellent, 0.8, 1.0)
	}
	return 1.0
}

/* ─── Steps ───────────────────────────────────────────────────────────── */

func NormalizeSteps(steps float64) float64 {
	switch {
	case steps < 1000:
		return 0.1
	case steps < 5000:
		return ramp(steps, 1000, 5000, 0.1, 0.4)
	case steps < 7500:
		return ramp(steps, 5000, 7500, 0.4, 0.5)
	case steps < 10000:
		return ramp(steps, 7500, 10000, 0.5, 0.6)
	case steps < 15000:
		return ramp(steps, 10000, 15000, 0.6, 1.0)
	}
	return 1.0
}

/* ─── Active calories ─────────────────────────────────────────────────── */

var (
	activeCalorieScores  = []float64{0.1, 0.3, 0.5, 0.7, 0.9, 1.0}
	activeCaloriesUnisex = []float64{100, 200, 350, 500, 800}
	activeCaloriesMale   = []float64{150, 250, 400, 550, 800}
	activeCaloriesFemale = []float64{100, 200, 300, 450, 650}
)

// activeCalorieAgeFactor is the divisor applied to the raw value; older
// users reach each tier with fewer calories.
func activeCalorieAgeFactor(age int) float64 {
	switch {
	case age < 40:
		return 1.0
	case age < 50:
		return 0.95
	case age < 60:
		return 0.9
	case age < 70:
		return 0.8
	}
	return 0.75
}

func NormalizeActiveCalories(kcal float64, p domain.Profile) float64 {
	if !p.Sex.Known() {
		return tier(kcal, activeCaloriesUnisex, activeCalorieScores)
	}

	thresholds := activeCaloriesUnisex
	switch p.Sex {
	case domain.SexMale:
		thresholds = activeCaloriesMale
	case domain.SexFemale:
		thresholds = activeCaloriesFemale
	}
	return tier(kcal/activeCalorieAgeFactor(p.Age), thresholds, activeCalorieScores)
}
