package scoring

import (
	"github.com/yusufkecer/body-score-backend/internal/domain"
)

func MetabolicNormalizer() Normalizer {
	return family{
		category: domain.CategoryMetabolic,
		curves: map[string]curve{
			domain.MetricBMR: func(r domain.Reading, p domain.Profile) float64 {
				return NormalizeBMR(r.Value, p)
			},
			domain.MetricBloodGlucose: func(r domain.Reading, _ domain.Profile) float64 {
				return NormalizeBloodGlucose(r.Value)
			},
		},
	}
}

var (
	bmrScores = []float64{0.5, 0.7, 0.85, 0.95, 1.0}
	bmrUnisex = []float64{1000, 1200, 1400, 1800}
	bmrMale   = []float64{1200, 1400, 1600, 1800}
	bmrFemale = []float64{1000, 1150, 1300, 1450}
)

func bmrAgeAdjustment(age int) float64 {
	switch {
	case age < 30:
		return 0
	case age < 40:
		return 100
	case age < 50:
		return 200
	case age < 60:
		return 300
	}
	return 400
}

// NormalizeBMR scores basal metabolic rate (kcal/day).
func NormalizeBMR(kcal float64, p domain.Profile) float64 {
	if !p.Sex.Known() {
		return tier(kcal, bmrUnisex, bmrScores)
	}

	thresholds := bmrUnisex
	switch p.Sex {
	case domain.SexMale:
		thresholds = bmrMale
	case domain.SexFemale:
		thresholds = bmrFemale
	}
	return tier(kcal-bmrAgeAdjustment(p.Age), thresholds, bmrScores)
}

// NormalizeBloodGlucose scores fasting glucose (mg/dL).
func NormalizeBloodGlucose(mgdl float64) float64 {
	switch {
	case mgdl < 70:
		return 0.4
	case mgdl < 100:
		return 1.0
	case mgdl < 125:
		return 0.8
	case mgdl < 180:
		return 0.5
	}
	return 0.2
}
