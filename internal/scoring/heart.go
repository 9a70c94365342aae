package scoring

import (
	"github.com/yusufkecer/body-score-backend/internal/domain"
)

func HeartAndVitalsNormalizer() Normalizer {
	return family{
		category: domain.CategoryHeartAndVitals,
		curves: map[string]curve{
			domain.MetricRestingHeartRate: func(r domain.Reading, _ domain.Profile) float64 {
				return NormalizeRestingHeartRate(r.Value)
			},
			domain.MetricHRV: func(r domain.Reading, _ domain.Profile) float64 {
				return NormalizeHRV(r.Value)
			},
			domain.MetricBloodOxygen: func(r domain.Reading, _ domain.Profile) float64 {
				return NormalizeBloodOxygen(r.Value)
			},
			domain.MetricBloodPressure: func(r domain.Reading, _ domain.Profile) float64 {
				return NormalizeBloodPressure(r.Value, r.Secondary)
			},
		},
	}
}

func NormalizeRestingHeartRate(bpm float64) float64 {
	switch {
	case bpm < 40:
		// bradycardia outside trained athletes
		return 0.7
	case bpm < 50:
		return 0.9
	case bpm < 60:
		return 1.0
	case bpm < 70:
		return 0.9
	case bpm < 80:
		return 0.8
	case bpm <= 90:
		return 0.6
	}
	return decay(0.6, bpm-90, 0.02, 0.1)
}

var (
	hrvThresholds = []float64{20, 40, 60, 80, 100}
	hrvScores     = []float64{0.3, 0.5, 0.7, 0.85, 0.95, 1.0}
)

func NormalizeHRV(ms float64) float64 {
	return tier(ms, hrvThresholds, hrvScores)
}

func NormalizeBloodOxygen(pct float64) float64 {
	switch {
	case pct < 90:
		return 0.3
	case pct < 95:
		return 0.6
	case pct < 98:
		return 0.85
	}
	return 1.0
}

type BloodPressureCategory string

const (
	BloodPressureLow      BloodPressureCategory = "low"
	BloodPressureNormal   BloodPressureCategory = "normal"
	BloodPressureElevated BloodPressureCategory = "elevated"
	BloodPressureStage1   BloodPressureCategory = "stage1"
	BloodPressureStage2   BloodPressureCategory = "stage2"
	BloodPressureCrisis   BloodPressureCategory = "crisis"
)

var bloodPressureScores = map[BloodPressureCategory]float64{
	BloodPressureLow:      0.4,
	BloodPressureNormal:   1.0,
	BloodPressureElevated: 0.8,
	BloodPressureStage1:   0.6,
	BloodPressureStage2:   0.3,
	BloodPressureCrisis:   0.1,
}

// ClassifyBloodPressure applies the clinical categories, worst first. A
// diastolic of 0 means only the systolic value was measured.
func ClassifyBloodPressure(systolic, diastolic float64) BloodPressureCategory {
	hasDiastolic := diastolic > 0

	switch {
	case systolic > 180 || (hasDiastolic && diastolic > 120):
		return BloodPressureCrisis
	case systolic >= 140 || (hasDiastolic && diastolic >= 90):
		return BloodPressureStage2
	case systolic >= 130 || (hasDiastolic && diastolic >= 80):
		return BloodPressureStage1
	case systolic >= 120:
		return BloodPressureElevated
	case systolic < 90 || (hasDiastolic && diastolic < 60):
		return BloodPressureLow
	}
	return BloodPressureNormal
}

func NormalizeBloodPressure(systolic, diastolic float64) float64 {
	return bloodPressureScores[ClassifyBloodPressure(systolic, diastolic)]
}
