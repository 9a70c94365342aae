package acquisition

import (
	"github.com/yusufkecer/body-score-backend/internal/domain"
)

// Katch-McArdle: BMR = 370 + 21.6 * lean body mass (kg).
const (
	katchMcArdleBase   = 370.0
	katchMcArdleFactor = 21.6
)

func BMI(weightKg, heightMeters float64) (float64, bool) {
	if weightKg <= 0 || heightMeters <= 0 {
		return 0, false
	}
	return weightKg / (heightMeters * heightMeters), true
}

func KatchMcArdleBMR(leanBodyMassKg float64) (float64, bool) {
	if leanBodyMassKg <= 0 {
		return 0, false
	}
	return katchMcArdleBase + katchMcArdleFactor*leanBodyMassKg, true
}

// Derive resolves values the platform may not report directly: BMI from body
// mass and the profile height, BMR from lean body mass. Direct readings
// always win. Derivation-only readings are dropped from the result.
func Derive(readings []domain.Reading, p domain.Profile) []domain.Reading {
	byID := make(map[string]domain.Reading, len(readings))
	for _, r := range readings {
		if _, seen := byID[r.ID]; !seen {
			byID[r.ID] = r
		}
	}

	out := make([]domain.Reading, 0, len(readings)+2)
	for _, r := range readings {
		if r.ID == domain.MetricBodyMass {
			continue
		}
		out = append(out, r)
	}

	if _, ok := byID[domain.MetricBMI]; !ok {
		if mass, ok := byID[domain.MetricBodyMass]; ok {
			if bmi, ok := BMI(mass.Value, p.HeightMeters); ok {
				out = append(out, domain.NewReading(domain.MetricBMI, bmi))
			}
		}
	}

	if _, ok := byID[domain.MetricBMR]; !ok {
		if lean, ok := byID[domain.MetricLeanBodyMass]; ok {
			if bmr, ok := KatchMcArdleBMR(lean.Value); ok {
				out = append(out, domain.NewReading(domain.MetricBMR, bmr))
			}
		}
	}

	return out
}
