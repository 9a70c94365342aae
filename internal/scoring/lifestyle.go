package scoring

import (
	"github.com/yusufkecer/body-score-backend/internal/domain"
)

func LifestyleNormalizer() Normalizer {
	return family{
		category: domain.CategoryLifestyle,
		curves: map[string]curve{
			domain.MetricSleep: func(r domain.Reading, _ domain.Profile) float64 {
				return NormalizeSleep(r.Value)
			},
			domain.MetricHydration: func(r domain.Reading, p domain.Profile) float64 {
				return NormalizeHydration(r.Value, p)
			},
		},
	}
}

func NormalizeSleep(hours float64) float64 {
	switch {
	case hours < 5:
		return 0.2
	case hours < 6:
		return 0.5
	case hours < 7:
		return 0.8
	case hours <= 9:
		return 1.0
	case hours <= 10:
		return 0.8
	}
	return 0.6
}

/* ─── Hydration ───────────────────────────────────────────────────────── */

const (
	hydrationBaseMale     = 3700.0
	hydrationBaseFemale   = 2700.0
	hydrationBaseUnisex   = 3200.0
	referenceHeightMale   = 1.75
	referenceHeightFemale = 1.62
	referenceHeightUnisex = 1.69
)

func hydrationAgeFactor(age int) float64 {
	switch {
	case age <= 0:
		return 1.0
	case age < 19:
		return 0.9
	case age < 31:
		return 1.1
	case age < 51:
		return 1.0
	case age < 71:
		return 0.95
	}
	return 0.9
}

// RecommendedHydration is the daily intake (ml) the hydration curve is
// measured against: a sex-specific base, adjusted by age bracket and scaled
// by height relative to a sex-specific reference height.
func RecommendedHydration(p domain.Profile) float64 {
	base, refHeight := hydrationBaseUnisex, referenceHeightUnisex
	switch p.Sex {
	case domain.SexMale:
		base, refHeight = hydrationBaseMale, referenceHeightMale
	case domain.SexFemale:
		base, refHeight = hydrationBaseFemale, referenceHeightFemale
	}

	recommended := base * hydrationAgeFactor(p.Age)
	if p.HeightMeters > 0 {
		recommended *= p.HeightMeters / refHeight
	}
	return recommended
}

func NormalizeHydration(ml float64, p domain.Profile) float64 {
	ratio := ml / RecommendedHydration(p)
	switch {
	case ratio < 0.5:
		return 0.3
	case ratio < 0.75:
		return 0.6
	case ratio < 0.9:
		return 0.8
	case ratio <= 1.2:
		return 1.0
	}
	return 0.8
}
