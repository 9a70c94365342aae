package scoring

import (
	"github.com/yusufkecer/body-score-backend/internal/domain"
)

func BodyCompositionNormalizer() Normalizer {
	return family{
		category: domain.CategoryBodyComposition,
		curves: map[string]curve{
			domain.MetricBodyFat: func(r domain.Reading, p domain.Profile) float64 {
				return NormalizeBodyFat(r.Value, p)
			},
			domain.MetricLeanBodyMass: func(r domain.Reading, p domain.Profile) float64 {
				return NormalizeLeanBodyMass(r.Value, p)
			},
			domain.MetricBMI: func(r domain.Reading, _ domain.Profile) float64 {
				return NormalizeBMI(r.Value)
			},
		},
	}
}

/* ─── Body fat ────────────────────────────────────────────────────────── */

// bodyFatBands are upper bounds (percent) before age headroom is added.
type bodyFatBands struct {
	essential  float64 // below: too lean
	excellent  float64
	good       float64
	acceptable float64
}

var (
	maleBodyFat   = bodyFatBands{essential: 6, excellent: 14, good: 18, acceptable: 25}
	femaleBodyFat = bodyFatBands{essential: 14, excellent: 21, good: 25, acceptable: 32}
	otherBodyFat  = bodyFatBands{essential: 10, excellent: 17.5, good: 21.5, acceptable: 28.5}
)

// bodyFatAgeHeadroom widens the upper bands as age passes 30/40/50/60.
func bodyFatAgeHeadroom(age int) float64 {
	switch {
	case age > 60:
		return 6.5
	case age > 50:
		return 5.0
	case age > 40:
		return 3.0
	case age > 30:
		return 1.5
	}
	return 0
}

// NormalizeBodyFat scores a body fat percentage. Without a known sex the
// profile-independent curve is used.
func NormalizeBodyFat(pct float64, p domain.Profile) float64 {
	if !p.Sex.Known() {
		return bodyFatFallback(pct)
	}

	var b bodyFatBands
	switch p.Sex {
	case domain.SexMale:
		b = maleBodyFat
	case domain.SexFemale:
		b = femaleBodyFat
	default:
		b = otherBodyFat
	}
	headroom := bodyFatAgeHeadroom(p.Age)

	switch {
	case pct < b.essential:
		return 0.4
	case pct < b.excellent+headroom:
		return 1.0
	case pct < b.good+headroom:
		return 0.9
	case pct < b.acceptable+headroom:
		return 0.7
	}
	return decay(0.7, pct-(b.acceptable+headroom), 0.03, 0.2)
}

func bodyFatFallback(pct float64) float64 {
	switch {
	case pct < 10:
		return 0.4
	case pct < 20:
		return 0.9
	case pct < 30:
		return 0.7
	}
	return decay(0.7, pct-30, 0.025, 0.2)
}

/* ─── Lean body mass / FFMI ───────────────────────────────────────────── */

// ffmiBands are the lower bounds of the 0.5, 0.7, 0.9 and 1.0 tiers, then
// the point where very high values start tapering.
type ffmiBands [5]float64

var (
	femaleFFMI = ffmiBands{14, 15.5, 17, 20, 24}
	maleFFMI   = ffmiBands{17, 18.5, 20, 23, 26}
	unisexFFMI = ffmiBands{15.5, 17, 18.5, 21.5, 25}
)

// NormalizeLeanBodyMass converts lean mass (kg) to FFMI using the profile's
// height. Without height or age the neutral default 0.8 is returned.
func NormalizeLeanBodyMass(kg float64, p domain.Profile) float64 {
	if p.HeightMeters <= 0 || p.Age <= 0 {
		return 0.8
	}
	return NormalizeFFMI(kg/(p.HeightMeters*p.HeightMeters), p.Sex)
}

func NormalizeFFMI(ffmi float64, sex domain.BiologicalSex) float64 {
	b := unisexFFMI
	switch sex {
	case domain.SexMale:
		b = maleFFMI
	case domain.SexFemale:
		b = femaleFFMI
	}

	switch {
	case ffmi < b[0]:
		return 0.3
	case ffmi < b[1]:
		return 0.5
	case ffmi < b[2]:
		return 0.7
	case ffmi < b[3]:
		return 0.9
	case ffmi < b[4]:
		return 1.0
	}
	return decay(1.0, ffmi-b[4], 0.1, 0.6)
}

/* ─── BMI ─────────────────────────────────────────────────────────────── */

func NormalizeBMI(bmi float64) float64 {
	switch {
	case bmi < 16:
		return 0.3
	case bmi < 18.5:
		return 0.7
	case bmi <= 24.9:
		return 1.0
	case bmi <= 29.9:
		return 0.7
	case bmi <= 34.9:
		return 0.5
	case bmi <= 39.9:
		return 0.3
	}
	return 0.1
}
