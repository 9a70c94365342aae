package domain

import (
	"math"
	"time"
)

const (
	MetricBodyFat          = "body_fat_percentage"
	MetricLeanBodyMass     = "lean_body_mass"
	MetricBMI              = "bmi"
	MetricVO2Max           = "vo2_max"
	MetricSteps            = "steps"
	MetricActiveCalories   = "active_calories"
	MetricRestingHeartRate = "resting_heart_rate"
	MetricHRV              = "heart_rate_variability"
	MetricBloodOxygen      = "blood_oxygen"
	MetricBloodPressure    = "blood_pressure"
	MetricBMR              = "basal_metabolic_rate"
	MetricBloodGlucose     = "blood_glucose"
	MetricSleep            = "sleep_hours"
	MetricHydration        = "hydration"

	// MetricBodyMass is only used to derive BMI; it is never scored.
	MetricBodyMass = "body_mass"
)

var metricCategories = map[string]Category{
	MetricBodyFat:          CategoryBodyComposition,
	MetricLeanBodyMass:     CategoryBodyComposition,
	MetricBMI:              CategoryBodyComposition,
	MetricBodyMass:         CategoryBodyComposition,
	MetricVO2Max:           CategoryFitness,
	MetricSteps:            CategoryFitness,
	MetricActiveCalories:   CategoryFitness,
	MetricRestingHeartRate: CategoryHeartAndVitals,
	MetricHRV:              CategoryHeartAndVitals,
	MetricBloodOxygen:      CategoryHeartAndVitals,
	MetricBloodPressure:    CategoryHeartAndVitals,
	MetricBMR:              CategoryMetabolic,
	MetricBloodGlucose:     CategoryMetabolic,
	MetricSleep:            CategoryLifestyle,
	MetricHydration:        CategoryLifestyle,
}

// MetricUnits is the canonical unit each metric's curve expects.
var MetricUnits = map[string]string{
	MetricBodyFat:          "%",
	MetricLeanBodyMass:     "kg",
	MetricBMI:              "kg/m2",
	MetricBodyMass:         "kg",
	MetricVO2Max:           "ml/kg/min",
	MetricSteps:            "count",
	MetricActiveCalories:   "kcal",
	MetricRestingHeartRate: "bpm",
	MetricHRV:              "ms",
	MetricBloodOxygen:      "%",
	MetricBloodPressure:    "mmHg",
	MetricBMR:              "kcal",
	MetricBloodGlucose:     "mg/dL",
	MetricSleep:            "hours",
	MetricHydration:        "ml",
}

// AcquiredMetricIDs lists every id the acquisition layer asks sources for,
// including ids that are only used for derivation.
var AcquiredMetricIDs = []string{
	MetricBodyFat, MetricLeanBodyMass, MetricBMI, MetricBodyMass,
	MetricVO2Max, MetricSteps, MetricActiveCalories,
	MetricRestingHeartRate, MetricHRV, MetricBloodOxygen, MetricBloodPressure,
	MetricBMR, MetricBloodGlucose,
	MetricSleep, MetricHydration,
}

// CategoryOf returns the category a metric id belongs to.
func CategoryOf(id string) (Category, bool) {
	c, ok := metricCategories[id]
	return c, ok
}

// Reading is one raw value as delivered by the acquisition layer, already in
// the metric's canonical unit.
type Reading struct {
	ID       string   `json:"id" yaml:"id"`
	Category Category `json:"category" yaml:"category"`
	Value    float64  `json:"value" yaml:"value"`
	// Secondary carries the diastolic pressure of a blood_pressure reading.
	Secondary  float64    `json:"secondary,omitempty" yaml:"secondary,omitempty"`
	Unit       string     `json:"unit,omitempty" yaml:"unit,omitempty"`
	RecordedAt *time.Time `json:"recorded_at,omitempty" yaml:"recorded_at,omitempty"`
}

// NewReading fills in the category and unit from the metric id.
func NewReading(id string, value float64) Reading {
	c, _ := CategoryOf(id)
	return Reading{ID: id, Category: c, Value: value, Unit: MetricUnits[id]}
}

// WithDefaults fills category and unit when the producer left them empty.
func (r Reading) WithDefaults() Reading {
	if r.Category == "" {
		r.Category, _ = CategoryOf(r.ID)
	}
	if r.Unit == "" {
		r.Unit = MetricUnits[r.ID]
	}
	return r
}

// Metric is a normalized reading ready for aggregation.
type Metric struct {
	ID              string   `json:"id"`
	Category        Category `json:"category"`
	Value           float64  `json:"value"`
	NormalizedScore float64  `json:"normalized_score"`
}

// NewMetric clamps score into [0,1].
func NewMetric(id string, category Category, value, score float64) Metric {
	switch {
	case math.IsNaN(score) || score < 0:
		score = 0
	case score > 1:
		score = 1
	}
	return Metric{ID: id, Category: category, Value: value, NormalizedScore: score}
}
