package domain

import (
	"fmt"
	"math"
	"sort"
)

const (
	MinCategoryWeight = 0.1
	MaxCategoryWeight = 2.0
)

const (
	PresetDefault     = "default"
	PresetWeightLoss  = "weight-loss"
	PresetFitness     = "fitness-focus"
	PresetHeartHealth = "heart-health-focus"

	// PresetCustom marks a vector edited away from every named preset. It
	// cannot be applied.
	PresetCustom = "custom"
)

// CategoryWeights holds one weight per category. Treat values as immutable:
// every change goes through Preferences, which copies.
type CategoryWeights map[Category]float64

var presets = map[string]CategoryWeights{
	PresetDefault: {
		CategoryBodyComposition: 1.0,
		CategoryFitness:         1.0,
		CategoryHeartAndVitals:  1.0,
		CategoryMetabolic:       1.0,
		CategoryLifestyle:       0.8,
	},
	PresetWeightLoss: {
		CategoryBodyComposition: 2.0,
		CategoryFitness:         1.5,
		CategoryHeartAndVitals:  1.0,
		CategoryMetabolic:       1.5,
		CategoryLifestyle:       1.0,
	},
	PresetFitness: {
		CategoryBodyComposition: 1.0,
		CategoryFitness:         2.0,
		CategoryHeartAndVitals:  1.5,
		CategoryMetabolic:       0.5,
		CategoryLifestyle:       1.0,
	},
	PresetHeartHealth: {
		CategoryBodyComposition: 0.8,
		CategoryFitness:         1.5,
		CategoryHeartAndVitals:  2.0,
		CategoryMetabolic:       1.2,
		CategoryLifestyle:       1.0,
	},
}

// Preset returns a copy of the named preset vector.
func Preset(name string) (CategoryWeights, bool) {
	w, ok := presets[name]
	if !ok {
		return nil, false
	}
	return w.Clone(), true
}

func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClampWeight forces w into [MinCategoryWeight, MaxCategoryWeight].
func ClampWeight(w float64) float64 {
	if math.IsNaN(w) {
		return MinCategoryWeight
	}
	return math.Min(MaxCategoryWeight, math.Max(MinCategoryWeight, w))
}

func (w CategoryWeights) Clone() CategoryWeights {
	out := make(CategoryWeights, len(AllCategories))
	for _, c := range AllCategories {
		out[c] = w.Weight(c)
	}
	return out
}

// Weight falls back to the default preset for categories missing from w.
func (w CategoryWeights) Weight(c Category) float64 {
	if v, ok := w[c]; ok {
		return v
	}
	return presets[PresetDefault][c]
}

// Total sums the weights of all five categories.
func (w CategoryWeights) Total() float64 {
	total := 0.0
	for _, c := range AllCategories {
		total += w.Weight(c)
	}
	return total
}

// Preferences is the versioned weight vector both aggregation stages read.
// Every mutation returns a new value with a higher Version so a computation
// can be tied to the exact preferences it used.
type Preferences struct {
	Weights CategoryWeights `json:"weights"`
	Preset  string          `json:"preset,omitempty"`
	Version int64           `json:"version"`
}

func DefaultPreferences() Preferences {
	w, _ := Preset(PresetDefault)
	return Preferences{Weights: w, Preset: PresetDefault}
}

func (p Preferences) Weight(c Category) float64 {
	return p.Weights.Weight(c)
}

// UpdateWeight stores a clamped weight for c. Unknown categories leave p
// unchanged.
func (p Preferences) UpdateWeight(c Category, w float64) Preferences {
	if !c.Valid() {
		return p
	}
	next := Preferences{
		Weights: p.Weights.Clone(),
		Preset:  PresetCustom,
		Version: p.Version + 1,
	}
	next.Weights[c] = ClampWeight(w)
	return next
}

// ApplyPreset replaces every weight with the named preset.
func (p Preferences) ApplyPreset(name string) (Preferences, error) {
	w, ok := Preset(name)
	if !ok {
		return p, fmt.Errorf("unknown preset %q", name)
	}
	return Preferences{
		Weights: w,
		Preset:  name,
		Version: p.Version + 1,
	}, nil
}

// Normalized clamps every stored weight and fills missing categories.
func (p Preferences) Normalized() Preferences {
	w := make(CategoryWeights, len(AllCategories))
	for _, c := range AllCategories {
		w[c] = ClampWeight(p.Weights.Weight(c))
	}
	p.Weights = w
	return p
}
