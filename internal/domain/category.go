package domain

import "fmt"

// Category groups metrics into one of the five health areas the body score
// is built from.
type Category string

const (
	CategoryBodyComposition Category = "body_composition"
	CategoryFitness         Category = "fitness"
	CategoryHeartAndVitals  Category = "heart_and_vitals"
	CategoryMetabolic       Category = "metabolic"
	CategoryLifestyle       Category = "lifestyle"
)

// AllCategories lists every category in display order.
var AllCategories = []Category{
	CategoryBodyComposition,
	CategoryFitness,
	CategoryHeartAndVitals,
	CategoryMetabolic,
	CategoryLifestyle,
}

func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}
