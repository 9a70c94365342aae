package domain

import "time"

type BiologicalSex string

const (
	SexMale    BiologicalSex = "male"
	SexFemale  BiologicalSex = "female"
	SexOther   BiologicalSex = "other"
	SexUnknown BiologicalSex = "unknown"
)

// Known reports whether sex-specific curves can be used.
func (s BiologicalSex) Known() bool {
	return s == SexMale || s == SexFemale || s == SexOther
}

func ParseBiologicalSex(s string) BiologicalSex {
	switch BiologicalSex(s) {
	case SexMale, SexFemale, SexOther:
		return BiologicalSex(s)
	}
	return SexUnknown
}

// Profile is the demographic context a scoring pass is parameterized with.
// Zero values mean unknown. A Profile is replaced wholesale on refresh and
// never mutated.
type Profile struct {
	Age          int           `json:"age" yaml:"age"`
	Sex          BiologicalSex `json:"biological_sex" yaml:"biological_sex"`
	HeightMeters float64       `json:"height_meters" yaml:"height_meters"`
}

// NewProfile coerces out-of-range input to "unknown" rather than rejecting it.
func NewProfile(age int, sex BiologicalSex, heightMeters float64) Profile {
	if age < 0 {
		age = 0
	}
	if heightMeters < 0 {
		heightMeters = 0
	}
	return Profile{
		Age:          age,
		Sex:          ParseBiologicalSex(string(sex)),
		HeightMeters: heightMeters,
	}
}

// UserProfile is the stored demographic record of an account.
type UserProfile struct {
	AccountID    int64         `json:"account_id"`
	Sex          BiologicalSex `json:"biological_sex"`
	BirthDate    *time.Time    `json:"birth_date"`
	HeightMeters *float64      `json:"height_meters"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Profile derives the scoring profile as of now. Missing or implausible
// fields degrade to unknown.
func (u *UserProfile) Profile(now time.Time) Profile {
	if u == nil {
		return NewProfile(0, SexUnknown, 0)
	}

	age := 0
	if u.BirthDate != nil {
		age = now.Year() - u.BirthDate.Year()
		if now.Before(u.BirthDate.AddDate(age, 0, 0)) {
			age--
		}
		if age < 0 || age > 130 {
			age = 0
		}
	}

	height := 0.0
	if u.HeightMeters != nil {
		height = *u.HeightMeters
	}

	return NewProfile(age, u.Sex, height)
}
