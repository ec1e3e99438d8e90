package family

import (
	"slices"
	"strings"
)

// Gender is the recorded gender of a member.
type Gender string

const (
	GenderMale    Gender = "Male"
	GenderFemale  Gender = "Female"
	GenderUnknown Gender = "Unknown"
)

// ParseGender maps a free-form source value onto a Gender.
// Matching is case-insensitive; anything other than male/female is Unknown.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return GenderMale
	case "female", "f":
		return GenderFemale
	default:
		return GenderUnknown
	}
}

// UnmarshalText implements encoding.TextUnmarshaler so that JSON and YAML
// decoding normalize gender strings.
func (g *Gender) UnmarshalText(text []byte) error {
	*g = ParseGender(string(text))
	return nil
}

// IsKnown reports whether the gender is Male or Female.
func (g Gender) IsKnown() bool { return g == GenderMale || g == GenderFemale }

// SpouseRef names a member's spouse. SerNo may point at a record that does
// not exist or that does not point back.
type SpouseRef struct {
	Name  string `json:"name" yaml:"name" bson:"name"`
	SerNo int    `json:"serNo" yaml:"serNo" bson:"serNo"`
}

// Member is a single family record.
type Member struct {
	SerNo            int        `json:"serNo" yaml:"serNo" bson:"serNo"`
	Name             string     `json:"name" yaml:"name" bson:"name"`
	Gender           Gender     `json:"gender,omitempty" yaml:"gender,omitempty" bson:"gender,omitempty"`
	Vansh            string     `json:"vansh,omitempty" yaml:"vansh,omitempty" bson:"vansh,omitempty"`
	Level            int        `json:"level" yaml:"level" bson:"level"`
	SonDaughterCount int        `json:"sonDaughterCount" yaml:"sonDaughterCount" bson:"sonDaughterCount"`
	Spouse           *SpouseRef `json:"spouse,omitempty" yaml:"spouse,omitempty" bson:"spouse,omitempty"`
	FatherSerNo      *int       `json:"fatherSerNo,omitempty" yaml:"fatherSerNo,omitempty" bson:"fatherSerNo,omitempty"`
	MotherSerNo      *int       `json:"motherSerNo,omitempty" yaml:"motherSerNo,omitempty" bson:"motherSerNo,omitempty"`
	ChildrenSerNos   []int      `json:"childrenSerNos" yaml:"childrenSerNos" bson:"childrenSerNos"`

	// Profile fields shown on the member page.
	Biography   string `json:"biography,omitempty" yaml:"biography,omitempty" bson:"biography,omitempty"`
	Occupation  string `json:"occupation,omitempty" yaml:"occupation,omitempty" bson:"occupation,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty" yaml:"dateOfBirth,omitempty" bson:"dateOfBirth,omitempty"`
	Place       string `json:"place,omitempty" yaml:"place,omitempty" bson:"place,omitempty"`
}

// EffectiveGender returns Unknown for an empty gender.
func (m Member) EffectiveGender() Gender {
	if m.Gender == "" {
		return GenderUnknown
	}
	return m.Gender
}

// HasSpouse reports whether the record names a spouse.
func (m Member) HasSpouse() bool {
	return m.Spouse != nil && (m.Spouse.SerNo != 0 || m.Spouse.Name != "")
}

// Clone returns a deep copy of m.
func (m Member) Clone() Member {
	out := m
	out.ChildrenSerNos = slices.Clone(m.ChildrenSerNos)
	if m.Spouse != nil {
		s := *m.Spouse
		out.Spouse = &s
	}
	if m.FatherSerNo != nil {
		v := *m.FatherSerNo
		out.FatherSerNo = &v
	}
	if m.MotherSerNo != nil {
		v := *m.MotherSerNo
		out.MotherSerNo = &v
	}
	return out
}

// Ref returns a pointer to serNo, for populating FatherSerNo and MotherSerNo.
func Ref(serNo int) *int { return &serNo }
