// Package profile holds the onboarding profile and the closed enums that are
// resolved once at ingestion so nothing downstream string-matches user text.
package profile

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// UserProfile is captured at onboarding and never changes afterwards.
type UserProfile struct {
	Weight            Quantity `json:"weight"`
	Age               Quantity `json:"age"`
	Sex               Sex      `json:"sex"`
	Height            Height   `json:"height"`
	Goal              Goal     `json:"goal"`
	TrainingFrequency string   `json:"training_frequency,omitempty"`
	DietPreference    string   `json:"diet_preference,omitempty"`
	Allergies         []string `json:"allergies,omitempty"`
	FocusMuscles      []string `json:"focus_muscles,omitempty"`
}

// Quantity is a free-form numeric field as typed by the user ("180 lbs",
// "30"). JSON numbers are accepted as well as strings.
type Quantity string

func (q *Quantity) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*q = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*q = Quantity(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*q = Quantity(n.String())
	return nil
}

var integerToken = regexp.MustCompile(`\d+`)

// Int returns the first integer-like token in q.
func (q Quantity) Int() (int, bool) {
	tok := integerToken.FindString(string(q))
	if tok == "" {
		return 0, false
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, false
	}
	return n, true
}

// WeightPounds parses the profile weight as pounds. Zero is treated as missing.
func (p UserProfile) WeightPounds() (float64, bool) {
	n, ok := p.Weight.Int()
	if !ok || n <= 0 {
		return 0, false
	}
	return float64(n), true
}

// AgeYears parses the profile age as whole years. Zero is treated as missing.
func (p UserProfile) AgeYears() (int, bool) {
	n, ok := p.Age.Int()
	if !ok || n <= 0 {
		return 0, false
	}
	return n, true
}

// Sex selects the Mifflin-St Jeor constant.
type Sex string

const (
	SexUnspecified Sex = ""
	SexMale        Sex = "male"
	SexFemale      Sex = "female"
)

// ParseSex maps user input onto Sex. Unrecognized input is SexUnspecified.
func ParseSex(s string) Sex {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m", "man":
		return SexMale
	case "female", "f", "woman":
		return SexFemale
	default:
		return SexUnspecified
	}
}

func (s *Sex) UnmarshalText(b []byte) error {
	*s = ParseSex(string(b))
	return nil
}
