// Package nutrition derives initial daily calorie and macro targets from an
// onboarding profile.
package nutrition

import (
	"math"

	"corehabit-api/internal/profile"
)

const (
	kgPerPound = 0.4536
	cmPerInch  = 2.54

	// DefaultHeightInches stands in for a missing height (about 5'10").
	DefaultHeightInches = 70.0

	// activityMultiplier approximates 3-5 weekly sessions regardless of the
	// profile's actual training frequency.
	activityMultiplier = 1.55

	fatLossAdjustment    = -400.0
	muscleGainAdjustment = 350.0

	proteinPerPound           = 0.9
	muscleGainProteinPerPound = 1.0
	fatShare                  = 0.25

	kcalPerGramProtein = 4
	kcalPerGramCarb    = 4
	kcalPerGramFat     = 9
)

// MacroTargets are daily targets: kilocalories, and grams for the rest.
type MacroTargets struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fats     int `json:"fat"`
}

// Energy returns the kilocalories implied by the macro grams.
func (m MacroTargets) Energy() int {
	return m.Protein*kcalPerGramProtein + m.Carbs*kcalPerGramCarb + m.Fats*kcalPerGramFat
}

// Estimate is the full working of a macro calculation.
type Estimate struct {
	WeightPounds  float64      `json:"weight_lb"`
	AgeYears      int          `json:"age"`
	HeightInches  float64      `json:"height_in"`
	HeightAssumed bool         `json:"height_assumed"`
	BMR           float64      `json:"bmr"`
	TDEE          float64      `json:"tdee"`
	Targets       MacroTargets `json:"targets"`
}

// ComputeMacros returns the initial targets for p. ok is false when weight or
// age is missing or unreadable; callers must then keep any prior estimate.
func ComputeMacros(p profile.UserProfile) (MacroTargets, bool) {
	e, ok := Calculate(p)
	if !ok {
		return MacroTargets{}, false
	}
	return e.Targets, true
}

// Calculate is ComputeMacros with the intermediate values exposed, including
// whether the default height had to be assumed.
func Calculate(p profile.UserProfile) (Estimate, bool) {
	lb, ok := p.WeightPounds()
	if !ok {
		return Estimate{}, false
	}
	age, ok := p.AgeYears()
	if !ok {
		return Estimate{}, false
	}

	e := Estimate{WeightPounds: lb, AgeYears: age, HeightInches: p.Height.Inches}
	if p.Height.IsZero() {
		e.HeightInches = DefaultHeightInches
		e.HeightAssumed = true
	}

	e.BMR = BMR(lb*kgPerPound, e.HeightInches*cmPerInch, age, p.Sex)
	e.TDEE = e.BMR * activityMultiplier

	calories := e.TDEE
	proteinFactor := proteinPerPound
	switch p.Goal {
	case profile.GoalFatLoss:
		calories += fatLossAdjustment
	case profile.GoalMuscleGain:
		calories += muscleGainAdjustment
		proteinFactor = muscleGainProteinPerPound
	}

	t := MacroTargets{Calories: roundHalfUp(calories)}
	t.Protein = roundHalfUp(lb * proteinFactor)
	t.Fats = roundHalfUp(float64(t.Calories) * fatShare / kcalPerGramFat)
	remaining := t.Calories - t.Protein*kcalPerGramProtein - t.Fats*kcalPerGramFat
	t.Carbs = roundHalfUp(float64(remaining) / kcalPerGramCarb)

	// Very light profiles on a deficit can leave nothing for carbs.
	if t.Carbs < 0 {
		t.Carbs = 0
	}
	if t.Calories < 0 {
		t.Calories = 0
	}
	e.Targets = t
	return e, true
}

// BMR is the Mifflin-St Jeor basal metabolic rate. Any sex other than male
// uses the female constant.
func BMR(kg, cm float64, age int, sex profile.Sex) float64 {
	base := 10*kg + 6.25*cm - 5*float64(age)
	if sex == profile.SexMale {
		return base + 5
	}
	return base - 161
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
