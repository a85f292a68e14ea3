// Package progression evolves a plan from weekly check-ins using fixed rule
// tables and bounded mutations. Every function here is pure; callers own
// persistence and must serialize evaluate-then-apply cycles per plan.
package progression

import (
	"errors"
	"fmt"

	"corehabit-api/internal/nutrition"
	"corehabit-api/internal/profile"
)

// ErrMalformedPlan is returned when a plan lacks macros or workout days.
var ErrMalformedPlan = errors.New("malformed plan")

// ExerciseType classifies an exercise for volume rules.
type ExerciseType string

const (
	ExerciseCompound  ExerciseType = "compound"
	ExerciseIsolation ExerciseType = "isolation"
	ExerciseAccessory ExerciseType = "accessory"
	ExerciseCardio    ExerciseType = "cardio"
)

const (
	MinSets = 2
	MaxSets = 6
)

// Plan is one snapshot of a user's nutrition and training plan.
type Plan struct {
	Goal        profile.Goal            `json:"goal"`
	Macros      *nutrition.MacroTargets `json:"macros"`
	WorkoutDays []WorkoutDay            `json:"workout_days"`
}

type WorkoutDay struct {
	Day       string     `json:"day,omitempty"`
	Focus     string     `json:"focus,omitempty"`
	Exercises []Exercise `json:"exercises"`
}

type Exercise struct {
	Name string       `json:"name,omitempty"`
	Type ExerciseType `json:"type"`
	Sets int          `json:"sets"`
	Reps string       `json:"reps,omitempty"`
}

// Validate checks the structural precondition of ApplyAdjustments.
func (p Plan) Validate() error {
	if p.Macros == nil {
		return fmt.Errorf("%w: missing macros", ErrMalformedPlan)
	}
	if p.WorkoutDays == nil {
		return fmt.Errorf("%w: missing workout days", ErrMalformedPlan)
	}
	return nil
}

// Clone returns a deep copy sharing no memory with p.
func (p Plan) Clone() Plan {
	out := Plan{Goal: p.Goal}
	if p.Macros != nil {
		m := *p.Macros
		out.Macros = &m
	}
	if p.WorkoutDays != nil {
		out.WorkoutDays = make([]WorkoutDay, len(p.WorkoutDays))
		for i, d := range p.WorkoutDays {
			out.WorkoutDays[i] = d
			if d.Exercises != nil {
				out.WorkoutDays[i].Exercises = append([]Exercise(nil), d.Exercises...)
			}
		}
	}
	return out
}

// NewPlan builds the onboarding snapshot from computed targets and an
// externally authored workout structure. Set counts outside [MinSets, MaxSets]
// are pulled into range.
func NewPlan(goal profile.Goal, macros nutrition.MacroTargets, days []WorkoutDay) Plan {
	p := Plan{Goal: goal, Macros: &macros, WorkoutDays: []WorkoutDay{}}
	if days != nil {
		p = Plan{Goal: goal, WorkoutDays: days}.Clone()
		p.Macros = &macros
	}
	p.eachExercise(func(e *Exercise) {
		e.Sets = clampSets(e.Sets)
	})
	return p
}

func (p Plan) eachExercise(fn func(*Exercise)) {
	for i := range p.WorkoutDays {
		for j := range p.WorkoutDays[i].Exercises {
			fn(&p.WorkoutDays[i].Exercises[j])
		}
	}
}
