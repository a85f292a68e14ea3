package progression

// Share of a calorie change carried by carbs and by fat. Protein is fixed.
const (
	carbShare = 0.6
	fatShare  = 0.4
)

// ApplyAdjustments returns a new snapshot with adj applied. plan itself is
// never modified. Set counts outside [MinSets, MaxSets] are pulled into range
// first. Calories move next, then volume scales every exercise, then compound
// lifts gain a set on top of the scaled value.
func ApplyAdjustments(plan Plan, adj Adjustments) (Plan, error) {
	if err := plan.Validate(); err != nil {
		return Plan{}, err
	}
	next := plan.Clone()
	next.eachExercise(func(e *Exercise) {
		e.Sets = clampSets(e.Sets)
	})

	if adj.CalorieDelta != 0 {
		adjustCalories(next, adj.CalorieDelta)
	}
	if adj.VolumeChange != 0 {
		adjustVolume(next, adj.VolumeChange)
	}
	if adj.AddCompoundSet {
		addSetToCompounds(next)
	}
	return next, nil
}

func adjustCalories(p Plan, delta int) {
	m := p.Macros
	original := m.Calories
	lo, hi := calorieBounds(original)
	target := clampInt(original+delta, lo, hi)
	applied := float64(target - original)

	m.Calories = target
	m.Carbs = max(0, m.Carbs+roundHalfUp(applied*carbShare/4))
	m.Fats = max(0, m.Fats+roundHalfUp(applied*fatShare/9))
}

func adjustVolume(p Plan, change float64) {
	safe := clampFloat(change, -MaxVolumeChange, MaxVolumeChange)
	p.eachExercise(func(e *Exercise) {
		e.Sets = clampSets(roundHalfUp(float64(e.Sets) * (1 + safe)))
	})
}

func addSetToCompounds(p Plan) {
	p.eachExercise(func(e *Exercise) {
		if e.Type == ExerciseCompound {
			e.Sets = clampSets(e.Sets + 1)
		}
	})
}
