package progression

import "corehabit-api/internal/profile"

// EvaluateCheckIn maps a check-in to adjustments using the rule table for the
// plan's goal. Goals without a table yield zero adjustments.
func EvaluateCheckIn(plan Plan, c CheckIn) Adjustments {
	switch plan.Goal {
	case profile.GoalFatLoss:
		return fatLossRules(c)
	case profile.GoalMuscleGain:
		return muscleGainRules(c)
	default:
		return Adjustments{}
	}
}

// fatLossRules are checked in priority order; the first match wins.
func fatLossRules(c CheckIn) Adjustments {
	switch {
	case c.WeightChange >= -1.2 && c.WeightChange <= -0.5 &&
		c.StrengthTrend != TrendDown && c.Energy >= 3:
		// on track
		return Adjustments{VolumeChange: 0.03}
	case c.WeightChange > -0.3 && c.Adherence >= 80:
		// stalled
		return Adjustments{CalorieDelta: -150}
	case c.StrengthTrend == TrendDown && c.Energy <= 2 && c.Sleep <= 2:
		// recovery risk
		return Adjustments{CalorieDelta: 100, VolumeChange: -0.1}
	default:
		return Adjustments{}
	}
}

// muscleGainRules are independent. Later rules overwrite fields set by
// earlier ones (last write wins).
func muscleGainRules(c CheckIn) Adjustments {
	var adj Adjustments
	if c.WeightChange > 1.5 {
		adj.CalorieDelta = -150
	}
	if c.WeightChange < 0.3 {
		adj.CalorieDelta = 200
	}
	if c.StrengthTrend == TrendUp {
		adj.AddCompoundSet = true
	}
	return adj
}
