package profile

import (
	"regexp"
	"strings"
)

// Goal is the closed set of training goals.
type Goal string

const (
	GoalFatLoss     Goal = "fat_loss"
	GoalMuscleGain  Goal = "muscle_gain"
	GoalMaintenance Goal = "maintenance"
	GoalOther       Goal = "other"
)

// Whole-word phrases only, so "close" or "bulky" never resolve a goal.
var (
	fatLossText     = regexp.MustCompile(`\b(lose|losing|fat loss)\b`)
	muscleGainText  = regexp.MustCompile(`\b(build muscle|muscle gain|bulk|bulking)\b`)
	maintenanceText = regexp.MustCompile(`\b(maintain|maintenance)\b`)
)

// ParseGoal resolves either a canonical token or the onboarding free text
// ("Lose fat", "Build muscle") to a Goal. Anything unrecognized is GoalOther.
func ParseGoal(s string) Goal {
	t := strings.ToLower(strings.TrimSpace(s))
	switch Goal(t) {
	case GoalFatLoss, GoalMuscleGain, GoalMaintenance, GoalOther:
		return Goal(t)
	}
	switch {
	case fatLossText.MatchString(t):
		return GoalFatLoss
	case muscleGainText.MatchString(t):
		return GoalMuscleGain
	case maintenanceText.MatchString(t):
		return GoalMaintenance
	default:
		return GoalOther
	}
}

func (g *Goal) UnmarshalText(b []byte) error {
	*g = ParseGoal(string(b))
	return nil
}

func (g Goal) MarshalText() ([]byte, error) {
	if g == "" {
		return []byte(GoalOther), nil
	}
	return []byte(g), nil
}
