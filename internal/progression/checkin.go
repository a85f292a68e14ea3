package progression

import (
	"errors"
	"fmt"
)

// ErrInvalidCheckIn is returned by CheckIn.Validate.
var ErrInvalidCheckIn = errors.New("invalid check-in")

// Trend is the self-reported direction of strength since the last check-in.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// CheckIn is one weekly progress report. WeightChange is in weight units per
// week, negative for a loss.
type CheckIn struct {
	WeightChange  float64 `json:"weight_change"`
	StrengthTrend Trend   `json:"strength_trend"`
	Energy        int     `json:"energy"`
	Adherence     int     `json:"adherence"`
	Sleep         int     `json:"sleep"`
}

// Validate range-checks a check-in at the submission boundary. EvaluateCheckIn
// does not call it.
func (c CheckIn) Validate() error {
	switch c.StrengthTrend {
	case TrendUp, TrendDown, TrendStable:
	default:
		return fmt.Errorf("%w: strength_trend %q", ErrInvalidCheckIn, c.StrengthTrend)
	}
	if c.Energy < 1 || c.Energy > 5 {
		return fmt.Errorf("%w: energy %d not in 1-5", ErrInvalidCheckIn, c.Energy)
	}
	if c.Sleep < 1 || c.Sleep > 5 {
		return fmt.Errorf("%w: sleep %d not in 1-5", ErrInvalidCheckIn, c.Sleep)
	}
	if c.Adherence < 0 || c.Adherence > 100 {
		return fmt.Errorf("%w: adherence %d not in 0-100", ErrInvalidCheckIn, c.Adherence)
	}
	return nil
}

// Adjustments is the change vector produced by one evaluation. A value must
// be applied to a plan at most once; applying it again shifts the plan twice.
type Adjustments struct {
	CalorieDelta   int     `json:"calorie_delta"`
	VolumeChange   float64 `json:"volume_change"`
	AddCompoundSet bool    `json:"add_compound_set"`
}

// IsZero reports whether the adjustments leave a plan unchanged.
func (a Adjustments) IsZero() bool {
	return a.CalorieDelta == 0 && a.VolumeChange == 0 && !a.AddCompoundSet
}
