package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"corehabit-api/internal/profile"
)

func TestEvaluateCheckIn_FatLoss(t *testing.T) {
	plan := Plan{Goal: profile.GoalFatLoss}

	tests := []struct {
		name string
		in   CheckIn
		want Adjustments
	}{
		{
			name: "on track",
			in:   CheckIn{WeightChange: -0.8, StrengthTrend: TrendStable, Energy: 4, Adherence: 50, Sleep: 3},
			want: Adjustments{VolumeChange: 0.03},
		},
		{
			name: "on track wins over high adherence",
			in:   CheckIn{WeightChange: -0.8, StrengthTrend: TrendUp, Energy: 3, Adherence: 95, Sleep: 4},
			want: Adjustments{VolumeChange: 0.03},
		},
		{
			name: "on track lower edge",
			in:   CheckIn{WeightChange: -1.2, StrengthTrend: TrendStable, Energy: 3, Adherence: 50, Sleep: 3},
			want: Adjustments{VolumeChange: 0.03},
		},
		{
			name: "on track upper edge",
			in:   CheckIn{WeightChange: -0.5, StrengthTrend: TrendStable, Energy: 3, Adherence: 50, Sleep: 3},
			want: Adjustments{VolumeChange: 0.03},
		},
		{
			name: "on track range but low energy falls through",
			in:   CheckIn{WeightChange: -0.8, StrengthTrend: TrendStable, Energy: 2, Adherence: 90, Sleep: 3},
			want: Adjustments{},
		},
		{
			name: "stalled",
			in:   CheckIn{WeightChange: -0.1, StrengthTrend: TrendStable, Energy: 3, Adherence: 85, Sleep: 3},
			want: Adjustments{CalorieDelta: -150},
		},
		{
			name: "stalled needs weight change above -0.3",
			in:   CheckIn{WeightChange: -0.3, StrengthTrend: TrendStable, Energy: 3, Adherence: 85, Sleep: 3},
			want: Adjustments{},
		},
		{
			name: "stalled needs adherence",
			in:   CheckIn{WeightChange: 0.4, StrengthTrend: TrendStable, Energy: 3, Adherence: 79, Sleep: 3},
			want: Adjustments{},
		},
		{
			name: "recovery risk",
			in:   CheckIn{WeightChange: -0.4, StrengthTrend: TrendDown, Energy: 2, Adherence: 60, Sleep: 2},
			want: Adjustments{CalorieDelta: 100, VolumeChange: -0.1},
		},
		{
			name: "stalled outranks recovery risk",
			in:   CheckIn{WeightChange: 0.1, StrengthTrend: TrendDown, Energy: 1, Adherence: 90, Sleep: 1},
			want: Adjustments{CalorieDelta: -150},
		},
		{
			name: "losing too fast",
			in:   CheckIn{WeightChange: -2.0, StrengthTrend: TrendStable, Energy: 4, Adherence: 50, Sleep: 3},
			want: Adjustments{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateCheckIn(plan, tt.in))
		})
	}
}

func TestEvaluateCheckIn_MuscleGain(t *testing.T) {
	plan := Plan{Goal: profile.GoalMuscleGain}

	tests := []struct {
		name string
		in   CheckIn
		want Adjustments
	}{
		{"gaining too fast", CheckIn{WeightChange: 1.8, StrengthTrend: TrendStable}, Adjustments{CalorieDelta: -150}},
		{"not gaining", CheckIn{WeightChange: 0.2, StrengthTrend: TrendStable}, Adjustments{CalorieDelta: 200}},
		{"not gaining and stronger", CheckIn{WeightChange: 0.2, StrengthTrend: TrendUp}, Adjustments{CalorieDelta: 200, AddCompoundSet: true}},
		{"steady and stronger", CheckIn{WeightChange: 1.0, StrengthTrend: TrendUp}, Adjustments{AddCompoundSet: true}},
		{"steady", CheckIn{WeightChange: 1.0, StrengthTrend: TrendDown}, Adjustments{}},
		{"boundaries are exclusive", CheckIn{WeightChange: 1.5, StrengthTrend: TrendStable}, Adjustments{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateCheckIn(plan, tt.in))
		})
	}
}

func TestEvaluateCheckIn_OtherGoalsNoOp(t *testing.T) {
	stalled := CheckIn{WeightChange: 0.5, StrengthTrend: TrendUp, Energy: 3, Adherence: 100, Sleep: 3}
	for _, g := range []profile.Goal{profile.GoalMaintenance, profile.GoalOther, ""} {
		got := EvaluateCheckIn(Plan{Goal: g}, stalled)
		assert.True(t, got.IsZero(), "goal %q", g)
	}
}

func TestEvaluateCheckIn_Deterministic(t *testing.T) {
	plan := Plan{Goal: profile.GoalFatLoss}
	in := CheckIn{WeightChange: -0.4, StrengthTrend: TrendDown, Energy: 2, Adherence: 60, Sleep: 1}
	first := EvaluateCheckIn(plan, in)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, EvaluateCheckIn(plan, in))
	}
}

func TestCheckIn_Validate(t *testing.T) {
	ok := CheckIn{WeightChange: -1, StrengthTrend: TrendStable, Energy: 3, Adherence: 80, Sleep: 4}
	assert.NoError(t, ok.Validate())

	bad := []CheckIn{
		{StrengthTrend: "sideways", Energy: 3, Adherence: 80, Sleep: 3},
		{StrengthTrend: TrendUp, Energy: 0, Adherence: 80, Sleep: 3},
		{StrengthTrend: TrendUp, Energy: 3, Adherence: 101, Sleep: 3},
		{StrengthTrend: TrendUp, Energy: 3, Adherence: 80, Sleep: 6},
	}
	for _, c := range bad {
		assert.ErrorIs(t, c.Validate(), ErrInvalidCheckIn)
	}
}
