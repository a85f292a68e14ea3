package progression

// Cycle is the outcome of one check-in against one plan snapshot.
type Cycle struct {
	Adjustments Adjustments   `json:"adjustments"`
	Summary     ChangeSummary `json:"summary"`
	Plan        Plan          `json:"plan"`
}

// Step runs one full check-in cycle: evaluate, summarize, apply. The
// adjustments it produces are consumed here and returned only for display.
func Step(plan Plan, c CheckIn) (Cycle, error) {
	adj := EvaluateCheckIn(plan, c)
	next, err := ApplyAdjustments(plan, adj)
	if err != nil {
		return Cycle{}, err
	}
	return Cycle{
		Adjustments: adj,
		Summary:     GenerateChangeSummary(adj),
		Plan:        next,
	}, nil
}
