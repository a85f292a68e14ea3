package progression

import "fmt"

// Category groups a change notice for display.
type Category string

const (
	CategoryNutrition Category = "nutrition"
	CategoryTraining  Category = "training"
	CategoryNeutral   Category = "neutral"
)

// Change is one user-facing notice. Message is final display text.
type Change struct {
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

// ChangeSummary lists notices in nutrition, volume, compound order.
type ChangeSummary []Change

const (
	volumeUpMessage      = "Training volume slightly increased for progressive overload."
	volumeDownMessage    = "Training volume slightly reduced to improve recovery."
	compoundSetMessage   = "Added one set to major compound lifts based on strength improvements."
	planUnchangedMessage = "Your plan remains the same — you're progressing perfectly."
)

// GenerateChangeSummary describes adj. Zero adjustments produce exactly one
// neutral notice.
func GenerateChangeSummary(adj Adjustments) ChangeSummary {
	var out ChangeSummary

	if adj.CalorieDelta != 0 {
		verb := "increased"
		if adj.CalorieDelta < 0 {
			verb = "reduced"
		}
		out = append(out, Change{
			Category: CategoryNutrition,
			Message:  fmt.Sprintf("Calories %s by %d to support your progress.", verb, abs(adj.CalorieDelta)),
		})
	}

	switch {
	case adj.VolumeChange > 0:
		out = append(out, Change{Category: CategoryTraining, Message: volumeUpMessage})
	case adj.VolumeChange < 0:
		out = append(out, Change{Category: CategoryTraining, Message: volumeDownMessage})
	}

	if adj.AddCompoundSet {
		out = append(out, Change{Category: CategoryTraining, Message: compoundSetMessage})
	}

	if len(out) == 0 {
		out = append(out, Change{Category: CategoryNeutral, Message: planUnchangedMessage})
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
