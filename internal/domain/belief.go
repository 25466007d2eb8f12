package domain

import (
	"errors"
	"fmt"
)

// ChoiceStep is the fixed adjustment applied by an echo-chamber choice.
const ChoiceStep = 0.1

var ErrInvalidChoice = errors.New("choice must be one of: survival, idealism")

// BeliefVector is a player's two-axis belief state. Both axes live in [0, 1]
// when updated through ApplyChoiceAdjustment; they are not required to sum to 1.
type BeliefVector struct {
	Survival float64 `json:"survival"`
	Idealism float64 `json:"idealism"`
}

// BeliefDelta is a signed shift per axis, as produced by sentiment scoring.
type BeliefDelta struct {
	Survival float64 `json:"survival"`
	Idealism float64 `json:"idealism"`
}

// InitialBeliefs is the vector every new player starts with.
func InitialBeliefs() BeliefVector {
	return BeliefVector{Survival: 0.5, Idealism: 0.5}
}

// InRange reports whether both axes are within [0, 1].
func (v BeliefVector) InRange() bool {
	return v.Survival >= 0 && v.Survival <= 1 && v.Idealism >= 0 && v.Idealism <= 1
}

// Sub returns the per-axis difference v - other.
func (v BeliefVector) Sub(other BeliefVector) BeliefDelta {
	return BeliefDelta{
		Survival: v.Survival - other.Survival,
		Idealism: v.Idealism - other.Idealism,
	}
}

func (d BeliefDelta) IsZero() bool {
	return d.Survival == 0 && d.Idealism == 0
}

type Choice string

const (
	ChoiceSurvival Choice = "survival"
	ChoiceIdealism Choice = "idealism"
)

func (c Choice) IsValid() bool {
	switch c {
	case ChoiceSurvival, ChoiceIdealism:
		return true
	}
	return false
}

// ParseChoice validates a raw choice string.
func ParseChoice(s string) (Choice, error) {
	c := Choice(s)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: got %q", ErrInvalidChoice, s)
	}
	return c, nil
}

// ApplyChoiceAdjustment reinforces the chosen axis by ChoiceStep and weakens
// the other by the same amount, clamping both to [0, 1].
// An unrecognized choice returns ErrInvalidChoice and the unchanged vector.
func ApplyChoiceAdjustment(current BeliefVector, choice Choice) (BeliefVector, error) {
	switch choice {
	case ChoiceSurvival:
		return BeliefVector{
			Survival: min(1.0, current.Survival+ChoiceStep),
			Idealism: max(0.0, current.Idealism-ChoiceStep),
		}, nil
	case ChoiceIdealism:
		return BeliefVector{
			Survival: max(0.0, current.Survival-ChoiceStep),
			Idealism: min(1.0, current.Idealism+ChoiceStep),
		}, nil
	default:
		return current, fmt.Errorf("%w: got %q", ErrInvalidChoice, string(choice))
	}
}

// ApplySentimentDelta adds the delta to each axis. No clamping is applied.
func ApplySentimentDelta(current BeliefVector, delta BeliefDelta) BeliefVector {
	return BeliefVector{
		Survival: current.Survival + delta.Survival,
		Idealism: current.Idealism + delta.Idealism,
	}
}
