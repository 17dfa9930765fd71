package policy

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Tabular is a policy given by an explicit table of action
// probabilities for each state. States and actions missing from the
// table have probability 0.
type Tabular[S, A comparable] struct {
	probs map[S]map[A]float64
}

// NewTabular returns a new Tabular policy. Each state's action
// probabilities must lie in [0, 1] and sum to 1. The table is copied.
func NewTabular[S, A comparable](probs map[S]map[A]float64) (*Tabular[S, A],
	error) {
	table := make(map[S]map[A]float64, len(probs))

	for state, actions := range probs {
		values := make([]float64, 0, len(actions))
		row := make(map[A]float64, len(actions))

		for action, p := range actions {
			if p < 0 || p > 1 || math.IsNaN(p) {
				return nil, errors.Wrapf(ErrInvalidProbability,
					"newTabular: state %v action %v has probability %v",
					state, action, p)
			}
			values = append(values, p)
			row[action] = p
		}

		if sum := floats.Sum(values); math.Abs(sum-1) > tolerance {
			return nil, errors.Wrapf(ErrInvalidProbability,
				"newTabular: state %v probabilities sum to %v", state, sum)
		}
		table[state] = row
	}

	return &Tabular[S, A]{table}, nil
}

// NewUniform returns a Tabular policy which selects each action
// uniformly at random in every state
func NewUniform[S, A comparable](states []S, actions []A) *Tabular[S, A] {
	table := make(map[S]map[A]float64, len(states))
	for _, state := range states {
		row := make(map[A]float64, len(actions))
		for _, action := range actions {
			row[action] = 1.0 / float64(len(actions))
		}
		table[state] = row
	}
	return &Tabular[S, A]{table}
}

// Prob returns the probability of selecting action in state
func (t *Tabular[S, A]) Prob(state S, action A) float64 {
	return t.probs[state][action]
}
