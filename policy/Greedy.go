package policy

import (
	"github.com/samuelfneumann/gomontecarlo/estimator"
	"github.com/samuelfneumann/gomontecarlo/timestep"
)

// NewGreedy creates a new Greedy policy, which is an ε-greedy policy
// with ε = 0. Greedy policies are deterministic, so seed only matters
// for the random source that SelectAction is given.
func NewGreedy[S, A comparable](seed uint64,
	values estimator.Estimator[timestep.StateAction[S, A]],
	actions []A) (*EGreedy[S, A], error) {
	return NewEGreedy(0.0, seed, values, actions)
}
