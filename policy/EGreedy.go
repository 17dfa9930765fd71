package policy

import (
	"github.com/pkg/errors"
	"github.com/samuelfneumann/gomontecarlo/estimator"
	"github.com/samuelfneumann/gomontecarlo/timestep"
	"github.com/samuelfneumann/gomontecarlo/utils/floatutils"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// EGreedy implements an ε-greedy policy with respect to a table of
// action values.
//
// The policy reads action values from an estimator on every call, so
// changes to the estimates are immediately reflected in the policy.
// Ties between greedy actions are broken in favour of the action listed
// first. EGreedy is not safe for concurrent use because its random
// source is not.
type EGreedy[S, A comparable] struct {
	values  estimator.Estimator[timestep.StateAction[S, A]]
	actions []A
	epsilon float64
	seed    rand.Source // Seed for random number generation
}

// NewEGreedy constructs a new EGreedy policy, where e=epislon is the
// probability with which a random action is selected; values holds the
// action value estimates; actions are the actions available in every
// state.
func NewEGreedy[S, A comparable](e float64, seed uint64,
	values estimator.Estimator[timestep.StateAction[S, A]],
	actions []A) (*EGreedy[S, A], error) {
	if e < 0 || e > 1 {
		return nil, errors.Wrapf(ErrInvalidProbability,
			"newEGreedy: epsilon %v not in [0, 1]", e)
	}
	if len(actions) == 0 {
		return nil, errors.New("newEGreedy: no actions")
	}

	source := rand.NewSource(seed)
	a := make([]A, len(actions))
	copy(a, actions)

	return &EGreedy[S, A]{values, a, e, source}, nil
}

// Epsilon returns the probability of selecting a random action
func (p *EGreedy[S, A]) Epsilon() float64 {
	return p.epsilon
}

// greedy returns the index of the greedy action in state
func (p *EGreedy[S, A]) greedy(state S) int {
	actionValues := make([]float64, len(p.actions))
	for i, action := range p.actions {
		key := timestep.StateAction[S, A]{State: state, Action: action}
		actionValues[i] = p.values.ValueOf(key)
	}

	_, indices := floatutils.MaxSlice(actionValues)
	return indices[0]
}

// probs returns the probability of selecting each action in state
func (p *EGreedy[S, A]) probs(state S) []float64 {
	numActions := len(p.actions)

	// Calculate the ε probability of choosing any action at random
	prob := p.epsilon / float64(numActions)
	actionProbabilites := make([]float64, numActions)
	for i := range actionProbabilites {
		actionProbabilites[i] = prob
	}

	// Adjust the probability of choosing the greedy action
	actionProbabilites[p.greedy(state)] += (1.0 - p.epsilon)
	return actionProbabilites
}

// Prob returns the probability of selecting action in state. Actions
// which the policy does not know of have probability 0.
func (p *EGreedy[S, A]) Prob(state S, action A) float64 {
	for i, a := range p.actions {
		if a == action {
			return p.probs(state)[i]
		}
	}
	return 0
}

// SelectAction selects an action from an ε-greedy policy
func (p *EGreedy[S, A]) SelectAction(state S) A {
	// Construct a categorical distribution over actions using action
	// probabilities and sample an action from it
	dist := distuv.NewCategorical(p.probs(state), p.seed)
	return p.actions[int(dist.Rand())]
}
