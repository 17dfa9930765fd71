// Package policy implements tabular policies which report the
// probability of selecting each action. These probabilities are what
// importance sampling ratios are built from.
package policy

import "github.com/pkg/errors"

// ErrInvalidProbability is returned when a policy would assign an
// action a probability outside [0, 1] or a state's action probabilities
// do not sum to 1
var ErrInvalidProbability = errors.New("invalid probability")

// tolerance is the allowed deviation of a state's action probabilities
// from summing to 1
const tolerance = 1e-9

// Policy represents a policy that an agent can have.
//
// Policies report the probability with which an action is taken in a
// state. For a target policy π and a behaviour policy b, the ratio
// π(a|s) / b(a|s) reweights returns generated by b into returns under π.
type Policy[S, A comparable] interface {
	Prob(state S, action A) float64
}

// Selector is a Policy that can also choose actions
type Selector[S, A comparable] interface {
	Policy[S, A]
	SelectAction(state S) A
}
