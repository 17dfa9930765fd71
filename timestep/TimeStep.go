// Package timestep implements timesteps of the agent-environment
// interaction and the episodes they make up
package timestep

import "fmt"

// StepType denotes the type of step that a TimeStep can be, either  first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// TimeStep packages together a single timestep of an episode: the state
// the agent was in, the action it took, and the reward it received for
// taking that action.
type TimeStep[S, A comparable] struct {
	StepType StepType
	State    S
	Action   A
	Reward   float64
	Number   int
}

// New returns a new TimeStep
func New[S, A comparable](t StepType, state S, action A, r float64,
	n int) TimeStep[S, A] {
	return TimeStep[S, A]{t, state, action, r, n}
}

// First returns whether a TimeStep is the first in an episode
func (t *TimeStep[S, A]) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an episode
func (t *TimeStep[S, A]) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an episode
func (t *TimeStep[S, A]) Last() bool {
	return t.StepType == Last
}

func (t TimeStep[S, A]) String() string {
	str := "TimeStep | Type: %v  |  State: %v  |  Action: %v  |  " +
		"Reward:  %.2f  |  Step Number:  %v"

	return fmt.Sprintf(str, t.StepType, t.State, t.Action, t.Reward, t.Number)
}

// StateAction is a state-action pair, used to key action values
type StateAction[S, A comparable] struct {
	State  S
	Action A
}

func (s StateAction[S, A]) String() string {
	return fmt.Sprintf("(%v, %v)", s.State, s.Action)
}
