package timestep

import (
	"github.com/pkg/errors"
	"github.com/samuelfneumann/gomontecarlo/utils/floatutils"
)

// ErrInvalidEpisode is returned when an episode is malformed
var ErrInvalidEpisode = errors.New("invalid episode")

// Episode is a complete sequence of timesteps from a start state to
// termination
type Episode[S, A comparable] []TimeStep[S, A]

// NewEpisode builds an Episode from parallel slices of states, actions,
// and rewards, numbering the steps and setting their types
func NewEpisode[S, A comparable](states []S, actions []A,
	rewards []float64) (Episode[S, A], error) {
	if len(states) != len(actions) || len(states) != len(rewards) {
		return nil, errors.Wrapf(ErrInvalidEpisode, "newEpisode: %d states, "+
			"%d actions, %d rewards", len(states), len(actions), len(rewards))
	}

	ep := make(Episode[S, A], len(states))
	for i := range states {
		stepType := Mid
		switch i {
		case len(states) - 1:
			stepType = Last
		case 0:
			stepType = First
		}
		ep[i] = New(stepType, states[i], actions[i], rewards[i], i)
	}
	return ep, nil
}

// Validate checks that an episode is non-empty, that its steps are
// numbered sequentially from 0, that it starts with a First step and
// ends with a Last step, and that all rewards are finite. A single step
// episode may have either type.
func (e Episode[S, A]) Validate() error {
	if len(e) == 0 {
		return errors.Wrap(ErrInvalidEpisode, "validate: empty episode")
	}

	for i, step := range e {
		if step.Number != i {
			return errors.Wrapf(ErrInvalidEpisode, "validate: step %d "+
				"numbered %d", i, step.Number)
		}
		if !floatutils.IsFinite(step.Reward) {
			return errors.Wrapf(ErrInvalidEpisode, "validate: step %d "+
				"reward %v", i, step.Reward)
		}

		if len(e) == 1 {
			continue
		}
		switch {
		case i == 0 && !step.First():
			return errors.Wrapf(ErrInvalidEpisode, "validate: first step "+
				"has type %v", step.StepType)
		case i == len(e)-1 && !step.Last():
			return errors.Wrapf(ErrInvalidEpisode, "validate: last step "+
				"has type %v", step.StepType)
		case i > 0 && i < len(e)-1 && !step.Mid():
			return errors.Wrapf(ErrInvalidEpisode, "validate: step %d "+
				"has type %v", i, step.StepType)
		}
	}
	return nil
}

// Return returns the discounted return of the episode from its first
// step
func (e Episode[S, A]) Return(discount float64) float64 {
	var g float64
	for i := len(e) - 1; i >= 0; i-- {
		g = e[i].Reward + discount*g
	}
	return g
}
