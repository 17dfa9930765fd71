// Package episode turns sampled episodes into the (key, return, weight)
// samples that estimators fold into value estimates.
//
// A Processor decides which visits within an episode produce samples
// (first-visit or every-visit), which keys those samples belong to
// (states for V, state-action pairs for Q), and how returns generated by
// a behaviour policy are weighted to estimate values of a target policy.
// Estimators only fold what they are given.
package episode

import (
	"github.com/pkg/errors"
	"github.com/samuelfneumann/gomontecarlo/estimator"
	"github.com/samuelfneumann/gomontecarlo/policy"
	ts "github.com/samuelfneumann/gomontecarlo/timestep"
	"github.com/samuelfneumann/gomontecarlo/utils/floatutils"
)

// ErrZeroBehaviour is returned when an episode contains an action that
// the behaviour policy could not have taken
var ErrZeroBehaviour = errors.New("action has zero behaviour probability")

// Sample is a single observation of a return for a key. Step is the
// timestep of the visit that produced it.
type Sample[K comparable] struct {
	Key    K
	Return float64
	Weight float64
	Step   int
}

// Processor converts episodes into Samples
type Processor[S, A comparable] struct {
	config    Config
	target    policy.Policy[S, A]
	behaviour policy.Policy[S, A]
}

// New returns a new Processor. The target and behaviour policies are
// required for every correction except OnPolicy, which ignores them.
func New[S, A comparable](c Config, target,
	behaviour policy.Policy[S, A]) (*Processor[S, A], error) {
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "new")
	}

	if c.Correction != OnPolicy && (target == nil || behaviour == nil) {
		return nil, errors.Errorf("new: correction %q requires target and "+
			"behaviour policies", c.Correction)
	}

	return &Processor[S, A]{c, target, behaviour}, nil
}

// Config returns the configuration of the Processor
func (p *Processor[S, A]) Config() Config {
	return p.config
}

// StateSamples returns the samples of state values V(s) generated by an
// episode, in the order of the visits that produced them. The importance
// sampling ratio of a visit at step t starts at step t.
func (p *Processor[S, A]) StateSamples(ep ts.Episode[S, A]) ([]Sample[S],
	error) {
	raw, err := p.process(ep, 0)
	if err != nil {
		return nil, err
	}

	return selectVisits(ep, raw, p.config.Visit,
		func(step ts.TimeStep[S, A]) S { return step.State }), nil
}

// ActionSamples returns the samples of action values Q(s, a) generated
// by an episode, in the order of the visits that produced them. The
// action at step t is given, so the importance sampling ratio of a
// visit at step t starts at step t+1.
func (p *Processor[S, A]) ActionSamples(ep ts.Episode[S, A]) (
	[]Sample[ts.StateAction[S, A]], error) {
	raw, err := p.process(ep, 1)
	if err != nil {
		return nil, err
	}

	return selectVisits(ep, raw, p.config.Visit,
		func(step ts.TimeStep[S, A]) ts.StateAction[S, A] {
			return ts.StateAction[S, A]{State: step.State, Action: step.Action}
		}), nil
}

// observation is the return and weight of the visit at a single step
type observation struct {
	ret, weight float64
}

// process computes the return and weight of a visit at every step of
// an episode. The ratio of a visit at step t starts at step t+offset.
func (p *Processor[S, A]) process(ep ts.Episode[S, A],
	offset int) ([]observation, error) {
	if err := ep.Validate(); err != nil {
		return nil, errors.Wrap(err, "process")
	}

	ratios, err := p.ratios(ep)
	if err != nil {
		return nil, err
	}

	var obs []observation
	switch p.config.Correction {
	case OnPolicy, Importance:
		obs = importance(ep, ratios, p.config.Discount, offset)
	case PerDecision:
		obs = perDecision(ep, ratios, p.config.Discount, offset)
	case DiscountAware:
		obs = discountAware(ep, ratios, p.config.Discount, offset)
	}

	for t, o := range obs {
		if !floatutils.IsFinite(o.ret) || !floatutils.IsFinite(o.weight) {
			return nil, errors.Errorf("process: step %d has return %v and "+
				"weight %v", t, o.ret, o.weight)
		}
	}
	return obs, nil
}

// ratios returns the per-step importance sampling ratios
// π(aₖ|sₖ) / b(aₖ|sₖ) of an episode
func (p *Processor[S, A]) ratios(ep ts.Episode[S, A]) ([]float64, error) {
	ratios := make([]float64, len(ep))
	if p.config.Correction == OnPolicy {
		for k := range ratios {
			ratios[k] = 1
		}
		return ratios, nil
	}

	for k, step := range ep {
		pi := p.target.Prob(step.State, step.Action)
		b := p.behaviour.Prob(step.State, step.Action)

		if pi < 0 || pi > 1 || b < 0 || b > 1 {
			return nil, errors.Wrapf(policy.ErrInvalidProbability,
				"ratios: step %d has target probability %v and behaviour "+
					"probability %v", k, pi, b)
		}
		if b == 0 {
			return nil, errors.Wrapf(ErrZeroBehaviour, "ratios: step %d "+
				"state %v action %v", k, step.State, step.Action)
		}
		ratios[k] = pi / b
	}
	return ratios, nil
}

// importance computes the discounted return Gₜ of each step together
// with the importance sampling ratio ρ_{t+offset:T-1}. With all ratios
// equal to 1 this is plain on-policy Monte Carlo.
func importance[S, A comparable](ep ts.Episode[S, A], ratios []float64,
	discount float64, offset int) []observation {
	obs := make([]observation, len(ep))

	// Accumulate the return and ratio backwards through the episode
	var g float64
	w := 1.0
	for t := len(ep) - 1; t >= 0; t-- {
		g = ep[t].Reward + discount*g

		wAfter := w // ρ_{t+1:T-1}
		w *= ratios[t]

		if offset == 0 {
			obs[t] = observation{g, w}
		} else {
			obs[t] = observation{g, wAfter}
		}
	}
	return obs
}

// perDecision computes the per-decision importance sampling return
//
//	G̃ₜ = Σₖ γᵏ⁻ᵗ ρ_{t+offset:k} Rₖ₊₁
//
// of each step. Samples are unweighted.
func perDecision[S, A comparable](ep ts.Episode[S, A], ratios []float64,
	discount float64, offset int) []observation {
	obs := make([]observation, len(ep))

	var gState float64 // return corrected from the current step on
	for t := len(ep) - 1; t >= 0; t-- {
		gAction := ep[t].Reward + discount*gState
		gState = ratios[t] * gAction

		if offset == 0 {
			obs[t] = observation{gState, 1}
		} else {
			obs[t] = observation{gAction, 1}
		}
	}
	return obs
}

// discountAware computes the discount-aware importance sampling sample
// of each step. The flat partial returns Ḡ_{t:h} are weighted by
//
//	c_h = (1-γ) γʰ⁻ᵗ⁻¹ ρ_{t+offset:h-1}   for t < h < T
//	c_T = γᵀ⁻ᵗ⁻¹ ρ_{t+offset:T-1}
//
// and collapsed into a single sample with weight Σ c_h and return
// Σ c_h Ḡ_{t:h} / Σ c_h. Folding these samples reproduces the weighted
// (or ordinary) discount-aware estimator exactly.
func discountAware[S, A comparable](ep ts.Episode[S, A], ratios []float64,
	discount float64, offset int) []observation {
	T := len(ep)
	obs := make([]observation, T)

	for t := 0; t < T; t++ {
		var flat, numerator, weight float64
		rho := 1.0
		gamma := 1.0 // γʰ⁻ᵗ⁻¹

		for h := t + 1; h <= T; h++ {
			flat += ep[h-1].Reward
			if h-1 >= t+offset {
				rho *= ratios[h-1]
			}

			c := gamma * rho
			if h < T {
				c *= 1 - discount
			}
			numerator += c * flat
			weight += c
			gamma *= discount
		}

		if weight == 0 {
			obs[t] = observation{0, 0}
		} else {
			obs[t] = observation{numerator / weight, weight}
		}
	}
	return obs
}

// selectVisits keys the observation of each step and keeps either every
// visit or only the first visit to each key
func selectVisits[S, A, K comparable](ep ts.Episode[S, A], obs []observation,
	visit Visit, key func(ts.TimeStep[S, A]) K) []Sample[K] {
	samples := make([]Sample[K], 0, len(obs))
	seen := make(map[K]struct{})

	for t, step := range ep {
		k := key(step)
		if visit == FirstVisit {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
		}
		samples = append(samples, Sample[K]{k, obs[t].ret, obs[t].weight, t})
	}
	return samples
}

// Fold folds samples into an estimator in order. Fold stops at the first
// sample the estimator rejects.
func Fold[K comparable](est estimator.Estimator[K], samples []Sample[K]) error {
	for _, s := range samples {
		if _, err := est.Observe(s.Key, s.Return, s.Weight); err != nil {
			return errors.Wrapf(err, "fold: sample from step %d", s.Step)
		}
	}
	return nil
}
