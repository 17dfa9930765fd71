// Package estimator implements tabular Monte Carlo estimators of state
// values V(s) and action values Q(s, a).
//
// Estimators fold a stream of (key, return, weight) observations into a
// table of running averages one observation at a time, without storing
// the history of observations. The same update rule is used whether a
// key denotes a state or a state-action pair.
package estimator

import (
	"github.com/pkg/errors"
	"github.com/samuelfneumann/gomontecarlo/utils/floatutils"
)

var (
	// ErrInvalidWeight is returned when an importance sampling weight is
	// negative, NaN, or infinite
	ErrInvalidWeight = errors.New("invalid weight")

	// ErrInvalidReturn is returned when a return is NaN or infinite
	ErrInvalidReturn = errors.New("invalid return")
)

// Estimator is a table of value estimates keyed by state or by
// state-action pair.
type Estimator[K comparable] interface {
	// Observe folds a single (return, weight) observation into the
	// estimate for key and returns the updated estimate. If the
	// observation is invalid, the table is not modified.
	Observe(key K, ret, weight float64) (float64, error)

	// ValueOf returns the estimate for key, or the default value if no
	// estimate exists yet
	ValueOf(key K) float64

	// Lookup returns the estimate for key and whether that estimate is
	// backed by observed data
	Lookup(key K) (float64, bool)

	// WeightOf returns the cumulative weight folded into key's estimate
	WeightOf(key K) float64

	Reset()
	Len() int
	Keys() []K
}

// Entry is a single record in an estimator table
type Entry struct {
	Value            float64
	CumulativeWeight float64

	// Count is the number of observations folded into the entry. Only
	// observations which changed the entry are counted.
	Count int
}

// config holds the settings shared by all estimators
type config struct {
	initial float64
}

// Option configures an estimator
type Option func(*config)

// WithDefault sets the value reported for keys which have no estimate
// yet. The default is 0.
func WithDefault(v float64) Option {
	return func(c *config) {
		c.initial = v
	}
}

func newConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// validate checks that a (return, weight) observation can be folded into
// an estimate
func validate(ret, weight float64) error {
	if !floatutils.IsFinite(weight) || weight < 0 {
		return errors.Wrapf(ErrInvalidWeight, "observe: weight %v", weight)
	}
	if !floatutils.IsFinite(ret) {
		return errors.Wrapf(ErrInvalidReturn, "observe: return %v", ret)
	}
	return nil
}
