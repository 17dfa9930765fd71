package tracker

import (
	"github.com/samuelfneumann/gomontecarlo/estimator"
	ts "github.com/samuelfneumann/gomontecarlo/timestep"
)

// Value tracks and saves the trajectory of the estimate of a single key
// over an experiment. After each episode, the current estimate of the
// key is recorded, whether or not the episode visited the key.
//
// The estimator is given to Value directly rather than taken from the
// experiment, so that a Value may track an estimator other than the one
// an experiment is run with.
type Value[S, A, K comparable] struct {
	est      estimator.Estimator[K]
	key      K
	values   []float64
	filename string
}

// NewValue returns a new Value tracker recording the estimate of key in
// est, which will save its data at the specified location filename
func NewValue[S, A, K comparable](filename string,
	est estimator.Estimator[K], key K) *Value[S, A, K] {
	return &Value[S, A, K]{est: est, key: key, filename: filename}
}

// Track records the current estimate of the tracked key
func (v *Value[S, A, K]) Track(ts.Episode[S, A]) {
	v.values = append(v.values, v.est.ValueOf(v.key))
}

// Data returns the estimates tracked so far
func (v *Value[S, A, K]) Data() []float64 {
	return v.values
}

// Save saves the data tracked by the Value Tracker to disk.
func (v *Value[S, A, K]) Save() error {
	return save(v.filename, v.values)
}

// Weight tracks and saves the trajectory of the cumulative weight of a
// single key over an experiment
type Weight[S, A, K comparable] struct {
	est      estimator.Estimator[K]
	key      K
	weights  []float64
	filename string
}

// NewWeight returns a new Weight tracker recording the cumulative weight
// of key in est, which will save its data at the specified location
// filename
func NewWeight[S, A, K comparable](filename string,
	est estimator.Estimator[K], key K) *Weight[S, A, K] {
	return &Weight[S, A, K]{est: est, key: key, filename: filename}
}

// Track records the current cumulative weight of the tracked key
func (w *Weight[S, A, K]) Track(ts.Episode[S, A]) {
	w.weights = append(w.weights, w.est.WeightOf(w.key))
}

// Data returns the cumulative weights tracked so far
func (w *Weight[S, A, K]) Data() []float64 {
	return w.weights
}

// Save saves the data tracked by the Weight Tracker to disk.
func (w *Weight[S, A, K]) Save() error {
	return save(w.filename, w.weights)
}
