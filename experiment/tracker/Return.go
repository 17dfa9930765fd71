package tracker

import ts "github.com/samuelfneumann/gomontecarlo/timestep"

// Return tracks and saves the discounted return of each episode in an
// experiment, from the first step of the episode.
//
// Note: the returns tracked are those of the behaviour policy which
// generated the episodes, and are not corrected towards any target
// policy.
type Return[S, A comparable] struct {
	discount       float64
	episodeReturns []float64
	filename       string
}

// NewReturn creates and returns a new *Return Tracker
func NewReturn[S, A comparable](filename string,
	discount float64) *Return[S, A] {
	return &Return[S, A]{discount: discount, filename: filename}
}

// Track caches the discounted return of an episode
func (r *Return[S, A]) Track(ep ts.Episode[S, A]) {
	r.episodeReturns = append(r.episodeReturns, ep.Return(r.discount))
}

// Data returns the episodic returns tracked so far
func (r *Return[S, A]) Data() []float64 {
	return r.episodeReturns
}

// Save saves the data tracked by the Return Tracker to disk.
func (r *Return[S, A]) Save() error {
	return save(r.filename, r.episodeReturns)
}
