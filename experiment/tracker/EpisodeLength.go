package tracker

import ts "github.com/samuelfneumann/gomontecarlo/timestep"

// EpisodeLength tracks and saves the lengths of episodes in an
// experiment. Episodes which were rejected are never tracked.
type EpisodeLength[S, A comparable] struct {
	episodeLengths []int
	filename       string
}

// NewEpisodeLength returns a new EpisodeLength tracker which will save
// its data at the specified location filename
func NewEpisodeLength[S, A comparable](filename string) *EpisodeLength[S, A] {
	var tracker EpisodeLength[S, A]
	tracker.filename = filename
	return &tracker
}

// Track caches the length of an episode
func (e *EpisodeLength[S, A]) Track(ep ts.Episode[S, A]) {
	e.episodeLengths = append(e.episodeLengths, len(ep))
}

// Data returns the episode lengths tracked so far
func (e *EpisodeLength[S, A]) Data() []int {
	return e.episodeLengths
}

// Save saves the data tracked by the EpisodeLength Tracker to disk.
func (e *EpisodeLength[S, A]) Save() error {
	return save(e.filename, e.episodeLengths)
}
