package experiment

import (
	"context"
	"io"

	ts "github.com/samuelfneumann/gomontecarlo/timestep"
)

// Source supplies the episodes of an experiment. Next returns io.EOF
// once no episodes remain.
type Source[S, A comparable] interface {
	Next(ctx context.Context) (ts.Episode[S, A], error)
}

// SliceSource is a Source over an in-memory slice of episodes
type SliceSource[S, A comparable] struct {
	episodes []ts.Episode[S, A]
	next     int
}

// NewSliceSource returns a new SliceSource
func NewSliceSource[S, A comparable](
	episodes []ts.Episode[S, A]) *SliceSource[S, A] {
	return &SliceSource[S, A]{episodes: episodes}
}

// Next returns the next episode in the slice
func (s *SliceSource[S, A]) Next(ctx context.Context) (ts.Episode[S, A],
	error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.next >= len(s.episodes) {
		return nil, io.EOF
	}

	ep := s.episodes[s.next]
	s.next++
	return ep, nil
}

// Len returns the total number of episodes in the source
func (s *SliceSource[S, A]) Len() int {
	return len(s.episodes)
}
