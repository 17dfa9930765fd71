package tracker

import (
	ts "github.com/samuelfneumann/gomontecarlo/timestep"
	"github.com/samuelfneumann/gomontecarlo/utils/progressbar"
)

// Progress displays a progress bar which advances once per episode. It
// saves no data.
type Progress[S, A comparable] struct {
	bar *progressbar.ManualProgressBar
}

// NewProgress returns a new Progress tracker drawing bar
func NewProgress[S, A comparable](
	bar *progressbar.ManualProgressBar) *Progress[S, A] {
	return &Progress[S, A]{bar}
}

// Track advances and redraws the progress bar
func (p *Progress[S, A]) Track(ts.Episode[S, A]) {
	p.bar.Increment()
	p.bar.Display()
}

// Save finishes the progress bar
func (p *Progress[S, A]) Save() error {
	p.bar.Close()
	return nil
}
