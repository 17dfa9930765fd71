// Package progressbar implements functionality of printing a progress
// bar to a terminal
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ManualProgressBar implement progress bar functionality that must
// be manually managed. That is, the Display() function must be called
// whenever an updated progress bar should be printed.
//
// ManualProgressBar does not use concurrency.
type ManualProgressBar struct {
	out             io.Writer
	width           float64
	maxProgress     float64
	currentProgress float64
	bar             strings.Builder
	startTime       time.Time
}

// NewManualProgressBar returns a new ManualProgressBar which is width
// characters wide, reaches 100% after max calls to Increment, and is
// printed to out
func NewManualProgressBar(out io.Writer, width, max int) *ManualProgressBar {
	if max < 1 {
		max = 1
	}
	return &ManualProgressBar{
		out:         out,
		width:       float64(width),
		maxProgress: float64(max),
		startTime:   time.Now(),
	}
}

// Increment increments the interal progress counter. Each time an
// iteration is performed, Increment should be called.
func (p *ManualProgressBar) Increment() {
	if p.currentProgress < p.maxProgress {
		p.currentProgress++
	}
}

// Progress returns the fraction of the bar which is filled
func (p *ManualProgressBar) Progress() float64 {
	return p.currentProgress / p.maxProgress
}

// String returns the current progress bar, without terminal control
// sequences
func (p *ManualProgressBar) String() string {
	p.bar.Reset()
	p.bar.WriteString("|")

	width := int(p.width)
	filled := int(p.Progress() * p.width)
	p.bar.WriteString(strings.Repeat("█", filled))
	p.bar.WriteString(strings.Repeat(" ", width-filled))
	fmt.Fprintf(&p.bar, "| [%.2f%v | elapsed: %v]", p.Progress()*100, "%",
		time.Since(p.startTime).Truncate(time.Second))

	return p.bar.String()
}

// Display redraws the progress bar over the current line
func (p *ManualProgressBar) Display() {
	fmt.Fprintf(p.out, "\r\033[K%v", p.String())
}

// Close moves the output past the progress bar
func (p *ManualProgressBar) Close() {
	fmt.Fprintln(p.out)
}
