// Package experiment implements functionality for running an
// estimation experiment: pulling episodes from a source, turning them
// into samples, and folding the samples into an estimator.
package experiment

import (
	"context"

	"github.com/pkg/errors"
)

// Experiment outlines structs that can run experiments. The Run()
// method folds episodes into an estimator until the episode source is
// exhausted, the episode limit is reached, or the context is cancelled.
// The Save() function saves all data tracked during the experiment to
// disk, and is usually called after an experiment has been run.
type Experiment interface {
	Run(ctx context.Context) (Result, error)
	Save() error
}

// Result summarizes a run of an experiment
type Result struct {
	Episodes int // Episodes folded into the estimator
	Rejected int // Episodes which could not be processed
	Samples  int // Samples folded into the estimator
}

// ValueKind determines whether state or action values are estimated
type ValueKind string

const (
	StateValues  ValueKind = "v"
	ActionValues ValueKind = "q"
)

// Config represents a configuration of an experiment
type Config struct {
	// Workers is the number of goroutines which turn episodes into
	// samples. Samples are always folded by a single goroutine.
	Workers int `json:"workers" yaml:"workers"`

	// MaxEpisodes is the maximum number of episodes read from the
	// source, 0 for no limit
	MaxEpisodes int `json:"maxEpisodes" yaml:"maxEpisodes"`

	Kind ValueKind `json:"kind" yaml:"kind"`
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.Workers < 0 {
		return errors.Errorf("validate: workers cannot be negative, got %d",
			c.Workers)
	}
	if c.MaxEpisodes < 0 {
		return errors.Errorf("validate: maxEpisodes cannot be negative, "+
			"got %d", c.MaxEpisodes)
	}
	switch c.Kind {
	case StateValues, ActionValues:
	default:
		return errors.Errorf("validate: unknown value kind %q", c.Kind)
	}
	return nil
}
