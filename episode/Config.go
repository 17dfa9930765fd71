package episode

import (
	"github.com/pkg/errors"
	"github.com/samuelfneumann/gomontecarlo/utils/floatutils"
)

// Visit determines which visits to a key within an episode produce
// samples
type Visit string

const (
	// FirstVisit produces a sample only for the first visit to each key
	// in an episode
	FirstVisit Visit = "first"

	// EveryVisit produces a sample for every visit to each key
	EveryVisit Visit = "every"
)

// Correction determines how returns generated by a behaviour policy are
// corrected towards the target policy
type Correction string

const (
	// OnPolicy performs no correction, every sample has weight 1. The
	// behaviour policy is assumed to be the target policy.
	OnPolicy Correction = "onpolicy"

	// Importance weights each return by the importance sampling ratio
	// of the remainder of the episode
	Importance Correction = "importance"

	// DiscountAware treats the discount as a probability of termination
	// and weights each flat partial return by the importance sampling
	// ratio of only the steps it spans
	DiscountAware Correction = "discount-aware"

	// PerDecision weights each reward by the importance sampling ratio
	// of only the steps preceding it. Samples have weight 1.
	PerDecision Correction = "per-decision"
)

// Config represents a configuration of an episode Processor
type Config struct {
	Visit      Visit      `json:"visit" yaml:"visit"`
	Correction Correction `json:"correction" yaml:"correction"`
	Discount   float64    `json:"discount" yaml:"discount"`
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	switch c.Visit {
	case FirstVisit, EveryVisit:
	default:
		return errors.Errorf("validate: unknown visit type %q", c.Visit)
	}

	switch c.Correction {
	case OnPolicy, Importance, DiscountAware, PerDecision:
	default:
		return errors.Errorf("validate: unknown correction %q", c.Correction)
	}

	if !floatutils.IsFinite(c.Discount) || c.Discount < 0 || c.Discount > 1 {
		return errors.Errorf("validate: discount %v not in [0, 1]",
			c.Discount)
	}
	return nil
}
