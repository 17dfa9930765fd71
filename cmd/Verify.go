package cmd

import (
	"math"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/gomontecarlo/estimator"
	"github.com/samuelfneumann/gomontecarlo/experiment"
	ts "github.com/samuelfneumann/gomontecarlo/timestep"
)

const verifyTolerance = 1e-9

// verify recomputes the weighted estimate of each key in one batch from
// the samples of the episodes, and checks it against the incremental
// estimate in est. Episodes which cannot be turned into samples are
// skipped, as they are during evaluation.
func verify[K comparable](episodes []ts.Episode[string, string],
	sample experiment.Sampler[string, string, K],
	est estimator.Estimator[K]) error {
	returns := make(map[K][]float64)
	weights := make(map[K][]float64)

	for _, ep := range episodes {
		samples, err := sample(ep)
		if err != nil {
			continue
		}
		for _, s := range samples {
			returns[s.Key] = append(returns[s.Key], s.Return)
			weights[s.Key] = append(weights[s.Key], s.Weight)
		}
	}

	if len(returns) != est.Len() {
		return errors.Errorf("verify: samples have %d keys, estimator has %d",
			len(returns), est.Len())
	}

	for key, g := range returns {
		want, err := estimator.WeightedMean(g, weights[key])
		if errors.Is(err, estimator.ErrInvalidWeight) {
			// Only zero weights were observed
			if _, observed := est.Lookup(key); observed {
				return errors.Errorf("verify: key %v has no weight but is "+
					"estimated", key)
			}
			continue
		} else if err != nil {
			return errors.Wrapf(err, "verify: key %v", key)
		}

		got, observed := est.Lookup(key)
		scale := math.Max(1, math.Abs(want))
		if !observed || math.Abs(got-want) > verifyTolerance*scale {
			return errors.Errorf("verify: key %v has estimate %v, batch "+
				"estimate %v", key, got, want)
		}
	}
	return nil
}
