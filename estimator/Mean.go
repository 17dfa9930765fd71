package estimator

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WeightedMean computes Σ wᵢ gᵢ / Σ wᵢ over all returns and weights in a
// single batch. It is the non-incremental counterpart of Weighted and
// is useful for checking an estimator against the full history of its
// observations.
func WeightedMean(returns, weights []float64) (float64, error) {
	if len(returns) != len(weights) {
		return 0, errors.Errorf("weightedMean: %d returns but %d weights",
			len(returns), len(weights))
	}

	for i := range returns {
		if err := validate(returns[i], weights[i]); err != nil {
			return 0, errors.Wrapf(err, "weightedMean: observation %d", i)
		}
	}

	if floats.Sum(weights) == 0 {
		return 0, errors.Wrap(ErrInvalidWeight,
			"weightedMean: weights sum to zero")
	}

	return stat.Mean(returns, weights), nil
}
