package estimator

import (
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

const tolerance = 1e-9

func TestWeightedScenario(t *testing.T) {
	w := NewWeighted[string]()

	steps := []struct {
		ret, weight      float64
		value, cumWeight float64
	}{
		{10, 1, 10, 1},
		{20, 1, 15, 2},
		{0, 2, 7.5, 4},
	}

	for i, step := range steps {
		v, err := w.Observe("A", step.ret, step.weight)
		require.NoError(t, err)
		assert.InDelta(t, step.value, v, tolerance, "step %d", i)
		assert.InDelta(t, step.value, w.ValueOf("A"), tolerance, "step %d", i)
		assert.Equal(t, step.cumWeight, w.WeightOf("A"), "step %d", i)
	}
}

func TestWeightedMatchesBatchMean(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	w := NewWeighted[int]()

	returns := make([]float64, 500)
	weights := make([]float64, 500)
	for i := range returns {
		returns[i] = rng.NormFloat64() * 10
		weights[i] = rng.ExpFloat64()
		_, err := w.Observe(0, returns[i], weights[i])
		require.NoError(t, err)
	}

	want, err := WeightedMean(returns, weights)
	require.NoError(t, err)
	assert.InDelta(t, want, w.ValueOf(0), 1e-9)

	var sum float64
	for _, weight := range weights {
		sum += weight
	}
	assert.InDelta(t, sum, w.WeightOf(0), 1e-9)
}

func TestWeightedOrderIndependence(t *testing.T) {
	returns := []float64{3, -1, 8, 0.5, 12}
	weights := []float64{0.5, 2, 1, 0, 3}

	forward := NewWeighted[string]()
	backward := NewWeighted[string]()
	var forwardPath, backwardPath []float64

	for i := range returns {
		v, err := forward.Observe("s", returns[i], weights[i])
		require.NoError(t, err)
		forwardPath = append(forwardPath, v)

		j := len(returns) - 1 - i
		v, err = backward.Observe("s", returns[j], weights[j])
		require.NoError(t, err)
		backwardPath = append(backwardPath, v)
	}

	assert.NotEqual(t, forwardPath[0], backwardPath[0])
	assert.InDelta(t, forward.ValueOf("s"), backward.ValueOf("s"), tolerance)
	assert.Equal(t, forward.WeightOf("s"), backward.WeightOf("s"))
}

func TestWeightedSingleObservationIsExact(t *testing.T) {
	for _, weight := range []float64{1e-12, 0.3, 1, 7, 1e9} {
		w := NewWeighted[string]()
		v, err := w.Observe("s", -4.25, weight)
		require.NoError(t, err)
		assert.Equal(t, -4.25, v)
		assert.Equal(t, -4.25, w.ValueOf("s"))
	}
}

func TestWeightedZeroWeightOnFreshKey(t *testing.T) {
	w := NewWeighted[string](WithDefault(-1))

	v, err := w.Observe("s", 100, 0)
	require.NoError(t, err)
	assert.Equal(t, -1.0, v)
	assert.Equal(t, -1.0, w.ValueOf("s"))
	assert.Equal(t, 0.0, w.WeightOf("s"))

	_, observed := w.Lookup("s")
	assert.False(t, observed)

	// A later positive weight observation behaves as the first one
	v, err = w.Observe("s", 5, 2)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)

	_, observed = w.Lookup("s")
	assert.True(t, observed)
}

func TestWeightedZeroWeightAfterData(t *testing.T) {
	w := NewWeighted[string]()
	_, err := w.Observe("s", 4, 2)
	require.NoError(t, err)

	v, err := w.Observe("s", 1000, 0)
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)
	assert.Equal(t, 2.0, w.WeightOf("s"))
}

func TestWeightedRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name        string
		ret, weight float64
		err         error
	}{
		{"negative weight", 1, -1, ErrInvalidWeight},
		{"NaN weight", 1, math.NaN(), ErrInvalidWeight},
		{"infinite weight", 1, math.Inf(1), ErrInvalidWeight},
		{"NaN return", math.NaN(), 1, ErrInvalidReturn},
		{"infinite return", math.Inf(-1), 1, ErrInvalidReturn},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			w := NewWeighted[string]()
			_, err := w.Observe("s", 2, 1)
			require.NoError(t, err)

			v, err := w.Observe("s", test.ret, test.weight)
			require.Error(t, err)
			assert.True(t, errors.Is(err, test.err))
			assert.Equal(t, 2.0, v)
			assert.Equal(t, 2.0, w.ValueOf("s"))
			assert.Equal(t, 1.0, w.WeightOf("s"))

			// Rejected observations never create entries
			_, err = w.Observe("fresh", test.ret, test.weight)
			require.Error(t, err)
			assert.Equal(t, 1, w.Len())
		})
	}
}

func TestWeightedIndependentKeys(t *testing.T) {
	type obs struct {
		key         string
		ret, weight float64
	}
	stream := []obs{
		{"A", 1, 1}, {"B", 10, 2}, {"A", 3, 0.5}, {"B", -4, 1},
		{"B", 6, 3}, {"A", 2, 2}, {"A", 9, 0}, {"B", 1, 0.25},
	}

	interleaved := NewWeighted[string]()
	isolated := map[string]*Weighted[string]{
		"A": NewWeighted[string](),
		"B": NewWeighted[string](),
	}
	paths := map[string][]float64{}

	for _, o := range stream {
		v, err := interleaved.Observe(o.key, o.ret, o.weight)
		require.NoError(t, err)
		paths[o.key] = append(paths[o.key], v)
	}

	for _, key := range []string{"A", "B"} {
		var path []float64
		for _, o := range stream {
			if o.key != key {
				continue
			}
			v, err := isolated[key].Observe(o.key, o.ret, o.weight)
			require.NoError(t, err)
			path = append(path, v)
		}
		assert.Equal(t, path, paths[key], key)
	}
}

func TestWeightedReset(t *testing.T) {
	w := NewWeighted[string]()
	_, err := w.Observe("s", 1, 1)
	require.NoError(t, err)
	require.Equal(t, 1, w.Len())

	w.Reset()
	assert.Equal(t, 0, w.Len())
	assert.Empty(t, w.Keys())
	assert.Equal(t, 0.0, w.ValueOf("s"))
	assert.Equal(t, 0.0, w.WeightOf("s"))
}

func TestWeightedConcurrentObserve(t *testing.T) {
	w := NewWeighted[int]()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				_, err := w.Observe(i%4, float64(g), 1)
				assert.NoError(t, err)
			}
		}(g)
	}
	wg.Wait()

	// Every goroutine contributes equally to every key
	for key := 0; key < 4; key++ {
		assert.Equal(t, 2000.0, w.WeightOf(key))
		assert.InDelta(t, 3.5, w.ValueOf(key), 1e-9)
	}
}

func TestWeightedSaveLoad(t *testing.T) {
	w := NewWeighted[string](WithDefault(2))
	for i, key := range []string{"a", "b", "c"} {
		_, err := w.Observe(key, float64(i)*1.5, float64(i+1))
		require.NoError(t, err)
	}
	_, err := w.Observe("zero", 3, 0)
	require.NoError(t, err)

	filename := filepath.Join(t.TempDir(), "weighted.bin")
	require.NoError(t, w.Save(filename))

	loaded := NewWeighted[string]()
	require.NoError(t, loaded.Load(filename))

	assert.Equal(t, w.Snapshot(), loaded.Snapshot())
	assert.Equal(t, 2.0, loaded.ValueOf("zero"))
	assert.Equal(t, 2.0, loaded.ValueOf("unseen"))
}

func BenchmarkWeightedObserve(b *testing.B) {
	w := NewWeighted[int]()
	for i := 0; i < b.N; i++ {
		w.Observe(i%128, float64(i), 1)
	}
}

func TestWeightedRejectsCumulativeWeightOverflow(t *testing.T) {
	w := NewWeighted[string]()

	_, err := w.Observe("k", 1, 1e308)
	require.NoError(t, err)

	v, err := w.Observe("k", 3, 1e308)
	assert.True(t, errors.Is(err, ErrInvalidWeight))
	assert.Equal(t, 1.0, v)
	assert.Equal(t, 1e308, w.WeightOf("k"))

	// The key keeps accepting observations which fit
	v, err = w.Observe("k", 100, 1e307)
	require.NoError(t, err)
	assert.InDelta(t, 1+99.0/11.0, v, tolerance)
	assert.InDelta(t, 1.1e308, w.WeightOf("k"), 1e308*tolerance)

	_, err = w.Observe("other", 1, math.MaxFloat64)
	require.NoError(t, err)
	_, err = w.Observe("other", 1, math.MaxFloat64)
	assert.True(t, errors.Is(err, ErrInvalidWeight))
	assert.Equal(t, math.MaxFloat64, w.WeightOf("other"))
}

func TestWeightedExtremeReturnsStayFinite(t *testing.T) {
	w := NewWeighted[string]()

	_, err := w.Observe("k", -1e308, 1)
	require.NoError(t, err)
	v, err := w.Observe("k", 1e308, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	_, err = w.Observe("max", math.MaxFloat64, 1)
	require.NoError(t, err)
	v, err = w.Observe("max", -math.MaxFloat64, 3)
	require.NoError(t, err)
	assert.InDelta(t, -math.MaxFloat64/2, v, math.MaxFloat64*tolerance)
}
