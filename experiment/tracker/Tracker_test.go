package tracker

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/gomontecarlo/estimator"
	ts "github.com/samuelfneumann/gomontecarlo/timestep"
	"github.com/samuelfneumann/gomontecarlo/utils/progressbar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackers(t *testing.T) {
	dir := t.TempDir()

	est := estimator.NewWeighted[string]()
	lengths := NewEpisodeLength[string, int](filepath.Join(dir, "length.bin"))
	returns := NewReturn[string, int](filepath.Join(dir, "return.bin"), 0.5)
	values := NewValue[string, int](filepath.Join(dir, "value.bin"),
		estimator.Estimator[string](est), "a")
	weights := NewWeight[string, int](filepath.Join(dir, "weight.bin"),
		estimator.Estimator[string](est), "a")
	trackers := []Tracker[string, int]{lengths, returns, values, weights}

	episodes := []struct {
		states  []string
		rewards []float64
		weight  float64
	}{
		{[]string{"a", "b"}, []float64{2, 4}, 1},
		{[]string{"b"}, []float64{1}, 0},
		{[]string{"a", "a", "a"}, []float64{0, 0, 8}, 3},
	}

	for _, e := range episodes {
		ep, err := ts.NewEpisode(e.states, make([]int, len(e.states)),
			e.rewards)
		require.NoError(t, err)

		_, err = est.Observe("a", ep.Return(1), e.weight)
		require.NoError(t, err)

		for _, tr := range trackers {
			tr.Track(ep)
		}
	}

	assert.Equal(t, []int{2, 1, 3}, lengths.Data())
	assert.Equal(t, []float64{4, 1, 2}, returns.Data())
	assert.Equal(t, []float64{6, 6, 7.5}, values.Data())
	assert.Equal(t, []float64{1, 1, 4}, weights.Data())

	for _, tr := range trackers {
		require.NoError(t, tr.Save())
	}

	savedLengths, err := LoadData[int](filepath.Join(dir, "length.bin"))
	require.NoError(t, err)
	assert.Equal(t, lengths.Data(), savedLengths)

	savedValues, err := LoadData[float64](filepath.Join(dir, "value.bin"))
	require.NoError(t, err)
	assert.Equal(t, values.Data(), savedValues)

	_, err = LoadData[int](filepath.Join(dir, "missing.bin"))
	assert.Error(t, err)
}

func TestProgress(t *testing.T) {
	var out bytes.Buffer
	bar := progressbar.NewManualProgressBar(&out, 20, 2)
	p := NewProgress[string, int](bar)

	ep, err := ts.NewEpisode([]string{"a"}, []int{0}, []float64{1})
	require.NoError(t, err)
	p.Track(ep)
	p.Track(ep)
	require.NoError(t, p.Save())

	assert.Equal(t, 1.0, bar.Progress())
	assert.Contains(t, out.String(), "100.00%")
}
