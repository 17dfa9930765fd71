package floatutils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxSlice(t *testing.T) {
	max, indices := MaxSlice([]float64{1, 3, -2, 3, 0})
	assert.Equal(t, 3.0, max)
	assert.Equal(t, []int{1, 3}, indices)

	max, indices = MaxSlice([]float64{5})
	assert.Equal(t, 5.0, max)
	assert.Equal(t, []int{0}, indices)
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(0))
	assert.True(t, IsFinite(-1e300))
	assert.False(t, IsFinite(math.NaN()))
	assert.False(t, IsFinite(math.Inf(-1)))
}
