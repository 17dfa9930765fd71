package checkpointer

import (
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/gomontecarlo/estimator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilenameEnumerator(t *testing.T) {
	next := FilenameEnumerator(0, "checkpoint", ".bin")
	assert.Equal(t, "checkpoint1.bin", next())
	assert.Equal(t, "checkpoint2.bin", next())
}

func TestNStep(t *testing.T) {
	w := estimator.NewWeighted[string]()
	_, err := w.Observe("s", 3, 1)
	require.NoError(t, err)

	dir := t.TempDir()
	c, err := NewNStep(2, w, FilenameEnumerator(0,
		filepath.Join(dir, "q"), ".bin"))
	require.NoError(t, err)

	for episode := 1; episode <= 5; episode++ {
		require.NoError(t, c.Checkpoint(episode))
	}

	// Episodes 2 and 4 are checkpointed
	matches, err := filepath.Glob(filepath.Join(dir, "*.bin"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "q1.bin"),
		filepath.Join(dir, "q2.bin"),
	}, matches)

	loaded := estimator.NewWeighted[string]()
	require.NoError(t, loaded.Load(filepath.Join(dir, "q2.bin")))
	assert.Equal(t, 3.0, loaded.ValueOf("s"))

	_, err = NewNStep(0, w, Filename("x"))
	assert.Error(t, err)
}
