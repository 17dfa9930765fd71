package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/gomontecarlo/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const data = `
target:
  s0: {left: 0.0, right: 1.0}
  s1: {left: 0.0, right: 1.0}
behaviour:
  s0: {left: 0.5, right: 0.5}
  s1: {left: 0.5, right: 0.5}
episodes:
  - - {state: s0, action: right, reward: 0}
    - {state: s1, action: left, reward: 1}
    - {state: s1, action: right, reward: 2}
  - - {state: s1, action: right, reward: 5}
  - []
`

func TestLoad(t *testing.T) {
	d, err := Load(strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 3, d.Len())

	episodes := d.Episodes()
	require.Len(t, episodes, 3)

	first := episodes[0]
	require.NoError(t, first.Validate())
	assert.True(t, first[0].First())
	assert.True(t, first[2].Last())
	assert.Equal(t, "left", first[1].Action)
	assert.Equal(t, 3.0, first.Return(1))

	require.NoError(t, episodes[1].Validate())
	assert.Error(t, episodes[2].Validate())

	target, behaviour, err := d.Policies()
	require.NoError(t, err)
	assert.Equal(t, 1.0, target.Prob("s0", "right"))
	assert.Equal(t, 0.0, target.Prob("s1", "left"))
	assert.Equal(t, 0.5, behaviour.Prob("s1", "left"))
}

func TestLoadJSON(t *testing.T) {
	d, err := Load(strings.NewReader(`{"episodes": [[` +
		`{"state": "a", "action": "x", "reward": 1.5}]]}`))
	require.NoError(t, err)

	episodes := d.Episodes()
	require.Len(t, episodes, 1)
	assert.Equal(t, 1.5, episodes[0].Return(1))

	target, behaviour, err := d.Policies()
	require.NoError(t, err)
	assert.Nil(t, target)
	assert.Nil(t, behaviour)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(strings.NewReader(""))
	assert.Error(t, err)

	_, err = Load(strings.NewReader("episodes: [[{state: a, sate: b}]]"))
	assert.Error(t, err)

	d, err := Load(strings.NewReader("behaviour: {s: {x: 0.4, y: 0.4}}"))
	require.NoError(t, err)
	_, _, err = d.Policies()
	assert.True(t, errors.Is(err, policy.ErrInvalidProbability))
}

func TestLoadFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "episodes.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(data), 0o644))

	d, err := LoadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
