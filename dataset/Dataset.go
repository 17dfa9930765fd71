// Package dataset reads recorded episodes, together with the policies
// which generated and are evaluated on them, from YAML files.
//
// A dataset file looks like:
//
//	target:
//	  s0: {left: 0.0, right: 1.0}
//	behaviour:
//	  s0: {left: 0.5, right: 0.5}
//	episodes:
//	  - - {state: s0, action: right, reward: 0}
//	    - {state: s1, action: right, reward: 1}
//
// Since YAML is a superset of JSON, JSON dataset files are read as well.
package dataset

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/gomontecarlo/policy"
	ts "github.com/samuelfneumann/gomontecarlo/timestep"
	"gopkg.in/yaml.v3"
)

// Step is a single recorded step of an episode: the state the
// environment was in, the action taken, and the reward which followed
type Step struct {
	State  string  `yaml:"state"`
	Action string  `yaml:"action"`
	Reward float64 `yaml:"reward"`
}

// Table holds the action probabilities of a policy in each state
type Table map[string]map[string]float64

// Dataset is a set of recorded episodes
type Dataset struct {
	Target    Table    `yaml:"target"`
	Behaviour Table    `yaml:"behaviour"`
	Recorded  [][]Step `yaml:"episodes"`
}

// Load decodes a Dataset from r. Unknown fields are an error.
func Load(r io.Reader) (*Dataset, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var d Dataset
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("load: empty dataset")
		}
		return nil, errors.Wrap(err, "load: could not decode dataset")
	}
	return &d, nil
}

// LoadFile loads the Dataset saved in the file filename
func LoadFile(filename string) (*Dataset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "loadFile: could not open dataset %v",
			filename)
	}
	defer file.Close()

	d, err := Load(file)
	if err != nil {
		return nil, errors.Wrapf(err, "loadFile: %v", filename)
	}
	return d, nil
}

// Len returns the number of episodes in the Dataset
func (d *Dataset) Len() int {
	return len(d.Recorded)
}

// Episodes returns the recorded episodes with their steps numbered and
// typed. Episodes are not validated here, so that malformed episodes
// can be rejected individually when they are processed.
func (d *Dataset) Episodes() []ts.Episode[string, string] {
	episodes := make([]ts.Episode[string, string], len(d.Recorded))

	for i, recorded := range d.Recorded {
		states := make([]string, len(recorded))
		actions := make([]string, len(recorded))
		rewards := make([]float64, len(recorded))
		for k, step := range recorded {
			states[k] = step.State
			actions[k] = step.Action
			rewards[k] = step.Reward
		}

		// The slices have equal lengths, so this cannot fail
		ep, _ := ts.NewEpisode(states, actions, rewards)
		episodes[i] = ep
	}
	return episodes
}

// Policies returns the target and behaviour policies of the Dataset. A
// policy missing from the Dataset is returned as nil.
func (d *Dataset) Policies() (target, behaviour policy.Policy[string,
	string], err error) {
	if d.Target != nil {
		t, err := policy.NewTabular(d.Target)
		if err != nil {
			return nil, nil, errors.Wrap(err, "policies: target")
		}
		target = t
	}

	if d.Behaviour != nil {
		b, err := policy.NewTabular(d.Behaviour)
		if err != nil {
			return nil, nil, errors.Wrap(err, "policies: behaviour")
		}
		behaviour = b
	}

	return target, behaviour, nil
}
