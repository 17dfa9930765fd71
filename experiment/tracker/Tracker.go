// Package tracker implements Trackers, which track and save data in an
// experiment
package tracker

import (
	"encoding/gob"
	"os"

	"github.com/pkg/errors"
	ts "github.com/samuelfneumann/gomontecarlo/timestep"
)

// Interface Tracker keeps track of experiment data and saves the data
// after the experiment has finished. Track is called once for each
// episode after the episode has been folded into the estimator.
type Tracker[S, A comparable] interface {
	Track(ep ts.Episode[S, A])
	Save() error
}

// save gob encodes data to the file filename
func save(filename string, data interface{}) error {
	// Open the file to save to
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "save: could not open save file %v", filename)
	}
	defer file.Close()

	// Encode and save the file
	en := gob.NewEncoder(file)
	if err = en.Encode(data); err != nil {
		return errors.Wrapf(err, "save: could not encode data to %v", filename)
	}
	return nil
}

// LoadData loads and returns the data saved by a Tracker
func LoadData[T any](filename string) ([]T, error) {
	// Open file
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "loadData: could not open data file %v",
			filename)
	}
	defer file.Close()

	// Create the decoder and the variable to store the data in
	dec := gob.NewDecoder(file)
	var data []T

	// Decode the data
	if err = dec.Decode(&data); err != nil {
		return nil, errors.Wrapf(err, "loadData: could not decode data in %v",
			filename)
	}

	return data, nil
}
