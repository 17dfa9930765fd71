package estimator

import (
	"bytes"
	"encoding/gob"
	"os"

	"github.com/pkg/errors"
)

// table is the serialized form of an estimator
type table[K comparable] struct {
	Initial float64
	Entries map[K]Entry
}

func encodeTable[K comparable](initial float64, entries map[K]Entry) ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(table[K]{initial, entries}); err != nil {
		return nil, errors.Wrap(err, "gobEncode: could not encode table")
	}
	return buf.Bytes(), nil
}

func decodeTable[K comparable](data []byte) (float64, map[K]*Entry, error) {
	var t table[K]
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&t); err != nil {
		return 0, nil, errors.Wrap(err, "gobDecode: could not decode table")
	}

	entries := make(map[K]*Entry, len(t.Entries))
	for k, e := range t.Entries {
		e := e
		entries[k] = &e
	}
	return t.Initial, entries, nil
}

// save gob encodes object to the file filename
func save(filename string, object interface{}) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "save: could not create file %v", filename)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(object); err != nil {
		return errors.Wrapf(err, "save: could not encode to %v", filename)
	}
	return nil
}

// load gob decodes the file filename into object
func load(filename string, object interface{}) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "load: could not open file %v", filename)
	}
	defer file.Close()

	if err := gob.NewDecoder(file).Decode(object); err != nil {
		return errors.Wrapf(err, "load: could not decode %v", filename)
	}
	return nil
}

// GobEncode implements the gob.GobEncoder interface
func (w *Weighted[K]) GobEncode() ([]byte, error) {
	w.lock.RLock()
	defer w.lock.RUnlock()
	return encodeTable(w.initial, snapshot(w.table))
}

// GobDecode implements the gob.GobDecoder interface. The decoded table
// replaces the current one.
func (w *Weighted[K]) GobDecode(data []byte) error {
	initial, entries, err := decodeTable[K](data)
	if err != nil {
		return err
	}

	w.lock.Lock()
	defer w.lock.Unlock()
	w.initial = initial
	w.table = entries
	return nil
}

// Save saves the estimator to the file filename
func (w *Weighted[K]) Save(filename string) error {
	return save(filename, w)
}

// Load replaces the estimator's table with the one saved in filename
func (w *Weighted[K]) Load(filename string) error {
	return load(filename, w)
}

// GobEncode implements the gob.GobEncoder interface
func (o *Ordinary[K]) GobEncode() ([]byte, error) {
	o.lock.RLock()
	defer o.lock.RUnlock()
	return encodeTable(o.initial, snapshot(o.table))
}

// GobDecode implements the gob.GobDecoder interface. The decoded table
// replaces the current one.
func (o *Ordinary[K]) GobDecode(data []byte) error {
	initial, entries, err := decodeTable[K](data)
	if err != nil {
		return err
	}

	o.lock.Lock()
	defer o.lock.Unlock()
	o.initial = initial
	o.table = entries
	return nil
}

// Save saves the estimator to the file filename
func (o *Ordinary[K]) Save(filename string) error {
	return save(filename, o)
}

// Load replaces the estimator's table with the one saved in filename
func (o *Ordinary[K]) Load(filename string) error {
	return load(filename, o)
}
