package estimator

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/gomontecarlo/utils/floatutils"
	"golang.org/x/exp/maps"
)

// Ordinary implements the incremental ordinary importance sampling
// estimator.
//
// Ordinary normalizes by the number of observations of a key rather
// than by the sum of their weights. After n observations (G, W) of a
// key, the estimate is Σ Wᵢ Gᵢ / n, maintained incrementally by:
//
//	n ← n + 1
//	V ← (1 - 1/n) V + W G / n
//
// Unlike Weighted, an observation with weight 0 is informative: it
// counts as a sample with a weighted return of 0.
type Ordinary[K comparable] struct {
	lock    sync.RWMutex
	table   map[K]*Entry
	initial float64
}

// NewOrdinary returns a new, empty Ordinary estimator
func NewOrdinary[K comparable](opts ...Option) *Ordinary[K] {
	c := newConfig(opts)
	return &Ordinary[K]{
		table:   make(map[K]*Entry),
		initial: c.initial,
	}
}

// Observe folds the return ret observed with importance sampling weight
// weight into the estimate for key, returning the updated estimate.
// Invalid observations are rejected as in Weighted.Observe, as are
// observations whose weighted return W G overflows.
func (o *Ordinary[K]) Observe(key K, ret, weight float64) (float64, error) {
	if err := validate(ret, weight); err != nil {
		return o.ValueOf(key), err
	}

	o.lock.Lock()
	defer o.lock.Unlock()

	var current Entry
	entry, ok := o.table[key]
	if ok {
		current = *entry
	}

	cumulative := current.CumulativeWeight + weight
	weighted := weight * ret
	if !floatutils.IsFinite(cumulative) || !floatutils.IsFinite(weighted) {
		value := o.initial
		if ok {
			value = current.Value
		}
		return value, errors.Wrapf(ErrInvalidWeight, "observe: weight %v "+
			"overflows for key %v with return %v", weight, key, ret)
	}

	if !ok {
		entry = &Entry{}
		o.table[key] = entry
	}

	entry.Count++
	entry.CumulativeWeight = cumulative
	n := float64(entry.Count)
	entry.Value = entry.Value*(1-1/n) + weighted/n

	return entry.Value, nil
}

// ValueOf returns the estimate for key, or the default value if key has
// not been observed
func (o *Ordinary[K]) ValueOf(key K) float64 {
	v, _ := o.Lookup(key)
	return v
}

// Lookup returns the estimate for key and whether key has been observed
func (o *Ordinary[K]) Lookup(key K) (float64, bool) {
	o.lock.RLock()
	defer o.lock.RUnlock()

	entry, ok := o.table[key]
	if !ok || entry.Count == 0 {
		return o.initial, false
	}
	return entry.Value, true
}

// WeightOf returns the cumulative weight of all observations of key
func (o *Ordinary[K]) WeightOf(key K) float64 {
	o.lock.RLock()
	defer o.lock.RUnlock()

	if entry, ok := o.table[key]; ok {
		return entry.CumulativeWeight
	}
	return 0
}

// CountOf returns the number of observations of key
func (o *Ordinary[K]) CountOf(key K) int {
	o.lock.RLock()
	defer o.lock.RUnlock()

	if entry, ok := o.table[key]; ok {
		return entry.Count
	}
	return 0
}

// Reset clears all estimates
func (o *Ordinary[K]) Reset() {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.table = make(map[K]*Entry)
}

// Len returns the number of keys in the table
func (o *Ordinary[K]) Len() int {
	o.lock.RLock()
	defer o.lock.RUnlock()
	return len(o.table)
}

// Keys returns the keys in the table in no particular order
func (o *Ordinary[K]) Keys() []K {
	o.lock.RLock()
	defer o.lock.RUnlock()
	return maps.Keys(o.table)
}

// Snapshot returns a copy of the table
func (o *Ordinary[K]) Snapshot() map[K]Entry {
	o.lock.RLock()
	defer o.lock.RUnlock()
	return snapshot(o.table)
}
