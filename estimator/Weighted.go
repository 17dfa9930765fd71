package estimator

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/gomontecarlo/utils/floatutils"
	"golang.org/x/exp/maps"
)

// Weighted implements the incremental weighted importance sampling
// estimator.
//
// For each key, Weighted tracks the current estimate V and the
// cumulative weight C of all observations of that key. An observation
// (G, W) is folded into the estimate by:
//
//	C ← C + W
//	V ← (1 - W/C) V + (W/C) G
//
// so that after n observations V = Σ Wᵢ Gᵢ / Σ Wᵢ. Observations with
// weight 0 on a key which has cumulative weight 0 carry no information
// and leave the estimate unchanged.
//
// A single lock guards the whole table, so Weighted may be shared
// between goroutines.
type Weighted[K comparable] struct {
	lock    sync.RWMutex
	table   map[K]*Entry
	initial float64
}

// NewWeighted returns a new, empty Weighted estimator
func NewWeighted[K comparable](opts ...Option) *Weighted[K] {
	c := newConfig(opts)
	return &Weighted[K]{
		table:   make(map[K]*Entry),
		initial: c.initial,
	}
}

// Observe folds the return ret observed with importance sampling weight
// weight into the estimate for key, returning the updated estimate.
//
// Observe returns ErrInvalidWeight if weight is negative or not finite,
// or if it would make the cumulative weight of key overflow, and
// ErrInvalidReturn if ret is not finite. In these cases the table is
// left unchanged and the current estimate is returned.
func (w *Weighted[K]) Observe(key K, ret, weight float64) (float64, error) {
	if err := validate(ret, weight); err != nil {
		return w.ValueOf(key), err
	}

	w.lock.Lock()
	defer w.lock.Unlock()

	value, cumulative := w.initial, 0.0
	entry, ok := w.table[key]
	if ok {
		value, cumulative = entry.Value, entry.CumulativeWeight
	}

	cumulative += weight
	if !floatutils.IsFinite(cumulative) {
		return value, errors.Wrapf(ErrInvalidWeight, "observe: cumulative "+
			"weight of %v overflows with weight %v", key, weight)
	}

	if !ok {
		entry = &Entry{Value: w.initial}
		w.table[key] = entry
	}
	if cumulative == 0 {
		return entry.Value, nil
	}

	// A convex combination of the old estimate and the return, which
	// cannot overflow where V + r(G - V) can
	r := weight / cumulative
	entry.Value = (1-r)*entry.Value + r*ret
	entry.CumulativeWeight = cumulative
	entry.Count++

	return entry.Value, nil
}

// ValueOf returns the estimate for key. If key has never been observed
// with positive weight, the default value is returned.
func (w *Weighted[K]) ValueOf(key K) float64 {
	v, _ := w.Lookup(key)
	return v
}

// Lookup returns the estimate for key and whether key has been observed
// with positive cumulative weight. If it has not, the default value is
// returned along with false.
func (w *Weighted[K]) Lookup(key K) (float64, bool) {
	w.lock.RLock()
	defer w.lock.RUnlock()

	entry, ok := w.table[key]
	if !ok || entry.CumulativeWeight == 0 {
		return w.initial, false
	}
	return entry.Value, true
}

// WeightOf returns the cumulative weight of all observations of key, or
// 0 if key has not been observed
func (w *Weighted[K]) WeightOf(key K) float64 {
	w.lock.RLock()
	defer w.lock.RUnlock()

	if entry, ok := w.table[key]; ok {
		return entry.CumulativeWeight
	}
	return 0
}

// Reset clears all estimates
func (w *Weighted[K]) Reset() {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.table = make(map[K]*Entry)
}

// Len returns the number of keys in the table
func (w *Weighted[K]) Len() int {
	w.lock.RLock()
	defer w.lock.RUnlock()
	return len(w.table)
}

// Keys returns the keys in the table in no particular order
func (w *Weighted[K]) Keys() []K {
	w.lock.RLock()
	defer w.lock.RUnlock()
	return maps.Keys(w.table)
}

// Snapshot returns a copy of the table
func (w *Weighted[K]) Snapshot() map[K]Entry {
	w.lock.RLock()
	defer w.lock.RUnlock()
	return snapshot(w.table)
}

func snapshot[K comparable](table map[K]*Entry) map[K]Entry {
	out := make(map[K]Entry, len(table))
	for k, e := range table {
		out[k] = *e
	}
	return out
}
