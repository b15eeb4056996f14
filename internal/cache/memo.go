// Package cache implements the process-global memoization cache for computed
// analytics. Entries are keyed by (vendor, generation); eviction happens only
// when the data generation advances past the configured TTL.
package cache

import "sync"

// Memo memoizes one computation family keyed by (vendor, generation).
// Insertion is idempotent: a second Put for the same key keeps the first
// value, so concurrent computations of the same view stay consistent.
type Memo[V any] struct {
	mu      sync.Mutex
	entries map[string]map[uint64]V
	ttlGens uint64 // generations kept; 1 = only current
	maxGen  uint64
}

// NewMemo creates a cache keeping ttlGens generations (minimum 1).
func NewMemo[V any](ttlGens int) *Memo[V] {
	if ttlGens < 1 {
		ttlGens = 1
	}
	return &Memo[V]{
		entries: make(map[string]map[uint64]V),
		ttlGens: uint64(ttlGens),
	}
}

// Get returns the cached value for (vendor, gen) when present.
func (m *Memo[V]) Get(vendedor string, gen uint64) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero V
	porGen, ok := m.entries[vendedor]
	if !ok {
		return zero, false
	}
	v, ok := porGen[gen]
	if !ok {
		return zero, false
	}
	return v, true
}

// Put stores the value for (vendor, gen) and evicts generations older than
// the TTL window. Idempotent per key.
func (m *Memo[V]) Put(vendedor string, gen uint64, v V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	porGen, ok := m.entries[vendedor]
	if !ok {
		porGen = make(map[uint64]V)
		m.entries[vendedor] = porGen
	}
	if _, ya := porGen[gen]; !ya {
		porGen[gen] = v
	}

	if gen > m.maxGen {
		m.maxGen = gen
		m.evictLocked()
	}
}

// evictLocked drops every entry older than maxGen-ttlGens+1.
func (m *Memo[V]) evictLocked() {
	if m.maxGen < m.ttlGens {
		return
	}
	limite := m.maxGen - m.ttlGens + 1
	for vendedor, porGen := range m.entries {
		for gen := range porGen {
			if gen < limite {
				delete(porGen, gen)
			}
		}
		if len(porGen) == 0 {
			delete(m.entries, vendedor)
		}
	}
}

// Len reports the number of live entries, for diagnostics.
func (m *Memo[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, porGen := range m.entries {
		n += len(porGen)
	}
	return n
}
