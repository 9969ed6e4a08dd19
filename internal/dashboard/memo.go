package dashboard

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// memo caches values computed from one snapshot. Entries belonging to an
// older snapshot are dropped the first time a newer snapshot id is seen.
// Concurrent misses for the same key share a single computation.
type memo[V any] struct {
	mu         sync.Mutex
	snapshotID string
	entries    map[string]V
	group      singleflight.Group
}

func newMemo[V any]() *memo[V] {
	return &memo[V]{entries: make(map[string]V)}
}

func (m *memo[V]) get(snapshotID, key string, compute func() (V, error)) (V, error) {
	m.mu.Lock()
	if m.snapshotID != snapshotID {
		m.snapshotID = snapshotID
		m.entries = make(map[string]V)
	}
	if v, ok := m.entries[key]; ok {
		m.mu.Unlock()
		return v, nil
	}
	m.mu.Unlock()

	v, err, _ := m.group.Do(snapshotID+"|"+key, func() (any, error) {
		v, err := compute()
		if err != nil {
			return v, err
		}
		m.mu.Lock()
		if m.snapshotID == snapshotID {
			m.entries[key] = v
		}
		m.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

func (m *memo[V]) purge() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshotID = ""
	m.entries = make(map[string]V)
}

func (m *memo[V]) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
