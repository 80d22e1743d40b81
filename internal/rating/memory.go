package rating

import (
	"context"
	"sort"
	"sync"

	"werewolf-arena/internal/game"
)

type pairKey struct {
	town string
	wolf string
}

// MemoryStore keeps all rating state in process memory. It backs tests and
// single-node runs without Postgres.
type MemoryStore struct {
	mu      sync.Mutex
	initial float64
	entries map[string]Entry
	pairs   map[pairKey]HeadToHead
}

func NewMemoryStore(initial float64) *MemoryStore {
	return &MemoryStore{
		initial: initial,
		entries: make(map[string]Entry),
		pairs:   make(map[pairKey]HeadToHead),
	}
}

func (m *MemoryStore) GetEntry(_ context.Context, identity string) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[identity]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return cloneEntry(e), nil
}

func (m *MemoryStore) ListEntries(_ context.Context) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, cloneEntry(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identity < out[j].Identity })
	return out, nil
}

func (m *MemoryStore) UpdateEntry(_ context.Context, identity string, fn func(*Entry)) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[identity]
	if !ok {
		e = Entry{Identity: identity, Overall: m.initial, Roles: make(map[game.Role]float64)}
	}
	fn(&e)
	m.entries[identity] = cloneEntry(e)
	return cloneEntry(e), nil
}

func (m *MemoryStore) UpdateHeadToHead(_ context.Context, town, wolf string, fn func(*HeadToHead)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pairKey{town: town, wolf: wolf}
	h, ok := m.pairs[key]
	if !ok {
		h = HeadToHead{TownIdentity: town, WolfIdentity: wolf}
	}
	fn(&h)
	m.pairs[key] = h
	return nil
}

func (m *MemoryStore) ListHeadToHead(_ context.Context) ([]HeadToHead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]HeadToHead, 0, len(m.pairs))
	for _, h := range m.pairs {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TownIdentity != out[j].TownIdentity {
			return out[i].TownIdentity < out[j].TownIdentity
		}
		return out[i].WolfIdentity < out[j].WolfIdentity
	})
	return out, nil
}

func cloneEntry(e Entry) Entry {
	out := e
	out.Roles = make(map[game.Role]float64, len(e.Roles))
	for k, v := range e.Roles {
		out.Roles[k] = v
	}
	return out
}
