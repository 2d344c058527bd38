package beacon

import (
	"sort"
	"sync"
	"time"
)

// KeyPrefix namespaces beacon state keys.
const KeyPrefix = "repere:"

// Key returns the storage key for a beacon ID. Keys are global, so a
// dismissal applies on every page.
func Key(id string) string {
	return KeyPrefix + id
}

// State is what a Store remembers about one beacon.
type State struct {
	ID           string
	Dismissed    bool
	DismissedAt  time.Time
	ViewCount    int
	LastViewedAt time.Time
}

// Store records dismissals.
type Store interface {
	IsDismissed(id string) bool
	Dismiss(id string)
	Reset(id string)
	ResetAll()
	All() []State
}

// MemoryStore is a Store that lives for the process lifetime.
type MemoryStore struct {
	mu    sync.RWMutex
	state map[string]State
	now   func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		state: make(map[string]State),
		now:   time.Now,
	}
}

// IsDismissed implements Store.
func (s *MemoryStore) IsDismissed(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state[Key(id)].Dismissed
}

// Dismiss implements Store.
func (s *MemoryStore) Dismiss(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	st := s.state[Key(id)]
	st.ID = id
	st.Dismissed = true
	st.DismissedAt = now
	st.ViewCount++
	st.LastViewedAt = now
	s.state[Key(id)] = st
}

// View counts a view without dismissing.
func (s *MemoryStore) View(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state[Key(id)]
	st.ID = id
	st.ViewCount++
	st.LastViewedAt = s.now()
	s.state[Key(id)] = st
}

// Reset implements Store.
func (s *MemoryStore) Reset(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.state, Key(id))
}

// ResetAll implements Store.
func (s *MemoryStore) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = make(map[string]State)
}

// All implements Store. States are ordered by ID.
func (s *MemoryStore) All() []State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]State, 0, len(s.state))
	for _, st := range s.state {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
