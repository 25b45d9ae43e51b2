package pager

import "sync"

// ViewState is the page/filter selection a tab left behind, restored on
// back-navigation. It is transient by design: in-memory only, scoped to one
// browser tab, gone on restart.
type ViewState struct {
	Page   int    `json:"page"`
	Filter string `json:"filter"`
}

// StateStore keeps per-tab view state. Tabs identify themselves with a
// client-generated id so two tabs on the same session page independently.
type StateStore struct {
	mu     sync.Mutex
	states map[string]ViewState
}

// NewStateStore builds an empty store.
func NewStateStore() *StateStore {
	return &StateStore{states: make(map[string]ViewState)}
}

// Get returns the saved state for a tab/view pair.
func (s *StateStore) Get(tabID, view string) (ViewState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[tabID+"|"+view]
	return state, ok
}

// Put saves the state for a tab/view pair.
func (s *StateStore) Put(tabID, view string, state ViewState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[tabID+"|"+view] = state
}

// DropTab forgets every view state belonging to a tab.
func (s *StateStore) DropTab(tabID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.states {
		if len(key) > len(tabID) && key[:len(tabID)] == tabID && key[len(tabID)] == '|' {
			delete(s.states, key)
		}
	}
}
