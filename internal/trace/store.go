package trace

import "sync"

// Store holds the active Context of one unit of work.
//
// Clear must be called at the start of every unit of work so a store that
// served an earlier request never leaks its context into the next one.
type Store interface {
	Clear()
	Set(Context)
	Get() Context
}

// LocalStore is a Store scoped to a single unit of work. It is safe for
// concurrent sub-operations of that unit.
type LocalStore struct {
	mu  sync.RWMutex
	ctx Context
}

// NewLocalStore creates an empty store.
func NewLocalStore() *LocalStore {
	return &LocalStore{}
}

// Clear resets the stored context.
func (s *LocalStore) Clear() {
	s.mu.Lock()
	s.ctx = Context{}
	s.mu.Unlock()
}

// Set replaces the stored context.
func (s *LocalStore) Set(ctx Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
}

// Get returns the stored context, or the empty Context if none was set.
func (s *LocalStore) Get() Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctx
}
