// Package reconcile implements the client-side merge discipline for
// optimistic updates. A consumer applies a change locally before the
// server responds, keeping a snapshot of the prior state. The server's
// answer, whether a direct response or a broadcast event, is always
// authoritative: confirmations and events overwrite the optimistic
// guess, and failures restore the snapshot.
package reconcile

import (
	"sync"

	"github.com/google/uuid"
)

// snapshot remembers what an entity looked like before an optimistic
// change, so a failed request can restore it
type snapshot[T any] struct {
	value   T
	existed bool
}

// Store holds a local view of entities of one kind, keyed by id
type Store[T any] struct {
	mu        sync.RWMutex
	items     map[uuid.UUID]T
	snapshots map[uuid.UUID]snapshot[T]
}

// NewStore creates an empty store
func NewStore[T any]() *Store[T] {
	return &Store[T]{
		items:     make(map[uuid.UUID]T),
		snapshots: make(map[uuid.UUID]snapshot[T]),
	}
}

// Get returns the current local view of an entity
func (s *Store[T]) Get(id uuid.UUID) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.items[id]
	return value, ok
}

// Put stores an authoritative value outside any optimistic change,
// such as a full board fetch
func (s *Store[T]) Put(id uuid.UUID, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = value
}

// Begin applies an optimistic value and snapshots the prior state.
// A second Begin while a change is already in flight keeps the original
// snapshot, so a later Fail restores the last confirmed state rather
// than an intermediate guess.
func (s *Store[T]) Begin(id uuid.UUID, optimistic T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, inFlight := s.snapshots[id]; !inFlight {
		prior, existed := s.items[id]
		s.snapshots[id] = snapshot[T]{value: prior, existed: existed}
	}
	s.items[id] = optimistic
}

// Confirm adopts the server's canonical record for an entity and closes
// the in-flight change. The canonical record wins over the optimistic
// guess even when they differ.
func (s *Store[T]) Confirm(id uuid.UUID, canonical T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = canonical
	delete(s.snapshots, id)
}

// Fail discards the optimistic value and restores the snapshot. The
// restored value is returned so the caller can surface it; ok is false
// when no change was in flight.
func (s *Store[T]) Fail(id uuid.UUID) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, inFlight := s.snapshots[id]
	if !inFlight {
		var zero T
		return zero, false
	}
	delete(s.snapshots, id)

	if snap.existed {
		s.items[id] = snap.value
		return snap.value, true
	}
	delete(s.items, id)
	return snap.value, true
}

// ApplyServerEvent merges a broadcast event. Events are authoritative:
// they overwrite the local view even for an entity with a change in
// flight, and clear its snapshot so a later Fail cannot resurrect
// stale state.
func (s *Store[T]) ApplyServerEvent(id uuid.UUID, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = value
	delete(s.snapshots, id)
}

// Delete removes an entity, such as on a deletion event
func (s *Store[T]) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	delete(s.snapshots, id)
}

// InFlight reports whether an optimistic change is awaiting the server
func (s *Store[T]) InFlight(id uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.snapshots[id]
	return ok
}

// Len reports the number of entities in the local view
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
