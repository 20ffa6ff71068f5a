package query

import (
	"maps"
	"slices"
)

// Store owns the canonical parameter set. Every state change goes through
// Apply so the set stays the single source of truth; subscribers are told
// about each effective change.
//
// A Store is not safe for concurrent use. It belongs to the UI update loop.
type Store struct {
	params Params
	subs   map[int]func(Params)
	nextID int
}

// NewStore creates a store seeded with initial (copied).
func NewStore(initial Params) *Store {
	return &Store{
		params: initial.Clone(),
		subs:   make(map[int]func(Params)),
	}
}

// Params returns a copy of the current parameter set.
func (s *Store) Params() Params {
	return s.params.Clone()
}

// State decodes the current parameter set.
func (s *Store) State() ViewState {
	return Decode(s.params)
}

// Apply encodes u into the current set and notifies subscribers when the
// result differs from what was there before. It returns the decoded state.
func (s *Store) Apply(u Update) ViewState {
	next := Encode(u, s.params)
	if next.Equal(s.params) {
		return Decode(s.params)
	}
	s.params = next
	for _, id := range slices.Sorted(maps.Keys(s.subs)) {
		if fn, ok := s.subs[id]; ok {
			fn(next.Clone())
		}
	}
	return Decode(next)
}

// Subscribe registers fn to receive the parameter set after each change.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Params)) (unsubscribe func()) {
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}
