// Package fetch keeps one backend request in flight per view slot and
// applies results by generation, never by arrival order.
//
// Slots are driven from a single update loop: Observe and Retry return a
// tea.Cmd that performs the request off-loop and reports back with a Result,
// which the loop hands to Apply. A Result whose generation is no longer
// current is dropped, so a slow response for an abandoned key can never
// overwrite fresher state.
package fetch

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

// Fetcher performs the request for key. iterations is the precision knob
// forwarded to the backend; it is not part of the key.
type Fetcher[K comparable, T any] func(ctx context.Context, key K, iterations int) (T, error)

// Result is the message a slot's command produces.
type Result[T any] struct {
	Slot string
	Gen  uint64
	Data T
	Err  error
}

// Slot tracks the request state for one view. It is not safe for concurrent
// use; only the commands it returns run on other goroutines.
type Slot[K comparable, T any] struct {
	id         string
	orch       *Orchestrator
	fetch      Fetcher[K, T]
	iterations int

	key        K
	hasKey     bool
	dataKey    K
	hasDataKey bool

	gen    uint64
	cancel context.CancelFunc
	state  State[T]
}

// NewSlot registers a slot with o. Slot ids must be unique per orchestrator.
func NewSlot[K comparable, T any](o *Orchestrator, id string, fetch Fetcher[K, T], iterations int) *Slot[K, T] {
	s := &Slot[K, T]{
		id:         id,
		orch:       o,
		fetch:      fetch,
		iterations: iterations,
		state:      Idle[T](),
	}
	o.register(id, s)
	return s
}

func (s *Slot[K, T]) ID() string { return s.id }

// State returns the current state.
func (s *Slot[K, T]) State() State[T] { return s.state }

// Key returns the last observed request key.
func (s *Slot[K, T]) Key() (K, bool) { return s.key, s.hasKey }

// DataKey returns the key the held payload was fetched for. While a new key
// is loading it still names the previous one.
func (s *Slot[K, T]) DataKey() (K, bool) { return s.dataKey, s.hasDataKey }

// Generation returns the current request generation.
func (s *Slot[K, T]) Generation() uint64 { return s.gen }

func (s *Slot[K, T]) Iterations() int { return s.iterations }

// SetIterations changes the precision used by the next request. It never
// starts one by itself.
func (s *Slot[K, T]) SetIterations(n int) {
	s.iterations = n
}

// Observe is called whenever the owning view computes its key. An unchanged
// key is a no-op; a new key supersedes any request in flight.
func (s *Slot[K, T]) Observe(key K) tea.Cmd {
	if s.hasKey && s.key == key {
		return nil
	}
	s.key, s.hasKey = key, true
	return s.start()
}

// Retry starts a new request for the current key unconditionally. A slot
// that has never observed a key has nothing to retry and returns nil.
func (s *Slot[K, T]) Retry() tea.Cmd {
	if !s.hasKey {
		return nil
	}
	return s.start()
}

// Apply folds a result into the slot. It reports whether the result was
// applied; results for another slot or an older generation are ignored.
func (s *Slot[K, T]) Apply(res Result[T]) bool {
	if res.Slot != s.id {
		return false
	}
	log := s.orch.log.WithFields(logrus.Fields{"slot": s.id, "gen": res.Gen})
	if res.Gen != s.gen || s.state.Phase() != PhaseLoading {
		log.WithField("current_gen", s.gen).Debug("fetch: dropping stale result")
		return false
	}

	s.cancel = nil
	if res.Err != nil {
		s.state = Failed(s.state, Message(res.Err))
		log.WithError(res.Err).Debug("fetch: request failed")
		return true
	}

	s.state = Ready(res.Data)
	s.dataKey, s.hasDataKey = s.key, true
	log.Debug("fetch: result applied")
	return true
}

// Discard unmounts the slot: the request in flight is cancelled and its
// generation invalidated, and the state returns to Idle.
func (s *Slot[K, T]) Discard() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	var zero K
	s.key, s.hasKey = zero, false
	s.dataKey, s.hasDataKey = zero, false
	s.state = Idle[T]()
}

func (s *Slot[K, T]) start() tea.Cmd {
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	s.state = Loading(s.state)

	ctx, cancel := s.orch.requestContext()
	s.cancel = cancel

	id, gen, key, iterations, fetch := s.id, s.gen, s.key, s.iterations, s.fetch
	s.orch.log.WithFields(logrus.Fields{
		"slot":       id,
		"gen":        gen,
		"key":        key,
		"iterations": iterations,
	}).Debug("fetch: starting request")

	return func() tea.Msg {
		defer cancel()
		data, err := fetch(ctx, key, iterations)
		return Result[T]{Slot: id, Gen: gen, Data: data, Err: err}
	}
}
