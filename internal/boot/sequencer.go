// Package boot drives the staged start-up sequence shown before the
// dashboard becomes interactive. The timeline is fixed and presentational:
// it does not wait on any backend readiness signal.
package boot

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tinytelemetry/pitwall/internal/logging"
)

// DefaultSettle is the pause between the last step and the ready event.
const DefaultSettle = 300 * time.Millisecond

// Step is one line of the boot log, revealed At after Start.
type Step struct {
	Text string
	At   time.Duration
}

// DefaultSteps is the start-up timeline of the dashboard.
var DefaultSteps = []Step{
	{Text: "CONNECTING TO JOLPICA API", At: 300 * time.Millisecond},
	{Text: "LOADING 2024 RESULTS", At: 900 * time.Millisecond},
	{Text: "LOADING 2025 RESULTS", At: 1500 * time.Millisecond},
	{Text: "COMPUTING EMPIRICAL RATINGS", At: 2200 * time.Millisecond},
	{Text: "MODEL READY", At: 2900 * time.Millisecond},
}

var (
	ErrNotRestartable = errors.New("boot: sequence cannot be restarted")
	ErrInvalidSteps   = errors.New("boot: invalid steps")
)

// EventKind distinguishes step reveals from the terminal ready event.
type EventKind int

const (
	EventStep EventKind = iota
	EventReady
)

// Event is emitted on the channel returned by Start.
type Event struct {
	Kind     EventKind
	Index    int // step index; len(steps) for EventReady
	Step     Step
	Progress float64 // fraction of steps revealed, 0..1
}

// Status is the sequencer's position in its state machine.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusComplete
	StatusCancelled
)

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(s *Sequencer) { s.clock = c }
}

// WithSettle sets the delay between the last step and ready.
func WithSettle(d time.Duration) Option {
	return func(s *Sequencer) { s.settle = d }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Sequencer) { s.log = l }
}

// Sequencer reveals steps strictly in order, one timer at a time. It runs
// once; Cancel stops the pending timer and closes the event channel.
type Sequencer struct {
	clock  Clock
	steps  []Step
	settle time.Duration
	log    logrus.FieldLogger

	mu      sync.Mutex
	status  Status
	next    int // index of the step waiting to be revealed
	timer   Timer
	events  chan Event
	started time.Time
}

// New validates steps (non-empty, offsets non-negative and non-decreasing)
// and returns an idle sequencer.
func New(steps []Step, opts ...Option) (*Sequencer, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: no steps", ErrInvalidSteps)
	}
	for i, st := range steps {
		if st.At < 0 {
			return nil, fmt.Errorf("%w: step %d has negative offset %s", ErrInvalidSteps, i, st.At)
		}
		if i > 0 && st.At < steps[i-1].At {
			return nil, fmt.Errorf("%w: step %d at %s precedes step %d at %s", ErrInvalidSteps, i, st.At, i-1, steps[i-1].At)
		}
	}

	s := &Sequencer{
		clock:  RealClock(),
		steps:  append([]Step(nil), steps...),
		settle: DefaultSettle,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	return s, nil
}

// Steps returns the configured steps.
func (s *Sequencer) Steps() []Step {
	return append([]Step(nil), s.steps...)
}

// Start schedules the first reveal and returns the event channel. The
// channel yields one EventStep per step, then a single EventReady, and is
// closed afterwards or on Cancel.
func (s *Sequencer) Start() (<-chan Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusIdle {
		return nil, ErrNotRestartable
	}
	s.status = StatusPending
	s.next = 0
	s.events = make(chan Event, len(s.steps)+1)
	s.started = s.clock.Now()
	s.timer = s.clock.AfterFunc(s.steps[0].At, func() { s.reveal(0) })

	s.log.WithField("steps", len(s.steps)).Debug("boot: sequence started")
	return s.events, nil
}

// Cancel stops any pending reveal. No events are emitted afterwards. It is
// safe to call more than once and before Start.
func (s *Sequencer) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status {
	case StatusIdle:
		s.status = StatusCancelled
	case StatusPending:
		if s.timer != nil {
			s.timer.Stop()
			s.timer = nil
		}
		s.status = StatusCancelled
		close(s.events)
		s.log.WithField("revealed", s.next).Debug("boot: sequence cancelled")
	}
}

// Status reports the current state and, while pending, the index of the
// next step to be revealed.
func (s *Sequencer) Status() (Status, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.next
}

func (s *Sequencer) reveal(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A timer that fired while Cancel was stopping it lands here.
	if s.status != StatusPending || s.next != i {
		return
	}

	s.events <- Event{
		Kind:     EventStep,
		Index:    i,
		Step:     s.steps[i],
		Progress: float64(i+1) / float64(len(s.steps)),
	}
	s.next++

	if s.next < len(s.steps) {
		n := s.next
		s.timer = s.clock.AfterFunc(s.until(s.steps[n].At), func() { s.reveal(n) })
		return
	}
	s.timer = s.clock.AfterFunc(s.until(s.steps[i].At+s.settle), s.finish)
}

// until returns the wait from now to offset after start, so a late timer
// does not push back the ones after it.
func (s *Sequencer) until(offset time.Duration) time.Duration {
	return max(offset-s.clock.Now().Sub(s.started), 0)
}

func (s *Sequencer) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusPending || s.next != len(s.steps) {
		return
	}
	s.events <- Event{Kind: EventReady, Index: len(s.steps), Progress: 1}
	s.status = StatusComplete
	s.timer = nil
	close(s.events)
	s.log.WithField("elapsed", s.clock.Now().Sub(s.started)).Debug("boot: sequence complete")
}
