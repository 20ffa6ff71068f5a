package fetch

// Phase is the lifecycle stage of a slot.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is a slot's observable state. It can only be built through the
// constructors below, so Ready always carries data and Failed always carries
// a message. Loading and Failed may still hold the last good payload.
type State[T any] struct {
	phase   Phase
	data    T
	hasData bool
	message string
}

// Idle is the state before the first request and after a discard.
func Idle[T any]() State[T] {
	return State[T]{phase: PhaseIdle}
}

// Loading keeps whatever payload prev held so it can stay on screen.
func Loading[T any](prev State[T]) State[T] {
	return State[T]{phase: PhaseLoading, data: prev.data, hasData: prev.hasData}
}

// Ready holds a freshly applied payload.
func Ready[T any](data T) State[T] {
	return State[T]{phase: PhaseReady, data: data, hasData: true}
}

// Failed records message and keeps the last good payload of prev, if any.
func Failed[T any](prev State[T], message string) State[T] {
	if message == "" {
		message = "request failed"
	}
	return State[T]{phase: PhaseFailed, data: prev.data, hasData: prev.hasData, message: message}
}

func (s State[T]) Phase() Phase { return s.phase }

// Data returns the payload and whether there is one.
func (s State[T]) Data() (T, bool) { return s.data, s.hasData }

// Err returns the failure message, empty unless the phase is Failed.
func (s State[T]) Err() string { return s.message }

func (s State[T]) Loading() bool { return s.phase == PhaseLoading }
