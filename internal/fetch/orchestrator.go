package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tinytelemetry/pitwall/internal/logging"
)

// Options configures an Orchestrator.
type Options struct {
	// Timeout bounds every request. Zero means no limit.
	Timeout time.Duration
	Logger  logrus.FieldLogger
}

type discarder interface {
	Discard()
}

// Orchestrator owns the slots of one session and the context their requests
// run under.
type Orchestrator struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	log     logrus.FieldLogger
	slots   map[string]discarder
}

// New creates an orchestrator whose requests are cancelled when parent is
// done or Close is called.
func New(parent context.Context, opts Options) *Orchestrator {
	ctx, cancel := context.WithCancel(parent)
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Orchestrator{
		ctx:     ctx,
		cancel:  cancel,
		timeout: opts.Timeout,
		log:     log,
		slots:   make(map[string]discarder),
	}
}

func (o *Orchestrator) register(id string, s discarder) {
	if _, exists := o.slots[id]; exists {
		panic(fmt.Sprintf("fetch: duplicate slot id %q", id))
	}
	o.slots[id] = s
}

// Discard unmounts the slot with the given id, if any.
func (o *Orchestrator) Discard(id string) {
	if s, ok := o.slots[id]; ok {
		s.Discard()
	}
}

// Close discards every slot and cancels all outstanding requests.
func (o *Orchestrator) Close() {
	for _, s := range o.slots {
		s.Discard()
	}
	o.cancel()
}

func (o *Orchestrator) requestContext() (context.Context, context.CancelFunc) {
	if o.timeout > 0 {
		return context.WithTimeout(o.ctx, o.timeout)
	}
	return context.WithCancel(o.ctx)
}

// Message turns a fetch error into the text shown in a view's error banner.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	case errors.Is(err, context.Canceled):
		return "request cancelled"
	}
	return err.Error()
}
