// Package audit records who did what on the dashboard: logins, teardowns and
// appointment mutations. Recording is asynchronous and never fails the
// request that produced the event.
package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID       string
	UserID   *uint
	Username string
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
	At       time.Time
}

const (
	ActionLogin             = "login"
	ActionSessionEnded      = "session_ended"
	ActionAppointmentCreate = "appointment_created"
	ActionAppointmentUpdate = "appointment_updated"
	ActionAppointmentDelete = "appointment_deleted"
)

// Sink persists one event.
type Sink interface {
	Write(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	sink    Sink
	logger  *slog.Logger
	timeout time.Duration

	mu      sync.RWMutex
	closed  bool
	queue   chan Event
	done    chan struct{}
	dropped atomic.Int64
}

func NewDispatcher(sink Sink, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		sink:    sink,
		logger:  logger.With("component", "audit"),
		timeout: 5 * time.Second,
		queue:   make(chan Event, 100),
		done:    make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.sink.Write(ctx, ev); err != nil {
			d.logger.Error("audit write failed", "event_id", ev.ID, "action", ev.Action, "error", err)
		}
		cancel()
	}
}

// Dispatch queues ev. A full queue drops the event.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.dropped.Add(1)
		d.logger.Warn("audit queue full, dropping event", "action", ev.Action)
	}
}

// Dropped is the number of events lost to a full queue.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// Close stops accepting events and waits for the queue to drain or ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
