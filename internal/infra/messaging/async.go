package messaging

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"slot-capacity-engine/internal/domain/reservation"
	"slot-capacity-engine/internal/pkg/errs"
	"slot-capacity-engine/internal/usecase/shared"
)

var (
	ErrQueueFull      = errs.New("event queue is full")
	ErrEmitterStopped = errs.New("event emitter stopped")
)

// AsyncEmitter hands events to a single worker so request paths never wait on
// the broker. Events keep their submission order.
type AsyncEmitter struct {
	next        shared.EventEmitter
	logger      *slog.Logger
	sendTimeout time.Duration

	mu      sync.RWMutex
	stopped bool
	queue   chan reservation.Event
	done    chan struct{}
}

func NewAsyncEmitter(next shared.EventEmitter, queueSize int, sendTimeout time.Duration, logger *slog.Logger) *AsyncEmitter {
	if queueSize <= 0 {
		queueSize = 1
	}
	e := &AsyncEmitter{
		next:        next,
		logger:      logger,
		sendTimeout: sendTimeout,
		queue:       make(chan reservation.Event, queueSize),
		done:        make(chan struct{}),
	}
	go e.run()
	return e
}

// Emit never blocks. A full queue drops the event and reports ErrQueueFull.
func (e *AsyncEmitter) Emit(_ context.Context, event reservation.Event) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.stopped {
		return ErrEmitterStopped
	}

	select {
	case e.queue <- event:
		return nil
	default:
		return errs.Mark(errs.Newf("dropped %s for %s", event.Type(), event.ReservationID()), ErrQueueFull)
	}
}

func (e *AsyncEmitter) run() {
	defer close(e.done)
	for event := range e.queue {
		e.deliver(event)
	}
}

func (e *AsyncEmitter) deliver(event reservation.Event) {
	ctx := context.Background()
	if e.sendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.sendTimeout)
		defer cancel()
	}

	if err := e.next.Emit(ctx, event); err != nil {
		e.logger.Error("event delivery failed",
			"event_type", string(event.Type()),
			"reservation_id", event.ReservationID(),
			"error", err.Error())
	}
}

// Stop refuses new events and waits for the queued ones until ctx expires.
func (e *AsyncEmitter) Stop(ctx context.Context) error {
	e.mu.Lock()
	if !e.stopped {
		e.stopped = true
		close(e.queue)
	}
	e.mu.Unlock()

	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		e.logger.Warn("event queue not drained before shutdown", "pending", len(e.queue))
		return ctx.Err()
	}
}
