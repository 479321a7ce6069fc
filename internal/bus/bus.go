// internal/bus/bus.go

// Package bus is the in-process command and event router.
//
// Commands (Register/Request) are point-to-point: the handler's result or
// error reaches exactly the issuing caller, under a per-request deadline.
// Events (Subscribe/Emit) are fire-and-forget: buffered, delivered on
// consumer goroutines, at-least-once. Failed event handlers are retried with
// backoff, so consumers must be idempotent.
package bus

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/taskforge/internal/app/system/apperr"
	"github.com/dalemusser/taskforge/internal/app/system/timeouts"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandlerFunc processes one command and returns its result.
type HandlerFunc func(ctx context.Context, payload any) (any, error)

// EventFunc consumes one event. A non-nil error triggers a retry.
type EventFunc func(ctx context.Context, payload any) error

const (
	eventQueueSize   = 256
	eventWorkers     = 4
	maxEventAttempts = 5
	baseBackoff      = 100 * time.Millisecond
	maxBackoff       = 5 * time.Second
)

type envelope struct {
	name    string
	payload any
	id      string
}

// Bus routes commands to handlers and events to subscribers.
type Bus struct {
	mu          sync.RWMutex
	handlers    map[string]HandlerFunc
	subscribers map[string][]EventFunc
	closed      bool

	events chan envelope
	done   chan struct{}
	wg     sync.WaitGroup
	log    *zap.Logger
}

// New constructs a Bus and starts its event consumer pool.
func New(log *zap.Logger) *Bus {
	b := &Bus{
		handlers:    make(map[string]HandlerFunc),
		subscribers: make(map[string][]EventFunc),
		events:      make(chan envelope, eventQueueSize),
		done:        make(chan struct{}),
		log:         log,
	}
	for i := 0; i < eventWorkers; i++ {
		b.wg.Add(1)
		go b.consume()
	}
	return b
}

// Register binds name to a command handler. Registering the same name twice
// is a programming error and panics at startup.
func (b *Bus) Register(name string, h HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.handlers[name]; dup {
		panic("bus: duplicate command handler: " + name)
	}
	b.handlers[name] = h
}

// Subscribe adds an event consumer for name. Multiple subscribers per name
// each receive every emitted event.
func (b *Bus) Subscribe(name string, fn EventFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[name] = append(b.subscribers[name], fn)
}

// Request dispatches a command and waits for its reply. Unknown commands
// fail with a NotFound-kind error. The handler runs under a deadline; a
// timed-out command is reported to the caller and never retried here.
func (b *Bus) Request(ctx context.Context, name string, payload any) (any, error) {
	b.mu.RLock()
	h, ok := b.handlers[name]
	b.mu.RUnlock()
	if !ok {
		return nil, apperr.NotFound("unknown command %q", name)
	}

	id := uuid.NewString()
	start := time.Now()
	b.log.Debug("command dispatched", zap.String("command", name), zap.String("correlation_id", id))

	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	type reply struct {
		result any
		err    error
	}
	ch := make(chan reply, 1)
	go func() {
		result, err := h(ctx, payload)
		ch <- reply{result, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			b.log.Debug("command failed",
				zap.String("command", name),
				zap.String("correlation_id", id),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(r.err))
			return nil, r.err
		}
		b.log.Debug("command completed",
			zap.String("command", name),
			zap.String("correlation_id", id),
			zap.Duration("elapsed", time.Since(start)))
		return r.result, nil
	case <-ctx.Done():
		b.log.Warn("command timed out",
			zap.String("command", name),
			zap.String("correlation_id", id),
			zap.Duration("elapsed", time.Since(start)))
		return nil, apperr.Wrap(apperr.KindUnavailable, ctx.Err(), "command %q did not complete in time", name)
	}
}

// Emit queues an event for asynchronous delivery. It never blocks the
// caller: when the queue is full the handoff moves to a goroutine.
func (b *Bus) Emit(name string, payload any) {
	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		b.log.Warn("event dropped, bus closed", zap.String("event", name))
		return
	}

	env := envelope{name: name, payload: payload, id: uuid.NewString()}
	b.log.Debug("event emitted", zap.String("event", name), zap.String("correlation_id", env.id))

	select {
	case b.events <- env:
	default:
		// Queue full. Hand off to a goroutine so the caller never waits.
		go func() {
			select {
			case b.events <- env:
			case <-b.done:
				b.log.Warn("event dropped during shutdown",
					zap.String("event", env.name),
					zap.String("correlation_id", env.id))
			}
		}()
	}
}

// Close stops the consumer pool after draining queued events. It returns
// when the pool has stopped or ctx expires.
func (b *Bus) Close(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	close(b.done)

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bus) consume() {
	defer b.wg.Done()
	for {
		select {
		case env := <-b.events:
			b.deliver(env)
		case <-b.done:
			// Drain whatever is already queued, then stop.
			for {
				select {
				case env := <-b.events:
					b.deliver(env)
				default:
					return
				}
			}
		}
	}
}

// deliver fans an event out to every subscriber, retrying each failed
// subscriber with exponential backoff up to maxEventAttempts.
func (b *Bus) deliver(env envelope) {
	b.mu.RLock()
	subs := b.subscribers[env.name]
	b.mu.RUnlock()

	for _, fn := range subs {
		backoff := baseBackoff
		for attempt := 1; ; attempt++ {
			ctx, cancel := context.WithTimeout(context.Background(), timeouts.Long())
			err := fn(ctx, env.payload)
			cancel()
			if err == nil {
				b.log.Debug("event delivered",
					zap.String("event", env.name),
					zap.String("correlation_id", env.id),
					zap.Int("attempt", attempt))
				break
			}
			if attempt >= maxEventAttempts {
				b.log.Error("event delivery abandoned",
					zap.String("event", env.name),
					zap.String("correlation_id", env.id),
					zap.Int("attempts", attempt),
					zap.Error(err))
				break
			}
			b.log.Warn("event delivery failed, retrying",
				zap.String("event", env.name),
				zap.String("correlation_id", env.id),
				zap.Int("attempt", attempt),
				zap.Error(err))
			time.Sleep(backoff)
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}
	}
}
