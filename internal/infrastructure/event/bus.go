package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
)

// ErrQueueFull is returned by Publish when the bus cannot accept more events
var ErrQueueFull = errors.New("event queue is full")

// Config sizes the worker pool
type Config struct {
	Workers   int
	QueueSize int
}

// DefaultConfig returns the settings used when none are configured
func DefaultConfig() Config {
	return Config{Workers: 4, QueueSize: 256}
}

type envelope struct {
	ctx   context.Context
	event shared.DomainEvent
}

// AsyncEventBus dispatches events to handlers on a pool of worker goroutines.
// Before Start, and after Stop, Publish dispatches inline on the caller's goroutine.
type AsyncEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	cfg      Config

	mu      sync.RWMutex
	queue   chan envelope
	running atomic.Bool
	wg      sync.WaitGroup
}

// NewAsyncEventBus creates a bus. Call Start to run the workers.
func NewAsyncEventBus(cfg Config, l *zap.Logger) *AsyncEventBus {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	return &AsyncEventBus{
		registry: NewHandlerRegistry(),
		logger:   l,
		cfg:      cfg,
	}
}

// Publish queues events for the workers. The handler context keeps the
// caller's values but not its cancellation, so a finished request does not
// abort a broadcast it triggered.
func (b *AsyncEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	detached := context.WithoutCancel(ctx)

	b.mu.RLock()
	if !b.running.Load() {
		b.mu.RUnlock()
		for _, ev := range events {
			b.dispatch(detached, ev)
		}
		return nil
	}
	defer b.mu.RUnlock()

	for _, ev := range events {
		select {
		case b.queue <- envelope{ctx: detached, event: ev}:
		default:
			b.logger.Error("event dropped, queue full",
				zap.String("event_type", ev.EventType()),
				zap.String("event_id", ev.EventID().String()),
				zap.Int("queue_size", b.cfg.QueueSize),
			)
			return fmt.Errorf("publish %s: %w", ev.EventType(), ErrQueueFull)
		}
	}
	return nil
}

// Subscribe registers a handler for specific event types.
// With no explicit types the handler's own EventTypes are used.
func (b *AsyncEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler
func (b *AsyncEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start launches the workers
func (b *AsyncEventBus) Start(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running.Load() {
		return nil
	}
	b.queue = make(chan envelope, b.cfg.QueueSize)
	for i := 0; i < b.cfg.Workers; i++ {
		b.wg.Add(1)
		go b.worker(b.queue)
	}
	b.running.Store(true)
	b.logger.Info("event bus started",
		zap.Int("workers", b.cfg.Workers),
		zap.Int("queue_size", b.cfg.QueueSize),
	)
	return nil
}

// Stop closes the queue and waits for the workers to drain it, or for ctx to end
func (b *AsyncEventBus) Stop(ctx context.Context) error {
	b.mu.Lock()
	if !b.running.Load() {
		b.mu.Unlock()
		return nil
	}
	b.running.Store(false)
	pending := len(b.queue)
	close(b.queue)
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	start := time.Now()
	select {
	case <-done:
		b.logger.Info("event bus stopped",
			zap.Int("drained", pending),
			zap.Duration("took", time.Since(start)),
		)
		return nil
	case <-ctx.Done():
		b.logger.Warn("event bus stop timed out before the queue drained", zap.Error(ctx.Err()))
		return ctx.Err()
	}
}

func (b *AsyncEventBus) worker(queue <-chan envelope) {
	defer b.wg.Done()
	for env := range queue {
		b.dispatch(env.ctx, env.event)
	}
}

func (b *AsyncEventBus) dispatch(ctx context.Context, ev shared.DomainEvent) {
	for _, handler := range b.registry.Handlers(ev.EventType()) {
		if err := b.safeHandle(ctx, handler, ev); err != nil {
			logger.Enrich(ctx, b.logger).Error("handler failed to process event",
				zap.String("request_id", logger.GetRequestID(ctx)),
				zap.String("event_type", ev.EventType()),
				zap.String("event_id", ev.EventID().String()),
				zap.String("aggregate_id", ev.AggregateID()),
				zap.Error(err),
			)
		}
	}
}

func (b *AsyncEventBus) safeHandle(ctx context.Context, handler shared.EventHandler, ev shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, ev)
}

var _ shared.EventBus = (*AsyncEventBus)(nil)
