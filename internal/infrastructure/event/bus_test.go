package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/storefront/backend/internal/domain/shared"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Test", "agg-1")}
}

type testHandler struct {
	eventTypes []string
	err        error
	block      chan struct{}

	mu      sync.Mutex
	handled []shared.DomainEvent
	ctxErrs []error
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.block != nil {
		<-h.block
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	h.ctxErrs = append(h.ctxErrs, ctx.Err())
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

type panicHandler struct{}

func (panicHandler) Handle(context.Context, shared.DomainEvent) error { panic("boom") }
func (panicHandler) EventTypes() []string                           { return []string{"coupon.issued"} }

func TestAsyncEventBus_InlineBeforeStart(t *testing.T) {
	bus := NewAsyncEventBus(Config{}, zap.NewNop())
	handler := newTestHandler("coupon.issued")
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("coupon.issued"), newTestEvent("coupon.revoked")))
	assert.Equal(t, 1, handler.count())
}

func TestAsyncEventBus_WorkersDeliver(t *testing.T) {
	bus := NewAsyncEventBus(Config{Workers: 2, QueueSize: 16}, zap.NewNop())
	handler := newTestHandler("coupon.issued")
	wildcard := newTestHandler()
	bus.Subscribe(handler)
	bus.Subscribe(wildcard)
	require.NoError(t, bus.Start(context.Background()))

	for i := 0; i < 10; i++ {
		require.NoError(t, bus.Publish(context.Background(), newTestEvent("coupon.issued")))
	}
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("order.placed")))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(ctx))

	assert.Equal(t, 10, handler.count())
	assert.Equal(t, 11, wildcard.count())
}

func TestAsyncEventBus_HandlerOutlivesRequestContext(t *testing.T) {
	bus := NewAsyncEventBus(Config{Workers: 1, QueueSize: 4}, zap.NewNop())
	handler := newTestHandler("coupon.issued")
	handler.block = make(chan struct{})
	bus.Subscribe(handler)
	require.NoError(t, bus.Start(context.Background()))

	reqCtx, cancelReq := context.WithCancel(context.Background())
	require.NoError(t, bus.Publish(reqCtx, newTestEvent("coupon.issued")))
	cancelReq()
	close(handler.block)

	require.NoError(t, bus.Stop(context.Background()))
	require.Equal(t, 1, handler.count())
	assert.NoError(t, handler.ctxErrs[0])
}

func TestAsyncEventBus_QueueFull(t *testing.T) {
	bus := NewAsyncEventBus(Config{Workers: 1, QueueSize: 1}, zap.NewNop())
	handler := newTestHandler("coupon.issued")
	handler.block = make(chan struct{})
	bus.Subscribe(handler)
	require.NoError(t, bus.Start(context.Background()))

	// the first event occupies the worker, the second fills the queue
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("coupon.issued")))
	require.Eventually(t, func() bool { return len(bus.queue) == 0 }, time.Second, 5*time.Millisecond)
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("coupon.issued")))

	err := bus.Publish(context.Background(), newTestEvent("coupon.issued"))
	assert.ErrorIs(t, err, ErrQueueFull)

	close(handler.block)
	require.NoError(t, bus.Stop(context.Background()))
	assert.Equal(t, 2, handler.count())
}

func TestAsyncEventBus_StopTimeout(t *testing.T) {
	bus := NewAsyncEventBus(Config{Workers: 1, QueueSize: 1}, zap.NewNop())
	handler := newTestHandler("coupon.issued")
	handler.block = make(chan struct{})
	defer close(handler.block)
	bus.Subscribe(handler)
	require.NoError(t, bus.Start(context.Background()))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("coupon.issued")))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bus.Stop(ctx), context.DeadlineExceeded)
}

func TestAsyncEventBus_HandlerErrorsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	bus := NewAsyncEventBus(Config{}, zap.New(core))

	failing := newTestHandler("coupon.issued")
	failing.err = errors.New("smtp down")
	next := newTestHandler("coupon.issued")
	bus.Subscribe(failing)
	bus.Subscribe(panicHandler{})
	bus.Subscribe(next)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("coupon.issued")))

	assert.Equal(t, 1, next.count())
	entries := logs.FilterMessage("handler failed to process event").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "coupon.issued", entries[0].ContextMap()["event_type"])
}

func TestAsyncEventBus_Unsubscribe(t *testing.T) {
	bus := NewAsyncEventBus(Config{}, zap.NewNop())
	handler := newTestHandler("coupon.issued")
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("coupon.issued")))
	bus.Unsubscribe(handler)
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("coupon.issued")))

	assert.Equal(t, 1, handler.count())
}

func TestAsyncEventBus_StartStopIdempotent(t *testing.T) {
	bus := NewAsyncEventBus(Config{}, zap.NewNop())
	assert.NoError(t, bus.Stop(context.Background()))
	require.NoError(t, bus.Start(context.Background()))
	require.NoError(t, bus.Start(context.Background()))
	require.NoError(t, bus.Stop(context.Background()))
	require.NoError(t, bus.Stop(context.Background()))

	// after Stop events are handled inline again
	handler := newTestHandler("coupon.issued")
	bus.Subscribe(handler)
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("coupon.issued")))
	assert.Equal(t, 1, handler.count())
}
