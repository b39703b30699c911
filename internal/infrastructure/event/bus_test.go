package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/comercial/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
	err    error
	panics bool
}

func (h *recordingHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	h.events = append(h.events, ev)
	h.mu.Unlock()
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func (h *recordingHandler) received() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]shared.DomainEvent, len(h.events))
	copy(out, h.events)
	return out
}

func testEvent(eventType string) shared.DomainEvent {
	ev := shared.NewBaseDomainEvent(eventType, "StockRecord", uuid.New())
	return &ev
}

func TestInMemoryEventBus_PublishToTypedHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"inventory.stock.adjusted"}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(),
		testEvent("inventory.stock.adjusted"),
		testEvent("inventory.reservation.created"),
	)
	require.NoError(t, err)

	received := handler.received()
	require.Len(t, received, 1)
	assert.Equal(t, "inventory.stock.adjusted", received[0].EventType())
}

func TestInMemoryEventBus_WildcardHandlerReceivesAll(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(),
		testEvent("inventory.stock.adjusted"),
		testEvent("inventory.reservation.created"),
		testEvent("inventory.reservation.expired"),
	)
	require.NoError(t, err)

	assert.Len(t, handler.received(), 3)
}

func TestInMemoryEventBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{types: []string{"inventory.stock.adjusted"}, err: errors.New("boom")}
	healthy := &recordingHandler{types: []string{"inventory.stock.adjusted"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), testEvent("inventory.stock.adjusted"))
	require.NoError(t, err)

	assert.Len(t, healthy.received(), 1)
}

func TestInMemoryEventBus_HandlerPanicIsContained(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	panicking := &recordingHandler{types: []string{"inventory.stock.adjusted"}, panics: true}
	healthy := &recordingHandler{types: []string{"inventory.stock.adjusted"}}
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), testEvent("inventory.stock.adjusted"))
	})
	assert.Len(t, healthy.received(), 1)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"inventory.stock.adjusted"}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	err := bus.Publish(context.Background(), testEvent("inventory.stock.adjusted"))
	require.NoError(t, err)

	assert.Empty(t, handler.received())
}

func TestHandlerRegistry_TypedBeforeWildcard(t *testing.T) {
	registry := NewHandlerRegistry()
	typed := &recordingHandler{}
	wildcard := &recordingHandler{}
	registry.Register(typed, "inventory.stock.adjusted")
	registry.Register(wildcard)

	handlers := registry.GetHandlers("inventory.stock.adjusted")
	require.Len(t, handlers, 2)
	assert.Same(t, typed, handlers[0].(*recordingHandler))
	assert.Same(t, wildcard, handlers[1].(*recordingHandler))

	assert.Len(t, registry.GetHandlers("inventory.reservation.created"), 1)
}
