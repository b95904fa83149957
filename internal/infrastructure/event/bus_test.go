package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubEvent struct {
	shared.BaseDomainEvent
}

func eventOfType(eventType string) *stubEvent {
	return &stubEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Cylinder", uuid.New()),
	}
}

// recordingHandler keeps every event it sees.
type recordingHandler struct {
	mu       sync.Mutex
	types    []string
	seen     []shared.DomainEvent
	fail     error
	explodes bool
}

func (h *recordingHandler) Handle(_ context.Context, evt shared.DomainEvent) error {
	if h.explodes {
		panic("handler blew up")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, evt)
	return h.fail
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.seen)
}

func TestInMemoryEventBusDelivery(t *testing.T) {
	t.Run("delivers to the type's subscribers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := &recordingHandler{}
		bus.Subscribe(h, "CylinderLeased")

		evt := eventOfType("CylinderLeased")
		require.NoError(t, bus.Publish(context.Background(), evt))

		require.Equal(t, 1, h.count())
		assert.Equal(t, evt, h.seen[0])
	})

	t.Run("fans out to every subscriber of a type", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		first := &recordingHandler{}
		second := &recordingHandler{}
		bus.Subscribe(first, "CylinderLeased")
		bus.Subscribe(second, "CylinderLeased")

		require.NoError(t, bus.Publish(context.Background(), eventOfType("CylinderLeased")))

		assert.Equal(t, 1, first.count())
		assert.Equal(t, 1, second.count())
	})

	t.Run("catch-all handler sees every type", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := &recordingHandler{}
		bus.Subscribe(h)

		require.NoError(t, bus.Publish(context.Background(),
			eventOfType("CylinderLeased"), eventOfType("CylinderTransferred")))

		assert.Equal(t, 2, h.count())
	})

	t.Run("unrelated types are not delivered", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := &recordingHandler{}
		bus.Subscribe(h, "CylinderRetired")

		require.NoError(t, bus.Publish(context.Background(), eventOfType("CylinderLeased")))

		assert.Equal(t, 0, h.count())
	})

	t.Run("uses the handler's declared types when none are given", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := &recordingHandler{types: []string{"CylinderReturned"}}
		bus.Subscribe(h)

		require.NoError(t, bus.Publish(context.Background(),
			eventOfType("CylinderReturned"), eventOfType("CylinderLeased")))

		assert.Equal(t, 1, h.count())
	})
}

func TestInMemoryEventBusIsolation(t *testing.T) {
	t.Run("handler errors never reach the publisher", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{fail: errors.New("downstream unavailable")}
		healthy := &recordingHandler{}
		bus.Subscribe(failing, "CylinderLeased")
		bus.Subscribe(healthy, "CylinderLeased")

		require.NoError(t, bus.Publish(context.Background(), eventOfType("CylinderLeased")))

		assert.Equal(t, 1, failing.count())
		assert.Equal(t, 1, healthy.count())
	})

	t.Run("a panicking handler does not stop delivery", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := &recordingHandler{explodes: true}
		healthy := &recordingHandler{}
		bus.Subscribe(panicking, "CylinderLeased")
		bus.Subscribe(healthy, "CylinderLeased")

		require.NoError(t, bus.Publish(context.Background(), eventOfType("CylinderLeased")))

		assert.Equal(t, 1, healthy.count())
	})
}

func TestInMemoryEventBusUnsubscribe(t *testing.T) {
	t.Run("detaches from a specific type", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := &recordingHandler{}
		bus.Subscribe(h, "CylinderLeased")

		require.NoError(t, bus.Publish(context.Background(), eventOfType("CylinderLeased")))
		require.Equal(t, 1, h.count())

		bus.Unsubscribe(h)

		require.NoError(t, bus.Publish(context.Background(), eventOfType("CylinderLeased")))
		assert.Equal(t, 1, h.count())
	})

	t.Run("detaches a catch-all handler", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := &recordingHandler{}
		bus.Subscribe(h)

		bus.Unsubscribe(h)

		require.NoError(t, bus.Publish(context.Background(), eventOfType("CylinderLeased")))
		assert.Equal(t, 0, h.count())
	})

	t.Run("leaves other subscribers attached", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		leaving := &recordingHandler{}
		staying := &recordingHandler{}
		bus.Subscribe(leaving, "CylinderLeased")
		bus.Subscribe(staying, "CylinderLeased")

		bus.Unsubscribe(leaving)

		require.NoError(t, bus.Publish(context.Background(), eventOfType("CylinderLeased")))
		assert.Equal(t, 0, leaving.count())
		assert.Equal(t, 1, staying.count())
	})
}

func TestInMemoryEventBusLifecycle(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	require.NoError(t, bus.Start(context.Background()))

	h := &recordingHandler{}
	bus.Subscribe(h, "CylinderLeased")
	require.NoError(t, bus.Publish(context.Background(), eventOfType("CylinderLeased")))
	assert.Equal(t, 1, h.count())

	require.NoError(t, bus.Stop(context.Background()))
}
