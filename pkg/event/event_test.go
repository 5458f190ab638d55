// pkg/event/event_test.go
package event

import (
	"sync"
	"testing"
	"time"
)

// TestNewEventBus tests the creation of a new event bus
func TestNewEventBus_Creation_ReturnsInitializedBus(t *testing.T) {
	bus := NewEventBus()

	if bus == nil {
		t.Fatal("NewEventBus() returned nil")
	}

	if bus.handlers == nil {
		t.Error("handlers map not initialized")
	}

	if bus.nextID != 1 {
		t.Errorf("expected nextID to be 1, got %d", bus.nextID)
	}
}

// TestBaseEvent tests the BaseEvent functionality
func TestBaseEvent_GetType_ReturnsCorrectType(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		source    interface{}
	}{
		{
			name:      "HitDetected event",
			eventType: HitDetected,
			source:    "test_source",
		},
		{
			name:      "AssetsLoaded event",
			eventType: AssetsLoaded,
			source:    123,
		},
		{
			name:      "Empty source",
			eventType: LoopStarted,
			source:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := &BaseEvent{
				EventType: tt.eventType,
				Source:    tt.source,
			}

			if event.GetType() != tt.eventType {
				t.Errorf("GetType() = %v, want %v", event.GetType(), tt.eventType)
			}

			if event.GetSource() != tt.source {
				t.Errorf("GetSource() = %v, want %v", event.GetSource(), tt.source)
			}
		})
	}
}

// TestBusSubscribe tests event subscription functionality
func TestBusSubscribe_SingleHandler_ReturnsValidSubscription(t *testing.T) {
	bus := NewEventBus()

	handler := func(e Event) {
		// Handler for testing subscription
	}

	sub := bus.Subscribe(HitDetected, handler)

	if sub == nil {
		t.Fatal("Subscribe() returned nil subscription")
	}

	if sub.ID == 0 {
		t.Error("subscription ID should not be 0")
	}

	if sub.Cancel == nil {
		t.Error("subscription Cancel function should not be nil")
	}

	// Verify handler was registered
	bus.mu.RLock()
	handlers := bus.handlers[HitDetected]
	bus.mu.RUnlock()

	if len(handlers) != 1 {
		t.Errorf("expected 1 handler, got %d", len(handlers))
	}
}

// TestBusSubscribe_MultipleHandlers tests multiple subscriptions
func TestBusSubscribe_MultipleHandlers_AllRegistered(t *testing.T) {
	bus := NewEventBus()
	var callCount int

	handler1 := func(e Event) { callCount++ }
	handler2 := func(e Event) { callCount++ }
	handler3 := func(e Event) { callCount++ }

	sub1 := bus.Subscribe(HitDetected, handler1)
	sub2 := bus.Subscribe(HitDetected, handler2)
	_ = bus.Subscribe(AssetsLoaded, handler3)

	// Check unique IDs
	if sub1.ID == sub2.ID {
		t.Error("subscriptions should have unique IDs")
	}

	// Check handlers count
	bus.mu.RLock()
	shipHandlers := bus.handlers[HitDetected]
	planetHandlers := bus.handlers[AssetsLoaded]
	bus.mu.RUnlock()

	if len(shipHandlers) != 2 {
		t.Errorf("expected 2 handlers for HitDetected, got %d", len(shipHandlers))
	}

	if len(planetHandlers) != 1 {
		t.Errorf("expected 1 handler for AssetsLoaded, got %d", len(planetHandlers))
	}
}

// TestBusPublish tests event publishing functionality
func TestBusPublish_WithSubscribers_CallsAllHandlers(t *testing.T) {
	bus := NewEventBus()
	var callCount int
	var receivedEvents []Event

	handler1 := func(e Event) {
		callCount++
		receivedEvents = append(receivedEvents, e)
	}

	handler2 := func(e Event) {
		callCount++
		receivedEvents = append(receivedEvents, e)
	}

	bus.Subscribe(HitDetected, handler1)
	bus.Subscribe(HitDetected, handler2)

	event := &BaseEvent{
		EventType: HitDetected,
		Source:    "test",
	}

	bus.Publish(event)

	if callCount != 2 {
		t.Errorf("expected 2 handler calls, got %d", callCount)
	}

	if len(receivedEvents) != 2 {
		t.Errorf("expected 2 received events, got %d", len(receivedEvents))
	}

	for _, e := range receivedEvents {
		if e.GetType() != HitDetected {
			t.Errorf("expected event type %v, got %v", HitDetected, e.GetType())
		}
	}
}

// TestBusPublish_NoSubscribers tests publishing without subscribers
func TestBusPublish_NoSubscribers_NoError(t *testing.T) {
	bus := NewEventBus()

	event := &BaseEvent{
		EventType: HitDetected,
		Source:    "test",
	}

	// Should not panic or error
	bus.Publish(event)
}

// TestBusPublish_WrongEventType tests publishing to non-subscribed event type
func TestBusPublish_WrongEventType_HandlersNotCalled(t *testing.T) {
	bus := NewEventBus()
	handlerCalled := false

	handler := func(e Event) {
		handlerCalled = true
	}

	bus.Subscribe(HitDetected, handler)

	event := &BaseEvent{
		EventType: AssetsLoaded,
		Source:    "test",
	}

	bus.Publish(event)

	if handlerCalled {
		t.Error("handler should not have been called for different event type")
	}
}

// TestSubscriptionCancel tests canceling subscriptions
func TestSubscriptionCancel_ValidSubscription_RemovesHandler(t *testing.T) {
	bus := NewEventBus()
	handlerCalled := false

	handler := func(e Event) {
		handlerCalled = true
	}

	sub := bus.Subscribe(HitDetected, handler)

	// Verify handler is registered
	bus.mu.RLock()
	handlersBefore := len(bus.handlers[HitDetected])
	bus.mu.RUnlock()

	if handlersBefore != 1 {
		t.Errorf("expected 1 handler before cancel, got %d", handlersBefore)
	}

	// Cancel subscription
	sub.Cancel()

	// Verify handler is removed
	bus.mu.RLock()
	handlersAfter := len(bus.handlers[HitDetected])
	bus.mu.RUnlock()

	if handlersAfter != 0 {
		t.Errorf("expected 0 handlers after cancel, got %d", handlersAfter)
	}

	// Verify handler is not called after cancellation
	event := &BaseEvent{
		EventType: HitDetected,
		Source:    "test",
	}

	bus.Publish(event)

	if handlerCalled {
		t.Error("handler should not be called after cancellation")
	}
}

// TestConcurrentAccess tests thread safety
func TestBusSubscribe_ConcurrentAccess_ThreadSafe(t *testing.T) {
	bus := NewEventBus()
	var wg sync.WaitGroup
	handlerCount := 0
	var mu sync.Mutex

	handler := func(e Event) {
		mu.Lock()
		handlerCount++
		mu.Unlock()
	}

	// Start multiple goroutines to subscribe concurrently
	numGoroutines := 10
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			bus.Subscribe(HitDetected, handler)
		}()
	}

	wg.Wait()

	// Verify all subscriptions were registered
	bus.mu.RLock()
	handlers := bus.handlers[HitDetected]
	bus.mu.RUnlock()

	if len(handlers) != numGoroutines {
		t.Errorf("expected %d handlers, got %d", numGoroutines, len(handlers))
	}

	// Test concurrent publishing
	event := &BaseEvent{
		EventType: HitDetected,
		Source:    "test",
	}

	// Publish concurrently
	wg.Add(3)
	for i := 0; i < 3; i++ {
		go func() {
			defer wg.Done()
			bus.Publish(event)
		}()
	}

	wg.Wait()

	// Give handlers time to execute
	time.Sleep(10 * time.Millisecond)

	mu.Lock()
	expectedCalls := numGoroutines * 3
	if handlerCount != expectedCalls {
		t.Errorf("expected %d handler calls, got %d", expectedCalls, handlerCount)
	}
	mu.Unlock()
}

// TestNewHitEvent tests hit event creation
func TestNewHitEvent_ValidParameters_ReturnsCorrectEvent(t *testing.T) {
	tests := []struct {
		name     string
		source   interface{}
		vertex   int
		distance float64
		point    [3]float64
		tick     uint64
	}{
		{
			name:     "Near hit",
			source:   "collision_detector",
			vertex:   3,
			distance: 12.5,
			point:    [3]float64{1, 2, 3},
			tick:     42,
		},
		{
			name:     "Nil source",
			source:   nil,
			vertex:   0,
			distance: 999.9,
			tick:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := NewHitEvent(tt.source, tt.vertex, tt.distance, tt.point, tt.tick)

			if event == nil {
				t.Fatal("NewHitEvent() returned nil")
			}

			if event.GetType() != HitDetected {
				t.Errorf("GetType() = %v, want %v", event.GetType(), HitDetected)
			}

			if event.GetSource() != tt.source {
				t.Errorf("GetSource() = %v, want %v", event.GetSource(), tt.source)
			}

			if event.Vertex != tt.vertex {
				t.Errorf("Vertex = %v, want %v", event.Vertex, tt.vertex)
			}

			if event.Distance != tt.distance {
				t.Errorf("Distance = %v, want %v", event.Distance, tt.distance)
			}

			if event.Point != tt.point {
				t.Errorf("Point = %v, want %v", event.Point, tt.point)
			}

			if event.Tick != tt.tick {
				t.Errorf("Tick = %v, want %v", event.Tick, tt.tick)
			}
		})
	}
}

// TestNewLoopEvent tests loop event creation
func TestNewLoopEvent_ValidParameters_ReturnsCorrectEvent(t *testing.T) {
	event := NewLoopEvent(StepCapReached, "loop", 240, 6000, 1000)

	if event == nil {
		t.Fatal("NewLoopEvent() returned nil")
	}

	if event.GetType() != StepCapReached {
		t.Errorf("GetType() = %v, want %v", event.GetType(), StepCapReached)
	}

	if event.Steps != 240 {
		t.Errorf("Steps = %v, want 240", event.Steps)
	}

	if event.DroppedMs != 6000 {
		t.Errorf("DroppedMs = %v, want 6000", event.DroppedMs)
	}

	if event.TotalSteps != 1000 {
		t.Errorf("TotalSteps = %v, want 1000", event.TotalSteps)
	}
}

// TestNewRecycleEvent tests recycle event creation
func TestNewRecycleEvent_ValidParameters_ReturnsCorrectEvent(t *testing.T) {
	event := NewRecycleEvent("environment", 5)

	if event.GetType() != ObstacleRecycled {
		t.Errorf("GetType() = %v, want %v", event.GetType(), ObstacleRecycled)
	}

	if event.Recycled != 5 {
		t.Errorf("Recycled = %v, want 5", event.Recycled)
	}
}

// TestNewAssetsEvent tests assets event creation
func TestNewAssetsEvent_ValidParameters_ReturnsCorrectEvent(t *testing.T) {
	event := NewAssetsEvent("loader", []string{"hit.ogg", "ship.json"}, 250*time.Millisecond)

	if event.GetType() != AssetsLoaded {
		t.Errorf("GetType() = %v, want %v", event.GetType(), AssetsLoaded)
	}

	if len(event.Sources) != 2 || event.Sources[1] != "ship.json" {
		t.Errorf("Sources = %v, want [hit.ogg ship.json]", event.Sources)
	}

	if event.Elapsed != 250*time.Millisecond {
		t.Errorf("Elapsed = %v, want 250ms", event.Elapsed)
	}
}

// TestEventTypes tests that all event type constants are properly defined
func TestEventTypes_Constants_AllDefined(t *testing.T) {
	expectedTypes := []Type{
		AssetsLoaded,
		LoopStarted,
		HitDetected,
		StepCapReached,
		ObstacleRecycled,
	}

	seen := make(map[Type]bool)
	for _, eventType := range expectedTypes {
		if string(eventType) == "" {
			t.Errorf("event type %v is empty", eventType)
		}
		if seen[eventType] {
			t.Errorf("event type %v is duplicated", eventType)
		}
		seen[eventType] = true
	}
}

// TestPublish_NilBus tests that a nil bus drops events
func TestPublish_NilBus_NoPanic(t *testing.T) {
	var bus *Bus
	bus.Publish(&BaseEvent{EventType: HitDetected})
}

// TestCancelDuringPublish tests that a handler may cancel its own subscription
func TestCancelDuringPublish_SelfCancel_NoDeadlock(t *testing.T) {
	bus := NewEventBus()
	calls := 0

	var sub *Subscription
	sub = bus.Subscribe(HitDetected, func(e Event) {
		calls++
		sub.Cancel()
	})

	bus.Publish(&BaseEvent{EventType: HitDetected})
	bus.Publish(&BaseEvent{EventType: HitDetected})

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

// TestCancelMultipleSubscriptions tests canceling multiple subscriptions
func TestCancelMultipleSubscriptions_DifferentTypes_OnlyTargetRemoved(t *testing.T) {
	bus := NewEventBus()

	handler1Called := false
	handler2Called := false
	handler3Called := false

	handler1 := func(e Event) { handler1Called = true }
	handler2 := func(e Event) { handler2Called = true }
	handler3 := func(e Event) { handler3Called = true }

	sub1 := bus.Subscribe(HitDetected, handler1)
	_ = bus.Subscribe(HitDetected, handler2)
	_ = bus.Subscribe(AssetsLoaded, handler3)

	// Cancel only the first subscription
	sub1.Cancel()

	// Publish HitDetected event
	shipEvent := &BaseEvent{EventType: HitDetected, Source: "test"}
	bus.Publish(shipEvent)

	// Publish AssetsLoaded event
	planetEvent := &BaseEvent{EventType: AssetsLoaded, Source: "test"}
	bus.Publish(planetEvent)

	if handler1Called {
		t.Error("handler1 should not be called after cancellation")
	}

	if !handler2Called {
		t.Error("handler2 should be called")
	}

	if !handler3Called {
		t.Error("handler3 should be called")
	}
}
