// pkg/event/event.go
package event

import (
	"sync"
	"time"
)

// Type represents the type of event
type Type string

// Flight event types
const (
	AssetsLoaded     Type = "assets_loaded"
	LoopStarted      Type = "loop_started"
	HitDetected      Type = "hit_detected"
	StepCapReached   Type = "step_cap_reached"
	ObstacleRecycled Type = "obstacle_recycled"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription is returned by Subscribe; Cancel removes the handler.
type Subscription struct {
	ID     uint64
	Cancel func()
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Cancel: func() { b.unsubscribe(eventType, id) },
	}
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			// Copy so a Publish iterating the old slice is unaffected.
			remaining := make([]subscriber, 0, len(subs)-1)
			remaining = append(remaining, subs[:i]...)
			remaining = append(remaining, subs[i+1:]...)
			b.handlers[eventType] = remaining
			return
		}
	}
}

// Publish sends an event to all subscribed handlers on the caller's
// goroutine. A nil bus drops the event.
func (b *Bus) Publish(event Event) {
	if b == nil {
		return
	}

	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// HitEvent is published when the collision detector triggers its responder.
type HitEvent struct {
	BaseEvent
	Vertex   int
	Distance float64
	Point    [3]float64
	Tick     uint64
}

// NewHitEvent creates a new hit event
func NewHitEvent(source interface{}, vertex int, distance float64, point [3]float64, tick uint64) *HitEvent {
	return &HitEvent{
		BaseEvent: BaseEvent{
			EventType: HitDetected,
			Source:    source,
		},
		Vertex:   vertex,
		Distance: distance,
		Point:    point,
		Tick:     tick,
	}
}

// LoopEvent carries loop counters for LoopStarted and StepCapReached.
type LoopEvent struct {
	BaseEvent
	Steps      int
	DroppedMs  float64
	TotalSteps uint64
}

// NewLoopEvent creates a new loop event
func NewLoopEvent(eventType Type, source interface{}, steps int, droppedMs float64, totalSteps uint64) *LoopEvent {
	return &LoopEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		Steps:      steps,
		DroppedMs:  droppedMs,
		TotalSteps: totalSteps,
	}
}

// RecycleEvent reports how many asteroids were moved back in front of the
// camera during one environment update.
type RecycleEvent struct {
	BaseEvent
	Recycled int
}

// NewRecycleEvent creates a new recycle event
func NewRecycleEvent(source interface{}, recycled int) *RecycleEvent {
	return &RecycleEvent{
		BaseEvent: BaseEvent{
			EventType: ObstacleRecycled,
			Source:    source,
		},
		Recycled: recycled,
	}
}

// AssetsEvent reports a completed asset load.
type AssetsEvent struct {
	BaseEvent
	Sources []string
	Elapsed time.Duration
}

// NewAssetsEvent creates a new assets loaded event
func NewAssetsEvent(source interface{}, sources []string, elapsed time.Duration) *AssetsEvent {
	return &AssetsEvent{
		BaseEvent: BaseEvent{
			EventType: AssetsLoaded,
			Source:    source,
		},
		Sources: sources,
		Elapsed: elapsed,
	}
}
