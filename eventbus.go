package sparsecs

import "reflect"

// MaxEventTypes defines the maximum number of unique event types that can be
// registered in the EventBus.
const MaxEventTypes = 256

// ArchetypeCreated is published when a signature gets its archetype.
type ArchetypeCreated struct {
	ID        int
	Signature Signature
}

// ArchetypeDropped is published when an empty archetype leaves the table.
type ArchetypeDropped struct {
	ID        int
	Signature Signature
}

// EntityDespawned is published after an entity has been removed from its
// archetype and its slot freed.
type EntityDespawned struct {
	Entity    EntityID
	Signature Signature // composition the entity had when despawned
}

// EventBus is a synchronous, type-keyed publish/subscribe hub. The Registry
// uses it to report structural changes to the layer above it.
//
// Publish does not allocate; Subscribe may allocate the first time a type is
// seen.
type EventBus struct {
	eventTypeMap    map[reflect.Type]uint8
	handlers        [MaxEventTypes][]any
	nextEventTypeID int
}

// Subscribe registers a handler function to be called when an event of type T
// is published. Handlers run in the order they were subscribed.
//
// Parameters:
//   - bus: The EventBus instance to subscribe to.
//   - handler: A function that takes a single argument of type T.
func Subscribe[T any](bus *EventBus, handler func(T)) {
	t := reflect.TypeFor[T]()
	id := bus.getEventTypeID(t)
	if cap(bus.handlers[id]) == 0 {
		bus.handlers[id] = make([]any, 0, 4)
	}
	bus.handlers[id] = append(bus.handlers[id], handler)
}

// Publish broadcasts event to every handler subscribed to type T.
//
// Parameters:
//   - bus: The EventBus instance to publish to.
//   - event: The event data of type T to be sent to handlers.
func Publish[T any](bus *EventBus, event T) {
	if bus == nil || bus.eventTypeMap == nil {
		return
	}
	t := reflect.TypeFor[T]()
	if id, ok := bus.eventTypeMap[t]; ok {
		for _, h := range bus.handlers[id] {
			h.(func(T))(event)
		}
	}
}

// getEventTypeID retrieves or assigns an ID for the event type.
func (bus *EventBus) getEventTypeID(t reflect.Type) uint8 {
	if bus.eventTypeMap == nil {
		bus.eventTypeMap = make(map[reflect.Type]uint8)
	}
	if id, ok := bus.eventTypeMap[t]; ok {
		return id
	}
	if bus.nextEventTypeID >= MaxEventTypes {
		panic("sparsecs: too many event types")
	}
	id := uint8(bus.nextEventTypeID)
	bus.nextEventTypeID++
	bus.eventTypeMap[t] = id
	return id
}
