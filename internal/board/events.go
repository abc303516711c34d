package board

import "lockgroove/internal/layout"

type EventType int

const (
	EventGrooveStarted EventType = iota
	EventGrooveStopping
	EventGrooveStopped
	EventRecordingStarted
	EventRecordingSaved
	EventLayoutChanged
)

var eventNames = [...]string{
	EventGrooveStarted:    "groove started",
	EventGrooveStopping:   "groove stopping",
	EventGrooveStopped:    "groove stopped",
	EventRecordingStarted: "recording started",
	EventRecordingSaved:   "recording saved",
	EventLayoutChanged:    "layout changed",
}

func (t EventType) String() string {
	if t < 0 || int(t) >= len(eventNames) {
		return "unknown event"
	}
	return eventNames[t]
}

type Event struct {
	Type EventType
	Key  string      // groove events
	Path string      // recording saved
	Mode layout.Mode // layout changed
}

type EventHandler func(Event)

// EventBus fans events out to subscribers synchronously, in subscription
// order.
type EventBus struct {
	handlers map[EventType][]EventHandler
	all      []EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

// SubscribeAll registers fn for every event type.
func (eb *EventBus) SubscribeAll(fn EventHandler) {
	eb.all = append(eb.all, fn)
}

func (eb *EventBus) Emit(e Event) {
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
	for _, fn := range eb.all {
		fn(e)
	}
}
