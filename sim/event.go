package sim

// An Event is something that happens at a point in simulated time.
//
// Events are plain records. The engine never asks an Event to act; what
// happens when an Event fires is decided by the Handlers registered on a
// Dispatcher. Identity is the ID assigned at construction, not field
// equality, so two Events with identical fields are still distinct.
type Event struct {
	id          string
	eventType   string
	time        float64
	priority    int
	generatorID string
	payload     map[string]any
}

// NewEvent creates an Event of the given type firing at time t. A fresh
// unique ID is assigned; construction never fails.
func NewEvent(eventType string, t float64) *Event {
	return &Event{
		id:        GetIDGenerator().Generate(),
		eventType: eventType,
		time:      t,
		payload:   make(map[string]any),
	}
}

// ID returns the unique identifier assigned at construction.
func (e *Event) ID() string {
	return e.id
}

// Type returns the event type that the Dispatcher routes on.
func (e *Event) Type() string {
	return e.eventType
}

// Time returns the simulated time at which the event fires.
func (e *Event) Time() float64 {
	return e.time
}

// Priority returns the event priority. Among events firing at the same
// time, higher priorities pop first.
func (e *Event) Priority() int {
	return e.priority
}

// GeneratorID names the Generator that produced the event. It is empty for
// events created directly.
func (e *Event) GeneratorID() string {
	return e.generatorID
}

// WithPriority sets the priority and returns the event for chaining.
func (e *Event) WithPriority(p int) *Event {
	e.priority = p
	return e
}

// WithGeneratorID records the producing generator and returns the event for
// chaining.
func (e *Event) WithGeneratorID(id string) *Event {
	e.generatorID = id
	return e
}

// SetPayload stores one payload entry and returns the event for chaining.
// The payload stays mutable after construction.
func (e *Event) SetPayload(key string, value any) *Event {
	e.payload[key] = value
	return e
}

// Payload returns the payload entry for key, or nil when absent.
func (e *Event) Payload(key string) any {
	return e.payload[key]
}

// PayloadMap exposes the live payload map.
func (e *Event) PayloadMap() map[string]any {
	return e.payload
}

// Same reports whether other is the same event. Two events with identical
// type, time, and payload but different IDs are not the same.
func (e *Event) Same(other *Event) bool {
	return other != nil && e.id == other.id
}

// CopyWithTime returns a new Event firing at time t with the same type,
// generator, and priority, and a deep copy of the payload. The copy gets
// its own ID, so rescheduling never aliases mutable payload state.
func (e *Event) CopyWithTime(t float64) *Event {
	c := NewEvent(e.eventType, t)
	c.priority = e.priority
	c.generatorID = e.generatorID
	c.payload = clonePayload(e.payload)

	return c
}

func clonePayload(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = cloneValue(v)
	}

	return dst
}

// cloneValue copies nested maps and slices. Other values, including
// pointers stored by the model on purpose, are copied shallowly.
func cloneValue(v any) any {
	switch vv := v.(type) {
	case map[string]any:
		return clonePayload(vv)
	case []any:
		c := make([]any, len(vv))
		for i, elem := range vv {
			c[i] = cloneValue(elem)
		}
		return c
	default:
		return vv
	}
}
