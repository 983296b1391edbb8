package sim

// A Dispatcher routes events to handlers by event type. Handlers that
// declared types are filed under each of them; handlers with no declared
// types become default handlers and see every event.
//
// Dispatch order is deterministic: the handlers registered for the event's
// type in registration order, then the default handlers in registration
// order. A handler registered under several types still runs once per
// dispatched event, because an event has exactly one type.
type Dispatcher struct {
	typed    map[string][]Handler
	defaults []Handler
	count    int
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		typed: make(map[string][]Handler),
	}
}

// Register files a handler under its declared event types, or as a default
// handler when it declares none.
func (d *Dispatcher) Register(h Handler) {
	d.count++

	types := h.EventTypes()
	if len(types) == 0 {
		d.defaults = append(d.defaults, h)
		return
	}

	for _, t := range types {
		d.typed[t] = append(d.typed[t], h)
	}
}

// Dispatch runs every matching handler against the event through the full
// RunHandler sequence and returns the concatenated produced events.
func (d *Dispatcher) Dispatch(e *Event, tl *Timeline, st StatsRecorder) []*Event {
	var produced []*Event

	for _, h := range d.typed[e.Type()] {
		produced = append(produced, RunHandler(h, e, tl, st)...)
	}

	for _, h := range d.defaults {
		produced = append(produced, RunHandler(h, e, tl, st)...)
	}

	return produced
}

// HandlerCount returns the number of registered handlers.
func (d *Dispatcher) HandlerCount() int {
	return d.count
}
