package sim

// A Handler reacts to dispatched events. EventTypes declares which event
// types the handler wants; an empty or nil slice makes it a default handler
// that matches every type. ProcessEvent does the work and returns the
// events triggered in response. The Simulator loop, not the handler,
// decides whether returned events get scheduled.
//
// Handlers hold model state, not engine state: the same Timeline and
// StatsRecorder arrive with every call, so handlers never store them.
type Handler interface {
	EventTypes() []string
	ProcessEvent(e *Event, tl *Timeline, st StatsRecorder) []*Event
}

// A PreHandler is a Handler that wants a callback right before its
// ProcessEvent runs. RunHandler invokes it once the type match succeeded.
type PreHandler interface {
	PreHandle(e *Event, tl *Timeline, st StatsRecorder)
}

// A PostHandler is a Handler that wants a callback right after its
// ProcessEvent returned. The produced slice is for observation; PostHandle
// must not modify it.
type PostHandler interface {
	PostHandle(e *Event, produced []*Event, tl *Timeline, st StatsRecorder)
}

// HandlerMatches reports whether h wants events of the given type. A
// handler declaring no types matches everything.
func HandlerMatches(h Handler, eventType string) bool {
	types := h.EventTypes()
	if len(types) == 0 {
		return true
	}

	for _, t := range types {
		if t == eventType {
			return true
		}
	}

	return false
}

// RunHandler runs one handler against one event: type match first, then
// PreHandle when implemented, then ProcessEvent, then PostHandle when
// implemented. A failed match returns nil without touching the handler.
// The Dispatcher uses this sequence for every registered handler; calling
// it directly is how a handler is exercised without a dispatcher.
func RunHandler(h Handler, e *Event, tl *Timeline, st StatsRecorder) []*Event {
	if !HandlerMatches(h, e.Type()) {
		return nil
	}

	if pre, ok := h.(PreHandler); ok {
		pre.PreHandle(e, tl, st)
	}

	produced := h.ProcessEvent(e, tl, st)

	if post, ok := h.(PostHandler); ok {
		post.PostHandle(e, produced, tl, st)
	}

	return produced
}

// A HandlerFunc lets a plain function serve as a default handler.
type HandlerFunc func(e *Event, tl *Timeline, st StatsRecorder) []*Event

func (f HandlerFunc) EventTypes() []string {
	return nil
}

func (f HandlerFunc) ProcessEvent(e *Event, tl *Timeline, st StatsRecorder) []*Event {
	return f(e, tl, st)
}

// TypedHandlerFunc binds a plain function to a set of event types.
func TypedHandlerFunc(types []string, f HandlerFunc) Handler {
	return &typedHandlerFunc{types: types, f: f}
}

type typedHandlerFunc struct {
	types []string
	f     HandlerFunc
}

func (h *typedHandlerFunc) EventTypes() []string {
	return h.types
}

func (h *typedHandlerFunc) ProcessEvent(e *Event, tl *Timeline, st StatsRecorder) []*Event {
	return h.f(e, tl, st)
}
