package sim

// A ChainHandler runs several handlers in order against the same event and
// concatenates their produced events. Its declared type set is the union of
// the children's sets, so a child declaring no types only sees the event
// types the other children brought in, unless every child declares none.
//
// The chain invokes each matching child's ProcessEvent directly: children's
// PreHandle/PostHandle callbacks do not run inside a chain. Wrap a child
// with its own dispatcher registration instead when its callbacks matter.
type ChainHandler struct {
	children []Handler
}

// NewChainHandler creates a chain over the given handlers.
func NewChainHandler(children ...Handler) *ChainHandler {
	return &ChainHandler{children: children}
}

// EventTypes returns the union of the children's declared types. Children
// declaring no types contribute nothing, so the chain only becomes a
// default handler when every child is one.
func (h *ChainHandler) EventTypes() []string {
	return unionEventTypes(h.children...)
}

// ProcessEvent runs each matching child's ProcessEvent in order.
func (h *ChainHandler) ProcessEvent(e *Event, tl *Timeline, st StatsRecorder) []*Event {
	var produced []*Event

	for _, child := range h.children {
		if !HandlerMatches(child, e.Type()) {
			continue
		}

		produced = append(produced, child.ProcessEvent(e, tl, st)...)
	}

	return produced
}

// A ConditionalHandler picks one of two handlers per event: the true branch
// when the predicate holds, otherwise the false branch (which may be nil).
// Only the picked branch runs, and only its ProcessEvent. Branch
// PreHandle/PostHandle callbacks do not run here, same as in a chain.
//
// When the predicate holds but the true branch does not match the event's
// type, nothing runs; the event does not fall through to the false branch.
type ConditionalHandler struct {
	predicate   func(e *Event) bool
	trueBranch  Handler
	falseBranch Handler
}

// NewConditionalHandler creates a conditional over the two branches.
// falseBranch may be nil.
func NewConditionalHandler(
	predicate func(e *Event) bool,
	trueBranch Handler,
	falseBranch Handler,
) *ConditionalHandler {
	return &ConditionalHandler{
		predicate:   predicate,
		trueBranch:  trueBranch,
		falseBranch: falseBranch,
	}
}

// EventTypes returns the union of both branches' declared types, with
// all-matching branches contributing nothing.
func (h *ConditionalHandler) EventTypes() []string {
	if h.falseBranch == nil {
		return unionEventTypes(h.trueBranch)
	}

	return unionEventTypes(h.trueBranch, h.falseBranch)
}

// ProcessEvent evaluates the predicate and runs the picked branch's
// ProcessEvent if that branch matches the event.
func (h *ConditionalHandler) ProcessEvent(e *Event, tl *Timeline, st StatsRecorder) []*Event {
	if h.predicate(e) {
		if HandlerMatches(h.trueBranch, e.Type()) {
			return h.trueBranch.ProcessEvent(e, tl, st)
		}

		return nil
	}

	if h.falseBranch != nil && HandlerMatches(h.falseBranch, e.Type()) {
		return h.falseBranch.ProcessEvent(e, tl, st)
	}

	return nil
}

// unionEventTypes merges the declared type sets of the given handlers,
// deduplicated, preserving first-seen order. Handlers declaring no types
// contribute nothing; a nil result means no handler declared any type.
func unionEventTypes(handlers ...Handler) []string {
	var union []string
	seen := make(map[string]bool)

	for _, h := range handlers {
		for _, t := range h.EventTypes() {
			if !seen[t] {
				seen[t] = true
				union = append(union, t)
			}
		}
	}

	return union
}
