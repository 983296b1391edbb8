package sim

// A CountingHandler records per-type event counts and the numeric payload
// fields of every event it sees. Counters use the event type as key;
// numeric payload entries land in value series keyed "type.field". It
// produces no events.
type CountingHandler struct {
	types []string
}

// NewCountingHandler creates a counting handler for the given event types.
// With no types it counts everything.
func NewCountingHandler(types ...string) *CountingHandler {
	return &CountingHandler{types: types}
}

// EventTypes returns the declared types, nil meaning all.
func (h *CountingHandler) EventTypes() []string {
	return h.types
}

// ProcessEvent records the event into the statistics sink.
func (h *CountingHandler) ProcessEvent(e *Event, tl *Timeline, st StatsRecorder) []*Event {
	st.IncrementCount(e.Type())

	for key, value := range e.PayloadMap() {
		if v, ok := asFloat(value); ok {
			st.AddValue(e.Type()+"."+key, v)
		}
	}

	return nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}

	return 0, false
}
