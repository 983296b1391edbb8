package sim

// A Generator produces the events that drive a simulation forward. The
// Simulator queries every registered Generator once during initialization;
// handlers that keep an arrival process alive typically call Generate again
// from ProcessEvent and return the result for scheduling.
//
// Generators are stateful. Generate consumes the next slot of the schedule,
// while NextTime only reports when that slot would fire. Deterministic
// generators answer NextTime without consuming anything; stochastic ones
// draw fresh randomness on every call, so two NextTime calls in a row may
// disagree.
type Generator interface {
	// ID identifies the generator. Produced events carry it as provenance.
	ID() string

	// Generate returns the next event strictly after now, or nil when the
	// generator has nothing left to produce. A nil result is final for
	// deterministic generators but not for stochastic ones.
	Generate(now float64) *Event

	// NextTime reports when the next event after now would fire. The
	// second return value is false when nothing remains.
	NextTime(now float64) (float64, bool)
}

// A PayloadFunc builds the payload for an event about to fire at time t.
type PayloadFunc func(t float64) map[string]any

func newGeneratorID(eventType string) string {
	return eventType + "-gen-" + GetIDGenerator().Generate()
}
