package sim

import "sort"

// A ScheduledGenerator fires events at a fixed, pre-declared list of times.
// The schedule is copied and sorted ascending at construction.
//
// NextTime advances the internal cursor past schedule entries that now has
// already passed, so stale entries are skipped once and later peeks stay
// cheap. Generate consumes exactly one schedule slot per call.
type ScheduledGenerator struct {
	id        string
	eventType string
	schedule  []float64
	cursor    int
	priority  int
	payloadFn PayloadFunc
}

// NewScheduledGenerator creates a generator firing events of the given type
// at the given times.
func NewScheduledGenerator(eventType string, schedule []float64) *ScheduledGenerator {
	sorted := make([]float64, len(schedule))
	copy(sorted, schedule)
	sort.Float64s(sorted)

	return &ScheduledGenerator{
		id:        newGeneratorID(eventType),
		eventType: eventType,
		schedule:  sorted,
	}
}

// WithPriority sets the priority of produced events.
func (g *ScheduledGenerator) WithPriority(p int) *ScheduledGenerator {
	g.priority = p
	return g
}

// WithPayloadFunc sets the payload factory invoked with each event's time.
func (g *ScheduledGenerator) WithPayloadFunc(fn PayloadFunc) *ScheduledGenerator {
	g.payloadFn = fn
	return g
}

// ID returns the generator identifier.
func (g *ScheduledGenerator) ID() string {
	return g.id
}

// NextTime returns the first schedule entry strictly after now. Entries at
// or before now are skipped for good; once the schedule is exhausted the
// cursor pins past the end.
func (g *ScheduledGenerator) NextTime(now float64) (float64, bool) {
	if g.cursor >= len(g.schedule) {
		return 0, false
	}

	for g.cursor < len(g.schedule) && g.schedule[g.cursor] <= now {
		g.cursor++
	}

	if g.cursor >= len(g.schedule) {
		return 0, false
	}

	return g.schedule[g.cursor], true
}

// Generate returns an event for the next schedule entry after now and
// consumes that entry.
func (g *ScheduledGenerator) Generate(now float64) *Event {
	t, ok := g.NextTime(now)
	if !ok {
		return nil
	}

	g.cursor++

	return g.newEvent(t)
}

func (g *ScheduledGenerator) newEvent(t float64) *Event {
	e := NewEvent(g.eventType, t).
		WithPriority(g.priority).
		WithGeneratorID(g.id)

	if g.payloadFn != nil {
		for k, v := range g.payloadFn(t) {
			e.SetPayload(k, v)
		}
	}

	return e
}

// Remaining returns how many schedule entries have not been consumed or
// skipped yet.
func (g *ScheduledGenerator) Remaining() int {
	return len(g.schedule) - g.cursor
}
