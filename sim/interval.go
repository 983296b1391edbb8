package sim

import "math"

// An IntervalGenerator produces events on a fixed-period tick: the k-th
// event fires at k*interval. Tick times are computed as multiples of the
// interval rather than by accumulation, so long runs do not drift, and
// times within rounding distance of a tick count as that tick.
//
// The tick grid is stateless given now, so NextTime never mutates anything
// and Generate consumes nothing; the next tick after now is always strictly
// in the future.
type IntervalGenerator struct {
	id        string
	eventType string
	interval  float64
	horizon   float64
	priority  int
	payloadFn PayloadFunc
}

// NewIntervalGenerator creates a generator producing events of the given
// type every interval units of simulated time, starting at interval.
func NewIntervalGenerator(eventType string, interval float64) *IntervalGenerator {
	if interval <= 0 {
		panic("an IntervalGenerator requires a positive interval")
	}

	return &IntervalGenerator{
		id:        newGeneratorID(eventType),
		eventType: eventType,
		interval:  interval,
		horizon:   math.Inf(1),
	}
}

// WithHorizon bounds the tick grid: once now reaches the horizon, or the
// next tick lands strictly beyond it, the generator runs dry. A tick
// exactly at the horizon is still produced.
func (g *IntervalGenerator) WithHorizon(horizon float64) *IntervalGenerator {
	g.horizon = horizon
	return g
}

// WithPriority sets the priority of produced events.
func (g *IntervalGenerator) WithPriority(p int) *IntervalGenerator {
	g.priority = p
	return g
}

// WithPayloadFunc sets the payload factory invoked with each event's time.
func (g *IntervalGenerator) WithPayloadFunc(fn PayloadFunc) *IntervalGenerator {
	g.payloadFn = fn
	return g
}

// ID returns the generator identifier.
func (g *IntervalGenerator) ID() string {
	return g.id
}

// NextTime returns the first tick strictly after now. The tick index is
// rounded to a tenth of a cycle first, so a now that sits a float error
// away from tick k still advances to tick k+1 instead of re-firing k.
func (g *IntervalGenerator) NextTime(now float64) (float64, bool) {
	if now >= g.horizon {
		return 0, false
	}

	count := math.Floor(math.Round(now/g.interval*10) / 10)
	next := (count + 1) * g.interval

	if next > g.horizon {
		return 0, false
	}

	return next, true
}

// Generate returns an event for the next tick after now.
func (g *IntervalGenerator) Generate(now float64) *Event {
	t, ok := g.NextTime(now)
	if !ok {
		return nil
	}

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
