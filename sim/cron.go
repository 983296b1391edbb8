package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/robfig/cron/v3"
)

// A CronGenerator fires events on a cron schedule mapped onto simulated
// time: the anchor wall-clock instant is simulated time 0, and one second
// of wall-clock schedule distance is one unit of simulated time.
//
// The cron schedule is stateless given now, so NextTime never mutates
// anything and Generate consumes nothing; the schedule's next occurrence
// after now is always strictly in the future.
type CronGenerator struct {
	id        string
	eventType string
	schedule  cron.Schedule
	anchor    time.Time
	horizon   float64
	priority  int
	payloadFn PayloadFunc
}

// NewCronGenerator creates a generator firing events of the given type per
// the standard five-field cron expression, anchored so that simulated time
// 0 corresponds to anchor.
func NewCronGenerator(eventType, spec string, anchor time.Time) (*CronGenerator, error) {
	parser := cron.NewParser(
		cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parsing cron spec %q: %w", spec, err)
	}

	return &CronGenerator{
		id:        newGeneratorID(eventType),
		eventType: eventType,
		schedule:  schedule,
		anchor:    anchor,
		horizon:   math.Inf(1),
	}, nil
}

// WithHorizon bounds the schedule: once now reaches the horizon, or the
// next occurrence lands strictly beyond it, the generator runs dry. An
// occurrence exactly at the horizon is still produced.
func (g *CronGenerator) WithHorizon(horizon float64) *CronGenerator {
	g.horizon = horizon
	return g
}

// WithPriority sets the priority of produced events.
func (g *CronGenerator) WithPriority(p int) *CronGenerator {
	g.priority = p
	return g
}

// WithPayloadFunc sets the payload factory invoked with each event's time.
func (g *CronGenerator) WithPayloadFunc(fn PayloadFunc) *CronGenerator {
	g.payloadFn = fn
	return g
}

// ID returns the generator identifier.
func (g *CronGenerator) ID() string {
	return g.id
}

// NextTime returns the schedule's next occurrence strictly after now.
func (g *CronGenerator) NextTime(now float64) (float64, bool) {
	if now >= g.horizon {
		return 0, false
	}

	wall := g.anchor.Add(time.Duration(now * float64(time.Second)))
	next := g.schedule.Next(wall)
	if next.IsZero() {
		return 0, false
	}

	t := next.Sub(g.anchor).Seconds()
	if t > g.horizon {
		return 0, false
	}

	return t, true
}

// Generate wraps the schedule's next occurrence after now in an event.
func (g *CronGenerator) Generate(now float64) *Event {
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
