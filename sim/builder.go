package sim

import (
	"math"

	"github.com/sirupsen/logrus"
)

// Builder builds a Simulator.
type Builder struct {
	maxTime   float64
	maxEvents int64
	stopCond  StopCondition
	stats     StatsRecorder
	log       logrus.FieldLogger
}

// MakeBuilder creates a builder with no limits, a discarding statistics
// sink, and the logrus standard logger.
func MakeBuilder() Builder {
	return Builder{
		maxTime:   math.Inf(1),
		maxEvents: math.MaxInt64,
	}
}

// WithMaxTime stops runs once an event would fire strictly beyond t. An
// event exactly at t still dispatches.
func (b Builder) WithMaxTime(t float64) Builder {
	b.maxTime = t
	return b
}

// WithMaxEvents stops runs after n events were popped from the timeline.
func (b Builder) WithMaxEvents(n int64) Builder {
	b.maxEvents = n
	return b
}

// WithStopCondition sets the custom stop predicate, evaluated per popped
// event after the time and event limits.
func (b Builder) WithStopCondition(cond StopCondition) Builder {
	b.stopCond = cond
	return b
}

// WithStats sets the statistics sink handlers and the loop write to.
func (b Builder) WithStats(st StatsRecorder) Builder {
	b.stats = st
	return b
}

// WithLogger sets the logger the simulator narrates through.
func (b Builder) WithLogger(log logrus.FieldLogger) Builder {
	b.log = log
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.maxTime <= 0 || math.IsNaN(b.maxTime) {
		panic("the maximum simulated time must be positive")
	}

	if b.maxEvents <= 0 {
		panic("the maximum event count must be positive")
	}
}

// Build builds the simulator.
func (b Builder) Build() *Simulator {
	b.parametersMustBeValid()

	s := &Simulator{
		timeline:   NewTimeline(),
		dispatcher: NewDispatcher(),
		stats:      b.stats,
		log:        b.log,
		maxTime:    b.maxTime,
		maxEvents:  b.maxEvents,
		stopCond:   b.stopCond,
	}

	if s.stats == nil {
		s.stats = NopStats{}
	}

	if s.log == nil {
		s.log = logrus.StandardLogger()
	}

	return s
}
