package sim

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// State tracks where a Simulator is in its lifecycle.
type State int32

const (
	StateUninitialized State = iota
	StateInitialized
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}

	return "unknown"
}

// StopReason says why a run ended.
type StopReason int32

const (
	// StopReasonNone means no run has finished yet.
	StopReasonNone StopReason = iota

	// StopReasonTimelineDrained means the timeline ran out of events.
	StopReasonTimelineDrained

	// StopReasonTimeLimitReached means an event would have fired beyond
	// the maximum simulated time.
	StopReasonTimeLimitReached

	// StopReasonEventLimitReached means the popped-event budget ran out.
	StopReasonEventLimitReached

	// StopReasonCustomConditionMet means the stop condition returned true.
	StopReasonCustomConditionMet
)

func (r StopReason) String() string {
	switch r {
	case StopReasonNone:
		return "none"
	case StopReasonTimelineDrained:
		return "timeline_drained"
	case StopReasonTimeLimitReached:
		return "time_limit_reached"
	case StopReasonEventLimitReached:
		return "event_limit_reached"
	case StopReasonCustomConditionMet:
		return "custom_condition_met"
	}

	return "unknown"
}

// A StopCondition ends a run early. The loop evaluates it once per popped
// event, before dispatch, passing the Timeline and the statistics sink.
// Conditions must only read their arguments.
type StopCondition func(tl *Timeline, st StatsRecorder) bool

// A RunReport summarizes one finished run.
type RunReport struct {
	// StopReason says why the loop ended.
	StopReason StopReason

	// Popped counts every event removed from the timeline, including the
	// one a stop check discarded.
	Popped int

	// Dispatched counts the events actually handed to handlers.
	Dispatched int

	// Dropped counts discarded events: the popped event a stop check
	// discarded, plus produced events rejected for lying in the past.
	Dropped int

	// FinalTime is the simulation clock when the loop ended.
	FinalTime float64

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
}

// Progress is a point-in-time view of a simulation, safe to read from
// other goroutines while the loop runs.
type Progress struct {
	State   State
	Time    float64
	Popped  uint64
	Dropped uint64
}

// A Simulator owns one Timeline, one Dispatcher, and the generators that
// feed them, and drives the event loop to completion. Build one with
// MakeBuilder; the zero value is not usable.
//
// The loop itself is single-threaded. Pause, Continue, Progress,
// CurrentTime, State, and StopReason are safe to call from other
// goroutines; everything else belongs to the goroutine driving the run.
type Simulator struct {
	HookableBase

	timeline   *Timeline
	dispatcher *Dispatcher
	generators []Generator
	stats      StatsRecorder
	log        logrus.FieldLogger

	maxTime   float64
	maxEvents int64
	stopCond  StopCondition

	state      atomic.Int32
	stopReason atomic.Int32

	popped     atomic.Uint64
	dispatched atomic.Uint64
	dropped    atomic.Uint64
	nowBits    atomic.Uint64

	isPaused      bool
	isPausedLock  sync.Mutex
	pauseLock     sync.Mutex
	singleRunLock sync.Mutex
}

// RegisterGenerator adds a generator. The simulator queries it once during
// initialization. Registering during a run is a programming error.
func (s *Simulator) RegisterGenerator(g Generator) {
	s.mustNotBeRunning("register a generator")
	s.generators = append(s.generators, g)
}

// RegisterHandler registers a handler with the simulator's dispatcher.
// Registering during a run is a programming error.
func (s *Simulator) RegisterHandler(h Handler) {
	s.mustNotBeRunning("register a handler")
	s.dispatcher.Register(h)
}

func (s *Simulator) mustNotBeRunning(action string) {
	if s.State() == StateRunning {
		panic("cannot " + action + " while the simulator is running")
	}
}

// Timeline returns the simulator's timeline. Scheduling on it directly
// keeps the Timeline's strict causality errors.
func (s *Simulator) Timeline() *Timeline {
	return s.timeline
}

// Dispatcher returns the simulator's dispatcher.
func (s *Simulator) Dispatcher() *Dispatcher {
	return s.dispatcher
}

// Stats returns the statistics sink the simulator writes to.
func (s *Simulator) Stats() StatsRecorder {
	return s.stats
}

// State returns the lifecycle state.
func (s *Simulator) State() State {
	return State(s.state.Load())
}

// StopReason returns why the latest run ended, or StopReasonNone before
// the first run finishes.
func (s *Simulator) StopReason() StopReason {
	return StopReason(s.stopReason.Load())
}

// CurrentTime returns the simulation clock as of the latest popped event.
func (s *Simulator) CurrentTime() float64 {
	return math.Float64frombits(s.nowBits.Load())
}

// Progress snapshots the run counters.
func (s *Simulator) Progress() Progress {
	return Progress{
		State:   s.State(),
		Time:    s.CurrentTime(),
		Popped:  s.popped.Load(),
		Dropped: s.dropped.Load(),
	}
}

// Initialize resets the timeline and the statistics sink, then queries
// every generator once at time zero and schedules whatever they produce.
func (s *Simulator) Initialize() error {
	if s.State() == StateRunning {
		return fmt.Errorf("cannot initialize a running simulator")
	}

	s.resetCounters()
	s.timeline.Reset()

	if r, ok := s.stats.(Resettable); ok {
		r.Reset()
	}

	now := s.timeline.CurrentTime()
	for _, g := range s.generators {
		evt := g.Generate(now)
		if evt == nil {
			continue
		}

		if err := s.timeline.Schedule(evt); err != nil {
			return fmt.Errorf("seeding initial events: %w", err)
		}

		s.log.WithFields(logrus.Fields{
			"generator": g.ID(),
			"event":     evt.Type(),
			"time":      evt.Time(),
		}).Debug("seeded initial event")
	}

	s.state.Store(int32(StateInitialized))

	return nil
}

// Run drains the timeline, dispatching events in causal order until it
// empties or a stop limit fires, and reports how the run went. A simulator
// that is not initialized gets initialized first; a stopped simulator
// re-initializes, so calling Run again starts a fresh run.
func (s *Simulator) Run() (RunReport, error) {
	s.singleRunLock.Lock()
	defer s.singleRunLock.Unlock()

	if s.State() != StateInitialized {
		if err := s.Initialize(); err != nil {
			return RunReport{}, err
		}
	}

	s.state.Store(int32(StateRunning))
	start := time.Now()

	s.InvokeHook(HookCtx{Domain: s, Pos: HookPosBeforeRun})

	reason := s.loop()

	report := RunReport{
		StopReason: reason,
		Popped:     int(s.popped.Load()),
		Dispatched: int(s.dispatched.Load()),
		Dropped:    int(s.dropped.Load()),
		FinalTime:  s.timeline.CurrentTime(),
		Elapsed:    time.Since(start),
	}

	s.stats.SetCustom("simulation_time", report.Elapsed.Seconds())
	s.stats.SetCustom("processed_events", report.Popped)
	s.stats.SetCustom("final_simulation_time", report.FinalTime)

	s.stopReason.Store(int32(reason))
	s.state.Store(int32(StateStopped))

	s.InvokeHook(HookCtx{Domain: s, Pos: HookPosAfterRun, Detail: report})

	s.log.WithFields(logrus.Fields{
		"stop_reason": reason.String(),
		"dispatched":  report.Dispatched,
		"dropped":     report.Dropped,
		"final_time":  report.FinalTime,
		"elapsed":     report.Elapsed,
	}).Info("simulation finished")

	return report, nil
}

// loop pops and dispatches events until a stop reason emerges. The stop
// checks run in fixed precedence: time limit, event limit, custom
// condition. The popped event is discarded, not dispatched, whenever one
// of them fires.
func (s *Simulator) loop() StopReason {
	for {
		s.pauseLock.Lock()

		evt := s.timeline.PopNext()
		if evt == nil {
			s.pauseLock.Unlock()
			return StopReasonTimelineDrained
		}

		s.storeNow(evt.Time())
		popped := s.popped.Add(1)

		if evt.Time() > s.maxTime {
			s.discard(evt, "time limit reached")
			s.pauseLock.Unlock()
			return StopReasonTimeLimitReached
		}

		if int64(popped) > s.maxEvents {
			s.discard(evt, "event limit reached")
			s.pauseLock.Unlock()
			return StopReasonEventLimitReached
		}

		if s.stopCond != nil && s.stopCond(s.timeline, s.stats) {
			s.discard(evt, "stop condition met")
			s.pauseLock.Unlock()
			return StopReasonCustomConditionMet
		}

		s.dispatchOne(evt)

		s.pauseLock.Unlock()
	}
}

func (s *Simulator) dispatchOne(evt *Event) {
	ctx := HookCtx{Domain: s, Pos: HookPosBeforeEvent, Item: evt}
	s.InvokeHook(ctx)

	produced := s.dispatcher.Dispatch(evt, s.timeline, s.stats)
	s.dispatched.Add(1)

	for _, p := range produced {
		if p.Time() >= s.timeline.CurrentTime() {
			// Cannot violate causality: the time was just checked.
			_ = s.timeline.Schedule(p)
			continue
		}

		s.discard(p, "produced event lies in the past")
	}

	ctx.Pos = HookPosAfterEvent
	ctx.Detail = produced
	s.InvokeHook(ctx)
}

// discard counts and logs an event the loop will not dispatch. Nothing is
// dropped silently: every drop is visible in the log, in the dropped
// counter of the report, and in the sink's "dropped_events" counter.
func (s *Simulator) discard(evt *Event, why string) {
	s.dropped.Add(1)
	s.stats.IncrementCount("dropped_events")

	s.log.WithFields(logrus.Fields{
		"event": evt.Type(),
		"time":  evt.Time(),
	}).Warn("dropping event: " + why)
}

// Pause blocks the loop at the next iteration boundary and keeps it
// blocked until Continue. Pausing an idle simulator is fine; the next run
// will block on its first iteration.
func (s *Simulator) Pause() {
	s.isPausedLock.Lock()
	defer s.isPausedLock.Unlock()

	if s.isPaused {
		return
	}

	s.pauseLock.Lock()
	s.isPaused = true
}

// Continue releases a paused loop.
func (s *Simulator) Continue() {
	s.isPausedLock.Lock()
	defer s.isPausedLock.Unlock()

	if !s.isPaused {
		return
	}

	s.pauseLock.Unlock()
	s.isPaused = false
}

// Reset returns the simulator to the uninitialized state, clearing the
// timeline and the statistics sink. Generators and handlers stay
// registered; generator-internal cursors are the caller's to rewind.
func (s *Simulator) Reset() {
	s.mustNotBeRunning("reset")

	s.resetCounters()
	s.timeline.Reset()

	if r, ok := s.stats.(Resettable); ok {
		r.Reset()
	}

	s.state.Store(int32(StateUninitialized))
}

func (s *Simulator) resetCounters() {
	s.popped.Store(0)
	s.dispatched.Store(0)
	s.dropped.Store(0)
	s.storeNow(0)
	s.stopReason.Store(int32(StopReasonNone))
}

func (s *Simulator) storeNow(t float64) {
	s.nowBits.Store(math.Float64bits(t))
}
