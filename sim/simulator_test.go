package sim

import (
	"github.com/sirupsen/logrus"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// recordingStats is an in-memory sink for loop tests.
type recordingStats struct {
	counts  map[string]int
	values  map[string][]float64
	customs map[string]any
	resets  int
}

func newRecordingStats() *recordingStats {
	s := &recordingStats{}
	s.clear()

	return s
}

func (s *recordingStats) clear() {
	s.counts = make(map[string]int)
	s.values = make(map[string][]float64)
	s.customs = make(map[string]any)
}

func (s *recordingStats) IncrementCount(key string) {
	s.counts[key]++
}

func (s *recordingStats) AddValue(key string, v float64) {
	s.values[key] = append(s.values[key], v)
}

func (s *recordingStats) AddTimePoint(key string, t, v float64) {
	s.values[key] = append(s.values[key], v)
}

func (s *recordingStats) SetCustom(key string, v any) {
	s.customs[key] = v
}

func (s *recordingStats) Reset() {
	s.resets++
	s.clear()
}

// quietLogger keeps simulator narration out of the test output.
func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(GinkgoWriter)

	return log
}

// rearm keeps a generator's stream alive: each processed event asks the
// generator for the next one.
func rearm(g Generator, types ...string) Handler {
	return TypedHandlerFunc(types, func(e *Event, tl *Timeline, st StatsRecorder) []*Event {
		if next := g.Generate(e.Time()); next != nil {
			return []*Event{next}
		}

		return nil
	})
}

var _ = Describe("Simulator", func() {
	var st *recordingStats

	BeforeEach(func() {
		st = newRecordingStats()
	})

	It("should seed one event per generator on initialize", func() {
		s := MakeBuilder().WithStats(st).WithLogger(quietLogger()).Build()
		s.RegisterGenerator(NewScheduledGenerator("a", []float64{1, 2}))
		s.RegisterGenerator(NewScheduledGenerator("b", []float64{3}))

		Expect(s.Initialize()).To(Succeed())

		Expect(s.State()).To(Equal(StateInitialized))
		Expect(s.Timeline().Len()).To(Equal(2))
		Expect(st.resets).To(Equal(1))
	})

	It("should drain a re-armed schedule and report it", func() {
		s := MakeBuilder().WithStats(st).WithLogger(quietLogger()).Build()

		gen := NewScheduledGenerator("tick", []float64{1, 2, 3})
		s.RegisterGenerator(gen)
		s.RegisterHandler(rearm(gen, "tick"))
		s.RegisterHandler(NewCountingHandler("tick"))

		report, err := s.Run()

		Expect(err).ToNot(HaveOccurred())
		Expect(report.StopReason).To(Equal(StopReasonTimelineDrained))
		Expect(report.Dispatched).To(Equal(3))
		Expect(report.Dropped).To(Equal(0))
		Expect(report.FinalTime).To(Equal(3.0))
		Expect(st.counts["tick"]).To(Equal(3))
		Expect(s.State()).To(Equal(StateStopped))
		Expect(s.StopReason()).To(Equal(StopReasonTimelineDrained))
	})

	It("should record the run summary into the sink", func() {
		s := MakeBuilder().WithStats(st).WithLogger(quietLogger()).Build()

		gen := NewScheduledGenerator("tick", []float64{1, 2})
		s.RegisterGenerator(gen)
		s.RegisterHandler(rearm(gen, "tick"))

		_, err := s.Run()

		Expect(err).ToNot(HaveOccurred())
		Expect(st.customs["processed_events"]).To(Equal(2))
		Expect(st.customs["final_simulation_time"]).To(Equal(2.0))
		Expect(st.customs).To(HaveKey("simulation_time"))
	})

	It("should stop at the time limit without dispatching the event", func() {
		s := MakeBuilder().
			WithMaxTime(10).
			WithStats(st).
			WithLogger(quietLogger()).
			Build()

		gen := NewScheduledGenerator("tick", []float64{5, 15})
		s.RegisterGenerator(gen)
		s.RegisterHandler(rearm(gen, "tick"))
		s.RegisterHandler(NewCountingHandler("tick"))

		report, err := s.Run()

		Expect(err).ToNot(HaveOccurred())
		Expect(report.StopReason).To(Equal(StopReasonTimeLimitReached))
		Expect(report.Dispatched).To(Equal(1))
		Expect(report.Dropped).To(Equal(1))
		Expect(st.counts["tick"]).To(Equal(1))
		Expect(st.counts["dropped_events"]).To(Equal(1))
	})

	It("should dispatch an event landing exactly on the time limit", func() {
		s := MakeBuilder().
			WithMaxTime(10).
			WithStats(st).
			WithLogger(quietLogger()).
			Build()

		s.RegisterGenerator(NewScheduledGenerator("tick", []float64{10}))
		s.RegisterHandler(NewCountingHandler("tick"))

		report, err := s.Run()

		Expect(err).ToNot(HaveOccurred())
		Expect(report.StopReason).To(Equal(StopReasonTimelineDrained))
		Expect(st.counts["tick"]).To(Equal(1))
	})

	It("should stop after the event budget", func() {
		s := MakeBuilder().
			WithMaxEvents(2).
			WithStats(st).
			WithLogger(quietLogger()).
			Build()
		s.RegisterHandler(NewCountingHandler("tick"))

		Expect(s.Initialize()).To(Succeed())
		Expect(s.Timeline().ScheduleAll(
			NewEvent("tick", 1),
			NewEvent("tick", 1),
			NewEvent("tick", 1),
			NewEvent("tick", 1),
			NewEvent("tick", 1),
		)).To(Succeed())

		report, err := s.Run()

		Expect(err).ToNot(HaveOccurred())
		Expect(report.StopReason).To(Equal(StopReasonEventLimitReached))
		Expect(report.Dispatched).To(Equal(2))
		Expect(st.counts["tick"]).To(Equal(2))
	})

	It("should check the time limit before the event limit", func() {
		s := MakeBuilder().
			WithMaxTime(10).
			WithMaxEvents(1).
			WithStats(st).
			WithLogger(quietLogger()).
			Build()

		Expect(s.Initialize()).To(Succeed())
		Expect(s.Timeline().ScheduleAll(
			NewEvent("tick", 5),
			NewEvent("tick", 15),
		)).To(Succeed())

		report, err := s.Run()

		Expect(err).ToNot(HaveOccurred())
		Expect(report.StopReason).To(Equal(StopReasonTimeLimitReached))
	})

	It("should stop when the custom condition holds", func() {
		s := MakeBuilder().
			WithStats(st).
			WithStopCondition(func(tl *Timeline, _ StatsRecorder) bool {
				return st.counts["tick"] >= 2
			}).
			WithLogger(quietLogger()).
			Build()
		s.RegisterHandler(NewCountingHandler("tick"))

		Expect(s.Initialize()).To(Succeed())
		Expect(s.Timeline().ScheduleAll(
			NewEvent("tick", 1),
			NewEvent("tick", 2),
			NewEvent("tick", 3),
			NewEvent("tick", 4),
		)).To(Succeed())

		report, err := s.Run()

		Expect(err).ToNot(HaveOccurred())
		Expect(report.StopReason).To(Equal(StopReasonCustomConditionMet))
		Expect(report.Dispatched).To(Equal(2))
		Expect(report.Dropped).To(Equal(1))
		Expect(s.Timeline().Len()).To(Equal(1))
	})

	It("should drop produced events lying in the past, loudly", func() {
		s := MakeBuilder().WithStats(st).WithLogger(quietLogger()).Build()

		s.RegisterHandler(TypedHandlerFunc(
			[]string{"trigger"},
			func(e *Event, tl *Timeline, _ StatsRecorder) []*Event {
				return []*Event{NewEvent("stale", e.Time() - 1)}
			},
		))

		Expect(s.Initialize()).To(Succeed())
		Expect(s.Timeline().Schedule(NewEvent("trigger", 5))).To(Succeed())

		report, err := s.Run()

		Expect(err).ToNot(HaveOccurred())
		Expect(report.StopReason).To(Equal(StopReasonTimelineDrained))
		Expect(report.Dispatched).To(Equal(1))
		Expect(report.Dropped).To(Equal(1))
		Expect(st.counts["dropped_events"]).To(Equal(1))
	})

	It("should schedule produced events landing exactly at now", func() {
		s := MakeBuilder().WithStats(st).WithLogger(quietLogger()).Build()

		fired := false
		s.RegisterHandler(TypedHandlerFunc(
			[]string{"trigger"},
			func(e *Event, tl *Timeline, _ StatsRecorder) []*Event {
				return []*Event{NewEvent("follow-up", e.Time())}
			},
		))
		s.RegisterHandler(TypedHandlerFunc(
			[]string{"follow-up"},
			func(e *Event, tl *Timeline, _ StatsRecorder) []*Event {
				fired = true
				return nil
			},
		))

		Expect(s.Initialize()).To(Succeed())
		Expect(s.Timeline().Schedule(NewEvent("trigger", 5))).To(Succeed())

		report, err := s.Run()

		Expect(err).ToNot(HaveOccurred())
		Expect(report.Dispatched).To(Equal(2))
		Expect(report.Dropped).To(Equal(0))
		Expect(fired).To(BeTrue())
	})

	It("should reproduce a scheduled run after a reset", func() {
		runOnce := func() []float64 {
			sink := newRecordingStats()
			s := MakeBuilder().WithStats(sink).WithLogger(quietLogger()).Build()

			gen := NewScheduledGenerator("tick", []float64{2, 4, 6})
			s.RegisterGenerator(gen)
			s.RegisterHandler(rearm(gen, "tick"))

			var times []float64
			s.RegisterHandler(TypedHandlerFunc(
				[]string{"tick"},
				func(e *Event, _ *Timeline, _ StatsRecorder) []*Event {
					times = append(times, e.Time())
					return nil
				},
			))

			_, err := s.Run()
			Expect(err).ToNot(HaveOccurred())

			return times
		}

		Expect(runOnce()).To(Equal(runOnce()))
	})

	It("should return to a clean slate on reset", func() {
		s := MakeBuilder().WithStats(st).WithLogger(quietLogger()).Build()

		gen := NewScheduledGenerator("tick", []float64{1, 2})
		s.RegisterGenerator(gen)
		s.RegisterHandler(rearm(gen, "tick"))

		_, err := s.Run()
		Expect(err).ToNot(HaveOccurred())

		s.Reset()

		Expect(s.State()).To(Equal(StateUninitialized))
		Expect(s.StopReason()).To(Equal(StopReasonNone))
		Expect(s.Timeline().Len()).To(Equal(0))
		Expect(s.Timeline().CurrentTime()).To(Equal(0.0))
		Expect(s.CurrentTime()).To(Equal(0.0))
		Expect(st.resets).To(Equal(2))
	})

	It("should expose progress counters", func() {
		s := MakeBuilder().WithStats(st).WithLogger(quietLogger()).Build()

		gen := NewScheduledGenerator("tick", []float64{1, 2})
		s.RegisterGenerator(gen)
		s.RegisterHandler(rearm(gen, "tick"))

		_, err := s.Run()
		Expect(err).ToNot(HaveOccurred())

		p := s.Progress()
		Expect(p.State).To(Equal(StateStopped))
		Expect(p.Popped).To(Equal(uint64(2)))
		Expect(p.Time).To(Equal(2.0))
	})
})

var _ = Describe("Builder", func() {
	It("should reject a non-positive time limit", func() {
		Expect(func() {
			MakeBuilder().WithMaxTime(0).Build()
		}).To(Panic())
	})

	It("should reject a non-positive event budget", func() {
		Expect(func() {
			MakeBuilder().WithMaxEvents(0).Build()
		}).To(Panic())
	})

	It("should default to a discarding sink", func() {
		s := MakeBuilder().WithLogger(quietLogger()).Build()
		Expect(s.Stats()).To(Equal(NopStats{}))
	})
})
