package sim

import (
	"errors"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Timeline", func() {
	var tl *Timeline

	BeforeEach(func() {
		tl = NewTimeline()
	})

	It("should start empty at time zero", func() {
		Expect(tl.CurrentTime()).To(Equal(0.0))
		Expect(tl.Len()).To(Equal(0))
		Expect(tl.IsEmpty()).To(BeTrue())
	})

	It("should pop events in time order", func() {
		Expect(tl.Schedule(NewEvent("a", 3))).To(Succeed())
		Expect(tl.Schedule(NewEvent("a", 1))).To(Succeed())
		Expect(tl.Schedule(NewEvent("a", 2))).To(Succeed())

		Expect(tl.PopNext().Time()).To(Equal(1.0))
		Expect(tl.PopNext().Time()).To(Equal(2.0))
		Expect(tl.PopNext().Time()).To(Equal(3.0))
	})

	It("should pop higher priority first at equal times", func() {
		low := NewEvent("a", 5).WithPriority(1)
		high := NewEvent("a", 5).WithPriority(5)

		Expect(tl.ScheduleAll(low, high)).To(Succeed())

		Expect(tl.PopNext().Same(high)).To(BeTrue())
		Expect(tl.PopNext().Same(low)).To(BeTrue())
	})

	It("should pop FIFO at equal time and priority", func() {
		first := NewEvent("a", 5)
		second := NewEvent("a", 5)

		Expect(tl.ScheduleAll(first, second)).To(Succeed())

		Expect(tl.PopNext().Same(first)).To(BeTrue())
		Expect(tl.PopNext().Same(second)).To(BeTrue())
	})

	It("should keep many random events sorted", func() {
		rng := rand.New(rand.NewSource(7))
		for i := 0; i < 1000; i++ {
			evt := NewEvent("a", rng.Float64()*100).
				WithPriority(rng.Intn(10))
			Expect(tl.Schedule(evt)).To(Succeed())
		}

		prev := tl.PopNext()
		for evt := tl.PopNext(); evt != nil; evt = tl.PopNext() {
			Expect(evt.Time() >= prev.Time()).To(BeTrue())
			if evt.Time() == prev.Time() {
				Expect(evt.Priority() <= prev.Priority()).To(BeTrue())
			}
			prev = evt
		}
	})

	It("should advance the clock only on pop", func() {
		Expect(tl.Schedule(NewEvent("a", 4))).To(Succeed())
		Expect(tl.CurrentTime()).To(Equal(0.0))

		evt := tl.PopNext()
		Expect(evt.Time()).To(Equal(4.0))
		Expect(tl.CurrentTime()).To(Equal(4.0))
	})

	It("should reject events scheduled strictly in the past", func() {
		Expect(tl.Schedule(NewEvent("a", 10))).To(Succeed())
		tl.PopNext()

		err := tl.Schedule(NewEvent("late", 5))
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, ErrCausality)).To(BeTrue())

		var cerr *CausalityError
		Expect(errors.As(err, &cerr)).To(BeTrue())
		Expect(cerr.EventType).To(Equal("late"))
		Expect(cerr.EventTime).To(Equal(5.0))
		Expect(cerr.CurrentTime).To(Equal(10.0))
	})

	It("should accept events scheduled exactly at the current time", func() {
		Expect(tl.Schedule(NewEvent("a", 10))).To(Succeed())
		tl.PopNext()

		Expect(tl.Schedule(NewEvent("a", 10))).To(Succeed())
	})

	It("should keep earlier events of a failing ScheduleAll", func() {
		Expect(tl.Schedule(NewEvent("a", 10))).To(Succeed())
		tl.PopNext()

		err := tl.ScheduleAll(
			NewEvent("a", 11),
			NewEvent("late", 5),
			NewEvent("a", 12),
		)
		Expect(errors.Is(err, ErrCausality)).To(BeTrue())
		Expect(tl.Len()).To(Equal(1))
		Expect(tl.Peek().Time()).To(Equal(11.0))
	})

	It("should return nil when popping empty", func() {
		Expect(tl.PopNext()).To(BeNil())
		Expect(tl.CurrentTime()).To(Equal(0.0))
	})

	It("should peek without consuming", func() {
		evt := NewEvent("a", 2)
		Expect(tl.Schedule(evt)).To(Succeed())

		for i := 0; i < 3; i++ {
			Expect(tl.Peek().Same(evt)).To(BeTrue())
			Expect(tl.Len()).To(Equal(1))
			Expect(tl.CurrentTime()).To(Equal(0.0))
		}

		t, ok := tl.PeekTime()
		Expect(ok).To(BeTrue())
		Expect(t).To(Equal(2.0))
	})

	It("should report no peek time when empty", func() {
		Expect(tl.Peek()).To(BeNil())

		_, ok := tl.PeekTime()
		Expect(ok).To(BeFalse())
	})

	It("should clear events but keep the clock", func() {
		Expect(tl.Schedule(NewEvent("a", 3))).To(Succeed())
		tl.PopNext()
		Expect(tl.Schedule(NewEvent("a", 5))).To(Succeed())

		tl.Clear()

		Expect(tl.IsEmpty()).To(BeTrue())
		Expect(tl.CurrentTime()).To(Equal(3.0))
	})

	It("should rewind everything on reset", func() {
		Expect(tl.Schedule(NewEvent("a", 3))).To(Succeed())
		tl.PopNext()
		Expect(tl.Schedule(NewEvent("a", 5))).To(Succeed())

		tl.Reset()

		Expect(tl.IsEmpty()).To(BeTrue())
		Expect(tl.CurrentTime()).To(Equal(0.0))
		Expect(tl.Schedule(NewEvent("a", 1))).To(Succeed())
	})
})
