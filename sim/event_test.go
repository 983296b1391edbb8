package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Event", func() {
	It("should assign a fresh ID to every event", func() {
		a := NewEvent("arrival", 1)
		b := NewEvent("arrival", 1)

		Expect(a.ID()).NotTo(BeEmpty())
		Expect(a.ID()).NotTo(Equal(b.ID()))
	})

	It("should compare by identity, not by value", func() {
		a := NewEvent("arrival", 1)
		b := NewEvent("arrival", 1)

		Expect(a.Same(a)).To(BeTrue())
		Expect(a.Same(b)).To(BeFalse())
		Expect(a.Same(nil)).To(BeFalse())
	})

	It("should chain payload entries", func() {
		e := NewEvent("arrival", 1).
			SetPayload("customer", 42).
			SetPayload("kind", "walk-in")

		Expect(e.Payload("customer")).To(Equal(42))
		Expect(e.Payload("kind")).To(Equal("walk-in"))
		Expect(e.Payload("missing")).To(BeNil())
	})

	It("should keep the payload mutable after construction", func() {
		e := NewEvent("arrival", 1)
		e.PayloadMap()["late-addition"] = true

		Expect(e.Payload("late-addition")).To(Equal(true))
	})

	Describe("CopyWithTime", func() {
		It("should carry type, generator, and priority to the copy", func() {
			orig := NewEvent("arrival", 1).
				WithPriority(3).
				WithGeneratorID("gen-1")

			cp := orig.CopyWithTime(9)

			Expect(cp.Type()).To(Equal("arrival"))
			Expect(cp.Time()).To(Equal(9.0))
			Expect(cp.Priority()).To(Equal(3))
			Expect(cp.GeneratorID()).To(Equal("gen-1"))
			Expect(cp.Same(orig)).To(BeFalse())
		})

		It("should deep-copy nested payload state", func() {
			orig := NewEvent("arrival", 1).
				SetPayload("tags", []any{"a", "b"}).
				SetPayload("nested", map[string]any{"count": 1})

			cp := orig.CopyWithTime(2)

			cp.PayloadMap()["tags"].([]any)[0] = "mutated"
			cp.PayloadMap()["nested"].(map[string]any)["count"] = 99

			Expect(orig.Payload("tags").([]any)[0]).To(Equal("a"))
			Expect(orig.Payload("nested").(map[string]any)["count"]).To(Equal(1))
		})
	})
})
