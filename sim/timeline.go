package sim

import (
	"container/heap"
)

// A Timeline is the priority queue of future events plus the simulation
// clock. Events pop ordered by (time ascending, priority descending,
// insertion order ascending), so two events with equal time and priority
// pop in the order they were scheduled.
//
// A Timeline is owned by exactly one simulation loop. It is not safe for
// concurrent use; concurrent scenario sweeps must run one Timeline per
// Simulator instance.
type Timeline struct {
	entries entryHeap
	now     float64
	seq     uint64
}

// NewTimeline creates an empty Timeline with the clock at 0.
func NewTimeline() *Timeline {
	tl := &Timeline{}
	heap.Init(&tl.entries)

	return tl
}

// CurrentTime returns the simulation clock. The clock advances only when
// PopNext removes an event; it never moves backwards.
func (tl *Timeline) CurrentTime() float64 {
	return tl.now
}

// Schedule inserts an event into the timeline. Scheduling strictly before
// the current time fails with a CausalityError; scheduling exactly at the
// current time succeeds.
func (tl *Timeline) Schedule(e *Event) error {
	if e.Time() < tl.now {
		return &CausalityError{
			EventType:   e.Type(),
			EventTime:   e.Time(),
			CurrentTime: tl.now,
		}
	}

	tl.seq++
	heap.Push(&tl.entries, timelineEntry{event: e, seq: tl.seq})

	return nil
}

// ScheduleAll inserts events in argument order and stops at the first
// causality violation. Events inserted before the failing one stay
// scheduled.
func (tl *Timeline) ScheduleAll(events ...*Event) error {
	for _, e := range events {
		if err := tl.Schedule(e); err != nil {
			return err
		}
	}

	return nil
}

// PopNext removes and returns the next event, advancing the clock to the
// event's time. It returns nil when the timeline is empty, leaving the
// clock untouched.
func (tl *Timeline) PopNext() *Event {
	if tl.entries.Len() == 0 {
		return nil
	}

	entry := heap.Pop(&tl.entries).(timelineEntry)
	tl.now = entry.event.Time()

	return entry.event
}

// Peek returns the next event without removing it, or nil when the timeline
// is empty. Peeking never moves the clock.
func (tl *Timeline) Peek() *Event {
	if tl.entries.Len() == 0 {
		return nil
	}

	return tl.entries[0].event
}

// PeekTime returns the time of the next event. The second return value is
// false when the timeline is empty.
func (tl *Timeline) PeekTime() (float64, bool) {
	if tl.entries.Len() == 0 {
		return 0, false
	}

	return tl.entries[0].event.Time(), true
}

// Len returns the number of scheduled events.
func (tl *Timeline) Len() int {
	return tl.entries.Len()
}

// IsEmpty reports whether no events remain.
func (tl *Timeline) IsEmpty() bool {
	return tl.entries.Len() == 0
}

// Clear removes all scheduled events. The clock keeps its value.
func (tl *Timeline) Clear() {
	tl.entries = tl.entries[:0]
}

// Reset clears the queue and rewinds the clock and the insertion counter to
// zero, preparing the Timeline for a fresh run.
func (tl *Timeline) Reset() {
	tl.entries = tl.entries[:0]
	tl.now = 0
	tl.seq = 0
}

// timelineEntry tags an event with its insertion sequence number so that
// the heap can break (time, priority) ties first-in-first-out.
type timelineEntry struct {
	event *Event
	seq   uint64
}

type entryHeap []timelineEntry

func (h entryHeap) Len() int {
	return len(h)
}

// Less orders entries by time ascending, then priority descending, then
// insertion sequence ascending.
func (h entryHeap) Less(i, j int) bool {
	if h[i].event.Time() != h[j].event.Time() {
		return h[i].event.Time() < h[j].event.Time()
	}

	if h[i].event.Priority() != h[j].event.Priority() {
		return h[i].event.Priority() > h[j].event.Priority()
	}

	return h[i].seq < h[j].seq
}

func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *entryHeap) Push(x any) {
	*h = append(*h, x.(timelineEntry))
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	*h = old[:n-1]

	return entry
}
