package sim

import (
	"errors"
	"fmt"
)

// ErrCausality matches any CausalityError via errors.Is.
var ErrCausality = errors.New("event scheduled before current simulation time")

// A CausalityError reports an attempt to schedule an event strictly earlier
// than the Timeline's current time. Scheduling exactly at the current time
// is legal and does not produce this error.
type CausalityError struct {
	EventType   string
	EventTime   float64
	CurrentTime float64
}

func (e *CausalityError) Error() string {
	return fmt.Sprintf("cannot schedule %q at %.6f: current time is %.6f",
		e.EventType, e.EventTime, e.CurrentTime)
}

func (e *CausalityError) Unwrap() error {
	return ErrCausality
}
