package stats

import "github.com/tempuslab/tempus/sim"

// This file verifies that Stats satisfies the recording contracts of the
// sim package. If this compiles, the interfaces are correctly implemented.

var _ sim.StatsRecorder = (*Stats)(nil)
var _ sim.Resettable = (*Stats)(nil)

var _ Observer = (*LogObserver)(nil)
var _ Observer = (*FileObserver)(nil)
