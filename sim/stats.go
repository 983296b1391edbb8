package sim

// A StatsRecorder receives the measurements a simulation produces. Handlers
// and the Simulator only ever write through this interface; reading results
// back is the concern of the concrete sink (see the stats package).
type StatsRecorder interface {
	// IncrementCount adds one to the named counter.
	IncrementCount(key string)

	// AddValue appends one observation to the named value series.
	AddValue(key string, v float64)

	// AddTimePoint appends one (time, value) sample to the named time
	// series.
	AddTimePoint(key string, t, v float64)

	// SetCustom stores one free-form result under key, replacing any
	// previous value.
	SetCustom(key string, v any)
}

// Resettable is implemented by sinks that can discard collected state
// between runs. Simulator.Initialize resets the sink when it offers this.
type Resettable interface {
	Reset()
}

// NopStats is a StatsRecorder that discards everything. It serves callers
// that run simulations without collecting statistics.
type NopStats struct{}

func (NopStats) IncrementCount(string)                 {}
func (NopStats) AddValue(string, float64)              {}
func (NopStats) AddTimePoint(string, float64, float64) {}
func (NopStats) SetCustom(string, any)                 {}
