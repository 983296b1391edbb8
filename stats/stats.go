// Package stats collects measurements produced during a simulation run
// and exports their summaries.
package stats

import (
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// TimePoint is one sample of a metric at a simulated time.
type TimePoint struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

// Stats accumulates counters, value series, time series, and custom entries.
// It satisfies sim.StatsRecorder. All methods are safe for concurrent use,
// so monitoring code can read while a run is writing.
type Stats struct {
	mu sync.Mutex

	counters map[string]int64
	sums     map[string]float64
	values   map[string][]float64
	series   map[string][]TimePoint
	customs  map[string]any

	observers []Observer
}

// NewStats returns an empty collection.
func NewStats() *Stats {
	s := &Stats{}
	s.initMaps()

	return s
}

func (s *Stats) initMaps() {
	s.counters = make(map[string]int64)
	s.sums = make(map[string]float64)
	s.values = make(map[string][]float64)
	s.series = make(map[string][]TimePoint)
	s.customs = make(map[string]any)
}

// IncrementCount adds one to the counter named by key.
func (s *Stats) IncrementCount(key string) {
	s.AddCount(key, 1)
}

// AddCount adds delta to the counter named by key.
func (s *Stats) AddCount(key string, delta int64) {
	s.mu.Lock()
	s.counters[key] += delta
	count := s.counters[key]
	obs := s.observers
	s.mu.Unlock()

	notify(obs, Update{Key: key, Kind: KindCounter, Count: count})
}

// AddValue appends v to the value list named by key and updates its running
// sum.
func (s *Stats) AddValue(key string, v float64) {
	s.mu.Lock()
	s.values[key] = append(s.values[key], v)
	s.sums[key] += v
	obs := s.observers
	s.mu.Unlock()

	notify(obs, Update{Key: key, Kind: KindValue, Value: v})
}

// AddTimePoint appends a (time, value) sample to the series named by key.
func (s *Stats) AddTimePoint(key string, t, v float64) {
	p := TimePoint{Time: t, Value: v}

	s.mu.Lock()
	s.series[key] = append(s.series[key], p)
	obs := s.observers
	s.mu.Unlock()

	notify(obs, Update{Key: key, Kind: KindTimeSeries, Point: p})
}

// SetCustom stores an arbitrary entry under key, replacing any earlier one.
func (s *Stats) SetCustom(key string, v any) {
	s.mu.Lock()
	s.customs[key] = v
	obs := s.observers
	s.mu.Unlock()

	notify(obs, Update{Key: key, Kind: KindCustom, Custom: v})
}

// Count returns the counter named by key, zero when absent.
func (s *Stats) Count(key string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.counters[key]
}

// Sum returns the running sum of the values recorded under key.
func (s *Stats) Sum(key string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sums[key]
}

// Values returns a copy of the values recorded under key.
func (s *Stats) Values(key string) []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]float64(nil), s.values[key]...)
}

// TimeSeries returns a copy of the samples recorded under key.
func (s *Stats) TimeSeries(key string) []TimePoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]TimePoint(nil), s.series[key]...)
}

// Custom returns the custom entry stored under key.
func (s *Stats) Custom(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.customs[key]

	return v, ok
}

// Average returns the mean of the values recorded under key. The second
// return is false when no values were recorded.
func (s *Stats) Average(key string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return meanOf(s.values[key])
}

// Median returns the middle of the values recorded under key.
func (s *Stats) Median(key string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return quantileOf(s.values[key], 0.5)
}

// StdDev returns the sample standard deviation of the values recorded under
// key. At least two values are required.
func (s *Stats) StdDev(key string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return stdDevOf(s.values[key])
}

// Quantile returns the q-th quantile, q in [0, 1], of the values recorded
// under key, interpolating linearly between samples.
func (s *Stats) Quantile(key string, q float64) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return quantileOf(s.values[key], q)
}

// Reset discards everything recorded so far. Observers stay subscribed and
// are told about the reset.
func (s *Stats) Reset() {
	s.mu.Lock()
	s.initMaps()
	obs := s.observers
	s.mu.Unlock()

	notify(obs, Update{Key: "all", Kind: KindReset})
}

// AddObserver subscribes o to future updates. Adding the same observer twice
// is a no-op.
func (s *Stats) AddObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.observers {
		if existing == o {
			return
		}
	}

	s.observers = append(s.observers, o)
}

// RemoveObserver unsubscribes o.
func (s *Stats) RemoveObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := make([]Observer, 0, len(s.observers))
	for _, existing := range s.observers {
		if existing != o {
			filtered = append(filtered, existing)
		}
	}

	s.observers = filtered
}

// Summary is a point-in-time digest of everything recorded. Value metrics
// with too few samples for a statistic are left out of the corresponding
// map. TimeSeries is only populated by the exporters.
type Summary struct {
	Counters   map[string]int64       `json:"counters"`
	Sums       map[string]float64     `json:"sums"`
	Averages   map[string]float64     `json:"averages"`
	Medians    map[string]float64     `json:"medians"`
	StdDevs    map[string]float64     `json:"std_devs"`
	Custom     map[string]any         `json:"custom"`
	TimeSeries map[string][]TimePoint `json:"time_series,omitempty"`
}

// Summary digests the recorded data.
func (s *Stats) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.summaryLocked(false)
}

// FullSummary digests the recorded data, including the raw time series.
func (s *Stats) FullSummary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.summaryLocked(true)
}

func (s *Stats) summaryLocked(includeSeries bool) Summary {
	sum := Summary{
		Counters: make(map[string]int64, len(s.counters)),
		Sums:     make(map[string]float64, len(s.sums)),
		Averages: make(map[string]float64, len(s.values)),
		Medians:  make(map[string]float64, len(s.values)),
		StdDevs:  make(map[string]float64, len(s.values)),
		Custom:   make(map[string]any, len(s.customs)),
	}

	for k, v := range s.counters {
		sum.Counters[k] = v
	}

	for k, v := range s.sums {
		sum.Sums[k] = v
	}

	for k, vals := range s.values {
		if m, ok := meanOf(vals); ok {
			sum.Averages[k] = m
		}

		if m, ok := quantileOf(vals, 0.5); ok {
			sum.Medians[k] = m
		}

		if sd, ok := stdDevOf(vals); ok {
			sum.StdDevs[k] = sd
		}
	}

	for k, v := range s.customs {
		sum.Custom[k] = v
	}

	if includeSeries {
		sum.TimeSeries = make(map[string][]TimePoint, len(s.series))
		for k, pts := range s.series {
			sum.TimeSeries[k] = append([]TimePoint(nil), pts...)
		}
	}

	return sum
}

func notify(obs []Observer, u Update) {
	for _, o := range obs {
		o.StatUpdated(u)
	}
}

func meanOf(vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}

	return stat.Mean(vals, nil), true
}

func stdDevOf(vals []float64) (float64, bool) {
	if len(vals) < 2 {
		return 0, false
	}

	return stat.StdDev(vals, nil), true
}

// quantileOf interpolates linearly on the rank scale q*(n-1), which matches
// the median definition used elsewhere in this package.
func quantileOf(vals []float64, q float64) (float64, bool) {
	if len(vals) == 0 || q < 0 || q > 1 {
		return 0, false
	}

	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	rank := q * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))

	if lo == hi {
		return sorted[lo], true
	}

	frac := rank - float64(lo)

	return sorted[lo] + (sorted[hi]-sorted[lo])*frac, true
}
