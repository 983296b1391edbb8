package recording

import (
	"fmt"
	"sort"

	"github.com/tempuslab/tempus/sim"
	"github.com/tempuslab/tempus/stats"
)

// RunRow is one finished run.
type RunRow struct {
	RunID       string
	StopReason  string
	Popped      int
	Dispatched  int
	Dropped     int
	FinalTime   float64
	WallSeconds float64
}

// CounterRow is one counter of a finished run.
type CounterRow struct {
	RunID string
	Key   string
	Count int64
}

// ValueStatRow digests one value metric of a finished run. StdDev is zero
// when fewer than two samples were recorded.
type ValueStatRow struct {
	RunID   string
	Key     string
	Sum     float64
	Average float64
	Median  float64
	StdDev  float64
}

// TimePointRow is one time-series sample of a finished run.
type TimePointRow struct {
	RunID string
	Key   string
	Time  float64
	Value float64
}

// CustomRow is one scalar custom entry of a finished run, rendered as text.
type CustomRow struct {
	RunID string
	Key   string
	Value string
}

// Recorder persists finished runs into a SQLite database with one table per
// statistic kind.
type Recorder struct {
	writer *SQLiteWriter
}

// NewRecorder creates the database under path + ".sqlite3" (xid-based name
// when path is empty) and lays out the schema.
func NewRecorder(path string) *Recorder {
	w := NewSQLiteWriter(path)
	w.Init()

	w.CreateTable("runs", RunRow{})
	w.CreateTable("counters", CounterRow{})
	w.CreateTable("value_stats", ValueStatRow{})
	w.CreateTable("time_series", TimePointRow{})
	w.CreateTable("customs", CustomRow{})

	return &Recorder{writer: w}
}

// Filename returns the name of the database file.
func (r *Recorder) Filename() string {
	return r.writer.Filename()
}

// Close flushes buffered rows and closes the database. The recorder must
// not be used afterward.
func (r *Recorder) Close() {
	r.writer.Flush()

	err := r.writer.Close()
	if err != nil {
		panic(err)
	}
}

// RecordRun writes one finished run. Pass the summary from
// stats.FullSummary so the time series are included. Non-scalar custom
// entries are skipped, the same way the CSV export skips them.
func (r *Recorder) RecordRun(
	runID string,
	report sim.RunReport,
	sum stats.Summary,
) {
	r.writer.InsertData("runs", RunRow{
		RunID:       runID,
		StopReason:  report.StopReason.String(),
		Popped:      report.Popped,
		Dispatched:  report.Dispatched,
		Dropped:     report.Dropped,
		FinalTime:   report.FinalTime,
		WallSeconds: report.Elapsed.Seconds(),
	})

	for _, k := range sortedKeys(sum.Counters) {
		r.writer.InsertData("counters", CounterRow{
			RunID: runID,
			Key:   k,
			Count: sum.Counters[k],
		})
	}

	for _, k := range sortedKeys(sum.Averages) {
		r.writer.InsertData("value_stats", ValueStatRow{
			RunID:   runID,
			Key:     k,
			Sum:     sum.Sums[k],
			Average: sum.Averages[k],
			Median:  sum.Medians[k],
			StdDev:  sum.StdDevs[k],
		})
	}

	for _, k := range sortedKeys(sum.TimeSeries) {
		for _, p := range sum.TimeSeries[k] {
			r.writer.InsertData("time_series", TimePointRow{
				RunID: runID,
				Key:   k,
				Time:  p.Time,
				Value: p.Value,
			})
		}
	}

	for _, k := range sortedKeys(sum.Custom) {
		v, ok := scalar(sum.Custom[k])
		if !ok {
			continue
		}

		r.writer.InsertData("customs", CustomRow{
			RunID: runID,
			Key:   k,
			Value: v,
		})
	}

	r.writer.Flush()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

func scalar(v any) (string, bool) {
	switch v.(type) {
	case int, int32, int64, uint, uint32, uint64,
		float32, float64, string, bool:
		return fmt.Sprintf("%v", v), true
	}

	return "", false
}
