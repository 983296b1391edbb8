package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// ExportJSON writes the summary, including the raw time series, to path.
func (s *Stats) ExportJSON(path string) error {
	s.mu.Lock()
	sum := s.summaryLocked(true)
	s.mu.Unlock()

	b, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding stats summary: %w", err)
	}

	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("writing stats summary: %w", err)
	}

	return nil
}

// ExportCSV writes the summary to path as "Kind, Key, Value" rows, sorted by
// key so the output is stable. Non-scalar custom entries are skipped. When
// includeSeries is set, the raw time series follow in a second section.
func (s *Stats) ExportCSV(path string, includeSeries bool) error {
	s.mu.Lock()
	sum := s.summaryLocked(includeSeries)
	s.mu.Unlock()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	fmt.Fprintf(f, "Kind, Key, Value\n")

	for _, k := range sortedKeys(sum.Counters) {
		fmt.Fprintf(f, "Counter, %s, %d\n", k, sum.Counters[k])
	}

	for _, k := range sortedKeys(sum.Sums) {
		fmt.Fprintf(f, "Sum, %s, %g\n", k, sum.Sums[k])
	}

	for _, k := range sortedKeys(sum.Averages) {
		fmt.Fprintf(f, "Average, %s, %g\n", k, sum.Averages[k])
	}

	for _, k := range sortedKeys(sum.Medians) {
		fmt.Fprintf(f, "Median, %s, %g\n", k, sum.Medians[k])
	}

	for _, k := range sortedKeys(sum.StdDevs) {
		fmt.Fprintf(f, "StdDev, %s, %g\n", k, sum.StdDevs[k])
	}

	for _, k := range sortedKeys(sum.Custom) {
		if v, ok := scalarCustom(sum.Custom[k]); ok {
			fmt.Fprintf(f, "Custom, %s, %v\n", k, v)
		}
	}

	if includeSeries {
		fmt.Fprintf(f, "\nKind, Key, Time, Value\n")

		for _, k := range sortedKeys(sum.TimeSeries) {
			for _, p := range sum.TimeSeries[k] {
				fmt.Fprintf(f, "TimeSeries, %s, %g, %g\n", k, p.Time, p.Value)
			}
		}
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}

	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

func scalarCustom(v any) (any, bool) {
	switch v.(type) {
	case int, int32, int64, uint, uint32, uint64,
		float32, float64, string, bool:
		return v, true
	}

	return nil, false
}
