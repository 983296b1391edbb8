package recording

import (
	"context"
	"database/sql"
	"fmt"
)

// Reader reads recorded runs back from a recording database.
type Reader struct {
	*sql.DB
}

// OpenReader opens the database file written by a Recorder.
func OpenReader(filename string) (*Reader, error) {
	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filename, err)
	}

	return &Reader{DB: db}, nil
}

// ListRuns returns every recorded run, most recent insertion last.
func (r *Reader) ListRuns(ctx context.Context) ([]RunRow, error) {
	rows, err := r.QueryContext(ctx,
		`SELECT RunID, StopReason, Popped, Dispatched, Dropped,
			FinalTime, WallSeconds FROM runs`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRow
	for rows.Next() {
		var run RunRow

		err := rows.Scan(&run.RunID, &run.StopReason, &run.Popped,
			&run.Dispatched, &run.Dropped, &run.FinalTime,
			&run.WallSeconds)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}

		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// Counters returns the counters of one run, sorted by key.
func (r *Reader) Counters(
	ctx context.Context,
	runID string,
) ([]CounterRow, error) {
	rows, err := r.QueryContext(ctx,
		`SELECT RunID, Key, Count FROM counters
			WHERE RunID = ? ORDER BY Key`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying counters: %w", err)
	}
	defer rows.Close()

	var counters []CounterRow
	for rows.Next() {
		var c CounterRow

		if err := rows.Scan(&c.RunID, &c.Key, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning counter: %w", err)
		}

		counters = append(counters, c)
	}

	return counters, rows.Err()
}

// ValueStats returns the value digests of one run, sorted by key.
func (r *Reader) ValueStats(
	ctx context.Context,
	runID string,
) ([]ValueStatRow, error) {
	rows, err := r.QueryContext(ctx,
		`SELECT RunID, Key, Sum, Average, Median, StdDev
			FROM value_stats WHERE RunID = ? ORDER BY Key`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying value stats: %w", err)
	}
	defer rows.Close()

	var vals []ValueStatRow
	for rows.Next() {
		var v ValueStatRow

		err := rows.Scan(&v.RunID, &v.Key, &v.Sum, &v.Average,
			&v.Median, &v.StdDev)
		if err != nil {
			return nil, fmt.Errorf("scanning value stat: %w", err)
		}

		vals = append(vals, v)
	}

	return vals, rows.Err()
}

// TimeSeries returns one metric's samples of one run in recording order.
func (r *Reader) TimeSeries(
	ctx context.Context,
	runID, key string,
) ([]TimePointRow, error) {
	rows, err := r.QueryContext(ctx,
		`SELECT RunID, Key, Time, Value FROM time_series
			WHERE RunID = ? AND Key = ?`, runID, key)
	if err != nil {
		return nil, fmt.Errorf("querying time series: %w", err)
	}
	defer rows.Close()

	var pts []TimePointRow
	for rows.Next() {
		var p TimePointRow

		err := rows.Scan(&p.RunID, &p.Key, &p.Time, &p.Value)
		if err != nil {
			return nil, fmt.Errorf("scanning time point: %w", err)
		}

		pts = append(pts, p)
	}

	return pts, rows.Err()
}

// SeriesKeys returns the distinct time-series keys of one run, sorted.
func (r *Reader) SeriesKeys(
	ctx context.Context,
	runID string,
) ([]string, error) {
	rows, err := r.QueryContext(ctx,
		`SELECT DISTINCT Key FROM time_series
			WHERE RunID = ? ORDER BY Key`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying series keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string

		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning series key: %w", err)
		}

		keys = append(keys, k)
	}

	return keys, rows.Err()
}

// Customs returns the custom entries of one run, sorted by key.
func (r *Reader) Customs(
	ctx context.Context,
	runID string,
) ([]CustomRow, error) {
	rows, err := r.QueryContext(ctx,
		`SELECT RunID, Key, Value FROM customs
			WHERE RunID = ? ORDER BY Key`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying customs: %w", err)
	}
	defer rows.Close()

	var customs []CustomRow
	for rows.Next() {
		var c CustomRow

		if err := rows.Scan(&c.RunID, &c.Key, &c.Value); err != nil {
			return nil, fmt.Errorf("scanning custom: %w", err)
		}

		customs = append(customs, c)
	}

	return customs, rows.Err()
}
