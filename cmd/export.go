package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tempuslab/tempus/chart"
	"github.com/tempuslab/tempus/recording"
	"github.com/tempuslab/tempus/stats"
)

var (
	exportRunID  string
	exportSeries []string
)

var exportCmd = &cobra.Command{
	Use:   "export [recording file]",
	Short: "Inspect a recorded run database.",
	Long: "`export [recording file]` lists the runs recorded in a " +
		"database and prints the statistics of one of them. By default " +
		"the last recorded run is printed; pick another with --run.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportRecording(args[0], exportRunID, exportSeries)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportRunID, "run", "",
		"ID of the run to print, default the last recorded one")
	exportCmd.Flags().StringSliceVar(&exportSeries, "series", nil,
		"Time-series keys to chart")

	rootCmd.AddCommand(exportCmd)
}

func exportRecording(filename, runID string, seriesKeys []string) error {
	reader, err := recording.OpenReader(filename)
	if err != nil {
		return err
	}
	defer reader.Close()

	ctx := context.Background()

	runs, err := reader.ListRuns(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return fmt.Errorf("%s holds no recorded runs", filename)
	}

	fmt.Printf("Runs in %s:\n", filename)
	for _, run := range runs {
		fmt.Printf("  %s  %s  dispatched=%d dropped=%d t=%.2f\n",
			run.RunID, run.StopReason,
			run.Dispatched, run.Dropped, run.FinalTime)
	}
	fmt.Println()

	if runID == "" {
		runID = runs[len(runs)-1].RunID
	} else if !containsRun(runs, runID) {
		return fmt.Errorf("run %s is not recorded in %s", runID, filename)
	}

	if err := printRunStats(ctx, reader, runID); err != nil {
		return err
	}

	gen := chart.NewGenerator()
	for _, key := range seriesKeys {
		rows, err := reader.TimeSeries(ctx, runID, key)
		if err != nil {
			return err
		}

		fmt.Println(gen.GenerateTimeSeriesChart(key, seriesPoints(rows)))
	}

	return nil
}

func printRunStats(
	ctx context.Context,
	reader *recording.Reader,
	runID string,
) error {
	fmt.Printf("Run %s\n", runID)

	counters, err := reader.Counters(ctx, runID)
	if err != nil {
		return err
	}
	if len(counters) > 0 {
		fmt.Println("Counters:")
		for _, c := range counters {
			fmt.Printf("  - %s: %d\n", c.Key, c.Count)
		}
	}

	vals, err := reader.ValueStats(ctx, runID)
	if err != nil {
		return err
	}
	if len(vals) > 0 {
		fmt.Println("Values:")
		for _, v := range vals {
			fmt.Printf("  - %s: sum %.3f, avg %.3f, median %.3f, stddev %.3f\n",
				v.Key, v.Sum, v.Average, v.Median, v.StdDev)
		}
	}

	customs, err := reader.Customs(ctx, runID)
	if err != nil {
		return err
	}
	if len(customs) > 0 {
		fmt.Println("Custom:")
		for _, c := range customs {
			fmt.Printf("  - %s: %s\n", c.Key, c.Value)
		}
	}

	keys, err := reader.SeriesKeys(ctx, runID)
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		fmt.Printf("Series keys: %s\n", strings.Join(keys, ", "))
	}

	return nil
}

func containsRun(runs []recording.RunRow, runID string) bool {
	for _, run := range runs {
		if run.RunID == runID {
			return true
		}
	}

	return false
}

func seriesPoints(rows []recording.TimePointRow) []stats.TimePoint {
	pts := make([]stats.TimePoint, 0, len(rows))
	for _, row := range rows {
		pts = append(pts, stats.TimePoint{Time: row.Time, Value: row.Value})
	}

	return pts
}
