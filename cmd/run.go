package cmd

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tempuslab/tempus/chart"
	"github.com/tempuslab/tempus/sim"
	"github.com/tempuslab/tempus/simulation"
)

var (
	configFile  string
	seed        int64
	maxTime     float64
	maxEvents   int64
	outputFile  string
	noRecording bool
	noMonitor   bool
	monitorPort int
	chartKeys   []string
	showSummary bool
	jsonOut     string
	csvOut      string
)

// cronAnchor pins cron schedules to the Unix epoch so the same scenario
// produces the same event times on every run.
var cronAnchor = time.Unix(0, 0).UTC()

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation scenario.",
	Long: "`run -c scenario.yaml` loads a scenario file, drives the " +
		"simulation until a stop limit fires or the timeline drains, and " +
		"prints the collected statistics.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if noMonitor && cmd.Flags().Changed("monitor-port") {
			return fmt.Errorf(
				"--monitor-port requires monitoring to stay enabled")
		}
		if noRecording && cmd.Flags().Changed("output") {
			return fmt.Errorf(
				"--output requires recording to stay enabled")
		}

		sc, err := LoadScenario(configFile)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("seed") {
			sc.Seed = seed
		}
		if cmd.Flags().Changed("max-time") {
			sc.MaxTime = maxTime
		}
		if cmd.Flags().Changed("max-events") {
			sc.MaxEvents = maxEvents
		}

		return runScenario(sc)
	},
}

func init() {
	runCmd.Flags().StringVarP(&configFile, "config", "c", "scenario.yaml",
		"Path to the scenario file")
	runCmd.Flags().Int64Var(&seed, "seed", 1,
		"Override the scenario's master seed")
	runCmd.Flags().Float64Var(&maxTime, "max-time", 0,
		"Override the scenario's simulated-time budget")
	runCmd.Flags().Int64Var(&maxEvents, "max-events", 0,
		"Override the scenario's popped-event budget")
	runCmd.Flags().StringVarP(&outputFile, "output", "o", "",
		"Base name of the recording database")
	runCmd.Flags().BoolVar(&noRecording, "no-recording", false,
		"Do not record the run into a database")
	runCmd.Flags().BoolVar(&noMonitor, "no-monitor", false,
		"Do not start the monitoring server")
	runCmd.Flags().IntVar(&monitorPort, "monitor-port", 0,
		"Port of the monitoring server, 0 for a random port")
	runCmd.Flags().StringSliceVar(&chartKeys, "chart", nil,
		"Time-series keys to chart after the run")
	runCmd.Flags().BoolVarP(&showSummary, "summary", "s", true,
		"Show the statistics summary after the run")
	runCmd.Flags().StringVar(&jsonOut, "json-out", "",
		"Write the full statistics to this JSON file")
	runCmd.Flags().StringVar(&csvOut, "csv-out", "",
		"Write the full statistics to this CSV file")

	rootCmd.AddCommand(runCmd)
}

func runScenario(sc *Scenario) error {
	fmt.Printf("Loaded scenario %q from %s\n", sc.Name, configFile)
	fmt.Printf("  - Seed: %d\n", sc.Seed)
	fmt.Printf("  - Max Time: %s\n", budget(sc.MaxTime))
	fmt.Printf("  - Max Events: %s\n", budget(float64(sc.MaxEvents)))
	fmt.Printf("  - Generators: %d\n\n", len(sc.Generators))

	s, err := assembleSimulation(sc)
	if err != nil {
		return err
	}
	defer s.Terminate()

	report, err := s.Run()
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	printReport(report)

	st := s.Stats()
	gen := chart.NewGenerator()

	if showSummary {
		fmt.Println(gen.GenerateSummary(st.Summary()))
	}

	for _, key := range chartKeys {
		fmt.Println(gen.GenerateTimeSeriesChart(key, st.TimeSeries(key)))
	}

	if jsonOut != "" {
		if err := st.ExportJSON(jsonOut); err != nil {
			return fmt.Errorf("exporting JSON: %w", err)
		}
		fmt.Printf("Statistics written to %s\n", jsonOut)
	}

	if csvOut != "" {
		if err := st.ExportCSV(csvOut, true); err != nil {
			return fmt.Errorf("exporting CSV: %w", err)
		}
		fmt.Printf("Statistics written to %s\n", csvOut)
	}

	if r := s.Recorder(); r != nil {
		fmt.Printf("Recorded run %s into %s\n", s.ID(), r.Filename())
	}

	return nil
}

// assembleSimulation builds the simulation the scenario describes:
// generators seed their first events, a counting handler tallies every
// event, and one re-arm handler per generator keeps its process alive.
func assembleSimulation(sc *Scenario) (*simulation.Simulation, error) {
	b := simulation.MakeBuilder()

	if noMonitor {
		b = b.WithoutMonitoring()
	} else if monitorPort > 0 {
		b = b.WithMonitorPort(monitorPort)
	}

	if noRecording {
		b = b.WithoutRecording()
	} else if outputFile != "" {
		b = b.WithOutputFileName(outputFile)
	}

	if sc.MaxTime > 0 {
		b = b.WithMaxTime(sc.MaxTime)
	}
	if sc.MaxEvents > 0 {
		b = b.WithMaxEvents(sc.MaxEvents)
	}

	s := b.Build()

	streams := sim.NewRandStreams(sc.Seed)
	types := sc.EventTypes()

	for _, spec := range sc.Generators {
		g, err := spec.build(streams, cronAnchor)
		if err != nil {
			return nil, err
		}

		s.RegisterGenerator(g)
		s.RegisterHandler(rearm(g, spec.Event))
	}

	s.RegisterHandler(sim.NewCountingHandler(types...))

	if sc.LogEvents {
		s.RegisterHandler(
			sim.NewLoggingHandler(logrus.StandardLogger()).
				WithEventTypes(types...))
	}

	return s, nil
}

// rearm returns a handler that asks gen for its next event every time one
// of gen's own events fires. The generator-ID guard keeps generators that
// share an event type from re-arming each other.
func rearm(gen sim.Generator, eventType string) sim.Handler {
	return sim.TypedHandlerFunc([]string{eventType},
		func(e *sim.Event, tl *sim.Timeline, st sim.StatsRecorder) []*sim.Event {
			if e.GeneratorID() != gen.ID() {
				return nil
			}

			if next := gen.Generate(e.Time()); next != nil {
				return []*sim.Event{next}
			}

			return nil
		})
}

func printReport(report sim.RunReport) {
	fmt.Printf("Run finished: %s\n", report.StopReason)
	fmt.Printf("  - Dispatched: %d events (%d dropped)\n",
		report.Dispatched, report.Dropped)
	fmt.Printf("  - Simulated: %s\n", chart.FormatDuration(
		time.Duration(report.FinalTime*float64(time.Second))))
	fmt.Printf("  - Wall clock: %s\n\n", report.Elapsed.Round(time.Millisecond))
}

func budget(v float64) string {
	if v <= 0 {
		return "none"
	}

	return fmt.Sprintf("%g", v)
}
