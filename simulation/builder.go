package simulation

import (
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/tempuslab/tempus/monitoring"
	"github.com/tempuslab/tempus/recording"
	"github.com/tempuslab/tempus/sim"
	"github.com/tempuslab/tempus/stats"
)

// Builder can be used to build a simulation.
type Builder struct {
	monitorOn      bool
	monitorPort    int
	recordingOn    bool
	outputFileName string

	maxTime       float64
	maxEvents     int64
	stopCondition sim.StopCondition
	logger        logrus.FieldLogger
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		monitorOn:   true,
		recordingOn: true,
	}
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithoutRecording sets the simulation to not record runs into SQLite.
func (b Builder) WithoutRecording() Builder {
	b.recordingOn = false
	return b
}

// WithOutputFileName sets the custom output file name for the run recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithMaxTime makes the runs stop once simulated time passes t.
func (b Builder) WithMaxTime(t float64) Builder {
	b.maxTime = t
	return b
}

// WithMaxEvents makes the runs stop after n processed events.
func (b Builder) WithMaxEvents(n int64) Builder {
	b.maxEvents = n
	return b
}

// WithStopCondition makes the runs stop when cond returns true.
func (b Builder) WithStopCondition(cond sim.StopCondition) Builder {
	b.stopCondition = cond
	return b
}

// WithLogger overrides the engine logger.
func (b Builder) WithLogger(log logrus.FieldLogger) Builder {
	b.logger = log
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.recordingOn && b.outputFileName != "" {
		panic("output file name cannot be set when recording is disabled")
	}
}

// Build builds the simulation.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{
		modelNameIndex: make(map[string]int),
	}

	s.id = xid.New().String()
	s.stats = stats.NewStats()

	simBuilder := sim.MakeBuilder().WithStats(s.stats)

	if b.maxTime > 0 {
		simBuilder = simBuilder.WithMaxTime(b.maxTime)
	}

	if b.maxEvents > 0 {
		simBuilder = simBuilder.WithMaxEvents(b.maxEvents)
	}

	if b.stopCondition != nil {
		simBuilder = simBuilder.WithStopCondition(b.stopCondition)
	}

	if b.logger != nil {
		simBuilder = simBuilder.WithLogger(b.logger)
	}

	s.simulator = simBuilder.Build()

	if b.recordingOn {
		outputPath := b.outputFileName
		if outputPath == "" {
			outputPath = "tempus_sim_" + s.id
		}

		s.recorder = recording.NewRecorder(outputPath)
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}

		s.monitor.RegisterSimulator(s.simulator)
		s.monitor.RegisterStats(s.stats)
		s.monitor.StartServer()
	}

	return s
}
