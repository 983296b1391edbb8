// Package simulation assembles an engine, a statistics sink, a run
// recorder, and a monitoring server into one ready-to-use simulation.
package simulation

import (
	"github.com/tempuslab/tempus/monitoring"
	"github.com/tempuslab/tempus/recording"
	"github.com/tempuslab/tempus/sim"
	"github.com/tempuslab/tempus/stats"
)

// A Simulation provides the services required to define and run a model.
type Simulation struct {
	id string

	simulator *sim.Simulator
	stats     *stats.Stats
	recorder  *recording.Recorder
	monitor   *monitoring.Monitor

	models         []any
	modelNames     []string
	modelNameIndex map[string]int
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// Simulator returns the engine driving the simulation.
func (s *Simulation) Simulator() *sim.Simulator {
	return s.simulator
}

// Stats returns the statistics sink of the simulation.
func (s *Simulation) Stats() *stats.Stats {
	return s.stats
}

// Recorder returns the run recorder, or nil when recording is disabled.
func (s *Simulation) Recorder() *recording.Recorder {
	return s.recorder
}

// Monitor returns the monitor, or nil when monitoring is disabled.
func (s *Simulation) Monitor() *monitoring.Monitor {
	return s.monitor
}

// RegisterGenerator registers an event generator with the engine.
func (s *Simulation) RegisterGenerator(g sim.Generator) {
	s.simulator.RegisterGenerator(g)
}

// RegisterHandler registers an event handler with the engine.
func (s *Simulation) RegisterHandler(h sim.Handler) {
	s.simulator.RegisterHandler(h)
}

// RegisterModel registers a named model object with the simulation. When
// monitoring is on, the model state becomes inspectable through the web
// server.
func (s *Simulation) RegisterModel(name string, m any) {
	if _, ok := s.modelNameIndex[name]; ok {
		panic("model " + name + " already registered")
	}

	s.models = append(s.models, m)
	s.modelNames = append(s.modelNames, name)
	s.modelNameIndex[name] = len(s.models) - 1

	if s.monitor != nil {
		s.monitor.RegisterModel(name, m)
	}
}

// ModelByName returns the model registered under the given name, or nil.
func (s *Simulation) ModelByName(name string) any {
	i, ok := s.modelNameIndex[name]
	if !ok {
		return nil
	}

	return s.models[i]
}

// ModelNames returns the names of all registered models, in registration
// order.
func (s *Simulation) ModelNames() []string {
	return s.modelNames
}

// Run drives the engine until it stops and, when recording is on, persists
// the run report and the collected statistics.
func (s *Simulation) Run() (sim.RunReport, error) {
	report, err := s.simulator.Run()
	if err != nil {
		return report, err
	}

	if s.recorder != nil {
		s.recorder.RecordRun(s.id, report, s.stats.FullSummary())
	}

	return report, nil
}

// Terminate ends the simulation, closing the recorder database.
func (s *Simulation) Terminate() {
	if s.recorder != nil {
		s.recorder.Close()
		s.recorder = nil
	}
}
