package cmd

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tempuslab/tempus/params"
	"github.com/tempuslab/tempus/sim"
)

// A Scenario is one simulation run loaded from a YAML file: a handful of
// scalar knobs plus the generators that drive the run.
type Scenario struct {
	Name       string
	Seed       int64
	MaxTime    float64
	MaxEvents  int64
	LogEvents  bool
	Generators []GeneratorSpec
}

// A GeneratorSpec declares one event generator. Kind selects the fields
// that matter: poisson uses rate, scheduled uses times, interval uses
// interval, cron uses spec.
type GeneratorSpec struct {
	Event    string    `yaml:"event"`
	Kind     string    `yaml:"kind"`
	Rate     float64   `yaml:"rate"`
	Times    []float64 `yaml:"times"`
	Interval float64   `yaml:"interval"`
	Spec     string    `yaml:"spec"`
	Horizon  float64   `yaml:"horizon"`
	Priority int       `yaml:"priority"`
}

// scenarioKnobs declares the scalar scenario settings. Everything in a
// scenario file other than name and generators must match one of these.
func scenarioKnobs() *params.Set {
	return params.MakeBuilder().
		AddInt("seed", 1,
			"Master seed of the run's random streams").
		AddFloatRange("max_time", 0, 0, math.MaxFloat64,
			"Simulated-time budget of the run, 0 for none").
		AddIntRange("max_events", 0, 0, math.MaxInt64,
			"Popped-event budget of the run, 0 for none").
		AddBool("log_events", false,
			"Log every dispatched event at debug level").
		Build()
}

// LoadScenario reads and validates the scenario file at path.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var doc struct {
		Name       string          `yaml:"name"`
		Generators []GeneratorSpec `yaml:"generators"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file: %w", err)
	}
	delete(raw, "name")
	delete(raw, "generators")

	knobs := scenarioKnobs()
	if err := params.ApplyMap(raw, knobs); err != nil {
		return nil, fmt.Errorf("invalid setting in %s: %w", path, err)
	}

	sc := &Scenario{
		Name:       doc.Name,
		Generators: doc.Generators,
	}
	sc.Seed, _ = knobs.Int("seed")
	sc.MaxTime, _ = knobs.Float("max_time")
	sc.MaxEvents, _ = knobs.Int("max_events")
	sc.LogEvents, _ = knobs.Bool("log_events")

	if len(sc.Generators) == 0 {
		return nil, fmt.Errorf("%s declares no generators", path)
	}

	for i, g := range sc.Generators {
		if err := g.validate(); err != nil {
			return nil, fmt.Errorf("generator %d in %s: %w", i, path, err)
		}
	}

	return sc, nil
}

func (g GeneratorSpec) validate() error {
	if g.Event == "" {
		return fmt.Errorf("event type is not given")
	}

	switch g.Kind {
	case "poisson":
		if g.Rate <= 0 {
			return fmt.Errorf("poisson generator needs a positive rate")
		}
	case "scheduled":
		if len(g.Times) == 0 {
			return fmt.Errorf("scheduled generator needs at least one time")
		}
	case "interval":
		if g.Interval <= 0 {
			return fmt.Errorf("interval generator needs a positive interval")
		}
	case "cron":
		if g.Spec == "" {
			return fmt.Errorf("cron generator needs a spec")
		}
	default:
		return fmt.Errorf(
			"unknown kind %q, want poisson, scheduled, interval, or cron",
			g.Kind)
	}

	return nil
}

// build turns the spec into a live generator. Poisson generators draw from
// the stream named after their event type, so adding a generator never
// perturbs the draws of another.
func (g GeneratorSpec) build(
	streams *sim.RandStreams,
	anchor time.Time,
) (sim.Generator, error) {
	switch g.Kind {
	case "poisson":
		gen := sim.NewPoissonGenerator(
			g.Event, g.Rate, streams.Stream(g.Event))
		if g.Horizon > 0 {
			gen = gen.WithHorizon(g.Horizon)
		}
		if g.Priority != 0 {
			gen = gen.WithPriority(g.Priority)
		}

		return gen, nil
	case "scheduled":
		gen := sim.NewScheduledGenerator(g.Event, g.Times)
		if g.Priority != 0 {
			gen = gen.WithPriority(g.Priority)
		}

		return gen, nil
	case "interval":
		gen := sim.NewIntervalGenerator(g.Event, g.Interval)
		if g.Horizon > 0 {
			gen = gen.WithHorizon(g.Horizon)
		}
		if g.Priority != 0 {
			gen = gen.WithPriority(g.Priority)
		}

		return gen, nil
	case "cron":
		gen, err := sim.NewCronGenerator(g.Event, g.Spec, anchor)
		if err != nil {
			return nil, err
		}
		if g.Horizon > 0 {
			gen = gen.WithHorizon(g.Horizon)
		}
		if g.Priority != 0 {
			gen = gen.WithPriority(g.Priority)
		}

		return gen, nil
	}

	return nil, fmt.Errorf("unknown kind %q", g.Kind)
}

// EventTypes returns the distinct event types of the scenario's
// generators, in declaration order.
func (s *Scenario) EventTypes() []string {
	var types []string
	seen := map[string]bool{}

	for _, g := range s.Generators {
		if seen[g.Event] {
			continue
		}
		seen[g.Event] = true
		types = append(types, g.Event)
	}

	return types
}
