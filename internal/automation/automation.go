package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/samber/lo"
	"github.com/san-kum/pidball/internal/config"
	"github.com/san-kum/pidball/internal/experiment"
	"github.com/san-kum/pidball/internal/metrics"
	"github.com/san-kum/pidball/internal/panel"
	"github.com/san-kum/pidball/internal/sim"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var ErrUnknownAction = errors.New("automation: unknown action")

// Scenario defines a scripted run: a starting configuration and the
// messages sent to the simulation at given simulated times.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Preset      string  `yaml:"preset"`
	Duration    float64 `yaml:"duration"`
	Seed        uint64  `yaml:"seed"`
	Events      []Event `yaml:"events"`
}

// Event is applied once simulated time reaches At. Within an event the
// parameters go first, then hold, then the action.
type Event struct {
	At     float64            `yaml:"at"`
	Set    map[string]float32 `yaml:"set"`
	Hold   *bool              `yaml:"hold"`
	Action string             `yaml:"action"` // "reset" or "restart"
}

// Messages converts the event into simulation messages. Parameter values
// get the same bounds as panel edits.
func (e Event) Messages() ([]sim.Message, error) {
	var msgs []sim.Message

	names := lo.Keys(e.Set)
	sort.Strings(names)
	for _, name := range names {
		msg, err := panel.ParamMessage(name, e.Set[name])
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}

	if e.Hold != nil {
		msgs = append(msgs, sim.SetHoldBall(*e.Hold))
	}

	switch e.Action {
	case "":
	case "reset":
		msgs = append(msgs, sim.Reset{})
	case "restart":
		msgs = append(msgs, sim.Restart{})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, e.Action)
	}
	return msgs, nil
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &scenario, nil
}

// Validate checks every event and orders them by time.
func (s *Scenario) Validate() error {
	for i, ev := range s.Events {
		if _, err := ev.Messages(); err != nil {
			return fmt.Errorf("event %d: %w", i+1, err)
		}
	}
	sort.SliceStable(s.Events, func(i, j int) bool {
		return s.Events[i].At < s.Events[j].At
	})
	return nil
}

// Config returns the run configuration the scenario starts from.
func (s *Scenario) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		p, err := config.GetPreset(s.Preset)
		if err != nil {
			return nil, err
		}
		cfg = p
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	return cfg, cfg.Validate()
}

// RunScenario executes the scenario offline. Events fire between frames, so
// their timing resolution is one frame.
func RunScenario(ctx context.Context, scenario *Scenario, log logrus.FieldLogger) (experiment.Config, *experiment.Result, error) {
	if err := scenario.Validate(); err != nil {
		return experiment.Config{}, nil, err
	}
	cfg, err := scenario.Config()
	if err != nil {
		return experiment.Config{}, nil, err
	}
	plan := make([][]sim.Message, len(scenario.Events))
	for i, ev := range scenario.Events {
		if plan[i], err = ev.Messages(); err != nil {
			return experiment.Config{}, nil, fmt.Errorf("event %d: %w", i+1, err)
		}
	}

	expCfg := experiment.Config{Sim: *cfg}
	exp := experiment.New(expCfg, log)
	for _, m := range experiment.NewRegistry().DefaultMetrics() {
		exp.AddMetric(m)
	}

	log = log.WithField("scenario", scenario.Name)
	next := 0
	fire := func(now float64) {
		for next < len(scenario.Events) && scenario.Events[next].At <= now {
			ev, msgs := scenario.Events[next], plan[next]
			for _, msg := range msgs {
				exp.Simulation().Config(msg)
			}
			log.WithFields(logrus.Fields{
				"at":       ev.At,
				"time":     now,
				"messages": fmt.Sprint(msgs),
			}).Info("scenario event")
			next++
		}
	}

	fire(0)
	exp.AddObserver(experiment.ObserverFunc(func(s metrics.Sample) {
		fire(s.Time)
	}))

	result, err := exp.Run(ctx)
	return expCfg, result, err
}
