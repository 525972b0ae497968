package experiment

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/san-kum/pidball/internal/config"
	"github.com/san-kum/pidball/internal/metrics"
	"github.com/san-kum/pidball/internal/panel"
	"github.com/san-kum/pidball/internal/sim"
	"github.com/san-kum/pidball/internal/timing"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

type Config struct {
	Sim      config.Config
	Realtime bool
}

type Result struct {
	Samples []metrics.Sample
	Metrics map[string]float64
	Steps   uint64
}

// Observer is notified once per recorded frame.
type Observer interface {
	OnSample(s metrics.Sample)
}

type ObserverFunc func(s metrics.Sample)

func (f ObserverFunc) OnSample(s metrics.Sample) { f(s) }

// Experiment drives one Simulation through the step scheduler for a fixed
// duration, either against a manual clock (as fast as possible) or against
// the wall clock.
type Experiment struct {
	cfg       Config
	log       logrus.FieldLogger
	sim       *sim.Simulation
	metrics   []metrics.Metric
	observers []Observer
}

func New(cfg Config, log logrus.FieldLogger) *Experiment {
	return &Experiment{
		cfg: cfg,
		log: log,
		sim: NewSimulation(cfg.Sim),
	}
}

// NewSimulation builds the simulation described by cfg. A non-zero seed makes
// the sensor noise reproducible.
func NewSimulation(cfg config.Config) *sim.Simulation {
	var opts []sim.Option
	if seed := cfg.Seed; seed != 0 {
		opts = append(opts, sim.WithRandSource(rand.NewPCG(seed, seed)))
	}
	return sim.New(cfg.SimParams(), opts...)
}

func (e *Experiment) AddMetric(m metrics.Metric) { e.metrics = append(e.metrics, m) }
func (e *Experiment) AddObserver(o Observer)     { e.observers = append(e.observers, o) }

// Simulation returns the underlying simulation for sending messages before
// Run.
func (e *Experiment) Simulation() *sim.Simulation {
	return e.sim
}

func (e *Experiment) FrameDuration() time.Duration {
	return time.Second / time.Duration(e.cfg.Sim.FrameRate)
}

func (e *Experiment) SamplingDuration() time.Duration {
	return panel.SamplingDuration(e.cfg.Sim.SamplingRate)
}

// Run returns the partial result together with ctx.Err() when cancelled.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if err := e.cfg.Sim.Validate(); err != nil {
		return nil, fmt.Errorf("experiment: %w", err)
	}

	frames := int(math.Round(e.cfg.Sim.Duration * float64(e.cfg.Sim.FrameRate)))
	res := &Result{
		Samples: make([]metrics.Sample, 0, frames),
		Metrics: make(map[string]float64),
	}
	for _, m := range e.metrics {
		m.Reset()
	}

	log := e.log.WithFields(logrus.Fields{
		"frames":        frames,
		"sampling_rate": e.cfg.Sim.SamplingRate,
		"frame_rate":    e.cfg.Sim.FrameRate,
		"realtime":      e.cfg.Realtime,
	})
	log.Debug("experiment started")

	var err error
	if e.cfg.Realtime {
		err = e.runRealtime(ctx, frames, res)
	} else {
		err = e.runOffline(ctx, frames, res)
	}

	for _, m := range e.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	log.WithFields(logrus.Fields{
		"steps":   res.Steps,
		"samples": len(res.Samples),
	}).Debug("experiment finished")
	return res, err
}

func (e *Experiment) runOffline(ctx context.Context, frames int, res *Result) error {
	clk := timing.NewManualClock(time.Unix(0, 0))
	sched := timing.NewScheduler(clk)
	frame := e.FrameDuration()

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		clk.Advance(frame)
		e.tick(sched, res)
	}
	return nil
}

func (e *Experiment) runRealtime(ctx context.Context, frames int, res *Result) error {
	sched := timing.NewScheduler(clock.RealClock{})
	ticker := time.NewTicker(e.FrameDuration())
	defer ticker.Stop()

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		e.tick(sched, res)
	}
	return nil
}

func (e *Experiment) tick(sched *timing.Scheduler, res *Result) {
	sampling := e.SamplingDuration()
	n := sched.StepCount(sampling)
	snap := e.sim.Step(n, sampling)
	res.Steps += uint64(n)

	s := metrics.Sample{
		Time:     sched.Simulated().Seconds(),
		Target:   e.sim.Params().Target,
		Snapshot: snap,
	}
	res.Samples = append(res.Samples, s)
	for _, m := range e.metrics {
		m.Observe(s)
	}
	for _, o := range e.observers {
		o.OnSample(s)
	}
}
