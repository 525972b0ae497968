package config

import (
	"fmt"
	"os"

	"github.com/san-kum/pidball/internal/panel"
	"github.com/san-kum/pidball/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSamplingRate = panel.DefaultSamplingRate
	DefaultFrameRate    = 60
	DefaultDuration     = 30.0
)

type Config struct {
	SamplingRate uint32        `yaml:"sampling_rate" json:"sampling_rate"`
	FrameRate    int           `yaml:"frame_rate" json:"frame_rate"`
	Duration     float64       `yaml:"duration" json:"duration"`
	Seed         uint64        `yaml:"seed" json:"seed"`
	Params       ParamsConfig  `yaml:"params" json:"params"`
	Initial      InitialConfig `yaml:"initial" json:"initial"`
}

type ParamsConfig struct {
	Kp           float32 `yaml:"kp" json:"kp"`
	Ki           float32 `yaml:"ki" json:"ki"`
	Kd           float32 `yaml:"kd" json:"kd"`
	Target       float32 `yaml:"target" json:"target"`
	Noise        float32 `yaml:"noise" json:"noise"`
	Gravitation  float32 `yaml:"gravitation" json:"gravitation"`
	MaxForce     float32 `yaml:"max_force" json:"max_force"`
	MaxForceRate float32 `yaml:"max_force_rate" json:"max_force_rate"`
	HoldBall     bool    `yaml:"hold_ball" json:"hold_ball"`
}

type InitialConfig struct {
	BallPosition     float32 `yaml:"ball_position" json:"ball_position"`
	BallVelocity     float32 `yaml:"ball_velocity" json:"ball_velocity"`
	InductorPosition float32 `yaml:"inductor_position" json:"inductor_position"`
}

func DefaultConfig() *Config {
	return FromParams(sim.DefaultParams())
}

// FromParams wraps simulation params with the default run settings.
func FromParams(p sim.Params) *Config {
	return &Config{
		SamplingRate: DefaultSamplingRate,
		FrameRate:    DefaultFrameRate,
		Duration:     DefaultDuration,
		Params: ParamsConfig{
			Kp:           p.Kp,
			Ki:           p.Ki,
			Kd:           p.Kd,
			Target:       p.Target,
			Noise:        p.Noise,
			Gravitation:  p.Gravitation,
			MaxForce:     p.MaxForce,
			MaxForceRate: p.MaxForceRate,
			HoldBall:     p.HoldBall,
		},
		Initial: InitialConfig{
			BallPosition:     p.BallPosition,
			BallVelocity:     p.BallVelocity,
			InductorPosition: p.InductorPosition,
		},
	}
}

// Load reads a yaml file over the defaults; keys missing from the file keep
// their default value.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a yaml file over base, usually a preset. base is modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate enforces the bounds the driver is responsible for.
func (c *Config) Validate() error {
	switch {
	case c.SamplingRate < panel.MinSamplingRate:
		return fmt.Errorf("%w: sampling_rate must be >= %d Hz, got %d", ErrParameterBounds, panel.MinSamplingRate, c.SamplingRate)
	case c.SamplingRate > panel.MaxSamplingRate:
		return fmt.Errorf("%w: sampling_rate must be <= %d Hz, got %d", ErrParameterBounds, panel.MaxSamplingRate, c.SamplingRate)
	case c.FrameRate <= 0:
		return fmt.Errorf("%w: frame_rate must be positive, got %d", ErrParameterBounds, c.FrameRate)
	case c.Duration <= 0:
		return fmt.Errorf("%w: duration must be positive, got %f", ErrParameterBounds, c.Duration)
	case c.Params.Noise < 0:
		return fmt.Errorf("%w: noise must be >= 0, got %f", ErrParameterBounds, c.Params.Noise)
	case c.Params.MaxForce < 0:
		return fmt.Errorf("%w: max_force must be >= 0, got %f", ErrParameterBounds, c.Params.MaxForce)
	case c.Params.MaxForceRate < 0:
		return fmt.Errorf("%w: max_force_rate must be >= 0, got %f", ErrParameterBounds, c.Params.MaxForceRate)
	}
	return nil
}

func (c *Config) SimParams() sim.Params {
	return sim.Params{
		Kp:               c.Params.Kp,
		Ki:               c.Params.Ki,
		Kd:               c.Params.Kd,
		Target:           c.Params.Target,
		Noise:            c.Params.Noise,
		Gravitation:      c.Params.Gravitation,
		MaxForce:         c.Params.MaxForce,
		MaxForceRate:     c.Params.MaxForceRate,
		HoldBall:         c.Params.HoldBall,
		BallPosition:     c.Initial.BallPosition,
		BallVelocity:     c.Initial.BallVelocity,
		InductorPosition: c.Initial.InductorPosition,
	}
}

// Clone returns a deep copy; presets are shared values.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
