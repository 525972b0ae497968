package config

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/san-kum/pidball/internal/sim"
)

func preset(mutate func(p *sim.Params)) *Config {
	p := sim.DefaultParams()
	mutate(&p)
	return FromParams(p)
}

var Presets = map[string]*Config{
	"earth": DefaultConfig(),
	"moon": preset(func(p *sim.Params) {
		p.Gravitation = -1.62
		p.Kp, p.Ki, p.Kd = 40, 0.1, 10
	}),
	"noisy": preset(func(p *sim.Params) {
		p.Noise = 0.005
		p.Kd = 10
	}),
	"sluggish": preset(func(p *sim.Params) {
		p.MaxForceRate = 150
	}),
	"held": preset(func(p *sim.Params) {
		p.HoldBall = true
		p.Noise = 0
	}),
}

// GetPreset returns a copy of the named preset.
func GetPreset(name string) (*Config, error) {
	cfg, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownPreset, name, ListPresets())
	}
	return cfg.Clone(), nil
}

func ListPresets() []string {
	names := lo.Keys(Presets)
	sort.Strings(names)
	return names
}
