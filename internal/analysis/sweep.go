package analysis

import (
	"context"
	"math"
	"strings"

	"github.com/san-kum/pidball/internal/config"
	"github.com/san-kum/pidball/internal/experiment"
	"github.com/san-kum/pidball/internal/metrics"
	"github.com/san-kum/pidball/internal/panel"
	"github.com/sirupsen/logrus"
)

// SweepPoint holds the distinct positions visited after the transient for
// one parameter value. A settled loop yields one or two values; an
// oscillating or diverging one yields many.
type SweepPoint struct {
	Param  float64
	Values []float64
}

type SweepConfig struct {
	Param     string
	Min, Max  float64
	Steps     int
	Transient float64 // simulated seconds discarded before recording
	Record    float64 // simulated seconds recorded
}

// Sweep runs one offline experiment per parameter value, starting from base.
func Sweep(ctx context.Context, base config.Config, sc SweepConfig, log logrus.FieldLogger) ([]SweepPoint, error) {
	steps := max(sc.Steps, 2)
	paramStep := (sc.Max - sc.Min) / float64(steps-1)

	cfg := base
	cfg.Duration = sc.Transient + sc.Record

	results := make([]SweepPoint, 0, steps)
	for i := 0; i < steps; i++ {
		param := sc.Min + float64(i)*paramStep
		msg, err := panel.ParamMessage(sc.Param, float32(param))
		if err != nil {
			return nil, err
		}

		exp := experiment.New(experiment.Config{Sim: cfg}, log)
		exp.Simulation().Config(msg)

		var values []float64
		seen := make(map[int]bool)
		exp.AddObserver(experiment.ObserverFunc(func(s metrics.Sample) {
			if s.Time <= sc.Transient {
				return
			}
			v := float64(s.Position)
			// Quantize to find distinct values
			key := int(math.Round(v * 1000))
			if !seen[key] {
				seen[key] = true
				values = append(values, v)
			}
		}))

		if _, err := exp.Run(ctx); err != nil {
			return nil, err
		}
		results = append(results, SweepPoint{Param: param, Values: values})
	}
	return results, nil
}

// SweepToASCII plots every recorded value over its parameter column.
func SweepToASCII(data []SweepPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var all []float64
	for _, p := range data {
		all = append(all, p.Values...)
	}
	if len(all) == 0 {
		return ""
	}
	minVal, maxVal := all[0], all[0]
	for _, v := range all {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range data {
		col := min(i*width/len(data), width-1)
		for _, v := range p.Values {
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
