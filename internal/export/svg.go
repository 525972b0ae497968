package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/pidball/internal/metrics"
)

// SVG writes the ball position over time as a path, with the target as a
// dashed path on the same scale.
func SVG(w io.Writer, samples []metrics.Sample, width, height int) error {
	if len(samples) < 2 {
		return ErrNoSamples
	}

	minX, maxX := samples[0].Time, samples[len(samples)-1].Time
	minY, maxY := float64(samples[0].Position), float64(samples[0].Position)
	for _, s := range samples {
		minY = min(minY, float64(s.Position), float64(s.Target))
		maxY = max(maxY, float64(s.Position), float64(s.Target))
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	path := func(y func(metrics.Sample) float64) string {
		var sb strings.Builder
		for i, s := range samples {
			px := (s.Time - minX) / rangeX * float64(width)
			py := float64(height) - (y(s)-minY)/rangeY*float64(height)
			if i == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", px, py)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", px, py)
			}
		}
		return sb.String()
	}

	_, err := fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="#ff5555" stroke-width="1" stroke-dasharray="4 2" d="%s"/>
<path fill="none" stroke="#00ff00" stroke-width="1.5" d="%s"/>
</svg>
`,
		width, height, width, height,
		path(func(s metrics.Sample) float64 { return float64(s.Target) }),
		path(func(s metrics.Sample) float64 { return float64(s.Position) }),
	)
	return err
}
