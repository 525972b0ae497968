package analysis

import (
	"strings"

	"github.com/san-kum/pidball/internal/metrics"
	"gonum.org/v1/gonum/floats"
)

// PhasePortrait2D holds data for a 2D phase space plot
type PhasePortrait2D struct {
	Points []struct{ X, Y float64 }
}

// NewPhasePortrait plots ball velocity against position for a recorded run.
func NewPhasePortrait(samples []metrics.Sample) *PhasePortrait2D {
	portrait := &PhasePortrait2D{
		Points: make([]struct{ X, Y float64 }, 0, len(samples)),
	}
	for _, s := range samples {
		portrait.Points = append(portrait.Points, struct{ X, Y float64 }{
			X: float64(s.Position),
			Y: float64(s.Velocity),
		})
	}
	return portrait
}

// PhasePortraitToASCII renders the portrait on a width x height rune grid.
// The zero-velocity line and, when it is in view, the target position are
// drawn as axes.
func PhasePortraitToASCII(portrait *PhasePortrait2D, target float64, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	xs := make([]float64, len(portrait.Points))
	ys := make([]float64, len(portrait.Points))
	for i, p := range portrait.Points {
		xs[i], ys[i] = p.X, p.Y
	}
	minX, maxX := padded(floats.Min(xs), floats.Max(xs))
	minY, maxY := padded(floats.Min(ys), floats.Max(ys))

	col := func(x float64) int { return int((x - minX) / (maxX - minX) * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/(maxY-minY)*float64(height-1)) }

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := range canvas[r] {
			canvas[r][c] = '─'
		}
	}
	if minX <= target && maxX >= target {
		c := col(target)
		for r := range canvas {
			canvas[r][c] = '│'
		}
	}
	for _, p := range portrait.Points {
		canvas[row(p.Y)][col(p.X)] = '•'
	}

	var sb strings.Builder
	for _, r := range canvas {
		sb.WriteString(string(r))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// padded widens [lo, hi] by a tenth on each side and never returns an empty
// range.
func padded(lo, hi float64) (float64, float64) {
	span := hi - lo
	if span == 0 {
		span = 1
	}
	return lo - 0.1*span, hi + 0.1*span
}
