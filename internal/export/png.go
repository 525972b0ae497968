package export

import (
	"errors"
	"image/color"
	"io"

	"github.com/san-kum/pidball/internal/metrics"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var ErrNoSamples = errors.New("export: need at least two samples")

var (
	positionColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	targetColor   = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	velocityColor = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}
	forceColor    = color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}
)

// PNG renders three stacked plots sharing the time axis: position with
// target, velocity and inductor force.
func PNG(w io.Writer, samples []metrics.Sample, width, height vg.Length) error {
	if len(samples) < 2 {
		return ErrNoSamples
	}
	n := len(samples)
	pos := make(plotter.XYs, n)
	target := make(plotter.XYs, n)
	vel := make(plotter.XYs, n)
	force := make(plotter.XYs, n)
	for i, s := range samples {
		pos[i] = plotter.XY{X: s.Time, Y: float64(s.Position)}
		target[i] = plotter.XY{X: s.Time, Y: float64(s.Target)}
		vel[i] = plotter.XY{X: s.Time, Y: float64(s.Velocity)}
		force[i] = plotter.XY{X: s.Time, Y: float64(s.Force)}
	}

	posPlot, err := linePlot("position", "m", series{"position", pos, positionColor, false}, series{"target", target, targetColor, true})
	if err != nil {
		return err
	}
	velPlot, err := linePlot("velocity", "m/s", series{"velocity", vel, velocityColor, false})
	if err != nil {
		return err
	}
	forcePlot, err := linePlot("force", "N", series{"force", force, forceColor, false})
	if err != nil {
		return err
	}
	forcePlot.X.Label.Text = "time (s)"

	plots := [][]*plot.Plot{{posPlot}, {velPlot}, {forcePlot}}
	img := vgimg.New(width, height)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      3,
		Cols:      1,
		PadX:      vg.Millimeter,
		PadY:      vg.Millimeter,
		PadTop:    vg.Points(4),
		PadBottom: vg.Points(4),
		PadLeft:   vg.Points(4),
		PadRight:  vg.Points(4),
	}

	canvases := plot.Align(plots, tiles, dc)
	for row := range plots {
		plots[row][0].Draw(canvases[row][0])
	}

	_, err = vgimg.PngCanvas{Canvas: img}.WriteTo(w)
	return err
}

type series struct {
	name   string
	xys    plotter.XYs
	color  color.Color
	dashed bool
}

func linePlot(title, unit string, lines ...series) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = unit
	p.Add(plotter.NewGrid())

	for _, s := range lines {
		l, err := plotter.NewLine(s.xys)
		if err != nil {
			return nil, err
		}
		l.Color = s.color
		l.Width = vg.Points(1)
		if s.dashed {
			l.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		}
		p.Add(l)
		if len(lines) > 1 {
			p.Legend.Add(s.name, l)
		}
	}
	return p, nil
}
