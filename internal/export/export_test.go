package export

import (
	"bytes"
	"encoding/xml"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/pidball/internal/metrics"
	"github.com/san-kum/pidball/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

func trace(n int) []metrics.Sample {
	out := make([]metrics.Sample, n)
	for i := range out {
		t := float64(i) * 0.02
		out[i] = metrics.Sample{
			Time:   t,
			Target: 0.5,
			Snapshot: sim.Snapshot{
				Position: float32(0.5 - 0.25*math.Exp(-t)),
				Velocity: float32(0.25 * math.Exp(-t)),
				Force:    float32(12 + math.Sin(t)),
			},
		}
	}
	return out
}

func TestPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, trace(100), 6*vg.Inch, 8*vg.Inch))

	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Positive(t, cfg.Width)
	assert.Greater(t, cfg.Height, cfg.Width)
}

func TestSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, trace(50), 800, 300))

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "<path"))
	assert.Equal(t, 2*49, strings.Count(out, " L"), "one segment per sample after the first in each path")

	var doc struct {
		XMLName xml.Name `xml:"svg"`
		Width   int      `xml:"width,attr"`
	}
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 800, doc.Width)
}

func TestTooFewSamples(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, SVG(&buf, trace(1), 10, 10), ErrNoSamples)
	assert.ErrorIs(t, PNG(&buf, nil, vg.Inch, vg.Inch), ErrNoSamples)
}
