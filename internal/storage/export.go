package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/pidball/internal/metrics"
)

type ExportData struct {
	Run      RunMetadata `json:"run"`
	Times    []float64   `json:"times"`
	Target   []float32   `json:"target"`
	Position []float32   `json:"position"`
	Velocity []float32   `json:"velocity"`
	Force    []float32   `json:"force"`
}

// ExportJSON writes a run as column arrays.
func ExportJSON(w io.Writer, meta *RunMetadata, samples []metrics.Sample) error {
	data := ExportData{
		Run:      *meta,
		Times:    make([]float64, len(samples)),
		Target:   make([]float32, len(samples)),
		Position: make([]float32, len(samples)),
		Velocity: make([]float32, len(samples)),
		Force:    make([]float32, len(samples)),
	}

	for i, s := range samples {
		data.Times[i] = s.Time
		data.Target[i] = s.Target
		data.Position[i] = s.Position
		data.Velocity[i] = s.Velocity
		data.Force[i] = s.Force
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
