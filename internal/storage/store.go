package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/san-kum/pidball/internal/config"
	"github.com/san-kum/pidball/internal/experiment"
	"github.com/san-kum/pidball/internal/metrics"
	"github.com/san-kum/pidball/internal/sim"
	"github.com/sirupsen/logrus"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
)

var (
	ErrRunNotFound = errors.New("storage: run not found")
	ErrBadSamples  = errors.New("storage: malformed samples file")
)

var sampleHeader = []string{"time", "target", "position", "velocity", "force"}

type Store struct {
	baseDir string
	log     logrus.FieldLogger
	now     func() time.Time
}

func New(baseDir string, log logrus.FieldLogger) *Store {
	return &Store{baseDir: baseDir, log: log, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Label     string             `json:"label,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Realtime  bool               `json:"realtime"`
	Steps     uint64             `json:"steps"`
	Samples   int                `json:"samples"`
	Config    config.Config      `json:"config"`
	Metrics   map[string]float64 `json:"metrics"`
}

func newRunID(now time.Time) string {
	return fmt.Sprintf("pidball_%d_%s", now.Unix(), shortuuid.New()[:8])
}

// Save writes the run to a new directory and returns its id. label is free
// text, usually the preset the run was started from.
func (s *Store) Save(label string, cfg experiment.Config, result *experiment.Result) (string, error) {
	now := s.now()
	runID := newRunID(now)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Label:     label,
		Timestamp: now,
		Realtime:  cfg.Realtime,
		Steps:     result.Steps,
		Samples:   len(result.Samples),
		Config:    cfg.Sim,
		Metrics:   result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, samplesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result.Samples); err != nil {
		return "", err
	}

	s.log.WithFields(logrus.Fields{"run": runID, "samples": len(result.Samples)}).Debug("run saved")
	return runID, nil
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			s.log.WithError(err).WithField("dir", entry.Name()).Warn("skipping run")
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}

	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]metrics.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file)
}

// WriteCSV writes samples with a header row.
func WriteCSV(w io.Writer, samples []metrics.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sampleHeader); err != nil {
		return err
	}

	f32 := func(v float32) string { return strconv.FormatFloat(float64(v), 'g', -1, 32) }
	for _, s := range samples {
		row := []string{
			strconv.FormatFloat(s.Time, 'f', 6, 64),
			f32(s.Target),
			f32(s.Position),
			f32(s.Velocity),
			f32(s.Force),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func ReadCSV(r io.Reader) ([]metrics.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(sampleHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSamples, err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("%w: missing header", ErrBadSamples)
	}

	samples := make([]metrics.Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		var vals [5]float64
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %s: %v", ErrBadSamples, i+2, sampleHeader[j], err)
			}
			vals[j] = v
		}
		samples = append(samples, metrics.Sample{
			Time:   vals[0],
			Target: float32(vals[1]),
			Snapshot: sim.Snapshot{
				Position: float32(vals[2]),
				Velocity: float32(vals[3]),
				Force:    float32(vals[4]),
			},
		})
	}

	return samples, nil
}
