// Package storage keeps headless runs on disk: metadata and the final
// config as JSON and YAML, metric series and the final particles as CSV.
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

	"github.com/san-kum/anomaly/internal/config"
	"github.com/san-kum/anomaly/internal/dynamo"
	"github.com/san-kum/anomaly/internal/physics"
)

const (
	metadataFile  = "metadata.json"
	configFile    = "config.yaml"
	seriesFile    = "series.csv"
	particlesFile = "particles.csv"
)

var ErrNoRun = errors.New("storage: no such run")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Preset     string             `json:"preset"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Pairs      int                `json:"pairs"`
	Dt         float64            `json:"dt"`
	Frames     int                `json:"frames"`
	Time       float64            `json:"time"`
	Integrator string             `json:"integrator"`
	Backend    string             `json:"backend"`
	Metrics    map[string]float64 `json:"metrics"`
	Errors     []string           `json:"errors,omitempty"`
}

// Save writes one run and returns its id. final may be nil.
func (s *Store) Save(preset string, cfg *config.Config, result *dynamo.Result, final *physics.Simulation) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", preset, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Preset:     preset,
		Timestamp:  now,
		Seed:       cfg.Seed,
		Pairs:      cfg.Pairs,
		Dt:         cfg.Dt,
		Frames:     result.Frames,
		Time:       result.Time,
		Integrator: cfg.Engine.Integrator,
		Backend:    cfg.Engine.Backend,
		Metrics:    result.Metrics,
	}
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, seriesFile), result, cfg.Dt); err != nil {
		return "", err
	}
	if final != nil {
		if err := writeParticles(filepath.Join(runDir, particlesFile), final); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// seriesNames is the column order of series.csv.
func seriesNames(series map[string][]float64) []string {
	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// writeSeries stores one row per kept frame. Series may have been trimmed
// to a history limit, so times count back from the result time.
func writeSeries(path string, result *dynamo.Result, dt float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	names := seriesNames(result.Series)
	if err := w.Write(append([]string{"time"}, names...)); err != nil {
		return err
	}

	rows := 0
	for _, name := range names {
		rows = max(rows, len(result.Series[name]))
	}
	for i := 0; i < rows; i++ {
		t := result.Time - float64(rows-1-i)*dt
		row := []string{strconv.FormatFloat(t, 'f', 6, 64)}
		for _, name := range names {
			vals := result.Series[name]
			if i < len(vals) {
				row = append(row, strconv.FormatFloat(vals[i], 'g', -1, 64))
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

var particleHeader = []string{"kind", "family", "flavor", "stable", "active", "px", "py", "pz", "vx", "vy", "vz"}

func writeParticles(path string, s *physics.Simulation) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(particleHeader); err != nil {
		return err
	}

	for _, p := range s.Particles() {
		row := []string{
			p.Kind.String(),
			strconv.Itoa(p.Family),
			strconv.Itoa(p.Flavor),
			strconv.FormatBool(p.Stable),
			strconv.FormatBool(p.Active),
		}
		for _, v := range p.Position {
			row = append(row, strconv.FormatFloat(float64(v), 'g', -1, 32))
		}
		for _, v := range p.Velocity {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
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
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoRun, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadConfig returns the config a run was made with, so it can be replayed.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}

// LoadSeries reads series.csv back into per-metric series and sample times.
func (s *Store) LoadSeries(runID string) (map[string][]float64, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNoRun, runID)
		}
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	series := make(map[string][]float64)
	if len(records) == 0 {
		return series, []float64{}, nil
	}

	header := records[0]
	for _, name := range header[1:] {
		series[name] = make([]float64, 0, len(records)-1)
	}
	times := make([]float64, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)

		for j := 1; j < len(record) && j < len(header); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			series[header[j]] = append(series[header[j]], val)
		}
	}

	return series, times, nil
}

type ExportData struct {
	RunMetadata
	Times  []float64            `json:"times"`
	Series map[string][]float64 `json:"series"`
}

// ExportJSON writes a run's metadata and series as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	series, times, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{RunMetadata: *meta, Times: times, Series: series})
}
