package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/san-kum/wcsim/internal/dynamo"
	"github.com/san-kum/wcsim/internal/wilsoncowan"
	"gonum.org/v1/gonum/mat"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

// Store keeps one directory per run: metadata.json and states.csv.
type Store struct {
	baseDir string
	log     zerolog.Logger
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, log: zerolog.Nop()}
}

// WithLogger returns a copy of the store that logs to l.
func (s *Store) WithLogger(l zerolog.Logger) *Store {
	c := *s
	c.log = l
	return &c
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes a stored run. Params is set for two-population runs;
// Drive, Tau and Weights for network runs.
type RunMetadata struct {
	ID          string             `json:"id"`
	Model       string             `json:"model"`
	Preset      string             `json:"preset,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Populations int                `json:"populations"`
	Params      map[string]float64 `json:"params,omitempty"`
	Drive       []float64          `json:"drive,omitempty"`
	Tau         []float64          `json:"tau,omitempty"`
	Weights     [][]float64        `json:"weights,omitempty"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes a run and returns its id. ID, Timestamp, Populations and
// Metrics in meta are filled in from the trajectory.
func (s *Store) Save(meta RunMetadata, tr *wilsoncowan.Trajectory) (string, error) {
	meta.ID = fmt.Sprintf("%s_%s", meta.Model, uuid.NewString()[:8])
	meta.Timestamp = time.Now()
	meta.Populations = tr.Populations()
	meta.Metrics = make(map[string]float64, len(tr.Metrics))
	for name, v := range tr.Metrics {
		// JSON has no encoding for NaN or Inf.
		if math.IsNaN(v) || math.IsInf(v, 0) {
			s.log.Warn().Str("metric", name).Float64("value", v).Msg("dropping non-finite metric")
			continue
		}
		meta.Metrics[name] = v
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	if err := writeStates(filepath.Join(runDir, statesFile), tr); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}

	s.log.Debug().Str("id", meta.ID).Int("samples", len(tr.T)).Msg("run saved")
	return meta.ID, nil
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

func writeStates(path string, tr *wilsoncowan.Trajectory) error {
	if _, c := tr.Rates.Dims(); c != len(tr.T) {
		return dynamo.DimensionMismatch("rates columns", len(tr.T), c)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	n := tr.Populations()

	header := []string{"time"}
	for i := 0; i < n; i++ {
		header = append(header, fmt.Sprintf("r%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	row := make([]string, n+1)
	for k, t := range tr.T {
		row[0] = strconv.FormatFloat(t, 'g', -1, 64)
		for i := 0; i < n; i++ {
			row[i+1] = strconv.FormatFloat(tr.Rates.At(i, k), 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns all readable runs, oldest first.
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
			s.log.Warn().Err(err).Str("dir", entry.Name()).Msg("skipping unreadable run")
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadTrajectory reads states.csv back into a trajectory. Metrics come from
// the run metadata when it is readable.
func (s *Store) LoadTrajectory(runID string) (*wilsoncowan.Trajectory, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 || len(records[0]) < 2 {
		return nil, fmt.Errorf("run %s: no samples", runID)
	}

	n, m := len(records[0])-1, len(records)-1
	tr := &wilsoncowan.Trajectory{
		T:     make([]float64, m),
		Rates: mat.NewDense(n, m, nil),
	}

	for k, record := range records[1:] {
		if len(record) != n+1 {
			return nil, fmt.Errorf("run %s: row %d has %d fields, want %d", runID, k+1, len(record), n+1)
		}
		vals := make([]float64, n+1)
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: row %d: %w", runID, k+1, err)
			}
			vals[j] = v
		}
		tr.T[k] = vals[0]
		tr.Rates.SetCol(k, vals[1:])
	}

	if meta, err := s.Load(runID); err == nil {
		tr.Metrics = meta.Metrics
	}
	return tr, nil
}
