package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/experiment"
	"github.com/san-kum/wavesim/internal/viz"
)

const (
	metadataFile = "metadata.json"
	configFile   = "config.yaml"
	probesFile   = "probes.csv"
	fieldFile    = "field.png"
)

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Frames    int                `json:"frames"`
	Time      float64            `json:"time"`
	Kernel    string             `json:"kernel"`
	Backend   string             `json:"backend"`
	Seed      int64              `json:"seed"`
	Elapsed   float64            `json:"elapsed_seconds"`
	Unstable  bool               `json:"unstable,omitempty"`
	Probes    []string           `json:"probes,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a run directory holding the metadata, the configuration, the
// probe traces and, when field is non-nil, a snapshot of the final field.
func (s *Store) Save(cfg *config.Config, res *experiment.Result, field image.Image) (string, error) {
	now := time.Now()
	if err := s.Init(); err != nil {
		return "", err
	}
	runID, err := s.createRunDir(fmt.Sprintf("%s_%s", res.Name, now.Format("20060102-150405.000000")))
	if err != nil {
		return "", err
	}
	runDir := filepath.Join(s.baseDir, runID)

	meta := RunMetadata{
		ID:        runID,
		Name:      res.Name,
		Timestamp: now,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Frames:    res.Frames,
		Time:      res.Time,
		Kernel:    cfg.Kernel,
		Backend:   cfg.Backend,
		Seed:      cfg.Seed,
		Elapsed:   res.Elapsed.Seconds(),
		Unstable:  res.Unstable,
		Metrics:   sanitize(res.Metrics),
	}
	for _, p := range res.Probes {
		meta.Probes = append(meta.Probes, p.Name)
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", err
	}
	if err := writeProbes(filepath.Join(runDir, probesFile), res.Probes); err != nil {
		return "", err
	}
	if field != nil {
		if err := viz.SavePNG(filepath.Join(runDir, fieldFile), field); err != nil {
			return "", err
		}
	}
	return runID, nil
}

// createRunDir creates base, or base-N if that is already taken.
func (s *Store) createRunDir(base string) (string, error) {
	id := base
	for i := 1; ; i++ {
		err := os.Mkdir(filepath.Join(s.baseDir, id), 0755)
		if err == nil {
			return id, nil
		}
		if !os.IsExist(err) {
			return "", err
		}
		id = fmt.Sprintf("%s-%d", base, i)
	}
}

// sanitize drops non-finite values, which encoding/json rejects.
func sanitize(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
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

func writeProbes(path string, probes []experiment.ProbeSeries) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if len(probes) == 0 {
		w.Flush()
		return w.Error()
	}

	header := []string{"time"}
	for _, p := range probes {
		header = append(header, p.Name)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, t := range probes[0].Times {
		row := []string{strconv.FormatFloat(t, 'f', 2, 64)}
		for _, p := range probes {
			v := 0.0
			if i < len(p.Samples) {
				v = p.Samples[i]
			}
			row = append(row, strconv.FormatFloat(v, 'g', 10, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every run with readable metadata, oldest first.
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
		return nil, err
	}
	return &meta, nil
}

// LoadConfig returns the configuration a run was started with.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}

// LoadProbes reads the probe traces of a run back.
func (s *Store) LoadProbes(runID string) ([]experiment.ProbeSeries, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, probesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return []experiment.ProbeSeries{}, nil
	}

	header := records[0]
	probes := make([]experiment.ProbeSeries, len(header)-1)
	for i := range probes {
		probes[i].Name = header[i+1]
	}

	for _, record := range records[1:] {
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: bad time %q: %w", probesFile, record[0], err)
		}
		for i := range probes {
			v, err := strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%s: bad sample %q: %w", probesFile, record[i+1], err)
			}
			probes[i].Times = append(probes[i].Times, t)
			probes[i].Samples = append(probes[i].Samples, v)
		}
	}
	return probes, nil
}

// FieldPath returns where the final field snapshot of a run is stored.
func (s *Store) FieldPath(runID string) string {
	return filepath.Join(s.baseDir, runID, fieldFile)
}
