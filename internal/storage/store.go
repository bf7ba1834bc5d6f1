package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/Tex6298/levimage-sim/internal/levi"
	"github.com/Tex6298/levimage-sim/internal/sim"
)

// Store persists runs under a base directory, one subdirectory per run
// holding metadata.json and telemetry.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one stored run.
type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Duration  float64            `json:"duration"`
	Ticks     int                `json:"ticks"`
	FinalMode string             `json:"final_mode"`
	Params    levi.Params        `json:"params"`
	Metrics   map[string]float64 `json:"metrics"`
}

var csvHeader = []string{
	"time", "rpm", "theta", "omega", "temperature",
	"p_eddy", "p_gas", "p_viscous", "p_mechanical", "p_joule",
	"current", "duty", "mode",
}

// Save writes a completed run and returns its id.
func (s *Store) Save(name string, p levi.Params, duration float64, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	finalMode := levi.ModeIdle
	if n := len(result.Samples); n > 0 {
		finalMode = result.Samples[n-1].Mode
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Timestamp: time.Now(),
		Duration:  duration,
		Ticks:     result.Ticks,
		FinalMode: finalMode.String(),
		Params:    p,
		Metrics:   result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "telemetry.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}

	for _, t := range result.Samples {
		row := []string{
			f(t.Time), f(t.RPM), f(t.Theta), f(t.Omega), f(t.Temperature),
			f(t.Losses.Eddy), f(t.Losses.Gas), f(t.Losses.Viscous),
			f(t.Losses.Mechanical), f(t.JoulePower),
			f(t.Current), f(t.Duty), t.Mode.String(),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	return runID, w.Error()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// Load reads the metadata of a stored run.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// List returns metadata for all stored runs, oldest first.
func (s *Store) List() ([]*RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var runs []*RunMetadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Load(e.Name())
		if err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}
