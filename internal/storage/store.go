// Package storage persists integrated orbits as run directories, one
// directory per run with a metadata file and the sampled trajectory.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sophialilleengen/mwlmc/internal/model"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one stored orbit run.
type RunMetadata struct {
	ID         string     `json:"id"`
	Timestamp  time.Time  `json:"timestamp"`
	DataDir    string     `json:"data_dir"`
	Position   [3]float64 `json:"position"` // kpc
	Velocity   [3]float64 `json:"velocity"` // km/s
	TBegin     float64    `json:"tbegin"`   // virial time
	TEnd       float64    `json:"tend"`
	Dt         float64    `json:"dt"`
	Integrator string     `json:"integrator"`
	Samples    int        `json:"samples"`
}

// Save writes one run under <name>_<unix>. The returned run ID names
// the new directory.
func (s *Store) Save(name string, meta RunMetadata, tr *model.Trajectory) (string, error) {
	runID := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Samples = tr.Len()

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "orbit.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"t", "x", "y", "z", "u", "v", "w"}); err != nil {
		return "", err
	}

	for i := 0; i < tr.Len(); i++ {
		row := []string{
			strconv.FormatFloat(tr.T[i], 'f', 6, 64),
			strconv.FormatFloat(tr.X[i], 'f', 6, 64),
			strconv.FormatFloat(tr.Y[i], 'f', 6, 64),
			strconv.FormatFloat(tr.Z[i], 'f', 6, 64),
			strconv.FormatFloat(tr.U[i], 'f', 6, 64),
			strconv.FormatFloat(tr.V[i], 'f', 6, 64),
			strconv.FormatFloat(tr.W[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// List returns the metadata of every readable run, in directory order.
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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrajectory reads a stored orbit back. Rows that fail to parse
// are skipped.
func (s *Store) LoadTrajectory(runID string) (*model.Trajectory, error) {
	csvPath := filepath.Join(s.baseDir, runID, "orbit.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	tr := &model.Trajectory{}
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) != 7 {
			continue
		}

		row := make([]float64, 7)
		ok := true
		for j, cell := range record {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				ok = false
				break
			}
			row[j] = v
		}
		if !ok {
			continue
		}

		tr.T = append(tr.T, row[0])
		tr.X = append(tr.X, row[1])
		tr.Y = append(tr.Y, row[2])
		tr.Z = append(tr.Z, row[3])
		tr.U = append(tr.U, row[4])
		tr.V = append(tr.V, row[5])
		tr.W = append(tr.W, row[6])
	}

	return tr, nil
}
