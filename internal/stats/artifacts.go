package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"genqueens/internal/model"
)

const (
	runIndexFile       = "run_index.json"
	generationsCSVFile = "generations.csv"
)

var generationsHeader = []string{
	"generation", "best_fitness", "average_fitness", "min_fitness", "stddev_fitness", "distinct", "children", "mutations",
}

// RunArtifacts is everything written to a run directory.
type RunArtifacts struct {
	RunID       string
	Config      model.RunConfig
	Best        model.GenomeRecord
	Correct     bool
	Generations []model.GenerationStats
}

// RunIndexEntry is one line of the run index kept at the artifact root.
type RunIndexEntry struct {
	RunID        string  `json:"run_id"`
	BoardSize    int     `json:"board_size"`
	Population   int     `json:"population"`
	Generations  int     `json:"generations"`
	Seed         uint64  `json:"seed"`
	Correct      bool    `json:"correct"`
	BestFitness  float64 `json:"best_fitness"`
	CreatedAtUTC string  `json:"created_at_utc"`
}

type bestArtifact struct {
	Genes   []int   `json:"genes"`
	Fitness float64 `json:"fitness"`
	Correct bool    `json:"correct"`
}

type configArtifact struct {
	RunID string `json:"run_id"`
	model.RunConfig
}

// WriteRunArtifacts writes config.json, generations.json, generations.csv and best.json
// under baseDir/<run-id> and returns that directory.
func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if artifacts.RunID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, artifacts.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "config.json"), configArtifact{RunID: artifacts.RunID, RunConfig: artifacts.Config}); err != nil {
		return "", err
	}
	generations := artifacts.Generations
	if generations == nil {
		generations = []model.GenerationStats{}
	}
	if err := writeJSON(filepath.Join(runDir, "generations.json"), generations); err != nil {
		return "", err
	}
	if err := WriteGenerationsCSV(filepath.Join(runDir, generationsCSVFile), generations); err != nil {
		return "", err
	}
	best := bestArtifact{Genes: artifacts.Best.Genes, Fitness: artifacts.Best.Fitness, Correct: artifacts.Correct}
	if err := writeJSON(filepath.Join(runDir, "best.json"), best); err != nil {
		return "", err
	}

	return runDir, nil
}

// ReadRunConfig loads config.json of a run; ok is false when the run has no artifacts.
func ReadRunConfig(baseDir, runID string) (model.RunConfig, bool, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, runID, "config.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return model.RunConfig{}, false, nil
		}
		return model.RunConfig{}, false, err
	}
	var cfg configArtifact
	if err := json.Unmarshal(data, &cfg); err != nil {
		return model.RunConfig{}, false, err
	}
	return cfg.RunConfig, true, nil
}

func AppendRunIndex(baseDir string, entry RunIndexEntry) error {
	if entry.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	index, err := ListRunIndex(baseDir)
	if err != nil {
		return err
	}

	for i := range index {
		if index[i].RunID == entry.RunID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, runIndexFile), index)
		}
	}

	index = append(index, entry)
	return writeJSON(filepath.Join(baseDir, runIndexFile), index)
}

// ListRunIndex returns the index newest first.
func ListRunIndex(baseDir string) ([]RunIndexEntry, error) {
	path := filepath.Join(baseDir, runIndexFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunIndexEntry{}, nil
		}
		return nil, err
	}

	var entries []RunIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	type indexedEntry struct {
		entry RunIndexEntry
		idx   int
	}
	indexed := make([]indexedEntry, len(entries))
	for i := range entries {
		indexed[i] = indexedEntry{entry: entries[i], idx: i}
	}
	sort.Slice(indexed, func(i, j int) bool {
		if indexed[i].entry.CreatedAtUTC == indexed[j].entry.CreatedAtUTC {
			// Later appends win ties.
			return indexed[i].idx > indexed[j].idx
		}
		return indexed[i].entry.CreatedAtUTC > indexed[j].entry.CreatedAtUTC
	})

	sorted := make([]RunIndexEntry, 0, len(indexed))
	for _, item := range indexed {
		sorted = append(sorted, item.entry)
	}
	return sorted, nil
}

func WriteGenerationsCSV(path string, generations []model.GenerationStats) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(generationsHeader); err != nil {
		return err
	}
	for _, g := range generations {
		if err := writer.Write([]string{
			strconv.Itoa(g.Generation),
			strconv.FormatFloat(g.BestFitness, 'f', -1, 64),
			strconv.FormatFloat(g.AverageFitness, 'f', -1, 64),
			strconv.FormatFloat(g.MinFitness, 'f', -1, 64),
			strconv.FormatFloat(g.StdDevFitness, 'f', -1, 64),
			strconv.Itoa(g.Distinct),
			strconv.Itoa(g.Children),
			strconv.Itoa(g.Mutations),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func readGenerationsCSV(path string) ([]model.GenerationStats, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return []model.GenerationStats{}, nil
		}
		return nil, err
	}
	if len(header) != len(generationsHeader) {
		return nil, fmt.Errorf("generations header must have %d columns, got %d", len(generationsHeader), len(header))
	}

	var out []model.GenerationStats
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row, err := parseGenerationRow(record)
		if err != nil {
			return nil, fmt.Errorf("generations row %d: %w", len(out)+1, err)
		}
		out = append(out, row)
	}
	return out, nil
}

func parseGenerationRow(record []string) (model.GenerationStats, error) {
	var (
		g   model.GenerationStats
		err error
	)
	ints := []struct {
		dst *int
		src string
	}{
		{&g.Generation, record[0]}, {&g.Distinct, record[5]}, {&g.Children, record[6]}, {&g.Mutations, record[7]},
	}
	for _, f := range ints {
		if *f.dst, err = strconv.Atoi(f.src); err != nil {
			return g, err
		}
	}
	floats := []struct {
		dst *float64
		src string
	}{
		{&g.BestFitness, record[1]}, {&g.AverageFitness, record[2]}, {&g.MinFitness, record[3]}, {&g.StdDevFitness, record[4]},
	}
	for _, f := range floats {
		if *f.dst, err = strconv.ParseFloat(f.src, 64); err != nil {
			return g, err
		}
	}
	return g, nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
