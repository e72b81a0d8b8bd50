package model

import "time"

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RunConfig is the configuration a run was started with, including the effective seed.
type RunConfig struct {
	BoardSize       int     `json:"board_size"`
	Population      int     `json:"population"`
	MaxGenerations  int     `json:"max_generations"`
	MutationRate    float64 `json:"mutation_rate"`
	ReplacementRate float64 `json:"replacement_rate"`
	Seed            uint64  `json:"seed"`
}

// GenomeRecord is a stored placement: Genes[file] = rank.
type GenomeRecord struct {
	Genes   []int   `json:"genes"`
	Fitness float64 `json:"fitness"`
}

// RunRecord summarises one solver run.
type RunRecord struct {
	VersionedRecord
	ID           string        `json:"id"`
	Config       RunConfig     `json:"config"`
	Best         GenomeRecord  `json:"best"`
	Correct      bool          `json:"correct"`
	Generations  int           `json:"generations"`
	Evaluations  int           `json:"evaluations"`
	Mutations    int           `json:"mutations"`
	SelfBred     int           `json:"self_bred"`
	Elapsed      time.Duration `json:"elapsed_ns"`
	CreatedAtUTC time.Time     `json:"created_at_utc"`
}

// GenerationStats is the per-generation summary persisted with a run.
type GenerationStats struct {
	Generation     int     `json:"generation"`
	BestFitness    float64 `json:"best_fitness"`
	AverageFitness float64 `json:"average_fitness"`
	MinFitness     float64 `json:"min_fitness"`
	StdDevFitness  float64 `json:"stddev_fitness"`
	Distinct       int     `json:"distinct"`
	Children       int     `json:"children"`
	Mutations      int     `json:"mutations"`
}
