// Package config holds the immutable run configuration of the genetic N-queens solver.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBoardSize       = 8
	DefaultPopulation      = 1000
	DefaultMaxGenerations  = 50
	DefaultMutationRate    = 0.05
	DefaultReplacementRate = 0.75
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config is built once per run and never mutated by the solver.
type Config struct {
	// BoardSize is N: the genome length and board dimension. Crossover needs N >= 3.
	BoardSize int `yaml:"board_size" json:"board_size" validate:"min=3"`
	// Population is the number of genomes per generation.
	Population int `yaml:"population" json:"population" validate:"min=1"`
	// MaxGenerations bounds the search.
	MaxGenerations int `yaml:"max_generations" json:"max_generations" validate:"min=1"`
	// MutationRate is the per-child probability of one point mutation.
	MutationRate float64 `yaml:"mutation_rate" json:"mutation_rate" validate:"gte=0,lte=1"`
	// ReplacementRate is the fraction of each generation replaced by bred children.
	ReplacementRate float64 `yaml:"replacement_rate" json:"replacement_rate" validate:"gte=0,lte=1"`
	// Seed fixes the random source. Zero draws a seed from entropy.
	Seed uint64 `yaml:"seed" json:"seed"`
}

// Default returns the stock 8-queens configuration.
func Default() Config {
	return Config{
		BoardSize:       DefaultBoardSize,
		Population:      DefaultPopulation,
		MaxGenerations:  DefaultMaxGenerations,
		MutationRate:    DefaultMutationRate,
		ReplacementRate: DefaultReplacementRate,
	}
}

// Validate checks ranges. The solver may assume a validated config.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "min":
		if name == "BoardSize" {
			return fmt.Sprintf("board size must be >= %s (crossover needs a split point in [1, N-2]), got %v", fe.Param(), fe.Value())
		}
		return fmt.Sprintf("%s must be >= %s, got %v", fieldLabel(name), fe.Param(), fe.Value())
	case "gte", "lte":
		return fmt.Sprintf("%s must be in [0, 1], got %v", fieldLabel(name), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", fieldLabel(name), fe.Tag())
	}
}

func fieldLabel(name string) string {
	switch name {
	case "Population":
		return "population size"
	case "MaxGenerations":
		return "max generations"
	case "MutationRate":
		return "mutation rate"
	case "ReplacementRate":
		return "replacement rate"
	default:
		return strings.ToLower(name)
	}
}

// LoadFile reads a YAML file over the defaults and validates the result.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal renders cfg as YAML, the format LoadFile reads back.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
