package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"genqueens/internal/config"
)

// searchFlags are the search parameters shared by solve and bench.
type searchFlags struct {
	size            int
	population      int
	maxGenerations  int
	mutationRate    float64
	replacementRate float64
	seed            uint64
}

func (f *searchFlags) bind(fs *pflag.FlagSet) {
	fs.IntVarP(&f.size, "size", "n", config.DefaultBoardSize, "board size N")
	fs.IntVar(&f.population, "pop", config.DefaultPopulation, "genomes per generation")
	fs.IntVar(&f.maxGenerations, "max", config.DefaultMaxGenerations, "maximum generations; raise it for larger N")
	fs.Float64Var(&f.mutationRate, "mutation_rate", config.DefaultMutationRate, "probability that a child gets one random gene changed")
	fs.Float64Var(&f.replacementRate, "replacement_rate", config.DefaultReplacementRate, "fraction of each generation replaced by children")
	fs.Uint64Var(&f.seed, "seed", 0, "random seed (0 draws one from entropy)")
}

// resolve builds the run configuration: defaults, then the config file, then every flag
// that was set explicitly.
func (f *searchFlags) resolve(configPath string, fs *pflag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFile(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	set := make(map[string]bool)
	fs.Visit(func(fl *pflag.Flag) {
		set[fl.Name] = true
	})
	if err := overrideFromFlags(&cfg, set, map[string]any{
		"size":             f.size,
		"pop":              f.population,
		"max":              f.maxGenerations,
		"mutation_rate":    f.mutationRate,
		"replacement_rate": f.replacementRate,
		"seed":             f.seed,
	}); err != nil {
		return config.Config{}, err
	}
	return cfg, cfg.Validate()
}

func overrideFromFlags(cfg *config.Config, set map[string]bool, flagValue map[string]any) error {
	for name := range set {
		v, ok := flagValue[name]
		if !ok {
			continue
		}
		switch name {
		case "size":
			cfg.BoardSize = v.(int)
		case "pop":
			cfg.Population = v.(int)
		case "max":
			cfg.MaxGenerations = v.(int)
		case "mutation_rate":
			cfg.MutationRate = v.(float64)
		case "replacement_rate":
			cfg.ReplacementRate = v.(float64)
		case "seed":
			cfg.Seed = v.(uint64)
		default:
			return fmt.Errorf("unsupported override flag: %s", name)
		}
	}
	return nil
}
