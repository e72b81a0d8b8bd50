package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"genqueens/internal/logging"
	"genqueens/internal/render"
	"genqueens/internal/storage"
	"genqueens/internal/telemetry"
	api "genqueens/pkg/genqueens"
)

const (
	defaultArtifactsDir = "runs"
	defaultDBPath       = "genqueens.db"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{stdout: stdout, stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if ferr := a.finish(); err == nil {
		err = ferr
	}
	return err
}

// app carries the global flags and the collaborators built from them.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath   string
	storeKind    string
	dbPath       string
	artifactsDir string
	logLevel     string
	jsonLogs     bool
	color        string
	metricsFile  string
	traceFile    string

	logger  *slog.Logger
	client  *api.Client
	cleanup []func() error
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "genqueensctl",
		Short: "Solve the N-queens problem with a genetic algorithm",
		Long: `Solve the N-queens problem with a genetic algorithm.

Without a subcommand genqueensctl behaves like "genqueensctl solve" and defaults to
8 queens on a standard chess board.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w\n\n%s", err, cmd.UsageString())
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file; flags that are set override it")
	pf.StringVar(&a.storeKind, "store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	pf.StringVar(&a.dbPath, "db-path", defaultDBPath, "sqlite database path")
	pf.StringVar(&a.artifactsDir, "artifacts-dir", defaultArtifactsDir, `run artifact directory ("" disables artifacts)`)
	pf.StringVar(&a.logLevel, "log-level", "warn", "log level: debug|info|warn|error")
	pf.BoolVar(&a.jsonLogs, "json-logs", false, "write logs as JSON")
	pf.StringVar(&a.color, "color", "auto", "colour the board: auto|always|never")
	pf.StringVar(&a.metricsFile, "metrics-file", "", "write Prometheus metrics in textfile format to this path")
	pf.StringVar(&a.traceFile, "trace-file", "", "write OpenTelemetry spans as JSON to this path")

	solve := newSolveCmd(a)
	root.Flags().AddFlagSet(solve.Flags())
	root.RunE = solve.RunE

	root.AddCommand(solve, newBenchCmd(a), newRunsCmd(a), newShowCmd(a), newRenderCmd(a), newResetCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	level, err := logging.ParseLevel(a.logLevel)
	if err != nil {
		return err
	}
	a.logger = logging.New(logging.Config{
		Level:   level,
		JSON:    a.jsonLogs,
		Service: "genqueensctl",
		Output:  a.stderr,
	})

	if a.traceFile != "" {
		file, err := os.Create(a.traceFile)
		if err != nil {
			return fmt.Errorf("create trace file: %w", err)
		}
		shutdown, err := telemetry.SetupTracing(file)
		if err != nil {
			_ = file.Close()
			return err
		}
		a.cleanup = append(a.cleanup, func() error {
			err := shutdown(context.Background())
			if cerr := file.Close(); err == nil {
				err = cerr
			}
			return err
		})
	}

	client, err := api.New(api.Options{
		StoreKind:    a.storeKind,
		DBPath:       a.dbPath,
		ArtifactsDir: a.artifactsDir,
		Logger:       a.logger,
	})
	if err != nil {
		return err
	}
	a.client = client
	return nil
}

// finish releases what setup built. It runs whether or not the command succeeded.
func (a *app) finish() error {
	var first error
	if a.client != nil {
		if a.metricsFile != "" {
			if err := a.client.Metrics().WriteTextfile(a.metricsFile); err != nil {
				first = err
			}
		}
		if err := a.client.Close(); err != nil && first == nil {
			first = err
		}
	}
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		if err := a.cleanup[i](); err != nil && first == nil {
			first = err
		}
	}
	a.cleanup = nil
	return first
}

func (a *app) renderOptions() (render.Options, error) {
	opts := render.Options{}
	switch a.color {
	case "always":
		opts.Color = true
	case "never":
	case "auto":
		if f, ok := a.stdout.(*os.File); ok {
			opts.Color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	default:
		return opts, fmt.Errorf("unknown colour mode %q (auto|always|never)", a.color)
	}
	return opts, nil
}
