package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/acoustix/devctl/internal/config"
	"github.com/acoustix/devctl/internal/doctor"
	"github.com/acoustix/devctl/internal/execx"
	"github.com/acoustix/devctl/internal/history"
	"github.com/acoustix/devctl/internal/lock"
	"github.com/acoustix/devctl/internal/log"
	"github.com/acoustix/devctl/internal/pipeline"
	"github.com/acoustix/devctl/internal/toolchain"
	"github.com/acoustix/devctl/internal/ui"
)

const version = "1.2.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		fmt.Fprintln(stderr, ui.DoneMarker())
		return 0
	}

	cmd := args[0]
	rest := args[1:]

	switch cmd {
	// --- PIPELINE SELECTORS ---
	case "local", "test", "docker", "deploy-package":
		return runPipeline(cmd, rest, stdout, stderr)

	// --- SUPPORTING COMMANDS ---
	case "history":
		return runHistory(rest, stdout, stderr)
	case "doctor":
		return runDoctor(rest, stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "devctl version %s\n", version)
		return 0
	case "help", "--help", "-h":
		printUsage(stdout)
		return 0

	default:
		// Unknown selectors are benign: enumerate what exists and exit clean.
		fmt.Fprintf(stderr, "Unknown selector: %s\n\n", cmd)
		printUsage(stderr)
		fmt.Fprintln(stderr, ui.DoneMarker())
		return 0
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `devctl - developer workflow dispatcher for the acoustix project

Usage:
  devctl <selector> [flags]

Selectors:
  local           Rebuild the virtual environment from scratch, install
                  dependencies, then run format, lint, and test gates
  test            Run format, lint, and test gates against the existing
                  virtual environment with verbose test output
  docker          Tear down the named test container and image, then rebuild
                  the image with a cache-busting build argument
  deploy-package  Build source and wheel distributions and verify the wheel
                  inside a fresh secondary environment

Supporting commands:
  history         Show recent pipeline runs
  doctor          Validate configuration and local tool setup
  version         Show version information
  help            Show this help message

Flags:
  --config PATH   Path to devctl.yaml. Default: $DEVCTL_CONFIG, ./devctl.yaml,
                  then ~/.config/devctl/devctl.yaml; built-in defaults apply
                  when no file is found.
`)
}

// runPipeline executes the pipeline behind one selector. The deferred marker
// covers every exit path of the invocation, success or failure.
func runPipeline(selector string, args []string, stdout, stderr io.Writer) (code int) {
	defer fmt.Fprintln(stderr, ui.DoneMarker())

	fs := flag.NewFlagSet(selector, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to configuration file")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log.Setup(cfg.Project.LogLevel)
	logger := log.WithComponent("main")
	logger.Info("devctl starting", "version", version, "selector", selector)

	runLock, err := lock.Acquire(cfg.State.Dir)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to acquire run lock: %v\n", err)
		return 1
	}
	defer runLock.Release()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Run history is best-effort: a broken state database must never block
	// the pipelines themselves.
	var store *history.Store
	db, err := history.Open(ctx, filepath.Join(cfg.State.Dir, "history.db"))
	if err != nil {
		logger.Warn("run history unavailable", "error", err)
	} else {
		defer db.Close()
		store = history.NewStore(db)
	}

	runner := &execx.ExecRunner{Stdout: stdout, Stderr: stderr}
	tc := toolchain.New(cfg, runner)

	var p pipeline.Pipeline
	switch selector {
	case "local":
		p = tc.Local()
	case "test":
		warnStaleRequirements(ctx, store, cfg, logger)
		p = tc.Test()
	case "docker":
		p = tc.Docker(time.Now())
	case "deploy-package":
		p = tc.DeployPackage()
	}

	res := pipeline.NewExecutor().Run(ctx, p)
	recordRun(ctx, store, cfg, res, logger)

	if failure := res.FirstFailure(); failure != nil {
		fmt.Fprintln(stderr, ui.FailureBanner(p.Name, failure.Name))
		return 1
	}
	return 0
}

func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		discovered, ok := config.Discover()
		if !ok {
			return config.Defaults(), nil
		}
		configPath = discovered
	}
	return config.Load(configPath)
}

func recordRun(ctx context.Context, store *history.Store, cfg *config.Config, res *pipeline.Result, logger *slog.Logger) {
	if store == nil {
		return
	}

	fingerprint, err := history.Fingerprint(cfg.Venv.Requirements)
	if err != nil {
		fingerprint = ""
	}
	if err := store.Record(ctx, history.NewRecord(res, fingerprint)); err != nil {
		logger.Warn("failed to record run", "error", err)
	}
}

// warnStaleRequirements flags a test run whose declared dependencies changed
// since the environment was last rebuilt by the local pipeline.
func warnStaleRequirements(ctx context.Context, store *history.Store, cfg *config.Config, logger *slog.Logger) {
	if store == nil {
		return
	}

	last, err := store.LastFingerprint(ctx, "local")
	if err != nil || last == "" {
		return
	}
	current, err := history.Fingerprint(cfg.Venv.Requirements)
	if err != nil || current == "" {
		return
	}
	if current != last {
		logger.Warn("declared dependencies changed since the environment was last rebuilt",
			"manifest", cfg.Venv.Requirements, "hint", "run 'devctl local'")
	}
}

func runHistory(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to configuration file")
	limit := fs.Int("n", 10, "Number of runs to show")
	jsonOut := fs.Bool("json", false, "Output in structured JSON format")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return 1
	}

	ctx := context.Background()
	db, err := history.Open(ctx, filepath.Join(cfg.State.Dir, "history.db"))
	if err != nil {
		fmt.Fprintf(stderr, "Failed to open history: %v\n", err)
		return 1
	}
	defer db.Close()

	runs, err := history.NewStore(db).Recent(ctx, *limit)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to read history: %v\n", err)
		return 1
	}

	if *jsonOut {
		data, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			fmt.Fprintf(stderr, "Failed to encode history: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, string(data))
		return 0
	}

	fmt.Fprint(stdout, ui.RenderHistory(runs))
	return 0
}

func runDoctor(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to configuration file")
	jsonOut := fs.Bool("json", false, "Output in structured JSON format")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return 1
	}

	result := doctor.New(cfg).Validate()

	if *jsonOut {
		out, err := doctor.FormatJSON(result)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to encode result: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, out)
	} else {
		fmt.Fprint(stdout, doctor.FormatHuman(result))
	}

	if !result.Valid {
		return 1
	}
	return 0
}
