// hostapi/cmd/apigen/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

// This binary generates capability interface packages.
//
// It reads a declaration file (*.api.json, *.api.yaml, *.api.yml or *.api.hcl)
// describing one capability interface of a low-level component, and writes a
// gofmt'ed Go file that:
// - declares the interface in the capi default registry (package var API)
// - defines one plain proxy function per capability function
// - defines an Implementation interface plus Bind/MustBind for the host
//
// Output is written atomically (temp file + rename). Imports added by hand to
// a previously generated file are preserved.

// config is the resolved command line + environment configuration.
type config struct {
	specPath   string
	outPath    string
	dir        string
	watch      bool
	capiImport string
	logLevel   slog.Level
	debounce   time.Duration
	jobs       int
}

// parseConfig reads flags, falling back to APIGEN_* environment variables.
func parseConfig(args []string, stderr io.Writer) (config, error) {
	flags := flag.NewFlagSet("apigen", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var cfg config
	var level string
	flags.StringVar(&cfg.specPath, "spec", "", "path to a declaration file (*.api.json|yaml|yml|hcl)")
	flags.StringVar(&cfg.outPath, "out", "", "output .gen.go path (default: <name>_api.gen.go next to -spec)")
	flags.StringVar(&cfg.dir, "dir", "", "generate every declaration file under this directory")
	flags.BoolVar(&cfg.watch, "watch", false, "keep running and regenerate when a declaration file changes")
	flags.StringVar(&cfg.capiImport, "capi", getenv("APIGEN_CAPI_IMPORT", ""), "import path of the capi runtime (env APIGEN_CAPI_IMPORT)")
	flags.StringVar(&level, "log-level", getenv("APIGEN_LOG_LEVEL", "info"), "debug|info|warn|error (env APIGEN_LOG_LEVEL)")
	flags.DurationVar(&cfg.debounce, "debounce", getenvDuration("APIGEN_DEBOUNCE", 300*time.Millisecond), "quiet period before regenerating in -watch mode (env APIGEN_DEBOUNCE)")
	flags.IntVar(&cfg.jobs, "j", getenvInt("APIGEN_JOBS", 4), "concurrent generations in -dir mode (env APIGEN_JOBS)")

	if err := flags.Parse(args); err != nil {
		return config{}, err
	}

	if err := cfg.logLevel.UnmarshalText([]byte(level)); err != nil {
		return config{}, fmt.Errorf("invalid log level %q", level)
	}

	switch {
	case cfg.specPath != "" && cfg.dir != "":
		return config{}, errors.New("use only one of -spec or -dir")
	case cfg.specPath == "" && cfg.dir == "":
		return config{}, errors.New("missing -spec or -dir")
	case cfg.dir != "" && cfg.outPath != "":
		return config{}, errors.New("-out cannot be used with -dir")
	}
	if cfg.debounce <= 0 {
		return config{}, errors.New("-debounce must be > 0")
	}
	if cfg.jobs <= 0 {
		return config{}, errors.New("-j must be > 0")
	}
	return cfg, nil
}

// run executes the generator and returns an exit code. It exists separately
// from main so tests can drive it without os.Exit.
func run(ctx context.Context, args []string, stderr io.Writer) int {
	cfg, err := parseConfig(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			_, _ = fmt.Fprintln(stderr, "apigen:", err)
			_, _ = fmt.Fprintln(stderr, "usage: apigen -spec <file.api.json> [-out <file.gen.go>] | -dir <root> [-watch]")
		}
		return 2
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.logLevel}))
	gen := &generator{capiImport: cfg.capiImport, logger: logger}

	jobs, err := collectJobs(cfg)
	if err != nil {
		logger.Error("Failed to collect declaration files.", "err", err)
		return 1
	}

	if err := generateAll(ctx, gen, jobs, cfg.jobs); err != nil {
		logger.Error("Generation failed.", "err", err)
		if !cfg.watch {
			return 1
		}
	}

	if cfg.watch {
		if err := newWatcher(gen, jobs, cfg.debounce, logger).run(ctx); err != nil {
			logger.Error("Watch failed.", "err", err)
			return 1
		}
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

// collectJobs resolves the files to generate for cfg.
func collectJobs(cfg config) ([]job, error) {
	if cfg.specPath != "" {
		out := cfg.outPath
		if strings.TrimSpace(out) == "" {
			out = defaultOutPath(cfg.specPath)
		}
		return []job{{SpecPath: filepath.Clean(cfg.specPath), OutPath: filepath.Clean(out)}}, nil
	}

	var jobs []job
	err := filepath.WalkDir(cfg.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Same skip rules as the go tool.
			name := d.Name()
			if path != cfg.dir && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata" || name == "vendor") {
				return filepath.SkipDir
			}
			return nil
		}
		if isSpecFile(d.Name()) {
			jobs = append(jobs, job{SpecPath: path, OutPath: defaultOutPath(path)})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("no declaration files under %s", filepath.ToSlash(cfg.dir))
	}
	return jobs, nil
}

// generateAll runs every job with at most limit in flight and returns the
// first failure. Jobs write distinct files.
func generateAll(ctx context.Context, gen *generator, jobs []job, limit int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return gen.generate(j)
		})
	}
	return g.Wait()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
