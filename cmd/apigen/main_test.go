// hostapi/cmd/apigen/main_test.go
package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// parseConfig
// -------------------------

func TestParseConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := parseConfig([]string{"-spec", "kv.api.json"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "kv.api.json", cfg.specPath)
	assert.Equal(t, slog.LevelInfo, cfg.logLevel)
	assert.Equal(t, 300*time.Millisecond, cfg.debounce)
	assert.Equal(t, 4, cfg.jobs)
	assert.False(t, cfg.watch)
	assert.Empty(t, cfg.capiImport)
}

func TestParseConfig_EnvFallbacks(t *testing.T) {
	t.Setenv("APIGEN_CAPI_IMPORT", "example.com/rt/capi")
	t.Setenv("APIGEN_LOG_LEVEL", "debug")
	t.Setenv("APIGEN_DEBOUNCE", "1s")
	t.Setenv("APIGEN_JOBS", "9")

	cfg, err := parseConfig([]string{"-dir", "api"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "example.com/rt/capi", cfg.capiImport)
	assert.Equal(t, slog.LevelDebug, cfg.logLevel)
	assert.Equal(t, time.Second, cfg.debounce)
	assert.Equal(t, 9, cfg.jobs)

	// Flags win over the environment.
	cfg, err = parseConfig([]string{"-dir", "api", "-j", "2", "-log-level", "warn", "-capi", "x/capi"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.jobs)
	assert.Equal(t, slog.LevelWarn, cfg.logLevel)
	assert.Equal(t, "x/capi", cfg.capiImport)
}

func TestParseConfig_MalformedEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("APIGEN_DEBOUNCE", "soon")
	t.Setenv("APIGEN_JOBS", "many")

	cfg, err := parseConfig([]string{"-spec", "kv.api.json"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 300*time.Millisecond, cfg.debounce)
	assert.Equal(t, 4, cfg.jobs)
}

func TestParseConfig_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantSub string
	}{
		{name: "nothing", args: nil, wantSub: "missing -spec or -dir"},
		{name: "both", args: []string{"-spec", "a.api.json", "-dir", "."}, wantSub: "use only one of -spec or -dir"},
		{name: "out_with_dir", args: []string{"-dir", ".", "-out", "x.go"}, wantSub: "-out cannot be used with -dir"},
		{name: "bad_level", args: []string{"-spec", "a.api.json", "-log-level", "loud"}, wantSub: `invalid log level "loud"`},
		{name: "zero_debounce", args: []string{"-dir", ".", "-debounce", "0s"}, wantSub: "-debounce must be > 0"},
		{name: "zero_jobs", args: []string{"-dir", ".", "-j", "0"}, wantSub: "-j must be > 0"},
		{name: "unknown_flag", args: []string{"-nope"}, wantSub: "flag provided but not defined"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := parseConfig(tt.args, io.Discard)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantSub)
		})
	}
}

// -------------------------
// run
// -------------------------

func TestRun_SingleSpec(t *testing.T) {
	t.Parallel()

	p := newPkg(t, "kv")
	specPath := p.write("kv.api.hcl", storageHCL)

	var stderr bytes.Buffer
	code := run(context.Background(), []string{"-spec", specPath}, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.Contains(t, stderr.String(), "Generated capability interface.")
	assert.Contains(t, stderr.String(), "interface=example.com/proj/kv")
	assert.Contains(t, p.read("kv_api.gen.go"), `const InterfaceID = "example.com/proj/kv"`)
}

func TestRun_ExplicitOut(t *testing.T) {
	t.Parallel()

	p := newPkg(t, "kv")
	specPath := p.write("kv.api.json", storageJSON)
	out := filepath.Join(p.dir, "custom.gen.go")

	code := run(context.Background(), []string{"-spec", specPath, "-out", out, "-log-level", "error"}, io.Discard)
	require.Equal(t, 0, code)
	assert.FileExists(t, out)
	assert.NoFileExists(t, filepath.Join(p.dir, "kv_api.gen.go"))
}

func TestRun_UsageErrorsExitTwo(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), nil, &stderr))
	assert.Contains(t, stderr.String(), "apigen: missing -spec or -dir")
	assert.Contains(t, stderr.String(), "usage: apigen")

	stderr.Reset()
	assert.Equal(t, 2, run(context.Background(), []string{"-h"}, &stderr))
	assert.NotContains(t, stderr.String(), "apigen: flag: help requested")
}

func TestRun_GenerationFailureExitsOne(t *testing.T) {
	t.Parallel()

	p := newPkg(t, "kv")
	specPath := p.write("kv.api.json", `{"package":"kv"}`)

	var stderr bytes.Buffer
	assert.Equal(t, 1, run(context.Background(), []string{"-spec", specPath}, &stderr))
	assert.Contains(t, stderr.String(), "Generation failed.")
	assert.Contains(t, stderr.String(), "functions must be non-empty")
}

func TestRun_DirMode(t *testing.T) {
	t.Parallel()

	p := newPkg(t, "api")
	mustWriteFile(t, filepath.Join(p.dir, "kv", "kv.api.json"), storageJSON)
	mustWriteFile(t, filepath.Join(p.dir, "store", "store.api.yaml"), "package: store\nfunctions:\n  - name: Flush\n")
	// Skipped like the go tool skips them.
	for _, skipped := range []string{"_old", ".cache", "testdata", "vendor"} {
		mustWriteFile(t, filepath.Join(p.dir, skipped, "x.api.json"), "not a spec")
	}

	var stderr bytes.Buffer
	code := run(context.Background(), []string{"-dir", p.dir, "-j", "1"}, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.Contains(t, p.read(filepath.Join("kv", "kv_api.gen.go")), `const InterfaceID = "example.com/proj/api/kv"`)
	assert.Contains(t, p.read(filepath.Join("store", "store_api.gen.go")), "func Flush() {\n\tflushProxy.Get()()\n}")
	for _, skipped := range []string{"_old", ".cache", "testdata", "vendor"} {
		assert.NoFileExists(t, filepath.Join(p.dir, skipped, "x_api.gen.go"))
	}
}

func TestRun_DirWithoutSpecsExitsOne(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var stderr bytes.Buffer
	assert.Equal(t, 1, run(context.Background(), []string{"-dir", dir}, &stderr))
	assert.Contains(t, stderr.String(), "no declaration files under")
}

func TestRun_WatchStopsOnCancel(t *testing.T) {
	t.Parallel()

	p := newPkg(t, "kv")
	specPath := p.write("kv.api.json", storageJSON)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	go func() {
		done <- run(ctx, []string{"-spec", specPath, "-watch", "-debounce", "10ms", "-log-level", "error"}, io.Discard)
	}()

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(p.dir, "kv_api.gen.go"))
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case code := <-done:
		assert.Equal(t, 0, code)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

// -------------------------
// collectJobs / generateAll
// -------------------------

func TestCollectJobs_SingleSpec(t *testing.T) {
	t.Parallel()

	jobs, err := collectJobs(config{specPath: "api/./memory/memory.api.yaml"})
	require.NoError(t, err)
	assert.Equal(t, []job{{
		SpecPath: filepath.Join("api", "memory", "memory.api.yaml"),
		OutPath:  filepath.Join("api", "memory", "memory_api.gen.go"),
	}}, jobs)

	jobs, err = collectJobs(config{specPath: "kv.api.json", outPath: "out/kv.gen.go"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "kv.gen.go"), jobs[0].OutPath)
}

func TestCollectJobs_MissingDir(t *testing.T) {
	t.Parallel()

	_, err := collectJobs(config{dir: filepath.Join(t.TempDir(), "missing")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGenerateAll_CancelledContext(t *testing.T) {
	t.Parallel()

	p := newPkg(t, "kv")
	specPath := p.write("kv.api.json", storageJSON)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &generator{logger: discardLogger()}
	err := generateAll(ctx, gen, []job{{SpecPath: specPath, OutPath: defaultOutPath(specPath)}}, 2)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, defaultOutPath(specPath))
}
