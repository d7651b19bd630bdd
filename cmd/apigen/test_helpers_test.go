package main

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

//
// -----------------------------------------------------------------------------
// Fixtures
// -----------------------------------------------------------------------------

const storageJSON = `{
  "package": "kv",
  "doc": "Key/value storage",
  "consts": [{ "name": "MaxKeyLen", "value": "256", "doc": "is the key limit." }],
  "functions": [
    {
      "name": "Read",
      "doc": "returns the value stored under key.",
      "params": [{ "name": "key", "type": "[]byte" }],
      "results": [{ "type": "[]byte" }, { "type": "bool" }]
    },
    {
      "name": "Write",
      "params": [{ "name": "key", "type": "[]byte" }, { "name": "value", "type": "[]byte" }],
      "results": [{ "type": "bool" }]
    }
  ]
}`

const storageYAML = `package: kv
doc: Key/value storage
consts:
  - name: MaxKeyLen
    value: "256"
    doc: is the key limit.
functions:
  - name: Read
    doc: returns the value stored under key.
    params:
      - name: key
        type: "[]byte"
    results:
      - type: "[]byte"
      - type: bool
  - name: Write
    params:
      - name: key
        type: "[]byte"
      - name: value
        type: "[]byte"
    results:
      - type: bool
`

const storageHCL = `package = "kv"
doc     = "Key/value storage"

const "MaxKeyLen" {
  value = 256
  doc   = "is the key limit."
}

function "Read" {
  doc = "returns the value stored under key."
  param "key" { type = "[]byte" }
  result { type = "[]byte" }
  result { type = "bool" }
}

function "Write" {
  param "key" { type = "[]byte" }
  param "value" { type = "[]byte" }
  result { type = "bool" }
}
`

//
// -----------------------------------------------------------------------------
// Package harness
// -----------------------------------------------------------------------------

// pkgHarness is a temporary module "example.com/proj" with one package dir.
type pkgHarness struct {
	t    *testing.T
	root string
	dir  string
}

func newPkg(t *testing.T, rel string) *pkgHarness {
	t.Helper()
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "go.mod"), "module example.com/proj\n\ngo 1.25\n")
	dir := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return &pkgHarness{t: t, root: root, dir: dir}
}

func (p *pkgHarness) write(name, content string) string {
	p.t.Helper()
	path := filepath.Join(p.dir, name)
	mustWriteFile(p.t, path, content)
	return path
}

func (p *pkgHarness) read(name string) string {
	p.t.Helper()
	b, err := os.ReadFile(filepath.Join(p.dir, name))
	require.NoError(p.t, err)
	return string(b)
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// requireParses asserts src is a syntactically valid Go file.
func requireParses(t *testing.T, src string) {
	t.Helper()
	_, err := parser.ParseFile(token.NewFileSet(), "gen.go", src, parser.AllErrors)
	require.NoError(t, err, src)
}

// assertContainsInOrder asserts every part appears in s, in order.
func assertContainsInOrder(t *testing.T, s string, parts ...string) {
	t.Helper()
	pos := 0
	for _, part := range parts {
		i := strings.Index(s[pos:], part)
		if i < 0 {
			t.Fatalf("missing %q after offset %d in:\n%s", part, pos, s)
		}
		pos += i + len(part)
	}
}

//
// -----------------------------------------------------------------------------
// writeFileAtomic() seam helpers
// -----------------------------------------------------------------------------

// fakeTempFile is a controllable file-like object for writeFileAtomic tests.
type fakeTempFile struct {
	fileName string
	writeErr error
	closeErr error
}

func (f *fakeTempFile) Name() string { return f.fileName }

func (f *fakeTempFile) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	return len(p), nil
}

func (f *fakeTempFile) Close() error { return f.closeErr }

// overrideWriteSeams replaces the given seams for the duration of t.
// Pass nil for any seam you don't want to override.
func overrideWriteSeams(
	t *testing.T,
	createFn func(string, string) (tempFile, error),
	removeFn func(string) error,
	chmodFn func(string, os.FileMode) error,
	renameFn func(string, string) error,
) {
	t.Helper()

	origCreate, origRemove, origChmod, origRename := createTempFile, removeFile, chmodFile, renameFile
	t.Cleanup(func() {
		createTempFile, removeFile, chmodFile, renameFile = origCreate, origRemove, origChmod, origRename
	})

	if createFn != nil {
		createTempFile = createFn
	}
	if removeFn != nil {
		removeFile = removeFn
	}
	if chmodFn != nil {
		chmodFile = chmodFn
	}
	if renameFn != nil {
		renameFile = renameFn
	}
}
