// hostapi/cmd/apigen/module.go
package main

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/mod/modfile"
)

// defaultCapiImport is the capi runtime import used when neither the flags
// nor the package sources name one.
const defaultCapiImport = "github.com/sghaida/hostapi/capi"

// stdlibQualifiers are standard packages imported automatically when a type
// expression in the spec uses them.
var stdlibQualifiers = []string{"context", "io", "net", "time", "unsafe"}

// -------------------------
// go.mod helpers
// -------------------------

// findModule walks up from startDir to the nearest go.mod and returns its
// directory and module path.
func findModule(startDir string) (modRoot, modPath string, err error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", "", err
	}
	for {
		gomod := filepath.Join(dir, "go.mod")
		data, rerr := os.ReadFile(gomod)
		switch {
		case rerr == nil:
			mod := modfile.ModulePath(data)
			if mod == "" {
				return "", "", fmt.Errorf("go.mod missing module directive at %s", filepath.ToSlash(gomod))
			}
			return dir, mod, nil
		case !errors.Is(rerr, fs.ErrNotExist):
			return "", "", rerr
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", "", fmt.Errorf("could not find go.mod starting from %s", filepath.ToSlash(startDir))
}

// moduleImportPathForDir returns the import path of dir inside the module
// rooted at modRoot.
func moduleImportPathForDir(modRoot, modPath, dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(modRoot, absDir)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return modPath, nil
	}
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("directory is outside module root: dir=%s modRoot=%s", filepath.ToSlash(dir), filepath.ToSlash(modRoot))
	}
	return modPath + "/" + rel, nil
}

// inferInterfaceID returns the import path of the package the generated file
// lands in. That import path is the conventional interface id.
func inferInterfaceID(outPath string) (string, error) {
	pkgDir := filepath.Dir(outPath)
	modRoot, modPath, err := findModule(pkgDir)
	if err != nil {
		return "", fmt.Errorf("cannot infer interface id: %w", err)
	}
	id, err := moduleImportPathForDir(modRoot, modPath, pkgDir)
	if err != nil {
		return "", fmt.Errorf("cannot infer interface id: %w", err)
	}
	return id, nil
}

// -------------------------
// Imports
// -------------------------

// GoImport is one import line of the generated file.
type GoImport struct {
	Name string // optional alias
	Path string
}

// isGeneratedName reports whether a file name belongs to generator output.
func isGeneratedName(name string) bool {
	return strings.HasSuffix(name, ".gen.go") || strings.Contains(name, ".gen.") || strings.HasSuffix(name, "_gen.go")
}

// scanPackageImports reads the imports of the hand-written, non-test .go
// files in pkgDir.
func scanPackageImports(pkgDir string) []GoImport {
	entries, err := os.ReadDir(pkgDir)
	if err != nil {
		return nil
	}

	var out []GoImport
	fset := token.NewFileSet()
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") || isGeneratedName(name) {
			continue
		}
		full := filepath.Join(pkgDir, name)
		f, perr := parser.ParseFile(fset, full, nil, parser.ImportsOnly)
		if perr != nil {
			continue
		}
		out = append(out, fileImports(f.Imports)...)
	}
	return dedupeAndSortImports(out)
}

// readImportsFromExistingOut returns the imports of a previously generated
// file so imports added by hand survive regeneration.
func readImportsFromExistingOut(outPath string) []GoImport {
	if strings.TrimSpace(outPath) == "" {
		return nil
	}
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, outPath, nil, parser.ImportsOnly)
	if err != nil {
		return nil
	}
	return fileImports(f.Imports)
}

func fileImports(specs []*ast.ImportSpec) []GoImport {
	out := make([]GoImport, 0, len(specs))
	for _, imp := range specs {
		gi := GoImport{Path: strings.Trim(imp.Path.Value, "\"`")}
		if imp.Name != nil {
			gi.Name = imp.Name.Name
		}
		out = append(out, gi)
	}
	return out
}

// findImportBySuffix returns the first import whose path ends in suffix.
func findImportBySuffix(imports []GoImport, suffix string) (GoImport, bool) {
	for _, gi := range imports {
		if strings.HasSuffix(gi.Path, suffix) {
			return gi, true
		}
	}
	return GoImport{}, false
}

// resolveCapiImport picks the capi runtime import: an explicit override, then
// the one the package already uses, then the default.
func resolveCapiImport(override, pkgDir string) string {
	if strings.TrimSpace(override) != "" {
		return strings.TrimSpace(override)
	}
	if gi, ok := findImportBySuffix(scanPackageImports(pkgDir), "/capi"); ok {
		return gi.Path
	}
	return defaultCapiImport
}

// requiredImports lists the imports the template references for s.
func requiredImports(s *Spec, capiImport string) []GoImport {
	req := []GoImport{{Path: capiImport}}
	for _, imp := range s.Imports {
		req = append(req, GoImport(imp))
	}
	for _, pkg := range stdlibQualifiers {
		if usesQualifier(s, pkg) && !hasPath(req, pkg) {
			req = append(req, GoImport{Path: pkg})
		}
	}
	return req
}

func hasPath(imports []GoImport, path string) bool {
	for _, gi := range imports {
		if gi.Path == path {
			return true
		}
	}
	return false
}

func dedupeAndSortImports(imps []GoImport) []GoImport {
	seen := map[GoImport]bool{}
	out := make([]GoImport, 0, len(imps))
	for _, gi := range imps {
		if seen[gi] {
			continue
		}
		seen[gi] = true
		out = append(out, gi)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path == out[j].Path {
			return out[i].Name < out[j].Name
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// mergeImports unions required and preserved imports, sorted by path. A
// preserved import survives only while the generated code can still use it:
// blank and dot imports, paths that are also required, and imports whose
// local name still qualifies a type in s. A preserved named import replaces
// the unnamed required import of the same path, so a hand-chosen alias for
// the capi runtime survives regeneration.
func mergeImports(s *Spec, required, preserved []GoImport) []GoImport {
	kept := make([]GoImport, 0, len(preserved))
	for _, gi := range preserved {
		switch {
		case gi.Name == "_" || gi.Name == ".":
		case hasPath(required, gi.Path):
		case usesQualifier(s, localName(gi)):
		default:
			continue
		}
		kept = append(kept, gi)
	}

	named := map[string]bool{}
	for _, gi := range kept {
		if token.IsIdentifier(gi.Name) {
			named[gi.Path] = true
		}
	}

	all := make([]GoImport, 0, len(required)+len(kept))
	for _, gi := range required {
		if gi.Name == "" && named[gi.Path] {
			continue
		}
		all = append(all, gi)
	}
	all = append(all, kept...)
	return dedupeAndSortImports(all)
}

// localName is the identifier an import is referred to by.
func localName(gi GoImport) string {
	if gi.Name != "" {
		return gi.Name
	}
	return gi.Path[strings.LastIndex(gi.Path, "/")+1:]
}
