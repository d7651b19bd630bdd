// hostapi/cmd/apigen/spec.go
package main

import (
	"errors"
	"fmt"
	"go/token"
	"sort"
	"strings"
)

// Spec is the declaration file schema consumed by the generator. The same
// schema is read from JSON, YAML and HCL files.
type Spec struct {
	// Package is the Go package name of the generated file.
	Package string `json:"package" yaml:"package"`

	// ID is the capability interface id. Empty means "import path of the
	// output directory", computed from the nearest go.mod.
	ID string `json:"id" yaml:"id"`

	// Doc is the interface documentation.
	Doc string `json:"doc" yaml:"doc"`

	// Imports lists packages referenced by the types below. The capi runtime
	// import is always added.
	Imports []Import `json:"imports" yaml:"imports"`

	Aliases   []TypeDecl   `json:"aliases" yaml:"aliases"`
	Reexports []TypeDecl   `json:"reexports" yaml:"reexports"`
	Consts    []ConstDecl  `json:"consts" yaml:"consts"`
	Helpers   []HelperDecl `json:"helpers" yaml:"helpers"`
	Functions []FuncSpec   `json:"functions" yaml:"functions"`
}

// Import is one Go import with an optional alias.
type Import struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
}

// TypeDecl declares `type Name = Type`. For re-exports Name may be omitted;
// it defaults to the unqualified part of Type.
type TypeDecl struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
	Doc  string `json:"doc" yaml:"doc"`
}

// ConstDecl declares `const Name [Type] = Value`. Value is a Go expression.
type ConstDecl struct {
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type" yaml:"type"`
	Value string `json:"value" yaml:"value"`
	Doc   string `json:"doc" yaml:"doc"`
}

// HelperDecl names host-independent code written next to the generated file.
// It is recorded on the descriptor only.
type HelperDecl struct {
	Name string `json:"name" yaml:"name"`
	Doc  string `json:"doc" yaml:"doc"`
}

// FuncSpec is one capability function. A variadic last parameter is written
// with a leading "..." in its type.
type FuncSpec struct {
	Name    string   `json:"name" yaml:"name"`
	Doc     string   `json:"doc" yaml:"doc"`
	Params  []Param  `json:"params" yaml:"params"`
	Results []Result `json:"results" yaml:"results"`
}

// Param is a named function parameter.
type Param struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Result is a function result type.
type Result struct {
	Type string `json:"type" yaml:"type"`
}

// reservedNames are identifiers every generated file defines.
var reservedNames = map[string]bool{
	"API":            true,
	"InterfaceID":    true,
	"Implementation": true,
	"Bind":           true,
	"MustBind":       true,
}

// applyDefaults fills optional fields that have a fixed default.
func applyDefaults(s *Spec) {
	for i := range s.Reexports {
		r := &s.Reexports[i]
		if strings.TrimSpace(r.Name) == "" {
			r.Name = unqualified(r.Type)
		}
	}
	for i := range s.Functions {
		for j := range s.Functions[i].Params {
			p := &s.Functions[i].Params[j]
			if strings.TrimSpace(p.Name) == "" {
				p.Name = fmt.Sprintf("p%d", j)
			}
		}
	}
}

// validateSpec checks s and returns every problem found, joined.
func validateSpec(s *Spec) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if strings.TrimSpace(s.Package) == "" {
		add("spec missing: package")
	} else if !token.IsIdentifier(s.Package) {
		add("spec package %q is not an identifier", s.Package)
	}
	if strings.ContainsAny(s.ID, " \t\r\n") {
		add("spec id %q must not contain whitespace", s.ID)
	}
	if len(s.Functions) == 0 {
		add("spec functions must be non-empty")
	}
	for _, imp := range s.Imports {
		if strings.TrimSpace(imp.Path) == "" {
			add("import must have path")
		}
		if imp.Name != "" && imp.Name != "_" && imp.Name != "." && !token.IsIdentifier(imp.Name) {
			add("import name %q is not an identifier", imp.Name)
		}
	}

	// Top-level names share the package scope.
	declared := map[string]string{}
	declare := func(kind, name string) {
		switch {
		case !token.IsIdentifier(name):
			add("%s name %q is not an identifier", kind, name)
		case reservedNames[name]:
			add("%s name %q is reserved for generated code", kind, name)
		case declared[name] != "":
			add("%s name %q already declared as %s", kind, name, declared[name])
		default:
			declared[name] = kind
		}
	}

	for _, a := range s.Aliases {
		declare("alias", a.Name)
		if strings.TrimSpace(a.Type) == "" {
			add("alias %q must have type", a.Name)
		}
	}
	for _, r := range s.Reexports {
		if !strings.Contains(r.Type, ".") {
			add("reexport %q must name a qualified type (pkg.Name)", r.Type)
			continue
		}
		declare("reexport", r.Name)
	}
	for _, c := range s.Consts {
		declare("const", c.Name)
		if strings.TrimSpace(c.Value) == "" {
			add("const %q must have value", c.Name)
		}
	}
	for _, h := range s.Helpers {
		if !token.IsIdentifier(h.Name) {
			add("helper name %q is not an identifier", h.Name)
		}
	}

	for _, f := range s.Functions {
		declare("function", f.Name)
		if f.Name != "" && !token.IsExported(f.Name) {
			add("function %q must be exported", f.Name)
		}
		seenParams := map[string]bool{}
		for i, p := range f.Params {
			switch {
			case !token.IsIdentifier(p.Name):
				add("function %q: param name %q is not an identifier", f.Name, p.Name)
			case seenParams[p.Name]:
				add("function %q: duplicate param %q", f.Name, p.Name)
			}
			seenParams[p.Name] = true
			if strings.TrimSpace(p.Type) == "" {
				add("function %q: param %q must have type", f.Name, p.Name)
			}
			if strings.HasPrefix(p.Type, "...") && i != len(f.Params)-1 {
				add("function %q: only the last param may be variadic", f.Name)
			}
		}
		for _, r := range f.Results {
			if strings.TrimSpace(r.Type) == "" {
				add("function %q: result must have type", f.Name)
			}
		}
	}

	return errors.Join(errs...)
}

// typeExprs returns every type expression s mentions.
func typeExprs(s *Spec) []string {
	var out []string
	for _, a := range s.Aliases {
		out = append(out, a.Type)
	}
	for _, r := range s.Reexports {
		out = append(out, r.Type)
	}
	for _, c := range s.Consts {
		out = append(out, c.Type, c.Value)
	}
	for _, f := range s.Functions {
		for _, p := range f.Params {
			out = append(out, p.Type)
		}
		for _, r := range f.Results {
			out = append(out, r.Type)
		}
	}
	return out
}

// usesQualifier reports whether any type expression contains "pkg.".
func usesQualifier(s *Spec, pkg string) bool {
	needle := pkg + "."
	for _, t := range typeExprs(s) {
		for i := strings.Index(t, needle); i >= 0; {
			if i == 0 || !isIdentByte(t[i-1]) {
				return true
			}
			next := strings.Index(t[i+1:], needle)
			if next < 0 {
				break
			}
			i += next + 1
		}
	}
	return false
}

func isIdentByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// unqualified returns "Name" for "pkg.Name" and "*pkg.Name".
func unqualified(t string) string {
	t = strings.TrimLeft(strings.TrimSpace(t), "*")
	if i := strings.LastIndex(t, "."); i >= 0 {
		return t[i+1:]
	}
	return t
}

// sortedFunctionNames is used in log output.
func sortedFunctionNames(s *Spec) []string {
	out := make([]string, 0, len(s.Functions))
	for _, f := range s.Functions {
		out = append(out, f.Name)
	}
	sort.Strings(out)
	return out
}
