// hostapi/cmd/apigen/generate.go
package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"go/format"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"
)

// job is one declaration file and the file generated from it.
type job struct {
	SpecPath string
	OutPath  string
}

// defaultOutPath maps "memory.api.yaml" to "memory_api.gen.go" next to it.
func defaultOutPath(specPath string) string {
	dir, base := filepath.Split(specPath)
	for _, ext := range specExtensions {
		if strings.HasSuffix(base, ext) {
			base = strings.TrimSuffix(base, ext)
			break
		}
	}
	return filepath.Join(dir, base+"_api.gen.go")
}

// generator renders declaration files into Go source.
type generator struct {
	capiImport string
	logger     *slog.Logger
}

// generate reads j.SpecPath, validates it and writes j.OutPath.
func (g *generator) generate(j job) error {
	raw, err := os.ReadFile(j.SpecPath)
	if err != nil {
		return err
	}

	src, spec, err := g.render(j, raw)
	if err != nil {
		return err
	}
	if err := writeFormatted(j.OutPath, src); err != nil {
		return err
	}

	g.logger.Info("Generated capability interface.",
		"spec", filepath.ToSlash(j.SpecPath),
		"out", filepath.ToSlash(j.OutPath),
		"interface", spec.ID,
		"functions", sortedFunctionNames(spec),
	)
	return nil
}

// render decodes raw and executes the template. The returned source is not
// yet gofmt'ed.
func (g *generator) render(j job, raw []byte) ([]byte, *Spec, error) {
	spec, err := decodeSpec(j.SpecPath, raw)
	if err != nil {
		return nil, nil, err
	}
	applyDefaults(spec)
	if err := validateSpec(spec); err != nil {
		return nil, nil, fmt.Errorf("invalid spec %s:\n%w", filepath.ToSlash(j.SpecPath), err)
	}

	if spec.ID == "" {
		id, err := inferInterfaceID(j.OutPath)
		if err != nil {
			return nil, nil, err
		}
		spec.ID = id
	}

	capiImport := resolveCapiImport(g.capiImport, filepath.Dir(j.OutPath))
	imports := mergeImports(spec, requiredImports(spec, capiImport), readImportsFromExistingOut(j.OutPath))
	std, others := splitStdImports(imports)

	data := map[string]any{
		"Spec":     spec,
		"SpecPath": filepath.ToSlash(filepath.Base(j.SpecPath)),
		"SpecHash": sha256Hex(raw),
		"Std":      std,
		"Others":   others,
		"Capi":     importIdent(imports, capiImport),
	}

	var sb strings.Builder
	if err := apiTpl.Execute(&sb, data); err != nil {
		return nil, nil, err
	}
	return []byte(sb.String()), spec, nil
}

// importIdent is the identifier the generated code uses for path.
func importIdent(imports []GoImport, path string) string {
	for _, gi := range imports {
		if gi.Path == path && gi.Name != "" && gi.Name != "_" && gi.Name != "." {
			return gi.Name
		}
	}
	return path[strings.LastIndex(path, "/")+1:]
}

// splitStdImports separates standard library imports (no dot in the first
// path element) from the rest, keeping order.
func splitStdImports(imports []GoImport) (std, others []GoImport) {
	for _, gi := range imports {
		first, _, _ := strings.Cut(gi.Path, "/")
		if strings.Contains(first, ".") {
			others = append(others, gi)
		} else {
			std = append(std, gi)
		}
	}
	return std, others
}

// writeFormatted gofmts src and writes it atomically. On a format error the
// unformatted source is left in place for inspection.
func writeFormatted(out string, src []byte) error {
	fmtSrc, err := format.Source(src)
	if err != nil {
		_ = writeFileAtomic(out, src, 0o644)
		return fmt.Errorf("gofmt/format failed for %s: %w", filepath.ToSlash(out), err)
	}
	return writeFileAtomic(out, fmtSrc, 0o644)
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// -------------------------
// Template helpers
// -------------------------

func lowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[n:]
}

// paramList renders "key []byte, parts ...string".
func paramList(f FuncSpec) string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.Name + " " + p.Type
	}
	return strings.Join(parts, ", ")
}

// argList renders the forwarding arguments "key, parts...".
func argList(f FuncSpec) string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.Name
		if strings.HasPrefix(p.Type, "...") {
			parts[i] += "..."
		}
	}
	return strings.Join(parts, ", ")
}

// resultList renders "", " T" or " (A, B)".
func resultList(f FuncSpec) string {
	switch len(f.Results) {
	case 0:
		return ""
	case 1:
		return " " + f.Results[0].Type
	}
	parts := make([]string, len(f.Results))
	for i, r := range f.Results {
		parts[i] = r.Type
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

// funcType renders the declared func type literal.
func funcType(f FuncSpec) string {
	return "func(" + paramList(f) + ")" + resultList(f)
}

// comment renders a doc comment starting with name. fallback is used when doc
// is empty.
func comment(name, doc, fallback string) string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		doc = fallback
	}
	lines := strings.Split(doc, "\n")
	lines[0] = name + " " + lines[0]
	for i, ln := range lines {
		lines[i] = strings.TrimRight("// "+ln, " ")
	}
	return strings.Join(lines, "\n")
}

// -------------------------
// Template
// -------------------------

var apiTpl = template.Must(
	template.New("api").
		Funcs(template.FuncMap{
			"lowerFirst": lowerFirst,
			"params":     paramList,
			"args":       argList,
			"results":    resultList,
			"funcType":   funcType,
			"comment":    comment,
			"hasResults": func(f FuncSpec) bool { return len(f.Results) > 0 },
		}).
		Parse(`// Code generated by apigen; DO NOT EDIT.
// Spec: {{.SpecPath}}
// Spec-SHA256: {{.SpecHash}}

package {{.Spec.Package}}

import (
{{- range .Std }}
	{{ if .Name }}{{ .Name }} {{ end }}"{{ .Path }}"
{{- end }}
{{- if and .Std .Others }}
{{ end }}
{{- range .Others }}
	{{ if .Name }}{{ .Name }} {{ end }}"{{ .Path }}"
{{- end }}
)
{{ range .Spec.Aliases }}
{{ comment .Name .Doc "is an alias declared by this interface." }}
type {{ .Name }} = {{ .Type }}
{{ end }}
{{- range .Spec.Reexports }}
{{ comment .Name .Doc "is re-exported for implementers and callers." }}
type {{ .Name }} = {{ .Type }}
{{ end }}
{{- range .Spec.Consts }}
{{ comment .Name .Doc "is a constant declared by this interface." }}
const {{ .Name }}{{ if .Type }} {{ .Type }}{{ end }} = {{ .Value }}
{{ end }}
// InterfaceID is the capability interface id of package {{.Spec.Package}}.
const InterfaceID = {{ printf "%q" .Spec.ID }}

// API is the descriptor of the {{.Spec.Package}} capability interface.
var API = {{.Capi}}.MustDeclare(InterfaceID,
{{- if .Spec.Doc }}
	{{.Capi}}.Doc({{ printf "%q" .Spec.Doc }}),
{{- end }}
{{- range .Spec.Aliases }}
	{{$.Capi}}.AliasOf[{{ .Type }}]({{ printf "%q" .Name }}, {{ printf "%q" .Doc }}),
{{- end }}
{{- range .Spec.Reexports }}
	{{$.Capi}}.Reexport[{{ .Type }}]({{ printf "%q" .Doc }}),
{{- end }}
{{- range .Spec.Consts }}
	{{$.Capi}}.Const({{ printf "%q" .Name }}, {{ .Name }}, {{ printf "%q" .Doc }}),
{{- end }}
{{- range .Spec.Helpers }}
	{{$.Capi}}.Helper({{ printf "%q" .Name }}, {{ printf "%q" .Doc }}),
{{- end }}
{{- range .Spec.Functions }}
	{{$.Capi}}.Func[{{ funcType . }}]({{ printf "%q" .Name }}, {{ printf "%q" .Doc }}),
{{- end }}
)

var (
{{- range .Spec.Functions }}
	{{ lowerFirst .Name }}Proxy = {{$.Capi}}.Fn[{{ funcType . }}](API, {{ printf "%q" .Name }})
{{- end }}
)
{{ range .Spec.Functions }}
{{ comment .Name .Doc "calls the bound implementation." }}
func {{ .Name }}({{ params . }}){{ results . }} {
	{{ if hasResults . }}return {{ end }}{{ lowerFirst .Name }}Proxy.Get()({{ args . }})
}
{{ end }}
// Implementation is the host side of the {{.Spec.Package}} interface. Bind
// checks at compile time that a host type provides every function.
type Implementation interface {
{{- range .Spec.Functions }}
	{{ .Name }}({{ params . }}){{ results . }}
{{- end }}
}

// Bind installs impl as the binding of the {{.Spec.Package}} interface in the
// default registry.
func Bind(impl Implementation) error {
	return {{.Capi}}.Bind({{.Capi}}.Implement(InterfaceID).Methods(impl))
}

// MustBind is like Bind but panics on error.
func MustBind(impl Implementation) {
	{{.Capi}}.MustBind({{.Capi}}.Implement(InterfaceID).Methods(impl))
}
`))
