// hostapi/cmd/apigen/load.go
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// specExtensions are the declaration file suffixes the generator understands.
var specExtensions = []string{".api.json", ".api.yaml", ".api.yml", ".api.hcl"}

// isSpecFile reports whether name looks like a declaration file.
func isSpecFile(name string) bool {
	for _, ext := range specExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// decodeSpec decodes raw according to the extension of path.
func decodeSpec(path string, raw []byte) (*Spec, error) {
	var (
		spec Spec
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		err = dec.Decode(&spec)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		err = dec.Decode(&spec)
	case ".hcl":
		err = decodeHCL(path, raw, &spec)
	default:
		return nil, fmt.Errorf("unsupported spec extension %q (want one of %s)", ext, strings.Join(specExtensions, ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.ToSlash(path), err)
	}
	return &spec, nil
}

//
// -------------------------
// HCL
// -------------------------
//
// HCL declaration files use blocks with labels instead of lists of objects:
//
//	package = "storage"
//	doc     = "Key/value storage"
//
//	const "MaxKey" { value = 256 }
//
//	function "Read" {
//	  doc = "returns the value stored under key."
//	  param "key" { type = "[]byte" }
//	  result { type = "[]byte" }
//	  result { type = "bool" }
//	}

type hclSpecFile struct {
	Package   string          `hcl:"package"`
	ID        string          `hcl:"id,optional"`
	Doc       string          `hcl:"doc,optional"`
	Imports   []hclImport     `hcl:"import,block"`
	Aliases   []hclTypeDecl   `hcl:"alias,block"`
	Reexports []hclReexport   `hcl:"reexport,block"`
	Consts    []hclConstDecl  `hcl:"const,block"`
	Helpers   []hclHelperDecl `hcl:"helper,block"`
	Functions []hclFuncSpec   `hcl:"function,block"`
}

type hclImport struct {
	Path string `hcl:"path,label"`
	Name string `hcl:"name,optional"`
}

type hclTypeDecl struct {
	Name string `hcl:"name,label"`
	Type string `hcl:"type"`
	Doc  string `hcl:"doc,optional"`
}

type hclReexport struct {
	Type string `hcl:"type,label"`
	Name string `hcl:"name,optional"`
	Doc  string `hcl:"doc,optional"`
}

type hclConstDecl struct {
	Name  string    `hcl:"name,label"`
	Type  string    `hcl:"type,optional"`
	Value cty.Value `hcl:"value"`
	Doc   string    `hcl:"doc,optional"`
}

type hclHelperDecl struct {
	Name string `hcl:"name,label"`
	Doc  string `hcl:"doc,optional"`
}

type hclFuncSpec struct {
	Name    string      `hcl:"name,label"`
	Doc     string      `hcl:"doc,optional"`
	Params  []hclParam  `hcl:"param,block"`
	Results []hclResult `hcl:"result,block"`
}

type hclParam struct {
	Name string `hcl:"name,label"`
	Type string `hcl:"type"`
}

type hclResult struct {
	Type string `hcl:"type"`
}

func decodeHCL(path string, raw []byte, spec *Spec) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(raw, path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}

	var parsed hclSpecFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	spec.Package = parsed.Package
	spec.ID = parsed.ID
	spec.Doc = parsed.Doc
	for _, imp := range parsed.Imports {
		spec.Imports = append(spec.Imports, Import{Name: imp.Name, Path: imp.Path})
	}
	for _, a := range parsed.Aliases {
		spec.Aliases = append(spec.Aliases, TypeDecl(a))
	}
	for _, r := range parsed.Reexports {
		spec.Reexports = append(spec.Reexports, TypeDecl{Name: r.Name, Type: r.Type, Doc: r.Doc})
	}
	for _, c := range parsed.Consts {
		lit, err := ctyGoLiteral(c.Value)
		if err != nil {
			return fmt.Errorf("const %q: %w", c.Name, err)
		}
		spec.Consts = append(spec.Consts, ConstDecl{Name: c.Name, Type: c.Type, Value: lit, Doc: c.Doc})
	}
	for _, h := range parsed.Helpers {
		spec.Helpers = append(spec.Helpers, HelperDecl(h))
	}
	for _, f := range parsed.Functions {
		fs := FuncSpec{Name: f.Name, Doc: f.Doc}
		for _, p := range f.Params {
			fs.Params = append(fs.Params, Param(p))
		}
		for _, r := range f.Results {
			fs.Results = append(fs.Results, Result(r))
		}
		spec.Functions = append(spec.Functions, fs)
	}
	return nil
}

// ctyGoLiteral renders a primitive HCL value as a Go constant expression.
func ctyGoLiteral(val cty.Value) (string, error) {
	if !val.IsKnown() || val.IsNull() {
		return "", fmt.Errorf("value must be known and non-null")
	}
	switch val.Type() {
	case cty.String:
		return strconv.Quote(val.AsString()), nil
	case cty.Bool:
		return strconv.FormatBool(val.True()), nil
	case cty.Number:
		bf := val.AsBigFloat()
		if bf.IsInt() {
			i, _ := bf.Int(nil)
			return i.String(), nil
		}
		return bf.Text('g', -1), nil
	default:
		return "", fmt.Errorf("unsupported value type %s", val.Type().FriendlyName())
	}
}
