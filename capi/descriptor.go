package capi

import (
	"fmt"
	"go/token"
	"reflect"
	"strings"
	"sync/atomic"
	"unicode"
)

// Signature is one declared capability function.
type Signature struct {
	Name string
	Doc  string
	// Type is the declared func type. Bound callables are converted to it.
	Type reflect.Type
}

// Params returns the parameter types in order.
func (s Signature) Params() []reflect.Type {
	out := make([]reflect.Type, s.Type.NumIn())
	for i := range out {
		out[i] = s.Type.In(i)
	}
	return out
}

// Results returns the result types in order.
func (s Signature) Results() []reflect.Type {
	out := make([]reflect.Type, s.Type.NumOut())
	for i := range out {
		out[i] = s.Type.Out(i)
	}
	return out
}

// Variadic reports whether the last parameter is variadic.
func (s Signature) Variadic() bool { return s.Type.IsVariadic() }

// String renders the signature as Go source, e.g. "Read([]uint8) ([]uint8, bool)".
func (s Signature) String() string {
	return s.Name + strings.TrimPrefix(s.Type.String(), "func")
}

// State is the lifecycle state of an interface. Declared -> Bound is the
// only transition.
type State int

const (
	// StateDeclared: the interface is declared and no binding is installed.
	// Proxies panic on Get and report false from Lookup.
	StateDeclared State = iota + 1
	// StateBound: a validated binding is installed and proxies forward to it.
	StateBound
)

func (s State) String() string {
	switch s {
	case StateDeclared:
		return "declared"
	case StateBound:
		return "bound"
	default:
		return "unknown"
	}
}

// Interface is an immutable, named contract of capability functions plus
// its auxiliary items. It owns the single binding slot for its id.
type Interface struct {
	id    string
	doc   string
	funcs []Signature
	index map[string]int
	aux   []Aux
	reg   *Registry

	slot atomic.Pointer[Binding]
}

func newInterface(reg *Registry, id string, items []Item) (*Interface, error) {
	if id == "" || strings.IndexFunc(id, unicode.IsSpace) >= 0 {
		return nil, &DeclarationError{Interface: id, Reason: "interface id must be non-empty and contain no whitespace"}
	}

	var d declaration
	for _, it := range items {
		if it == nil {
			continue
		}
		if derr := it.apply(&d); derr != nil {
			derr.Interface = id
			return nil, derr
		}
	}

	iface := &Interface{
		id:    id,
		doc:   d.doc,
		funcs: d.funcs,
		index: make(map[string]int, len(d.funcs)),
		aux:   d.aux,
		reg:   reg,
	}

	for i, sig := range d.funcs {
		if !token.IsIdentifier(sig.Name) || !token.IsExported(sig.Name) {
			return nil, &DeclarationError{Interface: id, Function: sig.Name, Reason: "function name must be an exported Go identifier"}
		}
		if _, dup := iface.index[sig.Name]; dup {
			return nil, &DeclarationError{Interface: id, Function: sig.Name, Reason: "duplicate function name"}
		}
		if bad := unnameable(sig.Type, id, map[reflect.Type]bool{}); bad != "" {
			return nil, &DeclarationError{Interface: id, Function: sig.Name, Reason: "type " + bad + " cannot be named outside its package"}
		}
		iface.index[sig.Name] = i
	}

	return iface, nil
}

// unnameable returns the first type reachable from t that an importer of the
// package home could not spell, or "" if every type is nameable.
func unnameable(t reflect.Type, home string, seen map[reflect.Type]bool) string {
	if seen[t] {
		return ""
	}
	seen[t] = true

	if t.Name() != "" {
		// Predeclared types have no package path.
		if t.PkgPath() != "" && t.PkgPath() != home && !token.IsExported(t.Name()) {
			return t.String()
		}
		return ""
	}

	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Chan:
		return unnameable(t.Elem(), home, seen)
	case reflect.Map:
		if bad := unnameable(t.Key(), home, seen); bad != "" {
			return bad
		}
		return unnameable(t.Elem(), home, seen)
	case reflect.Func:
		for i := 0; i < t.NumIn(); i++ {
			if bad := unnameable(t.In(i), home, seen); bad != "" {
				return bad
			}
		}
		for i := 0; i < t.NumOut(); i++ {
			if bad := unnameable(t.Out(i), home, seen); bad != "" {
				return bad
			}
		}
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() && f.PkgPath != home {
				return t.String()
			}
			if bad := unnameable(f.Type, home, seen); bad != "" {
				return bad
			}
		}
	case reflect.Interface:
		for i := 0; i < t.NumMethod(); i++ {
			m := t.Method(i)
			if m.PkgPath != "" && m.PkgPath != home {
				return t.String()
			}
			if bad := unnameable(m.Type, home, seen); bad != "" {
				return bad
			}
		}
	}
	return ""
}

// ID returns the globally unique interface id.
func (i *Interface) ID() string { return i.id }

// Doc returns the interface documentation.
func (i *Interface) Doc() string { return i.doc }

// Funcs returns the declared signatures in declaration order.
func (i *Interface) Funcs() []Signature {
	out := make([]Signature, len(i.funcs))
	copy(out, i.funcs)
	return out
}

// Func returns the signature declared under name.
func (i *Interface) Func(name string) (Signature, bool) {
	idx, ok := i.index[name]
	if !ok {
		return Signature{}, false
	}
	return i.funcs[idx], true
}

// Aux returns the auxiliary items in declaration order.
func (i *Interface) Aux() []Aux {
	out := make([]Aux, len(i.aux))
	copy(out, i.aux)
	return out
}

// Binding returns the installed binding, or nil.
func (i *Interface) Binding() *Binding { return i.slot.Load() }

// Bound reports whether a binding is installed.
func (i *Interface) Bound() bool { return i.slot.Load() != nil }

// State reports the lifecycle state.
func (i *Interface) State() State {
	if i.Bound() {
		return StateBound
	}
	return StateDeclared
}

// Describe renders the interface as a short human readable listing.
func (i *Interface) Describe() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "interface %q (%s)\n", i.id, i.State())
	if i.doc != "" {
		fmt.Fprintf(&sb, "  // %s\n", i.doc)
	}
	for _, s := range i.funcs {
		sb.WriteString("  func ")
		sb.WriteString(s.String())
		if s.Doc != "" {
			sb.WriteString(" // ")
			sb.WriteString(s.Doc)
		}
		sb.WriteString("\n")
	}
	for _, a := range i.aux {
		switch a.Kind {
		case AuxAlias, AuxReexport:
			fmt.Fprintf(&sb, "  %s %s = %s\n", a.Kind, a.Name, a.Type)
		case AuxConst:
			fmt.Fprintf(&sb, "  const %s = %v\n", a.Name, a.Value)
		default:
			fmt.Fprintf(&sb, "  %s %s\n", a.Kind, a.Name)
		}
	}
	return sb.String()
}
