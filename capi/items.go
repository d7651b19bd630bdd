package capi

import (
	"go/token"
	"reflect"
)

// Item is one entry of an interface declaration: a function signature, the
// interface doc, or an auxiliary item. Items are built with Func, Doc,
// AliasOf, Reexport, Const and Helper.
type Item interface {
	apply(d *declaration) *DeclarationError
}

type itemFunc func(d *declaration) *DeclarationError

func (f itemFunc) apply(d *declaration) *DeclarationError { return f(d) }

// declaration accumulates items before the Interface is frozen.
type declaration struct {
	doc   string
	funcs []Signature
	aux   []Aux
}

// AuxKind classifies an auxiliary item.
type AuxKind int

const (
	// AuxAlias is a type alias introduced by the interface package.
	AuxAlias AuxKind = iota + 1
	// AuxReexport is a type from another package exposed under its own name.
	AuxReexport
	// AuxConst is a constant shared by callers and implementations.
	AuxConst
	// AuxHelper is a function built purely on top of the interface functions.
	AuxHelper
)

func (k AuxKind) String() string {
	switch k {
	case AuxAlias:
		return "alias"
	case AuxReexport:
		return "reexport"
	case AuxConst:
		return "const"
	case AuxHelper:
		return "helper"
	default:
		return "unknown"
	}
}

// Aux is an auxiliary declaration attached verbatim to an interface. It
// carries no dispatch behavior.
type Aux struct {
	Kind AuxKind
	Name string
	Doc  string
	// Type is set for aliases and re-exports.
	Type reflect.Type
	// Value is set for constants.
	Value any
}

// Func declares a capability function named name with the func type F.
//
//	capi.Func[func(addr.PhysAddr)]("DeallocFrame", "Deallocate a frame")
func Func[F any](name, doc string) Item {
	t := reflect.TypeFor[F]()
	return itemFunc(func(d *declaration) *DeclarationError {
		if t.Kind() != reflect.Func {
			return &DeclarationError{Function: name, Reason: "signature type " + t.String() + " is not a func type"}
		}
		d.funcs = append(d.funcs, Signature{Name: name, Doc: doc, Type: t})
		return nil
	})
}

// Doc sets the interface documentation. A later Doc replaces an earlier one.
func Doc(text string) Item {
	return itemFunc(func(d *declaration) *DeclarationError {
		d.doc = text
		return nil
	})
}

// AliasOf records that the interface package exposes T under name.
func AliasOf[T any](name, doc string) Item {
	t := reflect.TypeFor[T]()
	return itemFunc(func(d *declaration) *DeclarationError {
		if !token.IsIdentifier(name) {
			return &DeclarationError{Reason: "alias name " + quoteOrEmpty(name) + " is not an identifier"}
		}
		d.aux = append(d.aux, Aux{Kind: AuxAlias, Name: name, Doc: doc, Type: t})
		return nil
	})
}

// Reexport records that the interface package exposes the named type T
// unchanged.
func Reexport[T any](doc string) Item {
	t := reflect.TypeFor[T]()
	return itemFunc(func(d *declaration) *DeclarationError {
		if t.Name() == "" {
			return &DeclarationError{Reason: "cannot re-export unnamed type " + t.String()}
		}
		d.aux = append(d.aux, Aux{Kind: AuxReexport, Name: t.Name(), Doc: doc, Type: t})
		return nil
	})
}

// Const records a constant exposed by the interface package.
func Const(name string, value any, doc string) Item {
	return itemFunc(func(d *declaration) *DeclarationError {
		if !token.IsIdentifier(name) {
			return &DeclarationError{Reason: "const name " + quoteOrEmpty(name) + " is not an identifier"}
		}
		d.aux = append(d.aux, Aux{Kind: AuxConst, Name: name, Doc: doc, Value: value})
		return nil
	})
}

// Helper records a derived helper defined in terms of the interface
// functions, e.g. a frame type whose constructor calls AllocFrame.
func Helper(name, doc string) Item {
	return itemFunc(func(d *declaration) *DeclarationError {
		if !token.IsIdentifier(name) {
			return &DeclarationError{Reason: "helper name " + quoteOrEmpty(name) + " is not an identifier"}
		}
		d.aux = append(d.aux, Aux{Kind: AuxHelper, Name: name, Doc: doc})
		return nil
	})
}

func quoteOrEmpty(s string) string {
	if s == "" {
		return "<empty>"
	}
	return `"` + s + `"`
}
