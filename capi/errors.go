package capi

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrNilBlock is returned when Validate or Bind receives a nil block.
	ErrNilBlock = errors.New("capi: nil implementation block")

	// ErrNilBinding is returned when Install receives a nil binding.
	ErrNilBinding = errors.New("capi: nil binding")
)

// DeclarationError reports a malformed interface declaration: a bad id, a
// duplicate interface or function, a non-func signature, or a type that
// cannot be named where the proxy lives.
type DeclarationError struct {
	Interface string
	// Function is empty when the problem is not tied to one function.
	Function string
	Reason   string
}

// Error implements the error interface.
func (e *DeclarationError) Error() string {
	// Example: capi: declare "x/memory": function "AllocFrame": duplicate function name
	var sb strings.Builder
	sb.WriteString("capi: declare ")
	sb.WriteString(strconv.Quote(e.Interface))
	if e.Function != "" {
		sb.WriteString(": function ")
		sb.WriteString(strconv.Quote(e.Function))
	}
	sb.WriteString(": ")
	sb.WriteString(e.Reason)
	return sb.String()
}

// UnknownInterfaceError is returned when a block or binding names an
// interface id that was never declared in the registry.
type UnknownInterfaceError struct{ Interface string }

// Error implements the error interface.
func (e *UnknownInterfaceError) Error() string {
	return "capi: unknown interface " + strconv.Quote(e.Interface)
}

// MissingFunctionError is returned when a block omits a declared function.
type MissingFunctionError struct {
	Interface string
	Function  string
}

// Error implements the error interface.
func (e *MissingFunctionError) Error() string {
	return "capi: interface " + strconv.Quote(e.Interface) + ": missing function " + strconv.Quote(e.Function)
}

// UnexpectedFunctionError is returned when a block supplies a function the
// interface does not declare.
type UnexpectedFunctionError struct {
	Interface string
	Function  string
}

// Error implements the error interface.
func (e *UnexpectedFunctionError) Error() string {
	return "capi: interface " + strconv.Quote(e.Interface) + ": unexpected function " + strconv.Quote(e.Function)
}

// SignatureMismatchError is returned when a supplied function's type does not
// match the declared signature exactly.
type SignatureMismatchError struct {
	Interface string
	Function  string
	// Expected and Provided are Go type strings, e.g. "func(addr.PhysAddr)".
	Expected string
	Provided string
}

// Error implements the error interface.
func (e *SignatureMismatchError) Error() string {
	// Example: capi: interface "storage": function "Read": signature mismatch (expected func([]uint8) ([]uint8, bool), provided func(string) ([]uint8, bool))
	return "capi: interface " + strconv.Quote(e.Interface) +
		": function " + strconv.Quote(e.Function) +
		": signature mismatch (expected " + e.Expected + ", provided " + e.Provided + ")"
}

// NilFunctionError is returned when a block supplies a nil function value.
type NilFunctionError struct {
	Interface string
	Function  string
}

// Error implements the error interface.
func (e *NilFunctionError) Error() string {
	return "capi: interface " + strconv.Quote(e.Interface) + ": nil function " + strconv.Quote(e.Function)
}

// DuplicateFunctionError is returned when one block supplies the same
// function name twice.
type DuplicateFunctionError struct {
	Interface string
	Function  string
}

// Error implements the error interface.
func (e *DuplicateFunctionError) Error() string {
	return "capi: interface " + strconv.Quote(e.Interface) + ": function " + strconv.Quote(e.Function) + " supplied twice"
}

// DuplicateBindingError is returned when an interface already has a binding.
type DuplicateBindingError struct{ Interface string }

// Error implements the error interface.
func (e *DuplicateBindingError) Error() string {
	return "capi: interface " + strconv.Quote(e.Interface) + " is already bound"
}

// ConfigurationError is the panic value of a proxy invoked before its
// interface has a binding. It indicates an incomplete assembly.
type ConfigurationError struct {
	Interface string
	Function  string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return "capi: " + strconv.Quote(e.Interface) + "." + e.Function + " called before the interface was bound"
}

// ValidationError gathers every coverage and signature failure found in one
// block. errors.As reaches each of them through Unwrap.
type ValidationError struct {
	Interface string
	Errs      []error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Errs) == 1 {
		return e.Errs[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("capi: binding for interface ")
	sb.WriteString(strconv.Quote(e.Interface))
	sb.WriteString(" rejected:")
	for _, err := range e.Errs {
		sb.WriteString("\n- ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Unwrap returns the individual failures.
func (e *ValidationError) Unwrap() []error { return e.Errs }

// AuditError lists the interfaces that are declared but not bound.
type AuditError struct{ Unbound []string }

// Error implements the error interface.
func (e *AuditError) Error() string {
	quoted := make([]string, len(e.Unbound))
	for i, id := range e.Unbound {
		quoted[i] = strconv.Quote(id)
	}
	return "capi: unbound interfaces: " + strings.Join(quoted, ", ")
}
