// Package capi binds capability interfaces declared by low-level packages to
// exactly one implementation supplied by the host, without either side
// importing the other.
//
// There are three roles:
//
//   - A component package declares an interface: a named, ordered set of
//     function signatures plus auxiliary items (aliases, re-exports,
//     constants, helpers). Declare returns an *Interface and Fn returns one
//     *Proxy per function. Proxies exist immediately; callers use them (or the
//     plain functions cmd/apigen generates around them) as ordinary functions.
//
//   - The host offers an implementation block for the interface id. Validate
//     checks coverage and signatures; Bind validates and installs the
//     resulting Binding in the Registry. An interface is bound at most once.
//
//   - Startup code may call Audit to fail early if any declared interface is
//     still unbound. Otherwise the first call through an unbound proxy panics
//     with a *ConfigurationError.
//
// Example:
//
//	// package memory (generated by apigen from memory.api.yaml)
//	var API = capi.MustDeclare("github.com/sghaida/hostapi/api/memory",
//		capi.Func[func() (PhysAddr, bool)]("AllocFrame", "Allocate a frame"),
//	)
//	var allocFrameProxy = capi.Fn[func() (PhysAddr, bool)](API, "AllocFrame")
//	func AllocFrame() (PhysAddr, bool) { return allocFrameProxy.Get()() }
//
//	// package host
//	func init() {
//		capi.MustBind(capi.Implement(memory.API.ID()).Func("AllocFrame", bumpAlloc))
//	}
//
// Lifecycle and concurrency
//
// Declarations and bindings happen during package initialization, in any
// order: no interface depends on another being bound first. After init the
// registry is effectively read-only and proxies may be called from any
// goroutine; dispatch is one atomic load, one slice index and one type
// assertion. Nothing in this package blocks.
//
// Errors
//
// Every failure is a typed error naming the interface id and, where it
// applies, the function: DeclarationError, UnknownInterfaceError,
// MissingFunctionError, UnexpectedFunctionError, SignatureMismatchError,
// NilFunctionError, DuplicateFunctionError, DuplicateBindingError,
// ConfigurationError and AuditError. Validate reports all coverage and
// signature problems of a block at once in a *ValidationError.
package capi
