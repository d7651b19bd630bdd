package capi

import (
	"errors"
	"log/slog"
	"strconv"
	"sync"
)

// Registry maps interface ids to their descriptors and bindings.
//
// It is write-once per interface:
// - Declare adds an interface exactly once
// - Install moves it from Declared to Bound exactly once
// - nothing is ever removed or replaced
//
// Declarations and installs are expected during package initialization and
// may happen in any order. After that the registry is read-only; proxies read
// the binding with a single atomic load.
type Registry struct {
	mu     sync.RWMutex
	ifaces map[string]*Interface
	order  []*Interface
	logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for declare/install events. By default the
// registry logs to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// NewRegistry returns an empty registry. Most programs use Default; separate
// registries are useful in tests.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{ifaces: map[string]*Interface{}}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used by the package-level
// functions and by generated API packages.
func Default() *Registry { return defaultRegistry }

func (r *Registry) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}

// Declare builds an interface descriptor from items and registers its id.
// Declaring the same id twice is a DeclarationError.
func (r *Registry) Declare(id string, items ...Item) (*Interface, error) {
	iface, err := newInterface(r, id, items)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ifaces[id]; exists {
		return nil, &DeclarationError{Interface: id, Reason: "interface already declared"}
	}
	r.ifaces[id] = iface
	r.order = append(r.order, iface)

	r.log().Debug("Declared capability interface.", "interface", id, "functions", len(iface.funcs), "aux", len(iface.aux))
	return iface, nil
}

// MustDeclare is like Declare but panics on error. It is meant for
// package-level var declarations.
func (r *Registry) MustDeclare(id string, items ...Item) *Interface {
	iface, err := r.Declare(id, items...)
	if err != nil {
		panic(err)
	}
	return iface
}

// Lookup returns the interface declared under id.
func (r *Registry) Lookup(id string) (*Interface, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	iface, ok := r.ifaces[id]
	return iface, ok
}

// Interfaces returns every declared interface in declaration order.
func (r *Registry) Interfaces() []*Interface {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Interface, len(r.order))
	copy(out, r.order)
	return out
}

// Install makes b the binding of interface id. It fails with
// UnknownInterfaceError for an undeclared id and DuplicateBindingError if the
// interface is already bound; the first binding is never replaced.
func (r *Registry) Install(id string, b *Binding) error {
	if b == nil {
		return ErrNilBinding
	}
	iface, ok := r.Lookup(id)
	if !ok {
		return &UnknownInterfaceError{Interface: id}
	}
	if b.owner != iface {
		return errors.New("capi: binding was validated for " + strconv.Quote(b.owner.id) + ", not " + strconv.Quote(id))
	}
	if !iface.slot.CompareAndSwap(nil, b) {
		return &DuplicateBindingError{Interface: id}
	}

	r.log().Debug("Installed capability binding.", "interface", id, "functions", len(b.fns))
	return nil
}

// Resolve returns the callable bound for fn of interface id. ok is false if
// the interface is unknown, unbound, or does not declare fn.
func (r *Registry) Resolve(id, fn string) (callable any, ok bool) {
	iface, found := r.Lookup(id)
	if !found {
		return nil, false
	}
	b := iface.slot.Load()
	if b == nil {
		return nil, false
	}
	return b.Func(fn)
}

// Unbound returns the ids of declared interfaces without a binding, in
// declaration order.
func (r *Registry) Unbound() []string {
	var out []string
	for _, iface := range r.Interfaces() {
		if !iface.Bound() {
			out = append(out, iface.id)
		}
	}
	return out
}

// IsFullyBound reports whether every declared interface has a binding.
func (r *Registry) IsFullyBound() bool { return len(r.Unbound()) == 0 }

// Audit returns an *AuditError naming every unbound interface, or nil. Run it
// at program start to fail before the first proxy call instead of during it.
func (r *Registry) Audit() error {
	unbound := r.Unbound()
	if len(unbound) == 0 {
		return nil
	}
	r.log().Error("Capability audit failed.", "unbound", unbound)
	return &AuditError{Unbound: unbound}
}

// MustAudit is like Audit but panics on error.
func (r *Registry) MustAudit() {
	if err := r.Audit(); err != nil {
		panic(err)
	}
}

// Declare declares an interface in the default registry.
func Declare(id string, items ...Item) (*Interface, error) {
	return defaultRegistry.Declare(id, items...)
}

// MustDeclare declares an interface in the default registry and panics on error.
func MustDeclare(id string, items ...Item) *Interface {
	return defaultRegistry.MustDeclare(id, items...)
}

// Lookup finds an interface in the default registry.
func Lookup(id string) (*Interface, bool) { return defaultRegistry.Lookup(id) }

// Resolve resolves a bound callable in the default registry.
func Resolve(id, fn string) (any, bool) { return defaultRegistry.Resolve(id, fn) }

// IsFullyBound reports whether every interface in the default registry is bound.
func IsFullyBound() bool { return defaultRegistry.IsFullyBound() }

// Audit audits the default registry.
func Audit() error { return defaultRegistry.Audit() }

// MustAudit audits the default registry and panics on error.
func MustAudit() { defaultRegistry.MustAudit() }
