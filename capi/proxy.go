package capi

import "reflect"

// Proxy is the dispatch handle for one declared function. It is created
// together with the interface, before any binding exists, and forwards to
// whatever binding is installed at call time.
//
// Generated API packages keep one Proxy per function and wrap it in a plain
// function with the declared signature:
//
//	var allocFrameProxy = capi.Fn[func() (PhysAddr, bool)](API, "AllocFrame")
//
//	func AllocFrame() (PhysAddr, bool) { return allocFrameProxy.Get()() }
type Proxy[F any] struct {
	iface *Interface
	index int
	typ   reflect.Type
}

// Fn returns the proxy for the function name of iface. F must be exactly the
// declared func type. Fn panics with a *DeclarationError otherwise, since a
// wrong proxy is a build-time mistake.
func Fn[F any](iface *Interface, name string) *Proxy[F] {
	if iface == nil {
		panic(&DeclarationError{Function: name, Reason: "proxy for nil interface"})
	}
	sig, ok := iface.Func(name)
	if !ok {
		panic(&DeclarationError{Interface: iface.id, Function: name, Reason: "proxy for undeclared function"})
	}
	t := reflect.TypeFor[F]()
	if t != sig.Type {
		panic(&DeclarationError{
			Interface: iface.id,
			Function:  name,
			Reason:    "proxy type " + t.String() + " does not match declared " + sig.Type.String(),
		})
	}
	return &Proxy[F]{iface: iface, index: iface.index[name], typ: t}
}

// Interface returns the interface the proxy dispatches into.
func (p *Proxy[F]) Interface() *Interface { return p.iface }

// Name returns the function name.
func (p *Proxy[F]) Name() string { return p.iface.funcs[p.index].Name }

// Get returns the bound callable. It panics with a *ConfigurationError if the
// interface has no binding yet; that is an assembly error, not something a
// caller can recover from.
func (p *Proxy[F]) Get() F {
	b := p.iface.slot.Load()
	if b == nil {
		panic(&ConfigurationError{Interface: p.iface.id, Function: p.Name()})
	}
	return b.fns[p.index].(F)
}

// Lookup returns the bound callable, or ok=false if the interface is unbound.
func (p *Proxy[F]) Lookup() (fn F, ok bool) {
	b := p.iface.slot.Load()
	if b == nil {
		return fn, false
	}
	return b.fns[p.index].(F), true
}

// Stub returns a plain F that resolves the binding on every call. It is safe
// to take and store before binding; calling it while unbound panics like Get.
func (p *Proxy[F]) Stub() F {
	variadic := p.typ.IsVariadic()
	fn := reflect.MakeFunc(p.typ, func(args []reflect.Value) []reflect.Value {
		target := reflect.ValueOf(p.Get())
		if variadic {
			return target.CallSlice(args)
		}
		return target.Call(args)
	})
	return fn.Interface().(F)
}
