package capi

import "reflect"

// Validate checks blk against the interface it names and returns the
// binding it would install. It does not touch the registry state.
//
// Checks, in order:
//   - the interface id is declared (UnknownInterfaceError, returned alone)
//   - every declared function is supplied (MissingFunctionError)
//   - nothing undeclared is supplied (UnexpectedFunctionError)
//   - every supplied function has exactly the declared type, compared by
//     parameter and result type identity with no coercion (SignatureMismatchError)
//
// All coverage and type failures are returned together in a *ValidationError.
func (r *Registry) Validate(blk *Block) (*Binding, error) {
	if blk == nil {
		return nil, ErrNilBlock
	}
	iface, ok := r.Lookup(blk.id)
	if !ok {
		return nil, &UnknownInterfaceError{Interface: blk.id}
	}

	var errs []error
	for _, name := range blk.dups {
		errs = append(errs, &DuplicateFunctionError{Interface: iface.id, Function: name})
	}

	fns := make([]any, len(iface.funcs))
	for i, sig := range iface.funcs {
		fn, supplied := blk.fns[sig.Name]
		if !supplied {
			fn, supplied = blk.lookupMethod(sig.Name)
		}
		if !supplied {
			errs = append(errs, &MissingFunctionError{Interface: iface.id, Function: sig.Name})
			continue
		}
		conv, err := conform(iface.id, sig, fn)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fns[i] = conv
	}

	for _, name := range blk.names {
		if _, declared := iface.index[name]; !declared {
			errs = append(errs, &UnexpectedFunctionError{Interface: iface.id, Function: name})
		}
	}

	if len(errs) > 0 {
		r.log().Debug("Rejected capability binding.", "interface", iface.id, "errors", len(errs))
		return nil, &ValidationError{Interface: iface.id, Errs: errs}
	}
	return &Binding{owner: iface, fns: fns}, nil
}

// conform converts fn to the declared func type if its shape matches.
func conform(id string, sig Signature, fn any) (any, error) {
	if fn == nil {
		return nil, &NilFunctionError{Interface: id, Function: sig.Name}
	}
	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func || !sameShape(sig.Type, t) {
		return nil, &SignatureMismatchError{
			Interface: id,
			Function:  sig.Name,
			Expected:  sig.Type.String(),
			Provided:  t.String(),
		}
	}
	if v.IsNil() {
		return nil, &NilFunctionError{Interface: id, Function: sig.Name}
	}
	if t != sig.Type {
		// Same parameters and results under a different func type name.
		v = v.Convert(sig.Type)
	}
	return v.Interface(), nil
}

func sameShape(want, got reflect.Type) bool {
	if want.NumIn() != got.NumIn() || want.NumOut() != got.NumOut() || want.IsVariadic() != got.IsVariadic() {
		return false
	}
	for i := 0; i < want.NumIn(); i++ {
		if want.In(i) != got.In(i) {
			return false
		}
	}
	for i := 0; i < want.NumOut(); i++ {
		if want.Out(i) != got.Out(i) {
			return false
		}
	}
	return true
}

// Bind validates blk and installs the resulting binding. On any failure no
// binding is installed.
func (r *Registry) Bind(blk *Block) error {
	b, err := r.Validate(blk)
	if err != nil {
		return err
	}
	return r.Install(blk.id, b)
}

// MustBind is like Bind but panics on error.
func (r *Registry) MustBind(blk *Block) {
	if err := r.Bind(blk); err != nil {
		panic(err)
	}
}

// Validate validates a block against the default registry.
func Validate(blk *Block) (*Binding, error) { return defaultRegistry.Validate(blk) }

// Bind validates and installs a block in the default registry.
func Bind(blk *Block) error { return defaultRegistry.Bind(blk) }

// MustBind is like Bind but panics on error.
func MustBind(blk *Block) { defaultRegistry.MustBind(blk) }
