package capi

import "reflect"

// Block is an implementation block: concrete functions offered to satisfy
// one interface. It is consumed by Validate/Bind and never stored.
//
// Expected usage (usually from a host package init):
//
//	capi.MustBind(capi.Implement(memory.API.ID()).
//		Func("AllocFrame", allocFrame).
//		Func("DeallocFrame", deallocFrame))
type Block struct {
	id      string
	names   []string
	fns     map[string]any
	dups    []string
	methods []reflect.Value
}

// Implement starts an implementation block for the interface id.
func Implement(id string) *Block {
	return &Block{id: id, fns: map[string]any{}}
}

// ID returns the target interface id.
func (b *Block) ID() string { return b.id }

// Func adds the concrete function fn under name and returns the block for
// chaining. Supplying the same name twice is reported by Validate.
func (b *Block) Func(name string, fn any) *Block {
	if _, exists := b.fns[name]; exists {
		b.dups = append(b.dups, name)
		return b
	}
	b.names = append(b.names, name)
	b.fns[name] = fn
	return b
}

// Methods offers the exported methods of v. Only methods whose names the
// interface declares are used; other methods are helpers of the
// implementation and are ignored. Functions added with Func take precedence.
func (b *Block) Methods(v any) *Block {
	if v != nil {
		b.methods = append(b.methods, reflect.ValueOf(v))
	}
	return b
}

// Names returns the explicitly supplied function names in insertion order.
func (b *Block) Names() []string {
	out := make([]string, len(b.names))
	copy(out, b.names)
	return out
}

// lookupMethod finds a method named name on any offered method set.
func (b *Block) lookupMethod(name string) (any, bool) {
	for _, v := range b.methods {
		m := v.MethodByName(name)
		if m.IsValid() {
			return m.Interface(), true
		}
	}
	return nil, false
}

// Binding is a validated function table for one interface. Every entry has
// exactly the declared func type.
type Binding struct {
	owner *Interface
	fns   []any
}

// Interface returns the interface the binding satisfies.
func (b *Binding) Interface() *Interface { return b.owner }

// Func returns the callable bound for name.
func (b *Binding) Func(name string) (any, bool) {
	idx, ok := b.owner.index[name]
	if !ok {
		return nil, false
	}
	return b.fns[idx], true
}
