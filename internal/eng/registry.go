package eng

import (
	"github.com/ogma-lang/ogma/internal/errs"
	"github.com/ogma-lang/ogma/internal/types"
)

// CompileFn is a command implementation's compile-time entry point:
// given a Block for one invocation, consume its arguments/flags,
// publish type/locals knowledge, and yield a Step (spec §4.4).
type CompileFn func(*Block) (*Step, *errs.Error)

// Impl is one `(name, input_type_opt) -> compile_fn` registration
// (spec §9: "Represent implementations as a flat mapping... resolution
// is two lookups"). InTy nil means polymorphic: the implementation
// inspects Block.InTy() itself rather than being dispatched on it.
type Impl struct {
	Name     string
	InTy     *types.Type
	Compile  CompileFn
	Category string
	Help     errs.HelpMessage
}

// Implementations is the read-only-during-compilation registry every
// command implementation is published into (spec §5: "read-only during
// compilation"). The zero value is not usable; construct with
// NewImplementations.
type Implementations struct {
	byName map[string][]Impl
}

// NewImplementations returns an empty registry.
func NewImplementations() *Implementations {
	return &Implementations{byName: map[string][]Impl{}}
}

// Add registers impl, appending to any existing overloads of the same
// name. Returns the receiver so calls can be chained.
func (r *Implementations) Add(impl Impl) *Implementations {
	r.byName[impl.Name] = append(r.byName[impl.Name], impl)
	return r
}

// Resolve implements the two-step overload resolution of spec §4.6: an
// exact (op, inTy) match wins; otherwise a polymorphic (op, nil)
// implementation; otherwise not found.
func (r *Implementations) Resolve(name string, inTy types.Type) (Impl, bool) {
	var poly *Impl
	impls := r.byName[name]
	for i := range impls {
		impl := impls[i]
		if impl.InTy != nil && impl.InTy.Equal(inTy) {
			return impl, true
		}
		if impl.InTy == nil {
			poly = &impls[i]
		}
	}
	if poly != nil {
		return *poly, true
	}
	return Impl{}, false
}

// Has reports whether any overload of name is registered, regardless
// of input type.
func (r *Implementations) Has(name string) bool {
	return len(r.byName[name]) > 0
}

// AvailableInputTypes lists the concrete input types name has a
// non-polymorphic implementation for, for OpNotFound's help text.
func (r *Implementations) AvailableInputTypes(name string) []types.Type {
	var out []types.Type
	for _, impl := range r.byName[name] {
		if impl.InTy != nil {
			out = append(out, *impl.InTy)
		}
	}
	return out
}

// HelpFor returns the HelpMessage for every registered overload of
// name, in registration order — a command with input-type-specific
// overloads may document each separately.
func (r *Implementations) HelpFor(name string) []errs.HelpMessage {
	impls := r.byName[name]
	out := make([]errs.HelpMessage, len(impls))
	for i, impl := range impls {
		out[i] = impl.Help
	}
	return out
}
