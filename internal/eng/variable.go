// Package eng implements the block-compilation protocol and the
// type/locals fixed-point inference loop (spec sections 4.3-4.5): the
// Block façade command implementations compile against, the
// Argument/ArgBuilder pair that resolves invocation arguments, the
// compiled Step/Program pipeline, and the runtime Environment/Context
// threaded through evaluation.
package eng

import (
	"fmt"

	"github.com/ogma-lang/ogma/internal/graphs"
	"github.com/ogma-lang/ogma/internal/value"
)

// debugAssertions gates the invariant checks spec.md §9 calls out as
// debug-only (output-type assertion equality, variable-set-data type
// matching). Flipping it to true upgrades them to always-on, at the
// cost described in the spec: a small runtime check per set/assert.
const debugAssertions = false

// Variable is a binding handle returned by Block.CreateVarRef and the
// inject_manual_var_* helpers. It wraps graphs.Variable with the
// Environment accessors the evaluator needs; graphs stays free of an
// eng/value import so the type/locals graph has no dependency on the
// runtime value model.
type Variable struct {
	graphs.Variable
}

// WrapVar adapts a graphs.Variable into an eng.Variable.
func WrapVar(v graphs.Variable) Variable { return Variable{v} }

// SetData writes val into env under this variable's handle. Debug
// builds panic if val's runtime type doesn't match the variable's
// declared type; release builds skip the check, trusting the type
// graph to have prevented the mismatch (spec §4.5).
func (v Variable) SetData(env *Environment, val value.Value) {
	if debugAssertions && !val.Ty().Equal(v.DeclaredType) {
		panic(fmt.Sprintf("variable %q: declared type %s, got %s", v.Name, v.DeclaredType, val.Ty()))
	}
	env.set(v.Handle, val)
}

// GetData reads the value bound to this variable from env.
func (v Variable) GetData(env *Environment) (value.Value, bool) {
	return env.get(v.Handle)
}
