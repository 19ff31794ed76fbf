package eng

import (
	"github.com/ogma-lang/ogma/internal/errs"
	"github.com/ogma-lang/ogma/internal/tag"
	"github.com/ogma-lang/ogma/internal/types"
	"github.com/ogma-lang/ogma/internal/value"
)

// StepFn is a compiled invocation: it consumes the pipeline's carried
// Value and the shared Context, producing the next Value or a
// propagating error. Cancellation (spec §5) is checked by the Program
// runner between steps, not inside StepFn itself.
type StepFn func(value.Value, *Context) (value.Value, *errs.Error)

// Step is one compiled pipeline stage: its asserted output type plus
// the evaluation closure a Block.Eval call produced.
type Step struct {
	OutTy types.Type
	F     StepFn
}

// Program is an ordered list of compiled Steps — the result of a
// successful Compile, ready to run against an input Value (spec §4.5).
// ParamVars is populated only when Compile was given PreBoundVars (a
// `def` body compiled against one call site): it maps each parameter
// name to the Variable a caller must SetData into the Environment
// before Run.
type Program struct {
	Steps     []Step
	ParamVars map[string]Variable
}

// OutTy returns the program's final output type, or types.TyNil for an
// empty program (an expression with no stages, e.g. a bare `\ …`-less
// def body never reached in practice but handled defensively).
func (p *Program) OutTy() types.Type {
	if len(p.Steps) == 0 {
		return types.TyNil
	}
	return p.Steps[len(p.Steps)-1].OutTy
}

// Run threads input through every step in order. A step failure
// immediately aborts the pipeline (spec §4.5: "no step-level
// retries"). anchor is used only to build a cancellation error's trace.
func (p *Program) Run(input value.Value, ctx *Context, anchor tag.Tag) (value.Value, *errs.Error) {
	v := input
	for _, step := range p.Steps {
		if ctx.Cancelled() {
			return nil, errs.Cancelled(anchor)
		}
		next, err := step.F(v, ctx)
		if err != nil {
			return nil, err
		}
		v = next
	}
	return v, nil
}
