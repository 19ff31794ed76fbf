package intrinsics

import (
	"github.com/ogma-lang/ogma/internal/eng"
	"github.com/ogma-lang/ogma/internal/errs"
	"github.com/ogma-lang/ogma/internal/value"
)

// backslash is ogma's substitution operator: its one argument is
// evaluated against the pipeline's current value and becomes the new
// one, discarding whatever the stage's own input was. It's polymorphic
// (accepts any input, including Nil at the start of a pipeline).
func backslash(b *eng.Block) (*eng.Step, *errs.Error) {
	ab, err := b.NextArg()
	if err != nil {
		return nil, err
	}
	ab.Supplied(nil)
	arg, err := ab.Concrete()
	if err != nil {
		return nil, err
	}

	outTy := arg.OutTy()
	if outTy == nil {
		return nil, errs.UnknownArgOutputType(ab.Tag())
	}

	return b.Eval(*outTy, func(v value.Value, ctx *eng.Context) (value.Value, *errs.Error) {
		return sameInput(arg, v, ctx)
	})
}
