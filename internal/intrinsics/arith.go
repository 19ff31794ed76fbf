package intrinsics

import (
	"github.com/ogma-lang/ogma/internal/eng"
	"github.com/ogma-lang/ogma/internal/errs"
	"github.com/ogma-lang/ogma/internal/types"
	"github.com/ogma-lang/ogma/internal/value"
)

// add implements `+ n` over a Number input: the single argument is
// resolved against the pipeline's carried value and summed with it
// (spec §8 scenario 5/7 exercise `+`/`-` directly against a Number
// pipeline).
func add(b *eng.Block) (*eng.Step, *errs.Error) {
	return arith(b, func(a, c float64) float64 { return a + c })
}

// sub implements `- n` over a Number input: the argument is subtracted
// from the pipeline's carried value.
func sub(b *eng.Block) (*eng.Step, *errs.Error) {
	return arith(b, func(a, c float64) float64 { return a - c })
}

func arith(b *eng.Block, op func(carried, arg float64) float64) (*eng.Step, *errs.Error) {
	ab, err := b.NextArg()
	if err != nil {
		return nil, err
	}
	ab.Supplied(&types.TyNum)
	if _, rerr := ab.Returns(types.TyNum); rerr != nil {
		return nil, rerr
	}
	arg, cerr := ab.Concrete()
	if cerr != nil {
		return nil, cerr
	}

	return b.Eval(types.TyNum, func(v value.Value, ctx *eng.Context) (value.Value, *errs.Error) {
		carried, verr := value.AsNumber(v)
		if verr != nil {
			return nil, errs.ConversionFailed(types.TyNum, v.Ty())
		}
		argVal, rerr := sameInput(arg, v, ctx)
		if rerr != nil {
			return nil, rerr
		}
		n, nerr := value.AsNumber(argVal)
		if nerr != nil {
			return nil, errs.ConversionFailed(types.TyNum, argVal.Ty())
		}
		return value.Num(op(carried.AsF64(), n.AsF64())), nil
	})
}
