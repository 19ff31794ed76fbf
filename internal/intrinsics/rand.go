package intrinsics

import (
	"fmt"
	"math/rand"

	"github.com/ogma-lang/ogma/internal/eng"
	"github.com/ogma-lang/ogma/internal/errs"
	"github.com/ogma-lang/ogma/internal/types"
	"github.com/ogma-lang/ogma/internal/value"
)

// randCmd implements `rand`'s four-arity dispatch (spec §4.6, original
// design note): zero args produce a single Number in [0,1); one arg
// `to` produces [0,to); two args `from to` produce [from,to); three
// args `from to len` produce a one-column Table named "rand" with len
// random entries in [from,to). Every from/to pair is range-checked
// before any random value is drawn, so a bad range never allocates a
// table first.
func randCmd(b *eng.Block) (*eng.Step, *errs.Error) {
	switch b.ArgsLen() {
	case 0:
		return b.Eval(types.TyNum, func(value.Value, *eng.Context) (value.Value, *errs.Error) {
			return value.Num(rand.Float64()), nil
		})
	case 1:
		toArg, err := concreteArg(b)
		if err != nil {
			return nil, err
		}
		return b.Eval(types.TyNum, func(v value.Value, ctx *eng.Context) (value.Value, *errs.Error) {
			to, rerr := resolveNumber(toArg, v, ctx)
			if rerr != nil {
				return nil, rerr
			}
			if !(0 < to) {
				return nil, randRangeErr(b, 0, to)
			}
			return value.Num(rand.Float64() * to), nil
		})
	case 2:
		fromArg, err := concreteArg(b)
		if err != nil {
			return nil, err
		}
		toArg, err := concreteArg(b)
		if err != nil {
			return nil, err
		}
		return b.Eval(types.TyNum, func(v value.Value, ctx *eng.Context) (value.Value, *errs.Error) {
			from, rerr := resolveNumber(fromArg, v, ctx)
			if rerr != nil {
				return nil, rerr
			}
			to, rerr := resolveNumber(toArg, v, ctx)
			if rerr != nil {
				return nil, rerr
			}
			if !(from < to) {
				return nil, randRangeErr(b, from, to)
			}
			return value.Num(from + rand.Float64()*(to-from)), nil
		})
	case 3:
		fromArg, err := concreteArg(b)
		if err != nil {
			return nil, err
		}
		toArg, err := concreteArg(b)
		if err != nil {
			return nil, err
		}
		lenArg, err := concreteArg(b)
		if err != nil {
			return nil, err
		}
		return b.Eval(types.TyTab, func(v value.Value, ctx *eng.Context) (value.Value, *errs.Error) {
			from, rerr := resolveNumber(fromArg, v, ctx)
			if rerr != nil {
				return nil, rerr
			}
			to, rerr := resolveNumber(toArg, v, ctx)
			if rerr != nil {
				return nil, rerr
			}
			if !(from < to) {
				return nil, randRangeErr(b, from, to)
			}
			n, rerr := resolveNumber(lenArg, v, ctx)
			if rerr != nil {
				return nil, rerr
			}
			entries := make([]value.Value, 0, int(n)+1)
			entries = append(entries, value.Str("rand"))
			for i := 0; i < int(n); i++ {
				entries = append(entries, value.Num(from+rand.Float64()*(to-from)))
			}
			return value.NewTable().AddCol(entries), nil
		})
	default:
		return nil, errs.InsufficientArgs(b.BlkTag(), b.ArgsLen(), "rand", nil)
	}
}

func concreteArg(b *eng.Block) (*eng.Argument, *errs.Error) {
	ab, err := b.NextArg()
	if err != nil {
		return nil, err
	}
	ab.Supplied(nil)
	return ab.Concrete()
}

func resolveNumber(arg *eng.Argument, v value.Value, ctx *eng.Context) (float64, *errs.Error) {
	val, err := sameInput(arg, v, ctx)
	if err != nil {
		return 0, err
	}
	n, cerr := value.AsNumber(val)
	if cerr != nil {
		return 0, errs.ConversionFailed(types.TyNum, val.Ty())
	}
	return n.AsF64(), nil
}

func randRangeErr(b *eng.Block, from, to float64) *errs.Error {
	return errs.Eval(b.BlkTag(), fmt.Sprintf("from must be less than to. found from: %v to: %v", from, to), "", "")
}
