package intrinsics

import (
	"github.com/ogma-lang/ogma/internal/eng"
	"github.com/ogma-lang/ogma/internal/errs"
	"github.com/ogma-lang/ogma/internal/types"
	"github.com/ogma-lang/ogma/internal/value"
)

// rangeNilIn implements `range from to` against a Nil (start-of-
// pipeline) input: both bounds are supplied as arguments.
func rangeNilIn(b *eng.Block) (*eng.Step, *errs.Error) {
	fromArg, err := concreteArg(b)
	if err != nil {
		return nil, err
	}
	toArg, err := concreteArg(b)
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
		return rangeTable(from, to), nil
	})
}

// rangeNumIn implements `range from` against a Number input: the
// pipeline's current value becomes `to`, letting a range be chained
// straight off a computed bound (spec §4.6: "input-as-`to` shortcut").
func rangeNumIn(b *eng.Block) (*eng.Step, *errs.Error) {
	fromArg, err := concreteArg(b)
	if err != nil {
		return nil, err
	}

	return b.Eval(types.TyTab, func(v value.Value, ctx *eng.Context) (value.Value, *errs.Error) {
		to, cerr := value.AsNumber(v)
		if cerr != nil {
			return nil, errs.ConversionFailed(types.TyNum, v.Ty())
		}
		from, rerr := resolveNumber(fromArg, v, ctx)
		if rerr != nil {
			return nil, rerr
		}
		return rangeTable(from, to.AsF64()), nil
	})
}

func rangeTable(from, to float64) *value.Table {
	entries := []value.Value{value.Str("i")}
	for i := int(from); i < int(to); i++ {
		entries = append(entries, value.Num(float64(i)))
	}
	return value.NewTable().AddCol(entries)
}
