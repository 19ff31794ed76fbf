package intrinsics

import (
	"github.com/ogma-lang/ogma/internal/eng"
	"github.com/ogma-lang/ogma/internal/errs"
	"github.com/ogma-lang/ogma/internal/types"
	"github.com/ogma-lang/ogma/internal/value"
)

// tableCmd implements `Table name1 name2 …`: a fresh, empty table whose
// columns are named by the (literal) argument tags — column names are
// headers, known entirely at compile time, so no argument resolution
// happens at eval time.
func tableCmd(b *eng.Block) (*eng.Step, *errs.Error) {
	var names []string
	for b.ArgsLen() > 0 {
		ab, err := b.NextArg()
		if err != nil {
			return nil, err
		}
		names = append(names, ab.Tag().Str())
	}

	return b.Eval(types.TyTab, func(value.Value, *eng.Context) (value.Value, *errs.Error) {
		t := value.NewTable()
		for _, name := range names {
			t = t.AddCol([]value.Value{value.Str(name)})
		}
		return t, nil
	})
}

// tupleCmd implements `Tuple a b …` (at least two arguments): mints an
// anonymous product TypeDef named by types.MangleTuple over the
// arguments' inferred types, registers it (idempotently — the same
// shape always mangles to the same name) in the shared type table, and
// builds an instance from the resolved argument values.
func tupleCmd(b *eng.Block) (*eng.Step, *errs.Error) {
	if b.ArgsLen() < 2 {
		return nil, errs.InsufficientArgs(b.BlkTag(), b.ArgsLen(), "Tuple", nil)
	}

	var args []*eng.Argument
	var tys []types.Type
	for b.ArgsLen() > 0 {
		ab, err := b.NextArg()
		if err != nil {
			return nil, err
		}
		ab.Supplied(nil)
		arg, cerr := ab.Concrete()
		if cerr != nil {
			return nil, cerr
		}
		outTy := arg.OutTy()
		if outTy == nil {
			return nil, errs.UnknownArgOutputType(ab.Tag())
		}
		args = append(args, arg)
		tys = append(tys, *outTy)
	}

	def := b.TypeTable().Insert(types.NewTupleDef(tys))
	ty := types.NewDef(def)

	return b.Eval(ty, func(v value.Value, ctx *eng.Context) (value.Value, *errs.Error) {
		data := make([]value.Value, len(args))
		for i, a := range args {
			val, err := sameInput(a, v, ctx)
			if err != nil {
				return nil, err
			}
			data[i] = val
		}
		return value.NewOgmaData(def, "", data), nil
	})
}
