package intrinsics

import (
	"github.com/ogma-lang/ogma/internal/eng"
	"github.com/ogma-lang/ogma/internal/errs"
	"github.com/ogma-lang/ogma/internal/types"
	"github.com/ogma-lang/ogma/internal/value"
)

// nthStr implements `nth idx` over a string: the idx-th rune (0-based),
// or an evaluation error when idx is outside the string's bounds.
func nthStr(b *eng.Block) (*eng.Step, *errs.Error) {
	idxArgB, err := b.NextArg()
	if err != nil {
		return nil, err
	}
	idxArgB.Supplied(nil)
	idxArg, err := idxArgB.Concrete()
	if err != nil {
		return nil, err
	}

	return b.Eval(types.TyStr, func(v value.Value, ctx *eng.Context) (value.Value, *errs.Error) {
		s, cerr := value.AsStr(v)
		if cerr != nil {
			return nil, errs.ConversionFailed(types.TyStr, v.Ty())
		}
		idxVal, rerr := sameInput(idxArg, v, ctx)
		if rerr != nil {
			return nil, rerr
		}
		n, nerr := value.AsNumber(idxVal)
		if nerr != nil {
			return nil, errs.ConversionFailed(types.TyNum, idxVal.Ty())
		}
		runes := []rune(string(s))
		i := int(n.AsF64())
		if i < 0 || i >= len(runes) {
			return nil, errs.StrOutOfBounds(i, idxArgB.Tag())
		}
		return value.Str(string(runes[i])), nil
	})
}

// nthTab implements `nth idx expr` over a table: expr is evaluated
// against the TableRow at row idx+1 (skipping the header), so the
// expression's own declared input type is always TableRow.
func nthTab(b *eng.Block) (*eng.Step, *errs.Error) {
	idxArgB, err := b.NextArg()
	if err != nil {
		return nil, err
	}
	idxArgB.Supplied(nil)
	idxArg, err := idxArgB.Concrete()
	if err != nil {
		return nil, err
	}

	exprArgB, err := b.NextArg()
	if err != nil {
		return nil, err
	}
	exprArgB.Supplied(&types.TyTabRow)
	exprArg, err := exprArgB.Concrete()
	if err != nil {
		return nil, err
	}
	outTy := exprArg.OutTy()
	if outTy == nil {
		return nil, errs.UnknownArgOutputType(exprArgB.Tag())
	}

	return b.Eval(*outTy, func(v value.Value, ctx *eng.Context) (value.Value, *errs.Error) {
		t, cerr := value.AsTable(v)
		if cerr != nil {
			return nil, errs.ConversionFailed(types.TyTab, v.Ty())
		}
		idxVal, rerr := sameInput(idxArg, v, ctx)
		if rerr != nil {
			return nil, rerr
		}
		n, nerr := value.AsNumber(idxVal)
		if nerr != nil {
			return nil, errs.ConversionFailed(types.TyNum, idxVal.Ty())
		}
		row := int(n.AsF64()) + 1
		if row < 1 || row >= t.RowsLen() {
			return nil, errs.RowOutOfBounds(int(n.AsF64()), idxArgB.Tag())
		}
		rowVal := value.NewTableRow(t, row)
		return exprArg.Resolve(func() (value.Value, *errs.Error) { return rowVal, nil }, ctx)
	})
}
