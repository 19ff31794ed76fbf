package intrinsics

import (
	"github.com/ogma-lang/ogma/internal/eng"
	"github.com/ogma-lang/ogma/internal/errs"
	"github.com/ogma-lang/ogma/internal/types"
	"github.com/ogma-lang/ogma/internal/value"
)

// lenStr implements `len` over a string, returning its rune count.
func lenStr(b *eng.Block) (*eng.Step, *errs.Error) {
	return b.Eval(types.TyNum, func(v value.Value, ctx *eng.Context) (value.Value, *errs.Error) {
		s, cerr := value.AsStr(v)
		if cerr != nil {
			return nil, errs.ConversionFailed(types.TyStr, v.Ty())
		}
		return value.Num(len([]rune(string(s)))), nil
	})
}

// lenTab implements `len [--cols]` over a table: by default the number
// of data rows (excluding the header); with `--cols`, the column
// count.
func lenTab(b *eng.Block) (*eng.Step, *errs.Error) {
	_, cols := b.GetFlag("cols")
	return b.Eval(types.TyNum, func(v value.Value, ctx *eng.Context) (value.Value, *errs.Error) {
		t, cerr := value.AsTable(v)
		if cerr != nil {
			return nil, errs.ConversionFailed(types.TyTab, v.Ty())
		}
		if cols {
			return value.Num(float64(t.ColsLen())), nil
		}
		n := t.RowsLen() - 1
		if n < 0 {
			n = 0
		}
		return value.Num(float64(n)), nil
	})
}
