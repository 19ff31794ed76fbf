package intrinsics

import (
	"github.com/ogma-lang/ogma/internal/eng"
	"github.com/ogma-lang/ogma/internal/errs"
	"github.com/ogma-lang/ogma/internal/types"
	"github.com/ogma-lang/ogma/internal/value"
)

// sameInput resolves arg against whatever Value is already flowing
// through the pipeline at v — the overwhelmingly common shape, used by
// every command whose arguments don't introduce a different context
// value (contrast nth's Tab overload, which supplies a TableRow).
func sameInput(arg *eng.Argument, v value.Value, ctx *eng.Context) (value.Value, *errs.Error) {
	return arg.Resolve(func() (value.Value, *errs.Error) { return v, nil }, ctx)
}

// resolveTypeName maps a bareword type name (as found after a `--Ty`
// flag, or as the identifier ogma source would spell) to a types.Type,
// checking built-ins before the shared user/anonymous type table.
func resolveTypeName(tt *types.Table, name string) (types.Type, bool) {
	switch name {
	case "Nil":
		return types.TyNil, true
	case "Bool":
		return types.TyBool, true
	case "Number", "Num":
		return types.TyNum, true
	case "String", "Str":
		return types.TyStr, true
	case "Table", "Tab":
		return types.TyTab, true
	case "TableRow", "TabRow":
		return types.TyTabRow, true
	}
	if def, ok := tt.Lookup(name); ok {
		return types.NewDef(def), true
	}
	return types.Type{}, false
}
