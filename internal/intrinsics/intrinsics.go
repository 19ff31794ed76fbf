// Package intrinsics implements ogma's built-in command set (spec
// §4.6) as eng.Impl registrations: `\`, `get`/`.`, `let`, `len`, `nth`,
// `rand`, `range`, `Table`, `Tuple` and `to-str`, plus the `+`/`-`
// arithmetic operators exercised by the worked examples in spec §8.
// Each command is grounded on the compile-time protocol internal/eng
// exposes (Block/ArgBuilder/Argument) rather than reaching into the
// AST graph directly.
package intrinsics

import (
	"github.com/ogma-lang/ogma/internal/eng"
	"github.com/ogma-lang/ogma/internal/types"
)

// Register installs every built-in command into impls. Commands that
// mint anonymous types (`Tuple`) reach the shared type registry
// through Block.TypeTable at compile time, so Register itself needs no
// extra arguments.
func Register(impls *eng.Implementations) *eng.Implementations {
	impls.Add(eng.Impl{Name: "\\", InTy: nil, Compile: backslash, Category: "pipeline"})

	impls.Add(eng.Impl{Name: "get", InTy: &types.TyTabRow, Compile: getTableRow, Category: "data"})
	impls.Add(eng.Impl{Name: "get", InTy: nil, Compile: getProduct, Category: "data"})
	impls.Add(eng.Impl{Name: ".", InTy: nil, Compile: dot, Category: "data"})

	impls.Add(eng.Impl{Name: "let", InTy: nil, Compile: let, Category: "pipeline"})

	impls.Add(eng.Impl{Name: "len", InTy: &types.TyStr, Compile: lenStr, Category: "data"})
	impls.Add(eng.Impl{Name: "len", InTy: &types.TyTab, Compile: lenTab, Category: "data"})

	impls.Add(eng.Impl{Name: "nth", InTy: &types.TyStr, Compile: nthStr, Category: "data"})
	impls.Add(eng.Impl{Name: "nth", InTy: &types.TyTab, Compile: nthTab, Category: "data"})

	impls.Add(eng.Impl{Name: "rand", InTy: &types.TyNil, Compile: randCmd, Category: "data"})

	impls.Add(eng.Impl{Name: "range", InTy: &types.TyNil, Compile: rangeNilIn, Category: "data"})
	impls.Add(eng.Impl{Name: "range", InTy: &types.TyNum, Compile: rangeNumIn, Category: "data"})

	impls.Add(eng.Impl{Name: "Table", InTy: nil, Compile: tableCmd, Category: "data"})
	impls.Add(eng.Impl{Name: "Tuple", InTy: nil, Compile: tupleCmd, Category: "data"})

	impls.Add(eng.Impl{Name: "to-str", InTy: nil, Compile: toStr, Category: "data"})

	impls.Add(eng.Impl{Name: "+", InTy: &types.TyNum, Compile: add, Category: "arithmetic"})
	impls.Add(eng.Impl{Name: "-", InTy: &types.TyNum, Compile: sub, Category: "arithmetic"})

	return impls
}
