package bat

import (
	"github.com/ogma-lang/ogma/internal/parser"
	"github.com/ogma-lang/ogma/internal/types"
)

// buildTypeTable registers every def-ty statement into a fresh type
// table, then fixes up any field referencing a user type that was
// only known as a forward-reference placeholder at parse time (the
// parser resolves built-ins inline but can't know about a type
// declared later in the same file — see parser.placeholderFieldType).
func buildTypeTable(stmts []parser.Statement) *types.Table {
	tt := types.NewTable()
	for _, st := range stmts {
		if st.Kind == parser.StmtDefTy {
			tt.Insert(st.TypeDef)
		}
	}
	for _, st := range stmts {
		if st.Kind != parser.StmtDefTy {
			continue
		}
		fixupFields(st.TypeDef.Structure.Product, tt)
		for _, v := range st.TypeDef.Structure.Sum {
			fixupFields(v.Fields, tt)
		}
	}
	return tt
}

func fixupFields(fields []types.Field, tt *types.Table) {
	for i, f := range fields {
		if f.Ty.Kind() != types.Def || f.Ty.Def() == nil {
			continue
		}
		if canonical, ok := tt.Lookup(f.Ty.Def().Name); ok && canonical != f.Ty.Def() {
			fields[i].Ty = types.NewDef(canonical)
		}
	}
}
