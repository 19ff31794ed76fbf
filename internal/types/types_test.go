package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinTypesCompareByKindAlone(t *testing.T) {
	assert.True(t, TyNum.Equal(TyNum))
	assert.False(t, TyNum.Equal(TyStr))
}

func TestDefTypesCompareByName(t *testing.T) {
	a := NewDef(&TypeDef{Name: "Foo"})
	b := NewDef(&TypeDef{Name: "Foo"}) // distinct pointer, same name
	c := NewDef(&TypeDef{Name: "Bar"})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestMangleTupleIsStableAcrossReentrantCalls(t *testing.T) {
	shape := []Type{TyNum, TyStr, TyBool}
	assert.Equal(t, "U_Number-String-Bool_", MangleTuple(shape))
	assert.Equal(t, MangleTuple(shape), MangleTuple([]Type{TyNum, TyStr, TyBool}))
}

// TestNewTupleDefStructuralShape uses go-cmp rather than testify's
// ObjectsAreEqual for this one: a TypeDef's Structure.Product holds
// Type values with an unexported def pointer, so a deep structural diff
// needs to compare field-by-field rather than via reflect.DeepEqual on
// the whole tree (SPEC_FULL.md's ambient-stack test-tooling section).
func TestNewTupleDefStructuralShape(t *testing.T) {
	def := NewTupleDef([]Type{TyNum, TyStr})

	want := TypeDef{
		Name: "U_Number-String_",
		Structure: TypeVariant{
			Product: []Field{
				{Name: "t0", Ty: TyNum},
				{Name: "t1", Ty: TyStr},
			},
		},
	}

	diff := cmp.Diff(want, *def, cmp.AllowUnexported(Type{}))
	require.Empty(t, diff, "tuple TypeDef shape mismatch (-want +got):\n%s", diff)
}

func TestTableInsertIsIdempotentByName(t *testing.T) {
	tab := NewTable()
	first := tab.Insert(&TypeDef{Name: "Foo"})
	second := tab.Insert(&TypeDef{Name: "Foo"})
	assert.Same(t, first, second)

	_, ok := tab.Lookup("Foo")
	assert.True(t, ok)
	_, ok = tab.Lookup("Missing")
	assert.False(t, ok)
}

func TestTableNamesSorted(t *testing.T) {
	tab := NewTable()
	tab.Insert(&TypeDef{Name: "Zeta"})
	tab.Insert(&TypeDef{Name: "Alpha"})
	assert.Equal(t, []string{"Alpha", "Zeta"}, tab.Names())
}
