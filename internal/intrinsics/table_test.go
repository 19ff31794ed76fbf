package intrinsics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogma-lang/ogma/internal/eng"
	"github.com/ogma-lang/ogma/internal/parser"
	"github.com/ogma-lang/ogma/internal/tag"
	"github.com/ogma-lang/ogma/internal/types"
	"github.com/ogma-lang/ogma/internal/value"
)

// Tuple mints an anonymous product type named by its field types'
// mangled shape, registers it (idempotently) in the shared type table,
// and get resolves a field of it by name like any other product type.
func TestTupleMintsAnonymousTypeAndGetResolvesField(t *testing.T) {
	stmts, perr := parser.Parse(`Tuple 1 'foo' #t | get t2`, tag.Shell{})
	require.Nil(t, perr)
	require.Len(t, stmts, 1)

	typeTab := types.NewTable()
	impls := Register(eng.NewImplementations())
	prog, cerr := eng.Compile(stmts[0].Graph, typeTab, impls, types.TyNil)
	require.Nil(t, cerr)

	ctx := eng.NewContext()
	v, eerr := prog.Run(value.Nil{}, ctx, stmts[0].Graph.Node(stmts[0].Graph.Root()).Tag)
	require.Nil(t, eerr)

	b, cerr2 := value.AsBool(v)
	require.NoError(t, cerr2)
	assert.True(t, b)

	_, ok := typeTab.Lookup(types.MangleTuple([]types.Type{types.TyNum, types.TyStr, types.TyBool}))
	assert.True(t, ok, "Tuple must register its anonymous shape in the shared type table")
}
