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

// len counts runes, not bytes: an emoji is one rune and several UTF-8
// bytes.
func TestLenStrCountsRunesNotBytes(t *testing.T) {
	v, _, err := compileAndRun(t, `\ 'Hello, 🌎!' | len`)
	require.NoError(t, err)
	n, cerr := value.AsNumber(v)
	require.NoError(t, cerr)
	assert.Equal(t, float64(9), n.AsF64())
}

func TestLenTabColsCountsColumnsNotRows(t *testing.T) {
	stmts, perr := parser.Parse(`Table a b c | len --cols`, tag.Shell{})
	require.Nil(t, perr)
	require.Len(t, stmts, 1)

	impls := Register(eng.NewImplementations())
	prog, cerr := eng.Compile(stmts[0].Graph, types.NewTable(), impls, types.TyNil)
	require.Nil(t, cerr)

	ctx := eng.NewContext()
	v, eerr := prog.Run(value.Nil{}, ctx, stmts[0].Graph.Node(stmts[0].Graph.Root()).Tag)
	require.Nil(t, eerr)

	n, cerr2 := value.AsNumber(v)
	require.NoError(t, cerr2)
	assert.Equal(t, float64(3), n.AsF64())
}
