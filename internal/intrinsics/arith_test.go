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

func compileAndRun(t *testing.T, src string) (value.Value, *eng.Program, error) {
	t.Helper()
	stmts, perr := parser.Parse(src, tag.Shell{})
	require.Nil(t, perr)
	require.Len(t, stmts, 1)

	impls := Register(eng.NewImplementations())
	prog, cerr := eng.Compile(stmts[0].Graph, types.NewTable(), impls, types.TyNil)
	if cerr != nil {
		return nil, nil, cerr
	}

	ctx := eng.NewContext()
	v, eerr := prog.Run(value.Nil{}, ctx, stmts[0].Graph.Node(stmts[0].Graph.Root()).Tag)
	if eerr != nil {
		return nil, prog, eerr
	}
	return v, prog, nil
}

func TestAddSubtractPipeline(t *testing.T) {
	v, _, err := compileAndRun(t, `\ 5 | + 3 | - 2`)
	require.NoError(t, err)
	n, cerr := value.AsNumber(v)
	require.NoError(t, cerr)
	assert.Equal(t, float64(6), n.AsF64())
}

func TestSubtractTypeMismatchIsCompileTimeError(t *testing.T) {
	_, _, err := compileAndRun(t, `\ 5 | + 3 | - 'foo'`)
	require.Error(t, err)
}

func TestAddRejectsNonNumberInput(t *testing.T) {
	_, _, err := compileAndRun(t, `\ 'hi' | + 3`)
	require.Error(t, err)
}
