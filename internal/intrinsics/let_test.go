package intrinsics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogma-lang/ogma/internal/value"
)

func TestLetBindsAndPassesInputThroughUnaffected(t *testing.T) {
	v, _, err := compileAndRun(t, `\ 5 | let $x | \ $x | + 3`)
	require.NoError(t, err)
	n, cerr := value.AsNumber(v)
	require.NoError(t, cerr)
	assert.Equal(t, float64(8), n.AsF64())
}

// $x is bound within the pipeline that declares it; a statement that
// never binds it has no way to see it — each top-level statement
// compiles against its own graph, so there is no ambient scope for a
// variable to leak in from.
func TestLetVarNotVisibleOutsideItsScope(t *testing.T) {
	_, _, err := compileAndRun(t, `\ $x`)
	require.Error(t, err)
}
