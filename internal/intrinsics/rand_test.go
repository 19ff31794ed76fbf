package intrinsics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogma-lang/ogma/internal/errs"
	"github.com/ogma-lang/ogma/internal/value"
)

// A from >= to range is range-checked before any random value is drawn
// and reported as an evaluation-time error carrying both bounds.
func TestRandRejectsInvertedRange(t *testing.T) {
	_, _, err := compileAndRun(t, `\ #n | rand 5 3`)
	require.Error(t, err)
	ogmaErr, ok := err.(*errs.Error)
	require.True(t, ok)
	assert.Equal(t, "from must be less than to. found from: 5 to: 3", ogmaErr.Desc)
}

func TestRandTwoArgRangeProducesNumberWithinBounds(t *testing.T) {
	v, _, err := compileAndRun(t, `\ #n | rand 1 2`)
	require.NoError(t, err)
	n, cerr := value.AsNumber(v)
	require.NoError(t, cerr)
	assert.GreaterOrEqual(t, n.AsF64(), float64(1))
	assert.Less(t, n.AsF64(), float64(2))
}
