package bat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogma-lang/ogma/internal/tag"
	"github.com/ogma-lang/ogma/internal/value"
)

func TestRunSequentialExprStatements(t *testing.T) {
	src := "\\ 5 | + 3\n\n\\ 10 | - 4\n"
	results, err := Run(src, tag.Shell{}, Options{})
	require.Nil(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, Success, results[0].Outcome)
	n, cerr := value.AsNumber(results[0].Value)
	require.NoError(t, cerr)
	assert.Equal(t, float64(8), n.AsF64())

	assert.Equal(t, Success, results[1].Outcome)
	n, cerr = value.AsNumber(results[1].Value)
	require.NoError(t, cerr)
	assert.Equal(t, float64(6), n.AsF64())
}

func TestRunFailFastMarksLaterStatementsOutstanding(t *testing.T) {
	src := "\\ 5 | - 'foo'\n\n\\ 1 | + 1\n"
	results, err := Run(src, tag.Shell{}, Options{FailFast: true})
	require.Nil(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, Failed, results[0].Outcome)
	assert.Equal(t, Outstanding, results[1].Outcome)
}

func TestRunParallelPreservesSourceOrder(t *testing.T) {
	src := "\\ 1 | + 1\n\n\\ 2 | + 2\n\n\\ 3 | + 3\n"
	results, err := Run(src, tag.Shell{}, Options{Parallelise: true})
	require.Nil(t, err)
	require.Len(t, results, 3)

	want := []float64{2, 4, 6}
	for i, r := range results {
		require.Equal(t, Success, r.Outcome)
		n, cerr := value.AsNumber(r.Value)
		require.NoError(t, cerr)
		assert.Equal(t, want[i], n.AsF64())
	}
}

func TestRunDefExpansion(t *testing.T) {
	src := "def add-one (x) {\n\t\\ $x | + 1\n}\n\nadd-one 5\n"
	results, err := Run(src, tag.Shell{}, Options{})
	require.Nil(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, Success, results[0].Outcome)
	assert.Equal(t, Success, results[1].Outcome)
	n, cerr := value.AsNumber(results[1].Value)
	require.NoError(t, cerr)
	assert.Equal(t, float64(6), n.AsF64())
}

func TestRunRecursiveDefIsRejected(t *testing.T) {
	src := "def loop (x) {\n\tloop $x\n}\n\nloop 5\n"
	results, err := Run(src, tag.Shell{}, Options{})
	require.Nil(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, Failed, results[1].Outcome)
	require.NotNil(t, results[1].Err)
}

// A statement that fails to parse records its own Failed outcome; it
// does not prevent the rest of the batch from running (mirrors the
// original's batch_fail_testing: a success, then a semantics failure,
// then a statement that never parses, in one run).
func TestRunStatementParseFailureIsolatesOthers(t *testing.T) {
	src := "\\ 5 | + 1\n\n\\ 5 | - 'foo'\n\ndef-ty Foo {\n\tx:Num\n\ty:\n}\n"
	results, err := Run(src, tag.Shell{}, Options{})
	require.Nil(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, Success, results[0].Outcome)
	n, cerr := value.AsNumber(results[0].Value)
	require.NoError(t, cerr)
	assert.Equal(t, float64(6), n.AsF64())

	assert.Equal(t, Failed, results[1].Outcome)

	assert.Equal(t, Failed, results[2].Outcome)
	require.NotNil(t, results[2].Err)
	assert.Equal(t, "missing a valid type specifier: `field:Type`", results[2].Err.Desc)
}

func TestRunCancelledMidRunSurfacesAsCancelledOutcome(t *testing.T) {
	cancel := make(chan struct{})
	close(cancel)

	results, err := Run("\\ 5 | + 1\n", tag.Shell{}, Options{Cancel: cancel})
	require.Nil(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, Cancelled, results[0].Outcome)
	require.NotNil(t, results[0].Err)
	assert.True(t, results[0].Err.Cancelled)
}
