package intrinsics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogma-lang/ogma/internal/value"
)

func TestToStrNumPercentBracketFormat(t *testing.T) {
	v, _, err := compileAndRun(t, `\ 0.4123 | to-str '[.2%]'`)
	require.NoError(t, err)
	s, cerr := value.AsStr(v)
	require.NoError(t, cerr)
	assert.Equal(t, "41.23%", string(s))
}

func TestToStrNumCommaBracketFormat(t *testing.T) {
	v, _, err := compileAndRun(t, `\ 1234567 | to-str '[,]'`)
	require.NoError(t, err)
	s, cerr := value.AsStr(v)
	require.NoError(t, cerr)
	assert.Equal(t, "1,234,567", string(s))
}

func TestToStrNumRejectsUnbracketedFormat(t *testing.T) {
	_, _, err := compileAndRun(t, `\ 1 | to-str ','`)
	require.Error(t, err)
}

func TestToStrBoolRendersTrueFalse(t *testing.T) {
	v, _, err := compileAndRun(t, `\ #t | to-str`)
	require.NoError(t, err)
	s, cerr := value.AsStr(v)
	require.NoError(t, cerr)
	assert.Equal(t, "true", string(s))
}
