package graphs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ogma-lang/ogma/internal/astgraph"
	"github.com/ogma-lang/ogma/internal/tag"
	"github.com/ogma-lang/ogma/internal/types"
)

func tg(start, end int) tag.Tag {
	return tag.New(tag.Shell{}, "\\ 5 | let $x | \\ $x | + 3", start, end)
}

func TestApplyKnownOutputThenRedundant(t *testing.T) {
	g := New(4)

	res, err := g.Apply(KnownOutput(0, types.TyNum, tg(0, 3)))
	assert.Nil(t, err)
	assert.Equal(t, Applied, res)
	assert.Equal(t, types.TyNum, *g.KnownOutput(0))

	res, err = g.Apply(KnownOutput(0, types.TyNum, tg(0, 3)))
	assert.Nil(t, err)
	assert.Equal(t, Redundant, res)
}

func TestApplyKnownOutputConflict(t *testing.T) {
	g := New(4)

	_, err := g.Apply(KnownOutput(1, types.TyNum, tg(0, 3)))
	assert.Nil(t, err)

	_, err = g.Apply(KnownOutput(1, types.TyStr, tg(6, 9)))
	assert.NotNil(t, err)
	assert.True(t, err.Hard)
	assert.Len(t, err.Traces, 2)
}

func TestScopeLookupWalksParentChain(t *testing.T) {
	g := New(5)
	g.LinkScope(astgraph.Idx(2), astgraph.Idx(1))
	g.LinkScope(astgraph.Idx(3), astgraph.Idx(2))

	res := g.NewVar(astgraph.Idx(2), "x", types.TyNum, tg(10, 12))
	assert.NotNil(t, res.Variable)
	assert.Nil(t, res.Pending)

	v, ok := g.Lookup(astgraph.Idx(3), "x")
	assert.True(t, ok)
	assert.Equal(t, "x", v.Name)
	assert.Equal(t, types.TyNum, v.DeclaredType)

	_, ok = g.Lookup(astgraph.Idx(1), "x")
	assert.False(t, ok, "a binding must not be visible at its own scope ancestor")
}

func TestNewVarDefersForUnknownNode(t *testing.T) {
	g := New(2)

	res := g.NewVar(astgraph.Idx(50), "y", types.TyStr, tg(0, 1))
	assert.Nil(t, res.Variable)
	assert.NotNil(t, res.Pending)
	assert.Equal(t, ChgAddVar, res.Pending.Kind)

	applied, err := g.Apply(*res.Pending)
	assert.Nil(t, err)
	assert.Equal(t, Applied, applied)

	v, ok := g.Lookup(astgraph.Idx(50), "y")
	assert.True(t, ok)
	assert.Equal(t, "y", v.Name)
}

func TestShadowingOverridesOuterBinding(t *testing.T) {
	g := New(3)
	g.LinkScope(astgraph.Idx(1), astgraph.Idx(0))

	g.NewVar(astgraph.Idx(0), "x", types.TyNum, tg(0, 1))
	g.NewVar(astgraph.Idx(1), "x", types.TyStr, tg(2, 3))

	v, ok := g.Lookup(astgraph.Idx(1), "x")
	assert.True(t, ok)
	assert.Equal(t, types.TyStr, v.DeclaredType)

	v, ok = g.Lookup(astgraph.Idx(0), "x")
	assert.True(t, ok)
	assert.Equal(t, types.TyNum, v.DeclaredType)
}
