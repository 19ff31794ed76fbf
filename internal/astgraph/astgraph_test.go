package astgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ogma-lang/ogma/internal/tag"
)

func tg(start, end int) tag.Tag {
	return tag.New(tag.Shell{}, "\\ 5 | len", start, end)
}

func TestPipelineStagesInSourceOrder(t *testing.T) {
	g := New()

	inputOp := g.Push(NewOp(tg(0, 1), tg(0, 3), nil, nil))
	numArg := g.Push(NewNum(5, tg(2, 3)))
	lenOp := g.Push(NewOp(tg(6, 9), tg(6, 9), []Idx{numArg}, nil))
	expr := g.Push(NewExpr([]Idx{inputOp, lenOp}, tg(0, 9)))
	g.SetRoot(expr)

	assert.Equal(t, expr, g.Root())
	assert.Equal(t, []Idx{inputOp, lenOp}, g.Stages(expr))

	nameTag, blkTag, ok := g.Op(lenOp)
	assert.True(t, ok)
	assert.Equal(t, tg(6, 9), nameTag)
	assert.Equal(t, tg(6, 9), blkTag)
	assert.Equal(t, 0, g.ArgsLen(lenOp))

	_, _, ok = g.Op(expr)
	assert.False(t, ok)
}

func TestFlagNodeWithAndWithoutValue(t *testing.T) {
	g := New()

	val := g.Push(NewIdent(tg(0, 1)))
	withVal := g.Push(NewFlag(tg(2, 8), val))
	bare := g.Push(NewFlag(tg(10, 15), NoIdx))

	assert.Equal(t, val, g.Node(withVal).FlagArg)
	assert.Equal(t, NoIdx, g.Node(bare).FlagArg)
}

func TestDefNodeHoldsParamsAndBody(t *testing.T) {
	g := New()

	body := g.Push(NewExpr(nil, tg(15, 20)))
	def := g.Push(NewDef(tg(4, 11), []tag.Tag{tg(12, 14)}, body))

	n := g.Node(def)
	assert.Equal(t, KindDef, n.Kind)
	assert.Equal(t, body, n.Body)
	assert.Len(t, n.Params, 1)
}
