package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogma-lang/ogma/internal/astgraph"
	"github.com/ogma-lang/ogma/internal/tag"
	"github.com/ogma-lang/ogma/internal/types"
)

func TestParseSimplePipeline(t *testing.T) {
	stmts, err := Parse(`\ 5 | len`, tag.Shell{})
	require.Nil(t, err)
	require.Len(t, stmts, 1)

	st := stmts[0]
	assert.Equal(t, StmtExpr, st.Kind)
	stages := st.Graph.Stages(st.Graph.Root())
	require.Len(t, stages, 2)

	nameTag, _, ok := st.Graph.Op(stages[0])
	require.True(t, ok)
	assert.Equal(t, `\`, nameTag.Str())

	nameTag, _, ok = st.Graph.Op(stages[1])
	require.True(t, ok)
	assert.Equal(t, "len", nameTag.Str())
}

func TestParseStringLiteralTagExcludesQuotes(t *testing.T) {
	stmts, err := Parse(`\ 'Hello, world!' | len`, tag.Shell{})
	require.Nil(t, err)
	st := stmts[0]
	stages := st.Graph.Stages(st.Graph.Root())

	args := st.Graph.Args(stages[0])
	require.Len(t, args, 1)
	lit := st.Graph.Node(args[0])
	assert.Equal(t, astgraph.KindIdent, lit.Kind)
	assert.Equal(t, "Hello, world!", lit.Tag.Str())
}

func TestParseFlagsAndVarsAndPound(t *testing.T) {
	stmts, err := Parse(`ls --cols | let $x | \ $x | + #t`, tag.Shell{})
	require.Nil(t, err)
	st := stmts[0]
	stages := st.Graph.Stages(st.Graph.Root())
	require.Len(t, stages, 4)

	flags := st.Graph.Flags(stages[0])
	require.Len(t, flags, 1)
	assert.Equal(t, "--cols", st.Graph.Node(flags[0]).Tag.Str())

	letArgs := st.Graph.Args(stages[1])
	require.Len(t, letArgs, 1)
	assert.Equal(t, astgraph.KindVar, st.Graph.Node(letArgs[0]).Kind)

	bsArgs := st.Graph.Args(stages[2])
	require.Len(t, bsArgs, 1)
	assert.Equal(t, astgraph.KindVar, st.Graph.Node(bsArgs[0]).Kind)

	plusArgs := st.Graph.Args(stages[3])
	require.Len(t, plusArgs, 1)
	assert.Equal(t, astgraph.KindPound, st.Graph.Node(plusArgs[0]).Kind)
}

func TestParseNegativeNumberVsFlagVsOperator(t *testing.T) {
	stmts, err := Parse(`\ -5 | + -3 | -`, tag.Shell{})
	require.Nil(t, err)
	st := stmts[0]
	stages := st.Graph.Stages(st.Graph.Root())
	require.Len(t, stages, 3)

	backslashArgs := st.Graph.Args(stages[0])
	require.Len(t, backslashArgs, 1)
	n := st.Graph.Node(backslashArgs[0])
	assert.Equal(t, astgraph.KindNum, n.Kind)
	assert.Equal(t, float64(-5), n.NumValue)

	plusArgs := st.Graph.Args(stages[1])
	require.Len(t, plusArgs, 1)
	assert.Equal(t, float64(-3), st.Graph.Node(plusArgs[0]).NumValue)

	nameTag, _, ok := st.Graph.Op(stages[2])
	require.True(t, ok)
	assert.Equal(t, "-", nameTag.Str())
}

func TestParseDefWithParams(t *testing.T) {
	stmts, err := Parse("def add-one (x) {\n\t\\ $x | + 1\n}", tag.Shell{})
	require.Nil(t, err)
	require.Len(t, stmts, 1)

	st := stmts[0]
	assert.Equal(t, StmtDef, st.Kind)
	assert.Equal(t, "add-one", st.DefName)
	require.Len(t, st.Params, 1)
	assert.Equal(t, "x", st.Params[0].Str())
	require.NotNil(t, st.Body)
}

func TestParseDefTyProduct(t *testing.T) {
	stmts, err := Parse("def-ty Foo {\n\tx:Num\n\ty:Str\n}", tag.Shell{})
	require.Nil(t, err)
	st := stmts[0]
	require.Equal(t, StmtDefTy, st.Kind)
	require.NotNil(t, st.TypeDef)
	assert.Equal(t, "Foo", st.TypeDef.Name)
	require.Len(t, st.TypeDef.Structure.Product, 2)
	assert.Equal(t, "x", st.TypeDef.Structure.Product[0].Name)
	assert.True(t, st.TypeDef.Structure.Product[0].Ty.Equal(types.TyNum))
}

func TestParseDefTyMissingFieldTypeErrors(t *testing.T) {
	_, err := Parse("def-ty Foo {\n\tx:Num\n\ty:\n}", tag.Shell{})
	require.NotNil(t, err)
	assert.Equal(t, "missing a valid type specifier: `field:Type`", err.Desc)
}

func TestParseDefTySumVariants(t *testing.T) {
	stmts, err := Parse("def-ty Shape :: Circle { r:Num } | Square { s:Num }", tag.Shell{})
	require.Nil(t, err)
	st := stmts[0]
	require.True(t, st.TypeDef.Structure.IsSum())
	require.Len(t, st.TypeDef.Structure.Sum, 2)
	assert.Equal(t, "Circle", st.TypeDef.Structure.Sum[0].Name)
	assert.Equal(t, "Square", st.TypeDef.Structure.Sum[1].Name)
}

func TestParseBlankLineSeparatedStatements(t *testing.T) {
	src := "\\ 1 | len\n\n# a comment, dropped\n\\ 2 | len\n"
	stmts, err := Parse(src, tag.Shell{})
	require.Nil(t, err)
	assert.Len(t, stmts, 2)
}

func TestParseNestedBracedExpr(t *testing.T) {
	stmts, err := Parse(`get { \ 'name' }`, tag.Shell{})
	require.Nil(t, err)
	st := stmts[0]
	stages := st.Graph.Stages(st.Graph.Root())
	require.Len(t, stages, 1)
	args := st.Graph.Args(stages[0])
	require.Len(t, args, 1)
	assert.Equal(t, astgraph.KindExpr, st.Graph.Node(args[0]).Kind)
}

func TestParseUnexpectedTrailingInputErrors(t *testing.T) {
	_, err := Parse(`\ 5 )`, tag.Shell{})
	require.NotNil(t, err)
}
