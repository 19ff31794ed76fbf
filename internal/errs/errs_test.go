package errs

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/ogma-lang/ogma/internal/tag"
)

func printTrace(t *testing.T, tr Trace) string {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	var b strings.Builder
	require := assert.New(t)
	require.NoError(tr.print(&b))
	return b.String()
}

type codeLineTuple struct {
	text       string
	start, end int
}

func tuples(lines []codeLine) []codeLineTuple {
	out := make([]codeLineTuple, len(lines))
	for i, l := range lines {
		out[i] = codeLineTuple{l.text, l.start, l.end}
	}
	return out
}

func TestTraceCodeLines(t *testing.T) {
	assert.Equal(t, []codeLineTuple{{"Hello", 0, 5}}, tuples(traceCodeLines("Hello", 0, 5)))
	assert.Equal(t, []codeLineTuple{{"Hello", 1, 3}}, tuples(traceCodeLines("Hello", 1, 3)))
	assert.Equal(t, []codeLineTuple{{"World", 0, 5}}, tuples(traceCodeLines("Hello\nWorld", 6, 11)))
	assert.Equal(t, []codeLineTuple{{"World", 1, 3}}, tuples(traceCodeLines("Hello\nWorld", 7, 9)))
	assert.Equal(t, []codeLineTuple{
		{"Hello", 2, 5},
		{"World", 0, 5},
		{"Look here", 0, 4},
	}, tuples(traceCodeLines("Hello\nWorld\nLook here", 2, 16)))
}

func TestTraceCodeSingleMark(t *testing.T) {
	assert.Equal(t, []codeLineTuple{{"in | ", 5, 6}}, tuples(traceCodeLines("in | ", 5, 6)))
}

func TestPrintingErrorTracesBasic(t *testing.T) {
	tr := Trace{Loc: tag.Shell{}, Source: "Hello", Start: 3, Len: 2}
	got := printTrace(t, tr)
	assert.Equal(t, "--> shell:3\n | Hello\n |    ^^\n", got)
}

func TestPrintingErrorTracesMultilineSingleSpan(t *testing.T) {
	tr := Trace{Loc: tag.Shell{}, Source: "Hello\nWorld\nThis is\nA multiline", Start: 12, Len: 4}
	got := printTrace(t, tr)
	assert.Equal(t, "--> shell:0\n | This is\n | ^^^^\n", got)

	tr = Trace{Loc: tag.Shell{}, Source: "Hello\nWorld\n    This is\n    A multiline", Start: 7, Len: 20}
	got = printTrace(t, tr)
	assert.Equal(t,
		"--> shell:1\n | World\n |     This is\n |     A multiline\n |  ^^^^^^^^^^\n",
		got,
	)
}

func TestPrintingErrorTracesMultilineMultiSpan(t *testing.T) {
	tr := Trace{
		Loc:    tag.Shell{},
		Source: "if { foo {\n    bar zog |\n    43 |\n    }\n}",
		Start:  18,
		Len:    10,
	}
	got := printTrace(t, tr)
	assert.Equal(t,
		"--> shell:7\n |     bar zog |\n |     43 |\n |     ^^^^^^^^^\n",
		got,
	)
}

func TestSingleMarkCmd(t *testing.T) {
	tr := Trace{Loc: tag.Shell{}, Source: "in | ", Start: 5, Len: 1}
	got := printTrace(t, tr)
	assert.Equal(t, "--> shell:5\n | in | \n |      ^\n", got)
}

func TestInferenceDepthError(t *testing.T) {
	e := InferenceDepth()
	assert.True(t, e.IsInferenceDepthError())
}

func TestErrorAddTrace(t *testing.T) {
	e := &Error{Cat: Semantics, Desc: "boom"}
	tg := tag.New(tag.Shell{}, "let x = 1", 4, 5)
	e.AddTrace(tg, "")
	assert.Len(t, e.Traces, 1)
	assert.Equal(t, "invoked here", e.Traces[0].Desc)
}

func TestHelpAsError(t *testing.T) {
	msg := HelpMessage{
		Cmd:  "len",
		Desc: "returns the length of the input",
		Params: []string{
			"--cols",
		},
		Flags: []HelpFlag{
			{Name: "cols", Desc: "count columns instead of rows"},
		},
	}
	e := HelpAsError(msg, nil)
	assert.Equal(t, Help, e.Cat)
	assert.Equal(t, "`len`", e.Desc)
	assert.Contains(t, e.Traces[0].Source, "---- Input Type: <any> ----")
	assert.Contains(t, e.Traces[0].Source, "Flags:\n --cols: count columns instead of rows")
}
