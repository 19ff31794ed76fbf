package errs

import (
	"fmt"
	"strings"

	"github.com/ogma-lang/ogma/internal/tag"
	"github.com/ogma-lang/ogma/internal/types"
)

const internalHelp = "this is an internal bug, please file a report"

// OpNotFound builds the "operation not defined" error. available is the
// caller's pre-resolved list of input types the op has implementations
// for (eng's registry does the lookup; errs stays free of an eng import).
func OpNotFound(op tag.Tag, inTy *types.Type, recursionDetected bool, available []types.Type) *Error {
	tystr := func(t *types.Type) string {
		if t == nil {
			return "<any>"
		}
		return t.String()
	}

	var help string
	switch {
	case recursionDetected:
		help = "recursion is not supported"
	case len(available) == 0:
		help = "view a list of definitions using `def --list`"
	default:
		var b strings.Builder
		fmt.Fprintf(&b, "`%s` is implemented for the following input types:", op.Str())
		for _, t := range available {
			b.WriteByte(' ')
			b.WriteString(t.String())
		}
		help = b.String()
	}

	return &Error{
		Cat:     UnknownCommand,
		Desc:    fmt.Sprintf("operation `%s` not defined", op.Str()),
		Traces:  trace(op, fmt.Sprintf("`%s` not defined for input `%s`", op.Str(), tystr(inTy))),
		HelpMsg: help,
		Hard:    true,
	}
}

// TypeConflict reports the type/locals graph's consistency rule being
// violated: a node's input or output type was asserted twice with
// different types. Not part of the original error catalogue (the
// graph module that would define it wasn't among the kept
// original-source files) but required to implement the consistency
// rule described in the type-graph design.
func TypeConflict(node tag.Tag, prev, next types.Type, prevTag tag.Tag) *Error {
	return &Error{
		Cat:  Type,
		Desc: fmt.Sprintf("conflicting types inferred: `%s` and `%s`", prev, next),
		Traces: []Trace{
			FromTag(prevTag, fmt.Sprintf("first inferred as `%s` here", prev)),
			FromTag(node, fmt.Sprintf("then inferred as `%s` here", next)),
		},
		Hard: true,
	}
}

// ImplNotFound reports a command with no implementation for inTy.
func ImplNotFound(op tag.Tag, inTy types.Type) *Error {
	return &Error{
		Cat:     Semantics,
		Desc:    fmt.Sprintf("implementation of `%s` not defined for input type `%s`", op.Str(), inTy),
		Traces:  trace(op, fmt.Sprintf("`%s` not implemented for `%s` input", op.Str(), inTy)),
		HelpMsg: "view a list of definitions using `def --list`",
	}
}

// Param names one entry of a command signature, for InsufficientArgs' help text.
type Param struct {
	Ident string
	Ty    *types.Type // nil means untyped
}

// InsufficientArgs reports too few arguments supplied to blockTag, with an
// optional rendering of the command's declared parameter signature.
func InsufficientArgs(blockTag tag.Tag, argsCount int, name string, params []Param) *Error {
	help := "try using the `--help` flag to view requirements"
	if params != nil {
		var b strings.Builder
		b.WriteString(help)
		b.WriteString(".\n          `")
		b.WriteString(name)
		b.WriteString("` is defined to accept parameters `(")
		for i, p := range params {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(p.Ident)
			if p.Ty != nil {
				b.WriteByte(':')
				b.WriteString(p.Ty.String())
			}
		}
		b.WriteString(")`")
		help = b.String()
	}

	return &Error{
		Cat:     Semantics,
		Desc:    fmt.Sprintf("expecting more than %d arguments", argsCount),
		Traces:  trace(blockTag, "expecting additional argument(s)"),
		HelpMsg: help,
		Hard:    true,
	}
}

// UnusedFlags reports flags the command did not expect, in order.
func UnusedFlags(flags []tag.Tag) *Error {
	var desc strings.Builder
	desc.WriteString("not expecting flags: ")
	traces := make([]Trace, 0, len(flags))
	for i, f := range flags {
		if i > 0 {
			desc.WriteString(", ")
		}
		desc.WriteByte('`')
		desc.WriteString(f.Str())
		desc.WriteByte('`')
		traces = append(traces, FromTag(f, "flag not supported"))
	}

	return &Error{
		Cat:     Semantics,
		Desc:    desc.String(),
		Traces:  traces,
		HelpMsg: "try using the `--help` flag to view requirements",
		Hard:    true,
	}
}

// UnusedArgs reports trailing arguments a command does not consume,
// spanning the union of their tags.
func UnusedArgs(args []tag.Tag) *Error {
	msg := "these arguments are unnecessary"
	if len(args) == 1 {
		msg = "this argument is unnecessary"
	}

	span := args[0]
	for _, a := range args[1:] {
		if a.Start < span.Start {
			span.Start = a.Start
		}
		if a.End > span.End {
			span.End = a.End
		}
	}

	return &Error{
		Cat:    Semantics,
		Desc:   "too many arguments supplied",
		Traces: trace(span, msg),
		Hard:   true,
	}
}

// UnexpArgVariant reports an argument of a syntactic variant a command
// does not accept (e.g. an expression where an identifier is required).
func UnexpArgVariant(t tag.Tag, variant string) *Error {
	return &Error{
		Cat:     Semantics,
		Desc:    fmt.Sprintf("not expecting argument variant `%s`", variant),
		Traces:  trace(t, fmt.Sprintf("argument variant `%s` is not supported here", variant)),
		HelpMsg: "commands may require specific argument types, use `--help` to view requirements",
		Hard:    true,
	}
}

// EmptyTable reports an operation performed over a table with no rows.
// colname is optional context; pass "" to omit it.
func EmptyTable(colname string, t tag.Tag) *Error {
	desc := "empty table"
	var traces []Trace
	if colname != "" {
		traces = trace(t, fmt.Sprintf("`%s` resolves to `%s`", t.Str(), colname))
	} else {
		traces = trace(t, "")
	}
	return &Error{Cat: Evaluation, Desc: desc, Traces: traces}
}

// HeaderNotFound reports a column name absent from a table's header.
func HeaderNotFound(colname string, t tag.Tag) *Error {
	return &Error{
		Cat:    Evaluation,
		Desc:   fmt.Sprintf("header `%s` not found in table", colname),
		Traces: trace(t, fmt.Sprintf("`%s` resolves to `%s`", t.Str(), colname)),
	}
}

// RowOutOfBounds reports a row index beyond a table's row count.
func RowOutOfBounds(index int, t tag.Tag) *Error {
	return &Error{
		Cat:     Evaluation,
		Desc:    fmt.Sprintf("row index `%d` is outside table bounds", index),
		Traces:  trace(t, fmt.Sprintf("`%s` resolves to %d", t.Str(), index)),
		HelpMsg: "use `len` command to check the size of the table",
	}
}

// StrOutOfBounds reports a rune index beyond a string's length.
func StrOutOfBounds(index int, t tag.Tag) *Error {
	return &Error{
		Cat:     Evaluation,
		Desc:    fmt.Sprintf("index `%d` is outside string bounds", index),
		Traces:  trace(t, fmt.Sprintf("`%s` resolves to %d", t.Str(), index)),
		HelpMsg: "use `len` command to check the size of the string",
	}
}

// UnexpEntryTy reports a table entry whose runtime type does not match
// the type recorded for its column.
func UnexpEntryTy(exp, found types.Type, row int, colname string, t tag.Tag) *Error {
	return Eval(t, fmt.Sprintf(
		"table entry for [row:%d,col:'%s'] did not have expected type\nexpected `%s`, found `%s`",
		row, colname, exp, found,
	), "", "column entries must have a matching type")
}

// UnknownSpecLiteral reports an unsupported pound literal (e.g. `#z`).
func UnknownSpecLiteral(found rune, t tag.Tag) *Error {
	return &Error{
		Cat:    Semantics,
		Desc:   fmt.Sprintf("special literal `%c` not supported", found),
		Traces: trace(t, fmt.Sprintf("`%c` not supported", found)),
		Hard:   true,
	}
}

// Cancelled builds the cooperative-cancellation sentinel a Program.Run
// returns when its Context's cancel channel has fired between steps
// (spec §5: "granularity is per-step, not mid-step"). Callers that need
// to surface this distinctly from an ordinary evaluation failure (e.g.
// internal/bat mapping it to the Cancelled Outcome) check Error.Cancelled.
func Cancelled(anchor tag.Tag) *Error {
	return &Error{Cat: Evaluation, Desc: "evaluation was cancelled", Traces: trace(anchor, ""), Cancelled: true}
}

// Eval builds a generic evaluation-time error. shortDesc and help may be
// empty to omit that part.
func Eval(t tag.Tag, desc, shortDesc, help string) *Error {
	return &Error{
		Cat:     Evaluation,
		Desc:    desc,
		Traces:  trace(t, shortDesc),
		HelpMsg: help,
	}
}

// IO wraps an underlying I/O failure encountered while executing block.
func IO(block tag.Tag, err error) *Error {
	return Eval(block, fmt.Sprintf("an io error occurred: %s", err), "within this block", "")
}

// ConversionFailed reports a runtime Value failing to downcast to exp.
// Reaching this is always an ogma bug: the type graph should have
// prevented it.
func ConversionFailed(exp, found types.Type) *Error {
	return &Error{
		Cat:     Evaluation,
		Desc:    fmt.Sprintf("converting value into `%s` failed, value has type `%s`", exp, found),
		HelpMsg: internalHelp,
	}
}

// TypeNotFound reports a reference to an undefined type name.
func TypeNotFound(t tag.Tag) *Error {
	return &Error{
		Cat:     Semantics,
		Desc:    fmt.Sprintf("type `%s` not defined", t.Str()),
		Traces:  trace(t, fmt.Sprintf("`%s` not defined", t.Str())),
		HelpMsg: "view a list of types using `def-ty --list`",
		Hard:    true,
	}
}

// UnknownBlkOutputType reports a block whose output type could not be
// inferred within the allotted passes.
func UnknownBlkOutputType(blk tag.Tag) *Error {
	return &Error{Cat: Semantics, Desc: "unable to infer block's output type", Traces: trace(blk, "")}
}

// WrongOpInputType reports a command invoked with an input type it does
// not support.
func WrongOpInputType(ty types.Type, op tag.Tag) *Error {
	name := op.Str()
	return &Error{
		Cat:     Semantics,
		Desc:    fmt.Sprintf("`%s` does not support `%s` input data", name, ty),
		Traces:  trace(op, ""),
		HelpMsg: fmt.Sprintf("use `%s --help` to view requirements. consider implementing `def %s`", name, name),
		Hard:    true,
	}
}

// UnknownArgInputType reports an argument whose input type could not be
// inferred.
func UnknownArgInputType(arg tag.Tag) *Error {
	return &Error{Cat: Semantics, Desc: "unable to infer argument's input type", Traces: trace(arg, "")}
}

// UnknownArgOutputType reports an argument whose output type could not
// be inferred.
func UnknownArgOutputType(arg tag.Tag) *Error {
	return &Error{Cat: Semantics, Desc: "unable to infer argument's output type", Traces: trace(arg, "")}
}

// UnexpArgInputTy reports an argument accepting a different input type
// than the one a command requires of it.
func UnexpArgInputTy(exp, found types.Type, arg tag.Tag) *Error {
	return &Error{
		Cat:    Semantics,
		Desc:   fmt.Sprintf("expecting argument to take input type `%s`, accepts `%s`", exp, found),
		Traces: trace(arg, fmt.Sprintf("this argument accepts type `%s`", found)),
	}
}

// UnexpArgOutputTy reports an argument returning a different output
// type than the one a command requires of it.
func UnexpArgOutputTy(exp, found types.Type, arg tag.Tag) *Error {
	return &Error{
		Cat:     Semantics,
		Desc:    fmt.Sprintf("expecting argument with type `%s`, found `%s`", exp, found),
		Traces:  trace(arg, fmt.Sprintf("this argument returns type `%s`", found)),
		HelpMsg: "commands may require specific argument types, use `--help` to view requirements",
	}
}

// FieldNotFound reports a `.field`/`get field` access against a type
// that has no such field. ty's declared fields (if it's a Product) are
// listed in the help text.
func FieldNotFound(field tag.Tag, ty *types.TypeDef) *Error {
	var help string
	if v := ty.Structure; !v.IsSum() {
		var names []string
		for _, f := range v.Product {
			names = append(names, f.Name)
		}
		help = fmt.Sprintf("`%s` has the following fields: %s", ty.Name, strings.Join(names, ", "))
	}

	return &Error{
		Cat:     Semantics,
		Desc:    fmt.Sprintf("`%s` does not contain field `%s`", ty.Name, field.Str()),
		Traces:  trace(field, fmt.Sprintf("`%s` not found", field.Str())),
		HelpMsg: help,
		Hard:    true,
	}
}

// VarNotFound reports a reference to a variable not in scope.
func VarNotFound(v tag.Tag) *Error {
	name := v.Str()
	return &Error{
		Cat:     Semantics,
		Desc:    fmt.Sprintf("variable `%s` does not exist", name),
		Traces:  trace(v, fmt.Sprintf("`%s` not in scope", name)),
		HelpMsg: "variables must be in scope\n          variables can be defined using the `let` command",
		Hard:    true,
	}
}

// --- Internal-category errors: these signal a bug in ogma itself, not
// in the program being compiled. ---

// IncompleteExprCompilation reports an expression whose compilation
// never converged.
func IncompleteExprCompilation(expr tag.Tag) *Error {
	return &Error{
		Cat:     Internal,
		Desc:    "expression is yet to be compiled",
		Traces:  trace(expr, "this expression has not finished compiling"),
		HelpMsg: internalHelp,
	}
}

// AgInitEndlessLoop reports the AST-graph initialisation pass exceeding
// its loop bound.
func AgInitEndlessLoop(loopCounter int, blockTag tag.Tag) *Error {
	return &Error{
		Cat:     Internal,
		Desc:    fmt.Sprintf("AST graph reached %d loops", loopCounter),
		Traces:  trace(blockTag, ""),
		HelpMsg: internalHelp,
	}
}

// UnexpCodeInjectionOutputTy reports an internally-injected code block
// returning a type other than the one it was wired to produce.
func UnexpCodeInjectionOutputTy(ty, expTy types.Type, blockTag tag.Tag) *Error {
	return &Error{
		Cat:     Internal,
		Desc:    "internal code injection output type does not match expected output type",
		Traces:  trace(blockTag, fmt.Sprintf("this block returns '%s', expecting '%s'", ty, expTy)),
		HelpMsg: internalHelp,
	}
}

// UpdateLocalsGraph is the soft retry signal a Block returns after
// queueing a locals-graph change that must be applied before it can
// compile.
func UpdateLocalsGraph(t tag.Tag) *Error {
	return &Error{
		Cat:     Internal,
		Desc:    "the locals graph has been changed and needs updating",
		Traces:  trace(t, ""),
		HelpMsg: internalHelp,
	}
}

// InferenceDepth reports the fixed-point loop exhausting its pass budget
// without converging.
func InferenceDepth() *Error {
	return &Error{
		Cat:     Type,
		Desc:    "inference depth reached",
		Hard:    true,
		HelpMsg: "try annotating the input and/or output types you are expecting",
	}
}

// HelpMessage describes a command's usage, rendered by HelpAsError.
type HelpMessage struct {
	Cmd      string
	Desc     string
	Params   []string // pre-rendered parameter tokens, in display order; "" marks a line break
	Flags    []HelpFlag
	Examples []HelpExample
	NoSpace  bool // suppress the space ordinarily inserted before each param
}

// HelpFlag documents one flag accepted by a command.
type HelpFlag struct {
	Name, Desc string
}

// HelpExample pairs a short description with example ogma source.
type HelpExample struct {
	Desc, Code string
}

// HelpAsError renders msg as an Error with Category Help, the form
// `--help` output takes so it reuses the same printing path as any
// other diagnostic.
func HelpAsError(msg HelpMessage, inTy *types.Type) *Error {
	var src strings.Builder
	src.WriteString("---- Input Type: ")
	if inTy != nil {
		src.WriteString(inTy.String())
	} else {
		src.WriteString("<any>")
	}
	src.WriteString(" ----\n")
	src.WriteString(msg.Desc)
	src.WriteString("\n\nUsage:\n => ")
	src.WriteString(msg.Cmd)

	for _, p := range msg.Params {
		if p == "" {
			src.WriteString("\n => ")
			src.WriteString(msg.Cmd)
			continue
		}
		if !msg.NoSpace {
			src.WriteByte(' ')
		}
		src.WriteString(p)
	}

	if len(msg.Flags) > 0 {
		src.WriteString("\n\nFlags:")
		for _, f := range msg.Flags {
			src.WriteString("\n --")
			src.WriteString(f.Name)
			src.WriteString(": ")
			src.WriteString(f.Desc)
		}
	}

	if len(msg.Examples) > 0 {
		src.WriteString("\n\nExamples:")
		for _, ex := range msg.Examples {
			src.WriteString("\n ")
			src.WriteString(ex.Desc)
			src.WriteString("\n => ")
			src.WriteString(ex.Code)
			src.WriteByte('\n')
		}
	}

	return &Error{
		Cat:    Help,
		Desc:   fmt.Sprintf("`%s`", msg.Cmd),
		Traces: []Trace{{Source: src.String()}},
	}
}
