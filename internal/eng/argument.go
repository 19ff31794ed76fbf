package eng

import (
	"github.com/ogma-lang/ogma/internal/astgraph"
	"github.com/ogma-lang/ogma/internal/errs"
	"github.com/ogma-lang/ogma/internal/graphs"
	"github.com/ogma-lang/ogma/internal/tag"
	"github.com/ogma-lang/ogma/internal/types"
	"github.com/ogma-lang/ogma/internal/value"
)

// ArgBuilder is the small state machine NextArg returns: a command
// declares what it expects of the argument (supplied/returns) before
// freezing it into a concrete, evaluable Argument (spec §4.4).
type ArgBuilder struct {
	block *Block
	node  astgraph.Idx
	tag   tag.Tag

	suppliedTy *types.Type
}

// Tag is the argument node's source span, for error anchoring.
func (a *ArgBuilder) Tag() tag.Tag { return a.tag }

// Node exposes the underlying AST node index, for commands that need
// to inspect its Kind directly (e.g. CreateVarRef callers).
func (a *ArgBuilder) Node() astgraph.Idx { return a.node }

// Supplied informs inference that, if this argument is an expression,
// it will be invoked with input type ty (or, with ty == nil, with a
// contextual input the calling command supplies dynamically at eval
// time — the argument declares no fixed input type). This is
// compile-time metadata only; the actual runtime input always comes
// from the defaultFn passed to Argument.Resolve.
func (a *ArgBuilder) Supplied(ty *types.Type) *ArgBuilder {
	a.suppliedTy = ty
	if ty != nil {
		a.block.chgs = append(a.block.chgs, graphs.KnownInput(a.node, *ty, a.tag))
	}
	return a
}

// Returns asserts that this argument's output type must equal ty,
// producing unexp_arg_output_ty when the argument's own inferred
// output type has already been pinned to something else.
func (a *ArgBuilder) Returns(ty types.Type) (*ArgBuilder, *errs.Error) {
	if known := a.block.c.tg.KnownOutput(a.node); known != nil && !known.Equal(ty) {
		return nil, errs.UnexpArgOutputTy(ty, *known, a.tag)
	}
	a.block.chgs = append(a.block.chgs, graphs.KnownOutput(a.node, ty, a.tag))
	return a, nil
}

// Concrete freezes the argument: for a leaf node (Num/Ident/Var/Pound)
// it's immediately ready; for an Expr-kind argument (a nested
// pipeline) every one of its stages must already be compiled — if not,
// this returns a soft error so the owning command's compile_fn is
// retried next inference pass.
func (a *ArgBuilder) Concrete() (*Argument, *errs.Error) {
	n := a.block.c.ag.Node(a.node)
	arg := &Argument{c: a.block.c, node: a.node}

	if n.Kind == astgraph.KindExpr {
		stages := a.block.c.ag.Stages(a.node)
		steps := make([]Step, 0, len(stages))
		for _, st := range stages {
			step, ok := a.block.c.opSteps[st]
			if !ok {
				return nil, errs.UnknownArgOutputType(a.tag)
			}
			steps = append(steps, step)
		}
		arg.program = steps
	}

	return arg, nil
}

// Argument is a frozen, evaluable invocation argument (spec §4.4).
type Argument struct {
	c       *compiler
	node    astgraph.Idx
	program []Step // populated only when the underlying node is Kind Expr
}

// Resolve evaluates the argument. defaultFn supplies the Value the
// argument's own subtree is invoked with (for a leaf literal/variable
// reference this value is never used); ctx threads the shared
// Environment and cancellation token through.
func (a *Argument) Resolve(defaultFn func() (value.Value, *errs.Error), ctx *Context) (value.Value, *errs.Error) {
	n := a.c.ag.Node(a.node)

	switch n.Kind {
	case astgraph.KindNum:
		return value.Num(n.NumValue), nil
	case astgraph.KindIdent:
		return value.Str(n.Tag.Str()), nil
	case astgraph.KindPound:
		switch n.PoundCh {
		case 't':
			return value.Bool(true), nil
		case 'f':
			return value.Bool(false), nil
		case 'n':
			return value.Nil{}, nil
		default:
			return nil, errs.UnknownSpecLiteral(n.PoundCh, n.Tag)
		}
	case astgraph.KindVar:
		variable, ok := a.c.tg.Lookup(a.node, n.Tag.Str())
		if !ok {
			return nil, errs.VarNotFound(n.Tag)
		}
		v, ok := WrapVar(variable).GetData(ctx.Env)
		if !ok {
			return nil, errs.VarNotFound(n.Tag)
		}
		return v, nil
	case astgraph.KindExpr:
		v, err := defaultFn()
		if err != nil {
			return nil, err
		}
		for _, step := range a.program {
			if ctx.Cancelled() {
				return nil, errs.Eval(n.Tag, "evaluation was cancelled", "", "")
			}
			v, err = step.F(v, ctx)
			if err != nil {
				return nil, err
			}
		}
		return v, nil
	default:
		return nil, errs.ConversionFailed(types.TyNil, types.TyNil)
	}
}

// OutTy returns the argument's inferred output type, if known.
func (a *Argument) OutTy() *types.Type {
	return a.c.tg.KnownOutput(a.node)
}
