package intrinsics

import (
	"github.com/ogma-lang/ogma/internal/astgraph"
	"github.com/ogma-lang/ogma/internal/eng"
	"github.com/ogma-lang/ogma/internal/errs"
	"github.com/ogma-lang/ogma/internal/value"
)

type letBinding struct {
	v    eng.Variable
	expr *eng.Argument
}

// let implements `let (expr $var)* [$var]`: zero or more expression/
// variable pairs, each binding $var to expr's result, optionally
// followed by a trailing bare $var that binds the pipeline's own
// (unchanged) input and passes it through. Output type is always the
// input type. A bare expression where a $var is expected (the user
// forgot a `|` somewhere) is reported as a variant mismatch rather than
// silently consumed.
func let(b *eng.Block) (*eng.Step, *errs.Error) {
	inTy := b.InTy()
	var bindings []letBinding
	var passthrough *eng.Variable

	for b.ArgsLen() > 0 {
		node, _ := b.PeekNextArgNode()
		if b.ArgsLen() == 1 && b.NodeKind(node) == astgraph.KindVar {
			ab, err := b.NextArg()
			if err != nil {
				return nil, err
			}
			v, verr := b.CreateVarRef(ab.Node(), inTy)
			if verr != nil {
				return nil, verr
			}
			passthrough = &v
			break
		}

		exprB, err := b.NextArg()
		if err != nil {
			return nil, err
		}
		exprB.Supplied(&inTy)
		exprArg, cerr := exprB.Concrete()
		if cerr != nil {
			return nil, cerr
		}

		varNode, ok := b.PeekNextArgNode()
		if !ok {
			return nil, errs.InsufficientArgs(b.BlkTag(), 1, "let", nil)
		}
		if b.NodeKind(varNode) != astgraph.KindVar {
			return nil, errs.UnexpArgVariant(b.NodeTag(varNode), "expression")
		}
		varB, err := b.NextArg()
		if err != nil {
			return nil, err
		}

		outTy := exprArg.OutTy()
		if outTy == nil {
			return nil, errs.UnknownArgOutputType(exprB.Tag())
		}
		v, verr := b.CreateVarRef(varB.Node(), *outTy)
		if verr != nil {
			return nil, verr
		}
		bindings = append(bindings, letBinding{v: v, expr: exprArg})
	}

	return b.Eval(inTy, func(v value.Value, ctx *eng.Context) (value.Value, *errs.Error) {
		for _, bind := range bindings {
			val, err := sameInput(bind.expr, v, ctx)
			if err != nil {
				return nil, err
			}
			bind.v.SetData(ctx.Env, val)
		}
		if passthrough != nil {
			passthrough.SetData(ctx.Env, v)
		}
		return v, nil
	})
}
