package eng

import (
	"github.com/ogma-lang/ogma/internal/astgraph"
	"github.com/ogma-lang/ogma/internal/errs"
	"github.com/ogma-lang/ogma/internal/graphs"
	"github.com/ogma-lang/ogma/internal/types"
)

// maxInferenceDepth bounds the fixed-point driver's pass count (spec
// §1: "bounded inference depth"); exceeding it surfaces the hard
// inference_depth error rather than looping forever.
const maxInferenceDepth = 64

// compiler holds the state shared across one Compile call: the frozen
// AST, the type/locals graph it's accumulating knowledge into, the
// type table and command registry, and the structural maps the
// worklist walk precomputes once (scope-chain edges already live in
// tg; these three are the additional sequencing info the inference loop
// needs to propagate output types across stage boundaries and nested
// argument expressions).
type compiler struct {
	ag      *astgraph.Graph
	tg      *graphs.Graph
	typeTab *types.Table
	impls   *Implementations

	// nextStage maps a pipeline-stage Op node to the Op node
	// immediately following it in the same Expr (top-level or nested
	// argument pipeline). Absent means "last stage of its Expr".
	nextStage map[astgraph.Idx]astgraph.Idx

	// exprOf maps the last-stage Op node of an Expr to that Expr node,
	// so compiling the last stage can also mark the owning argument
	// Expr's own output type known (what ArgBuilder.Returns checks
	// against, and what Argument.OutTy reports).
	exprOf map[astgraph.Idx]astgraph.Idx

	// firstStageOfExpr maps an Expr node (used as an argument) to its
	// own first stage, so once the owning command calls
	// ArgBuilder.Supplied(ty) (publishing KnownInput on the Expr node)
	// the loop can forward that input to where compilation actually
	// needs it.
	firstStageOfExpr map[astgraph.Idx]astgraph.Idx

	opSteps map[astgraph.Idx]Step
}

// PreBoundVar declares a named variable, of a known type, visible
// throughout the whole body Compile is about to process — the
// mechanism `def` expansion uses to bind a user-defined command's
// parameters (spec §6: batch-file `def` statements) without needing a
// generic/polymorphic type signature for the def itself: the body is
// recompiled per call site, once per distinct set of argument types.
type PreBoundVar struct {
	Name string
	Ty   types.Type
}

// Compile runs the fixed-point inference loop over ag's root Expr,
// resolving each pipeline stage (and every nested argument pipeline
// it references) against impls, starting from rootInTy (spec §4.3).
// preBound, when non-empty, seeds named variables visible from the
// very first stage onward (see PreBoundVar); Compile returns their
// resolved Variables in Program.ParamVars.
func Compile(ag *astgraph.Graph, typeTab *types.Table, impls *Implementations, rootInTy types.Type, preBound ...PreBoundVar) (*Program, *errs.Error) {
	root := ag.Root()
	if root == astgraph.NoIdx {
		return &Program{}, nil
	}

	c := &compiler{
		ag:               ag,
		tg:               graphs.New(ag.Len()),
		typeTab:          typeTab,
		impls:            impls,
		nextStage:        map[astgraph.Idx]astgraph.Idx{},
		exprOf:           map[astgraph.Idx]astgraph.Idx{},
		firstStageOfExpr: map[astgraph.Idx]astgraph.Idx{},
		opSteps:          map[astgraph.Idx]Step{},
	}

	stages := ag.Stages(root)
	if len(stages) == 0 {
		return &Program{}, nil
	}

	outerScope := astgraph.NoIdx
	paramVars := make(map[string]Variable, len(preBound))
	if len(preBound) > 0 {
		// root is always a known node (an Expr within ag's own bounds),
		// so it doubles as a stable scope key purely for this binding —
		// nothing ever looks root up as an operand in its own right.
		outerScope = root
		for _, pv := range preBound {
			res := c.tg.NewVar(root, pv.Name, pv.Ty, ag.Node(root).Tag)
			if res.Variable != nil {
				paramVars[pv.Name] = WrapVar(*res.Variable)
			}
		}
	}

	var ops, vars []astgraph.Idx
	if err := c.walkExpr(root, outerScope, &ops, &vars); err != nil {
		return nil, err
	}

	if _, err := c.tg.Apply(graphs.KnownInput(stages[0], rootInTy, ag.Node(root).Tag)); err != nil {
		return nil, err
	}

	opCompiled := make(map[astgraph.Idx]bool, len(ops))
	varResolved := make(map[astgraph.Idx]bool, len(vars))

	for pass := 0; ; pass++ {
		if pass >= maxInferenceDepth {
			return nil, errs.InferenceDepth()
		}

		// Forward any newly-known input type on an argument Expr node
		// down to its own first stage before attempting to compile
		// anything else this pass.
		for exprNode, first := range c.firstStageOfExpr {
			if ty := c.tg.KnownInput(exprNode); ty != nil {
				if _, err := c.tg.Apply(graphs.KnownInput(first, *ty, ag.Node(exprNode).Tag)); err != nil {
					return nil, err
				}
			}
		}

		progressed := false
		var lastSoft *errs.Error

		for _, v := range vars {
			if varResolved[v] {
				continue
			}
			vn := ag.Node(v)
			variable, ok := c.tg.Lookup(v, vn.Tag.Str())
			if !ok {
				continue
			}
			res, err := c.tg.Apply(graphs.KnownOutput(v, variable.DeclaredType, vn.Tag))
			if err != nil {
				return nil, err
			}
			varResolved[v] = true
			if res == graphs.Applied {
				progressed = true
			}
		}

		for _, opNode := range ops {
			if opCompiled[opNode] {
				continue
			}
			inTy := c.tg.KnownInput(opNode)
			if inTy == nil {
				continue
			}
			step, err := c.compileOp(opNode, *inTy)
			if err != nil {
				if err.Hard {
					return nil, err
				}
				lastSoft = err
				continue
			}

			opCompiled[opNode] = true
			c.opSteps[opNode] = *step
			progressed = true

			opTag := ag.Node(opNode).Tag
			if _, err := c.tg.Apply(graphs.KnownOutput(opNode, step.OutTy, opTag)); err != nil {
				return nil, err
			}
			if next, ok := c.nextStage[opNode]; ok {
				if _, err := c.tg.Apply(graphs.KnownInput(next, step.OutTy, opTag)); err != nil {
					return nil, err
				}
			}
			if exprNode, ok := c.exprOf[opNode]; ok {
				if _, err := c.tg.Apply(graphs.KnownOutput(exprNode, step.OutTy, opTag)); err != nil {
					return nil, err
				}
			}
		}

		allOpsDone := true
		for _, opNode := range ops {
			if !opCompiled[opNode] {
				allOpsDone = false
				break
			}
		}
		allVarsDone := true
		for _, v := range vars {
			if !varResolved[v] {
				allVarsDone = false
				break
			}
		}
		if allOpsDone && allVarsDone {
			steps := make([]Step, len(stages))
			for i, st := range stages {
				steps[i] = c.opSteps[st]
			}
			return &Program{Steps: steps, ParamVars: paramVars}, nil
		}

		if !progressed {
			if lastSoft != nil {
				return nil, lastSoft
			}
			return nil, errs.UnknownBlkOutputType(ag.Node(root).Tag)
		}
	}
}

// compileOp resolves and invokes the implementation for opNode,
// draining whatever type/locals changes the Block accumulated back
// into the shared graph regardless of success — a soft failure still
// keeps any partial knowledge the block pushed before bailing out
// (spec §4.3 step 5).
func (c *compiler) compileOp(opNode astgraph.Idx, inTy types.Type) (*Step, *errs.Error) {
	opTag, blkTag, ok := c.ag.Op(opNode)
	if !ok {
		return nil, errs.IncompleteExprCompilation(c.ag.Node(opNode).Tag)
	}
	name := opTag.Str()

	impl, ok := c.impls.Resolve(name, inTy)
	if !ok {
		return nil, errs.OpNotFound(opTag, &inTy, false, c.impls.AvailableInputTypes(name))
	}

	b := newBlock(c, opNode, opTag, blkTag, inTy)
	step, cerr := impl.Compile(b)

	for _, chg := range b.chgs {
		if _, aerr := c.tg.Apply(chg); aerr != nil {
			return nil, aerr
		}
	}

	if cerr != nil {
		return nil, cerr
	}
	return step, nil
}

// walkExpr precomputes scope-chain edges (LinkScope), the
// nextStage/exprOf/firstStageOfExpr sequencing maps, and the flat
// ops/vars worklists, recursing into every Expr-kind argument
// (nested pipelines) it encounters. outerScope is the scope a nested
// Expr's first stage resolves through (NoIdx at the program root).
func (c *compiler) walkExpr(expr astgraph.Idx, outerScope astgraph.Idx, ops, vars *[]astgraph.Idx) *errs.Error {
	stages := c.ag.Stages(expr)
	for i, st := range stages {
		if i == 0 {
			c.tg.LinkScope(st, outerScope)
		} else {
			c.tg.LinkScope(st, stages[i-1])
			c.nextStage[stages[i-1]] = st
		}
		if i == len(stages)-1 {
			c.exprOf[st] = expr
		}
		*ops = append(*ops, st)
		if err := c.walkOpArgs(st, ops, vars); err != nil {
			return err
		}
	}
	if len(stages) > 0 {
		c.firstStageOfExpr[expr] = stages[0]
	}
	return nil
}

func (c *compiler) walkOpArgs(op astgraph.Idx, ops, vars *[]astgraph.Idx) *errs.Error {
	n := c.ag.Node(op)
	for _, a := range n.Args {
		if err := c.walkArgNode(a, op, ops, vars); err != nil {
			return err
		}
	}
	for _, f := range n.Flags {
		if fa := c.ag.Node(f).FlagArg; fa != astgraph.NoIdx {
			if err := c.walkArgNode(fa, op, ops, vars); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *compiler) walkArgNode(node, scope astgraph.Idx, ops, vars *[]astgraph.Idx) *errs.Error {
	n := c.ag.Node(node)
	switch n.Kind {
	case astgraph.KindExpr:
		return c.walkExpr(node, scope, ops, vars)
	case astgraph.KindVar:
		c.tg.LinkScope(node, scope)
		*vars = append(*vars, node)
		return nil
	default:
		c.tg.LinkScope(node, scope)
		return c.seedLeaf(node)
	}
}

// seedLeaf records the intrinsic output type of a Num/Ident/Pound leaf
// argument immediately — these never depend on anything else in the
// graph, so there's no reason to make them wait for a worklist pass.
// An invalid Pound literal is a lexical error, not a type-inference
// one, so it's surfaced immediately rather than retried.
func (c *compiler) seedLeaf(node astgraph.Idx) *errs.Error {
	n := c.ag.Node(node)
	switch n.Kind {
	case astgraph.KindNum:
		_, _ = c.tg.Apply(graphs.KnownOutput(node, types.TyNum, n.Tag))
	case astgraph.KindIdent:
		_, _ = c.tg.Apply(graphs.KnownOutput(node, types.TyStr, n.Tag))
	case astgraph.KindPound:
		switch n.PoundCh {
		case 't', 'f':
			_, _ = c.tg.Apply(graphs.KnownOutput(node, types.TyBool, n.Tag))
		case 'n':
			_, _ = c.tg.Apply(graphs.KnownOutput(node, types.TyNil, n.Tag))
		default:
			return errs.UnknownSpecLiteral(n.PoundCh, n.Tag)
		}
	}
	return nil
}
