package eng

import (
	"fmt"
	"strings"

	"github.com/ogma-lang/ogma/internal/astgraph"
	"github.com/ogma-lang/ogma/internal/errs"
	"github.com/ogma-lang/ogma/internal/graphs"
	"github.com/ogma-lang/ogma/internal/tag"
	"github.com/ogma-lang/ogma/internal/types"
)

// Block is the compile-time façade for one Op invocation (spec §4.4):
// it hands out arguments/flags in source order, accepts type and
// locals assertions as a change buffer the inference loop drains
// between passes, and finalises into a Step via Eval.
type Block struct {
	c      *compiler
	opNode astgraph.Idx
	opTag  tag.Tag
	blkTag tag.Tag
	inTy   types.Type

	argNodes        []astgraph.Idx
	argCursor       int
	consumedArgTags []tag.Tag

	flagNodes []astgraph.Idx
	flagTaken []bool

	chgs []graphs.Chg

	assertedOutTy *types.Type
}

func newBlock(c *compiler, opNode astgraph.Idx, opTag, blkTag tag.Tag, inTy types.Type) *Block {
	n := c.ag.Node(opNode)
	return &Block{
		c:         c,
		opNode:    opNode,
		opTag:     opTag,
		blkTag:    blkTag,
		inTy:      inTy,
		argNodes:  append([]astgraph.Idx(nil), n.Args...),
		flagNodes: append([]astgraph.Idx(nil), n.Flags...),
		flagTaken: make([]bool, len(n.Flags)),
	}
}

// InTy returns the block's input type, always available once the
// block is constructed.
func (b *Block) InTy() types.Type { return b.inTy }

// OpTag is the tag of the command name itself, used to anchor errors
// at the invocation site.
func (b *Block) OpTag() tag.Tag { return b.opTag }

// BlkTag spans the whole invocation (`op arg1 arg2 …`), used when no
// single argument is at fault.
func (b *Block) BlkTag() tag.Tag { return b.blkTag }

// ArgsLen returns the number of arguments not yet consumed by NextArg.
func (b *Block) ArgsLen() int { return len(b.argNodes) - b.argCursor }

// TypeTable exposes the compiler's shared, append-only anonymous-type
// registry, for commands like Tuple that mint new product types.
func (b *Block) TypeTable() *types.Table { return b.c.typeTab }

// NextArg pops the next argument node in source order, returning an
// ArgBuilder to declare its expected/asserted types and eventually
// freeze it into a concrete Argument. Fails hard when the argument
// stack is empty.
func (b *Block) NextArg() (*ArgBuilder, *errs.Error) {
	if b.argCursor >= len(b.argNodes) {
		return nil, errs.InsufficientArgs(b.blkTag, len(b.consumedArgTags), b.opTag.Str(), nil)
	}
	node := b.argNodes[b.argCursor]
	b.argCursor++
	t := b.c.ag.Node(node).Tag
	b.consumedArgTags = append(b.consumedArgTags, t)
	return &ArgBuilder{block: b, node: node, tag: t}, nil
}

// PeekNextArgNode inspects (without popping) the node NextArg would
// return next.
func (b *Block) PeekNextArgNode() (astgraph.Idx, bool) {
	if b.argCursor >= len(b.argNodes) {
		return astgraph.NoIdx, false
	}
	return b.argNodes[b.argCursor], true
}

// NodeKind reports the AST kind of an argument node obtained from
// PeekNextArgNode/PeekLastArgNode/ArgBuilder.Node, for commands (e.g.
// `let`) that branch on argument shape before consuming it.
func (b *Block) NodeKind(n astgraph.Idx) astgraph.Kind { return b.c.ag.Node(n).Kind }

// NodeTag returns the source tag of an arbitrary AST node, for
// anchoring errors about an argument a command has only peeked at.
func (b *Block) NodeTag(n astgraph.Idx) tag.Tag { return b.c.ag.Node(n).Tag }

// PeekLastArgNode inspects the final argument node regardless of
// cursor position — used by commands (e.g. `let`) that need to detect
// a trailing argument shape without consuming the whole stack first.
func (b *Block) PeekLastArgNode() (astgraph.Idx, bool) {
	if len(b.argNodes) == 0 {
		return astgraph.NoIdx, false
	}
	return b.argNodes[len(b.argNodes)-1], true
}

// GetFlag pops a flag by name (or, with name == "", the next
// unconsumed flag regardless of name), returning its tag.
func (b *Block) GetFlag(name string) (tag.Tag, bool) {
	for i, f := range b.flagNodes {
		if b.flagTaken[i] {
			continue
		}
		n := b.c.ag.Node(f)
		if name == "" || strings.TrimPrefix(n.Tag.Str(), "--") == name {
			b.flagTaken[i] = true
			return n.Tag, true
		}
	}
	return tag.Tag{}, false
}

// AssertInput publishes the block's input type as a type-graph fact,
// useful for commands whose input type isn't already pinned by
// overload resolution (a polymorphic implementation narrowing itself).
func (b *Block) AssertInput(ty types.Type) {
	b.chgs = append(b.chgs, graphs.KnownInput(b.opNode, ty, b.opTag))
}

// AssertOutput publishes the block's output type ahead of Eval.
// Debug builds panic on a conflicting re-assertion within the same
// Block (a bug in the calling command, not a genuine inference
// conflict — that's the type graph's job); release builds are
// idempotent.
func (b *Block) AssertOutput(ty types.Type) {
	if debugAssertions && b.assertedOutTy != nil && !b.assertedOutTy.Equal(ty) {
		panic(fmt.Sprintf("block %q: output type asserted twice: %s then %s", b.opTag.Str(), *b.assertedOutTy, ty))
	}
	b.assertedOutTy = &ty
	b.chgs = append(b.chgs, graphs.KnownOutput(b.opNode, ty, b.opTag))
}

// CreateVarRef declares a new variable bound to argNode's name,
// visible starting at the next pipeline stage downstream of this
// block (spec §4.4: "Scope is the *next* sibling node"). argNode must
// be a Var AST node. When the locals graph isn't yet ready to accept
// the binding (its scope node isn't known yet — only possible for
// code-injected nodes appended mid-compilation) this returns the soft
// update_locals_graph error, signalling "re-run after my pushed
// change is applied".
func (b *Block) CreateVarRef(argNode astgraph.Idx, ty types.Type) (Variable, *errs.Error) {
	n := b.c.ag.Node(argNode)
	if n.Kind != astgraph.KindVar {
		return Variable{}, errs.UnexpArgVariant(n.Tag, variantName(n.Kind))
	}
	scope, ok := b.c.nextStage[b.opNode]
	if !ok {
		// No downstream stage: bind inertly at this op node itself, so
		// the variable is declared (satisfying `let`'s contract) but
		// unreachable by any lookup — equivalent to "out of scope".
		scope = b.opNode
	}
	res := b.c.tg.NewVar(scope, n.Tag.Str(), ty, n.Tag)
	if res.Variable != nil {
		return WrapVar(*res.Variable), nil
	}
	b.chgs = append(b.chgs, *res.Pending)
	return Variable{}, errs.UpdateLocalsGraph(n.Tag)
}

// InjectManualVarIntoArgLocals adds a synthetic binding visible
// starting at argNode (rather than at this block's next sibling), for
// a command that binds a name (e.g. `$row`) scoped to one specific
// argument's subtree rather than to the pipeline at large.
func (b *Block) InjectManualVarIntoArgLocals(argNode astgraph.Idx, name string, ty types.Type) Variable {
	res := b.c.tg.NewVar(argNode, name, ty, b.c.ag.Node(argNode).Tag)
	if res.Variable != nil {
		return WrapVar(*res.Variable)
	}
	b.chgs = append(b.chgs, *res.Pending)
	return Variable{}
}

// InjectManualVarNextArg injects a synthetic binding scoped to the
// next not-yet-consumed argument.
func (b *Block) InjectManualVarNextArg(name string, ty types.Type) (Variable, *errs.Error) {
	node, ok := b.PeekNextArgNode()
	if !ok {
		return Variable{}, errs.InsufficientArgs(b.blkTag, len(b.consumedArgTags), b.opTag.Str(), nil)
	}
	return b.InjectManualVarIntoArgLocals(node, name, ty), nil
}

// Eval finalises the block into a Step. Every argument and flag must
// have been consumed — survivors produce unused_args/unused_flags,
// both hard per spec §7.
func (b *Block) Eval(outTy types.Type, f StepFn) (*Step, *errs.Error) {
	if b.argCursor < len(b.argNodes) {
		remaining := make([]tag.Tag, 0, len(b.argNodes)-b.argCursor)
		for _, n := range b.argNodes[b.argCursor:] {
			remaining = append(remaining, b.c.ag.Node(n).Tag)
		}
		return nil, errs.UnusedArgs(remaining)
	}

	var unused []tag.Tag
	for i, f := range b.flagNodes {
		if !b.flagTaken[i] {
			unused = append(unused, b.c.ag.Node(f).Tag)
		}
	}
	if len(unused) > 0 {
		return nil, errs.UnusedFlags(unused)
	}

	if debugAssertions && b.assertedOutTy != nil && !b.assertedOutTy.Equal(outTy) {
		panic(fmt.Sprintf("block %q: Eval outTy %s does not match asserted %s", b.opTag.Str(), outTy, *b.assertedOutTy))
	}
	b.AssertOutput(outTy)

	return &Step{OutTy: outTy, F: f}, nil
}

func variantName(k astgraph.Kind) string {
	switch k {
	case astgraph.KindIdent:
		return "identifier"
	case astgraph.KindNum:
		return "number"
	case astgraph.KindExpr:
		return "expression"
	case astgraph.KindPound:
		return "special-literal"
	case astgraph.KindVar:
		return "variable"
	default:
		return "unknown"
	}
}
