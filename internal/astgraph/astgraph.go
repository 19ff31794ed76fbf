// Package astgraph implements ogma's AST as an arena of nodes addressed
// by numeric index rather than a pointer-linked tree: argument nodes,
// pipeline stages and flag nodes are all referenced by Idx, so the
// inference loop and the type/locals graph (package graphs) can key
// their own parallel arenas off the same handle without needing back
// references into the AST itself.
package astgraph

import "github.com/ogma-lang/ogma/internal/tag"

// Idx addresses one node in a Graph's arena.
type Idx int

// NoIdx marks an absent optional child (a bare flag with no value, for
// instance).
const NoIdx Idx = -1

// Kind discriminates the node variants described by spec section 4.1:
// Op, Expr, Ident, Num, Var, Pound, Flag, Intrinsic, Def.
type Kind uint8

const (
	KindExpr Kind = iota
	KindOp
	KindIdent
	KindNum
	KindVar
	KindPound
	KindFlag
	KindIntrinsic
	KindDef
)

func (k Kind) String() string {
	switch k {
	case KindExpr:
		return "Expr"
	case KindOp:
		return "Op"
	case KindIdent:
		return "Ident"
	case KindNum:
		return "Num"
	case KindVar:
		return "Var"
	case KindPound:
		return "Pound"
	case KindFlag:
		return "Flag"
	case KindIntrinsic:
		return "Intrinsic"
	case KindDef:
		return "Def"
	default:
		return "<unknown>"
	}
}

// Node is one arena-allocated AST node. Only the fields relevant to
// Kind are meaningful; this mirrors a single discriminated node struct
// rather than one Go type per variant, matching how blocks are
// authored against a single AstNode value plus a kind check.
type Node struct {
	Kind Kind

	// Tag is the node's primary source span: the op's name for KindOp,
	// the identifier/variable/flag name tag, the literal's tag for
	// KindNum/KindPound, or the definition's name for KindDef.
	Tag tag.Tag

	// BlkTag is populated only for KindOp: it spans the entire block
	// (`op arg1 arg2 …`), used for error anchoring when no single
	// argument is at fault.
	BlkTag tag.Tag

	// NumValue is populated only for KindNum.
	NumValue float64

	// PoundCh is the literal character populated only for KindPound
	// (e.g. 't' for `#t`).
	PoundCh rune

	// Args holds, for KindOp, the argument nodes in source order; for
	// KindExpr, the pipeline's Op stages in source order.
	Args []Idx

	// Flags holds, for KindOp, the flag nodes in source order.
	Flags []Idx

	// FlagArg is populated only for KindFlag: the node supplying the
	// flag's value, or NoIdx for a bare flag.
	FlagArg Idx

	// Params holds, for KindDef, the declared parameter name tags.
	Params []tag.Tag

	// Body holds, for KindDef, the definition's body Expr node; for
	// KindIntrinsic, the node it wraps.
	Body Idx
}

// Graph is an immutable-after-construction arena of Nodes. The parser
// (external to this package) is the only intended writer; once handed
// to the inference loop a Graph must not be mutated.
type Graph struct {
	nodes []Node
	root  Idx
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{root: NoIdx}
}

// Push appends n to the arena and returns its index.
func (g *Graph) Push(n Node) Idx {
	g.nodes = append(g.nodes, n)
	return Idx(len(g.nodes) - 1)
}

// Len returns the number of nodes in the arena.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the node at i. Panics if i is out of range, matching
// the parser's guarantee that every Idx it hands out is valid.
func (g *Graph) Node(i Idx) Node { return g.nodes[i] }

// SetRoot records the Expr node from which compilation begins.
func (g *Graph) SetRoot(i Idx) { g.root = i }

// Root returns the entry Expr node, or NoIdx if none was set.
func (g *Graph) Root() Idx { return g.root }

// Op returns the name and block tags of an Op node, and false if i is
// not an Op.
func (g *Graph) Op(i Idx) (nameTag, blkTag tag.Tag, ok bool) {
	n := g.nodes[i]
	if n.Kind != KindOp {
		return tag.Tag{}, tag.Tag{}, false
	}
	return n.Tag, n.BlkTag, true
}

// Args returns the argument nodes of an Op node, in the order they
// appear in source.
func (g *Graph) Args(op Idx) []Idx {
	return g.nodes[op].Args
}

// ArgsLen is a convenience for len(Args(op)).
func (g *Graph) ArgsLen(op Idx) int {
	return len(g.nodes[op].Args)
}

// Flags returns the flag nodes of an Op node, in source order.
func (g *Graph) Flags(op Idx) []Idx {
	return g.nodes[op].Flags
}

// Stages returns an Expr node's pipeline stages (its Op children), in
// source order.
func (g *Graph) Stages(expr Idx) []Idx {
	return g.nodes[expr].Args
}

// NewOp builds an Op node. args and flags are the node's children,
// already pushed onto the graph by the caller.
func NewOp(nameTag, blkTag tag.Tag, args, flags []Idx) Node {
	return Node{Kind: KindOp, Tag: nameTag, BlkTag: blkTag, Args: args, Flags: flags}
}

// NewExpr builds an Expr node from its ordered pipeline stages. t spans
// the whole expression, used when an unconsumed expression argument
// needs an error anchor.
func NewExpr(stages []Idx, t tag.Tag) Node {
	return Node{Kind: KindExpr, Tag: t, Args: stages}
}

// NewIdent builds a bare identifier node.
func NewIdent(t tag.Tag) Node {
	return Node{Kind: KindIdent, Tag: t}
}

// NewNum builds a numeric literal node.
func NewNum(value float64, t tag.Tag) Node {
	return Node{Kind: KindNum, Tag: t, NumValue: value}
}

// NewVar builds a `$name` variable-reference node.
func NewVar(nameTag tag.Tag) Node {
	return Node{Kind: KindVar, Tag: nameTag}
}

// NewPound builds a special-literal node (`#t`, `#f`, `#n`, …).
func NewPound(ch rune, t tag.Tag) Node {
	return Node{Kind: KindPound, Tag: t, PoundCh: ch}
}

// NewFlag builds a `--name` or `--name=value` flag node. arg is NoIdx
// for a bare flag.
func NewFlag(nameTag tag.Tag, arg Idx) Node {
	return Node{Kind: KindFlag, Tag: nameTag, FlagArg: arg}
}

// NewIntrinsic wraps an existing node as one produced by internal code
// injection (e.g. a `def` expansion) rather than literal source.
func NewIntrinsic(wrapped Idx) Node {
	return Node{Kind: KindIntrinsic, Body: wrapped}
}

// NewDef builds a `def name (params…) { body }` node.
func NewDef(nameTag tag.Tag, params []tag.Tag, body Idx) Node {
	return Node{Kind: KindDef, Tag: nameTag, Params: params, Body: body}
}
