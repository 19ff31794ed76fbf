// Package graphs implements the Type Graph (TG) and Locals Graph (LG):
// the mutable dual graph, keyed by the same astgraph.Idx handles as the
// frozen AST, that the inference loop populates pass by pass. Neither
// graph is mutated directly by command implementations — they read
// current knowledge and propose Chg values, which the inference loop
// applies between passes. This is the explicit change-queue design
// called out to break the natural cyclic dependency between "what type
// flows through this node" and "what variables are in scope here".
package graphs

import (
	"sync/atomic"

	"github.com/ogma-lang/ogma/internal/astgraph"
	"github.com/ogma-lang/ogma/internal/errs"
	"github.com/ogma-lang/ogma/internal/tag"
	"github.com/ogma-lang/ogma/internal/types"
)

// ChgKind discriminates the Chg variants a compiling Block may propose.
type ChgKind uint8

const (
	ChgKnownInput ChgKind = iota
	ChgKnownOutput
	ChgAddVar
)

// Chg is a proposed mutation to the graph, queued by a Block during
// compilation and applied by the inference loop between passes.
type Chg struct {
	Kind ChgKind
	Node astgraph.Idx

	// Ty and SrcTag are populated for ChgKnownInput/ChgKnownOutput: the
	// asserted type, and the tag to attribute to it in a conflict
	// report.
	Ty     types.Type
	SrcTag tag.Tag

	// VarName, VarTy and VarDeclTag are populated for ChgAddVar.
	VarName    string
	VarTy      types.Type
	VarDeclTag tag.Tag
}

// KnownInput proposes that node's input type is ty, attributing the
// assertion to srcTag.
func KnownInput(node astgraph.Idx, ty types.Type, srcTag tag.Tag) Chg {
	return Chg{Kind: ChgKnownInput, Node: node, Ty: ty, SrcTag: srcTag}
}

// KnownOutput proposes that node's output type is ty, attributing the
// assertion to srcTag.
func KnownOutput(node astgraph.Idx, ty types.Type, srcTag tag.Tag) Chg {
	return Chg{Kind: ChgKnownOutput, Node: node, Ty: ty, SrcTag: srcTag}
}

// AddVar proposes a new variable binding visible at and downstream of
// scopeNode.
func AddVar(scopeNode astgraph.Idx, name string, ty types.Type, declTag tag.Tag) Chg {
	return Chg{Kind: ChgAddVar, Node: scopeNode, VarName: name, VarTy: ty, VarDeclTag: declTag}
}

// ApplyResult reports what Apply did with a non-rejected Chg.
type ApplyResult uint8

const (
	// Applied means the Chg recorded genuinely new knowledge.
	Applied ApplyResult = iota
	// Redundant means the Chg repeated knowledge already recorded;
	// harmless, but it does not count as progress for stall detection.
	Redundant
)

func (r ApplyResult) String() string {
	if r == Redundant {
		return "Redundant"
	}
	return "Applied"
}

// tyEntry is the per-node type-graph slot: an optional input and
// output type, each remembering the tag that first asserted it (for
// conflict reporting).
type tyEntry struct {
	inputTy   *types.Type
	inputTag  tag.Tag
	outputTy  *types.Type
	outputTag tag.Tag
}

// Variable is a binding introduced by `new_var` (directly, or via a
// command's `inject_manual_var_*`): a name, its declared type and
// declaration tag, and a Handle uniquely identifying this binding
// instance so the evaluator's Environment can key storage independent
// of the declaring AST node (the same node may be re-entered by a
// def-expansion instantiated more than once).
type Variable struct {
	Handle       int
	Name         string
	DeclaredType types.Type
	DeclaredTag  tag.Tag
}

// NewVarResult is the result of Graph.NewVar: exactly one of Variable
// or Pending is set.
type NewVarResult struct {
	Variable *Variable
	Pending  *Chg
}

// Graph is the mutable dual Type/Locals graph. Zero value is not
// usable; construct with New.
type Graph struct {
	nodeCount int // total nodes currently known to exist in the AST arena

	ty []tyEntry // indexed by astgraph.Idx; grown lazily

	// localVars holds the bindings introduced AT each node (not
	// inherited ones); scopeParent is the lexical scope-chain edge a
	// node's bindings are looked up through when not found locally.
	localVars   map[astgraph.Idx]map[string]Variable
	scopeParent map[astgraph.Idx]astgraph.Idx
}

// handleSeq numbers Variable handles process-wide, so bindings from
// separately compiled graphs (a def body and its caller) that share one
// Environment never collide.
var handleSeq atomic.Int64

// New constructs a Graph for an AST arena known to currently hold
// nodeCount nodes. Call GrowTo if the arena is later extended (a def
// expansion appending freshly-cloned nodes, for instance).
func New(nodeCount int) *Graph {
	return &Graph{
		nodeCount:   nodeCount,
		ty:          make([]tyEntry, nodeCount),
		localVars:   map[astgraph.Idx]map[string]Variable{},
		scopeParent: map[astgraph.Idx]astgraph.Idx{},
	}
}

// GrowTo extends the graph's known node count, for nodes appended to
// the AST arena after construction (def-body instantiation).
func (g *Graph) GrowTo(nodeCount int) {
	if nodeCount <= g.nodeCount {
		return
	}
	grown := make([]tyEntry, nodeCount)
	copy(grown, g.ty)
	g.ty = grown
	g.nodeCount = nodeCount
}

func (g *Graph) known(n astgraph.Idx) bool {
	return n != astgraph.NoIdx && int(n) >= 0 && int(n) < g.nodeCount
}

// KnownInput returns node's currently-asserted input type, or nil.
func (g *Graph) KnownInput(node astgraph.Idx) *types.Type {
	if !g.known(node) {
		return nil
	}
	return g.ty[node].inputTy
}

// KnownOutput returns node's currently-asserted output type, or nil.
func (g *Graph) KnownOutput(node astgraph.Idx) *types.Type {
	if !g.known(node) {
		return nil
	}
	return g.ty[node].outputTy
}

// Apply applies a proposed Chg. It returns a non-nil *errs.Error
// (a "Rejected" outcome) when c's type contradicts a previously
// recorded, different type for the same node and slot.
func (g *Graph) Apply(c Chg) (ApplyResult, *errs.Error) {
	switch c.Kind {
	case ChgKnownInput:
		return g.applyKnown(c.Node, c.Ty, c.SrcTag, true)
	case ChgKnownOutput:
		return g.applyKnown(c.Node, c.Ty, c.SrcTag, false)
	case ChgAddVar:
		if !g.known(c.Node) {
			g.GrowTo(int(c.Node) + 1)
		}
		g.addVar(c.Node, c.VarName, c.VarTy, c.VarDeclTag)
		return Applied, nil
	default:
		return Applied, nil
	}
}

func (g *Graph) applyKnown(node astgraph.Idx, ty types.Type, srcTag tag.Tag, input bool) (ApplyResult, *errs.Error) {
	if !g.known(node) {
		g.GrowTo(int(node) + 1)
	}
	e := &g.ty[node]

	cur, curTag := e.outputTy, e.outputTag
	if input {
		cur, curTag = e.inputTy, e.inputTag
	}

	if cur == nil {
		if input {
			e.inputTy, e.inputTag = &ty, srcTag
		} else {
			e.outputTy, e.outputTag = &ty, srcTag
		}
		return Applied, nil
	}

	if cur.Equal(ty) {
		return Redundant, nil
	}

	return Applied, errs.TypeConflict(srcTag, *cur, ty, curTag)
}

// LinkScope records that node's lexical scope parent is parent: a
// variable not bound at node is looked up at parent, and so on. The
// inference loop wires this as it walks the AST (each pipeline stage's
// parent is its predecessor stage; an expression argument's parent is
// the op node that owns it).
func (g *Graph) LinkScope(node, parent astgraph.Idx) {
	g.scopeParent[node] = parent
}

// Lookup resolves name as visible at node, walking the scope chain
// set up via LinkScope.
func (g *Graph) Lookup(node astgraph.Idx, name string) (Variable, bool) {
	cur := node
	for g.known(cur) {
		if vars, ok := g.localVars[cur]; ok {
			if v, ok := vars[name]; ok {
				return v, true
			}
		}
		parent, ok := g.scopeParent[cur]
		if !ok {
			break
		}
		cur = parent
	}
	return Variable{}, false
}

// NewVar introduces a binding for name, visible starting at scopeNode.
// It fails over to a Pending Chg (to be queued and retried) only when
// scopeNode refers to an AST node not yet known to this graph — the
// ordinary case, since the AST is frozen before inference begins, is
// an immediate Variable.
func (g *Graph) NewVar(scopeNode astgraph.Idx, name string, ty types.Type, declTag tag.Tag) NewVarResult {
	if !g.known(scopeNode) {
		c := AddVar(scopeNode, name, ty, declTag)
		return NewVarResult{Pending: &c}
	}
	v := g.addVar(scopeNode, name, ty, declTag)
	return NewVarResult{Variable: &v}
}

func (g *Graph) addVar(node astgraph.Idx, name string, ty types.Type, declTag tag.Tag) Variable {
	v := Variable{Handle: int(handleSeq.Add(1)), Name: name, DeclaredType: ty, DeclaredTag: declTag}
	m, ok := g.localVars[node]
	if !ok {
		m = map[string]Variable{}
		g.localVars[node] = m
	}
	m[name] = v
	return v
}
