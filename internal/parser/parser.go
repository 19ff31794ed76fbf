// Package parser implements the minimal recursive-descent parser that
// satisfies the "parser boundary" external interface of spec.md §6: it
// turns ogma source text into the astgraph.Graph/types.TypeDef values
// the front end consumes. It covers pipelines, flags, the scalar/
// special literals, `def` and `def-ty` statements and bracketed nested
// expression arguments — enough to exercise the front end end-to-end,
// not ogma's full textual grammar (out of scope per spec.md §1).
package parser

import (
	"strings"

	"github.com/ogma-lang/ogma/internal/astgraph"
	"github.com/ogma-lang/ogma/internal/errs"
	"github.com/ogma-lang/ogma/internal/tag"
	"github.com/ogma-lang/ogma/internal/types"
)

// StmtKind discriminates the three statement forms the batch file
// format allows (spec.md §6).
type StmtKind uint8

const (
	StmtExpr StmtKind = iota
	StmtDef
	StmtDefTy
)

// Statement is one top-level batch-file entry: exactly the fields for
// its Kind are populated.
type Statement struct {
	Kind StmtKind

	// StmtExpr: the parsed pipeline, rooted at Graph.Root().
	Graph *astgraph.Graph

	// StmtDef: the command name being defined, its declared parameter
	// names (untyped — their types are resolved per call site, see
	// internal/bat), and the body pipeline.
	DefName string
	Params  []tag.Tag
	Body    *astgraph.Graph

	// StmtDefTy: the user type being declared.
	TypeDef *types.TypeDef
}

func parseErr(t tag.Tag, desc string) *errs.Error {
	return &errs.Error{Cat: errs.Parsing, Desc: desc, Traces: []errs.Trace{errs.FromTag(t, "")}, Hard: true}
}

// Parse splits src into statements on blank lines (ignoring `#`-prefixed
// comment lines) and parses each one, per the batch file format of
// spec.md §6. It stops at the first statement that fails to parse;
// callers that need every other statement's outcome even when one
// fails — internal/bat, per spec.md §6's per-statement Outcome model —
// should use SplitStatements and ParseStatement directly instead.
func Parse(src string, anchor tag.Location) ([]Statement, *errs.Error) {
	var stmts []Statement
	for _, raw := range SplitStatements(src) {
		st, err := ParseStatement(raw, anchor)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
	}
	return stmts, nil
}

// ParseStatement parses one statement chunk, as produced by
// SplitStatements, in isolation: a parse failure in one chunk has no
// bearing on any other.
func ParseStatement(raw string, anchor tag.Location) (Statement, *errs.Error) {
	toks, err := tokenize(raw, anchor)
	if err != nil {
		return Statement{}, err
	}
	p := &parser{toks: toks}
	st, err := p.parseStatement()
	if err != nil {
		return Statement{}, err
	}
	if !p.atEnd() {
		return Statement{}, parseErr(p.peek().tag, "unexpected trailing input")
	}
	return st, nil
}

// SplitStatements splits src into individual statement source chunks on
// blank lines, dropping `#`-prefixed comment lines, per the batch file
// format of spec.md §6.
func SplitStatements(src string) []string {
	return splitStatements(src)
}

func splitStatements(src string) []string {
	var stmts []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			stmts = append(stmts, strings.Join(cur, "\n"))
			cur = nil
		}
	}
	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flush()
		case strings.HasPrefix(trimmed, "#"):
			// comment line, dropped entirely
		default:
			cur = append(cur, line)
		}
	}
	flush()
	return stmts
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) atEnd() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() token {
	if p.atEnd() {
		return token{kind: tokEOF}
	}
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.peek()
	if !p.atEnd() {
		p.pos++
	}
	return t
}

func (p *parser) expect(k tokKind, what string) (token, *errs.Error) {
	t := p.peek()
	if t.kind != k {
		return token{}, parseErr(p.errTag(), "expecting "+what)
	}
	return p.next(), nil
}

// errTag anchors a parse error at the current token, or at the last
// consumed token's tag when input is exhausted.
func (p *parser) errTag() tag.Tag {
	if !p.atEnd() {
		return p.toks[p.pos].tag
	}
	if p.pos > 0 {
		return p.toks[p.pos-1].tag
	}
	return tag.New(tag.Shell{}, "", 0, 0)
}

func (p *parser) parseStatement() (Statement, *errs.Error) {
	if p.peek().kind == tokIdent {
		switch p.peek().tag.Str() {
		case "def-ty":
			return p.parseDefTy()
		case "def":
			return p.parseDef()
		}
	}
	g := astgraph.New()
	root, err := p.parseExpr(g, nil)
	if err != nil {
		return Statement{}, err
	}
	g.SetRoot(root)
	return Statement{Kind: StmtExpr, Graph: g}, nil
}

// parseExpr parses one pipeline (`op1 | op2 | …`) into g, stopping at
// a closing bracket (stopAt) or end of input.
func (p *parser) parseExpr(g *astgraph.Graph, stopAt []tokKind) (astgraph.Idx, *errs.Error) {
	var stages []astgraph.Idx
	exprStart := p.errTag()

	for {
		op, err := p.parseOp(g)
		if err != nil {
			return astgraph.NoIdx, err
		}
		stages = append(stages, op)

		if p.peek().kind == tokPipe {
			p.next()
			continue
		}
		break
	}

	exprEnd := exprStart
	if p.pos > 0 {
		exprEnd = p.toks[p.pos-1].tag
	}
	_ = stopAt
	return g.Push(astgraph.NewExpr(stages, mergeTags(exprStart, exprEnd))), nil
}

// parseOp parses one pipeline stage: a command name followed by zero
// or more flags and arguments, stopping at `|`, a closing bracket, or
// end of input.
func (p *parser) parseOp(g *astgraph.Graph) (astgraph.Idx, *errs.Error) {
	nameTok, err := p.expect(tokIdent, "a command name")
	if err != nil {
		return astgraph.NoIdx, err
	}
	nameTag := nameTok.tag

	var args, flags []astgraph.Idx
	for {
		switch p.peek().kind {
		case tokPipe, tokEOF, tokRBrace, tokRParen, tokComma:
			blkTag := mergeTags(nameTag, p.lastTag(nameTag))
			return g.Push(astgraph.NewOp(nameTag, blkTag, args, flags)), nil
		case tokFlag:
			f := p.next()
			flags = append(flags, g.Push(astgraph.NewFlag(f.tag, astgraph.NoIdx)))
		case tokVar:
			v := p.next()
			args = append(args, g.Push(astgraph.NewVar(v.tag)))
		case tokNumber:
			n := p.next()
			args = append(args, g.Push(astgraph.NewNum(n.numVal, n.tag)))
		case tokPound:
			n := p.next()
			args = append(args, g.Push(astgraph.NewPound(n.poundCh, n.tag)))
		case tokIdent, tokString:
			n := p.next()
			args = append(args, g.Push(astgraph.NewIdent(n.tag)))
		case tokLBrace:
			p.next()
			exprIdx, eerr := p.parseExpr(g, []tokKind{tokRBrace})
			if eerr != nil {
				return astgraph.NoIdx, eerr
			}
			if _, rerr := p.expect(tokRBrace, "`}`"); rerr != nil {
				return astgraph.NoIdx, rerr
			}
			args = append(args, exprIdx)
		default:
			return astgraph.NoIdx, parseErr(p.errTag(), "unexpected token in argument position")
		}
	}
}

func (p *parser) lastTag(fallback tag.Tag) tag.Tag {
	if p.pos > 0 {
		return p.toks[p.pos-1].tag
	}
	return fallback
}

// mergeTags spans from a's start to b's end, provided both share the
// same anchor and source line (spanning tags across physical lines
// isn't representable by tag.Tag's single-Line model, so a multi-line
// block's tag degrades to just a in that case).
func mergeTags(a, b tag.Tag) tag.Tag {
	if a.Anchor != b.Anchor || a.Line != b.Line {
		return a
	}
	start, end := a.Start, a.End
	if b.Start < start {
		start = b.Start
	}
	if b.End > end {
		end = b.End
	}
	return tag.New(a.Anchor, a.Line, start, end)
}

// parseDef parses `def name (p1 p2 …) { body }`.
func (p *parser) parseDef() (Statement, *errs.Error) {
	p.next() // "def"
	nameTok, err := p.expect(tokIdent, "a definition name")
	if err != nil {
		return Statement{}, err
	}
	if _, err := p.expect(tokLParen, "`(`"); err != nil {
		return Statement{}, err
	}
	var params []tag.Tag
	for p.peek().kind != tokRParen {
		pt, perr := p.expect(tokIdent, "a parameter name")
		if perr != nil {
			return Statement{}, perr
		}
		params = append(params, pt.tag)
		if p.peek().kind == tokComma {
			p.next()
		}
	}
	if _, err := p.expect(tokRParen, "`)`"); err != nil {
		return Statement{}, err
	}
	if _, err := p.expect(tokLBrace, "`{`"); err != nil {
		return Statement{}, err
	}
	g := astgraph.New()
	body, berr := p.parseExpr(g, []tokKind{tokRBrace})
	if berr != nil {
		return Statement{}, berr
	}
	g.SetRoot(body)
	if _, err := p.expect(tokRBrace, "`}`"); err != nil {
		return Statement{}, err
	}
	return Statement{Kind: StmtDef, DefName: nameTok.tag.Str(), Params: params, Body: g}, nil
}

// parseDefTy parses `def-ty Name { field:Type … }` or
// `def-ty Name :: Variant { … } | Variant { … }`.
func (p *parser) parseDefTy() (Statement, *errs.Error) {
	p.next() // "def-ty"
	nameTok, err := p.expect(tokIdent, "a type name")
	if err != nil {
		return Statement{}, err
	}

	if p.peek().kind == tokDoubleColon {
		p.next()
		var variants []types.Variant
		for {
			vname, verr := p.expect(tokIdent, "a variant name")
			if verr != nil {
				return Statement{}, verr
			}
			if _, err := p.expect(tokLBrace, "`{`"); err != nil {
				return Statement{}, err
			}
			fields, ferr := p.parseFieldList()
			if ferr != nil {
				return Statement{}, ferr
			}
			if _, err := p.expect(tokRBrace, "`}`"); err != nil {
				return Statement{}, err
			}
			variants = append(variants, types.Variant{Name: vname.tag.Str(), Fields: fields})
			if p.peek().kind == tokPipe {
				p.next()
				continue
			}
			break
		}
		def := &types.TypeDef{Name: nameTok.tag.Str(), Structure: types.TypeVariant{Sum: variants}}
		return Statement{Kind: StmtDefTy, TypeDef: def}, nil
	}

	if _, err := p.expect(tokLBrace, "`{`"); err != nil {
		return Statement{}, err
	}
	fields, ferr := p.parseFieldList()
	if ferr != nil {
		return Statement{}, ferr
	}
	if _, err := p.expect(tokRBrace, "`}`"); err != nil {
		return Statement{}, err
	}
	def := &types.TypeDef{Name: nameTok.tag.Str(), Structure: types.TypeVariant{Product: fields}}
	return Statement{Kind: StmtDefTy, TypeDef: def}, nil
}

// parseFieldList parses `name:Type` pairs until the next `}`. A field
// name followed by `:` with no valid type identifier after it (spec.md
// §8 scenario 4) produces a Parsing error anchored right after the
// colon.
func (p *parser) parseFieldList() ([]types.Field, *errs.Error) {
	var fields []types.Field
	for p.peek().kind == tokIdent {
		nameTok := p.next()
		if _, err := p.expect(tokColon, "`:`"); err != nil {
			return nil, err
		}
		if p.peek().kind != tokIdent {
			at := p.errTag()
			zero := tag.New(at.Anchor, at.Line, at.Start, at.Start)
			if p.pos > 0 {
				prev := p.toks[p.pos-1].tag
				zero = tag.New(prev.Anchor, prev.Line, prev.End, prev.End)
			}
			return nil, parseErr(zero, "missing a valid type specifier: `field:Type`")
		}
		tyTok := p.next()
		fields = append(fields, types.Field{Name: nameTok.tag.Str(), Ty: placeholderFieldType(tyTok.tag.Str())})
	}
	return fields, nil
}

// placeholderFieldType resolves built-in type names inline; user/
// anonymous type names are re-resolved by internal/bat against the
// shared type table once every def-ty statement in the batch has been
// registered (a field may reference a type declared later in the same
// file).
func placeholderFieldType(name string) types.Type {
	switch name {
	case "Nil":
		return types.TyNil
	case "Bool":
		return types.TyBool
	case "Number", "Num":
		return types.TyNum
	case "String", "Str":
		return types.TyStr
	case "Table", "Tab":
		return types.TyTab
	case "TableRow", "TabRow":
		return types.TyTabRow
	default:
		return types.NewDef(&types.TypeDef{Name: name})
	}
}
