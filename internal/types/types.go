// Package types implements ogma's nominal type system: the built-in
// scalar/table types plus user-defined product and sum types, and the
// canonical anonymous Tuple product type.
package types

import (
	"sort"
	"strings"
)

// Kind distinguishes the built-in type tags from a user Def.
type Kind uint8

const (
	Nil Kind = iota
	Bool
	Num
	Str
	Tab
	TabRow
	Def
)

// Type is a nominal ogma type. Built-ins compare by Kind alone; a Def
// type additionally carries a *TypeDef and compares by TypeDef.Name.
type Type struct {
	kind Kind
	def  *TypeDef
}

var (
	TyNil    = Type{kind: Nil}
	TyBool   = Type{kind: Bool}
	TyNum    = Type{kind: Num}
	TyStr    = Type{kind: Str}
	TyTab    = Type{kind: Tab}
	TyTabRow = Type{kind: TabRow}
)

// NewDef builds the Type wrapping a user TypeDef.
func NewDef(def *TypeDef) Type { return Type{kind: Def, def: def} }

func (t Type) Kind() Kind { return t.kind }

// Def returns the wrapped TypeDef, or nil if this is not a Def type.
func (t Type) Def() *TypeDef { return t.def }

// Equal is nominal type equality: built-ins compare by kind, Def types by
// name (TypeDefs are interned by name in a Table, so pointer identity
// would also work, but name equality is what the spec calls out).
func (t Type) Equal(o Type) bool {
	if t.kind != o.kind {
		return false
	}
	if t.kind != Def {
		return true
	}
	if t.def == nil || o.def == nil {
		return t.def == o.def
	}
	return t.def.Name == o.def.Name
}

func (t Type) String() string {
	switch t.kind {
	case Nil:
		return "Nil"
	case Bool:
		return "Bool"
	case Num:
		return "Number"
	case Str:
		return "String"
	case Tab:
		return "Table"
	case TabRow:
		return "TableRow"
	case Def:
		if t.def != nil {
			return t.def.Name
		}
		return "<def>"
	default:
		return "<unknown>"
	}
}

// TypeVariant is the structure of a user type: exactly one of Product or
// Sum is populated.
type TypeVariant struct {
	Product []Field   // non-nil iff this is a product type
	Sum     []Variant // non-nil iff this is a sum type
}

func (v TypeVariant) IsSum() bool { return v.Sum != nil }

// Field is a named, typed member of a product type (or a sum variant).
type Field struct {
	Name string
	Ty   Type
}

// Variant is one arm of a sum type.
type Variant struct {
	Name   string
	Fields []Field
}

// TypeDef names and structures a user-defined type (`def-ty`).
type TypeDef struct {
	Name      string
	Structure TypeVariant
}

// Fields returns the fields of a Product TypeDef, or nil for a Sum.
func (d *TypeDef) Fields() []Field {
	if d.Structure.Sum != nil {
		return nil
	}
	return d.Structure.Product
}

// FieldByName returns the field index and Field for a Product TypeDef.
func (d *TypeDef) FieldByName(name string) (int, Field, bool) {
	for i, f := range d.Fields() {
		if f.Name == name {
			return i, f, true
		}
	}
	return -1, Field{}, false
}

// MangleTuple builds the canonical name `U_<ty0>-<ty1>-…_` for an
// anonymous tuple type over the given field types. It is a pure function
// of the ordered type list so re-entrant Tuple invocations of the same
// shape produce the same name.
func MangleTuple(tys []Type) string {
	parts := make([]string, len(tys))
	for i, t := range tys {
		parts[i] = t.String()
	}
	return "U_" + strings.Join(parts, "-") + "_"
}

// NewTupleDef builds the TypeDef for an anonymous tuple over tys, with
// fields named t0, t1, ….
func NewTupleDef(tys []Type) *TypeDef {
	fields := make([]Field, len(tys))
	for i, t := range tys {
		fields[i] = Field{Name: tupleFieldName(i), Ty: t}
	}
	return &TypeDef{Name: MangleTuple(tys), Structure: TypeVariant{Product: fields}}
}

func tupleFieldName(i int) string {
	return "t" + itoa(i)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var buf []byte
	for i > 0 {
		buf = append([]byte{byte('0' + i%10)}, buf...)
		i /= 10
	}
	return string(buf)
}

// Table is an append-only, name-keyed registry of user and anonymous
// TypeDefs. Inserting the same tuple shape twice is idempotent: this is
// what makes tuple type equality work across re-entrant `Tuple` calls.
type Table struct {
	defs map[string]*TypeDef
}

// NewTable constructs an empty type table.
func NewTable() *Table { return &Table{defs: map[string]*TypeDef{}} }

// Insert adds a TypeDef, returning the (possibly pre-existing) TypeDef
// registered under that name. Re-inserting an identically-named TypeDef
// is a no-op; the first registration wins.
func (t *Table) Insert(def *TypeDef) *TypeDef {
	if existing, ok := t.defs[def.Name]; ok {
		return existing
	}
	t.defs[def.Name] = def
	return def
}

// Lookup finds a registered TypeDef by name.
func (t *Table) Lookup(name string) (*TypeDef, bool) {
	d, ok := t.defs[name]
	return d, ok
}

// Names returns all registered type names, sorted, for `def-ty --list`
// style help output.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.defs))
	for n := range t.defs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
