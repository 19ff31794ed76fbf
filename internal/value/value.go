// Package value implements ogma's runtime value model: a tagged union of
// Nil, Bool, Num, Str, Table, TableRow and OgmaData (user-type instances),
// threaded Value-to-Value through a compiled step list.
package value

import (
	"fmt"

	"github.com/ogma-lang/ogma/internal/types"
)

// Value is the runtime representation threaded through the evaluator.
// It is a closed tagged union; callers type-switch or use the As*
// conversion helpers below.
type Value interface {
	// Ty returns the value's ogma type.
	Ty() types.Type
	fmt.Stringer
	isValue()
}

// Nil is ogma's unit value.
type Nil struct{}

func (Nil) Ty() types.Type  { return types.TyNil }
func (Nil) String() string  { return "<nil>" }
func (Nil) isValue()        {}

// Bool wraps a boolean scalar.
type Bool bool

func (Bool) Ty() types.Type       { return types.TyBool }
func (b Bool) String() string     { return fmt.Sprintf("%t", bool(b)) }
func (Bool) isValue()             {}

// Num wraps a Number scalar.
type Num Number

func (Num) Ty() types.Type    { return types.TyNum }
func (n Num) String() string  { return Number(n).String() }
func (Num) isValue()          {}

// Str wraps a UTF-8 string scalar. Strings are cheap to clone: Go strings
// are already immutable and share their backing array, so Str needs no
// extra interior-sharing machinery.
type Str string

func (Str) Ty() types.Type   { return types.TyStr }
func (s Str) String() string { return string(s) }
func (Str) isValue()         {}

// errWrongType is returned by the As* conversion helpers.
type errWrongType struct {
	want, found types.Type
}

func (e errWrongType) Error() string {
	return fmt.Sprintf("expecting type `%s`, found `%s`", e.want, e.found)
}

// AsBool converts a Value to Bool, or reports the type mismatch.
func AsBool(v Value) (bool, error) {
	b, ok := v.(Bool)
	if !ok {
		return false, errWrongType{types.TyBool, v.Ty()}
	}
	return bool(b), nil
}

// AsNumber converts a Value to Number, or reports the type mismatch.
func AsNumber(v Value) (Number, error) {
	n, ok := v.(Num)
	if !ok {
		return 0, errWrongType{types.TyNum, v.Ty()}
	}
	return Number(n), nil
}

// AsStr converts a Value to Str, or reports the type mismatch.
func AsStr(v Value) (Str, error) {
	s, ok := v.(Str)
	if !ok {
		return "", errWrongType{types.TyStr, v.Ty()}
	}
	return s, nil
}

// AsTable converts a Value to *Table, or reports the type mismatch.
func AsTable(v Value) (*Table, error) {
	t, ok := v.(*Table)
	if !ok {
		return nil, errWrongType{types.TyTab, v.Ty()}
	}
	return t, nil
}

// AsTableRow converts a Value to TableRow, or reports the type mismatch.
func AsTableRow(v Value) (TableRow, error) {
	r, ok := v.(TableRow)
	if !ok {
		return TableRow{}, errWrongType{types.TyTabRow, v.Ty()}
	}
	return r, nil
}

// AsOgmaData converts a Value to *OgmaData, or reports the type mismatch.
func AsOgmaData(v Value, want types.Type) (*OgmaData, error) {
	d, ok := v.(*OgmaData)
	if !ok {
		return nil, errWrongType{want, v.Ty()}
	}
	return d, nil
}
