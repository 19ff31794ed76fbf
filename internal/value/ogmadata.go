package value

import (
	"fmt"

	"github.com/ogma-lang/ogma/internal/types"
)

// OgmaData is the runtime representation of a user-defined-type instance:
// its TypeDef, an optional variant name (populated for Sum types), and
// its field data in declaration order.
type OgmaData struct {
	Def     *types.TypeDef
	Variant string // empty for Product types
	Data    []Value
}

// NewOgmaData constructs an instance. variant is ignored for Product
// types.
func NewOgmaData(def *types.TypeDef, variant string, data []Value) *OgmaData {
	return &OgmaData{Def: def, Variant: variant, Data: data}
}

func (d *OgmaData) Ty() types.Type { return types.NewDef(d.Def) }
func (*OgmaData) isValue()         {}

func (d *OgmaData) String() string {
	if d.Variant != "" {
		return fmt.Sprintf("%s::%s(...)", d.Def.Name, d.Variant)
	}
	return fmt.Sprintf("%s(...)", d.Def.Name)
}

// Field returns the value at field index i. Callers that own the only
// reference to d may mutate Data directly (the "get_mut fast path" in the
// original); this helper is the shared, read-only path used when d may be
// aliased.
func (d *OgmaData) Field(i int) Value {
	return d.Data[i]
}
