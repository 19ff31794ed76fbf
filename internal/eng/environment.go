package eng

import "github.com/ogma-lang/ogma/internal/value"

// Environment is the mapping from variable handle to Value threaded
// through evaluation (spec §3, §4.5). A top-level evaluation owns
// exactly one Environment; nothing in this package scopes it further at
// runtime because compile-time scoping (package graphs' scope chain)
// already guarantees a variable handle is only ever referenced where
// it's in lexical scope.
type Environment struct {
	vars map[int]value.Value
}

// NewEnvironment returns an empty Environment.
func NewEnvironment() *Environment {
	return &Environment{vars: map[int]value.Value{}}
}

func (e *Environment) set(handle int, v value.Value) { e.vars[handle] = v }

func (e *Environment) get(handle int) (value.Value, bool) {
	v, ok := e.vars[handle]
	return v, ok
}
