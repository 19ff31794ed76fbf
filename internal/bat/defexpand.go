package bat

import (
	"github.com/ogma-lang/ogma/internal/eng"
	"github.com/ogma-lang/ogma/internal/errs"
	"github.com/ogma-lang/ogma/internal/intrinsics"
	"github.com/ogma-lang/ogma/internal/parser"
	"github.com/ogma-lang/ogma/internal/types"
	"github.com/ogma-lang/ogma/internal/value"
)

// recursionGuard tracks which user `def`s are currently being expanded
// on the call stack of one top-level Compile invocation, so a def that
// (directly or through a chain of other defs) invokes itself is
// rejected with "recursion is not supported" (spec.md §4.6 point 3)
// rather than recursing the Go call stack forever. A fresh guard is
// built per statement compile (see buildRegistry), so this needs no
// locking: nothing shares it across goroutines.
type recursionGuard struct {
	active map[string]bool
}

func newRecursionGuard() *recursionGuard { return &recursionGuard{active: map[string]bool{}} }

// buildRegistry constructs an Implementations registry for one
// statement's compile call: every intrinsic plus every user `def`
// encountered in the batch, each def's compile_fn capturing a
// recursion guard private to this call. Building the registry fresh
// per statement (rather than once for the whole batch run) is what
// makes the guard safe under `parallelise=true` without a mutex: no
// two concurrently-compiling statements ever share one guard.
func buildRegistry(defs []parser.Statement, typeTab *types.Table) *eng.Implementations {
	impls := intrinsics.Register(eng.NewImplementations())
	guard := newRecursionGuard()
	for _, d := range defs {
		impls.Add(eng.Impl{
			Name:     d.DefName,
			InTy:     nil,
			Compile:  defCompile(d, typeTab, impls, guard),
			Category: "user-defined",
		})
	}
	return impls
}

// defCompile builds the CompileFn a `def name (p1 p2 …) { body }`
// statement installs: one positional argument per declared parameter,
// each parameter's type taken from its argument's own inferred output
// type (spec.md §4.3 design note: "the body is recompiled per call
// site, once per distinct set of argument types" — PreBoundVar is
// exactly this mechanism), then the body is compiled against the
// block's input type with those parameters pre-bound.
func defCompile(d parser.Statement, typeTab *types.Table, impls *eng.Implementations, guard *recursionGuard) eng.CompileFn {
	return func(b *eng.Block) (*eng.Step, *errs.Error) {
		if guard.active[d.DefName] {
			return nil, errs.OpNotFound(b.OpTag(), nil, true, nil)
		}

		var argObjs []*eng.Argument
		var preBound []eng.PreBoundVar
		for _, p := range d.Params {
			ab, err := b.NextArg()
			if err != nil {
				return nil, err
			}
			ab.Supplied(nil)
			arg, cerr := ab.Concrete()
			if cerr != nil {
				return nil, cerr
			}
			outTy := arg.OutTy()
			if outTy == nil {
				return nil, errs.UnknownArgOutputType(ab.Tag())
			}
			argObjs = append(argObjs, arg)
			preBound = append(preBound, eng.PreBoundVar{Name: "$" + p.Str(), Ty: *outTy})
		}

		guard.active[d.DefName] = true
		prog, cerr := eng.Compile(d.Body, typeTab, impls, b.InTy(), preBound...)
		delete(guard.active, d.DefName)
		if cerr != nil {
			return nil, cerr
		}

		return b.Eval(prog.OutTy(), func(v value.Value, ctx *eng.Context) (value.Value, *errs.Error) {
			for i, pv := range preBound {
				val, rerr := argObjs[i].Resolve(func() (value.Value, *errs.Error) { return v, nil }, ctx)
				if rerr != nil {
					return nil, rerr
				}
				prog.ParamVars[pv.Name].SetData(ctx.Env, val)
			}
			return prog.Run(v, ctx, b.OpTag())
		})
	}
}
