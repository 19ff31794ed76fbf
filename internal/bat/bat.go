// Package bat implements the batch driver: the boundary described by
// spec.md §4.6/§6 that parses a file of ogma statements and requests
// compile+evaluate per statement, honouring `parallelise` and
// `fail_fast` (spec.md §5).
package bat

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ogma-lang/ogma/internal/eng"
	"github.com/ogma-lang/ogma/internal/errs"
	"github.com/ogma-lang/ogma/internal/parser"
	"github.com/ogma-lang/ogma/internal/tag"
	"github.com/ogma-lang/ogma/internal/types"
	"github.com/ogma-lang/ogma/internal/value"
)

// Outcome classifies how one statement's compile+evaluate attempt
// concluded (spec.md §6: "Outcome per statement").
type Outcome uint8

const (
	Success Outcome = iota
	Failed
	Outstanding
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "Success"
	case Failed:
		return "Failed"
	case Outstanding:
		return "Outstanding"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Result is one statement's outcome: Value is populated only on
// Success (and only for expression statements — def/def-ty statements
// succeed with a Nil value once registered).
type Result struct {
	Outcome Outcome
	Value   value.Value
	Err     *errs.Error
}

// Options configures one Run. The zero value runs every statement
// sequentially with no progress reporting and a discard logger,
// mirroring the teacher's Options-struct-plus-New constructor pattern
// (interp.Options/interp.New).
type Options struct {
	Parallelise bool
	FailFast    bool
	RootPath    string
	WorkingDir  string
	Progress    eng.ProgressSink
	Logger      *logrus.Logger

	// Cancel, when non-nil, is checked between every compiled step
	// (spec §5: "granularity is per-step, not mid-step"). Closing it
	// mid-run surfaces as Outcome: Cancelled for each statement whose
	// evaluation observes it; with FailFast, expression statements not
	// yet started after that are reported Outstanding instead.
	Cancel <-chan struct{}
}

func (o Options) logger() *logrus.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	l := logrus.New()
	l.SetOutput(discardWriter{})
	return l
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Run parses src (per the batch file format of spec.md §6) and
// compiles+evaluates each expression statement in source order,
// registering `def`/`def-ty` statements first: `def-ty`s into a shared,
// per-run type table, and `def`s into a command registry that is built
// afresh for each expression statement. Every statement is parsed in
// isolation, so one statement failing to parse is recorded as that
// statement's own Failed outcome rather than aborting the batch (the
// original's batch_fail_testing: an early statement can succeed, a
// later one fail to compile, and the last fail to parse, all in one
// run). Returned Results are in source order regardless of Parallelise
// (spec.md §5).
func Run(src string, anchor tag.Location, opts Options) ([]Result, *errs.Error) {
	log := opts.logger()

	chunks := parser.SplitStatements(src)
	stmts := make([]parser.Statement, len(chunks))
	results := make([]Result, len(chunks))

	var defs []parser.Statement
	var exprIdx []int
	for i, raw := range chunks {
		st, perr := parser.ParseStatement(raw, anchor)
		if perr != nil {
			log.WithError(perr).WithField("statement", i).Warn("batch: statement failed to parse")
			results[i] = Result{Outcome: Failed, Err: perr}
			continue
		}
		stmts[i] = st
		switch st.Kind {
		case parser.StmtDef:
			defs = append(defs, st)
			results[i] = Result{Outcome: Success, Value: value.Nil{}}
		case parser.StmtDefTy:
			results[i] = Result{Outcome: Success, Value: value.Nil{}}
		case parser.StmtExpr:
			exprIdx = append(exprIdx, i)
		}
	}

	typeTab := buildTypeTable(stmts)

	log.WithFields(logrus.Fields{
		"statements": len(stmts),
		"defs":       len(defs),
		"exprs":      len(exprIdx),
	}).Debug("batch: registered definitions")

	run := func(i int) Result {
		st := stmts[i]
		impls := buildRegistry(defs, typeTab)
		ctx := &eng.Context{
			Env:        eng.NewEnvironment(),
			RootPath:   opts.RootPath,
			WorkingDir: opts.WorkingDir,
			Progress:   opts.Progress,
			Cancel:     opts.Cancel,
		}
		prog, cerr := eng.Compile(st.Graph, typeTab, impls, types.TyNil)
		if cerr != nil {
			log.WithError(cerr).WithField("statement", i).Warn("batch: compile failed")
			return Result{Outcome: Failed, Err: cerr}
		}
		v, eerr := prog.Run(value.Nil{}, ctx, st.Graph.Node(st.Graph.Root()).Tag)
		if eerr != nil {
			if eerr.Cancelled {
				log.WithField("statement", i).Warn("batch: evaluation cancelled")
				return Result{Outcome: Cancelled, Err: eerr}
			}
			log.WithError(eerr).WithField("statement", i).Warn("batch: evaluation failed")
			return Result{Outcome: Failed, Err: eerr}
		}
		return Result{Outcome: Success, Value: v}
	}

	// Any statement that failed to parse, wherever it sits in the source,
	// is already a Failed outcome, so fail-fast treats the batch as
	// failed before the first expression even runs.
	initialFailed := false
	for i := range chunks {
		if results[i].Outcome == Failed {
			initialFailed = true
			break
		}
	}

	if !opts.Parallelise {
		failed := initialFailed
		for _, i := range exprIdx {
			if failed && opts.FailFast {
				results[i] = Result{Outcome: Outstanding}
				continue
			}
			r := run(i)
			results[i] = r
			if r.Outcome == Failed || r.Outcome == Cancelled {
				failed = true
			}
		}
		return results, nil
	}

	var failedFlag atomic.Bool
	failedFlag.Store(initialFailed)
	var mu sync.Mutex
	var g errgroup.Group
	for _, i := range exprIdx {
		i := i
		g.Go(func() error {
			if opts.FailFast && failedFlag.Load() {
				mu.Lock()
				results[i] = Result{Outcome: Outstanding}
				mu.Unlock()
				return nil
			}
			r := run(i)
			if r.Outcome == Failed || r.Outcome == Cancelled {
				failedFlag.Store(true)
			}
			mu.Lock()
			results[i] = r
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}
