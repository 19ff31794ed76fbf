package eng

// ProgressSink receives free-text progress notices from steps. The batch
// driver (package bat) forwards its Options.Progress here; tests
// typically pass nil. No intrinsic command currently emits notices.
type ProgressSink interface {
	Progress(msg string)
}

// Context is threaded through every Step invocation: the variable
// Environment, path/working-directory context a command may need for
// file-backed operations, a ProgressSink, and a cooperative cancellation
// channel (spec §5: "granularity is per-step, not mid-step").
type Context struct {
	Env          *Environment
	RootPath     string
	WorkingDir   string
	Progress     ProgressSink
	Cancel       <-chan struct{}
}

// NewContext builds a Context with a fresh Environment.
func NewContext() *Context {
	return &Context{Env: NewEnvironment()}
}

// Cancelled reports whether the context's cancellation channel has
// fired. Step implementations that do meaningful work per invocation
// should check this before starting; the evaluator itself checks
// between steps.
func (c *Context) Cancelled() bool {
	if c.Cancel == nil {
		return false
	}
	select {
	case <-c.Cancel:
		return true
	default:
		return false
	}
}

// Notify forwards msg to the context's ProgressSink, if any.
func (c *Context) Notify(msg string) {
	if c.Progress != nil {
		c.Progress.Progress(msg)
	}
}
