package command

// Context accumulates the typed values produced by a parse, keyed by parameter
// key. Multiple values may accumulate under one key; insertion order is kept.
// A Context is private to a single invocation and not safe for concurrent use.
type Context struct {
	bindings    map[string][]any
	completion  bool
	targetBlock any
	hasTarget   bool
}

// ContextState is a deep snapshot of all bindings. Restoring one discards
// every entry recorded after it was taken.
type ContextState struct {
	bindings map[string][]any
}

// ContextOption configures a new Context.
type ContextOption func(*Context)

// WithCompletion marks the context as serving a tab-completion query rather
// than a real execution. Parsers may relax validation when this is set.
func WithCompletion() ContextOption {
	return func(c *Context) { c.completion = true }
}

// WithTargetBlock records a positional hint for the invocation, such as the
// block a player was looking at when the command ran.
func WithTargetBlock(target any) ContextOption {
	return func(c *Context) {
		c.targetBlock = target
		c.hasTarget = true
	}
}

// NewContext creates an empty parse context.
func NewContext(opts ...ContextOption) *Context {
	c := &Context{bindings: make(map[string][]any)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsCompletion reports whether this parse serves a completion query.
func (c *Context) IsCompletion() bool {
	return c.completion
}

// TargetBlock returns the positional hint, if one was provided.
func (c *Context) TargetBlock() (any, bool) {
	return c.targetBlock, c.hasTarget
}

// HasAny reports whether at least one value is bound under key.
func (c *Context) HasAny(key string) bool {
	return len(c.bindings[key]) > 0
}

// GetOne returns the single value bound under key. ok is false when zero or
// more than one value is bound.
func (c *Context) GetOne(key string) (any, bool) {
	vs := c.bindings[key]
	if len(vs) != 1 {
		return nil, false
	}
	return vs[0], true
}

// GetOneOrFail returns the single value bound under key, failing with a typed
// error when none or several are bound.
func (c *Context) GetOneOrFail(key string) (any, error) {
	vs := c.bindings[key]
	switch len(vs) {
	case 0:
		return nil, NewParseError(ErrorTypeNoValue, "no value present for argument '"+key+"'")
	case 1:
		return vs[0], nil
	default:
		return nil, NewParseError(ErrorTypeAmbiguousResult, "multiple values present for argument '"+key+"'")
	}
}

// GetAll returns every value bound under key, in insertion order. The returned
// slice is a copy.
func (c *Context) GetAll(key string) []any {
	vs := c.bindings[key]
	if len(vs) == 0 {
		return nil
	}
	out := make([]any, len(vs))
	copy(out, vs)
	return out
}

// PutEntry appends a value under key.
func (c *Context) PutEntry(key string, value any) {
	c.bindings[key] = append(c.bindings[key], value)
}

// State deep-copies the bindings. A state stays valid however the live context
// mutates afterwards, so one snapshot may back several speculative branches.
func (c *Context) State() ContextState {
	snap := make(map[string][]any, len(c.bindings))
	for k, vs := range c.bindings {
		cp := make([]any, len(vs))
		copy(cp, vs)
		snap[k] = cp
	}
	return ContextState{bindings: snap}
}

// SetState restores a snapshot previously obtained from State. The snapshot
// itself remains usable.
func (c *Context) SetState(s ContextState) {
	next := make(map[string][]any, len(s.bindings))
	for k, vs := range s.bindings {
		cp := make([]any, len(vs))
		copy(cp, vs)
		next[k] = cp
	}
	c.bindings = next
}
