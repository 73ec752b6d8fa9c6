package command

import "strings"

// Parameter is one node of a command's argument grammar. Implementations are
// immutable once built and safe for concurrent use.
type Parameter interface {
	// Key identifies the context binding this parameter writes, empty for
	// pure composites.
	Key() string
	// Parse consumes tokens and records values. On error the implementation
	// must leave args and ctx exactly as it found them unless the error is
	// meant to surface (leaves report their failure with state restored by
	// the enclosing composite).
	Parse(src Source, args *Tokens, ctx *Context) error
	// Complete proposes candidates for the token under the cursor.
	Complete(src Source, args *Tokens, ctx *Context) ([]string, error)
	// Usage renders this node's usage fragment for the given source.
	Usage(src Source) string
}

// parameter is a leaf node: one key, one value parser, a modifier chain and
// an optional permission gate.
type parameter struct {
	key        string
	parser     ValueParser
	completer  Completer
	usageFn    func(key string, src Source) string
	modifiers  []Modifier // index 0 is outermost
	permission string
}

func (p *parameter) Key() string { return p.key }

func (p *parameter) Parse(src Source, args *Tokens, ctx *Context) error {
	if p.permission != "" && !src.HasPermission(p.permission) {
		return nil
	}
	step := p.commitStep()
	for i := len(p.modifiers) - 1; i >= 0; i-- {
		m, inner := p.modifiers[i], step
		step = func(src Source, args *Tokens, ctx *Context) error {
			return m.Parse(p.key, src, args, ctx, inner)
		}
	}
	return step(src, args, ctx)
}

// commitStep runs the value parser and binds its result, flattening Multi
// results into one entry per element.
func (p *parameter) commitStep() ParseFunc {
	return func(src Source, args *Tokens, ctx *Context) error {
		value, err := p.parser.GetValue(src, args, ctx)
		if err != nil {
			return err
		}
		switch v := value.(type) {
		case nil:
		case Multi:
			for _, one := range v {
				ctx.PutEntry(p.key, one)
			}
		default:
			ctx.PutEntry(p.key, v)
		}
		return nil
	}
}

func (p *parameter) Complete(src Source, args *Tokens, ctx *Context) ([]string, error) {
	if p.permission != "" && !src.HasPermission(p.permission) {
		return nil, nil
	}
	if p.completer != nil {
		return p.completer.Complete(src, args, ctx), nil
	}
	if c, ok := p.parser.(Completer); ok {
		return c.Complete(src, args, ctx), nil
	}
	return nil, nil
}

func (p *parameter) Usage(src Source) string {
	if p.permission != "" && !src.HasPermission(p.permission) {
		return ""
	}
	var usage string
	switch {
	case p.usageFn != nil:
		usage = p.usageFn(p.key, src)
	default:
		if vp, ok := p.parser.(ValueParameter); ok {
			usage = vp.Usage(p.key, src)
		} else {
			usage = "<" + p.key + ">"
		}
	}
	if p.usageFn == nil {
		for i := len(p.modifiers) - 1; i >= 0; i-- {
			usage = p.modifiers[i].Usage(p.key, src, usage)
		}
	}
	return usage
}

// ParameterBuilder assembles a leaf parameter. Modifier methods append to the
// chain, so the first modifier added is the outermost at parse time.
type ParameterBuilder struct {
	p parameter
}

// NewParameter starts building a parameter bound to key.
func NewParameter(key string) *ParameterBuilder {
	return &ParameterBuilder{p: parameter{key: key}}
}

// Parser sets the value parser.
func (b *ParameterBuilder) Parser(parser ValueParser) *ParameterBuilder {
	b.p.parser = parser
	return b
}

// Completer overrides completion. The modifier chain does not apply to it.
func (b *ParameterBuilder) Completer(c Completer) *ParameterBuilder {
	b.p.completer = c
	return b
}

// UsageFn overrides the rendered usage fragment. Modifier decoration does not
// apply to it.
func (b *ParameterBuilder) UsageFn(fn func(key string, src Source) string) *ParameterBuilder {
	b.p.usageFn = fn
	return b
}

// Permission gates the parameter: a source lacking the permission skips it
// silently.
func (b *ParameterBuilder) Permission(permission string) *ParameterBuilder {
	b.p.permission = permission
	return b
}

// Modifier appends a modifier inside any already added.
func (b *ParameterBuilder) Modifier(m Modifier) *ParameterBuilder {
	b.p.modifiers = append(b.p.modifiers, m)
	return b
}

// ModifierToBeginning prepends a modifier outside any already added.
func (b *ParameterBuilder) ModifierToBeginning(m Modifier) *ParameterBuilder {
	b.p.modifiers = append([]Modifier{m}, b.p.modifiers...)
	return b
}

// Parser shorthands.

func (b *ParameterBuilder) Bool() *ParameterBuilder     { return b.Parser(Bool()) }
func (b *ParameterBuilder) Integer() *ParameterBuilder  { return b.Parser(Integer()) }
func (b *ParameterBuilder) Double() *ParameterBuilder   { return b.Parser(Double()) }
func (b *ParameterBuilder) Duration() *ParameterBuilder { return b.Parser(Duration()) }
func (b *ParameterBuilder) StringValue() *ParameterBuilder {
	return b.Parser(String())
}

func (b *ParameterBuilder) RemainingJoinedStrings() *ParameterBuilder {
	return b.Parser(RemainingJoinedStrings())
}

func (b *ParameterBuilder) Choices(choices map[string]any) *ParameterBuilder {
	return b.Parser(Choices(choices))
}

func (b *ParameterBuilder) Literal(value any, literals ...string) *ParameterBuilder {
	return b.Parser(Literal(value, literals...))
}

// Modifier shorthands.

func (b *ParameterBuilder) OnlyOne() *ParameterBuilder      { return b.Modifier(OnlyOne()) }
func (b *ParameterBuilder) AllOf() *ParameterBuilder        { return b.Modifier(AllOf()) }
func (b *ParameterBuilder) Optional() *ParameterBuilder     { return b.Modifier(Optional()) }
func (b *ParameterBuilder) OptionalWeak() *ParameterBuilder { return b.Modifier(OptionalWeak()) }
func (b *ParameterBuilder) Repeated(times int) *ParameterBuilder {
	return b.Modifier(Repeated(times))
}
// Default binds value when the chain completes without one. It goes to the
// front of the chain so an Optional absorbing a miss still gets the default.
func (b *ParameterBuilder) Default(value any) *ParameterBuilder {
	return b.ModifierToBeginning(DefaultValue(value))
}

// Build finalizes the parameter. A parameter without a parser defaults to
// None so a bare permission or literal marker still composes.
func (b *ParameterBuilder) Build() Parameter {
	built := b.p
	if built.parser == nil {
		built.parser = None()
	}
	built.modifiers = append([]Modifier(nil), b.p.modifiers...)
	return &built
}

// sequence composes child parameters. With requireAll the children parse in
// order as one atomic group; otherwise the first child to succeed wins.
type sequence struct {
	children   []Parameter
	requireAll bool
}

// Seq composes parameters that must all parse, in order. Failure of any child
// rolls the whole group back.
func Seq(children ...Parameter) Parameter {
	if len(children) == 1 {
		return children[0]
	}
	return &sequence{children: children, requireAll: true}
}

// FirstOf tries each alternative in order and commits the first that parses.
// When all fail, the error that progressed furthest through the input is
// reported.
func FirstOf(children ...Parameter) Parameter {
	if len(children) == 1 {
		return children[0]
	}
	return &sequence{children: children}
}

func (s *sequence) Key() string { return "" }

func (s *sequence) Parse(src Source, args *Tokens, ctx *Context) error {
	if s.requireAll {
		argState := args.State()
		ctxState := ctx.State()
		for _, child := range s.children {
			if err := child.Parse(src, args, ctx); err != nil {
				args.SetState(argState)
				ctx.SetState(ctxState)
				return err
			}
		}
		return nil
	}

	var errs []error
	for _, child := range s.children {
		argState := args.State()
		ctxState := ctx.State()
		if err := child.Parse(src, args, ctx); err != nil {
			args.SetState(argState)
			ctx.SetState(ctxState)
			errs = append(errs, err)
			continue
		}
		return nil
	}
	if err := deepestError(errs...); err != nil {
		return err
	}
	return nil
}

func (s *sequence) Complete(src Source, args *Tokens, ctx *Context) ([]string, error) {
	if s.requireAll {
		for _, child := range s.children {
			argState := args.State()
			ctxState := ctx.State()
			err := child.Parse(src, args, ctx)
			if err != nil || !args.HasNext() {
				args.SetState(argState)
				ctx.SetState(ctxState)
				return child.Complete(src, args, ctx)
			}
		}
		return nil, nil
	}

	var out []string
	for _, child := range s.children {
		argState := args.State()
		ctxState := ctx.State()
		cs, err := child.Complete(src, args, ctx)
		args.SetState(argState)
		ctx.SetState(ctxState)
		if err != nil {
			continue
		}
		out = append(out, cs...)
	}
	return dedupe(out), nil
}

func (s *sequence) Usage(src Source) string {
	sep := " "
	if !s.requireAll {
		sep = "|"
	}
	var parts []string
	for _, child := range s.children {
		if u := child.Usage(src); u != "" {
			parts = append(parts, u)
		}
	}
	return strings.Join(parts, sep)
}

func dedupe(in []string) []string {
	if len(in) < 2 {
		return in
	}
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
