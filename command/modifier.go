package command

import "fmt"

// ParseFunc is the continuation a modifier drives. For the innermost modifier
// it commits the wrapped parser's value; each enclosing modifier sees the next
// one in as its continuation.
type ParseFunc func(src Source, args *Tokens, ctx *Context) error

// Modifier decorates a parameter's parse step with cardinality or default
// behavior. Modifiers may run their continuation zero, one or many times, and
// must snapshot and restore token and context state around any attempt they
// abandon.
type Modifier interface {
	Parse(key string, src Source, args *Tokens, ctx *Context, next ParseFunc) error
	Usage(key string, src Source, current string) string
}

type onlyOne struct{}

// OnlyOne fails the parse when the wrapped step leaves more than one value
// under the key. It turns a pattern match that widened to several candidates
// back into a hard error.
func OnlyOne() Modifier { return onlyOne{} }

func (onlyOne) Parse(key string, src Source, args *Tokens, ctx *Context, next ParseFunc) error {
	if err := next(src, args, ctx); err != nil {
		return err
	}
	if len(ctx.GetAll(key)) > 1 {
		return args.CreateError(ErrorTypeAmbiguousResult,
			fmt.Sprintf("argument '%s' may only resolve to one value", key))
	}
	return nil
}

func (onlyOne) Usage(key string, src Source, current string) string { return current }

type allOf struct{}

// AllOf greedily repeats the wrapped step until the tokens run out, requiring
// at least one success. A failed iteration rolls back and stops the loop.
func AllOf() Modifier { return allOf{} }

func (allOf) Parse(key string, src Source, args *Tokens, ctx *Context, next ParseFunc) error {
	count := 0
	for args.HasNext() {
		argState := args.State()
		ctxState := ctx.State()
		if err := next(src, args, ctx); err != nil {
			args.SetState(argState)
			ctx.SetState(ctxState)
			if count == 0 {
				return err
			}
			break
		}
		// A step that consumed nothing would loop forever.
		if args.State() == argState {
			break
		}
		count++
	}
	if count == 0 {
		return args.CreateError(ErrorTypeOutOfTokens, "not enough arguments")
	}
	return nil
}

func (allOf) Usage(key string, src Source, current string) string {
	if current == "" {
		return ""
	}
	return current + "..."
}

type repeated struct{ times int }

// Repeated runs the wrapped step exactly times times. Any failing iteration
// rolls the whole group back.
func Repeated(times int) Modifier { return repeated{times: times} }

func (r repeated) Parse(key string, src Source, args *Tokens, ctx *Context, next ParseFunc) error {
	argState := args.State()
	ctxState := ctx.State()
	for i := 0; i < r.times; i++ {
		if err := next(src, args, ctx); err != nil {
			args.SetState(argState)
			ctx.SetState(ctxState)
			pe := asParseError(err)
			return &ParseError{
				Type:       pe.Type,
				Message:    fmt.Sprintf("argument %d of %d: %s", i+1, r.times, pe.Message),
				Position:   pe.Position,
				Token:      pe.Token,
				Suggestion: pe.Suggestion,
			}
		}
	}
	return nil
}

func (r repeated) Usage(key string, src Source, current string) string {
	if current == "" {
		return ""
	}
	return fmt.Sprintf("%s{%d}", current, r.times)
}

type optional struct{ weak bool }

// Optional absorbs a failure of the wrapped step when no tokens remained at
// entry, rolling back any partial consumption. With tokens present the
// failure propagates, on the theory that the user was trying to supply this
// argument and should hear why it didn't parse.
func Optional() Modifier { return optional{} }

// OptionalWeak absorbs any failure of the wrapped step, rolling back so the
// tokens stay available for later parameters.
func OptionalWeak() Modifier { return optional{weak: true} }

func (o optional) Parse(key string, src Source, args *Tokens, ctx *Context, next ParseFunc) error {
	hadArgs := args.HasNext()
	argState := args.State()
	ctxState := ctx.State()
	if err := next(src, args, ctx); err != nil {
		if o.weak || !hadArgs {
			args.SetState(argState)
			ctx.SetState(ctxState)
			return nil
		}
		return err
	}
	return nil
}

func (o optional) Usage(key string, src Source, current string) string {
	if current == "" {
		return ""
	}
	return "[" + current + "]"
}

type defaultValue struct{ supply func(src Source) any }

// DefaultValue binds value under the key when the wrapped step succeeded
// without producing one, typically because an optional absorbed a miss. It
// must wrap outside the optional; a default inside it never runs on a miss.
func DefaultValue(value any) Modifier {
	return defaultValue{supply: func(Source) any { return value }}
}

// DefaultValueSupplier is DefaultValue with the value computed per invocation.
func DefaultValueSupplier(supply func(src Source) any) Modifier {
	return defaultValue{supply: supply}
}

func (d defaultValue) Parse(key string, src Source, args *Tokens, ctx *Context, next ParseFunc) error {
	if err := next(src, args, ctx); err != nil {
		return err
	}
	if !ctx.HasAny(key) {
		ctx.PutEntry(key, d.supply(src))
	}
	return nil
}

func (d defaultValue) Usage(key string, src Source, current string) string { return current }
