package command

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Source is the opaque originator of a command invocation. Permission strings
// are interpreted by the host application; the grammar only asks yes or no.
type Source interface {
	Name() string
	HasPermission(permission string) bool
}

// ValueParser converts tokens into a typed value. Returning nil with a nil
// error parses successfully without producing a value. Returning a Multi
// produces several values under the parameter's key.
type ValueParser interface {
	GetValue(src Source, args *Tokens, ctx *Context) (any, error)
}

// ValueParserFunc adapts a plain function to ValueParser.
type ValueParserFunc func(src Source, args *Tokens, ctx *Context) (any, error)

// GetValue implements ValueParser.
func (f ValueParserFunc) GetValue(src Source, args *Tokens, ctx *Context) (any, error) {
	return f(src, args, ctx)
}

// Completer proposes tab-completion candidates at the current cursor.
type Completer interface {
	Complete(src Source, args *Tokens, ctx *Context) []string
}

// CompleterFunc adapts a plain function to Completer.
type CompleterFunc func(src Source, args *Tokens, ctx *Context) []string

// Complete implements Completer.
func (f CompleterFunc) Complete(src Source, args *Tokens, ctx *Context) []string {
	return f(src, args, ctx)
}

// ValueParameter is a full-featured leaf: it parses, completes and renders a
// usage fragment.
type ValueParameter interface {
	ValueParser
	Completer
	Usage(key string, src Source) string
}

// Multi marks a parse result as multiple values. The committing parameter
// flattens it into one context entry per element, so a later GetOneOrFail can
// distinguish "one list-shaped value" from "several values".
type Multi []any

// valueParameter assembles a ValueParameter from three functions. The catalog
// below uses it throughout; usage defaults to "<key>" when usageFn is nil.
type valueParameter struct {
	get      func(src Source, args *Tokens, ctx *Context) (any, error)
	complete func(src Source, args *Tokens, ctx *Context) []string
	usageFn  func(key string, src Source) string
}

func (v *valueParameter) GetValue(src Source, args *Tokens, ctx *Context) (any, error) {
	return v.get(src, args, ctx)
}

func (v *valueParameter) Complete(src Source, args *Tokens, ctx *Context) []string {
	if v.complete == nil {
		return nil
	}
	return v.complete(src, args, ctx)
}

func (v *valueParameter) Usage(key string, src Source) string {
	if v.usageFn == nil {
		return "<" + key + ">"
	}
	return v.usageFn(key, src)
}

// Bool parses true/false in the usual spellings (t, f, 1, 0, yes, no).
func Bool() ValueParameter {
	return &valueParameter{
		get: func(src Source, args *Tokens, ctx *Context) (any, error) {
			start := args.State()
			tok, err := args.Next()
			if err != nil {
				return nil, err
			}
			switch strings.ToLower(tok) {
			case "true", "t", "1", "yes", "y":
				return true, nil
			case "false", "f", "0", "no", "n":
				return false, nil
			}
			args.SetState(start)
			return nil, args.CreateError(ErrorTypeInvalidValue, fmt.Sprintf("'%s' is not a boolean", tok))
		},
		complete: staticComplete("true", "false"),
	}
}

// Integer parses a base-10 integer.
func Integer() ValueParameter {
	return &valueParameter{
		get: func(src Source, args *Tokens, ctx *Context) (any, error) {
			start := args.State()
			tok, err := args.Next()
			if err != nil {
				return nil, err
			}
			n, convErr := strconv.Atoi(tok)
			if convErr != nil {
				args.SetState(start)
				return nil, args.CreateError(ErrorTypeInvalidValue, fmt.Sprintf("'%s' is not a valid integer", tok))
			}
			return n, nil
		},
	}
}

// Double parses a float64.
func Double() ValueParameter {
	return &valueParameter{
		get: func(src Source, args *Tokens, ctx *Context) (any, error) {
			start := args.State()
			tok, err := args.Next()
			if err != nil {
				return nil, err
			}
			f, convErr := strconv.ParseFloat(tok, 64)
			if convErr != nil {
				args.SetState(start)
				return nil, args.CreateError(ErrorTypeInvalidValue, fmt.Sprintf("'%s' is not a valid number", tok))
			}
			return f, nil
		},
	}
}

// Duration parses a time.Duration in Go syntax (300ms, 1h30m).
func Duration() ValueParameter {
	return &valueParameter{
		get: func(src Source, args *Tokens, ctx *Context) (any, error) {
			start := args.State()
			tok, err := args.Next()
			if err != nil {
				return nil, err
			}
			d, convErr := time.ParseDuration(tok)
			if convErr != nil {
				args.SetState(start)
				return nil, args.CreateError(ErrorTypeInvalidValue, fmt.Sprintf("'%s' is not a valid duration", tok))
			}
			return d, nil
		},
	}
}

// String consumes a single token verbatim.
func String() ValueParameter {
	return &valueParameter{
		get: func(src Source, args *Tokens, ctx *Context) (any, error) {
			return args.Next()
		},
	}
}

// RemainingJoinedStrings consumes every remaining token and joins them with
// single spaces. At least one token must remain.
func RemainingJoinedStrings() ValueParameter {
	return &valueParameter{
		get: func(src Source, args *Tokens, ctx *Context) (any, error) {
			first, err := args.Next()
			if err != nil {
				return nil, err
			}
			parts := []string{first}
			for args.HasNext() {
				tok, err := args.Next()
				if err != nil {
					return nil, err
				}
				parts = append(parts, tok)
			}
			return strings.Join(parts, " "), nil
		},
		usageFn: func(key string, src Source) string {
			return "<" + key + "...>"
		},
	}
}

// RemainingRawJoinedStrings consumes every remaining token but returns the raw
// untokenized tail, preserving original whitespace and quoting.
func RemainingRawJoinedStrings() ValueParameter {
	return &valueParameter{
		get: func(src Source, args *Tokens, ctx *Context) (any, error) {
			if !args.HasNext() {
				return nil, args.CreateError(ErrorTypeOutOfTokens, "not enough arguments")
			}
			raw := args.RawRemaining()
			for args.HasNext() {
				if _, ok := args.NextIfPresent(); !ok {
					break
				}
			}
			return raw, nil
		},
		usageFn: func(key string, src Source) string {
			return "<" + key + "...>"
		},
	}
}

// None parses nothing and produces nothing. Useful as the parser of a
// permission-only or marker parameter.
func None() ValueParameter {
	return &valueParameter{
		get: func(src Source, args *Tokens, ctx *Context) (any, error) {
			return nil, nil
		},
		usageFn: func(key string, src Source) string { return "" },
	}
}

// Literal matches one of the given spellings case-insensitively and produces
// the fixed value.
func Literal(value any, literals ...string) ValueParameter {
	return &valueParameter{
		get: func(src Source, args *Tokens, ctx *Context) (any, error) {
			start := args.State()
			tok, err := args.Next()
			if err != nil {
				return nil, err
			}
			for _, lit := range literals {
				if strings.EqualFold(tok, lit) {
					return value, nil
				}
			}
			args.SetState(start)
			return nil, args.CreateError(ErrorTypeInvalidValue,
				fmt.Sprintf("expected '%s', got '%s'", strings.Join(literals, "|"), tok))
		},
		complete: func(src Source, args *Tokens, ctx *Context) []string {
			partial, _ := args.NextIfPresent()
			return prefixFilter(literals, partial)
		},
		usageFn: func(key string, src Source) string {
			return strings.Join(literals, "|")
		},
	}
}

// Choices resolves one of a fixed set of named values by pattern matching.
func Choices(choices map[string]any) ValueParameter {
	keys := make([]string, 0, len(choices))
	for k := range choices {
		keys = append(keys, k)
	}
	return ChoicesDynamic(
		func(src Source) []string { return keys },
		func(choice string) any { return choices[choice] },
	)
}

// ChoicesDynamic resolves against a candidate set computed per invocation.
func ChoicesDynamic(choices func(src Source) []string, value func(choice string) any) ValueParameter {
	return &PatternMatching{
		Choices:            choices,
		Value:              value,
		ShowChoicesInUsage: true,
	}
}

func staticComplete(candidates ...string) func(Source, *Tokens, *Context) []string {
	return func(src Source, args *Tokens, ctx *Context) []string {
		partial, _ := args.NextIfPresent()
		return prefixFilter(candidates, partial)
	}
}

// prefixFilter keeps candidates having partial as a case-insensitive prefix.
func prefixFilter(candidates []string, partial string) []string {
	if partial == "" {
		out := make([]string, len(candidates))
		copy(out, candidates)
		return out
	}
	var out []string
	lp := strings.ToLower(partial)
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c), lp) {
			out = append(out, c)
		}
	}
	return out
}
