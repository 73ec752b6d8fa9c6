package command

import (
	"fmt"
	"regexp"
	"strings"
)

// PatternMatching resolves a token against a dynamic candidate set by
// case-insensitive anchored regex. An exact (case-insensitive) match always
// wins outright; otherwise every candidate the pattern matches is returned,
// and zero matches is a hard failure even under an optional modifier.
type PatternMatching struct {
	// Choices yields the candidate names for this invocation.
	Choices func(src Source) []string
	// Value maps a matched candidate name to its value.
	Value func(choice string) any
	// ShowChoicesInUsage lists the candidates in the usage fragment instead
	// of the bare key.
	ShowChoicesInUsage bool
}

// GetValue implements ValueParser.
func (p *PatternMatching) GetValue(src Source, args *Tokens, ctx *Context) (any, error) {
	start := args.State()
	tok, err := args.Next()
	if err != nil {
		return nil, err
	}

	choices := p.Choices(src)
	re := p.pattern(tok)

	var matched []string
	for _, choice := range choices {
		if strings.EqualFold(choice, tok) {
			return p.Value(choice), nil
		}
		if re.MatchString(choice) {
			matched = append(matched, choice)
		}
	}

	switch len(matched) {
	case 0:
		args.SetState(start)
		return nil, args.CreateError(ErrorTypeNoMatchingChoice,
			fmt.Sprintf("no values matching pattern '%s'", tok))
	case 1:
		return p.Value(matched[0]), nil
	default:
		values := make(Multi, len(matched))
		for i, choice := range matched {
			values[i] = p.Value(choice)
		}
		return values, nil
	}
}

// Complete implements Completer.
func (p *PatternMatching) Complete(src Source, args *Tokens, ctx *Context) []string {
	partial, ok := args.NextIfPresent()
	choices := p.Choices(src)
	if !ok || partial == "" {
		out := make([]string, len(choices))
		copy(out, choices)
		return out
	}
	re := p.pattern(partial)
	var out []string
	for _, choice := range choices {
		if re.MatchString(choice) {
			out = append(out, choice)
		}
	}
	return out
}

// Usage implements ValueParameter.
func (p *PatternMatching) Usage(key string, src Source) string {
	if p.ShowChoicesInUsage {
		if choices := p.Choices(src); len(choices) > 0 {
			return strings.Join(choices, "|")
		}
	}
	return "<" + key + ">"
}

// pattern compiles the input as a case-insensitive regex anchored at the
// start. Input that is not a valid regex degrades to a literal prefix match.
func (p *PatternMatching) pattern(input string) *regexp.Regexp {
	expr := input
	if !strings.HasPrefix(expr, "^") {
		expr = "^" + expr
	}
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return regexp.MustCompile("(?i)^" + regexp.QuoteMeta(input))
	}
	return re
}
