package command

import "strings"

// SelectorResolver expands a selector expression such as "@a[distance=..5]"
// into concrete entities. Resolution failures should come back as errors, not
// an empty slice.
type SelectorResolver func(src Source, selector string) ([]any, error)

// Selector extends PatternMatching with an entity-selector escape hatch: a
// token starting with '@' is handed to Resolve instead of the pattern
// machinery. Every resolved entity must satisfy Accepts.
type Selector struct {
	PatternMatching
	Resolve SelectorResolver
	Accepts func(entity any) bool
}

// GetValue implements ValueParser.
func (s *Selector) GetValue(src Source, args *Tokens, ctx *Context) (any, error) {
	tok, err := args.Peek()
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(tok, "@") {
		return s.PatternMatching.GetValue(src, args, ctx)
	}

	start := args.State()
	if _, err := args.Next(); err != nil {
		return nil, err
	}
	entities, err := s.Resolve(src, tok)
	if err != nil {
		args.SetState(start)
		return nil, asParseErrorAt(err, args.RawPosition())
	}
	if s.Accepts != nil {
		for _, e := range entities {
			if !s.Accepts(e) {
				args.SetState(start)
				return nil, args.CreateError(ErrorTypeInvalidValue,
					"selector returned entities that are not valid for this argument")
			}
		}
	}
	out := make(Multi, len(entities))
	copy(out, entities)
	return out, nil
}

// Complete implements Completer. Selector expressions are not suggested; only
// the pattern candidates are.
func (s *Selector) Complete(src Source, args *Tokens, ctx *Context) []string {
	return s.PatternMatching.Complete(src, args, ctx)
}
