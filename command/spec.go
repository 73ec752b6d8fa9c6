package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/rosed"

	"github.com/wysohn/SpongeAPI/internal/fuzzy"
)

// Executor runs a fully parsed command against its typed context.
type Executor func(src Source, ctx *Context) error

// ChildExceptionBehavior controls what a parent node does when dispatch into
// a matched child fails.
type ChildExceptionBehavior int

const (
	// ChildRethrow propagates the child's error as-is.
	ChildRethrow ChildExceptionBehavior = iota
	// ChildContinue rolls back and retries the input against the parent's
	// own parameters, reporting the deeper of the two failures if both miss.
	ChildContinue
)

// childEntry keeps a child's registration order and primary alias for usage
// rendering; the lookup map alone loses both.
type childEntry struct {
	primary string
	aliases []string
	spec    *Spec
}

// Spec is one node of a command tree: child dispatch, a flag grammar, a
// positional parameter grammar and an executor. Specs are immutable once
// built and safe for concurrent use.
type Spec struct {
	children      map[string]*Spec // lowercase alias
	childEntries  []childEntry
	permission    string
	permissionFor bool // permission also gates child dispatch
	childBehavior ChildExceptionBehavior
	flags         *Flags
	params        Parameter
	executor      Executor
	description   string
	extended      string
}

// SpecBuilder assembles a Spec.
type SpecBuilder struct {
	s Spec
}

// NewSpec starts building a command node.
func NewSpec() *SpecBuilder {
	return &SpecBuilder{s: Spec{children: make(map[string]*Spec)}}
}

// Child registers a subcommand under one or more aliases. Aliases are matched
// case-insensitively; a later registration of a taken alias wins.
func (b *SpecBuilder) Child(child *Spec, aliases ...string) *SpecBuilder {
	if len(aliases) == 0 {
		return b
	}
	for _, alias := range aliases {
		b.s.children[strings.ToLower(alias)] = child
	}
	b.s.childEntries = append(b.s.childEntries, childEntry{
		primary: aliases[0],
		aliases: aliases,
		spec:    child,
	})
	return b
}

// Permission gates execution of this node.
func (b *SpecBuilder) Permission(permission string) *SpecBuilder {
	b.s.permission = permission
	return b
}

// RequirePermissionForChildren extends this node's permission gate over child
// dispatch. Default is to check it only for this node's own executor, letting
// children carry their own permissions.
func (b *SpecBuilder) RequirePermissionForChildren(require bool) *SpecBuilder {
	b.s.permissionFor = require
	return b
}

// ChildExceptionBehavior sets how child dispatch failures are handled.
func (b *SpecBuilder) ChildExceptionBehavior(behavior ChildExceptionBehavior) *SpecBuilder {
	b.s.childBehavior = behavior
	return b
}

// Executor sets the function run after a successful parse.
func (b *SpecBuilder) Executor(executor Executor) *SpecBuilder {
	b.s.executor = executor
	return b
}

// Flags sets the flag grammar.
func (b *SpecBuilder) Flags(flags *Flags) *SpecBuilder {
	b.s.flags = flags
	return b
}

// Parameters sets the positional grammar. Several parameters are sequenced.
func (b *SpecBuilder) Parameters(params ...Parameter) *SpecBuilder {
	if len(params) > 0 {
		b.s.params = Seq(params...)
	}
	return b
}

// Description sets the one-line summary shown in help listings.
func (b *SpecBuilder) Description(description string) *SpecBuilder {
	b.s.description = description
	return b
}

// ExtendedDescription sets the long help body.
func (b *SpecBuilder) ExtendedDescription(extended string) *SpecBuilder {
	b.s.extended = extended
	return b
}

// Build finalizes the node.
func (b *SpecBuilder) Build() *Spec {
	built := b.s
	return &built
}

// Process parses raw and runs the resolved executor. The returned error is a
// *ParseError for grammar failures; executor errors pass through unchanged.
func (s *Spec) Process(src Source, raw string) error {
	return s.process(src, Tokenize(raw), NewContext())
}

func (s *Spec) process(src Source, args *Tokens, ctx *Context) error {
	if s.flags != nil {
		if err := s.flags.Parse(src, args, ctx); err != nil {
			return err
		}
	}

	if child, childErr := s.dispatchChild(src, args, ctx); child {
		if childErr == nil || s.childBehavior == ChildRethrow {
			return childErr
		}
		// ChildContinue: state was already rolled back; fall through to our
		// own grammar and keep whichever diagnostic got further.
		if ownErr := s.processSelf(src, args, ctx); ownErr != nil {
			return deepestError(ownErr, childErr)
		}
		return nil
	}

	return s.processSelf(src, args, ctx)
}

// dispatchChild tries to hand off to a child node. It reports whether a child
// alias matched; on ChildContinue failures both streams are restored before
// returning. The child's flag grammar may splice tokens out of the stream, so
// the rollback snapshot carries the whole token slice.
func (s *Spec) dispatchChild(src Source, args *Tokens, ctx *Context) (bool, error) {
	if len(s.children) == 0 || !args.HasNext() {
		return false, nil
	}
	alias, err := args.Peek()
	if err != nil {
		return false, nil
	}
	child, ok := s.children[strings.ToLower(alias)]
	if !ok {
		return false, nil
	}
	if s.permissionFor && s.permission != "" && !src.HasPermission(s.permission) {
		return true, args.CreateError(ErrorTypePermission,
			fmt.Sprintf("you do not have permission to use '%s'", alias))
	}

	argState := args.fullState()
	ctxState := ctx.State()
	if _, err := args.Next(); err != nil {
		return false, nil
	}
	if err := child.process(src, args, ctx); err != nil {
		if s.childBehavior == ChildContinue {
			args.setFullState(argState)
			ctx.SetState(ctxState)
		}
		return true, err
	}
	return true, nil
}

func (s *Spec) processSelf(src Source, args *Tokens, ctx *Context) error {
	if s.permission != "" && !src.HasPermission(s.permission) {
		return args.CreateError(ErrorTypePermission, "you do not have permission to use this command")
	}
	if s.params != nil {
		if err := s.params.Parse(src, args, ctx); err != nil {
			return err
		}
	}
	if args.HasNext() {
		e := args.CreateError(ErrorTypeTooManyArguments, "too many arguments")
		if len(s.children) > 0 {
			if tok, err := args.Peek(); err == nil {
				e.Suggestion = fuzzy.BestAlias(tok, s.childAliases())
			}
		}
		return e
	}
	if s.executor == nil {
		return NewParseError(ErrorTypeInternal, "this command has nothing to execute")
	}
	return s.executor(src, ctx)
}

// Complete proposes candidates for the last token of raw. Parse failures are
// tolerated; completion works off whatever progress the grammar made.
func (s *Spec) Complete(src Source, raw string) []string {
	out := s.complete(src, Tokenize(raw), NewContext(WithCompletion()))
	out = dedupe(out)
	sort.Strings(out)
	return out
}

func (s *Spec) complete(src Source, args *Tokens, ctx *Context) []string {
	if s.flags != nil {
		argState := args.fullState()
		ctxState := ctx.State()
		if err := s.flags.Parse(src, args, ctx); err != nil {
			// Earlier recognized flags were already spliced out; bring them
			// back and re-aim the cursor at the token that failed so its
			// spellings get completed.
			failedAt := args.RawPosition()
			args.setFullState(argState)
			ctx.SetState(ctxState)
			args.seekRawPosition(failedAt)
			flagCandidates := s.flags.Complete(src, args, ctx)
			args.setFullState(argState)
			return flagCandidates
		}
	}

	// Descend into a matched child when the alias is already complete: more
	// tokens follow it, or the line ends in whitespace starting a new one.
	if len(s.children) > 0 && args.HasNext() {
		alias, err := args.Peek()
		if err == nil {
			argState := args.State()
			if child, ok := s.children[strings.ToLower(alias)]; ok {
				args.Next() //nolint:errcheck // Peek above already vetted it
				if args.HasNext() || endsAtBoundary(args.Raw()) {
					return child.complete(src, args, ctx)
				}
				args.SetState(argState)
			}
		}
	}

	var out []string
	partial := ""
	if args.HasNext() {
		argState := args.State()
		partial, _ = args.NextIfPresent()
		args.SetState(argState)
	}
	for alias, child := range s.children {
		if child.permission != "" && !src.HasPermission(child.permission) {
			continue
		}
		out = append(out, alias)
	}
	out = prefixFilter(out, partial)

	if s.params != nil {
		argState := args.State()
		ctxState := ctx.State()
		if cs, err := s.params.Complete(src, args, ctx); err == nil {
			out = append(out, cs...)
		}
		args.SetState(argState)
		ctx.SetState(ctxState)
	}
	if s.flags != nil {
		argState := args.State()
		out = append(out, s.flags.Complete(src, args, ctx)...)
		args.SetState(argState)
	}
	return out
}

// Usage renders a one-line usage fragment for this node, filtered to what the
// source may actually run.
func (s *Spec) Usage(src Source) string {
	var parts []string
	if s.flags != nil {
		if u := s.flags.Usage(src); u != "" {
			parts = append(parts, u)
		}
	}
	if s.params != nil {
		if u := s.params.Usage(src); u != "" {
			parts = append(parts, u)
		}
	}
	if alts := s.childUsage(src); alts != "" {
		if len(parts) > 0 {
			parts = append(parts, "|", alts)
		} else {
			parts = append(parts, alts)
		}
	}
	return strings.Join(parts, " ")
}

func (s *Spec) childUsage(src Source) string {
	var names []string
	for _, entry := range s.childEntries {
		if entry.spec.permission != "" && !src.HasPermission(entry.spec.permission) {
			continue
		}
		names = append(names, entry.primary)
	}
	return strings.Join(names, "|")
}

func endsAtBoundary(raw string) bool {
	if raw == "" {
		return false
	}
	c := raw[len(raw)-1]
	return c == ' ' || c == '\t'
}

func (s *Spec) childAliases() []string {
	out := make([]string, 0, len(s.children))
	for alias := range s.children {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}

// Description returns the one-line summary.
func (s *Spec) Description() string { return s.description }

// Help renders the full help text: summary, usage line and the extended
// description wrapped to width columns.
func (s *Spec) Help(src Source, width int) string {
	if width <= 0 {
		width = 80
	}
	var b strings.Builder
	if s.description != "" {
		b.WriteString(s.description)
		b.WriteString("\n")
	}
	if u := s.Usage(src); u != "" {
		b.WriteString("Usage: ")
		b.WriteString(u)
		b.WriteString("\n")
	}
	if s.extended != "" {
		b.WriteString("\n")
		b.WriteString(rosed.Edit(s.extended).Wrap(width).String())
		b.WriteString("\n")
	}
	return b.String()
}
