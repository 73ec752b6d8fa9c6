package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wysohn/SpongeAPI/internal/fuzzy"
)

// flagSpec is one registered flag with all its spellings. A nil value
// parameter means a boolean presence flag.
type flagSpec struct {
	key        string // canonical context key, first alias without dashes
	longs      []string
	shorts     []rune
	permission string
	value      Parameter
}

// UnknownFlagContext is handed to an UnknownFlagBehavior when the scanner
// meets a flag-shaped token it has no spec for. Args and Ctx snapshots were
// taken before the token was consumed.
type UnknownFlagContext struct {
	Src      Source
	Args     *Tokens
	Ctx      *Context
	ArgState TokensState // before the flag token
	CtxState ContextState
	Name     string // flag name without dashes
	Long     bool
	flags    *Flags
}

// UnknownFlagBehavior decides what happens to an unrecognized flag token.
type UnknownFlagBehavior interface {
	Apply(u *UnknownFlagContext) error
}

type unknownFlagError struct{}

// UnknownFlagError rejects the token with a typed error carrying a fuzzy
// "did you mean" suggestion when a registered flag is close.
func UnknownFlagError() UnknownFlagBehavior { return unknownFlagError{} }

func (unknownFlagError) Apply(u *UnknownFlagContext) error {
	u.Args.SetState(u.ArgState)
	e := u.Args.CreateError(ErrorTypeUnknownFlag, fmt.Sprintf("unknown flag '%s'", u.Name))
	if u.Long {
		e.Suggestion = fuzzy.BestFlag(u.Name, u.flags.longNames())
	}
	return e
}

type unknownFlagIgnore struct{}

// UnknownFlagIgnore silently discards the token.
func UnknownFlagIgnore() UnknownFlagBehavior { return unknownFlagIgnore{} }

func (unknownFlagIgnore) Apply(u *UnknownFlagContext) error {
	u.Args.removeRange(u.ArgState, u.Args.State())
	return nil
}

type unknownFlagAccept struct{}

// UnknownFlagAcceptNonFlag rewinds so the token is left in the stream for the
// positional parameters to consume.
func UnknownFlagAcceptNonFlag() UnknownFlagBehavior { return unknownFlagAccept{} }

func (unknownFlagAccept) Apply(u *UnknownFlagContext) error {
	u.Args.SetState(u.ArgState)
	return nil
}

// Flags is an immutable flag grammar. Parse extracts every recognized flag
// token from the stream before positional parsing sees it; flag values land
// in the context under the flag's canonical key.
type Flags struct {
	specs        []*flagSpec
	long         map[string]*flagSpec // lowercase long alias
	short        map[rune]*flagSpec
	anchored     bool
	unknownLong  UnknownFlagBehavior
	unknownShort UnknownFlagBehavior
}

// FlagsBuilder assembles a Flags grammar. Flag spellings follow one
// convention: within a spec string, a leading '-' marks the rest as a long
// alias, otherwise every rune is a short alias. "f" registers -f; "-flag"
// registers --flag; "af" registers -a and -f on the same flag.
type FlagsBuilder struct {
	f Flags
}

// NewFlags starts building a flag grammar. Unknown flags error by default and
// recognition is anchored to the front of the argument list.
func NewFlags() *FlagsBuilder {
	return &FlagsBuilder{f: Flags{
		long:         make(map[string]*flagSpec),
		short:        make(map[rune]*flagSpec),
		anchored:     true,
		unknownLong:  UnknownFlagError(),
		unknownShort: UnknownFlagError(),
	}}
}

// Flag registers a boolean presence flag under the given spellings.
func (b *FlagsBuilder) Flag(specs ...string) *FlagsBuilder {
	return b.register("", nil, specs)
}

// PermissionFlag registers a boolean flag only usable by sources holding the
// permission.
func (b *FlagsBuilder) PermissionFlag(permission string, specs ...string) *FlagsBuilder {
	return b.register(permission, nil, specs)
}

// ValueFlag registers a flag whose value is parsed by the given parameter.
// Repeated occurrences accumulate values under the parameter's key.
func (b *FlagsBuilder) ValueFlag(value Parameter, specs ...string) *FlagsBuilder {
	return b.register("", value, specs)
}

// UnknownLongBehavior sets how unrecognized --flags are treated.
func (b *FlagsBuilder) UnknownLongBehavior(behavior UnknownFlagBehavior) *FlagsBuilder {
	b.f.unknownLong = behavior
	return b
}

// UnknownShortBehavior sets how unrecognized -f flags are treated.
func (b *FlagsBuilder) UnknownShortBehavior(behavior UnknownFlagBehavior) *FlagsBuilder {
	b.f.unknownShort = behavior
	return b
}

// AnchorFlags controls whether flag recognition stops at the first
// non-flag token (true) or scans the whole argument list (false).
func (b *FlagsBuilder) AnchorFlags(anchored bool) *FlagsBuilder {
	b.f.anchored = anchored
	return b
}

func (b *FlagsBuilder) register(permission string, value Parameter, specs []string) *FlagsBuilder {
	if len(specs) == 0 {
		return b
	}
	fs := &flagSpec{permission: permission, value: value}
	for _, spec := range specs {
		if strings.HasPrefix(spec, "-") {
			long := strings.ToLower(strings.TrimPrefix(spec, "-"))
			fs.longs = append(fs.longs, long)
			b.f.long[long] = fs
			continue
		}
		for _, r := range spec {
			fs.shorts = append(fs.shorts, r)
			b.f.short[r] = fs
		}
	}
	fs.key = strings.TrimPrefix(specs[0], "-")
	if value != nil && value.Key() != "" {
		fs.key = value.Key()
	}
	b.f.specs = append(b.f.specs, fs)
	return b
}

// Build finalizes the grammar.
func (b *FlagsBuilder) Build() *Flags {
	built := b.f
	return &built
}

// Parse scans the argument list, consuming recognized flag tokens and binding
// their values. Consumed tokens are spliced out of the stream; the cursor
// ends up where it started, now pointing at the first surviving token.
func (f *Flags) Parse(src Source, args *Tokens, ctx *Context) error {
	entry := args.State()
	for args.HasNext() {
		preArg := args.State()
		preCtx := ctx.State()
		preLen := len(args.toks)
		tok, err := args.Next()
		if err != nil {
			return err
		}

		var applyErr error
		switch {
		case strings.HasPrefix(tok, "--") && len(tok) > 2:
			applyErr = f.parseLong(src, args, ctx, tok[2:], preArg, preCtx)
		case strings.HasPrefix(tok, "-") && len(tok) > 1:
			applyErr = f.parseShortCluster(src, args, ctx, tok[1:], preArg, preCtx)
		default:
			// Not flag-shaped.
			if f.anchored {
				args.SetState(entry)
				return nil
			}
			continue
		}
		if applyErr != nil {
			return applyErr
		}
		// An accepting unknown behavior rewinds to preArg without touching
		// the stream (a consumed flag shrinks it); step over the token so
		// the scanner makes progress and the positionals keep it.
		if args.State() == preArg && len(args.toks) == preLen {
			if f.anchored {
				break
			}
			args.Next() //nolint:errcheck // same token Next already returned
		}
	}
	args.SetState(entry)
	return nil
}

func (f *Flags) parseLong(src Source, args *Tokens, ctx *Context, body string, preArg TokensState, preCtx ContextState) error {
	name, inline, hasInline := strings.Cut(body, "=")
	spec := f.long[strings.ToLower(name)]
	if spec == nil || (spec.permission != "" && !src.HasPermission(spec.permission)) {
		return f.unknownLong.Apply(&UnknownFlagContext{
			Src: src, Args: args, Ctx: ctx,
			ArgState: preArg, CtxState: preCtx,
			Name: name, Long: true, flags: f,
		})
	}

	if spec.value == nil {
		if hasInline {
			args.SetState(preArg)
			return args.CreateError(ErrorTypeInvalidValue,
				fmt.Sprintf("flag '--%s' does not take a value", name))
		}
		ctx.PutEntry(spec.key, true)
		args.removeRange(preArg, args.State())
		return nil
	}

	if hasInline {
		sub := Tokenize(inline)
		if err := spec.value.Parse(src, sub, ctx); err != nil {
			args.SetState(preArg)
			ctx.SetState(preCtx)
			return reanchor(err, args.RawPosition())
		}
	} else {
		if err := spec.value.Parse(src, args, ctx); err != nil {
			args.SetState(preArg)
			ctx.SetState(preCtx)
			return err
		}
	}
	args.removeRange(preArg, args.State())
	return nil
}

func (f *Flags) parseShortCluster(src Source, args *Tokens, ctx *Context, cluster string, preArg TokensState, preCtx ContextState) error {
	runes := []rune(cluster)
	for i, r := range runes {
		spec := f.short[r]
		if spec == nil || (spec.permission != "" && !src.HasPermission(spec.permission)) {
			// Earlier runes in the cluster may have bound already.
			ctx.SetState(preCtx)
			return f.unknownShort.Apply(&UnknownFlagContext{
				Src: src, Args: args, Ctx: ctx,
				ArgState: preArg, CtxState: preCtx,
				Name: string(r), flags: f,
			})
		}
		if spec.value == nil {
			ctx.PutEntry(spec.key, true)
			continue
		}
		// A value flag eats the rest of the cluster as its value, or the
		// following tokens when it sits at the end.
		if rest := string(runes[i+1:]); rest != "" {
			sub := Tokenize(rest)
			if err := spec.value.Parse(src, sub, ctx); err != nil {
				args.SetState(preArg)
				ctx.SetState(preCtx)
				return reanchor(err, args.RawPosition())
			}
		} else {
			if err := spec.value.Parse(src, args, ctx); err != nil {
				args.SetState(preArg)
				ctx.SetState(preCtx)
				return err
			}
		}
		break
	}
	args.removeRange(preArg, args.State())
	return nil
}

// reanchor repositions a sub-stream parse error at the flag token's offset in
// the real input line.
func reanchor(err error, position int) error {
	pe := asParseError(err)
	pe.Position = position
	return pe
}

// Complete suggests flag spellings when the token under the cursor is
// flag-shaped.
func (f *Flags) Complete(src Source, args *Tokens, ctx *Context) []string {
	partial, ok := args.NextIfPresent()
	if !ok || !strings.HasPrefix(partial, "-") {
		return nil
	}
	var out []string
	for _, spec := range f.specs {
		if spec.permission != "" && !src.HasPermission(spec.permission) {
			continue
		}
		for _, long := range spec.longs {
			out = append(out, "--"+long)
		}
		for _, r := range spec.shorts {
			out = append(out, "-"+string(r))
		}
	}
	out = prefixFilter(out, partial)
	sort.Strings(out)
	return out
}

// Usage renders the flag grammar as a usage fragment, like
// "[-q] [--world <world>]".
func (f *Flags) Usage(src Source) string {
	var parts []string
	for _, spec := range f.specs {
		if spec.permission != "" && !src.HasPermission(spec.permission) {
			continue
		}
		var name string
		if len(spec.shorts) > 0 {
			name = "-" + string(spec.shorts[0])
		} else if len(spec.longs) > 0 {
			name = "--" + spec.longs[0]
		} else {
			continue
		}
		if spec.value != nil {
			if u := spec.value.Usage(src); u != "" {
				name += " " + u
			}
		}
		parts = append(parts, "["+name+"]")
	}
	return strings.Join(parts, " ")
}

func (f *Flags) longNames() []string {
	out := make([]string, 0, len(f.long))
	for name := range f.long {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
