//nolint:testpackage // using package name 'command' to access unexported fields for testing
package command

import "testing"

func TestSeqParsesInOrder(t *testing.T) {
	p := Seq(
		NewParameter("player").StringValue().Build(),
		NewParameter("amount").Integer().Build(),
	)

	ctx := NewContext()
	if err := p.Parse(newSource(), Tokenize("alice 5"), ctx); err != nil {
		t.Fatal(err)
	}
	if v, _ := ctx.GetOne("player"); v != "alice" {
		t.Errorf("player = %v", v)
	}
	if v, _ := ctx.GetOne("amount"); v != 5 {
		t.Errorf("amount = %v", v)
	}
}

func TestSeqRollsBackAtomically(t *testing.T) {
	p := Seq(
		NewParameter("player").StringValue().Build(),
		NewParameter("amount").Integer().Build(),
	)

	ctx := NewContext()
	args := Tokenize("alice oops")
	err := p.Parse(newSource(), args, ctx)
	if err == nil {
		t.Fatal("expected error")
	}
	if ctx.HasAny("player") {
		t.Error("first child's value must be rolled back")
	}
	if tok, _ := args.Peek(); tok != "alice" {
		t.Errorf("cursor at %q, want alice", tok)
	}
	// The error still points at the token that actually failed.
	if pe := err.(*ParseError); pe.Position != 6 {
		t.Errorf("Position = %d, want 6", pe.Position)
	}
}

func TestFirstOfTakesFirstSuccess(t *testing.T) {
	p := FirstOf(
		NewParameter("amount").Integer().Build(),
		NewParameter("name").StringValue().Build(),
	)

	ctx := NewContext()
	if err := p.Parse(newSource(), Tokenize("5"), ctx); err != nil {
		t.Fatal(err)
	}
	if !ctx.HasAny("amount") || ctx.HasAny("name") {
		t.Errorf("bindings = amount:%v name:%v", ctx.GetAll("amount"), ctx.GetAll("name"))
	}

	ctx = NewContext()
	if err := p.Parse(newSource(), Tokenize("bob"), ctx); err != nil {
		t.Fatal(err)
	}
	if ctx.HasAny("amount") || !ctx.HasAny("name") {
		t.Errorf("bindings = amount:%v name:%v", ctx.GetAll("amount"), ctx.GetAll("name"))
	}
}

func TestFirstOfDiscardsLoserBindings(t *testing.T) {
	// The first alternative binds a value and then fails; its partial work
	// must not leak into the winning alternative's context.
	losing := Seq(
		NewParameter("a").Integer().Build(),
		NewParameter("b").Integer().Build(),
	)
	winning := NewParameter("word").StringValue().Build()

	ctx := NewContext()
	if err := FirstOf(losing, winning).Parse(newSource(), Tokenize("5"), ctx); err != nil {
		t.Fatal(err)
	}
	if ctx.HasAny("a") {
		t.Error("losing branch leaked a binding")
	}
	if v, _ := ctx.GetOne("word"); v != "5" {
		t.Errorf("word = %v", v)
	}
}

func TestFirstOfReportsDeepestError(t *testing.T) {
	deep := Seq(
		NewParameter("lit").Literal(true, "give").Build(),
		NewParameter("amount").Integer().Build(),
	)
	shallow := NewParameter("other").Literal(true, "take").Build()

	err := FirstOf(deep, shallow).Parse(newSource(), Tokenize("give oops"), NewContext())
	if err == nil {
		t.Fatal("expected error")
	}
	pe := err.(*ParseError)
	// The first branch got past "give" before failing at offset 5; the
	// second died at offset 0. The deeper diagnostic wins.
	if pe.Position != 5 {
		t.Errorf("Position = %d, want 5", pe.Position)
	}
	if pe.Type != ErrorTypeInvalidValue {
		t.Errorf("Type = %s", pe.Type)
	}
}

func TestParameterPermissionGate(t *testing.T) {
	p := NewParameter("reason").StringValue().Permission("mod.reason").Build()

	// Without the permission the parameter is skipped entirely.
	ctx := NewContext()
	args := Tokenize("spam")
	if err := p.Parse(newSource(), args, ctx); err != nil {
		t.Fatal(err)
	}
	if ctx.HasAny("reason") || !args.HasNext() {
		t.Error("gated parameter must not consume or bind")
	}

	ctx = NewContext()
	if err := p.Parse(newSource("mod.reason"), Tokenize("spam"), ctx); err != nil {
		t.Fatal(err)
	}
	if v, _ := ctx.GetOne("reason"); v != "spam" {
		t.Errorf("reason = %v", v)
	}

	if u := p.Usage(newSource()); u != "" {
		t.Errorf("usage for ungated source = %q", u)
	}
}

func TestParameterMultiFlattens(t *testing.T) {
	p := NewParameter("world").
		Parser(Choices(map[string]any{"world_nether": 1, "world_the_end": 2})).
		Build()

	ctx := NewContext()
	if err := p.Parse(newSource(), Tokenize("world_"), ctx); err != nil {
		t.Fatal(err)
	}
	if all := ctx.GetAll("world"); len(all) != 2 {
		t.Fatalf("GetAll = %v, want 2 flattened entries", all)
	}
	if _, err := ctx.GetOneOrFail("world"); err == nil {
		t.Fatal("two flattened entries must be ambiguous")
	}
}

func TestBuilderOverrides(t *testing.T) {
	completed := []string{"alpha", "beta"}
	p := NewParameter("x").
		Parser(Integer()).
		Completer(CompleterFunc(func(src Source, args *Tokens, ctx *Context) []string {
			return completed
		})).
		UsageFn(func(key string, src Source) string { return "«" + key + "»" }).
		Build()

	cs, err := p.Complete(newSource(), Tokenize(""), NewContext(WithCompletion()))
	if err != nil || len(cs) != 2 {
		t.Fatalf("Complete = %v, %v", cs, err)
	}
	if u := p.Usage(newSource()); u != "«x»" {
		t.Errorf("Usage = %q", u)
	}
}

func TestSeqUsage(t *testing.T) {
	p := Seq(
		NewParameter("player").StringValue().Build(),
		NewParameter("amount").Integer().Optional().Build(),
	)
	if u := p.Usage(newSource()); u != "<player> [<amount>]" {
		t.Errorf("Usage = %q", u)
	}

	alt := FirstOf(
		NewParameter("player").StringValue().Build(),
		NewParameter("amount").Integer().Build(),
	)
	if u := alt.Usage(newSource()); u != "<player>|<amount>" {
		t.Errorf("Usage = %q", u)
	}
}

func TestSeqComplete(t *testing.T) {
	p := Seq(
		NewParameter("action").Literal(true, "give", "grant").Build(),
		NewParameter("what").Parser(Choices(map[string]any{"sword": 1, "shield": 2})).Build(),
	)

	// Mid-sequence: the first child parses, completion comes from the second.
	cs, err := p.Complete(newSource(), Tokenize("give s"), NewContext(WithCompletion()))
	if err != nil {
		t.Fatal(err)
	}
	if len(cs) != 2 {
		t.Fatalf("Complete = %v", cs)
	}

	// First token still being typed: completion comes from the first child.
	cs, err = p.Complete(newSource(), Tokenize("gi"), NewContext(WithCompletion()))
	if err != nil {
		t.Fatal(err)
	}
	if len(cs) != 1 || cs[0] != "give" {
		t.Fatalf("Complete = %v", cs)
	}
}
