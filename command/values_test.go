//nolint:testpackage // using package name 'command' to access unexported fields for testing
package command

import (
	"testing"
	"time"
)

type testSource struct {
	name  string
	perms map[string]bool
}

func (s *testSource) Name() string { return s.name }

func (s *testSource) HasPermission(permission string) bool { return s.perms[permission] }

func newSource(perms ...string) *testSource {
	s := &testSource{name: "tester", perms: make(map[string]bool)}
	for _, p := range perms {
		s.perms[p] = true
	}
	return s
}

func getValue(t *testing.T, vp ValueParameter, raw string) (any, error) {
	t.Helper()
	return vp.GetValue(newSource(), Tokenize(raw), NewContext())
}

func TestBoolValues(t *testing.T) {
	tests := []struct {
		raw     string
		want    bool
		wantErr bool
	}{
		{"true", true, false},
		{"TRUE", true, false},
		{"t", true, false},
		{"1", true, false},
		{"yes", true, false},
		{"false", false, false},
		{"0", false, false},
		{"no", false, false},
		{"maybe", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := getValue(t, Bool(), tt.raw)
			if tt.wantErr {
				if pe, ok := err.(*ParseError); !ok || pe.Type != ErrorTypeInvalidValue {
					t.Fatalf("error = %v, want invalid_value", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("GetValue = %v, %v", got, err)
			}
		})
	}
}

func TestIntegerValue(t *testing.T) {
	got, err := getValue(t, Integer(), "42")
	if err != nil || got != 42 {
		t.Fatalf("GetValue = %v, %v", got, err)
	}

	_, err = getValue(t, Integer(), "abc")
	pe, ok := err.(*ParseError)
	if !ok || pe.Type != ErrorTypeInvalidValue {
		t.Fatalf("error = %v, want invalid_value", err)
	}
	if pe.Position != 0 {
		t.Errorf("Position = %d, want 0 (start of the offending token)", pe.Position)
	}
}

func TestDoubleValue(t *testing.T) {
	got, err := getValue(t, Double(), "2.5")
	if err != nil || got != 2.5 {
		t.Fatalf("GetValue = %v, %v", got, err)
	}
	if _, err := getValue(t, Double(), "x"); err == nil {
		t.Fatal("expected error")
	}
}

func TestDurationValue(t *testing.T) {
	got, err := getValue(t, Duration(), "1h30m")
	if err != nil || got != 90*time.Minute {
		t.Fatalf("GetValue = %v, %v", got, err)
	}
}

func TestRemainingJoinedStrings(t *testing.T) {
	args := Tokenize(`hello "big world" again`)
	got, err := RemainingJoinedStrings().GetValue(newSource(), args, NewContext())
	if err != nil || got != "hello big world again" {
		t.Fatalf("GetValue = %v, %v", got, err)
	}
	if args.HasNext() {
		t.Fatal("stream should be drained")
	}

	if _, err := getValue(t, RemainingJoinedStrings(), ""); err == nil {
		t.Fatal("expected error on empty stream")
	}
}

func TestRemainingRawJoinedStrings(t *testing.T) {
	args := Tokenize(`say  "big   world"`)
	args.Next() //nolint:errcheck
	got, err := RemainingRawJoinedStrings().GetValue(newSource(), args, NewContext())
	if err != nil || got != `"big   world"` {
		t.Fatalf("GetValue = %v, %v", got, err)
	}
	if args.HasNext() {
		t.Fatal("stream should be drained")
	}
}

func TestLiteralValue(t *testing.T) {
	lit := Literal(7, "on", "enable")

	got, err := getValue(t, lit, "ENABLE")
	if err != nil || got != 7 {
		t.Fatalf("GetValue = %v, %v", got, err)
	}
	if _, err := getValue(t, lit, "off"); err == nil {
		t.Fatal("expected error for non-literal")
	}
}

func TestNoneValue(t *testing.T) {
	args := Tokenize("untouched")
	got, err := None().GetValue(newSource(), args, NewContext())
	if err != nil || got != nil {
		t.Fatalf("GetValue = %v, %v", got, err)
	}
	if tok, _ := args.Peek(); tok != "untouched" {
		t.Fatal("None must not consume tokens")
	}
}

func TestChoicesValue(t *testing.T) {
	choices := Choices(map[string]any{"stone": 1, "steel": 2, "wood": 3})

	got, err := getValue(t, choices, "wood")
	if err != nil || got != 3 {
		t.Fatalf("exact choice = %v, %v", got, err)
	}

	got, err = getValue(t, choices, "w")
	if err != nil || got != 3 {
		t.Fatalf("prefix choice = %v, %v", got, err)
	}

	_, err = getValue(t, choices, "iron")
	if pe, ok := err.(*ParseError); !ok || pe.Type != ErrorTypeNoMatchingChoice {
		t.Fatalf("error = %v, want no_matching_choice", err)
	}
}

func TestBoolComplete(t *testing.T) {
	got := Bool().Complete(newSource(), Tokenize("t"), NewContext(WithCompletion()))
	if len(got) != 1 || got[0] != "true" {
		t.Fatalf("Complete = %v", got)
	}
}
