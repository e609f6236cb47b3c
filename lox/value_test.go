package lox

import (
	"math"
	"testing"
)

func TestValueStringFormatting(t *testing.T) {
	tests := []struct {
		val  Value
		want string
	}{
		{NewNil(), "nil"},
		{Value{}, "nil"},
		{NewBool(false), "false"},
		{NewNumber(3), "3"},
		{NewNumber(-0.25), "-0.25"},
		{NewNumber(1e21), "1000000000000000000000"},
		{NewNumber(math.Inf(-1)), "-Infinity"},
		{NewNumber(math.NaN()), "NaN"},
		{NewString("hi"), "hi"},
		{NewNative(&Native{Name: "clock"}), "<native fn>"},
		{NewClass(&Class{Name: "Cake"}), "Cake"},
		{NewInstance(&Instance{Class: &Class{Name: "Cake"}}), "Cake instance"},
	}
	for _, tc := range tests {
		if got := tc.val.String(); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestValueEqualityHasNoCoercion(t *testing.T) {
	class := &Class{Name: "A"}
	if !NewNil().Equal(Value{}) {
		t.Fatalf("expected nil to equal the zero value")
	}
	if NewNumber(0).Equal(NewBool(false)) || NewString("1").Equal(NewNumber(1)) {
		t.Fatalf("expected values of different kinds to differ")
	}
	if NewNumber(math.NaN()).Equal(NewNumber(math.NaN())) {
		t.Fatalf("expected NaN to differ from itself")
	}
	if !NewClass(class).Equal(NewClass(class)) || NewClass(class).Equal(NewClass(&Class{Name: "A"})) {
		t.Fatalf("expected classes to compare by identity")
	}
}

func TestEnvAncestorLookups(t *testing.T) {
	global := newEnv(nil)
	global.Define("a", NewNumber(1))
	inner := newEnv(newEnv(global))
	inner.Define("a", NewNumber(3))

	if val, ok := inner.GetAt(2, "a"); !ok || val.Number() != 1 {
		t.Fatalf("expected global a two hops out, got %v (%t)", val, ok)
	}
	if !inner.AssignAt(2, "a", NewNumber(5)) {
		t.Fatalf("expected assignment two hops out to succeed")
	}
	if val, _ := global.Get("a"); val.Number() != 5 {
		t.Fatalf("expected global a to be 5, got %v", val)
	}
	if val, _ := inner.Get("a"); val.Number() != 3 {
		t.Fatalf("expected inner a untouched, got %v", val)
	}
	if inner.AssignAt(1, "a", NewNil()) {
		t.Fatalf("expected assignment to an unbound name to fail")
	}
	if inner.Assign("missing", NewNil()) {
		t.Fatalf("expected Assign to never create bindings")
	}
	if inner.Ancestor(5) != nil {
		t.Fatalf("expected nil past the global scope")
	}
}
