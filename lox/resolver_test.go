package lox

import (
	"reflect"
	"testing"
)

func resolveSource(t *testing.T, source string) ([]Stmt, Locals, *Diagnostics) {
	t.Helper()
	stmts, diags := parseSource(t, source)
	if diags.HasErrors() {
		t.Fatalf("unexpected parse diagnostics: %v", diags.Items())
	}
	return stmts, Resolve(stmts, diags), diags
}

func TestResolveHopDistances(t *testing.T) {
	stmts, locals, diags := resolveSource(t, "{ var a = 1; { print a; } }")
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}
	outer := stmts[0].(*BlockStmt)
	inner := outer.Statements[1].(*BlockStmt)
	use := inner.Statements[0].(*PrintStmt).Expr

	if got, ok := locals[use]; !ok || got != 1 {
		t.Fatalf("expected distance 1, got %d (recorded=%t)", got, ok)
	}
}

func TestResolveLeavesGlobalsUnresolved(t *testing.T) {
	_, locals, diags := resolveSource(t, "var a = 1; print a; a = 2; fun f() { return a; }")
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}
	if len(locals) != 0 {
		t.Fatalf("expected no local entries, got %d", len(locals))
	}
}

func TestResolveClosureCapture(t *testing.T) {
	stmts, locals, diags := resolveSource(t, "fun f(x) { fun g() { return x; } }")
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}
	g := stmts[0].(*FunctionStmt).Body[0].(*FunctionStmt)
	use := g.Body[0].(*ReturnStmt).Value
	if got := locals[use]; got != 1 {
		t.Fatalf("expected x one scope out, got %d", got)
	}
}

func TestResolveThisAndSuperDistances(t *testing.T) {
	source := "class A { f() {} } class B < A { f() { this; super.f; } }"
	stmts, locals, diags := resolveSource(t, source)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}
	method := stmts[1].(*ClassStmt).Methods[0]
	this := method.Body[0].(*ExprStmt).Expr
	super := method.Body[1].(*ExprStmt).Expr

	if got := locals[this]; got != 1 {
		t.Fatalf("expected this at distance 1, got %d", got)
	}
	if got := locals[super]; got != 2 {
		t.Fatalf("expected super at distance 2, got %d", got)
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"{ var a = a; }", "Can't read local variable in its own initializer."},
		{"{ var a; var a; }", "Already a variable with this name in this scope."},
		{"fun f(a, a) {}", "Already a variable with this name in this scope."},
		{"return 1;", "Can't return from top-level code."},
		{"class A { init() { return 1; } }", "Can't return a value from an initializer."},
		{"print this;", "Can't use 'this' outside of a class."},
		{"fun f() { this; }", "Can't use 'this' outside of a class."},
		{"print super.x;", "Can't use 'super' outside of a class."},
		{"class A { f() { super.f(); } }", "Can't use 'super' in a class with no superclass."},
		{"class A < A {}", "A class can't inherit from itself."},
	}

	for _, tc := range tests {
		_, _, diags := resolveSource(t, tc.source)
		if diags.Len() != 1 {
			t.Fatalf("%s: expected one diagnostic, got %v", tc.source, diags.Items())
		}
		diag := diags.Items()[0]
		if diag.Message != tc.want || diag.Phase != PhaseResolve {
			t.Fatalf("%s: expected %q, got %+v", tc.source, tc.want, diag)
		}
	}
}

func TestResolveAllowsValidForms(t *testing.T) {
	sources := []string{
		"var a = a;",
		"var a = 1; var a = 2;",
		"class A { init() { return; } }",
		"class A { f() { return this; } }",
		"class A {} class B < A { f() { return super.f; } }",
		"{ var a = 1; { var b = a; } }",
	}
	for _, source := range sources {
		_, _, diags := resolveSource(t, source)
		if diags.HasErrors() {
			t.Fatalf("%s: unexpected diagnostics: %v", source, diags.Items())
		}
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	stmts, first, _ := resolveSource(t, `
fun makeCounter() {
  var i = 0;
  fun count() { i = i + 1; return i; }
  return count;
}
{ var a = 1; { var b = a; print a + b; } }
`)
	second := Resolve(stmts, &Diagnostics{})
	if len(first) == 0 {
		t.Fatalf("expected local entries")
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical tables, got %v and %v", first, second)
	}
}
