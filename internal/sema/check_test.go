package sema

import (
	"testing"

	"druk/internal/ast"
	"druk/internal/diag"
	"druk/internal/parser"
	"druk/internal/source"
	"druk/internal/types"
)

type checked struct {
	builder *ast.Builder
	file    *ast.File
	bag     *diag.Bag
	res     Result
}

func check(t *testing.T, src string) checked {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.druk", []byte(src))
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	b := ast.NewBuilder(ast.Hints{})
	pr := parser.ParseFile(fs.Get(id), b, parser.Options{Reporter: rep})
	if bag.Len() != 0 {
		t.Fatalf("parse errors in %q: %+v", src, bag.Items())
	}
	res := Check(b, pr.File, Options{Reporter: rep})
	return checked{builder: b, file: pr.File, bag: bag, res: res}
}

func messages(bag *diag.Bag) []string {
	out := make([]string, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, d.Message)
	}
	return out
}

func expectMessages(t *testing.T, c checked, want ...string) {
	t.Helper()
	got := messages(c.bag)
	if len(got) != len(want) {
		t.Fatalf("expected %d diagnostics %q, got %d %q", len(want), want, len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("diagnostic %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestMismatchedInitializerStillDefinesVariable(t *testing.T) {
	c := check(t, `var x: Number = "text";`)
	expectMessages(t, c, "Type mismatch in initialization")
	d := c.bag.Items()[0]
	if d.Severity != diag.SevError || d.Code != diag.SemaTypeMismatch || d.Hint == "" {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	_, sym, ok := c.res.Table.Lookup("x")
	if !ok || sym.Type != types.Int {
		t.Fatalf("x must be defined as Int, got %+v", sym)
	}
}

func TestLocalMayShadowParameter(t *testing.T) {
	c := check(t, `function f(a) { var a: Number = 1; }`)
	expectMessages(t, c)
}

func TestNonBooleanConditionStillVisitsBranch(t *testing.T) {
	c := check(t, `if (1) { print missing; }`)
	expectMessages(t, c, "Condition must be a boolean", "Undefined variable 'missing'")
}

func TestNonBooleanLoopCondition(t *testing.T) {
	c := check(t, `while ("yes") { print nope; }`)
	expectMessages(t, c, "Loop condition must be a boolean", "Undefined variable 'nope'")
}

func TestDuplicates(t *testing.T) {
	c := check(t, `
function f(a, a) { }
function f() { }
var v: Number = 1;
var v: String = "s";
`)
	expectMessages(t, c,
		"Duplicate parameter name",
		"Function 'f' already defined",
		"Variable 'v' already defined",
	)
	if c.bag.Items()[0].Code != diag.SemaDuplicateParam || c.bag.Items()[1].Code != diag.SemaDuplicateSymbol {
		t.Fatalf("unexpected codes")
	}
}

func TestErrorTypeSuppressesCascades(t *testing.T) {
	c := check(t, `
var a: Number = undefinedThing + 1;
var b: Widget = 3;
if (b) { }
print -b;
`)
	expectMessages(t, c, "Undefined variable 'undefinedThing'")
}

func TestInvalidOperands(t *testing.T) {
	c := check(t, `
print 1 + "a";
print true and 1;
print -"s";
print !3;
print 1 < 2.5;
`)
	expectMessages(t, c,
		"Invalid operands to binary expression",
		"Invalid operands to binary expression",
		"Invalid operand to unary expression",
		"Invalid operand to unary expression",
		"Invalid operands to binary expression",
	)
}

func TestExpressionTypes(t *testing.T) {
	cases := []struct {
		src  string
		want types.TypeID
	}{
		{`1 + 2;`, types.Int},
		{`1.5 * 2.0;`, types.Float},
		{`"a" + "b";`, types.String},
		{`"a" == "b";`, types.Bool},
		{`1 < 2 or false;`, types.Bool},
		{`!(1 == 2);`, types.Bool},
		{`-(4);`, types.Int},
		{`len([1, 2]);`, types.Int},
		{`[1, 2];`, types.Int},
		{`argc;`, types.Int},
	}
	for _, tc := range cases {
		c := check(t, tc.src)
		expectMessages(t, c)
		v, _ := c.builder.Stmts.Value(c.file.Decls[0])
		if got := c.builder.Exprs.TypeOf(v.Value); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.src, c.res.TypeInterner.Name(tc.want), c.res.TypeInterner.Name(got))
		}
	}
}

func TestEveryExpressionIsAnnotated(t *testing.T) {
	c := check(t, `
function sum(a, b) { return a + b; }
var xs: Number = 0;
xs = sum(1, 2);
var ys: Number = [1, 2][0];
while (xs < 10) { xs = xs + 1; }
`)
	expectMessages(t, c)
	for i, e := range c.builder.Exprs.Arena.Slice() {
		if e.Type == types.NoTypeID {
			t.Fatalf("expression %d (%s) left unannotated", i+1, e.Kind)
		}
	}
}

func TestBindingsAndScopes(t *testing.T) {
	c := check(t, `
var g: Number = 1;
function f(p) { var g: String = "inner"; print g; print p; }
print g;
`)
	expectMessages(t, c)
	fn := c.file.Decls[1]
	params := c.res.Params[fn]
	if len(params) != 1 {
		t.Fatalf("expected one param symbol, got %d", len(params))
	}
	var innerG, outerG types.TypeID
	for exprID, symID := range c.res.Bindings {
		ident, ok := c.builder.Exprs.Ident(exprID)
		if !ok || ident.Name != "g" {
			continue
		}
		sym := c.res.Table.Symbols.Get(symID)
		if sym.Scope == c.res.Table.Global() {
			outerG = sym.Type
		} else {
			innerG = sym.Type
		}
	}
	if innerG != types.String || outerG != types.Int {
		t.Fatalf("expected inner String and outer Int, got %d/%d", innerG, outerG)
	}
	if err := c.res.Table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestAssignmentTyping(t *testing.T) {
	c := check(t, `var s: String = "a"; s = "b"; nope = 1;`)
	expectMessages(t, c, "Undefined variable 'nope'")
	first, _ := c.builder.Stmts.Value(c.file.Decls[1])
	if c.builder.Exprs.TypeOf(first.Value) != types.String {
		t.Fatalf("assignment must have the value type")
	}
	second, _ := c.builder.Stmts.Value(c.file.Decls[2])
	if c.builder.Exprs.TypeOf(second.Value) != types.Error {
		t.Fatalf("assignment to undefined name must be Error")
	}
}

func TestAssignmentChecksValueBeforeTarget(t *testing.T) {
	c := check(t, `lhs = rhs;`)
	expectMessages(t, c, "Undefined variable 'rhs'", "Undefined variable 'lhs'")
}
