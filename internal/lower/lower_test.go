package lower

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"druk/internal/ast"
	"druk/internal/diag"
	"druk/internal/ir"
	"druk/internal/parser"
	"druk/internal/sema"
	"druk/internal/source"
)

func lowerSource(t *testing.T, src string) (*ir.Module, error) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.druk", []byte(src))
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	b := ast.NewBuilder(ast.Hints{})
	pr := parser.ParseFile(fs.Get(id), b, parser.Options{Reporter: rep})
	if bag.HasErrors() {
		t.Fatalf("parse errors in %q: %+v", src, bag.Items())
	}
	res := sema.Check(b, pr.File, sema.Options{Reporter: rep})
	return Module(b, pr.File, &res)
}

func mustLower(t *testing.T, src string) *ir.Module {
	t.Helper()
	m, err := lowerSource(t, src)
	if err != nil {
		t.Fatalf("lower %q: %v", src, err)
	}
	return m
}

func opcodes(f *ir.Func) []ir.Opcode {
	var out []ir.Opcode
	for _, bid := range f.Blocks() {
		for _, iid := range f.Block(bid).Instrs {
			out = append(out, f.Instr(iid).Opcode())
		}
	}
	return out
}

func countOp(f *ir.Func, op ir.Opcode) int {
	n := 0
	for _, got := range opcodes(f) {
		if got == op {
			n++
		}
	}
	return n
}

func blockNames(f *ir.Func) []string {
	var out []string
	for _, bid := range f.Blocks() {
		out = append(out, f.Block(bid).Name)
	}
	return out
}

func mainOf(t *testing.T, m *ir.Module) *ir.Func {
	t.Helper()
	fn, ok := m.FuncByName(MainFunc)
	if !ok {
		t.Fatalf("module has no %s", MainFunc)
	}
	return fn
}

func TestTopLevelVarsBecomeGlobals(t *testing.T) {
	m := mustLower(t, `var x: Number = 1; var y: Number = x + 2; print y;`)
	if len(m.Globals) != 2 {
		t.Fatalf("expected 2 globals, got %d", len(m.Globals))
	}
	x, y := m.Globals[0], m.Globals[1]
	if !x.HasInit || x.Init.Int != 1 {
		t.Fatalf("x should be initialised statically, got %+v", x)
	}
	if y.HasInit {
		t.Fatalf("y needs a runtime initialiser")
	}
	main := mainOf(t, m)
	if countOp(main, ir.OpStore) != 1 || countOp(main, ir.OpPrint) != 1 {
		t.Fatalf("unexpected main body %v", opcodes(main))
	}
}

func TestFunctionsAndDirectCalls(t *testing.T) {
	m := mustLower(t, `function add(a, b) { return a + b; } print add(1, 2);`)
	add, ok := m.FuncByName("add")
	if !ok {
		t.Fatalf("add was not lowered")
	}
	if len(add.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(add.Params))
	}
	main := mainOf(t, m)
	var call *ir.Instr
	for _, bid := range main.Blocks() {
		for _, iid := range main.Block(bid).Instrs {
			if in := main.Instr(iid); in.Opcode() == ir.OpCall {
				call = in
			}
		}
	}
	if call == nil || call.Callee() != add.ID || call.NumOperands() != 2 {
		t.Fatalf("expected direct call to add, got %v", opcodes(main))
	}
}

func TestControlFlowBlocks(t *testing.T) {
	m := mustLower(t, `
var i: Number = 0;
while (i < 3) { i = i + 1; }
if (i == 3) { print "ok"; } else { print "no"; }
`)
	main := mainOf(t, m)
	names := strings.Join(blockNames(main), " ")
	for _, want := range []string{"entry", "while.cond", "while.body", "while.end", "if.then", "if.else", "if.end"} {
		if !strings.Contains(names, want) {
			t.Fatalf("missing block %q in %s", want, names)
		}
	}
	if got := countOp(main, ir.OpConditionalBranch); got != 2 {
		t.Fatalf("expected 2 conditional branches, got %d", got)
	}
}

func TestIfWithoutElseBranchesToMerge(t *testing.T) {
	m := mustLower(t, `if (true) { print 1; }`)
	main := mainOf(t, m)
	entry := main.Block(main.Entry)
	br := main.Instr(entry.Terminator())
	if br.Opcode() != ir.OpConditionalBranch {
		t.Fatalf("entry should end in condbr, got %s", br.Opcode())
	}
	if main.Block(br.Else()).Name != "if.end" {
		t.Fatalf("else edge should reach the merge block, got %s", main.Block(br.Else()).Name)
	}
}

func TestDeadCodeGoesToUnreachableBlock(t *testing.T) {
	m := mustLower(t, `function f() { return 1; print 2; }`)
	f, _ := m.FuncByName("f")
	names := blockNames(f)
	if len(names) != 2 || names[1] != "unreachable" {
		t.Fatalf("unexpected blocks %v", names)
	}
	dead := f.Block(f.Blocks()[1])
	if f.Instr(dead.Instrs[0]).Opcode() != ir.OpPrint {
		t.Fatalf("print should live in the unreachable block")
	}
	if err := ir.Validate(m); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestBuiltinsAndDynamicCalls(t *testing.T) {
	m := mustLower(t, `
var a: Number = [1, 2];
print len(a);
push(a, 3);
a[0] = a[1];
var f: Number = 0;
f(1);
`)
	main := mainOf(t, m)
	checks := map[ir.Opcode]int{
		ir.OpBuildArray:  1,
		ir.OpLen:         1,
		ir.OpDynamicCall: 2,
		ir.OpIndexGet:    1,
		ir.OpIndexSet:    1,
	}
	for op, want := range checks {
		if got := countOp(main, op); got != want {
			t.Fatalf("%s: expected %d, got %d (%v)", op, want, got, opcodes(main))
		}
	}
}

func TestLocalsUseStackSlots(t *testing.T) {
	m := mustLower(t, `function f(n) { var x: Number = n; x = x * 2; return x; }`)
	f, _ := m.FuncByName("f")
	if got := countOp(f, ir.OpAlloca); got != 2 {
		t.Fatalf("expected 2 allocas, got %d", got)
	}
	if got := countOp(f, ir.OpLoad); got != 3 {
		t.Fatalf("expected 3 loads, got %d", got)
	}

	var buf bytes.Buffer
	if err := ir.Dump(&buf, m); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.Contains(buf.String(), "%x = alloca Int") {
		t.Fatalf("dump lacks alloca for x:\n%s", buf.String())
	}
}

func TestRefusesUnitWithErrors(t *testing.T) {
	_, err := lowerSource(t, `print y;`)
	if !errors.Is(err, ErrUnitHasErrors) {
		t.Fatalf("expected ErrUnitHasErrors, got %v", err)
	}
}

func TestNestedFunctionCannotCaptureLocals(t *testing.T) {
	_, err := lowerSource(t, `function outer(a) { function inner() { return a; } return inner(); }`)
	if err == nil || !strings.Contains(err.Error(), "cannot capture") {
		t.Fatalf("expected capture error, got %v", err)
	}
}

func TestAssignToFunctionIsRejected(t *testing.T) {
	_, err := lowerSource(t, `function f() { return 1; } f = 1;`)
	if err == nil || !strings.Contains(err.Error(), "cannot assign to function 'f'") {
		t.Fatalf("expected function assignment error, got %v", err)
	}
	if strings.Contains(err.Error(), "capture") {
		t.Fatalf("unexpected capture error: %v", err)
	}
}

func TestUserMainDoesNotClashWithEntryFunction(t *testing.T) {
	m := mustLower(t, `function main() { return 0; } main();`)
	if _, ok := m.FuncByName("main.1"); !ok {
		t.Fatalf("user main should be renamed")
	}
	if len(m.Funcs) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(m.Funcs))
	}
}
