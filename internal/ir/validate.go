package ir

import (
	"errors"
	"fmt"
)

// Validate checks the structural invariants of every function in m.
func Validate(m *Module) error {
	if m == nil {
		return nil
	}
	var errs []error
	for _, f := range m.Funcs {
		if f == nil {
			continue
		}
		if err := validateFunc(m, f); err != nil {
			errs = append(errs, fmt.Errorf("function %s: %w", f.Name, err))
		}
	}
	for i, g := range m.Globals {
		if g == nil || int(g.ID) != i+1 {
			errs = append(errs, fmt.Errorf("global #%d: bad id", i+1))
		}
	}
	return errors.Join(errs...)
}

func validateFunc(m *Module, f *Func) error {
	var errs []error
	if !f.HasBlock(f.Entry) {
		errs = append(errs, errors.New("missing entry block"))
	}
	if err := validateTerminators(f); err != nil {
		errs = append(errs, err)
	}
	if err := validateOperands(m, f); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// validateTerminators checks that every block ends in exactly one terminator.
func validateTerminators(f *Func) error {
	var errs []error
	for _, bid := range f.Blocks() {
		blk := f.Block(bid)
		if len(blk.Instrs) == 0 {
			errs = append(errs, fmt.Errorf("bb%d: empty block", bid))
			continue
		}
		for i, iid := range blk.Instrs {
			in := f.Instr(iid)
			if in == nil {
				errs = append(errs, fmt.Errorf("bb%d: dangling instruction #%d", bid, iid))
				continue
			}
			if in.parent != bid {
				errs = append(errs, fmt.Errorf("bb%d: instruction #%d has parent bb%d", bid, iid, in.parent))
			}
			last := i == len(blk.Instrs)-1
			switch {
			case in.IsTerminator() && !last:
				errs = append(errs, fmt.Errorf("bb%d: %s is not the last instruction", bid, in.op))
			case !in.IsTerminator() && last:
				errs = append(errs, fmt.Errorf("bb%d: unterminated block", bid))
			}
		}
	}
	return errors.Join(errs...)
}

func validateOperands(m *Module, f *Func) error {
	var errs []error
	for _, bid := range f.Blocks() {
		for _, iid := range f.Block(bid).Instrs {
			in := f.Instr(iid)
			if in == nil {
				continue
			}
			if !in.op.Valid() {
				errs = append(errs, fmt.Errorf("bb%d: invalid opcode %d", bid, in.op))
				continue
			}
			for i, op := range in.operands {
				if !f.HasValue(op) {
					errs = append(errs, fmt.Errorf("bb%d: %s operand %d: unknown value %%%d", bid, in.op, i, op))
				}
			}
			for _, succ := range in.Successors() {
				if !f.HasBlock(succ) {
					errs = append(errs, fmt.Errorf("bb%d: %s targets unknown bb%d", bid, in.op, succ))
				}
			}
			if want, ok := fixedArity[in.op]; ok && len(in.operands) != want {
				errs = append(errs, fmt.Errorf("bb%d: %s expects %d operands, got %d", bid, in.op, want, len(in.operands)))
			}
			switch in.op {
			case OpReturn:
				if len(in.operands) > 1 {
					errs = append(errs, fmt.Errorf("bb%d: ret takes at most one operand", bid))
				}
			case OpCall:
				if m != nil && m.Func(in.callee) == nil {
					errs = append(errs, fmt.Errorf("bb%d: call to unknown fn#%d", bid, in.callee))
				}
			case OpDynamicCall:
				if len(in.operands) == 0 {
					errs = append(errs, fmt.Errorf("bb%d: dyncall without callee", bid))
				}
			}
		}
	}
	return errors.Join(errs...)
}

var fixedArity = map[Opcode]int{
	OpAdd: 2, OpSub: 2, OpMul: 2, OpDiv: 2, OpMod: 2,
	OpEqual: 2, OpNotEqual: 2, OpLessThan: 2, OpLessEqual: 2,
	OpGreaterThan: 2, OpGreaterEqual: 2, OpAnd: 2, OpOr: 2,
	OpNeg: 1, OpNot: 1,
	OpLoad: 1, OpStore: 2, OpAlloca: 0,
	OpIndexGet: 2, OpIndexSet: 3, OpLen: 1,
	OpBranch: 0, OpConditionalBranch: 1, OpPrint: 1,
}
