package chunk

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
	"github.com/vmihailenco/msgpack/v5"

	"druk/internal/ir"
	"druk/internal/types"
)

// buildModule lowers by hand:
//
//	var g = 5
//	fn twice(n) { return n + n }
//	main: print twice(g); print "hi"; print "hi"
func buildModule() *ir.Module {
	m := ir.NewModule(nil)
	g := m.NewGlobal("g", types.Int)
	g.Init, g.HasInit = ir.Const{Kind: ir.ConstInt, Int: 5}, true

	main := m.NewFunc("main", types.Void)
	twice := m.NewFunc("twice", types.Int)

	tb := ir.NewBuilder(twice)
	tb.SetInsertPoint(twice.NewBlock("entry"))
	n := twice.AddParam("n", types.Int)
	tb.CreateRet(tb.CreateBinary(ir.OpAdd, n, n, "sum"))

	b := ir.NewBuilder(main)
	entry := main.NewBlock("entry")
	exit := main.NewBlock("exit")
	b.SetInsertPoint(entry)
	v := b.CreateLoad(main.GlobalRef(g), "")
	b.CreatePrint(b.CreateCall(twice, []ir.ValueID{v}, ""))
	b.CreateBranch(exit)
	b.SetInsertPoint(exit)
	b.CreatePrint(main.ConstString("hi"))
	b.CreatePrint(main.ConstString("hi"))
	b.CreateRet(ir.NoValueID)
	return m
}

func TestEncodeLayout(t *testing.T) {
	c, err := Encode(buildModule(), "main")
	be.Err(t, err, nil)
	be.Equal(t, c.Entry, uint32(0))
	be.Equal(t, len(c.Funcs), 2)
	be.Equal(t, c.Globals[0].Type, "Int")
	be.True(t, c.Globals[0].HasInit)

	main := c.Funcs[0]
	be.Equal(t, len(main.Blocks), 2)
	entry := main.Blocks[0].Code
	be.Equal(t, entry[0].Code, ir.OpLoad)
	be.Equal(t, entry[0].Args, []Ref{{Kind: RefGlobal, Index: 0}})
	be.Equal(t, entry[1].Code, ir.OpCall)
	be.Equal(t, entry[1].Callee, uint32(1))
	be.Equal(t, entry[1].Args, []Ref{{Kind: RefReg, Index: entry[0].Dest}})
	be.Equal(t, entry[3].Targets, []uint32{1})

	// both prints of "hi" share one pool entry
	be.Equal(t, len(main.Consts), 1)

	twice := c.Funcs[1]
	be.Equal(t, twice.NumParams, 1)
	add := twice.Blocks[0].Code[0]
	be.Equal(t, add.Args, []Ref{{Kind: RefReg, Index: 1}, {Kind: RefReg, Index: 1}})
	be.Equal(t, add.Dest, uint32(2))
}

func TestEncodeNeedsEntry(t *testing.T) {
	_, err := Encode(buildModule(), "start")
	be.Err(t, err, "entry function")
}

func TestMarshalRoundTripThroughFile(t *testing.T) {
	c, err := Encode(buildModule(), "main")
	be.Err(t, err, nil)

	path := filepath.Join(t.TempDir(), "out", "prog.dkc")
	be.Err(t, WriteFile(path, c), nil)

	got, err := ReadFile(path)
	be.Err(t, err, nil)
	be.Equal(t, *got, *c)

	entries, err := os.ReadDir(filepath.Dir(path))
	be.Err(t, err, nil)
	be.Equal(t, len(entries), 1)
}

func TestUnmarshalRejectsForeignData(t *testing.T) {
	data, err := msgpack.Marshal(&Chunk{Magic: "NOPE", Schema: SchemaVersion})
	be.Err(t, err, nil)
	_, err = Unmarshal(data)
	be.True(t, errors.Is(err, ErrBadMagic))

	data, err = msgpack.Marshal(&Chunk{Magic: magic, Schema: SchemaVersion + 1})
	be.Err(t, err, nil)
	_, err = Unmarshal(data)
	be.True(t, errors.Is(err, ErrBadSchema))
}
