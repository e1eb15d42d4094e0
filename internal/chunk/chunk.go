// Package chunk flattens an ir.Module into the bytecode chunk consumed by the
// interpreter.
package chunk

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"druk/internal/ir"
)

// SchemaVersion changes whenever the encoded layout does.
const SchemaVersion uint16 = 1

const magic = "DRUK"

// RefKind tells where an operand lives at run time.
type RefKind uint8

const (
	RefReg    RefKind = iota + 1 // value computed by an instruction or a parameter
	RefConst                     // entry of the function constant pool
	RefGlobal                    // module global
	RefFunc                      // module function
)

// Ref is an encoded operand.
type Ref struct {
	Kind  RefKind `msgpack:"k"`
	Index uint32  `msgpack:"i"`
}

// Constant is a pooled immediate.
type Constant struct {
	Kind  ir.ConstKind `msgpack:"k"`
	Int   int64        `msgpack:"n,omitempty"`
	Float float64      `msgpack:"f,omitempty"`
	Str   string       `msgpack:"s,omitempty"`
	Bool  bool         `msgpack:"b,omitempty"`
}

// Op is one instruction. Dest is the register receiving the result, 0 when
// the instruction produces nothing.
type Op struct {
	Code      ir.Opcode `msgpack:"op"`
	Dest      uint32    `msgpack:"d,omitempty"`
	Args      []Ref     `msgpack:"a,omitempty"`
	Targets   []uint32  `msgpack:"t,omitempty"`
	Callee    uint32    `msgpack:"c,omitempty"`
	AllocType string    `msgpack:"ty,omitempty"`
}

type Block struct {
	Name string `msgpack:"name"`
	Code []Op   `msgpack:"code"`
}

// Function uses 1-based register numbers; parameters take registers 1..N.
type Function struct {
	Name      string     `msgpack:"name"`
	NumParams int        `msgpack:"params"`
	NumRegs   uint32     `msgpack:"regs"`
	Consts    []Constant `msgpack:"consts"`
	Blocks    []Block    `msgpack:"blocks"`
}

type Global struct {
	Name    string   `msgpack:"name"`
	Type    string   `msgpack:"type"`
	Init    Constant `msgpack:"init"`
	HasInit bool     `msgpack:"has_init"`
}

// Chunk is the serialised form of a module. Entry indexes Funcs.
type Chunk struct {
	Magic   string     `msgpack:"magic"`
	Schema  uint16     `msgpack:"schema"`
	Entry   uint32     `msgpack:"entry"`
	Globals []Global   `msgpack:"globals"`
	Funcs   []Function `msgpack:"funcs"`
}

var (
	ErrBadMagic  = errors.New("chunk: bad magic")
	ErrBadSchema = errors.New("chunk: unsupported schema")
)

// Marshal encodes c with msgpack.
func Marshal(c *Chunk) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("chunk: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes and checks the header of a chunk.
func Unmarshal(data []byte) (*Chunk, error) {
	var c Chunk
	if err := msgpack.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("chunk: decode: %w", err)
	}
	if c.Magic != magic {
		return nil, ErrBadMagic
	}
	if c.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrBadSchema, c.Schema)
	}
	return &c, nil
}
