package ir

// Block is a straight-line run of instructions with at most one terminator,
// always in last position.
type Block struct {
	ID     BlockID
	Name   string
	Instrs []InstrID

	term InstrID
}

// Terminated reports whether a terminator has been appended.
func (b *Block) Terminated() bool { return b.term.IsValid() }

// Terminator returns the terminating instruction or NoInstrID.
func (b *Block) Terminator() InstrID { return b.term }
