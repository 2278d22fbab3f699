// Copyright (c) 2026 WJQserver, Kamihama Railway Group. All rights reserved.
// Licensed under the GNU Affero General Public License, version 3.0 (the "AGPL").

package stratcomm

import "fmt"

// OpCode identifies one lowered instruction. All arithmetic operates on
// the eight fixed 32-bit register slots.
type OpCode byte

const (
	OpAddImm OpCode = iota
	OpSubImm
	OpMulImm
	OpDivImm
	OpSetImm
	OpAddReg
	OpSubReg
	OpMulReg
	OpDivReg
	OpSetReg
	OpPrint
	OpRead
	OpRand
)

func (o OpCode) String() string {
	switch o {
	case OpAddImm:
		return "addi"
	case OpSubImm:
		return "subi"
	case OpMulImm:
		return "muli"
	case OpDivImm:
		return "divi"
	case OpSetImm:
		return "seti"
	case OpAddReg:
		return "add"
	case OpSubReg:
		return "sub"
	case OpMulReg:
		return "mul"
	case OpDivReg:
		return "div"
	case OpSetReg:
		return "set"
	case OpPrint:
		return "print"
	case OpRead:
		return "read"
	case OpRand:
		return "rand"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", o)
	}
}

// Instruction is one lowered operation. Dst is always a register slot;
// Src is used by the reg-reg forms and Imm by the imm forms.
type Instruction struct {
	Op  OpCode
	Dst uint8
	Src uint8
	Imm int32
}

func (i Instruction) String() string {
	dst := registerNames[i.Dst]
	switch i.Op {
	case OpAddImm, OpSubImm, OpMulImm, OpDivImm, OpSetImm:
		return fmt.Sprintf("%s %s, %d", i.Op, dst, i.Imm)
	case OpAddReg, OpSubReg, OpMulReg, OpDivReg, OpSetReg:
		return fmt.Sprintf("%s %s, %s", i.Op, dst, registerNames[i.Src])
	default:
		return fmt.Sprintf("%s %s", i.Op, dst)
	}
}

type TermKind byte

const (
	TermNone TermKind = iota
	TermReturn
	TermJump
	TermBranch
)

// Predicate selects the register test of a conditional branch.
type Predicate byte

const (
	PredZero Predicate = iota
	PredNegative
)

func (p Predicate) String() string {
	if p == PredNegative {
		return "neg"
	}
	return "zero"
}

// Terminator is a block's single control transfer. TermJump uses Then
// only; TermBranch tests Reg against the predicate and falls through to
// Else when the test fails.
type Terminator struct {
	Kind TermKind
	Pred Predicate
	Reg  uint8
	Then *Block
	Else *Block
}

func (t Terminator) String() string {
	switch t.Kind {
	case TermReturn:
		return "return"
	case TermJump:
		return fmt.Sprintf("jump %s", t.Then.Name)
	case TermBranch:
		return fmt.Sprintf("branch %s %s, %s, %s",
			t.Pred, registerNames[t.Reg], t.Then.Name, t.Else.Name)
	default:
		return "(no terminator)"
	}
}

// Block is one basic block: a straight-line run of lowered instructions
// ending in at most one terminator.
type Block struct {
	Name string
	Code []Instruction
	Term Terminator
}

func (b *Block) terminated() bool {
	return b.Term.Kind != TermNone
}

// successors lists the blocks control can transfer to from this block.
func (b *Block) successors() []*Block {
	switch b.Term.Kind {
	case TermJump:
		return []*Block{b.Term.Then}
	case TermBranch:
		return []*Block{b.Term.Then, b.Term.Else}
	default:
		return nil
	}
}

// Function is a finished compiled program: a control-flow graph of basic
// blocks. Blocks[0] is the entry block.
type Function struct {
	Name   string
	Blocks []*Block
}
