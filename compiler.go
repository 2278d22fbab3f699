// Copyright (c) 2026 WJQserver, Kamihama Railway Group. All rights reserved.
// Licensed under the GNU Affero General Public License, version 3.0 (the "AGPL").

package stratcomm

import (
	"errors"
	"fmt"
	"log/slog"
)

// Compiler lowers a program into a control-flow graph of basic blocks. It
// implements Backend, so the same instruction handlers that drive the
// interpreter drive code emission: where the interpreter mutates a
// register, the compiler appends an instruction to the current block.
type Compiler struct {
	program *Program
	fn      *Function
	blocks  map[string]*Block // label name -> pre-allocated block
	slots   map[string]uint8  // register name -> slot index
	cur     *Block            // block currently being written
}

// Compile runs the two construction passes: block pre-allocation (one
// block per label in defining-line order, after a synthetic entry block),
// then a lowering walk over every source line through the instruction
// table. Pre-allocating all blocks first means forward jumps never need
// back-patching. The finished function ends with an implicit return.
func Compile(p *Program) (*Function, error) {
	slots := make(map[string]uint8, NumRegisters)
	for i, name := range registerNames {
		slots[name] = uint8(i)
	}

	c := &Compiler{
		program: p,
		fn:      &Function{Name: p.Name()},
		blocks:  make(map[string]*Block, len(p.labels)),
		slots:   slots,
	}
	c.createBlocks()

	for i := 0; i < p.LineCount(); i++ {
		if err := dispatch(p.Line(i), i, c); err != nil {
			var le *LineError
			if errors.As(err, &le) {
				return nil, err
			}
			return nil, &LineError{Line: i, Err: err}
		}
	}

	if !c.cur.terminated() {
		c.cur.Term = Terminator{Kind: TermReturn}
	}
	return c.fn, nil
}

func (c *Compiler) createBlocks() {
	c.cur = c.newBlock("entry")
	for _, def := range c.program.labelsByLine() {
		c.blocks[def.name] = c.newBlock(def.name)
	}
}

func (c *Compiler) newBlock(name string) *Block {
	b := &Block{Name: name}
	c.fn.Blocks = append(c.fn.Blocks, b)
	return b
}

// emit appends one instruction to the current block. Code lowered after
// the block's terminator is unreachable and dropped.
func (c *Compiler) emit(inst Instruction) {
	if c.cur.terminated() {
		slog.Debug("dropping unreachable instruction", "block", c.cur.Name, "inst", inst.String())
		return
	}
	c.cur.Code = append(c.cur.Code, inst)
}

func (c *Compiler) HasRegister(name string) bool {
	_, ok := c.slots[name]
	return ok
}

func (c *Compiler) HasLabel(name string) bool {
	_, ok := c.blocks[name]
	return ok
}

func (c *Compiler) slot(register string) (uint8, error) {
	s, ok := c.slots[register]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownRegister, register)
	}
	return s, nil
}

func (c *Compiler) Transform(register string, t Transformation) error {
	dst, err := c.slot(register)
	if err != nil {
		return err
	}

	switch t.Operand.Kind {
	case OperandLiteral:
		op, err := immOpcode(t.Op)
		if err != nil {
			return err
		}
		c.emit(Instruction{Op: op, Dst: dst, Imm: t.Operand.Value})
	case OperandRegister:
		src, err := c.slot(t.Operand.Name)
		if err != nil {
			return err
		}
		op, err := regOpcode(t.Op)
		if err != nil {
			return err
		}
		c.emit(Instruction{Op: op, Dst: dst, Src: src})
	default:
		return fmt.Errorf("%w: a transformation operand must be a register or literal", ErrInvalidOperand)
	}
	return nil
}

func immOpcode(op TransformOp) (OpCode, error) {
	switch op {
	case TransformAdd:
		return OpAddImm, nil
	case TransformSubtract:
		return OpSubImm, nil
	case TransformMultiply:
		return OpMulImm, nil
	case TransformDivide:
		return OpDivImm, nil
	case TransformSet:
		return OpSetImm, nil
	default:
		return 0, fmt.Errorf("%w: unhandled transformation %v", ErrInvalidOperand, op)
	}
}

func regOpcode(op TransformOp) (OpCode, error) {
	switch op {
	case TransformAdd:
		return OpAddReg, nil
	case TransformSubtract:
		return OpSubReg, nil
	case TransformMultiply:
		return OpMulReg, nil
	case TransformDivide:
		return OpDivReg, nil
	case TransformSet:
		return OpSetReg, nil
	default:
		return 0, fmt.Errorf("%w: unhandled transformation %v", ErrInvalidOperand, op)
	}
}

func (c *Compiler) Print(register string) error {
	dst, err := c.slot(register)
	if err != nil {
		return err
	}
	c.emit(Instruction{Op: OpPrint, Dst: dst})
	return nil
}

func (c *Compiler) Read(register string) error {
	dst, err := c.slot(register)
	if err != nil {
		return err
	}
	c.emit(Instruction{Op: OpRead, Dst: dst})
	return nil
}

func (c *Compiler) Randomize(register string) error {
	dst, err := c.slot(register)
	if err != nil {
		return err
	}
	c.emit(Instruction{Op: OpRand, Dst: dst})
	return nil
}

// Label switches the write cursor to the label's block. If the block being
// left has no terminator yet, control falls through, so an unconditional
// branch into the label's block is emitted first.
func (c *Compiler) Label(name string) error {
	target, ok := c.blocks[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUndefinedLabel, name)
	}
	if !c.cur.terminated() {
		c.cur.Term = Terminator{Kind: TermJump, Then: target}
	}
	c.cur = target
	return nil
}

func (c *Compiler) Jump(label string) error {
	target, ok := c.blocks[label]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUndefinedLabel, label)
	}
	if !c.cur.terminated() {
		c.cur.Term = Terminator{Kind: TermJump, Then: target}
	}
	return nil
}

func (c *Compiler) JumpIfZero(register, label string) error {
	return c.branch(PredZero, register, label)
}

func (c *Compiler) JumpIfNegative(register, label string) error {
	return c.branch(PredNegative, register, label)
}

// branch compares the register against zero and transfers to the label's
// block on success. A fresh continuation block catches the fall-through
// path and becomes the new write cursor.
func (c *Compiler) branch(pred Predicate, register, label string) error {
	target, ok := c.blocks[label]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUndefinedLabel, label)
	}
	reg, err := c.slot(register)
	if err != nil {
		return err
	}
	if c.cur.terminated() {
		// Unreachable conditional jump; nothing to lower.
		return nil
	}
	cont := c.newBlock(c.cur.Name + "'")
	c.cur.Term = Terminator{Kind: TermBranch, Pred: pred, Reg: reg, Then: target, Else: cont}
	c.cur = cont
	return nil
}
