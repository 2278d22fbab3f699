// Copyright (c) 2026 WJQserver, Kamihama Railway Group. All rights reserved.
// Licensed under the GNU Affero General Public License, version 3.0 (the "AGPL").

package stratcomm

import (
	"log/slog"
	"strings"
)

type TransformOp byte

const (
	TransformAdd TransformOp = iota
	TransformSubtract
	TransformMultiply
	TransformDivide
	TransformSet
)

func (op TransformOp) String() string {
	switch op {
	case TransformAdd:
		return "add"
	case TransformSubtract:
		return "sub"
	case TransformMultiply:
		return "mul"
	case TransformDivide:
		return "div"
	case TransformSet:
		return "set"
	default:
		return "UNKNOWN"
	}
}

// Transformation describes one register update. The operand is either a
// literal or another register whose current value is used.
type Transformation struct {
	Op      TransformOp
	Operand Operand
}

// Backend is the capability set an instruction handler drives. The
// interpreter applies each capability to live register storage; the
// compiler emits equivalent code into the current basic block. Handlers are
// written once against this interface and never duplicated per backend.
type Backend interface {
	HasRegister(name string) bool
	HasLabel(name string) bool

	Transform(register string, t Transformation) error
	Print(register string) error
	Read(register string) error
	Randomize(register string) error

	Label(name string) error
	Jump(label string) error
	JumpIfZero(register, label string) error
	JumpIfNegative(register, label string) error
}

type handlerFunc func(op *operation, operands string, line int, b Backend) error

// operation is one instruction-table entry: the prefix phrases that select
// it and the handler that executes it. Synonym prefixes share one handler.
type operation struct {
	name     string
	prefixes []string
	handler  handlerFunc
}

// operations is the instruction table. Entries are evaluated in order and
// the first prefix that matches the start of a line wins.
var operations = []operation{
	{"label", labelPrefixes, handleLabel},
	{"increment", []string{"innovate ", "value-add "}, unaryTransform(TransformAdd, 1)},
	{"decrement", []string{"streamline ", "optimize "}, unaryTransform(TransformSubtract, 1)},
	{"negate", []string{"revamp ", "overhaul "}, unaryTransform(TransformMultiply, -1)},
	{"double", []string{"amplify ", "incentivize "}, unaryTransform(TransformMultiply, 2)},
	{"halve", []string{"backburner "}, unaryTransform(TransformDivide, 2)},
	{"randomize", []string{"paradigm shift "}, handleRandomize},
	{"assignment", []string{"align "}, handleAssign},
	{"add", []string{"synergize ", "integrate "}, binaryTransform(TransformAdd)},
	{"subtract", []string{"differentiate "}, binaryTransform(TransformSubtract)},
	{"read", []string{"crowdsource "}, handleRead},
	{"print", []string{"deliver ", "produce "}, handlePrint},
	{"jump", []string{"circle back to ", "revisit "}, handleJump},
	{"jump if zero", []string{"pivot "}, handleJumpIfZero},
	{"jump if negative", []string{"restructure "}, handleJumpIfNegative},
}

// dispatch matches one normalized line against the instruction table and
// runs the selected handler against the active backend. A line matching no
// entry is an unknown instruction.
func dispatch(line string, idx int, b Backend) error {
	for i := range operations {
		op := &operations[i]
		for _, prefix := range op.prefixes {
			if strings.HasPrefix(line, prefix) {
				slog.Debug("dispatch", "line", idx, "op", op.name)
				return op.handler(op, line[len(prefix):], idx, b)
			}
		}
	}
	return lineErr(idx, ErrUnknownInstruction, "%q", line)
}

func handleLabel(_ *operation, operands string, _ int, b Backend) error {
	return b.Label(operands)
}

// unaryTransform builds the handler for operations that apply a fixed
// literal to one register. The raw residual must be exactly a register
// name.
func unaryTransform(op TransformOp, literal int32) handlerFunc {
	operand := Operand{Kind: OperandLiteral, Value: literal}
	return func(o *operation, operands string, line int, b Backend) error {
		if !b.HasRegister(operands) {
			return lineErr(line, ErrInvalidOperand, "operand for %s must be a register", o.name)
		}
		return b.Transform(operands, Transformation{Op: op, Operand: operand})
	}
}

// binaryTransform builds the handler for register-to-register arithmetic:
// the first operand names the destination, the second supplies the value.
func binaryTransform(op TransformOp) handlerFunc {
	return func(o *operation, operands string, line int, b Backend) error {
		parsed := ParseOperands(operands)
		if len(parsed) != 2 {
			return lineErr(line, ErrInvalidOperand, "wrong number of operands for %s", o.name)
		}
		if parsed[0].Kind != OperandRegister {
			return lineErr(line, ErrInvalidOperand, "first operand for %s must be a register", o.name)
		}
		if parsed[1].Kind != OperandRegister {
			return lineErr(line, ErrInvalidOperand, "second operand for %s must be a register", o.name)
		}
		return b.Transform(parsed[0].Name, Transformation{Op: op, Operand: parsed[1]})
	}
}

func handleAssign(o *operation, operands string, line int, b Backend) error {
	parsed := ParseOperands(operands)
	// Either a register followed by a register or literal, or a literal
	// followed by a register.
	if len(parsed) != 2 {
		return lineErr(line, ErrInvalidOperand, "wrong number of operands for %s", o.name)
	}
	switch parsed[0].Kind {
	case OperandRegister:
		if parsed[1].Kind != OperandRegister && parsed[1].Kind != OperandLiteral {
			return lineErr(line, ErrInvalidOperand,
				"second operand for %s must be a register or literal", o.name)
		}
		return b.Transform(parsed[0].Name, Transformation{Op: TransformSet, Operand: parsed[1]})
	case OperandLiteral:
		if parsed[1].Kind != OperandRegister {
			return lineErr(line, ErrInvalidOperand,
				"second operand for %s must be a register if the first operand is a literal", o.name)
		}
		return b.Transform(parsed[1].Name, Transformation{Op: TransformSet, Operand: parsed[0]})
	default:
		return lineErr(line, ErrInvalidOperand,
			"first operand for %s must be a register or literal", o.name)
	}
}

func handleRandomize(o *operation, operands string, line int, b Backend) error {
	if !b.HasRegister(operands) {
		return lineErr(line, ErrInvalidOperand, "operand for %s must be a register", o.name)
	}
	return b.Randomize(operands)
}

func handleRead(o *operation, operands string, line int, b Backend) error {
	if !b.HasRegister(operands) {
		return lineErr(line, ErrInvalidOperand, "operand for %s must be a register", o.name)
	}
	return b.Read(operands)
}

func handlePrint(o *operation, operands string, line int, b Backend) error {
	parsed := ParseOperands(operands)
	if len(parsed) != 1 {
		return lineErr(line, ErrInvalidOperand, "wrong number of operands for %s", o.name)
	}
	if parsed[0].Kind != OperandRegister {
		return lineErr(line, ErrInvalidOperand, "operand for %s must be a register", o.name)
	}
	return b.Print(parsed[0].Name)
}

func handleJump(o *operation, operands string, line int, b Backend) error {
	if !b.HasLabel(operands) {
		return lineErr(line, ErrUndefinedLabel, "%q", operands)
	}
	return b.Jump(operands)
}

func handleJumpIfZero(o *operation, operands string, line int, b Backend) error {
	register, label, err := condJumpOperands(o, operands, line, b)
	if err != nil {
		return err
	}
	return b.JumpIfZero(register, label)
}

func handleJumpIfNegative(o *operation, operands string, line int, b Backend) error {
	register, label, err := condJumpOperands(o, operands, line, b)
	if err != nil {
		return err
	}
	return b.JumpIfNegative(register, label)
}

// condJumpOperands validates the register-then-label shape shared by the
// two conditional jumps. The label is resolved here, at the point the jump
// compiles or executes, not at program construction.
func condJumpOperands(o *operation, operands string, line int, b Backend) (string, string, error) {
	parsed := ParseOperands(operands)
	if len(parsed) != 2 {
		return "", "", lineErr(line, ErrInvalidOperand, "wrong number of operands for %s", o.name)
	}
	if parsed[0].Kind != OperandRegister {
		return "", "", lineErr(line, ErrInvalidOperand, "first operand for %s must be a register", o.name)
	}
	if parsed[1].Kind != OperandLabel {
		return "", "", lineErr(line, ErrInvalidOperand, "second operand for %s must be a label", o.name)
	}
	if !b.HasLabel(parsed[1].Name) {
		return "", "", lineErr(line, ErrUndefinedLabel, "%q", parsed[1].Name)
	}
	return parsed[0].Name, parsed[1].Name, nil
}
