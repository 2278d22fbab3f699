// Copyright (c) 2026 WJQserver, Kamihama Railway Group. All rights reserved.
// Licensed under the GNU Affero General Public License, version 3.0 (the "AGPL").

package stratcomm

import (
	"errors"
	"fmt"
	"log/slog"
)

// Interpreter executes a program by walking its lines directly against
// live 32-bit register storage. One instance runs one program once.
type Interpreter struct {
	program   *Program
	registers map[string]int32
	rt        *Runtime
	line      int // 0-indexed line currently being executed
}

func NewInterpreter(p *Program, rt *Runtime) *Interpreter {
	registers := make(map[string]int32, NumRegisters)
	for _, name := range registerNames {
		registers[name] = 0
	}
	return &Interpreter{program: p, registers: registers, rt: rt}
}

// Run executes lines until control flows past the last one. After every
// handler the current line advances by one; jump handlers position the
// current line at the label's own line first, so execution resumes at the
// first line after the label definition.
func (in *Interpreter) Run() error {
	for in.line < in.program.LineCount() {
		idx := in.line
		line := in.program.Line(idx)
		slog.Debug("executing", "line", idx, "text", line)
		if err := dispatch(line, idx, in); err != nil {
			var le *LineError
			if errors.As(err, &le) {
				return err
			}
			return &LineError{Line: idx, Err: err}
		}
		in.line++
	}
	return nil
}

func (in *Interpreter) HasRegister(name string) bool {
	_, ok := in.registers[name]
	return ok
}

func (in *Interpreter) HasLabel(name string) bool {
	_, ok := in.program.LabelLine(name)
	return ok
}

func (in *Interpreter) Transform(register string, t Transformation) error {
	current, ok := in.registers[register]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRegister, register)
	}
	operand, err := in.operandValue(t.Operand)
	if err != nil {
		return err
	}

	var value int32
	switch t.Op {
	case TransformAdd:
		value = current + operand
	case TransformSubtract:
		value = current - operand
	case TransformMultiply:
		value = current * operand
	case TransformDivide:
		// The fixed instruction set only divides by the literal 2, so a
		// zero divisor means a broken table, not a user program.
		if operand == 0 {
			return fmt.Errorf("division by zero")
		}
		value = current / operand
	case TransformSet:
		value = operand
	default:
		return fmt.Errorf("%w: unhandled transformation %v", ErrInvalidOperand, t.Op)
	}

	in.registers[register] = value
	slog.Debug("register updated", "register", register, "op", t.Op.String(), "value", value)
	return nil
}

func (in *Interpreter) operandValue(o Operand) (int32, error) {
	switch o.Kind {
	case OperandLiteral:
		return o.Value, nil
	case OperandRegister:
		value, ok := in.registers[o.Name]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownRegister, o.Name)
		}
		return value, nil
	default:
		return 0, fmt.Errorf("%w: a transformation operand must be a register or literal", ErrInvalidOperand)
	}
}

func (in *Interpreter) Print(register string) error {
	value, ok := in.registers[register]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRegister, register)
	}
	return in.rt.PrintValue(value)
}

func (in *Interpreter) Read(register string) error {
	if !in.HasRegister(register) {
		return fmt.Errorf("%w: %q", ErrUnknownRegister, register)
	}
	in.registers[register] = in.rt.ReadByte()
	return nil
}

func (in *Interpreter) Randomize(register string) error {
	if !in.HasRegister(register) {
		return fmt.Errorf("%w: %q", ErrUnknownRegister, register)
	}
	in.registers[register] = in.rt.RandomDigit()
	return nil
}

// Label lines are no-ops when walked; the label table was built at
// construction.
func (in *Interpreter) Label(string) error {
	return nil
}

func (in *Interpreter) Jump(label string) error {
	target, ok := in.program.LabelLine(label)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUndefinedLabel, label)
	}
	in.line = target
	return nil
}

func (in *Interpreter) JumpIfZero(register, label string) error {
	value, ok := in.registers[register]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRegister, register)
	}
	if value == 0 {
		return in.Jump(label)
	}
	return nil
}

func (in *Interpreter) JumpIfNegative(register, label string) error {
	value, ok := in.registers[register]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRegister, register)
	}
	if value < 0 {
		return in.Jump(label)
	}
	return nil
}
