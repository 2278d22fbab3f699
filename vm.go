// Copyright (c) 2026 WJQserver, Kamihama Railway Group. All rights reserved.
// Licensed under the GNU Affero General Public License, version 3.0 (the "AGPL").

package stratcomm

import "fmt"

// RunFunction executes a compiled function exactly once. Register storage
// is eight int32 slots owned by this run; native support routines are
// invoked synchronously through the runtime. A run either completes or
// aborts on the first native-call failure.
func RunFunction(fn *Function, rt *Runtime) error {
	if fn == nil || len(fn.Blocks) == 0 {
		return nil
	}

	var regs [NumRegisters]int32
	block := fn.Blocks[0]

	for {
		for _, inst := range block.Code {
			switch inst.Op {
			case OpAddImm:
				regs[inst.Dst] += inst.Imm
			case OpSubImm:
				regs[inst.Dst] -= inst.Imm
			case OpMulImm:
				regs[inst.Dst] *= inst.Imm
			case OpDivImm:
				if inst.Imm == 0 {
					return fmt.Errorf("division by zero")
				}
				regs[inst.Dst] /= inst.Imm
			case OpSetImm:
				regs[inst.Dst] = inst.Imm
			case OpAddReg:
				regs[inst.Dst] += regs[inst.Src]
			case OpSubReg:
				regs[inst.Dst] -= regs[inst.Src]
			case OpMulReg:
				regs[inst.Dst] *= regs[inst.Src]
			case OpDivReg:
				if regs[inst.Src] == 0 {
					return fmt.Errorf("division by zero")
				}
				regs[inst.Dst] /= regs[inst.Src]
			case OpSetReg:
				regs[inst.Dst] = regs[inst.Src]
			case OpPrint:
				if err := rt.PrintValue(regs[inst.Dst]); err != nil {
					return err
				}
			case OpRead:
				regs[inst.Dst] = rt.ReadByte()
			case OpRand:
				regs[inst.Dst] = rt.RandomDigit()
			default:
				return fmt.Errorf("unhandled opcode %v", inst.Op)
			}
		}

		switch block.Term.Kind {
		case TermJump:
			block = block.Term.Then
		case TermBranch:
			value := regs[block.Term.Reg]
			taken := value == 0
			if block.Term.Pred == PredNegative {
				taken = value < 0
			}
			if taken {
				block = block.Term.Then
			} else {
				block = block.Term.Else
			}
		default:
			// TermReturn, or an unterminated trailing block.
			return nil
		}
	}
}
