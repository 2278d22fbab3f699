// Copyright (c) 2026 WJQserver, Kamihama Railway Group. All rights reserved.
// Licensed under the GNU Affero General Public License, version 3.0 (the "AGPL").

package stratcomm

// OptLevel selects how much of the pass pipeline runs over a compiled
// function before execution.
type OptLevel int

const (
	OptNone OptLevel = iota
	OptLess
	OptDefault
	OptAggressive
)

func (l OptLevel) String() string {
	switch l {
	case OptNone:
		return "none"
	case OptLess:
		return "less"
	case OptDefault:
		return "default"
	case OptAggressive:
		return "aggressive"
	default:
		return "none"
	}
}

// Optimize runs the pass pipeline in place. Every pass preserves printed
// output, side-effect order, 32-bit wraparound and truncating division.
//
// Level 1 threads jumps through empty blocks and drops unreachable blocks.
// Level 2 adds in-block peephole folding of literal chains. Level 3 merges
// straight-line blocks and re-folds.
func Optimize(fn *Function, level OptLevel) {
	if fn == nil || len(fn.Blocks) == 0 || level <= OptNone {
		return
	}

	threadJumps(fn)
	removeUnreachable(fn)

	if level >= OptDefault {
		for _, b := range fn.Blocks {
			peephole(b)
		}
	}

	if level >= OptAggressive {
		mergeBlocks(fn)
		for _, b := range fn.Blocks {
			peephole(b)
		}
		removeUnreachable(fn)
	}
}

// chase follows chains of empty jump-only blocks to their final target.
// The seen set stops on empty self-loops, which are legitimate programs.
func chase(b *Block) *Block {
	seen := make(map[*Block]bool)
	for len(b.Code) == 0 && b.Term.Kind == TermJump && !seen[b] {
		seen[b] = true
		b = b.Term.Then
	}
	return b
}

func threadJumps(fn *Function) {
	for _, b := range fn.Blocks {
		switch b.Term.Kind {
		case TermJump:
			b.Term.Then = chase(b.Term.Then)
			if t := b.Term.Then; t != b && len(t.Code) == 0 && t.Term.Kind == TermReturn {
				b.Term = Terminator{Kind: TermReturn}
			}
		case TermBranch:
			b.Term.Then = chase(b.Term.Then)
			b.Term.Else = chase(b.Term.Else)
		}
	}
}

func removeUnreachable(fn *Function) {
	entry := fn.Blocks[0]
	reachable := map[*Block]bool{entry: true}
	work := []*Block{entry}
	for len(work) > 0 {
		b := work[len(work)-1]
		work = work[:len(work)-1]
		for _, s := range b.successors() {
			if !reachable[s] {
				reachable[s] = true
				work = append(work, s)
			}
		}
	}

	kept := make([]*Block, 0, len(fn.Blocks))
	for _, b := range fn.Blocks {
		if reachable[b] {
			kept = append(kept, b)
		}
	}
	fn.Blocks = kept
}

// peephole folds literal chains within one block until a fixpoint. Only
// adjacent instructions on the same destination slot are fused, so no
// intervening reader can observe the folded-away intermediate value.
func peephole(b *Block) {
	for {
		changed := false

		code := make([]Instruction, 0, len(b.Code))
		for _, inst := range b.Code {
			if isIdentity(inst) {
				changed = true
				continue
			}
			code = append(code, inst)
		}

		fused := make([]Instruction, 0, len(code))
		for i := 0; i < len(code); i++ {
			if i+1 < len(code) {
				if folded, ok := fuse(code[i], code[i+1]); ok {
					fused = append(fused, folded)
					i++
					changed = true
					continue
				}
			}
			fused = append(fused, code[i])
		}
		b.Code = fused

		if !changed {
			return
		}
	}
}

// isIdentity reports instructions with no effect on the register.
func isIdentity(inst Instruction) bool {
	switch inst.Op {
	case OpAddImm, OpSubImm:
		return inst.Imm == 0
	case OpMulImm, OpDivImm:
		return inst.Imm == 1
	case OpSetReg:
		return inst.Dst == inst.Src
	default:
		return false
	}
}

// fuse folds two adjacent pure literal instructions on the same slot into
// one. Division is folded only out of a known value, never combined with
// another division, so truncation stays identical to the runtime's.
func fuse(a, z Instruction) (Instruction, bool) {
	if a.Dst != z.Dst || !isPureImm(a.Op) || !isPureImm(z.Op) {
		return Instruction{}, false
	}

	// A later set makes the earlier instruction dead.
	if z.Op == OpSetImm {
		return z, true
	}

	if a.Op == OpSetImm {
		value := a.Imm
		switch z.Op {
		case OpAddImm:
			value += z.Imm
		case OpSubImm:
			value -= z.Imm
		case OpMulImm:
			value *= z.Imm
		case OpDivImm:
			if z.Imm == 0 {
				return Instruction{}, false
			}
			value /= z.Imm
		}
		return Instruction{Op: OpSetImm, Dst: a.Dst, Imm: value}, true
	}

	switch {
	case a.Op == OpAddImm && z.Op == OpAddImm:
		return Instruction{Op: OpAddImm, Dst: a.Dst, Imm: a.Imm + z.Imm}, true
	case a.Op == OpAddImm && z.Op == OpSubImm:
		return Instruction{Op: OpAddImm, Dst: a.Dst, Imm: a.Imm - z.Imm}, true
	case a.Op == OpSubImm && z.Op == OpSubImm:
		return Instruction{Op: OpSubImm, Dst: a.Dst, Imm: a.Imm + z.Imm}, true
	case a.Op == OpSubImm && z.Op == OpAddImm:
		return Instruction{Op: OpSubImm, Dst: a.Dst, Imm: a.Imm - z.Imm}, true
	case a.Op == OpMulImm && z.Op == OpMulImm:
		return Instruction{Op: OpMulImm, Dst: a.Dst, Imm: a.Imm * z.Imm}, true
	}
	return Instruction{}, false
}

func isPureImm(op OpCode) bool {
	switch op {
	case OpAddImm, OpSubImm, OpMulImm, OpDivImm, OpSetImm:
		return true
	default:
		return false
	}
}

// mergeBlocks coalesces a block with its jump target when that target has
// no other predecessor. The entry block is never merged away.
func mergeBlocks(fn *Function) {
	for {
		preds := predecessorCounts(fn)
		merged := false
		for _, b := range fn.Blocks {
			if b.Term.Kind != TermJump {
				continue
			}
			s := b.Term.Then
			if s == b || s == fn.Blocks[0] || preds[s] != 1 {
				continue
			}
			b.Code = append(b.Code, s.Code...)
			b.Term = s.Term
			removeBlock(fn, s)
			merged = true
			break
		}
		if !merged {
			return
		}
	}
}

func predecessorCounts(fn *Function) map[*Block]int {
	preds := make(map[*Block]int, len(fn.Blocks))
	for _, b := range fn.Blocks {
		for _, s := range b.successors() {
			preds[s]++
		}
	}
	return preds
}

func removeBlock(fn *Function, victim *Block) {
	kept := make([]*Block, 0, len(fn.Blocks))
	for _, b := range fn.Blocks {
		if b != victim {
			kept = append(kept, b)
		}
	}
	fn.Blocks = kept
}
