package stratcomm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptimizePeepholeFoldsLiteralChains(t *testing.T) {
	fn := compileSource(t, `align assets with sales
innovate assets
innovate assets`)

	Optimize(fn, OptDefault)

	require.Len(t, fn.Blocks, 1)
	require.Equal(t, []Instruction{{Op: OpSetImm, Dst: 7, Imm: 9}}, fn.Blocks[0].Code)
}

func TestOptimizePeepholeDropsIdentities(t *testing.T) {
	fn := compileSource(t, `innovate assets
streamline assets`)

	Optimize(fn, OptDefault)

	// add 1 then sub 1 fuses to add 0, which is an identity.
	require.Len(t, fn.Blocks, 1)
	require.Empty(t, fn.Blocks[0].Code)
}

func TestOptimizePeepholeKeepsReaders(t *testing.T) {
	// The print between the two increments reads the intermediate value,
	// so nothing may fold across it.
	fn := compileSource(t, `align assets with sales and legal
deliver assets
innovate assets
deliver assets`)

	Optimize(fn, OptAggressive)

	require.Equal(t, []Instruction{
		{Op: OpSetImm, Dst: 7, Imm: 72},
		{Op: OpPrint, Dst: 7},
		{Op: OpAddImm, Dst: 7, Imm: 1},
		{Op: OpPrint, Dst: 7},
	}, fn.Blocks[0].Code)
}

func TestOptimizeRemovesUnreachableBlocks(t *testing.T) {
	fn := compileSource(t, `circle back to the end
deliver assets
moving forward, the end`)

	require.Len(t, fn.Blocks, 2)
	Optimize(fn, OptLess)

	// The jump threads into an empty returning block, leaving only entry.
	require.Len(t, fn.Blocks, 1)
	require.Equal(t, TermReturn, fn.Blocks[0].Term.Kind)
}

func TestOptimizeMergesStraightLineBlocks(t *testing.T) {
	fn := compileSource(t, `innovate assets
moving forward, the middle
innovate assets`)

	Optimize(fn, OptAggressive)

	require.Len(t, fn.Blocks, 1)
	require.Equal(t, []Instruction{{Op: OpAddImm, Dst: 7, Imm: 2}}, fn.Blocks[0].Code)
	require.Equal(t, TermReturn, fn.Blocks[0].Term.Kind)
}

func TestOptimizeKeepsLoops(t *testing.T) {
	const src = `align revenue streams with pr
moving forward, the loop
pivot revenue streams to wrap up
streamline revenue streams
circle back to the loop
moving forward, wrap up`

	for level := OptNone; level <= OptAggressive; level++ {
		fn := compileSource(t, src)
		Optimize(fn, level)

		// The loop's branch must survive at every level.
		var branches int
		for _, b := range fn.Blocks {
			if b.Term.Kind == TermBranch {
				branches++
			}
		}
		require.Equal(t, 1, branches, "level %v", level)
	}
}

func TestOptimizeEmptySelfLoopSurvivesThreading(t *testing.T) {
	fn := compileSource(t, `moving forward, forever
circle back to forever`)

	Optimize(fn, OptAggressive)

	// An intentional infinite loop is a legitimate program; threading
	// must not dissolve it.
	var loops int
	for _, b := range fn.Blocks {
		if b.Term.Kind == TermJump && b.Term.Then == b {
			loops++
		}
	}
	require.Equal(t, 1, loops)
}
