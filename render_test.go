package stratcomm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderTextListing(t *testing.T) {
	fn := compileSource(t, `innovate assets
moving forward, the loop
streamline assets
pivot assets to wrap up
circle back to the loop
moving forward, wrap up
deliver assets`)

	out := fn.Render()

	require.Contains(t, out, "function test:\n")
	require.Contains(t, out, "entry:\n\taddi assets, 1\n\tjump the loop\n")
	require.Contains(t, out, "the loop:\n\tsubi assets, 1\n\tbranch zero assets, wrap up, the loop'\n")
	require.Contains(t, out, "the loop':\n\tjump the loop\n")
	require.Contains(t, out, "wrap up:\n\tprint assets\n\treturn\n")
}

func TestRenderRegRegAndNativeForms(t *testing.T) {
	fn := compileSource(t, `synergize assets and return on investment
crowdsource revenue streams
paradigm shift best practices`)

	out := fn.Render()

	require.Contains(t, out, "add assets, return on investment")
	require.Contains(t, out, "read revenue streams")
	require.Contains(t, out, "rand best practices")
}

func TestTreeShowsEdgesAndBackReferences(t *testing.T) {
	fn := compileSource(t, `moving forward, the loop
streamline assets
pivot assets to wrap up
circle back to the loop
moving forward, wrap up`)

	out := fn.Tree().String()

	require.Contains(t, out, "entry (0 instructions)")
	require.Contains(t, out, "the loop (1 instructions)")
	require.Contains(t, out, "[zero]")
	require.Contains(t, out, "[jump]")
	require.Contains(t, out, "[else]")
	// The loop's back edge is a reference, not a second subtree.
	require.Contains(t, out, "-> the loop")
}
