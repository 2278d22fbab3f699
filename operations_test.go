package stratcomm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// callRecorder captures the backend calls a handler makes, so the table
// can be checked without running either real backend.
type callRecorder struct {
	calls  []string
	labels map[string]bool
}

func newCallRecorder(labels ...string) *callRecorder {
	m := make(map[string]bool, len(labels))
	for _, l := range labels {
		m[l] = true
	}
	return &callRecorder{labels: m}
}

func (r *callRecorder) record(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *callRecorder) HasRegister(name string) bool { return isRegisterName(name) }
func (r *callRecorder) HasLabel(name string) bool    { return r.labels[name] }

func (r *callRecorder) Transform(register string, t Transformation) error {
	if t.Operand.Kind == OperandRegister {
		r.record("transform %s %s %s", t.Op, register, t.Operand.Name)
	} else {
		r.record("transform %s %s %d", t.Op, register, t.Operand.Value)
	}
	return nil
}

func (r *callRecorder) Print(register string) error     { r.record("print %s", register); return nil }
func (r *callRecorder) Read(register string) error      { r.record("read %s", register); return nil }
func (r *callRecorder) Randomize(register string) error { r.record("rand %s", register); return nil }
func (r *callRecorder) Label(name string) error         { r.record("label %s", name); return nil }
func (r *callRecorder) Jump(label string) error         { r.record("jump %s", label); return nil }
func (r *callRecorder) JumpIfZero(register, label string) error {
	r.record("jz %s %s", register, label)
	return nil
}
func (r *callRecorder) JumpIfNegative(register, label string) error {
	r.record("jn %s %s", register, label)
	return nil
}

func TestDispatchTable(t *testing.T) {
	tests := []struct {
		line     string
		expected string
	}{
		{"moving forward, growth", "label growth"},
		{"going forward, growth", "label growth"},
		{"innovate assets", "transform add assets 1"},
		{"value-add assets", "transform add assets 1"},
		{"streamline assets", "transform sub assets 1"},
		{"optimize assets", "transform sub assets 1"},
		{"revamp assets", "transform mul assets -1"},
		{"overhaul assets", "transform mul assets -1"},
		{"amplify assets", "transform mul assets 2"},
		{"incentivize assets", "transform mul assets 2"},
		{"backburner assets", "transform div assets 2"},
		{"paradigm shift assets", "rand assets"},
		{"align assets with finance and legal", "transform set assets 42"},
		{"align assets with revenue streams", "transform set assets revenue streams"},
		{"align finance with assets", "transform set assets 4"},
		{"synergize assets and revenue streams", "transform add assets revenue streams"},
		{"integrate assets and revenue streams", "transform add assets revenue streams"},
		{"differentiate assets and revenue streams", "transform sub assets revenue streams"},
		{"crowdsource assets", "read assets"},
		{"deliver assets", "print assets"},
		{"produce assets", "print assets"},
		{"circle back to growth", "jump growth"},
		{"revisit growth", "jump growth"},
		{"pivot assets to growth", "jz assets growth"},
		{"restructure assets to growth", "jn assets growth"},
	}

	for _, tt := range tests {
		r := newCallRecorder("growth")
		err := dispatch(tt.line, 0, r)
		if err != nil {
			t.Errorf("dispatch(%q): unexpected error: %v", tt.line, err)
			continue
		}
		if len(r.calls) != 1 || r.calls[0] != tt.expected {
			t.Errorf("dispatch(%q): expected [%s], got %v", tt.line, tt.expected, r.calls)
		}
	}
}

// A label line whose text happens to start with another keyword must still
// dispatch as a label: the table is evaluated in priority order.
func TestDispatchLabelPriority(t *testing.T) {
	r := newCallRecorder()
	require.NoError(t, dispatch("moving forward, pivot assets", 0, r))
	require.Equal(t, []string{"label pivot assets"}, r.calls)
}

func TestDispatchUnknownInstruction(t *testing.T) {
	r := newCallRecorder()
	err := dispatch("leverage our synergies", 4, r)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnknownInstruction)

	var le *LineError
	require.ErrorAs(t, err, &le)
	require.Equal(t, 4, le.Line)
	require.Contains(t, err.Error(), "line 5:")
	require.Empty(t, r.calls)
}

func TestDispatchOperandErrors(t *testing.T) {
	tests := []struct {
		line string
		kind error
	}{
		{"innovate synergy", ErrInvalidOperand},                             // not a register
		{"deliver finance", ErrInvalidOperand},                              // literal, not register
		{"deliver assets and revenue streams", ErrInvalidOperand},           // too many operands
		{"synergize assets and finance", ErrInvalidOperand},                 // second must be a register
		{"synergize assets", ErrInvalidOperand},                             // too few operands
		{"align finance with legal", ErrInvalidOperand},                     // literal into literal
		{"pivot assets", ErrInvalidOperand},                                 // missing label
		{"pivot growth", ErrInvalidOperand},                                 // first must be a register
		{"pivot assets to nowhere", ErrUndefinedLabel},                      // label resolved at jump
		{"circle back to nowhere", ErrUndefinedLabel},                       //
		{"restructure assets to assets and assets", ErrInvalidOperand},      // label expected
		{"paradigm shift everything we know", ErrInvalidOperand},            // not a register
		{"crowdsource ideas", ErrInvalidOperand},                            // not a register
	}

	for _, tt := range tests {
		r := newCallRecorder("growth")
		err := dispatch(tt.line, 0, r)
		if err == nil {
			t.Errorf("dispatch(%q): expected error, got calls %v", tt.line, r.calls)
			continue
		}
		if !errors.Is(err, tt.kind) {
			t.Errorf("dispatch(%q): expected %v, got %v", tt.line, tt.kind, err)
		}
		// A failed instruction must not have touched the backend.
		if len(r.calls) != 0 {
			t.Errorf("dispatch(%q): backend was called before the error: %v", tt.line, r.calls)
		}
	}
}
