// Copyright (c) 2026 WJQserver, Kamihama Railway Group. All rights reserved.
// Licensed under the GNU Affero General Public License, version 3.0 (the "AGPL").

package stratcomm

import (
	"errors"
	"fmt"
)

// Error kinds surfaced while running a program. Each fatal error aborts the
// run; nothing is retried.
var (
	ErrUnknownInstruction = errors.New("unknown instruction")
	ErrInvalidOperand     = errors.New("invalid operand")
	ErrUndefinedLabel     = errors.New("undefined label")
	ErrInvalidCharacter   = errors.New("invalid character")
	ErrUnknownRegister    = errors.New("unknown register")
)

// LineError ties an error kind to the 0-indexed source line it occurred on.
// It renders 1-indexed, which is what users see.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line+1, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

func lineErr(line int, kind error, format string, args ...any) error {
	args = append([]any{kind}, args...)
	return &LineError{Line: line, Err: fmt.Errorf("%w: "+format, args...)}
}

// DuplicateLabelError is a whole-program construction failure: the same
// label text was defined twice. Both defining lines are reported 1-indexed.
type DuplicateLabelError struct {
	Label  string
	First  int // 0-indexed line of the original definition
	Second int // 0-indexed line of the colliding definition
}

func (e *DuplicateLabelError) Error() string {
	return fmt.Sprintf("duplicate label %q defined on line %d and line %d",
		e.Label, e.First+1, e.Second+1)
}
