// Copyright (c) 2026 WJQserver, Kamihama Railway Group. All rights reserved.
// Licensed under the GNU Affero General Public License, version 3.0 (the "AGPL").

package stratcomm

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"unicode/utf8"
)

// Runtime bundles the three native support routines both backends call:
// printing one code point, reading one input byte, and drawing a random
// digit. Streams and the random source are injectable so tests can pin
// them down.
type Runtime struct {
	in   *bufio.Reader
	out  io.Writer
	rand func(n int) int
}

func NewRuntime(in io.Reader, out io.Writer) *Runtime {
	return &Runtime{
		in:   bufio.NewReader(in),
		out:  out,
		rand: rand.Intn,
	}
}

func DefaultRuntime() *Runtime {
	return NewRuntime(os.Stdin, os.Stdout)
}

// PrintValue writes the value as a single Unicode code point. Negative
// values, surrogates and values past the Unicode range are invalid.
func (rt *Runtime) PrintValue(value int32) error {
	if value < 0 || !utf8.ValidRune(rune(value)) {
		return fmt.Errorf("%w: %d does not correspond to a valid character", ErrInvalidCharacter, value)
	}
	_, err := io.WriteString(rt.out, string(rune(value)))
	return err
}

// ReadByte returns the next byte of input. Exhausted input, and any read
// failure, yields -1.
func (rt *Runtime) ReadByte() int32 {
	b, err := rt.in.ReadByte()
	if err != nil {
		return -1
	}
	return int32(b)
}

// RandomDigit returns a uniformly random value in [0, 9].
func (rt *Runtime) RandomDigit() int32 {
	return int32(rt.rand(10))
}
